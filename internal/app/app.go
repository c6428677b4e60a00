package app

import (
	"context"
	"fmt"

	"github.com/abdulachik/mediumup/internal/config"
	"github.com/abdulachik/mediumup/internal/history"
	"github.com/abdulachik/mediumup/internal/notify"
	"github.com/abdulachik/mediumup/internal/poster"
)

// App is the main application container holding all dependencies.
type App struct {
	Config   *config.Config
	Poster   poster.Poster
	History  *history.Store // nil until OpenHistory, or when history is disabled
	Notifier notify.Notifier
}

// New creates a new application instance with all dependencies wired up.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	mediumPoster := poster.NewMediumPoster(poster.MediumConfig{
		Token:   cfg.MediumToken,
		BaseURL: cfg.MediumAPIURL,
		Timeout: cfg.Timeout,
	})

	notifiers := notify.Multi{notify.NewLogNotifier(nil)}
	if cfg.GitHubOutput != "" || cfg.GitHubStepSummary != "" {
		notifiers = append(notifiers, notify.NewGitHubNotifier(notify.GitHubConfig{
			OutputPath:  cfg.GitHubOutput,
			SummaryPath: cfg.GitHubStepSummary,
		}))
	}

	return &App{
		Config:   cfg,
		Poster:   mediumPoster,
		Notifier: notifiers,
	}, nil
}

// OpenHistory opens and migrates the history database on first use. It
// returns nil when history is disabled.
func (a *App) OpenHistory(ctx context.Context) (*history.Store, error) {
	if a.History != nil || !a.Config.HistoryEnabled() {
		return a.History, nil
	}

	store, err := history.NewStore(ctx, a.Config.HistoryPath)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("migrate history: %w", err)
	}

	a.History = store
	return store, nil
}

// Close closes all resources.
func (a *App) Close() error {
	if a.History != nil {
		return a.History.Close()
	}
	return nil
}

// Me resolves the identity behind the configured token.
func (a *App) Me(ctx context.Context) (*poster.Identity, error) {
	return a.Poster.ResolveIdentity(ctx)
}
