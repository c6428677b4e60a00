package notify

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// GitHubNotifier writes the publish result to GitHub Actions step outputs
// and the job summary. Paths left empty are skipped.
type GitHubNotifier struct {
	outputPath  string
	summaryPath string
}

// GitHubConfig holds the files GitHub Actions exposes to a step.
type GitHubConfig struct {
	OutputPath  string // $GITHUB_OUTPUT
	SummaryPath string // $GITHUB_STEP_SUMMARY
}

// NewGitHubNotifier creates a new GitHub Actions notifier.
func NewGitHubNotifier(cfg GitHubConfig) *GitHubNotifier {
	return &GitHubNotifier{
		outputPath:  cfg.OutputPath,
		summaryPath: cfg.SummaryPath,
	}
}

// Send appends url, post_id and publish_status outputs and a summary line.
func (g *GitHubNotifier) Send(ctx context.Context, notification Notification) error {
	if g.outputPath != "" {
		var b strings.Builder
		writeOutput(&b, "url", notification.URL)
		writeOutput(&b, "post_id", notification.PostID)
		writeOutput(&b, "publish_status", notification.PublishStatus)
		if err := appendFile(g.outputPath, b.String()); err != nil {
			return fmt.Errorf("write step output: %w", err)
		}
	}

	if g.summaryPath != "" {
		summary := fmt.Sprintf("### Medium %s created\n\n[%s](%s)\n\n", notification.PublishStatus, notification.Title, notification.URL)
		if err := appendFile(g.summaryPath, summary); err != nil {
			return fmt.Errorf("write step summary: %w", err)
		}
	}

	return nil
}

// writeOutput writes key=value, stripping newlines that would end the value.
func writeOutput(b *strings.Builder, key, value string) {
	value = strings.NewReplacer("\r", "", "\n", "").Replace(value)
	fmt.Fprintf(b, "%s=%s\n", key, value)
}

func appendFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
