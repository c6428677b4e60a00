package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/abdulachik/mediumup/internal/config"
	"github.com/abdulachik/mediumup/internal/history"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded uploads",
	Long:  `List the uploads recorded in the history database at HISTORY_PATH, newest first.`,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of entries to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cmd.SilenceUsage = true

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	setupLogging(cfg.LogLevel)

	if err := cfg.ValidateForHistory(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	store, err := history.NewStore(ctx, cfg.HistoryPath)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	pubs, err := store.List(ctx, historyLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(pubs) == 0 {
		fmt.Fprintln(out, "No uploads recorded.")
		return nil
	}

	for _, p := range pubs {
		fmt.Fprintf(out, "%s  %-8s  %s\n", p.CreatedAt.Local().Format("2006-01-02 15:04"), p.PublishStatus, p.Title)
		fmt.Fprintf(out, "    %s\n", p.PostURL)
		if p.FilePath != "" {
			fmt.Fprintf(out, "    file: %s", p.FilePath)
			if len(p.Tags) > 0 {
				fmt.Fprintf(out, "  tags: %s", strings.Join(p.Tags, ", "))
			}
			fmt.Fprintln(out)
		}
	}

	return nil
}
