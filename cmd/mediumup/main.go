package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mediumup",
	Short: "Upload Markdown articles to Medium as drafts",
	Long: `mediumup reads a local Markdown file and creates a draft post on Medium
using an integration token from MEDIUM_TOKEN.

Outside GitHub Actions a local .env file is loaded first.`,
}

func init() {
	setupLogging(os.Getenv("LOG_LEVEL"))
}

// setupLogging installs the default logger. It runs again once config is
// loaded so LOG_LEVEL from .env takes effect.
func setupLogging(logLevel string) {
	level := slog.LevelInfo
	if logLevel == "debug" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}
