package main

import (
	"context"
	"fmt"

	"github.com/abdulachik/mediumup/internal/app"
	"github.com/abdulachik/mediumup/internal/config"
	"github.com/spf13/cobra"
)

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the Medium account behind MEDIUM_TOKEN",
	Long:  `Resolve the integration token to a Medium user without creating anything.`,
	RunE:  runMe,
}

func init() {
	rootCmd.AddCommand(meCmd)
}

func runMe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cmd.SilenceUsage = true

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	setupLogging(cfg.LogLevel)

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	identity, err := a.Me(ctx)
	if err != nil {
		return fmt.Errorf("resolve identity: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID: %s\n", identity.ID)
	if identity.Username != "" {
		fmt.Fprintf(out, "Username: %s\n", identity.Username)
	}
	if identity.Name != "" {
		fmt.Fprintf(out, "Name: %s\n", identity.Name)
	}
	if identity.URL != "" {
		fmt.Fprintf(out, "URL: %s\n", identity.URL)
	}

	return nil
}
