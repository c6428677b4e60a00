package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdulachik/mediumup/internal/app"
	"github.com/abdulachik/mediumup/internal/article"
	"github.com/abdulachik/mediumup/internal/config"
	"github.com/abdulachik/mediumup/internal/poster"
	"github.com/spf13/cobra"
)

var (
	uploadFile             string
	uploadTitle            string
	uploadTags             string
	uploadTimeout          time.Duration
	uploadFormat           string
	uploadStripFrontMatter bool
	uploadCanonicalURL     string
	uploadNotifyFollowers  bool
	uploadAllowDuplicate   bool
	uploadStrict           bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a Markdown file as a draft",
	Long: `Create a new draft post on Medium from a local Markdown file.

Every successful upload creates a new draft. Files that do not end in .md and
empty files are skipped unless --strict is set.

Examples:
  mediumup upload -f post.md -t "Hello World" --tags go,cli
  mediumup upload -f post.md -t "Hello World" --tags go --format html
  mediumup upload -f post.md -t "Hello World" --tags go --strip-front-matter`,
	RunE: runUpload,
}

func init() {
	flags := uploadCmd.Flags()
	flags.StringVarP(&uploadFile, "file", "f", "", "File to upload")
	flags.StringVarP(&uploadTitle, "title", "t", "", "Title of the article")
	flags.StringVar(&uploadTags, "tags", "", "Comma-separated list of tags")
	flags.DurationVar(&uploadTimeout, "timeout", 0, "Per-request timeout (default MEDIUM_TIMEOUT or 10s)")
	flags.StringVar(&uploadFormat, "format", poster.FormatMarkdown, "Content format sent to Medium: markdown or html")
	flags.BoolVar(&uploadStripFrontMatter, "strip-front-matter", false, "Remove YAML/TOML front matter and use its tags and canonical_url")
	flags.StringVar(&uploadCanonicalURL, "canonical-url", "", "Original location of the article")
	flags.BoolVar(&uploadNotifyFollowers, "notify-followers", false, "Ask Medium to notify followers")
	flags.BoolVar(&uploadAllowDuplicate, "allow-duplicate", false, "Upload even if the history shows this content was already published")
	flags.BoolVar(&uploadStrict, "strict", false, "Fail instead of skipping non-markdown or empty files")

	_ = uploadCmd.MarkFlagRequired("file")
	_ = uploadCmd.MarkFlagRequired("title")
	_ = uploadCmd.MarkFlagRequired("tags")

	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("timeout") && uploadTimeout <= 0 {
		return fmt.Errorf("--timeout must be positive, got %s", uploadTimeout)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Flags parsed; from here on errors are not usage errors.
	cmd.SilenceUsage = true

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	setupLogging(cfg.LogLevel)
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = uploadTimeout
	}

	if cfg.MediumToken == "" {
		slog.Warn("MEDIUM_TOKEN is not set, Medium will reject the request")
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	in := app.UploadInput{
		FilePath:         uploadFile,
		Title:            uploadTitle,
		Tags:             poster.ParseTags(uploadTags),
		ContentFormat:    uploadFormat,
		StripFrontMatter: uploadStripFrontMatter,
		CanonicalURL:     uploadCanonicalURL,
		AllowDuplicate:   uploadAllowDuplicate,
	}
	if cmd.Flags().Changed("notify-followers") {
		notify := uploadNotifyFollowers
		in.NotifyFollowers = &notify
	}

	outcome, err := a.Upload(ctx, in)
	if err != nil {
		return describeError(err)
	}

	out := cmd.OutOrStdout()
	switch outcome.Status {
	case app.StatusSkippedNotMarkdown:
		if uploadStrict {
			return fmt.Errorf("%w: %s", article.ErrNotMarkdown, uploadFile)
		}
		fmt.Fprintf(out, "Skipping %s: only %s files are uploaded\n", uploadFile, article.Extension)
	case app.StatusSkippedEmpty:
		if uploadStrict {
			return &article.FileError{Path: uploadFile, Kind: article.KindEmpty}
		}
		fmt.Fprintln(out, "No contents found")
	default:
		fmt.Fprintf(out, "New article URL: %s\n", outcome.URL)
	}

	return nil
}
