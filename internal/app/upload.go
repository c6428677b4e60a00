package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abdulachik/mediumup/internal/article"
	"github.com/abdulachik/mediumup/internal/history"
	"github.com/abdulachik/mediumup/internal/notify"
	"github.com/abdulachik/mediumup/internal/poster"
)

// ErrAlreadyPublished matches a DuplicateError.
var ErrAlreadyPublished = errors.New("content already published")

// DuplicateError is returned when the history shows the same file content
// was already published.
type DuplicateError struct {
	Previous *history.Publication
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s on %s as %s", ErrAlreadyPublished, e.Previous.CreatedAt.Format("2006-01-02 15:04"), e.Previous.PostURL)
}

func (e *DuplicateError) Is(target error) bool { return target == ErrAlreadyPublished }

// Status is how an upload ended when it did not fail.
type Status string

const (
	StatusPublished          Status = "published"
	StatusSkippedNotMarkdown Status = "skipped_not_markdown"
	StatusSkippedEmpty       Status = "skipped_empty"
)

// UploadInput is everything an upload needs besides configuration.
type UploadInput struct {
	FilePath string
	Title    string
	Tags     []string

	ContentFormat    string // markdown (default) or html
	StripFrontMatter bool
	CanonicalURL     string
	NotifyFollowers  *bool
	AllowDuplicate   bool
}

// Outcome is the result of an upload that did not fail.
type Outcome struct {
	Status Status
	URL    string
	Result *poster.PostResult
	Source *article.Source
}

// Upload publishes a Markdown file as a draft. Files that are not Markdown
// or have no content are skipped without any network call.
func (a *App) Upload(ctx context.Context, in UploadInput) (*Outcome, error) {
	src, err := article.Load(in.FilePath, article.Options{StripFrontMatter: in.StripFrontMatter})
	switch {
	case errors.Is(err, article.ErrNotMarkdown):
		slog.Debug("skipping non-markdown file", "file", in.FilePath)
		return &Outcome{Status: StatusSkippedNotMarkdown}, nil
	case article.IsKind(err, article.KindEmpty):
		slog.Debug("skipping empty file", "file", in.FilePath)
		return &Outcome{Status: StatusSkippedEmpty}, nil
	case err != nil:
		return nil, err
	}

	tags := in.Tags
	canonicalURL := in.CanonicalURL
	if src.FrontMatter != nil {
		tags = poster.MergeTags(tags, src.FrontMatter.Tags)
		if canonicalURL == "" {
			canonicalURL = src.FrontMatter.CanonicalURL
		}
	}

	format := in.ContentFormat
	if format == "" {
		format = poster.FormatMarkdown
	}

	content, err := poster.FormatContent(src.Content, format)
	if err != nil {
		return nil, fmt.Errorf("format content: %w", err)
	}

	art := poster.Article{
		Title:           in.Title,
		Content:         content,
		Tags:            tags,
		PublishStatus:   poster.StatusDraft,
		ContentFormat:   format,
		CanonicalURL:    canonicalURL,
		NotifyFollowers: in.NotifyFollowers,
	}
	if err := art.Validate(); err != nil {
		return nil, fmt.Errorf("invalid article: %w", err)
	}

	// History is only touched once there is an article to publish.
	store, err := a.OpenHistory(ctx)
	if err != nil {
		return nil, err
	}

	if store != nil && !in.AllowDuplicate {
		prev, err := store.FindByHash(ctx, src.Hash)
		if err != nil {
			return nil, fmt.Errorf("check history: %w", err)
		}
		if prev != nil {
			return nil, &DuplicateError{Previous: prev}
		}
	}

	slog.Info("publishing article",
		"file", src.Path,
		"title", art.Title,
		"tags", art.Tags,
		"format", art.ContentFormat,
	)

	result, err := a.Poster.Post(ctx, art)
	if err != nil {
		return nil, err
	}

	if store != nil {
		_, err := store.Record(ctx, history.Publication{
			FilePath:      src.Path,
			Title:         art.Title,
			ContentHash:   src.Hash,
			Tags:          art.Tags,
			PostID:        result.PostID,
			PostURL:       result.PostURL,
			AuthorID:      result.AuthorID,
			PublishStatus: art.PublishStatus,
		})
		if err != nil {
			slog.Warn("failed to record publication", "error", err)
		}
	}

	if a.Notifier != nil {
		err := a.Notifier.Send(ctx, notify.Notification{
			Title:         art.Title,
			URL:           result.PostURL,
			PostID:        result.PostID,
			PublishStatus: art.PublishStatus,
			FilePath:      src.Path,
		})
		if err != nil {
			slog.Warn("failed to send notification", "error", err)
		}
	}

	return &Outcome{
		Status: StatusPublished,
		URL:    result.PostURL,
		Result: result,
		Source: src,
	}, nil
}
