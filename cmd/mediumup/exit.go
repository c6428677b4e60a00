package main

import (
	"errors"
	"fmt"

	"github.com/abdulachik/mediumup/internal/app"
	"github.com/abdulachik/mediumup/internal/article"
	"github.com/abdulachik/mediumup/internal/poster"
)

// Process exit codes.
const (
	exitOK        = 0
	exitFailure   = 1
	exitFileError = 3
	exitTransport = 4
	exitAPI       = 5
	exitDuplicate = 6
)

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var (
		fileErr      *article.FileError
		transportErr *poster.TransportError
		apiErr       *poster.APIError
	)

	switch {
	case errors.As(err, &fileErr), errors.Is(err, article.ErrNotMarkdown):
		return exitFileError
	case errors.As(err, &transportErr):
		return exitTransport
	case errors.As(err, &apiErr):
		return exitAPI
	case errors.Is(err, app.ErrAlreadyPublished):
		return exitDuplicate
	default:
		return exitFailure
	}
}

// describeError adds operator guidance to publish failures.
func describeError(err error) error {
	var (
		transportErr *poster.TransportError
		apiErr       *poster.APIError
	)

	switch {
	case errors.As(err, &transportErr) && transportErr.Op == "create post":
		// The request may have reached Medium before the connection failed.
		return fmt.Errorf("publish failed, outcome unknown: %w (check your Medium drafts before retrying, the article may already exist)", err)
	case errors.As(err, &transportErr), errors.As(err, &apiErr):
		return fmt.Errorf("publish failed: %w", err)
	case errors.Is(err, app.ErrAlreadyPublished):
		return fmt.Errorf("%w; pass --allow-duplicate to publish anyway", err)
	default:
		return err
	}
}
