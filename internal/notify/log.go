package notify

import (
	"context"
	"log/slog"
)

// LogNotifier reports publishes through the structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that logs to logger, or to the default
// logger when nil.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Send logs the notification.
func (l *LogNotifier) Send(ctx context.Context, notification Notification) error {
	l.logger.InfoContext(ctx, "article published",
		"title", notification.Title,
		"url", notification.URL,
		"status", notification.PublishStatus,
		"file", notification.FilePath,
	)
	return nil
}
