package notify

import (
	"context"
	"errors"
)

// Notification describes a published article.
type Notification struct {
	Title         string
	URL           string
	PostID        string
	PublishStatus string
	FilePath      string
}

// Notifier is the interface for reporting a publish.
type Notifier interface {
	// Send sends a notification.
	Send(ctx context.Context, notification Notification) error
}

// Multi fans a notification out to every notifier, returning all failures.
type Multi []Notifier

// Send sends the notification to each notifier in order.
func (m Multi) Send(ctx context.Context, notification Notification) error {
	var errs []error
	for _, n := range m {
		if err := n.Send(ctx, notification); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
