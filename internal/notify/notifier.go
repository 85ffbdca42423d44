package notify

import (
	"context"
	"log/slog"
)

// Notifier delivers per-user alerts. Implementations must be
// fire-and-forget: delivery failure is the notifier's problem, never the
// caller's.
type Notifier interface {
	Notify(ctx context.Context, userID, message string)
}

// LogNotifier writes notifications to the structured log. It stands in
// for a push/email delivery service.
type LogNotifier struct{}

// Notify implements Notifier.
func (LogNotifier) Notify(ctx context.Context, userID, message string) {
	slog.Info("Notification", "user_id", userID, "message", message)
}
