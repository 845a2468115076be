package notifier

import (
	"context"
	"log/slog"
)

// LogNotifier writes notifications to the log instead of delivering them,
// it backs the --dry-run mode.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(ctx context.Context, msg Message) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "notification (dry run)", "subject", msg.Subject, "body", msg.Body)
	return nil
}
