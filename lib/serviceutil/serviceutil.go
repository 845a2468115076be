package serviceutil

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// SignalContext is cancelled on the first SIGINT or SIGTERM. A second signal
// falls through to the default handler and kills the process, so a stuck
// shutdown can still be interrupted.
func SignalContext() context.Context {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx
}

// Fatal logs `err` and exits with status 1.
func Fatal(message string, err error) {
	attrs := []any{}
	if err != nil {
		attrs = append(attrs, slog.String("err", err.Error()))
	}
	slog.Error(message, attrs...)
	os.Exit(1)
}
