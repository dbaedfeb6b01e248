package app

import (
	"context"
	"log/slog"
	"time"
)

type snapshotRefresher interface {
	Refresh(ctx context.Context) error
}

// runRefresher rebuilds the top-sellers snapshot once after initialDelay and
// then every interval until ctx is canceled. It is the only writer of the
// snapshot. Failures are logged and retried on the next tick.
func runRefresher(ctx context.Context, r snapshotRefresher, initialDelay, interval time.Duration, logger *slog.Logger) {
	timer := time.NewTimer(initialDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	refresh := func() {
		if err := r.Refresh(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("top sellers refresh failed", slog.String("error", err.Error()))
		}
	}
	refresh()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}
