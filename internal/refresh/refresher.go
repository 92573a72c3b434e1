// Package refresh keeps a long-running view current: a ticker re-pulls the
// header statistics and the active day's calendar mark, and a daily cron
// job moves the view to the new current day after the rollover time.
package refresh

import (
	"context"
	"log/slog"
	"time"
)

// DefaultInterval is used when no positive interval is configured
const DefaultInterval = time.Minute

// Target is what the refresher re-pulls
type Target interface {
	LoadStatistics(ctx context.Context) error
	RefreshDayBadge(ctx context.Context)
}

// Refresher handles periodic refresh of the header and calendar mark
type Refresher struct {
	target   Target
	interval time.Duration
}

// NewRefresher creates a new refresh worker
func NewRefresher(target Target, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Refresher{
		target:   target,
		interval: interval,
	}
}

// Start begins the refresh worker in a goroutine
func (r *Refresher) Start(ctx context.Context) {
	go r.run(ctx)
}

func (r *Refresher) run(ctx context.Context) {
	slog.Info("refresh worker started", "interval", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("refresh worker stopped")
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	slog.Debug("running refresh cycle")

	if err := r.target.LoadStatistics(ctx); err != nil {
		// Already logged by the engine; the header keeps its values
		return
	}
	r.target.RefreshDayBadge(ctx)
}
