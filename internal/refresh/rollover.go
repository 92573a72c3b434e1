package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/leetplan/plansync/internal/config"
)

// DayLoader re-resolves and loads the current day
type DayLoader interface {
	LoadCurrentDay(ctx context.Context) error
}

// Rollover reloads the current day once a day at a fixed local time
type Rollover struct {
	cron   *cron.Cron
	loader DayLoader
	ctx    context.Context
}

// NewRollover creates a rollover job running at clock ("HH:MM") in loc.
// The job uses ctx for its requests.
func NewRollover(ctx context.Context, loader DayLoader, clock string, loc *time.Location) (*Rollover, error) {
	if loc == nil {
		loc = time.Local
	}
	spec, err := dailySpec(clock)
	if err != nil {
		return nil, err
	}

	r := &Rollover{
		cron:   cron.New(cron.WithLocation(loc), cron.WithSeconds()),
		loader: loader,
		ctx:    ctx,
	}
	if _, err := r.cron.AddFunc(spec, r.run); err != nil {
		return nil, fmt.Errorf("schedule rollover: %w", err)
	}
	return r, nil
}

// Start starts the scheduler in its own goroutine
func (r *Rollover) Start() {
	r.cron.Start()
}

// Stop stops the scheduler and waits for a running job to finish
func (r *Rollover) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

// Next returns the next scheduled run. It is zero until Start.
func (r *Rollover) Next() time.Time {
	entries := r.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (r *Rollover) run() {
	if r.ctx.Err() != nil {
		return
	}
	slog.Info("day rollover")
	if err := r.loader.LoadCurrentDay(r.ctx); err != nil {
		slog.Error("rollover failed to load the current day", "error", err)
	}
}

// dailySpec converts "HH:MM" to a seconds-first cron spec
func dailySpec(clock string) (string, error) {
	hour, minute, err := config.ParseClock(clock)
	if err != nil {
		return "", err
	}
	// second minute hour dom month dow
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}
