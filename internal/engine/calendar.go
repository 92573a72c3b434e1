package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/leetplan/plansync/internal/models"
	"github.com/leetplan/plansync/internal/render"
)

type calendar struct {
	mu      sync.RWMutex
	entries []render.CalendarEntry
	wg      sync.WaitGroup
}

func (c *calendar) set(entries []render.CalendarEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = entries
}

func (c *calendar) snapshot() []render.CalendarEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]render.CalendarEntry(nil), c.entries...)
}

func (c *calendar) setActive(day int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.entries {
		c.entries[i].IsActive = c.entries[i].Day == day
	}
}

func (c *calendar) setCompleted(day int, completed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.entries {
		if c.entries[i].Day == day {
			c.entries[i].IsCompleted = completed
			return
		}
	}
}

// Calendar returns a copy of the calendar grid. It is empty until
// BuildCalendar has run.
func (e *Engine) Calendar() []render.CalendarEntry {
	return e.calendar.snapshot()
}

// BuildCalendar renders the 30-day grid. It waits for the start date to
// become known, polling every calendar retry interval, and fails only when
// ctx ends first. Completion marks are filled in by background checks;
// use Wait to block until they finish.
func (e *Engine) BuildCalendar(ctx context.Context) error {
	start, err := e.waitForStartDate(ctx)
	if err != nil {
		return err
	}

	today, ok := e.view.Today()
	if !ok {
		today = e.today()
	}

	e.calendar.set(render.BuildCalendar(start, today, e.view.CurrentDay()))

	bg := context.WithoutCancel(ctx)
	for day := models.FirstDay; day <= models.LastDay; day++ {
		e.checkDay(bg, day)
	}
	return nil
}

func (e *Engine) waitForStartDate(ctx context.Context) (models.Date, error) {
	for {
		if start, ok := e.view.StartDate(); ok {
			return start, nil
		}
		select {
		case <-ctx.Done():
			return models.Date{}, ctx.Err()
		case <-time.After(e.calendarRetry):
		}
	}
}

// RefreshDayBadge re-checks the completion mark of the active day in the
// background.
func (e *Engine) RefreshDayBadge(ctx context.Context) {
	e.checkDay(context.WithoutCancel(ctx), e.view.CurrentDay())
}

// checkDay annotates one calendar entry. A failed check leaves the entry
// not completed. Concurrent checks of one day race; the last one wins.
func (e *Engine) checkDay(ctx context.Context, day int) {
	e.calendar.wg.Add(1)
	go func() {
		defer e.calendar.wg.Done()

		completed := false
		plan, err := e.api.Plan(ctx, day)
		if err != nil {
			slog.Debug("day completion check failed", "day", day, "error", err)
		} else {
			completed = plan.Statistics.DayCompleted()
		}
		e.calendar.setCompleted(day, completed)
	}()
}
