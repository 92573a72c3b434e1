package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leetplan/plansync/internal/models"
	"github.com/leetplan/plansync/internal/render"
)

// LoadCurrentDay asks the server for the current day and loads it. When
// the server cannot answer, the day is computed locally from the persisted
// start date instead.
func (e *Engine) LoadCurrentDay(ctx context.Context) error {
	day, err := e.bootstrap(ctx)
	if err != nil {
		slog.Warn("failed to load current day, using local calculation", "error", err)
		day = e.fallbackDay(ctx)
	}
	return e.LoadDay(ctx, day)
}

func (e *Engine) bootstrap(ctx context.Context) (int, error) {
	cd, err := e.api.CurrentDay(ctx)
	if err != nil {
		return 0, err
	}
	e.days.SetDates(cd.StartDate, cd.Today)
	slog.Debug("current day loaded",
		"day", cd.CurrentDay,
		"start_date", cd.StartDate.String(),
		"days_passed", cd.DaysPassed,
	)
	return cd.CurrentDay, nil
}

// fallbackDay reads the persisted start date, seeding it with today when
// absent, and returns clamp(floor(today - start) + 1, 1, 30). The start
// date is published so the calendar can build.
func (e *Engine) fallbackDay(ctx context.Context) int {
	today := e.today()
	start := today

	stored, ok, err := e.settings.GetStartDate(ctx)
	switch {
	case err != nil:
		slog.Warn("failed to read stored start date", "error", err)
	case ok:
		start = stored
	default:
		if err := e.settings.SetStartDate(ctx, today); err != nil {
			slog.Warn("failed to store start date", "error", err)
		}
	}

	e.days.SetDates(start, today)
	return render.FallbackDay(start, today)
}

// LoadDay fetches the plan for day and, once it arrives, makes day the
// active day and renders it, replacing the whole page. On failure nothing
// moves: the active day, the calendar marker and the page stay as they were
// and a blocking notice is raised.
func (e *Engine) LoadDay(ctx context.Context, day int) error {
	day = models.ClampDay(day)

	plan, err := e.api.Plan(ctx, day)
	if err != nil {
		slog.Error("failed to load plan", "day", day, "error", err)
		e.notify(NoticeBlocking, MsgPlanLoadFailed, err)
		return fmt.Errorf("%w: day %d: %w", ErrPlanLoad, day, err)
	}

	e.days.SetCurrentDay(day)
	e.calendar.setActive(day)
	start, _ := e.view.StartDate()
	e.page.replace(render.RenderDay(plan, start))
	return nil
}
