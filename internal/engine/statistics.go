package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leetplan/plansync/internal/render"
)

// LoadStatistics refreshes the cached global statistics. Failures are
// logged only; the header keeps its previous values.
func (e *Engine) LoadStatistics(ctx context.Context) error {
	stats, err := e.api.Statistics(ctx)
	if err != nil {
		slog.Error("failed to load statistics", "error", err)
		return fmt.Errorf("load statistics: %w", err)
	}
	e.stats.SetStatistics(*stats)
	return nil
}

// Header returns the header counters from the cached statistics
func (e *Engine) Header() (render.Header, bool) {
	stats, ok := e.view.Statistics()
	if !ok {
		return render.Header{}, false
	}
	return render.HeaderFrom(stats), true
}

// ShowStatistics refreshes the statistics and renders the full panel. When
// the refresh fails the cached values are shown if there are any.
func (e *Engine) ShowStatistics(ctx context.Context) (render.StatisticsView, error) {
	err := e.LoadStatistics(ctx)
	stats, ok := e.view.Statistics()
	if !ok {
		e.notify(NoticeError, MsgStatisticsFailed, err)
		return render.StatisticsView{}, err
	}
	return render.RenderStatistics(stats), nil
}
