package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leetplan/plansync/internal/models"
)

// MarkComplete records a completed attempt
func (e *Engine) MarkComplete(ctx context.Context, questionID int, correct bool) error {
	if err := e.api.SetProgress(ctx, questionID, &correct); err != nil {
		slog.Error("failed to mark complete", "question_id", questionID, "correct", correct, "error", err)
		e.notify(NoticeError, failureMessage(err, MsgUpdateFailed), err)
		return fmt.Errorf("%w: mark %d complete: %w", ErrMutation, questionID, err)
	}
	e.afterProgress(ctx, questionID, true, models.CorrectnessOf(correct))
	return nil
}

// MarkIncomplete undoes a completion
func (e *Engine) MarkIncomplete(ctx context.Context, questionID int) error {
	if err := e.api.SetProgress(ctx, questionID, nil); err != nil {
		slog.Error("failed to undo", "question_id", questionID, "error", err)
		e.notify(NoticeError, failureMessage(err, MsgUndoFailed), err)
		return fmt.Errorf("%w: undo %d: %w", ErrMutation, questionID, err)
	}
	e.afterProgress(ctx, questionID, false, models.Unset)
	return nil
}

// afterProgress patches a review card in place; any other change reloads
// the day since it can move counters and carried-over problems. Statistics
// and the active day's calendar mark are refreshed either way.
func (e *Engine) afterProgress(ctx context.Context, questionID int, completed bool, result models.Correctness) {
	if e.page.patchReview(questionID, completed, result) {
		slog.Debug("review card patched", "question_id", questionID, "completed", completed)
	} else {
		// Failure is already reported by LoadDay
		_ = e.LoadDay(ctx, e.view.CurrentDay())
	}

	if err := e.LoadStatistics(ctx); err != nil {
		slog.Warn("statistics not refreshed", "error", err)
	}
	e.RefreshDayBadge(ctx)
}
