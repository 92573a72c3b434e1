package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leetplan/plansync/internal/render"
	"github.com/leetplan/plansync/pkg/client"
)

// ShowReview fetches and renders the review list
func (e *Engine) ShowReview(ctx context.Context) (*render.ReviewList, error) {
	entries, err := e.api.Review(ctx)
	if err != nil {
		return nil, e.listFailure("review", err, MsgReviewLoadFailed)
	}
	return render.RenderReview(entries), nil
}

// ShowDeferred fetches and renders the deferred list. The result is also
// kept as the current deferred list.
func (e *Engine) ShowDeferred(ctx context.Context) (*render.DeferredList, error) {
	entries, err := e.api.Deferred(ctx)
	if err != nil {
		return nil, e.listFailure("deferred", err, MsgDeferredLoad)
	}
	list := render.RenderDeferred(entries)

	e.mu.Lock()
	e.deferred = list
	e.mu.Unlock()
	return list, nil
}

// listFailure reports a list that could not be shown. A response of the
// wrong shape gets its own notice.
func (e *Engine) listFailure(list string, err error, message string) error {
	slog.Error("failed to load list", "list", list, "error", err)
	if errors.Is(err, client.ErrMalformedResponse) {
		e.notify(NoticeError, MsgInvalidFormat, err)
		return fmt.Errorf("%w: %s: %w", ErrMalformedList, list, err)
	}
	e.notify(NoticeError, message, err)
	return fmt.Errorf("%w: %s: %w", ErrListLoad, list, err)
}

// Defer hides a question from its day until restored
func (e *Engine) Defer(ctx context.Context, questionID int) error {
	if err := e.api.Defer(ctx, questionID); err != nil {
		slog.Error("failed to defer question", "question_id", questionID, "error", err)
		e.notify(NoticeError, failureMessage(err, MsgDeferFailed), err)
		return fmt.Errorf("%w: defer %d: %w", ErrMutation, questionID, err)
	}

	_ = e.LoadDay(ctx, e.view.CurrentDay())
	if err := e.LoadStatistics(ctx); err != nil {
		slog.Warn("statistics not refreshed", "error", err)
	}
	e.notify(NoticeInfo, MsgDeferred, nil)
	return nil
}

// Undefer restores a deferred question to its day
func (e *Engine) Undefer(ctx context.Context, questionID int) error {
	if err := e.undefer(ctx, questionID); err != nil {
		return err
	}

	_, _ = e.ShowDeferred(ctx)
	_ = e.LoadDay(ctx, e.view.CurrentDay())
	e.notify(NoticeInfo, MsgRestored, nil)
	return nil
}

// UndeferAndComplete restores a deferred question and then marks it
// complete. The completion is only sent once the restore has succeeded.
func (e *Engine) UndeferAndComplete(ctx context.Context, questionID int, correct bool) error {
	if err := e.undefer(ctx, questionID); err != nil {
		return err
	}

	err := e.MarkComplete(ctx, questionID, correct)
	_, _ = e.ShowDeferred(ctx)
	return err
}

func (e *Engine) undefer(ctx context.Context, questionID int) error {
	if err := e.api.Undefer(ctx, questionID); err != nil {
		slog.Error("failed to undefer question", "question_id", questionID, "error", err)
		e.notify(NoticeError, failureMessage(err, MsgRestoreFailed), err)
		return fmt.Errorf("%w: undefer %d: %w", ErrMutation, questionID, err)
	}
	return nil
}
