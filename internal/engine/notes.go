package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leetplan/plansync/internal/render"
)

// ToggleNote opens or closes the note editor of a card and returns the new
// state.
func (e *Engine) ToggleNote(questionID int) (bool, error) {
	var open bool
	if _, ok := e.page.update(questionID, func(c *render.CardView) {
		c.Note.Open = !c.Note.Open
		open = c.Note.Open
	}); !ok {
		return false, fmt.Errorf("%w: %d", ErrUnknownQuestion, questionID)
	}
	return open, nil
}

// SaveNote persists a note; an empty text removes it. Only the card's
// preview and icon change, and its saved flag is raised for the flash
// interval. The day is not reloaded.
func (e *Engine) SaveNote(ctx context.Context, questionID int, text string) error {
	if err := e.api.SaveNote(ctx, questionID, text); err != nil {
		slog.Error("failed to save note", "question_id", questionID, "error", err)
		e.notify(NoticeError, MsgNoteSaveFailed, err)
		return fmt.Errorf("%w: save note %d: %w", ErrMutation, questionID, err)
	}

	gen, ok := e.page.update(questionID, func(c *render.CardView) {
		render.PatchNote(c, text)
		c.Note.Saved = true
	})
	if ok {
		time.AfterFunc(e.noteSavedFlash, func() {
			e.page.updateIn(gen, questionID, func(c *render.CardView) {
				c.Note.Saved = false
			})
		})
	}
	return nil
}

// LoadNote fetches a note from the server and refreshes the card's copy
func (e *Engine) LoadNote(ctx context.Context, questionID int) (string, error) {
	text, err := e.api.Note(ctx, questionID)
	if err != nil {
		slog.Error("failed to load note", "question_id", questionID, "error", err)
		e.notify(NoticeError, MsgNoteLoadFailed, err)
		return "", fmt.Errorf("load note %d: %w", questionID, err)
	}
	e.page.update(questionID, func(c *render.CardView) {
		render.PatchNote(c, text)
	})
	return text, nil
}
