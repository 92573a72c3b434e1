package engine

import (
	"context"
	"fmt"

	"github.com/leetplan/plansync/internal/render"
)

// Command is one user interaction addressed to a question
type Command struct {
	Action     render.ActionKind
	QuestionID int
	// Correct is the answer for restore-and-complete
	Correct bool
	// Text is the note body for save-note
	Text string
}

type handler func(e *Engine, ctx context.Context, cmd Command) error

var handlers = map[render.ActionKind]handler{
	render.ActionComplete: func(e *Engine, ctx context.Context, cmd Command) error {
		return e.MarkComplete(ctx, cmd.QuestionID, true)
	},
	render.ActionWrong: func(e *Engine, ctx context.Context, cmd Command) error {
		return e.MarkComplete(ctx, cmd.QuestionID, false)
	},
	render.ActionUndo: func(e *Engine, ctx context.Context, cmd Command) error {
		return e.MarkIncomplete(ctx, cmd.QuestionID)
	},
	render.ActionDefer: func(e *Engine, ctx context.Context, cmd Command) error {
		return e.Defer(ctx, cmd.QuestionID)
	},
	render.ActionRestore: func(e *Engine, ctx context.Context, cmd Command) error {
		return e.Undefer(ctx, cmd.QuestionID)
	},
	render.ActionRestoreComplete: func(e *Engine, ctx context.Context, cmd Command) error {
		return e.UndeferAndComplete(ctx, cmd.QuestionID, cmd.Correct)
	},
	render.ActionToggleNote: func(e *Engine, _ context.Context, cmd Command) error {
		_, err := e.ToggleNote(cmd.QuestionID)
		return err
	},
	render.ActionSaveNote: func(e *Engine, ctx context.Context, cmd Command) error {
		return e.SaveNote(ctx, cmd.QuestionID, cmd.Text)
	},
}

// Dispatch runs the operation bound to a command's action
func (e *Engine) Dispatch(ctx context.Context, cmd Command) error {
	h, ok := handlers[cmd.Action]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
	}
	return h(e, ctx, cmd)
}
