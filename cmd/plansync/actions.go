package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leetplan/plansync/internal/engine"
	"github.com/leetplan/plansync/internal/render"
	"github.com/leetplan/plansync/internal/termui"
)

// cardAction builds a command that loads a day, runs one card action and
// prints the card afterwards.
func cardAction(use, short string, action render.ActionKind) *cobra.Command {
	var day int
	cmd := &cobra.Command{
		Use:   use + " QUESTION_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := questionID(args[0])
			if err != nil {
				return err
			}
			// Review cards are patched in place only when they are on the page
			if err := loadDay(cmd.Context(), day); err != nil {
				return err
			}
			if err := eng.Dispatch(cmd.Context(), engine.Command{Action: action, QuestionID: id}); err != nil {
				return err
			}
			eng.Wait()

			if card, ok := eng.Card(id); ok {
				printOut(cmd, termui.Card(card))
			} else {
				printOut(cmd, fmt.Sprintf("Question %d is no longer on day %d", id, eng.CurrentDay()))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&day, "day", "d", 0, "day the question is shown on (default: current day)")
	return cmd
}

func init() {
	rootCmd.AddCommand(
		cardAction("complete", "Mark a question as solved", render.ActionComplete),
		cardAction("wrong", "Mark a question as attempted but wrong", render.ActionWrong),
		cardAction("undo", "Undo a completion", render.ActionUndo),
		cardAction("defer", "Mark a question as \"Do Later\"", render.ActionDefer),
	)
}
