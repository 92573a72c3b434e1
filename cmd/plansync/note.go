package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/leetplan/plansync/internal/engine"
	"github.com/leetplan/plansync/internal/render"
)

var (
	noteClear bool
	noteDay   int
)

var noteCmd = &cobra.Command{
	Use:   "note QUESTION_ID [TEXT...]",
	Short: "Show, save or clear the note of a question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := questionID(args[0])
		if err != nil {
			return err
		}

		if len(args) == 1 && !noteClear {
			text, err := eng.LoadNote(cmd.Context(), id)
			if err != nil {
				return err
			}
			printOut(cmd, render.NoteFor(text, false).Icon+" "+text)
			return nil
		}

		if err := loadDay(cmd.Context(), noteDay); err != nil {
			return err
		}
		text := strings.Join(args[1:], " ")
		if err := eng.Dispatch(cmd.Context(), engine.Command{Action: render.ActionSaveNote, QuestionID: id, Text: text}); err != nil {
			return err
		}
		printOut(cmd, render.NoteFor(text, false).Icon+" "+render.NoteSavedLabel)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(noteCmd)

	noteCmd.Flags().BoolVar(&noteClear, "clear", false, "remove the note")
	noteCmd.Flags().IntVarP(&noteDay, "day", "d", 0, "day the question is shown on (default: current day)")
}
