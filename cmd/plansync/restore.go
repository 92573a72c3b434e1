package main

import (
	"github.com/spf13/cobra"

	"github.com/leetplan/plansync/internal/engine"
	"github.com/leetplan/plansync/internal/render"
	"github.com/leetplan/plansync/internal/termui"
)

var (
	restoreComplete bool
	restoreWrong    bool
)

var restoreCmd = &cobra.Command{
	Use:   "restore QUESTION_ID",
	Short: "Restore a \"Do Later\" question to its day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := questionID(args[0])
		if err != nil {
			return err
		}
		if err := eng.LoadCurrentDay(cmd.Context()); err != nil {
			return err
		}

		c := engine.Command{Action: render.ActionRestore, QuestionID: id}
		if restoreComplete || restoreWrong {
			c.Action = render.ActionRestoreComplete
			c.Correct = !restoreWrong
		}
		if err := eng.Dispatch(cmd.Context(), c); err != nil {
			return err
		}
		eng.Wait()

		if list := eng.Deferred(); list != nil {
			printOut(cmd, termui.Deferred(list))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)

	restoreCmd.Flags().BoolVarP(&restoreComplete, "complete", "c", false, "also mark the question as solved")
	restoreCmd.Flags().BoolVarP(&restoreWrong, "wrong", "w", false, "also mark the question as attempted but wrong")
	restoreCmd.MarkFlagsMutuallyExclusive("complete", "wrong")
}
