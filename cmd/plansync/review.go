package main

import (
	"github.com/spf13/cobra"

	"github.com/leetplan/plansync/internal/termui"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Show the problems due for review",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := eng.ShowReview(cmd.Context())
		if err != nil {
			return err
		}
		printOut(cmd, termui.Review(list))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}
