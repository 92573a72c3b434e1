package main

import (
	"github.com/spf13/cobra"

	"github.com/leetplan/plansync/internal/termui"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show overall progress statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		view, err := eng.ShowStatistics(cmd.Context())
		if err != nil {
			return err
		}
		printOut(cmd, termui.Statistics(view))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
