package main

import (
	"github.com/spf13/cobra"

	"github.com/leetplan/plansync/internal/termui"
)

var deferredCmd = &cobra.Command{
	Use:     "deferred",
	Aliases: []string{"later"},
	Short:   "Show the \"Do Later\" list",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := eng.ShowDeferred(cmd.Context())
		if err != nil {
			return err
		}
		printOut(cmd, termui.Deferred(list))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deferredCmd)
}
