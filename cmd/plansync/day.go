package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leetplan/plansync/internal/termui"
)

var dayCmd = &cobra.Command{
	Use:   "day [N]",
	Short: "Show the plan of the current day, or of day N",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day := 0
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid day %q", args[0])
			}
			day = n
		}

		if err := loadDay(cmd.Context(), day); err != nil {
			return err
		}
		printHeader(cmd)
		printOut(cmd, termui.Day(eng.Day()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dayCmd)
}
