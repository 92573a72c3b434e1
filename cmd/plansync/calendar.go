package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/leetplan/plansync/internal/termui"
)

var calendarWait time.Duration

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show the 30-day calendar with completed days marked",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// The day resolves the start date the grid is built from
		_ = eng.LoadCurrentDay(cmd.Context())

		ctx, cancel := context.WithTimeout(cmd.Context(), calendarWait)
		defer cancel()
		if err := eng.BuildCalendar(ctx); err != nil {
			return err
		}
		eng.Wait()

		printOut(cmd, termui.Calendar(eng.Calendar()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(calendarCmd)

	calendarCmd.Flags().DurationVar(&calendarWait, "wait", 10*time.Second, "how long to wait for the plan start date")
}
