package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/leetplan/plansync/internal/engine"
	"github.com/leetplan/plansync/internal/refresh"
	"github.com/leetplan/plansync/internal/termui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the plan on screen and refresh it until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := eng.Start(ctx); err != nil {
			slog.Warn("initial load incomplete", "error", err)
		}
		eng.Wait()

		view := &screen{cmd: cmd, Engine: eng}
		view.draw()

		refresh.NewRefresher(view, cfg.Refresh.Interval).Start(ctx)

		rollover, err := refresh.NewRollover(ctx, view, cfg.Refresh.Rollover, time.Local)
		if err != nil {
			return err
		}
		rollover.Start()
		defer rollover.Stop()
		slog.Info("watching plan",
			"refresh_interval", cfg.Refresh.Interval,
			"next_rollover", rollover.Next(),
		)

		<-ctx.Done()
		return nil
	},
}

// screen redraws after every background refresh
type screen struct {
	*engine.Engine
	cmd *cobra.Command

	// mu keeps redraws from the refresher and the rollover whole
	mu sync.Mutex
}

func (s *screen) RefreshDayBadge(ctx context.Context) {
	s.Engine.RefreshDayBadge(ctx)
	s.Engine.Wait()
	s.draw()
}

func (s *screen) LoadCurrentDay(ctx context.Context) error {
	if err := s.Engine.LoadCurrentDay(ctx); err != nil {
		return err
	}
	if err := s.Engine.BuildCalendar(ctx); err != nil {
		return err
	}
	s.Engine.Wait()
	s.draw()
	return nil
}

func (s *screen) draw() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.Header(); ok {
		printOut(s.cmd, termui.Header(h))
	}
	if entries := s.Calendar(); len(entries) > 0 {
		printOut(s.cmd, termui.Calendar(entries))
	}
	if day := s.Day(); day != nil {
		printOut(s.cmd, termui.Day(day))
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
