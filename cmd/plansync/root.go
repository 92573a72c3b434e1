package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/leetplan/plansync/internal/config"
	"github.com/leetplan/plansync/internal/engine"
	"github.com/leetplan/plansync/internal/state"
	"github.com/leetplan/plansync/internal/storage"
	"github.com/leetplan/plansync/internal/termui"
	"github.com/leetplan/plansync/pkg/client"
)

// standalone marks commands that do not talk to the plan server
const standalone = "standalone"

var (
	apiURL string

	cfg      *config.Config
	settings storage.SettingsRepository
	eng      *engine.Engine
)

var rootCmd = &cobra.Command{
	Use:   "plansync",
	Short: "Track a 30-day study plan from the terminal",
	Long: `plansync keeps a local view of a 30-day problem plan in sync with the
study plan server: the day's sessions, the calendar, the review queue and
the "Do Later" list.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if apiURL != "" {
			cfg.API.BaseURL = apiURL
		}
		setupLogging(cfg.Log)

		if cmd.Annotations[standalone] != "" {
			return nil
		}
		return openEngine(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if settings == nil {
			return nil
		}
		return settings.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "study plan server URL (overrides PLANSYNC_API_URL)")
}

// setupLogging installs the default structured logger. Logs go to stderr
// so they never mix with rendered output.
func setupLogging(lc config.LogConfig) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(lc.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if lc.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func openEngine(ctx context.Context) error {
	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var err error
	settings, err = storage.Open(initCtx, storage.Options{
		Backend:       cfg.Storage.Backend,
		SQLitePath:    cfg.Storage.SQLitePath,
		RedisAddr:     cfg.Storage.RedisAddress,
		RedisPassword: cfg.Storage.RedisPassword,
		RedisDB:       cfg.Storage.RedisDB,
		PostgresDSN:   cfg.Storage.PostgresDSN,
	})
	if err != nil {
		return fmt.Errorf("failed to open settings storage: %w", err)
	}
	slog.Debug("settings storage opened", "backend", cfg.Storage.Backend)

	api := client.NewClient(cfg.API.BaseURL, cfg.API.APIKey, client.WithTimeout(cfg.API.Timeout))
	eng = engine.New(api, state.NewStore(), settings, termui.NewNotifier(os.Stderr),
		engine.WithCalendarRetry(cfg.UI.CalendarRetry),
		engine.WithNoteSavedFlash(cfg.UI.NoteSavedFlash),
	)
	return nil
}

// loadDay loads an explicit day, or the current day when day is zero
func loadDay(ctx context.Context, day int) error {
	if day > 0 {
		return eng.LoadDay(ctx, day)
	}
	return eng.LoadCurrentDay(ctx)
}

// printHeader refreshes and prints the statistics header. A failed
// refresh is already logged and simply skips the header.
func printHeader(cmd *cobra.Command) {
	if err := eng.LoadStatistics(cmd.Context()); err != nil {
		return
	}
	if h, ok := eng.Header(); ok {
		printOut(cmd, termui.Header(h))
	}
}

// printOut writes rendered output to the command's stdout
func printOut(cmd *cobra.Command, s string) {
	fmt.Fprintln(cmd.OutOrStdout(), s)
}

func questionID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid question id %q", arg)
	}
	return id, nil
}
