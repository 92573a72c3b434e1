package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/leetplan/plansync/internal/fakeapi"
)

var devAPIKey string

var devserverCmd = &cobra.Command{
	Use:         "devserver",
	Short:       "Run an in-memory study plan server for local use and tests",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{standalone: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		fixture, err := loadFixture(cfg.DevServer.Fixtures)
		if err != nil {
			return err
		}

		var opts []fakeapi.Option
		if devAPIKey != "" {
			opts = append(opts, fakeapi.WithAPIKey(devAPIKey))
		}
		server := fakeapi.NewServer(fixture, opts...)

		httpServer := &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.DevServer.Host, cfg.DevServer.Port),
			Handler:      server.Router(),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			slog.Info("HTTP server starting",
				"addr", httpServer.Addr,
				"start_date", server.StartDate().String(),
				"days", len(fixture.Days),
			)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("HTTP server error: %w", err)
			}
		case <-cmd.Context().Done():
		}

		slog.Info("shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		}

		slog.Info("devserver stopped")
		return nil
	},
}

func loadFixture(path string) (*fakeapi.Fixture, error) {
	if path == "" {
		return fakeapi.DefaultFixture()
	}
	return fakeapi.LoadFixture(path)
}

func init() {
	rootCmd.AddCommand(devserverCmd)

	devserverCmd.Flags().StringVar(&devAPIKey, "api-key", "", "require this API key on /api requests")
}
