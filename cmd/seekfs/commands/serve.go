package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/seekfs/seekfs/pkg/api"
	"github.com/seekfs/seekfs/pkg/provider"
	"github.com/seekfs/seekfs/pkg/session"
)

var flagListen string

// shutdownTimeout bounds how long in-flight requests may run after the
// stop signal.
const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer app.close()

		local, err := provider.NewLocal(app.cfg.Root)
		if err != nil {
			return err
		}
		registry := session.NewRegistry()
		defer registry.Teardown()

		listen := app.cfg.Listen
		if flagListen != "" {
			listen = flagListen
		}
		srv := &http.Server{
			Addr: listen,
			Handler: api.NewServer(api.Config{
				Registry: registry,
				Search:   app.svc,
				Local:    local,
			}),
		}

		errCh := make(chan error, 1)
		go func() {
			slog.Info("server listening", "addr", listen, "root", app.cfg.Root)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Warn("http shutdown", "error", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "listen address (overrides config)")
}
