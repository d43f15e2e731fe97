package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/rebound/internal/httpapi"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string
	var rateLimit int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Tokens == nil {
				return fmt.Errorf("serve needs a JWT secret (set REBOUND_JWT_SECRET)")
			}
			if !cmd.Flags().Changed("addr") {
				addr = app.Config.HTTPAddr
			}
			if !cmd.Flags().Changed("rate-limit") {
				rateLimit = app.Config.RateLimitPerMinute
			}
			loc, err := app.Config.Location()
			if err != nil {
				return err
			}

			handler := httpapi.NewHandler(httpapi.Deps{
				Recovery:           app.Recovery,
				Tasks:              app.Tasks,
				Stats:              app.Stats,
				Tokens:             app.Tokens,
				Logger:             app.Logger,
				Gatherer:           app.Registry,
				Location:           loc,
				RateLimitPerMinute: rateLimit,
				CORSOrigins:        app.Config.CORSOrigins,
			})
			srv := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, srv, app.Config.ShutdownTimeout(), func() {
				app.Logger.Info("http_listening", "addr", addr)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().IntVar(&rateLimit, "rate-limit", 0, "Requests per user per minute, 0 disables (default from config)")
	return cmd
}

// runServer serves until ctx is canceled, then drains connections for at
// most grace.
func runServer(ctx context.Context, srv *http.Server, grace time.Duration, started func()) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		started()
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	})
	return g.Wait()
}
