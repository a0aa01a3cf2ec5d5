package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/paw-chain/paw-clmm/app"
	"github.com/paw-chain/paw-clmm/app/health"
)

const shutdownTimeout = 10 * time.Second

// NewRouter serves Prometheus metrics under /metrics and the health
// endpoints of a.
func NewRouter(a *app.App) (*mux.Router, error) {
	checker, err := health.NewChecker(a.Logger(), health.DefaultConfig(), a.DB, a.CLMMKeeper)
	if err != nil {
		return nil, err
	}

	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	checker.RegisterRoutes(router)
	return router, nil
}

// newHandler adds panic recovery, compression and read-only CORS to router.
func newHandler(router *mux.Router) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	})
	return handlers.RecoveryHandler()(handlers.CompressHandler(c.Handler(router)))
}

// StartCmd returns a command that keeps the application open and serves
// metrics and health checks until interrupted.
func StartCmd(holder *appHolder) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Serve metrics and health checks for the local state",
		Long: `Open the database, verify the invariants and serve /metrics, /health,
/health/ready and /health/detailed on --metrics-port until SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := holder.App(cmd)
			if err != nil {
				return err
			}
			if err := a.CLMMKeeper.CheckInvariants(cmd.Context()); err != nil {
				return fmt.Errorf("refusing to start: %w", err)
			}

			router, err := NewRouter(a)
			if err != nil {
				return err
			}
			server := &http.Server{
				Addr:              fmt.Sprintf(":%d", a.Config.MetricsPort),
				Handler:           newHandler(router),
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       10 * time.Second,
				WriteTimeout:      10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				a.Logger().Info("serving metrics and health checks", "addr", server.Addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			a.Logger().Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
}
