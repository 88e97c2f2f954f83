package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aretw0/branchmap/internal/metrics"
	httpAdapter "github.com/aretw0/branchmap/pkg/adapters/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stateless HTTP analysis server",
	Long: `Starts branchmap as a stateless JSON API. Sources are posted to /analyze
(Go or YAML) or /analyze/elements (pre-extracted elements); Prometheus metrics
are exposed on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		p := printer(cmd)
		port, _ := cmd.Flags().GetString("port")

		collector := metrics.New()
		engine, logger, err := newAnalyzer(cmd, "", nil, collector.Hooks())
		exitOnError(p, err)

		metricsHandler := promhttp.HandlerFor(collector.Registry, promhttp.HandlerOpts{})
		handler := httpAdapter.NewHandler(engine, logger, metricsHandler)

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("starting branchmap server", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			exitOnError(p, fmt.Errorf("server error: %w", err))

		case sig := <-shutdown:
			logger.Info("start shutdown", "signal", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				if err := srv.Close(); err != nil {
					logger.Error("error killing server", "error", err)
				}
			}
			logger.Info("branchmap server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
