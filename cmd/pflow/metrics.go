package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pflow-dev/pflow/pkg/telemetry"
)

// runServeMetrics handles `pflow serve-metrics`: stands up a telemetry
// provider and serves its Prometheus registry until interrupted. Unlike a
// plain `pflow <workflow>` run, which exits the instant the workflow
// finishes, this subcommand exists purely to keep the process (and its
// meter readings) alive for a scrape target to poll.
func runServeMetrics(args []string) int {
	fs := flag.NewFlagSet("pflow serve-metrics", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addr := fs.String("addr", defaultMetricsAddr(), "address to serve /metrics on")
	if err := fs.Parse(args); err != nil {
		return exitUsageErr
	}

	ctx, cancel := installSignalHandler(context.Background())
	defer cancel()

	provider, err := telemetry.NewProvider(ctx, telemetry.DefaultConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "pflow: starting telemetry provider: %v\n", err)
		return exitFailure
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = provider.Shutdown(shutdownCtx)
	}()

	srv, errChan := startMetricsServer(*addr)
	fmt.Printf("serving metrics on http://%s/metrics\n", *addr)

	select {
	case err := <-errChan:
		fmt.Fprintf(os.Stderr, "pflow: metrics server error: %v\n", err)
		return exitFailure
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
		return exitSuccess
	}
}

// startMetricsServer starts the shared /metrics handler (the default
// Prometheus registerer the OTel exporter publishes into) in the
// background and returns immediately; runServeMetrics and runExecute's
// --metrics-addr both drive it from here so a single run and a long-lived
// sidecar expose an identical endpoint.
func startMetricsServer(addr string) (*http.Server, <-chan error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()
	return srv, errChan
}

func defaultMetricsAddr() string {
	if addr := os.Getenv("PFLOW_METRICS_ADDR"); addr != "" {
		return addr
	}
	return ":9090"
}
