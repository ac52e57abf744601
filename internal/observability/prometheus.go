package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const (
	metricsPath       = "/metrics"
	readHeaderTimeout = 5 * time.Second
	serverStopTimeout = 5 * time.Second
)

// Prometheus bridges OTel instruments to a Prometheus scrape endpoint.
type Prometheus struct {
	// Reader must be attached to the MeterProvider, e.g. via Config.MetricReaders.
	Reader sdkmetric.Reader

	// Handler serves the scrape endpoint.
	Handler http.Handler
}

// NewPrometheus creates an exporter backed by its own registry, so several
// instances never conflict.
func NewPrometheus() (*Prometheus, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(
		promexporter.WithRegisterer(registry),
	)
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return &Prometheus{
		Reader:  exporter,
		Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}, nil
}

// Serve exposes the handler on listener under /metrics until ctx is canceled.
func (p *Prometheus) Serve(ctx context.Context, listener net.Listener, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle(metricsPath, p.Handler)

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()

		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), serverStopTimeout)
		defer cancel()

		shutdownErr := server.Shutdown(stopCtx)
		if shutdownErr != nil {
			logger.WarnContext(ctx, "metrics server shutdown", "error", shutdownErr)
		}
	}()

	logger.InfoContext(ctx, "serving metrics", "addr", listener.Addr().String(), "path", metricsPath)

	err := server.Serve(listener)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve metrics: %w", err)
	}

	return nil
}
