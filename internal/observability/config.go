// Package observability provides OpenTelemetry-based tracing, metrics, and
// structured logging for the redblack commands.
package observability

import (
	"io"
	"log/slog"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// AppMode identifies the application execution mode.
type AppMode string

const (
	// ModeCLI is a one-shot command.
	ModeCLI AppMode = "cli"
	// ModeBench is the long-running bench command.
	ModeBench AppMode = "bench"
)

const (
	// defaultServiceName is the default OTel service name.
	defaultServiceName = "redblack"

	// defaultShutdownTimeoutSec is the default shutdown timeout in seconds.
	defaultShutdownTimeoutSec = 5
)

// Config holds all observability configuration.
type Config struct {
	// LogOutput receives log records. Nil means stderr.
	LogOutput io.Writer

	// OTLPHeaders are additional gRPC metadata headers for the OTLP exporter.
	OTLPHeaders map[string]string

	// ServiceName is the OTel resource service name.
	ServiceName string

	// ServiceVersion is the semantic version of the running binary.
	ServiceVersion string

	// Environment is the deployment environment (e.g. "production", "dev").
	Environment string

	// Mode identifies how the binary was launched.
	Mode AppMode

	// OTLPEndpoint is the OTLP gRPC collector address (e.g. "localhost:4317").
	// Empty disables export.
	OTLPEndpoint string

	// MetricReaders are attached to the meter provider in addition to the
	// OTLP exporter, e.g. the Prometheus bridge. With neither configured the
	// meter provider is a no-op.
	MetricReaders []sdkmetric.Reader

	// SampleRatio is the trace sampling ratio (0.0 to 1.0).
	// Zero samples every root span.
	SampleRatio float64

	// ShutdownTimeoutSec is the maximum seconds to wait for flush on shutdown.
	ShutdownTimeoutSec int

	// LogLevel controls the minimum slog severity.
	LogLevel slog.Level

	// OTLPInsecure disables TLS for the OTLP gRPC connection.
	OTLPInsecure bool

	// LogJSON enables JSON-formatted log output.
	LogJSON bool
}

// DefaultConfig returns a Config with sensible defaults for zero-config startup.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}
