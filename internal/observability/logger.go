package observability

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

const (
	attrTraceID = "trace_id"
	attrSpanID  = "span_id"
	attrSampled = "trace_sampled"
	attrService = "service"
	attrVersion = "version"
	attrMode    = "mode"
)

// TracingHandler is an [slog.Handler] that tags every record with the
// binary identity (service, version, mode) and, inside a command span, with
// the span's trace_id, span_id and sampling decision.
// The deployment environment is not repeated here: it is a resource attribute
// of the exported telemetry.
type TracingHandler struct {
	inner slog.Handler
}

// NewTracingHandler wraps inner. An empty version is omitted.
func NewTracingHandler(inner slog.Handler, service, version string, mode AppMode) *TracingHandler {
	identity := make([]slog.Attr, 0, 3)
	identity = append(identity, slog.String(attrService, service), slog.String(attrMode, string(mode)))

	if version != "" {
		identity = append(identity, slog.String(attrVersion, version))
	}

	// Attached before any group so they stay top-level.
	return &TracingHandler{inner: inner.WithAttrs(identity)}
}

// Enabled delegates to the inner handler.
func (th *TracingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return th.inner.Enabled(ctx, level)
}

// Handle adds the span attributes when ctx carries a valid span context.
func (th *TracingHandler) Handle(ctx context.Context, record slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		record.AddAttrs(
			slog.String(attrTraceID, sc.TraceID().String()),
			slog.String(attrSpanID, sc.SpanID().String()),
			slog.Bool(attrSampled, sc.IsSampled()),
		)
	}

	if err := th.inner.Handle(ctx, record); err != nil {
		return fmt.Errorf("tracing handler: %w", err)
	}

	return nil
}

// WithAttrs implements [slog.Handler].
func (th *TracingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TracingHandler{inner: th.inner.WithAttrs(attrs)}
}

// WithGroup implements [slog.Handler].
func (th *TracingHandler) WithGroup(name string) slog.Handler {
	return &TracingHandler{inner: th.inner.WithGroup(name)}
}
