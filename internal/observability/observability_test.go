package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/redblack/internal/observability"
	"github.com/Sumatoshi-tech/redblack/pkg/rbtree"
)

func TestTracingHandler_InjectsTraceContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(observability.NewTracingHandler(inner, "test-svc", "v0.1.0", observability.ModeCLI))

	traceID, err := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	require.NoError(t, err)

	spanID, err := trace.SpanIDFromHex("0102030405060708")
	require.NoError(t, err)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	logger.InfoContext(ctx, "test message")

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "0102030405060708090a0b0c0d0e0f10", record["trace_id"])
	assert.Equal(t, "0102030405060708", record["span_id"])
	assert.Equal(t, true, record["trace_sampled"])
	assert.Equal(t, "test-svc", record["service"])
	assert.Equal(t, "v0.1.0", record["version"])
	assert.Equal(t, "cli", record["mode"])
}

func TestTracingHandler_NoTraceContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(observability.NewTracingHandler(inner, "redblack", "", observability.ModeBench))

	logger.InfoContext(context.Background(), "no span")

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	_, hasTraceID := record["trace_id"]
	assert.False(t, hasTraceID)

	_, hasVersion := record["version"]
	assert.False(t, hasVersion)

	assert.Equal(t, "redblack", record["service"])
	assert.Equal(t, "bench", record["mode"])
}

func TestTracingHandler_WithGroupAndAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(observability.NewTracingHandler(inner, "redblack", "", observability.ModeCLI))

	logger.With(slog.String("command", "demo")).WithGroup("tree").
		InfoContext(context.Background(), "validated", slog.Int("height", 4))

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "redblack", record["service"])
	assert.Equal(t, "demo", record["command"])

	group, ok := record["tree"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 4, group["height"], 0)
}

func TestTracingHandler_RespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})
	logger := slog.New(observability.NewTracingHandler(inner, "redblack", "", observability.ModeCLI))

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestInit_NoopWhenNoEndpoint(t *testing.T) {
	t.Parallel()

	cfg := observability.DefaultConfig()
	cfg.LogOutput = io.Discard

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Logger)

	_, span := providers.Tracer.Start(context.Background(), "noop")
	span.End()

	require.NoError(t, providers.Shutdown(context.Background()))
}

func TestInit_LoggerWritesJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.LogOutput = &buf
	cfg.LogJSON = true
	cfg.Environment = "test"
	cfg.ServiceVersion = "1.2.3"

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })

	providers.Logger.Info("hello")

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "redblack", record["service"])
	assert.Equal(t, "1.2.3", record["version"])

	_, hasEnv := record["env"]
	assert.False(t, hasEnv)
}

func TestInit_MetricReadersReceiveTreeMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()

	cfg := observability.DefaultConfig()
	cfg.LogOutput = io.Discard
	cfg.MetricReaders = []sdkmetric.Reader{reader}

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })

	metrics, err := observability.NewTreeMetrics(providers.Meter)
	require.NoError(t, err)

	tree := rbtree.NewOrdered[int](rbtree.WithObserver(metrics))
	tree.Insert(1)

	rm := collectMetrics(t, reader)
	assert.Equal(t, int64(1), sumByAttr(t, rm, "redblack.inserts", "outcome")["inserted"])
}

func TestParseOTLPHeaders(t *testing.T) {
	t.Parallel()

	assert.Nil(t, observability.ParseOTLPHeaders(""))
	assert.Nil(t, observability.ParseOTLPHeaders("garbage"))
	assert.Equal(t,
		map[string]string{"authorization": "Bearer x", "tenant": "a"},
		observability.ParseOTLPHeaders(" authorization = Bearer x , tenant=a"),
	)
}

func setupTreeMetrics(t *testing.T) (*observability.TreeMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	metrics, err := observability.NewTreeMetrics(mp.Meter("test"))
	require.NoError(t, err)

	return metrics, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}

	return nil
}

// sumByAttr maps the value of attribute key to the counter value.
func sumByAttr(t *testing.T, rm metricdata.ResourceMetrics, name, key string) map[string]int64 {
	t.Helper()

	found := findMetric(rm, name)
	require.NotNil(t, found, "%s metric not found", name)

	sum, ok := found.Data.(metricdata.Sum[int64])
	require.True(t, ok, "expected Sum[int64] data type")

	result := map[string]int64{}

	for _, dp := range sum.DataPoints {
		value, _ := dp.Attributes.Value(attribute.Key(key))
		result[value.AsString()] += dp.Value
	}

	return result
}

func TestTreeMetrics_CountsFixupCases(t *testing.T) {
	t.Parallel()

	metrics, reader := setupTreeMetrics(t)
	counter := rbtree.NewCaseCounter()
	tree := rbtree.NewOrdered[int](rbtree.WithObserver(rbtree.Multi{metrics, counter}))

	for _, value := range []int{10, 30, 20, 40, 50, 60, 20} {
		tree.Insert(value)
	}

	rm := collectMetrics(t, reader)

	cases := sumByAttr(t, rm, "redblack.fixup.cases", "case")
	for fixupCase, count := range counter.Cases {
		assert.Equal(t, int64(count), cases[fixupCase.String()], "case %s", fixupCase)
	}

	assert.Positive(t, cases["zigzag"])

	outcomes := sumByAttr(t, rm, "redblack.inserts", "outcome")
	assert.Equal(t, int64(6), outcomes["inserted"])
	assert.Equal(t, int64(1), outcomes["updated"])
}

func TestTreeMetrics_RecordValidationAndBatch(t *testing.T) {
	t.Parallel()

	metrics, reader := setupTreeMetrics(t)
	ctx := context.Background()

	metrics.RecordValidation(ctx, rbtree.Stats{Nodes: 7, Height: 4, BlackHeight: 2}, nil)
	metrics.RecordValidation(ctx, rbtree.Stats{}, errors.New("broken"))
	metrics.RecordBatch(ctx, 3*time.Millisecond)

	rm := collectMetrics(t, reader)

	statuses := sumByAttr(t, rm, "redblack.validations", "status")
	assert.Equal(t, int64(1), statuses["ok"])
	assert.Equal(t, int64(1), statuses["error"])

	height := findMetric(rm, "redblack.tree.height")
	require.NotNil(t, height)

	gauge, ok := height.Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(4), gauge.DataPoints[0].Value)

	batch := findMetric(rm, "redblack.batch.duration.seconds")
	require.NotNil(t, batch)

	hist, ok := batch.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.NotEmpty(t, hist.DataPoints)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
}

func newPrometheusProviders(t *testing.T) (*observability.Prometheus, *observability.TreeMetrics) {
	t.Helper()

	prom, err := observability.NewPrometheus()
	require.NoError(t, err)

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(prom.Reader))

	t.Cleanup(func() { require.NoError(t, mp.Shutdown(context.Background())) })

	metrics, err := observability.NewTreeMetrics(mp.Meter("test"))
	require.NoError(t, err)

	return prom, metrics
}

func TestPrometheus_ServesTreeMetrics(t *testing.T) {
	t.Parallel()

	prom, metrics := newPrometheusProviders(t)

	tree := rbtree.NewOrdered[int](rbtree.WithObserver(metrics))
	for value := range 32 {
		tree.Insert(value)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	rec := httptest.NewRecorder()

	prom.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")

	body := rec.Body.String()
	assert.Contains(t, body, "redblack_fixup_cases")
	assert.Contains(t, body, `case="line"`)
	assert.Contains(t, body, "redblack_inserts")
	assert.Contains(t, body, "target_info")
}

func TestPrometheus_ServeUntilCanceled(t *testing.T) {
	t.Parallel()

	prom, _ := newPrometheusProviders(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- prom.Serve(ctx, listener, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}()

	require.Eventually(t, func() bool {
		resp, getErr := http.Get("http://" + listener.Addr().String() + "/metrics") //nolint:noctx // test helper.
		if getErr != nil {
			return false
		}

		resp.Body.Close()

		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case serveErr := <-done:
		require.NoError(t, serveErr)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}
