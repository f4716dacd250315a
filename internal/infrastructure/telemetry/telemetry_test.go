package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mrops-br/warehouse-api/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" WARN "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestLogger_InjectsTraceContext(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	logger := newLogger(&buf, cfg)

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)

	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))
	ctx = WithHTTPRoute(ctx, "/products/{id}")

	logger.With(slog.String("sku", "PJ-1")).InfoContext(ctx, "Product found")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Product found", entry["msg"])
	assert.Equal(t, traceID.String(), entry["trace_id"])
	assert.Equal(t, spanID.String(), entry["span_id"])
	assert.Equal(t, "/products/{id}", entry["http.route"])
	assert.Equal(t, "PJ-1", entry["sku"])
	assert.Equal(t, "warehouse-api", entry["service.name"])
}

func TestLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	cfg.Logging.Level = "warn"
	logger := newLogger(&buf, cfg)

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNoOpTelemetry_ServesMetrics(t *testing.T) {
	telem, err := newNoOpTelemetry(slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = telem.Shutdown(context.Background()) })

	counter, err := telem.MeterProvider.Meter("test").Int64Counter("widgets")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	rec := httptest.NewRecorder()
	telem.MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "widgets")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestHTTPRouteFromContext_Empty(t *testing.T) {
	assert.Empty(t, HTTPRouteFromContext(context.Background()))
}
