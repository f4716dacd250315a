package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/mrops-br/warehouse-api/internal/infrastructure/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const serviceVersion = "1.0.0"

// Telemetry holds all OpenTelemetry components
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *metric.MeterProvider
	Logger         *slog.Logger
	Registry       *prometheus.Registry
	conn           *grpc.ClientConn
}

// NewTelemetry initializes tracing and metrics exported over OTLP gRPC,
// with metrics also scrapeable through Registry.
func NewTelemetry(ctx context.Context, cfg *config.Config) (*Telemetry, error) {
	logger := newLogger(os.Stdout, cfg)

	logger.Info("Initializing OpenTelemetry",
		slog.String("endpoint", cfg.OTLP.Endpoint),
		slog.String("service_name", cfg.OTLP.ServiceName),
	)

	conn, err := grpc.NewClient(cfg.OTLP.Endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	res, err := newResource(ctx, &cfg.OTLP)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	tp, err := initTracerProvider(ctx, conn, res)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize tracer provider: %w", err)
	}

	registry, promReader, err := newPrometheusReader()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	mp, err := initMeterProvider(ctx, conn, res, promReader)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize meter provider: %w", err)
	}

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	logger.Info("Telemetry initialized (OTLP + Prometheus exporters)")

	return &Telemetry{
		TracerProvider: tp,
		MeterProvider:  mp,
		Logger:         logger,
		Registry:       registry,
		conn:           conn,
	}, nil
}

// NewNoOpTelemetry creates telemetry that exports nothing over OTLP.
// Spans are still created for log correlation and /metrics still serves.
func NewNoOpTelemetry(cfg *config.Config) (*Telemetry, error) {
	return newNoOpTelemetry(newLogger(os.Stdout, cfg))
}

func newNoOpTelemetry(logger *slog.Logger) (*Telemetry, error) {
	registry, promReader, err := newPrometheusReader()
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider()
	mp := metric.NewMeterProvider(metric.WithReader(promReader))

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	logger.Info("Telemetry initialized in no-op mode (export disabled)")

	return &Telemetry{
		TracerProvider: tp,
		MeterProvider:  mp,
		Logger:         logger,
		Registry:       registry,
	}, nil
}

// MetricsHandler serves the Prometheus scrape endpoint
func (t *Telemetry) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(t.Registry, promhttp.HandlerOpts{Registry: t.Registry})
}

// Shutdown flushes and stops all telemetry components
func (t *Telemetry) Shutdown(ctx context.Context) error {
	t.Logger.Info("Shutting down OpenTelemetry")

	var errs []error
	if err := t.TracerProvider.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("tracer provider: %w", err))
	}
	if err := t.MeterProvider.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("meter provider: %w", err))
	}
	if t.conn != nil {
		if err := t.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("grpc connection: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		t.Logger.Error("Failed to shutdown telemetry", slog.String("error", err.Error()))
		return err
	}

	t.Logger.Info("OpenTelemetry shutdown successfully")
	return nil
}
