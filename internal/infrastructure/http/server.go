package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mrops-br/warehouse-api/internal/infrastructure/config"
	"github.com/mrops-br/warehouse-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/warehouse-api/internal/infrastructure/http/middleware"
	"github.com/mrops-br/warehouse-api/internal/infrastructure/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

// HealthChecker reports whether a backing store is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Handlers groups the HTTP handlers mounted by the server
type Handlers struct {
	Products *handler.ProductHandler
	Tasks    *handler.TaskHandler
	Units    *handler.UnitHandler
}

// Server represents the HTTP server
type Server struct {
	router    *chi.Mux
	config    *config.ServerConfig
	handlers  Handlers
	health    HealthChecker
	logger    *slog.Logger
	telemetry *telemetry.Telemetry
	srv       *http.Server
}

// NewServer creates a new HTTP server. health may be nil.
func NewServer(
	cfg *config.ServerConfig,
	handlers Handlers,
	health HealthChecker,
	logger *slog.Logger,
	telem *telemetry.Telemetry,
) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		config:    cfg,
		handlers:  handlers,
		health:    health,
		logger:    logger,
		telemetry: telem,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.srv = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// setupMiddleware configures the middleware chain
func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(middleware.StructuredLogger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.HTTPRouteContext())

	meter := s.telemetry.MeterProvider.Meter("warehouse-api")
	s.router.Use(middleware.ActiveRequestsMiddleware(meter))
	s.router.Use(middleware.DurationMillisecondsMiddleware(meter))
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.Route("/products", s.handlers.Products.Routes)
	s.router.Route("/tasks", s.handlers.Tasks.Routes)
	s.router.Route("/units", s.handlers.Units.Routes)

	s.router.Get("/health", s.healthCheck)
	s.router.Handle("/metrics", s.telemetry.MetricsHandler())
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health.Ping(r.Context()); err != nil {
			s.logger.ErrorContext(r.Context(), "Health check failed",
				slog.String("error", err.Error()),
			)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("UNAVAILABLE"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Handler returns the router wrapped with otelhttp for HTTP traces and metrics
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "http-server",
		otelhttp.WithTracerProvider(s.telemetry.TracerProvider),
		otelhttp.WithMeterProvider(s.telemetry.MeterProvider),
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
		otelhttp.WithMetricAttributesFn(func(r *http.Request) []attribute.KeyValue {
			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			return []attribute.KeyValue{attribute.String("http.route", route)}
		}),
	)
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		slog.String("address", s.srv.Addr),
	)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")
	return s.srv.Shutdown(ctx)
}
