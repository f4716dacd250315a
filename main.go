package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/mrops-br/warehouse-api/internal/app/service"
	"github.com/mrops-br/warehouse-api/internal/domain"
	"github.com/mrops-br/warehouse-api/internal/infrastructure/config"
	"github.com/mrops-br/warehouse-api/internal/infrastructure/http"
	"github.com/mrops-br/warehouse-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/warehouse-api/internal/infrastructure/repository/memory"
	"github.com/mrops-br/warehouse-api/internal/infrastructure/repository/sqlite"
	"github.com/mrops-br/warehouse-api/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("%v", err)
	}
}

// run starts the API and blocks until it is signalled to stop or fails
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var telem *telemetry.Telemetry
	if cfg.OTLP.Enabled {
		telem, err = telemetry.NewTelemetry(ctx, cfg)
	} else {
		telem, err = telemetry.NewNoOpTelemetry(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	tracer := telem.TracerProvider.Tracer("warehouse-api")
	meter := telem.MeterProvider.Meter("warehouse-api")
	logger := telem.Logger

	logger.Info("Starting Warehouse API",
		slog.String("storage", cfg.Storage.Driver),
	)

	stores, err := openStores(cfg, tracer, logger)
	if err != nil {
		logger.Error("Failed to open storage", slog.String("error", err.Error()))
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer stores.close()

	productService := service.NewProductService(stores.products, tracer, meter, logger)
	taskService := service.NewTaskService(stores.tasks, tracer, meter, logger)

	server := http.NewServer(&cfg.Server, http.Handlers{
		Products: handler.NewProductHandler(productService, logger),
		Tasks:    handler.NewTaskHandler(taskService, logger),
		Units:    handler.NewUnitHandler(),
	}, stores.health, logger, telem)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	case err = <-errCh:
		if err != nil {
			logger.Error("Server error", slog.String("error", err.Error()))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Error("Server shutdown failed", slog.String("error", shutdownErr.Error()))
	}

	logger.Info("Server stopped")
	return err
}

type storage struct {
	products domain.ProductRepository
	tasks    domain.TaskRepository
	health   http.HealthChecker
	close    func()
}

func openStores(cfg *config.Config, tracer trace.Tracer, logger *slog.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageSQLite {
		db, err := sqlite.Open(cfg.Storage.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return &storage{
			products: sqlite.NewProductRepository(db, tracer, logger),
			tasks:    sqlite.NewTaskRepository(db, tracer, logger),
			health:   db,
			close: func() {
				if err := db.Close(); err != nil {
					logger.Error("Failed to close database", slog.String("error", err.Error()))
				}
			},
		}, nil
	}

	return &storage{
		products: memory.NewProductRepository(tracer, logger),
		tasks:    memory.NewTaskRepository(tracer, logger),
		close:    func() {},
	}, nil
}
