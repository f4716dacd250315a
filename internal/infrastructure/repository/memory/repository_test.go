package memory

import (
	"log/slog"
	"testing"

	"github.com/mrops-br/warehouse-api/internal/domain"
	"github.com/mrops-br/warehouse-api/internal/infrastructure/repository/repotest"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestProductRepository(t *testing.T) {
	repotest.ProductRepository(t, func(t *testing.T) domain.ProductRepository {
		return NewProductRepository(noop.NewTracerProvider().Tracer("test"), slog.New(slog.DiscardHandler))
	})
}

func TestTaskRepository(t *testing.T) {
	repotest.TaskRepository(t, func(t *testing.T) domain.TaskRepository {
		return NewTaskRepository(noop.NewTracerProvider().Tracer("test"), slog.New(slog.DiscardHandler))
	})
}
