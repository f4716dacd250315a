package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mrops-br/warehouse-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TaskRepository is an in-memory implementation of domain.TaskRepository
type TaskRepository struct {
	mu     sync.RWMutex
	tasks  map[string]*domain.Task
	order  []string
	tracer trace.Tracer
	logger *slog.Logger
}

// NewTaskRepository creates a new in-memory task repository
func NewTaskRepository(tracer trace.Tracer, logger *slog.Logger) *TaskRepository {
	return &TaskRepository{
		tasks:  make(map[string]*domain.Task),
		tracer: tracer,
		logger: logger,
	}
}

// Create stores a new task
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	ctx, span := r.tracer.Start(ctx, "TaskRepository.Create")
	defer span.End()

	span.SetAttributes(attribute.String("task.id", task.ID))

	r.mu.Lock()
	defer r.mu.Unlock()

	t := *task
	r.tasks[task.ID] = &t
	r.order = append(r.order, task.ID)

	r.logger.InfoContext(ctx, "Task created in repository",
		slog.String("task_id", task.ID),
	)

	span.SetStatus(codes.Ok, "Task created successfully")
	return nil
}

// FindByID retrieves a task by ID
func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	_, span := r.tracer.Start(ctx, "TaskRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.String("task.id", id))

	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		span.RecordError(domain.ErrTaskNotFound)
		span.SetStatus(codes.Error, "Task not found")
		return nil, domain.ErrTaskNotFound
	}

	t := *task
	span.SetStatus(codes.Ok, "Task found")
	return &t, nil
}

// FindAll retrieves all tasks in creation order
func (r *TaskRepository) FindAll(ctx context.Context) ([]*domain.Task, error) {
	_, span := r.tracer.Start(ctx, "TaskRepository.FindAll")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]*domain.Task, 0, len(r.order))
	for _, id := range r.order {
		t := *r.tasks[id]
		tasks = append(tasks, &t)
	}

	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	span.SetStatus(codes.Ok, "Tasks retrieved successfully")
	return tasks, nil
}

// Modify applies mutate to the stored task under the write lock
func (r *TaskRepository) Modify(ctx context.Context, id string, mutate domain.TaskMutation) (*domain.Task, error) {
	ctx, span := r.tracer.Start(ctx, "TaskRepository.Modify")
	defer span.End()

	span.SetAttributes(attribute.String("task.id", id))

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tasks[id]
	if !ok {
		span.RecordError(domain.ErrTaskNotFound)
		span.SetStatus(codes.Error, "Task not found")
		return nil, domain.ErrTaskNotFound
	}

	t := *stored
	if err := mutate(&t); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Mutation rejected")
		return nil, err
	}
	t.ID = id
	saved := t
	r.tasks[id] = &saved

	r.logger.DebugContext(ctx, "Task updated in repository",
		slog.String("task_id", id),
		slog.Bool("is_completed", t.IsCompleted),
	)

	span.SetStatus(codes.Ok, "Task updated successfully")
	return &t, nil
}
