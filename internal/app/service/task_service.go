package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mrops-br/warehouse-api/internal/app/dto"
	"github.com/mrops-br/warehouse-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// TaskService handles the task list
type TaskService struct {
	repo           domain.TaskRepository
	tracer         trace.Tracer
	logger         *slog.Logger
	taskOperations metric.Int64Counter
}

// NewTaskService creates a new task service
func NewTaskService(
	repo domain.TaskRepository,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *TaskService {
	taskOperations, _ := meter.Int64Counter(
		"tasks.operations",
		metric.WithDescription("Total number of task operations"),
	)

	return &TaskService{
		repo:           repo,
		tracer:         tracer,
		logger:         logger,
		taskOperations: taskOperations,
	}
}

func (s *TaskService) record(ctx context.Context, operation, result string) {
	s.taskOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}

// ListTasks returns every task in creation order
func (s *TaskService) ListTasks(ctx context.Context) ([]*dto.TaskResponse, error) {
	ctx, span := s.tracer.Start(ctx, "TaskService.ListTasks")
	defer span.End()

	tasks, err := s.repo.FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list tasks")
		s.logger.ErrorContext(ctx, "Failed to list tasks",
			slog.String("error", err.Error()),
		)
		s.record(ctx, "list", "failure")
		return nil, err
	}

	s.record(ctx, "list", "success")
	span.SetStatus(codes.Ok, "Tasks listed successfully")
	return dto.ToTaskResponseList(tasks), nil
}

// AddTask creates an incomplete task
func (s *TaskService) AddTask(ctx context.Context, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	ctx, span := s.tracer.Start(ctx, "TaskService.AddTask")
	defer span.End()

	task, err := domain.NewTask(req.Text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Validation failed")
		s.record(ctx, "add", "invalid")
		return nil, err
	}

	span.SetAttributes(attribute.String("task.id", task.ID))

	if err := s.repo.Create(ctx, task); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to store task")
		s.logger.ErrorContext(ctx, "Failed to store task",
			slog.String("error", err.Error()),
		)
		s.record(ctx, "add", "failure")
		return nil, err
	}

	s.record(ctx, "add", "success")

	s.logger.InfoContext(ctx, "Task added",
		slog.String("task_id", task.ID),
	)

	span.SetStatus(codes.Ok, "Task added successfully")
	return dto.ToTaskResponse(task), nil
}

// ToggleTask flips the completion flag of a task
func (s *TaskService) ToggleTask(ctx context.Context, id string) (*dto.TaskResponse, error) {
	ctx, span := s.tracer.Start(ctx, "TaskService.ToggleTask")
	defer span.End()

	span.SetAttributes(attribute.String("task.id", id))

	task, err := s.repo.Modify(ctx, id, func(t *domain.Task) error {
		t.Toggle()
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to toggle task")
		result := "failure"
		if errors.Is(err, domain.ErrTaskNotFound) {
			result = "not_found"
			s.logger.WarnContext(ctx, "Task not found",
				slog.String("task_id", id),
			)
		}
		s.record(ctx, "toggle", result)
		return nil, err
	}

	s.record(ctx, "toggle", "success")

	s.logger.InfoContext(ctx, "Task toggled",
		slog.String("task_id", id),
		slog.Bool("is_completed", task.IsCompleted),
	)

	span.SetStatus(codes.Ok, "Task toggled successfully")
	return dto.ToTaskResponse(task), nil
}
