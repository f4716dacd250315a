package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mrops-br/warehouse-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TaskRepository is a SQLite implementation of domain.TaskRepository
type TaskRepository struct {
	db     *DB
	tracer trace.Tracer
	logger *slog.Logger
}

// NewTaskRepository creates a task repository over db
func NewTaskRepository(db *DB, tracer trace.Tracer, logger *slog.Logger) *TaskRepository {
	return &TaskRepository{db: db, tracer: tracer, logger: logger}
}

// Create inserts a new task
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	ctx, span := r.tracer.Start(ctx, "TaskRepository.Create")
	defer span.End()

	span.SetAttributes(attribute.String("task.id", task.ID))

	_, err := r.db.db.ExecContext(ctx,
		`INSERT INTO tasks (id, text, is_completed, created_at) VALUES (?, ?, ?, ?)`,
		task.ID, task.Text, boolToInt(task.IsCompleted), formatTime(task.CreatedAt),
	)
	if err != nil {
		err = fmt.Errorf("inserting task: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to insert task")
		return err
	}

	r.logger.InfoContext(ctx, "Task created in repository",
		slog.String("task_id", task.ID),
	)

	span.SetStatus(codes.Ok, "Task created successfully")
	return nil
}

// FindByID retrieves a task by ID
func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	ctx, span := r.tracer.Start(ctx, "TaskRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.String("task.id", id))

	task, err := scanTask(r.db.db.QueryRowContext(ctx,
		`SELECT id, text, is_completed, created_at FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "Task not found")
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		err = fmt.Errorf("querying task: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Query failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Task found")
	return task, nil
}

// FindAll retrieves all tasks in creation order
func (r *TaskRepository) FindAll(ctx context.Context) ([]*domain.Task, error) {
	ctx, span := r.tracer.Start(ctx, "TaskRepository.FindAll")
	defer span.End()

	rows, err := r.db.db.QueryContext(ctx,
		`SELECT id, text, is_completed, created_at FROM tasks ORDER BY rowid`)
	if err != nil {
		err = fmt.Errorf("listing tasks: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Query failed")
		return nil, err
	}
	defer rows.Close()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			err = fmt.Errorf("scanning task: %w", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Scan failed")
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		err = fmt.Errorf("iterating tasks: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Iteration failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	span.SetStatus(codes.Ok, "Tasks retrieved successfully")
	return tasks, nil
}

// Modify applies mutate to the stored task inside one transaction
func (r *TaskRepository) Modify(ctx context.Context, id string, mutate domain.TaskMutation) (*domain.Task, error) {
	ctx, span := r.tracer.Start(ctx, "TaskRepository.Modify")
	defer span.End()

	span.SetAttributes(attribute.String("task.id", id))

	task, err := r.modify(ctx, id, mutate)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update task")
		return nil, err
	}

	r.logger.DebugContext(ctx, "Task updated in repository",
		slog.String("task_id", id),
		slog.Bool("is_completed", task.IsCompleted),
	)

	span.SetStatus(codes.Ok, "Task updated successfully")
	return task, nil
}

func (r *TaskRepository) modify(ctx context.Context, id string, mutate domain.TaskMutation) (*domain.Task, error) {
	tx, err := r.db.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	task, err := scanTask(tx.QueryRowContext(ctx,
		`SELECT id, text, is_completed, created_at FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying task: %w", err)
	}

	if err := mutate(task); err != nil {
		return nil, err
	}
	task.ID = id

	if _, err := tx.ExecContext(ctx,
		`UPDATE tasks SET text = ?, is_completed = ? WHERE id = ?`,
		task.Text, boolToInt(task.IsCompleted), id,
	); err != nil {
		return nil, fmt.Errorf("updating task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing task update: %w", err)
	}
	return task, nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task      domain.Task
		completed int
		createdAt string
	)

	if err := row.Scan(&task.ID, &task.Text, &completed, &createdAt); err != nil {
		return nil, err
	}

	task.IsCompleted = completed != 0

	var err error
	if task.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	return &task, nil
}
