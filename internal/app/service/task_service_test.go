package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/mrops-br/warehouse-api/internal/app/dto"
	"github.com/mrops-br/warehouse-api/internal/domain"
	"github.com/mrops-br/warehouse-api/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTaskService(t *testing.T) *TaskService {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	tracer := noop.NewTracerProvider().Tracer("test")
	return NewTaskService(memory.NewTaskRepository(tracer, logger), tracer, metricnoop.NewMeterProvider().Meter("test"), logger)
}

func TestAddAndListTasks(t *testing.T) {
	svc := newTaskService(t)
	ctx := context.Background()

	first, err := svc.AddTask(ctx, &dto.CreateTaskRequest{Text: "cycle count aisle 4"})
	require.NoError(t, err)
	assert.False(t, first.IsCompleted)

	_, err = svc.AddTask(ctx, &dto.CreateTaskRequest{Text: "restock bins"})
	require.NoError(t, err)

	tasks, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, first.ID, tasks[0].ID)
	assert.Equal(t, "restock bins", tasks[1].Text)
}

func TestAddTask_EmptyText(t *testing.T) {
	svc := newTaskService(t)

	_, err := svc.AddTask(context.Background(), &dto.CreateTaskRequest{Text: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidTaskText)
}

func TestToggleTask(t *testing.T) {
	svc := newTaskService(t)
	ctx := context.Background()

	task, err := svc.AddTask(ctx, &dto.CreateTaskRequest{Text: "label pallets"})
	require.NoError(t, err)

	toggled, err := svc.ToggleTask(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsCompleted)

	toggled, err = svc.ToggleTask(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsCompleted)

	_, err = svc.ToggleTask(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
