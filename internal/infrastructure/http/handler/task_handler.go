package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/warehouse-api/internal/app/dto"
	"github.com/mrops-br/warehouse-api/internal/app/service"
	"github.com/mrops-br/warehouse-api/internal/infrastructure/http/response"
)

// TaskHandler handles HTTP requests for the task list
type TaskHandler struct {
	service *service.TaskService
	logger  *slog.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(service *service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		service: service,
		logger:  logger,
	}
}

// Routes registers the task endpoints on r
func (h *TaskHandler) Routes(r chi.Router) {
	r.Get("/", h.ListTasks)
	r.Post("/", h.AddTask)
	r.Post("/{id}/toggle", h.ToggleTask)
}

// ListTasks handles GET /tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.ListTasks(r.Context())
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, tasks)
}

// AddTask handles POST /tasks
func (h *TaskHandler) AddTask(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	task, err := h.service.AddTask(r.Context(), &req)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, task)
}

// ToggleTask handles POST /tasks/{id}/toggle
func (h *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.service.ToggleTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, task)
}
