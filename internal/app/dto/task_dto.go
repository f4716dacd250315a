package dto

import (
	"time"

	"github.com/mrops-br/warehouse-api/internal/domain"
)

// CreateTaskRequest represents the request to add a task
type CreateTaskRequest struct {
	Text string `json:"text"`
}

// TaskResponse represents the task response
type TaskResponse struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToTaskResponse converts a domain Task to TaskResponse
func ToTaskResponse(t *domain.Task) *TaskResponse {
	return &TaskResponse{
		ID:          t.ID,
		Text:        t.Text,
		IsCompleted: t.IsCompleted,
		CreatedAt:   t.CreatedAt,
	}
}

// ToTaskResponseList converts a list of domain Tasks to TaskResponse list
func ToTaskResponseList(tasks []*domain.Task) []*TaskResponse {
	responses := make([]*TaskResponse, len(tasks))
	for i, t := range tasks {
		responses[i] = ToTaskResponse(t)
	}
	return responses
}
