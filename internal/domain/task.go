package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidTaskText = fmt.Errorf("%w: task text is required", ErrValidation)

// Task is an entry in the task list
type Task struct {
	ID          string
	Text        string
	IsCompleted bool
	CreatedAt   time.Time
}

// NewTask creates an incomplete task
func NewTask(text string) (*Task, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidTaskText
	}

	return &Task{
		ID:        uuid.New().String(),
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Toggle flips the completion flag
func (t *Task) Toggle() {
	t.IsCompleted = !t.IsCompleted
}
