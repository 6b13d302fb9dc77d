package ports

import (
	"context"

	"github.com/taskflow/core/internal/domain/entities"
)

// TaskService interface for task management operations
type TaskService interface {
	Add(ctx context.Context, req CreateTaskRequest) (*entities.Task, error)
	Update(ctx context.Context, id string, req UpdateTaskRequest) (bool, error)
	ToggleComplete(ctx context.Context, id string) bool
	ToggleStar(ctx context.Context, id string) bool
	Archive(ctx context.Context, id string) bool
	Delete(ctx context.Context, id string) bool
	Tasks(ctx context.Context) []entities.Task
	View(ctx context.Context, filter entities.Filter, query string) []entities.Task
	Stats(ctx context.Context) entities.Stats
}

// Request/Response Types

// Task related types
type CreateTaskRequest struct {
	Text     string            `json:"text" validate:"required"`
	Priority entities.Priority `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate  *entities.Date    `json:"dueDate"`
}

// UpdateTaskRequest replaces text, priority and due date. A nil DueDate clears it.
type UpdateTaskRequest struct {
	Text     string            `json:"text" validate:"required"`
	Priority entities.Priority `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate  *entities.Date    `json:"dueDate"`
}

type ListTasksResponse struct {
	Filter entities.Filter `json:"filter"`
	Search string          `json:"search,omitempty"`
	Tasks  []entities.Task `json:"tasks"`
	Stats  entities.Stats  `json:"stats"`
}

type UpdateTaskResponse struct {
	Updated bool `json:"updated"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
