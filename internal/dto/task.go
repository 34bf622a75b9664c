package dto

import (
	"time"

	"github.com/yukikurage/task-tracker-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	UserID      string              `json:"userId"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// TaskResponse wraps a single task
type TaskResponse struct {
	Success bool    `json:"success"`
	Task    TaskDTO `json:"task"`
}

// TaskListResponse represents the caller's filtered tasks
type TaskListResponse struct {
	Success bool      `json:"success"`
	Count   int       `json:"count"`
	Tasks   []TaskDTO `json:"tasks"`
}

// SuggestedTaskDTO is an AI-proposed task that has not been stored
type SuggestedTaskDTO struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    models.TaskPriority `json:"priority"`
}

// SuggestTasksResponse wraps task suggestions
type SuggestTasksResponse struct {
	Success bool               `json:"success"`
	Count   int                `json:"count"`
	Tasks   []SuggestedTaskDTO `json:"tasks"`
}

// MessageResponse is returned by operations without a payload
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		UserID:      task.UserID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Success: true,
		Count:   len(items),
		Tasks:   items,
	}
}
