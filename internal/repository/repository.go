package repository

import (
	"context"

	"github.com/yukikurage/task-tracker-api/internal/models"
)

// TaskRepository defines the interface for task data access. Every method
// takes the owning user's ID and applies it to the query.
type TaskRepository interface {
	// Create creates a new task owned by userID
	Create(ctx context.Context, userID string, task *models.Task) error

	// FindByID finds a task by ID among the tasks owned by userID
	FindByID(ctx context.Context, userID, taskID string) (*models.Task, error)

	// List retrieves tasks owned by userID, newest first
	List(ctx context.Context, userID string, filter TaskFilter) ([]models.Task, error)

	// Update persists the mutable fields of a task owned by userID
	Update(ctx context.Context, userID string, task *models.Task) error

	// Delete permanently deletes a task owned by userID
	Delete(ctx context.Context, userID, taskID string) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Status *models.TaskStatus
	Search string
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdateProfile persists the name and email of a user
	UpdateProfile(ctx context.Context, user *models.User) error
}
