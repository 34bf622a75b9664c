package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/task-tracker-api/internal/database"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// ErrOwnerMismatch is returned when a task is handed to the store with an
// owner other than the caller.
var ErrOwnerMismatch = errors.New("task repository: owner does not match caller")

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task, stamping userID as its owner
func (r *GormTaskRepository) Create(ctx context.Context, userID string, task *models.Task) error {
	task.UserID = userID
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID finds a task by ID owned by userID
func (r *GormTaskRepository) FindByID(ctx context.Context, userID, taskID string) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).
		Scopes(database.OwnedBy(userID)).
		Where("tasks.id = ?", taskID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks owned by userID with filtering
func (r *GormTaskRepository) List(ctx context.Context, userID string, filter TaskFilter) ([]models.Task, error) {
	tasks := []models.Task{}

	status := ""
	if filter.Status != nil {
		status = string(*filter.Status)
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Scopes(
			database.OwnedBy(userID),
			database.WithStatus(status),
			database.Search(filter.Search),
			database.NewestFirst,
		).
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update persists title, description, status and priority. Owner, ID and
// creation time are never written.
func (r *GormTaskRepository) Update(ctx context.Context, userID string, task *models.Task) error {
	if task.UserID != userID {
		return ErrOwnerMismatch
	}

	return r.db.WithContext(ctx).
		Model(task).
		Scopes(database.OwnedBy(userID)).
		Select("title", "description", "status", "priority", "updated_at").
		Updates(task).Error
}

// Delete permanently deletes a task owned by userID. It returns
// gorm.ErrRecordNotFound when no such task exists.
func (r *GormTaskRepository) Delete(ctx context.Context, userID, taskID string) error {
	result := r.db.WithContext(ctx).
		Scopes(database.OwnedBy(userID)).
		Where("tasks.id = ?", taskID).
		Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
