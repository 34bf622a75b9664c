package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusDone       TaskStatus = "done"
)

// Valid reports whether s is one of the enumerated statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Valid reports whether p is one of the enumerated priorities.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID          string       `gorm:"type:varchar(36);primarykey" json:"id"`
	Title       string       `gorm:"type:varchar(100);not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'todo';index:idx_tasks_user_status,priority:2" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	UserID      string       `gorm:"type:varchar(36);not null;index:idx_tasks_user_created,priority:1;index:idx_tasks_user_status,priority:1" json:"userId"`
	CreatedAt   time.Time    `gorm:"index:idx_tasks_user_created,priority:2" json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// BeforeCreate assigns a fresh identifier when none was set.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
