package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/logger"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
)

// TaskService handles task business logic. Every operation takes the caller's
// user ID and passes it to the store.
type TaskService struct {
	taskRepo  repository.TaskRepository
	suggester TaskSuggester
	now       func() time.Time
}

// NewTaskService creates a new TaskService. suggester may be nil, in which
// case SuggestTasks reports ErrAIServiceNotConfigured.
func NewTaskService(taskRepo repository.TaskRepository, suggester TaskSuggester) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		suggester: suggester,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ListTasksInput represents filters for listing tasks. Empty values match everything.
type ListTasksInput struct {
	Status string
	Search string
}

// CreateTaskInput represents input for creating a task. Empty status and
// priority fall back to the defaults.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
}

// UpdateTaskInput represents a partial update; nil fields are left unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
}

// ListTasks returns the caller's tasks, newest first. Status is an equality
// filter, so an unknown status matches nothing.
func (s *TaskService) ListTasks(ctx context.Context, callerID string, input ListTasksInput) ([]models.Task, error) {
	filter := repository.TaskFilter{
		Search: strings.TrimSpace(input.Search),
	}

	if input.Status != "" {
		status := models.TaskStatus(input.Status)
		filter.Status = &status
	}

	tasks, err := s.taskRepo.List(ctx, callerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// GetTask returns one of the caller's tasks
func (s *TaskService) GetTask(ctx context.Context, callerID, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, callerID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask validates input and creates a task owned by the caller
func (s *TaskService) CreateTask(ctx context.Context, callerID string, input CreateTaskInput) (*models.Task, error) {
	task := &models.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      models.TaskStatusTodo,
		Priority:    models.TaskPriorityMedium,
	}
	if input.Status != "" {
		task.Status = models.TaskStatus(input.Status)
	}
	if input.Priority != "" {
		task.Priority = models.TaskPriority(input.Priority)
	}

	if err := validateTask(task); err != nil {
		return nil, err
	}

	now := s.now()
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := s.taskRepo.Create(ctx, callerID, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTask applies the provided fields to one of the caller's tasks
func (s *TaskService) UpdateTask(ctx context.Context, callerID, taskID string, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.GetTask(ctx, callerID, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		task.Status = models.TaskStatus(*input.Status)
	}
	if input.Priority != nil {
		task.Priority = models.TaskPriority(*input.Priority)
	}

	if err := validateTask(task); err != nil {
		return nil, err
	}

	task.UpdatedAt = s.now()
	if err := s.taskRepo.Update(ctx, callerID, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask permanently removes one of the caller's tasks
func (s *TaskService) DeleteTask(ctx context.Context, callerID, taskID string) error {
	if err := s.taskRepo.Delete(ctx, callerID, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// SuggestTasks extracts task suggestions from free text. Nothing is persisted.
func (s *TaskService) SuggestTasks(ctx context.Context, callerID, text string) ([]SuggestedTask, error) {
	if s.suggester == nil {
		return nil, ErrAIServiceNotConfigured
	}

	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return nil, NewValidationError("text", "Text is required")
	case runeLen(text) > constants.MaxSuggestTextLength:
		return nil, NewValidationError("text", fmt.Sprintf("Text cannot be more than %d characters", constants.MaxSuggestTextLength))
	}

	raw, err := s.suggester.SuggestTasks(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest tasks: %w", err)
	}

	suggestions := make([]SuggestedTask, 0, len(raw))
	for _, st := range raw {
		st.Title = truncateRunes(strings.TrimSpace(st.Title), constants.MaxTitleLength)
		if st.Title == "" {
			continue
		}
		st.Description = truncateRunes(strings.TrimSpace(st.Description), constants.MaxDescriptionLength)
		if !st.Priority.Valid() {
			st.Priority = models.TaskPriorityMedium
		}
		suggestions = append(suggestions, st)
		if len(suggestions) == constants.MaxAISuggestedTasks {
			break
		}
	}

	logger.L().Debug("task suggestions generated",
		zap.String("user_id", callerID),
		zap.Int("received", len(raw)),
		zap.Int("returned", len(suggestions)),
	)

	return suggestions, nil
}

const (
	statusMessage   = "Status must be one of todo, in-progress, done"
	priorityMessage = "Priority must be one of low, medium, high"
)

func validateTask(task *models.Task) error {
	var errs ValidationErrors

	switch n := runeLen(task.Title); {
	case n == 0:
		errs.add("title", "Title is required")
	case n > constants.MaxTitleLength:
		errs.add("title", fmt.Sprintf("Title cannot be more than %d characters", constants.MaxTitleLength))
	}
	if runeLen(task.Description) > constants.MaxDescriptionLength {
		errs.add("description", fmt.Sprintf("Description cannot be more than %d characters", constants.MaxDescriptionLength))
	}
	if !task.Status.Valid() {
		errs.add("status", statusMessage)
	}
	if !task.Priority.Valid() {
		errs.add("priority", priorityMessage)
	}

	return errs.err()
}

func truncateRunes(s string, limit int) string {
	if runeLen(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
