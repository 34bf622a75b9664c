package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the caller's tasks, optionally filtered by status and search
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), userID, services.ListTasksInput{
		Status: c.Query("status"),
		Search: c.Query("search"),
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), userID, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskResponse{Success: true, Task: dto.ToTaskDTO(*task)})
}

// CreateTask creates a new task owned by the caller
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	fields, ok := bindFields(c, "title", "description", "status", "priority")
	if !ok {
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), userID, services.CreateTaskInput{
		Title:       stringValue(fields["title"]),
		Description: stringValue(fields["description"]),
		Status:      stringValue(fields["status"]),
		Priority:    stringValue(fields["priority"]),
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.TaskResponse{Success: true, Task: dto.ToTaskDTO(*task)})
}

// UpdateTask applies a partial update to an existing task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	fields, ok := bindFields(c, "title", "description", "status", "priority")
	if !ok {
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), userID, taskID, services.UpdateTaskInput{
		Title:       fields["title"],
		Description: fields["description"],
		Status:      fields["status"],
		Priority:    fields["priority"],
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskResponse{Success: true, Task: dto.ToTaskDTO(*task)})
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), userID, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: "Task deleted successfully",
	})
}

// SuggestTasks extracts task suggestions from free text without storing them
func (h *TaskHandler) SuggestTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	fields, ok := bindFields(c, "text")
	if !ok {
		return
	}

	suggestions, err := h.taskService.SuggestTasks(c.Request.Context(), userID, stringValue(fields["text"]))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	items := make([]dto.SuggestedTaskDTO, len(suggestions))
	for i, s := range suggestions {
		items[i] = dto.SuggestedTaskDTO{
			Title:       s.Title,
			Description: s.Description,
			Priority:    s.Priority,
		}
	}

	c.JSON(http.StatusOK, dto.SuggestTasksResponse{
		Success: true,
		Count:   len(items),
		Tasks:   items,
	})
}

func taskRequest(c *gin.Context) (string, string, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return "", "", false
	}

	taskID, exists := middleware.GetTaskID(c)
	if !exists {
		apierrors.NotFound(c, "Task not found")
		return "", "", false
	}

	return userID, taskID, true
}

func respondTaskError(c *gin.Context, err error) {
	if respondCommonError(c, err) {
		return
	}

	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "Task suggestions are not available")
	default:
		respondInternal(c, err)
	}
}
