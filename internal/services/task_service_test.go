package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-tracker-api/internal/models"
)

type TaskServiceTestSuite struct {
	suite.Suite
	svc   *testServices
	ctx   context.Context
	alice string
	bob   string
}

func (suite *TaskServiceTestSuite) SetupTest() {
	suite.svc = newTestServices(suite.T(), nil)
	suite.ctx = context.Background()
	suite.alice = mustRegister(suite.T(), suite.svc.auth, "Alice", "alice@example.com")
	suite.bob = mustRegister(suite.T(), suite.svc.auth, "Bob", "bob@example.com")
}

func (suite *TaskServiceTestSuite) create(owner string, input CreateTaskInput) *models.Task {
	task, err := suite.svc.tasks.CreateTask(suite.ctx, owner, input)
	suite.Require().NoError(err)
	return task
}

func (suite *TaskServiceTestSuite) TestCreate_Defaults() {
	task := suite.create(suite.alice, CreateTaskInput{Title: "  Buy milk  "})

	suite.NotEmpty(task.ID)
	suite.Equal("Buy milk", task.Title)
	suite.Equal(models.TaskStatusTodo, task.Status)
	suite.Equal(models.TaskPriorityMedium, task.Priority)
	suite.Equal(suite.alice, task.UserID)
	suite.False(task.CreatedAt.IsZero())
}

func (suite *TaskServiceTestSuite) TestCreate_Invalid() {
	cases := map[string]CreateTaskInput{
		"title":       {Title: "   "},
		"status":      {Title: "x", Status: "blocked"},
		"priority":    {Title: "x", Priority: "urgent"},
		"description": {Title: "x", Description: strings.Repeat("d", 501)},
	}
	for field, input := range cases {
		_, err := suite.svc.tasks.CreateTask(suite.ctx, suite.alice, input)
		suite.Require().ErrorIs(err, ErrInvalidInput, field)

		var verrs ValidationErrors
		suite.Require().True(errors.As(err, &verrs))
		suite.Equal(field, verrs[0].Field)
	}

	_, err := suite.svc.tasks.CreateTask(suite.ctx, suite.alice, CreateTaskInput{Title: strings.Repeat("t", 101)})
	suite.ErrorIs(err, ErrInvalidInput)
}

func (suite *TaskServiceTestSuite) TestGet_OtherOwnerIsNotFound() {
	task := suite.create(suite.alice, CreateTaskInput{Title: "Private"})

	_, err := suite.svc.tasks.GetTask(suite.ctx, suite.bob, task.ID)
	suite.ErrorIs(err, ErrTaskNotFound)

	_, err = suite.svc.tasks.GetTask(suite.ctx, suite.alice, "does-not-exist")
	suite.ErrorIs(err, ErrTaskNotFound)

	_, err = suite.svc.tasks.UpdateTask(suite.ctx, suite.bob, task.ID, UpdateTaskInput{Title: ptr("stolen")})
	suite.ErrorIs(err, ErrTaskNotFound)

	suite.ErrorIs(suite.svc.tasks.DeleteTask(suite.ctx, suite.bob, task.ID), ErrTaskNotFound)

	got, err := suite.svc.tasks.GetTask(suite.ctx, suite.alice, task.ID)
	suite.Require().NoError(err)
	suite.Equal("Private", got.Title)
}

func (suite *TaskServiceTestSuite) TestList_StatusFilterAndOrder() {
	first := suite.create(suite.alice, CreateTaskInput{Title: "First", Status: "done"})
	suite.create(suite.alice, CreateTaskInput{Title: "Second"})
	third := suite.create(suite.alice, CreateTaskInput{Title: "Third", Status: "done"})
	suite.create(suite.bob, CreateTaskInput{Title: "Bob's", Status: "done"})

	tasks, err := suite.svc.tasks.ListTasks(suite.ctx, suite.alice, ListTasksInput{Status: "done"})
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 2)
	suite.Equal(third.ID, tasks[0].ID)
	suite.Equal(first.ID, tasks[1].ID)
	for _, task := range tasks {
		suite.Equal(models.TaskStatusDone, task.Status)
		suite.Equal(suite.alice, task.UserID)
	}

	all, err := suite.svc.tasks.ListTasks(suite.ctx, suite.alice, ListTasksInput{})
	suite.Require().NoError(err)
	suite.Len(all, 3)
}

func (suite *TaskServiceTestSuite) TestList_Search() {
	suite.create(suite.alice, CreateTaskInput{Title: "Buy milk"})
	suite.create(suite.alice, CreateTaskInput{Title: "Call mom", Description: "about the MILK"})
	suite.create(suite.alice, CreateTaskInput{Title: "Walk dog"})

	tasks, err := suite.svc.tasks.ListTasks(suite.ctx, suite.alice, ListTasksInput{Search: "Milk"})
	suite.Require().NoError(err)
	suite.Len(tasks, 2)

	none, err := suite.svc.tasks.ListTasks(suite.ctx, suite.bob, ListTasksInput{Search: "milk"})
	suite.Require().NoError(err)
	suite.NotNil(none)
	suite.Empty(none)
}

func (suite *TaskServiceTestSuite) TestList_UnknownStatusMatchesNothing() {
	suite.create(suite.alice, CreateTaskInput{Title: "Buy milk"})

	tasks, err := suite.svc.tasks.ListTasks(suite.ctx, suite.alice, ListTasksInput{Status: "archived"})
	suite.Require().NoError(err)
	suite.NotNil(tasks)
	suite.Empty(tasks)
}

func (suite *TaskServiceTestSuite) TestUpdate_Partial() {
	task := suite.create(suite.alice, CreateTaskInput{Title: "Report", Description: "Q3", Priority: "high"})

	updated, err := suite.svc.tasks.UpdateTask(suite.ctx, suite.alice, task.ID, UpdateTaskInput{Status: ptr("in-progress")})
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusInProgress, updated.Status)
	suite.Equal("Report", updated.Title)
	suite.Equal("Q3", updated.Description)
	suite.Equal(models.TaskPriorityHigh, updated.Priority)
	suite.True(updated.UpdatedAt.After(task.CreatedAt))

	reloaded, err := suite.svc.tasks.GetTask(suite.ctx, suite.alice, task.ID)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusInProgress, reloaded.Status)
	suite.Equal("Q3", reloaded.Description)
	suite.Equal(suite.alice, reloaded.UserID)
}

func (suite *TaskServiceTestSuite) TestUpdate_Invalid() {
	task := suite.create(suite.alice, CreateTaskInput{Title: "Report"})

	_, err := suite.svc.tasks.UpdateTask(suite.ctx, suite.alice, task.ID, UpdateTaskInput{Priority: ptr("critical")})
	suite.ErrorIs(err, ErrInvalidInput)

	_, err = suite.svc.tasks.UpdateTask(suite.ctx, suite.alice, task.ID, UpdateTaskInput{Title: ptr(" ")})
	suite.ErrorIs(err, ErrInvalidInput)

	reloaded, err := suite.svc.tasks.GetTask(suite.ctx, suite.alice, task.ID)
	suite.Require().NoError(err)
	suite.Equal("Report", reloaded.Title)
	suite.Equal(models.TaskPriorityMedium, reloaded.Priority)
}

func (suite *TaskServiceTestSuite) TestDelete_IsTerminal() {
	task := suite.create(suite.alice, CreateTaskInput{Title: "Temp"})

	suite.Require().NoError(suite.svc.tasks.DeleteTask(suite.ctx, suite.alice, task.ID))

	_, err := suite.svc.tasks.GetTask(suite.ctx, suite.alice, task.ID)
	suite.ErrorIs(err, ErrTaskNotFound)
	_, err = suite.svc.tasks.UpdateTask(suite.ctx, suite.alice, task.ID, UpdateTaskInput{Title: ptr("again")})
	suite.ErrorIs(err, ErrTaskNotFound)
	suite.ErrorIs(suite.svc.tasks.DeleteTask(suite.ctx, suite.alice, task.ID), ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestScenario() {
	ctx := suite.ctx
	user, _, err := suite.svc.auth.Register(ctx, RegisterInput{Name: "Alice", Email: "alice2@example.com", Password: "secret1"})
	suite.Require().NoError(err)

	task, err := suite.svc.tasks.CreateTask(ctx, user.ID, CreateTaskInput{Title: "Buy milk"})
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusTodo, task.Status)
	suite.Equal(models.TaskPriorityMedium, task.Priority)

	updated, err := suite.svc.tasks.UpdateTask(ctx, user.ID, task.ID, UpdateTaskInput{Status: ptr("done")})
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusDone, updated.Status)
	suite.Equal("Buy milk", updated.Title)
	suite.Equal(models.TaskPriorityMedium, updated.Priority)

	bob, _, err := suite.svc.auth.Login(ctx, LoginInput{Email: "bob@example.com", Password: "secret1"})
	suite.Require().NoError(err)
	_, err = suite.svc.tasks.GetTask(ctx, bob.ID, task.ID)
	suite.ErrorIs(err, ErrTaskNotFound)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
