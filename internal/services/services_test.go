package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/testutil"
)

type testServices struct {
	auth    *AuthService
	profile *ProfileService
	tasks   *TaskService
}

func newTestServices(t *testing.T, suggester TaskSuggester) *testServices {
	t.Helper()

	db := testutil.NewTestDB(t)
	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	tasks := NewTaskService(taskRepo, suggester)
	tasks.now = steppingClock(time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC), time.Second)

	return &testServices{
		auth:    NewAuthService(userRepo, tokens),
		profile: NewProfileService(userRepo),
		tasks:   tasks,
	}
}

// steppingClock returns a clock that advances by step on every call.
func steppingClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(step)
		return current
	}
}

func mustRegister(t *testing.T, s *AuthService, name, email string) string {
	t.Helper()
	user, _, err := s.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: "secret1"})
	require.NoError(t, err)
	return user.ID
}

func ptr[T any](v T) *T {
	return &v
}
