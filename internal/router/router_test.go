package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/testutil"
)

func newTestRouter(t *testing.T, limiter *middleware.RateLimiter) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	tokens, err := auth.NewTokenManager("router-secret", time.Hour)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	return New(Deps{
		AuthService:    services.NewAuthService(userRepo, tokens),
		ProfileService: services.NewProfileService(userRepo),
		TaskService:    services.NewTaskService(repository.NewTaskRepository(db), nil),
		RateLimiter:    limiter,
		FrontendURL:    "http://localhost:3000",
	})
}

func call(t *testing.T, r *gin.Engine, method, path, token string, payload interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	return w, decoded
}

func register(t *testing.T, r *gin.Engine, name, email string) string {
	t.Helper()
	w, body := call(t, r, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return body["token"].(string)
}

func TestRouter_Scenario(t *testing.T) {
	r := newTestRouter(t, nil)

	alice := register(t, r, "Alice", "alice@example.com")

	w, body := call(t, r, http.MethodPost, "/api/v1/tasks", alice, map[string]string{"title": "Buy milk"})
	require.Equal(t, http.StatusCreated, w.Code)
	task := body["task"].(map[string]interface{})
	taskID := task["id"].(string)
	assert.Equal(t, "todo", task["status"])
	assert.Equal(t, "medium", task["priority"])

	w, body = call(t, r, http.MethodPatch, "/api/v1/tasks/"+taskID, alice, map[string]string{"status": "done"})
	require.Equal(t, http.StatusOK, w.Code)
	task = body["task"].(map[string]interface{})
	assert.Equal(t, "done", task["status"])
	assert.Equal(t, "Buy milk", task["title"])
	assert.Equal(t, "medium", task["priority"])

	register(t, r, "Bob", "bob@example.com")
	w, body = call(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "bob@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	bob := body["token"].(string)

	w, _ = call(t, r, http.MethodGet, "/api/v1/tasks/"+taskID, bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = call(t, r, http.MethodGet, "/api/v1/tasks", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), body["count"])

	w, body = call(t, r, http.MethodGet, "/api/v1/tasks?status=done", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["count"])

	w, _ = call(t, r, http.MethodDelete, "/api/v1/tasks/"+taskID, alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = call(t, r, http.MethodDelete, "/api/v1/tasks/"+taskID, alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_AuthRequired(t *testing.T) {
	r := newTestRouter(t, nil)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/tasks"},
		{http.MethodPost, "/api/v1/tasks"},
		{http.MethodGet, "/api/v1/profile"},
		{http.MethodGet, "/api/v1/auth/me"},
		{http.MethodDelete, "/api/v1/tasks/6f9619ff-8b86-d011-b42d-00c04fc964ff"},
	} {
		w, body := call(t, r, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, route.path)
		assert.Equal(t, false, body["success"], route.path)
	}
}

func TestRouter_MalformedTaskID(t *testing.T) {
	r := newTestRouter(t, nil)
	token := register(t, r, "Alice", "alice@example.com")

	w, body := call(t, r, http.MethodGet, "/api/v1/tasks/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Task not found", body["error"])
}

func TestRouter_HealthDocsAndNotFound(t *testing.T) {
	r := newTestRouter(t, nil)

	w, body := call(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", body["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w, body = call(t, r, http.MethodGet, "/api-docs", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["endpoints"], len(Endpoints))

	w, body = call(t, r, http.MethodGet, "/api/v1/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", body["error"])
}

func TestRouter_RateLimited(t *testing.T) {
	r := newTestRouter(t, middleware.NewRateLimiter(time.Hour, 2))

	for i := 0; i < 2; i++ {
		w, _ := call(t, r, http.MethodGet, "/api/v1/tasks", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w, body := call(t, r, http.MethodGet, "/api/v1/tasks", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_LIMITED", body["code"])

	// health checks are outside /api
	w, _ = call(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_BodyTooLarge(t *testing.T) {
	r := newTestRouter(t, nil)
	token := register(t, r, "Alice", "alice@example.com")
	huge := strings.Repeat("x", constants.MaxRequestBodyBytes+1)

	w, body := call(t, r, http.MethodPost, "/api/v1/tasks", token, map[string]string{"title": huge})
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", body["code"])

	w, body = call(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": huge, "password": "secret1"})
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", body["code"])

	// malformed JSON under the cap is still a 400
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
