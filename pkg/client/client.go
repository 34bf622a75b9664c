// Package client is a Go client for the task tracker API. Credentials live in
// an explicit Session value that callers pass to every authenticated call.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// User is the public view of an account.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Task is a stored task.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Session holds the credential of a logged-in user.
type Session struct {
	Token string
	User  User
}

// Valid reports whether the session carries a credential.
func (s Session) Valid() bool {
	return s.Token != ""
}

// NewTask is the payload for CreateTask. Empty status and priority use the
// server defaults.
type NewTask struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

// TaskUpdate is a partial update; nil fields are left unchanged.
type TaskUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
}

// ProfileUpdate is a partial profile update; nil fields are left unchanged.
type ProfileUpdate struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// Suggestion is a task proposed by the server that has not been stored.
type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// TaskFilter narrows ListTasks. Empty fields match everything.
type TaskFilter struct {
	Status string
	Search string
}

// FieldError is a per-field validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Fields     []FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Client talks to one API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a Client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api/v1",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type authResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type userResponse struct {
	User User `json:"user"`
}

type taskResponse struct {
	Task Task `json:"task"`
}

type suggestResponse struct {
	Tasks []Suggestion `json:"tasks"`
}

type taskListResponse struct {
	Count int    `json:"count"`
	Tasks []Task `json:"tasks"`
}

// Register creates an account and returns its session.
func (c *Client) Register(ctx context.Context, name, email, password string) (Session, error) {
	var resp authResponse
	err := c.do(ctx, Session{}, http.MethodPost, "/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: resp.Token, User: resp.User}, nil
}

// Login returns a fresh session for the given credentials.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var resp authResponse
	err := c.do(ctx, Session{}, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: resp.Token, User: resp.User}, nil
}

// Logout notifies the server and returns the empty session the caller should
// keep from now on.
func (c *Client) Logout(ctx context.Context, s Session) (Session, error) {
	if err := c.do(ctx, s, http.MethodPost, "/auth/logout", nil, nil); err != nil {
		return Session{}, err
	}
	return Session{}, nil
}

// Me returns the user the session belongs to.
func (c *Client) Me(ctx context.Context, s Session) (User, error) {
	var resp userResponse
	err := c.do(ctx, s, http.MethodGet, "/auth/me", nil, &resp)
	return resp.User, err
}

// GetProfile returns the caller's profile.
func (c *Client) GetProfile(ctx context.Context, s Session) (User, error) {
	var resp userResponse
	err := c.do(ctx, s, http.MethodGet, "/profile", nil, &resp)
	return resp.User, err
}

// UpdateProfile changes the caller's name and/or email.
func (c *Client) UpdateProfile(ctx context.Context, s Session, update ProfileUpdate) (User, error) {
	var resp userResponse
	err := c.do(ctx, s, http.MethodPut, "/profile", update, &resp)
	return resp.User, err
}

// ListTasks returns the caller's tasks, newest first.
func (c *Client) ListTasks(ctx context.Context, s Session, filter TaskFilter) ([]Task, error) {
	q := url.Values{}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	path := "/tasks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp taskListResponse
	if err := c.do(ctx, s, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

// GetTask returns one of the caller's tasks.
func (c *Client) GetTask(ctx context.Context, s Session, id string) (Task, error) {
	var resp taskResponse
	err := c.do(ctx, s, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, &resp)
	return resp.Task, err
}

// CreateTask creates a task owned by the caller.
func (c *Client) CreateTask(ctx context.Context, s Session, task NewTask) (Task, error) {
	var resp taskResponse
	err := c.do(ctx, s, http.MethodPost, "/tasks", task, &resp)
	return resp.Task, err
}

// UpdateTask applies a partial update to one of the caller's tasks.
func (c *Client) UpdateTask(ctx context.Context, s Session, id string, update TaskUpdate) (Task, error) {
	var resp taskResponse
	err := c.do(ctx, s, http.MethodPut, "/tasks/"+url.PathEscape(id), update, &resp)
	return resp.Task, err
}

// DeleteTask removes one of the caller's tasks.
func (c *Client) DeleteTask(ctx context.Context, s Session, id string) error {
	return c.do(ctx, s, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil)
}

// SuggestTasks asks the server to extract tasks from free text. Nothing is
// stored; pass the ones to keep to CreateTask.
func (c *Client) SuggestTasks(ctx context.Context, s Session, text string) ([]Suggestion, error) {
	var resp suggestResponse
	if err := c.do(ctx, s, http.MethodPost, "/tasks/suggest", map[string]string{"text": text}, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func (c *Client) do(ctx context.Context, s Session, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.Valid() {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var envelope struct {
		Code   string       `json:"code"`
		Error  string       `json:"error"`
		Errors []FieldError `json:"errors"`
	}
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		apiErr.Message = http.StatusText(resp.StatusCode)
		return apiErr
	}
	apiErr.Code = envelope.Code
	apiErr.Message = envelope.Error
	apiErr.Fields = envelope.Errors
	return apiErr
}
