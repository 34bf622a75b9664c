// Package router assembles the HTTP route table and middleware chain.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/handlers"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

// Deps are the collaborators the routes are served by.
type Deps struct {
	AuthService    *services.AuthService
	ProfileService *services.ProfileService
	TaskService    *services.TaskService
	RateLimiter    *middleware.RateLimiter
	FrontendURL    string
}

// Endpoints is the public route table served under /api-docs.
var Endpoints = []handlers.Endpoint{
	{Method: http.MethodPost, Path: "/api/v1/auth/register", Description: "Register a new user"},
	{Method: http.MethodPost, Path: "/api/v1/auth/login", Description: "Log in and receive a bearer token"},
	{Method: http.MethodGet, Path: "/api/v1/auth/me", Auth: true, Description: "Current user"},
	{Method: http.MethodPost, Path: "/api/v1/auth/logout", Auth: true, Description: "Log out (client discards the token)"},
	{Method: http.MethodGet, Path: "/api/v1/profile", Auth: true, Description: "Get own profile"},
	{Method: http.MethodPut, Path: "/api/v1/profile", Auth: true, Description: "Update name and/or email"},
	{Method: http.MethodGet, Path: "/api/v1/tasks", Auth: true, Description: "List own tasks (?status=&search=)"},
	{Method: http.MethodPost, Path: "/api/v1/tasks", Auth: true, Description: "Create a task"},
	{Method: http.MethodPost, Path: "/api/v1/tasks/suggest", Auth: true, Description: "Suggest tasks from free text"},
	{Method: http.MethodGet, Path: "/api/v1/tasks/:id", Auth: true, Description: "Get a task"},
	{Method: http.MethodPut, Path: "/api/v1/tasks/:id", Auth: true, Description: "Update a task (PATCH also accepted)"},
	{Method: http.MethodDelete, Path: "/api/v1/tasks/:id", Auth: true, Description: "Delete a task"},
	{Method: http.MethodGet, Path: "/health", Description: "Health check"},
}

// New builds the gin engine.
func New(deps Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.SecureHeaders(),
		middleware.CORS(deps.FrontendURL),
		middleware.DefaultBodyLimit(),
	)

	r.GET("/health", handlers.Health)
	r.GET("/api-docs", handlers.APIDocs(Endpoints))
	r.NoRoute(handlers.NotFound)

	authHandler := handlers.NewAuthHandler(deps.AuthService)
	profileHandler := handlers.NewProfileHandler(deps.ProfileService)
	taskHandler := handlers.NewTaskHandler(deps.TaskService)
	requireAuth := middleware.RequireAuth(deps.AuthService)

	api := r.Group("/api")
	if deps.RateLimiter != nil {
		api.Use(deps.RateLimiter.Middleware())
	}

	v1 := api.Group("/v1")
	{
		// Auth routes
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
			auth.POST("/logout", requireAuth, authHandler.Logout)
		}

		// Profile routes (protected)
		profile := v1.Group("/profile")
		profile.Use(requireAuth)
		{
			profile.GET("", profileHandler.GetProfile)
			profile.PUT("", profileHandler.UpdateProfile)
		}

		// Task routes (protected)
		tasks := v1.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/suggest", taskHandler.SuggestTasks)
			tasks.GET("/:id", middleware.RequireTaskID(), taskHandler.GetTask)
			tasks.PUT("/:id", middleware.RequireTaskID(), taskHandler.UpdateTask)
			tasks.PATCH("/:id", middleware.RequireTaskID(), taskHandler.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireTaskID(), taskHandler.DeleteTask)
		}
	}

	return r
}
