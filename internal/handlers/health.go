package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
)

// Endpoint documents one public route.
type Endpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Auth        bool   `json:"auth"`
	Description string `json:"description"`
}

// Health reports that the process is serving.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// APIDocs lists the available endpoints.
func APIDocs(endpoints []Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"version":   "v1",
			"endpoints": endpoints,
		})
	}
}

// NotFound answers requests for unknown routes.
func NotFound(c *gin.Context) {
	apierrors.NotFound(c, "Route not found")
}
