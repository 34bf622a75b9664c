package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
)

// RequireTaskID validates the :id path parameter and stores it in the context.
// A malformed id is answered exactly like a missing task so callers cannot
// probe for identifiers.
func RequireTaskID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			apierrors.NotFound(c, "Task not found")
			return
		}

		c.Set(constants.ContextKeyTaskID, id.String())
		c.Next()
	}
}

// GetTaskID retrieves the validated task ID from context
func GetTaskID(c *gin.Context) (string, bool) {
	id := c.GetString(constants.ContextKeyTaskID)
	return id, id != ""
}
