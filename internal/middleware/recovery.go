package middleware

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/logger"
	"go.uber.org/zap"
)

// Recovery logs panics and returns 500 with a generic message.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.L().Error("panic recovered",
					zap.String("id", GetRequestID(c)),
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()),
				)
				apierrors.InternalError(c, "")
			}
		}()
		c.Next()
	}
}
