package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/logger"
	"go.uber.org/zap"
)

// IdentityResolver maps a bearer credential to the user ID it was issued to.
type IdentityResolver interface {
	ResolveIdentity(token string) (string, error)
}

// RequireAuth checks the bearer token and stores the caller's user ID in the context
func RequireAuth(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader(constants.HeaderAuthorization))
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		userID, err := resolver.ResolveIdentity(token)
		if err != nil {
			logger.L().Debug("rejected credential",
				zap.String("request_id", GetRequestID(c)),
				zap.Error(err),
			)
			apierrors.Unauthorized(c, "")
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", false
	}

	id, ok := userID.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, constants.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
