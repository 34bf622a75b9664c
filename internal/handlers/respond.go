package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/logger"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"go.uber.org/zap"
)

// immutableFields may appear in request bodies but are never applied.
var immutableFields = map[string]struct{}{
	"id":         {},
	"_id":        {},
	"userId":     {},
	"user_id":    {},
	"createdAt":  {},
	"updatedAt":  {},
	"created_at": {},
	"updated_at": {},
}

// bindFields decodes a flat JSON object of string fields. Keys outside
// allowed are rejected unless they name an immutable field, which is dropped.
// A JSON null leaves the field unset.
func bindFields(c *gin.Context, allowed ...string) (map[string]*string, bool) {
	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		respondBindError(c, err)
		return nil, false
	}

	permitted := make(map[string]struct{}, len(allowed))
	for _, key := range allowed {
		permitted[key] = struct{}{}
	}

	fields := make(map[string]*string, len(allowed))
	var verrs services.ValidationErrors
	for key, value := range raw {
		if _, ok := permitted[key]; !ok {
			if _, ignored := immutableFields[key]; !ignored {
				verrs = append(verrs, services.ValidationError{Field: key, Message: fmt.Sprintf("Field %q cannot be set", key)})
			}
			continue
		}

		var s *string
		if err := json.Unmarshal(value, &s); err != nil {
			verrs = append(verrs, services.ValidationError{Field: key, Message: fmt.Sprintf("Field %q must be a string", key)})
			continue
		}
		if s != nil {
			fields[key] = s
		}
	}

	if len(verrs) > 0 {
		respondValidation(c, verrs)
		return nil, false
	}

	return fields, true
}

// respondBindError answers 413 when the body hit the size cap and 400 for
// anything else that failed to decode.
func respondBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		apierrors.PayloadTooLarge(c, "")
		return
	}
	apierrors.BadRequest(c, "Invalid request body")
}

func respondValidation(c *gin.Context, verrs services.ValidationErrors) {
	apierrors.BadRequestWithDetails(c, verrs[0].Message, verrs)
}

// respondCommonError handles failures shared by every handler family and
// reports whether it wrote a response.
func respondCommonError(c *gin.Context, err error) bool {
	var verrs services.ValidationErrors
	switch {
	case errors.As(err, &verrs) && len(verrs) > 0:
		respondValidation(c, verrs)
	case errors.Is(err, services.ErrInvalidInput):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		apierrors.Unauthorized(c, "")
	default:
		return false
	}
	return true
}

func respondInternal(c *gin.Context, err error) {
	logger.L().Error("request failed",
		zap.String("id", middleware.GetRequestID(c)),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	_ = c.Error(err)
	apierrors.InternalError(c, "")
}

func stringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
