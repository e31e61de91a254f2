package response

import (
	"log/slog"
	"net/http"

	"anoa.com/fatetable/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		slog.Error("internal error",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		c.JSON(code, gin.H{"error": apperror.ErrInternal.Error()})
		return
	}

	body := gin.H{"error": err.Error()}
	if reason := apperror.ReasonOf(err); reason != "" {
		body["reason"] = reason
	}
	c.JSON(code, body)
}

// ParamUUID parses a uuid path parameter, writing a 400 when it is malformed.
func ParamUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// QueryUUID parses an optional uuid query parameter.
func QueryUUID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return nil, false
	}
	return &id, true
}

// RequiredQueryUUID is QueryUUID for a parameter that must be present.
func RequiredQueryUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, ok := QueryUUID(c, name)
	if !ok {
		return uuid.Nil, false
	}
	if id == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " is required"})
		return uuid.Nil, false
	}
	return *id, true
}
