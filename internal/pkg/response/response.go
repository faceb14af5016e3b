package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/pkg/validator"
)

// Error kinds used across handlers. The wire shape is
// {"error": <kind>, "message"?: <string>}.
const (
	KindValidation   = "Validation error"
	KindCredentials  = "Invalid credentials"
	KindUnauthorized = "Unauthorized"
	KindForbidden    = "Forbidden"
	KindNotFound     = "Not found"
	KindConflict     = "Conflict"
	KindRateLimited  = "Rate limit exceeded"
	KindServer       = "Server error"
)

func Error(c *gin.Context, statusCode int, kind string, message string) {
	c.JSON(statusCode, gin.H{
		"error":   kind,
		"message": message,
	})
}

func AbortError(c *gin.Context, statusCode int, kind string, message string) {
	c.AbortWithStatusJSON(statusCode, gin.H{
		"error":   kind,
		"message": message,
	})
}

// ValidationError carries field-level messages alongside the kind.
func ValidationError(c *gin.Context, messages map[string]string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":    KindValidation,
		"messages": messages,
	})
}

// Bind decodes the JSON body with gin's binding validation, writing the
// error response itself on failure.
func Bind(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		if messages := validator.Messages(err); messages != nil {
			ValidationError(c, messages)
		} else {
			Error(c, http.StatusBadRequest, KindValidation, "Invalid request body")
		}
		return false
	}
	return true
}
