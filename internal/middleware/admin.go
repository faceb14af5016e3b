package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"taskmanager/internal/domain"
	"taskmanager/internal/pkg/response"
)

// UserGetter is the slice of the user repository the admin gate needs.
type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// AdminOnly checks the role against the database rather than the token
// claim, so a demotion applies before the token expires.
func AdminOnly(users UserGetter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := CurrentUserID(c)
		if userID == 0 {
			response.AbortError(c, http.StatusUnauthorized, response.KindUnauthorized, "Authorization required")
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.AbortError(c, http.StatusNotFound, response.KindNotFound, "User not found")
				return
			}
			response.AbortError(c, http.StatusInternalServerError, response.KindServer, "Failed to verify role")
			return
		}

		if !user.IsAdmin() {
			response.AbortError(c, http.StatusForbidden, response.KindForbidden, "Admin privileges required")
			return
		}

		c.Next()
	}
}
