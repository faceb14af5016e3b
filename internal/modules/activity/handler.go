package activity

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/middleware"
	"taskmanager/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.GET("/activities", h.ListMine)
}

// ListMine returns the caller's recent activity feed.
// Query: limit (default 50, max 100), offset (default 0).
func (h *Handler) ListMine(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	limit, err1 := intQuery(c, "limit", 50)
	offset, err2 := intQuery(c, "offset", 0)
	if err1 != nil || err2 != nil {
		response.Error(c, http.StatusBadRequest, response.KindValidation, "limit and offset must be integers")
		return
	}

	entries, err := h.service.ListForUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.KindServer, "Failed to load activities")
		return
	}

	c.JSON(http.StatusOK, gin.H{"activities": entries})
}

func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
