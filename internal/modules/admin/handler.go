package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/domain"
	"taskmanager/internal/middleware"
	"taskmanager/internal/modules/activity"
	"taskmanager/internal/pkg/response"
)

type Handler struct {
	service  *Service
	activity activity.Recorder
}

func NewHandler(service *Service, recorder activity.Recorder) *Handler {
	return &Handler{service: service, activity: recorder}
}

// RegisterRoutes mounts the admin surface; the caller gates the group
// with the admin-only middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	{
		admin.GET("/users", h.ListUsers)
		admin.GET("/users/:id", h.GetUser)
		admin.PUT("/users/:id", h.UpdateUser)
		admin.DELETE("/users/:id", h.DeleteUser)
		admin.GET("/stats", h.GetStats)
	}
}

func (h *Handler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	users, total, err := h.service.ListUsers(c.Request.Context(), page, perPage)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.KindServer, "Failed to list users")
		return
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))

	c.JSON(http.StatusOK, UserListResponse{
		Users:      users,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	})
}

func (h *Handler) GetUser(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		return
	}

	u, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err, "Failed to load user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *Handler) UpdateUser(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !response.Bind(c, &req) {
		return
	}

	adminID := middleware.CurrentUserID(c)
	u, err := h.service.UpdateUser(c.Request.Context(), adminID, userID, req)
	if err != nil {
		h.writeError(c, err, "Failed to update user")
		return
	}

	h.record(c, adminID, domain.ActivityUserUpdate, u.ID, "User updated by admin")

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    u,
	})
}

func (h *Handler) DeleteUser(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		return
	}

	adminID := middleware.CurrentUserID(c)
	if err := h.service.DeleteUser(c.Request.Context(), adminID, userID); err != nil {
		h.writeError(c, err, "Failed to delete user")
		return
	}

	h.record(c, adminID, domain.ActivityUserDelete, userID, "User deleted by admin")

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.KindServer, "Failed to load stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, response.KindNotFound, "User not found")
	case errors.Is(err, ErrSelfEdit):
		response.Error(c, http.StatusForbidden, response.KindForbidden, "Cannot modify your own account here")
	case errors.Is(err, ErrEmailExists):
		response.Error(c, http.StatusConflict, response.KindConflict, "Email already registered")
	case errors.Is(err, ErrUsernameExists):
		response.Error(c, http.StatusConflict, response.KindConflict, "Username already taken")
	default:
		response.Error(c, http.StatusInternalServerError, response.KindServer, fallback)
	}
}

func (h *Handler) record(c *gin.Context, userID int64, activityType domain.ActivityType, entityID int64, description string) {
	h.activity.Log(c.Request.Context(), activity.Record{
		UserID:      userID,
		Type:        activityType,
		EntityType:  "user",
		EntityID:    entityID,
		Description: description,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
	})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.Error(c, http.StatusBadRequest, response.KindValidation, "Invalid id")
		return 0, false
	}
	return id, true
}
