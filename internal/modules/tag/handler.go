package tag

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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	tags := rg.Group("/tags")
	{
		tags.GET("", h.List)
		tags.POST("", h.Create)
		tags.GET("/:id", h.Get)
		tags.PUT("/:id", h.Update)
		tags.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateTagRequest
	if !response.Bind(c, &req) {
		return
	}

	userID := middleware.CurrentUserID(c)
	t, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.writeError(c, err, "Failed to create tag")
		return
	}

	h.record(c, userID, domain.ActivityTagCreate, t.ID, "Tag created: "+t.Name)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Tag created successfully",
		"tag":     t,
	})
}

func (h *Handler) Get(c *gin.Context) {
	tagID, ok := pathID(c)
	if !ok {
		return
	}

	t, err := h.service.Get(c.Request.Context(), middleware.CurrentUserID(c), tagID)
	if err != nil {
		h.writeError(c, err, "Failed to load tag")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tag": t})
}

func (h *Handler) List(c *gin.Context) {
	tags, err := h.service.List(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.KindServer, "Failed to list tags")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

func (h *Handler) Update(c *gin.Context) {
	tagID, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateTagRequest
	if !response.Bind(c, &req) {
		return
	}

	userID := middleware.CurrentUserID(c)
	t, err := h.service.Update(c.Request.Context(), userID, tagID, req)
	if err != nil {
		h.writeError(c, err, "Failed to update tag")
		return
	}

	h.record(c, userID, domain.ActivityTagUpdate, t.ID, "Tag updated: "+t.Name)

	c.JSON(http.StatusOK, gin.H{
		"message": "Tag updated successfully",
		"tag":     t,
	})
}

func (h *Handler) Delete(c *gin.Context) {
	tagID, ok := pathID(c)
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(c)
	if err := h.service.Delete(c.Request.Context(), userID, tagID); err != nil {
		h.writeError(c, err, "Failed to delete tag")
		return
	}

	h.record(c, userID, domain.ActivityTagDelete, tagID, "Tag deleted")

	c.JSON(http.StatusOK, gin.H{"message": "Tag deleted successfully"})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrTagNotFound):
		response.Error(c, http.StatusNotFound, response.KindNotFound, "Tag not found")
	case errors.Is(err, ErrNameTaken):
		response.Error(c, http.StatusConflict, response.KindConflict, "Tag with this name already exists")
	default:
		response.Error(c, http.StatusInternalServerError, response.KindServer, fallback)
	}
}

func (h *Handler) record(c *gin.Context, userID int64, activityType domain.ActivityType, entityID int64, description string) {
	h.activity.Log(c.Request.Context(), activity.Record{
		UserID:      userID,
		Type:        activityType,
		EntityType:  "tag",
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
