package comment

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

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type Handler struct {
	service  *Service
	activity activity.Recorder
}

func NewHandler(service *Service, recorder activity.Recorder) *Handler {
	return &Handler{service: service, activity: recorder}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tasks/:id/comments", h.ListByTask)
	rg.POST("/tasks/:id/comments", h.Create)

	comments := rg.Group("/comments")
	{
		comments.GET("/:id", h.Get)
		comments.PUT("/:id", h.Update)
		comments.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	taskID, ok := pathID(c)
	if !ok {
		return
	}

	var req CommentRequest
	if !response.Bind(c, &req) {
		return
	}

	userID := middleware.CurrentUserID(c)
	created, err := h.service.Create(c.Request.Context(), userID, taskID, req.Content)
	if err != nil {
		h.writeError(c, err, "Failed to create comment")
		return
	}

	h.record(c, userID, domain.ActivityCommentCreate, created.ID, "Comment added")

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment created successfully",
		"comment": created,
	})
}

func (h *Handler) ListByTask(c *gin.Context) {
	taskID, ok := pathID(c)
	if !ok {
		return
	}

	comments, err := h.service.ListByTask(c.Request.Context(), taskID)
	if err != nil {
		h.writeError(c, err, "Failed to list comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func (h *Handler) Get(c *gin.Context) {
	commentID, ok := pathID(c)
	if !ok {
		return
	}

	comment, err := h.service.Get(c.Request.Context(), commentID)
	if err != nil {
		h.writeError(c, err, "Failed to load comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

func (h *Handler) Update(c *gin.Context) {
	commentID, ok := pathID(c)
	if !ok {
		return
	}

	var req CommentRequest
	if !response.Bind(c, &req) {
		return
	}

	userID := middleware.CurrentUserID(c)
	comment, err := h.service.Update(c.Request.Context(), userID, commentID, req.Content)
	if err != nil {
		h.writeError(c, err, "Failed to update comment")
		return
	}

	h.record(c, userID, domain.ActivityCommentUpdate, comment.ID, "Comment updated")

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment updated successfully",
		"comment": comment,
	})
}

func (h *Handler) Delete(c *gin.Context) {
	commentID, ok := pathID(c)
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(c)
	if err := h.service.Delete(c.Request.Context(), userID, commentID); err != nil {
		h.writeError(c, err, "Failed to delete comment")
		return
	}

	h.record(c, userID, domain.ActivityCommentDelete, commentID, "Comment deleted")

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrCommentNotFound):
		response.Error(c, http.StatusNotFound, response.KindNotFound, "Comment not found")
	case errors.Is(err, ErrTaskNotFound):
		response.Error(c, http.StatusNotFound, response.KindNotFound, "Task not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, response.KindForbidden, "Not allowed to modify this comment")
	default:
		response.Error(c, http.StatusInternalServerError, response.KindServer, fallback)
	}
}

func (h *Handler) record(c *gin.Context, userID int64, activityType domain.ActivityType, entityID int64, description string) {
	h.activity.Log(c.Request.Context(), activity.Record{
		UserID:      userID,
		Type:        activityType,
		EntityType:  "comment",
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
