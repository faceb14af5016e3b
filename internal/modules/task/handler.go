package task

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/domain"
	"taskmanager/internal/middleware"
	"taskmanager/internal/modules/activity"
	"taskmanager/internal/pkg/response"
	"taskmanager/internal/repository"
)

type Handler struct {
	service  *Service
	activity activity.Recorder
}

func NewHandler(service *Service, recorder activity.Recorder) *Handler {
	return &Handler{service: service, activity: recorder}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	tasks := rg.Group("/tasks")
	{
		tasks.GET("", h.List)
		tasks.POST("", h.Create)
		tasks.GET("/export", h.Export)
		tasks.POST("/bulk/delete", h.BulkDelete)
		tasks.PUT("/bulk/update", h.BulkUpdate)
		tasks.GET("/:id", h.Get)
		tasks.PUT("/:id", h.Update)
		tasks.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateTaskRequest
	if !response.Bind(c, &req) {
		return
	}

	userID := middleware.CurrentUserID(c)
	t, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.writeError(c, err, "Failed to create task")
		return
	}

	h.record(c, userID, domain.ActivityTaskCreate, t.ID, "Task created: "+t.Title)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task":    t,
	})
}

func (h *Handler) Get(c *gin.Context) {
	taskID, ok := pathID(c)
	if !ok {
		return
	}

	t, err := h.service.Get(c.Request.Context(), middleware.CurrentUserID(c), taskID)
	if err != nil {
		h.writeError(c, err, "Failed to load task")
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": t})
}

func (h *Handler) Update(c *gin.Context) {
	taskID, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if !response.Bind(c, &req) {
		return
	}

	userID := middleware.CurrentUserID(c)
	t, err := h.service.Update(c.Request.Context(), userID, taskID, req)
	if err != nil {
		h.writeError(c, err, "Failed to update task")
		return
	}

	h.record(c, userID, domain.ActivityTaskUpdate, t.ID, "Task updated: "+t.Title)

	c.JSON(http.StatusOK, gin.H{
		"message": "Task updated successfully",
		"task":    t,
	})
}

func (h *Handler) Delete(c *gin.Context) {
	taskID, ok := pathID(c)
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(c)
	if err := h.service.Delete(c.Request.Context(), userID, taskID); err != nil {
		h.writeError(c, err, "Failed to delete task")
		return
	}

	h.record(c, userID, domain.ActivityTaskDelete, taskID, "Task deleted")

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func (h *Handler) List(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	tasks, total, err := h.service.List(c.Request.Context(), middleware.CurrentUserID(c), filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.KindServer, "Failed to list tasks")
		return
	}

	totalPages := int((total + int64(filter.PerPage) - 1) / int64(filter.PerPage))
	c.JSON(http.StatusOK, ListResponse{
		Tasks:      tasks,
		Total:      total,
		Page:       filter.Page,
		PerPage:    filter.PerPage,
		TotalPages: totalPages,
	})
}

func (h *Handler) BulkDelete(c *gin.Context) {
	var req BulkDeleteRequest
	if !response.Bind(c, &req) {
		return
	}

	userID := middleware.CurrentUserID(c)
	deleted, err := h.service.BulkDelete(c.Request.Context(), userID, req.TaskIDs)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.KindServer, "Failed to delete tasks")
		return
	}

	h.record(c, userID, domain.ActivityTaskBulkDelete, 0, fmt.Sprintf("Bulk deleted %d tasks", deleted))

	c.JSON(http.StatusOK, gin.H{
		"message":       "Tasks deleted successfully",
		"deleted_count": deleted,
	})
}

func (h *Handler) BulkUpdate(c *gin.Context) {
	var req BulkUpdateRequest
	if !response.Bind(c, &req) {
		return
	}
	if req.Status == nil && req.Priority == nil {
		response.Error(c, http.StatusBadRequest, response.KindValidation, "Nothing to update")
		return
	}

	userID := middleware.CurrentUserID(c)
	updated, err := h.service.BulkUpdate(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.KindServer, "Failed to update tasks")
		return
	}

	h.record(c, userID, domain.ActivityTaskBulkUpdate, 0, fmt.Sprintf("Bulk updated %d tasks", updated))

	c.JSON(http.StatusOK, gin.H{
		"message":       "Tasks updated successfully",
		"updated_count": updated,
	})
}

// Export streams the user's full task list as CSV or JSON.
func (h *Handler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "csv" {
		response.Error(c, http.StatusBadRequest, response.KindValidation, "format must be csv or json")
		return
	}

	tasks, err := h.service.Export(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.KindServer, "Failed to export tasks")
		return
	}

	if format == "json" {
		c.Header("Content-Disposition", `attachment; filename="tasks.json"`)
		c.JSON(http.StatusOK, gin.H{"tasks": tasks})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="tasks.csv"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"id", "title", "description", "status", "priority", "due_date", "tags", "created_at"})
	for _, t := range tasks {
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.Format(time.RFC3339)
		}
		names := make([]string, len(t.Tags))
		for i, tag := range t.Tags {
			names[i] = tag.Name
		}
		_ = w.Write([]string{
			strconv.FormatInt(t.ID, 10),
			t.Title,
			t.Description,
			string(t.Status),
			string(t.Priority),
			due,
			strings.Join(names, ";"),
			t.CreatedAt.Format(time.RFC3339),
		})
	}
	w.Flush()
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrTaskNotFound):
		response.Error(c, http.StatusNotFound, response.KindNotFound, "Task not found")
	case errors.Is(err, ErrTagNotFound):
		response.Error(c, http.StatusBadRequest, response.KindValidation, "One or more tags not found")
	case errors.Is(err, ErrDueDateInPast):
		response.Error(c, http.StatusBadRequest, response.KindValidation, "Due date cannot be in the past")
	default:
		response.Error(c, http.StatusInternalServerError, response.KindServer, fallback)
	}
}

func (h *Handler) record(c *gin.Context, userID int64, activityType domain.ActivityType, entityID int64, description string) {
	h.activity.Log(c.Request.Context(), activity.Record{
		UserID:      userID,
		Type:        activityType,
		EntityType:  "task",
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

func parseFilter(c *gin.Context) (repository.TaskFilter, bool) {
	var f repository.TaskFilter

	if s := c.Query("status"); s != "" {
		status := domain.TaskStatus(s)
		if !status.Valid() {
			response.Error(c, http.StatusBadRequest, response.KindValidation, "Invalid status filter")
			return f, false
		}
		f.Status = status
	}
	if p := c.Query("priority"); p != "" {
		priority := domain.TaskPriority(p)
		if !priority.Valid() {
			response.Error(c, http.StatusBadRequest, response.KindValidation, "Invalid priority filter")
			return f, false
		}
		f.Priority = priority
	}
	f.Search = c.Query("search")
	if v := c.Query("tag_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.KindValidation, "tag_id must be an integer")
			return f, false
		}
		f.TagID = id
	}
	for name, dst := range map[string]**time.Time{"due_before": &f.DueBefore, "due_after": &f.DueAfter} {
		if v := c.Query(name); v != "" {
			ts, err := time.Parse(time.RFC3339, v)
			if err != nil {
				response.Error(c, http.StatusBadRequest, response.KindValidation, name+" must be an RFC 3339 timestamp")
				return f, false
			}
			*dst = &ts
		}
	}
	f.SortBy = c.Query("sort_by")
	f.SortOrder = c.Query("sort_order")
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	return f, true
}
