package task

import (
	"time"

	"taskmanager/internal/domain"
)

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required,max=100"`
	Description string     `json:"description"`
	Status      string     `json:"status" binding:"omitempty,oneof=pending in_progress completed"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
	TagIDs      []int64    `json:"tag_ids"`
}

// UpdateTaskRequest uses pointers so absent fields stay untouched. A
// present tag_ids replaces the task's full tag set.
type UpdateTaskRequest struct {
	Title       *string    `json:"title" binding:"omitempty,max=100"`
	Description *string    `json:"description"`
	Status      *string    `json:"status" binding:"omitempty,oneof=pending in_progress completed"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
	TagIDs      *[]int64   `json:"tag_ids"`
}

type BulkDeleteRequest struct {
	TaskIDs []int64 `json:"task_ids" binding:"required,min=1"`
}

type BulkUpdateRequest struct {
	TaskIDs  []int64 `json:"task_ids" binding:"required,min=1"`
	Status   *string `json:"status" binding:"omitempty,oneof=pending in_progress completed"`
	Priority *string `json:"priority" binding:"omitempty,oneof=low medium high"`
}

// ListResponse wraps a task page with pagination metadata.
type ListResponse struct {
	Tasks      []domain.Task `json:"tasks"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	TotalPages int           `json:"total_pages"`
}
