package admin

import "taskmanager/internal/domain"

// UpdateUserRequest uses pointers so absent fields stay untouched.
type UpdateUserRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=80"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=8"`
	Role     *string `json:"role" binding:"omitempty,oneof=user admin"`
}

type UserListResponse struct {
	Users      []domain.User `json:"users"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	TotalPages int           `json:"total_pages"`
}

// Stats aggregates the whole deployment for the admin dashboard.
type Stats struct {
	TotalUsers    int64            `json:"total_users"`
	UsersByRole   map[string]int64 `json:"users_by_role"`
	TotalTasks    int64            `json:"total_tasks"`
	TasksByStatus map[string]int64 `json:"tasks_by_status"`
}
