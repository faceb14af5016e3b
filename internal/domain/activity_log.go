package domain

import "time"

type ActivityType string

const (
	ActivityUserLogin             ActivityType = "user_login"
	ActivityUserLogout            ActivityType = "user_logout"
	ActivityUserRegister          ActivityType = "user_register"
	ActivityPasswordResetRequest  ActivityType = "password_reset_request"
	ActivityPasswordResetComplete ActivityType = "password_reset_complete"

	ActivityTaskCreate     ActivityType = "task_create"
	ActivityTaskUpdate     ActivityType = "task_update"
	ActivityTaskDelete     ActivityType = "task_delete"
	ActivityTaskBulkUpdate ActivityType = "task_bulk_update"
	ActivityTaskBulkDelete ActivityType = "task_bulk_delete"

	ActivityTagCreate ActivityType = "tag_create"
	ActivityTagUpdate ActivityType = "tag_update"
	ActivityTagDelete ActivityType = "tag_delete"

	ActivityCommentCreate ActivityType = "comment_create"
	ActivityCommentUpdate ActivityType = "comment_update"
	ActivityCommentDelete ActivityType = "comment_delete"

	ActivityUserUpdate ActivityType = "user_update"
	ActivityUserDelete ActivityType = "user_delete"
)

// ActivityLog is an audit record written after a mutating operation has
// committed. Writing it is best-effort and must never fail the request.
type ActivityLog struct {
	ID int64 `json:"id" gorm:"primaryKey"`

	UserID int64 `json:"user_id" gorm:"index;not null"`
	User   User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	ActivityType ActivityType `json:"activity_type" gorm:"size:50;index;not null"`
	EntityType   string       `json:"entity_type" gorm:"size:50"`
	EntityID     int64        `json:"entity_id"`
	Description  string       `json:"description"`
	Metadata     map[string]any `json:"metadata" gorm:"serializer:json"`

	IPAddress string `json:"ip_address" gorm:"size:45"`
	UserAgent string `json:"user_agent" gorm:"size:256"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}
