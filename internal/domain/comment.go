package domain

import "time"

type Comment struct {
	ID      int64  `json:"id" gorm:"primaryKey"`
	Content string `json:"content" gorm:"not null"`

	TaskID int64 `json:"task_id" gorm:"index;not null"`
	Task   Task  `json:"-" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`

	UserID int64 `json:"user_id" gorm:"index;not null"`
	User   User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
