package domain

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID           int64    `json:"id" gorm:"primaryKey"`
	Username     string   `json:"username" gorm:"size:80;uniqueIndex;not null"`
	Email        string   `json:"email" gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string   `json:"-" gorm:"size:256;not null"`
	Role         UserRole `json:"role" gorm:"size:20;not null;default:user"`

	// TokensValidFrom is the all-device revocation cutoff: tokens issued
	// before this instant are treated as revoked.
	TokensValidFrom *time.Time `json:"-" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Tasks    []Task    `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Tags     []Tag     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Comments []Comment `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
