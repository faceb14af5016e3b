package domain

import "time"

// PasswordResetToken is a one-time secret mailed to the user. It is spent
// by a single transactional update; see repository.PasswordResetRepository.
type PasswordResetToken struct {
	ID    int64  `json:"id" gorm:"primaryKey"`
	Token string `json:"-" gorm:"size:100;uniqueIndex;not null"`

	UserID int64 `json:"user_id" gorm:"index;not null"`
	User   User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	Used      bool      `json:"used" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *PasswordResetToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

func (t *PasswordResetToken) IsValid(now time.Time) bool {
	return !t.Used && !t.IsExpired(now)
}
