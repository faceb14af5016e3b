package repository

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"gorm.io/gorm"

	"taskmanager/internal/domain"
)

var ErrResetTokenSpent = errors.New("reset token already spent")

type PasswordResetRepository struct {
	db *gorm.DB
}

func NewPasswordResetRepository(db *gorm.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

// Create mints a fresh URL-safe token for the user.
func (r *PasswordResetRepository) Create(ctx context.Context, userID int64, ttl time.Duration) (*domain.PasswordResetToken, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}

	token := &domain.PasswordResetToken{
		Token:     base64.RawURLEncoding.EncodeToString(raw),
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return nil, err
	}
	return token, nil
}

// GetValid returns the token row only when it is still spendable.
func (r *PasswordResetRepository) GetValid(ctx context.Context, token string) (*domain.PasswordResetToken, error) {
	var t domain.PasswordResetToken
	err := r.db.WithContext(ctx).
		Where("token = ? AND used = ?", token, false).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	if !t.IsValid(time.Now().UTC()) {
		return nil, gorm.ErrRecordNotFound
	}
	return &t, nil
}

// Consume marks the token used and swaps the owner's password hash in one
// transaction. The `used = ?` guard in the UPDATE makes concurrent
// redemption race-free: exactly one caller sees RowsAffected == 1.
func (r *PasswordResetRepository) Consume(ctx context.Context, tokenID int64, userID int64, newPasswordHash string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.PasswordResetToken{}).
			Where("id = ? AND used = ?", tokenID, false).
			Update("used", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrResetTokenSpent
		}

		return tx.Model(&domain.User{}).
			Where("id = ?", userID).
			Update("password_hash", newPasswordHash).Error
	})
}

// DeleteDead drops tokens that can never be spent again: expired or used.
func (r *PasswordResetRepository) DeleteDead(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ? OR used = ?", now, true).
		Delete(&domain.PasswordResetToken{})
	return res.RowsAffected, res.Error
}
