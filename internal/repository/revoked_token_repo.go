package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskmanager/internal/domain"
)

// RevokedTokenRepository is the revocation ledger: a negative list of token
// identifiers consulted on every authenticated request.
type RevokedTokenRepository struct {
	db *gorm.DB
}

func NewRevokedTokenRepository(db *gorm.DB) *RevokedTokenRepository {
	return &RevokedTokenRepository{db: db}
}

// Revoke inserts a ledger entry. Revoking an already-revoked jti is a
// no-op success: the end state is identical, so the conflict is swallowed.
func (r *RevokedTokenRepository) Revoke(ctx context.Context, jti string, tokenType domain.TokenType, userID int64, expiresAt time.Time) error {
	entry := domain.RevokedToken{
		JTI:       jti,
		TokenType: tokenType,
		UserID:    userID,
		RevokedAt: time.Now().UTC(),
		ExpiresAt: expiresAt,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "jti"}}, DoNothing: true}).
		Create(&entry).Error
}

func (r *RevokedTokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.RevokedToken{}).
		Where("jti = ?", jti).
		Count(&count).Error
	return count > 0, err
}

// IsTokenRevoked answers the full revocation question for the request
// authenticator: either the jti is in the ledger, or the token predates
// the owner's all-device cutoff.
func (r *RevokedTokenRepository) IsTokenRevoked(ctx context.Context, jti string, userID int64, issuedAt time.Time) (bool, error) {
	revoked, err := r.IsRevoked(ctx, jti)
	if err != nil || revoked {
		return revoked, err
	}

	var owner domain.User
	err = r.db.WithContext(ctx).Select("tokens_valid_from").First(&owner, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Owner is gone; their tokens die with them.
			return true, nil
		}
		return false, err
	}
	if owner.TokensValidFrom != nil && issuedAt.Before(*owner.TokensValidFrom) {
		return true, nil
	}
	return false, nil
}

// DeleteExpired sweeps ledger rows whose token has already expired on its
// own; they convey no further information. Returns the number removed.
func (r *RevokedTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&domain.RevokedToken{})
	return res.RowsAffected, res.Error
}
