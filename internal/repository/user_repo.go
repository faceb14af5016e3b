package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"taskmanager/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) DB() *gorm.DB { return r.db }

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("username = ?", strings.TrimSpace(username)).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// SetTokensValidFrom moves the all-device revocation cutoff forward.
// Tokens issued before the cutoff fail authentication as revoked.
func (r *UserRepository) SetTokensValidFrom(ctx context.Context, userID int64, t time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Update("tokens_valid_from", t).Error
}

// Delete removes the user and everything they own. Dependents are removed
// explicitly so the cascade does not depend on driver-level FK enforcement.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM task_tags WHERE task_id IN (SELECT id FROM tasks WHERE user_id = ?)`, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM comments WHERE user_id = ? OR task_id IN (SELECT id FROM tasks WHERE user_id = ?)`, id, id).Error; err != nil {
			return err
		}
		for _, q := range []string{
			`DELETE FROM tasks WHERE user_id = ?`,
			`DELETE FROM tags WHERE user_id = ?`,
			`DELETE FROM revoked_tokens WHERE user_id = ?`,
			`DELETE FROM password_reset_tokens WHERE user_id = ?`,
			`DELETE FROM activity_logs WHERE user_id = ?`,
		} {
			if err := tx.Exec(q, id).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&domain.User{}, id).Error
	})
}

func (r *UserRepository) List(ctx context.Context, page, perPage int) ([]domain.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []domain.User
	err := r.db.WithContext(ctx).
		Order("id").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&users).Error
	return users, total, err
}

func (r *UserRepository) CountByRole(ctx context.Context, role domain.UserRole) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("role = ?", role).
		Count(&count).Error
	return count, err
}
