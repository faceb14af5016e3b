package repository

import (
	"context"

	"gorm.io/gorm"

	"taskmanager/internal/domain"
)

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) Create(ctx context.Context, t *domain.Tag) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TagRepository) GetByID(ctx context.Context, id, userID int64) (*domain.Tag, error) {
	var t domain.Tag
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TagRepository) GetByIDs(ctx context.Context, ids []int64, userID int64) ([]domain.Tag, error) {
	var tags []domain.Tag
	err := r.db.WithContext(ctx).
		Where("id IN ? AND user_id = ?", ids, userID).
		Find(&tags).Error
	return tags, err
}

func (r *TagRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Tag, error) {
	var tags []domain.Tag
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name").
		Find(&tags).Error
	return tags, err
}

func (r *TagRepository) ExistsByName(ctx context.Context, userID int64, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Tag{}).
		Where("user_id = ? AND name = ?", userID, name).
		Count(&count).Error
	return count > 0, err
}

func (r *TagRepository) Update(ctx context.Context, t *domain.Tag) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *TagRepository) Delete(ctx context.Context, id, userID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM task_tags WHERE tag_id = ?`, id).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Tag{}).Error
	})
}
