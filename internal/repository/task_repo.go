package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"taskmanager/internal/domain"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// TaskFilter narrows and orders a user's task list. Zero values mean
// "no constraint"; SortBy must be one of the whitelisted columns.
type TaskFilter struct {
	Status    domain.TaskStatus
	Priority  domain.TaskPriority
	Search    string
	TagID     int64
	DueBefore *time.Time
	DueAfter  *time.Time
	SortBy    string
	SortOrder string
	Page      int
	PerPage   int
}

var taskSortColumns = map[string]string{
	"title":      "title",
	"status":     "status",
	"priority":   "priority",
	"due_date":   "due_date",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TaskRepository) GetByID(ctx context.Context, id, userID int64) (*domain.Task, error) {
	var t domain.Task
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Preload("Comments").
		Where("id = ? AND user_id = ?", id, userID).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetAny looks the task up without an owner scope, for permission
// checks that need to know who owns it.
func (r *TaskRepository) GetAny(ctx context.Context, id int64) (*domain.Task, error) {
	var t domain.Task
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	return r.db.WithContext(ctx).Omit("Tags", "Comments").Save(t).Error
}

func (r *TaskRepository) Delete(ctx context.Context, id, userID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM task_tags WHERE task_id = ?`, id).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Task{}).Error
	})
}

func (r *TaskRepository) List(ctx context.Context, userID int64, f TaskFilter) ([]domain.Task, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Task{}).Where("tasks.user_id = ?", userID)

	if f.Status != "" {
		q = q.Where("tasks.status = ?", f.Status)
	}
	if f.Priority != "" {
		q = q.Where("tasks.priority = ?", f.Priority)
	}
	if f.Search != "" {
		term := "%" + f.Search + "%"
		q = q.Where("LOWER(tasks.title) LIKE LOWER(?) OR LOWER(tasks.description) LIKE LOWER(?)", term, term)
	}
	if f.TagID != 0 {
		q = q.Joins("JOIN task_tags ON task_tags.task_id = tasks.id").
			Where("task_tags.tag_id = ?", f.TagID)
	}
	if f.DueBefore != nil {
		q = q.Where("tasks.due_date <= ?", *f.DueBefore)
	}
	if f.DueAfter != nil {
		q = q.Where("tasks.due_date >= ?", *f.DueAfter)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := taskSortColumns[f.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if f.SortOrder == "asc" {
		direction = "ASC"
	}

	var tasks []domain.Task
	err := q.Preload("Tags").
		Order("tasks." + column + " " + direction).
		Limit(f.PerPage).
		Offset((f.Page - 1) * f.PerPage).
		Find(&tasks).Error
	return tasks, total, err
}

// ListAll returns every task of the user with tags loaded, for export.
func (r *TaskRepository) ListAll(ctx context.Context, userID int64) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

// ReplaceTags swaps the full tag set of the task.
func (r *TaskRepository) ReplaceTags(ctx context.Context, t *domain.Task, tags []domain.Tag) error {
	return r.db.WithContext(ctx).Model(t).Association("Tags").Replace(tags)
}

func (r *TaskRepository) BulkDelete(ctx context.Context, userID int64, ids []int64) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM task_tags WHERE task_id IN (SELECT id FROM tasks WHERE id IN ? AND user_id = ?)`, ids, userID).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM comments WHERE task_id IN (SELECT id FROM tasks WHERE id IN ? AND user_id = ?)`, ids, userID).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ? AND user_id = ?", ids, userID).Delete(&domain.Task{})
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, err
}

func (r *TaskRepository) BulkUpdate(ctx context.Context, userID int64, ids []int64, updates map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("id IN ? AND user_id = ?", ids, userID).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *TaskRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Task{}).Count(&count).Error
	return count, err
}

func (r *TaskRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&domain.Task{}).
		Select("status, COUNT(id) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make(map[string]int64, len(rows))
	for _, r := range rows {
		stats[r.Status] = r.Count
	}
	return stats, nil
}
