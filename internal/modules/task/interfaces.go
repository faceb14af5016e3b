package task

import (
	"context"

	"taskmanager/internal/domain"
	"taskmanager/internal/repository"
)

// TaskRepositoryInterface — only the methods the task service uses.
type TaskRepositoryInterface interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id, userID int64) (*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id, userID int64) error
	List(ctx context.Context, userID int64, f repository.TaskFilter) ([]domain.Task, int64, error)
	ListAll(ctx context.Context, userID int64) ([]domain.Task, error)
	ReplaceTags(ctx context.Context, t *domain.Task, tags []domain.Tag) error
	BulkDelete(ctx context.Context, userID int64, ids []int64) (int64, error)
	BulkUpdate(ctx context.Context, userID int64, ids []int64, updates map[string]any) (int64, error)
}

// TagLookup resolves tag ids within the owner's scope.
type TagLookup interface {
	GetByIDs(ctx context.Context, ids []int64, userID int64) ([]domain.Tag, error)
}
