package admin

import (
	"context"

	"taskmanager/internal/domain"
)

// UserRepositoryInterface — only the methods the admin service uses.
type UserRepositoryInterface interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, page, perPage int) ([]domain.User, int64, error)
	CountByRole(ctx context.Context, role domain.UserRole) (int64, error)
}

// TaskStats provides the aggregate task counters for the stats endpoint.
type TaskStats interface {
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}
