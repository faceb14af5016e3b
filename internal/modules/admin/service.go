package admin

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskmanager/internal/domain"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailExists    = errors.New("email already exists")
	ErrUsernameExists = errors.New("username already exists")
	// ErrSelfEdit keeps admins from changing or deleting their own
	// account through the admin surface.
	ErrSelfEdit = errors.New("cannot modify own account via admin API")
)

type Service struct {
	users UserRepositoryInterface
	tasks TaskStats
}

func NewService(users UserRepositoryInterface, tasks TaskStats) *Service {
	return &Service{users: users, tasks: tasks}
}

func (s *Service) ListUsers(ctx context.Context, page, perPage int) ([]domain.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	return s.users.List(ctx, page, perPage)
}

func (s *Service) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) UpdateUser(ctx context.Context, adminID, userID int64, req UpdateUserRequest) (*domain.User, error) {
	if adminID == userID {
		return nil, ErrSelfEdit
	}

	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username != u.Username {
			taken, err := s.users.ExistsByUsername(ctx, username)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrUsernameExists
			}
			u.Username = username
		}
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != u.Email {
			taken, err := s.users.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrEmailExists
			}
			u.Email = email
		}
	}

	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}

	if req.Role != nil {
		u.Role = domain.UserRole(*req.Role)
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, adminID, userID int64) error {
	if adminID == userID {
		return ErrSelfEdit
	}
	if _, err := s.GetUser(ctx, userID); err != nil {
		return err
	}
	return s.users.Delete(ctx, userID)
}

func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	usersByRole := make(map[string]int64, 2)
	var totalUsers int64
	for _, role := range []domain.UserRole{domain.RoleUser, domain.RoleAdmin} {
		n, err := s.users.CountByRole(ctx, role)
		if err != nil {
			return nil, err
		}
		usersByRole[string(role)] = n
		totalUsers += n
	}

	totalTasks, err := s.tasks.Count(ctx)
	if err != nil {
		return nil, err
	}
	tasksByStatus, err := s.tasks.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalUsers:    totalUsers,
		UsersByRole:   usersByRole,
		TotalTasks:    totalTasks,
		TasksByStatus: tasksByStatus,
	}, nil
}
