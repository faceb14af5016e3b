package tag

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"taskmanager/internal/domain"
)

// TagRepositoryInterface — only the methods the tag service uses.
type TagRepositoryInterface interface {
	Create(ctx context.Context, t *domain.Tag) error
	GetByID(ctx context.Context, id, userID int64) (*domain.Tag, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Tag, error)
	ExistsByName(ctx context.Context, userID int64, name string) (bool, error)
	Update(ctx context.Context, t *domain.Tag) error
	Delete(ctx context.Context, id, userID int64) error
}

type Service struct {
	tags TagRepositoryInterface
}

func NewService(tags TagRepositoryInterface) *Service {
	return &Service{tags: tags}
}

func (s *Service) Create(ctx context.Context, userID int64, req CreateTagRequest) (*domain.Tag, error) {
	name := strings.TrimSpace(req.Name)

	taken, err := s.tags.ExistsByName(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrNameTaken
	}

	color := req.Color
	if color == "" {
		color = domain.DefaultTagColor
	}

	t := &domain.Tag{
		Name:   name,
		Color:  color,
		UserID: userID,
	}
	if err := s.tags.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, userID, tagID int64) (*domain.Tag, error) {
	t, err := s.tags.GetByID(ctx, tagID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *Service) List(ctx context.Context, userID int64) ([]domain.Tag, error) {
	return s.tags.ListByUser(ctx, userID)
}

func (s *Service) Update(ctx context.Context, userID, tagID int64, req UpdateTagRequest) (*domain.Tag, error) {
	t, err := s.Get(ctx, userID, tagID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != t.Name {
			taken, err := s.tags.ExistsByName(ctx, userID, name)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrNameTaken
			}
			t.Name = name
		}
	}
	if req.Color != nil {
		t.Color = *req.Color
	}

	if err := s.tags.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, userID, tagID int64) error {
	if _, err := s.Get(ctx, userID, tagID); err != nil {
		return err
	}
	return s.tags.Delete(ctx, tagID, userID)
}
