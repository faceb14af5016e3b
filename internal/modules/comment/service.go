package comment

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"taskmanager/internal/domain"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrTaskNotFound    = errors.New("task not found")
	// ErrForbidden means the caller is neither the comment author nor
	// the owner of the task the comment sits on.
	ErrForbidden = errors.New("not allowed to modify this comment")
)

type CommentRepositoryInterface interface {
	Create(ctx context.Context, c *domain.Comment) error
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)
	ListByTask(ctx context.Context, taskID int64) ([]domain.Comment, error)
	Update(ctx context.Context, c *domain.Comment) error
	Delete(ctx context.Context, id int64) error
}

// TaskGetter resolves a task without an owner scope, so the service can
// decide who may touch the comments under it.
type TaskGetter interface {
	GetAny(ctx context.Context, id int64) (*domain.Task, error)
}

type Service struct {
	comments CommentRepositoryInterface
	tasks    TaskGetter
}

func NewService(comments CommentRepositoryInterface, tasks TaskGetter) *Service {
	return &Service{comments: comments, tasks: tasks}
}

func (s *Service) Create(ctx context.Context, userID, taskID int64, content string) (*domain.Comment, error) {
	if _, err := s.getTask(ctx, taskID); err != nil {
		return nil, err
	}

	c := &domain.Comment{
		Content: content,
		TaskID:  taskID,
		UserID:  userID,
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) ListByTask(ctx context.Context, taskID int64) ([]domain.Comment, error) {
	if _, err := s.getTask(ctx, taskID); err != nil {
		return nil, err
	}
	return s.comments.ListByTask(ctx, taskID)
}

func (s *Service) Get(ctx context.Context, commentID int64) (*domain.Comment, error) {
	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return c, nil
}

// Update is author-only.
func (s *Service) Update(ctx context.Context, userID, commentID int64, content string) (*domain.Comment, error) {
	c, err := s.Get(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, ErrForbidden
	}

	c.Content = content
	if err := s.comments.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete is allowed for the author and for the task's owner.
func (s *Service) Delete(ctx context.Context, userID, commentID int64) error {
	c, err := s.Get(ctx, commentID)
	if err != nil {
		return err
	}

	if c.UserID != userID {
		t, err := s.getTask(ctx, c.TaskID)
		if err != nil {
			return err
		}
		if t.UserID != userID {
			return ErrForbidden
		}
	}
	return s.comments.Delete(ctx, commentID)
}

func (s *Service) getTask(ctx context.Context, taskID int64) (*domain.Task, error) {
	t, err := s.tasks.GetAny(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}
