package task

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"taskmanager/internal/domain"
	"taskmanager/internal/repository"
)

type Service struct {
	tasks TaskRepositoryInterface
	tags  TagLookup
	now   func() time.Time
}

func NewService(tasks TaskRepositoryInterface, tags TagLookup) *Service {
	return &Service{tasks: tasks, tags: tags, now: time.Now}
}

func (s *Service) Create(ctx context.Context, userID int64, req CreateTaskRequest) (*domain.Task, error) {
	if err := s.checkDueDate(req.DueDate); err != nil {
		return nil, err
	}

	status := domain.TaskStatus(req.Status)
	if status == "" {
		status = domain.StatusPending
	}
	priority := domain.TaskPriority(req.Priority)
	if priority == "" {
		priority = domain.PriorityMedium
	}

	t := &domain.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     req.DueDate,
		UserID:      userID,
	}

	if len(req.TagIDs) > 0 {
		tags, err := s.resolveTags(ctx, userID, req.TagIDs)
		if err != nil {
			return nil, err
		}
		t.Tags = tags
	}

	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, userID, taskID int64) (*domain.Task, error) {
	t, err := s.tasks.GetByID(ctx, taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *Service) Update(ctx context.Context, userID, taskID int64, req UpdateTaskRequest) (*domain.Task, error) {
	t, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Status != nil {
		t.Status = domain.TaskStatus(*req.Status)
	}
	if req.Priority != nil {
		t.Priority = domain.TaskPriority(*req.Priority)
	}
	if req.DueDate != nil {
		if err := s.checkDueDate(req.DueDate); err != nil {
			return nil, err
		}
		t.DueDate = req.DueDate
	}

	// Resolve tags before persisting so a bad tag id rejects the whole
	// update instead of leaving the field changes behind.
	var newTags []domain.Tag
	if req.TagIDs != nil {
		newTags, err = s.resolveTags(ctx, userID, *req.TagIDs)
		if err != nil {
			return nil, err
		}
	}

	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}

	if req.TagIDs != nil {
		if err := s.tasks.ReplaceTags(ctx, t, newTags); err != nil {
			return nil, err
		}
		t.Tags = newTags
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, userID, taskID int64) error {
	if _, err := s.Get(ctx, userID, taskID); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, taskID, userID)
}

func (s *Service) List(ctx context.Context, userID int64, f repository.TaskFilter) ([]domain.Task, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = 20
	}
	if f.PerPage > 100 {
		f.PerPage = 100
	}
	return s.tasks.List(ctx, userID, f)
}

// Export returns every task of the user for the CSV/JSON export endpoint.
func (s *Service) Export(ctx context.Context, userID int64) ([]domain.Task, error) {
	return s.tasks.ListAll(ctx, userID)
}

func (s *Service) BulkDelete(ctx context.Context, userID int64, ids []int64) (int64, error) {
	return s.tasks.BulkDelete(ctx, userID, ids)
}

func (s *Service) BulkUpdate(ctx context.Context, userID int64, req BulkUpdateRequest) (int64, error) {
	updates := make(map[string]any, 2)
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if len(updates) == 0 {
		return 0, nil
	}
	return s.tasks.BulkUpdate(ctx, userID, req.TaskIDs, updates)
}

// resolveTags loads the requested tags within the user's scope and
// fails when any id is missing or owned by someone else.
func (s *Service) resolveTags(ctx context.Context, userID int64, ids []int64) ([]domain.Tag, error) {
	if len(ids) == 0 {
		return []domain.Tag{}, nil
	}
	tags, err := s.tags.GetByIDs(ctx, ids, userID)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(uniqueIDs(ids)) {
		return nil, ErrTagNotFound
	}
	return tags, nil
}

func (s *Service) checkDueDate(due *time.Time) error {
	if due != nil && due.Before(s.now()) {
		return ErrDueDateInPast
	}
	return nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
