package activity

import (
	"context"
	"log/slog"

	"taskmanager/internal/domain"
)

// Record describes one auditable action after it has committed.
type Record struct {
	UserID      int64
	Type        domain.ActivityType
	EntityType  string
	EntityID    int64
	Description string
	Metadata    map[string]any
	IPAddress   string
	UserAgent   string
}

// Recorder is what the other modules depend on to emit audit records.
type Recorder interface {
	Log(ctx context.Context, rec Record)
}

type Store interface {
	Create(ctx context.Context, entry *domain.ActivityLog) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.ActivityLog, error)
}

type Service struct {
	store Store
	log   *slog.Logger
}

func NewService(store Store, log *slog.Logger) *Service {
	return &Service{store: store, log: log}
}

// Log persists the audit record. Best-effort: a storage failure is logged
// and never propagated, the primary operation has already committed.
func (s *Service) Log(ctx context.Context, rec Record) {
	ua := rec.UserAgent
	if len(ua) > 256 {
		ua = ua[:256]
	}

	entry := &domain.ActivityLog{
		UserID:       rec.UserID,
		ActivityType: rec.Type,
		EntityType:   rec.EntityType,
		EntityID:     rec.EntityID,
		Description:  rec.Description,
		Metadata:     rec.Metadata,
		IPAddress:    rec.IPAddress,
		UserAgent:    ua,
	}
	if err := s.store.Create(ctx, entry); err != nil {
		s.log.Error("activity log write failed",
			"user_id", rec.UserID,
			"activity_type", rec.Type,
			"error", err,
		)
	}
}

func (s *Service) ListForUser(ctx context.Context, userID int64, limit, offset int) ([]domain.ActivityLog, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.ListByUser(ctx, userID, limit, offset)
}
