package services

import (
	"context"

	"github.com/dmitrijs2005/myday/internal/client/live"
	"github.com/dmitrijs2005/myday/internal/client/models"
	"github.com/dmitrijs2005/myday/internal/client/trash"
	"github.com/dmitrijs2005/myday/internal/logging"
)

// TrashService is the trash view: opening it evicts expired entries first.
type TrashService struct {
	*trash.Manager
	notifier *live.Notifier
	logger   logging.Logger
}

func NewTrashService(m *trash.Manager, n *live.Notifier, logger logging.Logger) *TrashService {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &TrashService{Manager: m, notifier: n, logger: logger}
}

// Open evicts expired entries and returns the remaining trash.
func (s *TrashService) Open(ctx context.Context) ([]*models.TrashedEntry, error) {
	s.evictExpired(ctx)
	return s.List(ctx)
}

// Observe evicts expired entries and then streams the trash.
func (s *TrashService) Observe(ctx context.Context) *live.Stream[*models.TrashedEntry] {
	s.evictExpired(ctx)
	return live.Observe(ctx, s.notifier, live.TopicTrash, s.List)
}

func (s *TrashService) evictExpired(ctx context.Context) {
	if _, err := s.EvictExpired(ctx); err != nil {
		s.logger.Error(ctx, "evict expired failed", "error", err)
	}
}
