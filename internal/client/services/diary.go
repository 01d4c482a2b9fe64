// Package services holds the facades the CLI talks to. Each facade writes
// locally first, announces the change to live streams, and hands the
// record to the sync engine for best-effort replication.
package services

import (
	"context"

	"github.com/dmitrijs2005/myday/internal/client/live"
	"github.com/dmitrijs2005/myday/internal/client/models"
	"github.com/dmitrijs2005/myday/internal/client/repositories/entries"
	"github.com/dmitrijs2005/myday/internal/client/syncer"
	"github.com/dmitrijs2005/myday/internal/common"
	"github.com/dmitrijs2005/myday/internal/timex"
)

type DiaryService interface {
	// ObserveAll streams the entry list, most recent first, until the
	// stream is closed or ctx ends.
	ObserveAll(ctx context.Context) *live.Stream[*models.Entry]
	List(ctx context.Context) ([]*models.Entry, error)
	GetByID(ctx context.Context, id int64) (*models.Entry, error)

	// Insert stores e and returns its local id. Replication happens in the
	// background; the returned entry never waits for it.
	Insert(ctx context.Context, e *models.Entry) (int64, error)
	Update(ctx context.Context, e *models.Entry) error
	Delete(ctx context.Context, id int64) error

	// SyncFromRemote pulls the owner's diaries collection.
	SyncFromRemote(ctx context.Context, owner string) (syncer.PullResult, error)
}

type diaryService struct {
	owner    string
	repo     entries.Repository
	engine   *syncer.Engine[*models.Entry]
	notifier *live.Notifier
	clock    timex.Clock
}

func NewDiaryService(owner string, repo entries.Repository, engine *syncer.Engine[*models.Entry], n *live.Notifier, clock timex.Clock) DiaryService {
	if clock == nil {
		clock = timex.SystemClock{}
	}
	return &diaryService{owner: owner, repo: repo, engine: engine, notifier: n, clock: clock}
}

func (s *diaryService) ObserveAll(ctx context.Context) *live.Stream[*models.Entry] {
	return live.Observe(ctx, s.notifier, live.TopicEntries, s.List)
}

func (s *diaryService) List(ctx context.Context) ([]*models.Entry, error) {
	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, common.NewStorageError("list entries", err)
	}
	return items, nil
}

func (s *diaryService) GetByID(ctx context.Context, id int64) (*models.Entry, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, common.NewStorageError("get entry", err)
	}
	return e, nil
}

func (s *diaryService) Insert(ctx context.Context, e *models.Entry) (int64, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock.Now()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = e.CreatedAt
	}
	if e.OwnerID == "" {
		e.OwnerID = s.owner
	}

	id, err := s.repo.Insert(ctx, e)
	if err != nil {
		return 0, common.NewStorageError("insert entry", err)
	}
	e.LocalID = id
	s.notifier.Notify(live.TopicEntries)

	pushed := *e
	s.engine.PushCreate(&pushed)
	return id, nil
}

func (s *diaryService) Update(ctx context.Context, e *models.Entry) error {
	if err := s.repo.Update(ctx, e); err != nil {
		return common.NewStorageError("update entry", err)
	}
	s.notifier.Notify(live.TopicEntries)

	stored, err := s.repo.GetByID(ctx, e.LocalID)
	if err != nil {
		return common.NewStorageError("update entry", err)
	}
	s.engine.PushUpdate(stored)
	return nil
}

func (s *diaryService) Delete(ctx context.Context, id int64) error {
	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return common.NewStorageError("delete entry", err)
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return common.NewStorageError("delete entry", err)
	}
	s.notifier.Notify(live.TopicEntries)

	s.engine.PushDelete(stored)
	return nil
}

func (s *diaryService) SyncFromRemote(ctx context.Context, owner string) (syncer.PullResult, error) {
	if owner == "" {
		owner = s.owner
	}
	return s.engine.Pull(ctx, owner)
}
