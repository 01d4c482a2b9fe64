package services

import (
	"context"

	"github.com/dmitrijs2005/myday/internal/client/models"
	"github.com/dmitrijs2005/myday/internal/client/syncer"
	"golang.org/x/sync/errgroup"
)

// SyncResult is the outcome of a full pull, keyed by collection.
type SyncResult map[string]syncer.PullResult

// SyncService pulls every replicated collection.
type SyncService struct {
	owner   string
	diaries DiaryService
	links   LinkService
}

func NewSyncService(owner string, diaries DiaryService, links LinkService) *SyncService {
	return &SyncService{owner: owner, diaries: diaries, links: links}
}

// SyncAll pulls diaries and links concurrently. A failure of one does not
// undo the other; the first error is returned with whatever completed.
func (s *SyncService) SyncAll(ctx context.Context) (SyncResult, error) {
	var diaries, links syncer.PullResult

	var g errgroup.Group
	g.Go(func() error {
		var err error
		diaries, err = s.diaries.SyncFromRemote(ctx, s.owner)
		return err
	})
	g.Go(func() error {
		var err error
		links, err = s.links.SyncFromRemote(ctx, s.owner)
		return err
	})
	err := g.Wait()

	return SyncResult{
		models.EntryCollection: diaries,
		models.LinkCollection:  links,
	}, err
}
