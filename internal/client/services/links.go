package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/myday/internal/client/enrich"
	"github.com/dmitrijs2005/myday/internal/client/live"
	"github.com/dmitrijs2005/myday/internal/client/models"
	"github.com/dmitrijs2005/myday/internal/client/repositories/links"
	"github.com/dmitrijs2005/myday/internal/client/syncer"
	"github.com/dmitrijs2005/myday/internal/common"
	"github.com/dmitrijs2005/myday/internal/timex"
)

type LinkService interface {
	// ObserveAll streams the links matching the current filter. Changing
	// the filter re-runs every open stream.
	ObserveAll(ctx context.Context) *live.Stream[*models.SocialLink]
	List(ctx context.Context) ([]*models.SocialLink, error)

	// SetFilter restricts listings to one platform; "" shows all.
	SetFilter(p models.Platform)
	Filter() models.Platform

	GetByID(ctx context.Context, id int64) (*models.SocialLink, error)

	// Insert stores l, filling title, description and image from the page
	// when no title was given.
	Insert(ctx context.Context, l *models.SocialLink) (int64, error)
	Update(ctx context.Context, l *models.SocialLink) error
	Delete(ctx context.Context, id int64) error
	SyncFromRemote(ctx context.Context, owner string) (syncer.PullResult, error)
}

type linkService struct {
	owner     string
	repo      links.Repository
	engine    *syncer.Engine[*models.SocialLink]
	extractor enrich.Extractor
	notifier  *live.Notifier
	clock     timex.Clock

	mu     sync.RWMutex
	filter models.Platform
}

// NewLinkService builds the link facade. extractor may be nil to disable
// enrichment.
func NewLinkService(owner string, repo links.Repository, engine *syncer.Engine[*models.SocialLink], extractor enrich.Extractor, n *live.Notifier, clock timex.Clock) LinkService {
	if clock == nil {
		clock = timex.SystemClock{}
	}
	return &linkService{owner: owner, repo: repo, engine: engine, extractor: extractor, notifier: n, clock: clock}
}

func (s *linkService) ObserveAll(ctx context.Context) *live.Stream[*models.SocialLink] {
	return live.Observe(ctx, s.notifier, live.TopicLinks, s.List)
}

func (s *linkService) List(ctx context.Context) ([]*models.SocialLink, error) {
	var (
		items []*models.SocialLink
		err   error
	)
	if p := s.Filter(); p != "" {
		items, err = s.repo.GetByPlatform(ctx, p)
	} else {
		items, err = s.repo.GetAll(ctx)
	}
	if err != nil {
		return nil, common.NewStorageError("list links", err)
	}
	return items, nil
}

func (s *linkService) SetFilter(p models.Platform) {
	s.mu.Lock()
	s.filter = p
	s.mu.Unlock()
	s.notifier.Notify(live.TopicLinks)
}

func (s *linkService) Filter() models.Platform {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

func (s *linkService) GetByID(ctx context.Context, id int64) (*models.SocialLink, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, common.NewStorageError("get link", err)
	}
	return l, nil
}

func (s *linkService) Insert(ctx context.Context, l *models.SocialLink) (int64, error) {
	if l.Title == "" && s.extractor != nil {
		md := s.extractor.Extract(ctx, l.URL)
		l.Title = md.Title
		if l.Description == "" {
			l.Description = md.Description
		}
		if l.ImageURL == "" {
			l.ImageURL = md.ImageURL
		}
	}
	if l.Platform == "" {
		l.Platform = models.PlatformOther
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = s.clock.Now()
	}
	if l.OwnerID == "" {
		l.OwnerID = s.owner
	}

	id, err := s.repo.Insert(ctx, l)
	if err != nil {
		return 0, common.NewStorageError("insert link", err)
	}
	l.LocalID = id
	s.notifier.Notify(live.TopicLinks)

	pushed := *l
	s.engine.PushCreate(&pushed)
	return id, nil
}

func (s *linkService) Update(ctx context.Context, l *models.SocialLink) error {
	if err := s.repo.Update(ctx, l); err != nil {
		return common.NewStorageError("update link", err)
	}
	s.notifier.Notify(live.TopicLinks)

	stored, err := s.repo.GetByID(ctx, l.LocalID)
	if err != nil {
		return common.NewStorageError("update link", err)
	}
	s.engine.PushUpdate(stored)
	return nil
}

func (s *linkService) Delete(ctx context.Context, id int64) error {
	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return common.NewStorageError("delete link", err)
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return common.NewStorageError("delete link", err)
	}
	s.notifier.Notify(live.TopicLinks)

	s.engine.PushDelete(stored)
	return nil
}

func (s *linkService) SyncFromRemote(ctx context.Context, owner string) (syncer.PullResult, error) {
	if owner == "" {
		owner = s.owner
	}
	return s.engine.Pull(ctx, owner)
}
