package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/myday/internal/client/models"
	"github.com/dmitrijs2005/myday/internal/client/remote"
	"github.com/dmitrijs2005/myday/internal/common"
	"github.com/dmitrijs2005/myday/internal/timex"
)

// ProfileService reads and writes the owner's profile document. Unlike
// record pushes, remote errors are returned to the caller.
type ProfileService struct {
	owner  string
	remote remote.Store
	clock  timex.Clock
}

func NewProfileService(owner string, rs remote.Store, clock timex.Clock) *ProfileService {
	if clock == nil {
		clock = timex.SystemClock{}
	}
	return &ProfileService{owner: owner, remote: rs, clock: clock}
}

// Get returns the stored profile, or an empty one when none exists yet.
func (s *ProfileService) Get(ctx context.Context) (*models.UserProfile, error) {
	f, err := s.remote.GetProfile(ctx, s.owner)
	if errors.Is(err, common.ErrNotFound) {
		return &models.UserProfile{OwnerID: s.owner}, nil
	}
	if err != nil {
		return nil, err
	}
	return models.ProfileFromFields(s.owner, f), nil
}

func (s *ProfileService) Save(ctx context.Context, p *models.UserProfile) error {
	p.OwnerID = s.owner
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.clock.Now()
	}
	return s.remote.SaveProfile(ctx, s.owner, p.Fields())
}
