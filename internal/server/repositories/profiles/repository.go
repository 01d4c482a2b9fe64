package profiles

import (
	"context"

	"github.com/dmitrijs2005/myday/internal/server/models"
)

type Repository interface {
	// Get returns common.ErrNotFound when the owner has no profile yet.
	Get(ctx context.Context, owner string) (*models.Profile, error)
	Upsert(ctx context.Context, p *models.Profile) error
}
