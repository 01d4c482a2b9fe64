// Package links persists saved social media links.
package links

import (
	"context"

	"github.com/dmitrijs2005/myday/internal/client/models"
)

// Repository describes persistence operations for SocialLink objects. It
// mirrors entries.Repository, adding a platform filter.
type Repository interface {
	Insert(ctx context.Context, l *models.SocialLink) (int64, error)
	Update(ctx context.Context, l *models.SocialLink) error
	DeleteByID(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.SocialLink, error)

	// GetAll returns every link, newest first.
	GetAll(ctx context.Context) ([]*models.SocialLink, error)

	// GetByPlatform returns links of exactly one platform, newest first.
	GetByPlatform(ctx context.Context, p models.Platform) ([]*models.SocialLink, error)

	GetAllForOwner(ctx context.Context, owner string) ([]*models.SocialLink, error)
	AssignRemoteID(ctx context.Context, id int64, remoteID string) (bool, error)
	KnownRemoteIDs(ctx context.Context, owner string) (map[string]struct{}, error)
}
