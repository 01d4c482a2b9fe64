package entries

import (
	"context"

	"github.com/dmitrijs2005/myday/internal/client/models"
)

// Repository describes persistence operations for Entry objects.
type Repository interface {
	// Insert stores e. A zero LocalID assigns a new id; a non-zero one
	// replaces the row with that id. It returns the row id.
	Insert(ctx context.Context, e *models.Entry) (int64, error)

	// Update overwrites the content fields of the row with e.LocalID. Owner
	// and remote id keep their stored values.
	Update(ctx context.Context, e *models.Entry) error

	// DeleteByID removes the row with the given id.
	DeleteByID(ctx context.Context, id int64) error

	// GetByID returns the row with the given id or common.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*models.Entry, error)

	// GetAll returns every entry, most recent first.
	GetAll(ctx context.Context) ([]*models.Entry, error)

	// GetAllForOwner returns the entries of one owner, most recent first.
	GetAllForOwner(ctx context.Context, owner string) ([]*models.Entry, error)

	// AssignRemoteID sets remote_id when it is still empty and reports
	// whether the row changed.
	AssignRemoteID(ctx context.Context, id int64, remoteID string) (bool, error)

	// KnownRemoteIDs returns the non-empty remote ids stored for owner.
	KnownRemoteIDs(ctx context.Context, owner string) (map[string]struct{}, error)
}
