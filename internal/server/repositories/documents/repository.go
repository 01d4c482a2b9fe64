package documents

import (
	"context"

	"github.com/dmitrijs2005/myday/internal/server/models"
)

type Repository interface {
	Insert(ctx context.Context, d *models.Document) error
	// Update replaces the fields of an existing document; common.ErrNotFound
	// when no document matches owner, collection and id.
	Update(ctx context.Context, d *models.Document) error
	Delete(ctx context.Context, owner, collection, id string) error
	ListByOwner(ctx context.Context, owner, collection string) ([]*models.Document, error)
}
