// Package trash persists soft-deleted diary entries. Rows here are local
// only and never replicated.
package trash

import (
	"context"
	"time"

	"github.com/dmitrijs2005/myday/internal/client/models"
)

// Repository describes persistence operations for TrashedEntry objects.
type Repository interface {
	Insert(ctx context.Context, t *models.TrashedEntry) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.TrashedEntry, error)

	// GetAll returns trashed entries, most recently deleted first.
	GetAll(ctx context.Context) ([]*models.TrashedEntry, error)

	// Oldest returns the entry with the smallest deleted_at or
	// common.ErrNotFound when the trash is empty.
	Oldest(ctx context.Context) (*models.TrashedEntry, error)

	DeleteByID(ctx context.Context, id int64) error

	// DeleteByIDs removes the listed rows and returns how many existed.
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)

	DeleteAll(ctx context.Context) (int64, error)

	// DeleteOlderThan removes rows with deleted_at strictly before cutoff.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
