package documents

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/myday/internal/common"
	"github.com/dmitrijs2005/myday/internal/server/models"
)

// MemoryRepository keeps documents in process memory. It backs the
// docstore "memory" database mode and tests.
type MemoryRepository struct {
	mu   sync.Mutex
	docs map[string]*models.Document
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{docs: make(map[string]*models.Document)}
}

func (r *MemoryRepository) Insert(_ context.Context, d *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[d.ID]; ok {
		return common.ErrInvalidDocument
	}
	cp := *d
	cp.Fields = copyFields(d.Fields)
	cp.UpdatedAt = d.CreatedAt
	r.docs[d.ID] = &cp
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, d *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.docs[d.ID]
	if !ok || cur.OwnerID != d.OwnerID || cur.Collection != d.Collection {
		return common.ErrNotFound
	}
	cur.Fields = copyFields(d.Fields)
	cur.UpdatedAt = d.UpdatedAt
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, owner, collection, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.docs[id]
	if !ok || cur.OwnerID != owner || cur.Collection != collection {
		return common.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

func (r *MemoryRepository) ListByOwner(_ context.Context, owner, collection string) ([]*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Document
	for _, d := range r.docs {
		if d.OwnerID == owner && d.Collection == collection {
			cp := *d
			cp.Fields = copyFields(d.Fields)
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func copyFields(f map[string]any) map[string]any {
	out := make(map[string]any, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
