package profiles

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/myday/internal/common"
	"github.com/dmitrijs2005/myday/internal/server/models"
)

// MemoryRepository keeps profiles in process memory.
type MemoryRepository struct {
	mu       sync.Mutex
	profiles map[string]models.Profile
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{profiles: make(map[string]models.Profile)}
}

func (r *MemoryRepository) Get(_ context.Context, owner string) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[owner]
	if !ok {
		return nil, common.ErrNotFound
	}
	fields := make(map[string]any, len(p.Fields))
	for k, v := range p.Fields {
		fields[k] = v
	}
	p.Fields = fields
	return &p, nil
}

func (r *MemoryRepository) Upsert(_ context.Context, p *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	fields := make(map[string]any, len(p.Fields))
	for k, v := range p.Fields {
		fields[k] = v
	}
	r.profiles[p.OwnerID] = models.Profile{OwnerID: p.OwnerID, Fields: fields, UpdatedAt: p.UpdatedAt}
	return nil
}
