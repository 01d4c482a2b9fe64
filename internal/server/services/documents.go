// Package services holds the docstore business logic: owner and collection
// scoping, id assignment and the profile document.
package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/myday/internal/common"
	"github.com/dmitrijs2005/myday/internal/rpc"
	"github.com/dmitrijs2005/myday/internal/server/models"
	"github.com/dmitrijs2005/myday/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/myday/internal/timex"
	"github.com/google/uuid"
)

// DocumentService implements rpc.DocumentStoreServer over a repository
// manager. db may be nil when the manager keeps data in memory.
type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	clock       timex.Clock
	newID       func() string
}

var _ rpc.DocumentStoreServer = (*DocumentService)(nil)

func NewDocumentService(db *sql.DB, repomanager repomanager.RepositoryManager, clock timex.Clock) *DocumentService {
	if clock == nil {
		clock = timex.SystemClock{}
	}
	return &DocumentService{
		db:          db,
		repomanager: repomanager,
		clock:       clock,
		newID:       uuid.NewString,
	}
}

func scope(owner, collection string) error {
	if owner == "" {
		return common.ErrNoOwner
	}
	if !common.KnownCollection(collection) {
		return common.ErrUnknownCollection
	}
	return nil
}

// Add stores fields as a new document and returns its id.
func (s *DocumentService) Add(ctx context.Context, owner, collection string, fields map[string]any) (string, error) {
	if err := scope(owner, collection); err != nil {
		return "", err
	}
	if fields == nil {
		return "", fmt.Errorf("%w: empty document", common.ErrInvalidDocument)
	}
	d := &models.Document{
		ID:         s.newID(),
		OwnerID:    owner,
		Collection: collection,
		Fields:     fields,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.repomanager.Documents(s.db).Insert(ctx, d); err != nil {
		return "", err
	}
	return d.ID, nil
}

// Set replaces the fields of an existing document.
func (s *DocumentService) Set(ctx context.Context, owner, collection, id string, fields map[string]any) error {
	if err := scope(owner, collection); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: missing id", common.ErrInvalidDocument)
	}
	return s.repomanager.Documents(s.db).Update(ctx, &models.Document{
		ID:         id,
		OwnerID:    owner,
		Collection: collection,
		Fields:     fields,
		UpdatedAt:  s.clock.Now(),
	})
}

func (s *DocumentService) Delete(ctx context.Context, owner, collection, id string) error {
	if err := scope(owner, collection); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: missing id", common.ErrInvalidDocument)
	}
	return s.repomanager.Documents(s.db).Delete(ctx, owner, collection, id)
}

func (s *DocumentService) FetchAll(ctx context.Context, owner, collection string) ([]rpc.Document, error) {
	if err := scope(owner, collection); err != nil {
		return nil, err
	}
	docs, err := s.repomanager.Documents(s.db).ListByOwner(ctx, owner, collection)
	if err != nil {
		return nil, err
	}
	out := make([]rpc.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, rpc.Document{ID: d.ID, Fields: d.Fields})
	}
	return out, nil
}

// GetProfile returns common.ErrNotFound until the owner saves a profile.
func (s *DocumentService) GetProfile(ctx context.Context, owner string) (map[string]any, error) {
	if owner == "" {
		return nil, common.ErrNoOwner
	}
	p, err := s.repomanager.Profiles(s.db).Get(ctx, owner)
	if err != nil {
		return nil, err
	}
	return p.Fields, nil
}

func (s *DocumentService) SaveProfile(ctx context.Context, owner string, profile map[string]any) error {
	if owner == "" {
		return common.ErrNoOwner
	}
	return s.repomanager.Profiles(s.db).Upsert(ctx, &models.Profile{
		OwnerID:   owner,
		Fields:    profile,
		UpdatedAt: s.clock.Now(),
	})
}

// Ping checks the database connection.
func (s *DocumentService) Ping(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	return nil
}
