package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/myday/internal/dbx"
	"github.com/dmitrijs2005/myday/internal/server/repositories/documents"
	"github.com/dmitrijs2005/myday/internal/server/repositories/profiles"
)

// InMemoryRepositoryManager serves the same repositories whatever handle
// it is given; there is no schema to migrate.
type InMemoryRepositoryManager struct {
	documents *documents.MemoryRepository
	profiles  *profiles.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		documents: documents.NewMemoryRepository(),
		profiles:  profiles.NewMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Documents(dbx.DBTX) documents.Repository {
	return m.documents
}

func (m *InMemoryRepositoryManager) Profiles(dbx.DBTX) profiles.Repository {
	return m.profiles
}
