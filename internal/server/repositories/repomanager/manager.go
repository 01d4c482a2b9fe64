package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/myday/internal/dbx"
	"github.com/dmitrijs2005/myday/internal/server/repositories/documents"
	"github.com/dmitrijs2005/myday/internal/server/repositories/profiles"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Documents(db dbx.DBTX) documents.Repository
	Profiles(db dbx.DBTX) profiles.Repository
}
