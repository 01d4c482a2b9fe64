// Package profiles provides the PostgreSQL-backed repository for the
// per-owner profile document.
package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/myday/internal/common"
	"github.com/dmitrijs2005/myday/internal/dbx"
	"github.com/dmitrijs2005/myday/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, owner string) (*models.Profile, error) {
	p := &models.Profile{OwnerID: owner}
	var body []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT fields, updated_at FROM profiles WHERE owner_id = $1`, owner).
		Scan(&body, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select profile: %w", err)
	}
	p.Fields = map[string]any{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &p.Fields); err != nil {
			return nil, fmt.Errorf("profile %s: %w", owner, err)
		}
	}
	return p, nil
}

// Upsert creates or replaces the owner's profile.
func (r *PostgresRepository) Upsert(ctx context.Context, p *models.Profile) error {
	fields := p.Fields
	if fields == nil {
		fields = map[string]any{}
	}
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidDocument, err)
	}
	query := `
		INSERT INTO profiles (owner_id, fields, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_id)
		DO UPDATE SET fields = EXCLUDED.fields, updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, p.OwnerID, body, p.UpdatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
