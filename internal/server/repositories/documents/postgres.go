// Package documents provides the PostgreSQL-backed repository for owner
// scoped document collections.
package documents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/myday/internal/common"
	"github.com/dmitrijs2005/myday/internal/dbx"
	"github.com/dmitrijs2005/myday/internal/server/models"
)

// PostgresRepository implements document storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert stores a new document. ID, OwnerID and Collection must be set.
func (r *PostgresRepository) Insert(ctx context.Context, d *models.Document) error {
	body, err := encodeFields(d.Fields)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO documents (id, owner_id, collection, fields, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
	`
	if _, err := r.db.ExecContext(ctx, query, d.ID, d.OwnerID, d.Collection, body, d.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, d *models.Document) error {
	body, err := encodeFields(d.Fields)
	if err != nil {
		return err
	}
	query := `
		UPDATE documents SET fields = $1, updated_at = $2
		WHERE id = $3 AND owner_id = $4 AND collection = $5
	`
	res, err := r.db.ExecContext(ctx, query, body, d.UpdatedAt, d.ID, d.OwnerID, d.Collection)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectOne(res, common.ErrNotFound)
}

// Delete removes one document; common.ErrNotFound when it does not exist
// for this owner and collection.
func (r *PostgresRepository) Delete(ctx context.Context, owner, collection, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM documents WHERE id = $1 AND owner_id = $2 AND collection = $3`,
		id, owner, collection)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectOne(res, common.ErrNotFound)
}

// ListByOwner returns every document of one collection, oldest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, owner, collection string) ([]*models.Document, error) {
	query := `
		SELECT id, fields, created_at, updated_at FROM documents
		WHERE owner_id = $1 AND collection = $2
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, owner, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to select documents: %w", err)
	}
	defer rows.Close()

	var result []*models.Document
	for rows.Next() {
		d := &models.Document{OwnerID: owner, Collection: collection}
		var body []byte
		if err := rows.Scan(&d.ID, &body, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		if d.Fields, err = decodeFields(body); err != nil {
			return nil, fmt.Errorf("document %s: %w", d.ID, err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func encodeFields(f map[string]any) ([]byte, error) {
	if f == nil {
		f = map[string]any{}
	}
	b, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidDocument, err)
	}
	return b, nil
}

func decodeFields(b []byte) (map[string]any, error) {
	f := map[string]any{}
	if len(b) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	return f, nil
}
