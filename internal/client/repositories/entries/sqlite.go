package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/myday/internal/client/models"
	"github.com/dmitrijs2005/myday/internal/common"
	"github.com/dmitrijs2005/myday/internal/dbx"
	"github.com/dmitrijs2005/myday/internal/timex"
)

const columns = `id, title, body, occurred_at, created_at, owner_id, remote_id`

const orderByRecency = ` ORDER BY occurred_at DESC, created_at DESC, id DESC`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Insert upserts by id. An existing non-empty remote_id is kept.
func (r *SQLiteRepository) Insert(ctx context.Context, e *models.Entry) (int64, error) {
	query := `INSERT INTO entries (id, title, body, occurred_at, created_at, owner_id, remote_id)
		VALUES (NULLIF(?, 0), ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			body = excluded.body,
			occurred_at = excluded.occurred_at,
			created_at = excluded.created_at,
			owner_id = excluded.owner_id,
			remote_id = CASE WHEN entries.remote_id = '' THEN excluded.remote_id ELSE entries.remote_id END
		RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		e.LocalID, e.Title, e.Body, timex.Millis(e.OccurredAt), timex.Millis(e.CreatedAt), e.OwnerID, e.RemoteID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert entry: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, e *models.Entry) error {
	query := `UPDATE entries SET title = ?, body = ?, occurred_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, e.Title, e.Body, timex.Millis(e.OccurredAt), e.LocalID)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	return dbx.ExpectOne(res, common.ErrNotFound)
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return dbx.ExpectOne(res, common.ErrNotFound)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Entry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.Entry, error) {
	return r.list(ctx, `SELECT `+columns+` FROM entries`+orderByRecency)
}

func (r *SQLiteRepository) GetAllForOwner(ctx context.Context, owner string) ([]*models.Entry, error) {
	return r.list(ctx, `SELECT `+columns+` FROM entries WHERE owner_id = ?`+orderByRecency, owner)
}

func (r *SQLiteRepository) AssignRemoteID(ctx context.Context, id int64, remoteID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE entries SET remote_id = ? WHERE id = ? AND remote_id = ''`, remoteID, id)
	if err != nil {
		return false, fmt.Errorf("failed to assign remote id: %w", err)
	}
	n, err := dbx.RowsAffected(res)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *SQLiteRepository) KnownRemoteIDs(ctx context.Context, owner string) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT remote_id FROM entries WHERE owner_id = ? AND remote_id <> ''`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to select remote ids: %w", err)
	}
	defer rows.Close()

	known := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		known[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return known, nil
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]*models.Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	var result []*models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*models.Entry, error) {
	var (
		e                 models.Entry
		occurred, created int64
	)
	if err := s.Scan(&e.LocalID, &e.Title, &e.Body, &occurred, &created, &e.OwnerID, &e.RemoteID); err != nil {
		return nil, err
	}
	e.OccurredAt = timex.FromMillis(occurred)
	e.CreatedAt = timex.FromMillis(created)
	return &e, nil
}
