package trash

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/myday/internal/client/models"
	"github.com/dmitrijs2005/myday/internal/common"
	"github.com/dmitrijs2005/myday/internal/dbx"
	"github.com/dmitrijs2005/myday/internal/timex"
)

const columns = `id, original_local_id, title, body, occurred_at, created_at, owner_id, deleted_at`

// SQLiteRepository implements Repository over a DBTX.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, t *models.TrashedEntry) (int64, error) {
	query := `INSERT INTO trashed_entries (original_local_id, title, body, occurred_at, created_at, owner_id, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		t.OriginalLocalID, t.Title, t.Body, timex.Millis(t.OccurredAt), timex.Millis(t.CreatedAt), t.OwnerID, timex.Millis(t.DeletedAt))
	if err != nil {
		return 0, fmt.Errorf("failed to insert trashed entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read trashed entry id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.TrashedEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM trashed_entries WHERE id = ?`, id)
	return one(row)
}

func (r *SQLiteRepository) Oldest(ctx context.Context) (*models.TrashedEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM trashed_entries ORDER BY deleted_at ASC, id ASC LIMIT 1`)
	return one(row)
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.TrashedEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM trashed_entries ORDER BY deleted_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select trashed entries: %w", err)
	}
	defer rows.Close()

	var result []*models.TrashedEntry
	for rows.Next() {
		t, err := scanTrashed(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trashed_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trashed entry: %w", err)
	}
	return dbx.ExpectOne(res, common.ErrNotFound)
}

func (r *SQLiteRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	return r.exec(ctx, `DELETE FROM trashed_entries WHERE id IN (`+placeholders+`)`, args...)
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) (int64, error) {
	return r.exec(ctx, `DELETE FROM trashed_entries`)
}

func (r *SQLiteRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.exec(ctx, `DELETE FROM trashed_entries WHERE deleted_at < ?`, timex.Millis(cutoff))
}

func (r *SQLiteRepository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete trashed entries: %w", err)
	}
	return dbx.RowsAffected(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func one(s scanner) (*models.TrashedEntry, error) {
	t, err := scanTrashed(s)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return t, nil
}

func scanTrashed(s scanner) (*models.TrashedEntry, error) {
	var (
		t                          models.TrashedEntry
		occurred, created, deleted int64
	)
	if err := s.Scan(&t.LocalID, &t.OriginalLocalID, &t.Title, &t.Body, &occurred, &created, &t.OwnerID, &deleted); err != nil {
		return nil, err
	}
	t.OccurredAt = timex.FromMillis(occurred)
	t.CreatedAt = timex.FromMillis(created)
	t.DeletedAt = timex.FromMillis(deleted)
	return &t, nil
}
