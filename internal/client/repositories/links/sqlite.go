package links

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

const columns = `id, url, platform, title, description, image_url, owner_id, remote_id, created_at`

const newestFirst = ` ORDER BY created_at DESC, id DESC`

// SQLiteRepository implements Repository over a DBTX.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Insert upserts by id. An existing non-empty remote_id is kept.
func (r *SQLiteRepository) Insert(ctx context.Context, l *models.SocialLink) (int64, error) {
	query := `INSERT INTO social_links (id, url, platform, title, description, image_url, owner_id, remote_id, created_at)
		VALUES (NULLIF(?, 0), ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			url = excluded.url,
			platform = excluded.platform,
			title = excluded.title,
			description = excluded.description,
			image_url = excluded.image_url,
			owner_id = excluded.owner_id,
			created_at = excluded.created_at,
			remote_id = CASE WHEN social_links.remote_id = '' THEN excluded.remote_id ELSE social_links.remote_id END
		RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		l.LocalID, l.URL, string(l.Platform), l.Title, l.Description, l.ImageURL, l.OwnerID, l.RemoteID, timex.Millis(l.CreatedAt),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert link: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, l *models.SocialLink) error {
	query := `UPDATE social_links SET url = ?, platform = ?, title = ?, description = ?, image_url = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, l.URL, string(l.Platform), l.Title, l.Description, l.ImageURL, l.LocalID)
	if err != nil {
		return fmt.Errorf("failed to update link: %w", err)
	}
	return dbx.ExpectOne(res, common.ErrNotFound)
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM social_links WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	return dbx.ExpectOne(res, common.ErrNotFound)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.SocialLink, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM social_links WHERE id = ?`, id)
	l, err := scanLink(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return l, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.SocialLink, error) {
	return r.list(ctx, `SELECT `+columns+` FROM social_links`+newestFirst)
}

func (r *SQLiteRepository) GetByPlatform(ctx context.Context, p models.Platform) ([]*models.SocialLink, error) {
	return r.list(ctx, `SELECT `+columns+` FROM social_links WHERE platform = ?`+newestFirst, string(p))
}

func (r *SQLiteRepository) GetAllForOwner(ctx context.Context, owner string) ([]*models.SocialLink, error) {
	return r.list(ctx, `SELECT `+columns+` FROM social_links WHERE owner_id = ?`+newestFirst, owner)
}

func (r *SQLiteRepository) AssignRemoteID(ctx context.Context, id int64, remoteID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE social_links SET remote_id = ? WHERE id = ? AND remote_id = ''`, remoteID, id)
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
	rows, err := r.db.QueryContext(ctx, `SELECT remote_id FROM social_links WHERE owner_id = ? AND remote_id <> ''`, owner)
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
	return known, rows.Err()
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]*models.SocialLink, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select links: %w", err)
	}
	defer rows.Close()

	var result []*models.SocialLink
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLink(s scanner) (*models.SocialLink, error) {
	var (
		l        models.SocialLink
		platform string
		created  int64
	)
	if err := s.Scan(&l.LocalID, &l.URL, &platform, &l.Title, &l.Description, &l.ImageURL, &l.OwnerID, &l.RemoteID, &created); err != nil {
		return nil, err
	}
	l.Platform = models.ParsePlatform(platform)
	l.CreatedAt = timex.FromMillis(created)
	return &l, nil
}
