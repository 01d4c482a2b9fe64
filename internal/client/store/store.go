// Package store owns the local SQLite database: opening it, migrating it,
// and announcing changes to live streams.
//
// A Store is constructed once at startup, handed to every repository and
// service that needs it, and closed at shutdown.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/dmitrijs2005/myday/internal/client/live"
	"github.com/dmitrijs2005/myday/internal/client/migrations"
	"github.com/dmitrijs2005/myday/internal/filex"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Store is the process-wide handle on the local database.
type Store struct {
	DB       *sql.DB
	Path     string
	Notifier *live.Notifier

	watcher *Watcher
}

var memSeq atomic.Int64

// Open opens (or creates) the database at path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if _, err := filex.EnsureParentDir(path); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_txlock=immediate"
	return open(ctx, dsn, path, 0)
}

// OpenMemory opens a private in-memory database. It uses a single
// connection so every query sees the same data.
func OpenMemory(ctx context.Context) (*Store, error) {
	name := fmt.Sprintf("myday_mem_%d", memSeq.Add(1))
	dsn := "file:" + name + "?mode=memory&cache=shared&_pragma=busy_timeout(5000)"
	return open(ctx, dsn, ":memory:", 1)
}

func open(ctx context.Context, dsn, path string, maxConns int) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{DB: db, Path: path, Notifier: live.NewNotifier()}, nil
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	goose.SetLogger(goose.NopLogger())
	return goose.UpContext(ctx, db, ".")
}

// Close stops the file watcher, if any, and closes the database.
func (s *Store) Close() error {
	if s.watcher != nil {
		_ = s.watcher.Stop()
	}
	return s.DB.Close()
}
