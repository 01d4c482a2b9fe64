package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// pulled is a remote journal entry as a Pull batch sees it.
type pulled struct {
	remoteID string
	title    string
}

func openJournal(t *testing.T) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS entries (
		id INTEGER PRIMARY KEY,
		owner_id TEXT NOT NULL,
		remote_id TEXT UNIQUE,
		title TEXT NOT NULL
	);`)
	require.NoError(t, err)
	return db
}

func countEntries(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n))
	return n
}

// insertPulled stores a batch the way a pull does: every row or none.
func insertPulled(ctx context.Context, db TxBeginner, owner string, batch []pulled) error {
	return WithTx(ctx, db, nil, func(ctx context.Context, tx DBTX) error {
		for _, p := range batch {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO entries(owner_id, remote_id, title) VALUES (?, ?, ?)`,
				owner, p.remoteID, p.title)
			if err != nil {
				return fmt.Errorf("insert %s: %w", p.remoteID, err)
			}
		}
		return nil
	})
}

func TestWithTx_PullBatchCommits(t *testing.T) {
	db := openJournal(t)

	err := insertPulled(context.Background(), db, "u1", []pulled{
		{remoteID: "r1", title: "Morning run"},
		{remoteID: "r2", title: "Dentist"},
	})
	require.NoError(t, err)
	require.Equal(t, 2, countEntries(t, db))
}

func TestWithTx_PullBatchRollsBackOnDuplicateRemoteID(t *testing.T) {
	db := openJournal(t)

	err := insertPulled(context.Background(), db, "u1", []pulled{
		{remoteID: "r1", title: "Morning run"},
		{remoteID: "r2", title: "Dentist"},
		{remoteID: "r1", title: "Morning run again"},
	})
	require.ErrorContains(t, err, "insert r1")
	require.Equal(t, 0, countEntries(t, db), "a failed pull must not leave half a batch")

	require.NoError(t, insertPulled(context.Background(), db, "u1", []pulled{
		{remoteID: "r1", title: "Morning run"},
	}))
	require.Equal(t, 1, countEntries(t, db), "retrying after a rollback starts clean")
}

func TestWithTx_RollbackOnFnError(t *testing.T) {
	db := openJournal(t)
	remoteDown := errors.New("remote unavailable")

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO entries(owner_id, remote_id, title) VALUES ('u1', 'r1', 'Lunch')`)
		require.NoError(t, e)
		return remoteDown
	})
	require.ErrorIs(t, err, remoteDown)
	require.Equal(t, 0, countEntries(t, db))
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := openJournal(t)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic to propagate")
		}
		require.Equal(t, 0, countEntries(t, db), "must rollback on panic")
	}()

	_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO entries(owner_id, title) VALUES ('u1', 'Draft')`)
		require.NoError(t, e)
		panic("decoder blew up")
	})
}

func TestWithTx_BeginError(t *testing.T) {
	db := openJournal(t)
	require.NoError(t, db.Close())

	called := false
	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		called = true
		return nil
	})
	require.Error(t, err, "begin should fail when the database is closed")
	require.False(t, called)
}

func TestWithTx_CommitErrorIsReturned(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO entries`).
		WithArgs("u1", "r1", "Morning run").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit().WillReturnError(errors.New("disk full"))

	err = insertPulled(context.Background(), db, "u1", []pulled{{remoteID: "r1", title: "Morning run"}})
	require.ErrorContains(t, err, "disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_FailedInsertRollsBackWithoutCommit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO entries`).
		WithArgs("u1", "r1", "Morning run").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO entries`).
		WithArgs("u1", "r2", "Dentist").
		WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	err = insertPulled(context.Background(), db, "u1", []pulled{
		{remoteID: "r1", title: "Morning run"},
		{remoteID: "r2", title: "Dentist"},
	})
	require.ErrorContains(t, err, "insert r2")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpectOne(t *testing.T) {
	notFound := errors.New("entry not found")

	require.NoError(t, ExpectOne(sqlmock.NewResult(0, 1), notFound))
	require.ErrorIs(t, ExpectOne(sqlmock.NewResult(0, 0), notFound), notFound)

	err := ExpectOne(sqlmock.NewResult(0, 2), notFound)
	require.Error(t, err)
	require.NotErrorIs(t, err, notFound)

	err = ExpectOne(sqlmock.NewErrorResult(errors.New("driver")), notFound)
	require.ErrorContains(t, err, "failed to get rows affected")
}
