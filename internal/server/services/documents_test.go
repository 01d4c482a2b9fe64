package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/myday/internal/common"
	"github.com/dmitrijs2005/myday/internal/rpc"
	"github.com/dmitrijs2005/myday/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/myday/internal/timex"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*DocumentService, *timex.FixedClock) {
	t.Helper()
	clock := &timex.FixedClock{T: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	s := NewDocumentService(nil, repomanager.NewInMemoryRepositoryManager(), clock)
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("doc-%d", n)
	}
	return s, clock
}

func TestDocumentService_AddFetchSetDelete(t *testing.T) {
	ctx := context.Background()
	s, clock := newService(t)

	id1, err := s.Add(ctx, "u1", common.CollectionDiaries, map[string]any{"title": "A"})
	require.NoError(t, err)
	clock.Advance(time.Minute)
	id2, err := s.Add(ctx, "u1", common.CollectionDiaries, map[string]any{"title": "B"})
	require.NoError(t, err)
	_, err = s.Add(ctx, "u2", common.CollectionDiaries, map[string]any{"title": "other owner"})
	require.NoError(t, err)

	got, err := s.FetchAll(ctx, "u1", common.CollectionDiaries)
	require.NoError(t, err)
	want := []rpc.Document{
		{ID: id1, Fields: map[string]any{"title": "A"}},
		{ID: id2, Fields: map[string]any{"title": "B"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("FetchAll mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, s.Set(ctx, "u1", common.CollectionDiaries, id1, map[string]any{"title": "A2"}))
	require.NoError(t, s.Delete(ctx, "u1", common.CollectionDiaries, id2))

	got, err = s.FetchAll(ctx, "u1", common.CollectionDiaries)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A2", got[0].Fields["title"])

	links, err := s.FetchAll(ctx, "u1", common.CollectionSocialLinks)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestDocumentService_OwnerScoping(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t)

	id, err := s.Add(ctx, "u1", common.CollectionDiaries, map[string]any{})
	require.NoError(t, err)

	assert.ErrorIs(t, s.Set(ctx, "u2", common.CollectionDiaries, id, map[string]any{}), common.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "u2", common.CollectionDiaries, id), common.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "u1", common.CollectionSocialLinks, id), common.ErrNotFound)
}

func TestDocumentService_Validation(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t)

	tests := []struct {
		name string
		call func() error
		want error
	}{
		{"add no owner", func() error { _, err := s.Add(ctx, "", common.CollectionDiaries, map[string]any{}); return err }, common.ErrNoOwner},
		{"add unknown collection", func() error { _, err := s.Add(ctx, "u1", "photos", map[string]any{}); return err }, common.ErrUnknownCollection},
		{"add users collection", func() error { _, err := s.Add(ctx, "u1", common.CollectionUsers, map[string]any{}); return err }, common.ErrUnknownCollection},
		{"add nil fields", func() error { _, err := s.Add(ctx, "u1", common.CollectionDiaries, nil); return err }, common.ErrInvalidDocument},
		{"set missing id", func() error { return s.Set(ctx, "u1", common.CollectionDiaries, "", nil) }, common.ErrInvalidDocument},
		{"delete missing id", func() error { return s.Delete(ctx, "u1", common.CollectionDiaries, "") }, common.ErrInvalidDocument},
		{"fetch no owner", func() error { _, err := s.FetchAll(ctx, "", common.CollectionDiaries); return err }, common.ErrNoOwner},
		{"profile no owner", func() error { _, err := s.GetProfile(ctx, ""); return err }, common.ErrNoOwner},
		{"save profile no owner", func() error { return s.SaveProfile(ctx, "", nil) }, common.ErrNoOwner},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), tt.want)
		})
	}
}

func TestDocumentService_Profile(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t)

	_, err := s.GetProfile(ctx, "u1")
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, s.SaveProfile(ctx, "u1", map[string]any{"email": "a@b.c"}))
	require.NoError(t, s.SaveProfile(ctx, "u1", map[string]any{"email": "x@y.z", "displayName": "X"}))

	p, err := s.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"email": "x@y.z", "displayName": "X"}, p)
}

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestDocumentService_Ping(t *testing.T) {
	s := NewDocumentService(nil, repomanager.NewInMemoryRepositoryManager(), nil)
	require.NoError(t, s.Ping(context.Background()))

	db, mock := newSQLMockDB(t)
	defer db.Close()
	s = NewDocumentService(db, repomanager.NewPostgresRepositoryManager(), nil)

	mock.ExpectPing()
	require.NoError(t, s.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("down"))
	assert.ErrorIs(t, s.Ping(context.Background()), common.ErrUnavailable)
}

func TestDocumentService_PostgresAdd(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	s := NewDocumentService(db, repomanager.NewPostgresRepositoryManager(), &timex.FixedClock{T: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)})
	s.newID = func() string { return "fixed" }

	mock.ExpectExec(`INSERT INTO documents`).
		WithArgs("fixed", "u1", common.CollectionDiaries, []byte(`{"title":"A"}`), time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := s.Add(context.Background(), "u1", common.CollectionDiaries, map[string]any{"title": "A"})
	require.NoError(t, err)
	assert.Equal(t, "fixed", id)
	require.NoError(t, mock.ExpectationsWereMet())
}
