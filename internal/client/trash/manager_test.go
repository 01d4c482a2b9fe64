package trash

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/myday/internal/client/live"
	"github.com/dmitrijs2005/myday/internal/client/models"
	"github.com/dmitrijs2005/myday/internal/client/repositories/entries"
	trashrepo "github.com/dmitrijs2005/myday/internal/client/repositories/trash"
	"github.com/dmitrijs2005/myday/internal/client/store"
	"github.com/dmitrijs2005/myday/internal/common"
	"github.com/dmitrijs2005/myday/internal/timex"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// entryWriter is the diary write path without replication.
type entryWriter struct {
	*entries.SQLiteRepository
	deleted []int64
}

func (w *entryWriter) Delete(ctx context.Context, id int64) error {
	w.deleted = append(w.deleted, id)
	return w.DeleteByID(ctx, id)
}

type fixture struct {
	mgr     *Manager
	entries *entryWriter
	trash   *trashrepo.SQLiteRepository
	clock   *timex.FixedClock
	st      *store.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.OpenMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	clock := &timex.FixedClock{T: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	w := &entryWriter{SQLiteRepository: entries.NewSQLiteRepository(st.DB)}
	tr := trashrepo.NewSQLiteRepository(st.DB)
	return &fixture{
		mgr:     NewManager(w, tr, clock, st.Notifier, nil, nil),
		entries: w,
		trash:   tr,
		clock:   clock,
		st:      st,
	}
}

func (f *fixture) addEntry(t *testing.T, title, remoteID string) *models.Entry {
	t.Helper()
	e := &models.Entry{
		Title:      title,
		Body:       "body of " + title,
		OccurredAt: f.clock.T.Add(-time.Hour),
		CreatedAt:  f.clock.T.Add(-time.Hour),
		OwnerID:    "u1",
		RemoteID:   remoteID,
	}
	id, err := f.entries.Insert(context.Background(), e)
	require.NoError(t, err)
	e.LocalID = id
	return e
}

func TestSoftDeleteThenRestore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	orig := f.addEntry(t, "A", "r-1")

	trashed, err := f.mgr.SoftDelete(ctx, orig.LocalID)
	require.NoError(t, err)
	assert.Equal(t, orig.LocalID, trashed.OriginalLocalID)
	assert.Equal(t, f.clock.T, trashed.DeletedAt)
	assert.Equal(t, []int64{orig.LocalID}, f.entries.deleted)

	_, err = f.entries.GetByID(ctx, orig.LocalID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	restored, err := f.mgr.Restore(ctx, trashed.LocalID)
	require.NoError(t, err)
	assert.NotEqual(t, orig.LocalID, restored.LocalID)
	assert.Equal(t, "", restored.RemoteID)

	got, err := f.entries.GetByID(ctx, restored.LocalID)
	require.NoError(t, err)
	want := *orig
	want.LocalID, want.RemoteID = restored.LocalID, ""
	if diff := cmp.Diff(&want, got); diff != "" {
		t.Errorf("restored entry mismatch (-want +got):\n%s", diff)
	}

	items, err := f.mgr.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSoftDelete_MissingEntry(t *testing.T) {
	f := newFixture(t)
	_, err := f.mgr.SoftDelete(context.Background(), 404)
	assert.True(t, common.IsStorage(err))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestEvictExpired_31Versus29Days(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	old := f.addEntry(t, "old", "")
	recent := f.addEntry(t, "recent", "")

	f.clock.T = f.clock.T.Add(-31 * Day)
	_, err := f.mgr.SoftDelete(ctx, old.LocalID)
	require.NoError(t, err)
	f.clock.T = f.clock.T.Add(2 * Day)
	_, err = f.mgr.SoftDelete(ctx, recent.LocalID)
	require.NoError(t, err)
	f.clock.T = f.clock.T.Add(29 * Day)

	n, err := f.mgr.EvictExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	items, err := f.mgr.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "recent", items[0].Title)
}

func TestEvictExpired_BoundaryIsStrict(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := f.clock.T

	for _, age := range []time.Duration{Retention + time.Millisecond, Retention, Retention - time.Millisecond} {
		_, err := f.trash.Insert(ctx, &models.TrashedEntry{Title: age.String(), OwnerID: "u1", DeletedAt: now.Add(-age)})
		require.NoError(t, err)
	}

	n, err := f.mgr.EvictExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	items, err := f.mgr.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestEvictSingleManyAll(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var ids []int64
	for _, title := range []string{"a", "b", "c", "d"} {
		tr, err := f.mgr.SoftDelete(ctx, f.addEntry(t, title, "").LocalID)
		require.NoError(t, err)
		ids = append(ids, tr.LocalID)
	}

	require.NoError(t, f.mgr.Evict(ctx, ids[0]))
	assert.ErrorIs(t, f.mgr.Evict(ctx, ids[0]), common.ErrNotFound)

	n, err := f.mgr.EvictMany(ctx, []int64{ids[0], ids[1], ids[2]})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = f.mgr.EvictAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRestoreMany(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a, err := f.mgr.SoftDelete(ctx, f.addEntry(t, "a", "").LocalID)
	require.NoError(t, err)
	b, err := f.mgr.SoftDelete(ctx, f.addEntry(t, "b", "").LocalID)
	require.NoError(t, err)

	restored, err := f.mgr.RestoreMany(ctx, []int64{a.LocalID, b.LocalID, 999})
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Len(t, restored, 2)
}

func TestRemainingDays(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, ok, err := f.mgr.RemainingDays(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	now := f.clock.T
	for _, age := range []time.Duration{2*Day + time.Hour, 10*Day + 23*time.Hour} {
		_, err := f.trash.Insert(ctx, &models.TrashedEntry{OwnerID: "u1", DeletedAt: now.Add(-age)})
		require.NoError(t, err)
	}

	days, ok, err := f.mgr.RemainingDays(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 20, days)
}

func TestRemainingDaysAt(t *testing.T) {
	now := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 30, RemainingDaysAt(now, now))
	assert.Equal(t, 30, RemainingDaysAt(now.Add(-23*time.Hour), now))
	assert.Equal(t, 29, RemainingDaysAt(now.Add(-Day), now))
	assert.Equal(t, 0, RemainingDaysAt(now.Add(-Retention), now))
	assert.Equal(t, -1, RemainingDaysAt(now.Add(-31*Day), now))

	// clock skew: deleted "in the future"
	assert.Equal(t, 31, RemainingDaysAt(now.Add(time.Hour), now))
	assert.Equal(t, 31, RemainingDaysAt(now.Add(Day), now))
	assert.Equal(t, 32, RemainingDaysAt(now.Add(Day+time.Minute), now))
}

func TestEvictNotifiesTrashTopic(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tr, err := f.mgr.SoftDelete(ctx, f.addEntry(t, "x", "").LocalID)
	require.NoError(t, err)

	stream := live.Observe(ctx, f.st.Notifier, live.TopicTrash, f.mgr.List)
	defer stream.Close()
	first := <-stream.C
	require.Len(t, first.Items, 1)

	require.NoError(t, f.mgr.Evict(ctx, tr.LocalID))
	select {
	case snap := <-stream.C:
		assert.Empty(t, snap.Items)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot after evict")
	}
}
