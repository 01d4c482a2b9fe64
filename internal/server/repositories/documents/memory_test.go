package documents

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/myday/internal/common"
	"github.com/dmitrijs2005/myday/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_ScopesByOwnerAndCollection(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, r.Insert(ctx, &models.Document{ID: "b", OwnerID: "u1", Collection: "diaries", Fields: map[string]any{"n": 2}, CreatedAt: t0.Add(time.Hour)}))
	require.NoError(t, r.Insert(ctx, &models.Document{ID: "a", OwnerID: "u1", Collection: "diaries", Fields: map[string]any{"n": 1}, CreatedAt: t0}))
	require.NoError(t, r.Insert(ctx, &models.Document{ID: "c", OwnerID: "u2", Collection: "diaries", CreatedAt: t0}))
	assert.ErrorIs(t, r.Insert(ctx, &models.Document{ID: "a"}), common.ErrInvalidDocument)

	list, err := r.ListByOwner(ctx, "u1", "diaries")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)

	list[0].Fields["n"] = 99
	again, _ := r.ListByOwner(ctx, "u1", "diaries")
	assert.Equal(t, 1, again[0].Fields["n"], "returned documents are copies")

	assert.ErrorIs(t, r.Update(ctx, &models.Document{ID: "c", OwnerID: "u1", Collection: "diaries"}), common.ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, "u1", "social_media_links", "a"), common.ErrNotFound)

	require.NoError(t, r.Update(ctx, &models.Document{ID: "a", OwnerID: "u1", Collection: "diaries", Fields: map[string]any{"n": 3}, UpdatedAt: t0.Add(2 * time.Hour)}))
	require.NoError(t, r.Delete(ctx, "u1", "diaries", "b"))

	list, _ = r.ListByOwner(ctx, "u1", "diaries")
	require.Len(t, list, 1)
	assert.Equal(t, 3, list[0].Fields["n"])
	assert.Equal(t, t0.Add(2*time.Hour), list[0].UpdatedAt)
}
