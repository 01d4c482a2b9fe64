package links

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/myday/internal/client/models"
	"github.com/dmitrijs2005/myday/internal/client/store"
	"github.com/dmitrijs2005/myday/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	s, err := store.OpenMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return NewSQLiteRepository(s.DB)
}

func link(url string, p models.Platform, created time.Time) *models.SocialLink {
	return &models.SocialLink{URL: url, Platform: p, OwnerID: "o", CreatedAt: created}
}

func urls(ls []*models.SocialLink) []string {
	var out []string
	for _, l := range ls {
		out = append(out, l.URL)
	}
	return out
}

func TestGetAll_NewestFirstAndFilter(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	_, _ = r.Insert(ctx, link("yt-old", models.PlatformYouTube, base))
	_, _ = r.Insert(ctx, link("ig", models.PlatformInstagram, base.Add(time.Hour)))
	_, _ = r.Insert(ctx, link("yt-new", models.PlatformYouTube, base.Add(2*time.Hour)))

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"yt-new", "ig", "yt-old"}, urls(all))

	yt, err := r.GetByPlatform(ctx, models.PlatformYouTube)
	require.NoError(t, err)
	assert.Equal(t, []string{"yt-new", "yt-old"}, urls(yt))

	none, err := r.GetByPlatform(ctx, models.PlatformTikTok)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUnknownStoredPlatformReadsAsOther(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	id, err := r.Insert(ctx, link("x", models.Platform("MYSPACE"), base))
	require.NoError(t, err)

	got, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.PlatformOther, got.Platform)
}

func TestUpdate_KeepsRemoteIDOwnerAndCreatedAt(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	id, err := r.Insert(ctx, link("u", models.PlatformTwitter, base))
	require.NoError(t, err)
	ok, err := r.AssignRemoteID(ctx, id, "r1")
	require.NoError(t, err)
	require.True(t, ok)

	upd := link("u2", models.PlatformTwitter, base.Add(time.Hour))
	upd.LocalID = id
	upd.Title = "T"
	upd.OwnerID = ""
	require.NoError(t, r.Update(ctx, upd))

	got, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "u2", got.URL)
	assert.Equal(t, "T", got.Title)
	assert.Equal(t, "r1", got.RemoteID)
	assert.Equal(t, "o", got.OwnerID)
	assert.True(t, base.Equal(got.CreatedAt))

	known, err := r.KnownRemoteIDs(ctx, "o")
	require.NoError(t, err)
	assert.Contains(t, known, "r1")
}

func TestRemoteIDs(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	id, _ := r.Insert(ctx, link("u", models.PlatformOther, base))
	ok, err := r.AssignRemoteID(ctx, id, "r1")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = r.AssignRemoteID(ctx, id, "r2")
	require.NoError(t, err)
	require.False(t, ok)

	known, err := r.KnownRemoteIDs(ctx, "o")
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"r1": {}}, known)

	mine, err := r.GetAllForOwner(ctx, "someone-else")
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestDeleteByID(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	id, _ := r.Insert(ctx, link("u", models.PlatformOther, base))
	require.NoError(t, r.DeleteByID(ctx, id))
	require.ErrorIs(t, r.DeleteByID(ctx, id), common.ErrNotFound)
	_, err := r.GetByID(ctx, id)
	require.ErrorIs(t, err, common.ErrNotFound)
}
