package stats

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/myday/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestCompute(t *testing.T) {
	now := at(2025, time.March, 15, 12)
	entries := []*models.Entry{
		{Title: "one two", Body: "three", OccurredAt: at(2025, time.March, 14, 8)},
		{Title: "", Body: "  four   five six ", OccurredAt: at(2025, time.March, 14, 20)},
		{Title: "old", Body: "", OccurredAt: at(2024, time.October, 2, 9)},
		{Title: "older", Body: "", OccurredAt: at(2024, time.March, 2, 9)},
	}
	links := []*models.SocialLink{
		{Platform: models.PlatformYouTube, CreatedAt: now},
		{Platform: models.PlatformYouTube, CreatedAt: now},
		{Platform: models.PlatformTikTok, CreatedAt: now},
		{Platform: models.PlatformOther, CreatedAt: now},
	}

	s := Compute(entries, links, Range{}, now)
	assert.Equal(t, 4, s.Entries)
	assert.Equal(t, 4, s.Links)
	assert.Equal(t, 8, s.Words)
	assert.Equal(t, 2, s.AverageWords)
	assert.Equal(t, 3, s.ActiveDays)

	byPlatform := map[models.Platform]PlatformCount{}
	for _, pc := range s.Platforms {
		byPlatform[pc.Platform] = pc
	}
	assert.Equal(t, PlatformCount{models.PlatformYouTube, 2, 50}, byPlatform[models.PlatformYouTube])
	assert.Equal(t, PlatformCount{models.PlatformTikTok, 1, 25}, byPlatform[models.PlatformTikTok])
	assert.Equal(t, 0, byPlatform[models.PlatformFacebook].Count)

	require.Len(t, s.Monthly, HistogramMonths)
	assert.Equal(t, at(2024, time.October, 1, 0), s.Monthly[0].Month)
	assert.Equal(t, 1, s.Monthly[0].Count)
	assert.Equal(t, at(2025, time.March, 1, 0), s.Monthly[5].Month)
	assert.Equal(t, 2, s.Monthly[5].Count)
}

func TestCompute_Range(t *testing.T) {
	now := at(2025, time.March, 15, 12)
	entries := []*models.Entry{
		{Title: "in", OccurredAt: at(2025, time.March, 14, 0)},
		{Title: "in too", OccurredAt: at(2025, time.March, 14, 23)},
		{Title: "out", OccurredAt: at(2025, time.March, 15, 0)},
	}
	links := []*models.SocialLink{
		{Platform: models.PlatformFacebook, CreatedAt: at(2025, time.March, 13, 10)},
	}

	s := Compute(entries, links, Day(at(2025, time.March, 14, 10)), now)
	assert.Equal(t, 2, s.Entries)
	assert.Equal(t, 0, s.Links)
	assert.Equal(t, 1, s.ActiveDays)
	assert.Equal(t, 3, s.Monthly[5].Count)
}

func TestCompute_Empty(t *testing.T) {
	s := Compute(nil, nil, Range{}, at(2025, time.January, 1, 0))
	assert.Zero(t, s.AverageWords)
	assert.Len(t, s.Platforms, len(models.Platforms))
	assert.Equal(t, at(2024, time.August, 1, 0), s.Monthly[0].Month)
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords(" \n\t"))
	assert.Equal(t, 3, CountWords("a\nb  c"))
}
