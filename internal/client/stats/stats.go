// Package stats summarises the journal: counts, word totals, active days,
// link distribution by platform and a six month entry histogram.
package stats

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/myday/internal/client/models"
)

// HistogramMonths is the number of calendar months in Stats.Monthly.
const HistogramMonths = 6

// Range limits entries by OccurredAt and links by CreatedAt, both bounds
// inclusive. The zero Range matches everything.
type Range struct {
	From time.Time
	To   time.Time
}

func (r Range) contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// Day returns the range covering the calendar day of t in t's location.
func Day(t time.Time) Range {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return Range{From: start, To: start.AddDate(0, 0, 1).Add(-time.Nanosecond)}
}

type PlatformCount struct {
	Platform models.Platform
	Count    int
	Percent  int
}

type MonthCount struct {
	Month time.Time // first day of the month
	Count int
}

type Stats struct {
	Entries      int
	Links        int
	Words        int
	AverageWords int
	ActiveDays   int
	Platforms    []PlatformCount
	Monthly      []MonthCount
}

// Compute builds Stats. The monthly histogram ignores r and always covers
// the HistogramMonths calendar months ending with the month of now.
func Compute(entries []*models.Entry, links []*models.SocialLink, r Range, now time.Time) Stats {
	var s Stats
	days := make(map[string]struct{})

	for _, e := range entries {
		if !r.contains(e.OccurredAt) {
			continue
		}
		s.Entries++
		s.Words += CountWords(e.Title) + CountWords(e.Body)
		days[e.OccurredAt.UTC().Format(time.DateOnly)] = struct{}{}
	}
	s.ActiveDays = len(days)
	if s.Entries > 0 {
		s.AverageWords = s.Words / s.Entries
	}

	counts := make(map[models.Platform]int)
	for _, l := range links {
		if !r.contains(l.CreatedAt) {
			continue
		}
		s.Links++
		counts[l.Platform]++
	}
	for _, p := range models.Platforms {
		pc := PlatformCount{Platform: p, Count: counts[p]}
		if s.Links > 0 {
			pc.Percent = pc.Count * 100 / s.Links
		}
		s.Platforms = append(s.Platforms, pc)
	}

	s.Monthly = monthly(entries, now)
	return s
}

func monthly(entries []*models.Entry, now time.Time) []MonthCount {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	out := make([]MonthCount, HistogramMonths)
	index := make(map[string]int, HistogramMonths)
	for i := range out {
		m := first.AddDate(0, i-(HistogramMonths-1), 0)
		out[i].Month = m
		index[m.Format("2006-01")] = i
	}
	for _, e := range entries {
		if i, ok := index[e.OccurredAt.In(now.Location()).Format("2006-01")]; ok {
			out[i].Count++
		}
	}
	return out
}

// CountWords counts whitespace-separated words.
func CountWords(s string) int {
	return len(strings.Fields(s))
}
