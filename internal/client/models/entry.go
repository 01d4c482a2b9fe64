// Package models defines the journaling records kept in the local store and
// their mapping to remote document fields.
package models

import (
	"time"

	"github.com/dmitrijs2005/myday/internal/common"
	"github.com/dmitrijs2005/myday/internal/timex"
)

// Entry is a diary entry.
//
// LocalID is assigned by the store on insert and never changes. RemoteID is
// empty until the first successful push and is never reassigned afterwards.
type Entry struct {
	LocalID    int64
	Title      string
	Body       string
	OccurredAt time.Time
	CreatedAt  time.Time
	OwnerID    string
	RemoteID   string
}

func (e *Entry) GetLocalID() int64   { return e.LocalID }
func (e *Entry) GetOwnerID() string  { return e.OwnerID }
func (e *Entry) GetRemoteID() string { return e.RemoteID }

// Fields returns the remote document body for e.
func (e *Entry) Fields() map[string]any {
	return map[string]any{
		"title":     e.Title,
		"content":   e.Body,
		"date":      timex.Millis(e.OccurredAt),
		"createdAt": timex.Millis(e.CreatedAt),
		"userId":    e.OwnerID,
	}
}

// EntryFromDocument builds a not-yet-stored Entry from a pulled document.
// The collection the document came from decides its owner; a userId field
// in the body is ignored.
func EntryFromDocument(owner, id string, f map[string]any) *Entry {
	return &Entry{
		Title:      stringField(f, "title"),
		Body:       stringField(f, "content"),
		OccurredAt: timex.FromMillis(int64Field(f, "date")),
		CreatedAt:  timex.FromMillis(int64Field(f, "createdAt")),
		OwnerID:    owner,
		RemoteID:   id,
	}
}

// TrashedEntry is a point-in-time copy of a soft-deleted Entry. It is local
// only and never replicated.
type TrashedEntry struct {
	LocalID         int64
	OriginalLocalID int64
	Title           string
	Body            string
	OccurredAt      time.Time
	CreatedAt       time.Time
	OwnerID         string
	DeletedAt       time.Time
}

// Trash copies the content of e into a TrashedEntry deleted at now.
func Trash(e *Entry, now time.Time) *TrashedEntry {
	return &TrashedEntry{
		OriginalLocalID: e.LocalID,
		Title:           e.Title,
		Body:            e.Body,
		OccurredAt:      e.OccurredAt,
		CreatedAt:       e.CreatedAt,
		OwnerID:         e.OwnerID,
		DeletedAt:       now,
	}
}

// Restored returns a fresh Entry with the trashed content. The result has
// no local id and no remote id.
func (t *TrashedEntry) Restored() *Entry {
	return &Entry{
		Title:      t.Title,
		Body:       t.Body,
		OccurredAt: t.OccurredAt,
		CreatedAt:  t.CreatedAt,
		OwnerID:    t.OwnerID,
	}
}

// Collection names used for the two replicated record kinds.
const (
	EntryCollection = common.CollectionDiaries
	LinkCollection  = common.CollectionSocialLinks
)
