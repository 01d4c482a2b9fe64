// Package models defines server-side data models persisted in the database.
package models

import "time"

// Document is one record of an owner's collection. Fields is the record
// body exactly as the client sent it.
type Document struct {
	ID         string
	OwnerID    string
	Collection string
	Fields     map[string]any
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Profile is the single per-owner profile document.
type Profile struct {
	OwnerID   string
	Fields    map[string]any
	UpdatedAt time.Time
}
