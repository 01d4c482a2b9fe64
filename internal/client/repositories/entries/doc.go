// Package entries provides the client-side persistence layer for diary
// entries.
//
// # Overview
//
// Repository covers CRUD plus the two queries replication needs:
// AssignRemoteID, which records the remote identity of a pushed entry at
// most once, and KnownRemoteIDs, which pull uses to skip documents it has
// already stored. SQLiteRepository implements it over a dbx.DBTX, so the
// same code runs on *sql.DB or inside a transaction.
//
// # Identity
//
// Local ids come from SQLite AUTOINCREMENT and are never reused or changed.
// Update never writes remote_id; the only way to set it is AssignRemoteID,
// which refuses to overwrite a non-empty value.
//
// # Ordering
//
// GetAll and GetAllForOwner return entries by occurred_at DESC, then
// created_at DESC.
//
// Typical Usage
//
//	repo := entries.NewSQLiteRepository(db)
//	id, _ := repo.Insert(ctx, entry)
//	one, _ := repo.GetByID(ctx, id)
//	_, _ = repo.AssignRemoteID(ctx, id, "doc-1")
//	known, _ := repo.KnownRemoteIDs(ctx, owner)
package entries
