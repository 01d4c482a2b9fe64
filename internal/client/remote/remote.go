// Package remote is the client side of the remote document store.
//
// Store is scoped per call by owner id. Every backend reports failures as
// *common.RemoteError and never retries internally; deciding whether a
// failure matters is left to the caller.
package remote

import (
	"context"

	"github.com/dmitrijs2005/myday/internal/common"
	"github.com/dmitrijs2005/myday/internal/rpc"
)

// Document is one remote record.
type Document = rpc.Document

// Store is the remote document store.
type Store interface {
	// Add creates a document and returns its server-assigned id.
	Add(ctx context.Context, owner, collection string, fields map[string]any) (string, error)

	// Set replaces the fields of an existing document.
	Set(ctx context.Context, owner, collection, id string, fields map[string]any) error

	Delete(ctx context.Context, owner, collection, id string) error

	// FetchAll returns every document of the owner's collection.
	FetchAll(ctx context.Context, owner, collection string) ([]Document, error)

	// GetProfile returns the owner's profile fields or common.ErrNotFound.
	GetProfile(ctx context.Context, owner string) (map[string]any, error)

	SaveProfile(ctx context.Context, owner string, profile map[string]any) error
}

// Disabled is the Store used when no backend is configured. Every call
// fails with ErrUnavailable, so records stay local.
type Disabled struct{}

func (Disabled) Add(_ context.Context, _, collection string, _ map[string]any) (string, error) {
	return "", common.NewRemoteError("add", collection, common.ErrUnavailable)
}

func (Disabled) Set(_ context.Context, _, collection, _ string, _ map[string]any) error {
	return common.NewRemoteError("set", collection, common.ErrUnavailable)
}

func (Disabled) Delete(_ context.Context, _, collection, _ string) error {
	return common.NewRemoteError("delete", collection, common.ErrUnavailable)
}

func (Disabled) FetchAll(_ context.Context, _, collection string) ([]Document, error) {
	return nil, common.NewRemoteError("fetch", collection, common.ErrUnavailable)
}

func (Disabled) GetProfile(context.Context, string) (map[string]any, error) {
	return nil, common.NewRemoteError("get profile", common.CollectionUsers, common.ErrUnavailable)
}

func (Disabled) SaveProfile(context.Context, string, map[string]any) error {
	return common.NewRemoteError("save profile", common.CollectionUsers, common.ErrUnavailable)
}

func checkScope(op, owner, collection string) error {
	if owner == "" {
		return common.NewRemoteError(op, collection, common.ErrNoOwner)
	}
	if collection != common.CollectionUsers && !common.KnownCollection(collection) {
		return common.NewRemoteError(op, collection, common.ErrUnknownCollection)
	}
	return nil
}
