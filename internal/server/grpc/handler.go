package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/myday/internal/common"
	"github.com/dmitrijs2005/myday/internal/logging"
	"github.com/dmitrijs2005/myday/internal/rpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// handler exposes a DocumentStoreServer over gRPC, turning domain errors
// into status codes the client maps back.
type handler struct {
	store  rpc.DocumentStoreServer
	logger logging.Logger
}

func (h *handler) Add(ctx context.Context, owner, collection string, fields map[string]any) (string, error) {
	id, err := h.store.Add(ctx, owner, collection, fields)
	return id, h.toStatus(ctx, "add", err)
}

func (h *handler) Set(ctx context.Context, owner, collection, id string, fields map[string]any) error {
	return h.toStatus(ctx, "set", h.store.Set(ctx, owner, collection, id, fields))
}

func (h *handler) Delete(ctx context.Context, owner, collection, id string) error {
	return h.toStatus(ctx, "delete", h.store.Delete(ctx, owner, collection, id))
}

func (h *handler) FetchAll(ctx context.Context, owner, collection string) ([]rpc.Document, error) {
	docs, err := h.store.FetchAll(ctx, owner, collection)
	return docs, h.toStatus(ctx, "fetch all", err)
}

func (h *handler) GetProfile(ctx context.Context, owner string) (map[string]any, error) {
	p, err := h.store.GetProfile(ctx, owner)
	return p, h.toStatus(ctx, "get profile", err)
}

func (h *handler) SaveProfile(ctx context.Context, owner string, profile map[string]any) error {
	return h.toStatus(ctx, "save profile", h.store.SaveProfile(ctx, owner, profile))
}

func (h *handler) Ping(ctx context.Context) error {
	return h.toStatus(ctx, "ping", h.store.Ping(ctx))
}

func (h *handler) toStatus(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, common.ErrUnknownCollection):
		return status.Error(codes.InvalidArgument, common.ErrUnknownCollection.Error())
	case errors.Is(err, common.ErrNoOwner), errors.Is(err, common.ErrInvalidDocument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrUnauthorized):
		return status.Error(codes.PermissionDenied, "permission denied")
	case errors.Is(err, common.ErrUnavailable):
		h.logger.Warn(ctx, op+" failed", "error", err)
		return status.Error(codes.Unavailable, "unavailable")
	default:
		h.logger.Error(ctx, op+" failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
