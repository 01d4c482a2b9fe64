// Package rpc defines the document store gRPC service shared by the myday
// client and the docstore server.
//
// Every request and response is a google.protobuf.Struct, so the service is
// described by hand instead of by generated stubs. Request keys:
//
//	collection  remote collection name ("diaries", "social_media_links")
//	owner_id    owner scoping the call; must match the access token
//	id          document id (Set, Delete)
//	fields      document body (Add, Set)
//	profile     profile body (SaveProfile)
//
// Responses carry "id" (Add), "documents" (FetchAll, a list of
// {"id", "fields"}), "profile" (GetProfile) or "status" (Ping).
package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "myday.documents.v1.DocumentStore"

const (
	MethodAdd         = "/" + ServiceName + "/Add"
	MethodSet         = "/" + ServiceName + "/Set"
	MethodDelete      = "/" + ServiceName + "/Delete"
	MethodFetchAll    = "/" + ServiceName + "/FetchAll"
	MethodGetProfile  = "/" + ServiceName + "/GetProfile"
	MethodSaveProfile = "/" + ServiceName + "/SaveProfile"
	MethodPing        = "/" + ServiceName + "/Ping"
)

// Document is one remote record: its server-assigned id plus its fields.
type Document struct {
	ID     string
	Fields map[string]any
}

// DocumentStoreServer is implemented by the docstore server.
type DocumentStoreServer interface {
	Add(ctx context.Context, owner, collection string, fields map[string]any) (string, error)
	Set(ctx context.Context, owner, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, owner, collection, id string) error
	FetchAll(ctx context.Context, owner, collection string) ([]Document, error)
	GetProfile(ctx context.Context, owner string) (map[string]any, error)
	SaveProfile(ctx context.Context, owner string, profile map[string]any) error
	Ping(ctx context.Context) error
}

// RegisterDocumentStoreServer registers srv on s.
func RegisterDocumentStoreServer(s grpc.ServiceRegistrar, srv DocumentStoreServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc describes the document store service for grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DocumentStoreServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Add", Handler: unary(MethodAdd, handleAdd)},
		{MethodName: "Set", Handler: unary(MethodSet, handleSet)},
		{MethodName: "Delete", Handler: unary(MethodDelete, handleDelete)},
		{MethodName: "FetchAll", Handler: unary(MethodFetchAll, handleFetchAll)},
		{MethodName: "GetProfile", Handler: unary(MethodGetProfile, handleGetProfile)},
		{MethodName: "SaveProfile", Handler: unary(MethodSaveProfile, handleSaveProfile)},
		{MethodName: "Ping", Handler: unary(MethodPing, handlePing)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "myday/documents.proto",
}

type handlerFunc func(ctx context.Context, srv DocumentStoreServer, req *structpb.Struct) (*structpb.Struct, error)

// unary adapts fn to the grpc.MethodDesc handler shape, running the server
// interceptor chain when one is installed.
func unary(fullMethod string, fn handlerFunc) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		store := srv.(DocumentStoreServer)
		if interceptor == nil {
			return fn(ctx, store, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return fn(ctx, store, req.(*structpb.Struct))
		})
	}
}

func handleAdd(ctx context.Context, srv DocumentStoreServer, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := srv.Add(ctx, OwnerOf(req), stringField(req, "collection"), structField(req, "fields"))
	if err != nil {
		return nil, err
	}
	return newStruct(map[string]any{"id": id})
}

func handleSet(ctx context.Context, srv DocumentStoreServer, req *structpb.Struct) (*structpb.Struct, error) {
	err := srv.Set(ctx, OwnerOf(req), stringField(req, "collection"), stringField(req, "id"), structField(req, "fields"))
	if err != nil {
		return nil, err
	}
	return &structpb.Struct{}, nil
}

func handleDelete(ctx context.Context, srv DocumentStoreServer, req *structpb.Struct) (*structpb.Struct, error) {
	if err := srv.Delete(ctx, OwnerOf(req), stringField(req, "collection"), stringField(req, "id")); err != nil {
		return nil, err
	}
	return &structpb.Struct{}, nil
}

func handleFetchAll(ctx context.Context, srv DocumentStoreServer, req *structpb.Struct) (*structpb.Struct, error) {
	docs, err := srv.FetchAll(ctx, OwnerOf(req), stringField(req, "collection"))
	if err != nil {
		return nil, err
	}
	list := make([]any, 0, len(docs))
	for _, d := range docs {
		list = append(list, map[string]any{"id": d.ID, "fields": d.Fields})
	}
	return newStruct(map[string]any{"documents": list})
}

func handleGetProfile(ctx context.Context, srv DocumentStoreServer, req *structpb.Struct) (*structpb.Struct, error) {
	p, err := srv.GetProfile(ctx, OwnerOf(req))
	if err != nil {
		return nil, err
	}
	return newStruct(map[string]any{"profile": p})
}

func handleSaveProfile(ctx context.Context, srv DocumentStoreServer, req *structpb.Struct) (*structpb.Struct, error) {
	if err := srv.SaveProfile(ctx, OwnerOf(req), structField(req, "profile")); err != nil {
		return nil, err
	}
	return &structpb.Struct{}, nil
}

func handlePing(ctx context.Context, srv DocumentStoreServer, _ *structpb.Struct) (*structpb.Struct, error) {
	if err := srv.Ping(ctx); err != nil {
		return nil, err
	}
	return newStruct(map[string]any{"status": "OK"})
}

// OwnerOf returns the owner_id carried by a request.
func OwnerOf(req *structpb.Struct) string {
	return stringField(req, "owner_id")
}

func stringField(s *structpb.Struct, key string) string {
	if s == nil {
		return ""
	}
	return s.GetFields()[key].GetStringValue()
}

func structField(s *structpb.Struct, key string) map[string]any {
	if s == nil {
		return nil
	}
	v := s.GetFields()[key].GetStructValue()
	if v == nil {
		return nil
	}
	return v.AsMap()
}

func newStruct(m map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	return s, nil
}
