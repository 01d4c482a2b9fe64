package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// DocumentStoreClient calls the document store over a gRPC connection.
type DocumentStoreClient struct {
	cc grpc.ClientConnInterface
}

func NewDocumentStoreClient(cc grpc.ClientConnInterface) *DocumentStoreClient {
	return &DocumentStoreClient{cc: cc}
}

func (c *DocumentStoreClient) invoke(ctx context.Context, method string, req map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DocumentStoreClient) Add(ctx context.Context, owner, collection string, fields map[string]any) (string, error) {
	out, err := c.invoke(ctx, MethodAdd, map[string]any{
		"owner_id": owner, "collection": collection, "fields": fields,
	})
	if err != nil {
		return "", err
	}
	return stringField(out, "id"), nil
}

func (c *DocumentStoreClient) Set(ctx context.Context, owner, collection, id string, fields map[string]any) error {
	_, err := c.invoke(ctx, MethodSet, map[string]any{
		"owner_id": owner, "collection": collection, "id": id, "fields": fields,
	})
	return err
}

func (c *DocumentStoreClient) Delete(ctx context.Context, owner, collection, id string) error {
	_, err := c.invoke(ctx, MethodDelete, map[string]any{
		"owner_id": owner, "collection": collection, "id": id,
	})
	return err
}

func (c *DocumentStoreClient) FetchAll(ctx context.Context, owner, collection string) ([]Document, error) {
	out, err := c.invoke(ctx, MethodFetchAll, map[string]any{
		"owner_id": owner, "collection": collection,
	})
	if err != nil {
		return nil, err
	}

	list := out.GetFields()["documents"].GetListValue().GetValues()
	docs := make([]Document, 0, len(list))
	for _, v := range list {
		s := v.GetStructValue()
		docs = append(docs, Document{ID: stringField(s, "id"), Fields: structField(s, "fields")})
	}
	return docs, nil
}

func (c *DocumentStoreClient) GetProfile(ctx context.Context, owner string) (map[string]any, error) {
	out, err := c.invoke(ctx, MethodGetProfile, map[string]any{"owner_id": owner})
	if err != nil {
		return nil, err
	}
	return structField(out, "profile"), nil
}

func (c *DocumentStoreClient) SaveProfile(ctx context.Context, owner string, profile map[string]any) error {
	_, err := c.invoke(ctx, MethodSaveProfile, map[string]any{"owner_id": owner, "profile": profile})
	return err
}

// Ping returns nil when the server answers with status OK.
func (c *DocumentStoreClient) Ping(ctx context.Context) error {
	out, err := c.invoke(ctx, MethodPing, map[string]any{})
	if err != nil {
		return err
	}
	if s := stringField(out, "status"); s != "OK" {
		return fmt.Errorf("unexpected ping status %q", s)
	}
	return nil
}
