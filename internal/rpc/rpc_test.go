package rpc

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type fakeServer struct {
	lastOwner      string
	lastCollection string
	lastID         string
	lastFields     map[string]any
	docs           []Document
	profile        map[string]any
	err            error
}

func (f *fakeServer) Add(_ context.Context, owner, collection string, fields map[string]any) (string, error) {
	f.lastOwner, f.lastCollection, f.lastFields = owner, collection, fields
	return "doc-1", f.err
}

func (f *fakeServer) Set(_ context.Context, owner, collection, id string, fields map[string]any) error {
	f.lastOwner, f.lastCollection, f.lastID, f.lastFields = owner, collection, id, fields
	return f.err
}

func (f *fakeServer) Delete(_ context.Context, owner, collection, id string) error {
	f.lastOwner, f.lastCollection, f.lastID = owner, collection, id
	return f.err
}

func (f *fakeServer) FetchAll(_ context.Context, owner, collection string) ([]Document, error) {
	f.lastOwner, f.lastCollection = owner, collection
	return f.docs, f.err
}

func (f *fakeServer) GetProfile(_ context.Context, owner string) (map[string]any, error) {
	f.lastOwner = owner
	return f.profile, f.err
}

func (f *fakeServer) SaveProfile(_ context.Context, owner string, p map[string]any) error {
	f.lastOwner, f.profile = owner, p
	return f.err
}

func (f *fakeServer) Ping(context.Context) error { return f.err }

func startServer(t *testing.T, srv DocumentStoreServer, opts ...grpc.ServerOption) *DocumentStoreClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(opts...)
	RegisterDocumentStoreServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewDocumentStoreClient(conn)
}

func TestRoundTrip_AddSetDelete(t *testing.T) {
	f := &fakeServer{}
	c := startServer(t, f)
	ctx := context.Background()

	id, err := c.Add(ctx, "o1", "diaries", map[string]any{"title": "A", "date": int64(1700000000000)})
	require.NoError(t, err)
	assert.Equal(t, "doc-1", id)
	assert.Equal(t, "o1", f.lastOwner)
	assert.Equal(t, "diaries", f.lastCollection)
	assert.Equal(t, "A", f.lastFields["title"])
	assert.Equal(t, float64(1700000000000), f.lastFields["date"])

	require.NoError(t, c.Set(ctx, "o1", "diaries", "doc-1", map[string]any{"title": "B"}))
	assert.Equal(t, "doc-1", f.lastID)
	assert.Equal(t, "B", f.lastFields["title"])

	require.NoError(t, c.Delete(ctx, "o1", "social_media_links", "doc-2"))
	assert.Equal(t, "social_media_links", f.lastCollection)
	assert.Equal(t, "doc-2", f.lastID)
}

func TestRoundTrip_FetchAllAndProfile(t *testing.T) {
	f := &fakeServer{
		docs: []Document{
			{ID: "a", Fields: map[string]any{"title": "one"}},
			{ID: "b", Fields: map[string]any{"title": "two"}},
		},
	}
	c := startServer(t, f)
	ctx := context.Background()

	docs, err := c.FetchAll(ctx, "o1", "diaries")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, "two", docs[1].Fields["title"])

	require.NoError(t, c.SaveProfile(ctx, "o1", map[string]any{"email": "a@b.c"}))
	p, err := c.GetProfile(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", p["email"])

	require.NoError(t, c.Ping(ctx))
}

func TestRoundTrip_StatusErrorsPropagate(t *testing.T) {
	f := &fakeServer{err: status.Error(codes.NotFound, "missing")}
	c := startServer(t, f)

	err := c.Delete(context.Background(), "o1", "diaries", "x")
	require.Error(t, err)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestInterceptorSeesFullMethodAndOwner(t *testing.T) {
	var seen []string
	icpt := func(ctx context.Context, req any, info *grpc.UnaryServerInfo, h grpc.UnaryHandler) (any, error) {
		seen = append(seen, info.FullMethod)
		if info.FullMethod == MethodFetchAll {
			return nil, status.Error(codes.PermissionDenied, "owner "+OwnerOf(req.(*structpb.Struct)))
		}
		return h(ctx, req)
	}
	c := startServer(t, &fakeServer{}, grpc.UnaryInterceptor(icpt))
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))
	_, err := c.FetchAll(ctx, "intruder", "diaries")
	require.Error(t, err)
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
	assert.Contains(t, status.Convert(err).Message(), "intruder")
	assert.Equal(t, []string{MethodPing, MethodFetchAll}, seen)
}
