package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/myday/internal/common"
	"github.com/dmitrijs2005/myday/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// GRPCStore talks to a docstore server.
type GRPCStore struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      *rpc.DocumentStoreClient
	accessToken string
	timeout     time.Duration
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCStore) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.accessToken != "" {
		ctx = withAccessToken(ctx, s.accessToken)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCStore dials endpointURL lazily. A zero timeout disables the
// per-call deadline.
func NewGRPCStore(endpointURL, accessToken string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCStore, error) {
	s := &GRPCStore{endpointURL: endpointURL, accessToken: accessToken, timeout: timeout}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	s.conn = conn
	s.client = rpc.NewDocumentStoreClient(conn)
	return s, nil
}

func (s *GRPCStore) Close() error {
	return s.conn.Close()
}

func (s *GRPCStore) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *GRPCStore) Add(ctx context.Context, owner, collection string, fields map[string]any) (string, error) {
	if err := checkScope("add", owner, collection); err != nil {
		return "", err
	}
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	id, err := s.client.Add(ctx, owner, collection, fields)
	if err != nil {
		return "", common.NewRemoteError("add", collection, mapError(err))
	}
	return id, nil
}

func (s *GRPCStore) Set(ctx context.Context, owner, collection, id string, fields map[string]any) error {
	if err := checkScope("set", owner, collection); err != nil {
		return err
	}
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	return common.NewRemoteError("set", collection, mapError(s.client.Set(ctx, owner, collection, id, fields)))
}

func (s *GRPCStore) Delete(ctx context.Context, owner, collection, id string) error {
	if err := checkScope("delete", owner, collection); err != nil {
		return err
	}
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	return common.NewRemoteError("delete", collection, mapError(s.client.Delete(ctx, owner, collection, id)))
}

func (s *GRPCStore) FetchAll(ctx context.Context, owner, collection string) ([]Document, error) {
	if err := checkScope("fetch", owner, collection); err != nil {
		return nil, err
	}
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	docs, err := s.client.FetchAll(ctx, owner, collection)
	if err != nil {
		return nil, common.NewRemoteError("fetch", collection, mapError(err))
	}
	return docs, nil
}

func (s *GRPCStore) GetProfile(ctx context.Context, owner string) (map[string]any, error) {
	if err := checkScope("get profile", owner, common.CollectionUsers); err != nil {
		return nil, err
	}
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	p, err := s.client.GetProfile(ctx, owner)
	if err != nil {
		return nil, common.NewRemoteError("get profile", common.CollectionUsers, mapError(err))
	}
	return p, nil
}

func (s *GRPCStore) SaveProfile(ctx context.Context, owner string, profile map[string]any) error {
	if err := checkScope("save profile", owner, common.CollectionUsers); err != nil {
		return err
	}
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	return common.NewRemoteError("save profile", common.CollectionUsers, mapError(s.client.SaveProfile(ctx, owner, profile)))
}

func (s *GRPCStore) Ping(ctx context.Context) error {
	ctx, cancel := s.callContext(ctx)
	defer cancel()
	return common.NewRemoteError("ping", "", mapError(s.client.Ping(ctx)))
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		if st.Message() == common.ErrTokenExpired.Error() {
			return common.ErrTokenExpired
		}
		return common.ErrUnauthorized
	case codes.PermissionDenied:
		return common.ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return common.ErrUnavailable
	case codes.NotFound:
		return common.ErrNotFound
	case codes.InvalidArgument:
		if st.Message() == common.ErrUnknownCollection.Error() {
			return common.ErrUnknownCollection
		}
		return fmt.Errorf("%w: %s", common.ErrInvalidDocument, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
