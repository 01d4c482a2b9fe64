// Package grpc serves the document store over gRPC with token
// authentication and per-call metrics.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/myday/internal/logging"
	"github.com/dmitrijs2005/myday/internal/metrics"
	"github.com/dmitrijs2005/myday/internal/rpc"
	"google.golang.org/grpc"
)

type Server struct {
	address   string
	handler   *handler
	logger    logging.Logger
	metrics   metrics.Recorder
	jwtSecret []byte
}

func NewServer(address string, l logging.Logger, store rpc.DocumentStoreServer, secretKey string, m metrics.Recorder) *Server {
	if l == nil {
		l = logging.Nop{}
	}
	if m == nil {
		m = metrics.Nop{}
	}
	l = l.With("module", "grpc_server")
	return &Server{
		address:   address,
		handler:   &handler{store: store, logger: l},
		logger:    l,
		metrics:   m,
		jwtSecret: []byte(secretKey),
	}
}

// NewGRPCServer builds a grpc.Server with the interceptor chain and the
// document store registered.
func (s *Server) NewGRPCServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.metricsInterceptor, s.accessTokenInterceptor))
	rpc.RegisterDocumentStoreServer(srv, s.handler)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.NewGRPCServer()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())
	if err := srv.Serve(lis); err != nil {
		return err
	}
	<-stopped
	return nil
}
