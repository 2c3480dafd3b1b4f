package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/oggyb/filmorate/internal/config"
	"github.com/oggyb/filmorate/internal/metrics"
	"github.com/oggyb/filmorate/internal/rpc"
)

// Registrar attaches one service implementation to a gRPC server.
// rpc.Registrar is the only one today.
type Registrar interface {
	Register(s *grpc.Server)
}

// NewGRPCServer builds a gRPC server with the standard interceptor chain and
// registers all provided services. m may be nil.
func NewGRPCServer(l *slog.Logger, m *metrics.Metrics, registrars ...Registrar) *grpc.Server {
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(rpc.Interceptors(l, m)...))

	// register all services
	for _, r := range registrars {
		r.Register(grpcServer)
	}

	// enable reflection for easier debugging with grpcurl
	reflection.Register(grpcServer)

	return grpcServer
}

// StartGRPCServer serves grpcServer on the configured address until ctx is
// done, then stops it gracefully.
func StartGRPCServer(ctx context.Context, cfg *config.Config, grpcServer *grpc.Server) error {
	addr := cfg.GRPCAddr()
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return ServeGRPC(ctx, grpcServer, lis)
}

// ServeGRPC serves on lis until ctx is done.
func ServeGRPC(ctx context.Context, grpcServer *grpc.Server, lis net.Listener) error {
	errCh := make(chan error, 1)
	go func() { errCh <- grpcServer.Serve(lis) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		grpcServer.GracefulStop()
		if err := <-errCh; err != nil && err != grpc.ErrServerStopped {
			return err
		}
		return nil
	}
}
