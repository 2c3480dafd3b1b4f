package rpc

import (
	"log/slog"

	"google.golang.org/grpc"

	"github.com/oggyb/filmorate/internal/service"
)

// Registrar ties the Filmorate service into the gRPC server
type Registrar struct {
	svcs   *service.Services
	logger *slog.Logger
}

// NewRegistrar creates a new Registrar for the Filmorate service
func NewRegistrar(svcs *service.Services, l *slog.Logger) *Registrar {
	return &Registrar{svcs: svcs, logger: l}
}

// Register attaches the Filmorate service implementation to the gRPC server
func (r *Registrar) Register(s *grpc.Server) {
	s.RegisterService(&ServiceDesc, NewService(r.svcs, r.logger))
}
