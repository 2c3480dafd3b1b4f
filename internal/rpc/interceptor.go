package rpc

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/oggyb/filmorate/internal/logger"
	"github.com/oggyb/filmorate/internal/metrics"
)

// RequestIDKey is the metadata key carrying the request id.
const RequestIDKey = "x-request-id"

// RequestIDInterceptor reuses the caller's x-request-id or mints one, sends it
// back as a header and stores a request-scoped logger in the context.
func RequestIDInterceptor(base *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		id := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if vals := md.Get(RequestIDKey); len(vals) > 0 {
				id = vals[0]
			}
		}
		if id == "" {
			id = uuid.NewString()
		}
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDKey, id))

		l := logger.FromContext(ctx, base).With("request_id", id)
		return handler(logger.NewContext(ctx, l), req)
	}
}

// LoggingInterceptor logs every call with its status code and duration.
func LoggingInterceptor(base *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		l := logger.FromContext(ctx, base)
		code := status.Code(err)
		attrs := []any{"method", info.FullMethod, "code", code.String(), "duration", time.Since(start)}
		switch code {
		case codes.OK:
			l.Info("grpc request", attrs...)
		case codes.Internal, codes.Unknown, codes.Unavailable:
			l.Error("grpc request", append(attrs, "err", err)...)
		default:
			l.Warn("grpc request", append(attrs, "err", err)...)
		}
		return resp, err
	}
}

// MetricsInterceptor records call counts and latencies per method.
func MetricsInterceptor(m *metrics.Metrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		m.RecordGRPCRequest(info.FullMethod, status.Code(err).String(), time.Since(start))
		return resp, err
	}
}

// Interceptors returns the standard chain, outermost first. m may be nil.
func Interceptors(l *slog.Logger, m *metrics.Metrics) []grpc.UnaryServerInterceptor {
	chain := []grpc.UnaryServerInterceptor{RequestIDInterceptor(l), LoggingInterceptor(l)}
	if m != nil {
		chain = append(chain, MetricsInterceptor(m))
	}
	return chain
}
