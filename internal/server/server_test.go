package server

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/oggyb/filmorate/internal/config"
	"github.com/oggyb/filmorate/internal/metrics"
)

type recordingRegistrar struct{ called bool }

func (r *recordingRegistrar) Register(*grpc.Server) { r.called = true }

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestNewGRPCServerRegistersServices(t *testing.T) {
	reg := &recordingRegistrar{}
	srv := NewGRPCServer(discard(), metrics.New(), reg)
	defer srv.Stop()

	assert.True(t, reg.called)
	_, ok := srv.GetServiceInfo()["grpc.reflection.v1.ServerReflection"]
	assert.True(t, ok, "reflection should be registered")
}

func TestServeGRPCStopsOnCancel(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewGRPCServer(discard(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ServeGRPC(ctx, srv, lis) }()

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()
	conn.Connect()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("grpc server did not stop")
	}
}

func TestStartGRPCServerBadAddress(t *testing.T) {
	cfg := config.New()
	cfg.GRPC.Host = "127.0.0.1"
	cfg.GRPC.Port = "-1"
	err := StartGRPCServer(context.Background(), cfg, NewGRPCServer(discard(), nil))
	assert.Error(t, err)
}

func TestServeHTTPShutsDown(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	cfg := config.New()
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	srv := NewHTTPServer(cfg, mux)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ServeHTTP(ctx, srv, lis) }()

	resp, err := http.Get("http://" + lis.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("http server did not stop")
	}
}
