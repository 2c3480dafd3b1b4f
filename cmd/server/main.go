package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/oggyb/filmorate/internal/api"
	"github.com/oggyb/filmorate/internal/app"
	"github.com/oggyb/filmorate/internal/config"
	"github.com/oggyb/filmorate/internal/logger"
	"github.com/oggyb/filmorate/internal/metrics"
	"github.com/oggyb/filmorate/internal/rpc"
	"github.com/oggyb/filmorate/internal/server"
	"github.com/oggyb/filmorate/internal/service"
)

func main() {
	cfg := config.Load()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L() // slog.Logger pointer

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init storage backend
	appCtx, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.Error("failed to init storage", "backend", cfg.Storage.Backend, "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := appCtx.Close(); err != nil {
			log.Error("failed to close storage", "err", err)
		}
	}()

	m := metrics.New()
	m.SetBackend(cfg.Storage.Backend)

	svcs := service.New(appCtx)

	if cfg.IsDevelopment() {
		if err := service.SeedDemoData(ctx, svcs, nil); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	grpcServer := server.NewGRPCServer(log, m, rpc.NewRegistrar(svcs, log))
	httpServer := server.NewHTTPServer(cfg, api.NewRouter(svcs, log, m))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting gRPC server", "addr", cfg.GRPCAddr())
		return server.StartGRPCServer(gctx, cfg, grpcServer)
	})
	g.Go(func() error {
		log.Info("starting HTTP server", "addr", httpServer.Addr)
		return server.StartHTTPServer(gctx, httpServer)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped", "err", err)
		return
	}
	log.Info("shutdown complete")
}
