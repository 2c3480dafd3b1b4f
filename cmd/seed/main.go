package main

import (
	"context"
	"os"

	"github.com/oggyb/filmorate/internal/app"
	"github.com/oggyb/filmorate/internal/config"
	"github.com/oggyb/filmorate/internal/db"
	"github.com/oggyb/filmorate/internal/logger"
	"github.com/oggyb/filmorate/internal/service"
)

// seed wipes the relational store and fills it with demo data. Against the
// memory backend it only proves the seeding path works.
func main() {
	// Load configuration
	cfg := config.Load()
	logger.InitFromConfig(cfg)
	log := logger.L()

	ctx := context.Background()
	appCtx, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.Error("failed to init storage", "err", err)
		os.Exit(1)
	}
	defer appCtx.Close()

	if appCtx.DB != nil {
		if err := db.Reset(appCtx.DB); err != nil {
			log.Error("failed to reset db", "err", err)
			os.Exit(1)
		}
	}

	if err := service.SeedDemoData(ctx, service.New(appCtx), nil); err != nil {
		log.Error("failed to seed", "err", err)
		os.Exit(1)
	}

	log.Info("Seeding completed.")
}
