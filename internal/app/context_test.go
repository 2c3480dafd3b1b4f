package app_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/filmorate/internal/app"
	"github.com/oggyb/filmorate/internal/config"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestOpen_Memory(t *testing.T) {
	cfg := config.New()
	cfg.Storage.Backend = config.BackendMemory

	appCtx, err := app.Open(context.Background(), cfg, discard())
	require.NoError(t, err)
	defer appCtx.Close()

	genres, err := appCtx.Storage.Genres.FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, genres, 6)
	assert.Nil(t, appCtx.DB)
}

func TestOpen_SQLite(t *testing.T) {
	cfg := config.New()
	cfg.Storage.Backend = config.BackendSQL
	cfg.DB.Driver = "sqlite"
	cfg.DB.DSN = "file:app_open?mode=memory&cache=shared"

	appCtx, err := app.Open(context.Background(), cfg, discard())
	require.NoError(t, err)
	defer appCtx.Close()

	require.NotNil(t, appCtx.DB)
	ratings, err := appCtx.Storage.Mpa.FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, ratings, 5)
}

func TestOpen_Redis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := config.New()
	cfg.Storage.Backend = config.BackendRedis
	cfg.Redis.Addr = mr.Addr()

	appCtx, err := app.Open(context.Background(), cfg, discard())
	require.NoError(t, err)
	defer appCtx.Close()

	g, ok, err := appCtx.Storage.Genres.GetByID(context.Background(), 6)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Action", g.Name)
}

func TestOpen_UnknownBackend(t *testing.T) {
	cfg := config.New()
	cfg.Storage.Backend = "cassandra"

	_, err := app.Open(context.Background(), cfg, discard())
	assert.Error(t, err)
}
