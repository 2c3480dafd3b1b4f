package redisstore_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/filmorate/internal/config"
	"github.com/oggyb/filmorate/internal/model"
	"github.com/oggyb/filmorate/internal/redisstore"
	"github.com/oggyb/filmorate/internal/storage"
	"github.com/oggyb/filmorate/internal/storage/storagetest"
)

// setupStore starts a miniredis, wires a client from config and seeds the catalogs.
func setupStore(t *testing.T) (*redisstore.Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	cfg.Redis.Password = ""
	cfg.Redis.DB = 0

	client := redisstore.NewClient(cfg)
	t.Cleanup(func() { _ = client.Close() })

	store := redisstore.New(client)
	require.NoError(t, store.Ping(context.Background()))
	require.NoError(t, store.SeedCatalog(context.Background(), model.DefaultGenres, model.DefaultMpaRatings))
	return store, mr
}

func TestRedisContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage {
		store, _ := setupStore(t)
		return store.Storage()
	})
}

func TestSeedCatalogKeepsExistingNames(t *testing.T) {
	ctx := context.Background()
	store, mr := setupStore(t)
	mr.HSet("catalog:genres", "1", "Slapstick")

	require.NoError(t, store.SeedCatalog(ctx, model.DefaultGenres, model.DefaultMpaRatings))

	g, ok, err := store.Storage().Genres.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Slapstick", g.Name)
}

func TestPopularityScoreTracksLikes(t *testing.T) {
	ctx := context.Background()
	store, mr := setupStore(t)
	s := store.Storage()

	f, err := s.Films.Add(ctx, storagetest.NewFilm("scored"))
	require.NoError(t, err)
	u, err := s.Users.Add(ctx, storagetest.NewUser("fan"))
	require.NoError(t, err)

	require.NoError(t, s.Films.Like(ctx, f.ID, u.ID))
	require.NoError(t, s.Films.Like(ctx, f.ID, u.ID))
	score, err := mr.ZScore("films:popularity", "1")
	require.NoError(t, err)
	assert.Equal(t, float64(1), score)

	// deleting the liker withdraws the like and its weight
	require.NoError(t, s.Users.Delete(ctx, u.ID))
	score, err = mr.ZScore("films:popularity", "1")
	require.NoError(t, err)
	assert.Equal(t, float64(0), score)
}

func TestLikeOnMissingFilmIsIgnored(t *testing.T) {
	ctx := context.Background()
	store, mr := setupStore(t)

	require.NoError(t, store.Storage().Films.Like(ctx, 77, 1))
	assert.False(t, mr.Exists("film:77:likes"))
	members, _ := mr.ZMembers("films:popularity")
	assert.Empty(t, members)
}

func TestMostPopularTieAtCutoff(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStore(t)
	s := store.Storage()

	var ids []int64
	for i := 0; i < 4; i++ {
		f, err := s.Films.Add(ctx, storagetest.NewFilm("tie"))
		require.NoError(t, err)
		ids = append(ids, f.ID)
	}
	u, err := s.Users.Add(ctx, storagetest.NewUser("fan"))
	require.NoError(t, err)
	require.NoError(t, s.Films.Like(ctx, ids[3], u.ID))

	// three films tie at zero likes behind ids[3]; the lowest ids win the cut
	top, err := s.Films.MostPopular(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, ids[3], top[0].ID)
	assert.Equal(t, ids[0], top[1].ID)
	assert.Equal(t, ids[1], top[2].ID)
}

func TestEngineFaultPropagates(t *testing.T) {
	ctx := context.Background()
	store, mr := setupStore(t)
	mr.SetError("READONLY injected failure")

	_, err := store.Storage().Films.FindAll(ctx)
	assert.Error(t, err)
	_, _, err = store.Storage().Users.GetByID(ctx, 1)
	assert.Error(t, err)
}
