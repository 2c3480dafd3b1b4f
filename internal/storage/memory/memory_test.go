package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/filmorate/internal/storage"
	"github.com/oggyb/filmorate/internal/storage/memory"
	"github.com/oggyb/filmorate/internal/storage/storagetest"
)

func TestMemoryContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage {
		return memory.NewDefault().Storage()
	})
}

func TestIDsAreNeverReused(t *testing.T) {
	ctx := context.Background()
	s := memory.NewDefault().Storage()

	a, err := s.Films.Add(ctx, storagetest.NewFilm("a"))
	require.NoError(t, err)
	b, err := s.Films.Add(ctx, storagetest.NewFilm("b"))
	require.NoError(t, err)
	require.NoError(t, s.Films.Delete(ctx, b.ID))

	c, err := s.Films.Add(ctx, storagetest.NewFilm("c"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(3), c.ID)
}

func TestReturnedFilmsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := memory.NewDefault().Storage()

	f, err := s.Films.Add(ctx, storagetest.NewFilm("a", 1))
	require.NoError(t, err)
	f.Genres[0].Name = "mutated"
	f.Mpa.ID = 5

	got, _, err := s.Films.GetByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "Comedy", got.Genres[0].Name)
	assert.Equal(t, int64(1), got.Mpa.ID)
}

func TestConcurrentLikes(t *testing.T) {
	ctx := context.Background()
	s := memory.NewDefault().Storage()
	f, err := s.Films.Add(ctx, storagetest.NewFilm("a"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := int64(1); i <= 50; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_ = s.Films.Like(ctx, f.ID, userID)
			_, _ = s.Films.MostPopular(ctx, 1)
		}(i)
	}
	wg.Wait()

	got, _, err := s.Films.GetByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Len(t, got.Likes, 50)
}
