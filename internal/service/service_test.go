package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/oggyb/filmorate/internal/app"
	"github.com/oggyb/filmorate/internal/config"
	"github.com/oggyb/filmorate/internal/db"
	svcErr "github.com/oggyb/filmorate/internal/errors"
	"github.com/oggyb/filmorate/internal/model"
	"github.com/oggyb/filmorate/internal/redisstore"
	"github.com/oggyb/filmorate/internal/repository"
	"github.com/oggyb/filmorate/internal/service"
	"github.com/oggyb/filmorate/internal/storage"
	"github.com/oggyb/filmorate/internal/storage/memory"
)

//
// Test helpers
//

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil)) // discard logs in tests
}

func sqliteStorage(t *testing.T) storage.Storage {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dbase, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		Logger:  gormlogger.Discard,
	})
	require.NoError(t, err)
	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(dbase))
	require.NoError(t, db.SeedCatalog(dbase))
	return repository.NewStorage(dbase)
}

func redisStorage(t *testing.T) storage.Storage {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	store := redisstore.New(redisstore.NewClient(cfg))
	require.NoError(t, store.SeedCatalog(context.Background(), model.DefaultGenres, model.DefaultMpaRatings))
	return store.Storage()
}

var backends = map[string]func(t *testing.T) storage.Storage{
	"memory": func(*testing.T) storage.Storage { return memory.NewDefault().Storage() },
	"sqlite": sqliteStorage,
	"redis":  redisStorage,
}

// forEachBackend runs fn once per storage backend with freshly wired services.
func forEachBackend(t *testing.T, fn func(t *testing.T, svcs *service.Services)) {
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			appCtx := app.New(open(t), discardLogger())
			fn(t, service.New(appCtx))
		})
	}
}

func validFilm(name string) model.Film {
	return model.Film{
		Name:        name,
		Description: "a film",
		ReleaseDate: model.NewDate(1999, 3, 31),
		Duration:    136,
		Mpa:         &model.Mpa{ID: 4},
		Genres:      []model.Genre{{ID: 6}, {ID: 4}},
	}
}

func validUser(login string) model.User {
	return model.User{
		Email:    login + "@mail.example",
		Login:    login,
		Birthday: model.NewDate(1988, 8, 8),
	}
}

func userIDs(users []model.User) []int64 {
	out := make([]int64, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}

func filmIDs(films []model.Film) []int64 {
	out := make([]int64, 0, len(films))
	for _, f := range films {
		out = append(out, f.ID)
	}
	return out
}

//
// Tests
//

func TestAddFilmReleaseDateFloor(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svcs *service.Services) {
		ctx := context.Background()

		onFloor := validFilm("first screening")
		onFloor.ReleaseDate = model.NewDate(1895, 12, 28)
		a, err := svcs.Films.Add(ctx, onFloor)
		require.NoError(t, err)
		b, err := svcs.Films.Add(ctx, validFilm("other"))
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)

		before := validFilm("too early")
		before.ReleaseDate = model.NewDate(1895, 12, 27)
		_, err = svcs.Films.Add(ctx, before)
		assert.True(t, svcErr.IsValidation(err), "got %v", err)

		all, err := svcs.Films.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})
}

func TestAddFilmValidation(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svcs *service.Services) {
		ctx := context.Background()
		cases := map[string]func(f *model.Film){
			"blank name":       func(f *model.Film) { f.Name = "   " },
			"long description": func(f *model.Film) { f.Description = strings.Repeat("x", 201) },
			"zero duration":    func(f *model.Film) { f.Duration = 0 },
			"no release date":  func(f *model.Film) { f.ReleaseDate = model.Date{} },
		}
		for name, mutate := range cases {
			f := validFilm("x")
			mutate(&f)
			_, err := svcs.Films.Add(ctx, f)
			assert.True(t, svcErr.IsValidation(err), "%s: got %v", name, err)
		}

		f := validFilm("x")
		f.Description = strings.Repeat("x", 200)
		_, err := svcs.Films.Add(ctx, f)
		assert.NoError(t, err)
	})
}

func TestAddFilmUnknownCatalogRefs(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svcs *service.Services) {
		ctx := context.Background()

		f := validFilm("x")
		f.Mpa = &model.Mpa{ID: 42}
		_, err := svcs.Films.Add(ctx, f)
		assert.True(t, svcErr.IsNotFound(err), "got %v", err)

		f = validFilm("x")
		f.Genres = append(f.Genres, model.Genre{ID: 99})
		_, err = svcs.Films.Add(ctx, f)
		assert.True(t, svcErr.IsNotFound(err), "got %v", err)
	})
}

func TestAddFilmResolvesCatalogNames(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svcs *service.Services) {
		f := validFilm("matrix")
		f.Likes = []int64{5, 6}
		created, err := svcs.Films.Add(context.Background(), f)
		require.NoError(t, err)

		assert.Equal(t, &model.Mpa{ID: 4, Name: "R"}, created.Mpa)
		assert.Equal(t, []model.Genre{{ID: 4, Name: "Thriller"}, {ID: 6, Name: "Action"}}, created.Genres)
		assert.Empty(t, created.Likes, "incoming likes are ignored")
	})
}

func TestUpdateFilm(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svcs *service.Services) {
		ctx := context.Background()

		noID := validFilm("x")
		_, err := svcs.Films.Update(ctx, noID)
		assert.True(t, svcErr.IsValidation(err), "got %v", err)

		missing := validFilm("x")
		missing.ID = 999
		_, err = svcs.Films.Update(ctx, missing)
		assert.True(t, svcErr.IsNotFound(err), "got %v", err)

		f, err := svcs.Films.Add(ctx, validFilm("x"))
		require.NoError(t, err)
		u, err := svcs.Users.Add(ctx, validUser("neo"))
		require.NoError(t, err)
		require.NoError(t, svcs.Films.Like(ctx, f.ID, u.ID))

		f.Name = "y"
		f.Genres = nil
		updated, err := svcs.Films.Update(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, "y", updated.Name)
		assert.Empty(t, updated.Genres)
		assert.Equal(t, []int64{u.ID}, updated.Likes)

		f.Duration = -1
		_, err = svcs.Films.Update(ctx, f)
		assert.True(t, svcErr.IsValidation(err), "got %v", err)
	})
}

func TestGetAndDeleteFilm(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svcs *service.Services) {
		ctx := context.Background()

		_, err := svcs.Films.GetByID(ctx, 1)
		assert.True(t, svcErr.IsNotFound(err), "got %v", err)

		f, err := svcs.Films.Add(ctx, validFilm("x"))
		require.NoError(t, err)
		got, err := svcs.Films.GetByID(ctx, f.ID)
		require.NoError(t, err)
		assert.Equal(t, f, got)

		require.NoError(t, svcs.Films.Delete(ctx, f.ID))
		err = svcs.Films.Delete(ctx, f.ID)
		assert.True(t, svcErr.IsNotFound(err), "got %v", err)
	})
}

func TestLikeUnlikeRoundTrip(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svcs *service.Services) {
		ctx := context.Background()
		f, err := svcs.Films.Add(ctx, validFilm("x"))
		require.NoError(t, err)
		u, err := svcs.Users.Add(ctx, validUser("u"))
		require.NoError(t, err)

		before, err := svcs.Films.GetByID(ctx, f.ID)
		require.NoError(t, err)
		require.NoError(t, svcs.Films.Like(ctx, f.ID, u.ID))
		require.NoError(t, svcs.Films.Unlike(ctx, f.ID, u.ID))
		after, err := svcs.Films.GetByID(ctx, f.ID)
		require.NoError(t, err)
		assert.Equal(t, before.Likes, after.Likes)

		err = svcs.Films.Like(ctx, f.ID, 404)
		assert.True(t, svcErr.IsNotFound(err), "got %v", err)
		err = svcs.Films.Unlike(ctx, 404, u.ID)
		assert.True(t, svcErr.IsNotFound(err), "got %v", err)
	})
}

func TestMostPopular(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svcs *service.Services) {
		ctx := context.Background()

		_, err := svcs.Films.MostPopular(ctx, 0)
		assert.True(t, svcErr.IsValidation(err), "got %v", err)
		_, err = svcs.Films.MostPopular(ctx, -3)
		assert.True(t, svcErr.IsValidation(err), "got %v", err)

		var films []model.Film
		for i := 0; i < 3; i++ {
			f, err := svcs.Films.Add(ctx, validFilm(fmt.Sprintf("f%d", i)))
			require.NoError(t, err)
			films = append(films, f)
		}
		var users []model.User
		for i := 0; i < 3; i++ {
			u, err := svcs.Users.Add(ctx, validUser(fmt.Sprintf("u%d", i)))
			require.NoError(t, err)
			users = append(users, u)
		}

		for _, u := range users {
			require.NoError(t, svcs.Films.Like(ctx, films[1].ID, u.ID))
		}
		top, err := svcs.Films.MostPopular(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []int64{films[1].ID}, filmIDs(top))

		top, err = svcs.Films.MostPopular(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, []int64{films[1].ID, films[0].ID, films[2].ID}, filmIDs(top))
	})
}

func TestAddUser(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svcs *service.Services) {
		ctx := context.Background()

		u := validUser("trinity")
		u.Friends = []int64{7}
		created, err := svcs.Users.Add(ctx, u)
		require.NoError(t, err)
		assert.Equal(t, "trinity", created.Name)
		assert.Empty(t, created.Friends)

		_, err = svcs.Users.Add(ctx, validUser("trinity"))
		assert.True(t, svcErr.IsValidation(err), "duplicate identity: got %v", err)

		// same email and login with another birthday is a different person
		other := validUser("trinity")
		other.Birthday = model.NewDate(1977, 7, 7)
		_, err = svcs.Users.Add(ctx, other)
		assert.NoError(t, err)

		cases := map[string]func(u *model.User){
			"blank email":      func(u *model.User) { u.Email = "" },
			"bad email":        func(u *model.User) { u.Email = "not-an-email" },
			"login with space": func(u *model.User) { u.Login = "the one" },
			"future birthday":  func(u *model.User) { u.Birthday = model.DateOf(time.Now().AddDate(1, 0, 0)) },
		}
		for name, mutate := range cases {
			bad := validUser("morpheus")
			mutate(&bad)
			_, err := svcs.Users.Add(ctx, bad)
			assert.True(t, svcErr.IsValidation(err), "%s: got %v", name, err)
		}
	})
}

func TestUpdateUser(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svcs *service.Services) {
		ctx := context.Background()

		_, err := svcs.Users.Update(ctx, validUser("x"))
		assert.True(t, svcErr.IsValidation(err), "got %v", err)

		ghost := validUser("ghost")
		ghost.ID = 404
		_, err = svcs.Users.Update(ctx, ghost)
		assert.True(t, svcErr.IsNotFound(err), "got %v", err)

		a, err := svcs.Users.Add(ctx, validUser("a"))
		require.NoError(t, err)
		b, err := svcs.Users.Add(ctx, validUser("b"))
		require.NoError(t, err)

		// updating a user to its own identity is fine
		a.Name = "Alice"
		updated, err := svcs.Users.Update(ctx, a)
		require.NoError(t, err)
		assert.Equal(t, "Alice", updated.Name)

		clash := b
		clash.Email, clash.Login, clash.Birthday = a.Email, a.Login, a.Birthday
		_, err = svcs.Users.Update(ctx, clash)
		assert.True(t, svcErr.IsValidation(err), "got %v", err)
	})
}

func TestFriendship(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svcs *service.Services) {
		ctx := context.Background()
		var users []model.User
		for _, login := range []string{"a", "b", "c", "d"} {
			u, err := svcs.Users.Add(ctx, validUser(login))
			require.NoError(t, err)
			users = append(users, u)
		}
		a, b, c, d := users[0], users[1], users[2], users[3]

		require.NoError(t, svcs.Users.AddFriend(ctx, a.ID, b.ID))
		require.NoError(t, svcs.Users.AddFriend(ctx, a.ID, d.ID))
		require.NoError(t, svcs.Users.AddFriend(ctx, c.ID, d.ID))

		friends, err := svcs.Users.Friends(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, []int64{b.ID, d.ID}, userIDs(friends))

		// friendship is written in both directions
		friends, err = svcs.Users.Friends(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, []int64{a.ID}, userIDs(friends))

		common, err := svcs.Users.CommonFriends(ctx, a.ID, c.ID)
		require.NoError(t, err)
		assert.Equal(t, []int64{d.ID}, userIDs(common))

		require.NoError(t, svcs.Users.DeleteFriend(ctx, a.ID, b.ID))
		friends, err = svcs.Users.Friends(ctx, a.ID)
		require.NoError(t, err)
		assert.NotContains(t, userIDs(friends), b.ID)
		friends, err = svcs.Users.Friends(ctx, b.ID)
		require.NoError(t, err)
		assert.Empty(t, friends)

		err = svcs.Users.AddFriend(ctx, a.ID, a.ID)
		assert.True(t, svcErr.IsValidation(err), "got %v", err)
		err = svcs.Users.AddFriend(ctx, a.ID, 404)
		assert.True(t, svcErr.IsNotFound(err), "got %v", err)
		_, err = svcs.Users.Friends(ctx, 404)
		assert.True(t, svcErr.IsNotFound(err), "got %v", err)
		_, err = svcs.Users.CommonFriends(ctx, a.ID, 404)
		assert.True(t, svcErr.IsNotFound(err), "got %v", err)
	})
}

func TestDeleteUserCascades(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svcs *service.Services) {
		ctx := context.Background()
		a, err := svcs.Users.Add(ctx, validUser("a"))
		require.NoError(t, err)
		b, err := svcs.Users.Add(ctx, validUser("b"))
		require.NoError(t, err)
		f, err := svcs.Films.Add(ctx, validFilm("x"))
		require.NoError(t, err)

		require.NoError(t, svcs.Users.AddFriend(ctx, a.ID, b.ID))
		require.NoError(t, svcs.Films.Like(ctx, f.ID, b.ID))
		require.NoError(t, svcs.Users.Delete(ctx, b.ID))

		friends, err := svcs.Users.Friends(ctx, a.ID)
		require.NoError(t, err)
		assert.Empty(t, friends)
		got, err := svcs.Films.GetByID(ctx, f.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Likes)

		err = svcs.Users.Delete(ctx, b.ID)
		assert.True(t, svcErr.IsNotFound(err), "got %v", err)
	})
}

func TestCatalog(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svcs *service.Services) {
		ctx := context.Background()

		genres, err := svcs.Catalog.Genres(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.DefaultGenres, genres)

		m, err := svcs.Catalog.Mpa(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, "PG-13", m.Name)

		_, err = svcs.Catalog.Genre(ctx, 7)
		assert.True(t, svcErr.IsNotFound(err), "got %v", err)
		_, err = svcs.Catalog.Mpa(ctx, 6)
		assert.True(t, svcErr.IsNotFound(err), "got %v", err)
	})
}

func TestSeedDemoData(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svcs *service.Services) {
		ctx := context.Background()
		require.NoError(t, service.SeedDemoData(ctx, svcs, rand.New(rand.NewSource(1))))

		users, err := svcs.Users.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 20)
		films, err := svcs.Films.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, films, 12)

		friends, err := svcs.Users.Friends(ctx, users[0].ID)
		require.NoError(t, err)
		assert.Equal(t, []int64{users[1].ID, users[2].ID}, userIDs(friends))
	})
}

// faultyFilms fails every read so fault propagation can be checked.
type faultyFilms struct {
	storage.FilmStorage
	err error
}

func (f faultyFilms) GetByID(context.Context, int64) (model.Film, bool, error) {
	return model.Film{}, false, f.err
}

func (f faultyFilms) FindAll(context.Context) ([]model.Film, error) { return nil, f.err }

func TestStorageFaultsAreUnclassified(t *testing.T) {
	errDisk := errors.New("disk on fire")
	store := memory.NewDefault().Storage()
	store.Films = faultyFilms{FilmStorage: store.Films, err: errDisk}
	svcs := service.New(app.New(store, discardLogger()))

	_, err := svcs.Films.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, errDisk)
	assert.False(t, svcErr.IsNotFound(err))
	assert.False(t, svcErr.IsValidation(err))

	_, err = svcs.Films.FindAll(context.Background())
	assert.ErrorIs(t, err, errDisk)
}
