// Package storagetest is the behavioural contract every storage backend must
// satisfy. Backend packages call Run from their own tests with a factory that
// returns a fresh, catalog-seeded, otherwise empty storage.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/filmorate/internal/model"
	"github.com/oggyb/filmorate/internal/storage"
)

// Factory returns an isolated storage for one subtest.
type Factory func(t *testing.T) storage.Storage

// Run executes the whole contract against the backend produced by newStorage.
func Run(t *testing.T, newStorage Factory) {
	t.Run("FilmAddAssignsIDsAndDefaults", func(t *testing.T) { testFilmAdd(t, newStorage(t)) })
	t.Run("FilmUpdateKeepsLikes", func(t *testing.T) { testFilmUpdate(t, newStorage(t)) })
	t.Run("FilmUpdateMissing", func(t *testing.T) { testFilmUpdateMissing(t, newStorage(t)) })
	t.Run("FilmFindAllOrderedByID", func(t *testing.T) { testFilmFindAll(t, newStorage(t)) })
	t.Run("FilmDeleteIdempotent", func(t *testing.T) { testFilmDelete(t, newStorage(t)) })
	t.Run("LikeRoundTrip", func(t *testing.T) { testLikeRoundTrip(t, newStorage(t)) })
	t.Run("MostPopular", func(t *testing.T) { testMostPopular(t, newStorage(t)) })
	t.Run("MostPopularScenario", func(t *testing.T) { testMostPopularScenario(t, newStorage(t)) })
	t.Run("UserAddAndUpdate", func(t *testing.T) { testUserAddUpdate(t, newStorage(t)) })
	t.Run("UserDeleteCascades", func(t *testing.T) { testUserDelete(t, newStorage(t)) })
	t.Run("Friends", func(t *testing.T) { testFriends(t, newStorage(t)) })
	t.Run("CommonFriends", func(t *testing.T) { testCommonFriends(t, newStorage(t)) })
	t.Run("Catalog", func(t *testing.T) { testCatalog(t, newStorage(t)) })
}

// NewFilm returns a valid film referencing catalog entries 1 (mpa) and the given genres.
func NewFilm(name string, genres ...int64) model.Film {
	f := model.Film{
		Name:        name,
		Description: name + " description",
		ReleaseDate: model.NewDate(1991, 1, 1),
		Duration:    100,
		Mpa:         &model.Mpa{ID: 1},
	}
	for _, g := range genres {
		f.Genres = append(f.Genres, model.Genre{ID: g})
	}
	return f
}

// NewUser returns a valid user whose email and login derive from login.
func NewUser(login string) model.User {
	return model.User{
		Email:    login + "@example.com",
		Login:    login,
		Name:     "",
		Birthday: model.NewDate(1990, 1, 1),
	}
}

func filmIDs(films []model.Film) []int64 {
	out := make([]int64, 0, len(films))
	for _, f := range films {
		out = append(out, f.ID)
	}
	return out
}

func userIDs(users []model.User) []int64 {
	out := make([]int64, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}

func addFilms(t *testing.T, s storage.Storage, n int) []model.Film {
	t.Helper()
	out := make([]model.Film, 0, n)
	for i := 0; i < n; i++ {
		f, err := s.Films.Add(context.Background(), NewFilm("film"))
		require.NoError(t, err)
		out = append(out, f)
	}
	return out
}

func addUsers(t *testing.T, s storage.Storage, logins ...string) []model.User {
	t.Helper()
	out := make([]model.User, 0, len(logins))
	for _, l := range logins {
		u, err := s.Users.Add(context.Background(), NewUser(l))
		require.NoError(t, err)
		out = append(out, u)
	}
	return out
}

func testFilmAdd(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	first, err := s.Films.Add(ctx, NewFilm("first", 2, 1, 2))
	require.NoError(t, err)
	second, err := s.Films.Add(ctx, model.Film{
		Name: "second", ReleaseDate: model.NewDate(2000, 2, 29), Duration: 90,
	})
	require.NoError(t, err)

	assert.Positive(t, first.ID)
	assert.Greater(t, second.ID, first.ID)

	assert.Equal(t, []model.Genre{{ID: 1, Name: "Comedy"}, {ID: 2, Name: "Drama"}}, first.Genres)
	require.NotNil(t, first.Mpa)
	assert.Equal(t, model.Mpa{ID: 1, Name: "G"}, *first.Mpa)
	assert.Equal(t, []int64{}, first.Likes)

	assert.Equal(t, []model.Genre{}, second.Genres)
	assert.Nil(t, second.Mpa)

	got, ok, err := s.Films.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first, got)
	assert.True(t, got.ReleaseDate.Equal(model.NewDate(1991, 1, 1).Time))

	got, ok, err = s.Films.GetByID(ctx, second.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second, got)

	_, ok, err = s.Films.GetByID(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func testFilmUpdate(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	films := addFilms(t, s, 1)
	users := addUsers(t, s, "alice")
	f := films[0]
	require.NoError(t, s.Films.Like(ctx, f.ID, users[0].ID))

	f.Name = "renamed"
	f.Description = "new"
	f.Duration = 200
	f.ReleaseDate = model.NewDate(2001, 9, 11)
	f.Mpa = &model.Mpa{ID: 3}
	f.Genres = []model.Genre{{ID: 6}}
	f.Likes = nil

	updated, err := s.Films.Update(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, films[0].ID, updated.ID)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, []int64{users[0].ID}, updated.Likes)
	assert.Equal(t, []model.Genre{{ID: 6, Name: "Action"}}, updated.Genres)
	assert.Equal(t, &model.Mpa{ID: 3, Name: "PG-13"}, updated.Mpa)

	got, _, err := s.Films.GetByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	// clearing the rating
	f.Mpa = nil
	updated, err = s.Films.Update(ctx, f)
	require.NoError(t, err)
	assert.Nil(t, updated.Mpa)
}

func testFilmUpdateMissing(t *testing.T, s storage.Storage) {
	f := NewFilm("ghost")
	f.ID = 404
	_, err := s.Films.Update(context.Background(), f)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testFilmFindAll(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	all, err := s.Films.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	films := addFilms(t, s, 3)
	all, err = s.Films.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, filmIDs(films), filmIDs(all))
}

func testFilmDelete(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	films := addFilms(t, s, 2)
	users := addUsers(t, s, "alice")
	require.NoError(t, s.Films.Like(ctx, films[0].ID, users[0].ID))

	require.NoError(t, s.Films.Delete(ctx, films[0].ID))
	require.NoError(t, s.Films.Delete(ctx, films[0].ID))
	require.NoError(t, s.Films.Delete(ctx, 9999))

	_, ok, err := s.Films.GetByID(ctx, films[0].ID)
	require.NoError(t, err)
	assert.False(t, ok)

	top, err := s.Films.MostPopular(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{films[1].ID}, filmIDs(top))
}

func testLikeRoundTrip(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	f := addFilms(t, s, 1)[0]
	users := addUsers(t, s, "alice", "bob")

	require.NoError(t, s.Films.Like(ctx, f.ID, users[0].ID))
	before, _, err := s.Films.GetByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{users[0].ID}, before.Likes)

	require.NoError(t, s.Films.Like(ctx, f.ID, users[1].ID))
	require.NoError(t, s.Films.Unlike(ctx, f.ID, users[1].ID))
	after, _, err := s.Films.GetByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Likes, after.Likes)

	// repeated like and unlike of an absent edge are no-ops
	require.NoError(t, s.Films.Like(ctx, f.ID, users[0].ID))
	require.NoError(t, s.Films.Unlike(ctx, f.ID, users[1].ID))
	after, _, err = s.Films.GetByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{users[0].ID}, after.Likes)

	top, err := s.Films.MostPopular(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Len(t, top[0].Likes, 1, "duplicate like must not add weight")
}

func testMostPopular(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	films := addFilms(t, s, 4)
	users := addUsers(t, s, "u1", "u2", "u3")

	// films[2] gets three likes, films[0] and films[3] one each, films[1] none
	for _, u := range users {
		require.NoError(t, s.Films.Like(ctx, films[2].ID, u.ID))
	}
	require.NoError(t, s.Films.Like(ctx, films[3].ID, users[0].ID))
	require.NoError(t, s.Films.Like(ctx, films[0].ID, users[1].ID))

	top, err := s.Films.MostPopular(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{films[2].ID}, filmIDs(top))

	top, err = s.Films.MostPopular(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{films[2].ID, films[0].ID, films[3].ID}, filmIDs(top))

	top, err = s.Films.MostPopular(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{films[2].ID, films[0].ID, films[3].ID, films[1].ID}, filmIDs(top))
	assert.Len(t, top[0].Likes, 3)
	assert.Equal(t, []model.Genre{}, top[3].Genres)
}

func testMostPopularScenario(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	films := addFilms(t, s, 2)
	users := addUsers(t, s, "u10", "u11")

	require.NoError(t, s.Films.Like(ctx, films[0].ID, users[0].ID))
	require.NoError(t, s.Films.Like(ctx, films[0].ID, users[1].ID))
	require.NoError(t, s.Films.Like(ctx, films[1].ID, users[0].ID))

	top, err := s.Films.MostPopular(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{films[0].ID, films[1].ID}, filmIDs(top))
}

func testUserAddUpdate(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	u, err := s.Users.Add(ctx, NewUser("alice"))
	require.NoError(t, err)
	assert.Positive(t, u.ID)
	assert.Equal(t, "alice", u.Name, "blank name falls back to login")
	assert.Equal(t, []int64{}, u.Friends)

	friend := addUsers(t, s, "bob")[0]
	require.NoError(t, s.Users.AddFriend(ctx, u.ID, friend.ID))

	u.Email = "alice@films.example"
	u.Name = "Alice"
	u.Friends = nil
	updated, err := s.Users.Update(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, "alice@films.example", updated.Email)
	assert.Equal(t, "Alice", updated.Name)
	assert.Equal(t, []int64{friend.ID}, updated.Friends, "update must not touch friend edges")

	got, ok, err := s.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, updated, got)

	ghost := NewUser("ghost")
	ghost.ID = 404
	_, err = s.Users.Update(ctx, ghost)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, ok, err = s.Users.GetByID(ctx, 404)
	require.NoError(t, err)
	assert.False(t, ok)

	all, err := s.Users.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{u.ID, friend.ID}, userIDs(all))
}

func testUserDelete(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	users := addUsers(t, s, "a", "b", "c")
	f := addFilms(t, s, 1)[0]
	a, b, c := users[0], users[1], users[2]

	require.NoError(t, s.Users.AddFriend(ctx, a.ID, b.ID))
	require.NoError(t, s.Users.AddFriend(ctx, b.ID, a.ID))
	require.NoError(t, s.Users.AddFriend(ctx, c.ID, b.ID))
	require.NoError(t, s.Films.Like(ctx, f.ID, b.ID))
	require.NoError(t, s.Films.Like(ctx, f.ID, c.ID))

	require.NoError(t, s.Users.Delete(ctx, b.ID))
	require.NoError(t, s.Users.Delete(ctx, b.ID))

	_, ok, err := s.Users.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	friends, err := s.Users.Friends(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, friends)
	friends, err = s.Users.Friends(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, friends, "edges to a deleted user are never resolved")

	got, _, err := s.Films.GetByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{c.ID}, got.Likes)
}

func testFriends(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	users := addUsers(t, s, "a", "b", "c")
	a, b, c := users[0], users[1], users[2]

	require.NoError(t, s.Users.AddFriend(ctx, a.ID, c.ID))
	require.NoError(t, s.Users.AddFriend(ctx, a.ID, b.ID))
	require.NoError(t, s.Users.AddFriend(ctx, a.ID, b.ID))

	friends, err := s.Users.Friends(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID, c.ID}, userIDs(friends))

	// edges are one-directional at this layer
	friends, err = s.Users.Friends(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, friends)

	require.NoError(t, s.Users.DeleteFriend(ctx, a.ID, b.ID))
	require.NoError(t, s.Users.DeleteFriend(ctx, a.ID, b.ID))
	friends, err = s.Users.Friends(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{c.ID}, userIDs(friends))

	got, _, err := s.Users.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{c.ID}, got.Friends)
}

func testCommonFriends(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	users := addUsers(t, s, "a", "b", "c", "d", "e")
	a, b, c, d, e := users[0], users[1], users[2], users[3], users[4]

	for _, id := range []int64{b.ID, c.ID, d.ID} {
		require.NoError(t, s.Users.AddFriend(ctx, a.ID, id))
	}
	for _, id := range []int64{d.ID, c.ID} {
		require.NoError(t, s.Users.AddFriend(ctx, e.ID, id))
	}

	common, err := s.Users.CommonFriends(ctx, a.ID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{c.ID, d.ID}, userIDs(common))

	common, err = s.Users.CommonFriends(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Empty(t, common)
}

func testCatalog(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	genres, err := s.Genres.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultGenres, genres)

	g, ok, err := s.Genres.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Drama", g.Name)

	_, ok, err = s.Genres.GetByID(ctx, 99)
	require.NoError(t, err)
	assert.False(t, ok)

	ratings, err := s.Mpa.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultMpaRatings, ratings)

	m, ok, err := s.Mpa.GetByID(ctx, 5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "NC-17", m.Name)

	_, ok, err = s.Mpa.GetByID(ctx, 0)
	require.NoError(t, err)
	assert.False(t, ok)
}
