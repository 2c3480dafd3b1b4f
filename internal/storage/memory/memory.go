// Package memory is a process-local storage backend. All four catalogs live in
// one Store guarded by a single RWMutex; callers only ever receive copies.
package memory

import (
	"maps"
	"slices"
	"sync"

	"github.com/oggyb/filmorate/internal/model"
	"github.com/oggyb/filmorate/internal/storage"
)

type filmRecord struct {
	film  model.Film // relations are kept in the fields below
	mpa   *int64
	genre []int64
	likes map[int64]struct{}
}

func newFilmRecord(film model.Film) *filmRecord {
	rec := &filmRecord{likes: make(map[int64]struct{})}
	rec.set(film)
	return rec
}

// set replaces the mutable fields, keeping likes.
func (r *filmRecord) set(film model.Film) {
	film.ApplyDefaults()
	r.mpa = film.MpaID()
	r.genre = film.GenreIDs()
	film.Mpa, film.Genres, film.Likes = nil, nil, nil
	r.film = film
}

type userRecord struct {
	user    model.User
	friends map[int64]struct{}
}

// Store owns every in-memory record.
type Store struct {
	mu sync.RWMutex

	nextFilmID int64
	nextUserID int64

	films  map[int64]*filmRecord
	users  map[int64]*userRecord
	genres map[int64]model.Genre
	mpa    map[int64]model.Mpa
}

// New creates an empty store seeded with the given catalogs.
func New(genres []model.Genre, ratings []model.Mpa) *Store {
	s := &Store{
		nextFilmID: 1,
		nextUserID: 1,
		films:      make(map[int64]*filmRecord),
		users:      make(map[int64]*userRecord),
		genres:     make(map[int64]model.Genre, len(genres)),
		mpa:        make(map[int64]model.Mpa, len(ratings)),
	}
	for _, g := range genres {
		s.genres[g.ID] = g
	}
	for _, m := range ratings {
		s.mpa[m.ID] = m
	}
	return s
}

// NewDefault creates an empty store with the default catalogs.
func NewDefault() *Store {
	return New(model.DefaultGenres, model.DefaultMpaRatings)
}

// Storage exposes the store through the backend-neutral interfaces.
func (s *Store) Storage() storage.Storage {
	return storage.Storage{
		Films:  (*filmStore)(s),
		Users:  (*userStore)(s),
		Genres: (*genreStore)(s),
		Mpa:    (*mpaStore)(s),
	}
}

func sortedKeys(set map[int64]struct{}) []int64 {
	keys := slices.Sorted(maps.Keys(set))
	if keys == nil {
		keys = []int64{}
	}
	return keys
}

// viewFilmLocked builds the public projection of a film record, resolving
// catalog names. Caller holds s.mu.
func (s *Store) viewFilmLocked(rec *filmRecord) model.Film {
	f := rec.film
	if rec.mpa != nil {
		m, ok := s.mpa[*rec.mpa]
		if !ok {
			m = model.Mpa{ID: *rec.mpa}
		}
		f.Mpa = &m
	}
	f.Genres = make([]model.Genre, 0, len(rec.genre))
	for _, id := range rec.genre {
		g, ok := s.genres[id]
		if !ok {
			g = model.Genre{ID: id}
		}
		f.Genres = append(f.Genres, g)
	}
	f.Likes = sortedKeys(rec.likes)
	return f
}

func (s *Store) viewUserLocked(rec *userRecord) model.User {
	u := rec.user
	u.Friends = sortedKeys(rec.friends)
	return u
}

func (s *Store) sortedFilmIDsLocked() []int64 {
	return slices.Sorted(maps.Keys(s.films))
}

func (s *Store) sortedUserIDsLocked() []int64 {
	return slices.Sorted(maps.Keys(s.users))
}
