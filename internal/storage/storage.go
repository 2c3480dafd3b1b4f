// Package storage defines the persistence contract shared by every backend.
//
// Absence is never an error at this layer: GetByID reports it through its
// boolean result. Update of a missing id returns ErrNotFound. Every other
// error is an engine fault.
package storage

import (
	"context"
	"errors"

	"github.com/oggyb/filmorate/internal/model"
)

// ErrNotFound is returned by Update when no record matches the given id.
var ErrNotFound = errors.New("storage: record not found")

// FilmStorage persists films and their like edges.
type FilmStorage interface {
	// Add assigns a fresh id and returns the stored projection.
	Add(ctx context.Context, film model.Film) (model.Film, error)
	// Update replaces the mutable fields. Id and likes are kept.
	Update(ctx context.Context, film model.Film) (model.Film, error)
	// FindAll returns every film ordered by id.
	FindAll(ctx context.Context) ([]model.Film, error)
	GetByID(ctx context.Context, id int64) (model.Film, bool, error)
	// Delete removes the film with its likes and genre links. Missing ids are ignored.
	Delete(ctx context.Context, id int64) error

	// Like is idempotent: a repeated (film, user) pair is a no-op.
	Like(ctx context.Context, filmID, userID int64) error
	Unlike(ctx context.Context, filmID, userID int64) error
	// MostPopular returns up to n films by distinct liker count desc, id asc.
	// n must be positive; callers validate it.
	MostPopular(ctx context.Context, n int) ([]model.Film, error)
}

// UserStorage persists users and their one-directional friend edges.
type UserStorage interface {
	Add(ctx context.Context, user model.User) (model.User, error)
	Update(ctx context.Context, user model.User) (model.User, error)
	// FindAll returns every user ordered by id.
	FindAll(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id int64) (model.User, bool, error)
	// Delete removes the user with its likes and friend edges. Missing ids are ignored.
	Delete(ctx context.Context, id int64) error

	// AddFriend inserts the edge id -> friendID. Repeats are no-ops.
	AddFriend(ctx context.Context, id, friendID int64) error
	DeleteFriend(ctx context.Context, id, friendID int64) error
	// Friends resolves outgoing edges of id, ordered by id. Edges whose target
	// no longer exists are skipped.
	Friends(ctx context.Context, id int64) ([]model.User, error)
	// CommonFriends resolves the intersection of both friend sets, ordered by id.
	CommonFriends(ctx context.Context, id, otherID int64) ([]model.User, error)
}

// GenreStorage reads the fixed genre catalog.
type GenreStorage interface {
	FindAll(ctx context.Context) ([]model.Genre, error)
	GetByID(ctx context.Context, id int64) (model.Genre, bool, error)
}

// MpaStorage reads the fixed MPA rating catalog.
type MpaStorage interface {
	FindAll(ctx context.Context) ([]model.Mpa, error)
	GetByID(ctx context.Context, id int64) (model.Mpa, bool, error)
}

// Storage bundles one backend's implementations.
type Storage struct {
	Films  FilmStorage
	Users  UserStorage
	Genres GenreStorage
	Mpa    MpaStorage
}
