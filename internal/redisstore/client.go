// Package redisstore is a storage backend over Redis. Records are JSON strings,
// edges are sets, and id order and popularity are sorted sets.
package redisstore

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/oggyb/filmorate/internal/config"
	"github.com/oggyb/filmorate/internal/model"
	"github.com/oggyb/filmorate/internal/storage"
)

const (
	keyFilmSeq        = "films:seq"
	keyFilmIDs        = "films:ids"
	keyFilmPopularity = "films:popularity"
	keyUserSeq        = "users:seq"
	keyUserIDs        = "users:ids"
	keyGenres         = "catalog:genres"
	keyMpa            = "catalog:mpa"
)

func keyFilm(id int64) string { return fmt.Sprintf("film:%d", id) }
func keyFilmLikes(id int64) string { return fmt.Sprintf("film:%d:likes", id) }
func keyUser(id int64) string { return fmt.Sprintf("user:%d", id) }
func keyUserFriends(id int64) string { return fmt.Sprintf("user:%d:friends", id) }
func keyUserFollowers(id int64) string { return fmt.Sprintf("user:%d:followers", id) }
func keyUserLiked(id int64) string { return fmt.Sprintf("user:%d:liked", id) }

// NewClient initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewClient(cfg *config.Config) *redis.Client {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return redis.NewClient(opts)
}

// Store implements every storage interface over one Redis client.
type Store struct {
	client *redis.Client
}

func New(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// SeedCatalog writes the genre and MPA catalogs with HSETNX, leaving existing
// entries untouched.
func (s *Store) SeedCatalog(ctx context.Context, genres []model.Genre, ratings []model.Mpa) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, g := range genres {
			pipe.HSetNX(ctx, keyGenres, strconv.FormatInt(g.ID, 10), g.Name)
		}
		for _, m := range ratings {
			pipe.HSetNX(ctx, keyMpa, strconv.FormatInt(m.ID, 10), m.Name)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	return nil
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

func parseIDs(members []string) ([]int64, error) {
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed id %q: %w", m, err)
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func idMembers(ids []int64) []any {
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, id)
	}
	return out
}
