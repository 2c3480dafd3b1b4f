package redisstore

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/oggyb/filmorate/internal/model"
)

type genreStore Store

func (gs *genreStore) FindAll(ctx context.Context) ([]model.Genre, error) {
	entries, err := gs.client.HGetAll(ctx, keyGenres).Result()
	if err != nil {
		return nil, fmt.Errorf("find genres: %w", err)
	}
	names, err := catalogNames(entries)
	if err != nil {
		return nil, fmt.Errorf("find genres: %w", err)
	}
	out := make([]model.Genre, 0, len(names))
	for id, name := range names {
		out = append(out, model.Genre{ID: id, Name: name})
	}
	slices.SortFunc(out, func(a, b model.Genre) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (gs *genreStore) GetByID(ctx context.Context, id int64) (model.Genre, bool, error) {
	name, err := gs.client.HGet(ctx, keyGenres, strconv.FormatInt(id, 10)).Result()
	if errors.Is(err, redis.Nil) {
		return model.Genre{}, false, nil
	}
	if err != nil {
		return model.Genre{}, false, fmt.Errorf("get genre %d: %w", id, err)
	}
	return model.Genre{ID: id, Name: name}, true, nil
}

type mpaStore Store

func (ms *mpaStore) FindAll(ctx context.Context) ([]model.Mpa, error) {
	entries, err := ms.client.HGetAll(ctx, keyMpa).Result()
	if err != nil {
		return nil, fmt.Errorf("find mpa ratings: %w", err)
	}
	names, err := catalogNames(entries)
	if err != nil {
		return nil, fmt.Errorf("find mpa ratings: %w", err)
	}
	out := make([]model.Mpa, 0, len(names))
	for id, name := range names {
		out = append(out, model.Mpa{ID: id, Name: name})
	}
	slices.SortFunc(out, func(a, b model.Mpa) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (ms *mpaStore) GetByID(ctx context.Context, id int64) (model.Mpa, bool, error) {
	name, err := ms.client.HGet(ctx, keyMpa, strconv.FormatInt(id, 10)).Result()
	if errors.Is(err, redis.Nil) {
		return model.Mpa{}, false, nil
	}
	if err != nil {
		return model.Mpa{}, false, fmt.Errorf("get mpa %d: %w", id, err)
	}
	return model.Mpa{ID: id, Name: name}, true, nil
}

func catalogNames(entries map[string]string) (map[int64]string, error) {
	out := make(map[int64]string, len(entries))
	for k, v := range entries {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed catalog id %q: %w", k, err)
		}
		out[id] = v
	}
	return out, nil
}
