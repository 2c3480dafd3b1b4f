package memory

import (
	"context"
	"maps"
	"slices"

	"github.com/oggyb/filmorate/internal/model"
)

type genreStore Store

func (gs *genreStore) FindAll(_ context.Context) ([]model.Genre, error) {
	s := (*Store)(gs)
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Genre, 0, len(s.genres))
	for _, id := range slices.Sorted(maps.Keys(s.genres)) {
		out = append(out, s.genres[id])
	}
	return out, nil
}

func (gs *genreStore) GetByID(_ context.Context, id int64) (model.Genre, bool, error) {
	s := (*Store)(gs)
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.genres[id]
	return g, ok, nil
}

type mpaStore Store

func (ms *mpaStore) FindAll(_ context.Context) ([]model.Mpa, error) {
	s := (*Store)(ms)
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Mpa, 0, len(s.mpa))
	for _, id := range slices.Sorted(maps.Keys(s.mpa)) {
		out = append(out, s.mpa[id])
	}
	return out, nil
}

func (ms *mpaStore) GetByID(_ context.Context, id int64) (model.Mpa, bool, error) {
	s := (*Store)(ms)
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.mpa[id]
	return m, ok, nil
}
