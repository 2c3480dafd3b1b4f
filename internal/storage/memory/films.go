package memory

import (
	"context"

	"github.com/oggyb/filmorate/internal/model"
	"github.com/oggyb/filmorate/internal/ranking"
	"github.com/oggyb/filmorate/internal/storage"
)

type filmStore Store

func (fs *filmStore) store() *Store { return (*Store)(fs) }

func (fs *filmStore) Add(_ context.Context, film model.Film) (model.Film, error) {
	s := fs.store()
	s.mu.Lock()
	defer s.mu.Unlock()

	film.ID = s.nextFilmID
	s.nextFilmID++

	rec := newFilmRecord(film)
	s.films[film.ID] = rec
	return s.viewFilmLocked(rec), nil
}

func (fs *filmStore) Update(_ context.Context, film model.Film) (model.Film, error) {
	s := fs.store()
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.films[film.ID]
	if !ok {
		return model.Film{}, storage.ErrNotFound
	}
	rec.set(film)
	return s.viewFilmLocked(rec), nil
}

func (fs *filmStore) FindAll(_ context.Context) ([]model.Film, error) {
	s := fs.store()
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Film, 0, len(s.films))
	for _, id := range s.sortedFilmIDsLocked() {
		out = append(out, s.viewFilmLocked(s.films[id]))
	}
	return out, nil
}

func (fs *filmStore) GetByID(_ context.Context, id int64) (model.Film, bool, error) {
	s := fs.store()
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.films[id]
	if !ok {
		return model.Film{}, false, nil
	}
	return s.viewFilmLocked(rec), true, nil
}

func (fs *filmStore) Delete(_ context.Context, id int64) error {
	s := fs.store()
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.films, id)
	return nil
}

func (fs *filmStore) Like(_ context.Context, filmID, userID int64) error {
	s := fs.store()
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.films[filmID]; ok {
		rec.likes[userID] = struct{}{}
	}
	return nil
}

func (fs *filmStore) Unlike(_ context.Context, filmID, userID int64) error {
	s := fs.store()
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.films[filmID]; ok {
		delete(rec.likes, userID)
	}
	return nil
}

func (fs *filmStore) MostPopular(ctx context.Context, n int) ([]model.Film, error) {
	all, err := fs.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ranking.MostPopular(all, n), nil
}
