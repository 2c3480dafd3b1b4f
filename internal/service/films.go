// Package service holds the domain rules on top of the storage interfaces.
// Every method returns either nil, an error of kind svcErr.ErrValidation or
// svcErr.ErrNotFound, or an unclassified storage fault.
package service

import (
	"context"
	"errors"

	"github.com/oggyb/filmorate/internal/app"
	svcErr "github.com/oggyb/filmorate/internal/errors"
	"github.com/oggyb/filmorate/internal/model"
	"github.com/oggyb/filmorate/internal/storage"
)

// FilmService implements film CRUD, likes and the popularity query.
type FilmService struct {
	appCtx *app.AppContext
	films  storage.FilmStorage
	users  storage.UserStorage
	genres storage.GenreStorage
	mpa    storage.MpaStorage
}

// NewFilmService creates a FilmService over the storage in appCtx.
func NewFilmService(appCtx *app.AppContext) *FilmService {
	return &FilmService{
		appCtx: appCtx,
		films:  appCtx.Storage.Films,
		users:  appCtx.Storage.Users,
		genres: appCtx.Storage.Genres,
		mpa:    appCtx.Storage.Mpa,
	}
}

func (s *FilmService) FindAll(ctx context.Context) ([]model.Film, error) {
	s.appCtx.Logger.Debug("FindAll films called")
	return s.films.FindAll(ctx)
}

func (s *FilmService) GetByID(ctx context.Context, id int64) (model.Film, error) {
	s.appCtx.Logger.Debug("GetByID film called", "film_id", id)
	return s.requireFilm(ctx, id)
}

// Add validates the film and stores it under a fresh id.
//
// Behavior:
//   - Struct rules and the release date floor → ValidationError.
//   - Unknown mpa or genre id → NotFoundError.
//   - Incoming likes are ignored; a new film starts with none.
func (s *FilmService) Add(ctx context.Context, film model.Film) (model.Film, error) {
	s.appCtx.Logger.Debug("Add film called", "name", film.Name)

	if err := s.validate(ctx, film); err != nil {
		return model.Film{}, err
	}
	film.ID = 0
	film.Likes = nil

	created, err := s.films.Add(ctx, film)
	if err != nil {
		s.appCtx.Logger.Error("Add film failed", "err", err)
		return model.Film{}, err
	}
	s.appCtx.Logger.Info("film added", "film_id", created.ID)
	return created, nil
}

// Update replaces a film's fields, keeping its likes. A missing id is rejected
// before storage is touched.
func (s *FilmService) Update(ctx context.Context, film model.Film) (model.Film, error) {
	s.appCtx.Logger.Debug("Update film called", "film_id", film.ID)

	if film.ID == 0 {
		s.appCtx.Logger.Warn("Update film rejected", "reason", "missing id")
		return model.Film{}, svcErr.Validation("id must be set")
	}
	if err := s.validate(ctx, film); err != nil {
		return model.Film{}, err
	}

	updated, err := s.films.Update(ctx, film)
	if errors.Is(err, storage.ErrNotFound) {
		return model.Film{}, filmNotFound(film.ID)
	}
	if err != nil {
		s.appCtx.Logger.Error("Update film failed", "film_id", film.ID, "err", err)
		return model.Film{}, err
	}
	return updated, nil
}

func (s *FilmService) Delete(ctx context.Context, id int64) error {
	s.appCtx.Logger.Debug("Delete film called", "film_id", id)

	if _, err := s.requireFilm(ctx, id); err != nil {
		return err
	}
	return s.films.Delete(ctx, id)
}

// Like records userID's like of filmID. Both must exist; repeats are no-ops.
func (s *FilmService) Like(ctx context.Context, filmID, userID int64) error {
	s.appCtx.Logger.Debug("Like called", "film_id", filmID, "user_id", userID)

	if err := s.requireEdge(ctx, filmID, userID); err != nil {
		return err
	}
	return s.films.Like(ctx, filmID, userID)
}

func (s *FilmService) Unlike(ctx context.Context, filmID, userID int64) error {
	s.appCtx.Logger.Debug("Unlike called", "film_id", filmID, "user_id", userID)

	if err := s.requireEdge(ctx, filmID, userID); err != nil {
		return err
	}
	return s.films.Unlike(ctx, filmID, userID)
}

// MostPopular returns up to count films by like count descending, id ascending.
func (s *FilmService) MostPopular(ctx context.Context, count int) ([]model.Film, error) {
	s.appCtx.Logger.Debug("MostPopular called", "count", count)

	if count <= 0 {
		s.appCtx.Logger.Warn("MostPopular rejected", "count", count)
		return nil, svcErr.Validation("count must be greater than 0")
	}
	return s.films.MostPopular(ctx, count)
}

func (s *FilmService) validate(ctx context.Context, film model.Film) error {
	if err := model.Validate(film); err != nil {
		s.appCtx.Logger.Warn("film rejected", "reason", err.Error())
		return svcErr.Validation("%s", err.Error())
	}
	if film.ReleaseDate.Before(model.FirstFilmDate.Time) {
		s.appCtx.Logger.Warn("film rejected", "release_date", film.ReleaseDate.String())
		return svcErr.Validation("release date must not be before %s", model.FirstFilmDate)
	}

	if film.Mpa != nil {
		_, ok, err := s.mpa.GetByID(ctx, film.Mpa.ID)
		if err != nil {
			return err
		}
		if !ok {
			return svcErr.NotFound("mpa with id = %d not found", film.Mpa.ID)
		}
	}
	for _, g := range model.NormalizeGenres(film.Genres) {
		_, ok, err := s.genres.GetByID(ctx, g.ID)
		if err != nil {
			return err
		}
		if !ok {
			return svcErr.NotFound("genre with id = %d not found", g.ID)
		}
	}
	return nil
}

func (s *FilmService) requireFilm(ctx context.Context, id int64) (model.Film, error) {
	film, ok, err := s.films.GetByID(ctx, id)
	if err != nil {
		return model.Film{}, err
	}
	if !ok {
		return model.Film{}, filmNotFound(id)
	}
	return film, nil
}

func (s *FilmService) requireEdge(ctx context.Context, filmID, userID int64) error {
	if _, err := s.requireFilm(ctx, filmID); err != nil {
		return err
	}
	_, ok, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return userNotFound(userID)
	}
	return nil
}

func filmNotFound(id int64) error {
	return svcErr.NotFound("film with id = %d not found", id)
}

func userNotFound(id int64) error {
	return svcErr.NotFound("user with id = %d not found", id)
}
