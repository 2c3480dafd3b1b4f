package service

import (
	"context"

	"github.com/oggyb/filmorate/internal/app"
	svcErr "github.com/oggyb/filmorate/internal/errors"
	"github.com/oggyb/filmorate/internal/model"
	"github.com/oggyb/filmorate/internal/storage"
)

// CatalogService exposes the read-only genre and MPA catalogs.
type CatalogService struct {
	appCtx *app.AppContext
	genres storage.GenreStorage
	mpa    storage.MpaStorage
}

func NewCatalogService(appCtx *app.AppContext) *CatalogService {
	return &CatalogService{appCtx: appCtx, genres: appCtx.Storage.Genres, mpa: appCtx.Storage.Mpa}
}

func (s *CatalogService) Genres(ctx context.Context) ([]model.Genre, error) {
	return s.genres.FindAll(ctx)
}

func (s *CatalogService) Genre(ctx context.Context, id int64) (model.Genre, error) {
	g, ok, err := s.genres.GetByID(ctx, id)
	if err != nil {
		return model.Genre{}, err
	}
	if !ok {
		return model.Genre{}, svcErr.NotFound("genre with id = %d not found", id)
	}
	return g, nil
}

func (s *CatalogService) MpaRatings(ctx context.Context) ([]model.Mpa, error) {
	return s.mpa.FindAll(ctx)
}

func (s *CatalogService) Mpa(ctx context.Context, id int64) (model.Mpa, error) {
	m, ok, err := s.mpa.GetByID(ctx, id)
	if err != nil {
		return model.Mpa{}, err
	}
	if !ok {
		return model.Mpa{}, svcErr.NotFound("mpa with id = %d not found", id)
	}
	return m, nil
}

// Services bundles the three services for the boundaries.
type Services struct {
	Films   *FilmService
	Users   *UserService
	Catalog *CatalogService
}

func New(appCtx *app.AppContext) *Services {
	return &Services{
		Films:   NewFilmService(appCtx),
		Users:   NewUserService(appCtx),
		Catalog: NewCatalogService(appCtx),
	}
}
