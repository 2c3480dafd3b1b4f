package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/oggyb/filmorate/internal/db"
	"github.com/oggyb/filmorate/internal/model"
	"github.com/oggyb/filmorate/internal/storage"
)

// GenreRepository reads the genre catalog seeded by db.SeedCatalog.
type GenreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(database *gorm.DB) *GenreRepository {
	return &GenreRepository{db: database}
}

func (r *GenreRepository) FindAll(ctx context.Context) ([]model.Genre, error) {
	var rows []db.Genre
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find genres: %w", err)
	}
	out := make([]model.Genre, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.Genre{ID: row.ID, Name: row.Name})
	}
	return out, nil
}

func (r *GenreRepository) GetByID(ctx context.Context, id int64) (model.Genre, bool, error) {
	var rows []db.Genre
	if err := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return model.Genre{}, false, fmt.Errorf("get genre %d: %w", id, err)
	}
	if len(rows) == 0 {
		return model.Genre{}, false, nil
	}
	return model.Genre{ID: rows[0].ID, Name: rows[0].Name}, true, nil
}

// MpaRepository reads the MPA rating catalog.
type MpaRepository struct {
	db *gorm.DB
}

func NewMpaRepository(database *gorm.DB) *MpaRepository {
	return &MpaRepository{db: database}
}

func (r *MpaRepository) FindAll(ctx context.Context) ([]model.Mpa, error) {
	var rows []db.Mpa
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find mpa ratings: %w", err)
	}
	out := make([]model.Mpa, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.Mpa{ID: row.ID, Name: row.Name})
	}
	return out, nil
}

func (r *MpaRepository) GetByID(ctx context.Context, id int64) (model.Mpa, bool, error) {
	var rows []db.Mpa
	if err := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return model.Mpa{}, false, fmt.Errorf("get mpa %d: %w", id, err)
	}
	if len(rows) == 0 {
		return model.Mpa{}, false, nil
	}
	return model.Mpa{ID: rows[0].ID, Name: rows[0].Name}, true, nil
}

// NewStorage bundles the gorm repositories behind the storage interfaces.
func NewStorage(database *gorm.DB) storage.Storage {
	return storage.Storage{
		Films:  NewFilmRepository(database),
		Users:  NewUserRepository(database),
		Genres: NewGenreRepository(database),
		Mpa:    NewMpaRepository(database),
	}
}
