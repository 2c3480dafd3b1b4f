package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/filmorate/internal/db"
	"github.com/oggyb/filmorate/internal/model"
	"github.com/oggyb/filmorate/internal/storage"
)

// FilmRepository provides data access methods for films, their genre links
// and likes.
type FilmRepository struct {
	db *gorm.DB
}

// NewFilmRepository creates a new repository bound to the given DB connection.
func NewFilmRepository(database *gorm.DB) *FilmRepository {
	return &FilmRepository{db: database}
}

// Add inserts the film row and its genre links in one transaction.
func (r *FilmRepository) Add(ctx context.Context, film model.Film) (model.Film, error) {
	film.ApplyDefaults()
	row := toFilmRow(film)
	row.ID = 0

	var out model.Film
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		if err := replaceGenres(tx, row.ID, film.GenreIDs()); err != nil {
			return err
		}
		films, err := loadFilms(tx, []db.Film{row})
		if err != nil {
			return err
		}
		out = films[0]
		return nil
	})
	if err != nil {
		return model.Film{}, fmt.Errorf("add film: %w", err)
	}
	return out, nil
}

// Update replaces the film's columns and genre links. Likes are untouched.
//
// Behavior:
//   - Missing id → storage.ErrNotFound.
//   - A nil mpa clears the rating.
func (r *FilmRepository) Update(ctx context.Context, film model.Film) (model.Film, error) {
	film.ApplyDefaults()
	row := toFilmRow(film)

	var out model.Film
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing db.Film
		if err := tx.First(&existing, row.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		if err := tx.Model(&existing).Updates(map[string]any{
			"name":         row.Name,
			"description":  row.Description,
			"release_date": row.ReleaseDate,
			"duration":     row.Duration,
			"mpa_id":       row.MpaID,
		}).Error; err != nil {
			return err
		}
		if err := replaceGenres(tx, row.ID, film.GenreIDs()); err != nil {
			return err
		}
		films, err := loadFilms(tx, []db.Film{row})
		if err != nil {
			return err
		}
		out = films[0]
		return nil
	})
	if errors.Is(err, storage.ErrNotFound) {
		return model.Film{}, err
	}
	if err != nil {
		return model.Film{}, fmt.Errorf("update film %d: %w", film.ID, err)
	}
	return out, nil
}

func (r *FilmRepository) FindAll(ctx context.Context) ([]model.Film, error) {
	tx := r.db.WithContext(ctx)
	var rows []db.Film
	if err := tx.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find films: %w", err)
	}
	films, err := loadFilms(tx, rows)
	if err != nil {
		return nil, fmt.Errorf("find films: %w", err)
	}
	return films, nil
}

func (r *FilmRepository) GetByID(ctx context.Context, id int64) (model.Film, bool, error) {
	tx := r.db.WithContext(ctx)
	var rows []db.Film
	if err := tx.Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return model.Film{}, false, fmt.Errorf("get film %d: %w", id, err)
	}
	if len(rows) == 0 {
		return model.Film{}, false, nil
	}
	films, err := loadFilms(tx, rows)
	if err != nil {
		return model.Film{}, false, fmt.Errorf("get film %d: %w", id, err)
	}
	return films[0], true, nil
}

// Delete removes the film with its likes and genre links.
func (r *FilmRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("film_id = ?", id).Delete(&db.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("film_id = ?", id).Delete(&db.FilmGenre{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&db.Film{}).Error
	})
	if err != nil {
		return fmt.Errorf("delete film %d: %w", id, err)
	}
	return nil
}

// Like inserts the (film, user) pair. The composite PK turns a repeat into a no-op.
func (r *FilmRepository) Like(ctx context.Context, filmID, userID int64) error {
	like := db.Like{FilmID: filmID, UserID: userID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like).Error
	if err != nil {
		return fmt.Errorf("like film %d by user %d: %w", filmID, userID, err)
	}
	return nil
}

func (r *FilmRepository) Unlike(ctx context.Context, filmID, userID int64) error {
	err := r.db.WithContext(ctx).
		Where("film_id = ? AND user_id = ?", filmID, userID).
		Delete(&db.Like{}).Error
	if err != nil {
		return fmt.Errorf("unlike film %d by user %d: %w", filmID, userID, err)
	}
	return nil
}

// MostPopular ranks films by like count in the engine.
//
// Behavior:
//   - Films without likes take part with a count of 0 (LEFT JOIN).
//   - Ties are broken by ascending film id.
func (r *FilmRepository) MostPopular(ctx context.Context, n int) ([]model.Film, error) {
	tx := r.db.WithContext(ctx)
	var rows []db.Film
	err := tx.Model(&db.Film{}).
		Select("films.*").
		Joins("LEFT JOIN likes ON likes.film_id = films.id").
		Group("films.id").
		Order("COUNT(likes.user_id) DESC, films.id").
		Limit(n).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("most popular films: %w", err)
	}
	films, err := loadFilms(tx, rows)
	if err != nil {
		return nil, fmt.Errorf("most popular films: %w", err)
	}
	return films, nil
}

func replaceGenres(tx *gorm.DB, filmID int64, genreIDs []int64) error {
	if err := tx.Where("film_id = ?", filmID).Delete(&db.FilmGenre{}).Error; err != nil {
		return err
	}
	if len(genreIDs) == 0 {
		return nil
	}
	links := make([]db.FilmGenre, 0, len(genreIDs))
	for _, id := range genreIDs {
		links = append(links, db.FilmGenre{FilmID: filmID, GenreID: id})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}

type genreLink struct {
	FilmID  int64
	GenreID int64
	Name    string
}

// loadFilms attaches mpa, genres and likes to rows in three batched queries,
// keeping the order of rows.
func loadFilms(tx *gorm.DB, rows []db.Film) ([]model.Film, error) {
	films := make([]model.Film, 0, len(rows))
	if len(rows) == 0 {
		return films, nil
	}

	ids := make([]int64, 0, len(rows))
	var mpaIDs []int64
	for _, row := range rows {
		ids = append(ids, row.ID)
		if row.MpaID != nil {
			mpaIDs = append(mpaIDs, *row.MpaID)
		}
	}

	ratings := make(map[int64]string)
	if len(mpaIDs) > 0 {
		var mpaRows []db.Mpa
		if err := tx.Where("id IN ?", mpaIDs).Find(&mpaRows).Error; err != nil {
			return nil, err
		}
		for _, m := range mpaRows {
			ratings[m.ID] = m.Name
		}
	}

	var links []genreLink
	err := tx.Table("film_genres").
		Select("film_genres.film_id, film_genres.genre_id, COALESCE(genres.name, '') AS name").
		Joins("LEFT JOIN genres ON genres.id = film_genres.genre_id").
		Where("film_genres.film_id IN ?", ids).
		Order("film_genres.film_id, film_genres.genre_id").
		Scan(&links).Error
	if err != nil {
		return nil, err
	}
	genres := make(map[int64][]model.Genre, len(rows))
	for _, l := range links {
		genres[l.FilmID] = append(genres[l.FilmID], model.Genre{ID: l.GenreID, Name: l.Name})
	}

	var likes []db.Like
	if err := tx.Where("film_id IN ?", ids).Order("film_id, user_id").Find(&likes).Error; err != nil {
		return nil, err
	}
	likers := make(map[int64][]int64, len(rows))
	for _, l := range likes {
		likers[l.FilmID] = append(likers[l.FilmID], l.UserID)
	}

	for _, row := range rows {
		f := toFilm(row)
		if row.MpaID != nil {
			f.Mpa = &model.Mpa{ID: *row.MpaID, Name: ratings[*row.MpaID]}
		}
		f.Genres = genres[row.ID]
		f.Likes = likers[row.ID]
		f.ApplyDefaults()
		films = append(films, f)
	}
	return films, nil
}

func toFilmRow(f model.Film) db.Film {
	return db.Film{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		ReleaseDate: f.ReleaseDate.Time,
		Duration:    f.Duration,
		MpaID:       f.MpaID(),
	}
}

func toFilm(row db.Film) model.Film {
	return model.Film{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		ReleaseDate: model.DateOf(row.ReleaseDate),
		Duration:    row.Duration,
	}
}
