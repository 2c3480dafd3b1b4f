package db

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/filmorate/internal/model"
)

// SeedCatalog inserts the fixed genre and MPA catalogs. Existing rows are left
// untouched, so it is safe to run on every start-up.
func SeedCatalog(db *gorm.DB) error {
	genres := make([]Genre, 0, len(model.DefaultGenres))
	for _, g := range model.DefaultGenres {
		genres = append(genres, Genre{ID: g.ID, Name: g.Name})
	}
	ratings := make([]Mpa, 0, len(model.DefaultMpaRatings))
	for _, m := range model.DefaultMpaRatings {
		ratings = append(ratings, Mpa{ID: m.ID, Name: m.Name})
	}

	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&genres).Error; err != nil {
		return fmt.Errorf("failed to seed genres: %w", err)
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&ratings).Error; err != nil {
		return fmt.Errorf("failed to seed mpa ratings: %w", err)
	}
	return nil
}

// Reset deletes every film, user and edge, keeping the catalogs, and restarts
// id sequences where the dialect allows it.
func Reset(db *gorm.DB) error {
	for _, table := range []string{"friendships", "likes", "film_genres", "films", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch db.Dialector.Name() {
	case "mysql":
		db.Exec("ALTER TABLE films AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE users AUTO_INCREMENT = 1")
	case "postgres":
		db.Exec("ALTER SEQUENCE films_id_seq RESTART WITH 1")
		db.Exec("ALTER SEQUENCE users_id_seq RESTART WITH 1")
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence WHERE name IN ('films', 'users')")
	}
	return nil
}
