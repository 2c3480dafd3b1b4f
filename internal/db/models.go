package db

import (
	"time"
)

// Film table. Genres and likes live in their own link tables.
type Film struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Name        string    `gorm:"size:255;not null"`
	Description string    `gorm:"size:200;not null;default:''"`
	ReleaseDate time.Time `gorm:"type:date;not null"`
	Duration    int       `gorm:"not null"`
	MpaID       *int64    `gorm:"index"`
}

// User table.
//
// Indexes:
//   - idx_users_identity(email, login, birthday)
//     Backs the duplicate-identity lookup done before insert.
type User struct {
	ID       int64     `gorm:"primaryKey;autoIncrement"`
	Email    string    `gorm:"size:255;not null;index:idx_users_identity,priority:1"`
	Login    string    `gorm:"size:255;not null;index:idx_users_identity,priority:2"`
	Name     string    `gorm:"size:255;not null;default:''"`
	Birthday time.Time `gorm:"type:date;not null;index:idx_users_identity,priority:3"`
}

// Genre catalog row. Ids are fixed by the seed, never generated.
type Genre struct {
	ID   int64  `gorm:"primaryKey;autoIncrement:false"`
	Name string `gorm:"size:64;not null"`
}

// Mpa catalog row.
type Mpa struct {
	ID   int64  `gorm:"primaryKey;autoIncrement:false"`
	Name string `gorm:"size:16;not null"`
}

func (Mpa) TableName() string { return "mpa" }

// FilmGenre links a film to a genre. Composite PK: (FilmID, GenreID).
type FilmGenre struct {
	FilmID  int64 `gorm:"primaryKey;autoIncrement:false"`
	GenreID int64 `gorm:"primaryKey;autoIncrement:false;index"`
}

// Like is one user's like of a film.
//
// Composite PK: (FilmID, UserID)
//   - Ensures a single row per pair, which makes liking idempotent.
//
// Indexes:
//   - idx_likes_user(user_id)
//     Used when a user is deleted and all their likes go with them.
type Like struct {
	FilmID int64 `gorm:"primaryKey;autoIncrement:false"`
	UserID int64 `gorm:"primaryKey;autoIncrement:false;index:idx_likes_user"`
}

// Friendship is a directed edge user -> friend. Composite PK: (UserID, FriendID).
type Friendship struct {
	UserID   int64 `gorm:"primaryKey;autoIncrement:false"`
	FriendID int64 `gorm:"primaryKey;autoIncrement:false;index"`
}

// Models lists every table in migration order.
func Models() []any {
	return []any{&Genre{}, &Mpa{}, &Film{}, &User{}, &FilmGenre{}, &Like{}, &Friendship{}}
}
