package model

import (
	"cmp"
	"slices"
)

// FirstFilmDate is the earliest accepted release date (first public film screening).
var FirstFilmDate = NewDate(1895, 12, 28)

// Film is the film record handed between services, storage and boundaries.
//
// Genres and Likes are sets: storage backends return them deduplicated and
// ordered by id.
type Film struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name" validate:"notblank"`
	Description string  `json:"description" validate:"max=200"`
	ReleaseDate Date    `json:"releaseDate" validate:"required"`
	Duration    int     `json:"duration" validate:"gt=0"`
	Mpa         *Mpa    `json:"mpa,omitempty"`
	Genres      []Genre `json:"genres"`
	Likes       []int64 `json:"likes"`
}

// ApplyDefaults materializes empty sets and normalizes Genres and Likes.
func (f *Film) ApplyDefaults() {
	f.Genres = NormalizeGenres(f.Genres)
	f.Likes = NormalizeIDs(f.Likes)
}

// GenreIDs returns the ids of the film's genres.
func (f Film) GenreIDs() []int64 {
	ids := make([]int64, 0, len(f.Genres))
	for _, g := range f.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}

// MpaID returns the referenced rating id, or nil when the film has none.
func (f Film) MpaID() *int64 {
	if f.Mpa == nil {
		return nil
	}
	id := f.Mpa.ID
	return &id
}

// NormalizeGenres deduplicates genres by id and orders them ascending.
// A nil input yields an empty, non-nil slice.
func NormalizeGenres(genres []Genre) []Genre {
	out := make([]Genre, 0, len(genres))
	seen := make(map[int64]struct{}, len(genres))
	for _, g := range genres {
		if _, ok := seen[g.ID]; ok {
			continue
		}
		seen[g.ID] = struct{}{}
		out = append(out, g)
	}
	slices.SortFunc(out, func(a, b Genre) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// NormalizeIDs deduplicates and sorts an id set. A nil input yields an empty slice.
func NormalizeIDs(ids []int64) []int64 {
	out := slices.Clone(ids)
	if out == nil {
		out = []int64{}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
