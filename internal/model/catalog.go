package model

// Genre is a fixed catalog tag attachable to a film.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// Mpa is a fixed catalog content rating (G, PG, ...).
type Mpa struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// DefaultGenres is the genre catalog every backend seeds on start-up.
var DefaultGenres = []Genre{
	{ID: 1, Name: "Comedy"},
	{ID: 2, Name: "Drama"},
	{ID: 3, Name: "Cartoon"},
	{ID: 4, Name: "Thriller"},
	{ID: 5, Name: "Documentary"},
	{ID: 6, Name: "Action"},
}

// DefaultMpaRatings is the MPA catalog every backend seeds on start-up.
var DefaultMpaRatings = []Mpa{
	{ID: 1, Name: "G"},
	{ID: 2, Name: "PG"},
	{ID: 3, Name: "PG-13"},
	{ID: 4, Name: "R"},
	{ID: 5, Name: "NC-17"},
}
