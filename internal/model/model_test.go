package model_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/filmorate/internal/model"
)

func validFilm() model.Film {
	return model.Film{
		Name:        "White Sun of the Desert",
		Description: "Red Army soldier Sukhov escorts a harem across the desert",
		ReleaseDate: model.NewDate(1969, 12, 14),
		Duration:    83,
	}
}

func validUser() model.User {
	return model.User{
		Email:    "sukhov@example.com",
		Login:    "sukhov",
		Birthday: model.NewDate(1990, 5, 1),
	}
}

func TestFilmValidation(t *testing.T) {
	assert.NoError(t, model.Validate(validFilm()))

	f := validFilm()
	f.Name = "   "
	assert.ErrorContains(t, model.Validate(f), "name must not be blank")

	f = validFilm()
	f.Description = strings.Repeat("я", 200)
	assert.NoError(t, model.Validate(f), "200 characters is the limit, counted in runes")
	f.Description += "я"
	assert.ErrorContains(t, model.Validate(f), "description must be at most 200 characters")

	f = validFilm()
	f.Duration = 0
	assert.ErrorContains(t, model.Validate(f), "duration must be greater than 0")
	f.Duration = -1
	assert.Error(t, model.Validate(f))

	f = validFilm()
	f.ReleaseDate = model.Date{}
	assert.ErrorContains(t, model.Validate(f), "releaseDate")
}

func TestUserValidation(t *testing.T) {
	assert.NoError(t, model.Validate(validUser()))

	u := validUser()
	u.Email = "not-an-email"
	assert.ErrorContains(t, model.Validate(u), "email must be a valid email address")

	u = validUser()
	u.Login = "two words"
	assert.ErrorContains(t, model.Validate(u), "login must not contain whitespace")

	u = validUser()
	u.Login = ""
	assert.ErrorContains(t, model.Validate(u), "login must not be blank")

	u = validUser()
	u.Birthday = model.DateOf(time.Now().UTC().AddDate(0, 0, 2))
	assert.ErrorContains(t, model.Validate(u), "birthday must not be in the future")

	u = validUser()
	u.Birthday = model.DateOf(time.Now().UTC())
	assert.NoError(t, model.Validate(u), "today is allowed")
}

func TestUserDefaultsAndIdentity(t *testing.T) {
	u := validUser()
	u.Name = " "
	u.ApplyDefaults()
	assert.Equal(t, "sukhov", u.Name)
	assert.Equal(t, []int64{}, u.Friends)

	other := validUser()
	other.Name = "Fyodor"
	other.ID = 42
	assert.True(t, u.SameIdentity(other))
	other.Birthday = model.NewDate(1990, 5, 2)
	assert.False(t, u.SameIdentity(other))
}

func TestFilmDefaults(t *testing.T) {
	f := validFilm()
	f.Genres = []model.Genre{{ID: 3}, {ID: 1}, {ID: 3}}
	f.Likes = []int64{7, 2, 7}
	f.ApplyDefaults()

	assert.Equal(t, []model.Genre{{ID: 1}, {ID: 3}}, f.Genres)
	assert.Equal(t, []int64{2, 7}, f.Likes)

	empty := validFilm()
	empty.ApplyDefaults()
	assert.NotNil(t, empty.Genres)
	assert.NotNil(t, empty.Likes)
	assert.Nil(t, empty.MpaID())
}

func TestDateJSON(t *testing.T) {
	var f model.Film
	require.NoError(t, json.Unmarshal([]byte(`{"name":"x","releaseDate":"1895-12-28","duration":1}`), &f))
	assert.True(t, f.ReleaseDate.Equal(model.FirstFilmDate.Time))

	b, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"releaseDate":"1895-12-28"`)

	assert.Error(t, json.Unmarshal([]byte(`{"releaseDate":"28.12.1895"}`), &f))
}
