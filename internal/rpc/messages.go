package rpc

import "github.com/oggyb/filmorate/internal/model"

// Ids travel as decimal strings and are parsed by the handlers.

type Empty struct{}

type GetFilmRequest struct {
	FilmID string `json:"film_id"`
}

type FilmResponse struct {
	Film model.Film `json:"film"`
}

type ListFilmsRequest struct{}

type ListFilmsResponse struct {
	Films []model.Film `json:"films"`
}

// PopularFilmsRequest.Count defaults to 10 when zero.
type PopularFilmsRequest struct {
	Count int32 `json:"count,omitempty"`
}

type FilmsResponse struct {
	Films []model.Film `json:"films"`
}

type LikeRequest struct {
	FilmID string `json:"film_id"`
	UserID string `json:"user_id"`
}

type GetUserRequest struct {
	UserID string `json:"user_id"`
}

type UserResponse struct {
	User model.User `json:"user"`
}

type ListFriendsRequest struct {
	UserID string `json:"user_id"`
}

type CommonFriendsRequest struct {
	UserID  string `json:"user_id"`
	OtherID string `json:"other_id"`
}

type FriendRequest struct {
	UserID   string `json:"user_id"`
	FriendID string `json:"friend_id"`
}

type UsersResponse struct {
	Users []model.User `json:"users"`
}

type GenresResponse struct {
	Genres []model.Genre `json:"genres"`
}

type MpaResponse struct {
	Ratings []model.Mpa `json:"ratings"`
}
