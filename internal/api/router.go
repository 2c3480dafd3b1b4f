package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/oggyb/filmorate/internal/logger"
	"github.com/oggyb/filmorate/internal/metrics"
	"github.com/oggyb/filmorate/internal/service"
)

// NewRouter wires every HTTP endpoint. m may be nil, in which case no metrics
// are recorded and /metrics is not served.
func NewRouter(svcs *service.Services, l *slog.Logger, m *metrics.Metrics) *mux.Router {
	if l == nil {
		l = logger.L()
	}
	h := NewHandler(svcs, l)

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(h.NotFound)
	r.Use(RequestIDMiddleware(l), LoggingMiddleware(l))
	if m != nil {
		r.Use(MetricsMiddleware(m))
		r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	}

	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	films := r.PathPrefix("/films").Subrouter()
	films.HandleFunc("", h.ListFilms).Methods(http.MethodGet)
	films.HandleFunc("", h.CreateFilm).Methods(http.MethodPost)
	films.HandleFunc("", h.UpdateFilm).Methods(http.MethodPut)
	// registered before /{id} so "popular" is not parsed as an id
	films.HandleFunc("/popular", h.PopularFilms).Methods(http.MethodGet)
	films.HandleFunc("/{id}", h.GetFilm).Methods(http.MethodGet)
	films.HandleFunc("/{id}", h.DeleteFilm).Methods(http.MethodDelete)
	films.HandleFunc("/{id}/like/{userId}", h.LikeFilm).Methods(http.MethodPut)
	films.HandleFunc("/{id}/like/{userId}", h.UnlikeFilm).Methods(http.MethodDelete)

	users := r.PathPrefix("/users").Subrouter()
	users.HandleFunc("", h.ListUsers).Methods(http.MethodGet)
	users.HandleFunc("", h.CreateUser).Methods(http.MethodPost)
	users.HandleFunc("", h.UpdateUser).Methods(http.MethodPut)
	users.HandleFunc("/{id}", h.GetUser).Methods(http.MethodGet)
	users.HandleFunc("/{id}", h.DeleteUser).Methods(http.MethodDelete)
	users.HandleFunc("/{id}/friends", h.ListFriends).Methods(http.MethodGet)
	users.HandleFunc("/{id}/friends/{friendId}", h.AddFriend).Methods(http.MethodPut)
	users.HandleFunc("/{id}/friends/{friendId}", h.DeleteFriend).Methods(http.MethodDelete)
	users.HandleFunc("/{id}/friends/common/{otherId}", h.CommonFriends).Methods(http.MethodGet)

	r.HandleFunc("/genres", h.ListGenres).Methods(http.MethodGet)
	r.HandleFunc("/genres/{id}", h.GetGenre).Methods(http.MethodGet)
	r.HandleFunc("/mpa", h.ListMpa).Methods(http.MethodGet)
	r.HandleFunc("/mpa/{id}", h.GetMpa).Methods(http.MethodGet)

	return r
}
