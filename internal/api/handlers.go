package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	svcErr "github.com/oggyb/filmorate/internal/errors"
	"github.com/oggyb/filmorate/internal/logger"
	"github.com/oggyb/filmorate/internal/model"
	"github.com/oggyb/filmorate/internal/service"
)

// DefaultPopularCount is used when /films/popular is called without count.
const DefaultPopularCount = 10

// Handler holds the dependencies of the HTTP endpoints.
type Handler struct {
	svcs   *service.Services
	logger *slog.Logger
}

func NewHandler(svcs *service.Services, l *slog.Logger) *Handler {
	if l == nil {
		l = logger.L()
	}
	return &Handler{svcs: svcs, logger: l}
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// --- helpers ---

func (h *Handler) respondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			h.log(r).Error("failed to encode JSON response", "err", err, "path", r.URL.Path)
		}
	}
}

// respondError maps err onto a status code. Unclassified errors are logged and
// answered with 500.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := svcErr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.log(r).Error("request failed", "err", err)
	} else {
		h.log(r).Debug("request rejected", "status", status, "err", err)
	}
	h.respondJSON(w, r, status, ErrorResponse{Error: err.Error()})
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	return logger.FromContext(r.Context(), h.logger)
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, svcErr.Validation("%s must be an integer, got %q", name, raw)
	}
	return id, nil
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &syntaxErr):
			return svcErr.Validation("malformed JSON at offset %d", syntaxErr.Offset)
		case errors.As(err, &typeErr):
			return svcErr.Validation("field %q has the wrong type", typeErr.Field)
		default:
			return svcErr.Validation("invalid request payload: %v", err)
		}
	}
	return nil
}

// --- films ---

func (h *Handler) ListFilms(w http.ResponseWriter, r *http.Request) {
	films, err := h.svcs.Films.FindAll(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, films)
}

func (h *Handler) GetFilm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	film, err := h.svcs.Films.GetByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, film)
}

func (h *Handler) CreateFilm(w http.ResponseWriter, r *http.Request) {
	var film model.Film
	if err := decodeBody(r, &film); err != nil {
		h.respondError(w, r, err)
		return
	}
	created, err := h.svcs.Films.Add(r.Context(), film)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusCreated, created)
}

func (h *Handler) UpdateFilm(w http.ResponseWriter, r *http.Request) {
	var film model.Film
	if err := decodeBody(r, &film); err != nil {
		h.respondError(w, r, err)
		return
	}
	updated, err := h.svcs.Films.Update(r.Context(), film)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, updated)
}

func (h *Handler) DeleteFilm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.svcs.Films.Delete(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) LikeFilm(w http.ResponseWriter, r *http.Request) {
	h.likeEdge(w, r, h.svcs.Films.Like)
}

func (h *Handler) UnlikeFilm(w http.ResponseWriter, r *http.Request) {
	h.likeEdge(w, r, h.svcs.Films.Unlike)
}

func (h *Handler) likeEdge(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, filmID, userID int64) error) {
	filmID, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	userID, err := pathID(r, "userId")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := op(r.Context(), filmID, userID); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) PopularFilms(w http.ResponseWriter, r *http.Request) {
	count := DefaultPopularCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.respondError(w, r, svcErr.Validation("count must be an integer, got %q", raw))
			return
		}
		count = n
	}
	films, err := h.svcs.Films.MostPopular(r.Context(), count)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, films)
}

// --- users ---

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svcs.Users.FindAll(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, users)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	user, err := h.svcs.Users.GetByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, user)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var user model.User
	if err := decodeBody(r, &user); err != nil {
		h.respondError(w, r, err)
		return
	}
	created, err := h.svcs.Users.Add(r.Context(), user)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusCreated, created)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var user model.User
	if err := decodeBody(r, &user); err != nil {
		h.respondError(w, r, err)
		return
	}
	updated, err := h.svcs.Users.Update(r.Context(), user)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, updated)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.svcs.Users.Delete(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddFriend(w http.ResponseWriter, r *http.Request) {
	h.friendEdge(w, r, h.svcs.Users.AddFriend)
}

func (h *Handler) DeleteFriend(w http.ResponseWriter, r *http.Request) {
	h.friendEdge(w, r, h.svcs.Users.DeleteFriend)
}

func (h *Handler) friendEdge(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id, friendID int64) error) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	friendID, err := pathID(r, "friendId")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := op(r.Context(), id, friendID); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) ListFriends(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	friends, err := h.svcs.Users.Friends(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, friends)
}

func (h *Handler) CommonFriends(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	otherID, err := pathID(r, "otherId")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	common, err := h.svcs.Users.CommonFriends(r.Context(), id, otherID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, common)
}

// --- catalog ---

func (h *Handler) ListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.svcs.Catalog.Genres(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, genres)
}

func (h *Handler) GetGenre(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	g, err := h.svcs.Catalog.Genre(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, g)
}

func (h *Handler) ListMpa(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.svcs.Catalog.MpaRatings(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, ratings)
}

func (h *Handler) GetMpa(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	m, err := h.svcs.Catalog.Mpa(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, m)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, r, http.StatusNotFound, ErrorResponse{Error: fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path)})
}
