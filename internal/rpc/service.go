package rpc

import (
	"context"
	"log/slog"
	"strconv"

	svcErr "github.com/oggyb/filmorate/internal/errors"
	"github.com/oggyb/filmorate/internal/logger"
	"github.com/oggyb/filmorate/internal/service"
)

const defaultPopularCount = 10

// Service implements the Filmorate gRPC API on top of the domain services.
// Every error leaving a method has been through svcErr.Map.
type Service struct {
	svcs   *service.Services
	logger *slog.Logger
}

// NewService creates the gRPC service. A nil logger means the global one.
func NewService(svcs *service.Services, l *slog.Logger) *Service {
	if l == nil {
		l = logger.L()
	}
	return &Service{svcs: svcs, logger: l}
}

func (s *Service) GetFilm(ctx context.Context, req *GetFilmRequest) (*FilmResponse, error) {
	id, err := parseID("film_id", req.FilmID)
	if err != nil {
		return nil, err
	}
	film, err := s.svcs.Films.GetByID(ctx, id)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &FilmResponse{Film: film}, nil
}

// ListFilms returns every film ordered by id.
func (s *Service) ListFilms(ctx context.Context, _ *ListFilmsRequest) (*ListFilmsResponse, error) {
	s.log(ctx).Debug("ListFilms called")

	films, err := s.svcs.Films.FindAll(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &ListFilmsResponse{Films: films}, nil
}

func (s *Service) PopularFilms(ctx context.Context, req *PopularFilmsRequest) (*FilmsResponse, error) {
	count := int(req.Count)
	if count == 0 {
		count = defaultPopularCount
	}
	films, err := s.svcs.Films.MostPopular(ctx, count)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &FilmsResponse{Films: films}, nil
}

func (s *Service) LikeFilm(ctx context.Context, req *LikeRequest) (*Empty, error) {
	filmID, userID, err := parsePair("film_id", req.FilmID, "user_id", req.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.svcs.Films.Like(ctx, filmID, userID); err != nil {
		return nil, svcErr.Map(err)
	}
	return &Empty{}, nil
}

func (s *Service) UnlikeFilm(ctx context.Context, req *LikeRequest) (*Empty, error) {
	filmID, userID, err := parsePair("film_id", req.FilmID, "user_id", req.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.svcs.Films.Unlike(ctx, filmID, userID); err != nil {
		return nil, svcErr.Map(err)
	}
	return &Empty{}, nil
}

func (s *Service) GetUser(ctx context.Context, req *GetUserRequest) (*UserResponse, error) {
	id, err := parseID("user_id", req.UserID)
	if err != nil {
		return nil, err
	}
	user, err := s.svcs.Users.GetByID(ctx, id)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &UserResponse{User: user}, nil
}

func (s *Service) ListFriends(ctx context.Context, req *ListFriendsRequest) (*UsersResponse, error) {
	id, err := parseID("user_id", req.UserID)
	if err != nil {
		return nil, err
	}
	friends, err := s.svcs.Users.Friends(ctx, id)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &UsersResponse{Users: friends}, nil
}

func (s *Service) CommonFriends(ctx context.Context, req *CommonFriendsRequest) (*UsersResponse, error) {
	id, otherID, err := parsePair("user_id", req.UserID, "other_id", req.OtherID)
	if err != nil {
		return nil, err
	}
	common, err := s.svcs.Users.CommonFriends(ctx, id, otherID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &UsersResponse{Users: common}, nil
}

// AddFriend makes the two users friends of each other. Adding an existing
// friendship again succeeds.
func (s *Service) AddFriend(ctx context.Context, req *FriendRequest) (*Empty, error) {
	id, friendID, err := parsePair("user_id", req.UserID, "friend_id", req.FriendID)
	if err != nil {
		return nil, err
	}
	if err := s.svcs.Users.AddFriend(ctx, id, friendID); err != nil {
		return nil, svcErr.Map(err)
	}
	return &Empty{}, nil
}

func (s *Service) RemoveFriend(ctx context.Context, req *FriendRequest) (*Empty, error) {
	id, friendID, err := parsePair("user_id", req.UserID, "friend_id", req.FriendID)
	if err != nil {
		return nil, err
	}
	if err := s.svcs.Users.DeleteFriend(ctx, id, friendID); err != nil {
		return nil, svcErr.Map(err)
	}
	return &Empty{}, nil
}

func (s *Service) ListGenres(ctx context.Context, _ *Empty) (*GenresResponse, error) {
	genres, err := s.svcs.Catalog.Genres(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &GenresResponse{Genres: genres}, nil
}

func (s *Service) ListMpa(ctx context.Context, _ *Empty) (*MpaResponse, error) {
	ratings, err := s.svcs.Catalog.MpaRatings(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &MpaResponse{Ratings: ratings}, nil
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	return logger.FromContext(ctx, s.logger)
}

// --- helpers ---

func parseID(field, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, svcErr.InvalidArgument(field + " must be a valid int64")
	}
	return id, nil
}

func parsePair(fieldA, rawA, fieldB, rawB string) (int64, int64, error) {
	a, err := parseID(fieldA, rawA)
	if err != nil {
		return 0, 0, err
	}
	b, err := parseID(fieldB, rawB)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
