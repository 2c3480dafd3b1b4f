package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// Client calls ServiceName over any connection, always with the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, c *Client, method string, in *Req, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetFilm(ctx context.Context, in *GetFilmRequest, opts ...grpc.CallOption) (*FilmResponse, error) {
	return invoke[GetFilmRequest, FilmResponse](ctx, c, "GetFilm", in, opts)
}

func (c *Client) ListFilms(ctx context.Context, in *ListFilmsRequest, opts ...grpc.CallOption) (*ListFilmsResponse, error) {
	return invoke[ListFilmsRequest, ListFilmsResponse](ctx, c, "ListFilms", in, opts)
}

func (c *Client) PopularFilms(ctx context.Context, in *PopularFilmsRequest, opts ...grpc.CallOption) (*FilmsResponse, error) {
	return invoke[PopularFilmsRequest, FilmsResponse](ctx, c, "PopularFilms", in, opts)
}

func (c *Client) LikeFilm(ctx context.Context, in *LikeRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[LikeRequest, Empty](ctx, c, "LikeFilm", in, opts)
}

func (c *Client) UnlikeFilm(ctx context.Context, in *LikeRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[LikeRequest, Empty](ctx, c, "UnlikeFilm", in, opts)
}

func (c *Client) GetUser(ctx context.Context, in *GetUserRequest, opts ...grpc.CallOption) (*UserResponse, error) {
	return invoke[GetUserRequest, UserResponse](ctx, c, "GetUser", in, opts)
}

func (c *Client) ListFriends(ctx context.Context, in *ListFriendsRequest, opts ...grpc.CallOption) (*UsersResponse, error) {
	return invoke[ListFriendsRequest, UsersResponse](ctx, c, "ListFriends", in, opts)
}

func (c *Client) CommonFriends(ctx context.Context, in *CommonFriendsRequest, opts ...grpc.CallOption) (*UsersResponse, error) {
	return invoke[CommonFriendsRequest, UsersResponse](ctx, c, "CommonFriends", in, opts)
}

func (c *Client) AddFriend(ctx context.Context, in *FriendRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[FriendRequest, Empty](ctx, c, "AddFriend", in, opts)
}

func (c *Client) RemoveFriend(ctx context.Context, in *FriendRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[FriendRequest, Empty](ctx, c, "RemoveFriend", in, opts)
}

func (c *Client) ListGenres(ctx context.Context, opts ...grpc.CallOption) (*GenresResponse, error) {
	return invoke[Empty, GenresResponse](ctx, c, "ListGenres", &Empty{}, opts)
}

func (c *Client) ListMpa(ctx context.Context, opts ...grpc.CallOption) (*MpaResponse, error) {
	return invoke[Empty, MpaResponse](ctx, c, "ListMpa", &Empty{}, opts)
}
