package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "filmorate.v1.Filmorate"

// FilmorateServer is the server API of ServiceName.
type FilmorateServer interface {
	GetFilm(context.Context, *GetFilmRequest) (*FilmResponse, error)
	ListFilms(context.Context, *ListFilmsRequest) (*ListFilmsResponse, error)
	PopularFilms(context.Context, *PopularFilmsRequest) (*FilmsResponse, error)
	LikeFilm(context.Context, *LikeRequest) (*Empty, error)
	UnlikeFilm(context.Context, *LikeRequest) (*Empty, error)
	GetUser(context.Context, *GetUserRequest) (*UserResponse, error)
	ListFriends(context.Context, *ListFriendsRequest) (*UsersResponse, error)
	CommonFriends(context.Context, *CommonFriendsRequest) (*UsersResponse, error)
	AddFriend(context.Context, *FriendRequest) (*Empty, error)
	RemoveFriend(context.Context, *FriendRequest) (*Empty, error)
	ListGenres(context.Context, *Empty) (*GenresResponse, error)
	ListMpa(context.Context, *Empty) (*MpaResponse, error)
}

var _ FilmorateServer = (*Service)(nil)

// ServiceDesc describes ServiceName for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FilmorateServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("GetFilm", FilmorateServer.GetFilm),
		unary("ListFilms", FilmorateServer.ListFilms),
		unary("PopularFilms", FilmorateServer.PopularFilms),
		unary("LikeFilm", FilmorateServer.LikeFilm),
		unary("UnlikeFilm", FilmorateServer.UnlikeFilm),
		unary("GetUser", FilmorateServer.GetUser),
		unary("ListFriends", FilmorateServer.ListFriends),
		unary("CommonFriends", FilmorateServer.CommonFriends),
		unary("AddFriend", FilmorateServer.AddFriend),
		unary("RemoveFriend", FilmorateServer.RemoveFriend),
		unary("ListGenres", FilmorateServer.ListGenres),
		unary("ListMpa", FilmorateServer.ListMpa),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "filmorate/v1/filmorate.json",
}

// FullMethod returns the wire name of method, e.g. /filmorate.v1.Filmorate/GetFilm.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unary adapts a typed FilmorateServer method to grpc.MethodDesc, the same
// shape protoc-gen-go-grpc emits per method.
func unary[Req, Resp any](name string, call func(FilmorateServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(FilmorateServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(name),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(FilmorateServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
