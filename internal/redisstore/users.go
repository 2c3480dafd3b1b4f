package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/oggyb/filmorate/internal/model"
	"github.com/oggyb/filmorate/internal/storage"
)

// userDoc is the JSON stored under user:{id}. Friend edges live in sets:
// user:{id}:friends holds outgoing edges, user:{id}:followers incoming ones.
type userDoc struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Login    string `json:"login"`
	Name     string `json:"name"`
	Birthday string `json:"birthday"`
}

func toUserDoc(u model.User) userDoc {
	return userDoc{
		ID:       u.ID,
		Email:    u.Email,
		Login:    u.Login,
		Name:     u.Name,
		Birthday: u.Birthday.String(),
	}
}

func (d userDoc) toUser() (model.User, error) {
	u := model.User{ID: d.ID, Email: d.Email, Login: d.Login, Name: d.Name}
	if d.Birthday != "" {
		birthday, err := model.ParseDate(d.Birthday)
		if err != nil {
			return model.User{}, fmt.Errorf("decode user %d: %w", d.ID, err)
		}
		u.Birthday = birthday
	}
	return u, nil
}

type userStore Store

func (us *userStore) Add(ctx context.Context, user model.User) (model.User, error) {
	user.ApplyDefaults()
	id, err := us.client.Incr(ctx, keyUserSeq).Result()
	if err != nil {
		return model.User{}, fmt.Errorf("add user: %w", err)
	}
	user.ID = id

	payload, err := json.Marshal(toUserDoc(user))
	if err != nil {
		return model.User{}, fmt.Errorf("add user: %w", err)
	}
	_, err = us.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, keyUser(id), payload, 0)
		pipe.ZAdd(ctx, keyUserIDs, redis.Z{Score: float64(id), Member: id})
		return nil
	})
	if err != nil {
		return model.User{}, fmt.Errorf("add user: %w", err)
	}
	user.Friends = []int64{}
	return user, nil
}

func (us *userStore) Update(ctx context.Context, user model.User) (model.User, error) {
	user.ApplyDefaults()
	payload, err := json.Marshal(toUserDoc(user))
	if err != nil {
		return model.User{}, fmt.Errorf("update user %d: %w", user.ID, err)
	}
	ok, err := us.client.SetXX(ctx, keyUser(user.ID), payload, 0).Result()
	if err != nil {
		return model.User{}, fmt.Errorf("update user %d: %w", user.ID, err)
	}
	if !ok {
		return model.User{}, storage.ErrNotFound
	}
	users, err := us.load(ctx, []int64{user.ID})
	if err != nil {
		return model.User{}, fmt.Errorf("update user %d: %w", user.ID, err)
	}
	if len(users) == 0 {
		return model.User{}, storage.ErrNotFound
	}
	return users[0], nil
}

func (us *userStore) FindAll(ctx context.Context) ([]model.User, error) {
	members, err := us.client.ZRange(ctx, keyUserIDs, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	ids, err := parseIDs(members)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	users, err := us.load(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	return users, nil
}

func (us *userStore) GetByID(ctx context.Context, id int64) (model.User, bool, error) {
	users, err := us.load(ctx, []int64{id})
	if err != nil {
		return model.User{}, false, fmt.Errorf("get user %d: %w", id, err)
	}
	if len(users) == 0 {
		return model.User{}, false, nil
	}
	return users[0], true, nil
}

// Delete removes the user, withdraws their likes through the unlike script so
// popularity stays exact, and cuts every friend edge in both directions.
func (us *userStore) Delete(ctx context.Context, id int64) error {
	var friendsCmd, followersCmd, likedCmd *redis.StringSliceCmd
	_, err := us.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		friendsCmd = pipe.SMembers(ctx, keyUserFriends(id))
		followersCmd = pipe.SMembers(ctx, keyUserFollowers(id))
		likedCmd = pipe.SMembers(ctx, keyUserLiked(id))
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	friends, err := parseIDs(friendsCmd.Val())
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	followers, err := parseIDs(followersCmd.Val())
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	liked, err := parseIDs(likedCmd.Val())
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	films := (*filmStore)(us)
	for _, filmID := range liked {
		if err := films.Unlike(ctx, filmID, id); err != nil {
			return fmt.Errorf("delete user %d: %w", id, err)
		}
	}

	_, err = us.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, friendID := range friends {
			pipe.SRem(ctx, keyUserFollowers(friendID), id)
		}
		for _, followerID := range followers {
			pipe.SRem(ctx, keyUserFriends(followerID), id)
		}
		pipe.Del(ctx, keyUser(id), keyUserFriends(id), keyUserFollowers(id), keyUserLiked(id))
		pipe.ZRem(ctx, keyUserIDs, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

// AddFriend records id -> friendID on both sides of the edge index. Unknown
// subjects are ignored.
func (us *userStore) AddFriend(ctx context.Context, id, friendID int64) error {
	exists, err := us.client.Exists(ctx, keyUser(id)).Result()
	if err != nil {
		return fmt.Errorf("add friend %d -> %d: %w", id, friendID, err)
	}
	if exists == 0 {
		return nil
	}
	_, err = us.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, keyUserFriends(id), friendID)
		pipe.SAdd(ctx, keyUserFollowers(friendID), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("add friend %d -> %d: %w", id, friendID, err)
	}
	return nil
}

func (us *userStore) DeleteFriend(ctx context.Context, id, friendID int64) error {
	_, err := us.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SRem(ctx, keyUserFriends(id), friendID)
		pipe.SRem(ctx, keyUserFollowers(friendID), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete friend %d -> %d: %w", id, friendID, err)
	}
	return nil
}

func (us *userStore) Friends(ctx context.Context, id int64) ([]model.User, error) {
	members, err := us.client.SMembers(ctx, keyUserFriends(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("friends of %d: %w", id, err)
	}
	ids, err := parseIDs(members)
	if err != nil {
		return nil, fmt.Errorf("friends of %d: %w", id, err)
	}
	users, err := us.load(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("friends of %d: %w", id, err)
	}
	return users, nil
}

func (us *userStore) CommonFriends(ctx context.Context, id, otherID int64) ([]model.User, error) {
	members, err := us.client.SInter(ctx, keyUserFriends(id), keyUserFriends(otherID)).Result()
	if err != nil {
		return nil, fmt.Errorf("common friends of %d and %d: %w", id, otherID, err)
	}
	ids, err := parseIDs(members)
	if err != nil {
		return nil, fmt.Errorf("common friends of %d and %d: %w", id, otherID, err)
	}
	users, err := us.load(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("common friends of %d and %d: %w", id, otherID, err)
	}
	return users, nil
}

// load resolves ids in order, skipping ids without a document.
func (us *userStore) load(ctx context.Context, ids []int64) ([]model.User, error) {
	users := make([]model.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, keyUser(id))
	}
	docs, err := us.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	friendCmds := make([]*redis.StringSliceCmd, len(ids))
	_, err = us.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			friendCmds[i] = pipe.SMembers(ctx, keyUserFriends(id))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i, raw := range docs {
		s, ok := raw.(string)
		if !ok {
			continue
		}
		var doc userDoc
		if err := json.Unmarshal([]byte(s), &doc); err != nil {
			return nil, fmt.Errorf("decode user %d: %w", ids[i], err)
		}
		u, err := doc.toUser()
		if err != nil {
			return nil, err
		}
		friends, err := parseIDs(friendCmds[i].Val())
		if err != nil {
			return nil, err
		}
		u.Friends = friends
		users = append(users, u)
	}
	return users, nil
}
