package service

import (
	"context"
	"errors"

	"github.com/oggyb/filmorate/internal/app"
	svcErr "github.com/oggyb/filmorate/internal/errors"
	"github.com/oggyb/filmorate/internal/model"
	"github.com/oggyb/filmorate/internal/storage"
)

// UserService implements user CRUD and the friendship graph.
type UserService struct {
	appCtx *app.AppContext
	users  storage.UserStorage
}

func NewUserService(appCtx *app.AppContext) *UserService {
	return &UserService{appCtx: appCtx, users: appCtx.Storage.Users}
}

func (s *UserService) FindAll(ctx context.Context) ([]model.User, error) {
	s.appCtx.Logger.Debug("FindAll users called")
	return s.users.FindAll(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id int64) (model.User, error) {
	s.appCtx.Logger.Debug("GetByID user called", "user_id", id)
	return s.requireUser(ctx, id)
}

// Add validates the user and stores it under a fresh id.
//
// Behavior:
//   - A blank name falls back to the login.
//   - Another user with the same email, login and birthday → ValidationError.
//   - Incoming friends are ignored; a new user starts with none.
func (s *UserService) Add(ctx context.Context, user model.User) (model.User, error) {
	s.appCtx.Logger.Debug("Add user called", "login", user.Login)

	if err := s.validate(user); err != nil {
		return model.User{}, err
	}
	user.ApplyDefaults()
	if err := s.rejectDuplicate(ctx, user); err != nil {
		return model.User{}, err
	}
	user.ID = 0
	user.Friends = nil

	created, err := s.users.Add(ctx, user)
	if err != nil {
		s.appCtx.Logger.Error("Add user failed", "err", err)
		return model.User{}, err
	}
	s.appCtx.Logger.Info("user added", "user_id", created.ID)
	return created, nil
}

// Update replaces a user's fields, keeping friend edges.
func (s *UserService) Update(ctx context.Context, user model.User) (model.User, error) {
	s.appCtx.Logger.Debug("Update user called", "user_id", user.ID)

	if user.ID == 0 {
		s.appCtx.Logger.Warn("Update user rejected", "reason", "missing id")
		return model.User{}, svcErr.Validation("id must be set")
	}
	if err := s.validate(user); err != nil {
		return model.User{}, err
	}
	user.ApplyDefaults()
	if err := s.rejectDuplicate(ctx, user); err != nil {
		return model.User{}, err
	}

	updated, err := s.users.Update(ctx, user)
	if errors.Is(err, storage.ErrNotFound) {
		return model.User{}, userNotFound(user.ID)
	}
	if err != nil {
		s.appCtx.Logger.Error("Update user failed", "user_id", user.ID, "err", err)
		return model.User{}, err
	}
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	s.appCtx.Logger.Debug("Delete user called", "user_id", id)

	if _, err := s.requireUser(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}

// AddFriend makes id and friendID friends of each other.
//
// The two directions are separate storage writes. If the second fails the
// first stays in place and the error is returned.
func (s *UserService) AddFriend(ctx context.Context, id, friendID int64) error {
	s.appCtx.Logger.Debug("AddFriend called", "user_id", id, "friend_id", friendID)

	if err := s.requirePair(ctx, id, friendID); err != nil {
		return err
	}
	if err := s.users.AddFriend(ctx, id, friendID); err != nil {
		return err
	}
	if err := s.users.AddFriend(ctx, friendID, id); err != nil {
		s.appCtx.Logger.Error("AddFriend left a one-way edge", "user_id", id, "friend_id", friendID, "err", err)
		return err
	}
	return nil
}

// DeleteFriend removes the friendship in both directions.
func (s *UserService) DeleteFriend(ctx context.Context, id, friendID int64) error {
	s.appCtx.Logger.Debug("DeleteFriend called", "user_id", id, "friend_id", friendID)

	if err := s.requirePair(ctx, id, friendID); err != nil {
		return err
	}
	if err := s.users.DeleteFriend(ctx, id, friendID); err != nil {
		return err
	}
	if err := s.users.DeleteFriend(ctx, friendID, id); err != nil {
		s.appCtx.Logger.Error("DeleteFriend left a one-way edge", "user_id", id, "friend_id", friendID, "err", err)
		return err
	}
	return nil
}

func (s *UserService) Friends(ctx context.Context, id int64) ([]model.User, error) {
	s.appCtx.Logger.Debug("Friends called", "user_id", id)

	if _, err := s.requireUser(ctx, id); err != nil {
		return nil, err
	}
	return s.users.Friends(ctx, id)
}

func (s *UserService) CommonFriends(ctx context.Context, id, otherID int64) ([]model.User, error) {
	s.appCtx.Logger.Debug("CommonFriends called", "user_id", id, "other_id", otherID)

	if _, err := s.requireUser(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.requireUser(ctx, otherID); err != nil {
		return nil, err
	}
	return s.users.CommonFriends(ctx, id, otherID)
}

func (s *UserService) validate(user model.User) error {
	if err := model.Validate(user); err != nil {
		s.appCtx.Logger.Warn("user rejected", "reason", err.Error())
		return svcErr.Validation("%s", err.Error())
	}
	return nil
}

// rejectDuplicate fails when a different user already has user's identity.
func (s *UserService) rejectDuplicate(ctx context.Context, user model.User) error {
	all, err := s.users.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, existing := range all {
		if existing.ID != user.ID && existing.SameIdentity(user) {
			s.appCtx.Logger.Warn("user rejected", "reason", "duplicate", "existing_id", existing.ID)
			return svcErr.Validation("user already exists")
		}
	}
	return nil
}

func (s *UserService) requireUser(ctx context.Context, id int64) (model.User, error) {
	user, ok, err := s.users.GetByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if !ok {
		return model.User{}, userNotFound(id)
	}
	return user, nil
}

func (s *UserService) requirePair(ctx context.Context, id, friendID int64) error {
	if id == friendID {
		s.appCtx.Logger.Warn("friendship rejected", "reason", "self", "user_id", id)
		return svcErr.Validation("user cannot befriend themselves")
	}
	if _, err := s.requireUser(ctx, id); err != nil {
		return err
	}
	_, err := s.requireUser(ctx, friendID)
	return err
}
