package memory

import (
	"context"

	"github.com/oggyb/filmorate/internal/model"
	"github.com/oggyb/filmorate/internal/ranking"
	"github.com/oggyb/filmorate/internal/storage"
)

type userStore Store

func (us *userStore) store() *Store { return (*Store)(us) }

func (us *userStore) Add(_ context.Context, user model.User) (model.User, error) {
	s := us.store()
	s.mu.Lock()
	defer s.mu.Unlock()

	user.ApplyDefaults()
	user.ID = s.nextUserID
	s.nextUserID++

	user.Friends = nil
	rec := &userRecord{user: user, friends: make(map[int64]struct{})}
	s.users[user.ID] = rec
	return s.viewUserLocked(rec), nil
}

func (us *userStore) Update(_ context.Context, user model.User) (model.User, error) {
	s := us.store()
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[user.ID]
	if !ok {
		return model.User{}, storage.ErrNotFound
	}
	user.ApplyDefaults()
	user.Friends = nil
	rec.user = user
	return s.viewUserLocked(rec), nil
}

func (us *userStore) FindAll(_ context.Context) ([]model.User, error) {
	s := us.store()
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.User, 0, len(s.users))
	for _, id := range s.sortedUserIDsLocked() {
		out = append(out, s.viewUserLocked(s.users[id]))
	}
	return out, nil
}

func (us *userStore) GetByID(_ context.Context, id int64) (model.User, bool, error) {
	s := us.store()
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.users[id]
	if !ok {
		return model.User{}, false, nil
	}
	return s.viewUserLocked(rec), true, nil
}

func (us *userStore) Delete(_ context.Context, id int64) error {
	s := us.store()
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return nil
	}
	delete(s.users, id)
	for _, other := range s.users {
		delete(other.friends, id)
	}
	for _, film := range s.films {
		delete(film.likes, id)
	}
	return nil
}

func (us *userStore) AddFriend(_ context.Context, id, friendID int64) error {
	s := us.store()
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.users[id]; ok {
		rec.friends[friendID] = struct{}{}
	}
	return nil
}

func (us *userStore) DeleteFriend(_ context.Context, id, friendID int64) error {
	s := us.store()
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.users[id]; ok {
		delete(rec.friends, friendID)
	}
	return nil
}

func (us *userStore) Friends(_ context.Context, id int64) ([]model.User, error) {
	s := us.store()
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.users[id]
	if !ok {
		return []model.User{}, nil
	}
	return s.resolveUsersLocked(sortedKeys(rec.friends)), nil
}

func (us *userStore) CommonFriends(_ context.Context, id, otherID int64) ([]model.User, error) {
	s := us.store()
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, okA := s.users[id]
	b, okB := s.users[otherID]
	if !okA || !okB {
		return []model.User{}, nil
	}
	common := ranking.Intersect(sortedKeys(a.friends), sortedKeys(b.friends))
	return s.resolveUsersLocked(common), nil
}

// resolveUsersLocked maps ids to user views, skipping ids with no live record.
func (s *Store) resolveUsersLocked(ids []int64) []model.User {
	out := make([]model.User, 0, len(ids))
	for _, id := range ids {
		if rec, ok := s.users[id]; ok {
			out = append(out, s.viewUserLocked(rec))
		}
	}
	return out
}
