package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/filmorate/internal/db"
	"github.com/oggyb/filmorate/internal/model"
	"github.com/oggyb/filmorate/internal/storage"
)

// UserRepository provides data access methods for users and friend edges.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

func (r *UserRepository) Add(ctx context.Context, user model.User) (model.User, error) {
	user.ApplyDefaults()
	row := toUserRow(user)
	row.ID = 0

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return model.User{}, fmt.Errorf("add user: %w", err)
	}
	out := toUser(row)
	out.Friends = []int64{}
	return out, nil
}

// Update replaces the user's columns. Friend edges are untouched.
func (r *UserRepository) Update(ctx context.Context, user model.User) (model.User, error) {
	user.ApplyDefaults()
	row := toUserRow(user)

	var out model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing db.User
		if err := tx.First(&existing, row.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		if err := tx.Model(&existing).Updates(map[string]any{
			"email":    row.Email,
			"login":    row.Login,
			"name":     row.Name,
			"birthday": row.Birthday,
		}).Error; err != nil {
			return err
		}
		users, err := loadUsers(tx, []db.User{row})
		if err != nil {
			return err
		}
		out = users[0]
		return nil
	})
	if errors.Is(err, storage.ErrNotFound) {
		return model.User{}, err
	}
	if err != nil {
		return model.User{}, fmt.Errorf("update user %d: %w", user.ID, err)
	}
	return out, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	tx := r.db.WithContext(ctx)
	var rows []db.User
	if err := tx.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	users, err := loadUsers(tx, rows)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (model.User, bool, error) {
	tx := r.db.WithContext(ctx)
	var rows []db.User
	if err := tx.Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return model.User{}, false, fmt.Errorf("get user %d: %w", id, err)
	}
	if len(rows) == 0 {
		return model.User{}, false, nil
	}
	users, err := loadUsers(tx, rows)
	if err != nil {
		return model.User{}, false, fmt.Errorf("get user %d: %w", id, err)
	}
	return users[0], true, nil
}

// Delete removes the user, their likes and every friend edge touching them.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&db.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR friend_id = ?", id, id).Delete(&db.Friendship{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&db.User{}).Error
	})
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

// AddFriend inserts the directed edge id -> friendID.
func (r *UserRepository) AddFriend(ctx context.Context, id, friendID int64) error {
	edge := db.Friendship{UserID: id, FriendID: friendID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&edge).Error
	if err != nil {
		return fmt.Errorf("add friend %d -> %d: %w", id, friendID, err)
	}
	return nil
}

func (r *UserRepository) DeleteFriend(ctx context.Context, id, friendID int64) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND friend_id = ?", id, friendID).
		Delete(&db.Friendship{}).Error
	if err != nil {
		return fmt.Errorf("delete friend %d -> %d: %w", id, friendID, err)
	}
	return nil
}

// Friends joins the outgoing edges of id onto users, so edges to deleted
// users drop out.
func (r *UserRepository) Friends(ctx context.Context, id int64) ([]model.User, error) {
	tx := r.db.WithContext(ctx)
	var rows []db.User
	err := tx.Model(&db.User{}).
		Joins("JOIN friendships f ON f.friend_id = users.id").
		Where("f.user_id = ?", id).
		Order("users.id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("friends of %d: %w", id, err)
	}
	users, err := loadUsers(tx, rows)
	if err != nil {
		return nil, fmt.Errorf("friends of %d: %w", id, err)
	}
	return users, nil
}

// CommonFriends returns users that both id and otherID have an edge to.
func (r *UserRepository) CommonFriends(ctx context.Context, id, otherID int64) ([]model.User, error) {
	tx := r.db.WithContext(ctx)
	var rows []db.User
	err := tx.Model(&db.User{}).
		Joins("JOIN friendships f1 ON f1.friend_id = users.id AND f1.user_id = ?", id).
		Joins("JOIN friendships f2 ON f2.friend_id = users.id AND f2.user_id = ?", otherID).
		Order("users.id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("common friends of %d and %d: %w", id, otherID, err)
	}
	users, err := loadUsers(tx, rows)
	if err != nil {
		return nil, fmt.Errorf("common friends of %d and %d: %w", id, otherID, err)
	}
	return users, nil
}

// loadUsers attaches friend ids to rows with one batched query.
func loadUsers(tx *gorm.DB, rows []db.User) ([]model.User, error) {
	users := make([]model.User, 0, len(rows))
	if len(rows) == 0 {
		return users, nil
	}
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	var edges []db.Friendship
	if err := tx.Where("user_id IN ?", ids).Order("user_id, friend_id").Find(&edges).Error; err != nil {
		return nil, err
	}
	friends := make(map[int64][]int64, len(rows))
	for _, e := range edges {
		friends[e.UserID] = append(friends[e.UserID], e.FriendID)
	}

	for _, row := range rows {
		u := toUser(row)
		u.Friends = model.NormalizeIDs(friends[row.ID])
		users = append(users, u)
	}
	return users, nil
}

func toUserRow(u model.User) db.User {
	return db.User{
		ID:       u.ID,
		Email:    u.Email,
		Login:    u.Login,
		Name:     u.Name,
		Birthday: u.Birthday.Time,
	}
}

func toUser(row db.User) model.User {
	return model.User{
		ID:       row.ID,
		Email:    row.Email,
		Login:    row.Login,
		Name:     row.Name,
		Birthday: model.DateOf(row.Birthday),
	}
}
