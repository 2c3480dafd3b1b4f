package model

import "strings"

// User is a registered member who can like films and befriend other users.
type User struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email" validate:"notblank,email"`
	Login    string  `json:"login" validate:"notblank,nowhitespace"`
	Name     string  `json:"name"`
	Birthday Date    `json:"birthday" validate:"required,pastorpresent"`
	Friends  []int64 `json:"friends"`
}

// ApplyDefaults falls back to the login as display name and materializes the
// friend set.
func (u *User) ApplyDefaults() {
	if strings.TrimSpace(u.Name) == "" {
		u.Name = u.Login
	}
	u.Friends = NormalizeIDs(u.Friends)
}

// SameIdentity reports whether two users describe the same person. Name and id
// do not take part.
func (u User) SameIdentity(other User) bool {
	return u.Email == other.Email &&
		u.Login == other.Login &&
		u.Birthday.Equal(other.Birthday.Time)
}
