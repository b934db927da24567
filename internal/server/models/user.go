// Package models defines server-side data models persisted in the database.
package models

import "time"

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserPublic is the outward projection of a User. It never carries the
// password hash.
type UserPublic struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u *User) Public() UserPublic {
	return UserPublic{ID: u.ID, Username: u.Username, Email: u.Email}
}
