package models

import "time"

// User represents an account stored in the users table.
type User struct {
	UserID       string    `db:"user_id" json:"user_id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserInfo is the sanitized view returned to clients.
type UserInfo struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// Info strips credential material from the user.
func (u *User) Info() UserInfo {
	return UserInfo{UserID: u.UserID, Name: u.Name, Email: u.Email}
}

// RegisterRequest is the payload accepted by POST /register.
type RegisterRequest struct {
	UserID   string `json:"user_id" validate:"required,max=64"`
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}
