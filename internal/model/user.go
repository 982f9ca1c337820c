package model

import "time"

// User is the internal account record held by the credential store.
// The password hash never leaves the auth package; handlers only ever see UserInfo.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	IsActive     bool
}

// UserInfo is the public-safe projection of a User.
type UserInfo struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	IsActive  bool      `json:"is_active"`
}

// Info returns the public projection of the user.
func (u User) Info() UserInfo {
	return UserInfo{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		IsActive:  u.IsActive,
	}
}
