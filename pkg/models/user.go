package models

import (
	"time"
)

// User is a row of the mvp_users table
type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password"`
	Interests    []string  `json:"interests" db:"interests"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserView is the public projection returned by the auth endpoints
type UserView struct {
	ID        int64    `json:"id"`
	Email     string   `json:"email"`
	Username  string   `json:"username"`
	Interests []string `json:"interests"`
}

// View returns the public projection of the user
func (u *User) View() UserView {
	interests := u.Interests
	if interests == nil {
		interests = []string{}
	}
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Interests: interests,
	}
}

// SignupRequest is the body of POST /api/v1/auth/signup
type SignupRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// SigninRequest is the body of POST /api/v1/auth/signin
type SigninRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned by signup and signin
type AuthResponse struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    UserView `json:"user"`
}
