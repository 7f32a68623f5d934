package models

import "time"

type Role string

const (
	RoleCandidate Role = "candidate"
	RoleCompany   Role = "company"
)

func (r Role) Valid() bool {
	return r == RoleCandidate || r == RoleCompany
}

type User struct {
	ID             int64     `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	HashedPassword string    `json:"-" db:"hashed_password"`
	Role           Role      `json:"role" db:"role"`
	CreatedAt      time.Time `json:"-" db:"created_at"`
}

type UserCreate struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u *User) Response() UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Role: u.Role}
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
