package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account identity. Immutable after signup.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// SignupRequest is the payload for creating a new account.
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=4,max=128"`
}

// AuthResponse is returned after successful login or signup.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
