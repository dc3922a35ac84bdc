package auth

import (
	"time"

	"github.com/redmonkez12/expense-api/internal/user"
)

// TokenClaims represents the claims carried by an access token
type TokenClaims struct {
	UserID    string    `json:"user_id"` // UUID stored as string in token
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// AuthTokens is returned by login.
type AuthTokens struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"` // seconds
}

// Registration is returned by register.
type Registration struct {
	AuthTokens
	User *user.User `json:"user"`
}
