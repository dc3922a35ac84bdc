package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/expense-api/internal/user"
)

// TokenService defines the interface for token creation and validation.
// Implementations include PasetoService (PASETO v4.local) and JWTService (HS256).
type TokenService interface {
	CreateToken(userID uuid.UUID, email string, duration time.Duration) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// PasswordHasher hashes and verifies credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(encodedHash, password string) bool
}

// EmailService defines the interface for email operations
type EmailService interface {
	SendPasswordResetEmail(ctx context.Context, toEmail, token string) error
}

// AccountLookup loads the account behind an authenticated request.
type AccountLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// RateLimiter throttles unauthenticated endpoints.
type RateLimiter interface {
	CheckIPRateLimitWithPurpose(ctx context.Context, ip, purpose string) (bool, error)
	RecordIPRequestWithPurpose(ctx context.Context, ip, purpose string) error
	CheckEmailCooldown(ctx context.Context, email string) (bool, error)
	SetEmailCooldown(ctx context.Context, email string) error
}
