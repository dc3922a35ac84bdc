package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/redmonkez12/expense-api/internal/config"
)

// resetTokenBytes is the entropy of a password reset token before hex encoding.
const resetTokenBytes = 20

// NewTokenService builds the token issuer selected by AUTH_TOKEN_STRATEGY.
func NewTokenService(cfg config.AuthConfig) (TokenService, error) {
	switch cfg.TokenStrategy {
	case config.TokenStrategyPaseto:
		return NewPasetoService([]byte(cfg.PasetoKey))
	case config.TokenStrategyJWT:
		return NewJWTService([]byte(cfg.JWTSecret))
	default:
		return nil, fmt.Errorf("unknown token strategy %q", cfg.TokenStrategy)
	}
}

// generateResetToken returns a 40 character hex token.
func generateResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// hashToken returns the digest stored in place of the raw reset token.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
