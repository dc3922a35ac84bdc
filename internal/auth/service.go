package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/expense-api/internal/logging"
	"github.com/redmonkez12/expense-api/internal/user"
)

const (
	minPasswordLen = 8
	resetTokenTTL  = time.Hour
)

// Service handles authentication business logic
type Service struct {
	userRepo            *user.Repository
	tokenService        TokenService
	hasher              PasswordHasher
	emailService        EmailService
	logger              *logging.Logger
	accessTokenDuration time.Duration
	now                 func() time.Time
}

func NewService(
	userRepo *user.Repository,
	tokenService TokenService,
	hasher PasswordHasher,
	emailService EmailService,
	logger *logging.Logger,
	accessTokenDuration time.Duration,
) *Service {
	return &Service{
		userRepo:            userRepo,
		tokenService:        tokenService,
		hasher:              hasher,
		emailService:        emailService,
		logger:              logger,
		accessTokenDuration: accessTokenDuration,
		now:                 time.Now,
	}
}

// Register creates a new account and signs the user in.
func (s *Service) Register(ctx context.Context, name, email, password string) (*Registration, error) {
	if len(password) < minPasswordLen {
		return nil, ErrPasswordTooShort
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := s.userRepo.Create(ctx, strings.TrimSpace(name), normalizeEmail(email), passwordHash)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, user.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := s.issueToken(newUser.ID, newUser.Email)
	if err != nil {
		return nil, err
	}

	return &Registration{AuthTokens: *tokens, User: newUser}, nil
}

// Login authenticates a user and returns an access token
func (s *Service) Login(ctx context.Context, email, password string) (*AuthTokens, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	existingUser, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Verify(existingUser.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(existingUser.ID, existingUser.Email)
}

// GetUser returns the profile of an authenticated user.
func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// RequestPasswordReset issues a one hour reset token and mails it to the user.
// Only the token digest is stored; the raw token exists in the email alone.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	existingUser, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	token, err := generateResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	expiresAt := s.now().UTC().Add(resetTokenTTL)
	if err := s.userRepo.SetResetToken(ctx, existingUser.ID, hashToken(token), expiresAt); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := s.emailService.SendPasswordResetEmail(ctx, existingUser.Email, token); err != nil {
		s.logger.Warn("failed to send password reset email", "user_id", existingUser.ID, "error", err)
		return fmt.Errorf("%w: %w", ErrEmailDelivery, err)
	}

	return nil
}

// ResetPassword replaces the password of the user holding a live reset token.
// The token is consumed by the same write, so it works at most once.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return ErrPasswordTooShort
	}
	if token == "" {
		return ErrInvalidResetToken
	}

	now := s.now().UTC()
	digest := hashToken(token)

	existingUser, err := s.userRepo.GetByResetToken(ctx, digest, now)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to look up reset token: %w", err)
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.ConsumeResetToken(ctx, existingUser.ID, digest, passwordHash, now); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

func (s *Service) issueToken(userID uuid.UUID, email string) (*AuthTokens, error) {
	token, err := s.tokenService.CreateToken(userID, email, s.accessTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	return &AuthTokens{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(s.accessTokenDuration.Seconds()),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
