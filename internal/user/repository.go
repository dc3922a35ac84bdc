package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/expense-api/internal/database"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// Repository handles user data persistence
type Repository struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user into the database
func (r *Repository) Create(ctx context.Context, name, email, passwordHash string) (*User, error) {
	now := time.Now().UTC()
	dbUser := &database.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		IsPremium:    false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := r.db.NewInsert().
		Model(dbUser).
		Exec(ctx)

	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetByEmail retrieves a user by email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("email = ?", email).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetByID retrieves a user by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// SetResetToken stores a reset token digest and its expiry, replacing any pending one.
func (r *Repository) SetResetToken(ctx context.Context, userID uuid.UUID, tokenDigest string, expiresAt time.Time) error {
	result, err := r.db.NewUpdate().
		Model((*database.User)(nil)).
		Set("reset_password_token = ?", tokenDigest).
		Set("reset_password_expire = ?", expiresAt.UTC()).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", userID).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}

	return requireOneRow(result)
}

// GetByResetToken finds the user holding tokenDigest whose expiry is after now.
func (r *Repository) GetByResetToken(ctx context.Context, tokenDigest string, now time.Time) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("reset_password_token = ?", tokenDigest).
		Where("reset_password_expire > ?", now.UTC()).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by reset token: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// ConsumeResetToken sets a new password hash and clears both reset fields.
// The update only matches while the token is still pending, so a token can be consumed once.
func (r *Repository) ConsumeResetToken(ctx context.Context, userID uuid.UUID, tokenDigest, passwordHash string, now time.Time) error {
	result, err := r.db.NewUpdate().
		Model((*database.User)(nil)).
		Set("password_hash = ?", passwordHash).
		Set("reset_password_token = NULL").
		Set("reset_password_expire = NULL").
		Set("updated_at = ?", now.UTC()).
		Where("id = ?", userID).
		Where("reset_password_token = ?", tokenDigest).
		Where("reset_password_expire > ?", now.UTC()).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	return requireOneRow(result)
}

func requireOneRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// mapDBUserToModel converts database model to domain model
func mapDBUserToModel(dbu *database.User) *User {
	return &User{
		ID:                  dbu.ID,
		Name:                dbu.Name,
		Email:               dbu.Email,
		PasswordHash:        dbu.PasswordHash,
		IsPremium:           dbu.IsPremium,
		ResetPasswordToken:  dbu.ResetPasswordToken,
		ResetPasswordExpire: dbu.ResetPasswordExpire,
		CreatedAt:           dbu.CreatedAt,
		UpdatedAt:           dbu.UpdatedAt,
	}
}
