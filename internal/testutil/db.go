// Package testutil provides in-memory backing services for tests.
package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"

	"github.com/redmonkez12/expense-api/internal/database"
)

// NewDB returns a bun DB over a private in-memory SQLite database with all tables created.
func NewDB(t *testing.T) *bun.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// one connection, otherwise every new conn sees an empty database
	sqlDB.SetMaxOpenConns(1)

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	for _, model := range database.Models() {
		_, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx)
		require.NoError(t, err)
	}

	return db
}

// NewRedis starts a miniredis server and returns a client connected to it.
func NewRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

// SeedUser inserts a user with fake identity data and returns it.
func SeedUser(t *testing.T, db *bun.DB, passwordHash string, premium bool) *database.User {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	u := &database.User{
		ID:           uuid.New(),
		Name:         gofakeit.Name(),
		Email:        gofakeit.Email(),
		PasswordHash: passwordHash,
		IsPremium:    premium,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := db.NewInsert().Model(u).Exec(context.Background())
	require.NoError(t, err)

	return u
}
