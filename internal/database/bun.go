package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/redmonkez12/expense-api/internal/config"
	"github.com/redmonkez12/expense-api/internal/logging"
)

const connectAttempts = 10

// NewBunDB creates a new Bun DB instance from an existing sql.DB connection
func NewBunDB(sqlDB *sql.DB) *bun.DB {
	return bun.NewDB(sqlDB, pgdialect.New())
}

// Open connects to Postgres, retrying with exponential backoff while the server comes up.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *logging.Logger) (*bun.DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ping := func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return sqlDB.PingContext(pingCtx)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), connectAttempts),
		ctx,
	)
	notify := func(err error, wait time.Duration) {
		logger.Warn("database not ready, retrying", "error", err, "retry_in", wait.String())
	}

	if err := backoff.RetryNotify(ping, policy, notify); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return NewBunDB(sqlDB), nil
}
