package database

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

const pqUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique-constraint failure
// from Postgres or from SQLite (used in tests).
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}

	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
