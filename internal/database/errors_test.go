package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"pq unique", &pq.Error{Code: "23505"}, true},
		{"wrapped pq unique", fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}), true},
		{"pq other", &pq.Error{Code: "23503"}, false},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)"), true},
		{"unrelated", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err))
		})
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	assert.NoError(t, err)
	// every version ships an up and a down file
	assert.Len(t, entries, 6)
}
