package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/expense-api/internal/httputil"
)

func TestRequireAuth(t *testing.T) {
	f := newFixture(t)
	router := newTestRouter(f, &fakeLimiter{})

	reg, err := f.service.Register(context.Background(), "Asha", "asha@example.com", "password123")
	require.NoError(t, err)

	expired, err := f.tokens.CreateToken(reg.User.ID, reg.User.Email, -time.Minute)
	require.NoError(t, err)
	unknownUser, err := f.tokens.CreateToken(uuid.New(), "ghost@example.com", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		value    string
		wantCode int
		wantErr  string
	}{
		{"no header", "", "", http.StatusUnauthorized, httputil.CodeMissingAuth},
		{"wrong scheme", "Authorization", "Basic abc", http.StatusUnauthorized, httputil.CodeInvalidAuthHeader},
		{"garbage token", "Authorization", "Bearer garbage", http.StatusUnauthorized, httputil.CodeInvalidToken},
		{"expired token", "Authorization", "Bearer " + expired, http.StatusUnauthorized, httputil.CodeTokenExpired},
		{"deleted user", "Authorization", "Bearer " + unknownUser, http.StatusNotFound, httputil.CodeUserNotFound},
		{"x-auth-token", "X-Auth-Token", reg.Token, http.StatusOK, ""},
		{"bearer", "Authorization", "Bearer " + reg.Token, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, decodeError(t, rec).Code)
			}
		})
	}
}

func TestRequirePremium(t *testing.T) {
	f := newFixture(t)
	router := newTestRouter(f, &fakeLimiter{})

	reg, err := f.service.Register(context.Background(), "Asha", "asha@example.com", "password123")
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodGet, "/premium", nil, reg.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access denied. Premium membership required.", decodeError(t, rec).Error)
}
