package logging

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/api/auth/reset-password/abc123", "/api/auth/reset-password/[redacted]"},
		{"/api/auth/reset-password/", "/api/auth/reset-password/"},
		{"/api/expenses/42", "/api/expenses/42"},
		{"/", "/"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RedactPath(tt.in), tt.in)
	}
}

func TestRequestLoggerNeverLogsResetToken(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Post("/api/auth/reset-password/{token}", func(w http.ResponseWriter, r *http.Request) {
		// handler can reach the request-scoped logger
		require.NotNil(t, GetLoggerFromContext(r.Context()))
		w.WriteHeader(http.StatusBadRequest)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/reset-password/supersecrettoken", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	out := buf.String()
	assert.NotContains(t, out, "supersecrettoken")
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"route":"/api/auth/reset-password/{token}"`)
}

func TestGetLoggerFromContextFallback(t *testing.T) {
	assert.NotNil(t, GetLoggerFromContext(context.Background()))

	l := Discard()
	ctx := WithLogger(context.Background(), l)
	assert.Same(t, l, GetLoggerFromContext(ctx))
}
