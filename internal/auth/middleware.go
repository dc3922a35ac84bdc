package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/redmonkez12/expense-api/internal/httputil"
	"github.com/redmonkez12/expense-api/internal/logging"
	"github.com/redmonkez12/expense-api/internal/user"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const (
	UserIDContextKey    ContextKey = "user_id"
	UserEmailContextKey ContextKey = "user_email"
)

// Middleware handles authentication for protected routes
type Middleware struct {
	tokenService TokenService
	accounts     AccountLookup
}

func NewMiddleware(tokenService TokenService, accounts AccountLookup) *Middleware {
	return &Middleware{tokenService: tokenService, accounts: accounts}
}

// RequireAuth is a middleware that validates the access token
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string

		// Priority 1: Authorization header
		if authHeader := r.Header.Get("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "" {
				token = parts[1]
			} else {
				httputil.RespondErrorWithCode(w, "invalid authorization header format", httputil.CodeInvalidAuthHeader, http.StatusUnauthorized)
				return
			}
		}

		// Priority 2: x-auth-token header used by older clients
		if token == "" {
			token = strings.TrimSpace(r.Header.Get("X-Auth-Token"))
		}

		if token == "" {
			httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
			return
		}

		claims, err := m.tokenService.VerifyToken(token)
		if err != nil {
			if errors.Is(err, ErrExpiredToken) {
				httputil.RespondErrorWithCode(w, "token has expired", httputil.CodeTokenExpired, http.StatusUnauthorized)
				return
			}
			httputil.RespondErrorWithCode(w, "invalid token", httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			httputil.RespondErrorWithCode(w, "invalid user ID in token", httputil.CodeInvalidTokenUserID, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDContextKey, userID)
		ctx = context.WithValue(ctx, UserEmailContextKey, claims.Email)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePremium rejects authenticated users without premium membership.
// It must run after RequireAuth.
func (m *Middleware) RequirePremium(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.GetLoggerFromContext(r.Context())

		userID, ok := GetUserIDFromContext(r.Context())
		if !ok {
			httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
			return
		}

		account, err := m.accounts.GetByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				httputil.RespondErrorWithCode(w, "User does not exist", httputil.CodeUserNotFound, http.StatusNotFound)
				return
			}
			logger.Error("premium check failed", "user_id", userID, "error", err.Error())
			httputil.RespondErrorWithCode(w, "internal server error", httputil.CodeInternalError, http.StatusInternalServerError)
			return
		}

		if !account.IsPremium {
			httputil.RespondErrorWithCode(w, "Access denied. Premium membership required.", httputil.CodePremiumRequired, http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(uuid.UUID)
	return userID, ok
}

// GetUserEmailFromContext extracts the user email from the request context
func GetUserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailContextKey).(string)
	return email, ok
}

// WithUserID returns ctx carrying userID the way RequireAuth stores it.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDContextKey, userID)
}
