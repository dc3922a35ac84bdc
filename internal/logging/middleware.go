package logging

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ContextKey is a type for context keys
type ContextKey string

const (
	// LoggerContextKey is the key for the logger in the request context
	LoggerContextKey ContextKey = "logger"
)

// Path segments whose successor is a secret and must not reach the logs.
var secretPathSegments = []string{"reset-password"}

// RequestLogger is a middleware that logs HTTP requests
func RequestLogger(logger *Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi's RequestID middleware runs first and sets this
			requestID := middleware.GetReqID(r.Context())

			reqLogger := logger.WithFields(map[string]any{
				"request_id": requestID,
				"method":     r.Method,
				"path":       RedactPath(r.URL.Path),
				"remote_ip":  r.RemoteAddr,
			})

			reqLogger.Debug("request started")

			ctx := context.WithValue(r.Context(), LoggerContextKey, reqLogger)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			logLevel := slog.LevelInfo
			if status >= 500 {
				logLevel = slog.LevelError
			} else if status >= 400 {
				logLevel = slog.LevelWarn
			}

			attrs := []any{
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				attrs = append(attrs, "route", rctx.RoutePattern())
			}

			reqLogger.Log(r.Context(), logLevel, "request completed", attrs...)
		})
	}
}

// RedactPath replaces path segments that carry secrets (reset tokens) with a placeholder.
func RedactPath(path string) string {
	parts := strings.Split(path, "/")
	for i := 0; i < len(parts)-1; i++ {
		for _, seg := range secretPathSegments {
			if parts[i] == seg && parts[i+1] != "" {
				parts[i+1] = "[redacted]"
			}
		}
	}
	return strings.Join(parts, "/")
}

// GetLoggerFromContext retrieves the logger from the request context
func GetLoggerFromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	// Fallback to a default logger if not found
	return NewLogger(true)
}

// WithLogger stores logger in ctx. Services use it for work started outside a request.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}
