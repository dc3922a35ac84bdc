package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/redmonkez12/expense-api/internal/auth"
	"github.com/redmonkez12/expense-api/internal/config"
	"github.com/redmonkez12/expense-api/internal/expense"
	"github.com/redmonkez12/expense-api/internal/httputil"
	"github.com/redmonkez12/expense-api/internal/logging"
	"github.com/redmonkez12/expense-api/internal/payment"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth           *auth.Handler
	AuthMiddleware *auth.Middleware
	Expenses       *expense.Handler
	Payments       *payment.Handler
	DB             Pinger
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, h Handlers, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Auth-Token"},
			ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders)               // Security headers on all responses
	r.Use(middleware.Recoverer)          // Recover from panics
	r.Use(middleware.RequestID)          // Add request ID
	if cfg.Server.TrustProxy {
		r.Use(middleware.RealIP) // Set RemoteAddr from proxy headers
	}
	r.Use(logging.RequestLogger(logger)) // Structured logging with request context
	r.Use(middleware.Compress(5))        // Compress responses

	r.Get("/health", healthHandler(h.DB))

	// Swagger UI - only in development
	if cfg.Server.IsDevelopment() {
		logger.Info("swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/forgot-password", h.Auth.ForgotPassword)
			r.Post("/reset-password/{token}", h.Auth.ResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(h.AuthMiddleware.RequireAuth)
				r.Get("/", h.Auth.Me)
				r.Get("/me", h.Auth.Me)
			})
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Use(h.AuthMiddleware.RequireAuth)
			r.Get("/", h.Expenses.List)
			r.Post("/", h.Expenses.Create)
			r.With(h.AuthMiddleware.RequirePremium).Get("/download", h.Expenses.Download)
			r.Put("/{id}", h.Expenses.Update)
			r.Delete("/{id}", h.Expenses.Delete)
		})

		r.Route("/payment", func(r chi.Router) {
			r.Use(h.AuthMiddleware.RequireAuth)
			r.Post("/create-order", h.Payments.CreateOrder)
			r.Post("/verify", h.Payments.Verify)
		})
	})

	return r
}

// healthHandler reports liveness and database reachability
// @Summary      Health check
// @Description  Check if the API and its database are reachable
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Failure      503 {object} map[string]string
// @Router       /health [get]
func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				logging.GetLoggerFromContext(r.Context()).Error("health check: database unreachable", "error", err.Error())
				httputil.RespondJSON(w, map[string]string{"status": "database unreachable"}, http.StatusServiceUnavailable)
				return
			}
		}
		httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
	}
}
