package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"

	_ "github.com/redmonkez12/expense-api/docs" // Swagger docs (generated)
	"github.com/redmonkez12/expense-api/internal/auth"
	"github.com/redmonkez12/expense-api/internal/config"
	"github.com/redmonkez12/expense-api/internal/database"
	"github.com/redmonkez12/expense-api/internal/email"
	"github.com/redmonkez12/expense-api/internal/expense"
	httpServer "github.com/redmonkez12/expense-api/internal/http"
	"github.com/redmonkez12/expense-api/internal/logging"
	"github.com/redmonkez12/expense-api/internal/payment"
	"github.com/redmonkez12/expense-api/internal/ratelimit"
	"github.com/redmonkez12/expense-api/internal/user"
)

// @title           Expense API
// @version         1.0
// @description     Expense tracking backend with premium membership, CSV export and password reset.

// @host      localhost:5000
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"token_strategy", cfg.Auth.TokenStrategy,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connection
	db, err := startDatabase(ctx, cfg.Database, logger, database.Open, migrateUp)
	if err != nil {
		return err
	}
	defer db.Close()

	// Initialize Redis connection
	redisClient, err := initRedis(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	defer redisClient.Close()

	// Initialize repositories
	userRepo := user.NewRepository(db)
	expenseRepo := expense.NewRepository(db)
	orderRepo := payment.NewOrderRepository(db)

	// Initialize collaborators
	rateLimiter := ratelimit.NewLimiter(redisClient, cfg.RateLimit)

	tokenService, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	hasher, err := auth.NewPasswordHasher(cfg.Auth.PasswordHasher)
	if err != nil {
		return fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	emailService := email.NewService(
		email.NewSMTPSender(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.SMTPUser, cfg.Email.SMTPPassword),
		cfg.Email.FromName,
		cfg.Email.SMTPUser,
		cfg.Email.ClientURL,
	)

	gateway := payment.NewRazorpayClient(cfg.Payment, logger)

	// Initialize services
	authService := auth.NewService(
		userRepo,
		tokenService,
		hasher,
		emailService,
		logger,
		cfg.Auth.AccessTokenDuration,
	)
	expenseService := expense.NewService(expenseRepo, logger, cfg.Export.Dir)
	paymentService := payment.NewService(gateway, orderRepo, cfg.Payment, logger)

	// Initialize router
	router := httpServer.NewRouter(cfg, httpServer.Handlers{
		Auth:           auth.NewHandler(authService, rateLimiter),
		AuthMiddleware: auth.NewMiddleware(tokenService, userRepo),
		Expenses:       expense.NewHandler(expenseService),
		Payments:       payment.NewHandler(paymentService),
		DB:             db,
	}, logger)

	// Initialize HTTP server
	server := httpServer.NewServer(
		":"+cfg.Server.Port,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("shutdown signal received")

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

type (
	openFunc    func(ctx context.Context, cfg config.DatabaseConfig, logger *logging.Logger) (*bun.DB, error)
	migrateFunc func(cfg config.DatabaseConfig, logger *logging.Logger) error
)

// startDatabase connects (open retries until Postgres is up) and then applies
// migrations when DB_AUTO_MIGRATE is set.
func startDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *logging.Logger, open openFunc, migrate migrateFunc) (*bun.DB, error) {
	db, err := open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := migrate(cfg, logger); err != nil {
			db.Close()
			return nil, err
		}
	}

	return db, nil
}

func migrateUp(cfg config.DatabaseConfig, logger *logging.Logger) error {
	migrator, err := database.NewMigrator(cfg.URL())
	if err != nil {
		return fmt.Errorf("failed to prepare migrations: %w", err)
	}
	defer migrator.Close()

	if err := migrator.Up(); err != nil {
		return err
	}

	version, _, err := migrator.Version()
	if err != nil {
		return err
	}
	logger.Info("database migrated", "version", version)
	return nil
}

// initRedis initializes the Redis connection and returns a Redis client
func initRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Verify connection
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}
