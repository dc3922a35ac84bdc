package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	TokenStrategyPaseto = "paseto"
	TokenStrategyJWT    = "jwt"
)

type Config struct {
	Server    ServerConfig   `envPrefix:"SERVER_"`
	Database  DatabaseConfig `envPrefix:"DB_"`
	Redis     RedisConfig    `envPrefix:"REDIS_"`
	Auth      AuthConfig
	Email     EmailConfig
	Payment   PaymentConfig   `envPrefix:"RAZORPAY_"`
	Export    ExportConfig    `envPrefix:"EXPORT_"`
	RateLimit RateLimitConfig `envPrefix:"RATE_LIMIT_"`
}

type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"5000"`
	Env             string        `env:"ENV" envDefault:"dev"` // dev or prod
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	TrustedOrigins  []string      `env:"TRUSTED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	// Honor X-Forwarded-For / X-Real-IP. Enable only behind a proxy that overwrites them.
	TrustProxy bool `env:"TRUST_PROXY" envDefault:"false"`
}

type DatabaseConfig struct {
	Host           string `env:"HOST" envDefault:"localhost"`
	Port           string `env:"PORT" envDefault:"5432"`
	User           string `env:"USER" envDefault:"postgres"`
	Password       string `env:"PASSWORD" envDefault:"postgres"`
	DBName         string `env:"NAME" envDefault:"expenses"`
	SSLMode        string `env:"SSLMODE" envDefault:"disable"`
	ChannelBinding string `env:"CHANNEL_BINDING"` // "require" for Neon DB, empty for local
	AutoMigrate    bool   `env:"AUTO_MIGRATE" envDefault:"false"`
}

type RedisConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type AuthConfig struct {
	// paseto (v4.local) or jwt (HS256)
	TokenStrategy string `env:"AUTH_TOKEN_STRATEGY" envDefault:"paseto"`
	// PASETO symmetric key (must be 32 bytes for v4.local)
	PasetoKey           string        `env:"PASETO_KEY"`
	JWTSecret           string        `env:"JWT_SECRET"`
	AccessTokenDuration time.Duration `env:"ACCESS_TOKEN_DURATION" envDefault:"1h"`
	// argon2id or bcrypt; both formats are always accepted on login
	PasswordHasher string `env:"PASSWORD_HASHER" envDefault:"argon2id"`
}

type EmailConfig struct {
	SMTPHost     string `env:"SMTP_HOST" envDefault:"smtp.ethereal.email"`
	SMTPPort     string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"EMAIL_USERNAME"`
	SMTPPassword string `env:"EMAIL_PASSWORD"`
	FromName     string `env:"EMAIL_FROM_NAME" envDefault:"Expense Tracker"`
	ClientURL    string `env:"CLIENT_URL" envDefault:"http://localhost:3000"` // Frontend URL for reset links
}

type PaymentConfig struct {
	KeyID          string        `env:"KEY_ID"`
	KeySecret      string        `env:"KEY_SECRET"`
	BaseURL        string        `env:"BASE_URL" envDefault:"https://api.razorpay.com/v1"`
	Amount         int64         `env:"ORDER_AMOUNT" envDefault:"50000"` // smallest currency unit
	Currency       string        `env:"ORDER_CURRENCY" envDefault:"INR"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	MaxRetries     uint64        `env:"MAX_RETRIES" envDefault:"3"`
}

type RateLimitConfig struct {
	IPMaxRequests int64         `env:"IP_MAX_REQUESTS" envDefault:"10"`
	IPWindow      time.Duration `env:"IP_WINDOW" envDefault:"15m"`
	EmailCooldown time.Duration `env:"EMAIL_COOLDOWN" envDefault:"2m"`
}

type ExportConfig struct {
	Dir string `env:"DIR"` // empty means os.TempDir()
}

// Load reads configuration from environment variables.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDatabase reads only the DB_ section. Maintenance commands use it so
// they run without auth or gateway credentials.
func LoadDatabase() (*DatabaseConfig, error) {
	_ = godotenv.Load()

	cfg := &DatabaseConfig{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "DB_"}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Auth.TokenStrategy {
	case TokenStrategyPaseto:
		if len(c.Auth.PasetoKey) != 32 {
			return fmt.Errorf("PASETO_KEY must be exactly 32 bytes, got %d", len(c.Auth.PasetoKey))
		}
	case TokenStrategyJWT:
		if len(c.Auth.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 bytes")
		}
	default:
		return fmt.Errorf("unknown AUTH_TOKEN_STRATEGY %q", c.Auth.TokenStrategy)
	}

	if c.Auth.AccessTokenDuration <= 0 {
		return errors.New("ACCESS_TOKEN_DURATION must be positive")
	}

	if c.Payment.KeyID == "" || c.Payment.KeySecret == "" {
		return errors.New("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET are required")
	}
	if c.Payment.Amount <= 0 {
		return errors.New("RAZORPAY_ORDER_AMOUNT must be positive")
	}

	return nil
}

func (c *DatabaseConfig) ConnectionString() string {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)

	// Add channel_binding if configured (required for Neon DB)
	if c.ChannelBinding != "" {
		connStr += fmt.Sprintf(" channel_binding=%s", c.ChannelBinding)
	}

	return connStr
}

// URL returns the postgres:// form used by the migration driver.
func (c *DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// Address returns Redis connection address (host:port)
func (c *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDevelopment returns true if the environment is set to dev
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "dev"
}
