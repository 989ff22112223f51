package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Stripe   StripeConfig
	Mail     MailConfig
	Logging  LoggingConfig
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// PublicURL is the externally visible base URL of the product
	// (dashboard origin). Checkout redirect URLs are built from it.
	PublicURL          string
	CORSAllowedOrigins string
	Environment        string
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// For SQLite
	Path string
}

// StripeConfig contains Stripe billing configuration
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	// LaunchCouponCode is the promo code customers type in; when it
	// matches (case-insensitively), LaunchCouponID is attached to the
	// checkout session.
	LaunchCouponCode string
	LaunchCouponID   string
	// PaymentLink is an optional hosted payment link surfaced to the
	// frontend; the server never redirects through it.
	PaymentLink string
}

// MailConfig contains Mailjet configuration
type MailConfig struct {
	APIKey    string
	SecretKey string
	FromEmail string
	FromName  string
	// FallbackNotifyEmail receives owner notifications when the
	// feedback's project owner cannot be resolved. Empty disables the
	// fallback.
	FallbackNotifyEmail string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string
	Format     string // json or console
	OutputPath string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors as it's optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:               getEnv("SERVER_HOST", "0.0.0.0"),
			Port:               getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:        getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:       getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout:    getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			PublicURL:          getEnv("PUBLIC_URL", ""),
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			Environment:        getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "quickfeedback"),
			User:            getEnv("DB_USER", ""),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			Path:            getEnv("DB_PATH", "./data.db"),
		},
		Stripe: StripeConfig{
			SecretKey:        getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret:    getEnv("STRIPE_WEBHOOK_SECRET", ""),
			LaunchCouponCode: getEnv("LAUNCH_COUPON_CODE", "LAUNCH50"),
			LaunchCouponID:   getEnv("STRIPE_LAUNCH_COUPON_ID", ""),
			PaymentLink:      getEnv("STRIPE_PAYMENT_LINK", ""),
		},
		Mail: MailConfig{
			APIKey:              getEnv("MAILJET_API_KEY", ""),
			SecretKey:           getEnv("MAILJET_SECRET_KEY", ""),
			FromEmail:           getEnv("MAIL_FROM", "onboarding@quickfeedback.dev"),
			FromName:            getEnv("MAIL_FROM_NAME", "QuickFeedback"),
			FallbackNotifyEmail: getEnv("NOTIFY_FALLBACK_EMAIL", ""),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			OutputPath: getEnv("LOG_OUTPUT", "stdout"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
