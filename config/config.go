package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DBConfig struct {
	Driver   string // postgres | sqlite
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	DSN      string // overrides the individual fields when set
	Debug    bool
}

type Config struct {
	Env  string
	Port string
	DB   DBConfig

	LogLevel string

	BodyLimitBytes  int
	AllowedOrigins  string
	RateLimitMax    int
	RateLimitWindow time.Duration

	JWTSecret []byte
	JWTTTL    time.Duration

	// Location is the business time zone used for receipt numbering and statistics ranges.
	Location           *time.Location
	ReceiptMaxAttempts int

	IdempotencyTTL           time.Duration
	IdempotencyPurgeSchedule string
}

// Load reads an optional .env file and builds the configuration from the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Env:      getEnv("APP_ENV", "development"),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DB: DBConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			Host:     getEnv("DB_HOST", "db"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "staffhub"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			DSN:      getEnv("DB_DSN", ""),
			Debug:    getEnvBool("DB_DEBUG", false),
		},
		AllowedOrigins:           getEnv("ALLOWED_ORIGINS", "*"),
		RateLimitMax:             getEnvInt("RATE_LIMIT_MAX", 60),
		RateLimitWindow:          time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
		JWTTTL:                   time.Duration(getEnvInt("JWT_TTL_HOURS", 24)) * time.Hour,
		ReceiptMaxAttempts:       getEnvInt("RECEIPT_MAX_ATTEMPTS", 5),
		IdempotencyTTL:           time.Duration(getEnvInt("IDEMPOTENCY_TTL_HOURS", 24)) * time.Hour,
		IdempotencyPurgeSchedule: getEnv("IDEMPOTENCY_PURGE_SCHEDULE", "@hourly"),
	}

	// Fiber default BodyLimit is 4MB; BODY_LIMIT_BYTES wins over BODY_LIMIT_MB.
	cfg.BodyLimitBytes = getEnvInt("BODY_LIMIT_BYTES", 0)
	if cfg.BodyLimitBytes <= 0 {
		cfg.BodyLimitBytes = getEnvInt("BODY_LIMIT_MB", 4) * 1024 * 1024
	}

	secret := getEnv("JWT_SECRET_KEY", "")
	if secret == "" {
		secret = getEnv("JWT_SECRET", "")
	}
	if secret == "" {
		return nil, errors.New("JWT secret not configured (set JWT_SECRET_KEY or JWT_SECRET)")
	}
	cfg.JWTSecret = []byte(secret)

	loc, err := time.LoadLocation(getEnv("BUSINESS_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if cfg.DB.Driver != "postgres" && cfg.DB.Driver != "sqlite" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}
	if cfg.ReceiptMaxAttempts < 1 {
		return nil, fmt.Errorf("RECEIPT_MAX_ATTEMPTS must be at least 1, got %d", cfg.ReceiptMaxAttempts)
	}

	return cfg, nil
}

// PostgresDSN renders the key/value DSN understood by the pgx driver.
func (c DBConfig) PostgresDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return def
}
