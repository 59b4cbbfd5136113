package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	DatabaseURL       string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	JWTSecret         string
	TokenTTL          time.Duration
	RedisURL          string
	PurchaseChannel   string
	LowStockThreshold int
	LogLevel          slog.Level
	LogFormat         string
	CORSOrigins       []string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds the config from a lookup function so tests can supply a map.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Port:            get("PORT", "8080"),
		DatabaseURL:     get("DATABASE_URL", ""),
		DBHost:          get("DB_HOST", "localhost"),
		DBPort:          get("DB_PORT", "5432"),
		DBUser:          get("DB_USER", "postgres"),
		DBPassword:      get("DB_PASSWORD", ""),
		DBName:          get("DB_NAME", "storefront"),
		JWTSecret:       get("JWT_SECRET", ""),
		RedisURL:        get("REDIS_URL", ""),
		PurchaseChannel: get("PURCHASE_CHANNEL", "purchases"),
		LogFormat:       strings.ToLower(get("LOG_FORMAT", "text")),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	ttl, err := time.ParseDuration(get("TOKEN_TTL", "24h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_TTL %q", getenv("TOKEN_TTL"))
	}
	cfg.TokenTTL = ttl

	threshold, err := strconv.Atoi(get("LOW_STOCK_THRESHOLD", "10"))
	if err != nil || threshold < 0 {
		return nil, fmt.Errorf("invalid LOW_STOCK_THRESHOLD %q", getenv("LOW_STOCK_THRESHOLD"))
	}
	cfg.LowStockThreshold = threshold

	if err := cfg.LogLevel.UnmarshalText([]byte(get("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	for _, o := range strings.Split(get("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	return cfg, nil
}

// DSN prefers DATABASE_URL over the discrete DB_* settings.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

// Logger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c *Config) Logger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
