// Package config holds the environment configuration of the backend and the
// static reference data used by the scoring engine.
package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration read from the environment.
type Config struct {
	Port string

	// Storage
	DatabaseDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Auth
	JWTSecret string

	// Rate limiting
	RateLimit       int
	RateLimitWindow time.Duration

	// Reputation
	ReputationCacheTTL time.Duration

	// Optional YAML file overriding the channel effectiveness table
	ChannelTablePath string

	// Mediation advisor
	AdvisorProvider string
	AdvisorAPIKey   string
	AdvisorModel    string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads .env (if present) and the process environment. It does not
// validate; callers that need a database call Validate.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file loaded", "error", err)
	}

	return &Config{
		Port: getEnvOrDefault("PORT", "8080"),

		DatabaseDSN:   os.Getenv("DATABASE_DSN"),
		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JWTSecret: os.Getenv("JWT_SECRET"),

		RateLimit:       getEnvInt("RATE_LIMIT", 60),
		RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),

		ReputationCacheTTL: getEnvDuration("REPUTATION_CACHE_TTL", 10*time.Minute),

		ChannelTablePath: os.Getenv("CHANNEL_TABLE_PATH"),

		AdvisorProvider: strings.ToLower(os.Getenv("ADVISOR_PROVIDER")),
		AdvisorAPIKey:   os.Getenv("ADVISOR_API_KEY"),
		AdvisorModel:    os.Getenv("ADVISOR_MODEL"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "text"),
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.DatabaseDSN == "" {
		return errors.New("DATABASE_DSN environment variable is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is required")
	}
	if c.RateLimit <= 0 {
		return errors.New("RATE_LIMIT must be positive")
	}
	if c.RateLimitWindow <= 0 {
		return errors.New("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

// SlogLevel maps LOG_LEVEL to a slog level. Unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
