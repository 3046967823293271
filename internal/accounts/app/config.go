package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	JWTSecret string // Required: symmetric secret for session token signing (min 32 bytes)
	Issuer    string // Optional: issuer claim for session tokens (default: accounts)

	SessionTTL time.Duration // Optional: session token lifetime (default: 30m)
	ResetTTL   time.Duration // Optional: reset token lifetime (default: 30m)

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./accounts.db)
	AvatarProvider       string        // Optional: profile picture source (github, static) (default: github)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	// Best effort: a missing .env file is fine, real env vars still apply.
	_ = godotenv.Load()

	cfg := Config{
		JWTSecret:            os.Getenv("ACCOUNTS_JWT_SECRET"),
		Issuer:               getEnvOrDefault("ACCOUNTS_ISSUER", "accounts"),
		SessionTTL:           getEnvDurationOrDefault("ACCOUNTS_SESSION_TTL", 30*time.Minute),
		ResetTTL:             getEnvDurationOrDefault("ACCOUNTS_RESET_TTL", 30*time.Minute),
		DatabaseFile:         getEnvOrDefault("ACCOUNTS_DATABASE_FILE", "accounts.db"),
		AvatarProvider:       getEnvOrDefault("ACCOUNTS_AVATAR_PROVIDER", "github"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
