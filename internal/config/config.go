package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr        = ":8080"
	defaultAPIBaseURL      = "https://joulepoint.platform-api-test.joulepoint.com"
	defaultCredentialsDB   = "/data/fleet_console.db"
	defaultRefreshInterval = 30 * time.Second
	defaultRequestTimeout  = 15 * time.Second
)

// Config stores runtime settings loaded from environment variables.
type Config struct {
	HTTPAddr          string
	APIBaseURL        string
	CredentialsDBPath string
	RefreshInterval   time.Duration
	RequestTimeout    time.Duration
	LogLevel          slog.Level
}

// Load builds Config from the environment, reading an optional .env file
// first. Missing or invalid values fall back to stable defaults.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr:          getenv("HTTP_ADDR", defaultHTTPAddr),
		APIBaseURL:        getenv("API_BASE_URL", defaultAPIBaseURL),
		CredentialsDBPath: getenv("CREDENTIALS_DB_PATH", defaultCredentialsDB),
		RefreshInterval:   parseDuration("REFRESH_INTERVAL", defaultRefreshInterval),
		RequestTimeout:    parseDuration("REQUEST_TIMEOUT", defaultRequestTimeout),
		LogLevel:          parseLogLevel(getenv("LOG_LEVEL", "info")),
	}
}

// CredentialsDBDir returns the target directory for CredentialsDBPath.
func (c Config) CredentialsDBDir() string {
	return filepath.Dir(c.CredentialsDBPath)
}

func getenv(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	value, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
