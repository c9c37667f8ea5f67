package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.RefreshInterval != 30*time.Second {
		t.Fatalf("RefreshInterval = %v, want 30s", cfg.RefreshInterval)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("LogLevel = %v, want info", cfg.LogLevel)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDR", "127.0.0.1:9090")
	t.Setenv("API_BASE_URL", "https://fleet.example.com")
	t.Setenv("REFRESH_INTERVAL", "2m")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	if cfg.HTTPAddr != "127.0.0.1:9090" {
		t.Fatalf("HTTPAddr = %q, want override", cfg.HTTPAddr)
	}
	if cfg.APIBaseURL != "https://fleet.example.com" {
		t.Fatalf("APIBaseURL = %q, want override", cfg.APIBaseURL)
	}
	if cfg.RefreshInterval != 2*time.Minute {
		t.Fatalf("RefreshInterval = %v, want 2m", cfg.RefreshInterval)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("LogLevel = %v, want debug", cfg.LogLevel)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("REFRESH_INTERVAL", "soon")
	t.Setenv("REQUEST_TIMEOUT", "-5s")
	t.Setenv("LOG_LEVEL", "loud")
	t.Setenv("HTTP_ADDR", "   ")

	cfg := Load()
	if cfg.RefreshInterval != 30*time.Second {
		t.Fatalf("RefreshInterval = %v, want default on parse failure", cfg.RefreshInterval)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Fatalf("RequestTimeout = %v, want default for non-positive value", cfg.RequestTimeout)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("LogLevel = %v, want info fallback", cfg.LogLevel)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q, want default for blank value", cfg.HTTPAddr)
	}
}

func TestCredentialsDBDir(t *testing.T) {
	cfg := Config{CredentialsDBPath: "/data/fleet_console.db"}
	if got := cfg.CredentialsDBDir(); got != "/data" {
		t.Fatalf("CredentialsDBDir() = %q, want /data", got)
	}
}
