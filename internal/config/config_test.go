package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Sternrassler/bf6-tracker-bot/pkg/client"
	"github.com/Sternrassler/bf6-tracker-bot/pkg/logging"
)

var envKeys = []string{
	"DISCORD_BOT_TOKEN", "BOT_OWNER_ID", "TRN_API_KEY", "CF_CLEARANCE", "CF_BM",
	"TRN_BASE_URL", "TRN_CACHE_TTL", "TRN_MAX_CONCURRENCY", "TRN_ATTEMPT_TIMEOUT",
	"ROSTER_PATH", "REDIS_URL", "LOG_LEVEL", "LOG_PRETTY", "METRICS_ADDR",
}

// clearEnv isolates a test from the developer's environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Tracker.BaseURL != client.DefaultBaseURL {
		t.Errorf("BaseURL = %q", cfg.Tracker.BaseURL)
	}
	if cfg.Tracker.CacheTTL != 30*time.Second {
		t.Errorf("CacheTTL = %v, want 30s", cfg.Tracker.CacheTTL)
	}
	if cfg.Tracker.MaxConcurrency != 4 {
		t.Errorf("MaxConcurrency = %d, want 4", cfg.Tracker.MaxConcurrency)
	}
	if cfg.Tracker.AttemptTimeout != 15*time.Second {
		t.Errorf("AttemptTimeout = %v, want 15s", cfg.Tracker.AttemptTimeout)
	}
	if cfg.RosterPath != "players.json" {
		t.Errorf("RosterPath = %q", cfg.RosterPath)
	}
	if cfg.MetricsAddr != ":9090" {
		t.Errorf("MetricsAddr = %q", cfg.MetricsAddr)
	}
	if cfg.Log.Level != logging.LevelInfo || cfg.Log.Pretty {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if err := cfg.RequireDiscord(); !errors.Is(err, ErrMissingToken) {
		t.Errorf("RequireDiscord() = %v, want ErrMissingToken", err)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, strings.Join([]string{
		"DISCORD_BOT_TOKEN=file-token",
		"TRN_API_KEY=file-key",
		"CF_CLEARANCE=clear",
		"TRN_CACHE_TTL=45s",
		"LOG_PRETTY=true",
	}, "\n"))

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DiscordToken != "file-token" {
		t.Errorf("DiscordToken = %q", cfg.DiscordToken)
	}
	if cfg.Tracker.APIKey != "file-key" || cfg.Tracker.Clearance != "clear" {
		t.Errorf("Tracker = %+v", cfg.Tracker)
	}
	if cfg.Tracker.CacheTTL != 45*time.Second {
		t.Errorf("CacheTTL = %v, want 45s", cfg.Tracker.CacheTTL)
	}
	if !cfg.Log.Pretty {
		t.Error("LOG_PRETTY from file should be honoured")
	}
	if err := cfg.RequireDiscord(); err != nil {
		t.Errorf("RequireDiscord() = %v", err)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "TRN_API_KEY=file-key\nTRN_MAX_CONCURRENCY=2\n")
	t.Setenv("TRN_API_KEY", "env-key")
	t.Setenv("REDIS_URL", "redis://localhost:6379/2")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Tracker.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env-key", cfg.Tracker.APIKey)
	}
	if cfg.Tracker.MaxConcurrency != 2 {
		t.Errorf("MaxConcurrency = %d, want 2", cfg.Tracker.MaxConcurrency)
	}
	if cfg.RedisURL != "redis://localhost:6379/2" {
		t.Errorf("RedisURL = %q", cfg.RedisURL)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		errorMsg string
	}{
		{"zero ttl", "TRN_CACHE_TTL", "0s", "TRN_CACHE_TTL"},
		{"negative concurrency", "TRN_MAX_CONCURRENCY", "-1", "TRN_MAX_CONCURRENCY"},
		{"zero timeout", "TRN_ATTEMPT_TIMEOUT", "0s", "TRN_ATTEMPT_TIMEOUT"},
		{"bad log level", "LOG_LEVEL", "loud", "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load("")
			if err == nil {
				t.Fatal("Expected error but got none")
			}
			if !strings.Contains(err.Error(), tt.errorMsg) {
				t.Errorf("Error = %q, want it to mention %s", err.Error(), tt.errorMsg)
			}
		})
	}
}

func TestClientConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRN_API_KEY", "k")
	t.Setenv("CF_BM", "bm")
	t.Setenv("TRN_BASE_URL", "http://localhost:8080/api")
	t.Setenv("TRN_ATTEMPT_TIMEOUT", "5s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cc := cfg.ClientConfig()
	if cc.APIKey != "k" || cc.BotManagement != "bm" {
		t.Errorf("ClientConfig() = %+v", cc)
	}
	if cc.BaseURL != "http://localhost:8080/api" {
		t.Errorf("BaseURL = %q", cc.BaseURL)
	}
	if cc.AttemptTimeout != 5*time.Second {
		t.Errorf("AttemptTimeout = %v", cc.AttemptTimeout)
	}
	if cc.UserAgent != client.DefaultUserAgent {
		t.Errorf("UserAgent = %q", cc.UserAgent)
	}

	lc := cfg.LoggingConfig()
	if lc.Level != logging.LevelInfo || lc.Output == nil {
		t.Errorf("LoggingConfig() = %+v", lc)
	}
}
