// Package config loads bot configuration from an optional .env file and the
// environment using viper. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/Sternrassler/bf6-tracker-bot/internal/roster"
	"github.com/Sternrassler/bf6-tracker-bot/pkg/client"
	"github.com/Sternrassler/bf6-tracker-bot/pkg/logging"
	"github.com/Sternrassler/bf6-tracker-bot/pkg/ratelimit"
	"github.com/spf13/viper"
)

// DefaultEnvFile is read when present.
const DefaultEnvFile = ".env"

// ErrMissingToken is returned when DISCORD_BOT_TOKEN is not set.
var ErrMissingToken = errors.New("DISCORD_BOT_TOKEN is required")

// Config stores all bot settings.
type Config struct {
	DiscordToken string
	OwnerID      string

	Tracker TrackerConfig

	RosterPath  string
	RedisURL    string // empty means the in-memory cache
	MetricsAddr string // empty disables the metrics/health server

	Log LogConfig
}

// TrackerConfig holds the tracker.gg client settings.
type TrackerConfig struct {
	APIKey         string
	Clearance      string
	BotManagement  string
	BaseURL        string
	CacheTTL       time.Duration
	MaxConcurrency int
	AttemptTimeout time.Duration
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  logging.LogLevel
	Pretty bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("discord_bot_token", "")
	v.SetDefault("bot_owner_id", "")
	v.SetDefault("trn_api_key", "")
	v.SetDefault("cf_clearance", "")
	v.SetDefault("cf_bm", "")
	v.SetDefault("trn_base_url", client.DefaultBaseURL)
	v.SetDefault("trn_cache_ttl", client.DefaultCacheTTL.String())
	v.SetDefault("trn_max_concurrency", ratelimit.DefaultMaxConcurrency)
	v.SetDefault("trn_attempt_timeout", client.DefaultAttemptTimeout.String())
	v.SetDefault("roster_path", roster.DefaultPath)
	v.SetDefault("redis_url", "")
	v.SetDefault("log_level", string(logging.LevelInfo))
	v.SetDefault("log_pretty", false)
	v.SetDefault("metrics_addr", ":9090")
}

// Load reads envFile (skipped when missing or empty) and the environment.
// It does not require the Discord token; see RequireDiscord.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read %s: %w", envFile, err)
			}
		}
	}

	level, err := logging.ParseLevel(v.GetString("log_level"))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	cfg := &Config{
		DiscordToken: v.GetString("discord_bot_token"),
		OwnerID:      v.GetString("bot_owner_id"),
		Tracker: TrackerConfig{
			APIKey:         v.GetString("trn_api_key"),
			Clearance:      v.GetString("cf_clearance"),
			BotManagement:  v.GetString("cf_bm"),
			BaseURL:        v.GetString("trn_base_url"),
			CacheTTL:       v.GetDuration("trn_cache_ttl"),
			MaxConcurrency: v.GetInt("trn_max_concurrency"),
			AttemptTimeout: v.GetDuration("trn_attempt_timeout"),
		},
		RosterPath:  v.GetString("roster_path"),
		RedisURL:    v.GetString("redis_url"),
		MetricsAddr: v.GetString("metrics_addr"),
		Log: LogConfig{
			Level:  level,
			Pretty: v.GetBool("log_pretty"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Tracker.BaseURL == "" {
		return fmt.Errorf("TRN_BASE_URL must not be empty")
	}
	if c.Tracker.CacheTTL <= 0 {
		return fmt.Errorf("TRN_CACHE_TTL must be positive (got %s)", c.Tracker.CacheTTL)
	}
	if c.Tracker.MaxConcurrency <= 0 {
		return fmt.Errorf("TRN_MAX_CONCURRENCY must be positive (got %d)", c.Tracker.MaxConcurrency)
	}
	if c.Tracker.AttemptTimeout <= 0 {
		return fmt.Errorf("TRN_ATTEMPT_TIMEOUT must be positive (got %s)", c.Tracker.AttemptTimeout)
	}
	if c.RosterPath == "" {
		return fmt.Errorf("ROSTER_PATH must not be empty")
	}
	return nil
}

// RequireDiscord checks the settings only the bot needs.
func (c *Config) RequireDiscord() error {
	if c.DiscordToken == "" {
		return ErrMissingToken
	}
	return nil
}

// ClientConfig converts the tracker settings to a client configuration.
// Store, Solver and Logger are left for the caller.
func (c *Config) ClientConfig() client.Config {
	cfg := client.DefaultConfig(c.Tracker.APIKey)
	cfg.BaseURL = c.Tracker.BaseURL
	cfg.Clearance = c.Tracker.Clearance
	cfg.BotManagement = c.Tracker.BotManagement
	cfg.CacheTTL = c.Tracker.CacheTTL
	cfg.MaxConcurrency = c.Tracker.MaxConcurrency
	cfg.AttemptTimeout = c.Tracker.AttemptTimeout
	return cfg
}

// LoggingConfig converts the log settings for logging.Setup.
func (c *Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Log.Level
	cfg.Pretty = c.Log.Pretty
	return cfg
}
