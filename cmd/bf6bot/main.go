// Command bf6bot runs the Battlefield 6 tracker.gg Discord bot.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sternrassler/bf6-tracker-bot/internal/bot"
	"github.com/Sternrassler/bf6-tracker-bot/internal/commands"
	"github.com/Sternrassler/bf6-tracker-bot/internal/config"
	"github.com/Sternrassler/bf6-tracker-bot/internal/roster"
	"github.com/Sternrassler/bf6-tracker-bot/pkg/cache"
	"github.com/Sternrassler/bf6-tracker-bot/pkg/client"
	"github.com/Sternrassler/bf6-tracker-bot/pkg/logging"
	"github.com/Sternrassler/bf6-tracker-bot/pkg/metrics"
	"github.com/Sternrassler/bf6-tracker-bot/pkg/ratelimit"
	"github.com/Sternrassler/bf6-tracker-bot/pkg/tracker"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load(config.DefaultEnvFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if err := cfg.RequireDiscord(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	logger := logging.Setup(cfg.LoggingConfig())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Cache store
	store, storeCheck, closeStore, err := newStore(ctx, cfg.RedisURL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to set up cache store")
	}
	defer closeStore()

	// Tracker client
	clientCfg := cfg.ClientConfig()
	clientCfg.Store = store
	clientCfg.Logger = &logger

	trn, err := client.New(clientCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create tracker client")
	}

	players, err := roster.Load(cfg.RosterPath, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load roster")
	}

	handler := commands.New(tracker.NewAPI(trn, logger), players, logger)

	discord, err := bot.New(cfg.DiscordToken, cfg.OwnerID, handler, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create bot")
	}

	// HTTP Server
	var srv *http.Server
	if cfg.MetricsAddr != "" {
		srv = newHTTPServer(cfg.MetricsAddr, trn.Limiter(), storeCheck)
		go func() {
			logger.Info().Str("addr", cfg.MetricsAddr).Msg("Starting metrics server")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("Metrics server failed")
			}
		}()
	}

	if err := discord.Open(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Discord")
	}

	select {
	case <-ctx.Done():
		logger.Info().Msg("Shutting down")
	case <-discord.RestartRequested():
		logger.Info().Msg("Restarting")
	}

	if err := discord.Close(); err != nil {
		logger.Warn().Err(err).Msg("Closing Discord session failed")
	}
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}

// newStore returns the Redis store when redisURL is set, else a memory store.
// check reports store reachability for /ready.
func newStore(ctx context.Context, redisURL string, logger zerolog.Logger) (store cache.Store, check func(context.Context) error, closeFn func(), err error) {
	noop := func(context.Context) error { return nil }
	if redisURL == "" {
		logger.Info().Msg("Using in-memory cache")
		return cache.NewMemoryStore(), noop, func() {}, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	redisClient := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		redisClient.Close()
		return nil, nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info().Str("addr", opts.Addr).Msg("Connected to Redis")

	check = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	return cache.NewRedisStore(redisClient), check, func() { redisClient.Close() }, nil
}

func newHTTPServer(addr string, limiter *ratelimit.Limiter, storeCheck func(context.Context) error) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/ready", readyHandler(storeCheck))
	mux.HandleFunc("/limiter", limiterHandler(limiter))
	mux.Handle("/metrics", metrics.Handler())

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

func readyHandler(check func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := check(ctx); err != nil {
			http.Error(w, fmt.Sprintf("cache store unavailable: %v", err), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK")
	}
}

// limiterHandler reports the admission limiter state as JSON.
func limiterHandler(limiter *ratelimit.Limiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := limiter.State()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"capacity":  state.Capacity,
			"in_flight": state.InFlight,
			"peak":      state.Peak,
			"available": state.Available(),
			"saturated": state.Saturated(),
		})
	}
}
