// Package client provides the tracker.gg HTTP client with a response cache,
// bounded concurrency and a single challenge retry.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Sternrassler/bf6-tracker-bot/pkg/cache"
	"github.com/Sternrassler/bf6-tracker-bot/pkg/logging"
	"github.com/Sternrassler/bf6-tracker-bot/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for tracker client operations.
var (
	trnRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trn_requests_total",
		Help: "Total tracker requests by endpoint and status",
	}, []string{"endpoint", "status"})

	trnRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trn_request_duration_seconds",
		Help:    "Tracker request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 15},
	}, []string{"endpoint"})

	trnErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trn_errors_total",
		Help: "Total tracker errors by class",
	}, []string{"class"})

	trnAbsentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trn_absent_total",
		Help: "Total fetches that ended without data, by endpoint",
	}, []string{"endpoint"})
)

const (
	// DefaultBaseURL is the tracker.gg Battlefield 6 API root.
	DefaultBaseURL = "https://api.tracker.gg/api/v2/bf6/standard"

	// DefaultCacheTTL is how long a cached payload is served without a network call.
	DefaultCacheTTL = 30 * time.Second

	// DefaultAttemptTimeout bounds a single network attempt.
	DefaultAttemptTimeout = 15 * time.Second

	// DefaultUserAgent mimics a desktop Chrome on Windows; tracker.gg sits behind Cloudflare.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	// APIKeyHeader carries the tracker.gg API key.
	APIKeyHeader = "TRN-Api-Key"
)

// Client is the tracker.gg client. It owns its cache, its admission limiter
// and its session cookies; construct one per process and share it.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	store      cache.Store
	limiter    *ratelimit.Limiter
	solver     ChallengeSolver
	config     Config
	logger     zerolog.Logger
	now        func() time.Time
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is prefixed to every request path.
	BaseURL string

	// APIKey is sent as TRN-Api-Key. Not validated: a missing key yields 403s.
	APIKey string

	// Session trust tokens from a previously solved challenge.
	Clearance     string // cf_clearance
	BotManagement string // __cf_bm

	UserAgent string

	// Caching
	CacheTTL time.Duration
	Store    cache.Store // nil means a fresh MemoryStore

	// Concurrency
	MaxConcurrency int // Max in-flight network calls

	// AttemptTimeout bounds each of the (at most two) attempts.
	AttemptTimeout time.Duration

	// Solver handles 403 responses. nil means CookieChallenge over the client session.
	Solver ChallengeSolver

	// Logger defaults to the global zerolog logger tagged component=trn-client.
	Logger *zerolog.Logger
}

// DefaultConfig returns the production configuration.
func DefaultConfig(apiKey string) Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		APIKey:         apiKey,
		UserAgent:      DefaultUserAgent,
		CacheTTL:       DefaultCacheTTL,
		MaxConcurrency: ratelimit.DefaultMaxConcurrency,
		AttemptTimeout: DefaultAttemptTimeout,
	}
}

// New creates a new tracker client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}

	baseURL, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https (got %q)", cfg.BaseURL)
	}
	cfg.BaseURL = baseURL.String()

	if cfg.CacheTTL < 0 {
		return nil, fmt.Errorf("cache ttl must not be negative (got %s)", cfg.CacheTTL)
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = DefaultAttemptTimeout
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = ratelimit.DefaultMaxConcurrency
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	var logger zerolog.Logger
	if cfg.Logger != nil {
		logger = logging.Component(*cfg.Logger, "trn-client")
	} else {
		logger = logging.NewLogger("trn-client")
	}

	httpClient, err := NewSession(baseURL, cfg.Clearance, cfg.BotManagement)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	store := cfg.Store
	if store == nil {
		store = cache.NewMemoryStore()
	}

	solver := cfg.Solver
	if solver == nil {
		solver = NewCookieChallenge(httpClient, cfg.UserAgent, logger)
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		store:      store,
		limiter:    ratelimit.NewLimiter(cfg.MaxConcurrency, logger),
		solver:     solver,
		config:     cfg,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Fetch returns the "data" payload for req, from cache when fresh and from
// tracker.gg otherwise. Failures are logged and reported as an absent Result;
// Fetch never returns an error.
func (c *Client) Fetch(ctx context.Context, req Request) Result {
	target := c.config.BaseURL + "/" + strings.TrimLeft(req.Path, "/")
	query := req.Params.Values()
	key := cache.CacheKey{Endpoint: target, QueryParams: query}.String()
	endpoint := endpointLabel(req.Path)

	// Step 1: Check Cache
	if !req.Fresh {
		if entry, ok := c.lookup(ctx, key); ok {
			c.logger.Debug().
				Str("endpoint", endpoint).
				Dur("age", entry.Age(c.now())).
				Msg("Serving cached payload")
			return Result{Data: entry.Value, FromCache: true}
		}
	}

	// Step 2: Admission
	release, err := c.limiter.Acquire(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Str("target", target).Msg("Tracker request not admitted")
		trnAbsentTotal.WithLabelValues(endpoint).Inc()
		return Result{}
	}
	defer release()

	// Step 3: Execute with the single challenge retry
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		data, err := c.doAttempt(ctx, target, query, endpoint)
		if err == nil {
			c.save(ctx, key, data, endpoint)
			if attempt > 1 {
				c.logger.Info().
					Str("endpoint", endpoint).
					Int("attempt", attempt).
					Msg("Request succeeded after challenge")
			}
			return Result{Data: data}
		}

		class := classOf(err)
		if shouldRetry(class, attempt) {
			c.logger.Warn().
				Str("target", target).
				Str("attempt", attemptString(attempt)).
				Msg("403 from tracker - solving challenge")
			c.solveChallenge(ctx, target)
			continue
		}

		c.logger.Warn().
			Err(err).
			Str("target", target).
			Str("error_class", string(class)).
			Str("attempt", attemptString(attempt)).
			Msg("Tracker request failed")
		break
	}

	trnAbsentTotal.WithLabelValues(endpoint).Inc()
	return Result{}
}

// lookup returns a fresh cache entry for key. Store errors count as a miss.
func (c *Client) lookup(ctx context.Context, key string) (*cache.Entry, bool) {
	entry, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn().Err(err).Str("key", key).Msg("Cache get error")
		}
		return nil, false
	}
	if !entry.IsFresh(c.now(), c.config.CacheTTL) {
		cache.CacheStale.Inc()
		return nil, false
	}
	return entry, true
}

// save overwrites the slot for key with data stamped at the current time.
func (c *Client) save(ctx context.Context, key string, data json.RawMessage, endpoint string) {
	entry := &cache.Entry{
		Key:      key,
		Value:    data,
		StoredAt: c.now(),
	}
	if err := c.store.Set(ctx, entry); err != nil {
		c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Failed to cache response")
		return
	}
	c.logger.Debug().
		Str("endpoint", endpoint).
		Dur("ttl", c.config.CacheTTL).
		Msg("Cached response")
}

// Limiter returns the admission limiter (for testing and health reporting).
func (c *Client) Limiter() *ratelimit.Limiter {
	return c.limiter
}

// TrustTokens returns the session cookies currently held for the API host.
func (c *Client) TrustTokens() []*http.Cookie {
	return c.httpClient.Jar.Cookies(c.baseURL)
}

// SetClock replaces the time source used for cache timestamps (for testing).
func (c *Client) SetClock(now func() time.Time) {
	c.now = now
}

// endpointLabel reduces a request path to its first segment so metric labels
// stay bounded ("/profile/steam/42" -> "profile").
func endpointLabel(path string) string {
	path = strings.Trim(path, "/")
	if path == "" {
		return "root"
	}
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}
