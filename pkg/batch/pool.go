package batch

import (
	"context"
	"sync"
	"time"

	"github.com/Sternrassler/bf6-tracker-bot/pkg/logging"
	"github.com/rs/zerolog"
)

// Config holds worker pool configuration.
type Config struct {
	// MaxConcurrency is the number of workers.
	// The tracker client admits 4 requests at a time; more workers only queue.
	MaxConcurrency int

	// Timeout per item (0 means only the parent context applies).
	Timeout time.Duration

	// Logger defaults to the global zerolog logger.
	Logger *zerolog.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 4,
		Timeout:        30 * time.Second,
	}
}

type job[T any] struct {
	index int
	item  T
}

type result[R any] struct {
	index int
	value R
}

// Map calls fn for every item using at most cfg.MaxConcurrency goroutines and
// returns the results in input order.
func Map[T, R any](ctx context.Context, cfg Config, items []T, fn func(ctx context.Context, item T) R) []R {
	out := make([]R, len(items))
	if len(items) == 0 {
		return out
	}

	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = DefaultConfig().MaxConcurrency
	}
	workers := cfg.MaxConcurrency
	if workers > len(items) {
		workers = len(items)
	}

	var logger zerolog.Logger
	if cfg.Logger != nil {
		logger = logging.Component(*cfg.Logger, "batch")
	} else {
		logger = logging.NewLogger("batch")
	}

	start := time.Now()

	// Fill queue
	queue := make(chan job[T], len(items))
	for i, item := range items {
		queue <- job[T]{index: i, item: item}
	}
	close(queue)

	results := make(chan result[R], len(items))

	// Start worker pool
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go worker(ctx, cfg, fn, queue, results, &wg, i, logger)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect results
	done := 0
	for r := range results {
		out[r.index] = r.value
		done++
	}

	logger.Debug().
		Int("items", len(items)).
		Int("done", done).
		Int("workers", workers).
		Dur("duration", time.Since(start)).
		Msg("Batch complete")

	return out
}

// worker processes items from the queue.
func worker[T, R any](ctx context.Context, cfg Config, fn func(context.Context, T) R, queue <-chan job[T], results chan<- result[R], wg *sync.WaitGroup, workerID int, logger zerolog.Logger) {
	defer wg.Done()
	processed := 0

	for j := range queue {
		// Check context cancellation
		select {
		case <-ctx.Done():
			logger.Debug().
				Int("worker_id", workerID).
				Int("processed", processed).
				Msg("Worker stopping (context cancelled)")
			return
		default:
		}

		itemCtx, cancel := ctx, context.CancelFunc(func() {})
		if cfg.Timeout > 0 {
			itemCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		}
		value := fn(itemCtx, j.item)
		cancel()

		results <- result[R]{index: j.index, value: value}
		processed++
	}
}
