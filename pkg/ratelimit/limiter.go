package ratelimit

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

// Prometheus metrics for admission control.
var (
	trnInflightRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "trn_inflight_requests",
		Help: "Number of tracker requests currently holding an admission slot",
	})

	trnAdmissionWaitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trn_admission_waits_total",
		Help: "Total number of requests that had to wait for an admission slot",
	})
)

// Limiter is a counting admission limiter.
type Limiter struct {
	sem      *semaphore.Weighted
	capacity int64
	inFlight atomic.Int64
	peak     atomic.Int64
	logger   zerolog.Logger
}

// NewLimiter creates a limiter admitting at most capacity concurrent holders.
func NewLimiter(capacity int, logger zerolog.Logger) *Limiter {
	if capacity <= 0 {
		capacity = DefaultMaxConcurrency
	}
	return &Limiter{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: int64(capacity),
		logger:   logger,
	}
}

// Acquire blocks until a slot is free or ctx is done.
// The returned release func must be called exactly once.
func (l *Limiter) Acquire(ctx context.Context) (func(), error) {
	if !l.sem.TryAcquire(1) {
		trnAdmissionWaitsTotal.Inc()
		l.logger.Debug().
			Int64("in_flight", l.inFlight.Load()).
			Int64("capacity", l.capacity).
			Msg("Waiting for admission slot")

		if err := l.sem.Acquire(ctx, 1); err != nil {
			return nil, fmt.Errorf("acquire admission slot: %w", err)
		}
	}

	n := l.inFlight.Add(1)
	trnInflightRequests.Inc()
	for {
		peak := l.peak.Load()
		if n <= peak || l.peak.CompareAndSwap(peak, n) {
			break
		}
	}

	var released atomic.Bool
	return func() {
		if !released.CompareAndSwap(false, true) {
			return
		}
		l.inFlight.Add(-1)
		trnInflightRequests.Dec()
		l.sem.Release(1)
	}, nil
}

// State returns a snapshot of the limiter.
func (l *Limiter) State() State {
	return State{
		Capacity: l.capacity,
		InFlight: l.inFlight.Load(),
		Peak:     l.peak.Load(),
	}
}
