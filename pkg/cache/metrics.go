package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts lookups that found a slot, by layer (memory, redis).
	// The slot may still be stale; see CacheStale.
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trn_cache_hits_total",
			Help: "Total number of tracker cache lookups that found a slot",
		},
		[]string{"layer"},
	)

	// CacheMisses tracks lookups with no slot
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trn_cache_misses_total",
			Help: "Total number of tracker cache misses",
		},
	)

	// CacheStale tracks slots found but older than the TTL
	CacheStale = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trn_cache_stale_total",
			Help: "Total number of tracker cache slots found past their TTL",
		},
	)

	// CacheEntries tracks the number of slots by layer
	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "trn_cache_entries",
			Help: "Current number of tracker cache slots",
		},
		[]string{"layer"},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trn_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
