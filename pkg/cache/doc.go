// Package cache provides the tracker response cache.
//
// Every successful tracker fetch is written to a Store under its request
// identity. A slot is never evicted: once it is older than the client's TTL
// it is considered stale and is overwritten by the next successful fetch for
// the same identity (last write wins).
//
// # Request identity
//
//	key := cache.CacheKey{
//		Endpoint:    "https://api.tracker.gg/api/v2/bf6/standard/matches/steam/42",
//		QueryParams: url.Values{"page": {"1"}, "limit": {"5"}},
//	}
//	key.String() // ".../matches/steam/42?limit=5&page=1"
//
// Parameters are sorted by name, so two requests that differ only in the
// order their parameters were added share one slot.
//
// # Stores
//
//	store := cache.NewMemoryStore()          // single process
//	store := cache.NewRedisStore(redisClient) // shared between bot processes
//
//	entry, err := store.Get(ctx, key.String())
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch from tracker.gg
//	}
//	if entry.IsFresh(time.Now(), 30*time.Second) {
//		// serve entry.Value
//	}
//
// # Metrics
//
//   - trn_cache_hits_total{layer} - lookups that found a slot
//   - trn_cache_misses_total - lookups with no slot
//   - trn_cache_stale_total - slots found past the TTL
//   - trn_cache_entries{layer} - number of slots
//   - trn_cache_errors_total{operation} - store errors
package cache
