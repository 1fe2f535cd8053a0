package cache

import (
	"encoding/json"
	"time"
)

// Entry is one cached tracker payload.
type Entry struct {
	// Key is the request identity (CacheKey.String())
	Key string `json:"key"`

	// Value is the "data" field of the response envelope
	Value json.RawMessage `json:"value"`

	// StoredAt is when the payload was written
	StoredAt time.Time `json:"stored_at"`
}

// Age returns how long ago the entry was stored.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.StoredAt)
}

// IsFresh reports whether the entry is younger than ttl.
// Stale entries are not removed; the next successful fetch overwrites them.
func (e *Entry) IsFresh(now time.Time, ttl time.Duration) bool {
	return e.Age(now) < ttl
}
