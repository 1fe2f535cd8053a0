// Package ratelimit bounds the number of concurrent outbound tracker calls.
// Callers past the bound wait in FIFO order until a slot frees or their
// context ends.
package ratelimit

// DefaultMaxConcurrency is the tracker.gg admission bound.
const DefaultMaxConcurrency = 4

// State is a point-in-time view of the limiter.
type State struct {
	// Capacity is the maximum number of concurrent calls.
	Capacity int64 `json:"capacity"`

	// InFlight is the number of calls currently holding a slot.
	InFlight int64 `json:"in_flight"`

	// Peak is the highest InFlight observed since the limiter was created.
	Peak int64 `json:"peak"`
}

// Saturated returns true when every slot is taken and new callers will wait.
func (s State) Saturated() bool {
	return s.InFlight >= s.Capacity
}

// Available returns the number of free slots.
func (s State) Available() int64 {
	if s.InFlight >= s.Capacity {
		return 0
	}
	return s.Capacity - s.InFlight
}
