package cache

import (
	"testing"
	"time"
)

func TestEntry_IsFresh(t *testing.T) {
	now := time.Date(2025, 10, 10, 12, 0, 0, 0, time.UTC)
	ttl := 30 * time.Second

	tests := []struct {
		name     string
		storedAt time.Time
		want     bool
	}{
		{
			name:     "just stored",
			storedAt: now,
			want:     true,
		},
		{
			name:     "inside ttl",
			storedAt: now.Add(-29 * time.Second),
			want:     true,
		},
		{
			name:     "exactly ttl old",
			storedAt: now.Add(-30 * time.Second),
			want:     false,
		},
		{
			name:     "long expired",
			storedAt: now.Add(-1 * time.Hour),
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &Entry{StoredAt: tt.storedAt}
			if got := entry.IsFresh(now, ttl); got != tt.want {
				t.Errorf("IsFresh() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntry_Age(t *testing.T) {
	now := time.Now()
	entry := &Entry{StoredAt: now.Add(-5 * time.Second)}

	if got := entry.Age(now); got != 5*time.Second {
		t.Errorf("Age() = %v, want 5s", got)
	}
}
