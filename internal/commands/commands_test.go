package commands

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Sternrassler/bf6-tracker-bot/internal/roster"
	"github.com/Sternrassler/bf6-tracker-bot/pkg/tracker"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// fakeTracker serves canned tracker data keyed by user id or search query.
type fakeTracker struct {
	mu       sync.Mutex
	profiles map[tracker.UserID]string
	matches  map[tracker.UserID]string
	search   map[string]tracker.UserID

	searches    []string
	matchLimits []int
}

func (f *fakeTracker) PlayerProfile(ctx context.Context, platform string, userID tracker.UserID, fresh bool) (*tracker.Profile, bool) {
	raw, ok := f.profiles[userID]
	if !ok {
		return nil, false
	}
	var p tracker.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (f *fakeTracker) RecentMatches(ctx context.Context, platform string, userID tracker.UserID, limit int) []tracker.Match {
	f.mu.Lock()
	f.matchLimits = append(f.matchLimits, limit)
	f.mu.Unlock()

	raw, ok := f.matches[userID]
	if !ok {
		return nil
	}
	var ms []tracker.Match
	if err := json.Unmarshal([]byte(raw), &ms); err != nil {
		return nil
	}
	return ms
}

func (f *fakeTracker) SearchPlayer(ctx context.Context, platform, query string) (*tracker.SearchResult, bool) {
	f.mu.Lock()
	f.searches = append(f.searches, platform+"/"+query)
	f.mu.Unlock()

	id, ok := f.search[query]
	if !ok {
		return nil, false
	}
	return &tracker.SearchResult{TitleUserID: id}, true
}

func newHandler(t *testing.T, rosterJSON string, api *fakeTracker) (*Handler, *roster.Store) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "players.json")
	require.NoError(t, os.WriteFile(path, []byte(rosterJSON), 0o644))

	store, err := roster.Load(path, zerolog.Nop())
	require.NoError(t, err)

	return New(api, store, zerolog.Nop()), store
}

func profileWith(field string, value float64) string {
	b, _ := json.Marshal(map[string]any{
		"segments": []any{map[string]any{
			"type":  "overview",
			"stats": map[string]any{field: map[string]any{"value": value, "displayName": field, "displayValue": "x"}},
		}},
	})
	return string(b)
}
