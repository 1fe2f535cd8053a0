package commands

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/Sternrassler/bf6-tracker-bot/pkg/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRosterAdd(t *testing.T) {
	api := &fakeTracker{search: map[string]tracker.UserID{"Sniper": "7656"}}
	h, store := newHandler(t, `[]`, api)

	reply := h.RosterAdd(context.Background(), "Sniper", "Steam,")
	assert.Equal(t, "✅ Added **Sniper**", reply.Content)
	assert.True(t, reply.Ephemeral)

	p, ok := store.Find("sniper")
	require.True(t, ok)
	assert.Equal(t, "steam", p.Platform)
	assert.Equal(t, tracker.UserID("7656"), p.UserID)
	assert.Equal(t, []string{"steam/Sniper"}, api.searches)
}

func TestRosterAdd_Failures(t *testing.T) {
	api := &fakeTracker{}
	h, store := newHandler(t, `[]`, api)

	reply := h.RosterAdd(context.Background(), "Sniper", "switch")
	assert.Equal(t, "❌ Unknown platform.", reply.Content)
	assert.True(t, reply.Ephemeral)
	assert.Empty(t, api.searches, "unknown platform must not reach the tracker")

	reply = h.RosterAdd(context.Background(), "Ghost", "ps")
	assert.Equal(t, "Player not found.", reply.Content)
	assert.Empty(t, store.Players())
}

func TestRosterAdd_SaveFailure(t *testing.T) {
	api := &fakeTracker{search: map[string]tracker.UserID{"Sniper": "7656"}}
	h, store := newHandler(t, `[]`, api)
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.MkdirAll(filepath.Join(store.Path(), "keep"), 0o755))

	reply := h.RosterAdd(context.Background(), "Sniper", "steam")
	assert.Equal(t, "Could not save the roster.", reply.Content)
	assert.True(t, reply.Ephemeral)

	_, ok := store.Find("Sniper")
	assert.False(t, ok, "unsaved player must not be visible to other commands")
	assert.Contains(t, h.Player(context.Background(), "Sniper").Content, "Player not found.")
}

func TestRosterRemove(t *testing.T) {
	h, store := newHandler(t, `[{"name":"Alpha","platform":"steam","userId":"1"}]`, &fakeTracker{})

	reply := h.RosterRemove("ALPHA")
	assert.Equal(t, "🗑️ Removed **ALPHA**", reply.Content)
	assert.True(t, reply.Ephemeral)
	assert.Empty(t, store.Players())

	assert.Equal(t, "Not in roster.", h.RosterRemove("Alpha").Content)
}

func TestResolveIDs(t *testing.T) {
	api := &fakeTracker{search: map[string]tracker.UserID{
		"Bravo":   "22",
		"Charlie": "33",
	}}
	h, store := newHandler(t, `[
  {"name":"Alpha","platform":"steam","userId":"11"},
  {"name":"Bravo","platform":"steam"},
  {"name":"Charlie","platform":"ps"},
  {"name":"Delta","platform":"xboxone"}
]`, api)

	n, err := h.ResolveIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	sort.Strings(api.searches)
	assert.Equal(t, []string{"ps/Charlie", "steam/Bravo", "xboxone/Delta"}, api.searches)

	p, _ := store.Find("Bravo")
	assert.Equal(t, tracker.UserID("22"), p.UserID)
	p, _ = store.Find("Delta")
	assert.False(t, p.Resolved())

	reloaded, _ := store.Find("Charlie")
	assert.Equal(t, tracker.UserID("33"), reloaded.UserID)
}

func TestResolveIDs_NothingPending(t *testing.T) {
	api := &fakeTracker{}
	h, _ := newHandler(t, `[{"name":"Alpha","platform":"steam","userId":"11"}]`, api)

	n, err := h.ResolveIDs(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, api.searches)
}
