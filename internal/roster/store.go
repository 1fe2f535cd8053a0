// Package roster persists the players tracked by the bot in a JSON file.
package roster

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Sternrassler/bf6-tracker-bot/pkg/logging"
	"github.com/Sternrassler/bf6-tracker-bot/pkg/tracker"
	"github.com/rs/zerolog"
)

// DefaultPath is the roster file used when none is configured.
const DefaultPath = "players.json"

// ErrNotFound is returned when a name is not in the roster.
var ErrNotFound = errors.New("player not in roster")

// Player is one roster entry. UserID is empty until resolved.
type Player struct {
	Name     string         `json:"name"`
	Platform string         `json:"platform"`
	UserID   tracker.UserID `json:"userId,omitempty"`
}

// Resolved reports whether the player has a tracker id.
func (p Player) Resolved() bool {
	return p.UserID != ""
}

// Store is the roster backed by a JSON file. Every mutation is written
// through before it returns.
type Store struct {
	mu      sync.RWMutex
	path    string
	players []Player
	logger  zerolog.Logger
}

// Load reads the roster at path, creating an empty file when it is missing.
func Load(path string, logger zerolog.Logger) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}

	s := &Store{
		path:   path,
		logger: logging.Component(logger, "roster"),
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("create roster dir: %w", err)
			}
			s.players = []Player{}
			if err := s.save(s.players); err != nil {
				return nil, err
			}
			s.logger.Info().Str("path", path).Msg("Created empty roster")
			return s, nil
		}
		return nil, fmt.Errorf("read roster: %w", err)
	}

	if err := json.Unmarshal(b, &s.players); err != nil {
		return nil, fmt.Errorf("decode roster %s: %w", path, err)
	}
	s.dedupe()

	s.logger.Info().
		Str("path", path).
		Int("players", len(s.players)).
		Msg("Roster loaded")
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Players returns a copy of the roster in insertion order.
func (s *Store) Players() []Player {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Player, len(s.players))
	copy(out, s.players)
	return out
}

// Names returns the display names in insertion order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.players))
	for i, p := range s.players {
		names[i] = p.Name
	}
	return names
}

// Find looks a player up by name, case-insensitively.
func (s *Store) Find(name string) (Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.index(name); i >= 0 {
		return s.players[i], true
	}
	return Player{}, false
}

// Add inserts p, replacing any entry with the same name (case-insensitive).
// A replaced entry keeps its position.
func (s *Store) Add(p Player) error {
	platform, err := NormalizePlatform(p.Platform)
	if err != nil {
		return err
	}
	p.Platform = platform

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.clone()
	if i := s.index(p.Name); i >= 0 {
		next[i] = p
	} else {
		next = append(next, p)
	}
	return s.commit(next)
}

// Remove deletes the named player. It returns ErrNotFound when absent.
func (s *Store) Remove(name string) (Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(name)
	if i < 0 {
		return Player{}, ErrNotFound
	}
	removed := s.players[i]
	next := append(s.clone()[:i], s.players[i+1:]...)
	if err := s.commit(next); err != nil {
		return Player{}, err
	}
	return removed, nil
}

// SetUserIDs stores resolved ids by player name and persists once.
// Names no longer in the roster are ignored.
func (s *Store) SetUserIDs(ids map[string]tracker.UserID) error {
	if len(ids) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.clone()
	for name, id := range ids {
		if i := s.index(name); i >= 0 {
			next[i].UserID = id
		}
	}
	return s.commit(next)
}

// index returns the position of name or -1. Caller holds the lock.
func (s *Store) index(name string) int {
	for i, p := range s.players {
		if strings.EqualFold(p.Name, name) {
			return i
		}
	}
	return -1
}

// dedupe keeps the last entry per name at the first entry's position.
func (s *Store) dedupe() {
	out := s.players[:0]
	for _, p := range s.players {
		replaced := false
		for i := range out {
			if strings.EqualFold(out[i].Name, p.Name) {
				out[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, p)
		}
	}
	if out == nil {
		out = []Player{}
	}
	s.players = out
}

// clone copies the current roster. Caller holds the lock.
func (s *Store) clone() []Player {
	out := make([]Player, len(s.players))
	copy(out, s.players)
	return out
}

// commit persists players and only then makes them the live roster.
// Caller holds the write lock.
func (s *Store) commit(players []Player) error {
	if err := s.save(players); err != nil {
		return err
	}
	s.players = players
	return nil
}

// save writes players to a temp file and renames it over the roster file.
func (s *Store) save(players []Player) error {
	b, err := json.MarshalIndent(players, "", "  ")
	if err != nil {
		return fmt.Errorf("encode roster: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".players-*.json")
	if err != nil {
		return fmt.Errorf("create temp roster: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod roster: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write roster: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close roster: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("Failed to persist roster")
		return fmt.Errorf("replace roster: %w", err)
	}

	s.logger.Debug().Int("players", len(players)).Msg("Roster saved")
	return nil
}
