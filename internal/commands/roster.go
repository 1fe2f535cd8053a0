package commands

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Sternrassler/bf6-tracker-bot/internal/roster"
	"github.com/Sternrassler/bf6-tracker-bot/pkg/tracker"
	"golang.org/x/sync/errgroup"
)

// RosterAdd looks name up on platform and stores the player with its id.
func (h *Handler) RosterAdd(ctx context.Context, name, platform string) Reply {
	platform, err := roster.NormalizePlatform(platform)
	if err != nil {
		return private("❌ Unknown platform.")
	}

	hit, ok := h.api.SearchPlayer(ctx, platform, name)
	if !ok {
		return private("Player not found.")
	}

	if err := h.roster.Add(roster.Player{Name: name, Platform: platform, UserID: hit.TitleUserID}); err != nil {
		h.logger.Error().Err(err).Str("player", name).Msg("Failed to add player")
		return private("Could not save the roster.")
	}

	h.logger.Info().
		Str("player", name).
		Str("platform", platform).
		Str("user_id", hit.TitleUserID.String()).
		Msg("Player added")
	return private(fmt.Sprintf("✅ Added **%s**", name))
}

// RosterRemove deletes name from the roster.
func (h *Handler) RosterRemove(name string) Reply {
	if _, err := h.roster.Remove(name); err != nil {
		if errors.Is(err, roster.ErrNotFound) {
			return private("Not in roster.")
		}
		h.logger.Error().Err(err).Str("player", name).Msg("Failed to remove player")
		return private("Could not save the roster.")
	}

	h.logger.Info().Str("player", name).Msg("Player removed")
	return private(fmt.Sprintf("🗑️ Removed **%s**", name))
}

// ResolveIDs searches tracker ids for every roster player that lacks one and
// persists the roster once. It returns the number of ids found.
func (h *Handler) ResolveIDs(ctx context.Context) (int, error) {
	var pending []roster.Player
	for _, p := range h.roster.Players() {
		if !p.Resolved() {
			pending = append(pending, p)
		}
	}
	if len(pending) == 0 {
		return 0, nil
	}

	var (
		mu    sync.Mutex
		found = make(map[string]tracker.UserID, len(pending))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.fanout.MaxConcurrency)
	for _, p := range pending {
		p := p
		g.Go(func() error {
			hit, ok := h.api.SearchPlayer(gctx, p.Platform, p.Name)
			if !ok {
				h.logger.Warn().Str("player", p.Name).Msg("ID lookup failed")
				return nil
			}

			h.logger.Info().
				Str("player", p.Name).
				Str("user_id", hit.TitleUserID.String()).
				Msg("Resolved tracker ID")

			mu.Lock()
			found[p.Name] = hit.TitleUserID
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if err := h.roster.SetUserIDs(found); err != nil {
		return 0, fmt.Errorf("persist resolved ids: %w", err)
	}
	return len(found), nil
}
