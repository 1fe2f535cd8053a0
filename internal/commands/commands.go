// Package commands implements the /bf6 command handlers independently of the
// Discord transport. Handlers return a Reply; internal/bot delivers it.
package commands

import (
	"context"

	"github.com/Sternrassler/bf6-tracker-bot/internal/roster"
	"github.com/Sternrassler/bf6-tracker-bot/pkg/batch"
	"github.com/Sternrassler/bf6-tracker-bot/pkg/logging"
	"github.com/Sternrassler/bf6-tracker-bot/pkg/tracker"
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// Embed colours.
const (
	ColorLeaderboard = 0x0096FF
	ColorPlayer      = 0x3498DB
)

// Reply is a handler's response.
type Reply struct {
	Content   string
	Embed     *discordgo.MessageEmbed
	Ephemeral bool
}

func text(content string) Reply {
	return Reply{Content: content}
}

func private(content string) Reply {
	return Reply{Content: content, Ephemeral: true}
}

// Tracker is the subset of *tracker.API the handlers use.
type Tracker interface {
	PlayerProfile(ctx context.Context, platform string, userID tracker.UserID, fresh bool) (*tracker.Profile, bool)
	RecentMatches(ctx context.Context, platform string, userID tracker.UserID, limit int) []tracker.Match
	SearchPlayer(ctx context.Context, platform, query string) (*tracker.SearchResult, bool)
}

// Handler holds the command dependencies.
type Handler struct {
	api    Tracker
	roster *roster.Store
	fanout batch.Config
	logger zerolog.Logger
}

// New creates a Handler.
func New(api Tracker, store *roster.Store, logger zerolog.Logger) *Handler {
	logger = logging.Component(logger, "commands")

	fanout := batch.DefaultConfig()
	fanout.Logger = &logger

	return &Handler{
		api:    api,
		roster: store,
		fanout: fanout,
		logger: logger,
	}
}
