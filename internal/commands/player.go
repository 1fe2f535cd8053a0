package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/Sternrassler/bf6-tracker-bot/internal/roster"
	"github.com/Sternrassler/bf6-tracker-bot/pkg/tracker"
	"github.com/bwmarrin/discordgo"
)

// MaxRecent is the largest match count /bf6 recent accepts.
const MaxRecent = 10

var overviewFields = []string{"kdRatio", "kills", "deaths", "scorePerMinute", "wlPercentage", "timePlayed"}

// lookup resolves a roster name, or returns the reply explaining why not.
func (h *Handler) lookup(name string) (roster.Player, *Reply) {
	p, ok := h.roster.Find(name)
	if !ok {
		r := text("Player not found.")
		return p, &r
	}
	if !p.Resolved() {
		r := text(fmt.Sprintf("No tracker ID for **%s** yet.", p.Name))
		return p, &r
	}
	return p, nil
}

// Player shows the overview stats of one roster player.
func (h *Handler) Player(ctx context.Context, name string) Reply {
	p, reply := h.lookup(name)
	if reply != nil {
		return *reply
	}

	profile, ok := h.api.PlayerProfile(ctx, p.Platform, p.UserID, false)
	if !ok {
		return text("API error.")
	}
	overview, ok := profile.Overview()
	if !ok {
		h.logger.Warn().Str("player", p.Name).Msg("Profile has no segments")
		return text("API error.")
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("BF6 – %s", p.Name),
		Color: ColorPlayer,
	}
	for _, field := range overviewFields {
		st, ok := overview.Stat(field)
		if !ok {
			continue
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   orDefault(st.DisplayName, field),
			Value:  orDefault(st.DisplayValue, "n/a"),
			Inline: true,
		})
	}
	return Reply{Embed: embed}
}

// Recent lists a player's last count matches (clamped to 1..MaxRecent).
func (h *Handler) Recent(ctx context.Context, name string, count int) Reply {
	count = min(max(count, 1), MaxRecent)

	p, reply := h.lookup(name)
	if reply != nil {
		return *reply
	}

	matches := h.api.RecentMatches(ctx, p.Platform, p.UserID, count)

	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		if line, ok := matchLine(m); ok {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return private(fmt.Sprintf("🕑 No recent public matches for **%s**.", name))
	}

	return Reply{Embed: &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("BF6 – %s – last %d matches", p.Name, len(lines)),
		Description: strings.Join(lines, "\n"),
		Color:       ColorPlayer,
	}}
}

// matchLine renders "**2025-10-11** – 12/5 K/D `2.40`".
func matchLine(m tracker.Match) (string, bool) {
	if len(m.Segments) == 0 {
		return "", false
	}
	seg := m.Segments[0]

	date := m.Date()
	if date == "" {
		date = "--------"
	}
	display := func(field string) string {
		st, ok := seg.Stat(field)
		if !ok || st.DisplayValue == "" {
			return "?"
		}
		return st.DisplayValue
	}

	return fmt.Sprintf("**%s** – %s/%s K/D `%s`",
		date, display("kills"), display("deaths"), display("kdRatio")), true
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
