package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Sternrassler/bf6-tracker-bot/internal/roster"
	"github.com/Sternrassler/bf6-tracker-bot/pkg/batch"
	"github.com/bwmarrin/discordgo"
)

var medals = []string{"🥇", "🥈", "🥉"}

type boardRow struct {
	name  string
	value float64
}

// Leaderboard ranks every resolved roster player by the stat under statKey.
func (h *Handler) Leaderboard(ctx context.Context, statKey string) Reply {
	stat, ok := LookupStat(statKey)
	if !ok {
		return private("Unknown stat.")
	}

	var players []roster.Player
	for _, p := range h.roster.Players() {
		if p.Resolved() {
			players = append(players, p)
		}
	}

	rows := batch.Map(ctx, h.fanout, players, func(ctx context.Context, p roster.Player) *boardRow {
		profile, ok := h.api.PlayerProfile(ctx, p.Platform, p.UserID, false)
		if !ok {
			return nil
		}
		v, ok := profile.StatValue(stat.Field)
		if !ok {
			return nil
		}
		return &boardRow{name: p.Name, value: v}
	})

	board := make([]boardRow, 0, len(rows))
	for _, r := range rows {
		if r != nil {
			board = append(board, *r)
		}
	}
	if len(board) == 0 {
		return Reply{Embed: &discordgo.MessageEmbed{Description: "No data."}}
	}

	sort.SliceStable(board, func(i, j int) bool { return board[i].value > board[j].value })

	lines := make([]string, len(board))
	for i, r := range board {
		lines[i] = fmt.Sprintf("%s **%s** — %s", rankTag(i+1), r.name, FormatStat(r.value, stat.Field))
	}

	return Reply{Embed: &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Battlefield 6 – %s leaderboard", stat.Label),
		Description: strings.Join(lines, "\n"),
		Color:       ColorLeaderboard,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Data • tracker.gg • cached 30 s"},
	}}
}

func rankTag(rank int) string {
	if rank <= len(medals) {
		return medals[rank-1]
	}
	return fmt.Sprintf("`%02d`", rank)
}
