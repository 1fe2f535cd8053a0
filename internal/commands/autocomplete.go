package commands

import (
	"strings"

	"github.com/Sternrassler/bf6-tracker-bot/internal/roster"
	"github.com/bwmarrin/discordgo"
)

// MaxChoices is Discord's limit on autocomplete suggestions.
const MaxChoices = 20

// PlayerChoices suggests roster names containing current.
func (h *Handler) PlayerChoices(current string) []*discordgo.ApplicationCommandOptionChoice {
	return Choices(h.roster.Names(), current)
}

// PlatformChoices suggests platforms containing current.
func (h *Handler) PlatformChoices(current string) []*discordgo.ApplicationCommandOptionChoice {
	return Choices(roster.Platforms, current)
}

// Choices filters values by case-insensitive substring, keeping order, and
// returns at most MaxChoices.
func Choices(values []string, current string) []*discordgo.ApplicationCommandOptionChoice {
	current = strings.ToLower(current)

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, min(len(values), MaxChoices))
	for _, v := range values {
		if len(choices) == MaxChoices {
			break
		}
		if strings.Contains(strings.ToLower(v), current) {
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: v, Value: v})
		}
	}
	return choices
}
