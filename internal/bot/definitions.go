package bot

import (
	"github.com/Sternrassler/bf6-tracker-bot/internal/commands"
	"github.com/bwmarrin/discordgo"
)

// Command and subcommand names.
const (
	CommandBF6     = "bf6"
	CommandRestart = "restart"

	SubLeaderboard  = "leaderboard"
	SubPlayer       = "player"
	SubRecent       = "recent"
	SubRosterAdd    = "roster_add"
	SubRosterRemove = "roster_remove"
)

var (
	adminPermission int64 = discordgo.PermissionAdministrator
	minRecent             = 1.0
)

func statChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, len(commands.Stats))
	for i, s := range commands.Stats {
		choices[i] = &discordgo.ApplicationCommandOptionChoice{Name: s.Label, Value: s.Key}
	}
	return choices
}

func playerOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         "name",
		Description:  "Roster player",
		Required:     true,
		Autocomplete: true,
	}
}

// ApplicationCommands returns the slash commands the bot registers.
func ApplicationCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        CommandBF6,
			Description: "Battlefield 6 stats suite",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        SubLeaderboard,
					Description: "Show a leaderboard for a stat",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "stat",
							Description: "Stat to rank by",
							Required:    true,
							Choices:     statChoices(),
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        SubPlayer,
					Description: "Overview for one player",
					Options:     []*discordgo.ApplicationCommandOption{playerOption()},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        SubRecent,
					Description: "Last X matches (max 10)",
					Options: []*discordgo.ApplicationCommandOption{
						playerOption(),
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "count",
							Description: "Number of matches",
							Required:    true,
							MinValue:    &minRecent,
							MaxValue:    commands.MaxRecent,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        SubRosterAdd,
					Description: "Add a player to the roster",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Player name on tracker.gg",
							Required:    true,
						},
						{
							Type:         discordgo.ApplicationCommandOptionString,
							Name:         "platform",
							Description:  "steam, xboxone or ps",
							Required:     true,
							Autocomplete: true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        SubRosterRemove,
					Description: "Remove from roster",
					Options:     []*discordgo.ApplicationCommandOption{playerOption()},
				},
			},
		},
		{
			Name:                     CommandRestart,
			Description:              "Restart the bot (owner-only)",
			DefaultMemberPermissions: &adminPermission,
		},
	}
}
