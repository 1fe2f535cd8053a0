package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// options indexes interaction options by name.
type options map[string]*discordgo.ApplicationCommandInteractionDataOption

func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) options {
	m := make(options, len(opts))
	for _, o := range opts {
		m[o.Name] = o
	}
	return m
}

func (o options) str(name string) string {
	if opt, ok := o[name]; ok {
		if s, ok := opt.Value.(string); ok {
			return s
		}
	}
	return ""
}

func (o options) integer(name string, def int) int {
	if opt, ok := o[name]; ok {
		if f, ok := opt.Value.(float64); ok {
			return int(f)
		}
	}
	return def
}

// focused returns the option being autocompleted.
func focused(opts []*discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	for _, o := range opts {
		if o.Focused {
			return o
		}
	}
	return nil
}

// slashLine renders a completed command for the log: "/bf6 recent name=x count=5".
func slashLine(command string, sub *discordgo.ApplicationCommandInteractionDataOption) string {
	var b strings.Builder
	b.WriteString("/" + command)
	if sub == nil {
		return b.String()
	}
	b.WriteString(" " + sub.Name)
	for _, o := range sub.Options {
		fmt.Fprintf(&b, " %s=%v", o.Name, o.Value)
	}
	return b.String()
}

// interactionUser returns the invoking user for guild and DM interactions.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// canManageServer reports whether the invoking member has Manage Server.
func canManageServer(i *discordgo.InteractionCreate) bool {
	if i.Member == nil {
		return false
	}
	perms := i.Member.Permissions
	return perms&discordgo.PermissionManageServer != 0 || perms&discordgo.PermissionAdministrator != 0
}
