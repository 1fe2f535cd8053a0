// Package bot connects the command handlers to Discord.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Sternrassler/bf6-tracker-bot/internal/commands"
	"github.com/Sternrassler/bf6-tracker-bot/pkg/logging"
	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "bf6_commands_total",
	Help: "Total handled slash commands by command and outcome",
}, []string{"command", "outcome"})

const (
	// deferTimeout must stay under Discord's 3 s acknowledgement window.
	deferTimeout = 2500 * time.Millisecond

	// commandTimeout bounds a handler; follow-ups are valid for 15 minutes.
	commandTimeout = 2 * time.Minute

	restartMessage = "♻️ Restarting…"
	noPermission   = "⛔ You need the Manage Server permission."
)

// Bot is the Discord front end.
type Bot struct {
	session         *discordgo.Session
	handler         *commands.Handler
	ownerID         string
	logger          zerolog.Logger
	commands        []*discordgo.ApplicationCommand
	commandHandlers map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)

	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
	stopped  chan struct{}
}

// New creates a bot for token. Call Open to connect.
func New(token, ownerID string, handler *commands.Handler, logger zerolog.Logger) (*Bot, error) {
	if token == "" {
		return nil, errors.New("discord token is required")
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	b := newBot(handler, ownerID, logger)
	b.session = session

	session.AddHandler(b.onReady)
	session.AddHandler(b.onInteraction)
	session.AddHandler(b.onMessage)

	return b, nil
}

// newBot builds everything except the gateway session.
func newBot(handler *commands.Handler, ownerID string, logger zerolog.Logger) *Bot {
	ctx, cancel := context.WithCancel(context.Background())
	b := &Bot{
		handler:  handler,
		ownerID:  ownerID,
		logger:   logging.Component(logger, "bot"),
		commands: ApplicationCommands(),
		ctx:      ctx,
		cancel:   cancel,
		stopped:  make(chan struct{}),
	}
	b.commandHandlers = map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		CommandBF6:     b.handleBF6,
		CommandRestart: b.handleRestart,
	}
	return b
}

// Open connects to the gateway.
func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	return nil
}

// Close cancels running handlers and disconnects.
func (b *Bot) Close() error {
	b.cancel()
	return b.session.Close()
}

// RestartRequested is closed when an owner asks for a restart.
func (b *Bot) RestartRequested() <-chan struct{} {
	return b.stopped
}

func (b *Bot) requestRestart() {
	b.stopOnce.Do(func() { close(b.stopped) })
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info().
		Str("user", r.User.String()).
		Int("guilds", len(r.Guilds)).
		Msg("✅ Logged in")

	go func() {
		ctx, cancel := context.WithTimeout(b.ctx, commandTimeout)
		defer cancel()

		n, err := b.handler.ResolveIDs(ctx)
		if err != nil {
			b.logger.Error().Err(err).Msg("Resolving roster IDs failed")
		} else if n > 0 {
			b.logger.Info().Int("resolved", n).Msg("Resolved roster IDs")
		}

		synced, err := s.ApplicationCommandBulkOverwrite(r.User.ID, "", b.commands)
		if err != nil {
			b.logger.Warn().Err(err).Msg("Global sync failed")
			return
		}
		b.logger.Info().Int("commands", len(synced)).Msg("Global sync")
	}()
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if h, ok := b.commandHandlers[i.ApplicationCommandData().Name]; ok {
			h(s, i)
		}
	case discordgo.InteractionApplicationCommandAutocomplete:
		b.handleAutocomplete(s, i)
	}
}

func (b *Bot) handleBF6(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]
	admin := sub.Name == SubRosterAdd || sub.Name == SubRosterRemove

	if admin && !canManageServer(i) {
		commandsTotal.WithLabelValues(sub.Name, "denied").Inc()
		b.respond(s, i, commands.Reply{Content: noPermission, Ephemeral: true})
		return
	}

	b.deferResponse(s, i, admin)

	ctx, cancel := context.WithTimeout(b.ctx, commandTimeout)
	defer cancel()

	reply := b.run(ctx, sub.Name, optionMap(sub.Options))
	if _, err := s.FollowupMessageCreate(i.Interaction, true, webhookParams(reply)); err != nil {
		commandsTotal.WithLabelValues(sub.Name, "send_failed").Inc()
		b.logger.Error().Err(err).Str("command", sub.Name).Msg("Follow-up failed")
		return
	}

	commandsTotal.WithLabelValues(sub.Name, "ok").Inc()
	b.logger.Info().Msgf("[SLASH] %s : %s", userName(interactionUser(i)), slashLine(data.Name, sub))
}

// run dispatches a /bf6 subcommand to the command layer.
func (b *Bot) run(ctx context.Context, sub string, opts options) commands.Reply {
	switch sub {
	case SubLeaderboard:
		return b.handler.Leaderboard(ctx, opts.str("stat"))
	case SubPlayer:
		return b.handler.Player(ctx, opts.str("name"))
	case SubRecent:
		return b.handler.Recent(ctx, opts.str("name"), opts.integer("count", 5))
	case SubRosterAdd:
		return b.handler.RosterAdd(ctx, opts.str("name"), opts.str("platform"))
	case SubRosterRemove:
		return b.handler.RosterRemove(opts.str("name"))
	default:
		return commands.Reply{Content: "Unknown command.", Ephemeral: true}
	}
}

func (b *Bot) handleRestart(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	if b.ownerID != "" && (user == nil || user.ID != b.ownerID) {
		b.respond(s, i, commands.Reply{Content: "Owner only.", Ephemeral: true})
		return
	}

	b.respond(s, i, commands.Reply{Content: restartMessage, Ephemeral: true})
	b.logger.Info().Str("user", userName(user)).Msg("Restart requested")
	b.requestRestart()
}

func (b *Bot) handleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}

	choices := b.autocomplete(data.Options[0].Options)
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
	if err != nil {
		b.logger.Debug().Err(err).Msg("Autocomplete response failed")
	}
}

func (b *Bot) autocomplete(opts []*discordgo.ApplicationCommandInteractionDataOption) []*discordgo.ApplicationCommandOptionChoice {
	opt := focused(opts)
	if opt == nil {
		return nil
	}

	current, _ := opt.Value.(string)
	switch opt.Name {
	case "name":
		return b.handler.PlayerChoices(current)
	case "platform":
		return b.handler.PlatformChoices(current)
	default:
		return nil
	}
}

// onMessage handles the owner-only prefix commands.
func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || b.ownerID == "" || m.Author.ID != b.ownerID {
		return
	}

	switch strings.TrimSpace(m.Content) {
	case "!restart":
		b.logger.Info().Str("user", m.Author.Username).Msg("Restart requested")
		b.requestRestart()
	case "!sync":
		b.syncGuild(s, m)
	}
}

func (b *Bot) syncGuild(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.GuildID == "" {
		return
	}

	synced, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, m.GuildID, b.commands)
	if err != nil {
		b.logger.Warn().Err(err).Str("guild", m.GuildID).Msg("Guild sync failed")
		_, _ = s.ChannelMessageSend(m.ChannelID, "Sync failed.")
		return
	}

	guildName := m.GuildID
	if g, err := s.State.Guild(m.GuildID); err == nil && g.Name != "" {
		guildName = g.Name
	}
	_, _ = s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Synced %d command(s) to **%s** ✅", len(synced), guildName))
}

// deferResponse acknowledges within deferTimeout. A late or already
// acknowledged interaction is ignored; the follow-up still goes out.
func (b *Bot) deferResponse(s *discordgo.Session, i *discordgo.InteractionCreate, ephemeral bool) {
	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}
	if ephemeral {
		resp.Data = &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral}
	}

	done := make(chan error, 1)
	go func() { done <- s.InteractionRespond(i.Interaction, resp) }()

	select {
	case err := <-done:
		if err != nil {
			b.logger.Debug().Err(err).Msg("Defer failed")
		}
	case <-time.After(deferTimeout):
		b.logger.Debug().Dur("timeout", deferTimeout).Msg("Defer timed out")
	}
}

func (b *Bot) respond(s *discordgo.Session, i *discordgo.InteractionCreate, r commands.Reply) {
	data := &discordgo.InteractionResponseData{Content: r.Content}
	if r.Embed != nil {
		data.Embeds = []*discordgo.MessageEmbed{r.Embed}
	}
	if r.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		b.logger.Warn().Err(err).Msg("Interaction response failed")
	}
}

// webhookParams converts a Reply into a follow-up message.
func webhookParams(r commands.Reply) *discordgo.WebhookParams {
	params := &discordgo.WebhookParams{Content: r.Content}
	if r.Embed != nil {
		params.Embeds = []*discordgo.MessageEmbed{r.Embed}
	}
	if r.Ephemeral {
		params.Flags = discordgo.MessageFlagsEphemeral
	}
	return params
}

func userName(u *discordgo.User) string {
	if u == nil {
		return "unknown"
	}
	return u.String()
}
