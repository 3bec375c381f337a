// ABOUTME: Discord session glue for the league bot
// ABOUTME: Receives chat commands, dispatches to handlers, sends reply text
package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/openleague/leaguekeeper/internal/league"
)

// handlerTimeout bounds one command's worth of spreadsheet round trips.
const handlerTimeout = 2 * time.Minute

// Bot wires Discord messages to the league store. All business rules live in
// the league package; this layer only parses, dispatches, and replies.
type Bot struct {
	token string
	store *league.Store
	log   zerolog.Logger
}

func New(token string, store *league.Store, log zerolog.Logger) *Bot {
	return &Bot{
		token: token,
		store: store,
		log:   log.With().Str("component", "bot").Logger(),
	}
}

// Run opens the Discord session and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	session, err := discordgo.New("Bot " + b.token)
	if err != nil {
		return fmt.Errorf("creating discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages

	session.AddHandler(b.receive)

	if err := session.Open(); err != nil {
		return fmt.Errorf("opening discord session: %w", err)
	}
	defer session.Close()

	b.log.Info().Msg("bot running")
	<-ctx.Done()
	b.log.Info().Msg("bot shutting down")
	return nil
}

func (b *Bot) receive(session *discordgo.Session, message *discordgo.MessageCreate) {
	if message.Author.ID == session.State.User.ID {
		return
	}
	if message.GuildID == "" {
		return // direct messages are ignored
	}

	p := parse(message.Content)
	if p.cmd == cmdNone && p.errText == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	reply := b.dispatch(ctx, p, message.Author.ID)
	if reply == "" {
		return
	}
	if _, err := session.ChannelMessageSend(message.ChannelID, reply); err != nil {
		b.log.Error().Err(err).Str("channel", message.ChannelID).Msg("failed to send reply")
	}
}

func (b *Bot) dispatch(ctx context.Context, p parsed, authorID string) string {
	if p.errText != "" {
		return p.errText
	}

	switch p.cmd {
	case cmdHelp:
		return helpMessage()
	case cmdRegister:
		return b.handleRegister(ctx, authorID, p.args[0])
	case cmdInvite:
		role := ""
		if len(p.args) > 1 {
			role = p.args[1]
		}
		return b.handleInvite(ctx, authorID, userID(p.args[0]), role)
	case cmdAccept:
		return b.handleAccept(ctx, authorID, p.args[0])
	case cmdDecline:
		return b.handleDecline(ctx, authorID)
	case cmdInvites:
		return b.handleInvites(ctx, authorID)
	default:
		return ""
	}
}
