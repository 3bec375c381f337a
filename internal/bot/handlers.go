// ABOUTME: Command handlers for the league bot
// ABOUTME: Each handler calls into the league store and returns reply text
package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/openleague/leaguekeeper/internal/sheetdb"
)

func (b *Bot) handleRegister(ctx context.Context, authorID, displayName string) string {
	if _, err := b.store.RegisterPlayer(ctx, authorID, displayName); err != nil {
		b.log.Error().Err(err).Msg("register failed")
		return errorReply(err)
	}
	return fmt.Sprintf("registered as **%s**", displayName)
}

func (b *Bot) handleInvite(ctx context.Context, authorID, playerID, role string) string {
	team, err := b.captainTeam(ctx, authorID)
	if err != nil {
		return errorReply(err)
	}
	if team == nil {
		return "only team captains can invite players"
	}

	payload := map[string]string{}
	if role != "" {
		payload["role"] = role
	}
	inv, err := b.store.TeamInvites.Create(ctx, team.ID(), playerID, payload)
	if err != nil {
		return errorReply(err)
	}

	name, _ := team.Get("name")
	return fmt.Sprintf("invited <@%s> to **%s** (invite `%s`)", playerID, name, inv.ID())
}

func (b *Bot) handleAccept(ctx context.Context, authorID, inviteID string) string {
	if err := b.store.TeamInvites.Accept(ctx, inviteID, authorID); err != nil {
		return errorReply(err)
	}
	return "invite accepted, welcome to the team"
}

func (b *Bot) handleDecline(ctx context.Context, authorID string) string {
	declined, err := b.store.TeamInvites.DeclineAll(ctx, authorID)
	if err != nil {
		return errorReply(err)
	}
	if declined == 0 {
		return "you have no pending invites"
	}
	return fmt.Sprintf("declined %d invite(s)", declined)
}

func (b *Bot) handleInvites(ctx context.Context, authorID string) string {
	pending, err := b.store.TeamInvites.List(ctx, authorID)
	if err != nil {
		return errorReply(err)
	}
	if len(pending) == 0 {
		return "you have no pending invites"
	}

	lines := make([]string, 0, len(pending)+1)
	lines = append(lines, "**your pending invites**")
	for _, rec := range pending {
		lines = append(lines, inviteLine(rec))
	}
	return strings.Join(lines, "\n")
}

// captainTeam returns the team captained by playerID, or nil when the player
// captains no team.
func (b *Bot) captainTeam(ctx context.Context, playerID string) (*sheetdb.Record, error) {
	teams, err := b.store.Teams.Query(ctx, func(r *sheetdb.Record) bool {
		captain, _ := r.Get("captain_id")
		return captain == playerID
	})
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, nil
	}
	return teams[0], nil
}
