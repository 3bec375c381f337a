// ABOUTME: Reply text for bot commands
// ABOUTME: Maps domain errors to user-facing messages, keeping handlers thin
package bot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/openleague/leaguekeeper/internal/league"
	"github.com/openleague/leaguekeeper/internal/sheetdb"
)

func helpMessage() string {
	lines := []string{
		"**leaguekeeper commands**",
		"`league register <display_name>` - register yourself as a player",
		"`league invite <player> [role]` - invite a player to your team (captains only)",
		"`league accept <invite_id>` - accept a team invite",
		"`league decline` - decline all your pending team invites",
		"`league invites` - list your pending team invites",
	}
	return strings.Join(lines, "\n")
}

// errorReply translates domain errors into something a Discord user can act
// on. Unrecognised errors get a generic message; details stay in the logs.
func errorReply(err error) string {
	switch {
	case errors.Is(err, league.ErrDuplicateInvite):
		return "that player already has a pending invite from your team"
	case errors.Is(err, league.ErrInviteExpired):
		return "that invite has expired"
	case errors.Is(err, league.ErrInviteNotFound):
		return "that invite no longer exists"
	case errors.Is(err, league.ErrNotAuthorized):
		return "you are not allowed to act on that invite"
	case errors.Is(err, sheetdb.ErrRecordExists):
		return "you are already registered"
	case errors.Is(err, sheetdb.ErrRecordNotFound):
		return "I could not find that record"
	case errors.Is(err, sheetdb.ErrWrite):
		return "the spreadsheet rejected the change, please try again later"
	default:
		return "something went wrong, please try again later"
	}
}

func inviteLine(rec *sheetdb.Record) string {
	from, _ := rec.Get(league.FieldInviteFrom)
	role, _ := rec.Get("role")
	if role == "" {
		return fmt.Sprintf("`%s` from team `%s`", rec.ID(), from)
	}
	return fmt.Sprintf("`%s` from team `%s` as %s", rec.ID(), from, role)
}
