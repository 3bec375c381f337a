// ABOUTME: Field schemas for every league entity and invite table
// ABOUTME: Column order is load-bearing; never reorder without a migration
package league

import "github.com/openleague/leaguekeeper/internal/sheetdb"

// Fields shared by every invite table, in this order, right after the base
// fields. Payload fields follow per kind.
const (
	FieldInviteFrom      = "invite_from"
	FieldInviteTo        = "invite_to"
	FieldInviteStatus    = "invite_status"
	FieldInviteExpiresAt = "invite_expires_at"
)

// Invite lifecycle states. ACCEPTED and DECLINED are terminal; the row is
// deleted as soon as one is reached, so they are mostly visible in history.
const (
	StatusPending  = "PENDING"
	StatusAccepted = "ACCEPTED"
	StatusDeclined = "DECLINED"
)

var (
	PlayerSchema     = sheetdb.NewFieldSchema("players", "discord_id", "display_name", "region", "active")
	TeamSchema       = sheetdb.NewFieldSchema("teams", "name", "tag", "region", "captain_id")
	TeamPlayerSchema = sheetdb.NewFieldSchema("team_players", "team_id", "player_id", "role")
	MatchSchema      = sheetdb.NewFieldSchema("matches", "team_a_id", "team_b_id", "scheduled_at", "score_a", "score_b", "confirmed")
	SubstituteSchema = sheetdb.NewFieldSchema("substitutes", "league_id", "player_id")

	TeamInviteSchema        = inviteSchema("team_invites", "role")
	MatchDateInviteSchema   = inviteSchema("match_date_invites", "proposed_time")
	MatchResultInviteSchema = inviteSchema("match_result_invites", "match_id", "score_a", "score_b")
	SubInviteSchema         = inviteSchema("sub_invites", "league_id")
)

func inviteSchema(table string, payload ...string) sheetdb.FieldSchema {
	fields := append([]string{FieldInviteFrom, FieldInviteTo, FieldInviteStatus, FieldInviteExpiresAt}, payload...)
	return sheetdb.NewFieldSchema(table, fields...)
}
