// ABOUTME: The four concrete invite kinds and their acceptance side effects
// ABOUTME: Each kind reuses the generic protocol and differs only in what acceptance does
package league

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/openleague/leaguekeeper/internal/sheetdb"
)

// acceptForSelf authorizes only the invited party itself.
func acceptForSelf(ctx context.Context, toParty, acceptor string) error {
	if toParty != acceptor {
		return fmt.Errorf("%w: invite is addressed to %s", ErrNotAuthorized, toParty)
	}
	return nil
}

// NewTeamInvites builds the team-roster invite kind: a team invites a player;
// acceptance adds the player to the roster.
func NewTeamInvites(s *Store, table *sheetdb.Table, ttl time.Duration, log zerolog.Logger) *Invites {
	onAccept := func(ctx context.Context, inv *sheetdb.Record) error {
		teamID, _ := inv.Get(FieldInviteFrom)
		playerID, _ := inv.Get(FieldInviteTo)
		role, _ := inv.Get("role")

		member, err := s.TeamPlayers.Create(map[string]string{
			"team_id":   teamID,
			"player_id": playerID,
			"role":      role,
		})
		if err != nil {
			return err
		}
		return s.TeamPlayers.Insert(ctx, member)
	}
	return NewInvites("team", table, ttl, acceptForSelf, onAccept, log)
}

// NewMatchDateInvites builds the scheduling invite kind: one team proposes a
// date to another; acceptance by the receiving captain creates the match.
func NewMatchDateInvites(s *Store, table *sheetdb.Table, ttl time.Duration, log zerolog.Logger) *Invites {
	authorize := func(ctx context.Context, toTeam, acceptor string) error {
		return s.RequireCaptain(ctx, toTeam, acceptor)
	}
	onAccept := func(ctx context.Context, inv *sheetdb.Record) error {
		teamA, _ := inv.Get(FieldInviteFrom)
		teamB, _ := inv.Get(FieldInviteTo)
		proposed, _ := inv.Get("proposed_time")

		match, err := s.Matches.Create(map[string]string{
			"team_a_id":    teamA,
			"team_b_id":    teamB,
			"scheduled_at": proposed,
		})
		if err != nil {
			return err
		}
		if err := match.SetBool("confirmed", false); err != nil {
			return err
		}
		return s.Matches.Insert(ctx, match)
	}
	return NewInvites("match_date", table, ttl, authorize, onAccept, log)
}

// NewMatchResultInvites builds the result-confirmation invite kind: the
// reporting team proposes scores; acceptance by the opposing captain writes
// them onto the match and confirms it.
func NewMatchResultInvites(s *Store, table *sheetdb.Table, ttl time.Duration, log zerolog.Logger) *Invites {
	authorize := func(ctx context.Context, toTeam, acceptor string) error {
		return s.RequireCaptain(ctx, toTeam, acceptor)
	}
	onAccept := func(ctx context.Context, inv *sheetdb.Record) error {
		matchID, _ := inv.Get("match_id")
		scoreA, _ := inv.Get("score_a")
		scoreB, _ := inv.Get("score_b")

		match, err := s.Matches.Get(ctx, matchID)
		if err != nil {
			return err
		}
		if err := match.Set("score_a", scoreA); err != nil {
			return err
		}
		if err := match.Set("score_b", scoreB); err != nil {
			return err
		}
		if err := match.SetBool("confirmed", true); err != nil {
			return err
		}
		return s.Matches.Update(ctx, match)
	}
	return NewInvites("match_result", table, ttl, authorize, onAccept, log)
}

// NewSubInvites builds the substitute invite kind: a league asks a player to
// stand in; acceptance registers the substitute.
func NewSubInvites(s *Store, table *sheetdb.Table, ttl time.Duration, log zerolog.Logger) *Invites {
	onAccept := func(ctx context.Context, inv *sheetdb.Record) error {
		leagueID, _ := inv.Get("league_id")
		playerID, _ := inv.Get(FieldInviteTo)

		sub, err := s.Substitutes.Create(map[string]string{
			"league_id": leagueID,
			"player_id": playerID,
		})
		if err != nil {
			return err
		}
		return s.Substitutes.Insert(ctx, sub)
	}
	return NewInvites("substitute", table, ttl, acceptForSelf, onAccept, log)
}
