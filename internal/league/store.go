// ABOUTME: Store wires every entity table and invite kind over one shared cache and queue
// ABOUTME: Constructed once at process start; no ambient global state
package league

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/openleague/leaguekeeper/internal/sheetdb"
)

// TTLs holds the per-invite-kind expiration windows.
type TTLs struct {
	TeamInvite        time.Duration
	MatchDateInvite   time.Duration
	MatchResultInvite time.Duration
	SubInvite         time.Duration
}

// Store is the league-facing persistence surface. All tables share the one
// cache and write queue passed in, so per-table FIFO and read-your-own-writes
// hold across entity kinds.
type Store struct {
	Players     *sheetdb.Table
	Teams       *sheetdb.Table
	TeamPlayers *sheetdb.Table
	Matches     *sheetdb.Table
	Substitutes *sheetdb.Table

	TeamInvites        *Invites
	MatchDateInvites   *Invites
	MatchResultInvites *Invites
	SubInvites         *Invites

	log zerolog.Logger
}

// NewStore builds every table and invite kind.
func NewStore(client sheetdb.RemoteClient, cache *sheetdb.SnapshotCache, queue *sheetdb.WriteQueue, ttls TTLs, log zerolog.Logger) *Store {
	s := &Store{
		Players:     sheetdb.NewTable(PlayerSchema, client, cache, queue, log),
		Teams:       sheetdb.NewTable(TeamSchema, client, cache, queue, log),
		TeamPlayers: sheetdb.NewTable(TeamPlayerSchema, client, cache, queue, log),
		Matches:     sheetdb.NewTable(MatchSchema, client, cache, queue, log),
		Substitutes: sheetdb.NewTable(SubstituteSchema, client, cache, queue, log),
		log:         log,
	}

	s.TeamInvites = NewTeamInvites(s, sheetdb.NewTable(TeamInviteSchema, client, cache, queue, log), ttls.TeamInvite, log)
	s.MatchDateInvites = NewMatchDateInvites(s, sheetdb.NewTable(MatchDateInviteSchema, client, cache, queue, log), ttls.MatchDateInvite, log)
	s.MatchResultInvites = NewMatchResultInvites(s, sheetdb.NewTable(MatchResultInviteSchema, client, cache, queue, log), ttls.MatchResultInvite, log)
	s.SubInvites = NewSubInvites(s, sheetdb.NewTable(SubInviteSchema, client, cache, queue, log), ttls.SubInvite, log)

	return s
}

// EnsureTables creates every entity table and its history mirror. Missing
// and uncreatable worksheets surface as sheetdb.ErrSchema, fatal at startup.
func (s *Store) EnsureTables(ctx context.Context) error {
	tables := []*sheetdb.Table{
		s.Players, s.Teams, s.TeamPlayers, s.Matches, s.Substitutes,
		s.TeamInvites.table, s.MatchDateInvites.table, s.MatchResultInvites.table, s.SubInvites.table,
	}
	for _, t := range tables {
		if err := t.EnsureExists(ctx); err != nil {
			return err
		}
	}
	return nil
}

// RegisterPlayer creates a player keyed by Discord id. Fails with
// sheetdb.ErrRecordExists when the id is already registered.
func (s *Store) RegisterPlayer(ctx context.Context, discordID, displayName string) (*sheetdb.Record, error) {
	existing, err := s.Players.Query(ctx, func(r *sheetdb.Record) bool {
		id, _ := r.Get("discord_id")
		return id == discordID
	})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: player %s", sheetdb.ErrRecordExists, discordID)
	}

	player, err := s.Players.Create(map[string]string{
		"discord_id":   discordID,
		"display_name": displayName,
	})
	if err != nil {
		return nil, err
	}
	if err := player.SetBool("active", true); err != nil {
		return nil, err
	}
	if err := s.Players.Insert(ctx, player); err != nil {
		return nil, err
	}
	s.log.Info().Str("discord_id", discordID).Str("player_id", player.ID()).Msg("player registered")
	return player, nil
}

// RequireCaptain verifies that playerID is the captain of teamID.
func (s *Store) RequireCaptain(ctx context.Context, teamID, playerID string) error {
	team, err := s.Teams.Get(ctx, teamID)
	if err != nil {
		return err
	}
	captain, err := team.Get("captain_id")
	if err != nil {
		return err
	}
	if captain != playerID {
		return fmt.Errorf("%w: %s is not captain of team %s", ErrNotAuthorized, playerID, teamID)
	}
	return nil
}
