// ABOUTME: Tests for bot command handlers against an in-memory remote
// ABOUTME: Exercises registration and the team invite flow end to end
package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/openleague/leaguekeeper/internal/league"
	"github.com/openleague/leaguekeeper/internal/sheetdb"
	"github.com/openleague/leaguekeeper/internal/sheetdb/sheetdbtest"
)

func newTestBot(t *testing.T) (*Bot, *league.Store, *sheetdb.WriteQueue) {
	t.Helper()
	remote := sheetdbtest.NewFakeClient()
	cache := sheetdb.NewSnapshotCache(time.Minute)
	queue := sheetdb.NewWriteQueue(remote, cache, 3, time.Millisecond, zerolog.Nop())
	ttl := 7 * 24 * time.Hour
	store := league.NewStore(remote, cache, queue, league.TTLs{
		TeamInvite:        ttl,
		MatchDateInvite:   ttl,
		MatchResultInvite: ttl,
		SubInvite:         ttl,
	}, zerolog.Nop())
	if err := store.EnsureTables(context.Background()); err != nil {
		t.Fatalf("EnsureTables() error = %v", err)
	}
	return New("test-token", store, zerolog.Nop()), store, queue
}

func addTeam(t *testing.T, store *league.Store, name, captain string) string {
	t.Helper()
	team, err := store.Teams.Create(map[string]string{"name": name, "captain_id": captain})
	if err != nil {
		t.Fatalf("Teams.Create() error = %v", err)
	}
	if err := store.Teams.Insert(context.Background(), team); err != nil {
		t.Fatalf("Teams.Insert() error = %v", err)
	}
	return team.ID()
}

func TestHandleRegister(t *testing.T) {
	b, store, q := newTestBot(t)
	defer q.Close()
	ctx := context.Background()

	reply := b.handleRegister(ctx, "user-1", "Ada")
	if !strings.Contains(reply, "Ada") {
		t.Errorf("register reply = %q, want it to name the player", reply)
	}

	players, err := store.Players.Query(ctx, func(r *sheetdb.Record) bool { return true })
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(players) != 1 {
		t.Fatalf("registered %d players, want 1", len(players))
	}
	active, err := players[0].Bool("active")
	if err != nil || !active {
		t.Errorf("active = %v, %v, want true", active, err)
	}

	// Registering twice is refused.
	reply = b.handleRegister(ctx, "user-1", "Ada Again")
	if reply != "you are already registered" {
		t.Errorf("second register reply = %q", reply)
	}
}

func TestHandleInvite_RequiresCaptaincy(t *testing.T) {
	b, _, q := newTestBot(t)
	defer q.Close()

	reply := b.handleInvite(context.Background(), "user-1", "user-2", "")
	if reply != "only team captains can invite players" {
		t.Errorf("invite reply = %q", reply)
	}
}

func TestInviteAcceptFlow(t *testing.T) {
	b, store, q := newTestBot(t)
	defer q.Close()
	ctx := context.Background()

	teamID := addTeam(t, store, "Rockets", "captain-1")

	reply := b.handleInvite(ctx, "captain-1", "player-1", "support")
	if !strings.Contains(reply, "Rockets") {
		t.Errorf("invite reply = %q, want team name", reply)
	}

	// The recipient sees it.
	listing := b.handleInvites(ctx, "player-1")
	if !strings.Contains(listing, teamID) {
		t.Errorf("invites reply = %q, want team id %s", listing, teamID)
	}

	// Pull the invite id out of the store rather than the reply text.
	pending, err := store.TeamInvites.List(ctx, "player-1")
	if err != nil || len(pending) != 1 {
		t.Fatalf("List() = %d invites, %v, want 1", len(pending), err)
	}

	reply = b.handleAccept(ctx, "player-1", pending[0].ID())
	if !strings.Contains(reply, "accepted") {
		t.Errorf("accept reply = %q", reply)
	}

	roster, err := store.TeamPlayers.Query(ctx, func(r *sheetdb.Record) bool { return true })
	if err != nil {
		t.Fatalf("roster Query() error = %v", err)
	}
	if len(roster) != 1 {
		t.Fatalf("roster has %d rows, want 1", len(roster))
	}
	gotTeam, _ := roster[0].Get("team_id")
	gotRole, _ := roster[0].Get("role")
	if gotTeam != teamID || gotRole != "support" {
		t.Errorf("roster row = (%s, %s), want (%s, support)", gotTeam, gotRole, teamID)
	}
}

func TestHandleAccept_WrongUser(t *testing.T) {
	b, store, q := newTestBot(t)
	defer q.Close()
	ctx := context.Background()

	addTeam(t, store, "Rockets", "captain-1")
	b.handleInvite(ctx, "captain-1", "player-1", "")

	pending, _ := store.TeamInvites.List(ctx, "player-1")
	if len(pending) != 1 {
		t.Fatalf("List() = %d invites, want 1", len(pending))
	}

	reply := b.handleAccept(ctx, "player-2", pending[0].ID())
	if reply != "you are not allowed to act on that invite" {
		t.Errorf("accept reply = %q", reply)
	}
}

func TestHandleDecline(t *testing.T) {
	b, store, q := newTestBot(t)
	defer q.Close()
	ctx := context.Background()

	addTeam(t, store, "Rockets", "captain-1")
	addTeam(t, store, "Comets", "captain-2")
	b.handleInvite(ctx, "captain-1", "player-1", "")
	b.handleInvite(ctx, "captain-2", "player-1", "")

	reply := b.handleDecline(ctx, "player-1")
	if reply != "declined 2 invite(s)" {
		t.Errorf("decline reply = %q", reply)
	}

	reply = b.handleDecline(ctx, "player-1")
	if reply != "you have no pending invites" {
		t.Errorf("second decline reply = %q", reply)
	}
}

func TestHandleInvites_Empty(t *testing.T) {
	b, _, q := newTestBot(t)
	defer q.Close()

	reply := b.handleInvites(context.Background(), "nobody")
	if reply != "you have no pending invites" {
		t.Errorf("invites reply = %q", reply)
	}
}
