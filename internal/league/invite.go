// ABOUTME: Generic invite lifecycle shared by all four invite kinds
// ABOUTME: pending -> accepted/declined, rows deleted on terminal states, expiry swept lazily
package league

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/openleague/leaguekeeper/internal/sheetdb"
)

var (
	// ErrDuplicateInvite indicates a pending invite already exists between
	// the same ordered (from, to) pair for this kind.
	ErrDuplicateInvite = errors.New("invite already pending")

	// ErrInviteNotFound indicates the invite vanished: already accepted,
	// declined, reaped, or never existed.
	ErrInviteNotFound = errors.New("invite not found")

	// ErrInviteExpired indicates the invite outlived its window. Treated
	// like ErrInviteNotFound by callers; kept distinct for audit clarity.
	ErrInviteExpired = errors.New("invite expired")

	// ErrNotAuthorized indicates the acceptor may not act for the
	// recipient party.
	ErrNotAuthorized = errors.New("not authorized for this invite")
)

// AuthorizeFunc reports whether acceptor may act for the recipient party.
type AuthorizeFunc func(ctx context.Context, toParty, acceptor string) error

// AcceptFunc applies the kind-specific acceptance side effect, e.g. adding a
// roster row or creating a match. It runs before the invite row is removed.
type AcceptFunc func(ctx context.Context, inv *sheetdb.Record) error

// Invites runs the invite protocol for one kind over its backing table.
type Invites struct {
	kind      string
	table     *sheetdb.Table
	ttl       time.Duration
	authorize AuthorizeFunc
	onAccept  AcceptFunc
	now       func() time.Time
	log       zerolog.Logger
}

// NewInvites wires the protocol for one invite kind.
func NewInvites(kind string, table *sheetdb.Table, ttl time.Duration, authorize AuthorizeFunc, onAccept AcceptFunc, log zerolog.Logger) *Invites {
	return &Invites{
		kind:      kind,
		table:     table,
		ttl:       ttl,
		authorize: authorize,
		onAccept:  onAccept,
		now:       time.Now,
		log:       log.With().Str("invite_kind", kind).Logger(),
	}
}

// Create opens a pending invite from one party to another. payload carries
// the kind's extra fields. Fails with ErrDuplicateInvite while a pending
// invite between the same ordered pair exists.
func (v *Invites) Create(ctx context.Context, from, to string, payload map[string]string) (*sheetdb.Record, error) {
	existing, err := v.table.Query(ctx, func(r *sheetdb.Record) bool {
		f, _ := r.Get(FieldInviteFrom)
		t, _ := r.Get(FieldInviteTo)
		s, _ := r.Get(FieldInviteStatus)
		return f == from && t == to && s == StatusPending
	})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: %s from %s to %s", ErrDuplicateInvite, v.kind, from, to)
	}

	fields := make(map[string]string, len(payload)+3)
	for k, val := range payload {
		fields[k] = val
	}
	fields[FieldInviteFrom] = from
	fields[FieldInviteTo] = to
	fields[FieldInviteStatus] = StatusPending

	rec, err := v.table.Create(fields)
	if err != nil {
		return nil, err
	}
	if err := rec.SetTime(FieldInviteExpiresAt, v.now().Add(v.ttl)); err != nil {
		return nil, err
	}
	if err := v.table.Insert(ctx, rec); err != nil {
		return nil, err
	}
	v.log.Info().Str("from", from).Str("to", to).Str("invite_id", rec.ID()).Msg("invite created")
	return rec, nil
}

// List returns the recipient's pending invites. Expired invites never
// appear; the underlying query sweeps them.
func (v *Invites) List(ctx context.Context, to string) ([]*sheetdb.Record, error) {
	return v.table.Query(ctx, func(r *sheetdb.Record) bool {
		t, _ := r.Get(FieldInviteTo)
		s, _ := r.Get(FieldInviteStatus)
		return t == to && s == StatusPending
	})
}

// Accept commits an invite: re-fetch by id, authorize the acceptor, apply
// the kind's side effect, mark the row ACCEPTED, then delete it. The side
// effect runs first and the delete last, so a crash mid-sequence leaves the
// invite visible for a retry instead of silently losing the side effect.
// There is no cross-row transaction; exclusivity rests on the re-fetch.
func (v *Invites) Accept(ctx context.Context, inviteID, acceptor string) error {
	rec, err := v.table.Get(ctx, inviteID)
	if err != nil {
		if errors.Is(err, sheetdb.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrInviteNotFound, inviteID)
		}
		return err
	}
	if rec.Expired(v.now()) {
		v.table.Reap(ctx, []string{rec.ID()})
		return fmt.Errorf("%w: %s", ErrInviteExpired, inviteID)
	}

	to, _ := rec.Get(FieldInviteTo)
	if err := v.authorize(ctx, to, acceptor); err != nil {
		return err
	}

	if err := v.onAccept(ctx, rec); err != nil {
		return err
	}

	if err := rec.Set(FieldInviteStatus, StatusAccepted); err != nil {
		return err
	}
	if err := v.table.Update(ctx, rec); err != nil {
		if errors.Is(err, sheetdb.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrInviteNotFound, inviteID)
		}
		return err
	}
	if err := v.table.Delete(ctx, rec.ID()); err != nil && !errors.Is(err, sheetdb.ErrRecordNotFound) {
		return err
	}
	v.log.Info().Str("invite_id", inviteID).Str("acceptor", acceptor).Msg("invite accepted")
	return nil
}

// DeclineAll declines every pending invite for the recipient. Not atomic
// across rows; a partial run is fine because re-running finishes the rest.
// Returns the number of invites declined.
func (v *Invites) DeclineAll(ctx context.Context, to string) (int, error) {
	pending, err := v.List(ctx, to)
	if err != nil {
		return 0, err
	}

	declined := 0
	for _, rec := range pending {
		if err := rec.Set(FieldInviteStatus, StatusDeclined); err != nil {
			return declined, err
		}
		if err := v.table.Update(ctx, rec); err != nil {
			if errors.Is(err, sheetdb.ErrRecordNotFound) {
				continue // raced with another decline or a reap
			}
			return declined, err
		}
		if err := v.table.Delete(ctx, rec.ID()); err != nil && !errors.Is(err, sheetdb.ErrRecordNotFound) {
			return declined, err
		}
		declined++
	}
	if declined > 0 {
		v.log.Info().Str("to", to).Int("declined", declined).Msg("declined pending invites")
	}
	return declined, nil
}
