// ABOUTME: Tests for Record cell access and coercion
// ABOUTME: Covers round-tripping, boolean sentinels, optional integers, timestamps
package sheetdb

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

var matchSchema = NewFieldSchema("matches",
	"team_a_id", "team_b_id", "scheduled_at", "score_a", "score_b", "confirmed")

func TestRecordFromRow_RoundTrip(t *testing.T) {
	row := []string{
		"rec-1", "2026-08-01T10:00:00Z", "2026-08-02T11:00:00Z",
		"team-a", "team-b", "2026-08-10T18:00:00Z", "3", "", "TRUE",
	}

	rec, err := RecordFromRow(matchSchema, row)
	if err != nil {
		t.Fatalf("RecordFromRow() error = %v", err)
	}
	if got := rec.Row(); !reflect.DeepEqual(got, row) {
		t.Errorf("Row() = %v, want %v", got, row)
	}
}

func TestRecordFromRow_PadsShortRows(t *testing.T) {
	// The store trims trailing empty cells.
	rec, err := RecordFromRow(matchSchema, []string{"rec-1"})
	if err != nil {
		t.Fatalf("RecordFromRow() error = %v", err)
	}
	if got := len(rec.Row()); got != matchSchema.Len() {
		t.Errorf("Row() length = %d, want %d", got, matchSchema.Len())
	}
	if rec.ID() != "rec-1" {
		t.Errorf("ID() = %q, want rec-1", rec.ID())
	}
}

func TestRecordFromRow_RejectsLongRows(t *testing.T) {
	row := make([]string, matchSchema.Len()+1)
	if _, err := RecordFromRow(matchSchema, row); !errors.Is(err, ErrBadValue) {
		t.Errorf("RecordFromRow() error = %v, want ErrBadValue", err)
	}
}

func TestRecord_UnknownField(t *testing.T) {
	rec := NewRecord(matchSchema)
	if _, err := rec.Get("nope"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Get(nope) error = %v, want ErrUnknownField", err)
	}
	if err := rec.Set("nope", "x"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Set(nope) error = %v, want ErrUnknownField", err)
	}
}

func TestRecord_BoolSentinels(t *testing.T) {
	rec := NewRecord(matchSchema)

	if err := rec.SetBool("confirmed", true); err != nil {
		t.Fatalf("SetBool() error = %v", err)
	}
	if cell, _ := rec.Get("confirmed"); cell != "TRUE" {
		t.Errorf("confirmed cell = %q, want TRUE", cell)
	}

	got, err := rec.Bool("confirmed")
	if err != nil || !got {
		t.Errorf("Bool() = %v, %v, want true, nil", got, err)
	}

	// Empty cell reads as false.
	if got, err := rec.Bool("team_a_id"); err != nil || got {
		t.Errorf("Bool(empty) = %v, %v, want false, nil", got, err)
	}
}

func TestRecord_BoolInvalidValue(t *testing.T) {
	rec := NewRecord(matchSchema)
	_ = rec.Set("confirmed", "yes")

	if _, err := rec.Bool("confirmed"); !errors.Is(err, ErrBadValue) {
		t.Errorf("Bool() error = %v, want ErrBadValue", err)
	}
}

func TestRecord_OptionalInt(t *testing.T) {
	rec := NewRecord(matchSchema)

	if _, ok, err := rec.OptionalInt("score_a"); err != nil || ok {
		t.Errorf("OptionalInt(empty) = ok=%v, err=%v, want absent, nil", ok, err)
	}

	if err := rec.SetInt("score_a", 2); err != nil {
		t.Fatalf("SetInt() error = %v", err)
	}
	n, ok, err := rec.OptionalInt("score_a")
	if err != nil || !ok || n != 2 {
		t.Errorf("OptionalInt() = %d, %v, %v, want 2, true, nil", n, ok, err)
	}

	if err := rec.ClearInt("score_a"); err != nil {
		t.Fatalf("ClearInt() error = %v", err)
	}
	if _, ok, _ := rec.OptionalInt("score_a"); ok {
		t.Error("OptionalInt() after ClearInt reported a value")
	}
}

func TestRecord_IntInvalidValue(t *testing.T) {
	rec := NewRecord(matchSchema)
	_ = rec.Set("score_a", "three")

	if _, err := rec.Int("score_a"); !errors.Is(err, ErrBadValue) {
		t.Errorf("Int() error = %v, want ErrBadValue", err)
	}
	if _, _, err := rec.OptionalInt("score_a"); !errors.Is(err, ErrBadValue) {
		t.Errorf("OptionalInt() error = %v, want ErrBadValue", err)
	}
}

func TestRecord_TimeRoundTrip(t *testing.T) {
	rec := NewRecord(matchSchema)
	when := time.Date(2026, 8, 10, 18, 0, 0, 0, time.UTC)

	if err := rec.SetTime("scheduled_at", when); err != nil {
		t.Fatalf("SetTime() error = %v", err)
	}
	got, err := rec.Time("scheduled_at")
	if err != nil {
		t.Fatalf("Time() error = %v", err)
	}
	if !got.Equal(when) {
		t.Errorf("Time() = %v, want %v", got, when)
	}

	// Empty cell reads as zero time.
	if got, err := rec.Time("created_at"); err != nil || !got.IsZero() {
		t.Errorf("Time(empty) = %v, %v, want zero, nil", got, err)
	}
}

func TestRecord_Expired(t *testing.T) {
	schema := NewFieldSchema("team_invites", "invite_from", "invite_expires_at")
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	rec := NewRecord(schema)
	if rec.Expired(now) {
		t.Error("Expired() = true for empty expiry cell")
	}

	_ = rec.SetTime("invite_expires_at", now.Add(-time.Hour))
	if !rec.Expired(now) {
		t.Error("Expired() = false for past expiry")
	}

	_ = rec.SetTime("invite_expires_at", now.Add(time.Hour))
	if rec.Expired(now) {
		t.Error("Expired() = true for future expiry")
	}

	plain := NewRecord(NewFieldSchema("teams", "name"))
	if plain.Expired(now) {
		t.Error("Expired() = true for schema without expiry field")
	}
}
