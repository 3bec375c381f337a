// ABOUTME: Record is one in-memory row bound to a FieldSchema
// ABOUTME: Owns all cell coercion: booleans, optional integers, RFC3339 timestamps
package sheetdb

import (
	"fmt"
	"strconv"
	"time"
)

// Sentinel cell values for booleans. The remote store holds only strings.
const (
	boolTrue  = "TRUE"
	boolFalse = "FALSE"
)

// timeLayout is the cell format for timestamps.
const timeLayout = time.RFC3339

// Record is a named tuple of scalar cells addressed through a FieldSchema.
// Construct with NewRecord (write path) or RecordFromRow (read path).
type Record struct {
	schema FieldSchema
	values []string
}

// NewRecord returns an empty record for the schema. All cells start empty.
func NewRecord(schema FieldSchema) *Record {
	return &Record{schema: schema, values: make([]string, schema.Len())}
}

// RecordFromRow binds a raw positional row to the schema. Rows shorter than
// the schema are padded with empty cells (the store trims trailing blanks);
// longer rows are rejected.
func RecordFromRow(schema FieldSchema, row []string) (*Record, error) {
	if len(row) > schema.Len() {
		return nil, fmt.Errorf("%w: row has %d cells, schema %q has %d fields",
			ErrBadValue, len(row), schema.Table(), schema.Len())
	}
	values := make([]string, schema.Len())
	copy(values, row)
	return &Record{schema: schema, values: values}, nil
}

// Schema returns the schema the record is bound to.
func (r *Record) Schema() FieldSchema { return r.schema }

// Row serializes the record back to its positional form.
func (r *Record) Row() []string {
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

// ID returns the record_id cell.
func (r *Record) ID() string {
	v, _ := r.Get(FieldRecordID)
	return v
}

// Get returns the raw cell for a field.
func (r *Record) Get(field string) (string, error) {
	i, ok := r.schema.Index(field)
	if !ok {
		return "", fieldErr(ErrUnknownField, field)
	}
	return r.values[i], nil
}

// Set writes the raw cell for a field.
func (r *Record) Set(field, value string) error {
	i, ok := r.schema.Index(field)
	if !ok {
		return fieldErr(ErrUnknownField, field)
	}
	r.values[i] = value
	return nil
}

// Bool reads a boolean cell. Only the two sentinel values are accepted.
func (r *Record) Bool(field string) (bool, error) {
	v, err := r.Get(field)
	if err != nil {
		return false, err
	}
	switch v {
	case boolTrue:
		return true, nil
	case boolFalse, "":
		return false, nil
	default:
		return false, fmt.Errorf("%w: field %q holds %q, want %q or %q",
			ErrBadValue, field, v, boolTrue, boolFalse)
	}
}

// SetBool writes a boolean cell as its sentinel string.
func (r *Record) SetBool(field string, value bool) error {
	if value {
		return r.Set(field, boolTrue)
	}
	return r.Set(field, boolFalse)
}

// Int reads a required integer cell.
func (r *Record) Int(field string) (int, error) {
	v, err := r.Get(field)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: field %q holds %q, want integer", ErrBadValue, field, v)
	}
	return n, nil
}

// OptionalInt reads an integer cell that may be empty. The second return
// reports whether the cell held a value.
func (r *Record) OptionalInt(field string) (int, bool, error) {
	v, err := r.Get(field)
	if err != nil {
		return 0, false, err
	}
	if v == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, fmt.Errorf("%w: field %q holds %q, want integer", ErrBadValue, field, v)
	}
	return n, true, nil
}

// SetInt writes an integer cell.
func (r *Record) SetInt(field string, value int) error {
	return r.Set(field, strconv.Itoa(value))
}

// ClearInt empties an optional integer cell.
func (r *Record) ClearInt(field string) error {
	return r.Set(field, "")
}

// Time reads a timestamp cell. An empty cell returns the zero time.
func (r *Record) Time(field string) (time.Time, error) {
	v, err := r.Get(field)
	if err != nil {
		return time.Time{}, err
	}
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(timeLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: field %q holds %q, want RFC3339", ErrBadValue, field, v)
	}
	return t, nil
}

// SetTime writes a timestamp cell in RFC3339, UTC.
func (r *Record) SetTime(field string, t time.Time) error {
	return r.Set(field, t.UTC().Format(timeLayout))
}

// Expired reports whether the record's expiry field, if its schema has one,
// holds a time before now. Records without an expiry field never expire.
func (r *Record) Expired(now time.Time) bool {
	field, ok := r.schema.ExpiryField()
	if !ok {
		return false
	}
	t, err := r.Time(field)
	if err != nil || t.IsZero() {
		return false
	}
	return t.Before(now)
}
