// ABOUTME: FieldSchema maps entity field names to fixed worksheet column positions
// ABOUTME: Rows are positional arrays, so column order is the only addressing mechanism
package sheetdb

// Base fields present at the head of every entity schema, in this order.
const (
	FieldRecordID  = "record_id"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// History fields prepended to the mirrored entity schema.
const (
	FieldHistoryID        = "history_id"
	FieldHistoryCreatedAt = "history_created_at"
	FieldHistoryOperation = "history_operation"
)

// HistorySuffix is appended to an entity table name to form its audit table name.
const HistorySuffix = "_history"

// Recognized expiration fields. A row whose expiry is in the past is invisible
// to Query and reaped lazily.
var expiryFields = []string{"expires_at", "invite_expires_at"}

// FieldSchema is an ordered, contiguous, zero-based enumeration of field names
// for one entity table. Field order must never change for an existing table
// without a migration: storage position is the only addressing mechanism.
type FieldSchema struct {
	table  string
	fields []string
	index  map[string]int
}

// NewFieldSchema builds a schema for table with the given domain fields.
// record_id, created_at and updated_at are always prepended.
func NewFieldSchema(table string, domainFields ...string) FieldSchema {
	fields := append([]string{FieldRecordID, FieldCreatedAt, FieldUpdatedAt}, domainFields...)
	return newRawSchema(table, fields)
}

func newRawSchema(table string, fields []string) FieldSchema {
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		index[f] = i
	}
	return FieldSchema{table: table, fields: fields, index: index}
}

// Table returns the backing table name.
func (s FieldSchema) Table() string { return s.table }

// Fields returns the field names in column order. This is also the header row.
func (s FieldSchema) Fields() []string {
	out := make([]string, len(s.fields))
	copy(out, s.fields)
	return out
}

// Len returns the number of columns.
func (s FieldSchema) Len() int { return len(s.fields) }

// Index returns the column position of a field name.
func (s FieldSchema) Index(field string) (int, bool) {
	i, ok := s.index[field]
	return i, ok
}

// Has reports whether the schema defines the field.
func (s FieldSchema) Has(field string) bool {
	_, ok := s.index[field]
	return ok
}

// ExpiryField returns the schema's expiration field name, if it has one.
func (s FieldSchema) ExpiryField() (string, bool) {
	for _, f := range expiryFields {
		if s.Has(f) {
			return f, true
		}
	}
	return "", false
}

// History derives the audit schema: the entity schema mirrored behind
// {history_id, history_created_at, history_operation}, on the entity table
// name plus the history suffix.
func (s FieldSchema) History() FieldSchema {
	fields := append([]string{FieldHistoryID, FieldHistoryCreatedAt, FieldHistoryOperation}, s.fields...)
	return newRawSchema(s.table+HistorySuffix, fields)
}
