// ABOUTME: Append-only audit rows mirroring every entity table
// ABOUTME: One history row per create/update/delete, written before the mutation
package sheetdb

import "time"

// HistoryOp is the audited operation kind.
type HistoryOp string

const (
	HistoryCreate HistoryOp = "CREATE"
	HistoryUpdate HistoryOp = "UPDATE"
	HistoryDelete HistoryOp = "DELETE"
)

// historyRow builds the audit row for an operation: the history header fields
// followed by a full snapshot of the subject record at this point in time.
func historyRow(op HistoryOp, subject *Record, historyID string, now time.Time) []string {
	head := []string{historyID, now.UTC().Format(timeLayout), string(op)}
	return append(head, subject.Row()...)
}
