package model

import (
	"time"
)

// Run is one extraction of records from a source with a single format.
type Run struct {
	ID        string    `json:"id"        db:"id"` // uuid
	Source    string    `json:"source"    db:"source"`
	Format    string    `json:"format"    db:"format"`
	Locale    string    `json:"locale"    db:"locale"` // "C" for the default locale
	Fields    int       `json:"fields"    db:"fields"`
	Status    string    `json:"status"    db:"status"` // running, ok, failed
	Records   int       `json:"records"   db:"records"`
	StartedAt time.Time `json:"startedAt" db:"started_at"`

	FinishedAt   *time.Time `json:"finishedAt,omitempty"   db:"finished_at"`
	ErrorCode    *string    `json:"errorCode,omitempty"    db:"error_code"`
	ErrorMessage *string    `json:"errorMessage,omitempty" db:"error_message"`
	ErrorPos     *int       `json:"errorPos,omitempty"     db:"error_pos"` // byte offset into the source
}

// Run status values.
const (
	RunStatusRunning = "running"
	RunStatusOk      = "ok"
	RunStatusFailed  = "failed"
)

// Record is the set of values scanned by one pass of a run's format.
type Record struct {
	// Natural key: (run_id, seq)
	ID     int64  `json:"id"     db:"id"`
	RunID  string `json:"runId"  db:"run_id"`
	Seq    int    `json:"seq"    db:"seq"`    // 1-based
	Offset int    `json:"offset" db:"byte_off"` // byte offset of the record in the source
	Length int    `json:"length" db:"byte_len"` // bytes consumed by the record

	Values []any `json:"values" db:"-"` // stored as a JSON array
}
