// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/mdhender/scnr/model"
)

// values are stored as JSON arrays; numbers come back as json.Number
// so that integers survive the round trip.
var json = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// InsertRun inserts a Run. The caller assigns the ID.
func (s *SQLiteStore) InsertRun(ctx context.Context, run *model.Run) error {
	const query = `
		INSERT INTO runs (id, source, format, locale, fields, status, records, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		run.ID,
		run.Source,
		run.Format,
		run.Locale,
		run.Fields,
		run.Status,
		run.Records,
		run.StartedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun records the outcome of a run: status, record count,
// finish time and error details.
func (s *SQLiteStore) FinishRun(ctx context.Context, run *model.Run) error {
	const query = `
		UPDATE runs
		SET status = ?,
		    records = ?,
		    finished_at = ?,
		    error_code = ?,
		    error_message = ?,
		    error_pos = ?
		WHERE id = ?
	`
	var finishedAt sql.NullString
	if run.FinishedAt != nil {
		finishedAt = nullString(run.FinishedAt.Format(time.RFC3339Nano))
	}
	var errorPos sql.NullInt64
	if run.ErrorPos != nil {
		errorPos = sql.NullInt64{Int64: int64(*run.ErrorPos), Valid: true}
	}
	result, err := s.db.ExecContext(ctx, query,
		run.Status,
		run.Records,
		finishedAt,
		nullStringFromPtr(run.ErrorCode),
		nullStringFromPtr(run.ErrorMessage),
		errorPos,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("finish run: %w", err)
	} else if n == 0 {
		return fmt.Errorf("finish run: %s: not found", run.ID)
	}
	return nil
}

// GetRun returns a run by ID, or nil if not found.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*model.Run, error) {
	const query = `
		SELECT id, source, format, locale, fields, status, records, started_at,
		       finished_at, error_code, error_message, error_pos
		FROM runs
		WHERE id = ?
	`
	run, err := scanRun(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListRuns returns all runs, most recent first.
func (s *SQLiteStore) ListRuns(ctx context.Context) ([]model.Run, error) {
	const query = `
		SELECT id, source, format, locale, fields, status, records, started_at,
		       finished_at, error_code, error_message, error_pos
		FROM runs
		ORDER BY started_at DESC, id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// InsertRecord inserts a Record and returns its assigned ID.
func (s *SQLiteStore) InsertRecord(ctx context.Context, rec *model.Record) (int64, error) {
	values, err := json.Marshal(rec.Values)
	if err != nil {
		return 0, fmt.Errorf("encode record values: %w", err)
	}
	const query = `
		INSERT INTO records (run_id, seq, byte_off, byte_len, "values")
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query,
		rec.RunID,
		rec.Seq,
		rec.Offset,
		rec.Length,
		string(values),
	)
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}
	return result.LastInsertId()
}

// GetRecords returns the records of a run in sequence order.
func (s *SQLiteStore) GetRecords(ctx context.Context, runID string) ([]model.Record, error) {
	const query = `
		SELECT id, run_id, seq, byte_off, byte_len, "values"
		FROM records
		WHERE run_id = ?
		ORDER BY seq
	`
	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get records: %w", err)
	}
	defer rows.Close()

	var recs []model.Record
	for rows.Next() {
		var rec model.Record
		var values string
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Seq, &rec.Offset, &rec.Length, &values); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if err := json.UnmarshalFromString(values, &rec.Values); err != nil {
			return nil, fmt.Errorf("decode record %d values: %w", rec.ID, err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.Run, error) {
	var run model.Run
	var startedAt string
	var finishedAt, errorCode, errorMessage sql.NullString
	var errorPos sql.NullInt64
	if err := row.Scan(
		&run.ID, &run.Source, &run.Format, &run.Locale, &run.Fields, &run.Status, &run.Records, &startedAt,
		&finishedAt, &errorCode, &errorMessage, &errorPos,
	); err != nil {
		return nil, err
	}
	run.StartedAt = parseTime(startedAt)
	run.FinishedAt = parseTimePtr(finishedAt)
	run.ErrorCode = nullStringPtr(errorCode)
	run.ErrorMessage = nullStringPtr(errorMessage)
	if errorPos.Valid {
		pos := int(errorPos.Int64)
		run.ErrorPos = &pos
	}
	return &run, nil
}

// Helper functions

func parseTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	return time.Time{}
}

func parseTimePtr(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339Nano, ns.String); err == nil {
		return &t
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullStringFromPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
