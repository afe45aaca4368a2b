// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package extract scans a file into records, one pass of a format per
// record, and persists each run and its records.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mdhender/scnr"
	"github.com/mdhender/scnr/model"
	"github.com/spf13/afero"
)

// Service runs extractions.
type Service struct {
	store  Store
	fs     afero.Fs
	logger *slog.Logger
}

// Store defines the store operations needed by Service.
type Store interface {
	InsertRun(ctx context.Context, run *model.Run) error
	FinishRun(ctx context.Context, run *model.Run) error
	InsertRecord(ctx context.Context, rec *model.Record) (int64, error)
}

// NewService creates a new Service.
func NewService(store Store) *Service {
	return &Service{
		store:  store,
		fs:     afero.NewOsFs(),
		logger: slog.Default(),
	}
}

// SetFS sets the filesystem for testing.
func (s *Service) SetFS(fs afero.Fs) {
	s.fs = fs
}

// SetLogger sets the logger. Scans log each format segment at debug level.
func (s *Service) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Request contains the parameters for an extraction.
type Request struct {
	Path   string
	Format string
	// Types gives the destination type of each field, in argument order.
	// If empty, every field is scanned into a string.
	Types []FieldType
	// Locale is used for fields with the L flag. If nil, the default
	// locale is used.
	Locale *scnr.CustomLocale
	// Limit stops the run after that many records. Zero is no limit.
	Limit int
}

// Extract scans req.Path with req.Format until the end of input, saving a
// record for each pass. Whitespace between records is skipped.
//
// The run is always persisted once it has started. A record that fails to
// scan ends the run with status failed and returns an *ErrScan; records
// before it are kept.
func (s *Service) Extract(ctx context.Context, req Request) (*model.Run, error) {
	fields, err := scnr.FieldCount(req.Format)
	if err != nil {
		return nil, &ErrRequest{Msg: "invalid format", Err: err}
	}
	types := req.Types
	if len(types) == 0 {
		types = make([]FieldType, fields)
		for i := range types {
			types[i] = FieldString
		}
	} else if len(types) != fields {
		return nil, &ErrRequest{Msg: fmt.Sprintf("format has %d fields, got %d types", fields, len(types))}
	}

	f, err := scnr.OpenFile(s.fs, req.Path)
	if err != nil {
		return nil, &ErrReadFile{Op: "open", Path: req.Path, Err: err}
	}
	defer f.Close()

	run := &model.Run{
		ID:        uuid.NewString(),
		Source:    req.Path,
		Format:    req.Format,
		Locale:    "C",
		Fields:    fields,
		Status:    model.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	if req.Locale != nil {
		run.Locale = req.Locale.Name()
	}
	if err := s.store.InsertRun(ctx, run); err != nil {
		return nil, &ErrDatabase{Op: "insert run", Err: err}
	}
	s.logger.Info("extract: started", "run", run.ID, "path", req.Path, "fields", fields)

	runErr := s.records(ctx, req, types, f, run)
	if runErr != nil {
		s.fail(run, runErr)
	} else {
		run.Status = model.RunStatusOk
	}
	finishedAt := time.Now().UTC()
	run.FinishedAt = &finishedAt
	if err := s.store.FinishRun(ctx, run); err != nil {
		if runErr == nil {
			runErr = &ErrDatabase{Op: "finish run", Err: err}
		}
		s.logger.Error("extract: finish run", "run", run.ID, "err", err)
	}
	s.logger.Info("extract: finished", "run", run.ID, "status", run.Status, "records", run.Records)
	return run, runErr
}

// records scans and saves records until the end of input, the limit or
// the first error.
func (s *Service) records(ctx context.Context, req Request, types []FieldType, f *scnr.File, run *model.Run) error {
	rng := scnr.BorrowFile(f)
	for req.Limit == 0 || run.Records < req.Limit {
		if err := ctx.Err(); err != nil {
			return err
		}

		// skip the separator and stop cleanly at the end of input
		if res := s.scan(ctx, rng, req.Locale, " ", nil); !res.OK() {
			return &ErrScan{Path: req.Path, Record: run.Records + 1, Pos: res.Pos, Err: res.Err}
		}
		if _, ok := rng.Peek(); !ok {
			if err := rng.Err(); err != nil {
				return &ErrReadFile{Op: "read", Path: req.Path, Err: err}
			}
			return nil
		}

		offset := f.Pos()
		dests := Destinations(types)
		res := s.scan(ctx, rng, req.Locale, req.Format, dests)
		if !res.OK() {
			return &ErrScan{Path: req.Path, Record: run.Records + 1, Pos: res.Pos, Err: res.Err}
		}
		if f.Pos() == offset {
			// a format that consumes nothing would loop forever
			return &ErrScan{Path: req.Path, Record: run.Records + 1, Pos: offset, Err: fmt.Errorf("format consumed no input")}
		}

		rec := &model.Record{
			RunID:  run.ID,
			Seq:    run.Records + 1,
			Offset: offset,
			Length: f.Pos() - offset,
			Values: Values(dests),
		}
		id, err := s.store.InsertRecord(ctx, rec)
		if err != nil {
			return &ErrDatabase{Op: "insert record", Err: err}
		}
		rec.ID = id
		run.Records++
	}
	return nil
}

func (s *Service) scan(ctx context.Context, rng *scnr.FileRange, loc *scnr.CustomLocale, format string, dests []any) scnr.Result {
	pctx := scnr.NewParseContext(format)
	opts := []scnr.Option{scnr.WithLogger(s.logger), scnr.WithContext(ctx)}
	if loc != nil {
		return scnr.VScanFileLocalized(rng, loc, pctx, dests, opts...)
	}
	return scnr.VScanFile(rng, pctx, dests, opts...)
}

// fail records err on the run.
func (s *Service) fail(run *model.Run, err error) {
	run.Status = model.RunStatusFailed
	code, msg := ErrorCode(err), err.Error()
	run.ErrorCode, run.ErrorMessage = &code, &msg
	if se, ok := err.(*ErrScan); ok {
		pos := se.Pos
		run.ErrorPos = &pos
	}
	s.logger.Error("extract: failed", "run", run.ID, "code", code, "err", err)
}

// FieldType is the destination type of a field.
type FieldType string

const (
	FieldString FieldType = "string"
	FieldInt    FieldType = "int"
	FieldUint   FieldType = "uint"
	FieldFloat  FieldType = "float"
	FieldBool   FieldType = "bool"
	FieldRune   FieldType = "rune"
)

// ParseFieldTypes parses a comma separated list of field types,
// such as "string,int,float". An empty list returns nil.
func ParseFieldTypes(list string) ([]FieldType, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	var types []FieldType
	for _, name := range strings.Split(list, ",") {
		switch t := FieldType(strings.ToLower(strings.TrimSpace(name))); t {
		case FieldString, FieldInt, FieldUint, FieldFloat, FieldBool, FieldRune:
			types = append(types, t)
		default:
			return nil, &ErrRequest{Msg: fmt.Sprintf("unknown field type %q", name)}
		}
	}
	return types, nil
}

// Destinations returns a new destination for each type, ready to scan into.
func Destinations(types []FieldType) []any {
	dests := make([]any, len(types))
	for i, t := range types {
		dests[i] = t.dest()
	}
	return dests
}

func (t FieldType) dest() any {
	switch t {
	case FieldInt:
		return new(int64)
	case FieldUint:
		return new(uint64)
	case FieldFloat:
		return new(float64)
	case FieldBool:
		return new(bool)
	case FieldRune:
		return new(rune)
	}
	return new(string)
}

// Values dereferences destinations made by Destinations. Runes come back
// as one-character strings.
func Values(dests []any) []any {
	out := make([]any, len(dests))
	for i, d := range dests {
		switch v := d.(type) {
		case *string:
			out[i] = *v
		case *int64:
			out[i] = *v
		case *uint64:
			out[i] = *v
		case *float64:
			out[i] = *v
		case *bool:
			out[i] = *v
		case *rune:
			out[i] = string(*v)
		}
	}
	return out
}
