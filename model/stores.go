// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package model

import "context"

// Store is the persistence interface for extraction runs.
type Store interface {
	InsertRun(ctx context.Context, run *Run) error
	FinishRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context) ([]Run, error)

	InsertRecord(ctx context.Context, rec *Record) (int64, error)
	GetRecords(ctx context.Context, runID string) ([]Record, error)

	Stats(ctx context.Context) (Stats, error)
}

// Stats holds store statistics.
type Stats struct {
	Runs    int
	Failed  int
	Records int
}
