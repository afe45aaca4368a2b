// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package store_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/mdhender/scnr/model"
	store "github.com/mdhender/scnr/stores/sqlite"
)

func newStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore()
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_Runs(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	started := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	run := &model.Run{
		ID:        "run-1",
		Source:    "people.txt",
		Format:    "{} {}",
		Locale:    "C",
		Fields:    2,
		Status:    model.RunStatusRunning,
		StartedAt: started,
	}
	if err := s.InsertRun(ctx, run); err != nil {
		t.Fatalf("InsertRun: %v", err)
	}

	got, err := s.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got == nil {
		t.Fatalf("GetRun = nil, want run")
	}
	if got.Status != model.RunStatusRunning || !got.StartedAt.Equal(started) || got.FinishedAt != nil {
		t.Fatalf("GetRun = %+v", got)
	}

	finished := started.Add(time.Second)
	code, msg, pos := "END_OF_RANGE", "end of input", 17
	run.Status = model.RunStatusFailed
	run.Records = 3
	run.FinishedAt = &finished
	run.ErrorCode, run.ErrorMessage, run.ErrorPos = &code, &msg, &pos
	if err := s.FinishRun(ctx, run); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}
	got, err = s.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Status != model.RunStatusFailed || got.Records != 3 {
		t.Errorf("Status, Records = %q, %d, want failed, 3", got.Status, got.Records)
	}
	if got.FinishedAt == nil || !got.FinishedAt.Equal(finished) {
		t.Errorf("FinishedAt = %v, want %v", got.FinishedAt, finished)
	}
	if got.ErrorCode == nil || *got.ErrorCode != code || got.ErrorPos == nil || *got.ErrorPos != pos {
		t.Errorf("error details = %v %v, want %s %d", got.ErrorCode, got.ErrorPos, code, pos)
	}

	if got, err := s.GetRun(ctx, "missing"); err != nil || got != nil {
		t.Errorf("GetRun(missing) = %v, %v, want nil, nil", got, err)
	}
	if err := s.FinishRun(ctx, &model.Run{ID: "missing", Status: model.RunStatusOk}); err == nil {
		t.Errorf("FinishRun(missing) succeeded, want error")
	}
	if err := s.InsertRun(ctx, run); err == nil {
		t.Errorf("InsertRun with a duplicate ID succeeded, want error")
	}

	second := &model.Run{ID: "run-2", Source: "b", Format: "{}", Locale: "de", Fields: 1, Status: model.RunStatusOk, StartedAt: started.Add(time.Hour)}
	if err := s.InsertRun(ctx, second); err != nil {
		t.Fatalf("InsertRun: %v", err)
	}
	runs, err := s.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-2" || runs[1].ID != "run-1" {
		t.Errorf("ListRuns = %+v, want run-2 then run-1", runs)
	}
}

func TestSQLiteStore_Records(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	run := &model.Run{ID: "run-1", Source: "a", Format: "{} {} {}", Locale: "C", Fields: 3, Status: model.RunStatusRunning, StartedAt: time.Now().UTC()}
	if err := s.InsertRun(ctx, run); err != nil {
		t.Fatalf("InsertRun: %v", err)
	}
	for seq, values := range [][]any{{"alice", int64(42), true}, {"bob", int64(-7), false}} {
		rec := &model.Record{RunID: run.ID, Seq: seq + 1, Offset: seq * 13, Length: 12, Values: values}
		id, err := s.InsertRecord(ctx, rec)
		if err != nil {
			t.Fatalf("InsertRecord: %v", err)
		}
		if id == 0 {
			t.Fatalf("InsertRecord id = 0, want assigned id")
		}
	}
	if _, err := s.InsertRecord(ctx, &model.Record{RunID: run.ID, Seq: 1, Values: []any{}}); err == nil {
		t.Errorf("InsertRecord with a duplicate seq succeeded, want error")
	}
	if _, err := s.InsertRecord(ctx, &model.Record{RunID: "missing", Seq: 1, Values: []any{}}); err == nil {
		t.Errorf("InsertRecord for a missing run succeeded, want error")
	}

	recs, err := s.GetRecords(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRecords: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len(recs) = %d, want 2", len(recs))
	}
	if recs[1].Seq != 2 || recs[1].Offset != 13 || recs[1].Length != 12 {
		t.Errorf("recs[1] = %+v", recs[1])
	}
	if v, ok := recs[1].Values[0].(string); !ok || v != "bob" {
		t.Errorf("recs[1].Values[0] = %#v, want \"bob\"", recs[1].Values[0])
	}
	// numbers come back as json.Number so integers keep their digits
	if n := fmt.Sprint(recs[1].Values[1]); n != "-7" {
		t.Errorf("recs[1].Values[1] = %#v, want -7", recs[1].Values[1])
	}
	if b, ok := recs[0].Values[2].(bool); !ok || !b {
		t.Errorf("recs[0].Values[2] = %#v, want true", recs[0].Values[2])
	}

	st, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Runs != 1 || st.Failed != 0 || st.Records != 2 {
		t.Errorf("Stats = %+v, want 1 run, 0 failed, 2 records", st)
	}
}

func TestSQLiteStore_Isolated(t *testing.T) {
	ctx := context.Background()
	a, b := newStore(t), newStore(t)
	if err := a.InsertRun(ctx, &model.Run{ID: "x", Source: "a", Format: "{}", Locale: "C", Fields: 1, Status: model.RunStatusOk, StartedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("InsertRun: %v", err)
	}
	if got, err := b.GetRun(ctx, "x"); err != nil || got != nil {
		t.Errorf("second store sees run: %v, %v", got, err)
	}
}

func TestInitDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scnr.db")
	if _, err := store.NewSQLiteStoreWithConfig(store.StoreConfig{Path: path}); err == nil {
		t.Fatalf("opening a missing database succeeded, want error")
	}
	if err := store.InitDatabase(path); err != nil {
		t.Fatalf("InitDatabase: %v", err)
	}
	if err := store.InitDatabase(path); err == nil {
		t.Fatalf("InitDatabase on an existing file succeeded, want error")
	}
	s, err := store.NewSQLiteStoreWithConfig(store.StoreConfig{Path: path})
	if err != nil {
		t.Fatalf("NewSQLiteStoreWithConfig: %v", err)
	}
	if _, err := s.Stats(context.Background()); err != nil {
		t.Errorf("Stats: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := store.CompactDatabase(path); err != nil {
		t.Errorf("CompactDatabase: %v", err)
	}
}
