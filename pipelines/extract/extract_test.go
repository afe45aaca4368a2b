// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package extract_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/mdhender/scnr"
	"github.com/mdhender/scnr/model"
	"github.com/mdhender/scnr/pipelines/extract"
	store "github.com/mdhender/scnr/stores/sqlite"
	"github.com/spf13/afero"
)

// mockStore implements extract.Store for testing.
type mockStore struct {
	runs    map[string]*model.Run
	records []*model.Record
	nextID  int64
	failOn  int // fail the nth InsertRecord, 0 for never
}

func newMockStore() *mockStore {
	return &mockStore{
		runs:   make(map[string]*model.Run),
		nextID: 1,
	}
}

func (m *mockStore) InsertRun(_ context.Context, run *model.Run) error {
	cp := *run
	m.runs[run.ID] = &cp
	return nil
}

func (m *mockStore) FinishRun(_ context.Context, run *model.Run) error {
	if _, ok := m.runs[run.ID]; !ok {
		return errors.New("not found")
	}
	cp := *run
	m.runs[run.ID] = &cp
	return nil
}

func (m *mockStore) InsertRecord(_ context.Context, rec *model.Record) (int64, error) {
	if m.failOn != 0 && len(m.records)+1 == m.failOn {
		return 0, errors.New("disk full")
	}
	id := m.nextID
	m.nextID++
	cp := *rec
	cp.ID = id
	m.records = append(m.records, &cp)
	return id, nil
}

func newService(t *testing.T, st extract.Store, files map[string]string) *extract.Service {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, data := range files {
		if err := afero.WriteFile(fs, path, []byte(data), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	svc := extract.NewService(st)
	svc.SetFS(fs)
	svc.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc
}

func TestService_Extract(t *testing.T) {
	ctx := context.Background()
	st := newMockStore()
	svc := newService(t, st, map[string]string{"/data/people.txt": "alice 42\nbob 7\n"})

	run, err := svc.Extract(ctx, extract.Request{
		Path:   "/data/people.txt",
		Format: "{} {}",
		Types:  []extract.FieldType{extract.FieldString, extract.FieldInt},
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if run.Status != model.RunStatusOk || run.Records != 2 || run.Fields != 2 || run.Locale != "C" {
		t.Fatalf("run = %+v", run)
	}
	if run.FinishedAt == nil {
		t.Errorf("FinishedAt = nil, want a time")
	}
	if saved := st.runs[run.ID]; saved == nil || saved.Status != model.RunStatusOk {
		t.Errorf("saved run = %+v, want status ok", saved)
	}

	if len(st.records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(st.records))
	}
	for i, want := range []struct {
		seq, offset, length int
		name                string
		age                 int64
	}{
		{1, 0, 8, "alice", 42},
		{2, 9, 5, "bob", 7},
	} {
		rec := st.records[i]
		if rec.Seq != want.seq || rec.Offset != want.offset || rec.Length != want.length {
			t.Errorf("record %d = seq %d offset %d length %d, want %d %d %d", i, rec.Seq, rec.Offset, rec.Length, want.seq, want.offset, want.length)
		}
		if rec.Values[0] != want.name || rec.Values[1] != want.age {
			t.Errorf("record %d values = %v, want [%s %d]", i, rec.Values, want.name, want.age)
		}
	}
}

func TestService_Extract_ScanFailure(t *testing.T) {
	ctx := context.Background()
	st := newMockStore()
	svc := newService(t, st, map[string]string{"people.txt": "alice 42\nbob x\n"})

	run, err := svc.Extract(ctx, extract.Request{
		Path:   "people.txt",
		Format: "{} {}",
		Types:  []extract.FieldType{extract.FieldString, extract.FieldInt},
	})
	var se *extract.ErrScan
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *extract.ErrScan", err)
	}
	if se.Record != 2 || se.Pos != 13 {
		t.Errorf("ErrScan = record %d pos %d, want record 2 pos 13", se.Record, se.Pos)
	}
	if !errors.Is(err, scnr.ErrInvalidScannedValue) {
		t.Errorf("err = %v, want invalid scanned value", err)
	}
	if code := extract.ErrorCode(err); code != scnr.ErrCodeInvalidScannedValue {
		t.Errorf("ErrorCode = %q, want %q", code, scnr.ErrCodeInvalidScannedValue)
	}

	if run == nil {
		t.Fatalf("run = nil, want the failed run")
	}
	if run.Status != model.RunStatusFailed || run.Records != 1 {
		t.Errorf("run status, records = %q, %d, want failed, 1", run.Status, run.Records)
	}
	if run.ErrorPos == nil || *run.ErrorPos != 13 {
		t.Errorf("ErrorPos = %v, want 13", run.ErrorPos)
	}
	if run.ErrorCode == nil || *run.ErrorCode != scnr.ErrCodeInvalidScannedValue {
		t.Errorf("ErrorCode = %v, want %s", run.ErrorCode, scnr.ErrCodeInvalidScannedValue)
	}
	if len(st.records) != 1 {
		t.Errorf("len(records) = %d, want 1", len(st.records))
	}
}

func TestService_Extract_Options(t *testing.T) {
	ctx := context.Background()
	files := map[string]string{
		"words.txt":  "one two three four",
		"prices.txt": "1.234,5 2,25",
	}

	st := newMockStore()
	run, err := newService(t, st, files).Extract(ctx, extract.Request{Path: "words.txt", Format: "{}", Limit: 2})
	if err != nil {
		t.Fatalf("Extract with limit: %v", err)
	}
	if run.Records != 2 || run.Status != model.RunStatusOk {
		t.Errorf("limit: run = %+v, want 2 records", run)
	}
	if st.records[1].Values[0] != "two" {
		t.Errorf("limit: second value = %v, want two", st.records[1].Values[0])
	}

	de, err := scnr.NewLocale("de")
	if err != nil {
		t.Fatal(err)
	}
	st = newMockStore()
	run, err = newService(t, st, files).Extract(ctx, extract.Request{
		Path:   "prices.txt",
		Format: "{:Lf}",
		Types:  []extract.FieldType{extract.FieldFloat},
		Locale: de,
	})
	if err != nil {
		t.Fatalf("Extract localized: %v", err)
	}
	if run.Locale != "de" || run.Records != 2 {
		t.Errorf("localized: run = %+v", run)
	}
	if st.records[0].Values[0] != 1234.5 || st.records[1].Values[0] != 2.25 {
		t.Errorf("localized: values = %v %v", st.records[0].Values, st.records[1].Values)
	}
}

func TestService_Extract_Errors(t *testing.T) {
	ctx := context.Background()
	files := map[string]string{"in.txt": "a b\nc d\n"}

	for _, tc := range []struct {
		name string
		req  extract.Request
		code string
	}{
		{"bad format", extract.Request{Path: "in.txt", Format: "{"}, extract.ErrCodeRequest},
		{"types mismatch", extract.Request{Path: "in.txt", Format: "{} {}", Types: []extract.FieldType{extract.FieldString}}, extract.ErrCodeRequest},
		{"missing file", extract.Request{Path: "missing.txt", Format: "{}"}, extract.ErrCodeReadFile},
		{"no match", extract.Request{Path: "in.txt", Format: "{:[0-9]}"}, scnr.ErrCodeInvalidScannedValue},
		{"no progress", extract.Request{Path: "in.txt", Format: ""}, extract.ErrCodeUnknown},
	} {
		st := newMockStore()
		_, err := newService(t, st, files).Extract(ctx, tc.req)
		if err == nil {
			t.Errorf("%s: Extract succeeded, want error", tc.name)
			continue
		}
		if code := extract.ErrorCode(err); code != tc.code {
			t.Errorf("%s: ErrorCode = %q, want %q (%v)", tc.name, code, tc.code, err)
		}
	}

	st := newMockStore()
	st.failOn = 2
	run, err := newService(t, st, files).Extract(ctx, extract.Request{Path: "in.txt", Format: "{} {}"})
	var dbErr *extract.ErrDatabase
	if !errors.As(err, &dbErr) {
		t.Fatalf("insert failure: err = %v, want *extract.ErrDatabase", err)
	}
	if run.Status != model.RunStatusFailed || run.Records != 1 {
		t.Errorf("insert failure: run = %+v", run)
	}
}

func TestService_Extract_SQLite(t *testing.T) {
	ctx := context.Background()
	st, err := store.NewSQLiteStore()
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer st.Close()

	svc := newService(t, st, map[string]string{"flags.txt": "x=true y=false z=1"})
	run, err := svc.Extract(ctx, extract.Request{
		Path:   "flags.txt",
		Format: "{:c}={}",
		Types:  []extract.FieldType{extract.FieldRune, extract.FieldBool},
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	saved, err := st.GetRun(ctx, run.ID)
	if err != nil || saved == nil {
		t.Fatalf("GetRun = %v, %v", saved, err)
	}
	if saved.Status != model.RunStatusOk || saved.Records != 3 {
		t.Errorf("saved run = %+v, want ok with 3 records", saved)
	}
	recs, err := st.GetRecords(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRecords: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("len(recs) = %d, want 3", len(recs))
	}
	if recs[2].Values[0] != "z" || recs[2].Values[1] != true {
		t.Errorf("recs[2].Values = %v, want [z true]", recs[2].Values)
	}
}

func TestParseFieldTypes(t *testing.T) {
	types, err := extract.ParseFieldTypes(" string, INT ,float,bool,uint,rune")
	if err != nil {
		t.Fatalf("ParseFieldTypes: %v", err)
	}
	want := []extract.FieldType{extract.FieldString, extract.FieldInt, extract.FieldFloat, extract.FieldBool, extract.FieldUint, extract.FieldRune}
	if len(types) != len(want) {
		t.Fatalf("ParseFieldTypes = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("types[%d] = %q, want %q", i, types[i], want[i])
		}
	}
	if types, err := extract.ParseFieldTypes("  "); err != nil || types != nil {
		t.Errorf("ParseFieldTypes(blank) = %v, %v, want nil, nil", types, err)
	}
	if _, err := extract.ParseFieldTypes("string,decimal"); err == nil {
		t.Errorf("ParseFieldTypes(decimal) succeeded, want error")
	}
}

func TestDestinationsAndValues(t *testing.T) {
	types := []extract.FieldType{extract.FieldString, extract.FieldUint, extract.FieldRune}
	dests := extract.Destinations(types)
	if res := scnr.Scan("id 17 é", "{} {} {:c}", dests...); !res.OK() {
		t.Fatalf("Scan: %v", res.Err)
	}
	values := extract.Values(dests)
	if values[0] != "id" || values[1] != uint64(17) || values[2] != "é" {
		t.Errorf("Values = %#v", values)
	}
}
