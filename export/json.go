// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package export writes extraction records as JSON.
package export

import (
	"io"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/mdhender/scnr/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Option func(*Writer)

// Writer writes records either as one JSON array or as newline delimited
// JSON, one object per record.
type Writer struct {
	names            []string
	preProcessorFunc func(rec *model.Record) bool
	newlineDelimited bool
	limit            int
}

func New(opts ...Option) *Writer {
	w := &Writer{limit: -1}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WithNewlineDelimited selects NDJSON output.
func WithNewlineDelimited(isNewlineDelimited bool) Option {
	return func(w *Writer) {
		w.newlineDelimited = isNewlineDelimited
	}
}

// WithFieldNames writes each record's values as an object keyed by name
// instead of an array. Values without a name are keyed by position.
func WithFieldNames(names ...string) Option {
	return func(w *Writer) {
		w.names = names
	}
}

// WithPreProcessorFunc is called for each record before it is written;
// returning false skips the record.
func WithPreProcessorFunc(fn func(rec *model.Record) bool) Option {
	return func(w *Writer) {
		w.preProcessorFunc = fn
	}
}

// WithLimit stops after limit records have been written. A negative
// limit is no limit.
func WithLimit(limit int) Option {
	return func(w *Writer) {
		w.limit = limit
	}
}

type jsonRecord struct {
	Run    string `json:"run"`
	Seq    int    `json:"seq"`
	Offset int    `json:"offset"`
	Values any    `json:"values"`
}

// Write writes recs to writer. An array is always closed, even when no
// records are written.
func (w *Writer) Write(recs []model.Record, writer io.Writer) error {
	written := 0
	if !w.newlineDelimited {
		if _, err := io.WriteString(writer, "["); err != nil {
			return err
		}
	}
	for i := range recs {
		if w.limit >= 0 && written >= w.limit {
			break
		}
		rec := &recs[i]
		if w.preProcessorFunc != nil && !w.preProcessorFunc(rec) {
			continue
		}
		data, err := json.Marshal(jsonRecord{
			Run:    rec.RunID,
			Seq:    rec.Seq,
			Offset: rec.Offset,
			Values: w.values(rec.Values),
		})
		if err != nil {
			return err
		}
		var sep string
		switch {
		case w.newlineDelimited:
		case written == 0:
			sep = "\n"
		default:
			sep = ",\n"
		}
		if _, err := io.WriteString(writer, sep); err != nil {
			return err
		}
		if _, err := writer.Write(data); err != nil {
			return err
		}
		if w.newlineDelimited {
			if _, err := io.WriteString(writer, "\n"); err != nil {
				return err
			}
		}
		written++
	}
	if !w.newlineDelimited {
		closing := "]\n"
		if written != 0 {
			closing = "\n]\n"
		}
		if _, err := io.WriteString(writer, closing); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) values(values []any) any {
	if w.names == nil {
		return values
	}
	obj := make(map[string]any, len(values))
	for i, v := range values {
		if i < len(w.names) && w.names[i] != "" {
			obj[w.names[i]] = v
		} else {
			obj[strconv.Itoa(i)] = v
		}
	}
	return obj
}
