// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package extract

import (
	"fmt"

	"github.com/mdhender/scnr"
)

// ErrReadFile is returned when the source can't be opened or read.
type ErrReadFile struct {
	Op   string // open, read, close
	Path string
	Err  error
}

func (e *ErrReadFile) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ErrReadFile) Unwrap() error {
	return e.Err
}

// ErrDatabase is returned when database operations fail.
type ErrDatabase struct {
	Op  string
	Err error
}

func (e *ErrDatabase) Error() string {
	return fmt.Sprintf("database %s: %v", e.Op, e.Err)
}

func (e *ErrDatabase) Unwrap() error {
	return e.Err
}

// ErrRequest is returned for a request that can't be run at all,
// such as a malformed format string.
type ErrRequest struct {
	Msg string
	Err error
}

func (e *ErrRequest) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bad request: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("bad request: %s", e.Msg)
}

func (e *ErrRequest) Unwrap() error {
	return e.Err
}

// ErrScan is returned when a record fails to scan.
type ErrScan struct {
	Path   string
	Record int // 1-based
	Pos    int // byte offset into the source
	Err    error
}

func (e *ErrScan) Error() string {
	return fmt.Sprintf("%s: record %d at offset %d: %v", e.Path, e.Record, e.Pos, e.Err)
}

func (e *ErrScan) Unwrap() error {
	return e.Err
}

// Error code constants for database storage.
// Scan failures use the codes from scnr.ErrorCode.
const (
	ErrCodeReadFile = "READ_FILE"
	ErrCodeDatabase = "DATABASE"
	ErrCodeRequest  = "BAD_REQUEST"
	ErrCodeUnknown  = "UNKNOWN"
)

// ErrorCode returns the error code string for a given error.
func ErrorCode(err error) string {
	switch e := err.(type) {
	case *ErrReadFile:
		return ErrCodeReadFile
	case *ErrDatabase:
		return ErrCodeDatabase
	case *ErrRequest:
		return ErrCodeRequest
	case *ErrScan:
		return scnr.ErrorCode(e.Err)
	default:
		return ErrCodeUnknown
	}
}
