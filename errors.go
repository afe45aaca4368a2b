// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package scnr

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a scan failure.
type ErrorKind int

const (
	Good ErrorKind = iota

	InvalidEncoding       // malformed code unit sequence
	EndOfRange            // input exhausted while something was still required
	InvalidLiteral        // input does not match the literal text of the format
	InvalidScannedValue   // a value reader rejected the input
	InvalidFormatString   // malformed format string
	ArgumentCountMismatch // a field has no destination
	IOError               // the stream backend failed
)

func (k ErrorKind) String() string {
	switch k {
	case Good:
		return "good"
	case InvalidEncoding:
		return "invalid_encoding"
	case EndOfRange:
		return "end_of_range"
	case InvalidLiteral:
		return "invalid_literal"
	case InvalidScannedValue:
		return "invalid_scanned_value"
	case InvalidFormatString:
		return "invalid_format_string"
	case ArgumentCountMismatch:
		return "argument_count_mismatch"
	case IOError:
		return "io_error"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is the error type returned by every scanning operation.
//
// Pos is the byte offset in the input where the failure was detected,
// or -1 when the error was created before a position was known.
type Error struct {
	Kind ErrorKind
	Msg  string
	Pos  int
	Err  error // underlying cause, if any
}

func newError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Pos: -1}
}

func errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Pos: -1}
}

// outOfRange reports a seek target outside the remaining input.
func outOfRange(pos int, format string, args ...any) *Error {
	return &Error{Kind: EndOfRange, Msg: fmt.Sprintf(format, args...), Pos: pos, Err: ErrOutOfRange}
}

func (e *Error) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Pos, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrEndOfRange)
// works regardless of message and position.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// at returns e with its position set, unless it already has one.
// e itself is never modified, so sentinels keep Pos -1.
func (e *Error) at(pos int) *Error {
	if e.Pos >= 0 {
		return e
	}
	cp := *e
	cp.Pos = pos
	return &cp
}

// Sentinels for errors.Is.
var (
	ErrInvalidEncoding       = &Error{Kind: InvalidEncoding, Msg: "invalid encoding", Pos: -1}
	ErrEndOfRange            = &Error{Kind: EndOfRange, Msg: "end of range", Pos: -1}
	ErrInvalidLiteral        = &Error{Kind: InvalidLiteral, Msg: "invalid literal", Pos: -1}
	ErrInvalidScannedValue   = &Error{Kind: InvalidScannedValue, Msg: "invalid scanned value", Pos: -1}
	ErrInvalidFormatString   = &Error{Kind: InvalidFormatString, Msg: "invalid format string", Pos: -1}
	ErrArgumentCountMismatch = &Error{Kind: ArgumentCountMismatch, Msg: "argument count mismatch", Pos: -1}
	ErrIO                    = &Error{Kind: IOError, Msg: "i/o error", Pos: -1}

	// ErrOutOfRange is wrapped by the errors Range.AdvanceTo returns for a
	// target outside the remaining input.
	ErrOutOfRange = &Error{Kind: EndOfRange, Msg: "position out of range", Pos: -1}
)

// Error code constants, suitable for storage.
const (
	ErrCodeInvalidEncoding       = "INVALID_ENCODING"
	ErrCodeEndOfRange            = "END_OF_RANGE"
	ErrCodeInvalidLiteral        = "INVALID_LITERAL"
	ErrCodeInvalidScannedValue   = "INVALID_SCANNED_VALUE"
	ErrCodeInvalidFormatString   = "INVALID_FORMAT_STRING"
	ErrCodeArgumentCountMismatch = "ARGUMENT_COUNT_MISMATCH"
	ErrCodeIO                    = "IO_ERROR"
	ErrCodeUnknown               = "UNKNOWN"
)

// ErrorCode returns the error code string for a given error.
func ErrorCode(err error) string {
	var se *Error
	if !errors.As(err, &se) {
		return ErrCodeUnknown
	}
	switch se.Kind {
	case InvalidEncoding:
		return ErrCodeInvalidEncoding
	case EndOfRange:
		return ErrCodeEndOfRange
	case InvalidLiteral:
		return ErrCodeInvalidLiteral
	case InvalidScannedValue:
		return ErrCodeInvalidScannedValue
	case InvalidFormatString:
		return ErrCodeInvalidFormatString
	case ArgumentCountMismatch:
		return ErrCodeArgumentCountMismatch
	case IOError:
		return ErrCodeIO
	}
	return ErrCodeUnknown
}

// KindOf returns the kind of err, Good for nil and IOError for foreign errors.
func KindOf(err error) ErrorKind {
	if err == nil {
		return Good
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return IOError
}
