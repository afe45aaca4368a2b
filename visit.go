// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package scnr

import (
	"errors"
	"unicode/utf8"
)

// Result is the outcome of a scan.
//
// Count is the number of destinations filled. Pos is the input position
// where the scan stopped: the end of what was consumed on success, or the
// point of failure. Err is nil on success and an *Error otherwise.
//
// On failure the destinations filled before the failing one keep their
// values; the failing one may or may not have been written.
type Result struct {
	Count int
	Pos   int
	Err   error
}

// OK reports whether the scan succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Kind returns the kind of the error, or Good.
func (r Result) Kind() ErrorKind {
	return KindOf(r.Err)
}

// Visit is the scan engine. It walks the format segments from pctx and
// the input from ctx in lockstep, filling args as it goes.
//
//   - literal text must match the input byte for byte;
//   - whitespace in the format matches zero or more whitespace in the input;
//   - a field skips leading whitespace (unless its spec says not to) and
//     hands the input to the reader for the type of its destination.
//
// Visit returns at the end of the format or at the first failure. It never
// retries and never gives back input it has consumed. Extra destinations
// are not an error; a field without a destination is.
func Visit[R Range, L Locale](ctx *Context[R, L], pctx ParseContext, args []any) Result {
	count := 0
	for {
		seg, err := pctx.NextSegment()
		if err != nil {
			return ctx.fail(count, err)
		}
		ctx.debug("%s %q", seg.Kind, seg.Text)

		switch seg.Kind {
		case EndOfFormat:
			return Result{Count: count, Pos: ctx.rng.Pos()}
		case SpaceSegment:
			ctx.skipSpace()
			if err := ctx.rng.Err(); err != nil {
				return ctx.fail(count, &Error{Kind: IOError, Msg: "read failed", Pos: -1, Err: err})
			}
		case LiteralSegment:
			if err := ctx.matchLiteral(seg.Text); err != nil {
				return ctx.fail(count, err)
			}
		case FieldSegment:
			if seg.ArgIndex >= len(args) {
				return ctx.fail(count, errorf(ArgumentCountMismatch, "field %s refers to argument %d, have %d", seg.Text, seg.ArgIndex, len(args)))
			}
			ctx.spec = seg.Spec
			if seg.Spec.SkipsSpace() {
				ctx.skipSpace()
			}
			if _, ok := ctx.rng.Peek(); !ok {
				if err := ctx.rng.Err(); err != nil {
					return ctx.fail(count, &Error{Kind: IOError, Msg: "read failed", Pos: -1, Err: err})
				}
				return ctx.fail(count, errorf(EndOfRange, "end of input, expected a value for %s", seg.Text))
			}
			ctx.rng.Mark()
			if err := readValue(ctx, args[seg.ArgIndex]); err != nil {
				return ctx.fail(count, err)
			}
			count++
		default:
			return ctx.fail(count, errorf(InvalidFormatString, "unexpected segment %s", seg.Kind))
		}
	}
}

// fail builds the Result for an error, stamping the current position on it.
func (c *Context[R, L]) fail(count int, err error) Result {
	pos := c.rng.Pos()
	se, ok := err.(*Error)
	if !ok {
		kind := InvalidScannedValue
		var inner *Error
		if errors.As(err, &inner) {
			kind = inner.Kind
		}
		se = &Error{Kind: kind, Msg: err.Error(), Pos: -1, Err: err}
	}
	se = se.at(pos)
	c.debug("failed: %v", se)
	return Result{Count: count, Pos: pos, Err: se}
}

// skipSpace consumes whitespace, as defined by the locale, up to the
// first non-whitespace code point or the end of input.
func (c *Context[R, L]) skipSpace() {
	for {
		view := c.rng.Window(utf8.UTFMax)
		if len(view) == 0 {
			return
		}
		w, ok := firstCharIs(view, c.locale.IsSpace)
		if !ok {
			return
		}
		if err := c.rng.AdvanceTo(c.rng.Pos() + w); err != nil {
			return
		}
	}
}

// matchLiteral consumes text from the input. On a mismatch the position is
// left on the first byte that differs.
func (c *Context[R, L]) matchLiteral(text string) error {
	for i := 0; i < len(text); i++ {
		ch, ok := c.rng.Peek()
		if !ok {
			if err := c.rng.Err(); err != nil {
				return &Error{Kind: IOError, Msg: "read failed", Pos: -1, Err: err}
			}
			return errorf(EndOfRange, "end of input, expected %q", text[i:])
		}
		if ch != text[i] {
			return errorf(InvalidLiteral, "expected %q, found %q", text[i:], ch)
		}
		c.rng.ReadUnit()
	}
	return nil
}
