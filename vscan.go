// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package scnr

import (
	"io"
)

// The VScan functions are the typed entry points to the engine. There is
// one per source kind and locale kind; each builds a context and runs
// Visit over it. Any ParseContext may be passed.

// VScanBuffer scans an owned buffer using the default locale.
func VScanBuffer(rng *BufferRange, pctx ParseContext, args []any, opts ...Option) Result {
	return Visit(NewContext(rng, DefaultLocale{}, opts...), pctx, args)
}

// VScanBufferLocalized scans an owned buffer using loc.
func VScanBufferLocalized(rng *BufferRange, loc *CustomLocale, pctx ParseContext, args []any, opts ...Option) Result {
	return Visit(NewContext(rng, mustLocale(loc), opts...), pctx, args)
}

// VScanBorrowedBuffer scans a borrowed buffer using the default locale.
// The caller's string is left holding the unconsumed input.
func VScanBorrowedBuffer(rng *BorrowedBufferRange, pctx ParseContext, args []any, opts ...Option) Result {
	defer rng.Sync()
	return Visit(NewContext(rng, DefaultLocale{}, opts...), pctx, args)
}

// VScanBorrowedBufferLocalized scans a borrowed buffer using loc.
// The caller's string is left holding the unconsumed input.
func VScanBorrowedBufferLocalized(rng *BorrowedBufferRange, loc *CustomLocale, pctx ParseContext, args []any, opts ...Option) Result {
	defer rng.Sync()
	return Visit(NewContext(rng, mustLocale(loc), opts...), pctx, args)
}

// VScanStream scans an owned stream using the default locale.
func VScanStream(rng *StreamRange, pctx ParseContext, args []any, opts ...Option) Result {
	return Visit(NewContext(rng, DefaultLocale{}, opts...), pctx, args)
}

// VScanStreamLocalized scans an owned stream using loc.
func VScanStreamLocalized(rng *StreamRange, loc *CustomLocale, pctx ParseContext, args []any, opts ...Option) Result {
	return Visit(NewContext(rng, mustLocale(loc), opts...), pctx, args)
}

// VScanFile scans a borrowed File using the default locale.
// The File keeps its position and lookahead for the next scan.
func VScanFile(rng *FileRange, pctx ParseContext, args []any, opts ...Option) Result {
	return Visit(NewContext(rng, DefaultLocale{}, opts...), pctx, args)
}

// VScanFileLocalized scans a borrowed File using loc.
func VScanFileLocalized(rng *FileRange, loc *CustomLocale, pctx ParseContext, args []any, opts ...Option) Result {
	return Visit(NewContext(rng, mustLocale(loc), opts...), pctx, args)
}

func mustLocale(loc *CustomLocale) *CustomLocale {
	if loc == nil {
		panic("assert(loc != nil)")
	}
	return loc
}

// Scan scans input according to format.
func Scan(input string, format string, args ...any) Result {
	return VScanBuffer(NewBufferRange(input), NewParseContext(format), args)
}

// ScanDefault reads each destination in turn from input, as if the format
// were "{} {} ...".
func ScanDefault(input string, args ...any) Result {
	return VScanBuffer(NewBufferRange(input), NewEmptyParseContext(len(args)), args)
}

// ScanBorrowed scans *src according to format and leaves *src holding the
// unconsumed input.
func ScanBorrowed(src *string, format string, args ...any) Result {
	return VScanBorrowedBuffer(BorrowBuffer(src), NewParseContext(format), args)
}

// ScanReader scans r according to format. Lookahead read from r beyond the
// end of the scan is lost; use ScanFile to keep it.
func ScanReader(r io.Reader, format string, args ...any) Result {
	return VScanStream(NewStreamRange(r), NewParseContext(format), args)
}

// ScanFile scans f according to format, starting where the last scan of f
// stopped.
func ScanFile(f *File, format string, args ...any) Result {
	return VScanFile(BorrowFile(f), NewParseContext(format), args)
}

// ScanLocalized scans input according to format using loc.
func ScanLocalized(loc *CustomLocale, input string, format string, args ...any) Result {
	return VScanBufferLocalized(NewBufferRange(input), loc, NewParseContext(format), args)
}
