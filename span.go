// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package scnr

import (
	"unicode/utf8"
)

// Span represents a range in the input: [Start, End).
type Span struct {
	// Byte offsets into the input.
	// End is exclusive: input[Start:End] is the text of the span.
	Start int
	End   int

	// 1-based line and column of the *start* of the span.
	// Column counts code points, not bytes.
	Line   int
	Column int
}

// Text is a helper to return the input text of the span.
func (s Span) Text(input []byte) []byte {
	return input[s.Start:s.End]
}

// SpanAt returns a span starting at byte offset pos of src and running
// to the end of its line. A pos past the end of src is clamped to it.
func SpanAt(src []byte, pos int) Span {
	pos = max(0, min(pos, len(src)))
	span := Span{Start: pos, End: pos, Line: 1, Column: 1}
	lineStart := 0
	for i := 0; i < pos; i++ {
		if src[i] == '\n' {
			span.Line++
			lineStart = i + 1
		}
	}
	span.Column += utf8.RuneCount(src[lineStart:pos])
	for span.End < len(src) && src[span.End] != '\n' {
		span.End++
	}
	return span
}
