// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package scnr

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Segment is one piece of a format string.
type Segment struct {
	Kind SegmentKind

	// Text is the literal text for LiteralSegment, the whitespace run for
	// SpaceSegment and the raw field, braces included, for FieldSegment.
	Text string

	// ArgIndex is the destination index of a FieldSegment.
	ArgIndex int
	Spec     FormatSpec

	// Offset is the byte offset of the segment in the format string.
	Offset int
}

// ParseContext hands format segments to the scan engine.
//
// Errors in the format string are found lazily: a segment is only checked
// when NextSegment reaches it.
type ParseContext interface {
	// NextSegment returns the next segment, or one of kind EndOfFormat
	// once the format is exhausted.
	NextSegment() (Segment, error)
	// ArgIndex returns the index of the next automatically numbered field.
	ArgIndex() int
	// Remaining returns the unconsumed suffix of the format string.
	Remaining() string
}

// FormatParseContext parses a format string segment by segment.
//
// Fields are numbered automatically ({}) or explicitly ({N}). Once an
// explicit index has been seen automatic numbering is frozen; a later {}
// is a format error.
type FormatParseContext struct {
	format  string
	pos     int
	nextArg int
	manual  bool
}

// NewParseContext returns a parse context over format.
func NewParseContext(format string) *FormatParseContext {
	return &FormatParseContext{format: format}
}

func (p *FormatParseContext) ArgIndex() int {
	return p.nextArg
}

func (p *FormatParseContext) Remaining() string {
	return p.format[p.pos:]
}

func (p *FormatParseContext) NextSegment() (Segment, error) {
	start := p.pos
	if p.pos >= len(p.format) {
		return Segment{Kind: EndOfFormat, Offset: start}, nil
	}

	switch p.format[p.pos] {
	case '{':
		if p.pos+1 < len(p.format) && p.format[p.pos+1] == '{' {
			p.pos += 2
			return Segment{Kind: LiteralSegment, Text: "{", Offset: start}, nil
		}
		return p.field()
	case '}':
		if p.pos+1 < len(p.format) && p.format[p.pos+1] == '}' {
			p.pos += 2
			return Segment{Kind: LiteralSegment, Text: "}", Offset: start}, nil
		}
		return Segment{}, formatError(start, "unmatched '}' in format string")
	}

	if p.isSpace() {
		for p.pos < len(p.format) && p.isSpace() {
			w, _ := IsFirstCharSpace([]byte(p.format[p.pos:min(p.pos+utf8.UTFMax, len(p.format))]))
			p.pos += w
		}
		return Segment{Kind: SpaceSegment, Text: p.format[start:p.pos], Offset: start}, nil
	}

	// consume run of text up to a brace or whitespace
	for p.pos < len(p.format) {
		if ch := p.format[p.pos]; ch == '{' || ch == '}' || p.isSpace() {
			break
		}
		_, w := utf8.DecodeRuneInString(p.format[p.pos:])
		p.pos += w
	}
	return Segment{Kind: LiteralSegment, Text: p.format[start:p.pos], Offset: start}, nil
}

func (p *FormatParseContext) isSpace() bool {
	_, ok := IsFirstCharSpace([]byte(p.format[p.pos:min(p.pos+utf8.UTFMax, len(p.format))]))
	return ok
}

// field parses a replacement field starting at the opening brace.
func (p *FormatParseContext) field() (Segment, error) {
	start := p.pos
	i := p.pos + 1

	index, explicit := 0, false
	for i < len(p.format) && '0' <= p.format[i] && p.format[i] <= '9' {
		explicit = true
		index = index*10 + int(p.format[i]-'0')
		if index > 1<<16 {
			return Segment{}, formatError(start, "argument index too large")
		}
		i++
	}
	if i >= len(p.format) {
		return Segment{}, formatError(start, "unterminated field in format string")
	}

	var spec FormatSpec
	switch p.format[i] {
	case '}':
	case ':':
		i++
		s, n, err := parseSpec(p.format[i:])
		if err != nil {
			return Segment{}, formatError(i+n, "%s", err.Msg)
		}
		spec, i = s, i+n
		if i >= len(p.format) || p.format[i] != '}' {
			return Segment{}, formatError(i, "expected '}' after format spec")
		}
	default:
		r, _ := utf8.DecodeRuneInString(p.format[i:])
		return Segment{}, formatError(i, "unexpected %q in field", r)
	}
	i++ // closing brace

	if explicit {
		p.manual = true
	} else if p.manual {
		return Segment{}, formatError(start, "cannot switch from manual to automatic argument indexing")
	} else {
		index = p.nextArg
		p.nextArg++
	}

	p.pos = i
	return Segment{
		Kind:     FieldSegment,
		Text:     p.format[start:i],
		ArgIndex: index,
		Spec:     spec,
		Offset:   start,
	}, nil
}

// formatError reports a malformed format string. The offset is into the
// format string, not the input, so it goes in the message.
func formatError(offset int, format string, args ...any) *Error {
	return errorf(InvalidFormatString, "format offset %d: %s", offset, fmt.Sprintf(format, args...))
}

// EmptyParseContext produces a fixed number of default fields and no
// literal text. It is used when there is no format string: each
// destination is read in turn, separated by whitespace.
type EmptyParseContext struct {
	n    int
	next int
}

// NewEmptyParseContext returns a parse context with n default fields.
func NewEmptyParseContext(n int) *EmptyParseContext {
	return &EmptyParseContext{n: n}
}

func (p *EmptyParseContext) ArgIndex() int {
	return p.next
}

func (p *EmptyParseContext) Remaining() string {
	if p.next >= p.n {
		return ""
	}
	return strings.Repeat("{}", p.n-p.next)
}

func (p *EmptyParseContext) NextSegment() (Segment, error) {
	if p.next >= p.n {
		return Segment{Kind: EndOfFormat, Offset: p.next}, nil
	}
	seg := Segment{Kind: FieldSegment, Text: "{}", ArgIndex: p.next, Offset: p.next}
	p.next++
	return seg, nil
}

// FieldCount parses all of format and returns the number of destinations
// it needs: one more than the highest argument index of any field.
func FieldCount(format string) (int, error) {
	p, n := NewParseContext(format), 0
	for {
		seg, err := p.NextSegment()
		if err != nil {
			return 0, err
		}
		switch seg.Kind {
		case EndOfFormat:
			return n, nil
		case FieldSegment:
			n = max(n, seg.ArgIndex+1)
		}
	}
}
