// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package scnr

import (
	"unicode/utf8"
)

const (
	// EOF is a sentinel for end of input
	EOF rune = rune(-1)
)

func init() {
	// Pattern_White_Space, ASCII part
	for _, ch := range []byte{'\t', '\n', '\v', '\f', '\r', ' '} {
		asciiSpace[ch] = true
	}
}

var (
	asciiSpace = [utf8.RuneSelf]bool{}
)

// IsCPSpace reports whether cp has the Unicode Pattern_White_Space property.
//
// The set is exactly U+0009..U+000D, U+0020, U+0085, U+200E, U+200F,
// U+2028 and U+2029. It is not the White_Space property and it is not
// what unicode.IsSpace reports.
func IsCPSpace(cp rune) bool {
	if 0 <= cp && cp < utf8.RuneSelf {
		return asciiSpace[cp]
	}
	switch cp {
	case 0x85, // NEXT LINE (NEL)
		0x200e, // LEFT-TO-RIGHT MARK
		0x200f, // RIGHT-TO-LEFT MARK
		0x2028, // LINE SEPARATOR
		0x2029: // PARAGRAPH SEPARATOR
		return true
	}
	return false
}

// DecodeCodePoint decodes the UTF-8 encoded code point at the front of view.
//
// It returns the code point and the number of bytes it occupies. If the
// leading bytes are not a valid encoding, it returns an InvalidEncoding
// error and a width of 1 so that callers can step over the bad byte.
// It never reads past the end of view.
//
// The view must not be empty.
func DecodeCodePoint(view []byte) (cp rune, width int, err error) {
	if len(view) == 0 {
		panic("assert(len(view) > 0)")
	}
	// optimize for ASCII
	if view[0] < utf8.RuneSelf {
		return rune(view[0]), 1, nil
	}
	cp, width = utf8.DecodeRune(view)
	if cp == utf8.RuneError && width <= 1 {
		return utf8.RuneError, 1, newError(InvalidEncoding, "invalid encoded code point")
	}
	return cp, width, nil
}

// IsFirstCharSpace decodes the first code point of view and reports whether
// it is whitespace, along with the number of bytes to step over.
//
// A malformed leading sequence is treated as non-whitespace and the step is
// a single byte. Whitespace skipping never aborts a scan on bad encoding;
// the reader that comes after will see the bad byte and report it.
//
// The view must not be empty.
func IsFirstCharSpace(view []byte) (next int, isSpace bool) {
	if len(view) == 0 {
		panic("assert(len(view) > 0)")
	}
	cp, width, err := DecodeCodePoint(view)
	if err != nil {
		return 1, false
	}
	return width, IsCPSpace(cp)
}

// firstCharIs is IsFirstCharSpace with a caller-supplied predicate.
// Locales that override whitespace use it.
func firstCharIs(view []byte, pred func(rune) bool) (next int, ok bool) {
	if len(view) == 0 {
		panic("assert(len(view) > 0)")
	}
	cp, width, err := DecodeCodePoint(view)
	if err != nil {
		return 1, false
	}
	return width, pred(cp)
}
