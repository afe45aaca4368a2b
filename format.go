// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package scnr

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// FormatSpec is the parsed form of the text after the colon in a field.
//
//	spec    = ["L"] [width] ["L"] [type | charset | regex]
//	type    = "d" | "i" | "u" | "x" | "X" | "o" | "b" | "c" | "s"
//	        | "f" | "e" | "g" | "a" | "F" | "E" | "G" | "A"
//	charset = "[" ["^"] items "]"
//	regex   = "/" pattern "/" [flags]
//
// L may come before or after the width, but only once.
type FormatSpec struct {
	Width     int  // maximum code points to read; 0 is unlimited
	Localized bool // use the locale's numeric punctuation
	Type      rune // 0 when not given
	Charset   *Charset
	Regex     string // pattern with flags applied, empty when not given
}

// SkipsSpace reports whether the engine skips whitespace before the field.
// Character, charset and regex fields see the input exactly as it is.
func (s FormatSpec) SkipsSpace() bool {
	return s.Type != 'c' && s.Charset == nil && s.Regex == ""
}

const specTypes = "diuxXobcsfegaFEGA"

// parseSpec parses spec, which is the text between the colon and the
// closing brace. It returns the number of bytes consumed; the caller
// expects a closing brace right after that.
func parseSpec(spec string) (FormatSpec, int, *Error) {
	var fs FormatSpec
	i := 0
	if i < len(spec) && spec[i] == 'L' {
		fs.Localized = true
		i++
	}
	start := i
	for i < len(spec) && '0' <= spec[i] && spec[i] <= '9' {
		fs.Width = fs.Width*10 + int(spec[i]-'0')
		if fs.Width > 1<<20 {
			return fs, i, newError(InvalidFormatString, "field width too large")
		}
		i++
	}
	if i > start && fs.Width == 0 {
		return fs, i, newError(InvalidFormatString, "field width must be positive")
	}
	if !fs.Localized && i < len(spec) && spec[i] == 'L' {
		fs.Localized = true
		i++
	}
	if i >= len(spec) {
		return fs, i, nil
	}
	switch ch := spec[i]; {
	case ch == '}':
		return fs, i, nil
	case ch == '[':
		cs, n, err := parseCharset(spec[i:])
		if err != nil {
			return fs, i, err
		}
		fs.Charset = cs
		i += n
	case ch == '/':
		re, n, err := parseRegexSpec(spec[i:])
		if err != nil {
			return fs, i, err
		}
		fs.Regex = re
		i += n
	case strings.IndexByte(specTypes, ch) >= 0:
		fs.Type = rune(ch)
		i++
	default:
		r, _ := utf8.DecodeRuneInString(spec[i:])
		return fs, i, errorf(InvalidFormatString, "unknown type specifier %q", r)
	}
	return fs, i, nil
}

// parseRegexSpec parses "/pattern/flags". A slash inside the pattern
// is written as "\/".
func parseRegexSpec(spec string) (string, int, *Error) {
	var sb strings.Builder
	i := 1
	for ; i < len(spec); i++ {
		ch := spec[i]
		if ch == '\\' && i+1 < len(spec) && spec[i+1] == '/' {
			sb.WriteByte('/')
			i++
			continue
		}
		if ch == '/' {
			break
		}
		sb.WriteByte(ch)
	}
	if i >= len(spec) {
		return "", i, newError(InvalidFormatString, "unterminated regex in field")
	}
	i++ // closing slash
	if sb.Len() == 0 {
		return "", i, newError(InvalidFormatString, "empty regex in field")
	}
	var flags string
	for ; i < len(spec) && spec[i] != '}'; i++ {
		switch spec[i] {
		case 'i', 'm', 's':
			if strings.IndexByte(flags, spec[i]) < 0 {
				flags += string(spec[i])
			}
		default:
			return "", i, errorf(InvalidFormatString, "unknown regex flag %q", spec[i])
		}
	}
	if flags != "" {
		return "(?" + flags + ")" + sb.String(), i, nil
	}
	return sb.String(), i, nil
}

// Charset is a set of code points written as "[...]" in a field.
type Charset struct {
	negate bool
	ranges []cpRange
	source string
}

type cpRange struct {
	lo, hi rune
}

// Contains reports whether cp is in the set.
func (c *Charset) Contains(cp rune) bool {
	in := false
	for _, r := range c.ranges {
		if r.lo <= cp && cp <= r.hi {
			in = true
			break
		}
	}
	return in != c.negate
}

func (c *Charset) String() string {
	return c.source
}

// parseCharset parses "[...]" at the front of spec. A "]" right after
// the opening bracket (or after "^") is a member; "\]", "\\" and "\-"
// escape those characters; "a-z" is an inclusive range.
func parseCharset(spec string) (*Charset, int, *Error) {
	cs := &Charset{}
	i := 1
	if i < len(spec) && spec[i] == '^' {
		cs.negate = true
		i++
	}
	first := true
	next := func() (rune, bool) {
		if i >= len(spec) {
			return 0, false
		}
		if spec[i] == '\\' && i+1 < len(spec) {
			r, w := utf8.DecodeRuneInString(spec[i+1:])
			i += 1 + w
			return r, true
		}
		r, w := utf8.DecodeRuneInString(spec[i:])
		i += w
		return r, true
	}
	for {
		if i >= len(spec) {
			return nil, i, newError(InvalidFormatString, "unterminated charset in field")
		}
		if spec[i] == ']' && !first {
			i++
			break
		}
		first = false
		lo, _ := next()
		hi := lo
		if i+1 < len(spec) && spec[i] == '-' && spec[i+1] != ']' {
			i++
			var ok bool
			if hi, ok = next(); !ok {
				return nil, i, newError(InvalidFormatString, "unterminated charset in field")
			}
			if hi < lo {
				return nil, i, errorf(InvalidFormatString, "invalid charset range %q-%q", lo, hi)
			}
		}
		cs.ranges = append(cs.ranges, cpRange{lo: lo, hi: hi})
	}
	cs.source = spec[:i]
	return cs, i, nil
}

func (s FormatSpec) String() string {
	var sb strings.Builder
	if s.Width > 0 {
		fmt.Fprintf(&sb, "%d", s.Width)
	}
	if s.Localized {
		sb.WriteByte('L')
	}
	switch {
	case s.Charset != nil:
		sb.WriteString(s.Charset.source)
	case s.Regex != "":
		sb.WriteString("/" + strings.ReplaceAll(s.Regex, "/", `\/`) + "/")
	case s.Type != 0:
		sb.WriteRune(s.Type)
	}
	return sb.String()
}
