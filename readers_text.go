// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package scnr

import (
	"regexp"
	"unicode/utf8"
)

// readText reads a string destination: a whitespace-delimited word, a run
// of charset members, a regex match, or a fixed number of code points.
func readText(st State, set func(string)) error {
	spec := st.Spec()
	t := newTokenReader(st)
	switch {
	case spec.Charset != nil:
		n, err := t.takeWhile(spec.Charset.Contains)
		if err != nil {
			return err
		}
		if n == 0 {
			return errorf(InvalidScannedValue, "no characters matched charset %s", spec.Charset)
		}
		set(t.text())
		return nil
	case spec.Regex != "":
		m, err := matchRegex(st)
		if err != nil {
			return err
		}
		set(m.src[m.loc[0]:m.loc[1]])
		return nil
	}

	switch spec.Type {
	case 0, 's':
		loc := st.Locale()
		n, err := t.takeWhile(func(cp rune) bool { return !loc.IsSpace(cp) })
		if err != nil {
			return err
		}
		if n == 0 {
			return newError(InvalidScannedValue, "expected a word")
		}
	case 'c':
		want := max(spec.Width, 1)
		for i := 0; i < want; i++ {
			cp, w, err := t.peek()
			if err != nil {
				return err
			}
			if cp == EOF {
				return errorf(EndOfRange, "end of input after %d of %d characters", i, want)
			}
			t.take(cp, w)
		}
	default:
		return errorf(InvalidFormatString, "invalid type specifier %q for a string", spec.Type)
	}
	set(t.text())
	return nil
}

// readCodePoint reads exactly one code point, whitespace included.
func readCodePoint(st State, dst *int32) error {
	t := newTokenReader(st)
	cp, w, err := t.peek()
	if err != nil {
		return err
	}
	if cp == EOF {
		return newError(EndOfRange, "end of input, expected a character")
	}
	t.skip(w)
	*dst = cp
	return nil
}

// readCodeUnit reads exactly one byte, whether or not it starts a valid
// code point.
func readCodeUnit(st State, dst *uint8) error {
	rng := st.Range()
	ch, ok := rng.ReadUnit()
	if !ok {
		if err := rng.Err(); err != nil {
			return &Error{Kind: IOError, Msg: "read failed", Pos: -1, Err: err}
		}
		return newError(EndOfRange, "end of input, expected a character")
	}
	*dst = ch
	return nil
}

// RegexMatch is one capture group of a regex field.
type RegexMatch struct {
	Text    string
	Name    string // empty for unnamed groups
	Matched bool   // false when the group took no part in the match
}

// RegexMatches receives every capture group of a regex field.
// Index 0 is the whole match.
type RegexMatches []RegexMatch

// Get returns the group called name.
func (m RegexMatches) Get(name string) (RegexMatch, bool) {
	for _, g := range m {
		if g.Name != "" && g.Name == name {
			return g, true
		}
	}
	return RegexMatch{}, false
}

func readRegexMatches(st State, dst *RegexMatches) error {
	if st.Spec().Regex == "" {
		return newError(InvalidFormatString, "RegexMatches requires a regex field")
	}
	m, err := matchRegex(st)
	if err != nil {
		return err
	}
	names := m.re.SubexpNames()
	out := make(RegexMatches, len(names))
	for i := range names {
		out[i].Name = names[i]
		if lo, hi := m.loc[2*i], m.loc[2*i+1]; lo >= 0 {
			out[i].Text, out[i].Matched = m.src[lo:hi], true
		}
	}
	*dst = out
	return nil
}

type regexMatch struct {
	re  *regexp.Regexp
	src string
	loc []int
}

// matchRegex matches the field's regex at the current position and
// consumes the match. The regex is anchored; it never searches ahead.
func matchRegex(st State) (regexMatch, error) {
	rng := st.Range()
	src, ok := rng.Contiguous()
	if !ok {
		return regexMatch{}, newError(InvalidScannedValue, "cannot use regex with a non-contiguous source range")
	}
	if w := st.Spec().Width; w > 0 {
		src = truncateCodePoints(src, w)
	}
	re, err := regexp.Compile(`^(?:` + st.Spec().Regex + `)`)
	if err != nil {
		return regexMatch{}, &Error{Kind: InvalidFormatString, Msg: "failed to parse regular expression", Pos: -1, Err: err}
	}
	loc := re.FindStringSubmatchIndex(src)
	if loc == nil {
		return regexMatch{}, newError(InvalidScannedValue, "regular expression didn't match")
	}
	if err := rng.AdvanceTo(rng.Pos() + loc[1]); err != nil {
		return regexMatch{}, err
	}
	return regexMatch{re: re, src: src, loc: loc}, nil
}

// truncateCodePoints returns the prefix of s holding at most n code points.
func truncateCodePoints(s string, n int) string {
	i := 0
	for ; n > 0 && i < len(s); n-- {
		_, w := utf8.DecodeRuneInString(s[i:])
		i += w
	}
	return s[:i]
}
