// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package scnr

import (
	"errors"
	"strconv"
)

// intBase maps an integer type specifier to a base; 0 means detect it
// from a prefix.
func intBase(verb rune) (int, error) {
	switch verb {
	case 0, 'd', 'u':
		return 10, nil
	case 'i':
		return 0, nil
	case 'x', 'X':
		return 16, nil
	case 'o':
		return 8, nil
	case 'b':
		return 2, nil
	}
	return 0, errorf(InvalidFormatString, "invalid type specifier %q for an integer", verb)
}

func isDigit(cp rune, base int) bool {
	switch {
	case '0' <= cp && cp <= '9':
		return int(cp-'0') < base
	case 'a' <= cp && cp <= 'z':
		return int(cp-'a')+10 < base
	case 'A' <= cp && cp <= 'Z':
		return int(cp-'A')+10 < base
	}
	return false
}

func readSigned(st State, bits int, set func(int64)) error {
	base, err := intBase(st.Spec().Type)
	if err != nil {
		return err
	}
	t := newTokenReader(st)
	text, base, err := t.integer(base, true, st.Spec().Localized)
	if err != nil {
		return err
	}
	n, err := strconv.ParseInt(text, base, bits)
	if err != nil {
		return conversionError(err, text)
	}
	set(n)
	return nil
}

func readUnsigned(st State, bits int, set func(uint64)) error {
	base, err := intBase(st.Spec().Type)
	if err != nil {
		return err
	}
	t := newTokenReader(st)
	text, base, err := t.integer(base, false, st.Spec().Localized)
	if err != nil {
		return err
	}
	n, err := strconv.ParseUint(text, base, bits)
	if err != nil {
		return conversionError(err, text)
	}
	set(n)
	return nil
}

func conversionError(err error, text string) error {
	if errors.Is(err, strconv.ErrRange) {
		return &Error{Kind: InvalidScannedValue, Msg: "value out of range: " + text, Pos: -1, Err: err}
	}
	return &Error{Kind: InvalidScannedValue, Msg: "invalid value: " + text, Pos: -1, Err: err}
}

// integer reads an optionally signed integer and returns its text without
// any base prefix, along with the base to convert it in. When localized is
// set, the locale's thousands separator may appear between digits.
//
// If no digits are found the range is left where the integer started.
func (t *tokenReader) integer(base int, signed, localized bool) (string, int, error) {
	start := t.save()

	if cp, w, err := t.peek(); err == nil && (cp == '+' || cp == '-') {
		switch {
		case cp == '+':
			t.skip(w)
		case !signed:
			return "", base, newError(InvalidScannedValue, "unexpected '-' for an unsigned value")
		default:
			t.take(cp, w)
		}
	}

	prefix, skipped := t.save(), false
	switch base {
	case 0:
		switch {
		case t.takeFold("0x", false):
			base, skipped = 16, true
		case t.takeFold("0o", false):
			base, skipped = 8, true
		case t.takeFold("0b", false):
			base, skipped = 2, true
		default:
			base = 10
			if t.takeFold("0", false) {
				if t.peekIs(func(cp rune) bool { return isDigit(cp, 8) }) {
					base = 8
				}
				t.restore(prefix)
			}
		}
	case 16:
		skipped = t.takeFold("0x", false)
	case 8:
		skipped = t.takeFold("0o", false)
	case 2:
		skipped = t.takeFold("0b", false)
	}

	var sep rune
	if localized {
		sep = t.loc.ThousandsSep()
	}
	digits, groups, err := t.groupedDigits(base, sep)
	if err != nil {
		return "", base, err
	}
	if !groupingMatches(groups, t.loc.Grouping()) {
		t.restore(start)
		return "", base, newError(InvalidScannedValue, "digit grouping does not match the locale")
	}
	if digits == 0 && skipped {
		// a prefix with nothing after it: the "0" is the value
		t.restore(prefix)
		if digits, err = t.digits(base, sep); err != nil {
			return "", base, err
		}
	}
	if digits == 0 {
		t.restore(start)
		return "", base, newError(InvalidScannedValue, "expected an integer")
	}
	return t.text(), base, nil
}

// digits collects digits in base. A separator other than 0 is skipped when
// it sits between two digits.
func (t *tokenReader) digits(base int, sep rune) (int, error) {
	n, _, err := t.groupedDigits(base, sep)
	return n, err
}

// groupedDigits is digits that also returns the size of each run of
// digits between separators, leftmost first.
func (t *tokenReader) groupedDigits(base int, sep rune) (int, []int, error) {
	n, run := 0, 0
	var groups []int
	done := func() []int {
		if run > 0 {
			groups = append(groups, run)
		}
		return groups
	}
	for {
		cp, w, err := t.peek()
		if err != nil {
			if KindOf(err) == IOError {
				return n, done(), err
			}
			return n, done(), nil
		}
		if cp == EOF {
			return n, done(), nil
		}
		if isDigit(cp, base) {
			t.take(cp, w)
			n++
			run++
			continue
		}
		if sep != 0 && cp == sep && n > 0 {
			m := t.save()
			t.skip(w)
			if t.peekIs(func(cp rune) bool { return isDigit(cp, base) }) {
				groups, run = append(groups, run), 0
				continue
			}
			t.restore(m)
		}
		return n, done(), nil
	}
}

// groupingMatches reports whether digit groups, leftmost first, follow
// sizes, rightmost first with the last size repeating. The leftmost group
// may be shorter than its size. A number without separators always matches,
// as does any number when sizes is empty.
func groupingMatches(groups, sizes []int) bool {
	if len(groups) < 2 || len(sizes) == 0 {
		return true
	}
	for i := range groups {
		size := sizes[min(i, len(sizes)-1)]
		g := groups[len(groups)-1-i]
		if i == len(groups)-1 {
			return 1 <= g && g <= size
		}
		if g != size {
			return false
		}
	}
	return true
}

func readFloat(st State, bits int, set func(float64)) error {
	switch st.Spec().Type {
	case 0, 'f', 'e', 'g', 'a', 'F', 'E', 'G', 'A':
	default:
		return errorf(InvalidFormatString, "invalid type specifier %q for a floating-point value", st.Spec().Type)
	}
	t := newTokenReader(st)
	text, err := t.float(st.Spec())
	if err != nil {
		return err
	}
	f, err := strconv.ParseFloat(text, bits)
	if err != nil {
		return conversionError(err, text)
	}
	set(f)
	return nil
}

// float reads a floating-point number and returns it in a form that
// strconv.ParseFloat accepts.
func (t *tokenReader) float(spec FormatSpec) (string, error) {
	start := t.save()

	if cp, w, err := t.peek(); err == nil && (cp == '+' || cp == '-') {
		t.take(cp, w)
	}
	if t.takeFold("inf", true) {
		t.takeFold("inity", true)
		return t.text(), nil
	}
	if t.takeFold("nan", true) {
		return t.text(), nil
	}

	dp, sep := '.', rune(0)
	if spec.Localized {
		dp, sep = t.loc.DecimalPoint(), t.loc.ThousandsSep()
	}

	base, expChar := 10, 'e'
	if spec.Type == 0 || spec.Type == 'a' || spec.Type == 'A' {
		if prefix := t.save(); t.takeFold("0x", true) {
			if t.peekIs(func(cp rune) bool { return isDigit(cp, 16) || cp == dp }) {
				base, expChar = 16, 'p'
			} else {
				t.restore(prefix)
			}
		}
	}

	intDigits, groups, err := t.groupedDigits(base, sep)
	if err != nil {
		return "", err
	}
	if spec.Localized && !groupingMatches(groups, t.loc.Grouping()) {
		t.restore(start)
		return "", newError(InvalidScannedValue, "digit grouping does not match the locale")
	}
	fracDigits := 0
	if cp, w, err := t.peek(); err == nil && cp == dp {
		m := t.save()
		t.skip(w)
		t.sb.WriteByte('.')
		if fracDigits, err = t.digits(base, 0); err != nil {
			return "", err
		}
		if intDigits+fracDigits == 0 {
			t.restore(m)
		}
	}
	if intDigits+fracDigits == 0 {
		t.restore(start)
		return "", newError(InvalidScannedValue, "expected a floating-point value")
	}

	hasExp := false
	if cp, w, err := t.peek(); err == nil && lower(cp) == expChar {
		m := t.save()
		t.take(cp, w)
		if cp, w, err := t.peek(); err == nil && (cp == '+' || cp == '-') {
			t.take(cp, w)
		}
		if n, err := t.digits(10, 0); err != nil {
			return "", err
		} else if n == 0 {
			t.restore(m)
		} else {
			hasExp = true
		}
	}
	if base == 16 && !hasExp {
		return t.text() + "p0", nil
	}
	return t.text(), nil
}

func readBool(st State, set func(bool)) error {
	switch st.Spec().Type {
	case 0, 's', 'd', 'i', 'u':
	default:
		return errorf(InvalidFormatString, "invalid type specifier %q for a boolean", st.Spec().Type)
	}
	t := newTokenReader(st)
	switch {
	case t.takeFold("true", false), t.takeFold("1", false):
		set(true)
	case t.takeFold("false", false), t.takeFold("0", false):
		set(false)
	default:
		return newError(InvalidScannedValue, "expected a boolean")
	}
	return nil
}
