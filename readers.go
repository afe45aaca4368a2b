// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package scnr

import (
	"reflect"
	"strings"
	"unicode/utf8"
)

// Scanner is implemented by types that read themselves from a scan.
//
// ScanValue must leave the range positioned just past what it consumed,
// on success and on failure. It may use Range().Rollback to give back
// input, but not past the start of the value.
type Scanner interface {
	ScanValue(st State) error
}

// readValue dispatches to the reader for the type of dst.
func readValue(st State, dst any) error {
	spec := st.Spec()
	if v := reflect.ValueOf(dst); v.Kind() == reflect.Pointer && v.IsNil() {
		return errorf(InvalidScannedValue, "destination is not a non-nil pointer: %T", dst)
	}
	if v, ok := dst.(Scanner); ok {
		return v.ScanValue(st)
	}

	switch v := dst.(type) {
	case *bool:
		return readBool(st, func(b bool) { *v = b })
	case *int:
		return readSigned(st, intBits, func(n int64) { *v = int(n) })
	case *int8:
		return readSigned(st, 8, func(n int64) { *v = int8(n) })
	case *int16:
		return readSigned(st, 16, func(n int64) { *v = int16(n) })
	case *int32:
		if spec.Type == 'c' {
			return readCodePoint(st, v)
		}
		return readSigned(st, 32, func(n int64) { *v = int32(n) })
	case *int64:
		return readSigned(st, 64, func(n int64) { *v = n })
	case *uint:
		return readUnsigned(st, intBits, func(n uint64) { *v = uint(n) })
	case *uint8:
		if spec.Type == 'c' {
			return readCodeUnit(st, v)
		}
		return readUnsigned(st, 8, func(n uint64) { *v = uint8(n) })
	case *uint16:
		return readUnsigned(st, 16, func(n uint64) { *v = uint16(n) })
	case *uint32:
		return readUnsigned(st, 32, func(n uint64) { *v = uint32(n) })
	case *uint64:
		return readUnsigned(st, 64, func(n uint64) { *v = n })
	case *float32:
		return readFloat(st, 32, func(f float64) { *v = float32(f) })
	case *float64:
		return readFloat(st, 64, func(f float64) { *v = f })
	case *string:
		return readText(st, func(s string) { *v = s })
	case *[]byte:
		return readText(st, func(s string) { *v = []byte(s) })
	case *RegexMatches:
		return readRegexMatches(st, v)
	}

	return readReflect(st, dst)
}

// readReflect handles pointers to named types of the basic kinds.
func readReflect(st State, dst any) error {
	ptr := reflect.ValueOf(dst)
	if !ptr.IsValid() || ptr.Kind() != reflect.Pointer || ptr.IsNil() {
		return errorf(InvalidScannedValue, "destination is not a non-nil pointer: %T", dst)
	}
	switch v := ptr.Elem(); v.Kind() {
	case reflect.Bool:
		return readBool(st, v.SetBool)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return readSigned(st, v.Type().Bits(), v.SetInt)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return readUnsigned(st, v.Type().Bits(), v.SetUint)
	case reflect.Float32, reflect.Float64:
		return readFloat(st, v.Type().Bits(), v.SetFloat)
	case reflect.String:
		return readText(st, v.SetString)
	case reflect.Slice:
		if v.Type().Elem().Kind() != reflect.Uint8 {
			break
		}
		return readText(st, func(s string) {
			v.Set(reflect.MakeSlice(v.Type(), len(s), len(s)))
			reflect.Copy(v, reflect.ValueOf([]byte(s)))
		})
	}
	return errorf(InvalidScannedValue, "can't scan type: %T", dst)
}

const intBits = 32 << (^uint(0) >> 63)

// tokenReader reads code points from the range on behalf of a value
// reader, honoring the field width and collecting accepted text.
type tokenReader struct {
	rng   Range
	loc   Locale
	limit int // code points left; -1 is unlimited
	sb    strings.Builder
}

func newTokenReader(st State) *tokenReader {
	t := &tokenReader{rng: st.Range(), loc: st.Locale(), limit: -1}
	if w := st.Spec().Width; w > 0 {
		t.limit = w
	}
	return t
}

// peek returns the next code point and its width without consuming it.
// It returns EOF at the end of input or when the width is used up.
func (t *tokenReader) peek() (rune, int, error) {
	if t.limit == 0 {
		return EOF, 0, nil
	}
	view := t.rng.Window(utf8.UTFMax)
	if len(view) == 0 {
		if err := t.rng.Err(); err != nil {
			return EOF, 0, &Error{Kind: IOError, Msg: "read failed", Pos: -1, Err: err}
		}
		return EOF, 0, nil
	}
	return DecodeCodePoint(view)
}

// peekIs reports whether the next code point satisfies accept.
// Malformed input never does.
func (t *tokenReader) peekIs(accept func(rune) bool) bool {
	cp, _, err := t.peek()
	return err == nil && cp != EOF && accept(cp)
}

// skip consumes a code point of width w without collecting it.
func (t *tokenReader) skip(w int) {
	_ = t.rng.AdvanceTo(t.rng.Pos() + w)
	if t.limit > 0 {
		t.limit--
	}
}

// take consumes cp and collects it as ch.
func (t *tokenReader) take(ch rune, w int) {
	t.skip(w)
	t.sb.WriteRune(ch)
}

// takeWhile consumes and collects code points while accept holds.
// A malformed sequence stops the run and is reported.
func (t *tokenReader) takeWhile(accept func(rune) bool) (int, error) {
	n := 0
	for {
		cp, w, err := t.peek()
		if err != nil {
			return n, err
		}
		if cp == EOF || !accept(cp) {
			return n, nil
		}
		t.take(cp, w)
		n++
	}
}

// tokenMark is a point a tokenReader can back up to.
type tokenMark struct {
	pos, limit, n int
}

func (t *tokenReader) save() tokenMark {
	return tokenMark{pos: t.rng.Pos(), limit: t.limit, n: t.sb.Len()}
}

// restore backs up to m, dropping whatever was collected since.
func (t *tokenReader) restore(m tokenMark) {
	_ = t.rng.Rollback(m.pos)
	t.limit = m.limit
	if t.sb.Len() > m.n {
		s := t.sb.String()[:m.n]
		t.sb.Reset()
		t.sb.WriteString(s)
	}
}

// takeFold consumes word if the input starts with it, ignoring ASCII case,
// and collects it if collect is set. On a mismatch nothing is consumed.
func (t *tokenReader) takeFold(word string, collect bool) bool {
	m := t.save()
	for i := 0; i < len(word); i++ {
		cp, w, err := t.peek()
		if err != nil || cp == EOF || lower(cp) != rune(word[i]) {
			t.restore(m)
			return false
		}
		if collect {
			t.take(cp, w)
		} else {
			t.skip(w)
		}
	}
	return true
}

func (t *tokenReader) text() string {
	return t.sb.String()
}

func lower(cp rune) rune {
	if 'A' <= cp && cp <= 'Z' {
		return cp + ('a' - 'A')
	}
	return cp
}
