// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package scnr

import (
	"fmt"

	"golang.org/x/text/language"
)

// Locale supplies the locale-dependent behavior of a scan.
//
// Implementations must be safe for concurrent read-only use; a scan never
// modifies its locale.
type Locale interface {
	Name() string
	// IsSpace reports whether cp separates fields.
	IsSpace(cp rune) bool
	// DecimalPoint is the radix character for localized floats.
	DecimalPoint() rune
	// ThousandsSep is the digit group separator for localized numbers,
	// or 0 when the locale does not group digits.
	ThousandsSep() rune
	// Grouping lists group sizes from the right, the last one repeating.
	Grouping() []int
}

// DefaultLocale is the "C" locale: ASCII decimal point, no grouping and
// Pattern_White_Space as whitespace. It carries no state.
type DefaultLocale struct{}

func (DefaultLocale) Name() string         { return "C" }
func (DefaultLocale) IsSpace(cp rune) bool { return IsCPSpace(cp) }
func (DefaultLocale) DecimalPoint() rune   { return '.' }
func (DefaultLocale) ThousandsSep() rune   { return 0 }
func (DefaultLocale) Grouping() []int      { return nil }

// CustomLocale is a locale with configurable facets.
// It is immutable once NewLocale returns.
type CustomLocale struct {
	name         string
	tag          language.Tag
	decimalPoint rune
	thousandsSep rune
	grouping     []int
	isSpace      func(rune) bool
}

// facets holds the numeric punctuation of a base language.
type facets struct {
	decimalPoint rune
	thousandsSep rune
	grouping     []int
}

// baseFacets are keyed by ISO 639 base language.
// Languages not listed use English punctuation.
var baseFacets = map[string]facets{
	"en": {'.', ',', []int{3}},
	"ja": {'.', ',', []int{3}},
	"zh": {'.', ',', []int{3}},
	"hi": {'.', ',', []int{3, 2}},
	"de": {',', '.', []int{3}},
	"es": {',', '.', []int{3}},
	"it": {',', '.', []int{3}},
	"nl": {',', '.', []int{3}},
	"pt": {',', '.', []int{3}},
	"tr": {',', '.', []int{3}},
	"da": {',', '.', []int{3}},
	"fr": {',', '\u202f', []int{3}},
	"ru": {',', '\u00a0', []int{3}},
	"pl": {',', '\u00a0', []int{3}},
	"sv": {',', '\u00a0', []int{3}},
	"fi": {',', '\u00a0', []int{3}},
	"cs": {',', '\u00a0', []int{3}},
}

// LocaleOption overrides a facet of a CustomLocale.
type LocaleOption func(l *CustomLocale) error

// WithDecimalPoint sets the radix character.
func WithDecimalPoint(ch rune) LocaleOption {
	return func(l *CustomLocale) error {
		if ch <= 0 || IsCPSpace(ch) || ('0' <= ch && ch <= '9') {
			return fmt.Errorf("invalid decimal point %q", ch)
		}
		l.decimalPoint = ch
		return nil
	}
}

// WithThousandsSep sets the digit group separator; 0 disables grouping.
func WithThousandsSep(ch rune) LocaleOption {
	return func(l *CustomLocale) error {
		if ch < 0 || ('0' <= ch && ch <= '9') {
			return fmt.Errorf("invalid thousands separator %q", ch)
		}
		l.thousandsSep = ch
		return nil
	}
}

// WithGrouping sets the digit group sizes, rightmost group first.
func WithGrouping(sizes ...int) LocaleOption {
	return func(l *CustomLocale) error {
		for _, n := range sizes {
			if n <= 0 {
				return fmt.Errorf("invalid group size %d", n)
			}
		}
		l.grouping = append([]int(nil), sizes...)
		return nil
	}
}

// WithSpace replaces the whitespace predicate.
func WithSpace(isSpace func(rune) bool) LocaleOption {
	return func(l *CustomLocale) error {
		if isSpace == nil {
			return fmt.Errorf("nil whitespace predicate")
		}
		l.isSpace = isSpace
		return nil
	}
}

// WithSpaceSet adds code points to the default whitespace set.
func WithSpaceSet(extra ...rune) LocaleOption {
	set := make(map[rune]bool, len(extra))
	for _, cp := range extra {
		set[cp] = true
	}
	return WithSpace(func(cp rune) bool {
		return IsCPSpace(cp) || set[cp]
	})
}

// NewLocale returns a locale for a BCP 47 tag such as "de-DE" or "fr".
// The tag picks the default facets; options override them.
func NewLocale(tag string, opts ...LocaleOption) (*CustomLocale, error) {
	t, err := language.Parse(tag)
	if err != nil {
		return nil, fmt.Errorf("locale %q: %w", tag, err)
	}
	base, _ := t.Base()
	f, ok := baseFacets[base.String()]
	if !ok {
		f = baseFacets["en"]
	}
	l := &CustomLocale{
		name:         t.String(),
		tag:          t,
		decimalPoint: f.decimalPoint,
		thousandsSep: f.thousandsSep,
		grouping:     append([]int(nil), f.grouping...),
		isSpace:      IsCPSpace,
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, fmt.Errorf("locale %q: %w", tag, err)
		}
	}
	if l.decimalPoint == l.thousandsSep {
		return nil, fmt.Errorf("locale %q: decimal point and thousands separator are both %q", tag, l.decimalPoint)
	}
	return l, nil
}

func (l *CustomLocale) Name() string         { return l.name }
func (l *CustomLocale) Tag() language.Tag    { return l.tag }
func (l *CustomLocale) IsSpace(cp rune) bool { return l.isSpace(cp) }
func (l *CustomLocale) DecimalPoint() rune   { return l.decimalPoint }
func (l *CustomLocale) ThousandsSep() rune   { return l.thousandsSep }
func (l *CustomLocale) Grouping() []int      { return l.grouping }
