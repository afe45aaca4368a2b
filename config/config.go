// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package config loads locale definitions from TOML or YAML files.
//
// A locale file names a BCP 47 tag and may override its numeric
// punctuation and whitespace:
//
//	tag = "de-CH"
//	decimal_point = "."
//	thousands_sep = "'"
//	grouping = [3]
//	space = [" "]
package config

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/mdhender/scnr"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// LocaleFile is the on-disk form of a locale.
type LocaleFile struct {
	Tag          string  `toml:"tag"           yaml:"tag"`
	DecimalPoint string  `toml:"decimal_point" yaml:"decimal_point"`
	ThousandsSep *string `toml:"thousands_sep" yaml:"thousands_sep"` // "" disables grouping
	Grouping     []int   `toml:"grouping"      yaml:"grouping"`
	// Space lists extra characters to treat as whitespace.
	Space []string `toml:"space" yaml:"space"`
}

// Loader reads locale files.
type Loader struct {
	fs afero.Fs
}

// NewLoader returns a loader reading from fs. If fs is nil the
// operating system's file system is used.
func NewLoader(fs afero.Fs) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Loader{fs: fs}
}

// LoadLocale reads the locale file at path. The format is chosen by
// extension: .toml, or .yaml and .yml.
func (l *Loader) LoadLocale(path string) (*scnr.CustomLocale, error) {
	lf, err := l.LoadFile(path)
	if err != nil {
		return nil, err
	}
	loc, err := lf.Locale()
	if err != nil {
		return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return loc, nil
}

// LoadFile reads and decodes the locale file at path without building
// the locale.
func (l *Loader) LoadFile(path string) (*LocaleFile, error) {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading locale file %s: %w", path, err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return ParseTOML(path, data)
	case ".yaml", ".yml":
		return ParseYAML(path, data)
	default:
		return nil, &ParseError{Path: path, Message: fmt.Sprintf("unknown locale file type %q", ext)}
	}
}

// ParseTOML decodes a TOML locale file. Unknown keys are an error.
func ParseTOML(source string, data []byte) (*LocaleFile, error) {
	var lf LocaleFile
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&lf); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			pe.Line, pe.Column = derr.Position()
		}
		return nil, pe
	}
	return &lf, nil
}

// ParseYAML decodes a YAML locale file. Unknown keys are an error.
func ParseYAML(source string, data []byte) (*LocaleFile, error) {
	var lf LocaleFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&lf); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return &lf, nil
}

// Locale builds the locale the file describes.
func (lf *LocaleFile) Locale() (*scnr.CustomLocale, error) {
	if lf.Tag == "" {
		return nil, errors.New("missing tag")
	}
	var opts []scnr.LocaleOption
	if lf.DecimalPoint != "" {
		ch, err := oneChar("decimal_point", lf.DecimalPoint)
		if err != nil {
			return nil, err
		}
		opts = append(opts, scnr.WithDecimalPoint(ch))
	}
	if lf.ThousandsSep != nil {
		var ch rune
		if *lf.ThousandsSep != "" {
			var err error
			if ch, err = oneChar("thousands_sep", *lf.ThousandsSep); err != nil {
				return nil, err
			}
		}
		opts = append(opts, scnr.WithThousandsSep(ch))
	}
	if lf.Grouping != nil {
		opts = append(opts, scnr.WithGrouping(lf.Grouping...))
	}
	if len(lf.Space) != 0 {
		var extra []rune
		for _, s := range lf.Space {
			ch, err := oneChar("space", s)
			if err != nil {
				return nil, err
			}
			extra = append(extra, ch)
		}
		opts = append(opts, scnr.WithSpaceSet(extra...))
	}
	return scnr.NewLocale(lf.Tag, opts...)
}

func oneChar(key, s string) (rune, error) {
	ch, w := utf8.DecodeRuneInString(s)
	if ch == utf8.RuneError || w != len(s) {
		return 0, fmt.Errorf("%s: want a single character, got %q", key, s)
	}
	return ch, nil
}

// ParseError reports a locale file that can't be decoded or describes
// an invalid locale.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
