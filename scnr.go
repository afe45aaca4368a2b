// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package scnr reads typed values out of text, the way fmt.Sscanf does,
// using format strings in the brace style of fmt-like formatters:
//
//	var name string
//	var age int
//	res := scnr.Scan("alice 42", "{} {}", &name, &age)
//	if !res.OK() {
//		return res.Err
//	}
//
// A scan runs over a Range (an in-memory buffer or a streaming File) with a
// Locale, and walks the format string and the input in lockstep. Whitespace
// in the format matches any amount of whitespace in the input, literal text
// must match exactly, and each {} field is read by the reader for the type
// of its destination. Failures come back in the Result, never as panics.
package scnr

import (
	"github.com/maloquacious/semver"
)

var (
	version = semver.Version{
		Major: 0,
		Minor: 1,
		Patch: 0,
		Build: semver.Commit(),
	}
)

func Version() semver.Version {
	return version
}
