// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package scnr

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rivo/uniseg"
)

// Diagnostic represents a scan failure with a span in the input.
type Diagnostic struct {
	Severity slog.Level // Error, Warning, Info
	Code     string     // ErrorCode of the failure
	Message  string     // "expected \"-\", found 'x'"
	Span     Span       // where in the input it occurred
	Notes    []string   // optional additional help messages
}

// DiagnosticFromResult builds a diagnostic for a failed scan of input.
// It returns false if the scan succeeded.
func DiagnosticFromResult(res Result, input []byte) (Diagnostic, bool) {
	if res.OK() {
		return Diagnostic{}, false
	}
	diag := Diagnostic{
		Severity: slog.LevelError,
		Code:     ErrorCode(res.Err),
		Message:  res.Err.Error(),
		Span:     SpanAt(input, res.Pos),
	}
	var se *Error
	if errors.As(res.Err, &se) {
		diag.Message = se.Msg
		if se.Err != nil {
			diag.Notes = append(diag.Notes, se.Err.Error())
		}
	}
	if res.Count > 0 {
		diag.Notes = append(diag.Notes, fmt.Sprintf("%d value(s) were scanned before the failure", res.Count))
	}
	return diag, true
}

// PrintDiagnostic writes diag in the usual compiler style, with the input
// line and a caret under the start of the span.
//
//	input.txt:1:7: ERROR: INVALID_LITERAL: expected "-", found 'x'
//	    2024-x1-01
//	         ^
func PrintDiagnostic(w io.Writer, diag Diagnostic, filename string, src []byte) {
	span := diag.Span
	if diag.Code != "" {
		_, _ = fmt.Fprintf(w, "%s:%d:%d: %s: %s: %s\n",
			filename, span.Line, span.Column,
			diag.Severity.String(), diag.Code, diag.Message)
	} else {
		_, _ = fmt.Fprintf(w, "%s:%d:%d: %s: %s\n",
			filename, span.Line, span.Column,
			diag.Severity.String(), diag.Message)
	}

	line := findLine(src, span.Start)
	_, _ = fmt.Fprintf(w, "    %s\n", strings.ToValidUTF8(string(line), "�"))
	_, _ = fmt.Fprintf(w, "    %s^\n", caretPadding(line, span.Column-1))

	for _, note := range diag.Notes {
		_, _ = fmt.Fprintf(w, "    note: %s\n", note)
	}
}

// findLine returns the line containing the byte at start, without its
// new-line. A start at the end of src returns the last line.
func findLine(src []byte, start int) []byte {
	start = max(0, min(start, len(src)))
	lineStart := start
	for lineStart > 0 && src[lineStart-1] != '\n' {
		lineStart--
	}
	lineEnd := start
	for lineEnd < len(src) && src[lineEnd] != '\n' {
		lineEnd++
	}
	return src[lineStart:lineEnd]
}

// caretPadding returns the blanks that put a caret under code point column
// of line. Tabs are kept so the caret lines up however the terminal
// expands them; other clusters count by their display width.
func caretPadding(line []byte, column int) string {
	var sb strings.Builder
	state := -1
	rest := string(line)
	for n := 0; n < column && rest != ""; {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if cluster == "\t" {
			sb.WriteByte('\t')
		} else {
			sb.WriteString(strings.Repeat(" ", uniseg.StringWidth(cluster)))
		}
		n += len([]rune(cluster))
	}
	return sb.String()
}
