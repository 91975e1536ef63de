// Copyright 2026 The Unclosure Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chunkedfile provides utilities for testing that source code
// transformations produce the expected output, and that errors and
// diagnostics are reported in the appropriate places.
//
// A chunked file consists of several chunks of input text separated by
// "---" lines. Each chunk is an input to the program under test, such
// as the parser or the transform. Lines containing "###" are
// interpreted as expectations of failure: the following text is a Go
// string literal denoting a regular expression that should match the
// failure message. In JavaScript inputs the expectation is placed in a
// line comment.
//
// A chunk may end with an expected-output section, introduced by a
// line consisting of "==>". The text after that line is the output the
// program under test should produce for the input above it.
//
// Example:
//
//	let x = ; // ### "want primary expression"
//	---
//	function f(a) {
//	  return () => a;
//	}
//	==>
//	function _fn() {
//	  return this.a;
//	}
//	...
//
// A client test feeds each chunk of text into the program under test,
// then calls chunk.GotError for each error that actually occurred, and
// chunk.GotOutput with any output. Any discrepancy between the actual
// and expected results is reported using the client's reporter, which
// is typically a testing.T.
package chunkedfile // import "go.unclosure.dev/internal/chunkedfile"

import (
	"os"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// A Chunk is a portion of a source file.
// It contains a set of expected errors and, optionally,
// the expected output.
type Chunk struct {
	Source   string
	Want     string // expected output; meaningful only if HasWant
	HasWant  bool
	Line     int // line number of the chunk's first line
	filename string
	report   Reporter
	wantErrs map[int]*regexp.Regexp
}

// Reporter is implemented by *testing.T.
type Reporter interface {
	Errorf(format string, args ...interface{})
}

// Read parses a chunked file and returns its chunks.
// It reports failures using the reporter.
//
// Error messages of the form "file.js:line:col: ..." are prefixed
// by a newline so that the Go source position added by (*testing.T).Errorf
// appears on a separate line so as not to confuse editors.
func Read(filename string, report Reporter) (chunks []Chunk) {
	data, err := os.ReadFile(filename)
	if err != nil {
		report.Errorf("%s", err)
		return
	}
	eol := "\n"
	if runtime.GOOS == "windows" {
		eol = "\r\n"
	}
	return readBytes(filename, data, report, eol)
}

func readBytes(filename string, data []byte, report Reporter, eol string) (chunks []Chunk) {
	linenum := 1
	for _, chunk := range strings.Split(string(data), eol+"---"+eol) {
		first := linenum

		var want string
		hasWant := false
		input := chunk
		if i := strings.Index(chunk, eol+"==>"+eol); i >= 0 {
			input, want, hasWant = chunk[:i+len(eol)], chunk[i+len(eol+"==>"+eol):], true
		} else if strings.HasPrefix(chunk, "==>"+eol) {
			input, want, hasWant = "", chunk[len("==>"+eol):], true
		}

		// Pad with newlines so the line numbers match the original file.
		src := strings.Repeat("\n", linenum-1) + input

		wantErrs := make(map[int]*regexp.Regexp)

		// Parse comments of the form:
		// ### "expected error".
		lines := strings.Split(input, "\n")
		for j := 0; j < len(lines); j, linenum = j+1, linenum+1 {
			line := lines[j]
			hashes := strings.Index(line, "###")
			if hashes < 0 {
				continue
			}
			rest := strings.TrimSpace(line[hashes+len("###"):])
			pattern, err := strconv.Unquote(rest)
			if err != nil {
				report.Errorf("\n%s:%d: not a quoted regexp: %s", filename, linenum, rest)
				continue
			}
			rx, err := regexp.Compile(pattern)
			if err != nil {
				report.Errorf("\n%s:%d: %v", filename, linenum, err)
				continue
			}
			wantErrs[linenum] = rx
		}
		if hasWant {
			// The input ends with eol, so the empty last element
			// of lines stood for the "==>" line itself.
			linenum += strings.Count(want, "\n") + 1
		}
		linenum++

		chunks = append(chunks, Chunk{
			Source:   src,
			Want:     want,
			HasWant:  hasWant,
			Line:     first,
			filename: filename,
			report:   report,
			wantErrs: wantErrs,
		})
	}
	return chunks
}

// GotError should be called by the client to report an error at a particular line.
// GotError reports unexpected errors to the chunk's reporter.
func (chunk *Chunk) GotError(linenum int, msg string) {
	if rx, ok := chunk.wantErrs[linenum]; ok {
		delete(chunk.wantErrs, linenum)
		if !rx.MatchString(msg) {
			chunk.report.Errorf("\n%s:%d: error %q does not match pattern %q", chunk.filename, linenum, msg, rx)
		}
	} else {
		chunk.report.Errorf("\n%s:%d: unexpected error: %v", chunk.filename, linenum, msg)
	}
}

// GotOutput should be called by the client to report the output
// produced for the chunk. It reports a difference from the expected
// output, ignoring leading and trailing space. A chunk without an
// expected-output section accepts any output.
func (chunk *Chunk) GotOutput(got string) {
	if !chunk.HasWant {
		return
	}
	if diff := cmp.Diff(strings.TrimSpace(chunk.Want), strings.TrimSpace(got)); diff != "" {
		chunk.report.Errorf("\n%s:%d: output mismatch (-want +got):\n%s", chunk.filename, chunk.Line, diff)
	}
}

// Done should be called by the client to indicate that the chunk has no more errors.
// Done reports expected errors that did not occur to the chunk's reporter.
func (chunk *Chunk) Done() {
	for linenum, rx := range chunk.wantErrs {
		chunk.report.Errorf("\n%s:%d: expected error matching %q", chunk.filename, linenum, rx)
	}
}
