// Copyright 2026 The Unclosure Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chunkedfile

import (
	"fmt"
	"testing"
)

type testReporter struct {
	reported []string
}

func (r *testReporter) Errorf(format string, args ...interface{}) {
	formatted := fmt.Sprintf(format, args...)
	r.reported = append(r.reported, formatted)
}

func (r *testReporter) assertNone(t *testing.T) {
	t.Helper()
	if len(r.reported) > 0 {
		t.Errorf("reporter expected no errors, got %d: %q", len(r.reported), r.reported)
	}
}

func (r *testReporter) assertOne(t *testing.T, exp string) {
	t.Helper()
	if len(r.reported) != 1 {
		t.Fatalf("reporter expected 1 error, got %d", len(r.reported))
	}
	if r.reported[0] != exp {
		t.Fatalf("reporter expected %q, got %q", exp, r.reported[0])
	}
}

func (r *testReporter) reset() {
	r.reported = nil
}

func TestChunkedFile(t *testing.T) {
	data := []byte(`let x = ; // ### "want primary expression"
---
let x = 1;
f(x);
`)

	reporter := &testReporter{}
	chunks := readBytes("test_file", data, reporter, "\n")

	reporter.assertNone(t)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}

	// The first chunk has an expected error.
	exp := `let x = ; // ### "want primary expression"`
	chunk := chunks[0]
	if chunk.Source != exp {
		t.Fatalf("expected %q, got %q", exp, chunk.Source)
	}
	if len(chunk.wantErrs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(chunk.wantErrs))
	}
	exp = "want primary expression"
	for _, re := range chunk.wantErrs {
		if re.String() != exp {
			t.Fatalf("expected %q, got %q", exp, re.String())
		}
	}

	chunk.GotError(1, "got ';', want primary expression")
	reporter.assertNone(t)
	if len(chunk.wantErrs) != 0 {
		t.Fatalf("expected 0 errors, got %d", len(chunk.wantErrs))
	}

	// The same error again is unexpected.
	chunk.GotError(1, "got ';', want primary expression")
	reporter.assertOne(t, "\ntest_file:1: unexpected error: got ';', want primary expression")

	// The second chunk is padded so that line numbers match the file.
	exp = "\n\nlet x = 1;\nf(x);\n"
	chunk = chunks[1]
	if chunk.Source != exp {
		t.Fatalf("expected %q, got %q", exp, chunk.Source)
	}
	if chunk.Line != 3 {
		t.Errorf("chunk.Line = %d, want 3", chunk.Line)
	}
	if len(chunk.wantErrs) != 0 {
		t.Fatalf("expected 0 errors, got %d", len(chunk.wantErrs))
	}

	reporter.reset()
	chunk.GotError(123, "foobar")
	reporter.assertOne(t, "\ntest_file:123: unexpected error: foobar")
}

func TestExpectedOutput(t *testing.T) {
	data := []byte(`f(() => 1);
==>
f(_fn.bind());
---
g(); // ### "boom"
`)

	reporter := &testReporter{}
	chunks := readBytes("test_file", data, reporter, "\n")
	reporter.assertNone(t)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}

	chunk := chunks[0]
	if !chunk.HasWant {
		t.Fatal("first chunk has no expected output")
	}
	if chunk.Source != "f(() => 1);\n" {
		t.Errorf("Source = %q", chunk.Source)
	}
	chunk.GotOutput("f(_fn.bind());\n")
	reporter.assertNone(t)

	chunk.GotOutput("f(_fn2.bind());\n")
	if len(reporter.reported) != 1 {
		t.Fatalf("expected an output mismatch, got %q", reporter.reported)
	}
	reporter.reset()

	// Line numbers continue past the expected output.
	chunk = chunks[1]
	if chunk.HasWant {
		t.Error("second chunk unexpectedly has expected output")
	}
	if chunk.Line != 5 {
		t.Errorf("chunk.Line = %d, want 5", chunk.Line)
	}
	chunk.GotOutput("anything")
	chunk.Done()
	reporter.assertOne(t, "\ntest_file:5: expected error matching \"boom\"")
}
