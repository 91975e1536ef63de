// Copyright 2026 The Unclosure Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package unclosuretest defines utilities for testing the transform.
//
// Its central check, Equivalent, executes a program before and after
// transformation using the interpreter in internal/interp, and reports
// any difference in what the two versions print with console.log.
package unclosuretest // import "go.unclosure.dev/unclosuretest"

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"go.unclosure.dev/internal/interp"
)

// A Reporter is a value to which errors may be reported.
// It is satisfied by *testing.T.
type Reporter interface {
	Errorf(format string, args ...interface{})
}

// Run executes the program src and returns the lines it printed,
// followed by the error, if any, that stopped it.
func Run(filename string, src interface{}) (string, error) {
	var buf strings.Builder
	thread := &interp.Thread{
		Print: func(_ *interp.Thread, msg string) {
			buf.WriteString(msg)
			buf.WriteByte('\n')
		},
	}
	err := interp.ExecFile(thread, filename, src)
	return buf.String(), err
}

// Equivalent executes the programs before and after and reports to r
// any difference in their output or outcome. An uncaught exception is
// part of the outcome, compared by its message without position.
// Programs the interpreter cannot execute are reported as errors.
func Equivalent(r Reporter, filename string, before, after []byte) {
	want, err := Run(filename, before)
	want += outcome(err)
	if _, ok := err.(*interp.EvalError); ok {
		r.Errorf("%s: original program: %v", filename, err)
		return
	}
	got, err := Run(filename, after)
	got += outcome(err)
	if _, ok := err.(*interp.EvalError); ok {
		r.Errorf("%s: transformed program: %v", filename, err)
		return
	}
	if want == got {
		return
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "before",
		ToFile:   "after",
		Context:  3,
	})
	if err != nil {
		diff = err.Error()
	}
	r.Errorf("%s: transformed program behaves differently:\n%s", filename, diff)
}

func outcome(err error) string {
	switch err := err.(type) {
	case nil:
		return ""
	case *interp.Exception:
		return "uncaught: " + interp.Inspect(err.Value) + "\n"
	}
	return "error: " + err.Error() + "\n"
}

// DataFile returns the effective filename of the specified
// test data resource, given the directory of its package relative
// to the root of the module.
var DataFile = func(pkgdir, filename string) string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return filepath.Join(pkgdir, filename)
	}
	root := filepath.Dir(filepath.Dir(file))
	return filepath.Join(root, pkgdir, filename)
}
