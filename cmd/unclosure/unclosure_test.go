// Copyright 2026 The Unclosure Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestProcessFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.js")
	bad := filepath.Join(dir, "bad.js")
	if err := os.WriteFile(good, []byte("function f(a) {\n  return () => a;\n}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("function (\n"), 0644); err != nil {
		t.Fatal(err)
	}

	missing := filepath.Join(dir, "missing.js")

	defer func(saved bool) { *write = saved }(*write)
	*write = true
	if status := processFiles([]string{missing, good, bad}); status != 1 {
		t.Errorf("processFiles status = %d, want 1", status)
	}
	data, err := os.ReadFile(good)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "function _fn() {\n  return this.a;\n}\n") {
		t.Errorf("good.js was not rewritten:\n%s", data)
	}
	data, err = os.ReadFile(bad)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "function (\n" {
		t.Errorf("bad.js was modified:\n%s", data)
	}
	if _, err := os.Stat(missing); !os.IsNotExist(err) {
		t.Errorf("missing.js was created: %v", err)
	}
}

func TestProcessCheck(t *testing.T) {
	defer func(saved bool) { *checkOut = saved }(*checkOut)
	*checkOut = true
	r := process("x.js", []byte("const xs = [1, 2].map(x => x);\nfunction g(y) {\n  return [1].map(() => y);\n}\n"))
	if r.err != nil {
		t.Fatal(r.err)
	}
	if len(r.report.Hoisted) != 1 {
		t.Errorf("hoisted %d literals, want 1", len(r.report.Hoisted))
	}
	var out strings.Builder
	if status := finish(r, &out); status != 0 {
		t.Errorf("finish status = %d", status)
	}
	if !strings.Contains(out.String(), "_fn.bind({") {
		t.Errorf("output lacks bind call:\n%s", out.String())
	}
}
