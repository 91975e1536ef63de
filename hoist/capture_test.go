// Copyright 2026 The Unclosure Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hoist

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.unclosure.dev/resolve"
	"go.unclosure.dev/syntax"
)

// findLit returns the first function literal in f whose source starts
// on the given line, and its enclosing nodes.
func findLit(t *testing.T, f *syntax.File, line int32) (*syntax.FuncLit, []syntax.Node) {
	t.Helper()
	var lit *syntax.FuncLit
	var ancestors []syntax.Node
	syntax.Apply(f, func(c *syntax.Cursor) bool {
		if lit != nil {
			return false
		}
		if fn, ok := c.Node().(*syntax.FuncLit); ok && syntax.Start(fn).Line == line {
			lit = fn
			ancestors = append([]syntax.Node(nil), c.Ancestors()...)
			return false
		}
		return true
	}, nil)
	if lit == nil {
		t.Fatalf("no function literal on line %d", line)
	}
	return lit, ancestors
}

func resolveSource(t *testing.T, src string) (*syntax.File, *resolve.Info) {
	t.Helper()
	f, err := syntax.Parse("test.js", src, 0)
	if err != nil {
		t.Fatal(err)
	}
	info, err := resolve.File(f)
	if err != nil {
		t.Fatal(err)
	}
	return f, info
}

func TestUsesContext(t *testing.T) {
	for _, test := range []struct {
		src  string
		want bool
	}{
		{"function f() {\n  return () => this;\n}", true},
		{"function f() {\n  return () => () => this;\n}", true},
		{"function f() {\n  return () => function () { return this; };\n}", false},
		{"function f() {\n  return () => ({ m() { return this; } });\n}", false},
		{"function f() {\n  return () => class { x = this; };\n}", false},
		{"function f() {\n  return () => arguments;\n}", true},
		{"function f() {\n  return function () { return arguments; };\n}", false},
		{"function f() {\n  return () => new.target;\n}", true},
	} {
		f, info := resolveSource(t, test.src)
		fn, _ := findLit(t, f, 2)
		if got := usesContext(info, fn); got != test.want {
			t.Errorf("usesContext(%q) = %t, want %t", test.src, got, test.want)
		}
	}
}

func TestCaptures(t *testing.T) {
	for _, test := range []struct {
		src    string
		line   int32
		want   []string
		reason Reason
	}{
		{"function f(a, b) {\n  return () => b + a + b;\n}", 2, []string{"b", "a"}, 0},
		{"const k = 1;\nfunction f(a) {\n  return () => k + a + Math.PI;\n}", 3, []string{"a"}, 0},
		{"function f() {\n  return () => g();\n  function g() {}\n}", 2, []string{"g"}, 0},
		{"function f(a) {\n  return (b = a) => b;\n}", 2, []string{"a"}, 0},
		{"function f() {\n  return () => { let x = 1; return x; };\n}", 2, nil, 0},
		{"function f(a) {\n  return () => () => a;\n}", 2, []string{"a"}, 0},
		{"function f(a) {\n  return () => a;\n  a = 2;\n}", 2, nil, Reassigned},
		{"let n = 0;\nfunction f() {\n  return () => n;\n}\nn++;", 3, nil, Reassigned},
		{"function f() {\n  return () => c;\n  const c = 1;\n}", 2, nil, TemporalDeadZone},
		{"function f() {\n  return () => k;\n  class k {}\n}", 2, nil, TemporalDeadZone},
		{"function f() {\n  const c = 1;\n  function g() {\n    return () => c;\n  }\n}", 4, nil, TemporalDeadZone},
		{"function f() {\n  var v = 1;\n  function g() {\n    return () => v;\n  }\n}", 4, nil, TemporalDeadZone},
		{"function f(a) {\n  function g() {\n    return () => a;\n  }\n}", 3, []string{"a"}, 0},
		{"function f() {\n  function g() {\n    const c = 1;\n    return () => c;\n  }\n}", 4, []string{"c"}, 0},
		{"function f(a) {\n  return () => function () { return a; };\n}", 2, nil, NestedReceiver},
	} {
		f, info := resolveSource(t, test.src)
		fn, ancestors := findLit(t, f, test.line)
		set, reason, ok := captures(info, ancestors, fn)
		if test.reason != 0 {
			if ok || reason != test.reason {
				t.Errorf("captures(%q) = %v, %v, %t; want reason %v", test.src, set.Names(), reason, ok, test.reason)
			}
			continue
		}
		if !ok {
			t.Errorf("captures(%q) failed: %v", test.src, reason)
			continue
		}
		if diff := cmp.Diff(test.want, set.Names()); diff != "" {
			t.Errorf("captures(%q) mismatch (-want +got):\n%s", test.src, diff)
		}
	}
}

func TestIsLocal(t *testing.T) {
	const src = `import { imp } from "m";
const top = 1;
function f(param) {
  let local;
  const g = function own() {};
}
`
	f, info := resolveSource(t, src)
	want := map[string]bool{
		"imp":   false,
		"top":   false,
		"f":     false,
		"param": true,
		"local": true,
		"g":     true,
		"own":   true,
	}
	got := make(map[string]bool)
	syntax.Walk(f, func(n syntax.Node) bool {
		if id, ok := n.(*syntax.Ident); ok && !info.IsReference(id) {
			if b := info.Binding(id); b != nil && b.Ident == id {
				got[b.Name] = isLocal(info, b)
			}
		}
		return true
	})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("isLocal mismatch (-want +got):\n%s", diff)
	}
}

func TestTopLevel(t *testing.T) {
	for _, test := range []struct {
		src  string
		line int32
		want bool
	}{
		{"const f = () => 1;", 1, true},
		{"export const f = () => 1;", 1, true},
		{"export default () => 1;", 1, true},
		{"if (x) {\n  g(() => 1);\n}", 2, false},
		{"function f() {\n  return () => 1;\n}", 2, false},
		{"class C {\n  m = () => 1;\n}", 2, false},
		{"for (const x of xs)\n  g(() => x);", 2, false},
	} {
		f, _ := resolveSource(t, test.src)
		_, ancestors := findLit(t, f, test.line)
		if got := topLevel(ancestors); got != test.want {
			t.Errorf("topLevel(%q) = %t, want %t", test.src, got, test.want)
		}
	}
}
