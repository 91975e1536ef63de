// Copyright 2026 The Unclosure Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package repl

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.unclosure.dev/syntax"
)

func TestChunk(t *testing.T) {
	for _, test := range []struct {
		src  string
		opts Options
		want string
	}{
		{
			src: "function f(x) {\n  return () => x;\n}\n",
			want: `function _fn() {
  return this.x;
}
function f(x) {
  return _fn.bind({
    x
  });
}
`,
		},
		{
			src: "function f() {\n  return () => this;\n}\n",
			want: `function f() {
  return () => this;
}
// 2:10: not hoisted: uses-context
`,
		},
		{
			src:  "function f(x) {\n  return g;\n  function g() {\n    return x;\n  }\n}\nconsole.log(f(7)());\n",
			opts: Options{Bubble: true, Exec: true},
			want: `function _fn() {
  return this.x;
}
function f(x) {
  const g = _fn.bind({
    x
  });
  return g;
}
console.log(f(7)());
7
`,
		},
	} {
		f, err := syntax.Parse("<stdin>", test.src, 0)
		if err != nil {
			t.Fatal(err)
		}
		var buf strings.Builder
		if err := Chunk(&buf, f, test.opts); err != nil {
			t.Errorf("Chunk(%q): %v", test.src, err)
			continue
		}
		if diff := cmp.Diff(test.want, buf.String()); diff != "" {
			t.Errorf("Chunk(%q) mismatch (-want +got):\n%s", test.src, diff)
		}
	}
}
