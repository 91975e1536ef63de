// Copyright 2026 The Unclosure Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jscheck_test

import (
	"context"
	"errors"
	"testing"

	"go.unclosure.dev/internal/jscheck"
)

func TestCheck(t *testing.T) {
	for _, test := range []struct {
		src      string
		wantLine int // 0 if well formed
	}{
		{"function _fn() {\n  return this.a;\n}\nconst f = _fn.bind({\n  a\n});\n", 0},
		{"class C {\n  m() {}\n}\n", 0},
		{"const x = ;\n", 1},
		{"function f() {\n  return (1 + ;\n}\n", 2},
	} {
		err := jscheck.Check(context.Background(), "test.js", []byte(test.src))
		if test.wantLine == 0 {
			if err != nil {
				t.Errorf("Check(%q) = %v", test.src, err)
			}
			continue
		}
		var jerr *jscheck.Error
		if !errors.As(err, &jerr) {
			t.Errorf("Check(%q) = %v, want *jscheck.Error", test.src, err)
			continue
		}
		if jerr.Line != test.wantLine {
			t.Errorf("Check(%q) reported line %d, want %d: %v", test.src, jerr.Line, test.wantLine, err)
		}
	}
}
