// Copyright 2026 The Unclosure Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.unclosure.dev/hoist"
	"go.unclosure.dev/report"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/testing/protocmp"
	"google.golang.org/protobuf/types/known/structpb"
)

const src = `function f(a, b) {
  const g = () => this;
  return () => a + b;
}
const top = () => 0;
const also = () => 1;
`

func transform(t *testing.T) *hoist.Report {
	t.Helper()
	_, r, err := hoist.Source("r.js", src)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestText(t *testing.T) {
	got, err := report.Encode("text", "r.js", transform(t))
	if err != nil {
		t.Fatal(err)
	}
	want := `r.js: hoisted 1, skipped 1, 2 at top level
r.js:3:10: hoisted as _fn capturing a, b
r.js:2:13: skipped: uses-context
`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("text mismatch (-want +got):\n%s", diff)
	}
}

func TestMessage(t *testing.T) {
	r := transform(t)
	want, err := structpb.NewStruct(map[string]interface{}{
		"file": "r.js",
		"hoisted": []interface{}{
			map[string]interface{}{"pos": "r.js:3:10", "name": "_fn", "captures": []interface{}{"a", "b"}},
		},
		"skipped": []interface{}{
			map[string]interface{}{"pos": "r.js:2:13", "reason": "uses-context"},
			map[string]interface{}{"pos": "r.js:5:13", "reason": "top-level"},
			map[string]interface{}{"pos": "r.js:6:14", "reason": "top-level"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	// Each structured encoding must decode to the same message.
	for _, format := range []string{"json", "prototext"} {
		data, err := report.Encode(format, "r.js", r)
		if err != nil {
			t.Fatalf("Encode(%s): %v", format, err)
		}
		got := new(structpb.Struct)
		switch format {
		case "json":
			err = protojson.Unmarshal(data, got)
		case "prototext":
			err = prototext.Unmarshal(data, got)
		}
		if err != nil {
			t.Fatalf("decoding %s output: %v\n%s", format, err, data)
		}
		if diff := cmp.Diff(want, got, protocmp.Transform()); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", format, diff)
		}
	}
}

func TestUnknownFormat(t *testing.T) {
	if _, err := report.Encode("yaml", "r.js", new(hoist.Report)); err == nil {
		t.Error("Encode accepted unknown format")
	}
}
