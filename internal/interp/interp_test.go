// Copyright 2026 The Unclosure Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package interp_test

import (
	"fmt"
	"strings"
	"testing"

	"go.unclosure.dev/internal/chunkedfile"
	"go.unclosure.dev/internal/interp"
	"go.unclosure.dev/syntax"
	"go.unclosure.dev/unclosuretest"
)

func TestExecFile(t *testing.T) {
	filename := unclosuretest.DataFile("internal/interp", "testdata/interp.js")
	for _, chunk := range chunkedfile.Read(filename, t) {
		var buf strings.Builder
		thread := &interp.Thread{
			Print: func(_ *interp.Thread, msg string) {
				buf.WriteString(msg)
				buf.WriteByte('\n')
			},
		}
		switch err := interp.ExecFile(thread, filename, chunk.Source).(type) {
		case nil:
		case *interp.Exception:
			chunk.GotError(int(err.Pos.Line), interp.Inspect(err.Value))
		case *interp.EvalError:
			chunk.GotError(int(err.Pos.Line), err.Msg)
		case syntax.Error:
			chunk.GotError(int(err.Pos.Line), err.Msg)
		default:
			t.Error(err)
		}
		chunk.GotOutput(buf.String())
		chunk.Done()
	}
}

func TestNumberString(t *testing.T) {
	for _, test := range []struct {
		x    float64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{-2.5, "-2.5"},
		{1e21, "1e+21"},
		{123456789, "123456789"},
		{1e-7, "1e-7"},
		{0.000001, "0.000001"},
	} {
		if got := interp.Number(test.x).String(); got != test.want {
			t.Errorf("Number(%v).String() = %q, want %q", test.x, got, test.want)
		}
	}
}

func TestInspect(t *testing.T) {
	obj := interp.NewObject(nil)
	obj.Set("s", interp.String("x"))
	obj.Set("list", interp.NewArray([]interp.Value{interp.Number(1), interp.Null, interp.Undefined}))
	obj.Set("1a", interp.Bool(true))
	for _, test := range []struct {
		v    interp.Value
		want string
	}{
		{interp.String("top"), "top"},
		{interp.NewArray(nil), "[]"},
		{obj, `{ s: "x", list: [ 1, null, undefined ], "1a": true }`},
	} {
		if got := interp.Inspect(test.v); got != test.want {
			t.Errorf("Inspect(%v) = %s, want %s", test.v, got, test.want)
		}
	}
}

// TestBindReceiver checks that a bound function ignores the receiver
// of the call through which it is invoked.
func TestBindReceiver(t *testing.T) {
	out, err := unclosuretest.Run("bind.js", `
function _fn() {
  return this.x;
}
const obj = { x: "obj", f: _fn.bind({ x: "bound" }) };
const Ctor = function () { this.y = 1; }.bind({ y: 0 });
console.log(obj.f(), new Ctor().y);
`)
	if err != nil {
		t.Fatal(err)
	}
	if want := "bound 1\n"; out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func ExampleExecFile() {
	thread := &interp.Thread{
		Print: func(_ *interp.Thread, msg string) { fmt.Println(msg) },
	}
	const src = `
function greet(name) {
  return () => "hello, " + name;
}
console.log(greet("world")());
`
	if err := interp.ExecFile(thread, "greet.js", src); err != nil {
		fmt.Println(err)
	}

	// Output:
	// hello, world
}
