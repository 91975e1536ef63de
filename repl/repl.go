// Copyright 2026 The Unclosure Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package repl provides a read/transform/print loop for JavaScript.
//
// It supports readline-style command editing,
// and interrupts through Control-C.
//
// The REPL reads lines until they form a complete sequence of
// statements, or until a blank line ends an incomplete one. It then
// transforms the input as a file of its own and prints the result,
// followed by a comment for each literal that was left in place.
// Optionally it also executes the transformed program.
package repl // import "go.unclosure.dev/repl"

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"go.unclosure.dev/hoist"
	"go.unclosure.dev/internal/interp"
	"go.unclosure.dev/resolve"
	"go.unclosure.dev/syntax"
)

// Options controls the processing of each chunk of input.
type Options struct {
	Bubble bool // rewrite nested function declarations first
	Exec   bool // execute the transformed chunk
}

// REPL executes a read, transform, print loop.
func REPL(opts Options) {
	rl, err := readline.New(">>> ")
	if err != nil {
		PrintError(err)
		return
	}
	defer rl.Close()
	for {
		if err := rep(rl, opts); err != nil {
			if err == readline.ErrInterrupt {
				fmt.Println(err)
				continue
			}
			break
		}
	}
	fmt.Println()
}

// rep reads, transforms, and prints one chunk.
//
// It returns an error (possibly readline.ErrInterrupt)
// only if readline failed. Transformation errors are printed.
func rep(rl *readline.Instance, opts Options) error {
	eof := false

	// readline returns EOF, ErrInterrupted, or a line including "\n".
	rl.SetPrompt(">>> ")
	readline := func() ([]byte, error) {
		line, err := rl.Readline()
		rl.SetPrompt("... ")
		if err != nil {
			if err == io.EOF {
				eof = true
			}
			return nil, err
		}
		return []byte(line + "\n"), nil
	}

	// parse
	f, err := syntax.ParseCompoundStmt("<stdin>", readline)
	if err != nil {
		if eof {
			return io.EOF
		}
		PrintError(err)
		return nil
	}
	if len(f.Stmts) == 0 {
		return nil
	}

	if err := Chunk(os.Stdout, f, opts); err != nil {
		PrintError(err)
	}
	return nil
}

// Chunk transforms the parsed chunk f and writes the result to w,
// followed by a comment for each literal that was not hoisted
// for a reason other than being at top level. If opts.Exec is set,
// it then executes the result, writing console.log output to w.
func Chunk(w io.Writer, f *syntax.File, opts Options) error {
	if opts.Bubble {
		info, err := resolve.File(f)
		if err != nil {
			return err
		}
		if hoist.BubbleDeclarations(f, info) > 0 {
			// Positions and bindings are stale; start again.
			if f, err = syntax.Parse(f.Path, syntax.Format(f), 0); err != nil {
				return err
			}
		}
	}
	info, err := resolve.File(f)
	if err != nil {
		return err
	}
	report := hoist.File(f, info)

	var buf bytes.Buffer
	if err := syntax.Fprint(&buf, f); err != nil {
		return err
	}
	w.Write(buf.Bytes())
	for _, skip := range report.Skipped {
		if skip.Reason != hoist.TopLevel {
			fmt.Fprintf(w, "// %d:%d: not hoisted: %s\n", skip.Pos.Line, skip.Pos.Col, skip.Reason)
		}
	}

	if opts.Exec {
		thread := &interp.Thread{
			Print: func(_ *interp.Thread, msg string) { fmt.Fprintln(w, msg) },
		}
		if err := interp.ExecFile(thread, f.Path, buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// PrintError prints the error to stderr.
func PrintError(err error) {
	fmt.Fprintln(os.Stderr, err)
}
