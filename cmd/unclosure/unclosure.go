// Copyright 2026 The Unclosure Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The unclosure command hoists nested function literals in JavaScript
// files to top-level functions bound to their captured variables.
//
// Usage:
//
//	unclosure [flags] [file ...]
//
// Each file is transformed and printed to standard output, or written
// back to the file with -w. With no arguments, unclosure transforms
// standard input, or, if standard input is a terminal, starts a
// read-transform-print loop (REPL).
package main // import "go.unclosure.dev/cmd/unclosure"

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"go.unclosure.dev/hoist"
	"go.unclosure.dev/internal/jscheck"
	"go.unclosure.dev/repl"
	"go.unclosure.dev/report"
	"go.unclosure.dev/syntax"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// flags
var (
	cpuprofile = flag.String("cpuprofile", "", "gather Go CPU profile in this file")
	memprofile = flag.String("memprofile", "", "gather Go memory profile in this file")
	execprog   = flag.String("c", "", "transform program `prog`")
	write      = flag.Bool("w", false, "write result to (source) file instead of stdout")
	bubble     = flag.Bool("bubble", false, "rewrite nested function declarations into hoistable expressions first")
	checkOut   = flag.Bool("check", false, "validate the emitted JavaScript with an independent parser")
	stats      = flag.String("stats", "", "print a report of each file to stderr in `format` (text, json, prototext)")
	verbose    = flag.Bool("v", false, "log each literal that is not hoisted")
	run        = flag.Bool("run", false, "in the REPL, execute each transformed chunk")
)

// dialect flags
func init() {
	flag.BoolVar(&syntax.AllowTopLevelAwait, "toplevelawait", syntax.AllowTopLevelAwait, "allow await outside async functions")
}

func main() {
	os.Exit(doMain())
}

func doMain() int {
	log.SetPrefix("unclosure: ")
	log.SetFlags(0)
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		check(err)
		err = pprof.StartCPUProfile(f)
		check(err)
		defer func() {
			pprof.StopCPUProfile()
			err := f.Close()
			check(err)
		}()
	}
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		check(err)
		defer func() {
			runtime.GC()
			err := pprof.Lookup("heap").WriteTo(f, 0)
			check(err)
			err = f.Close()
			check(err)
		}()
	}

	if *stats != "" && !validFormat(*stats) {
		log.Printf("unknown -stats format %q", *stats)
		return 2
	}

	switch {
	case *execprog != "":
		if flag.NArg() > 0 || *write {
			log.Print("-c does not accept file arguments or -w")
			return 2
		}
		return finish(process("cmdline", []byte(*execprog)), os.Stdout)

	case flag.NArg() > 0:
		return processFiles(flag.Args())

	case *write:
		log.Print("-w requires file arguments")
		return 2

	case term.IsTerminal(int(os.Stdin.Fd())):
		fmt.Println("Welcome to unclosure (go.unclosure.dev)")
		repl.REPL(repl.Options{Bubble: *bubble, Exec: *run})
		return 0

	default:
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Print(err)
			return 1
		}
		return finish(process("<stdin>", src), os.Stdout)
	}
}

// A result is the outcome of transforming one file.
type result struct {
	filename string
	src      []byte // original text
	out      []byte // transformed text
	report   *hoist.Report
	err      error
}

// processFiles transforms the named files concurrently, at most
// GOMAXPROCS at a time, and reports the results in argument order.
// A file that cannot be read fails alone; its error is reported in
// its place among the results.
func processFiles(filenames []string) int {
	results := make([]*result, len(filenames))
	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, filename := range filenames {
		i, filename := i, filename
		g.Go(func() error {
			src, err := os.ReadFile(filename)
			if err != nil {
				results[i] = &result{filename: filename, err: err}
				return nil
			}
			results[i] = process(filename, src)
			return nil
		})
	}
	g.Wait() // each file's error is held in its result

	status := 0
	for _, r := range results {
		if code := finish(r, os.Stdout); code != 0 {
			status = code
		}
	}
	return status
}

// process transforms a single file. It is safe to call concurrently.
func process(filename string, src []byte) *result {
	r := &result{filename: filename, src: src}
	in := src
	if *bubble {
		var err error
		if in, _, err = hoist.BubbleSource(filename, src); err != nil {
			r.err = err
			return r
		}
	}
	r.out, r.report, r.err = hoist.Source(filename, in)
	if r.err == nil && *checkOut {
		r.err = jscheck.Check(context.Background(), filename, r.out)
	}
	return r
}

// finish prints the outcome of one file: errors and skip decisions
// to the log, the report to stderr, and the output to stdout or back
// to the file. It returns the exit status for the file.
func finish(r *result, stdout io.Writer) int {
	if r.err != nil {
		log.Print(r.err)
		return 1
	}
	if *verbose {
		for _, skip := range r.report.Skipped {
			if skip.Reason != hoist.TopLevel {
				log.Printf("%s: not hoisted: %s", skip.Pos, skip.Reason)
			}
		}
	}
	if *stats != "" {
		data, err := report.Encode(*stats, r.filename, r.report)
		if err != nil {
			log.Print(err)
			return 1
		}
		os.Stderr.Write(data)
	}
	if *write {
		if bytes.Equal(r.src, r.out) {
			return 0
		}
		if err := writeFile(r.filename, r.out); err != nil {
			log.Print(err)
			return 1
		}
		return 0
	}
	if _, err := stdout.Write(r.out); err != nil {
		log.Print(err)
		return 1
	}
	return 0
}

// writeFile replaces the contents of the named file, keeping its mode.
func writeFile(filename string, data []byte) error {
	fi, err := os.Stat(filename)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, fi.Mode().Perm())
}

func validFormat(format string) bool {
	for _, f := range report.Formats {
		if f == format {
			return true
		}
	}
	return false
}

func check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
