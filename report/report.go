// Copyright 2026 The Unclosure Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report encodes the outcome of transforming a file, a
// hoist.Report, for display or for consumption by other tools.
//
// The encodings are:
//
//	text       one line per hoisted or skipped literal
//	json       a protocol buffer Struct in its JSON form
//	prototext  a protocol buffer Struct in text format
//
// The structure of the json and prototext encodings is:
//
//	{
//	  "file": "a.js",
//	  "hoisted": [{"pos": "a.js:3:10", "name": "_fn", "captures": ["a"]}],
//	  "skipped": [{"pos": "a.js:2:13", "reason": "uses-context"}]
//	}
package report // import "go.unclosure.dev/report"

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"go.unclosure.dev/hoist"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/types/known/structpb"
)

// Formats lists the supported encodings.
var Formats = []string{"text", "json", "prototext"}

// Message returns the report for the named file as a Struct.
func Message(filename string, r *hoist.Report) (*structpb.Struct, error) {
	hoisted := make([]interface{}, 0, len(r.Hoisted))
	for _, h := range r.Hoisted {
		captures := make([]interface{}, len(h.Captures))
		for i, name := range h.Captures {
			captures[i] = name
		}
		hoisted = append(hoisted, map[string]interface{}{
			"pos":      h.Pos.String(),
			"name":     h.Name,
			"captures": captures,
		})
	}
	skipped := make([]interface{}, 0, len(r.Skipped))
	for _, s := range r.Skipped {
		skipped = append(skipped, map[string]interface{}{
			"pos":    s.Pos.String(),
			"reason": s.Reason.String(),
		})
	}
	msg, err := structpb.NewStruct(map[string]interface{}{
		"file":    filename,
		"hoisted": hoisted,
		"skipped": skipped,
	})
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	return msg, nil
}

// Encode returns the report for the named file in the specified format.
func Encode(format, filename string, r *hoist.Report) ([]byte, error) {
	if format == "text" {
		var buf bytes.Buffer
		Text(&buf, filename, r)
		return buf.Bytes(), nil
	}
	msg, err := Message(filename, r)
	if err != nil {
		return nil, err
	}
	var data []byte
	switch format {
	case "json":
		data, err = protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(msg)
	case "prototext":
		data, err = prototext.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(msg)
	default:
		return nil, fmt.Errorf("report: unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("report: encoding %s: %w", format, err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return data, nil
}

// Text writes the report for the named file in text form: a summary
// line followed by one line per literal, hoisted literals first.
// Literals already at top level are counted apart from the other
// skips, and not listed.
func Text(w io.Writer, filename string, r *hoist.Report) {
	top := 0
	for _, s := range r.Skipped {
		if s.Reason == hoist.TopLevel {
			top++
		}
	}
	fmt.Fprintf(w, "%s: hoisted %d, skipped %d, %d at top level\n", filename, len(r.Hoisted), len(r.Skipped)-top, top)
	for _, h := range r.Hoisted {
		if len(h.Captures) == 0 {
			fmt.Fprintf(w, "%s: hoisted as %s\n", h.Pos, h.Name)
		} else {
			fmt.Fprintf(w, "%s: hoisted as %s capturing %s\n", h.Pos, h.Name, strings.Join(h.Captures, ", "))
		}
	}
	for _, s := range r.Skipped {
		if s.Reason != hoist.TopLevel {
			fmt.Fprintf(w, "%s: skipped: %s\n", s.Pos, s.Reason)
		}
	}
}
