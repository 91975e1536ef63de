// Copyright 2026 The Unclosure Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jscheck validates JavaScript text using an independent
// parser, the tree-sitter JavaScript grammar. It is used to confirm that
// the printer emits well-formed programs.
package jscheck // import "go.unclosure.dev/internal/jscheck"

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// An Error describes a syntax error found by tree-sitter.
type Error struct {
	Filename  string
	Line, Col int // 1-based
	Msg       string
	Snippet   string // source text of the offending node, possibly truncated
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s near %q", e.Filename, e.Line, e.Col, e.Msg, e.Snippet)
}

// Check parses src and returns an *Error for the first syntax error
// in source order, or nil if src is well formed. Other errors, such as
// cancellation of ctx, are returned wrapped.
//
// Each call uses its own parser, so Check may be called concurrently.
func Check(ctx context.Context, filename string, src []byte) error {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return fmt.Errorf("jscheck: parsing %s: %w", filename, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}
	if bad := firstError(root); bad != nil {
		return newError(filename, bad, src)
	}
	return &Error{Filename: filename, Line: 1, Col: 1, Msg: "syntax error"}
}

// firstError returns the first ERROR or MISSING node beneath n
// in a depth-first walk, or nil.
func firstError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if bad := firstError(n.Child(i)); bad != nil {
			return bad
		}
	}
	return nil
}

func newError(filename string, n *sitter.Node, src []byte) *Error {
	start := n.StartPoint()
	msg := "syntax error"
	if n.IsMissing() {
		msg = "missing " + n.Type()
	}
	snippet := n.Content(src)
	if len(snippet) > 40 {
		snippet = snippet[:40] + "..."
	}
	return &Error{
		Filename: filename,
		Line:     int(start.Row) + 1,
		Col:      int(start.Column) + 1,
		Msg:      msg,
		Snippet:  snippet,
	}
}
