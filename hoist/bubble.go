// Copyright 2026 The Unclosure Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hoist

import (
	"bytes"

	"go.unclosure.dev/resolve"
	"go.unclosure.dev/syntax"
)

// BubbleDeclarations rewrites each named function declaration that is
// directly within a block, other than the top level of the file, into
// a constant bound to a named function expression, and moves it to the
// front of the block:
//
//	{ f(); function g() {} }
//
// becomes
//
//	{ const g = function g() {}; f(); }
//
// The function expressions so created are candidates for File.
// Declarations whose name is reassigned or redeclared are left alone.
// Moved declarations are inserted in reverse order, each at the front
// of its block. BubbleDeclarations returns the number of declarations
// rewritten.
//
// The positions and bindings of moved declarations are stale
// afterwards: callers should print and re-parse the file, then resolve
// it again, before calling File.
func BubbleDeclarations(f *syntax.File, info *resolve.Info) int {
	count := 0
	syntax.Walk(f, func(n syntax.Node) bool {
		block, ok := n.(*syntax.BlockStmt)
		if !ok {
			return true
		}
		var moved []syntax.Stmt
		var rest []syntax.Stmt
		for _, stmt := range block.List {
			decl, ok := stmt.(*syntax.FuncDecl)
			if !ok || !bubbles(info, decl) {
				rest = append(rest, stmt)
				continue
			}
			moved = append([]syntax.Stmt{constFunc(decl)}, moved...)
		}
		if len(moved) > 0 {
			block.List = append(moved, rest...)
			count += len(moved)
		}
		return true
	})
	return count
}

func bubbles(info *resolve.Info, decl *syntax.FuncDecl) bool {
	b := info.Binding(decl.Name)
	return b != nil && b.Constant
}

// constFunc returns the declaration const name = function name(...) {...}.
func constFunc(decl *syntax.FuncDecl) *syntax.VarDecl {
	lit := &syntax.FuncLit{
		Name:     &syntax.Ident{NamePos: decl.Name.NamePos, Name: decl.Name.Name},
		Function: decl.Function,
	}
	return &syntax.VarDecl{
		DeclPos: decl.StartPos,
		Token:   syntax.CONST,
		List:    []*syntax.VarSpec{{Name: decl.Name, Init: lit}},
	}
}

// BubbleSource parses and resolves the file, applies
// BubbleDeclarations, and returns the resulting JavaScript text
// together with the number of declarations rewritten. The text is
// suitable input for Source.
func BubbleSource(filename string, src interface{}) ([]byte, int, error) {
	f, err := syntax.Parse(filename, src, 0)
	if err != nil {
		return nil, 0, err
	}
	info, err := resolve.File(f)
	if err != nil {
		return nil, 0, err
	}
	n := BubbleDeclarations(f, info)
	var buf bytes.Buffer
	if err := syntax.Fprint(&buf, f); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), n, nil
}
