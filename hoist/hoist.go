// Copyright 2026 The Unclosure Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hoist rewrites nested function literals into top-level
// function declarations that receive their captured variables
// explicitly through a bound receiver.
//
// A literal such as
//
//	function foo(arr) {
//	  const example = () => console.log(arr);
//	}
//
// becomes
//
//	function _fn() {
//	  return console.log(this.arr);
//	}
//	function foo(arr) {
//	  const example = _fn.bind({
//	    arr
//	  });
//	}
//
// A literal is left untouched (skipped) if it already appears in a
// top-level statement, if it uses the receiver, arguments, super or
// new.target of the function invoking it, or if any variable it
// captures is ever reassigned, since the receiver holds a snapshot of
// each captured value. See Reason for the complete list.
//
// The transformation works in place on a resolved file, and keeps the
// resolve.Info up to date as it goes, so that later literals are
// analyzed against the rewritten tree.
package hoist // import "go.unclosure.dev/hoist"

import (
	"bytes"
	"fmt"

	"go.unclosure.dev/resolve"
	"go.unclosure.dev/syntax"
)

// A Reason explains why a function literal was not hoisted.
type Reason uint8

const (
	TopLevel         Reason = iota // the enclosing statement is already at top level
	Context                        // the literal uses the receiver of its caller
	Reassigned                     // a captured variable is reassigned
	TemporalDeadZone               // a captured variable is not yet initialized where the literal is created
	NestedReceiver                 // a captured variable is used by a nested function with its own receiver
	SelfReference                  // the literal refers to a name not visible from the top level
)

var reasonNames = [...]string{
	TopLevel:         "top-level",
	Context:          "uses-context",
	Reassigned:       "reassigned",
	TemporalDeadZone: "temporal-dead-zone",
	NestedReceiver:   "nested-receiver",
	SelfReference:    "self-reference",
}

func (r Reason) String() string {
	if int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return fmt.Sprintf("Reason(%d)", r)
}

// A Report records the outcome of transforming one file:
// the literals that were hoisted, in the order they were processed,
// and those that were skipped.
type Report struct {
	Hoisted []Hoist
	Skipped []Skip
}

// A Hoist describes a function literal that was replaced by a call
// to bind on the named top-level function.
type Hoist struct {
	Pos      syntax.Position // position of the original literal
	Name     string          // name of the hoisted function
	Captures []string        // properties of the receiver, in order
}

// A Skip describes a function literal that was left in place.
type Skip struct {
	Pos    syntax.Position
	Reason Reason
}

// Changed reports whether the transformation modified the file.
func (r *Report) Changed() bool { return len(r.Hoisted) > 0 }

// File transforms the resolved file f in place, hoisting every
// eligible nested function literal to the top of the file.
// The info must be the result of resolving f; it is updated to
// describe the transformed file.
//
// File reports no errors: a literal that cannot be hoisted is
// left exactly as it was, and recorded in the report.
func File(f *syntax.File, info *resolve.Info) *Report {
	if info.File != f {
		panic("hoist.File: info does not describe file")
	}
	p := &pass{
		file:     f,
		info:     info,
		report:   new(Report),
		deferred: make(map[*syntax.FuncLit]bool),
	}
	syntax.Apply(f, p.pre, p.post)
	return p.report
}

// Source parses, resolves and transforms the file, and returns the
// resulting JavaScript text.
//
// The filename and src parameters are as for syntax.Parse.
// Parse and resolve errors are returned unmodified.
func Source(filename string, src interface{}) ([]byte, *Report, error) {
	f, err := syntax.Parse(filename, src, 0)
	if err != nil {
		return nil, nil, err
	}
	info, err := resolve.File(f)
	if err != nil {
		return nil, nil, err
	}
	report := File(f, info)
	var buf bytes.Buffer
	if err := syntax.Fprint(&buf, f); err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), report, nil
}

// A pass holds the state of one transformation of one file.
type pass struct {
	file   *syntax.File
	info   *resolve.Info
	report *Report

	// deferred holds literals whose decision awaits the
	// transformation of the nested functions within them.
	deferred map[*syntax.FuncLit]bool
}

func (p *pass) pre(c *syntax.Cursor) bool {
	fn, ok := c.Node().(*syntax.FuncLit)
	if !ok {
		return true
	}
	set, reason, ok := p.analyze(c.Ancestors(), fn)
	switch {
	case ok:
		decl := p.hoist(c, fn, set)
		// The hoisted body is walked in its new place.
		syntax.ApplyWithin([]syntax.Node{p.file}, decl, p.pre, p.post)
		return false
	case reason == NestedReceiver:
		p.deferred[fn] = true
	default:
		p.skip(fn, reason)
	}
	return true
}

func (p *pass) post(c *syntax.Cursor) bool {
	fn, ok := c.Node().(*syntax.FuncLit)
	if !ok || !p.deferred[fn] {
		return true
	}
	delete(p.deferred, fn)
	if set, reason, ok := p.analyze(c.Ancestors(), fn); ok {
		p.hoist(c, fn, set)
	} else {
		p.skip(fn, reason)
	}
	return true
}

// analyze decides whether the literal fn, whose enclosing nodes are
// ancestors, may be hoisted, and if so with which captures.
// It does not modify the tree.
func (p *pass) analyze(ancestors []syntax.Node, fn *syntax.FuncLit) (CaptureSet, Reason, bool) {
	if topLevel(ancestors) {
		return nil, TopLevel, false
	}
	if usesContext(p.info, fn) {
		return nil, Context, false
	}
	if fn.Name != nil && fn.Name.Binding != nil && len(fn.Name.Binding.Refs) > 0 {
		return nil, SelfReference, false
	}
	return captures(p.info, ancestors, fn)
}

func (p *pass) skip(fn *syntax.FuncLit, reason Reason) {
	p.report.Skipped = append(p.report.Skipped, Skip{Pos: syntax.Start(fn), Reason: reason})
}

// topLevel reports whether the statement nearest to the node whose
// enclosing nodes are ancestors appears directly in the file,
// possibly within an export. A class member counts as a statement
// that is never at top level.
func topLevel(ancestors []syntax.Node) bool {
	for i := len(ancestors) - 1; i > 0; i-- {
		switch ancestors[i].(type) {
		case *syntax.ClassMember:
			return false
		case syntax.Stmt:
			switch parent := ancestors[i-1].(type) {
			case *syntax.File:
				return true
			case *syntax.ExportStmt:
				if i < 2 {
					return false
				}
				_, ok := ancestors[i-2].(*syntax.File)
				return ok && parent.Decl == ancestors[i]
			}
			return false
		}
	}
	return false
}

// hoist moves the literal fn to a new function declaration at the
// top of the file and replaces it with a call to that function's
// bind method. Captured variables within fn are rewritten to
// properties of the receiver.
func (p *pass) hoist(c *syntax.Cursor, fn *syntax.FuncLit, set CaptureSet) *syntax.FuncDecl {
	start := syntax.Start(fn)
	if len(set) > 0 {
		p.rewriteCaptures(fn, set)
	}

	name := &syntax.Ident{NamePos: start, Name: p.info.UniqueName("fn")}
	decl := &syntax.FuncDecl{Name: name, Function: fn.Function}
	if decl.Body == nil {
		result := syntax.Unparen(decl.ExprBody)
		from, to := decl.ExprBody.Span()
		decl.Body = &syntax.BlockStmt{
			Lbrace: from,
			List:   []syntax.Stmt{&syntax.ReturnStmt{Return: from, Result: result}},
			Rbrace: to,
		}
		decl.ExprBody = nil
	}
	b := p.info.Register(p.info.Program, name, syntax.FuncKind, decl)
	p.info.Move(fn, decl, p.info.Program)
	p.file.Stmts = append([]syntax.Stmt{decl}, p.file.Stmts...)

	c.Replace(p.bindCall(fn, b, set))
	p.report.Hoisted = append(p.report.Hoisted, Hoist{
		Pos:      start,
		Name:     name.Name,
		Captures: set.Names(),
	})
	return decl
}

// bindCall returns the expression fn.bind({captures...}) that replaces
// the literal fn, where fn is the hoisted function's binding b.
func (p *pass) bindCall(fn *syntax.FuncLit, b *syntax.Binding, set CaptureSet) *syntax.CallExpr {
	start, end := fn.Span()
	callee := &syntax.Ident{NamePos: start, Name: b.Name}
	p.info.Bind(callee, b)
	call := &syntax.CallExpr{
		Fn: &syntax.DotExpr{
			X:    callee,
			Dot:  start,
			Name: &syntax.Ident{NamePos: start, Name: "bind"},
		},
		Lparen: start,
		Rparen: end,
	}
	if len(set) == 0 {
		return call
	}
	obj := &syntax.ObjectExpr{Lbrace: start, Rbrace: end}
	for _, capture := range set {
		value := &syntax.Ident{NamePos: start, Name: capture.Name}
		p.info.Bind(value, capture)
		obj.Props = append(obj.Props, &syntax.Property{
			Kind:      syntax.FieldMember,
			Key:       &syntax.Ident{NamePos: start, Name: capture.Name},
			Value:     value,
			Shorthand: true,
		})
	}
	call.Args = []syntax.Expr{obj}
	return call
}

// rewriteCaptures replaces each reference within fn to a captured
// variable by a property access on the receiver: x becomes this.x.
// Only references that see the receiver of fn are affected; the
// caller guarantees that no others refer to set.
func (p *pass) rewriteCaptures(fn *syntax.FuncLit, set CaptureSet) {
	syntax.Apply(fn, nil, func(c *syntax.Cursor) bool {
		id, ok := c.Node().(*syntax.Ident)
		if !ok || !p.info.IsReference(id) || !set.Contains(p.info.Binding(id)) {
			return true
		}
		if prop, ok := c.Parent().(*syntax.Property); ok && prop.Shorthand {
			prop.Shorthand = false // {x} becomes {x: this.x}
		}
		p.info.Unbind(id)
		c.Replace(&syntax.DotExpr{
			X:    &syntax.ThisExpr{ThisPos: id.NamePos},
			Dot:  id.NamePos,
			Name: &syntax.Ident{NamePos: id.NamePos, Name: id.Name},
		})
		return true
	})
}
