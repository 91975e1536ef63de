// Copyright 2026 The Unclosure Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolve defines a name-resolution pass for JavaScript
// syntax trees.
//
// The resolver sets the Binding field of each declaring and referring
// syntax.Ident, and records for each scope the names declared in it.
// A Binding records the kind of declaration, the declaring scope, and
// whether the variable is ever reassigned: the target of an
// assignment, an update (++ or --), a for-in/of loop without a
// declaration, or a repeated var or function declaration.
//
// Declarations follow the rules of JavaScript modules:
// var declarations bind in the nearest enclosing function (or the
// program); let, const, class and function declarations bind in the
// nearest enclosing block. The own name of a named function or class
// expression binds in a scope of its own, anchored at the expression.
// References to names not declared anywhere are globals; they have a
// nil Binding.
//
// A var declared within a loop is never considered constant, since each
// iteration assigns to the same variable.
package resolve // import "go.unclosure.dev/resolve"

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.unclosure.dev/syntax"
)

const debug = false

// An ErrorList is a non-empty list of resolver error messages.
type ErrorList []Error // len > 0

func (e ErrorList) Error() string { return e[0].Error() }

// An Error describes the nature and position of a resolver error.
type Error struct {
	Pos syntax.Position
	Msg string
}

func (e Error) Error() string { return e.Pos.String() + ": " + e.Msg }

// Info holds the result of resolving a file. It is the scope service
// consulted, and updated, by transformations of the file.
type Info struct {
	File    *syntax.File
	Program *syntax.Scope // the file's top-level scope

	scopes map[syntax.Node]*syntax.Scope
	uses   map[*syntax.Ident]*syntax.Binding // referring identifiers; nil for globals
	names  map[string]bool                   // every name declared or referenced
}

// File resolves the specified file and records information about its
// scopes and bindings in the returned Info.
//
// The resolver reports errors for redeclarations of lexical bindings
// and for assignments to const and import bindings. If there were
// errors, the result is an ErrorList and the Info is nil.
func File(file *syntax.File) (*Info, error) {
	r := newResolver(file)
	r.declarations(file)
	r.references(file)
	if len(r.errors) > 0 {
		sort.Sort(r.errors)
		return nil, r.errors
	}
	return r.info, nil
}

func (e ErrorList) Len() int      { return len(e) }
func (e ErrorList) Swap(i, j int) { e[i], e[j] = e[j], e[i] }
func (e ErrorList) Less(i, j int) bool {
	return e[i].Pos.Before(e[j].Pos)
}

type resolver struct {
	info   *Info
	errors ErrorList

	env       *syntax.Scope // current scope
	loopDepth int           // loops enclosing the current node within its function
	loopStack []int         // saved loopDepth of enclosing functions
}

func newResolver(file *syntax.File) *resolver {
	return &resolver{
		info: &Info{
			File:   file,
			scopes: make(map[syntax.Node]*syntax.Scope),
			uses:   make(map[*syntax.Ident]*syntax.Binding),
			names:  make(map[string]bool),
		},
	}
}

func (r *resolver) errorf(pos syntax.Position, format string, args ...interface{}) {
	r.errors = append(r.errors, Error{pos, fmt.Sprintf(format, args...)})
}

func (r *resolver) push(kind syntax.ScopeKind, anchor syntax.Node) *syntax.Scope {
	s := &syntax.Scope{
		Kind:     kind,
		Node:     anchor,
		Parent:   r.env,
		Bindings: make(map[string]*syntax.Binding),
	}
	r.info.scopes[anchor] = s
	r.env = s
	return s
}

// functionScope returns the nearest enclosing function or program scope.
func (r *resolver) functionScope() *syntax.Scope {
	s := r.env
	for s.Kind != syntax.FunctionScope && s.Kind != syntax.ProgramScope {
		s = s.Parent
	}
	return s
}

// declarations builds the scope tree and declares every name,
// so that references may later be resolved regardless of the order
// of declaration and use.
func (r *resolver) declarations(file *syntax.File) {
	syntax.Apply(file, func(c *syntax.Cursor) bool {
		switch n := c.Node().(type) {
		case *syntax.File:
			r.info.Program = r.push(syntax.ProgramScope, n)

		case *syntax.FuncDecl:
			r.declare(r.env, n.Name, syntax.FuncKind, n)
			r.enterFunction(n)

		case *syntax.FuncLit:
			r.enterFunction(n)
			if n.Name != nil {
				r.declare(r.env, n.Name, syntax.LocalKind, n)
			}

		case *syntax.Method:
			r.enterFunction(n)

		case *syntax.Param:
			r.declare(r.env, n.Name, syntax.ParamKind, n)

		case *syntax.BlockStmt:
			switch parent := c.Parent().(type) {
			case *syntax.FuncDecl, *syntax.FuncLit, *syntax.Method:
				// A function body shares the scope of its parameters.
			case *syntax.TryStmt:
				if n == parent.Catch {
					r.push(syntax.CatchScope, n)
					if parent.Param != nil {
						r.declare(r.env, parent.Param, syntax.CatchKind, parent)
					}
				} else {
					r.push(syntax.BlockScope, n)
				}
			default:
				r.push(syntax.BlockScope, n)
			}

		case *syntax.ForStmt:
			r.loopDepth++
			if d, ok := n.Init.(*syntax.VarDecl); ok && d.Token != syntax.VAR {
				r.push(syntax.BlockScope, n)
			}

		case *syntax.ForInStmt:
			r.loopDepth++
			if n.Decl != nil && n.Decl.Token != syntax.VAR {
				r.push(syntax.BlockScope, n)
			}

		case *syntax.WhileStmt, *syntax.DoWhileStmt:
			r.loopDepth++

		case *syntax.SwitchStmt:
			r.push(syntax.BlockScope, n)

		case *syntax.VarDecl:
			for _, spec := range n.List {
				switch n.Token {
				case syntax.VAR:
					b := r.declare(r.functionScope(), spec.Name, syntax.VarKind, spec)
					if r.loopDepth > 0 && b.Constant {
						b.Constant = false
						b.Violations = append(b.Violations, spec)
					}
				case syntax.LET:
					r.declare(r.env, spec.Name, syntax.LetKind, spec)
				case syntax.CONST:
					r.declare(r.env, spec.Name, syntax.ConstKind, spec)
				}
			}

		case *syntax.ClassDecl:
			r.declare(r.env, n.Name, syntax.ClassKind, n)

		case *syntax.ClassExpr:
			if n.Name != nil {
				r.push(syntax.ClassScope, n)
				r.declare(r.env, n.Name, syntax.LocalKind, n)
			}

		case *syntax.ImportStmt:
			if n.Default != nil {
				r.declare(r.info.Program, n.Default, syntax.ModuleKind, n)
			}
			if n.Namespace != nil {
				r.declare(r.info.Program, n.Namespace, syntax.ModuleKind, n)
			}
			for _, spec := range n.Names {
				r.declare(r.info.Program, spec.Local, syntax.ModuleKind, spec)
			}
		}
		return true
	}, func(c *syntax.Cursor) bool {
		n := c.Node()
		switch n.(type) {
		case *syntax.FuncDecl, *syntax.FuncLit, *syntax.Method:
			r.loopDepth = r.loopStack[len(r.loopStack)-1]
			r.loopStack = r.loopStack[:len(r.loopStack)-1]
		case *syntax.ForStmt, *syntax.ForInStmt, *syntax.WhileStmt, *syntax.DoWhileStmt:
			r.loopDepth--
		}
		if r.env != nil && r.env.Node == n {
			r.env = r.env.Parent
		}
		return true
	})
}

func (r *resolver) enterFunction(fn syntax.Node) {
	r.loopStack = append(r.loopStack, r.loopDepth)
	r.loopDepth = 0
	r.push(syntax.FunctionScope, fn)
}

// declare binds id in scope s.
// Repeated var and function declarations denote the same variable,
// and count as reassignments of it.
func (r *resolver) declare(s *syntax.Scope, id *syntax.Ident, kind syntax.Kind, decl syntax.Node) *syntax.Binding {
	if prev := s.Bindings[id.Name]; prev != nil {
		if redeclarable(prev.Kind) && (kind == syntax.VarKind || kind == syntax.FuncKind) {
			prev.Constant = false
			prev.Violations = append(prev.Violations, decl)
			id.Binding = prev
			return prev
		}
		r.errorf(id.NamePos, "%s redeclared in this %s; previous declaration at %s", id.Name, s.Kind, prev.Ident.NamePos)
		id.Binding = prev
		return prev
	}
	b := declareIn(s, id, kind, decl)
	r.info.names[id.Name] = true
	if debug {
		fmt.Printf("%s: %s %s in %s scope\n", id.NamePos, kind, id.Name, s.Kind)
	}
	return b
}

func redeclarable(kind syntax.Kind) bool {
	return kind == syntax.VarKind || kind == syntax.FuncKind || kind == syntax.ParamKind
}

func declareIn(s *syntax.Scope, id *syntax.Ident, kind syntax.Kind, decl syntax.Node) *syntax.Binding {
	b := &syntax.Binding{
		Name:     id.Name,
		Kind:     kind,
		Ident:    id,
		Decl:     decl,
		Scope:    s,
		Constant: true,
	}
	s.Bindings[id.Name] = b
	s.Names = append(s.Names, id.Name)
	id.Binding = b
	return b
}

// references resolves every referring identifier, using the scopes
// built by declarations.
func (r *resolver) references(file *syntax.File) {
	r.env = nil
	syntax.Apply(file, func(c *syntax.Cursor) bool {
		n := c.Node()
		if s := r.info.scopes[n]; s != nil {
			r.env = s
		}
		if id, ok := n.(*syntax.Ident); ok && isReference(c.Ancestors(), id) {
			r.use(c.Ancestors(), id)
		}
		return true
	}, func(c *syntax.Cursor) bool {
		if s := r.info.scopes[c.Node()]; s != nil {
			r.env = s.Parent
		}
		return true
	})
}

func (r *resolver) use(ancestors []syntax.Node, id *syntax.Ident) {
	b := r.env.Lookup(id.Name)
	r.info.uses[id] = b
	r.info.names[id.Name] = true
	if b == nil {
		return // global
	}
	id.Binding = b
	b.Refs = append(b.Refs, id)

	if target := assignment(ancestors, id); target != nil {
		b.Constant = false
		b.Violations = append(b.Violations, target)
		switch b.Kind {
		case syntax.ConstKind:
			r.errorf(id.NamePos, "cannot assign to const %s", id.Name)
		case syntax.ModuleKind:
			r.errorf(id.NamePos, "cannot assign to import %s", id.Name)
		}
	}
}

// isReference reports whether id, whose enclosing nodes are
// ancestors, refers to a variable, as opposed to declaring one or
// naming a property.
func isReference(ancestors []syntax.Node, id *syntax.Ident) bool {
	switch parent := ancestors[len(ancestors)-1].(type) {
	case *syntax.DotExpr:
		return id != parent.Name
	case *syntax.Property:
		return parent.Computed || id != parent.Key
	case *syntax.ClassMember:
		return parent.Computed || id != parent.Key
	case *syntax.MetaProperty, *syntax.ImportStmt, *syntax.ImportSpec:
		return false
	case *syntax.VarSpec:
		return id != parent.Name
	case *syntax.Param:
		return id != parent.Name
	case *syntax.FuncDecl:
		return id != parent.Name
	case *syntax.FuncLit:
		return id != parent.Name
	case *syntax.ClassDecl:
		return id != parent.Name
	case *syntax.ClassExpr:
		return id != parent.Name
	case *syntax.TryStmt:
		return id != parent.Param
	case *syntax.ExportSpec:
		stmt := ancestors[len(ancestors)-2].(*syntax.ExportStmt)
		return id == parent.Local && stmt.Module == nil
	}
	return true
}

// assignment returns the node that assigns to id, if id (looking
// through parentheses) is the target of an assignment, update, or
// for-in/of loop.
func assignment(ancestors []syntax.Node, id *syntax.Ident) syntax.Node {
	var x syntax.Expr = id
	for i := len(ancestors) - 1; i >= 0; i-- {
		switch n := ancestors[i].(type) {
		case *syntax.ParenExpr:
			x = n
			continue
		case *syntax.AssignExpr:
			if n.LHS == x {
				return n
			}
		case *syntax.UnaryExpr:
			if n.Op == syntax.INC || n.Op == syntax.DEC {
				return n
			}
		case *syntax.ForInStmt:
			if n.Target == x {
				return n
			}
		}
		return nil
	}
	return nil
}

// Binding returns the binding of a declaring or referring identifier,
// or nil for a reference to a global.
func (info *Info) Binding(id *syntax.Ident) *syntax.Binding {
	if b, ok := info.uses[id]; ok {
		return b
	}
	return id.Binding
}

// IsReference reports whether id is a referring identifier
// (including a reference to a global).
func (info *Info) IsReference(id *syntax.Ident) bool {
	_, ok := info.uses[id]
	return ok
}

// ScopeOf returns the scope anchored at n, or nil if n does not
// introduce a scope.
func (info *Info) ScopeOf(n syntax.Node) *syntax.Scope { return info.scopes[n] }

// Lookup returns the binding of name visible in scope s,
// or nil if the name is global.
func (info *Info) Lookup(s *syntax.Scope, name string) *syntax.Binding {
	return s.Lookup(name)
}

// FreeVars returns the names referenced within the function literal
// fn that are not declared within it, in order of first reference.
func (info *Info) FreeVars(fn *syntax.FuncLit) []string {
	scope := info.scopes[fn]
	var names []string
	seen := make(map[string]bool)
	syntax.Walk(fn, func(n syntax.Node) bool {
		id, ok := n.(*syntax.Ident)
		if !ok {
			return true
		}
		b, ok := info.uses[id]
		if !ok || b != nil && scope.Encloses(b.Scope) {
			return true
		}
		if !seen[id.Name] {
			seen[id.Name] = true
			names = append(names, id.Name)
		}
		return true
	})
	return names
}

// Register declares a new binding for id in scope s, for a
// declaration inserted into the tree after resolution.
// The name must not already be declared in s.
func (info *Info) Register(s *syntax.Scope, id *syntax.Ident, kind syntax.Kind, decl syntax.Node) *syntax.Binding {
	if s.Bindings[id.Name] != nil {
		panic(fmt.Sprintf("Register: %s already declared in %s scope", id.Name, s.Kind))
	}
	info.names[id.Name] = true
	return declareIn(s, id, kind, decl)
}

// Bind records id, an identifier inserted into the tree after
// resolution, as a reference to b (nil for a global).
func (info *Info) Bind(id *syntax.Ident, b *syntax.Binding) {
	info.uses[id] = b
	info.names[id.Name] = true
	if b != nil {
		id.Binding = b
		b.Refs = append(b.Refs, id)
	}
}

// Unbind forgets the referring identifier id, which has been removed
// from the tree.
func (info *Info) Unbind(id *syntax.Ident) {
	b, ok := info.uses[id]
	if !ok {
		return
	}
	delete(info.uses, id)
	if b == nil {
		return
	}
	for i, ref := range b.Refs {
		if ref == id {
			b.Refs = append(b.Refs[:i:i], b.Refs[i+1:]...)
			break
		}
	}
}

// Move re-anchors the scope of from at the node to, which has taken
// its place in the tree, with the given parent scope.
func (info *Info) Move(from, to syntax.Node, parent *syntax.Scope) {
	s := info.scopes[from]
	if s == nil {
		return
	}
	delete(info.scopes, from)
	s.Node = to
	s.Parent = parent
	info.scopes[to] = s
}

// UniqueName returns an identifier derived from hint, such as "_fn",
// "_fn2", "_fn3", that is neither declared nor referenced anywhere in
// the file, nor previously returned by UniqueName.
func (info *Info) UniqueName(hint string) string {
	base := "_" + strings.TrimRight(strings.TrimLeft(hint, "_"), "0123456789")
	for i := 1; ; i++ {
		name := base
		if i > 1 {
			name += strconv.Itoa(i)
		}
		if !info.names[name] {
			info.names[name] = true
			return name
		}
	}
}
