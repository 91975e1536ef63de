// Copyright 2026 The Unclosure Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hoist

// This file defines the analysis of a single function literal:
// which variables it captures, and whether it may be hoisted at all.

import (
	"go.unclosure.dev/resolve"
	"go.unclosure.dev/syntax"
)

// A CaptureSet is an ordered list of distinct bindings that a hoisted
// function receives as properties of its receiver.
type CaptureSet []*syntax.Binding

// Contains reports whether b is in the set.
func (set CaptureSet) Contains(b *syntax.Binding) bool {
	if b == nil {
		return false
	}
	for _, x := range set {
		if x == b {
			return true
		}
	}
	return false
}

// Names returns the names of the captured variables, in order.
func (set CaptureSet) Names() []string {
	var names []string
	for _, b := range set {
		names = append(names, b.Name)
	}
	return names
}

// isLocal reports whether b may be captured: it must not be an import,
// and must not be declared at top level, where it remains visible to
// the hoisted function.
//
// The own name of a named function or class expression is declared in
// a scope anchored at the expression itself; such a name is local if
// the expression's enclosing scope is.
func isLocal(info *resolve.Info, b *syntax.Binding) bool {
	if b.Kind == syntax.ModuleKind {
		return false
	}
	scope := b.Scope
	if scope.Node == b.Decl {
		scope = scope.Parent
	}
	return scope != info.Program
}

// usesContext reports whether the literal fn refers to the receiver
// of the function that invokes it. Nested arrow functions share the
// receiver of fn; other nested functions, methods and class field
// initializers have their own. An arrow function also inherits
// arguments, super and new.target from its enclosing function.
func usesContext(info *resolve.Info, fn *syntax.FuncLit) bool {
	found := false
	syntax.Apply(fn, func(c *syntax.Cursor) bool {
		if found {
			return false
		}
		switch n := c.Node().(type) {
		case *syntax.ThisExpr:
			found = seesReceiver(c.Ancestors(), n, fn)
		case *syntax.SuperExpr, *syntax.MetaProperty:
			found = fn.Arrow && seesReceiver(c.Ancestors(), n, fn)
		case *syntax.Ident:
			if fn.Arrow && n.Name == "arguments" && info.IsReference(n) && info.Binding(n) == nil {
				found = seesReceiver(c.Ancestors(), n, fn)
			}
		}
		return !found
	}, nil)
	return found
}

// seesReceiver reports whether the node n, whose enclosing nodes are
// ancestors, is evaluated with the receiver of the literal fn.
// The ancestor walk stops at fn, or at the first function boundary
// that introduces a receiver of its own.
func seesReceiver(ancestors []syntax.Node, n syntax.Node, fn *syntax.FuncLit) bool {
	child := n
	for i := len(ancestors) - 1; i >= 0; i-- {
		switch a := ancestors[i].(type) {
		case *syntax.FuncLit:
			if a == fn {
				return true
			}
			if !a.Arrow {
				return false
			}
		case *syntax.FuncDecl, *syntax.Method:
			return false
		case *syntax.ClassMember:
			if child == a.Value {
				return false // field initializer
			}
		}
		child = ancestors[i]
	}
	return false
}

// captures returns the set of variables the literal fn, whose
// enclosing nodes are ancestors, must capture, or the reason it cannot
// be hoisted.
//
// Free variables that are globals, imports or top-level declarations
// are not captured, since they remain visible after hoisting. Any
// reassigned free variable, even a top-level one, prevents hoisting.
func captures(info *resolve.Info, ancestors []syntax.Node, fn *syntax.FuncLit) (CaptureSet, Reason, bool) {
	scope := info.ScopeOf(fn)
	var set CaptureSet
	for _, name := range info.FreeVars(fn) {
		b := info.Lookup(scope, name)
		if b == nil {
			continue // global
		}
		if !b.Constant {
			return nil, Reassigned, false
		}
		if !isLocal(info, b) {
			if b.Kind == syntax.LocalKind {
				// The own name of an enclosing function or class
				// expression is not visible at top level.
				return nil, SelfReference, false
			}
			continue
		}
		if inTemporalDeadZone(ancestors, fn, b) {
			return nil, TemporalDeadZone, false
		}
		if !set.Contains(b) {
			set = append(set, b)
		}
	}
	if len(set) > 0 && nestedReceiver(info, fn, set) {
		return nil, NestedReceiver, false
	}
	return set, 0, true
}

// inTemporalDeadZone reports whether the binding b may be uninitialized
// when the literal fn, whose enclosing nodes are ancestors, is created:
// the literal precedes the declaration, or lies within it, or lies
// within a function declaration in the scope of b, which may be called
// before the declaration of b is reached.
// Function declarations, catch parameters and the own names of function
// and class expressions are initialized on entry to their scope, and
// parameters before any declaration in the body runs.
func inTemporalDeadZone(ancestors []syntax.Node, fn *syntax.FuncLit, b *syntax.Binding) bool {
	switch b.Kind {
	case syntax.VarKind, syntax.LetKind, syntax.ConstKind, syntax.ClassKind, syntax.ParamKind:
	default:
		return false
	}
	if syntax.Start(fn).Before(b.Ident.NamePos) {
		return true
	}
	inScope := false
	for _, a := range ancestors {
		if a == b.Decl {
			return true
		}
		if a == b.Scope.Node {
			inScope = true
			continue
		}
		if _, ok := a.(*syntax.FuncDecl); ok && inScope && b.Kind != syntax.ParamKind {
			return true
		}
	}
	return false
}

// nestedReceiver reports whether some reference within fn to a variable
// in set occurs in a nested function that does not see the receiver of
// fn, and so could not be rewritten into a property access.
func nestedReceiver(info *resolve.Info, fn *syntax.FuncLit, set CaptureSet) bool {
	found := false
	syntax.Apply(fn, func(c *syntax.Cursor) bool {
		if found {
			return false
		}
		if id, ok := c.Node().(*syntax.Ident); ok && info.IsReference(id) && set.Contains(info.Binding(id)) {
			found = !seesReceiver(c.Ancestors(), id, fn)
		}
		return !found
	}, nil)
	return found
}
