// Copyright 2026 The Unclosure Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// Walk traverses a syntax tree in depth-first order.
// It starts by calling f(n); n must not be nil.
// If f returns true, Walk calls itself
// recursively for each non-nil child of n.
// Walk then calls f(nil).
func Walk(n Node, f func(Node) bool) {
	if n == nil {
		panic("nil")
	}
	Apply(n,
		func(c *Cursor) bool { return f(c.Node()) },
		func(*Cursor) bool { f(nil); return true })
}

// An ApplyFunc is invoked by Apply for each node n, even if n is nil,
// before and/or after the node's children, using a Cursor describing
// the current node and providing operations on it.
//
// The return value of ApplyFunc controls the syntax tree traversal.
// See Apply for details.
type ApplyFunc func(*Cursor) bool

// Apply traverses a syntax tree recursively, starting with root,
// and calling pre and post for each node as described below.
// Apply returns the syntax tree, possibly modified.
//
// If pre is not nil, it is called for each node before the node's
// children are traversed (pre-order). If pre returns false, no
// children are traversed, and post is not called for that node.
//
// If post is not nil, and a prior call of pre didn't return false,
// post is called for each node after its children are traversed
// (post-order). If post returns false, traversal is terminated and
// Apply returns immediately.
//
// Only fields that refer to nodes are traversed, in source order.
// Statement lists are traversed as they were when the traversal
// reached them: statements inserted into a list during traversal
// are not visited.
func Apply(root Node, pre, post ApplyFunc) (result Node) {
	result = root
	a := &applier{pre: pre, post: post}
	defer a.recover()
	a.apply(root, func(n Node) { result = n })
	return result
}

// ApplyWithin is like Apply, but traverses a subtree whose enclosing
// nodes, outermost first, are given by ancestors. The root itself
// cannot be replaced.
func ApplyWithin(ancestors []Node, root Node, pre, post ApplyFunc) {
	a := &applier{pre: pre, post: post}
	a.stack = append(a.stack, ancestors...)
	defer a.recover()
	a.apply(root, nil)
}

// A Cursor describes a node encountered during Apply.
// Information about the node and its parent is available
// from the Node, Parent, and Ancestors methods.
type Cursor struct {
	a    *applier
	node Node
	set  func(Node)
}

// Node returns the current Node.
func (c *Cursor) Node() Node { return c.node }

// Parent returns the parent of the current Node, or nil for the root.
func (c *Cursor) Parent() Node {
	stack := c.Ancestors()
	if len(stack) == 0 {
		return nil
	}
	return stack[len(stack)-1]
}

// Ancestors returns the nodes enclosing the current Node,
// outermost first. The slice is valid only during the call
// to the ApplyFunc.
func (c *Cursor) Ancestors() []Node { return c.a.stack }

// Replace replaces the current Node with n.
// The replacement node is not walked by Apply.
// Replace panics if the current Node is not held in an expression
// or statement slot of its parent, or if n has the wrong type for it.
func (c *Cursor) Replace(n Node) {
	if c.set == nil {
		panic("Cursor.Replace: node cannot be replaced")
	}
	c.set(n)
	c.node = n
}

type applier struct {
	pre, post ApplyFunc
	stack     []Node // enclosing nodes, outermost first
}

type abortApply struct{}

func (a *applier) recover() {
	if e := recover(); e != nil {
		if _, ok := e.(abortApply); !ok {
			panic(e)
		}
	}
}

func (a *applier) apply(n Node, set func(Node)) {
	c := &Cursor{a: a, node: n, set: set}
	if a.pre != nil && !a.pre(c) {
		return
	}

	a.stack = append(a.stack, c.node)
	a.children(c.node)
	a.stack = a.stack[:len(a.stack)-1]

	if a.post != nil && !a.post(c) {
		panic(abortApply{})
	}
}

// children traverses the children of n in source order.
func (a *applier) children(n Node) {
	switch n := n.(type) {
	case *File:
		a.stmts(&n.Stmts)

	case *BlockStmt:
		a.stmts(&n.List)

	case *BranchStmt, *EmptyStmt, *Ident, *Literal, *ThisExpr, *SuperExpr:
		// leaves

	case *ClassDecl:
		a.class(&n.Class)

	case *DoWhileStmt:
		a.stmt(&n.Body)
		a.expr(&n.Cond)

	case *ExportStmt:
		if n.Decl != nil {
			a.stmt(&n.Decl)
		}
		a.expr(&n.X)
		for _, spec := range n.Names {
			a.apply(spec, nil)
		}
		if n.Module != nil {
			a.apply(n.Module, nil)
		}

	case *ExportSpec:
		a.ident(n.Local)
		if n.Exported != n.Local {
			a.ident(n.Exported)
		}

	case *ExprStmt:
		a.expr(&n.X)

	case *ForInStmt:
		if n.Decl != nil {
			a.apply(n.Decl, nil)
		}
		a.expr(&n.Target)
		a.expr(&n.X)
		a.stmt(&n.Body)

	case *ForStmt:
		if n.Init != nil {
			a.stmt(&n.Init)
		}
		a.expr(&n.Cond)
		a.expr(&n.Post)
		a.stmt(&n.Body)

	case *FuncDecl:
		a.ident(n.Name)
		a.function(&n.Function)

	case *IfStmt:
		a.expr(&n.Cond)
		a.stmt(&n.Then)
		if n.Else != nil {
			a.stmt(&n.Else)
		}

	case *ImportStmt:
		a.ident(n.Default)
		a.ident(n.Namespace)
		for _, spec := range n.Names {
			a.apply(spec, nil)
		}
		a.apply(n.Module, nil)

	case *ImportSpec:
		if n.Imported != n.Local {
			a.ident(n.Imported)
		}
		a.ident(n.Local)

	case *ReturnStmt:
		a.expr(&n.Result)

	case *SwitchStmt:
		a.expr(&n.Tag)
		for _, clause := range n.Cases {
			a.apply(clause, nil)
		}

	case *CaseClause:
		a.expr(&n.Value)
		a.stmts(&n.Body)

	case *ThrowStmt:
		a.expr(&n.X)

	case *TryStmt:
		a.apply(n.Body, nil)
		a.ident(n.Param)
		if n.Catch != nil {
			a.apply(n.Catch, nil)
		}
		if n.Finally != nil {
			a.apply(n.Finally, nil)
		}

	case *VarDecl:
		for _, spec := range n.List {
			a.apply(spec, nil)
		}

	case *VarSpec:
		a.ident(n.Name)
		a.expr(&n.Init)

	case *WhileStmt:
		a.expr(&n.Cond)
		a.stmt(&n.Body)

	case *Param:
		a.ident(n.Name)
		a.expr(&n.Default)

	case *ClassMember:
		a.expr(&n.Key)
		if n.Method != nil {
			a.apply(n.Method, nil)
		}
		a.expr(&n.Value)

	case *Method:
		a.function(&n.Function)

	case *ArrayExpr:
		a.exprs(n.List)

	case *AssignExpr:
		a.expr(&n.LHS)
		a.expr(&n.RHS)

	case *BinaryExpr:
		a.expr(&n.X)
		a.expr(&n.Y)

	case *CallExpr:
		a.expr(&n.Fn)
		a.exprs(n.Args)

	case *ClassExpr:
		a.class(&n.Class)

	case *CondExpr:
		a.expr(&n.Cond)
		a.expr(&n.True)
		a.expr(&n.False)

	case *DotExpr:
		a.expr(&n.X)
		a.ident(n.Name)

	case *FuncLit:
		a.ident(n.Name)
		a.function(&n.Function)

	case *IndexExpr:
		a.expr(&n.X)
		a.expr(&n.Y)

	case *MetaProperty:
		a.ident(n.Property)

	case *NewExpr:
		a.expr(&n.Fn)
		a.exprs(n.Args)

	case *ObjectExpr:
		for _, prop := range n.Props {
			a.apply(prop, nil)
		}

	case *Property:
		if !n.Shorthand {
			a.expr(&n.Key)
		}
		a.expr(&n.Value)

	case *ParenExpr:
		a.expr(&n.X)

	case *SeqExpr:
		a.exprs(n.List)

	case *SpreadExpr:
		a.expr(&n.X)

	case *UnaryExpr:
		a.expr(&n.X)

	case *YieldExpr:
		a.expr(&n.X)

	default:
		panic(n)
	}
}

func (a *applier) class(c *Class) {
	a.ident(c.Name)
	a.expr(&c.Extends)
	for _, m := range c.Members {
		a.apply(m, nil)
	}
}

func (a *applier) function(fn *Function) {
	for _, param := range fn.Params {
		a.apply(param, nil)
	}
	if fn.Body != nil {
		a.apply(fn.Body, nil)
	} else {
		a.expr(&fn.ExprBody)
	}
}

func (a *applier) ident(id *Ident) {
	if id != nil {
		a.apply(id, nil)
	}
}

func (a *applier) expr(p *Expr) {
	if *p != nil {
		a.apply(*p, func(n Node) { *p = n.(Expr) })
	}
}

func (a *applier) exprs(list []Expr) {
	for i := range list {
		a.expr(&list[i])
	}
}

func (a *applier) stmt(p *Stmt) {
	a.apply(*p, func(n Node) { *p = n.(Stmt) })
}

// stmts traverses a snapshot of the list. A replacement is stored
// at the current index of the replaced statement, so the list may
// grow during traversal.
func (a *applier) stmts(list *[]Stmt) {
	for _, s := range append([]Stmt(nil), *list...) {
		old := s
		a.apply(s, func(n Node) {
			for i, x := range *list {
				if x == old {
					(*list)[i] = n.(Stmt)
					return
				}
			}
		})
	}
}
