// Copyright 2026 The Unclosure Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// This file defines the printer, which formats a syntax tree as
// JavaScript source text. The layout follows the conventions of
// common JavaScript code generators: two-space indentation, explicit
// semicolons, and object literals with one property per line.
// Comments are not preserved.

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes the JavaScript source of f to w.
func Fprint(w io.Writer, f *File) error {
	var p printer
	for _, stmt := range f.Stmts {
		p.stmt(stmt)
	}
	_, err := io.WriteString(w, p.buf.String())
	return err
}

// Format returns the JavaScript source text of a node:
// a *File, a statement, an expression, or a class member.
// Statements are terminated by a newline; expressions are not.
func Format(n Node) string {
	var p printer
	switch n := n.(type) {
	case *File:
		for _, stmt := range n.Stmts {
			p.stmt(stmt)
		}
	case Stmt:
		p.stmt(n)
	case Expr:
		p.expr(n, precSeq)
	case *ClassMember:
		p.member(n)
	case *Property:
		p.property(n)
	case *Param:
		p.param(n)
	case *VarSpec:
		p.varSpec(n)
	default:
		panic(fmt.Sprintf("Format: unexpected %T", n))
	}
	return p.buf.String()
}

// Operator precedence of expressions, lowest first.
const (
	precSeq    = iota // a, b
	precAssign        // a = b, x => y, yield x
	precCond          // a ? b : c
	precBinary        // + precedence[op]
	precUnary   = precBinary + 12
	precPostfix = precUnary + 1
	precCall    = precUnary + 2 // f(x), a.b, a[i], new F()
	precPrimary = precUnary + 3
)

type printer struct {
	buf    strings.Builder
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(&p.buf, format, args...)
}

func (p *printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("  ")
	}
}

// line starts a new indented line.
func (p *printer) line() {
	p.buf.WriteByte('\n')
	p.writeIndent()
}

// stmt prints an indented statement followed by a newline.
func (p *printer) stmt(s Stmt) {
	p.writeIndent()
	p.stmtBody(s)
	p.buf.WriteByte('\n')
}

// stmtBody prints a statement without leading indentation or
// trailing newline.
func (p *printer) stmtBody(s Stmt) {
	switch s := s.(type) {
	case *BlockStmt:
		p.block(s)

	case *BranchStmt:
		p.printf("%s;", s.Token)

	case *ClassDecl:
		p.class(&s.Class)

	case *DoWhileStmt:
		p.buf.WriteString("do")
		p.nested(s.Body)
		if _, ok := s.Body.(*BlockStmt); ok {
			p.buf.WriteByte(' ')
		} else {
			p.line()
		}
		p.buf.WriteString("while (")
		p.expr(s.Cond, precSeq)
		p.buf.WriteString(");")

	case *EmptyStmt:
		p.buf.WriteByte(';')

	case *ExportStmt:
		p.export(s)

	case *ExprStmt:
		if startsAmbiguously(s.X) {
			p.buf.WriteByte('(')
			p.expr(s.X, precSeq)
			p.buf.WriteByte(')')
		} else {
			p.expr(s.X, precSeq)
		}
		p.buf.WriteByte(';')

	case *ForInStmt:
		p.buf.WriteString("for (")
		if s.Decl != nil {
			p.varDecl(s.Decl)
		} else {
			p.expr(s.Target, precCall)
		}
		if s.Of {
			p.buf.WriteString(" of ")
			p.expr(s.X, precAssign)
		} else {
			p.buf.WriteString(" in ")
			p.expr(s.X, precSeq)
		}
		p.buf.WriteByte(')')
		p.nested(s.Body)

	case *ForStmt:
		p.buf.WriteString("for (")
		switch init := s.Init.(type) {
		case nil:
		case *VarDecl:
			p.varDecl(init)
		case *ExprStmt:
			p.expr(init.X, precSeq)
		}
		p.buf.WriteByte(';')
		if s.Cond != nil {
			p.buf.WriteByte(' ')
			p.expr(s.Cond, precSeq)
		}
		p.buf.WriteByte(';')
		if s.Post != nil {
			p.buf.WriteByte(' ')
			p.expr(s.Post, precSeq)
		}
		p.buf.WriteByte(')')
		p.nested(s.Body)

	case *FuncDecl:
		p.function(&s.Function, "function", s.Name)

	case *IfStmt:
		p.buf.WriteString("if (")
		p.expr(s.Cond, precSeq)
		p.buf.WriteByte(')')
		p.nested(s.Then)
		if s.Else != nil {
			if _, ok := s.Then.(*BlockStmt); ok {
				p.buf.WriteByte(' ')
			} else {
				p.line()
			}
			p.buf.WriteString("else")
			if elseIf, ok := s.Else.(*IfStmt); ok {
				p.buf.WriteByte(' ')
				p.stmtBody(elseIf)
			} else {
				p.nested(s.Else)
			}
		}

	case *ImportStmt:
		p.importStmt(s)

	case *ReturnStmt:
		p.buf.WriteString("return")
		if s.Result != nil {
			p.buf.WriteByte(' ')
			p.expr(s.Result, precSeq)
		}
		p.buf.WriteByte(';')

	case *SwitchStmt:
		p.buf.WriteString("switch (")
		p.expr(s.Tag, precSeq)
		p.buf.WriteString(") {")
		p.indent++
		for _, clause := range s.Cases {
			p.line()
			if clause.Value != nil {
				p.buf.WriteString("case ")
				p.expr(clause.Value, precSeq)
				p.buf.WriteByte(':')
			} else {
				p.buf.WriteString("default:")
			}
			p.indent++
			for _, stmt := range clause.Body {
				p.line()
				p.stmtBody(stmt)
			}
			p.indent--
		}
		p.indent--
		p.line()
		p.buf.WriteByte('}')

	case *ThrowStmt:
		p.buf.WriteString("throw ")
		p.expr(s.X, precSeq)
		p.buf.WriteByte(';')

	case *TryStmt:
		p.buf.WriteString("try ")
		p.block(s.Body)
		if s.Catch != nil {
			p.buf.WriteString(" catch ")
			if s.Param != nil {
				p.printf("(%s) ", s.Param.Name)
			}
			p.block(s.Catch)
		}
		if s.Finally != nil {
			p.buf.WriteString(" finally ")
			p.block(s.Finally)
		}

	case *VarDecl:
		p.varDecl(s)
		p.buf.WriteByte(';')

	case *WhileStmt:
		p.buf.WriteString("while (")
		p.expr(s.Cond, precSeq)
		p.buf.WriteByte(')')
		p.nested(s.Body)

	default:
		panic(fmt.Sprintf("unexpected statement %T", s))
	}
}

// nested prints the body of a compound statement. A block follows
// on the current line; any other statement is indented on the next.
func (p *printer) nested(s Stmt) {
	if b, ok := s.(*BlockStmt); ok {
		p.buf.WriteByte(' ')
		p.block(b)
		return
	}
	p.indent++
	p.line()
	p.stmtBody(s)
	p.indent--
}

func (p *printer) block(b *BlockStmt) {
	if len(b.List) == 0 {
		p.buf.WriteString("{}")
		return
	}
	p.buf.WriteString("{\n")
	p.indent++
	for _, stmt := range b.List {
		p.stmt(stmt)
	}
	p.indent--
	p.writeIndent()
	p.buf.WriteByte('}')
}

func (p *printer) varDecl(d *VarDecl) {
	p.buf.WriteString(d.Token.String())
	p.buf.WriteByte(' ')
	for i, spec := range d.List {
		if i > 0 {
			p.buf.WriteString(", ")
		}
		p.varSpec(spec)
	}
}

func (p *printer) varSpec(spec *VarSpec) {
	p.buf.WriteString(spec.Name.Name)
	if spec.Init != nil {
		p.buf.WriteString(" = ")
		p.expr(spec.Init, precAssign)
	}
}

func (p *printer) importStmt(s *ImportStmt) {
	p.buf.WriteString("import ")
	sep := ""
	if s.Default != nil {
		p.buf.WriteString(s.Default.Name)
		sep = ", "
	}
	if s.Namespace != nil {
		p.printf("%s* as %s", sep, s.Namespace.Name)
		sep = ", "
	}
	if s.Names != nil {
		p.buf.WriteString(sep + "{ ")
		for i, spec := range s.Names {
			if i > 0 {
				p.buf.WriteString(", ")
			}
			p.buf.WriteString(spec.Imported.Name)
			if spec.Local.Name != spec.Imported.Name {
				p.printf(" as %s", spec.Local.Name)
			}
		}
		p.buf.WriteString(" }")
		sep = ", "
	}
	if sep != "" {
		p.buf.WriteString(" from ")
	}
	p.printf("%s;", s.Module.Raw)
}

func (p *printer) export(s *ExportStmt) {
	p.buf.WriteString("export ")
	if s.Default {
		p.buf.WriteString("default ")
	}
	switch {
	case s.Decl != nil:
		p.stmtBody(s.Decl)
	case s.X != nil:
		p.expr(s.X, precAssign)
		switch x := s.X.(type) {
		case *ClassExpr:
		case *FuncLit:
			if x.Arrow {
				p.buf.WriteByte(';')
			}
		default:
			p.buf.WriteByte(';')
		}
	default:
		p.buf.WriteByte('{')
		for i, spec := range s.Names {
			if i > 0 {
				p.buf.WriteByte(',')
			}
			p.printf(" %s", spec.Local.Name)
			if spec.Exported.Name != spec.Local.Name {
				p.printf(" as %s", spec.Exported.Name)
			}
		}
		if len(s.Names) > 0 {
			p.buf.WriteByte(' ')
		}
		p.buf.WriteByte('}')
		if s.Module != nil {
			p.printf(" from %s", s.Module.Raw)
		}
		p.buf.WriteByte(';')
	}
}

// startsAmbiguously reports whether an expression statement
// beginning with e would be misread as a declaration or block.
func startsAmbiguously(e Expr) bool {
	for {
		switch x := e.(type) {
		case *ObjectExpr, *ClassExpr:
			return true
		case *FuncLit:
			return !x.Arrow
		case *CallExpr:
			e = x.Fn
		case *DotExpr:
			e = x.X
		case *IndexExpr:
			e = x.X
		case *BinaryExpr:
			e = x.X
		case *AssignExpr:
			e = x.LHS
		case *CondExpr:
			e = x.Cond
		case *SeqExpr:
			e = x.List[0]
		case *UnaryExpr:
			if !x.Postfix {
				return false
			}
			e = x.X
		default:
			return false
		}
	}
}

// function prints a function declaration or expression.
// An anonymous function is printed as "function () {...}".
func (p *printer) function(fn *Function, keyword string, name *Ident) {
	if fn.Async {
		p.buf.WriteString("async ")
	}
	p.buf.WriteString(keyword)
	if fn.Generator {
		p.buf.WriteByte('*')
	}
	p.buf.WriteByte(' ')
	if name != nil {
		p.buf.WriteString(name.Name)
	}
	p.params(fn.Params)
	p.buf.WriteByte(' ')
	p.block(fn.Body)
}

func (p *printer) params(params []*Param) {
	p.buf.WriteByte('(')
	for i, param := range params {
		if i > 0 {
			p.buf.WriteString(", ")
		}
		p.param(param)
	}
	p.buf.WriteByte(')')
}

func (p *printer) param(param *Param) {
	if param.Rest() {
		p.buf.WriteString("...")
	}
	p.buf.WriteString(param.Name.Name)
	if param.Default != nil {
		p.buf.WriteString(" = ")
		p.expr(param.Default, precAssign)
	}
}

func (p *printer) arrow(fn *FuncLit) {
	if fn.Async {
		p.buf.WriteString("async ")
	}
	if len(fn.Params) == 1 && !fn.Params[0].Rest() && fn.Params[0].Default == nil {
		p.buf.WriteString(fn.Params[0].Name.Name)
	} else {
		p.params(fn.Params)
	}
	p.buf.WriteString(" => ")
	if fn.Body != nil {
		p.block(fn.Body)
		return
	}
	if startsAmbiguously(fn.ExprBody) {
		p.buf.WriteByte('(')
		p.expr(fn.ExprBody, precAssign)
		p.buf.WriteByte(')')
	} else {
		p.expr(fn.ExprBody, precAssign)
	}
}

func (p *printer) class(c *Class) {
	p.buf.WriteString("class")
	if c.Name != nil {
		p.printf(" %s", c.Name.Name)
	}
	if c.Extends != nil {
		p.buf.WriteString(" extends ")
		p.expr(c.Extends, precCall)
	}
	if len(c.Members) == 0 {
		p.buf.WriteString(" {}")
		return
	}
	p.buf.WriteString(" {\n")
	p.indent++
	for _, m := range c.Members {
		p.writeIndent()
		p.member(m)
		p.buf.WriteByte('\n')
	}
	p.indent--
	p.writeIndent()
	p.buf.WriteByte('}')
}

func (p *printer) member(m *ClassMember) {
	if m.Static {
		p.buf.WriteString("static ")
	}
	if m.Kind == FieldMember {
		p.key(m.Key, m.Computed)
		if m.Value != nil {
			p.buf.WriteString(" = ")
			p.expr(m.Value, precAssign)
		}
		p.buf.WriteByte(';')
		return
	}
	p.method(m.Kind, m.Key, m.Computed, m.Method)
}

func (p *printer) method(kind MemberKind, key Expr, computed bool, m *Method) {
	switch kind {
	case GetMember:
		p.buf.WriteString("get ")
	case SetMember:
		p.buf.WriteString("set ")
	}
	if m.Async {
		p.buf.WriteString("async ")
	}
	if m.Generator {
		p.buf.WriteByte('*')
	}
	p.key(key, computed)
	p.params(m.Params)
	p.buf.WriteByte(' ')
	p.block(m.Body)
}

func (p *printer) key(key Expr, computed bool) {
	if computed {
		p.buf.WriteByte('[')
		p.expr(key, precAssign)
		p.buf.WriteByte(']')
		return
	}
	p.expr(key, precPrimary)
}

func (p *printer) property(prop *Property) {
	switch {
	case prop.Spread.IsValid():
		p.buf.WriteString("...")
		p.expr(prop.Value, precAssign)
	case prop.Shorthand:
		p.expr(prop.Value, precPrimary)
	case prop.Kind == FieldMember:
		p.key(prop.Key, prop.Computed)
		p.buf.WriteString(": ")
		p.expr(prop.Value, precAssign)
	default:
		p.method(prop.Kind, prop.Key, prop.Computed, prop.Value.(*Method))
	}
}

// exprPrec returns the precedence of an expression.
func exprPrec(e Expr) int {
	switch e := e.(type) {
	case *SeqExpr:
		return precSeq
	case *AssignExpr, *YieldExpr:
		return precAssign
	case *FuncLit:
		if e.Arrow {
			return precAssign
		}
	case *CondExpr:
		return precCond
	case *BinaryExpr:
		return precBinary + int(precedence[e.Op])
	case *UnaryExpr:
		if e.Postfix {
			return precPostfix
		}
		return precUnary
	case *CallExpr, *DotExpr, *IndexExpr, *NewExpr:
		return precCall
	}
	return precPrimary
}

// expr prints e, parenthesized if its precedence is below min.
func (p *printer) expr(e Expr, min int) {
	if exprPrec(e) < min {
		p.buf.WriteByte('(')
		p.expr(e, precSeq)
		p.buf.WriteByte(')')
		return
	}

	switch e := e.(type) {
	case *ArrayExpr:
		p.buf.WriteByte('[')
		p.list(e.List)
		p.buf.WriteByte(']')

	case *AssignExpr:
		p.expr(e.LHS, precCall)
		p.printf(" %s ", e.Op)
		p.expr(e.RHS, precAssign)

	case *BinaryExpr:
		prec := exprPrec(e)
		left, right := prec, prec+1
		if e.Op == STARSTAR {
			// The base of ** may not be a prefix unary expression.
			left, right = precPostfix, prec
		}
		p.expr(e.X, left)
		p.printf(" %s ", e.Op)
		p.expr(e.Y, right)

	case *CallExpr:
		p.expr(e.Fn, precCall)
		if e.Optional {
			p.buf.WriteString("?.")
		}
		p.buf.WriteByte('(')
		p.list(e.Args)
		p.buf.WriteByte(')')

	case *ClassExpr:
		p.class(&e.Class)

	case *CondExpr:
		p.expr(e.Cond, precCond+1)
		p.buf.WriteString(" ? ")
		p.expr(e.True, precAssign)
		p.buf.WriteString(" : ")
		p.expr(e.False, precAssign)

	case *DotExpr:
		p.expr(e.X, precCall)
		if e.Optional {
			p.buf.WriteString("?.")
		} else {
			p.buf.WriteByte('.')
		}
		p.buf.WriteString(e.Name.Name)

	case *FuncLit:
		if e.Arrow {
			p.arrow(e)
		} else {
			p.function(&e.Function, "function", e.Name)
		}

	case *Ident:
		p.buf.WriteString(e.Name)

	case *IndexExpr:
		p.expr(e.X, precCall)
		if e.Optional {
			p.buf.WriteString("?.")
		}
		p.buf.WriteByte('[')
		p.expr(e.Y, precSeq)
		p.buf.WriteByte(']')

	case *Literal:
		p.buf.WriteString(e.Raw)

	case *MetaProperty:
		p.printf("new.%s", e.Property.Name)

	case *Method:
		p.function(&e.Function, "function", nil)

	case *NewExpr:
		p.buf.WriteString("new ")
		if hasCall(e.Fn) {
			p.buf.WriteByte('(')
			p.expr(e.Fn, precSeq)
			p.buf.WriteByte(')')
		} else {
			p.expr(e.Fn, precCall)
		}
		p.buf.WriteByte('(')
		p.list(e.Args)
		p.buf.WriteByte(')')

	case *ObjectExpr:
		if len(e.Props) == 0 {
			p.buf.WriteString("{}")
			return
		}
		p.buf.WriteByte('{')
		p.indent++
		for i, prop := range e.Props {
			p.line()
			p.property(prop)
			if i < len(e.Props)-1 {
				p.buf.WriteByte(',')
			}
		}
		p.indent--
		p.line()
		p.buf.WriteByte('}')

	case *ParenExpr:
		p.buf.WriteByte('(')
		p.expr(e.X, precSeq)
		p.buf.WriteByte(')')

	case *SeqExpr:
		for i, x := range e.List {
			if i > 0 {
				p.buf.WriteString(", ")
			}
			p.expr(x, precAssign)
		}

	case *SpreadExpr:
		p.buf.WriteString("...")
		p.expr(e.X, precAssign)

	case *SuperExpr:
		p.buf.WriteString("super")

	case *ThisExpr:
		p.buf.WriteString("this")

	case *UnaryExpr:
		if e.Postfix {
			p.expr(e.X, precPostfix)
			p.buf.WriteString(e.Op.String())
			return
		}
		p.buf.WriteString(e.Op.String())
		if e.Op >= AWAIT || needsSpace(e.Op, e.X) {
			p.buf.WriteByte(' ')
		}
		p.expr(e.X, precUnary)

	case *YieldExpr:
		p.buf.WriteString("yield")
		if e.Delegate {
			p.buf.WriteByte('*')
		}
		if e.X != nil {
			p.buf.WriteByte(' ')
			p.expr(e.X, precAssign)
		}

	default:
		panic(fmt.Sprintf("unexpected expression %T", e))
	}
}

// needsSpace reports whether a space must separate the prefix
// operator op from its operand x, as in "- -x" or "+ ++x".
func needsSpace(op Token, x Expr) bool {
	u, ok := x.(*UnaryExpr)
	if !ok || u.Postfix {
		return false
	}
	switch op {
	case PLUS:
		return u.Op == PLUS || u.Op == INC
	case MINUS:
		return u.Op == MINUS || u.Op == DEC
	}
	return false
}

// hasCall reports whether the callee of a new expression contains a
// call, which would otherwise be taken as the constructor arguments.
func hasCall(e Expr) bool {
	for {
		switch x := e.(type) {
		case *CallExpr:
			return true
		case *DotExpr:
			e = x.X
		case *IndexExpr:
			e = x.X
		default:
			return false
		}
	}
}

// list prints a comma-separated list of assignment expressions.
func (p *printer) list(list []Expr) {
	for i, x := range list {
		if i > 0 {
			p.buf.WriteString(", ")
		}
		p.expr(x, precAssign)
	}
}
