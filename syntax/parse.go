// Copyright 2026 The Unclosure Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// This file defines a recursive-descent parser for the JavaScript subset.

import (
	"bytes"
	"strings"
)

// A Mode value is a set of flags (or 0) that controls optional parser functionality.
type Mode uint

const (
	// AllowReturnOutsideFunction permits return statements at top level,
	// as in the body of a CommonJS module wrapper.
	AllowReturnOutsideFunction Mode = 1 << iota
)

// AllowTopLevelAwait permits await expressions outside async functions.
// It is a dialect flag, set by clients before parsing.
var AllowTopLevelAwait = false

// Parse parses the input data and returns the corresponding parse tree.
//
// If src != nil, Parse parses the source from src and the filename
// is only used when recording position information.
// The type of the argument for the src parameter must be string,
// []byte, io.Reader, or FilePortion.
// If src == nil, Parse parses the file specified by filename.
func Parse(filename string, src interface{}, mode Mode) (f *File, err error) {
	in, err := newScanner(filename, src)
	if err != nil {
		return nil, err
	}
	p := parser{in: in, mode: mode}
	defer p.in.recover(&err)

	p.init()
	f = p.parseFile()
	f.Path = filename
	return f, nil
}

// ParseExpr parses a JavaScript expression.
// A trailing semicolon is permitted.
// See Parse for explanation of parameters.
func ParseExpr(filename string, src interface{}, mode Mode) (expr Expr, err error) {
	in, err := newScanner(filename, src)
	if err != nil {
		return nil, err
	}
	p := parser{in: in, mode: mode}
	defer p.in.recover(&err)

	p.init()
	expr = p.parseExpr()
	if p.tok == SEMI {
		p.nextToken()
	}
	if p.tok != EOF {
		p.in.errorf(p.tokval.pos, "got %#v after expression, want EOF", p.tok)
	}
	return expr, nil
}

// ParseCompoundStmt parses a single compound statement:
// a complete statement or sequence of statements, possibly spanning
// several lines. It reads lines from readline until the accumulated
// input parses, a blank line ends an incomplete input, or parsing
// fails for a reason other than a premature end of input.
// It is intended for use in a REPL.
func ParseCompoundStmt(filename string, readline func() ([]byte, error)) (*File, error) {
	var buf []byte
	for {
		line, err := readline()
		if err != nil {
			return nil, err
		}
		buf = append(buf, line...)
		blank := len(bytes.TrimSpace(line)) == 0
		if len(bytes.TrimSpace(buf)) == 0 {
			return &File{Path: filename}, nil
		}

		f, err := Parse(filename, buf, 0)
		if err == nil {
			return f, nil
		}
		if blank || !incomplete(err) {
			return nil, err
		}
	}
}

// incomplete reports whether err was caused by a premature end of input.
func incomplete(err error) bool {
	e, ok := err.(Error)
	return ok && (strings.Contains(e.Msg, "end of file") || strings.HasPrefix(e.Msg, "unterminated") || strings.HasPrefix(e.Msg, "unexpected EOF"))
}

// fnContext records properties of the innermost enclosing function.
type fnContext struct {
	async     bool
	generator bool
}

type parser struct {
	in     *scanner
	mode   Mode
	toks   []Token
	vals   []tokenValue
	i      int        // index of current token
	tok    Token      // current token
	tokval tokenValue // value of current token
	fn     *fnContext // innermost enclosing function, nil at top level
	noIn   bool       // 'in' is not a binary operator (for-loop heads)
}

func (p *parser) init() {
	p.toks, p.vals = p.in.scanAll()
	p.tok, p.tokval = p.toks[0], p.vals[0]
}

// nextToken advances the scanner and returns the position of the
// previous token.
func (p *parser) nextToken() Position {
	oldpos := p.tokval.pos
	if p.tok != EOF {
		p.i++
	}
	p.tok, p.tokval = p.toks[p.i], p.vals[p.i]
	return oldpos
}

// peek returns the kind of the token k positions ahead of the current one.
func (p *parser) peek(k int) Token {
	if j := p.i + k; j < len(p.toks) {
		return p.toks[j]
	}
	return EOF
}

// peekNewline reports whether a line terminator precedes the token
// k positions ahead.
func (p *parser) peekNewline(k int) bool {
	if j := p.i + k; j < len(p.vals) {
		return p.vals[j].nl
	}
	return false
}

// prevEnd returns the position just after the previous token.
func (p *parser) prevEnd() Position {
	if p.i == 0 {
		return p.tokval.pos
	}
	return p.vals[p.i-1].end
}

// consume consumes the current token, which must be t,
// and returns its position.
func (p *parser) consume(t Token) Position {
	if p.tok != t {
		p.in.errorf(p.tokval.pos, "got %#v, want %#v", p.tok, t)
	}
	return p.nextToken()
}

// contextual reports whether the current token is the
// contextual keyword (an ordinary identifier) with the given name.
func (p *parser) contextual(name string) bool {
	return p.tok == IDENT && p.tokval.raw == name
}

// semi consumes a statement terminator, applying
// automatic semicolon insertion.
func (p *parser) semi() {
	switch {
	case p.tok == SEMI:
		p.nextToken()
	case p.tok == RBRACE || p.tok == EOF || p.tokval.nl:
		// inserted semicolon
	default:
		p.in.errorf(p.tokval.pos, "got %#v, want ';'", p.tok)
	}
}

func (p *parser) parseFile() *File {
	var stmts []Stmt
	for p.tok != EOF {
		stmts = append(stmts, p.parseModuleItem())
	}
	return &File{Stmts: stmts}
}

// parseModuleItem parses a top-level statement, which may be an
// import or export.
func (p *parser) parseModuleItem() Stmt {
	switch p.tok {
	case IMPORT:
		if p.peek(1) != LPAREN && p.peek(1) != DOT {
			return p.parseImport()
		}
	case EXPORT:
		return p.parseExport()
	}
	return p.parseStmt()
}

func (p *parser) parseStmt() Stmt {
	switch p.tok {
	case LBRACE:
		return p.parseBlock()

	case VAR, LET, CONST:
		d := p.parseVarDecl(false)
		p.semi()
		return d

	case FUNCTION:
		return p.parseFuncDecl(false)

	case IDENT:
		if p.isAsyncFunction() {
			return p.parseFuncDecl(false)
		}

	case CLASS:
		c := new(ClassDecl)
		p.parseClass(&c.Class, true)
		return c

	case IF:
		return p.parseIfStmt()

	case FOR:
		return p.parseForStmt()

	case WHILE:
		pos := p.nextToken()
		cond := p.parseParenExpr()
		body := p.parseStmt()
		return &WhileStmt{While: pos, Cond: cond, Body: body}

	case DO:
		pos := p.nextToken()
		body := p.parseStmt()
		p.consume(WHILE)
		p.consume(LPAREN)
		cond := p.parseExpr()
		rparen := p.consume(RPAREN)
		if p.tok == SEMI {
			p.nextToken()
		}
		return &DoWhileStmt{Do: pos, Body: body, Cond: cond, Rparen: rparen}

	case RETURN:
		pos := p.nextToken()
		if p.fn == nil && p.mode&AllowReturnOutsideFunction == 0 {
			p.in.error(pos, "return outside function")
		}
		var result Expr
		if p.tok != SEMI && p.tok != RBRACE && p.tok != EOF && !p.tokval.nl {
			result = p.parseExpr()
		}
		p.semi()
		return &ReturnStmt{Return: pos, Result: result}

	case BREAK, CONTINUE:
		tok := p.tok
		pos := p.nextToken()
		p.semi()
		return &BranchStmt{Token: tok, TokenPos: pos}

	case THROW:
		pos := p.nextToken()
		if p.tokval.nl {
			p.in.error(p.tokval.pos, "illegal newline after throw")
		}
		x := p.parseExpr()
		p.semi()
		return &ThrowStmt{Throw: pos, X: x}

	case TRY:
		return p.parseTryStmt()

	case SWITCH:
		return p.parseSwitchStmt()

	case SEMI:
		return &EmptyStmt{Semi: p.nextToken()}

	case IMPORT, EXPORT:
		p.in.errorf(p.tokval.pos, "%s declaration not at top level", p.tok)
	}

	x := p.parseExpr()
	p.semi()
	return &ExprStmt{X: x}
}

// isAsyncFunction reports whether the input is "async function",
// with no line break between the two.
func (p *parser) isAsyncFunction() bool {
	return p.contextual("async") && p.peek(1) == FUNCTION && !p.peekNewline(1)
}

func (p *parser) parseBlock() *BlockStmt {
	lbrace := p.consume(LBRACE)
	var list []Stmt
	for p.tok != RBRACE {
		if p.tok == EOF {
			p.in.errorf(p.tokval.pos, "got %#v, want '}'", p.tok)
		}
		list = append(list, p.parseStmt())
	}
	rbrace := p.nextToken()
	return &BlockStmt{Lbrace: lbrace, List: list, Rbrace: rbrace}
}

// parseVarDecl parses a variable declaration. In a for-loop head
// (forHead), const declarations may omit their initializer.
func (p *parser) parseVarDecl(forHead bool) *VarDecl {
	tok := p.tok
	d := &VarDecl{DeclPos: p.nextToken(), Token: tok}
	for {
		spec := &VarSpec{Name: p.parseIdent()}
		if p.tok == EQ {
			p.nextToken()
			spec.Init = p.parseAssign()
		} else if tok == CONST && !forHead {
			p.in.errorf(spec.Name.NamePos, "missing initializer in const declaration")
		}
		d.List = append(d.List, spec)
		if p.tok != COMMA {
			break
		}
		p.nextToken()
	}
	return d
}

func (p *parser) parseFuncDecl(anonymousOK bool) *FuncDecl {
	decl := new(FuncDecl)
	p.parseFunctionKeyword(&decl.Function)
	if p.tok == IDENT {
		decl.Name = p.parseIdent()
	} else if !anonymousOK {
		p.in.errorf(p.tokval.pos, "got %#v, want function name", p.tok)
	}
	p.parseSignatureAndBody(&decl.Function)
	return decl
}

// parseFunctionKeyword parses [async] function [*].
func (p *parser) parseFunctionKeyword(fn *Function) {
	fn.StartPos = p.tokval.pos
	if p.contextual("async") {
		fn.Async = true
		p.nextToken()
	}
	p.consume(FUNCTION)
	if p.tok == STAR {
		p.nextToken()
		fn.Generator = true
	}
}

// parseSignatureAndBody parses (params) { body }.
func (p *parser) parseSignatureAndBody(fn *Function) {
	outer, outerNoIn := p.fn, p.noIn
	p.fn = &fnContext{async: fn.Async, generator: fn.Generator}
	p.noIn = false

	p.consume(LPAREN)
	fn.Params = p.parseParams()
	p.consume(RPAREN)
	fn.Body = p.parseBlock()

	p.fn, p.noIn = outer, outerNoIn
}

// parseParams parses a parameter list, up to but not including ')'.
func (p *parser) parseParams() []*Param {
	var params []*Param
	for p.tok != RPAREN {
		param := new(Param)
		if p.tok == ELLIPSIS {
			param.Ellipsis = p.nextToken()
		}
		param.Name = p.parseIdent()
		if p.tok == EQ {
			if param.Rest() {
				p.in.error(p.tokval.pos, "rest parameter may not have a default initializer")
			}
			p.nextToken()
			param.Default = p.parseAssign()
		}
		params = append(params, param)
		if param.Rest() && p.tok != RPAREN {
			p.in.error(p.tokval.pos, "rest parameter must be last formal parameter")
		}
		if p.tok != COMMA {
			break
		}
		p.nextToken()
	}
	return params
}

func (p *parser) parseClass(c *Class, requireName bool) {
	c.ClassPos = p.consume(CLASS)
	if p.tok == IDENT {
		c.Name = p.parseIdent()
	} else if requireName {
		p.in.errorf(p.tokval.pos, "got %#v, want class name", p.tok)
	}
	if p.tok == EXTENDS {
		p.nextToken()
		c.Extends = p.parseCallOrMember()
	}
	p.consume(LBRACE)
	for p.tok != RBRACE {
		switch p.tok {
		case SEMI:
			p.nextToken()
			continue
		case EOF:
			p.in.errorf(p.tokval.pos, "got %#v, want '}'", p.tok)
		}
		c.Members = append(c.Members, p.parseClassMember())
	}
	c.Rbrace = p.nextToken()
}

// modifierFollows reports whether the current contextual keyword
// (static, async, get, set) acts as a modifier rather than a name,
// judging by the token after it.
func (p *parser) modifierFollows() bool {
	switch p.peek(1) {
	case LPAREN, EQ, SEMI, RBRACE, COMMA, COLON, EOF:
		return false
	}
	return true
}

func (p *parser) parseClassMember() *ClassMember {
	m := &ClassMember{StartPos: p.tokval.pos}
	if p.contextual("static") && p.modifierFollows() {
		m.Static = true
		p.nextToken()
	}
	var fn Function
	kind := MethodMember
	p.parseMethodModifiers(&fn, &kind)
	keyPos := p.tokval.pos
	m.Key, m.Computed = p.parsePropertyKey()

	if p.tok == LPAREN {
		if id, ok := m.Key.(*Ident); ok && id.Name == "constructor" && !m.Computed && !m.Static && kind == MethodMember {
			kind = CtorMember
		}
		m.Kind = kind
		if !fn.Async && !fn.Generator && kind == MethodMember {
			fn.StartPos = keyPos
		}
		m.Method = &Method{Function: fn}
		p.parseSignatureAndBody(&m.Method.Function)
		m.EndPos = p.prevEnd()
		return m
	}

	if fn.Async || fn.Generator || kind != MethodMember {
		p.in.errorf(p.tokval.pos, "got %#v, want '('", p.tok)
	}
	m.Kind = FieldMember
	if p.tok == EQ {
		p.nextToken()
		// A field initializer is evaluated as if in a method body.
		outer := p.fn
		p.fn = &fnContext{}
		m.Value = p.parseAssign()
		p.fn = outer
	}
	m.EndPos = p.prevEnd()
	p.semi()
	return m
}

// parseMethodModifiers parses the optional async, *, get and set
// prefixes of an object or class method.
func (p *parser) parseMethodModifiers(fn *Function, kind *MemberKind) {
	fn.StartPos = p.tokval.pos
	if p.contextual("async") && p.modifierFollows() && !p.peekNewline(1) {
		fn.Async = true
		p.nextToken()
	}
	if p.tok == STAR {
		fn.Generator = true
		p.nextToken()
	}
	if !fn.Async && !fn.Generator && (p.contextual("get") || p.contextual("set")) && p.modifierFollows() {
		*kind = GetMember
		if p.tokval.raw == "set" {
			*kind = SetMember
		}
		p.nextToken()
	}
}

// parsePropertyKey parses the key of an object property or class member.
func (p *parser) parsePropertyKey() (key Expr, computed bool) {
	switch p.tok {
	case STRING, NUMBER:
		return p.parseLiteral(), false
	case LBRACK:
		p.nextToken()
		x := p.parseAssign()
		p.consume(RBRACK)
		return x, true
	}
	return p.parseIdentName(), false
}

func (p *parser) parseIfStmt() Stmt {
	pos := p.nextToken()
	cond := p.parseParenExpr()
	then := p.parseStmt()
	var els Stmt
	if p.tok == ELSE {
		p.nextToken()
		els = p.parseStmt()
	}
	return &IfStmt{If: pos, Cond: cond, Then: then, Else: els}
}

// parseParenExpr parses ( expr ).
func (p *parser) parseParenExpr() Expr {
	p.consume(LPAREN)
	x := p.parseExpr()
	p.consume(RPAREN)
	return x
}

func (p *parser) parseForStmt() Stmt {
	pos := p.nextToken()
	p.consume(LPAREN)

	var init Stmt
	switch p.tok {
	case SEMI:
		// no initializer
	case VAR, LET, CONST:
		p.noIn = true
		d := p.parseVarDecl(true)
		p.noIn = false
		if p.tok == IN || p.contextual("of") {
			if len(d.List) != 1 || d.List[0].Init != nil {
				p.in.error(d.DeclPos, "for-in/of loop variable declaration may not have an initializer")
			}
			return p.parseForInRest(pos, d, nil)
		}
		if d.Token == CONST {
			for _, spec := range d.List {
				if spec.Init == nil {
					p.in.errorf(spec.Name.NamePos, "missing initializer in const declaration")
				}
			}
		}
		init = d
	default:
		p.noIn = true
		x := p.parseExpr()
		p.noIn = false
		if p.tok == IN || p.contextual("of") {
			p.checkTarget(x)
			return p.parseForInRest(pos, nil, x)
		}
		init = &ExprStmt{X: x}
	}
	p.consume(SEMI)

	var cond, post Expr
	if p.tok != SEMI {
		cond = p.parseExpr()
	}
	p.consume(SEMI)
	if p.tok != RPAREN {
		post = p.parseExpr()
	}
	p.consume(RPAREN)
	body := p.parseStmt()
	return &ForStmt{For: pos, Init: init, Cond: cond, Post: post, Body: body}
}

// parseForInRest parses the remainder of a for-in or for-of loop,
// starting at the IN or "of" token.
func (p *parser) parseForInRest(pos Position, decl *VarDecl, target Expr) Stmt {
	of := p.tok != IN
	p.nextToken()
	var x Expr
	if of {
		x = p.parseAssign()
	} else {
		x = p.parseExpr()
	}
	p.consume(RPAREN)
	body := p.parseStmt()
	return &ForInStmt{For: pos, Decl: decl, Target: target, Of: of, X: x, Body: body}
}

func (p *parser) parseTryStmt() Stmt {
	stmt := &TryStmt{Try: p.nextToken()}
	stmt.Body = p.parseBlock()
	if p.tok == CATCH {
		p.nextToken()
		if p.tok == LPAREN {
			p.nextToken()
			stmt.Param = p.parseIdent()
			p.consume(RPAREN)
		}
		stmt.Catch = p.parseBlock()
	}
	if p.tok == FINALLY {
		p.nextToken()
		stmt.Finally = p.parseBlock()
	}
	if stmt.Catch == nil && stmt.Finally == nil {
		p.in.error(p.tokval.pos, "missing catch or finally after try")
	}
	return stmt
}

func (p *parser) parseSwitchStmt() Stmt {
	stmt := &SwitchStmt{Switch: p.nextToken()}
	stmt.Tag = p.parseParenExpr()
	p.consume(LBRACE)
	sawDefault := false
	for p.tok != RBRACE {
		clause := &CaseClause{Case: p.tokval.pos}
		switch p.tok {
		case CASE:
			p.nextToken()
			clause.Value = p.parseExpr()
		case DEFAULT:
			if sawDefault {
				p.in.error(p.tokval.pos, "multiple default clauses in switch")
			}
			sawDefault = true
			p.nextToken()
		default:
			p.in.errorf(p.tokval.pos, "got %#v, want case or default", p.tok)
		}
		p.consume(COLON)
		for p.tok != CASE && p.tok != DEFAULT && p.tok != RBRACE {
			if p.tok == EOF {
				p.in.errorf(p.tokval.pos, "got %#v, want '}'", p.tok)
			}
			clause.Body = append(clause.Body, p.parseStmt())
		}
		stmt.Cases = append(stmt.Cases, clause)
	}
	stmt.Rbrace = p.nextToken()
	return stmt
}

func (p *parser) parseImport() Stmt {
	stmt := &ImportStmt{Import: p.nextToken()}
	if p.tok == STRING {
		stmt.Module = p.parseLiteral()
		p.semi()
		return stmt
	}
	if p.tok == IDENT {
		stmt.Default = p.parseIdent()
		if p.tok == COMMA {
			p.nextToken()
		}
	}
	switch p.tok {
	case STAR:
		p.nextToken()
		p.consumeContextual("as")
		stmt.Namespace = p.parseIdent()
	case LBRACE:
		p.nextToken()
		for p.tok != RBRACE {
			spec := &ImportSpec{Imported: p.parseIdentName()}
			if p.contextual("as") {
				p.nextToken()
				spec.Local = p.parseIdent()
			} else {
				if !IsIdentifier(spec.Imported.Name) {
					p.in.errorf(spec.Imported.NamePos, "unexpected keyword %s in import list", spec.Imported.Name)
				}
				spec.Local = &Ident{NamePos: spec.Imported.NamePos, Name: spec.Imported.Name}
			}
			stmt.Names = append(stmt.Names, spec)
			if p.tok != COMMA {
				break
			}
			p.nextToken()
		}
		p.consume(RBRACE)
	}
	if stmt.Default == nil && stmt.Namespace == nil && stmt.Names == nil && p.tok != IDENT {
		p.in.errorf(p.tokval.pos, "got %#v, want import specifier", p.tok)
	}
	p.consumeContextual("from")
	if p.tok != STRING {
		p.in.errorf(p.tokval.pos, "got %#v, want module name", p.tok)
	}
	stmt.Module = p.parseLiteral()
	p.semi()
	return stmt
}

func (p *parser) consumeContextual(name string) {
	if !p.contextual(name) {
		p.in.errorf(p.tokval.pos, "got %#v, want %s", p.tok, name)
	}
	p.nextToken()
}

func (p *parser) parseExport() Stmt {
	stmt := &ExportStmt{Export: p.nextToken()}
	switch p.tok {
	case DEFAULT:
		p.nextToken()
		stmt.Default = true
		switch {
		case p.tok == FUNCTION || p.isAsyncFunction():
			decl := p.parseFuncDecl(true)
			if decl.Name != nil {
				stmt.Decl = decl
			} else {
				stmt.X = &FuncLit{Function: decl.Function}
			}
		case p.tok == CLASS:
			c := new(ClassDecl)
			p.parseClass(&c.Class, false)
			if c.Name != nil {
				stmt.Decl = c
			} else {
				stmt.X = &ClassExpr{Class: c.Class}
			}
		default:
			stmt.X = p.parseAssign()
			p.semi()
		}

	case VAR, LET, CONST, FUNCTION, CLASS:
		stmt.Decl = p.parseStmt()

	case LBRACE:
		p.nextToken()
		for p.tok != RBRACE {
			spec := &ExportSpec{Local: p.parseIdentName()}
			if p.contextual("as") {
				p.nextToken()
				spec.Exported = p.parseIdentName()
			} else {
				spec.Exported = &Ident{NamePos: spec.Local.NamePos, Name: spec.Local.Name}
			}
			stmt.Names = append(stmt.Names, spec)
			if p.tok != COMMA {
				break
			}
			p.nextToken()
		}
		stmt.EndPos = p.consume(RBRACE).add("}")
		if p.contextual("from") {
			p.nextToken()
			if p.tok != STRING {
				p.in.errorf(p.tokval.pos, "got %#v, want module name", p.tok)
			}
			stmt.Module = p.parseLiteral()
			stmt.EndPos = End(stmt.Module)
		}
		p.semi()

	default:
		if p.isAsyncFunction() {
			stmt.Decl = p.parseStmt()
			break
		}
		p.in.errorf(p.tokval.pos, "got %#v, want declaration after export", p.tok)
	}
	return stmt
}

// parseExpr parses an expression, possibly a comma-separated sequence.
func (p *parser) parseExpr() Expr {
	x := p.parseAssign()
	if p.tok != COMMA {
		return x
	}
	list := []Expr{x}
	for p.tok == COMMA {
		p.nextToken()
		list = append(list, p.parseAssign())
	}
	return &SeqExpr{List: list}
}

// parseAssign parses an AssignmentExpression, including arrow
// functions, yield expressions, and conditionals.
func (p *parser) parseAssign() Expr {
	if p.isArrow() {
		return p.parseArrow()
	}
	if p.tok == YIELD {
		return p.parseYield()
	}

	x := p.parseConditional()
	if isAssignOp(p.tok) {
		op := p.tok
		p.checkTarget(x)
		pos := p.nextToken()
		y := p.parseAssign()
		return &AssignExpr{LHS: x, OpPos: pos, Op: op, RHS: y}
	}
	return x
}

func isAssignOp(tok Token) bool { return EQ <= tok && tok <= QQ_EQ }

// checkTarget reports an error if x is not a valid assignment target.
func (p *parser) checkTarget(x Expr) {
	switch Unparen(x).(type) {
	case *Ident, *DotExpr, *IndexExpr:
		return
	}
	p.in.error(Start(x), "invalid assignment target")
}

func (p *parser) parseYield() Expr {
	pos := p.nextToken()
	if p.fn == nil || !p.fn.generator {
		p.in.error(pos, "yield outside generator function")
	}
	y := &YieldExpr{Yield: pos}
	if p.tok == STAR {
		p.nextToken()
		y.Delegate = true
	}
	switch p.tok {
	case RPAREN, RBRACK, RBRACE, COMMA, SEMI, COLON, EOF:
		if y.Delegate {
			p.in.errorf(p.tokval.pos, "got %#v, want expression after yield*", p.tok)
		}
	default:
		if !p.tokval.nl || y.Delegate {
			y.X = p.parseAssign()
		}
	}
	return y
}

// isArrow reports whether the input at the current token begins
// an arrow function.
func (p *parser) isArrow() bool {
	switch p.tok {
	case IDENT:
		if p.peek(1) == ARROW && !p.peekNewline(1) {
			return true
		}
		if p.tokval.raw == "async" && !p.peekNewline(1) {
			switch p.peek(1) {
			case IDENT:
				return p.peek(2) == ARROW
			case LPAREN:
				return p.peek(p.matchParen(p.i+1)-p.i+1) == ARROW
			}
		}
	case LPAREN:
		return p.peek(p.matchParen(p.i)-p.i+1) == ARROW
	}
	return false
}

// matchParen returns the index of the token that closes the bracket
// at token index i, or the index of EOF if there is none.
func (p *parser) matchParen(i int) int {
	depth := 0
	for ; i < len(p.toks); i++ {
		switch p.toks[i] {
		case LPAREN, LBRACK, LBRACE:
			depth++
		case RPAREN, RBRACK, RBRACE:
			depth--
			if depth == 0 {
				return i
			}
		case EOF:
			return i
		}
	}
	return len(p.toks) - 1
}

func (p *parser) parseArrow() Expr {
	fn := &FuncLit{Arrow: true}
	fn.StartPos = p.tokval.pos
	if p.contextual("async") && p.peek(1) != ARROW {
		fn.Async = true
		p.nextToken()
	}
	if p.tok == IDENT {
		fn.Params = []*Param{{Name: p.parseIdent()}}
	} else {
		p.consume(LPAREN)
		fn.Params = p.parseParams()
		p.consume(RPAREN)
	}
	p.consume(ARROW)

	outer, outerNoIn := p.fn, p.noIn
	p.fn = &fnContext{async: fn.Async}
	if p.tok == LBRACE {
		p.noIn = false
		fn.Body = p.parseBlock()
	} else {
		fn.ExprBody = p.parseAssign()
	}
	p.fn, p.noIn = outer, outerNoIn
	return fn
}

func (p *parser) parseConditional() Expr {
	x := p.parseBinary(1)
	if p.tok != QUESTION {
		return x
	}
	question := p.nextToken()
	outerNoIn := p.noIn
	p.noIn = false
	t := p.parseAssign()
	p.noIn = outerNoIn
	colon := p.consume(COLON)
	f := p.parseAssign()
	return &CondExpr{Cond: x, Question: question, True: t, Colon: colon, False: f}
}

// precedence maps each binary operator to its precedence (1-11);
// 0 means not a binary operator.
var precedence [maxToken]int8

func init() {
	levels := [...][]Token{
		{OROR, QQ},
		{ANDAND},
		{PIPE},
		{CIRCUMFLEX},
		{AMP},
		{EQL, NEQ, EQLEQL, NEQEQ},
		{LT, LE, GT, GE, IN, INSTANCEOF},
		{LTLT, GTGT, GTGTGT},
		{PLUS, MINUS},
		{STAR, SLASH, PERCENT},
		{STARSTAR},
	}
	for i, tokens := range levels {
		for _, tok := range tokens {
			precedence[tok] = int8(i + 1)
		}
	}
}

// parseBinary parses a sequence of binary operations whose operators
// have precedence at least prec, using precedence climbing.
func (p *parser) parseBinary(prec int) Expr {
	x := p.parseUnary()
	for {
		op := p.tok
		opprec := int(precedence[op])
		if opprec == 0 || opprec < prec || op == IN && p.noIn {
			return x
		}
		pos := p.nextToken()
		var y Expr
		if op == STARSTAR {
			y = p.parseBinary(opprec) // right-associative
		} else {
			y = p.parseBinary(opprec + 1)
		}
		x = &BinaryExpr{X: x, OpPos: pos, Op: op, Y: y}
	}
}

func (p *parser) parseUnary() Expr {
	switch p.tok {
	case BANG, MINUS, PLUS, TILDE, TYPEOF, VOID, DELETE:
		op := p.tok
		pos := p.nextToken()
		x := p.parseUnary()
		return &UnaryExpr{OpPos: pos, Op: op, X: x}

	case INC, DEC:
		op := p.tok
		pos := p.nextToken()
		x := p.parseUnary()
		p.checkTarget(x)
		return &UnaryExpr{OpPos: pos, Op: op, X: x}

	case AWAIT:
		pos := p.nextToken()
		if p.fn == nil && !AllowTopLevelAwait || p.fn != nil && !p.fn.async {
			p.in.error(pos, "await is only valid in async functions")
		}
		x := p.parseUnary()
		return &UnaryExpr{OpPos: pos, Op: AWAIT, X: x}
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() Expr {
	x := p.parseCallOrMember()
	if (p.tok == INC || p.tok == DEC) && !p.tokval.nl {
		p.checkTarget(x)
		op := p.tok
		pos := p.nextToken()
		return &UnaryExpr{OpPos: pos, Op: op, X: x, Postfix: true}
	}
	return x
}

// parseCallOrMember parses a LeftHandSideExpression: a primary or new
// expression followed by any number of calls, property accesses,
// and index operations.
func (p *parser) parseCallOrMember() Expr {
	var x Expr
	if p.tok == NEW {
		x = p.parseNew()
	} else {
		x = p.parsePrimary()
	}
	return p.parseSuffixes(x, true)
}

func (p *parser) parseSuffixes(x Expr, allowCall bool) Expr {
	for {
		switch p.tok {
		case DOT:
			dot := p.nextToken()
			x = &DotExpr{X: x, Dot: dot, Name: p.parseIdentName()}

		case QDOT:
			dot := p.nextToken()
			switch p.tok {
			case LPAREN:
				x = p.parseCall(x, true)
			case LBRACK:
				x = p.parseIndex(x, true)
			default:
				x = &DotExpr{X: x, Optional: true, Dot: dot, Name: p.parseIdentName()}
			}

		case LBRACK:
			x = p.parseIndex(x, false)

		case LPAREN:
			if !allowCall {
				return x
			}
			x = p.parseCall(x, false)

		default:
			return x
		}
	}
}

func (p *parser) parseCall(fn Expr, optional bool) Expr {
	lparen := p.nextToken()
	args := p.parseArgs(RPAREN)
	rparen := p.consume(RPAREN)
	return &CallExpr{Fn: fn, Optional: optional, Lparen: lparen, Args: args, Rparen: rparen}
}

func (p *parser) parseIndex(x Expr, optional bool) Expr {
	lbrack := p.nextToken()
	outerNoIn := p.noIn
	p.noIn = false
	y := p.parseExpr()
	p.noIn = outerNoIn
	rbrack := p.consume(RBRACK)
	return &IndexExpr{X: x, Optional: optional, Lbrack: lbrack, Y: y, Rbrack: rbrack}
}

// parseArgs parses a comma-separated list of (possibly spread)
// expressions, up to but not including the closing token.
// A trailing comma is permitted.
func (p *parser) parseArgs(closing Token) []Expr {
	outerNoIn := p.noIn
	p.noIn = false
	defer func() { p.noIn = outerNoIn }()

	var args []Expr
	for p.tok != closing {
		if p.tok == COMMA {
			p.in.errorf(p.tokval.pos, "got %#v, want expression", p.tok)
		}
		if p.tok == ELLIPSIS {
			pos := p.nextToken()
			args = append(args, &SpreadExpr{Ellipsis: pos, X: p.parseAssign()})
		} else {
			args = append(args, p.parseAssign())
		}
		if p.tok != COMMA {
			break
		}
		p.nextToken()
	}
	return args
}

func (p *parser) parseNew() Expr {
	pos := p.nextToken()
	if p.tok == DOT {
		p.nextToken()
		name := p.parseIdentName()
		if name.Name != "target" {
			p.in.errorf(name.NamePos, "new.%s is not a valid meta property", name.Name)
		}
		return &MetaProperty{New: pos, Property: name}
	}
	var fn Expr
	if p.tok == NEW {
		fn = p.parseNew()
	} else {
		fn = p.parsePrimary()
	}
	fn = p.parseSuffixes(fn, false)
	x := &NewExpr{New: pos, Fn: fn}
	if p.tok == LPAREN {
		p.nextToken()
		x.Args = p.parseArgs(RPAREN)
		x.Rparen = p.consume(RPAREN)
	}
	return x
}

func (p *parser) parsePrimary() Expr {
	switch p.tok {
	case IDENT:
		if p.isAsyncFunction() {
			return p.parseFuncLit()
		}
		return p.parseIdent()

	case NUMBER, STRING, TRUE, FALSE, NULL:
		return p.parseLiteral()

	case THIS:
		return &ThisExpr{ThisPos: p.nextToken()}

	case SUPER:
		pos := p.nextToken()
		if p.tok != LPAREN && p.tok != DOT && p.tok != LBRACK {
			p.in.error(pos, "'super' keyword unexpected here")
		}
		return &SuperExpr{SuperPos: pos}

	case LPAREN:
		lparen := p.nextToken()
		if p.tok == RPAREN {
			p.in.errorf(p.tokval.pos, "got %#v, want expression", p.tok)
		}
		outerNoIn := p.noIn
		p.noIn = false
		x := p.parseExpr()
		p.noIn = outerNoIn
		rparen := p.consume(RPAREN)
		return &ParenExpr{Lparen: lparen, X: x, Rparen: rparen}

	case LBRACK:
		lbrack := p.nextToken()
		list := p.parseArgs(RBRACK)
		rbrack := p.consume(RBRACK)
		return &ArrayExpr{Lbrack: lbrack, List: list, Rbrack: rbrack}

	case LBRACE:
		return p.parseObject()

	case FUNCTION:
		return p.parseFuncLit()

	case CLASS:
		c := new(ClassExpr)
		p.parseClass(&c.Class, false)
		return c
	}
	p.in.errorf(p.tokval.pos, "got %#v, want primary expression", p.tok)
	panic("unreachable")
}

func (p *parser) parseFuncLit() Expr {
	fn := new(FuncLit)
	p.parseFunctionKeyword(&fn.Function)
	if p.tok == IDENT {
		fn.Name = p.parseIdent()
	}
	p.parseSignatureAndBody(&fn.Function)
	return fn
}

func (p *parser) parseObject() Expr {
	lbrace := p.nextToken()
	outerNoIn := p.noIn
	p.noIn = false
	var props []*Property
	for p.tok != RBRACE {
		props = append(props, p.parseProperty())
		if p.tok != COMMA {
			break
		}
		p.nextToken()
	}
	p.noIn = outerNoIn
	rbrace := p.consume(RBRACE)
	return &ObjectExpr{Lbrace: lbrace, Props: props, Rbrace: rbrace}
}

func (p *parser) parseProperty() *Property {
	if p.tok == ELLIPSIS {
		pos := p.nextToken()
		return &Property{Spread: pos, Value: p.parseAssign()}
	}

	var fn Function
	kind := MethodMember
	p.parseMethodModifiers(&fn, &kind)
	modified := fn.Async || fn.Generator || kind != MethodMember
	keyTok := p.tok
	keyPos := p.tokval.pos
	key, computed := p.parsePropertyKey()

	switch {
	case p.tok == LPAREN:
		if !modified {
			fn.StartPos = keyPos
		}
		m := &Method{Function: fn}
		p.parseSignatureAndBody(&m.Function)
		return &Property{Kind: kind, Key: key, Value: m, Computed: computed}

	case modified:
		p.in.errorf(p.tokval.pos, "got %#v, want '('", p.tok)

	case p.tok == COLON:
		p.nextToken()
		return &Property{Kind: FieldMember, Key: key, Value: p.parseAssign(), Computed: computed}

	case keyTok == IDENT && (p.tok == COMMA || p.tok == RBRACE):
		id := key.(*Ident)
		value := &Ident{NamePos: id.NamePos, Name: id.Name}
		return &Property{Kind: FieldMember, Key: key, Value: value, Shorthand: true}
	}
	p.in.errorf(p.tokval.pos, "got %#v, want ':'", p.tok)
	panic("unreachable")
}

func (p *parser) parseLiteral() *Literal {
	tok := p.tok
	val := p.tokval
	p.nextToken()
	lit := &Literal{Token: tok, TokenPos: val.pos, Raw: val.raw}
	switch tok {
	case NUMBER:
		lit.Value = val.number
	case STRING:
		lit.Value = val.string
	case TRUE:
		lit.Value = true
	case FALSE:
		lit.Value = false
	case NULL:
		lit.Value = nil
	default:
		p.in.errorf(val.pos, "got %#v, want literal", tok)
	}
	return lit
}

// parseIdent parses an identifier that may be used as a binding
// or reference (not a reserved word).
func (p *parser) parseIdent() *Ident {
	if p.tok != IDENT {
		p.in.errorf(p.tokval.pos, "got %#v, want identifier", p.tok)
	}
	id := &Ident{NamePos: p.tokval.pos, Name: p.tokval.raw}
	p.nextToken()
	return id
}

// parseIdentName parses an IdentifierName: an identifier or
// reserved word, as used for property names.
func (p *parser) parseIdentName() *Ident {
	if p.tok != IDENT && (p.tok < AWAIT || p.tok >= maxToken) {
		p.in.errorf(p.tokval.pos, "got %#v, want property name", p.tok)
	}
	id := &Ident{NamePos: p.tokval.pos, Name: p.tokval.raw}
	p.nextToken()
	return id
}
