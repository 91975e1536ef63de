// Copyright 2026 The Unclosure Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntax provides a parser, abstract syntax tree and printer
// for the subset of JavaScript handled by the unclosure transform.
package syntax

// A Node is a node in a JavaScript syntax tree.
type Node interface {
	// Span returns the start and end position of the node.
	Span() (start, end Position)
}

// Start returns the start position of the node.
func Start(n Node) Position {
	start, _ := n.Span()
	return start
}

// End returns the end position of the node.
func End(n Node) Position {
	_, end := n.Span()
	return end
}

// A File represents a JavaScript source file (a module).
type File struct {
	Path  string
	Stmts []Stmt
}

func (x *File) Span() (start, end Position) {
	if len(x.Stmts) == 0 {
		return
	}
	start, _ = x.Stmts[0].Span()
	_, end = x.Stmts[len(x.Stmts)-1].Span()
	return start, end
}

// A Stmt is a JavaScript statement.
type Stmt interface {
	Node
	stmt()
}

func (*BlockStmt) stmt()   {}
func (*BranchStmt) stmt()  {}
func (*ClassDecl) stmt()   {}
func (*DoWhileStmt) stmt() {}
func (*EmptyStmt) stmt()   {}
func (*ExportStmt) stmt()  {}
func (*ExprStmt) stmt()    {}
func (*ForInStmt) stmt()   {}
func (*ForStmt) stmt()     {}
func (*FuncDecl) stmt()    {}
func (*IfStmt) stmt()      {}
func (*ImportStmt) stmt()  {}
func (*ReturnStmt) stmt()  {}
func (*SwitchStmt) stmt()  {}
func (*ThrowStmt) stmt()   {}
func (*TryStmt) stmt()     {}
func (*VarDecl) stmt()     {}
func (*WhileStmt) stmt()   {}

// A VarDecl represents a variable declaration:
//	var x = 1, y
//	let x = 1
//	const x = 1
type VarDecl struct {
	DeclPos Position
	Token   Token // = VAR | LET | CONST
	List    []*VarSpec
}

func (x *VarDecl) Span() (start, end Position) {
	_, end = x.List[len(x.List)-1].Span()
	return x.DeclPos, end
}

// A VarSpec is a single declarator of a VarDecl: Name = Init.
type VarSpec struct {
	Name *Ident
	Init Expr // may be nil
}

func (x *VarSpec) Span() (start, end Position) {
	start, end = x.Name.Span()
	if x.Init != nil {
		_, end = x.Init.Span()
	}
	return
}

// A Function represents the common parts of FuncLit, FuncDecl and Method.
type Function struct {
	StartPos  Position // position of FUNCTION, ASYNC, or the first parameter token
	Async     bool
	Generator bool
	Params    []*Param
	Body      *BlockStmt // nil for an arrow function with an expression body
	ExprBody  Expr       // arrow functions only
}

func (x *Function) Span() (start, end Position) {
	if x.Body != nil {
		_, end = x.Body.Span()
	} else {
		_, end = x.ExprBody.Span()
	}
	return x.StartPos, end
}

// A Param is a formal parameter: Name, Name = Default, or ...Name.
type Param struct {
	Ellipsis Position // valid iff rest parameter
	Name     *Ident
	Default  Expr // may be nil
}

func (x *Param) Span() (start, end Position) {
	start, end = x.Name.Span()
	if x.Ellipsis.IsValid() {
		start = x.Ellipsis
	}
	if x.Default != nil {
		_, end = x.Default.Span()
	}
	return
}

// Rest reports whether the parameter is a rest parameter (...Name).
func (x *Param) Rest() bool { return x.Ellipsis.IsValid() }

// A FuncDecl represents a function declaration.
type FuncDecl struct {
	Name *Ident
	Function
}

func (x *FuncDecl) Span() (start, end Position) { return x.Function.Span() }

// A ClassDecl represents a class declaration.
type ClassDecl struct {
	Class
}

func (x *ClassDecl) Span() (start, end Position) { return x.Class.Span() }

// A Class represents the common parts of ClassDecl and ClassExpr.
type Class struct {
	ClassPos Position
	Name     *Ident // may be nil for a class expression
	Extends  Expr   // may be nil
	Members  []*ClassMember
	Rbrace   Position
}

func (x *Class) Span() (start, end Position) {
	return x.ClassPos, x.Rbrace.add("}")
}

// A MemberKind distinguishes the kinds of class member and object property.
type MemberKind uint8

const (
	FieldMember  MemberKind = iota // x = 1 (class) or x: 1 (object)
	MethodMember                   // m() {}
	GetMember                      // get m() {}
	SetMember                      // set m(v) {}
	CtorMember                     // constructor() {}
)

var memberKindNames = [...]string{
	FieldMember:  "field",
	MethodMember: "method",
	GetMember:    "get",
	SetMember:    "set",
	CtorMember:   "constructor",
}

func (kind MemberKind) String() string { return memberKindNames[kind] }

// A ClassMember is an element of a class body.
// Class members play the role of statements within a class body.
type ClassMember struct {
	StartPos Position
	Static   bool
	Kind     MemberKind
	Key      Expr // *Ident, *Literal, or (if Computed) any expression
	Computed bool
	Method   *Method // non-nil unless Kind == FieldMember
	Value    Expr    // field initializer; may be nil
	EndPos   Position
}

func (x *ClassMember) Span() (start, end Position) { return x.StartPos, x.EndPos }

// A Method is the function part of an object or class method.
// Like an ordinary function, it introduces its own this.
// It is an Expr only so that it may be the Value of a Property.
type Method struct {
	Function
}

func (x *Method) Span() (start, end Position) { return x.Function.Span() }

// An ExprStmt is an expression evaluated for side effects.
type ExprStmt struct {
	X Expr
}

func (x *ExprStmt) Span() (start, end Position) {
	return x.X.Span()
}

// An IfStmt is a conditional: if (Cond) Then else Else.
type IfStmt struct {
	If   Position
	Cond Expr
	Then Stmt
	Else Stmt // may be nil
}

func (x *IfStmt) Span() (start, end Position) {
	body := x.Else
	if body == nil {
		body = x.Then
	}
	_, end = body.Span()
	return x.If, end
}

// A BlockStmt is a braced list of statements.
type BlockStmt struct {
	Lbrace Position
	List   []Stmt
	Rbrace Position
}

func (x *BlockStmt) Span() (start, end Position) {
	return x.Lbrace, x.Rbrace.add("}")
}

// A ForStmt represents a classic loop: for (Init; Cond; Post) Body.
type ForStmt struct {
	For  Position
	Init Stmt // *VarDecl or *ExprStmt; may be nil
	Cond Expr // may be nil
	Post Expr // may be nil
	Body Stmt
}

func (x *ForStmt) Span() (start, end Position) {
	_, end = x.Body.Span()
	return x.For, end
}

// A ForInStmt represents a for-in or for-of loop:
//	for (const Decl of X) Body
//	for (Target in X) Body
type ForInStmt struct {
	For    Position
	Decl   *VarDecl // single declarator without initializer; may be nil
	Target Expr     // assignment target if Decl is nil
	Of     bool     // for-of rather than for-in
	X      Expr
	Body   Stmt
}

func (x *ForInStmt) Span() (start, end Position) {
	_, end = x.Body.Span()
	return x.For, end
}

// A WhileStmt represents a loop: while (Cond) Body.
type WhileStmt struct {
	While Position
	Cond  Expr
	Body  Stmt
}

func (x *WhileStmt) Span() (start, end Position) {
	_, end = x.Body.Span()
	return x.While, end
}

// A DoWhileStmt represents a loop: do Body while (Cond).
type DoWhileStmt struct {
	Do     Position
	Body   Stmt
	Cond   Expr
	Rparen Position
}

func (x *DoWhileStmt) Span() (start, end Position) {
	return x.Do, x.Rparen.add(")")
}

// A BranchStmt changes the flow of control: break, continue.
type BranchStmt struct {
	Token    Token // = BREAK | CONTINUE
	TokenPos Position
}

func (x *BranchStmt) Span() (start, end Position) {
	return x.TokenPos, x.TokenPos.add(x.Token.String())
}

// A ReturnStmt returns from a function.
type ReturnStmt struct {
	Return Position
	Result Expr // may be nil
}

func (x *ReturnStmt) Span() (start, end Position) {
	if x.Result == nil {
		return x.Return, x.Return.add("return")
	}
	_, end = x.Result.Span()
	return x.Return, end
}

// A ThrowStmt raises an exception: throw X.
type ThrowStmt struct {
	Throw Position
	X     Expr
}

func (x *ThrowStmt) Span() (start, end Position) {
	_, end = x.X.Span()
	return x.Throw, end
}

// A TryStmt represents try Body catch (Param) Catch finally Finally.
type TryStmt struct {
	Try     Position
	Body    *BlockStmt
	Param   *Ident     // may be nil
	Catch   *BlockStmt // may be nil if Finally is present
	Finally *BlockStmt // may be nil
}

func (x *TryStmt) Span() (start, end Position) {
	last := x.Finally
	if last == nil {
		last = x.Catch
	}
	_, end = last.Span()
	return x.Try, end
}

// A SwitchStmt represents switch (Tag) { Cases }.
type SwitchStmt struct {
	Switch Position
	Tag    Expr
	Cases  []*CaseClause
	Rbrace Position
}

func (x *SwitchStmt) Span() (start, end Position) {
	return x.Switch, x.Rbrace.add("}")
}

// A CaseClause is a case or default clause of a SwitchStmt.
type CaseClause struct {
	Case  Position
	Value Expr // nil for default
	Body  []Stmt
}

func (x *CaseClause) Span() (start, end Position) {
	end = x.Case.add("default:")
	if x.Value != nil {
		_, end = x.Value.Span()
	}
	if n := len(x.Body); n > 0 {
		_, end = x.Body[n-1].Span()
	}
	return x.Case, end
}

// An EmptyStmt is a lone semicolon.
type EmptyStmt struct {
	Semi Position
}

func (x *EmptyStmt) Span() (start, end Position) {
	return x.Semi, x.Semi.add(";")
}

// An ImportStmt imports bindings from another module:
//	import Default, * as Namespace from "Module"
//	import Default, { Names } from "Module"
type ImportStmt struct {
	Import    Position
	Default   *Ident // may be nil
	Namespace *Ident // may be nil
	Names     []*ImportSpec
	Module    *Literal
}

func (x *ImportStmt) Span() (start, end Position) {
	_, end = x.Module.Span()
	return x.Import, end
}

// An ImportSpec is a named import: Imported as Local.
type ImportSpec struct {
	Imported *Ident
	Local    *Ident
}

func (x *ImportSpec) Span() (start, end Position) {
	start, _ = x.Imported.Span()
	_, end = x.Local.Span()
	return
}

// An ExportStmt exports bindings from this module:
//	export Decl
//	export default X
//	export { Names } [from "Module"]
type ExportStmt struct {
	Export  Position
	Default bool
	Decl    Stmt // *VarDecl, *FuncDecl or *ClassDecl; may be nil
	X       Expr // default export expression; may be nil
	Names   []*ExportSpec
	Module  *Literal // may be nil
	EndPos  Position
}

func (x *ExportStmt) Span() (start, end Position) {
	switch {
	case x.Decl != nil:
		_, end = x.Decl.Span()
	case x.X != nil:
		_, end = x.X.Span()
	default:
		end = x.EndPos
	}
	return x.Export, end
}

// An ExportSpec is a named export: Local as Exported.
type ExportSpec struct {
	Local    *Ident
	Exported *Ident
}

func (x *ExportSpec) Span() (start, end Position) {
	start, _ = x.Local.Span()
	_, end = x.Exported.Span()
	return
}

// An Expr is a JavaScript expression.
type Expr interface {
	Node
	expr()
}

func (*ArrayExpr) expr()    {}
func (*AssignExpr) expr()   {}
func (*BinaryExpr) expr()   {}
func (*CallExpr) expr()     {}
func (*ClassExpr) expr()    {}
func (*CondExpr) expr()     {}
func (*DotExpr) expr()      {}
func (*FuncLit) expr()      {}
func (*Ident) expr()        {}
func (*IndexExpr) expr()    {}
func (*Literal) expr()      {}
func (*MetaProperty) expr() {}
func (*Method) expr()       {}
func (*NewExpr) expr()      {}
func (*ObjectExpr) expr()   {}
func (*ParenExpr) expr()    {}
func (*SeqExpr) expr()      {}
func (*SpreadExpr) expr()   {}
func (*SuperExpr) expr()    {}
func (*ThisExpr) expr()     {}
func (*UnaryExpr) expr()    {}
func (*YieldExpr) expr()    {}

// An Ident represents an identifier.
type Ident struct {
	NamePos Position
	Name    string

	Binding *Binding // set by resolver for references and declarations
}

func (x *Ident) Span() (start, end Position) {
	return x.NamePos, x.NamePos.add(x.Name)
}

// A Literal represents a literal string, number, boolean, or null.
type Literal struct {
	Token    Token // = STRING | NUMBER | TRUE | FALSE | NULL
	TokenPos Position
	Raw      string      // uninterpreted text
	Value    interface{} // = string | float64 | bool | nil
}

func (x *Literal) Span() (start, end Position) {
	return x.TokenPos, x.TokenPos.add(x.Raw)
}

// A ThisExpr is a reference to the invoking context: this.
type ThisExpr struct {
	ThisPos Position
}

func (x *ThisExpr) Span() (start, end Position) {
	return x.ThisPos, x.ThisPos.add("this")
}

// A SuperExpr is the super keyword, as in super.m() or super(x).
type SuperExpr struct {
	SuperPos Position
}

func (x *SuperExpr) Span() (start, end Position) {
	return x.SuperPos, x.SuperPos.add("super")
}

// A MetaProperty represents new.target.
type MetaProperty struct {
	New      Position
	Property *Ident
}

func (x *MetaProperty) Span() (start, end Position) {
	_, end = x.Property.Span()
	return x.New, end
}

// A FuncLit represents a function expression or an arrow function.
type FuncLit struct {
	Arrow bool
	Name  *Ident // function expressions only; may be nil
	Function
}

func (x *FuncLit) Span() (start, end Position) { return x.Function.Span() }

// A ClassExpr represents a class expression.
type ClassExpr struct {
	Class
}

func (x *ClassExpr) Span() (start, end Position) { return x.Class.Span() }

// An ArrayExpr represents an array literal: [ List ].
type ArrayExpr struct {
	Lbrack Position
	List   []Expr
	Rbrack Position
}

func (x *ArrayExpr) Span() (start, end Position) {
	return x.Lbrack, x.Rbrack.add("]")
}

// An ObjectExpr represents an object literal: { Props }.
type ObjectExpr struct {
	Lbrace Position
	Props  []*Property
	Rbrace Position
}

func (x *ObjectExpr) Span() (start, end Position) {
	return x.Lbrace, x.Rbrace.add("}")
}

// A Property is an element of an object literal:
//	Key: Value
//	Key                 (Shorthand; Value is an Ident of the same name)
//	[Key]: Value        (Computed)
//	Key(params) { }     (Kind is MethodMember, GetMember or SetMember; Value is a *Method)
//	...Value            (Spread)
type Property struct {
	Kind      MemberKind
	Key       Expr // nil if Spread
	Value     Expr
	Computed  bool
	Shorthand bool
	Spread    Position // valid iff spread element
}

func (x *Property) Span() (start, end Position) {
	_, end = x.Value.Span()
	if x.Spread.IsValid() {
		return x.Spread, end
	}
	start, _ = x.Key.Span()
	return start, end
}

// A CallExpr represents a function call expression: Fn(Args).
type CallExpr struct {
	Fn       Expr
	Optional bool // Fn?.(Args)
	Lparen   Position
	Args     []Expr
	Rparen   Position
}

func (x *CallExpr) Span() (start, end Position) {
	start, _ = x.Fn.Span()
	return start, x.Rparen.add(")")
}

// A NewExpr represents a constructor call: new Fn(Args).
type NewExpr struct {
	New    Position
	Fn     Expr
	Args   []Expr
	Rparen Position // invalid if the argument list was omitted
}

func (x *NewExpr) Span() (start, end Position) {
	if x.Rparen.IsValid() {
		return x.New, x.Rparen.add(")")
	}
	_, end = x.Fn.Span()
	return x.New, end
}

// A DotExpr represents a property access: X.Name.
type DotExpr struct {
	X        Expr
	Optional bool // X?.Name
	Dot      Position
	Name     *Ident
}

func (x *DotExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	_, end = x.Name.Span()
	return
}

// An IndexExpr represents an index expression: X[Y].
type IndexExpr struct {
	X        Expr
	Optional bool // X?.[Y]
	Lbrack   Position
	Y        Expr
	Rbrack   Position
}

func (x *IndexExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	return start, x.Rbrack.add("]")
}

// A UnaryExpr represents a unary expression: Op X, or X Op if Postfix.
// Op is one of ! - + ~ typeof void delete await ++ --.
type UnaryExpr struct {
	OpPos   Position
	Op      Token
	X       Expr
	Postfix bool
}

func (x *UnaryExpr) Span() (start, end Position) {
	if x.Postfix {
		start, _ = x.X.Span()
		return start, x.OpPos.add(x.Op.String())
	}
	_, end = x.X.Span()
	return x.OpPos, end
}

// A BinaryExpr represents a binary or logical expression: X Op Y.
type BinaryExpr struct {
	X     Expr
	OpPos Position
	Op    Token
	Y     Expr
}

func (x *BinaryExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	_, end = x.Y.Span()
	return start, end
}

// An AssignExpr represents an assignment: LHS Op RHS.
type AssignExpr struct {
	LHS   Expr
	OpPos Position
	Op    Token // = EQ | PLUS_EQ | ...
	RHS   Expr
}

func (x *AssignExpr) Span() (start, end Position) {
	start, _ = x.LHS.Span()
	_, end = x.RHS.Span()
	return start, end
}

// A CondExpr represents the conditional: Cond ? True : False.
type CondExpr struct {
	Cond     Expr
	Question Position
	True     Expr
	Colon    Position
	False    Expr
}

func (x *CondExpr) Span() (start, end Position) {
	start, _ = x.Cond.Span()
	_, end = x.False.Span()
	return start, end
}

// A SeqExpr represents a comma-separated sequence of expressions.
type SeqExpr struct {
	List []Expr
}

func (x *SeqExpr) Span() (start, end Position) {
	return Start(x.List[0]), End(x.List[len(x.List)-1])
}

// A SpreadExpr represents ...X in an argument list or array literal.
type SpreadExpr struct {
	Ellipsis Position
	X        Expr
}

func (x *SpreadExpr) Span() (start, end Position) {
	_, end = x.X.Span()
	return x.Ellipsis, end
}

// A YieldExpr represents yield X or yield* X.
type YieldExpr struct {
	Yield    Position
	Delegate bool
	X        Expr // may be nil
}

func (x *YieldExpr) Span() (start, end Position) {
	if x.X == nil {
		return x.Yield, x.Yield.add("yield")
	}
	_, end = x.X.Span()
	return x.Yield, end
}

// A ParenExpr represents a parenthesized expression: (X).
type ParenExpr struct {
	Lparen Position
	X      Expr
	Rparen Position
}

func (x *ParenExpr) Span() (start, end Position) {
	return x.Lparen, x.Rparen.add(")")
}

// Unparen returns e with any enclosing parentheses stripped.
func Unparen(e Expr) Expr {
	for {
		p, ok := e.(*ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}
