// Copyright 2026 The Unclosure Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package interp provides a small tree-walking interpreter for the
// JavaScript subset accepted by package syntax.
//
// It exists so that tests can execute a program before and after
// transformation and compare what each prints with console.log.
// It implements the core semantics the transformation depends on:
// lexical scoping with temporal dead zones, per-iteration loop
// bindings, closures, the receiver (this) of ordinary and arrow
// functions, Function.prototype.bind, objects, arrays and simple
// classes. Generators, async functions, getters and setters, super,
// and modules are not supported, and are reported as errors.
package interp // import "go.unclosure.dev/internal/interp"

import (
	"fmt"
	"math"
	"os"
	"strings"

	"go.unclosure.dev/syntax"
)

const debug = false

// maxDepth bounds the depth of the call stack.
const maxDepth = 500

// A Thread contains the state of an execution, such as its call stack.
type Thread struct {
	// Print is the client-supplied implementation of console.log.
	// If nil, fmt.Fprintln(os.Stdout, msg) is used instead.
	Print func(thread *Thread, msg string)

	frame *Frame
	depth int
}

// A Frame holds the execution state of a single function call
// or of the top level of the file.
type Frame struct {
	thread *Thread
	parent *Frame
	fn     *Function // current function (nil at top level)
	this   Value
	result Value // operand of the current function's return statement
}

// An env is a lexical environment: a mapping of names to variables.
type env struct {
	vars   map[string]*variable
	parent *env
}

type variable struct {
	value    Value
	ready    bool // initialized; reads before initialization fail
	constant bool
}

func newEnv(parent *env) *env {
	return &env{vars: make(map[string]*variable), parent: parent}
}

func (e *env) declare(name string, v Value, ready, constant bool) {
	e.vars[name] = &variable{value: v, ready: ready, constant: constant}
}

func (e *env) lookup(name string) *variable {
	for ; e != nil; e = e.parent {
		if v := e.vars[name]; v != nil {
			return v
		}
	}
	return nil
}

// An EvalError reports a construct the interpreter does not support.
// Unlike an Exception it cannot be caught by the program.
type EvalError struct {
	Pos syntax.Position
	Msg string
}

func (e *EvalError) Error() string { return e.Pos.String() + ": " + e.Msg }

// An Exception is a value thrown and not caught by the program.
type Exception struct {
	Value Value
	Pos   syntax.Position // position of the throw
}

func (e *Exception) Error() string {
	return fmt.Sprintf("%s: uncaught exception: %s", e.Pos, Inspect(e.Value))
}

func unsupported(pos syntax.Position, format string, args ...interface{}) error {
	return &EvalError{Pos: pos, Msg: "unsupported: " + fmt.Sprintf(format, args...)}
}

// throwf returns an Exception whose value is a new error object
// of the named kind, such as "TypeError".
func throwf(pos syntax.Position, kind, format string, args ...interface{}) error {
	return &Exception{Value: makeError(kind, fmt.Sprintf(format, args...)), Pos: pos}
}

// Sentinel values used for control flow. Internal use only.
var (
	errContinue = fmt.Errorf("continue")
	errBreak    = fmt.Errorf("break")
	errReturn   = fmt.Errorf("return")
)

// ExecFile parses and executes a JavaScript file.
//
// The filename and src parameters are as for syntax.Parse.
//
// If the program throws an exception that is not caught, ExecFile
// returns an *Exception.
func ExecFile(thread *Thread, filename string, src interface{}) error {
	if debug {
		fmt.Printf("ExecFile %s\n", filename)
	}
	f, err := syntax.Parse(filename, src, 0)
	if err != nil {
		return err
	}
	e := newEnv(universe())
	fr := thread.push(nil, Undefined)
	defer thread.pop()
	declareVars(e, f.Stmts)
	declareLexical(fr, e, f.Stmts)
	err = execStmts(fr, e, f.Stmts)
	if err == errReturn || err == errBreak || err == errContinue {
		err = nil
	}
	return err
}

func (thread *Thread) push(fn *Function, this Value) *Frame {
	fr := &Frame{thread: thread, parent: thread.frame, fn: fn, this: this}
	thread.frame = fr
	thread.depth++
	return fr
}

func (thread *Thread) pop() {
	thread.frame = thread.frame.parent
	thread.depth--
}

// declareVars declares in e the names of all var declarations within
// stmts, other than those of nested functions, as undefined.
func declareVars(e *env, stmts []syntax.Stmt) {
	for _, stmt := range stmts {
		syntax.Walk(stmt, func(n syntax.Node) bool {
			switch n := n.(type) {
			case *syntax.FuncDecl, *syntax.FuncLit, *syntax.Method, *syntax.ClassDecl, *syntax.ClassExpr:
				return false
			case *syntax.VarDecl:
				if n.Token == syntax.VAR {
					for _, spec := range n.List {
						if e.vars[spec.Name.Name] == nil {
							e.declare(spec.Name.Name, Undefined, true, false)
						}
					}
				}
			}
			return true
		})
	}
}

// declareLexical declares in e the let, const, class and function
// declarations of a block. Function declarations are initialized
// immediately; the others remain uninitialized until executed.
func declareLexical(fr *Frame, e *env, stmts []syntax.Stmt) {
	for _, stmt := range stmts {
		if export, ok := stmt.(*syntax.ExportStmt); ok && export.Decl != nil {
			stmt = export.Decl
		}
		switch stmt := stmt.(type) {
		case *syntax.FuncDecl:
			e.declare(stmt.Name.Name, makeFunction(fr, e, &stmt.Function, stmt.Name.Name, false), true, false)
		case *syntax.ClassDecl:
			e.declare(stmt.Name.Name, nil, false, false)
		case *syntax.VarDecl:
			if stmt.Token != syntax.VAR {
				for _, spec := range stmt.List {
					e.declare(spec.Name.Name, nil, false, stmt.Token == syntax.CONST)
				}
			}
		}
	}
}

// initialize sets the value of the lexical variable name in e.
func initialize(e *env, name string, v Value) {
	x := e.vars[name]
	x.value, x.ready = v, true
}

func execStmts(fr *Frame, e *env, stmts []syntax.Stmt) error {
	for _, stmt := range stmts {
		if err := exec(fr, e, stmt); err != nil {
			return err
		}
	}
	return nil
}

func execBlock(fr *Frame, e *env, stmts []syntax.Stmt) error {
	inner := newEnv(e)
	declareLexical(fr, inner, stmts)
	return execStmts(fr, inner, stmts)
}

func exec(fr *Frame, e *env, stmt syntax.Stmt) error {
	switch stmt := stmt.(type) {
	case *syntax.EmptyStmt, *syntax.FuncDecl:
		return nil

	case *syntax.ExprStmt:
		_, err := eval(fr, e, stmt.X)
		return err

	case *syntax.VarDecl:
		for _, spec := range stmt.List {
			name := spec.Name.Name
			if stmt.Token == syntax.VAR {
				if spec.Init == nil {
					continue
				}
				v, err := evalNamed(fr, e, spec.Init, name)
				if err != nil {
					return err
				}
				e.lookup(name).value = v
				continue
			}
			v := Undefined
			if spec.Init != nil {
				var err error
				if v, err = evalNamed(fr, e, spec.Init, name); err != nil {
					return err
				}
			}
			initialize(e, name, v)
		}
		return nil

	case *syntax.ClassDecl:
		cls, err := evalClass(fr, e, &stmt.Class, stmt.Name.Name)
		if err != nil {
			return err
		}
		initialize(e, stmt.Name.Name, cls)
		return nil

	case *syntax.ReturnStmt:
		fr.result = Undefined
		if stmt.Result != nil {
			v, err := eval(fr, e, stmt.Result)
			if err != nil {
				return err
			}
			fr.result = v
		}
		return errReturn

	case *syntax.IfStmt:
		cond, err := eval(fr, e, stmt.Cond)
		if err != nil {
			return err
		}
		if cond.Truth() {
			return exec(fr, e, stmt.Then)
		} else if stmt.Else != nil {
			return exec(fr, e, stmt.Else)
		}
		return nil

	case *syntax.BlockStmt:
		return execBlock(fr, e, stmt.List)

	case *syntax.ForStmt:
		return execFor(fr, e, stmt)

	case *syntax.ForInStmt:
		return execForIn(fr, e, stmt)

	case *syntax.WhileStmt:
		for {
			cond, err := eval(fr, e, stmt.Cond)
			if err != nil {
				return err
			}
			if !cond.Truth() {
				return nil
			}
			if brk, err := loopBody(fr, e, stmt.Body); brk || err != nil {
				return err
			}
		}

	case *syntax.DoWhileStmt:
		for {
			if brk, err := loopBody(fr, e, stmt.Body); brk || err != nil {
				return err
			}
			cond, err := eval(fr, e, stmt.Cond)
			if err != nil {
				return err
			}
			if !cond.Truth() {
				return nil
			}
		}

	case *syntax.BranchStmt:
		if stmt.Token == syntax.BREAK {
			return errBreak
		}
		return errContinue

	case *syntax.ThrowStmt:
		v, err := eval(fr, e, stmt.X)
		if err != nil {
			return err
		}
		return &Exception{Value: v, Pos: stmt.Throw}

	case *syntax.TryStmt:
		return execTry(fr, e, stmt)

	case *syntax.SwitchStmt:
		return execSwitch(fr, e, stmt)

	case *syntax.ExportStmt:
		if stmt.Module != nil {
			return unsupported(stmt.Export, "re-export")
		}
		if stmt.Decl != nil {
			return exec(fr, e, stmt.Decl)
		}
		if stmt.X != nil {
			_, err := eval(fr, e, stmt.X)
			return err
		}
		return nil

	case *syntax.ImportStmt:
		return unsupported(stmt.Import, "import")
	}
	start, _ := stmt.Span()
	return unsupported(start, "statement %T", stmt)
}

// loopBody executes the body of a loop. It reports whether the loop
// should stop, because of a break, a return or an error.
func loopBody(fr *Frame, e *env, body syntax.Stmt) (stop bool, err error) {
	switch err := exec(fr, e, body); err {
	case nil, errContinue:
		return false, nil
	case errBreak:
		return true, nil
	default:
		return true, err
	}
}

// execFor executes a classic for loop. A let declaration in the loop
// head gets a fresh binding for each iteration, initialized from the
// previous one.
func execFor(fr *Frame, e *env, stmt *syntax.ForStmt) error {
	loop := newEnv(e)
	var perIteration []string
	if decl, ok := stmt.Init.(*syntax.VarDecl); ok && decl.Token != syntax.VAR {
		declareLexical(fr, loop, []syntax.Stmt{decl})
		if decl.Token == syntax.LET {
			for _, spec := range decl.List {
				perIteration = append(perIteration, spec.Name.Name)
			}
		}
	}
	if stmt.Init != nil {
		if err := exec(fr, loop, stmt.Init); err != nil {
			return err
		}
	}
	for {
		if stmt.Cond != nil {
			cond, err := eval(fr, loop, stmt.Cond)
			if err != nil {
				return err
			}
			if !cond.Truth() {
				return nil
			}
		}
		if brk, err := loopBody(fr, loop, stmt.Body); brk || err != nil {
			return err
		}
		if len(perIteration) > 0 {
			next := newEnv(e)
			for _, name := range perIteration {
				x := *loop.vars[name]
				next.vars[name] = &x
			}
			loop = next
		}
		if stmt.Post != nil {
			if _, err := eval(fr, loop, stmt.Post); err != nil {
				return err
			}
		}
	}
}

func execForIn(fr *Frame, e *env, stmt *syntax.ForInStmt) error {
	x, err := eval(fr, e, stmt.X)
	if err != nil {
		return err
	}
	var items []Value
	if stmt.Of {
		switch x := x.(type) {
		case *Array:
			items = append(items, x.elems...)
		case String:
			for _, r := range string(x) {
				items = append(items, String(r))
			}
		default:
			return throwf(syntax.Start(stmt.X), "TypeError", "%s is not iterable", x.Type())
		}
	} else {
		switch x := x.(type) {
		case *Object:
			for _, k := range x.keys {
				items = append(items, String(k))
			}
		case *Array:
			for i := range x.elems {
				items = append(items, String(Number(i).String()))
			}
		}
	}
	for _, item := range items {
		iter := e
		switch {
		case stmt.Decl == nil:
			if err := assign(fr, e, stmt.Target, item); err != nil {
				return err
			}
		case stmt.Decl.Token == syntax.VAR:
			e.lookup(stmt.Decl.List[0].Name.Name).value = item
		default:
			iter = newEnv(e)
			iter.declare(stmt.Decl.List[0].Name.Name, item, true, stmt.Decl.Token == syntax.CONST)
		}
		if brk, err := loopBody(fr, iter, stmt.Body); brk || err != nil {
			return err
		}
	}
	return nil
}

func execTry(fr *Frame, e *env, stmt *syntax.TryStmt) error {
	err := execBlock(fr, e, stmt.Body.List)
	if exc, ok := err.(*Exception); ok && stmt.Catch != nil {
		handler := newEnv(e)
		if stmt.Param != nil {
			handler.declare(stmt.Param.Name, exc.Value, true, false)
		}
		err = execBlock(fr, handler, stmt.Catch.List)
	}
	if stmt.Finally != nil {
		result := fr.result
		if ferr := execBlock(fr, e, stmt.Finally.List); ferr != nil {
			return ferr
		}
		fr.result = result
	}
	return err
}

func execSwitch(fr *Frame, e *env, stmt *syntax.SwitchStmt) error {
	tag, err := eval(fr, e, stmt.Tag)
	if err != nil {
		return err
	}
	body := newEnv(e)
	for _, clause := range stmt.Cases {
		declareLexical(fr, body, clause.Body)
	}
	start := -1
	for i, clause := range stmt.Cases {
		if clause.Value == nil {
			continue
		}
		v, err := eval(fr, body, clause.Value)
		if err != nil {
			return err
		}
		if strictEquals(tag, v) {
			start = i
			break
		}
	}
	if start < 0 {
		for i, clause := range stmt.Cases {
			if clause.Value == nil {
				start = i
			}
		}
	}
	if start < 0 {
		return nil
	}
	for _, clause := range stmt.Cases[start:] {
		if err := execStmts(fr, body, clause.Body); err != nil {
			if err == errBreak {
				return nil
			}
			return err
		}
	}
	return nil
}

// evalNamed evaluates x, giving an anonymous function or class the
// specified name.
func evalNamed(fr *Frame, e *env, x syntax.Expr, name string) (Value, error) {
	switch x := x.(type) {
	case *syntax.FuncLit:
		if x.Name == nil {
			return makeFunction(fr, e, &x.Function, name, x.Arrow), nil
		}
	case *syntax.ClassExpr:
		if x.Name == nil {
			return evalClass(fr, e, &x.Class, name)
		}
	}
	return eval(fr, e, x)
}

func eval(fr *Frame, e *env, x syntax.Expr) (Value, error) {
	switch x := x.(type) {
	case *syntax.Ident:
		return lookup(e, x)

	case *syntax.Literal:
		switch v := x.Value.(type) {
		case string:
			return String(v), nil
		case float64:
			return Number(v), nil
		case bool:
			return Bool(v), nil
		}
		return Null, nil

	case *syntax.ThisExpr:
		return fr.this, nil

	case *syntax.ParenExpr:
		return eval(fr, e, x.X)

	case *syntax.FuncLit:
		if x.Name == nil {
			return makeFunction(fr, e, &x.Function, "", x.Arrow), nil
		}
		// A named function expression sees its own name.
		own := newEnv(e)
		fn := makeFunction(fr, own, &x.Function, x.Name.Name, x.Arrow)
		own.declare(x.Name.Name, fn, true, true)
		return fn, nil

	case *syntax.ClassExpr:
		name := ""
		if x.Name != nil {
			name = x.Name.Name
		}
		return evalClass(fr, e, &x.Class, name)

	case *syntax.ArrayExpr:
		elems, err := evalList(fr, e, x.List)
		if err != nil {
			return nil, err
		}
		return NewArray(elems), nil

	case *syntax.ObjectExpr:
		return evalObject(fr, e, x)

	case *syntax.DotExpr:
		obj, err := eval(fr, e, x.X)
		if err != nil {
			return nil, err
		}
		if x.Optional && nullish(obj) {
			return Undefined, nil
		}
		return getProp(obj, x.Name.Name, x.Dot)

	case *syntax.IndexExpr:
		obj, err := eval(fr, e, x.X)
		if err != nil {
			return nil, err
		}
		if x.Optional && nullish(obj) {
			return Undefined, nil
		}
		key, err := eval(fr, e, x.Y)
		if err != nil {
			return nil, err
		}
		return getProp(obj, propertyKey(key), x.Lbrack)

	case *syntax.CallExpr:
		return evalCall(fr, e, x)

	case *syntax.NewExpr:
		callee, err := eval(fr, e, x.Fn)
		if err != nil {
			return nil, err
		}
		args, err := evalList(fr, e, x.Args)
		if err != nil {
			return nil, err
		}
		return construct(fr.thread, x.New, callee, args)

	case *syntax.UnaryExpr:
		return evalUnary(fr, e, x)

	case *syntax.BinaryExpr:
		switch x.Op {
		case syntax.ANDAND, syntax.OROR, syntax.QQ:
			left, err := eval(fr, e, x.X)
			if err != nil {
				return nil, err
			}
			if shortCircuit(x.Op, left) {
				return left, nil
			}
			return eval(fr, e, x.Y)
		}
		left, err := eval(fr, e, x.X)
		if err != nil {
			return nil, err
		}
		right, err := eval(fr, e, x.Y)
		if err != nil {
			return nil, err
		}
		return Binary(x.OpPos, x.Op, left, right)

	case *syntax.AssignExpr:
		return evalAssign(fr, e, x)

	case *syntax.CondExpr:
		cond, err := eval(fr, e, x.Cond)
		if err != nil {
			return nil, err
		}
		if cond.Truth() {
			return eval(fr, e, x.True)
		}
		return eval(fr, e, x.False)

	case *syntax.SeqExpr:
		var v Value = Undefined
		for _, y := range x.List {
			var err error
			if v, err = eval(fr, e, y); err != nil {
				return nil, err
			}
		}
		return v, nil

	case *syntax.SuperExpr:
		return nil, unsupported(x.SuperPos, "super")
	case *syntax.MetaProperty:
		return nil, unsupported(x.New, "new.%s", x.Property.Name)
	case *syntax.YieldExpr:
		return nil, unsupported(x.Yield, "yield")
	case *syntax.SpreadExpr:
		return nil, unsupported(x.Ellipsis, "spread in this context")
	}
	start, _ := x.Span()
	return nil, unsupported(start, "expression %T", x)
}

func nullish(v Value) bool { return v == Undefined || v == Null }

// shortCircuit reports whether the logical operator op yields its
// left operand x without evaluating its right operand.
func shortCircuit(op syntax.Token, x Value) bool {
	switch op {
	case syntax.ANDAND, syntax.ANDAND_EQ:
		return !x.Truth()
	case syntax.OROR, syntax.OROR_EQ:
		return x.Truth()
	}
	return !nullish(x) // ?? and ??=
}

func lookup(e *env, id *syntax.Ident) (Value, error) {
	v := e.lookup(id.Name)
	if v == nil {
		return nil, throwf(id.NamePos, "ReferenceError", "%s is not defined", id.Name)
	}
	if !v.ready {
		return nil, throwf(id.NamePos, "ReferenceError", "Cannot access '%s' before initialization", id.Name)
	}
	return v.value, nil
}

// evalList evaluates a list of expressions, expanding spread elements.
func evalList(fr *Frame, e *env, list []syntax.Expr) ([]Value, error) {
	var values []Value
	for _, x := range list {
		if spread, ok := x.(*syntax.SpreadExpr); ok {
			v, err := eval(fr, e, spread.X)
			if err != nil {
				return nil, err
			}
			arr, ok := v.(*Array)
			if !ok {
				return nil, throwf(spread.Ellipsis, "TypeError", "%s is not iterable", v.Type())
			}
			values = append(values, arr.elems...)
			continue
		}
		v, err := eval(fr, e, x)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func evalObject(fr *Frame, e *env, x *syntax.ObjectExpr) (Value, error) {
	obj := NewObject(objectPrototype)
	for _, prop := range x.Props {
		if prop.Spread.IsValid() {
			v, err := eval(fr, e, prop.Value)
			if err != nil {
				return nil, err
			}
			switch v := v.(type) {
			case *Object:
				for _, k := range v.keys {
					obj.Set(k, v.props[k])
				}
			case *Array:
				for i, elem := range v.elems {
					obj.Set(Number(i).String(), elem)
				}
			}
			continue
		}
		key, err := propKey(fr, e, prop.Key, prop.Computed)
		if err != nil {
			return nil, err
		}
		var v Value
		switch prop.Kind {
		case syntax.FieldMember:
			v, err = evalNamed(fr, e, prop.Value, key)
		case syntax.MethodMember:
			v = makeFunction(fr, e, &prop.Value.(*syntax.Method).Function, key, false)
		default:
			err = unsupported(syntax.Start(prop), "%s accessor", prop.Kind)
		}
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
	}
	return obj, nil
}

// propKey returns the name of a property or class member.
func propKey(fr *Frame, e *env, key syntax.Expr, computed bool) (string, error) {
	if !computed {
		switch key := key.(type) {
		case *syntax.Ident:
			return key.Name, nil
		case *syntax.Literal:
			if s, ok := key.Value.(string); ok {
				return s, nil
			}
		}
	}
	v, err := eval(fr, e, key)
	if err != nil {
		return "", err
	}
	return propertyKey(v), nil
}

func evalCall(fr *Frame, e *env, call *syntax.CallExpr) (Value, error) {
	var callee Value
	this := Undefined
	var err error
	switch fn := syntax.Unparen(call.Fn).(type) {
	case *syntax.DotExpr:
		if this, err = eval(fr, e, fn.X); err != nil {
			return nil, err
		}
		if fn.Optional && nullish(this) {
			return Undefined, nil
		}
		if callee, err = getProp(this, fn.Name.Name, fn.Dot); err != nil {
			return nil, err
		}
	case *syntax.IndexExpr:
		if this, err = eval(fr, e, fn.X); err != nil {
			return nil, err
		}
		if fn.Optional && nullish(this) {
			return Undefined, nil
		}
		key, err := eval(fr, e, fn.Y)
		if err != nil {
			return nil, err
		}
		if callee, err = getProp(this, propertyKey(key), fn.Lbrack); err != nil {
			return nil, err
		}
	default:
		if callee, err = eval(fr, e, call.Fn); err != nil {
			return nil, err
		}
	}
	if call.Optional && nullish(callee) {
		return Undefined, nil
	}
	args, err := evalList(fr, e, call.Args)
	if err != nil {
		return nil, err
	}
	c, ok := callee.(Callable)
	if !ok {
		return nil, throwf(call.Lparen, "TypeError", "%s is not a function", syntax.Format(call.Fn))
	}
	return Call(fr.thread, c, this, args)
}

// Call calls the function fn with the specified receiver and arguments.
func Call(thread *Thread, fn Callable, this Value, args []Value) (Value, error) {
	if thread.depth >= maxDepth {
		var pos syntax.Position
		if f, ok := fn.(*Function); ok {
			pos = f.pos
		}
		return nil, throwf(pos, "RangeError", "Maximum call stack size exceeded")
	}
	return fn.Call(thread, this, args)
}

// makeFunction returns the function value for a function, arrow
// function or method defined in environment e.
func makeFunction(fr *Frame, e *env, function *syntax.Function, name string, arrow bool) *Function {
	fn := &Function{
		name:   name,
		pos:    function.StartPos,
		syntax: function,
		arrow:  arrow,
		env:    e,
	}
	if arrow {
		fn.this = fr.this
	}
	return fn
}

func (fn *Function) Call(thread *Thread, this Value, args []Value) (Value, error) {
	if fn.class != nil {
		return nil, throwf(fn.pos, "TypeError", "Class constructor %s cannot be invoked without 'new'", fn.name)
	}
	return fn.invoke(thread, this, args)
}

func (fn *Function) invoke(thread *Thread, this Value, args []Value) (Value, error) {
	if fn.syntax.Generator || fn.syntax.Async {
		return nil, unsupported(fn.pos, "generator and async functions")
	}
	if fn.arrow {
		this = fn.this
	}
	fr := thread.push(fn, this)
	defer thread.pop()

	e := newEnv(fn.env)
	if !fn.arrow {
		e.declare("arguments", NewArray(append([]Value(nil), args...)), true, false)
	}
	for i, param := range fn.syntax.Params {
		if param.Rest() {
			var rest []Value
			if i < len(args) {
				rest = append(rest, args[i:]...)
			}
			e.declare(param.Name.Name, NewArray(rest), true, false)
			break
		}
		v := Undefined
		if i < len(args) {
			v = args[i]
		}
		if v == Undefined && param.Default != nil {
			// Later parameters are in their temporal dead zone.
			for _, later := range fn.syntax.Params[i:] {
				if e.vars[later.Name.Name] == nil {
					e.declare(later.Name.Name, nil, false, false)
				}
			}
			var err error
			if v, err = evalNamed(fr, e, param.Default, param.Name.Name); err != nil {
				return nil, err
			}
		}
		e.declare(param.Name.Name, v, true, false)
	}

	if fn.syntax.Body == nil {
		return eval(fr, e, fn.syntax.ExprBody)
	}
	body := fn.syntax.Body.List
	declareVars(e, body)
	declareLexical(fr, e, body)
	switch err := execStmts(fr, e, body); err {
	case nil:
		return Undefined, nil
	case errReturn:
		return fr.result, nil
	case errBreak, errContinue:
		return nil, unsupported(fn.pos, "labeled or misplaced break")
	default:
		return nil, err
	}
}

// construct implements new callee(args...).
func construct(thread *Thread, pos syntax.Position, callee Value, args []Value) (Value, error) {
	switch fn := callee.(type) {
	case *Function:
		if fn.arrow {
			break
		}
		obj := NewObject(fn.prototype())
		if fn.class != nil {
			if err := fn.class.initFields(thread, obj); err != nil {
				return nil, err
			}
			if fn.class.ctor == nil {
				return obj, nil
			}
			fn = fn.class.ctor
		}
		if thread.depth >= maxDepth {
			return nil, throwf(pos, "RangeError", "Maximum call stack size exceeded")
		}
		result, err := fn.invoke(thread, obj, args)
		if err != nil {
			return nil, err
		}
		switch result.(type) {
		case *Object, *Array, Callable:
			return result, nil
		}
		return obj, nil

	case *Bound:
		return construct(thread, pos, fn.target, append(append([]Value(nil), fn.args...), args...))

	case *Builtin:
		if constructors[fn.name] {
			return fn.Call(thread, Undefined, args)
		}
	}
	return nil, throwf(pos, "TypeError", "%s is not a constructor", Inspect(callee))
}

// evalClass returns the constructor of a class.
// The class's own name is visible within its body.
func evalClass(fr *Frame, e *env, c *syntax.Class, name string) (*Function, error) {
	if c.Extends != nil {
		return nil, unsupported(c.ClassPos, "class inheritance")
	}
	ce := e
	if c.Name != nil {
		ce = newEnv(e)
		ce.declare(c.Name.Name, nil, false, true)
	}
	cls := &class{env: ce}
	fn := &Function{name: name, pos: c.ClassPos, env: ce, class: cls}
	proto := fn.prototype()
	statics := fn.properties()

	// Static fields are initialized after all methods are defined.
	type field struct {
		key   string
		value syntax.Expr
	}
	var staticFields []field
	for _, m := range c.Members {
		key, err := propKey(fr, ce, m.Key, m.Computed)
		if err != nil {
			return nil, err
		}
		switch m.Kind {
		case syntax.CtorMember:
			cls.ctor = makeFunction(fr, ce, &m.Method.Function, name, false)
		case syntax.MethodMember:
			target := proto
			if m.Static {
				target = statics
			}
			target.Set(key, makeFunction(fr, ce, &m.Method.Function, key, false))
		case syntax.FieldMember:
			if m.Static {
				staticFields = append(staticFields, field{key, m.Value})
			} else {
				cls.fields = append(cls.fields, m)
			}
		default:
			return nil, unsupported(m.StartPos, "%s accessor", m.Kind)
		}
	}
	if c.Name != nil {
		initialize(ce, c.Name.Name, fn)
	}
	for _, f := range staticFields {
		v := Undefined
		if f.value != nil {
			sfr := fr.thread.push(nil, fn)
			var err error
			v, err = evalNamed(sfr, newEnv(ce), f.value, f.key)
			fr.thread.pop()
			if err != nil {
				return nil, err
			}
		}
		statics.Set(f.key, v)
	}
	return fn, nil
}

// initFields initializes the instance fields of obj, in order,
// with obj as the receiver of each initializer.
func (cls *class) initFields(thread *Thread, obj *Object) error {
	fr := thread.push(nil, obj)
	defer thread.pop()
	for _, m := range cls.fields {
		e := newEnv(cls.env)
		key, err := propKey(fr, e, m.Key, m.Computed)
		if err != nil {
			return err
		}
		v := Undefined
		if m.Value != nil {
			if v, err = evalNamed(fr, e, m.Value, key); err != nil {
				return err
			}
		}
		obj.Set(key, v)
	}
	return nil
}

func evalUnary(fr *Frame, e *env, x *syntax.UnaryExpr) (Value, error) {
	switch x.Op {
	case syntax.INC, syntax.DEC:
		ref, err := evalRef(fr, e, x.X)
		if err != nil {
			return nil, err
		}
		old, err := ref.get()
		if err != nil {
			return nil, err
		}
		n := toNumber(old)
		updated := n + 1
		if x.Op == syntax.DEC {
			updated = n - 1
		}
		if err := ref.set(updated); err != nil {
			return nil, err
		}
		if x.Postfix {
			return n, nil
		}
		return updated, nil

	case syntax.TYPEOF:
		if id, ok := syntax.Unparen(x.X).(*syntax.Ident); ok && e.lookup(id.Name) == nil {
			return String("undefined"), nil
		}
		v, err := eval(fr, e, x.X)
		if err != nil {
			return nil, err
		}
		return String(v.Type()), nil

	case syntax.DELETE:
		var obj, key syntax.Expr
		var name string
		switch y := syntax.Unparen(x.X).(type) {
		case *syntax.DotExpr:
			obj, name = y.X, y.Name.Name
		case *syntax.IndexExpr:
			obj, key = y.X, y.Y
		default:
			return Bool(true), nil
		}
		o, err := eval(fr, e, obj)
		if err != nil {
			return nil, err
		}
		if key != nil {
			k, err := eval(fr, e, key)
			if err != nil {
				return nil, err
			}
			name = propertyKey(k)
		}
		if o, ok := o.(*Object); ok {
			o.Delete(name)
		}
		return Bool(true), nil

	case syntax.AWAIT:
		return nil, unsupported(x.OpPos, "await")
	}

	v, err := eval(fr, e, x.X)
	if err != nil {
		return nil, err
	}
	return Unary(x.Op, v)
}

// Unary applies a unary operator (! - + ~ void) to its operand.
func Unary(op syntax.Token, x Value) (Value, error) {
	switch op {
	case syntax.BANG:
		return !Bool(x.Truth()), nil
	case syntax.MINUS:
		return -toNumber(toPrimitive(x)), nil
	case syntax.PLUS:
		return toNumber(toPrimitive(x)), nil
	case syntax.TILDE:
		return Number(^toInt32(x)), nil
	case syntax.VOID:
		return Undefined, nil
	}
	return nil, fmt.Errorf("unknown unary op: %s", op)
}

// toPrimitive converts objects to strings and leaves other values alone.
func toPrimitive(v Value) Value {
	switch v.(type) {
	case *Object, *Array, Callable:
		return String(v.String())
	}
	return v
}

// Binary applies a strict binary operator (not && || ??) to its operands.
func Binary(pos syntax.Position, op syntax.Token, x, y Value) (Value, error) {
	switch op {
	case syntax.PLUS:
		px, py := toPrimitive(x), toPrimitive(y)
		_, xs := px.(String)
		_, ys := py.(String)
		if xs || ys {
			return String(px.String() + py.String()), nil
		}
		return toNumber(px) + toNumber(py), nil
	case syntax.MINUS:
		return toNumber(toPrimitive(x)) - toNumber(toPrimitive(y)), nil
	case syntax.STAR:
		return toNumber(toPrimitive(x)) * toNumber(toPrimitive(y)), nil
	case syntax.SLASH:
		return toNumber(toPrimitive(x)) / toNumber(toPrimitive(y)), nil
	case syntax.PERCENT:
		return Number(math.Mod(float64(toNumber(toPrimitive(x))), float64(toNumber(toPrimitive(y))))), nil
	case syntax.STARSTAR:
		return Number(math.Pow(float64(toNumber(toPrimitive(x))), float64(toNumber(toPrimitive(y))))), nil
	case syntax.AMP:
		return Number(toInt32(x) & toInt32(y)), nil
	case syntax.PIPE:
		return Number(toInt32(x) | toInt32(y)), nil
	case syntax.CIRCUMFLEX:
		return Number(toInt32(x) ^ toInt32(y)), nil
	case syntax.LTLT:
		return Number(toInt32(x) << (toUint32(y) & 31)), nil
	case syntax.GTGT:
		return Number(toInt32(x) >> (toUint32(y) & 31)), nil
	case syntax.GTGTGT:
		return Number(toUint32(x) >> (toUint32(y) & 31)), nil
	case syntax.EQLEQL:
		return Bool(strictEquals(x, y)), nil
	case syntax.NEQEQ:
		return Bool(!strictEquals(x, y)), nil
	case syntax.EQL:
		return Bool(looseEquals(x, y)), nil
	case syntax.NEQ:
		return Bool(!looseEquals(x, y)), nil
	case syntax.LT, syntax.LE, syntax.GT, syntax.GE:
		return Bool(compare(op, toPrimitive(x), toPrimitive(y))), nil
	case syntax.IN:
		key := propertyKey(x)
		switch y := y.(type) {
		case *Object:
			return Bool(y.Has(key)), nil
		case *Array:
			if key == "length" {
				return Bool(true), nil
			}
			i, ok := arrayIndex(key)
			return Bool(ok && i < len(y.elems)), nil
		case *Function:
			return Bool(y.properties().Has(key)), nil
		}
		return nil, throwf(pos, "TypeError", "Cannot use 'in' operator to search for '%s' in %s", key, Inspect(y))
	case syntax.INSTANCEOF:
		fn, ok := y.(*Function)
		if !ok {
			return nil, throwf(pos, "TypeError", "Right-hand side of 'instanceof' is not callable")
		}
		obj, ok := x.(*Object)
		if !ok {
			return Bool(false), nil
		}
		proto := fn.prototype()
		for p := obj.proto; p != nil; p = p.proto {
			if p == proto {
				return Bool(true), nil
			}
		}
		return Bool(false), nil
	}
	return nil, fmt.Errorf("unknown binary op: %s", op)
}

func compare(op syntax.Token, x, y Value) bool {
	xs, xok := x.(String)
	ys, yok := y.(String)
	if xok && yok {
		switch op {
		case syntax.LT:
			return xs < ys
		case syntax.LE:
			return xs <= ys
		case syntax.GT:
			return xs > ys
		}
		return xs >= ys
	}
	a, b := toNumber(x), toNumber(y)
	switch op {
	case syntax.LT:
		return a < b
	case syntax.LE:
		return a <= b
	case syntax.GT:
		return a > b
	}
	return a >= b
}

// A reference is an assignable location, evaluated once.
type reference struct {
	get func() (Value, error)
	set func(Value) error
}

func evalRef(fr *Frame, e *env, x syntax.Expr) (reference, error) {
	switch x := syntax.Unparen(x).(type) {
	case *syntax.Ident:
		return reference{
			get: func() (Value, error) { return lookup(e, x) },
			set: func(v Value) error { return setVar(e, x, v) },
		}, nil

	case *syntax.DotExpr:
		obj, err := eval(fr, e, x.X)
		if err != nil {
			return reference{}, err
		}
		return propRef(obj, x.Name.Name, x.Dot), nil

	case *syntax.IndexExpr:
		obj, err := eval(fr, e, x.X)
		if err != nil {
			return reference{}, err
		}
		key, err := eval(fr, e, x.Y)
		if err != nil {
			return reference{}, err
		}
		return propRef(obj, propertyKey(key), x.Lbrack), nil
	}
	return reference{}, unsupported(syntax.Start(x), "assignment to %T", x)
}

func propRef(obj Value, name string, pos syntax.Position) reference {
	return reference{
		get: func() (Value, error) { return getProp(obj, name, pos) },
		set: func(v Value) error { return setProp(obj, name, v, pos) },
	}
}

func setVar(e *env, id *syntax.Ident, v Value) error {
	x := e.lookup(id.Name)
	switch {
	case x == nil:
		return throwf(id.NamePos, "ReferenceError", "%s is not defined", id.Name)
	case !x.ready:
		return throwf(id.NamePos, "ReferenceError", "Cannot access '%s' before initialization", id.Name)
	case x.constant:
		return throwf(id.NamePos, "TypeError", "Assignment to constant variable.")
	}
	x.value = v
	return nil
}

// assign stores v in the location denoted by lhs.
func assign(fr *Frame, e *env, lhs syntax.Expr, v Value) error {
	ref, err := evalRef(fr, e, lhs)
	if err != nil {
		return err
	}
	return ref.set(v)
}

func evalAssign(fr *Frame, e *env, x *syntax.AssignExpr) (Value, error) {
	ref, err := evalRef(fr, e, x.LHS)
	if err != nil {
		return nil, err
	}
	var v Value
	switch x.Op {
	case syntax.EQ:
		name := ""
		if id, ok := syntax.Unparen(x.LHS).(*syntax.Ident); ok {
			name = id.Name
		}
		if v, err = evalNamed(fr, e, x.RHS, name); err != nil {
			return nil, err
		}

	case syntax.ANDAND_EQ, syntax.OROR_EQ, syntax.QQ_EQ:
		old, err := ref.get()
		if err != nil {
			return nil, err
		}
		if shortCircuit(x.Op, old) {
			return old, nil
		}
		if v, err = eval(fr, e, x.RHS); err != nil {
			return nil, err
		}

	default:
		old, err := ref.get()
		if err != nil {
			return nil, err
		}
		y, err := eval(fr, e, x.RHS)
		if err != nil {
			return nil, err
		}
		if v, err = Binary(x.OpPos, binaryOp[x.Op], old, y); err != nil {
			return nil, err
		}
	}
	if err := ref.set(v); err != nil {
		return nil, err
	}
	return v, nil
}

// binaryOp maps each compound assignment operator to its binary operator.
var binaryOp = map[syntax.Token]syntax.Token{
	syntax.PLUS_EQ:       syntax.PLUS,
	syntax.MINUS_EQ:      syntax.MINUS,
	syntax.STAR_EQ:       syntax.STAR,
	syntax.SLASH_EQ:      syntax.SLASH,
	syntax.PERCENT_EQ:    syntax.PERCENT,
	syntax.STARSTAR_EQ:   syntax.STARSTAR,
	syntax.AMP_EQ:        syntax.AMP,
	syntax.PIPE_EQ:       syntax.PIPE,
	syntax.CIRCUMFLEX_EQ: syntax.CIRCUMFLEX,
	syntax.LTLT_EQ:       syntax.LTLT,
	syntax.GTGT_EQ:       syntax.GTGT,
	syntax.GTGTGT_EQ:     syntax.GTGTGT,
}

// print writes a line of console.log output.
func (thread *Thread) print(msg string) {
	if thread.Print != nil {
		thread.Print(thread, msg)
	} else {
		fmt.Fprintln(os.Stdout, msg)
	}
}

func joinInspect(args []Value) string {
	strs := make([]string, len(args))
	for i, arg := range args {
		strs[i] = Inspect(arg)
	}
	return strings.Join(strs, " ")
}
