// Copyright 2026 The Unclosure Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package interp

// This file defines the data types of the interpreter.
//
// The values are:
//
//	Undefined, Null   -- the two unit values
//	Bool              -- true or false
//	Number            -- IEEE 754 double
//	String            -- immutable string
//	*Object           -- mutable record with a prototype
//	*Array            -- mutable list
//	*Function         -- function or class defined by the program
//	*Builtin          -- function implemented in Go
//	*Bound            -- result of Function.prototype.bind

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.unclosure.dev/syntax"
)

// A Value is a JavaScript value.
type Value interface {
	// String returns the string representation of the value,
	// as converted by the String function.
	String() string

	// Type returns the result of typeof applied to the value.
	Type() string

	// Truth returns the truth value of the value.
	Truth() bool
}

// A Callable value may be the operand of a function call.
type Callable interface {
	Value
	Name() string
	Call(thread *Thread, this Value, args []Value) (Value, error)
}

var (
	_ Callable = (*Function)(nil)
	_ Callable = (*Builtin)(nil)
	_ Callable = (*Bound)(nil)
)

type undefinedType struct{}
type nullType struct{}

// The unit values.
var (
	Undefined Value = undefinedType{}
	Null      Value = nullType{}
)

func (undefinedType) String() string { return "undefined" }
func (undefinedType) Type() string   { return "undefined" }
func (undefinedType) Truth() bool    { return false }

func (nullType) String() string { return "null" }
func (nullType) Type() string   { return "object" }
func (nullType) Truth() bool    { return false }

// Bool is the type of a boolean value.
type Bool bool

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }
func (Bool) Type() string     { return "boolean" }
func (b Bool) Truth() bool    { return bool(b) }

// Number is the type of a numeric value.
type Number float64

func (x Number) String() string {
	f := float64(x)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, +1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0" // includes -0
	}
	if abs := math.Abs(f); abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		return strings.Replace(s, "e-0", "e-", 1)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
func (Number) Type() string  { return "number" }
func (x Number) Truth() bool { return x != 0 && !math.IsNaN(float64(x)) }

// String is the type of a string value.
type String string

func (s String) String() string { return string(s) }
func (String) Type() string     { return "string" }
func (s String) Truth() bool    { return s != "" }

// An Object is a mutable record whose properties are kept in order of
// insertion. Properties not found in the object are looked up in its
// prototype.
type Object struct {
	keys  []string
	props map[string]Value
	proto *Object
	class string // "Error" for error objects; empty otherwise
}

// NewObject returns a new empty object with the specified prototype,
// which may be nil.
func NewObject(proto *Object) *Object {
	return &Object{props: make(map[string]Value), proto: proto}
}

func (o *Object) String() string {
	if o.class == "Error" {
		return fmt.Sprintf("%s: %s", o.Get("name"), o.Get("message"))
	}
	return "[object Object]"
}
func (o *Object) Type() string { return "object" }
func (o *Object) Truth() bool  { return true }

// Get returns the value of the named property of o or its prototypes,
// or Undefined.
func (o *Object) Get(name string) Value {
	for ; o != nil; o = o.proto {
		if v, ok := o.props[name]; ok {
			return v
		}
	}
	return Undefined
}

// Has reports whether o or one of its prototypes has the named property.
func (o *Object) Has(name string) bool {
	for ; o != nil; o = o.proto {
		if _, ok := o.props[name]; ok {
			return true
		}
	}
	return false
}

// Set sets an own property of o.
func (o *Object) Set(name string, v Value) {
	if _, ok := o.props[name]; !ok {
		o.keys = append(o.keys, name)
	}
	o.props[name] = v
}

// Delete removes an own property of o.
func (o *Object) Delete(name string) {
	if _, ok := o.props[name]; !ok {
		return
	}
	delete(o.props, name)
	for i, k := range o.keys {
		if k == name {
			o.keys = append(o.keys[:i:i], o.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the own property names of o, in order of insertion.
func (o *Object) Keys() []string { return append([]string(nil), o.keys...) }

// An Array is a mutable list of values.
type Array struct {
	elems []Value
}

// NewArray returns a new array with the specified elements.
// It takes ownership of the slice.
func NewArray(elems []Value) *Array { return &Array{elems: elems} }

func (a *Array) String() string {
	strs := make([]string, len(a.elems))
	for i, x := range a.elems {
		if x != Undefined && x != Null {
			strs[i] = x.String()
		}
	}
	return strings.Join(strs, ",")
}
func (a *Array) Type() string { return "object" }
func (a *Array) Truth() bool  { return true }

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.elems) }

// Index returns the ith element.
func (a *Array) Index(i int) Value { return a.elems[i] }

// A Function is a function, arrow function, method or class defined
// by the program.
type Function struct {
	name   string
	pos    syntax.Position
	syntax *syntax.Function
	arrow  bool
	env    *env  // lexical environment of the definition
	this   Value // receiver of an arrow function's definition
	props  *Object
	class  *class // non-nil for a class constructor
}

func (fn *Function) String() string {
	if fn.class != nil {
		return "[class " + fn.name + "]"
	}
	return "[Function]"
}
func (fn *Function) Type() string { return "function" }
func (fn *Function) Truth() bool  { return true }
func (fn *Function) Name() string { return fn.name }

// Position returns the position of the function's definition.
func (fn *Function) Position() syntax.Position { return fn.pos }

// properties returns the object holding the function's own properties,
// such as prototype and static members.
func (fn *Function) properties() *Object {
	if fn.props == nil {
		fn.props = NewObject(nil)
		if !fn.arrow {
			proto := NewObject(objectPrototype)
			proto.Set("constructor", fn)
			fn.props.Set("prototype", proto)
		}
	}
	return fn.props
}

// prototype returns the object that is the prototype of instances
// constructed by fn, or nil if fn is not a constructor.
func (fn *Function) prototype() *Object {
	proto, _ := fn.properties().Get("prototype").(*Object)
	return proto
}

// A class holds the members of a class that are applied to each
// instance during construction.
type class struct {
	ctor   *Function             // may be nil
	fields []*syntax.ClassMember // instance fields, in order
	env    *env
}

// A Builtin is a function implemented in Go.
type Builtin struct {
	name string
	fn   func(thread *Thread, this Value, args []Value) (Value, error)
}

// NewBuiltin returns a new Builtin function with the specified name
// and implementation.
func NewBuiltin(name string, fn func(thread *Thread, this Value, args []Value) (Value, error)) *Builtin {
	return &Builtin{name: name, fn: fn}
}

func (b *Builtin) String() string { return "[Function]" }
func (b *Builtin) Type() string   { return "function" }
func (b *Builtin) Truth() bool    { return true }
func (b *Builtin) Name() string   { return b.name }
func (b *Builtin) Call(thread *Thread, this Value, args []Value) (Value, error) {
	return b.fn(thread, this, args)
}

// A Bound is a function whose receiver and leading arguments are fixed.
type Bound struct {
	target Callable
	this   Value
	args   []Value
}

func (b *Bound) String() string { return "[Function]" }
func (b *Bound) Type() string   { return "function" }
func (b *Bound) Truth() bool    { return true }
func (b *Bound) Name() string   { return "bound " + b.target.Name() }
func (b *Bound) Call(thread *Thread, _ Value, args []Value) (Value, error) {
	return b.target.Call(thread, b.this, append(append([]Value(nil), b.args...), args...))
}

// Inspect returns the representation of v printed by console.log.
// Strings nested within objects and arrays are quoted.
func Inspect(v Value) string {
	var buf strings.Builder
	inspect(&buf, v, false, 0)
	return buf.String()
}

func inspect(buf *strings.Builder, v Value, nested bool, depth int) {
	switch v := v.(type) {
	case String:
		if nested {
			buf.WriteString(syntax.Quote(string(v)))
		} else {
			buf.WriteString(string(v))
		}
	case *Array:
		if depth > 4 {
			buf.WriteString("[Array]")
			return
		}
		if len(v.elems) == 0 {
			buf.WriteString("[]")
			return
		}
		buf.WriteString("[ ")
		for i, x := range v.elems {
			if i > 0 {
				buf.WriteString(", ")
			}
			inspect(buf, x, true, depth+1)
		}
		buf.WriteString(" ]")
	case *Object:
		if v.class == "Error" {
			buf.WriteString(v.String())
			return
		}
		if depth > 4 {
			buf.WriteString("[Object]")
			return
		}
		if len(v.keys) == 0 {
			buf.WriteString("{}")
			return
		}
		buf.WriteString("{ ")
		for i, k := range v.keys {
			if i > 0 {
				buf.WriteString(", ")
			}
			if syntax.IsIdentifier(k) {
				buf.WriteString(k)
			} else {
				buf.WriteString(syntax.Quote(k))
			}
			buf.WriteString(": ")
			inspect(buf, v.props[k], true, depth+1)
		}
		buf.WriteString(" }")
	default:
		buf.WriteString(v.String())
	}
}

// toNumber converts a value to a number.
func toNumber(v Value) Number {
	switch v := v.(type) {
	case Number:
		return v
	case Bool:
		if v {
			return 1
		}
		return 0
	case String:
		s := strings.TrimSpace(string(v))
		if s == "" {
			return 0
		}
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			if n, err := strconv.ParseUint(s[2:], 16, 64); err == nil {
				return Number(n)
			}
			return Number(math.NaN())
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Number(f)
		}
		return Number(math.NaN())
	case nullType:
		return 0
	case *Array:
		return toNumber(String(v.String()))
	}
	return Number(math.NaN())
}

// toInt32 converts a value to a 32-bit signed integer.
func toInt32(v Value) int32 {
	return int32(toUint32(v))
}

// toUint32 converts a value to a 32-bit unsigned integer.
func toUint32(v Value) uint32 {
	f := float64(toNumber(v))
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Trunc(f)
	f = math.Mod(f, 1<<32)
	if f < 0 {
		f += 1 << 32
	}
	return uint32(f)
}

// propertyKey converts a value to a property name.
func propertyKey(v Value) string { return v.String() }

// strictEquals reports whether x === y.
func strictEquals(x, y Value) bool {
	switch x := x.(type) {
	case Number:
		y, ok := y.(Number)
		return ok && x == y
	case String:
		y, ok := y.(String)
		return ok && x == y
	case Bool:
		y, ok := y.(Bool)
		return ok && x == y
	}
	return x == y
}

// looseEquals reports whether x == y.
func looseEquals(x, y Value) bool {
	nullish := func(v Value) bool { return v == Undefined || v == Null }
	if nullish(x) || nullish(y) {
		return nullish(x) && nullish(y)
	}
	if x.Type() == y.Type() {
		return strictEquals(x, y)
	}
	primitive := func(v Value) bool {
		switch v.(type) {
		case Number, String, Bool:
			return true
		}
		return false
	}
	if primitive(x) && primitive(y) {
		return toNumber(x) == toNumber(y)
	}
	return strictEquals(x, y)
}
