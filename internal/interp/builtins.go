// Copyright 2026 The Unclosure Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package interp

// This file defines the predeclared environment and the built-in
// properties of values.

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"go.unclosure.dev/syntax"
)

// objectPrototype is the prototype of object literals and instances.
var objectPrototype = NewObject(nil)

// constructors lists the built-in functions that may be called with new.
var constructors = map[string]bool{
	"Error":      true,
	"TypeError":  true,
	"RangeError": true,
	"Object":     true,
}

func init() {
	objectPrototype.Set("hasOwnProperty", NewBuiltin("hasOwnProperty", func(_ *Thread, this Value, args []Value) (Value, error) {
		obj, ok := this.(*Object)
		if !ok {
			return Bool(false), nil
		}
		_, has := obj.props[propertyKey(arg(args, 0))]
		return Bool(has), nil
	}))
}

func arg(args []Value, i int) Value {
	if i < len(args) {
		return args[i]
	}
	return Undefined
}

func makeError(kind, msg string) *Object {
	obj := NewObject(objectPrototype)
	obj.class = "Error"
	obj.Set("name", String(kind))
	obj.Set("message", String(msg))
	return obj
}

func errorConstructor(kind string) *Builtin {
	return NewBuiltin(kind, func(_ *Thread, _ Value, args []Value) (Value, error) {
		msg := ""
		if m := arg(args, 0); m != Undefined {
			msg = m.String()
		}
		return makeError(kind, msg), nil
	})
}

// universe returns a new environment of predeclared names.
func universe() *env {
	e := newEnv(nil)
	predeclare := func(name string, v Value) { e.declare(name, v, true, true) }

	console := NewObject(objectPrototype)
	console.Set("log", NewBuiltin("log", func(thread *Thread, _ Value, args []Value) (Value, error) {
		thread.print(joinInspect(args))
		return Undefined, nil
	}))
	predeclare("console", console)

	predeclare("undefined", Undefined)
	predeclare("NaN", Number(math.NaN()))
	predeclare("Infinity", Number(math.Inf(+1)))
	for _, kind := range []string{"Error", "TypeError", "RangeError"} {
		predeclare(kind, errorConstructor(kind))
	}

	predeclare("String", NewBuiltin("String", func(_ *Thread, _ Value, args []Value) (Value, error) {
		if len(args) == 0 {
			return String(""), nil
		}
		return String(toPrimitive(args[0]).String()), nil
	}))
	predeclare("Number", NewBuiltin("Number", func(_ *Thread, _ Value, args []Value) (Value, error) {
		if len(args) == 0 {
			return Number(0), nil
		}
		return toNumber(toPrimitive(args[0])), nil
	}))
	predeclare("Boolean", NewBuiltin("Boolean", func(_ *Thread, _ Value, args []Value) (Value, error) {
		return Bool(arg(args, 0).Truth()), nil
	}))
	predeclare("isNaN", NewBuiltin("isNaN", func(_ *Thread, _ Value, args []Value) (Value, error) {
		return Bool(math.IsNaN(float64(toNumber(arg(args, 0))))), nil
	}))
	predeclare("parseInt", NewBuiltin("parseInt", func(_ *Thread, _ Value, args []Value) (Value, error) {
		s := strings.TrimSpace(arg(args, 0).String())
		end := 0
		for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && (s[0] == '-' || s[0] == '+')) {
			end++
		}
		n, err := strconv.ParseInt(s[:end], 10, 64)
		if err != nil {
			return Number(math.NaN()), nil
		}
		return Number(n), nil
	}))

	mathObj := NewObject(objectPrototype)
	mathObj.Set("PI", Number(math.Pi))
	for name, f := range map[string]func(float64) float64{
		"abs":   math.Abs,
		"ceil":  math.Ceil,
		"floor": math.Floor,
		"sqrt":  math.Sqrt,
		"trunc": math.Trunc,
		"round": func(x float64) float64 { return math.Floor(x + 0.5) },
	} {
		f := f
		mathObj.Set(name, NewBuiltin(name, func(_ *Thread, _ Value, args []Value) (Value, error) {
			return Number(f(float64(toNumber(arg(args, 0))))), nil
		}))
	}
	mathObj.Set("max", NewBuiltin("max", func(_ *Thread, _ Value, args []Value) (Value, error) {
		result := math.Inf(-1)
		for _, x := range args {
			result = math.Max(result, float64(toNumber(x)))
		}
		return Number(result), nil
	}))
	mathObj.Set("min", NewBuiltin("min", func(_ *Thread, _ Value, args []Value) (Value, error) {
		result := math.Inf(+1)
		for _, x := range args {
			result = math.Min(result, float64(toNumber(x)))
		}
		return Number(result), nil
	}))
	mathObj.Set("pow", NewBuiltin("pow", func(_ *Thread, _ Value, args []Value) (Value, error) {
		return Number(math.Pow(float64(toNumber(arg(args, 0))), float64(toNumber(arg(args, 1))))), nil
	}))
	predeclare("Math", mathObj)

	object := NewBuiltin("Object", func(_ *Thread, _ Value, args []Value) (Value, error) {
		if obj, ok := arg(args, 0).(*Object); ok {
			return obj, nil
		}
		return NewObject(objectPrototype), nil
	})
	predeclare("Object", object)

	array := NewBuiltin("Array", func(_ *Thread, _ Value, args []Value) (Value, error) {
		return NewArray(append([]Value(nil), args...)), nil
	})
	predeclare("Array", array)
	return e
}

// staticMethods holds the properties of built-in constructors.
var staticMethods = map[string]map[string]*Builtin{
	"Object": {
		"keys": NewBuiltin("keys", func(_ *Thread, _ Value, args []Value) (Value, error) {
			var keys []Value
			if obj, ok := arg(args, 0).(*Object); ok {
				for _, k := range obj.keys {
					keys = append(keys, String(k))
				}
			}
			return NewArray(keys), nil
		}),
		"values": NewBuiltin("values", func(_ *Thread, _ Value, args []Value) (Value, error) {
			var values []Value
			if obj, ok := arg(args, 0).(*Object); ok {
				for _, k := range obj.keys {
					values = append(values, obj.props[k])
				}
			}
			return NewArray(values), nil
		}),
		"entries": NewBuiltin("entries", func(_ *Thread, _ Value, args []Value) (Value, error) {
			var entries []Value
			if obj, ok := arg(args, 0).(*Object); ok {
				for _, k := range obj.keys {
					entries = append(entries, NewArray([]Value{String(k), obj.props[k]}))
				}
			}
			return NewArray(entries), nil
		}),
		"assign": NewBuiltin("assign", func(_ *Thread, _ Value, args []Value) (Value, error) {
			target, ok := arg(args, 0).(*Object)
			if !ok {
				return arg(args, 0), nil
			}
			for _, src := range args[1:] {
				if src, ok := src.(*Object); ok {
					for _, k := range src.keys {
						target.Set(k, src.props[k])
					}
				}
			}
			return target, nil
		}),
	},
	"Array": {
		"isArray": NewBuiltin("isArray", func(_ *Thread, _ Value, args []Value) (Value, error) {
			_, ok := arg(args, 0).(*Array)
			return Bool(ok), nil
		}),
	},
}

// arrayIndex parses a canonical array index.
func arrayIndex(key string) (int, bool) {
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 || strconv.Itoa(i) != key {
		return 0, false
	}
	return i, true
}

// getProp returns the named property of x.
func getProp(x Value, name string, pos syntax.Position) (Value, error) {
	switch x := x.(type) {
	case *Object:
		return x.Get(name), nil

	case *Array:
		if name == "length" {
			return Number(len(x.elems)), nil
		}
		if i, ok := arrayIndex(name); ok {
			if i < len(x.elems) {
				return x.elems[i], nil
			}
			return Undefined, nil
		}
		if m := arrayMethod(x, name); m != nil {
			return m, nil
		}
		return objectPrototype.Get(name), nil

	case String:
		if name == "length" {
			return Number(len([]rune(string(x)))), nil
		}
		if i, ok := arrayIndex(name); ok {
			runes := []rune(string(x))
			if i < len(runes) {
				return String(runes[i]), nil
			}
			return Undefined, nil
		}
		if m := stringMethod(x, name); m != nil {
			return m, nil
		}
		return Undefined, nil

	case Number:
		if name == "toFixed" {
			return NewBuiltin(name, func(_ *Thread, _ Value, args []Value) (Value, error) {
				digits := int(toNumber(arg(args, 0)))
				return String(strconv.FormatFloat(float64(x), 'f', digits, 64)), nil
			}), nil
		}
		return Undefined, nil

	case Bool:
		return Undefined, nil

	case Callable:
		if m := functionMethod(x, name); m != nil {
			return m, nil
		}
		switch x := x.(type) {
		case *Function:
			if name == "name" {
				return String(x.name), nil
			}
			if x.properties().Has(name) {
				return x.properties().Get(name), nil
			}
		case *Builtin:
			if m := staticMethods[x.name][name]; m != nil {
				return m, nil
			}
			if name == "name" {
				return String(x.name), nil
			}
		case *Bound:
			if name == "name" {
				return String(x.Name()), nil
			}
		}
		return Undefined, nil
	}
	return nil, throwf(pos, "TypeError", "Cannot read properties of %s (reading '%s')", x, name)
}

// setProp sets the named property of x.
func setProp(x Value, name string, v Value, pos syntax.Position) error {
	switch x := x.(type) {
	case *Object:
		x.Set(name, v)
		return nil
	case *Array:
		if name == "length" {
			n := int(toNumber(v))
			if n < len(x.elems) {
				x.elems = x.elems[:n]
			}
			for len(x.elems) < n {
				x.elems = append(x.elems, Undefined)
			}
			return nil
		}
		if i, ok := arrayIndex(name); ok {
			for len(x.elems) <= i {
				x.elems = append(x.elems, Undefined)
			}
			x.elems[i] = v
		}
		return nil
	case *Function:
		x.properties().Set(name, v)
		return nil
	case undefinedType, nullType:
		return throwf(pos, "TypeError", "Cannot set properties of %s (setting '%s')", x, name)
	}
	return nil
}

// functionMethod returns the named method of Function.prototype
// bound to fn, or nil.
func functionMethod(fn Callable, name string) *Builtin {
	switch name {
	case "bind":
		return NewBuiltin(name, func(_ *Thread, _ Value, args []Value) (Value, error) {
			var bound []Value
			if len(args) > 1 {
				bound = append(bound, args[1:]...)
			}
			return &Bound{target: fn, this: arg(args, 0), args: bound}, nil
		})
	case "call":
		return NewBuiltin(name, func(thread *Thread, _ Value, args []Value) (Value, error) {
			var rest []Value
			if len(args) > 1 {
				rest = args[1:]
			}
			return Call(thread, fn, arg(args, 0), rest)
		})
	case "apply":
		return NewBuiltin(name, func(thread *Thread, _ Value, args []Value) (Value, error) {
			var rest []Value
			if a, ok := arg(args, 1).(*Array); ok {
				rest = a.elems
			}
			return Call(thread, fn, arg(args, 0), rest)
		})
	}
	return nil
}

// callback calls fn(elem, index, array) for an array method.
func callback(thread *Thread, fn Value, a *Array, i int) (Value, error) {
	c, ok := fn.(Callable)
	if !ok {
		return nil, throwf(syntax.Position{}, "TypeError", "%s is not a function", Inspect(fn))
	}
	return Call(thread, c, Undefined, []Value{a.elems[i], Number(i), a})
}

// arrayMethod returns the named method of Array.prototype bound to a,
// or nil.
func arrayMethod(a *Array, name string) *Builtin {
	var fn func(thread *Thread, args []Value) (Value, error)
	switch name {
	case "push":
		fn = func(_ *Thread, args []Value) (Value, error) {
			a.elems = append(a.elems, args...)
			return Number(len(a.elems)), nil
		}
	case "pop":
		fn = func(_ *Thread, _ []Value) (Value, error) {
			if len(a.elems) == 0 {
				return Undefined, nil
			}
			last := a.elems[len(a.elems)-1]
			a.elems = a.elems[:len(a.elems)-1]
			return last, nil
		}
	case "shift":
		fn = func(_ *Thread, _ []Value) (Value, error) {
			if len(a.elems) == 0 {
				return Undefined, nil
			}
			first := a.elems[0]
			a.elems = append([]Value(nil), a.elems[1:]...)
			return first, nil
		}
	case "slice":
		fn = func(_ *Thread, args []Value) (Value, error) {
			start, end := sliceBounds(len(a.elems), args)
			return NewArray(append([]Value(nil), a.elems[start:end]...)), nil
		}
	case "concat":
		fn = func(_ *Thread, args []Value) (Value, error) {
			elems := append([]Value(nil), a.elems...)
			for _, x := range args {
				if y, ok := x.(*Array); ok {
					elems = append(elems, y.elems...)
				} else {
					elems = append(elems, x)
				}
			}
			return NewArray(elems), nil
		}
	case "join":
		fn = func(_ *Thread, args []Value) (Value, error) {
			sep := ","
			if s := arg(args, 0); s != Undefined {
				sep = s.String()
			}
			strs := make([]string, len(a.elems))
			for i, x := range a.elems {
				if !nullish(x) {
					strs[i] = toPrimitive(x).String()
				}
			}
			return String(strings.Join(strs, sep)), nil
		}
	case "indexOf", "includes":
		fn = func(_ *Thread, args []Value) (Value, error) {
			for i, x := range a.elems {
				if strictEquals(x, arg(args, 0)) {
					if name == "includes" {
						return Bool(true), nil
					}
					return Number(i), nil
				}
			}
			if name == "includes" {
				return Bool(false), nil
			}
			return Number(-1), nil
		}
	case "reverse":
		fn = func(_ *Thread, _ []Value) (Value, error) {
			for i, j := 0, len(a.elems)-1; i < j; i, j = i+1, j-1 {
				a.elems[i], a.elems[j] = a.elems[j], a.elems[i]
			}
			return a, nil
		}
	case "sort":
		fn = func(thread *Thread, args []Value) (Value, error) {
			cmp, _ := arg(args, 0).(Callable)
			var err error
			sort.SliceStable(a.elems, func(i, j int) bool {
				if err != nil {
					return false
				}
				if cmp == nil {
					return toPrimitive(a.elems[i]).String() < toPrimitive(a.elems[j]).String()
				}
				var r Value
				r, err = Call(thread, cmp, Undefined, []Value{a.elems[i], a.elems[j]})
				return err == nil && toNumber(r) < 0
			})
			if err != nil {
				return nil, err
			}
			return a, nil
		}
	case "forEach", "map", "filter", "find", "some", "every":
		fn = func(thread *Thread, args []Value) (Value, error) {
			var out []Value
			for i := 0; i < len(a.elems); i++ {
				r, err := callback(thread, arg(args, 0), a, i)
				if err != nil {
					return nil, err
				}
				switch name {
				case "map":
					out = append(out, r)
				case "filter":
					if r.Truth() {
						out = append(out, a.elems[i])
					}
				case "find":
					if r.Truth() {
						return a.elems[i], nil
					}
				case "some":
					if r.Truth() {
						return Bool(true), nil
					}
				case "every":
					if !r.Truth() {
						return Bool(false), nil
					}
				}
			}
			switch name {
			case "map", "filter":
				return NewArray(out), nil
			case "some":
				return Bool(false), nil
			case "every":
				return Bool(true), nil
			}
			return Undefined, nil
		}
	case "reduce":
		fn = func(thread *Thread, args []Value) (Value, error) {
			f, ok := arg(args, 0).(Callable)
			if !ok {
				return nil, throwf(syntax.Position{}, "TypeError", "%s is not a function", Inspect(arg(args, 0)))
			}
			i := 0
			acc := arg(args, 1)
			if len(args) < 2 {
				if len(a.elems) == 0 {
					return nil, throwf(syntax.Position{}, "TypeError", "Reduce of empty array with no initial value")
				}
				acc, i = a.elems[0], 1
			}
			for ; i < len(a.elems); i++ {
				var err error
				if acc, err = Call(thread, f, Undefined, []Value{acc, a.elems[i], Number(i), a}); err != nil {
					return nil, err
				}
			}
			return acc, nil
		}
	default:
		return nil
	}
	return NewBuiltin(name, func(thread *Thread, _ Value, args []Value) (Value, error) {
		return fn(thread, args)
	})
}

// sliceBounds returns the bounds selected by slice(start, end)
// on a sequence of length n.
func sliceBounds(n int, args []Value) (start, end int) {
	clamp := func(v Value, dflt int) int {
		if v == Undefined {
			return dflt
		}
		i := int(toNumber(v))
		if i < 0 {
			i += n
		}
		if i < 0 {
			i = 0
		}
		if i > n {
			i = n
		}
		return i
	}
	start, end = clamp(arg(args, 0), 0), clamp(arg(args, 1), n)
	if end < start {
		end = start
	}
	return start, end
}

// stringMethod returns the named method of String.prototype bound to s,
// or nil.
func stringMethod(s String, name string) *Builtin {
	str := string(s)
	var fn func(args []Value) Value
	switch name {
	case "toUpperCase":
		fn = func([]Value) Value { return String(strings.ToUpper(str)) }
	case "toLowerCase":
		fn = func([]Value) Value { return String(strings.ToLower(str)) }
	case "trim":
		fn = func([]Value) Value { return String(strings.TrimSpace(str)) }
	case "slice":
		fn = func(args []Value) Value {
			runes := []rune(str)
			start, end := sliceBounds(len(runes), args)
			return String(runes[start:end])
		}
	case "indexOf":
		fn = func(args []Value) Value {
			i := strings.Index(str, arg(args, 0).String())
			if i < 0 {
				return Number(-1)
			}
			return Number(len([]rune(str[:i])))
		}
	case "includes":
		fn = func(args []Value) Value { return Bool(strings.Contains(str, arg(args, 0).String())) }
	case "startsWith":
		fn = func(args []Value) Value { return Bool(strings.HasPrefix(str, arg(args, 0).String())) }
	case "endsWith":
		fn = func(args []Value) Value { return Bool(strings.HasSuffix(str, arg(args, 0).String())) }
	case "repeat":
		fn = func(args []Value) Value {
			n := int(toNumber(arg(args, 0)))
			if n < 0 {
				n = 0
			}
			return String(strings.Repeat(str, n))
		}
	case "split":
		fn = func(args []Value) Value {
			var parts []string
			if sep := arg(args, 0); sep == Undefined {
				parts = []string{str}
			} else {
				parts = strings.Split(str, sep.String())
			}
			elems := make([]Value, len(parts))
			for i, p := range parts {
				elems[i] = String(p)
			}
			return NewArray(elems)
		}
	default:
		return nil
	}
	return NewBuiltin(name, func(_ *Thread, _ Value, args []Value) (Value, error) {
		return fn(args), nil
	})
}
