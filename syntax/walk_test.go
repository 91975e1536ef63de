// Copyright 2026 The Unclosure Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax_test

import (
	"bytes"
	"fmt"
	"log"
	"reflect"
	"strings"
	"testing"

	"go.unclosure.dev/syntax"
)

func TestWalk(t *testing.T) {
	const src = `
for (const x of y) {
  if (x) f([2 * x, "abc"]);
  else g(() => x);
}
`
	f, err := syntax.Parse("hello.js", src, 0)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	var depth int
	syntax.Walk(f, func(n syntax.Node) bool {
		if n == nil {
			depth--
			return true
		}
		fmt.Fprintf(&buf, "%s%s\n",
			strings.Repeat("  ", depth),
			strings.TrimPrefix(reflect.TypeOf(n).String(), "*syntax."))
		depth++
		return true
	})
	got := buf.String()
	want := `
File
  ForInStmt
    VarDecl
      VarSpec
        Ident
    Ident
    BlockStmt
      IfStmt
        Ident
        ExprStmt
          CallExpr
            Ident
            ArrayExpr
              BinaryExpr
                Literal
                Ident
              Literal
        ExprStmt
          CallExpr
            Ident
            FuncLit
              Ident`
	got = strings.TrimSpace(got)
	want = strings.TrimSpace(want)
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestWalkPrune(t *testing.T) {
	f, err := syntax.Parse("hello.js", "a(function () { b(); }, () => c, d);", 0)
	if err != nil {
		t.Fatal(err)
	}
	var idents []string
	syntax.Walk(f, func(n syntax.Node) bool {
		switch n := n.(type) {
		case *syntax.FuncLit:
			return false // don't descend into functions
		case *syntax.Ident:
			idents = append(idents, n.Name)
		}
		return true
	})
	if got, want := strings.Join(idents, " "), "a d"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestApplyReplace(t *testing.T) {
	f, err := syntax.Parse("hello.js", "f(x + 1, o.x);\nlet x = x;\n", 0)
	if err != nil {
		t.Fatal(err)
	}
	result := syntax.Apply(f, func(c *syntax.Cursor) bool {
		id, ok := c.Node().(*syntax.Ident)
		if !ok || id.Name != "x" {
			return true
		}
		switch parent := c.Parent().(type) {
		case *syntax.DotExpr:
			if parent.Name == id {
				return true // property name
			}
		case *syntax.VarSpec:
			if parent.Name == id {
				return true // declaring name
			}
		}
		c.Replace(&syntax.Ident{Name: "y"})
		return true
	}, nil)
	if result != f {
		t.Errorf("Apply returned a different root")
	}
	got := syntax.Format(f)
	want := "f(y + 1, o.x);\nlet x = y;\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestApplyReplaceStmt(t *testing.T) {
	f, err := syntax.Parse("hello.js", "a();\nb();\nc();\n", 0)
	if err != nil {
		t.Fatal(err)
	}
	var visited []string
	syntax.Apply(f, func(c *syntax.Cursor) bool {
		s, ok := c.Node().(*syntax.ExprStmt)
		if !ok {
			return true
		}
		name := s.X.(*syntax.CallExpr).Fn.(*syntax.Ident).Name
		visited = append(visited, name)
		if name == "b" {
			// Insert a statement before b, then wrap b in a block.
			// Neither the insertion nor the replacement is visited.
			f.Stmts = append([]syntax.Stmt{&syntax.EmptyStmt{}}, f.Stmts...)
			c.Replace(&syntax.BlockStmt{List: []syntax.Stmt{s}})
			return false
		}
		return true
	}, nil)
	if got, want := strings.Join(visited, " "), "a b c"; got != want {
		t.Errorf("visited %s, want %s", got, want)
	}
	got := syntax.Format(f)
	want := ";\na();\n{\n  b();\n}\nc();\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestApplyAbort(t *testing.T) {
	f, err := syntax.Parse("hello.js", "a; b; c;", 0)
	if err != nil {
		t.Fatal(err)
	}
	var seen []string
	syntax.Apply(f, nil, func(c *syntax.Cursor) bool {
		if id, ok := c.Node().(*syntax.Ident); ok {
			seen = append(seen, id.Name)
			return id.Name != "b"
		}
		return true
	})
	if got, want := strings.Join(seen, " "), "a b"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestApplyAncestors(t *testing.T) {
	f, err := syntax.Parse("hello.js", "function f() { return () => x; }", 0)
	if err != nil {
		t.Fatal(err)
	}
	var path []string
	syntax.Apply(f, func(c *syntax.Cursor) bool {
		if id, ok := c.Node().(*syntax.Ident); ok && id.Name == "x" {
			for _, n := range c.Ancestors() {
				path = append(path, strings.TrimPrefix(reflect.TypeOf(n).String(), "*syntax."))
			}
		}
		return true
	}, nil)
	want := "File FuncDecl BlockStmt ReturnStmt FuncLit"
	if got := strings.Join(path, " "); got != want {
		t.Errorf("ancestors of x = %s, want %s", got, want)
	}
}

func TestApplyWithin(t *testing.T) {
	f, err := syntax.Parse("hello.js", "g(() => a + b);", 0)
	if err != nil {
		t.Fatal(err)
	}
	call := f.Stmts[0].(*syntax.ExprStmt).X.(*syntax.CallExpr)
	lit := call.Args[0].(*syntax.FuncLit)
	outer := []syntax.Node{f, f.Stmts[0], call}
	var parents []string
	syntax.ApplyWithin(outer, lit, func(c *syntax.Cursor) bool {
		if _, ok := c.Node().(*syntax.FuncLit); ok {
			parents = append(parents, reflect.TypeOf(c.Parent()).String())
		}
		if id, ok := c.Node().(*syntax.Ident); ok && id.Name == "b" {
			c.Replace(&syntax.ThisExpr{})
		}
		return true
	}, nil)
	if got, want := strings.Join(parents, " "), "*syntax.CallExpr"; got != want {
		t.Errorf("parent of function = %s, want %s", got, want)
	}
	if got, want := syntax.Format(call), "g(() => a + this)"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestReplaceUnreplaceable(t *testing.T) {
	f, err := syntax.Parse("hello.js", "o.p;", 0)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Errorf("Replace of a property name did not panic")
		}
	}()
	syntax.Apply(f, func(c *syntax.Cursor) bool {
		if id, ok := c.Node().(*syntax.Ident); ok && id.Name == "p" {
			c.Replace(&syntax.Ident{Name: "q"})
		}
		return true
	}, nil)
}

// ExampleWalk demonstrates the use of Walk to
// enumerate the identifiers in a JavaScript source file
// containing a nonsense program with varied grammar.
func ExampleWalk() {
	const src = `
import a, { b } from "module";

function c(d, ...e) {
  f += { g: h };
  const i = -(j);
  return k.l[m + n];
}

for (const o of [p, q]) {
  r(() => s, t ? u : v, new w(x).y, z);
}
`
	f, err := syntax.Parse("hello.js", src, 0)
	if err != nil {
		log.Fatal(err)
	}

	var idents []string
	syntax.Walk(f, func(n syntax.Node) bool {
		if id, ok := n.(*syntax.Ident); ok {
			idents = append(idents, id.Name)
		}
		return true
	})
	fmt.Println(strings.Join(idents, " "))

	// The identifier 'b' appears in both ImportSpec.Imported and ImportSpec.Local.

	// Output:
	// a b b c d e f g h i j k l m n o p q r s t u v w x y z
}
