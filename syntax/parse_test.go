// Copyright 2026 The Unclosure Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax_test

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"go.unclosure.dev/internal/chunkedfile"
	"go.unclosure.dev/syntax"
)

func TestExprParseTrees(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{`f(1)`,
			`(CallExpr Fn=f Args=(1))`},
		{"f(1);\n",
			`(CallExpr Fn=f Args=(1))`},
		{`x + 1`,
			`(BinaryExpr X=x Op=+ Y=1)`},
		{`x+y*z`,
			`(BinaryExpr X=x Op=+ Y=(BinaryExpr X=y Op=* Y=z))`},
		{`x%y-z`,
			`(BinaryExpr X=(BinaryExpr X=x Op=% Y=y) Op=- Y=z)`},
		{`a ** b ** c`, // right associative
			`(BinaryExpr X=a Op=** Y=(BinaryExpr X=b Op=** Y=c))`},
		{`a || b && c`,
			`(BinaryExpr X=a Op=|| Y=(BinaryExpr X=b Op=&& Y=c))`},
		{`a | b & c | d`,
			`(BinaryExpr X=(BinaryExpr X=a Op=| Y=(BinaryExpr X=b Op=& Y=c)) Op=| Y=d)`},
		{`typeof x !== "string"`,
			`(BinaryExpr X=(UnaryExpr Op=typeof X=x) Op=!== Y="string")`},
		{`-x[i]`,
			`(UnaryExpr Op=- X=(IndexExpr X=x Y=i))`},
		{`i++`,
			`(UnaryExpr Op=++ X=i Postfix)`},
		{`x[i].f(42)`,
			`(CallExpr Fn=(DotExpr X=(IndexExpr X=x Y=i) Name=f) Args=(42))`},
		{`a.b?.c`,
			`(DotExpr X=(DotExpr X=a Name=b) Optional Name=c)`},
		{`f?.(x)`,
			`(CallExpr Fn=f Optional Args=(x))`},
		{`o.default.if`, // keywords as property names
			`(DotExpr X=(DotExpr X=o Name=default) Name=if)`},
		{`a ? b : c`,
			`(CondExpr Cond=a True=b False=c)`},
		{`x = y += 1`,
			`(AssignExpr LHS=x Op== RHS=(AssignExpr LHS=y Op=+= RHS=1))`},
		{`a, b`,
			`(SeqExpr List=(a b))`},
		{`[1, ...xs,]`,
			`(ArrayExpr List=(1 (SpreadExpr X=xs)))`},
		{`new Foo(1).bar`,
			`(DotExpr X=(NewExpr Fn=Foo Args=(1)) Name=bar)`},
		{`new a.B`,
			`(NewExpr Fn=(DotExpr X=a Name=B))`},
		{`new.target`,
			`(MetaProperty Property=target)`},
		{`x => x`,
			`(FuncLit Arrow Params=((Param Name=x)) ExprBody=x)`},
		{`(a, b = 1, ...c) => { return a; }`,
			`(FuncLit Arrow Params=((Param Name=a) (Param Name=b Default=1) (Param Name=c)) Body=(BlockStmt List=((ReturnStmt Result=a))))`},
		{`async x => await x`,
			`(FuncLit Arrow Async Params=((Param Name=x)) ExprBody=(UnaryExpr Op=await X=x))`},
		{`() => ({})`,
			`(FuncLit Arrow ExprBody=(ParenExpr X=(ObjectExpr)))`},
		{`() => () => a`,
			`(FuncLit Arrow ExprBody=(FuncLit Arrow ExprBody=a))`},
		{`(a)`,
			`(ParenExpr X=a)`},
		{`function named(a) { return this; }`,
			`(FuncLit Name=named Params=((Param Name=a)) Body=(BlockStmt List=((ReturnStmt Result=(ThisExpr)))))`},
		{`async function () {}`,
			`(FuncLit Async Body=(BlockStmt))`},
		{`{ a, b: 1, [k]: v, m() {}, ...rest }`,
			`(ObjectExpr Props=((Property Key=a Value=a Shorthand) (Property Key=b Value=1) (Property Key=k Value=v Computed) (Property Kind=method Key=m Value=(Method Body=(BlockStmt))) (Property Value=rest)))`},
		{`{ get, set x(v) {} }`,
			`(ObjectExpr Props=((Property Key=get Value=get Shorthand) (Property Kind=set Key=x Value=(Method Params=((Param Name=v)) Body=(BlockStmt)))))`},
		{`class extends Base { static x = 1; get y() { return 2; } }`,
			`(ClassExpr Extends=Base Members=((ClassMember Static Key=x Value=1) (ClassMember Kind=get Key=y Method=(Method Body=(BlockStmt List=((ReturnStmt Result=2)))))))`},
		{`(1 +`,
			`got end of file, want primary expression`},
		{`f(a b)`,
			`got identifier, want ')'`},
		{`1 = 2`,
			`invalid assignment target`},
		{`a b`,
			`got identifier after expression, want EOF`},
		{`()`,
			`got ')', want expression`},
	} {
		e, err := syntax.ParseExpr("foo.js", test.input, 0)
		var got string
		if err != nil {
			got = stripPos(err)
		} else {
			got = treeString(e)
		}
		if test.want != got {
			t.Errorf("parse `%s` = %s, want %s", test.input, got, test.want)
		}
	}
}

func TestStmtParseTrees(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{`f();`,
			`(ExprStmt X=(CallExpr Fn=f))`},
		{`let x = 1, y;`,
			`(VarDecl Token=let List=((VarSpec Name=x Init=1) (VarSpec Name=y)))`},
		{`if (a) b(); else { c(); }`,
			`(IfStmt Cond=a Then=(ExprStmt X=(CallExpr Fn=b)) Else=(BlockStmt List=((ExprStmt X=(CallExpr Fn=c)))))`},
		{`for (let i = 0; i < n; i++) {}`,
			`(ForStmt Init=(VarDecl Token=let List=((VarSpec Name=i Init=0))) Cond=(BinaryExpr X=i Op=< Y=n) Post=(UnaryExpr Op=++ X=i Postfix) Body=(BlockStmt))`},
		{`for (;;) break;`,
			`(ForStmt Body=(BranchStmt Token=break))`},
		{`for (const k of ks) continue;`,
			`(ForInStmt Decl=(VarDecl Token=const List=((VarSpec Name=k))) Of X=ks Body=(BranchStmt Token=continue))`},
		{`for (k in o) ;`,
			`(ForInStmt Target=k X=o Body=(EmptyStmt))`},
		{`while (x) x--;`,
			`(WhileStmt Cond=x Body=(ExprStmt X=(UnaryExpr Op=-- X=x Postfix)))`},
		{`do f(); while (x)`,
			`(DoWhileStmt Body=(ExprStmt X=(CallExpr Fn=f)) Cond=x)`},
		{`try { f(); } catch (e) { g(e); } finally { h(); }`,
			`(TryStmt Body=(BlockStmt List=((ExprStmt X=(CallExpr Fn=f)))) Param=e Catch=(BlockStmt List=((ExprStmt X=(CallExpr Fn=g Args=(e))))) Finally=(BlockStmt List=((ExprStmt X=(CallExpr Fn=h)))))`},
		{`try {} catch {}`,
			`(TryStmt Body=(BlockStmt) Catch=(BlockStmt))`},
		{`switch (x) { case 1: f(); break; default: }`,
			`(SwitchStmt Tag=x Cases=((CaseClause Value=1 Body=((ExprStmt X=(CallExpr Fn=f)) (BranchStmt Token=break))) (CaseClause)))`},
		{`throw new Error("x");`,
			`(ThrowStmt X=(NewExpr Fn=Error Args=("x")))`},
		{`function f(a, ...rest) { return rest; }`,
			`(FuncDecl Name=f Params=((Param Name=a) (Param Name=rest)) Body=(BlockStmt List=((ReturnStmt Result=rest))))`},
		{`async function* g() { yield* h(); }`,
			`(FuncDecl Name=g Async Generator Body=(BlockStmt List=((ExprStmt X=(YieldExpr Delegate X=(CallExpr Fn=h))))))`},
		{`class A extends B { constructor() { super(); } }`,
			`(ClassDecl Name=A Extends=B Members=((ClassMember Kind=constructor Key=constructor Method=(Method Body=(BlockStmt List=((ExprStmt X=(CallExpr Fn=(SuperExpr)))))))))`},
		{`class C { [k] = 1; static async *m() {} }`,
			`(ClassDecl Name=C Members=((ClassMember Key=k Computed Value=1) (ClassMember Static Kind=method Key=m Method=(Method Async Generator Body=(BlockStmt)))))`},
		{`import d, { a as b, c } from "m";`,
			`(ImportStmt Default=d Names=((ImportSpec Imported=a Local=b) (ImportSpec Imported=c Local=c)) Module="m")`},
		{`import * as ns from 'm'`,
			`(ImportStmt Namespace=ns Module='m')`},
		{`export default () => 1;`,
			`(ExportStmt Default X=(FuncLit Arrow ExprBody=1))`},
		{`export default function () {}`,
			`(ExportStmt Default X=(FuncLit Body=(BlockStmt)))`},
		{`export { a as b };`,
			`(ExportStmt Names=((ExportSpec Local=a Exported=b)))`},
		{`export const z = 1;`,
			`(ExportStmt Decl=(VarDecl Token=const List=((VarSpec Name=z Init=1))))`},
		{"f();g()",
			`(ExprStmt X=(CallExpr Fn=f))`},
		{"f();\n",
			`(ExprStmt X=(CallExpr Fn=f))`},
	} {
		f, err := syntax.Parse("foo.js", test.input, 0)
		if err != nil {
			t.Errorf("parse `%s` failed: %v", test.input, stripPos(err))
			continue
		}
		if got := treeString(f.Stmts[0]); test.want != got {
			t.Errorf("parse `%s` = %s, want %s", test.input, got, test.want)
		}
	}
}

// TestFileParseTrees tests sequences of statements, and particularly
// automatic semicolon insertion at line breaks.
func TestFileParseTrees(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{"let x = 1\nf(x)",
			`(VarDecl Token=let List=((VarSpec Name=x Init=1)))
(ExprStmt X=(CallExpr Fn=f Args=(x)))`},
		{"a\n++b",
			`(ExprStmt X=a)
(ExprStmt X=(UnaryExpr Op=++ X=b))`},
		{"function f() {\n  return\n  1\n}",
			`(FuncDecl Name=f Body=(BlockStmt List=((ReturnStmt) (ExprStmt X=1))))`},
		{"a = b\n(c)", // no insertion before '('
			`(ExprStmt X=(AssignExpr LHS=a Op== RHS=(CallExpr Fn=b Args=(c))))`},
		{"if (a) { b }\nelse c",
			`(IfStmt Cond=a Then=(BlockStmt List=((ExprStmt X=b))) Else=(ExprStmt X=c))`},
		{"f(); ; g()",
			`(ExprStmt X=(CallExpr Fn=f))
(EmptyStmt)
(ExprStmt X=(CallExpr Fn=g))`},
		{"const f = async\nx => x",
			`(VarDecl Token=const List=((VarSpec Name=f Init=async)))
(ExprStmt X=(FuncLit Arrow Params=((Param Name=x)) ExprBody=x))`},
		{"x = (1 +\n2)",
			`(ExprStmt X=(AssignExpr LHS=x Op== RHS=(ParenExpr X=(BinaryExpr X=1 Op=+ Y=2))))`},
	} {
		f, err := syntax.Parse("foo.js", test.input, 0)
		if err != nil {
			t.Errorf("parse `%s` failed: %v", test.input, stripPos(err))
			continue
		}
		var buf bytes.Buffer
		for i, stmt := range f.Stmts {
			if i > 0 {
				buf.WriteByte('\n')
			}
			writeTree(&buf, reflect.ValueOf(stmt))
		}
		if got := buf.String(); test.want != got {
			t.Errorf("parse `%s` = %s, want %s", test.input, got, test.want)
		}
	}
}

// TestCompoundStmt tests handling of REPL-style compound statements.
func TestCompoundStmt(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		// blank lines
		{"\n",
			``},
		{"   \n",
			``},
		{"// comment\n",
			``},
		// simple statement
		{"1\n",
			`(ExprStmt X=1)`},
		{"f(1)\n",
			`(ExprStmt X=(CallExpr Fn=f Args=(1)))`},
		{"1;2;3;\n",
			`(ExprStmt X=1)(ExprStmt X=2)(ExprStmt X=3)`},
		{"f();g()\n",
			`(ExprStmt X=(CallExpr Fn=f))(ExprStmt X=(CallExpr Fn=g))`},
		{"f(\n1)\n",
			`(ExprStmt X=(CallExpr Fn=f Args=(1)))`},
		// compound statements spanning lines
		{"function f() {\n  return 1;\n}\n",
			`(FuncDecl Name=f Body=(BlockStmt List=((ReturnStmt Result=1))))`},
		{"if (cond) {\n  g();\n}\n",
			`(IfStmt Cond=cond Then=(BlockStmt List=((ExprStmt X=(CallExpr Fn=g)))))`},
		{"/* a\n b */ f()\n",
			`(ExprStmt X=(CallExpr Fn=f))`},
		{"a; b; c\n",
			`(ExprStmt X=a)(ExprStmt X=b)(ExprStmt X=c)`},
		{"a; b c\n",
			`got identifier, want ';'`},
		// A blank line ends incomplete input.
		{"let x = {\n\n",
			`got end of file, want property name`},
	} {

		// Fake readline input from string.
		// The @ suffix, which would cause a scan error,
		// tests that the parser doesn't read more than necessary.
		sc := bufio.NewScanner(strings.NewReader(test.input + "@"))
		readline := func() ([]byte, error) {
			if sc.Scan() {
				return []byte(sc.Text() + "\n"), nil
			}
			return nil, sc.Err()
		}

		var got string
		f, err := syntax.ParseCompoundStmt("foo.js", readline)
		if err != nil {
			got = stripPos(err)
		} else {
			for _, stmt := range f.Stmts {
				got += treeString(stmt)
			}
		}
		if test.want != got {
			t.Errorf("parse `%s` = %s, want %s", test.input, got, test.want)
		}
	}
}

func TestReturnOutsideFunction(t *testing.T) {
	const src = "if (done) return;\nmain();\n"
	if _, err := syntax.Parse("foo.js", src, 0); err == nil {
		t.Errorf("Parse succeeded, want error")
	}
	if _, err := syntax.Parse("foo.js", src, syntax.AllowReturnOutsideFunction); err != nil {
		t.Errorf("Parse with AllowReturnOutsideFunction: %v", err)
	}
}

func TestTopLevelAwait(t *testing.T) {
	defer func(saved bool) { syntax.AllowTopLevelAwait = saved }(syntax.AllowTopLevelAwait)

	const src = "const x = await load();\n"
	syntax.AllowTopLevelAwait = false
	if _, err := syntax.Parse("foo.js", src, 0); err == nil {
		t.Errorf("Parse succeeded, want error")
	}
	syntax.AllowTopLevelAwait = true
	if _, err := syntax.Parse("foo.js", src, 0); err != nil {
		t.Errorf("Parse with AllowTopLevelAwait: %v", err)
	}
}

func stripPos(err error) string {
	s := err.Error()
	if i := strings.Index(s, ": "); i >= 0 {
		s = s[i+len(": "):] // strip file:line:col
	}
	return s
}

// treeString prints a syntax node as a parenthesized tree.
// Idents are printed as foo and Literals as they appear in the source.
// Structs are printed as (type name=value ...).
// Only non-empty fields are shown. Embedded Function and Class
// fields are flattened into their containing node.
func treeString(n syntax.Node) string {
	var buf bytes.Buffer
	writeTree(&buf, reflect.ValueOf(n))
	return buf.String()
}

func writeTree(out *bytes.Buffer, x reflect.Value) {
	switch x.Kind() {
	case reflect.String, reflect.Int, reflect.Bool:
		fmt.Fprintf(out, "%v", x.Interface())
	case reflect.Ptr, reflect.Interface:
		if elem := x.Elem(); elem.Kind() == 0 {
			out.WriteString("nil")
		} else {
			writeTree(out, elem)
		}
	case reflect.Struct:
		switch v := x.Interface().(type) {
		case syntax.Literal:
			out.WriteString(v.Raw)
			return
		case syntax.Ident:
			out.WriteString(v.Name)
			return
		}
		fmt.Fprintf(out, "(%s", strings.TrimPrefix(x.Type().String(), "syntax."))
		writeFields(out, x)
		out.WriteByte(')')
	default:
		fmt.Fprintf(out, "%T", x.Interface())
	}
}

var (
	positionType   = reflect.TypeOf(syntax.Position{})
	bindingType    = reflect.TypeOf((*syntax.Binding)(nil))
	tokenType      = reflect.TypeOf(syntax.Token(0))
	memberKindType = reflect.TypeOf(syntax.MemberKind(0))
)

func writeFields(out *bytes.Buffer, x reflect.Value) {
	for i, n := 0, x.NumField(); i < n; i++ {
		f := x.Field(i)
		field := x.Type().Field(i)
		if field.Anonymous {
			writeFields(out, f) // flatten embedded Function or Class
			continue
		}
		switch f.Type() {
		case positionType, bindingType:
			continue // skip positions and resolver annotations
		case tokenType:
			fmt.Fprintf(out, " %s=%s", field.Name, f.Interface())
			continue
		case memberKindType:
			if f.Uint() != 0 {
				fmt.Fprintf(out, " %s=%s", field.Name, f.Interface())
			}
			continue
		}

		switch f.Kind() {
		case reflect.Slice:
			if n := f.Len(); n > 0 {
				fmt.Fprintf(out, " %s=(", field.Name)
				for i := 0; i < n; i++ {
					if i > 0 {
						out.WriteByte(' ')
					}
					writeTree(out, f.Index(i))
				}
				out.WriteByte(')')
			}
			continue
		case reflect.Ptr, reflect.Interface:
			if f.IsNil() {
				continue
			}
		case reflect.Bool:
			if f.Bool() {
				fmt.Fprintf(out, " %s", field.Name)
			}
			continue
		case reflect.String:
			continue // File.Path
		}
		fmt.Fprintf(out, " %s=", field.Name)
		writeTree(out, f)
	}
}

func TestParseErrors(t *testing.T) {
	filename := dataFile("syntax", "testdata/errors.js")
	for _, chunk := range chunkedfile.Read(filename, t) {
		_, err := syntax.Parse(filename, chunk.Source, 0)
		switch err := err.(type) {
		case nil:
			// ok
		case syntax.Error:
			chunk.GotError(int(err.Pos.Line), err.Msg)
		default:
			t.Error(err)
		}
		chunk.Done()
	}
}

func TestFilePortion(t *testing.T) {
	// Imagine that the script f(x.y) is extracted from the middle of
	// a file in some hypothetical template language. For example:
	// --
	// <ul>
	//   {{f(x.y)}}
	// </ul>
	// --
	fp := syntax.FilePortion{Content: []byte("f(x.y)"), FirstLine: 2, FirstCol: 4}
	file, err := syntax.Parse("foo.template", fp, 0)
	if err != nil {
		t.Fatal(err)
	}
	span := fmt.Sprint(file.Stmts[0].Span())
	want := "foo.template:2:4 foo.template:2:10"
	if span != want {
		t.Errorf("wrong span: got %q, want %q", span, want)
	}
}

// dataFile is the same as unclosuretest.DataFile.
// We make a copy to avoid a dependency cycle.
var dataFile = func(pkgdir, filename string) string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filepath.Dir(file)), pkgdir, filename)
}

func BenchmarkParse(b *testing.B) {
	filename := dataFile("syntax", "testdata/sample.js")
	b.StopTimer()
	data, err := os.ReadFile(filename)
	if err != nil {
		b.Fatal(err)
	}
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		_, err := syntax.Parse(filename, data, 0)
		if err != nil {
			b.Fatal(err)
		}
	}
}
