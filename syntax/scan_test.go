// Copyright 2026 The Unclosure Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func scan(src interface{}) (tokens string, err error) {
	sc, err := newScanner("foo.js", src)
	if err != nil {
		return "", err
	}

	defer sc.recover(&err)

	var buf bytes.Buffer
	var val tokenValue
	for {
		tok := sc.nextToken(&val)

		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		if val.nl {
			buf.WriteString("newline ")
		}
		switch tok {
		case EOF:
			buf.WriteString("EOF")
		case IDENT:
			buf.WriteString(val.raw)
		case NUMBER:
			fmt.Fprintf(&buf, "%g", val.number)
		case STRING:
			buf.WriteString(Quote(val.string))
		default:
			buf.WriteString(tok.String())
		}
		if tok == EOF {
			break
		}
	}
	return buf.String(), nil
}

func TestScanner(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{``, "EOF"},
		{`123`, "123 EOF"},
		{`x.y`, "x . y EOF"},
		{`f(1)`, "f ( 1 ) EOF"},
		{`x.y?.z ?? w`, "x . y ?. z ?? w EOF"},
		{`a?.5:b`, "a ? 0.5 : b EOF"},
		{`a >>>= b >>= c >> d >>> e`, "a >>>= b >>= c >> d >>> e EOF"},
		{`x **= 2 ** 3`, "x **= 2 ** 3 EOF"},
		{`a &&= b ||= c ??= d`, "a &&= b ||= c ??= d EOF"},
		{`=== !== == != => =`, "=== !== == != => = EOF"},
		{`++ -- += -= < <= <<= > >=`, "++ -- += -= < <= <<= > >= EOF"},
		{`...rest`, "... rest EOF"},
		{`{[(,;:)]}`, "{ [ ( , ; : ) ] } EOF"},
		{`! ~ & | ^ % /`, "! ~ & | ^ % / EOF"},
		// keywords and contextual keywords
		{`function async await yield of`, "function async await yield of EOF"},
		{`café $x _y x1`, "café $x _y x1 EOF"},
		// numbers
		{`0x1F 0b101 0o17`, "31 5 15 EOF"},
		{`1_000 1.5e3 .25 2E-2`, "1000 1500 0.25 0.02 EOF"},
		{`1..toString`, "1 . toString EOF"},
		// strings
		{`'it\'s'`, `"it's" EOF`},
		{`"\x41B\u{43}"`, `"ABC" EOF`},
		{`"tab\t" 'q"'`, `"tab\t" "q\"" EOF`},
		// comments and line terminators
		{"a // c\nb", "a newline b EOF"},
		{"a /* c */ b", "a b EOF"},
		{"a /* \n */ b", "a newline b EOF"},
		{"a\n\n\nb", "a newline b EOF"},
		{"a\tb", "a b EOF"},
		{"x\n", "x newline EOF"},
		// errors
		{`'abc`, "foo.js:1:1: unexpected EOF in string"},
		{"'a\nb'", "foo.js:1:1: unexpected newline in string"},
		{`/* x`, "foo.js:1:1: unterminated comment"},
		{`a # b`, "foo.js:1:3: unexpected input character '#'"},
		{"`t`", "foo.js:1:1: template literals are not supported"},
		{`1e`, "foo.js:1:1: invalid number literal"},
		{`3in`, "foo.js:1:1: invalid number literal"},
		{`0xg`, "foo.js:1:1: invalid number literal"},
		{`"\x4"`, `foo.js:1:1: truncated escape sequence \x4`},
		{`"\u{110000}"`, `foo.js:1:1: invalid escape sequence \u110000`},
	} {
		got, err := scan(test.input)
		if err != nil {
			got = err.(Error).Error()
		}
		// Prefix match allows us to truncate errors in expectations.
		// Success cases all end in EOF.
		if !strings.HasPrefix(got, test.want) {
			t.Errorf("scan `%s` = [%s], want [%s]", test.input, got, test.want)
		}
	}
}

func TestIsIdentifier(t *testing.T) {
	for _, test := range []struct {
		s    string
		want bool
	}{
		{"x", true},
		{"_fn2", true},
		{"$", true},
		{"async", true},
		{"", false},
		{"2x", false},
		{"a-b", false},
		{"function", false},
		{"this", false},
	} {
		if got := IsIdentifier(test.s); got != test.want {
			t.Errorf("IsIdentifier(%q) = %t, want %t", test.s, got, test.want)
		}
	}
}

func TestPositionSpan(t *testing.T) {
	f, err := Parse("foo.js", "let x = f(\n  'é',\n  2);\n", 0)
	if err != nil {
		t.Fatal(err)
	}
	call := f.Stmts[0].(*VarDecl).List[0].Init.(*CallExpr)
	start, end := call.Span()
	if got, want := fmt.Sprint(start, " ", end), "foo.js:1:9 foo.js:3:5"; got != want {
		t.Errorf("call span = %s, want %s", got, want)
	}
	if got, want := End(call.Args[0]).String(), "foo.js:2:6"; got != want {
		t.Errorf("end of string literal = %s, want %s", got, want)
	}
}

// dataFile is the same as unclosuretest.DataFile.
// We make a copy to avoid a dependency cycle.
var dataFile = func(pkgdir, filename string) string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filepath.Dir(file)), pkgdir, filename)
}

func BenchmarkScan(b *testing.B) {
	filename := dataFile("syntax", "testdata/sample.js")
	b.StopTimer()
	data, err := os.ReadFile(filename)
	if err != nil {
		b.Fatal(err)
	}
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		sc, err := newScanner(filename, data)
		if err != nil {
			b.Fatal(err)
		}
		var val tokenValue
		for sc.nextToken(&val) != EOF {
		}
	}
}
