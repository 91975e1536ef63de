// Copyright 2026 The Unclosure Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"testing"
)

var quoteTests = []struct {
	q   string // quoted
	s   string // unquoted (actual string)
	std bool   // q is standard form for s
}{
	{`""`, "", true},
	{`''`, "", false},
	{`"hello"`, `hello`, true},
	{`'hello'`, `hello`, false},
	{`"quote\"here"`, `quote"here`, true},
	{`'quote"here'`, `quote"here`, false},
	{`"quote'here"`, `quote'here`, true},
	{`'quote\'here'`, `quote'here`, false},
	{`"\b\f\n\r\t\v\\"`, "\b\f\n\r\t\v\\", true},
	{`"\x00\x01\x7f"`, "\x00\x01\x7f", true},
	{`"\0"`, "\x00", false},
	{`"\x41B\u{43}"`, "ABC", false},
	{`"\u00e9"`, "é", false},
	{`"é"`, "é", true},
	{`"\u{1F63F}"`, "😿", false},
	{`"a\qb"`, "aqb", false}, // unknown escapes denote the character
	{"\"line\\\ncont\"", "linecont", false},
}

func TestQuote(t *testing.T) {
	for _, tt := range quoteTests {
		if !tt.std {
			continue
		}
		q := Quote(tt.s)
		if q != tt.q {
			t.Errorf("Quote(%#q) = %s, want %s", tt.s, q, tt.q)
		}
	}
}

func TestUnquote(t *testing.T) {
	for _, tt := range quoteTests {
		s, err := unquote(tt.q)
		if s != tt.s || err != nil {
			t.Errorf("unquote(%s) = %#q, %v want %#q, nil", tt.q, s, err, tt.s)
		}
	}
}

func TestUnquoteErrors(t *testing.T) {
	for _, test := range []struct {
		q, want string
	}{
		{`"`, "string literal too short"},
		{`"a'`, "string literal has invalid quotes"},
		{`"\x4"`, `truncated escape sequence \x4`},
		{`"\xzz"`, `invalid escape sequence \xzz`},
		{`"\u12"`, `truncated escape sequence \u12`},
		{`"\u{12"`, `truncated escape sequence \u{12`},
		{`"\u{110000}"`, `invalid escape sequence \u110000`},
	} {
		_, err := unquote(test.q)
		if err == nil || err.Error() != test.want {
			t.Errorf("unquote(%s) = %v, want error %q", test.q, err, test.want)
		}
	}
}
