// Copyright 2026 The Unclosure Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// JavaScript quoted string utilities.

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// unesc maps single-letter chars following \ to their actual values.
var unesc = [256]byte{
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'0':  0,
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
}

// esc maps escape-worthy bytes to the char that should follow \.
var esc = [256]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	'\v': 'v',
	'\\': '\\',
	'"':  '"',
}

// unquote unquotes the quoted string, returning the actual
// string value. The quote may be ' or ".
func unquote(quoted string) (s string, err error) {
	if len(quoted) < 2 {
		err = fmt.Errorf("string literal too short")
		return
	}
	q := quoted[0]
	if q != '"' && q != '\'' || quoted[len(quoted)-1] != q {
		err = fmt.Errorf("string literal has invalid quotes")
		return
	}
	quoted = quoted[1 : len(quoted)-1]

	if !strings.ContainsRune(quoted, '\\') {
		return quoted, nil
	}

	var buf strings.Builder
	for len(quoted) > 0 {
		// Process sequence of non-escape characters.
		i := strings.IndexByte(quoted, '\\')
		if i < 0 {
			i = len(quoted)
		}
		buf.WriteString(quoted[:i])
		quoted = quoted[i:]
		if len(quoted) == 0 {
			break
		}

		// Process escape sequence.
		if len(quoted) == 1 {
			err = fmt.Errorf(`truncated escape sequence \`)
			return
		}

		switch c := quoted[1]; c {
		case '\n':
			// Line continuation.
			quoted = quoted[2:]

		case 'x':
			if len(quoted) < 4 {
				err = fmt.Errorf(`truncated escape sequence %s`, quoted)
				return
			}
			n, err1 := strconv.ParseUint(quoted[2:4], 16, 0)
			if err1 != nil {
				err = fmt.Errorf(`invalid escape sequence %s`, quoted[:4])
				return
			}
			buf.WriteRune(rune(n))
			quoted = quoted[4:]

		case 'u':
			hex, rest := "", ""
			if len(quoted) > 2 && quoted[2] == '{' {
				end := strings.IndexByte(quoted, '}')
				if end < 0 {
					err = fmt.Errorf(`truncated escape sequence %s`, quoted)
					return
				}
				hex, rest = quoted[3:end], quoted[end+1:]
			} else {
				if len(quoted) < 6 {
					err = fmt.Errorf(`truncated escape sequence %s`, quoted)
					return
				}
				hex, rest = quoted[2:6], quoted[6:]
			}
			n, err1 := strconv.ParseUint(hex, 16, 32)
			if err1 != nil || n > utf8.MaxRune {
				err = fmt.Errorf(`invalid escape sequence \u%s`, hex)
				return
			}
			buf.WriteRune(rune(n))
			quoted = rest

		default:
			if unesc[c] != 0 || c == '0' {
				buf.WriteByte(unesc[c])
			} else {
				// Unknown escapes denote the character itself.
				buf.WriteByte(c)
			}
			quoted = quoted[2:]
		}
	}

	s = buf.String()
	return
}

// Quote returns a double-quoted JavaScript string literal denoting s.
func Quote(s string) string {
	var buf strings.Builder
	buf.Grow(len(s) + 2)
	buf.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case esc[c] != 0:
			buf.WriteByte('\\')
			buf.WriteByte(esc[c])
		case c < 0x20 || c == 0x7f:
			fmt.Fprintf(&buf, `\x%02x`, c)
		default:
			buf.WriteByte(c)
		}
	}
	buf.WriteByte('"')
	return buf.String()
}
