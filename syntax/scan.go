// Copyright 2026 The Unclosure Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// A lexical scanner for the JavaScript subset.

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// A Token represents a JavaScript lexical token.
type Token int8

const (
	ILLEGAL Token = iota
	EOF

	IDENT  // x
	NUMBER // 123, 0x1f, 1.5e3
	STRING // "foo" or 'foo'

	// Punctuation
	LPAREN   // (
	RPAREN   // )
	LBRACK   // [
	RBRACK   // ]
	LBRACE   // {
	RBRACE   // }
	COMMA    // ,
	SEMI     // ;
	DOT      // .
	QDOT     // ?.
	ELLIPSIS // ...
	QUESTION // ?
	COLON    // :
	ARROW    // =>

	// Operators
	PLUS       // +
	MINUS      // -
	STAR       // *
	SLASH      // /
	PERCENT    // %
	STARSTAR   // **
	AMP        // &
	PIPE       // |
	CIRCUMFLEX // ^
	TILDE      // ~
	LTLT       // <<
	GTGT       // >>
	GTGTGT     // >>>
	BANG       // !
	ANDAND     // &&
	OROR       // ||
	QQ         // ??
	EQL        // ==
	NEQ        // !=
	EQLEQL     // ===
	NEQEQ      // !==
	LT         // <
	LE         // <=
	GT         // >
	GE         // >=
	INC        // ++
	DEC        // --

	// Assignments
	EQ            // =
	PLUS_EQ       // +=
	MINUS_EQ      // -=
	STAR_EQ       // *=
	SLASH_EQ      // /=
	PERCENT_EQ    // %=
	STARSTAR_EQ   // **=
	AMP_EQ        // &=
	PIPE_EQ       // |=
	CIRCUMFLEX_EQ // ^=
	LTLT_EQ       // <<=
	GTGT_EQ       // >>=
	GTGTGT_EQ     // >>>=
	ANDAND_EQ     // &&=
	OROR_EQ       // ||=
	QQ_EQ         // ??=

	// Keywords
	AWAIT
	BREAK
	CASE
	CATCH
	CLASS
	CONST
	CONTINUE
	DEFAULT
	DELETE
	DO
	ELSE
	EXPORT
	EXTENDS
	FALSE
	FINALLY
	FOR
	FUNCTION
	IF
	IMPORT
	IN
	INSTANCEOF
	LET
	NEW
	NULL
	RETURN
	SUPER
	SWITCH
	THIS
	THROW
	TRUE
	TRY
	TYPEOF
	VAR
	VOID
	WHILE
	YIELD

	maxToken
)

func (tok Token) String() string { return tokenNames[tok] }

// GoString is like String but quotes punctuation tokens.
// Use Sprintf("%#v", tok) when constructing error messages.
func (tok Token) GoString() string {
	if tok >= LPAREN && tok <= QQ_EQ {
		return "'" + tokenNames[tok] + "'"
	}
	return tokenNames[tok]
}

var tokenNames = [...]string{
	ILLEGAL:       "illegal token",
	EOF:           "end of file",
	IDENT:         "identifier",
	NUMBER:        "number literal",
	STRING:        "string literal",
	LPAREN:        "(",
	RPAREN:        ")",
	LBRACK:        "[",
	RBRACK:        "]",
	LBRACE:        "{",
	RBRACE:        "}",
	COMMA:         ",",
	SEMI:          ";",
	DOT:           ".",
	QDOT:          "?.",
	ELLIPSIS:      "...",
	QUESTION:      "?",
	COLON:         ":",
	ARROW:         "=>",
	PLUS:          "+",
	MINUS:         "-",
	STAR:          "*",
	SLASH:         "/",
	PERCENT:       "%",
	STARSTAR:      "**",
	AMP:           "&",
	PIPE:          "|",
	CIRCUMFLEX:    "^",
	TILDE:         "~",
	LTLT:          "<<",
	GTGT:          ">>",
	GTGTGT:        ">>>",
	BANG:          "!",
	ANDAND:        "&&",
	OROR:          "||",
	QQ:            "??",
	EQL:           "==",
	NEQ:           "!=",
	EQLEQL:        "===",
	NEQEQ:         "!==",
	LT:            "<",
	LE:            "<=",
	GT:            ">",
	GE:            ">=",
	INC:           "++",
	DEC:           "--",
	EQ:            "=",
	PLUS_EQ:       "+=",
	MINUS_EQ:      "-=",
	STAR_EQ:       "*=",
	SLASH_EQ:      "/=",
	PERCENT_EQ:    "%=",
	STARSTAR_EQ:   "**=",
	AMP_EQ:        "&=",
	PIPE_EQ:       "|=",
	CIRCUMFLEX_EQ: "^=",
	LTLT_EQ:       "<<=",
	GTGT_EQ:       ">>=",
	GTGTGT_EQ:     ">>>=",
	ANDAND_EQ:     "&&=",
	OROR_EQ:       "||=",
	QQ_EQ:         "??=",
	AWAIT:         "await",
	BREAK:         "break",
	CASE:          "case",
	CATCH:         "catch",
	CLASS:         "class",
	CONST:         "const",
	CONTINUE:      "continue",
	DEFAULT:       "default",
	DELETE:        "delete",
	DO:            "do",
	ELSE:          "else",
	EXPORT:        "export",
	EXTENDS:       "extends",
	FALSE:         "false",
	FINALLY:       "finally",
	FOR:           "for",
	FUNCTION:      "function",
	IF:            "if",
	IMPORT:        "import",
	IN:            "in",
	INSTANCEOF:    "instanceof",
	LET:           "let",
	NEW:           "new",
	NULL:          "null",
	RETURN:        "return",
	SUPER:         "super",
	SWITCH:        "switch",
	THIS:          "this",
	THROW:         "throw",
	TRUE:          "true",
	TRY:           "try",
	TYPEOF:        "typeof",
	VAR:           "var",
	VOID:          "void",
	WHILE:         "while",
	YIELD:         "yield",
}

// keywordToken records the special tokens for
// strings that should not be treated as ordinary identifiers.
var keywordToken = make(map[string]Token)

func init() {
	for tok := AWAIT; tok < maxToken; tok++ {
		keywordToken[tokenNames[tok]] = tok
	}
}

// A FilePortion describes the content of a portion of a file.
// Callers may provide a FilePortion for the src argument of Parse
// when the desired initial line and column numbers are not (1, 1),
// such as when a script is embedded in an HTML page.
type FilePortion struct {
	Content             []byte
	FirstLine, FirstCol int32
}

// A Position describes the location of a rune of input.
type Position struct {
	file *string // filename (indirect for compactness)
	Line int32   // 1-based line number; 0 if line unknown
	Col  int32   // 1-based column (rune) number; 0 if column unknown
}

// IsValid reports whether the position is valid.
func (p Position) IsValid() bool { return p.file != nil }

// Filename returns the name of the file containing this position.
func (p Position) Filename() string {
	if p.file != nil {
		return *p.file
	}
	return "<invalid>"
}

// MakePosition returns position with the specified components.
func MakePosition(file *string, line, col int32) Position { return Position{file, line, col} }

// add returns the position at the end of s, assuming it starts at p.
func (p Position) add(s string) Position {
	if n := strings.Count(s, "\n"); n > 0 {
		p.Line += int32(n)
		s = s[strings.LastIndex(s, "\n")+1:]
		p.Col = 1
	}
	p.Col += int32(utf8.RuneCountInString(s))
	return p
}

func (p Position) String() string {
	file := p.Filename()
	if p.Line > 0 {
		if p.Col > 0 {
			return fmt.Sprintf("%s:%d:%d", file, p.Line, p.Col)
		}
		return fmt.Sprintf("%s:%d", file, p.Line)
	}
	return file
}

func (p Position) isBefore(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Col < q.Col
}

// Before reports whether p precedes q in the same file.
func (p Position) Before(q Position) bool { return p.isBefore(q) }

// An Error describes the nature and position of a scanner or parser error.
type Error struct {
	Pos Position
	Msg string
}

func (e Error) Error() string { return e.Pos.String() + ": " + e.Msg }

// A tokenValue holds the data associated with a token.
type tokenValue struct {
	raw    string   // raw text of token
	number float64  // decoded number
	string string   // decoded string
	pos    Position // start position of token
	end    Position // position just after the token
	nl     bool     // a line terminator precedes the token
}

// A scanner represents a single input file being parsed.
type scanner struct {
	rest     []byte   // rest of input
	token    []byte   // token being scanned
	pos      Position // current input position
	sawBreak bool     // a line terminator was seen since the last token
}

func newScanner(filename string, src interface{}) (*scanner, error) {
	var firstLine, firstCol int32 = 1, 1
	if portion, ok := src.(FilePortion); ok {
		firstLine, firstCol = portion.FirstLine, portion.FirstCol
	}
	sc := &scanner{
		pos: MakePosition(&filename, firstLine, firstCol),
	}
	data, err := readSource(filename, src)
	if err != nil {
		return nil, err
	}
	sc.rest = data
	return sc, nil
}

func readSource(filename string, src interface{}) ([]byte, error) {
	switch src := src.(type) {
	case string:
		return []byte(src), nil
	case []byte:
		return src, nil
	case io.Reader:
		data, err := io.ReadAll(src)
		if err != nil {
			err = &os.PathError{Op: "read", Path: filename, Err: err}
			return nil, err
		}
		return data, nil
	case FilePortion:
		return src.Content, nil
	case nil:
		return os.ReadFile(filename)
	default:
		return nil, fmt.Errorf("invalid source: %T", src)
	}
}

// error reports an error at the specified position.
func (sc *scanner) error(pos Position, s string) {
	panic(Error{pos, s})
}

func (sc *scanner) errorf(pos Position, format string, args ...interface{}) {
	sc.error(pos, fmt.Sprintf(format, args...))
}

func (sc *scanner) recover(err *error) {
	// The scanner and parser panic both for routine errors like
	// syntax errors and for programmer bugs like array index
	// errors.  Turn both into error returns.  Catching bug panics
	// is especially important when processing many files.
	switch e := recover().(type) {
	case nil:
		// no panic
	case Error:
		*err = e
	default:
		*err = Error{sc.pos, fmt.Sprintf("internal error: %v", e)}
	}
}

// eof reports whether the input has reached end of file.
func (sc *scanner) eof() bool {
	return len(sc.rest) == 0
}

// peekRune returns the next rune in the input without consuming it.
func (sc *scanner) peekRune() rune {
	if len(sc.rest) == 0 {
		return 0
	}
	if b := sc.rest[0]; b < utf8.RuneSelf {
		return rune(b)
	}
	r, _ := utf8.DecodeRune(sc.rest)
	return r
}

// peekAt returns the byte at offset i of the remaining input, or 0.
func (sc *scanner) peekAt(i int) byte {
	if i < len(sc.rest) {
		return sc.rest[i]
	}
	return 0
}

// readRune consumes and returns the next rune in the input.
func (sc *scanner) readRune() rune {
	if len(sc.rest) == 0 {
		sc.error(sc.pos, "internal scanner error: readRune at EOF")
		return 0 // unreachable but eliminates bounds-check below
	}

	// fast path: ASCII
	if b := sc.rest[0]; b < utf8.RuneSelf {
		r := rune(b)
		sc.rest = sc.rest[1:]
		if r == '\n' {
			sc.pos.Line++
			sc.pos.Col = 1
		} else {
			sc.pos.Col++
		}
		return r
	}

	r, size := utf8.DecodeRune(sc.rest)
	sc.rest = sc.rest[size:]
	sc.pos.Col++
	return r
}

// startToken marks the beginning of the next input token.
// It must be followed by a call to endToken once the token has
// been consumed using readRune.
func (sc *scanner) startToken(val *tokenValue) {
	sc.token = sc.rest
	val.raw = ""
	val.pos = sc.pos
}

// endToken marks the end of an input token.
// It records the actual token string in val.raw if the caller
// has not done that already.
func (sc *scanner) endToken(val *tokenValue) {
	if val.raw == "" {
		val.raw = string(sc.token[:len(sc.token)-len(sc.rest)])
	}
	val.end = sc.pos
}

// scanAll scans the entire input, returning its tokens
// terminated by a single EOF token.
func (sc *scanner) scanAll() (toks []Token, vals []tokenValue) {
	for {
		var val tokenValue
		tok := sc.nextToken(&val)
		toks = append(toks, tok)
		vals = append(vals, val)
		if tok == EOF {
			return toks, vals
		}
	}
}

// nextToken is called by the parser to obtain the next input token.
// It returns the token value and sets val to the data associated with
// the token.
func (sc *scanner) nextToken(val *tokenValue) Token {
	sc.skipSpace()
	val.nl = sc.sawBreak
	sc.sawBreak = false

	sc.startToken(val)
	defer sc.endToken(val)

	if sc.eof() {
		return EOF
	}

	c := sc.peekRune()

	// identifier or keyword
	if isIdentStart(c) {
		for isIdent(sc.peekRune()) {
			sc.readRune()
		}
		sc.endToken(val)
		if k, ok := keywordToken[val.raw]; ok {
			return k
		}
		return IDENT
	}

	// number
	if isdigit(c) || c == '.' && isdigit(rune(sc.peekAt(1))) {
		return sc.scanNumber(val)
	}

	// string literal
	if c == '"' || c == '\'' {
		return sc.scanString(val, c)
	}

	if c == '`' {
		sc.error(sc.pos, "template literals are not supported")
	}

	// punctuation
	sc.readRune()
	switch c {
	case '(':
		return LPAREN
	case ')':
		return RPAREN
	case '[':
		return LBRACK
	case ']':
		return RBRACK
	case '{':
		return LBRACE
	case '}':
		return RBRACE
	case ',':
		return COMMA
	case ';':
		return SEMI
	case ':':
		return COLON
	case '~':
		return TILDE
	case '.':
		if sc.peekRune() == '.' && sc.peekAt(1) == '.' {
			sc.readRune()
			sc.readRune()
			return ELLIPSIS
		}
		return DOT
	case '?':
		switch sc.peekRune() {
		case '.':
			if !isdigit(rune(sc.peekAt(1))) {
				sc.readRune()
				return QDOT
			}
		case '?':
			sc.readRune()
			if sc.peekRune() == '=' {
				sc.readRune()
				return QQ_EQ
			}
			return QQ
		}
		return QUESTION
	case '=':
		switch sc.peekRune() {
		case '>':
			sc.readRune()
			return ARROW
		case '=':
			sc.readRune()
			if sc.peekRune() == '=' {
				sc.readRune()
				return EQLEQL
			}
			return EQL
		}
		return EQ
	case '!':
		if sc.peekRune() == '=' {
			sc.readRune()
			if sc.peekRune() == '=' {
				sc.readRune()
				return NEQEQ
			}
			return NEQ
		}
		return BANG
	case '+':
		switch sc.peekRune() {
		case '+':
			sc.readRune()
			return INC
		case '=':
			sc.readRune()
			return PLUS_EQ
		}
		return PLUS
	case '-':
		switch sc.peekRune() {
		case '-':
			sc.readRune()
			return DEC
		case '=':
			sc.readRune()
			return MINUS_EQ
		}
		return MINUS
	case '*':
		if sc.peekRune() == '*' {
			sc.readRune()
			return sc.maybeAssign(STARSTAR, STARSTAR_EQ)
		}
		return sc.maybeAssign(STAR, STAR_EQ)
	case '/':
		return sc.maybeAssign(SLASH, SLASH_EQ)
	case '%':
		return sc.maybeAssign(PERCENT, PERCENT_EQ)
	case '^':
		return sc.maybeAssign(CIRCUMFLEX, CIRCUMFLEX_EQ)
	case '&':
		if sc.peekRune() == '&' {
			sc.readRune()
			return sc.maybeAssign(ANDAND, ANDAND_EQ)
		}
		return sc.maybeAssign(AMP, AMP_EQ)
	case '|':
		if sc.peekRune() == '|' {
			sc.readRune()
			return sc.maybeAssign(OROR, OROR_EQ)
		}
		return sc.maybeAssign(PIPE, PIPE_EQ)
	case '<':
		switch sc.peekRune() {
		case '<':
			sc.readRune()
			return sc.maybeAssign(LTLT, LTLT_EQ)
		case '=':
			sc.readRune()
			return LE
		}
		return LT
	case '>':
		switch sc.peekRune() {
		case '>':
			sc.readRune()
			if sc.peekRune() == '>' {
				sc.readRune()
				return sc.maybeAssign(GTGTGT, GTGTGT_EQ)
			}
			return sc.maybeAssign(GTGT, GTGT_EQ)
		case '=':
			sc.readRune()
			return GE
		}
		return GT
	}

	sc.errorf(val.pos, "unexpected input character %#q", c)
	panic("unreachable")
}

// maybeAssign consumes a trailing '=' and returns the assignment form
// of an operator, or returns op unchanged.
func (sc *scanner) maybeAssign(op, assign Token) Token {
	if sc.peekRune() == '=' {
		sc.readRune()
		return assign
	}
	return op
}

// skipSpace skips white space and comments,
// noting any line terminators on the way.
func (sc *scanner) skipSpace() {
	for !sc.eof() {
		c := sc.peekRune()
		switch {
		case c == '\n' || c == '\u2028' || c == '\u2029':
			sc.sawBreak = true
			sc.readRune()
		case c == ' ' || c == '\t' || c == '\r' || c == '\v' || c == '\f' || c == '\ufeff' || c == '\u00a0':
			sc.readRune()
		case c == '/' && sc.peekAt(1) == '/':
			for !sc.eof() && sc.peekRune() != '\n' {
				sc.readRune()
			}
		case c == '/' && sc.peekAt(1) == '*':
			pos := sc.pos
			sc.readRune()
			sc.readRune()
			for {
				if sc.eof() {
					sc.error(pos, "unterminated comment")
				}
				if sc.peekRune() == '*' && sc.peekAt(1) == '/' {
					sc.readRune()
					sc.readRune()
					break
				}
				if sc.readRune() == '\n' {
					sc.sawBreak = true
				}
			}
		case unicode.IsSpace(c):
			sc.readRune()
		default:
			return
		}
	}
}

func (sc *scanner) scanString(val *tokenValue, quote rune) Token {
	start := sc.pos
	sc.readRune()
	for {
		if sc.eof() {
			sc.error(start, "unexpected EOF in string")
		}
		c := sc.readRune()
		if c == quote {
			break
		}
		if c == '\n' {
			sc.error(start, "unexpected newline in string")
		}
		if c == '\\' {
			if sc.eof() {
				sc.error(start, "unexpected EOF in string")
			}
			sc.readRune()
		}
	}
	sc.endToken(val)
	s, err := unquote(val.raw)
	if err != nil {
		sc.error(start, err.Error())
	}
	val.string = s
	return STRING
}

func (sc *scanner) scanNumber(val *tokenValue) Token {
	start := sc.pos
	if sc.peekRune() == '0' {
		switch sc.peekAt(1) {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			sc.readRune()
			sc.readRune()
			for isHex(sc.peekRune()) || sc.peekRune() == '_' {
				sc.readRune()
			}
			sc.endToken(val)
			s := strings.ReplaceAll(val.raw, "_", "")
			n, err := strconv.ParseInt(s, 0, 64)
			if err != nil {
				sc.errorf(start, "invalid number literal %s", val.raw)
			}
			val.number = float64(n)
			return NUMBER
		}
	}
	for isdigit(sc.peekRune()) || sc.peekRune() == '_' {
		sc.readRune()
	}
	if sc.peekRune() == '.' {
		sc.readRune()
		for isdigit(sc.peekRune()) || sc.peekRune() == '_' {
			sc.readRune()
		}
	}
	if c := sc.peekRune(); c == 'e' || c == 'E' {
		sc.readRune()
		if c := sc.peekRune(); c == '+' || c == '-' {
			sc.readRune()
		}
		if !isdigit(sc.peekRune()) {
			sc.errorf(start, "invalid number literal")
		}
		for isdigit(sc.peekRune()) {
			sc.readRune()
		}
	}
	if isIdentStart(sc.peekRune()) {
		sc.errorf(start, "invalid number literal")
	}
	sc.endToken(val)
	f, err := strconv.ParseFloat(strings.ReplaceAll(val.raw, "_", ""), 64)
	if err != nil {
		sc.errorf(start, "invalid number literal %s", val.raw)
	}
	val.number = f
	return NUMBER
}

// isIdent reports whether c is an identifier rune.
func isIdent(c rune) bool {
	return isdigit(c) || isIdentStart(c)
}

func isIdentStart(c rune) bool {
	return 'a' <= c && c <= 'z' ||
		'A' <= c && c <= 'Z' ||
		c == '_' || c == '$' ||
		unicode.IsLetter(c)
}

func isdigit(c rune) bool { return '0' <= c && c <= '9' }

func isHex(c rune) bool {
	return isdigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// IsIdentifier reports whether s is a valid identifier that is not a keyword.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		if i == 0 && !isIdentStart(c) || !isIdent(c) {
			return false
		}
	}
	_, kw := keywordToken[s]
	return !kw
}
