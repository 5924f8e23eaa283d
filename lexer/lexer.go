// Package lexer converts template source text into the token stream consumed
// by package markup.
//
// The token syntax follows Go's lexical conventions with two additions for
// binary data: b'c' byte literals and b"text" byte-string literals.
//
//	"text"        string literal (Go escapes)
//	`text`        raw string literal
//	'c'           character literal
//	b'c'  b"text" byte and byte-string literals
//	42  0x2a  0o52  0b101010  1_000  4.2  .5  4e2  0x1p-2
//	true  false   boolean literals
//	-             negation marker, always a separate token
//	( [ {  ) ] }  delimiters
//
// Whitespace, // line comments and /* block */ comments separate tokens and
// are otherwise discarded.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/marq/token"
)

// Tokenize scans src and returns its tokens in order.
// On failure the returned error is an [*Error] carrying the position of the
// offending input.
func Tokenize(src string) ([]token.Token, error) {
	l := &lexer{
		input: []byte(src),
		line:  1,
		col:   1,
	}

	for {
		err := l.skipWhitespaceAndComments()
		if err != nil {
			return nil, err
		}

		if l.eof() {
			break
		}

		tok, err := l.next()
		if err != nil {
			return nil, err
		}

		l.toks = append(l.toks, tok)
	}

	return l.toks, nil
}

// lexer holds the scanner state.
type lexer struct {
	input []byte
	toks  []token.Token
	pos   int
	line  int
	col   int
}

// next scans a single token starting at the current position.
func (l *lexer) next() (token.Token, error) {
	start := l.position()
	ch := l.peek()

	var (
		kind = token.Punct
		lit  = token.NoLit
		err  error
	)

	switch {
	case ch == '"':
		kind, lit = token.Literal, token.Str
		err = l.scanQuoted('"')

	case ch == '`':
		kind, lit = token.Literal, token.RawStr
		err = l.scanRaw()

	case ch == '\'':
		kind, lit = token.Literal, token.Char
		err = l.scanQuoted('\'')

	case ch == 'b' && (l.peekAt(1) == '\'' || l.peekAt(1) == '"'):
		quote := l.peekAt(1)

		kind, lit = token.Literal, token.ByteStr
		if quote == '\'' {
			lit = token.Byte
		}

		l.advance() // skip 'b'
		err = l.scanQuoted(quote)

	case isDigit(ch) || (ch == '.' && isDigit(l.peekAt(1))):
		kind = token.Literal
		lit, err = l.scanNumber()

	case isIdentifierStart(ch):
		kind = token.Ident
		l.scanIdentifier()

		switch string(l.input[start.Offset:l.pos]) {
		case "true", "false":
			kind, lit = token.Literal, token.Bool
		}

	case ch == '-':
		kind = token.Minus
		l.advance()

	case ch == '(' || ch == '[' || ch == '{':
		kind = token.Open
		l.advance()

	case ch == ')' || ch == ']' || ch == '}':
		kind = token.Close
		l.advance()

	case unicode.IsPunct(ch) || unicode.IsSymbol(ch):
		l.advance()

	default:
		return token.Token{}, newError(start, "unexpected character "+quoteRune(ch))
	}

	if err != nil {
		return token.Token{}, err
	}

	return token.Token{
		Kind: kind,
		Lit:  lit,
		Text: string(l.input[start.Offset:l.pos]),
		Pos:  start,
		End:  l.position(),
	}, nil
}

// scanQuoted scans a string or character literal delimited by quote.
// Escapes are skipped, not interpreted; a literal may not span lines.
func (l *lexer) scanQuoted(quote rune) error {
	start := l.position()

	l.advance() // skip opening quote

	for !l.eof() {
		ch := l.peek()

		switch ch {
		case '\\':
			l.advance() // skip backslash

			if !l.eof() && l.peek() != '\n' {
				l.advance() // skip escaped char
			}

			continue

		case '\n':
			return newError(start, "unterminated literal")

		case quote:
			l.advance() // skip closing quote

			return nil
		}

		l.advance()
	}

	return newError(start, "unterminated literal")
}

// scanRaw scans a raw string literal. Raw strings may span lines.
func (l *lexer) scanRaw() error {
	start := l.position()

	l.advance() // skip opening '`'

	for !l.eof() {
		if l.peek() == '`' {
			l.advance()

			return nil
		}

		l.advance()
	}

	return newError(start, "unterminated raw string")
}

// scanNumber scans an integer or floating-point literal and reports which.
// The spelling is validated later by package literal.
func (l *lexer) scanNumber() (token.Lit, error) {
	lit := token.Int
	digits := isDigit
	exponent := "eE"

	if l.peek() == '0' {
		switch lower(l.peekAt(1)) {
		case 'x':
			digits, exponent = isHexDigit, "pP"

			l.advance()
			l.advance()

		case 'o':
			digits = isOctalDigit

			l.advance()
			l.advance()

		case 'b':
			digits = isBinaryDigit

			l.advance()
			l.advance()
		}
	}

	l.scanDigits(digits)

	if l.peek() == '.' && (digits(l.peekAt(1)) || !isIdentifierStart(l.peekAt(1))) {
		lit = token.Float

		l.advance()
		l.scanDigits(digits)
	}

	if strings.ContainsRune(exponent, l.peek()) {
		lit = token.Float

		l.advance()

		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}

		if !isDigit(l.peek()) {
			return lit, newError(l.position(), "exponent has no digits")
		}

		l.scanDigits(isDigit)
	}

	if isIdentifierContinue(l.peek()) {
		return lit, newError(l.position(), "invalid character "+quoteRune(l.peek())+" in numeric literal")
	}

	return lit, nil
}

func (l *lexer) scanDigits(digits func(rune) bool) {
	for !l.eof() && (digits(l.peek()) || l.peek() == '_') {
		l.advance()
	}
}

// scanIdentifier scans an identifier. The caller has verified the first rune.
func (l *lexer) scanIdentifier() {
	l.advance()

	for !l.eof() && isIdentifierContinue(l.peek()) {
		l.advance()
	}
}

// Helper methods

func (l *lexer) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(l.input[l.pos:])

	return r
}

// peekAt returns the rune n runes past the current position.
func (l *lexer) peekAt(n int) rune {
	pos := l.pos

	for ; n > 0 && pos < len(l.input); n-- {
		_, size := utf8.DecodeRune(l.input[pos:])
		pos += size
	}

	if pos >= len(l.input) {
		return 0
	}

	r, _ := utf8.DecodeRune(l.input[pos:])

	return r
}

func (l *lexer) advance() {
	if l.eof() {
		return
	}

	r, size := utf8.DecodeRune(l.input[l.pos:])

	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *lexer) eof() bool {
	return l.pos >= len(l.input)
}

func (l *lexer) position() token.Position {
	return token.Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.col,
	}
}

func (l *lexer) skipWhitespaceAndComments() error {
	for {
		for !l.eof() && unicode.IsSpace(l.peek()) {
			l.advance()
		}

		if l.eof() || l.peek() != '/' {
			return nil
		}

		switch l.peekAt(1) {
		case '/':
			for !l.eof() && l.peek() != '\n' {
				l.advance()
			}

		case '*':
			err := l.skipBlockComment()
			if err != nil {
				return err
			}

		default:
			return nil
		}
	}
}

func (l *lexer) skipBlockComment() error {
	start := l.position()

	l.advance() // skip '/'
	l.advance() // skip '*'

	for !l.eof() {
		if l.peek() == '*' && l.peekAt(1) == '/' {
			l.advance()
			l.advance()

			return nil
		}

		l.advance()
	}

	return newError(start, "unterminated comment")
}

// Character classification

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierContinue(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isDigit(r rune) bool       { return '0' <= r && r <= '9' }
func isOctalDigit(r rune) bool  { return '0' <= r && r <= '7' }
func isBinaryDigit(r rune) bool { return r == '0' || r == '1' }

func isHexDigit(r rune) bool {
	return isDigit(r) || ('a' <= lower(r) && lower(r) <= 'f')
}

func lower(r rune) rune { return ('a' - 'A') | r }
