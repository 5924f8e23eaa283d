// Package token defines the tokens consumed by the markup parser.
//
// A token stream is produced by a host tokenizer (see package lexer) and is
// never modified after construction. Every token records its exact source
// spelling and the span it occupies so that diagnostics can point back into
// the original input.
package token

import (
	"strconv"
	"strings"
)

// Kind identifies the syntactic class of a token.
type Kind int

const (
	// Ident is a bare identifier such as div or class.
	Ident Kind = iota

	// Literal is a literal constant. The specific literal class is recorded
	// in [Token.Lit].
	Literal

	// Minus is the unary arithmetic-negation marker "-".
	Minus

	// Punct is any other single punctuation rune.
	Punct

	// Open is an opening delimiter: "(", "[", or "{".
	Open

	// Close is a closing delimiter: ")", "]", or "}".
	Close
)

// String returns a string representation of the token kind.
func (k Kind) String() string {
	switch k {
	case Ident:
		return "Ident"

	case Literal:
		return "Literal"

	case Minus:
		return "Minus"

	case Punct:
		return "Punct"

	case Open:
		return "Open"

	case Close:
		return "Close"

	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Lit identifies the class of a [Literal] token.
type Lit int

const (
	// NoLit is the zero value, used by tokens that are not literals.
	NoLit Lit = iota
	Str       // "text"
	RawStr    // `text`
	Char      // 'c'
	Int       // 42, 0x2a, 0b101010
	Float     // 4.2, 4e2
	Bool      // true, false
	Byte      // b'c'
	ByteStr   // b"text"
)

// String returns a string representation of the literal class.
func (l Lit) String() string {
	switch l {
	case NoLit:
		return "NoLit"
	case Str:
		return "Str"
	case RawStr:
		return "RawStr"
	case Char:
		return "Char"
	case Int:
		return "Int"
	case Float:
		return "Float"
	case Bool:
		return "Bool"
	case Byte:
		return "Byte"
	case ByteStr:
		return "ByteStr"
	default:
		return "Lit(" + strconv.Itoa(int(l)) + ")"
	}
}

// Binary reports whether the literal class denotes raw byte data.
func (l Lit) Binary() bool { return l == Byte || l == ByteStr }

// Position identifies a location in source text.
type Position struct {
	Offset int // byte offset, starting at 0
	Line   int // line number, starting at 1
	Column int // column number in runes, starting at 1
}

// IsValid reports whether the position has been set.
func (p Position) IsValid() bool { return p.Line > 0 }

// String returns the position formatted as "line:column".
func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}

	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Token is a single lexical unit.
type Token struct {
	Kind Kind
	Lit  Lit    // literal class, NoLit unless Kind == Literal
	Text string // exact source spelling
	Pos  Position
	End  Position // position immediately following the token
}

// Make returns a token of the given kind spelled as text, positioned at the
// zero position. It is intended for building token streams by hand.
func Make(kind Kind, text string) Token {
	return Token{Kind: kind, Text: text}
}

// MakeLit returns a literal token of class lit spelled as text.
func MakeLit(lit Lit, text string) Token {
	return Token{Kind: Literal, Lit: lit, Text: text}
}

// IsLiteral reports whether the token is a literal constant.
func (t Token) IsLiteral() bool { return t.Kind == Literal }

// String returns a compact representation of the token, e.g. Literal(Int 42).
func (t Token) String() string {
	var sb strings.Builder

	sb.WriteString(t.Kind.String())
	sb.WriteByte('(')

	if t.Kind == Literal {
		sb.WriteString(t.Lit.String())
		sb.WriteByte(' ')
	}

	sb.WriteString(t.Text)
	sb.WriteByte(')')

	return sb.String()
}
