// Package literal decodes literal tokens into typed values.
//
// It plays the role of the host's literal-decoding facility: given a single
// [token.Literal] token it reports which kind of constant the token denotes
// and, for text and character data, its interpreted contents. Numeric
// literals are validated but kept in their source spelling.
package literal

import (
	"errors"
	"math/big"
	"strconv"
	"strings"

	"github.com/ardnew/marq/token"
)

// Kind is the decoded class of a literal value.
type Kind int

const (
	String Kind = iota // text string
	Char               // single character
	Int                // integer
	Float              // floating-point number
	Bool               // boolean
	Bytes              // byte or byte-string data
)

// String returns a string representation of the literal kind.
func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Char:
		return "char"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Bytes:
		return "bytes"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a decoded literal.
// Only the fields relevant to Kind are set; Spelling is always set.
type Value struct {
	Kind     Kind
	Str      string // String
	Char     rune   // Char
	Bool     bool   // Bool
	Bytes    []byte // Bytes
	Spelling string // exact source text of the token
}

var (
	// ErrNotLiteral is returned when decoding a token that is not a literal.
	ErrNotLiteral = errors.New("not a literal token")

	// ErrMalformed is returned when a literal token's spelling is invalid.
	ErrMalformed = errors.New("malformed literal")
)

// Decode decodes a literal token.
func Decode(tok token.Token) (Value, error) {
	if tok.Kind != token.Literal {
		return Value{}, ErrNotLiteral
	}

	v := Value{Spelling: tok.Text}

	switch tok.Lit {
	case token.Str, token.RawStr:
		s, err := strconv.Unquote(tok.Text)
		if err != nil {
			return Value{}, malformed(tok, err)
		}

		v.Kind, v.Str = String, s

	case token.Char:
		c, err := unquoteChar(tok.Text)
		if err != nil {
			return Value{}, malformed(tok, err)
		}

		v.Kind, v.Char = Char, c

	case token.Int:
		if _, ok := new(big.Int).SetString(tok.Text, 0); !ok {
			return Value{}, malformed(tok, strconv.ErrSyntax)
		}

		v.Kind = Int

	case token.Float:
		_, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return Value{}, malformed(tok, strconv.ErrSyntax)
		}

		v.Kind = Float

	case token.Bool:
		switch tok.Text {
		case "true", "false":
			v.Kind, v.Bool = Bool, tok.Text == "true"
		default:
			return Value{}, malformed(tok, strconv.ErrSyntax)
		}

	case token.Byte:
		c, err := unquoteChar(strings.TrimPrefix(tok.Text, "b"))
		if err != nil || c > 0xff {
			return Value{}, malformed(tok, strconv.ErrSyntax)
		}

		v.Kind, v.Bytes = Bytes, []byte{byte(c)}

	case token.ByteStr:
		s, err := strconv.Unquote(strings.TrimPrefix(tok.Text, "b"))
		if err != nil {
			return Value{}, malformed(tok, err)
		}

		v.Kind, v.Bytes = Bytes, []byte(s)

	case token.NoLit:
		return Value{}, malformed(tok, ErrNotLiteral)

	default:
		return Value{}, malformed(tok, ErrNotLiteral)
	}

	return v, nil
}

// unquoteChar interprets a single-quoted character literal.
func unquoteChar(s string) (rune, error) {
	if len(s) < 3 || s[0] != '\'' || s[len(s)-1] != '\'' {
		return 0, strconv.ErrSyntax
	}

	body := s[1 : len(s)-1]

	c, _, tail, err := strconv.UnquoteChar(body, '\'')
	if err != nil {
		return 0, err
	}

	if tail != "" {
		return 0, strconv.ErrSyntax
	}

	return c, nil
}

func malformed(tok token.Token, cause error) error {
	return &Error{Token: tok, Err: cause}
}

// Error reports a literal token that could not be decoded.
type Error struct {
	Token token.Token
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return ErrMalformed.Error() + " " + e.Token.Text + ": " + e.Err.Error()
}

// Is reports whether target is [ErrMalformed].
func (e *Error) Is(target error) bool { return target == ErrMalformed }

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }
