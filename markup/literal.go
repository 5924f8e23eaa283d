package markup

import (
	"strings"

	"github.com/ardnew/marq/literal"
	"github.com/ardnew/marq/token"
)

// RecognizeLiteral consumes one optionally negated literal from the front of
// c and returns its canonical text.
//
// It returns false without reporting anything when the next token is not a
// literal. A leading [token.Minus] is consumed even in that case and is not
// given back; callers that want to reinterpret the marker must not rely on
// the cursor position afterwards.
//
// Byte and byte-string literals are rejected: the token is consumed, a
// [MsgBinaryData] diagnostic is reported at its position, and false is
// returned. Literals the decoder cannot interpret are handled the same way
// with the decoder's message.
func RecognizeLiteral(c *Cursor, sink Sink) (string, bool) {
	if sink == nil {
		sink = discard
	}

	minus := false

	if head := c.Peek(1); len(head) > 0 && head[0].Kind == token.Minus {
		c.Advance(1)

		minus = true
	}

	head := c.Peek(1)
	if len(head) == 0 {
		return "", false
	}

	switch tok := head[0]; tok.Kind {
	case token.Literal:
		c.Advance(1)

		return canonicalize(tok, minus, sink)

	case token.Ident, token.Minus, token.Punct, token.Open, token.Close:
		return "", false

	default:
		return "", false
	}
}

// canonicalize converts a literal token into its canonical text.
// Numbers keep their source spelling.
func canonicalize(tok token.Token, minus bool, sink Sink) (string, bool) {
	v, err := literal.Decode(tok)
	if err != nil {
		sink.Report(tok.Pos, err.Error())

		return "", false
	}

	var sb strings.Builder

	if minus {
		sb.WriteByte('-')
	}

	switch v.Kind {
	case literal.String:
		sb.WriteString(v.Str)

	case literal.Char:
		sb.WriteRune(v.Char)

	case literal.Int, literal.Float:
		sb.WriteString(v.Spelling)

	case literal.Bool:
		if v.Bool {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}

	case literal.Bytes:
		sink.Report(tok.Pos, MsgBinaryData)

		return "", false
	}

	return sb.String(), true
}
