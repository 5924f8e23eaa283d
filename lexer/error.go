package lexer

import (
	"log/slog"
	"strconv"

	"github.com/ardnew/marq/token"
)

// Error describes a lexical error at a position in the source.
type Error struct {
	Pos token.Position
	Msg string
}

func newError(pos token.Position, msg string) *Error {
	return &Error{Pos: pos, Msg: msg}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", e.Msg),
		slog.Int("line", e.Pos.Line),
		slog.Int("column", e.Pos.Column),
	)
}

func quoteRune(r rune) string {
	return strconv.QuoteRune(r)
}
