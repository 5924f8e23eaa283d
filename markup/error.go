package markup

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrParse     = NewError("parse error")
	ErrLex       = NewError("tokenize error")
	ErrReadInput = NewError("failed to read input")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.err != nil || t.msg == "" {
		return false
	}

	return t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// ParseError reports the diagnostics of a failed parse.
type ParseError struct {
	Diagnostics Diagnostics
	Source      string // The original source input, if known
}

// NewParseError returns a ParseError for diags scanned from source.
func NewParseError(diags Diagnostics, source string) *ParseError {
	return &ParseError{
		Diagnostics: diags,
		Source:      source,
	}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if len(e.Diagnostics) == 0 {
		return ErrParse.Error()
	}

	first := e.Diagnostics[0]

	var buf strings.Builder

	buf.WriteString(ErrParse.Error())

	if first.Pos.IsValid() {
		buf.WriteString(" at line ")
		buf.WriteString(strconv.Itoa(first.Pos.Line))
		buf.WriteString(", column ")
		buf.WriteString(strconv.Itoa(first.Pos.Column))
	}

	buf.WriteString(": ")
	buf.WriteString(first.Msg)

	if more := len(e.Diagnostics) - 1; more > 0 {
		buf.WriteString(" (and ")
		buf.WriteString(strconv.Itoa(more))
		buf.WriteString(" more)")
	}

	// If we have the source, show the offending line
	if e.Source != "" {
		buf.WriteString("\n")
		buf.WriteString(e.Snippet(first))
	}

	return strings.TrimRight(buf.String(), "\n")
}

// Unwrap returns [ErrParse].
func (e *ParseError) Unwrap() error { return ErrParse }

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.Diagnostics)+1)
	attrs = append(attrs, slog.String("error", ErrParse.Error()))

	for i, d := range e.Diagnostics {
		attrs = append(attrs, slog.Any(strconv.Itoa(i), d))
	}

	return slog.GroupValue(attrs...)
}

// Snippet returns the source line containing d followed by a line with a
// caret under d's column. It returns "" when the line is out of range.
func (e *ParseError) Snippet(d Diagnostic) string {
	lines := strings.Split(e.Source, "\n")

	if d.Pos.Line <= 0 || d.Pos.Line > len(lines) {
		return ""
	}

	var src strings.Builder

	// Print the line with line number
	src.WriteString("  ")
	src.WriteString(strconv.Itoa(d.Pos.Line))
	src.WriteString(" | ")
	src.WriteString(lines[d.Pos.Line-1])
	src.WriteRune('\n')

	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	lineNumWidth := len(strconv.Itoa(d.Pos.Line))
	padding := strings.Repeat(" ", lineNumWidth+5)

	if d.Pos.Column > 0 {
		padding += strings.Repeat(" ", d.Pos.Column-1)
	}

	src.WriteString(padding + "^\n")

	return src.String()
}
