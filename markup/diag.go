package markup

import (
	"context"
	"log/slog"

	"github.com/ardnew/marq/log"
	"github.com/ardnew/marq/token"
)

// Diagnostic messages reported by the parser.
const (
	MsgInvalidSyntax = "invalid syntax"
	MsgBinaryData    = "cannot splice binary data"
)

// Sink receives diagnostics. Reporting a diagnostic never stops the parser;
// success is decided solely by whether all tokens were consumed.
type Sink interface {
	Report(pos token.Position, msg string)
}

// SinkFunc adapts an ordinary function to a [Sink].
type SinkFunc func(pos token.Position, msg string)

// Report calls f(pos, msg).
func (f SinkFunc) Report(pos token.Position, msg string) { f(pos, msg) }

// Diagnostic is a message attached to a source position.
type Diagnostic struct {
	Pos token.Position
	Msg string
}

// String returns the diagnostic formatted as "line:column: message".
func (d Diagnostic) String() string {
	return d.Pos.String() + ": " + d.Msg
}

// LogValue implements slog.LogValuer.
func (d Diagnostic) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("pos", d.Pos.String()),
		slog.String("msg", d.Msg),
	)
}

// Diagnostics is a caller-owned diagnostic log. A pointer to Diagnostics is
// a [Sink].
type Diagnostics []Diagnostic

// Report appends a diagnostic.
func (d *Diagnostics) Report(pos token.Position, msg string) {
	*d = append(*d, Diagnostic{Pos: pos, Msg: msg})
}

// Tee returns a sink that reports each diagnostic to every one of sinks.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(pos token.Position, msg string) {
		for _, s := range sinks {
			if s != nil {
				s.Report(pos, msg)
			}
		}
	})
}

// LogSink returns a sink that logs each diagnostic at level.
func LogSink(ctx context.Context, logger log.Logger, level log.Level) Sink {
	return SinkFunc(func(pos token.Position, msg string) {
		logger.Log(ctx, level, "diagnostic",
			slog.Any("diagnostic", Diagnostic{Pos: pos, Msg: msg}))
	})
}

// discard is the sink used when the caller provides none.
var discard = SinkFunc(func(token.Position, string) {})
