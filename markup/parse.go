package markup

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/ardnew/marq/lexer"
	"github.com/ardnew/marq/token"
)

// Parse parses markup units from c until the tokens are exhausted or a token
// cannot start a unit, then reports whether every token was consumed.
//
// The result is meaningful only when ok is true; a single unparseable token
// invalidates the whole parse. Diagnostics are reported to sink, which may be
// nil. Note that ok may be true even though a diagnostic was reported, for
// example when the final token is a byte literal.
func Parse(
	ctx context.Context,
	c *Cursor,
	sink Sink,
	opts ...Option,
) (nodes []Markup, ok bool) {
	cfg := makeConfig(opts...)

	if sink == nil {
		sink = discard
	}

	nodes = make([]Markup, 0)

	for {
		m := parseMarkup(c, sink)
		if m.Kind == KindEmpty {
			break
		}

		cfg.logger.TraceContext(ctx, "markup unit",
			slog.String("kind", m.Kind.String()),
			slog.Int("offset", c.Offset()))

		nodes = append(nodes, m)
	}

	// If not all tokens were consumed, a unit failed somewhere.
	if !c.Done() {
		cfg.logger.TraceContext(ctx, "parse incomplete",
			slog.Int("units", len(nodes)),
			slog.Int("remaining", c.Len()))

		return nil, false
	}

	cfg.logger.TraceContext(ctx, "parse complete",
		slog.Int("units", len(nodes)))

	return nodes, true
}

// parseMarkup parses a single unit. It returns [Empty] when no unit can be
// parsed, reporting [MsgInvalidSyntax] if tokens remain.
func parseMarkup(c *Cursor, sink Sink) Markup {
	if s, ok := RecognizeLiteral(c, sink); ok {
		return NewValue(Escaped(Literal(s)))
	}

	head := c.Peek(1)
	if len(head) == 0 {
		return Empty()
	}

	sink.Report(head[0].Pos, MsgInvalidSyntax)

	return Empty()
}

// AST is a successfully parsed markup document.
type AST struct {
	Nodes []Markup
	cfg   config
}

// ParseTokens parses toks into an AST.
//
// Unlike [Parse], ParseTokens is strict: it fails with a [*ParseError] if any
// diagnostic was reported, even when all tokens were consumed.
func ParseTokens(
	ctx context.Context,
	toks []token.Token,
	opts ...Option,
) (*AST, error) {
	cfg := makeConfig(opts...)

	var diags Diagnostics

	sink := Sink(&diags)
	if cfg.sink != nil {
		sink = Tee(&diags, cfg.sink)
	}

	nodes, ok := Parse(ctx, NewCursor(toks), sink, opts...)
	if !ok && len(diags) == 0 {
		diags.Report(token.Position{}, "incomplete parse")
	}

	if len(diags) > 0 {
		return nil, NewParseError(diags, cfg.source)
	}

	return &AST{Nodes: nodes, cfg: cfg}, nil
}

// ParseString tokenizes and parses s.
func ParseString(ctx context.Context, s string, opts ...Option) (*AST, error) {
	cfg := makeConfig(opts...)

	toks, err := lexer.Tokenize(s)
	if err != nil {
		var lexErr *lexer.Error
		if errors.As(err, &lexErr) {
			return nil, NewParseError(
				Diagnostics{{Pos: lexErr.Pos, Msg: lexErr.Msg}},
				s,
			)
		}

		return nil, ErrLex.Wrap(err)
	}

	cfg.logger.TraceContext(ctx, "tokenized",
		slog.Int("source_bytes", len(s)),
		slog.Int("token_count", len(toks)))

	return ParseTokens(ctx, toks, append([]Option{WithSource(s)}, opts...)...)
}

// ParseReader reads all of r and parses it.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*AST, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return ParseString(ctx, string(data), opts...)
}
