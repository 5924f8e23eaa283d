package repl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/marq/host"
	"github.com/ardnew/marq/lexer"
	"github.com/ardnew/marq/log"
	"github.com/ardnew/marq/markup"
	"github.com/ardnew/marq/render"
)

// Formats lists the output formats a session can print.
var Formats = []string{"native", "json", "yaml", "html"}

// session is the editor-independent state of a REPL: the document built so
// far, the variables bound with let, and output settings.
type session struct {
	logger log.Logger
	env    map[string]any
	nodes  []markup.Markup
	format string
	indent int
	tokens bool
}

func newSession(logger log.Logger, format string) *session {
	if !slices.Contains(Formats, format) {
		format = Formats[0]
	}

	return &session{
		logger: logger,
		env:    make(map[string]any),
		format: format,
	}
}

// document returns the session's nodes as a document.
func (s *session) document() *markup.AST {
	return &markup.AST{Nodes: s.nodes}
}

// hasSplices reports whether any node of the document holds a splice.
func (s *session) hasSplices() bool {
	var walk func([]markup.Markup) bool

	walk = func(nodes []markup.Markup) bool {
		for _, m := range nodes {
			switch m.Kind {
			case markup.KindValue:
				if m.Value.Payload.Kind == markup.PayloadSplice {
					return true
				}

			case markup.KindElement:
				for _, a := range m.Attrs {
					if a.Value.Payload.Kind == markup.PayloadSplice {
						return true
					}
				}

				if walk(m.Children) {
					return true
				}
			}
		}

		return false
	}

	return walk(s.nodes)
}

// parse parses line, appends its nodes to the document, and returns them
// written in the session format.
func (s *session) parse(ctx context.Context, line string) (string, error) {
	ast, err := markup.ParseString(ctx, line, markup.WithLogger(s.logger))
	if err != nil {
		return "", err
	}

	s.nodes = append(s.nodes, ast.Nodes...)

	var b strings.Builder

	if s.tokens {
		toks, _ := lexer.Tokenize(line)
		for _, tok := range toks {
			b.WriteString(tok.String())
			b.WriteByte('\n')
		}
	}

	if err := s.write(ctx, &b, ast); err != nil {
		return "", err
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

func (s *session) write(ctx context.Context, w io.Writer, ast *markup.AST) error {
	switch s.format {
	case "json":
		return ast.FormatJSON(ctx, w, s.indent)

	case "yaml":
		return ast.FormatYAML(ctx, w, s.indent)

	case "html":
		return render.Write(ctx, w, ast, render.WithEnv(s.env))

	default:
		return ast.Format(ctx, w, s.indent)
	}
}

// exec runs a control command that does not need the terminal.
func (s *session) exec(ctx context.Context, input string) (string, error) {
	name, args, _ := strings.Cut(strings.TrimSpace(input), " ")
	args = strings.TrimSpace(args)

	s.logger.TraceContext(ctx, "repl exec command",
		slog.String("command", name),
		slog.String("args", args))

	switch name {
	case "h", "help":
		return helpMessage(), nil

	case "format":
		if args == "" {
			return s.format, nil
		}

		if !slices.Contains(Formats, args) {
			return "", fmt.Errorf("%w: format <%s>", ErrUsage, strings.Join(Formats, "|"))
		}

		s.format = args

		return "format " + args, nil

	case "indent":
		n, err := strconv.Atoi(args)
		if err != nil || n < 0 {
			return "", fmt.Errorf("%w: indent <width>", ErrUsage)
		}

		s.indent = n

		return "indent " + args, nil

	case "tokens":
		s.tokens = !s.tokens

		return "tokens " + onOff(s.tokens), nil

	case "splice", "raw":
		if args == "" {
			return "", fmt.Errorf("%w: %s <expr>", ErrUsage, name)
		}

		p, err := host.Splice(args)
		if err != nil {
			return "", err
		}

		v := markup.Escaped(p)
		if name == "raw" {
			v = markup.Raw(p)
		}

		s.nodes = append(s.nodes, markup.NewValue(v))

		return s.show(ctx, []markup.Markup{markup.NewValue(v)})

	case "let":
		ident, src, ok := strings.Cut(args, "=")
		ident = strings.TrimSpace(ident)

		if !ok || ident == "" || strings.TrimSpace(src) == "" {
			return "", fmt.Errorf("%w: let <name> = <expr>", ErrUsage)
		}

		e, err := host.Parse(strings.TrimSpace(src))
		if err != nil {
			return "", err
		}

		v, err := e.Eval(s.env)
		if err != nil {
			return "", err
		}

		s.env[ident] = v

		return fmt.Sprintf("%s = %v", ident, v), nil

	case "env":
		var b strings.Builder

		for _, k := range slices.Sorted(maps.Keys(s.env)) {
			fmt.Fprintf(&b, "%s = %v\n", k, s.env[k])
		}

		return strings.TrimRight(b.String(), "\n"), nil

	case "show", "list":
		return s.show(ctx, s.nodes)

	case "reset":
		s.nodes = nil

		return "document cleared", nil

	default:
		return "", fmt.Errorf("%w: %s (try 'help')", ErrUnknownCommand, name)
	}
}

func (s *session) show(ctx context.Context, nodes []markup.Markup) (string, error) {
	var b strings.Builder

	if err := s.write(ctx, &b, &markup.AST{Nodes: nodes}); err != nil {
		return "", err
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}

	return "off"
}
