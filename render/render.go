package render

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	g "maragu.dev/gomponents"

	"github.com/ardnew/marq/markup"
)

// Errors returned by this package.
var (
	ErrSplice = markup.NewError("cannot evaluate splice")
	ErrRender = markup.NewError("render failed")
)

// Evaluator is a spliced expression that can be evaluated.
type Evaluator interface {
	Eval(env map[string]any) (any, error)
}

// HTML lowers nodes to a single gomponents node.
func HTML(nodes []markup.Markup, opts ...Option) (g.Node, error) {
	cfg := makeConfig(opts...)

	return lowerList(nodes, cfg)
}

// Write renders ast as HTML to w.
func Write(_ context.Context, w io.Writer, ast *markup.AST, opts ...Option) error {
	node, err := HTML(ast.Nodes, opts...)
	if err != nil {
		return err
	}

	if err := node.Render(w); err != nil {
		return ErrRender.Wrap(err)
	}

	return nil
}

func lowerList(nodes []markup.Markup, cfg config) (g.Node, error) {
	group := make([]g.Node, 0, len(nodes))

	for _, m := range nodes {
		n, err := lower(m, cfg)
		if err != nil {
			return nil, err
		}

		group = append(group, n)
	}

	return g.Group(group), nil
}

func lower(m markup.Markup, cfg config) (g.Node, error) {
	switch m.Kind {
	case markup.KindValue:
		return lowerValue(m.Value, cfg)

	case markup.KindElement:
		args := make([]g.Node, 0, len(m.Attrs)+len(m.Children))

		for _, a := range m.Attrs {
			text, err := evalText(a.Value.Payload, cfg)
			if err != nil {
				return nil, err
			}

			args = append(args, g.Attr(a.Name, text))
		}

		for _, c := range m.Children {
			n, err := lower(c, cfg)
			if err != nil {
				return nil, err
			}

			args = append(args, n)
		}

		return g.El(cfg.tag, args...), nil

	default:
		return nil, ErrRender.With(slog.String("kind", m.Kind.String()))
	}
}

func lowerValue(v markup.Value, cfg config) (g.Node, error) {
	if v.Payload.Kind == markup.PayloadSplice {
		out, err := eval(v.Payload, cfg)
		if err != nil {
			return nil, err
		}

		// Splices may yield markup of their own.
		if n, ok := out.(g.Node); ok {
			return n, nil
		}

		return textNode(fmt.Sprint(out), v.Escape), nil
	}

	return textNode(v.Payload.Text, v.Escape), nil
}

func textNode(s string, esc markup.Escape) g.Node {
	if esc == markup.NoEscape {
		return g.Raw(s)
	}

	return g.Text(s)
}

func evalText(p markup.Payload, cfg config) (string, error) {
	if p.Kind != markup.PayloadSplice {
		return p.Text, nil
	}

	out, err := eval(p, cfg)
	if err != nil {
		return "", err
	}

	return fmt.Sprint(out), nil
}

func eval(p markup.Payload, cfg config) (any, error) {
	if p.Expr == nil {
		return nil, ErrSplice
	}

	e, ok := p.Expr.(Evaluator)
	if !ok {
		return nil, ErrSplice.With(slog.String("source", p.Expr.Source()))
	}

	out, err := e.Eval(cfg.env)
	if err != nil {
		return nil, ErrSplice.Wrap(err).With(slog.String("source", p.Expr.Source()))
	}

	return out, nil
}
