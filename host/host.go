// Package host adapts expr-lang expressions to the markup splice interface.
//
// Splice sources are parsed with expr-lang's parser so that malformed
// expressions are rejected when the tree is built. An expression is compiled
// only when [Expr.Eval] binds it to an environment.
package host

import (
	"io"
	"log/slog"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"

	"github.com/ardnew/marq/markup"
)

// Errors returned by this package.
var (
	ErrParse = markup.NewError("invalid host expression")
	ErrEval  = markup.NewError("evaluate host expression")
)

// Expr is a parsed host expression. It implements [markup.Expression].
type Expr struct {
	src  string
	node ast.Node
}

var _ markup.Expression = (*Expr)(nil)

// Parse parses src as a host expression.
func Parse(src string) (*Expr, error) {
	tree, err := parser.Parse(src)
	if err != nil {
		return nil, ErrParse.Wrap(err).
			With(slog.String("source", src))
	}

	return &Expr{src: src, node: tree.Node}, nil
}

// Splice parses src and returns it as a splice payload.
func Splice(src string) (markup.Payload, error) {
	e, err := Parse(src)
	if err != nil {
		return markup.Payload{}, err
	}

	return markup.Splice(e), nil
}

// Source returns the expression as written.
func (e *Expr) Source() string { return e.src }

// Render writes the expression in expr-lang's normalized form.
func (e *Expr) Render(w io.Writer) error {
	_, err := io.WriteString(w, e.node.String())

	return err
}

// Eval compiles the expression against env and runs it.
// Identifiers missing from env are an error.
func (e *Expr) Eval(env map[string]any) (any, error) {
	if env == nil {
		env = map[string]any{}
	}

	program, err := expr.Compile(e.src, expr.Env(env))
	if err != nil {
		return nil, ErrEval.Wrap(err).
			With(slog.String("source", e.src))
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return nil, ErrEval.Wrap(err).
			With(slog.String("source", e.src))
	}

	return out, nil
}

// Node returns the root of the parsed expression tree.
func (e *Expr) Node() ast.Node { return e.node }

// Identifiers returns the sorted, distinct free identifiers referenced by the
// expression. A lowering stage must bind each of them.
func (e *Expr) Identifiers() []string {
	v := &identVisitor{seen: make(map[string]struct{})}

	node := e.node
	ast.Walk(&node, v)

	names := make([]string, 0, len(v.seen))
	for name := range v.seen {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// identVisitor collects identifier names.
type identVisitor struct {
	seen map[string]struct{}
}

// Visit implements ast.Visitor.
func (v *identVisitor) Visit(node *ast.Node) {
	if id, ok := (*node).(*ast.IdentifierNode); ok {
		v.seen[id.Value] = struct{}{}
	}
}
