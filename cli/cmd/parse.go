package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/marq/markup"
	"github.com/ardnew/marq/render"
)

// Parse parses a source and writes its markup tree in the chosen format.
type Parse struct {
	Format string `default:"native" enum:"native,json,yaml,html" help:"Output format (${enum})."              short:"o"`
	Indent int    `default:"2"                                   help:"Indent width; 0 writes compact output." short:"i"`
	Tag    string `default:"div"                                 help:"Element tag name used for HTML output."`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source" optional:""`
}

// Run executes the parse command.
func (p *Parse) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	logger := loggerFrom(ctx).With(slog.String("command", "parse"))

	src, err := readSource(ctx, p.Source)
	if err != nil {
		return err
	}

	ast, err := markup.ParseString(ctx, src.Text, markup.WithLogger(logger))
	if err != nil {
		return err
	}

	logger.DebugContext(ctx, "parsed",
		slog.String("source", src.Name),
		slog.Int("units", len(ast.Nodes)))

	return p.write(ctx, stdout(ctx), ast)
}

func (p *Parse) write(ctx context.Context, w io.Writer, ast *markup.AST) error {
	var err error

	switch p.Format {
	case "native":
		err = ast.Format(ctx, w, p.Indent)

	case "json":
		err = ast.FormatJSON(ctx, w, p.Indent)

	case "yaml":
		err = ast.FormatYAML(ctx, w, p.Indent)

	case "html":
		err = render.Write(ctx, w, ast, render.WithTag(p.Tag))
		if err == nil {
			_, err = fmt.Fprintln(w)
		}

	default:
		return ErrUnknownFormat.With(slog.String("format", p.Format))
	}

	if err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("format", p.Format))
	}

	return nil
}
