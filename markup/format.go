package markup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the AST in native template syntax to the writer.
//
// Literal payloads are written as quoted strings, which re-parse to the same
// canonical text. Splices are written as their source in parentheses,
// unescaped values are prefixed with '!', and elements are written as a
// brace-delimited list of name=value attributes followed by children.
func (ast *AST) Format(_ context.Context, w io.Writer, indent int) error {
	for i, m := range ast.Nodes {
		if i > 0 {
			sep := " "
			if indent > 0 {
				sep = "\n"
			}

			if _, err := fmt.Fprint(w, sep); err != nil {
				return err
			}
		}

		err := formatMarkup(m, w, indent, 0)
		if err != nil {
			return err
		}
	}

	// Final newline
	_, err := fmt.Fprintln(w)

	return err
}

// FormatJSON writes the AST as JSON to the writer.
func (ast *AST) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(ast, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(ast)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the AST as YAML to the writer.
func (ast *AST) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, ast.ToNative(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// formatMarkup formats a markup node based on its kind.
func formatMarkup(m Markup, w io.Writer, indent, depth int) error {
	switch m.Kind {
	case KindValue:
		return formatValue(m.Value, w)

	case KindElement:
		return formatElement(m, w, indent, depth)

	case KindEmpty:
		return nil

	default:
		_, err := fmt.Fprint(w, "<unknown>")

		return err
	}
}

func formatValue(v Value, w io.Writer) error {
	if v.Escape == NoEscape {
		if _, err := fmt.Fprint(w, "!"); err != nil {
			return err
		}
	}

	switch v.Payload.Kind {
	case PayloadLiteral:
		_, err := fmt.Fprint(w, strconv.Quote(v.Payload.Text))

		return err

	case PayloadSplice:
		if _, err := fmt.Fprint(w, "("); err != nil {
			return err
		}

		if v.Payload.Expr != nil {
			if err := v.Payload.Expr.Render(w); err != nil {
				return err
			}
		}

		_, err := fmt.Fprint(w, ")")

		return err

	default:
		_, err := fmt.Fprint(w, "<unknown>")

		return err
	}
}

// formatElement formats an element with its attributes and children.
func formatElement(m Markup, w io.Writer, indent, depth int) error {
	if _, err := fmt.Fprint(w, "{"); err != nil {
		return err
	}

	items := len(m.Attrs) + len(m.Children)
	if items == 0 {
		_, err := fmt.Fprint(w, "}")

		return err
	}

	pad := func(d int) string { return strings.Repeat(" ", d*indent) }

	sep := func() error {
		if indent > 0 {
			_, err := fmt.Fprint(w, "\n", pad(depth+1))

			return err
		}

		_, err := fmt.Fprint(w, " ")

		return err
	}

	for _, a := range m.Attrs {
		if err := sep(); err != nil {
			return err
		}

		if _, err := fmt.Fprint(w, a.Name, "="); err != nil {
			return err
		}

		if err := formatValue(a.Value, w); err != nil {
			return err
		}
	}

	for _, c := range m.Children {
		if err := sep(); err != nil {
			return err
		}

		if err := formatMarkup(c, w, indent, depth+1); err != nil {
			return err
		}
	}

	if indent > 0 {
		_, err := fmt.Fprint(w, "\n", pad(depth), "}")

		return err
	}

	_, err := fmt.Fprint(w, " }")

	return err
}
