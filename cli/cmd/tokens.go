package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ardnew/marq/lexer"
	"github.com/ardnew/marq/markup"
	"github.com/ardnew/marq/token"
)

// Tokens prints the token stream of a source as a table.
type Tokens struct {
	Border bool `default:"true" help:"Draw table borders." negatable:""`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source" optional:""`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) error {
	src, err := readSource(ctx, t.Source)
	if err != nil {
		return err
	}

	toks, err := lexer.Tokenize(src.Text)
	if err != nil {
		var lexErr *lexer.Error
		if errors.As(err, &lexErr) {
			return markup.NewParseError(
				markup.Diagnostics{{Pos: lexErr.Pos, Msg: lexErr.Msg}},
				src.Text,
			)
		}

		return markup.ErrLex.Wrap(err)
	}

	loggerFrom(ctx).DebugContext(ctx, "tokenized",
		slog.String("command", "tokens"),
		slog.String("source", src.Name),
		slog.Int("token_count", len(toks)))

	w := stdout(ctx)
	re := lipgloss.NewRenderer(w)

	header := re.NewStyle().Bold(true).Padding(0, 1)
	cell := re.NewStyle().Padding(0, 1)

	border := lipgloss.NormalBorder()
	if !t.Border {
		border = lipgloss.HiddenBorder()
	}

	tbl := table.New().
		Border(border).
		BorderStyle(re.NewStyle().Faint(true)).
		Headers("POS", "KIND", "LIT", "TEXT").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}

			return cell
		})

	for _, tok := range toks {
		lit := ""
		if tok.Lit != token.NoLit {
			lit = tok.Lit.String()
		}

		tbl.Row(tok.Pos.String(), tok.Kind.String(), lit, tok.Text)
	}

	if _, err := fmt.Fprintln(w, tbl.Render()); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
