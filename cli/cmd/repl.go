package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/marq/cli/cmd/repl"
)

// Repl starts an interactive parse loop.
type Repl struct {
	Format string `default:"native"   enum:"native,json,yaml,html" help:"Initial output format (${enum})." short:"o"`
	Cache  string `default:"${cache}"                              help:"History directory."                 hidden:"" type:"path"`

	Source string `arg:"" help:"Markup file the document starts with." name:"source" optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	opts := repl.Options{
		CacheDir: r.Cache,
		Format:   r.Format,
		Logger:   loggerFrom(ctx).With(slog.String("command", "repl")),
	}

	if r.Source != "" {
		src, err := readSource(ctx, r.Source)
		if err != nil {
			return err
		}

		opts.Source = strings.NewReader(src.Text)
	}

	return repl.Run(ctx, opts)
}
