package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/marq/log"
	"github.com/ardnew/marq/markup"
)

// Check parses sources and reports their diagnostics.
type Check struct {
	Watch bool `help:"Keep running and re-check files when they change." short:"w"`

	Sources []string `arg:"" default:"-" help:"Source input files or '-' for stdin." name:"source" optional:""`
}

// checkStyle renders check results.
type checkStyle struct {
	ok, fail, loc, msg, snippet lipgloss.Style
}

func newCheckStyle(w io.Writer) checkStyle {
	re := lipgloss.NewRenderer(w)

	return checkStyle{
		ok:      re.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		fail:    re.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		loc:     re.NewStyle().Bold(true),
		msg:     re.NewStyle().Foreground(lipgloss.Color("11")),
		snippet: re.NewStyle().Faint(true),
	}
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) error {
	sources, err := readSources(ctx, c.Sources)
	if err != nil {
		return err
	}

	w := stdout(ctx)
	st := newCheckStyle(w)

	failed := 0

	for _, src := range sources {
		if !c.check(ctx, w, st, src) {
			failed++
		}
	}

	if c.Watch {
		return c.watch(ctx, w, st, sources)
	}

	if failed > 0 {
		return ErrCheckFailed.With(
			slog.Int("failed", failed),
			slog.Int("sources", len(sources)))
	}

	return nil
}

// check parses src and prints its result. It reports whether src parsed
// without diagnostics.
func (c *Check) check(
	ctx context.Context,
	w io.Writer,
	st checkStyle,
	src Source,
) bool {
	logger := loggerFrom(ctx).With(
		slog.String("command", "check"),
		slog.String("source", src.Name))

	ast, err := markup.ParseString(ctx, src.Text,
		markup.WithLogger(logger),
		markup.WithSink(markup.LogSink(ctx, logger, log.LevelDebug)))
	if err == nil {
		fmt.Fprintf(w, "%s %s (%d units)\n",
			st.ok.Render("ok  "), src.Name, len(ast.Nodes))

		return true
	}

	var perr *markup.ParseError
	if !errors.As(err, &perr) {
		fmt.Fprintf(w, "%s %s: %v\n", st.fail.Render("FAIL"), src.Name, err)

		return false
	}

	for _, d := range perr.Diagnostics {
		fmt.Fprintf(w, "%s %s\n",
			st.loc.Render(src.Name+":"+d.Pos.String()+":"),
			st.msg.Render(d.Msg))

		if s := perr.Snippet(d); s != "" {
			fmt.Fprint(w, st.snippet.Render(s))
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintf(w, "%s %s (%s)\n",
		st.fail.Render("FAIL"), src.Name, plural(len(perr.Diagnostics), "diagnostic"))

	return false
}

// watch re-checks sources whenever their files are written, until ctx is
// done. Directories are watched rather than files so that editors replacing
// a file on save are still observed.
func (c *Check) watch(
	ctx context.Context,
	w io.Writer,
	st checkStyle,
	sources []Source,
) error {
	logger := loggerFrom(ctx).With(slog.String("command", "check"))

	files := make(map[string]string)
	dirs := make(map[string]struct{})

	for _, src := range sources {
		if src.Name == stdinName {
			continue
		}

		abs, err := filepath.Abs(src.Name)
		if err != nil {
			return ErrWatch.Wrap(err).With(slog.String("path", src.Name))
		}

		files[abs] = src.Name
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	if len(files) == 0 {
		return ErrWatch.Wrap(ErrNoSource)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrWatch.Wrap(err)
	}
	defer watcher.Close()

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return ErrWatch.Wrap(err).With(slog.String("dir", dir))
		}
	}

	logger.InfoContext(ctx, "watching", slog.Int("files", len(files)))

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			c.changed(ctx, logger, w, st, files, ev)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger.WarnContext(ctx, "watch error", slog.Any("error", err))
		}
	}
}

func (c *Check) changed(
	ctx context.Context,
	logger log.Logger,
	w io.Writer,
	st checkStyle,
	files map[string]string,
	ev fsnotify.Event,
) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return
	}

	name, ok := files[filepath.Clean(ev.Name)]
	if !ok {
		return
	}

	logger.DebugContext(ctx, "source changed",
		slog.String("path", name),
		slog.String("op", ev.Op.String()))

	text, err := readFile(name)
	if err != nil {
		logger.WarnContext(ctx, "reread failed", slog.Any("error", err))

		return
	}

	c.check(ctx, w, st, Source{Name: name, Text: text})
}

func plural(n int, noun string) string {
	s := strconv.Itoa(n) + " " + noun
	if n != 1 {
		s += "s"
	}

	return s
}
