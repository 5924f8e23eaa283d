package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/marq/log"
	"github.com/ardnew/marq/markup"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand] for the edit-parse-retry loop.
// It writes the document in native syntax to a temp file, opens the user's
// editor, and parses the result. On a parse error the user is asked whether
// to edit again; declining returns [ErrEditDeclined].
type editCommand struct {
	doc     *markup.AST
	ctxFunc func() context.Context
	logger  log.Logger
	result  *markup.AST // nil if the user emptied the file
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func (c *editCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit loop.
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	var buf bytes.Buffer
	if err := c.doc.Format(ctx, &buf, 2); err != nil {
		return fmt.Errorf("format document: %w", err)
	}

	f, err := os.CreateTemp("", "marq-repl-*.marq")
	if err != nil {
		return err
	}

	path := f.Name()
	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return err
	}

	content := buf.Bytes()

	for {
		if err := os.WriteFile(path, content, 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		content, err = os.ReadFile(path)
		if err != nil {
			return err
		}

		if len(bytes.TrimSpace(content)) == 0 {
			return nil
		}

		ast, parseErr := markup.ParseString(ctx, string(content),
			markup.WithLogger(c.logger))

		c.logger.TraceContext(ctx, "editor parse attempt",
			slog.Int("content_length", len(content)),
			slog.Bool("success", parseErr == nil))

		if parseErr == nil {
			c.result = ast

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", parseErr)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		if !confirm(c.stdin) {
			return ErrEditDeclined
		}
	}
}

// confirm reads a yes/no answer from r. Anything but "n" or "no" is yes.
func confirm(r io.Reader) bool {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "n", "no":
		return false
	default:
		return true
	}
}

// runEditor runs $EDITOR on path and waits for it to exit.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	// $EDITOR may carry arguments, e.g. "code --wait".
	args := strings.Fields(os.Getenv("EDITOR"))
	if len(args) == 0 {
		args = []string{defaultEditor}
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
