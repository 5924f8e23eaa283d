package markup

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ardnew/marq/lexer"
	"github.com/ardnew/marq/log"
	"github.com/ardnew/marq/token"
)

func lit(kind token.Lit, text string, col int) token.Token {
	return at(token.MakeLit(kind, text), col)
}

func tok(kind token.Kind, text string, col int) token.Token {
	return at(token.Make(kind, text), col)
}

func TestParse_Literals(t *testing.T) {
	toks := []token.Token{
		lit(token.Str, `"hello"`, 1),
		lit(token.Int, `0x2A`, 9),
		tok(token.Minus, "-", 14),
		lit(token.Float, `1.50`, 15),
		lit(token.Bool, `false`, 20),
		lit(token.Char, `'x'`, 26),
	}
	want := []string{"hello", "0x2A", "-1.50", "false", "x"}

	var diags Diagnostics

	nodes, ok := Parse(context.Background(), NewCursor(toks), &diags)
	if !ok {
		t.Fatalf("parse failed: %v", diags)
	}

	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}

	if len(nodes) != len(want) {
		t.Fatalf("got %d nodes, want %d", len(nodes), len(want))
	}

	for i, m := range nodes {
		if m.Kind != KindValue {
			t.Errorf("node %d kind = %v, want %v", i, m.Kind, KindValue)

			continue
		}

		if m.Value.Escape != AutoEscape {
			t.Errorf("node %d escape = %v, want %v", i, m.Value.Escape, AutoEscape)
		}

		if m.Value.Payload.Kind != PayloadLiteral {
			t.Errorf("node %d payload kind = %v, want literal", i, m.Value.Payload.Kind)
		}

		if m.Value.Payload.Text != want[i] {
			t.Errorf("node %d text = %q, want %q", i, m.Value.Payload.Text, want[i])
		}
	}
}

func TestParse_Empty(t *testing.T) {
	var diags Diagnostics

	nodes, ok := Parse(context.Background(), NewCursor(nil), &diags)
	if !ok {
		t.Fatal("empty input failed to parse")
	}

	if nodes == nil {
		t.Error("expected empty non-nil node slice")
	}

	if len(nodes) != 0 || len(diags) != 0 {
		t.Errorf("got nodes=%v diags=%v", nodes, diags)
	}
}

func TestParse_InvalidSyntax(t *testing.T) {
	tests := []struct {
		name string
		toks []token.Token
		col  int
	}{
		{
			name: "first",
			toks: []token.Token{tok(token.Ident, "div", 1), lit(token.Str, `"a"`, 5)},
			col:  1,
		},
		{
			name: "middle",
			toks: []token.Token{
				lit(token.Str, `"a"`, 1),
				lit(token.Int, `1`, 5),
				tok(token.Open, "{", 7),
				lit(token.Str, `"b"`, 9),
			},
			col: 7,
		},
		{
			name: "last",
			toks: []token.Token{lit(token.Str, `"a"`, 1), tok(token.Punct, "#", 5)},
			col:  5,
		},
		{
			// The negation marker is consumed; the error lands on the
			// token after it.
			name: "after minus",
			toks: []token.Token{
				lit(token.Str, `"a"`, 1),
				tok(token.Minus, "-", 5),
				tok(token.Ident, "p", 7),
			},
			col: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var diags Diagnostics

			c := NewCursor(tt.toks)

			nodes, ok := Parse(context.Background(), c, &diags)
			if ok {
				t.Fatalf("expected failure, got %v", nodes)
			}

			if nodes != nil {
				t.Errorf("failed parse returned nodes: %v", nodes)
			}

			if len(diags) != 1 {
				t.Fatalf("expected exactly 1 diagnostic, got %v", diags)
			}

			if diags[0].Msg != MsgInvalidSyntax {
				t.Errorf("message = %q, want %q", diags[0].Msg, MsgInvalidSyntax)
			}

			if diags[0].Pos.Column != tt.col {
				t.Errorf("reported at column %d, want %d", diags[0].Pos.Column, tt.col)
			}

			if c.Done() {
				t.Error("cursor consumed the offending token")
			}
		})
	}
}

func TestParse_Binary(t *testing.T) {
	t.Run("final token", func(t *testing.T) {
		var diags Diagnostics

		toks := []token.Token{lit(token.Str, `"a"`, 1), lit(token.Byte, `b'x'`, 5)}

		nodes, ok := Parse(context.Background(), NewCursor(toks), &diags)
		if !ok {
			t.Fatal("expected the driver to report success")
		}

		if len(nodes) != 1 || nodes[0].Value.Payload.Text != "a" {
			t.Errorf("nodes = %v", nodes)
		}

		if len(diags) != 1 || diags[0].Msg != MsgBinaryData {
			t.Errorf("diagnostics = %v", diags)
		}
	})

	t.Run("followed by literal", func(t *testing.T) {
		var diags Diagnostics

		toks := []token.Token{lit(token.ByteStr, `b"xy"`, 1), lit(token.Str, `"a"`, 7)}

		if _, ok := Parse(context.Background(), NewCursor(toks), &diags); ok {
			t.Fatal("expected failure")
		}

		if len(diags) != 2 {
			t.Fatalf("expected 2 diagnostics, got %v", diags)
		}

		if diags[0].Msg != MsgBinaryData || diags[0].Pos.Column != 1 {
			t.Errorf("first diagnostic = %v", diags[0])
		}

		if diags[1].Msg != MsgInvalidSyntax || diags[1].Pos.Column != 7 {
			t.Errorf("second diagnostic = %v", diags[1])
		}
	})
}

func TestParse_TrailingMinus(t *testing.T) {
	toks := []token.Token{lit(token.Str, `"a"`, 1), tok(token.Minus, "-", 5)}

	var diags Diagnostics

	nodes, ok := Parse(context.Background(), NewCursor(toks), &diags)
	if !ok || len(nodes) != 1 || len(diags) != 0 {
		t.Errorf("got nodes=%v ok=%v diags=%v", nodes, ok, diags)
	}
}

func TestParse_NilSink(t *testing.T) {
	toks := []token.Token{tok(token.Ident, "x", 1)}

	if _, ok := Parse(context.Background(), NewCursor(toks), nil); ok {
		t.Error("expected failure")
	}
}

func TestParse_Spelling(t *testing.T) {
	src := `0x2A 0X2a 1_000 0o17 0b1 1.0 1.50e+3 .5 0x1p-2 1E6`

	toks, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatal(err)
	}

	nodes, ok := Parse(context.Background(), NewCursor(toks), nil)
	if !ok {
		t.Fatal("parse failed")
	}

	want := strings.Fields(src)
	if len(nodes) != len(want) {
		t.Fatalf("got %d nodes, want %d", len(nodes), len(want))
	}

	for i, m := range nodes {
		if m.Value.Payload.Text != want[i] {
			t.Errorf("node %d = %q, want %q", i, m.Value.Payload.Text, want[i])
		}
	}
}

func TestParse_Logger(t *testing.T) {
	var buf bytes.Buffer

	logger := log.Make(&buf,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false),
	)

	toks := []token.Token{lit(token.Int, `1`, 1), lit(token.Int, `2`, 3)}

	_, ok := Parse(context.Background(), NewCursor(toks), nil, WithLogger(logger))
	if !ok {
		t.Fatal("parse failed")
	}

	out := buf.String()
	if !strings.Contains(out, "markup unit") || !strings.Contains(out, "parse complete") {
		t.Errorf("missing trace output: %s", out)
	}
}

func TestParse_Concurrent(t *testing.T) {
	toks, err := lexer.Tokenize(`"a" 'b' -3 4.5 true`)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			var diags Diagnostics

			nodes, ok := Parse(context.Background(), NewCursor(toks), &diags)
			if !ok || len(nodes) != 5 || len(diags) != 0 {
				t.Errorf("got nodes=%d ok=%v diags=%v", len(nodes), ok, diags)
			}
		}()
	}

	wg.Wait()
}

func TestParseString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"whitespace", "  \n\t ", nil},
		{"comments", "// nothing\n/* here */", nil},
		{"mixed", `"a" 'b' -1.5 true`, []string{"a", "b", "-1.5", "true"}},
		{"raw", "`<p>`", []string{"<p>"}},
		{"multiline", "\"one\"\n\"two\"\n", []string{"one", "two"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ast, err := ParseString(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(ast.Nodes) != len(tt.want) {
				t.Fatalf("got %d nodes, want %d", len(ast.Nodes), len(tt.want))
			}

			for i, m := range ast.Nodes {
				if m.Value.Payload.Text != tt.want[i] {
					t.Errorf("node %d = %q, want %q", i, m.Value.Payload.Text, tt.want[i])
				}
			}
		})
	}
}

func TestParseString_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
		col   int
		msg   string
	}{
		{"invalid syntax", `"a" div`, 1, 5, MsgInvalidSyntax},
		{"second line", "\"a\"\n  {", 2, 3, MsgInvalidSyntax},
		{"binary", `"a" b"raw"`, 1, 5, MsgBinaryData},
		{"unterminated", `"a" "b`, 1, 5, "unterminated literal"},
		{"bad escape", `"\q"`, 1, 1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(context.Background(), tt.input)
			if err == nil {
				t.Fatal("expected error")
			}

			if !errors.Is(err, ErrParse) {
				t.Errorf("error does not match ErrParse: %v", err)
			}

			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}

			d := perr.Diagnostics[0]
			if d.Pos.Line != tt.line || d.Pos.Column != tt.col {
				t.Errorf("position = %v, want %d:%d", d.Pos, tt.line, tt.col)
			}

			if tt.msg != "" && d.Msg != tt.msg {
				t.Errorf("message = %q, want %q", d.Msg, tt.msg)
			}

			if !strings.Contains(err.Error(), "^") {
				t.Errorf("error lacks a source snippet:\n%s", err)
			}
		})
	}
}

func TestParseString_Sink(t *testing.T) {
	var seen Diagnostics

	_, err := ParseString(context.Background(), `1 ? 2`, WithSink(&seen))
	if err == nil {
		t.Fatal("expected error")
	}

	if len(seen) != 1 || seen[0].Msg != MsgInvalidSyntax {
		t.Errorf("sink received %v", seen)
	}
}

func TestParseReader(t *testing.T) {
	ast, err := ParseReader(context.Background(), strings.NewReader(`"x" 7`))
	if err != nil {
		t.Fatal(err)
	}

	if len(ast.Nodes) != 2 {
		t.Errorf("got %d nodes, want 2", len(ast.Nodes))
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestParseReader_Error(t *testing.T) {
	_, err := ParseReader(context.Background(), failingReader{})
	if !errors.Is(err, ErrReadInput) {
		t.Errorf("expected ErrReadInput, got %v", err)
	}
}

func TestParseTokens_Incomplete(t *testing.T) {
	toks := []token.Token{tok(token.Close, ")", 1)}

	_, err := ParseTokens(context.Background(), toks)

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}

	if len(perr.Diagnostics) != 1 {
		t.Errorf("diagnostics = %v", perr.Diagnostics)
	}

	// No source attached, so no snippet.
	if strings.Contains(err.Error(), "^") {
		t.Errorf("unexpected snippet:\n%s", err)
	}
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer

	logger := log.Make(&buf,
		log.WithLevel(log.LevelDebug),
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false),
	)

	ctx := context.Background()

	_, err := ParseString(ctx, `"a" ?`, WithSink(LogSink(ctx, logger, log.LevelDebug)))
	if err == nil {
		t.Fatal("expected error")
	}

	out := buf.String()
	for _, want := range []string{`"level":"DEBUG"`, `"pos":"1:5"`, `"msg":"invalid syntax"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %s: %s", want, out)
		}
	}

	buf.Reset()

	quiet := logger.Wrap(log.WithLevel(log.LevelInfo))

	_, _ = ParseString(ctx, `?`, WithSink(LogSink(ctx, quiet, log.LevelDebug)))

	if buf.Len() != 0 {
		t.Errorf("logged below level: %s", buf.String())
	}
}
