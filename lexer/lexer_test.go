package lexer

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/ardnew/marq/token"
)

type want struct {
	kind token.Kind
	lit  token.Lit
	text string
}

func checkTokens(t *testing.T, got []token.Token, expected []want) {
	t.Helper()

	if len(got) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expected), len(got), got)
	}

	for i, w := range expected {
		if got[i].Kind != w.kind || got[i].Lit != w.lit || got[i].Text != w.text {
			t.Errorf("token %d = %v, want %v(%v %s)", i, got[i], w.kind, w.lit, w.text)
		}
	}
}

func TestTokenize_Literals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []want
	}{
		{
			name:  "mixed",
			input: `"hi" 'c' 42 -3.5 true`,
			want: []want{
				{token.Literal, token.Str, `"hi"`},
				{token.Literal, token.Char, `'c'`},
				{token.Literal, token.Int, `42`},
				{token.Minus, token.NoLit, `-`},
				{token.Literal, token.Float, `3.5`},
				{token.Literal, token.Bool, `true`},
			},
		},
		{
			name:  "binary",
			input: `b"abc" b'x'`,
			want: []want{
				{token.Literal, token.ByteStr, `b"abc"`},
				{token.Literal, token.Byte, `b'x'`},
			},
		},
		{
			name:  "numbers keep spelling",
			input: `0x2A 0o17 0b1010 1_000 1e9 .5 0x1p-2`,
			want: []want{
				{token.Literal, token.Int, `0x2A`},
				{token.Literal, token.Int, `0o17`},
				{token.Literal, token.Int, `0b1010`},
				{token.Literal, token.Int, `1_000`},
				{token.Literal, token.Float, `1e9`},
				{token.Literal, token.Float, `.5`},
				{token.Literal, token.Float, `0x1p-2`},
			},
		},
		{
			name:  "raw string spans lines",
			input: "`a\nb`",
			want: []want{
				{token.Literal, token.RawStr, "`a\nb`"},
			},
		},
		{
			name:  "escaped quote",
			input: `"a\"b"`,
			want: []want{
				{token.Literal, token.Str, `"a\"b"`},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("tokenize error: %v", err)
			}

			checkTokens(t, toks, tt.want)
		})
	}
}

func TestTokenize_Structure(t *testing.T) {
	toks, err := Tokenize(`div.note { "x" } // trailing
	/* block */ b bar = @`)
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}

	checkTokens(t, toks, []want{
		{token.Ident, token.NoLit, "div"},
		{token.Punct, token.NoLit, "."},
		{token.Ident, token.NoLit, "note"},
		{token.Open, token.NoLit, "{"},
		{token.Literal, token.Str, `"x"`},
		{token.Close, token.NoLit, "}"},
		{token.Ident, token.NoLit, "b"},
		{token.Ident, token.NoLit, "bar"},
		{token.Punct, token.NoLit, "="},
		{token.Punct, token.NoLit, "@"},
	})
}

func TestTokenize_Empty(t *testing.T) {
	for _, input := range []string{"", "   \n\t", "// only a comment", "/* x */"} {
		toks, err := Tokenize(input)
		if err != nil {
			t.Errorf("Tokenize(%q) error: %v", input, err)
		}

		if len(toks) != 0 {
			t.Errorf("Tokenize(%q) = %v, want no tokens", input, toks)
		}
	}
}

func TestTokenize_Positions(t *testing.T) {
	toks, err := Tokenize("a\n  42")
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}

	if len(toks) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(toks))
	}

	want := token.Position{Offset: 4, Line: 2, Column: 3}
	if toks[1].Pos != want {
		t.Errorf("Pos = %+v, want %+v", toks[1].Pos, want)
	}

	end := token.Position{Offset: 6, Line: 2, Column: 5}
	if toks[1].End != end {
		t.Errorf("End = %+v, want %+v", toks[1].End, end)
	}
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
		col   int
	}{
		{"unterminated string", `x "abc`, 1, 3},
		{"unterminated char", `'a`, 1, 1},
		{"string across lines", "\"a\nb\"", 1, 1},
		{"unterminated raw", "`abc", 1, 1},
		{"unterminated comment", "1 /* abc", 1, 3},
		{"exponent without digits", "1e", 1, 3},
		{"suffix on number", "12px", 1, 3},
		{"control character", "\x01", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			if err == nil {
				t.Fatal("expected error")
			}

			var lexErr *Error
			if !errors.As(err, &lexErr) {
				t.Fatalf("expected *Error, got %T", err)
			}

			if lexErr.Pos.Line != tt.line || lexErr.Pos.Column != tt.col {
				t.Errorf("error at %s, want %d:%d", lexErr.Pos, tt.line, tt.col)
			}
		})
	}
}

// FuzzTokenize checks that the lexer never panics and that every token
// spans exactly its spelling.
func FuzzTokenize(f *testing.F) {
	f.Add(`"hello"`)
	f.Add(`-42`)
	f.Add(`b"bytes"`)
	f.Add(`0x1p-2`)
	f.Add(`div { 'c' true }`)
	f.Add("// comment\n1.5e3")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		toks, err := Tokenize(input)
		if err != nil {
			return
		}

		for i, tok := range toks {
			if tok.Text == "" {
				t.Errorf("token %d is empty", i)
			}

			if input[tok.Pos.Offset:tok.End.Offset] != tok.Text {
				t.Errorf("token %d text %q does not match span", i, tok.Text)
			}
		}
	})
}
