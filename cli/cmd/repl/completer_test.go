package repl

import (
	"slices"
	"testing"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"dot_separated", "bar.baz", 7, "baz", 4, 7},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "upper(fo", 8, "fo", 6, 8},
		{"after_minus", "-tr", 3, "tr", 1, 3},
		{"after_quote", `"ab" fa`, 7, "fa", 5, 7},
		{"inside_quote", `"ab`, 3, "ab", 1, 3},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"cursor_past_end", "foo", 10, "foo", 0, 3},
		{"negative_cursor", "foo", -1, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"empty_after_dot", "user.", 5, "", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestCompletions(t *testing.T) {
	env := map[string]any{"title": "x", "count": 1}

	tests := []struct {
		name      string
		mode      inputMode
		input     string
		wordStart int
		contains  []string
		excludes  []string
	}{
		{"parse mode", modeParse, `"a" tr`, 4, []string{"true", "false"}, []string{"help"}},
		{"command", modeCtrl, "fo", 0, []string{"format", "quit"}, []string{"true"}},
		{"format argument", modeCtrl, "format js", 7, []string{"json", "html"}, []string{"help"}},
		{"splice argument", modeCtrl, "splice ti", 7, []string{"title", "count", "upper"}, nil},
		{"let argument", modeCtrl, "let x = co", 8, []string{"count"}, nil},
		{"no argument", modeCtrl, "tokens x", 7, nil, []string{"help", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := completions(tt.mode, tt.input, tt.wordStart, env)

			for _, want := range tt.contains {
				if !slices.Contains(got, want) {
					t.Errorf("completions lack %q: %v", want, got)
				}
			}

			for _, bad := range tt.excludes {
				if slices.Contains(got, bad) {
					t.Errorf("completions include %q", bad)
				}
			}
		})
	}
}

func TestExprNames_EnvFirst(t *testing.T) {
	names := exprNames(map[string]any{"zeta": 1, "alpha": 2})

	if len(names) < 3 || names[0] != "alpha" || names[1] != "zeta" {
		t.Fatalf("exprNames = %v", names[:min(len(names), 3)])
	}

	if !slices.Contains(names, "len") {
		t.Error("builtin len missing")
	}
}
