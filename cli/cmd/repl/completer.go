package repl

import (
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/expr-lang/expr/builtin"
	"github.com/sahilm/fuzzy"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{
	"help", "format", "indent", "tokens",
	"splice", "raw", "let", "env",
	"show", "reset", "edit", "clear", "quit",
}

// literalKeywords are the words offered while typing markup.
var literalKeywords = []string{"true", "false"}

// exprCommands take a host expression as argument.
var exprCommands = []string{"splice", "raw", "let"}

// isWordBoundary reports whether r delimits a word for completion: space,
// quotes, the member-access dot, and operator or punctuation runes.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'"', '\'', '`',
		'(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '%',
		'<', '>', '=', '!',
		'&', '|', ',', '?', ':', ';':
		return true
	}

	return false
}

// wordBounds returns the word containing the cursor and its byte bounds
// within input. The word is empty when the cursor sits between boundaries.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// completions returns the candidates for a word starting at wordStart.
// In control mode the first word is a command and later words depend on it.
func completions(mode inputMode, input string, wordStart int, env map[string]any) []string {
	if mode == modeParse {
		return literalKeywords
	}

	fields := strings.Fields(input[:wordStart])
	if len(fields) == 0 {
		return ctrlCommands
	}

	switch {
	case fields[0] == "format" && len(fields) == 1:
		return Formats

	case slices.Contains(exprCommands, fields[0]):
		return exprNames(env)

	default:
		return nil
	}
}

// exprNames returns the variables of env followed by expr-lang's builtin
// functions, each group sorted.
func exprNames(env map[string]any) []string {
	names := slices.Sorted(maps.Keys(env))

	return append(names, slices.Sorted(maps.Keys(builtin.Index))...)
}

// computeMatches ranks the candidates for the word at the cursor.
// No matches are returned for an empty word.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()

	word, start, end := wordBounds(input, m.input.Position())
	if word == "" {
		return nil, start, end
	}

	candidates := completions(m.mode, input, start, m.session.env)
	if len(candidates) == 0 {
		return nil, start, end
	}

	return fuzzy.Find(word, candidates), start, end
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. The selected candidate (when tabbing) uses the selected
// style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	reserve := lipgloss.Width(sep) + lipgloss.Width(ellipsis)

	var b strings.Builder

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		if i > 0 {
			last := i == len(matches)-1
			need := lipgloss.Width(sep) + lipgloss.Width(rendered)

			if !last {
				need += reserve
			}

			if lipgloss.Width(b.String())+need > width {
				b.WriteString(sep)
				b.WriteString(ellipsis)

				break
			}

			b.WriteString(sep)
		}

		b.WriteString(rendered)
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched runes highlighted.
// Builtin functions are shown with a "()" suffix.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if _, ok := builtin.Index[match.Str]; ok {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}
