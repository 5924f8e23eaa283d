package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/marq/log"
	"github.com/ardnew/marq/markup"
)

// editDoneMsg is sent when editing produced a new document.
type editDoneMsg struct{ doc *markup.AST }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a parse
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-parse error.
type editErrorMsg struct{ err error }

const (
	parsePrompt = "» "
	ctrlPrompt  = " :"
)

func helpMessage() string {
	return `: Commands (press Esc to toggle mode):

  help              Print this help
  format [name]     Show or set the output format (native, json, yaml, html)
  indent <width>    Set the output indent width; 0 is compact
  tokens            Toggle printing the tokens of each parsed line
  splice <expr>     Append an escaped host expression to the document
  raw <expr>        Append an unescaped host expression to the document
  let <name> = <e>  Evaluate e and bind it for splices rendered as HTML
  env               List bound variables
  show              Print the document in the current format
  reset             Clear the document
  edit              Edit the document in $EDITOR
  clear             Clear screen
  quit              Exit REPL

Usage:
  Type markup to parse it and append it to the document
  Press Tab / Shift-Tab to cycle through completions
  Press Esc to toggle between parse and command modes
  Use Up/Down for history (the mode follows the entry)
  Use Shift+Up/Shift+Down for history within the current mode only
  Press Ctrl+C on an empty line or Ctrl+D to exit`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeParse inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// echo formats the line the user entered for the scrollback.
func echo(mode inputMode, input string) string {
	if mode == modeCtrl {
		return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
	}

	return promptStyle.Render(parsePrompt) + inputStyle.Render(input)
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	session      *session
	history      *History
	input        textinput.Model
	logger       log.Logger
	matches      fuzzy.Matches // current fuzzy match results
	saved        [2]string     // input text per mode, indexed by inputMode
	preTabText   string        // input text before tab-cycling began
	historyIdx   int
	wordStart    int // byte offset of current word start
	wordEnd      int // byte offset of current word end
	suggIdx      int // selected candidate index
	preTabCursor int // cursor position before tab-cycling began
	width        int // terminal width for ellipsization
	mode         inputMode
	tabActive    bool // whether user is tab-cycling
	quitting     bool
}

// Options configures a REPL session.
type Options struct {
	Source   io.Reader // optional markup the document starts with
	CacheDir string    // history is kept here; empty keeps it in memory
	Format   string    // initial output format
	Logger   log.Logger
}

// Run starts the REPL and blocks until the user quits.
func Run(ctx context.Context, opts Options) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := opts.Logger

	logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", opts.CacheDir),
		slog.Bool("has_source", opts.Source != nil))

	s := newSession(logger, opts.Format)

	if opts.Source != nil {
		ast, err := markup.ParseReader(ctx, opts.Source, markup.WithLogger(logger))
		if err != nil {
			return err
		}

		s.nodes = ast.Nodes
	}

	history := NewHistory("")
	if opts.CacheDir != "" {
		history = NewHistory(filepath.Join(opts.CacheDir, baseHistory))
	}

	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(ctx, "repl history loaded",
		slog.Int("entry_count", history.Len()))

	p := tea.NewProgram(newModel(ctx, s, history, logger), tea.WithContext(ctx))
	_, err = p.Run()

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	s *session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(parsePrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		session:    s,
		history:    history,
		input:      ti,
		logger:     logger,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeParse,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(parsePrompt) - 2

		return m, nil

	case editDoneMsg:
		m.session.nodes = msg.doc.Nodes

		m.logger.TraceContext(m.ctxFunc(), "repl edit complete",
			slog.Int("units", len(msg.doc.Nodes)))

		return m, tea.Println(resultStyle.Render("document updated"))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		return m, tea.Println(hintStyle.Render("edit discarded"))

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch input := m.input.Value(); {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		hint := "Type markup to parse or press Esc for commands"
		if m.mode == modeCtrl {
			hint = "Type a command, or help (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()))

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refreshMatches(false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			// Lock in the current candidate without executing.
			m.tabActive = false
			m.refreshMatches(true)

			return m, nil
		}

		return m.submit()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.browse(-1, false), nil

	case tea.KeyDown:
		return m.browse(1, false), nil

	case tea.KeyShiftUp:
		return m.browse(-1, true), nil

	case tea.KeyShiftDown:
		return m.browse(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			m.refreshMatches(false)

			return m, nil
		}

		if m.mode == modeParse {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeParse), nil

	case tea.KeyRunes:
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		m.refreshMatches(true)

		return m, cmd
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches(false)

	return m, cmd
}

// cycle moves the tab selection by step and completes the current word.
func (m model) cycle(step int) model {
	switch len(m.matches) {
	case 0:
		return m

	case 1:
		m.replaceWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	m.replaceWord(m.matches[m.suggIdx].Str)

	return m
}

// replaceWord replaces the current word with s and moves the cursor after
// it.
func (m *model) replaceWord(s string) {
	input := m.input.Value()

	m.input.SetValue(input[:m.wordStart] + s + input[m.wordEnd:])
	m.input.SetCursor(m.wordStart + len(s))
	m.wordEnd = m.wordStart + len(s)
}

// refreshMatches recomputes completions. With autoConfirm, a word that
// already equals its sole candidate is accepted.
func (m *model) refreshMatches(autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.matches = nil
	}
}

// browse moves through history by step. With sameMode it skips entries from
// the other mode; otherwise the mode follows the entry.
func (m model) browse(step int, sameMode bool) model {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.Entry(i)
		if err != nil {
			break
		}

		if sameMode && entry.Mode != m.mode {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		m.refreshMatches(false)

		return m
	}

	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		m.refreshMatches(false)
	}

	return m
}

// switchToMode switches to mode, keeping each mode's pending input.
func (m model) switchToMode(mode inputMode) model {
	m.saved[m.mode] = m.input.Value()
	m.mode = mode

	if mode == modeParse {
		m.input.Prompt = promptStyle.Render(parsePrompt)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	}

	m.input.SetValue(m.saved[mode])
	m.input.CursorEnd()
	m.refreshMatches(false)

	return m
}

func (m model) submit() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.saved = [2]string{}
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history",
			slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	echoCmd := tea.Println(echo(m.mode, input))

	if m.mode == modeCtrl {
		return m.command(input, echoCmd)
	}

	m.logger.TraceContext(m.ctxFunc(), "repl parse", slog.String("input", input))

	out, err := m.session.parse(m.ctxFunc(), input)
	if err != nil {
		return m, tea.Sequence(echoCmd, tea.Println(errorStyle.Render(err.Error())))
	}

	return m, tea.Sequence(echoCmd, tea.Println(resultStyle.Render(out)))
}

// command runs a control command. Commands that drive the terminal are
// handled here; the rest are delegated to the session.
func (m model) command(input string, echoCmd tea.Cmd) (model, tea.Cmd) {
	switch name, _, _ := strings.Cut(input, " "); name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		if m.session.hasSplices() {
			return m, tea.Sequence(echoCmd,
				tea.Println(errorStyle.Render("error: "+ErrSplicedDocument.Error())))
		}

		return m, tea.Sequence(echoCmd, m.edit())
	}

	out, err := m.session.exec(m.ctxFunc(), input)
	if err != nil {
		return m, tea.Sequence(echoCmd, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	if out == "" {
		return m, echoCmd
	}

	return m, tea.Sequence(echoCmd, tea.Println(resultStyle.Render(out)))
}

func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		doc:     m.session.document(),
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}

		case err != nil:
			return editErrorMsg{err: err}

		case cmd.result == nil:
			return editCancelledMsg{}

		default:
			return editDoneMsg{doc: cmd.result}
		}
	})
}
