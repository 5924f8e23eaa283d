package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used to render log fields.
type palette struct {
	key, str, num, time, null lipgloss.Style
	yes, no                   lipgloss.Style
	trace, debug, info, warn  lipgloss.Style
	err                       lipgloss.Style
}

// makePalette builds styles for w. Styles degrade to plain text when w is not
// a color terminal.
func makePalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		time:  fg("4"),
		null:  fg("8"),
		yes:   fg("2"),
		no:    fg("1"),
		trace: fg("5"),
		debug: fg("4"),
		info:  fg("2"),
		warn:  fg("3").Bold(true),
		err:   fg("1").Bold(true),
	}
}

func (p palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.err
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

// prettyHandler writes records for human readers, either as a single line
// of key=value pairs or as an indented object with one field per line.
type prettyHandler struct {
	opts    slog.HandlerOptions
	format  Format
	palette palette
	mu      *sync.Mutex
	w       io.Writer
	attrs   []slog.Attr // qualified by prefix when added
	prefix  string      // open groups, joined with '.'
}

func newPrettyHandler(
	w io.Writer,
	format Format,
	opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{
		opts:    *opts,
		format:  format,
		palette: makePalette(w),
		mu:      &sync.Mutex{},
		w:       w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], h.qualify(attrs)...)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

func (h *prettyHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if h.prefix == "" {
		return attrs
	}

	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: h.prefix + a.Key, Value: a.Value}
	}

	return out
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	builtin := func(a slog.Attr) {
		if h.opts.ReplaceAttr != nil {
			a = h.opts.ReplaceAttr(nil, a)
		}

		if !a.Equal(slog.Attr{}) {
			fields = append(fields, a)
		}
	}

	if !r.Time.IsZero() {
		builtin(slog.Time(slog.TimeKey, r.Time))
	}

	builtin(slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			builtin(slog.String(slog.SourceKey,
				src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	builtin(slog.String(slog.MessageKey, r.Message))

	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = append(fields, h.qualify([]slog.Attr{a})...)

		return true
	})

	var buf bytes.Buffer

	switch h.format {
	case FormatJSON:
		h.writeObject(&buf, r.Level, fields)
	default:
		h.writeLine(&buf, r.Level, fields)
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) writeLine(buf *bytes.Buffer, level slog.Level, fields []slog.Attr) {
	first := true

	var each func(prefix string, a slog.Attr)

	each = func(prefix string, a slog.Attr) {
		v := a.Value.Resolve()
		if v.Kind() == slog.KindGroup {
			for _, g := range v.Group() {
				each(prefix+a.Key+".", g)
			}

			return
		}

		if !first {
			buf.WriteByte(' ')
		}

		first = false

		buf.WriteString(h.palette.key.Render(prefix + a.Key + "="))
		buf.WriteString(h.value(a.Key, level, v))
	}

	for _, a := range fields {
		each("", a)
	}
}

func (h *prettyHandler) writeObject(buf *bytes.Buffer, level slog.Level, fields []slog.Attr) {
	var each func(depth int, attrs []slog.Attr)

	each = func(depth int, attrs []slog.Attr) {
		pad := strings.Repeat("  ", depth)

		for i, a := range attrs {
			buf.WriteString(pad)
			buf.WriteString(h.palette.key.Render(a.Key))
			buf.WriteString(": ")

			if v := a.Value.Resolve(); v.Kind() == slog.KindGroup {
				buf.WriteString("{\n")
				each(depth+1, v.Group())
				buf.WriteString(pad + "}")
			} else {
				buf.WriteString(h.value(a.Key, level, v))
			}

			if i < len(attrs)-1 {
				buf.WriteByte(',')
			}

			buf.WriteByte('\n')
		}
	}

	buf.WriteString("{\n")
	each(1, fields)
	buf.WriteString("}")
}

// value renders a single resolved, non-group value.
func (h *prettyHandler) value(key string, level slog.Level, v slog.Value) string {
	p := h.palette

	if key == slog.LevelKey {
		return p.level(level).Render(v.String())
	}

	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if strings.ContainsAny(s, "\n\t\"") {
			s = strconv.Quote(s)
		}

		return p.str.Render(s)

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64, slog.KindDuration:
		return p.num.Render(v.String())

	case slog.KindBool:
		if v.Bool() {
			return p.yes.Render("true")
		}

		return p.no.Render("false")

	case slog.KindTime:
		return p.time.Render(v.Time().Format(DefaultTimeLayout))

	case slog.KindAny:
		if v.Any() == nil {
			return p.null.Render("null")
		}

		if err, ok := v.Any().(error); ok {
			return p.no.Render(strconv.Quote(err.Error()))
		}

		return p.str.Render(v.String())

	default:
		return p.str.Render(v.String())
	}
}
