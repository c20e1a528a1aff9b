package log

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of a pretty handler, bound to the color profile
// of its output.
type palette struct {
	key, str, num, yes, no, dur, time, null lipgloss.Style
	level                                   map[slog.Level]lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	return palette{
		key:  fg("8"),
		str:  fg("6"),
		num:  fg("3"),
		yes:  fg("2"),
		no:   fg("1"),
		dur:  fg("5"),
		time: fg("4"),
		null: fg("8"),
		level: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): fg("4").Faint(true),
			slog.LevelDebug:        fg("4"),
			slog.LevelInfo:         fg("2"),
			slog.LevelWarn:         fg("3"),
			slog.LevelError:        fg("1").Bold(true),
		},
	}
}

func (p palette) levelStyle(l slog.Level) lipgloss.Style {
	st := p.level[slog.Level(LevelTrace)]

	for _, lv := range levels {
		if slog.Level(lv) <= l {
			st = p.level[slog.Level(lv)]
		}
	}

	return st
}

// prettyHandler renders records for a terminal. Text records are a single
// line of colored key=value pairs; JSON records are indented objects with
// colored values.
type prettyHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	opts   slog.HandlerOptions
	colors palette
	format Format
	attrs  []slog.Attr
	groups []string
}

func newPrettyHandler(w io.Writer, format Format, opts *slog.HandlerOptions) *prettyHandler {
	return &prettyHandler{
		mu:     &sync.Mutex{},
		w:      w,
		opts:   *opts,
		colors: newPalette(w),
		format: format,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	floor := slog.LevelInfo
	if h.opts.Level != nil {
		floor = h.opts.Level.Level()
	}

	return level >= floor
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	g := *h
	g.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], h.nest(attrs)...)

	return &g
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	g := *h
	g.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &g
}

// nest places attrs inside the open groups.
func (h *prettyHandler) nest(attrs []slog.Attr) []slog.Attr {
	for i := len(h.groups) - 1; i >= 0; i-- {
		attrs = []slog.Attr{{Key: h.groups[i], Value: slog.GroupValue(attrs...)}}
	}

	return attrs
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	head := make([]slog.Attr, 0, 4)

	if !r.Time.IsZero() {
		head = append(head, slog.Time(slog.TimeKey, r.Time))
	}

	head = append(head, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource && r.PC != 0 {
		if src := r.Source(); src != nil {
			head = append(head, slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	head = append(head, slog.String(slog.MessageKey, r.Message))

	var recAttrs []slog.Attr

	r.Attrs(func(a slog.Attr) bool {
		recAttrs = append(recAttrs, a)

		return true
	})

	var attrs []slog.Attr

	for _, a := range head {
		if h.opts.ReplaceAttr != nil {
			a = h.opts.ReplaceAttr(nil, a)
		}

		if a.Key != "" {
			attrs = append(attrs, a)
		}
	}

	attrs = append(attrs, h.attrs...)
	attrs = append(attrs, h.nest(recAttrs)...)

	var buf bytes.Buffer

	if h.format == FormatJSON {
		h.writeObject(&buf, attrs, 1)
	} else {
		for i, a := range attrs {
			if i > 0 {
				buf.WriteByte(' ')
			}

			h.writeText(&buf, "", a)
		}
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) writeText(buf *bytes.Buffer, prefix string, a slog.Attr) {
	v := a.Value.Resolve()

	if v.Kind() == slog.KindGroup {
		for i, ga := range v.Group() {
			if i > 0 {
				buf.WriteByte(' ')
			}

			h.writeText(buf, prefix+a.Key+".", ga)
		}

		return
	}

	buf.WriteString(h.colors.key.Render(prefix + a.Key))
	buf.WriteByte('=')
	buf.WriteString(h.value(a.Key, v, false))
}

func (h *prettyHandler) writeObject(buf *bytes.Buffer, attrs []slog.Attr, depth int) {
	indent := func(d int) {
		for range d {
			buf.WriteString("  ")
		}
	}

	buf.WriteString("{\n")

	for i, a := range attrs {
		indent(depth)
		buf.WriteString(h.colors.key.Render(strconv.Quote(a.Key)))
		buf.WriteString(": ")

		if v := a.Value.Resolve(); v.Kind() == slog.KindGroup {
			h.writeObject(buf, v.Group(), depth+1)
		} else {
			buf.WriteString(h.value(a.Key, v, true))
		}

		if i < len(attrs)-1 {
			buf.WriteByte(',')
		}

		buf.WriteByte('\n')
	}

	indent(depth - 1)
	buf.WriteByte('}')
}

func (h *prettyHandler) value(key string, v slog.Value, quote bool) string {
	c := h.colors

	q := func(s string) string {
		if quote {
			return strconv.Quote(s)
		}

		return s
	}
	str := func(s string) string { return c.str.Render(q(s)) }

	switch v.Kind() {
	case slog.KindString:
		if key == slog.LevelKey {
			return c.levelStyle(slog.Level(ParseLevel(v.String()))).Render(q(v.String()))
		}

		return str(v.String())
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return c.num.Render(v.String())
	case slog.KindBool:
		if v.Bool() {
			return c.yes.Render("true")
		}

		return c.no.Render("false")
	case slog.KindDuration:
		return c.dur.Render(q(v.Duration().String()))
	case slog.KindTime:
		return c.time.Render(q(v.Time().Format(DefaultTimeLayout)))
	default:
		switch a := v.Any().(type) {
		case nil:
			return c.null.Render("null")
		case slog.Level:
			return c.levelStyle(a).Render(Level(a).String())
		case error:
			return str(a.Error())
		case json.Marshaler:
			if quote {
				if b, err := a.MarshalJSON(); err == nil {
					return c.str.Render(string(b))
				}
			}
		}

		return str(v.String())
	}
}
