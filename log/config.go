package log

import (
	"io"
	"iter"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Level is the severity of a log message.
type Level slog.Level

const (
	LevelTrace = Level(slog.LevelDebug - 4)
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// DefaultLevel is the level of a logger made without [WithLevel].
const DefaultLevel = LevelInfo

var levels = []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError}

// String returns the lowercase level name, with an offset from the nearest
// named level below it when l falls between them (e.g. "info+2").
func (l Level) String() string {
	name, base := "trace", LevelTrace

	for _, lv := range levels[1:] {
		if lv <= l {
			name, base = strings.ToLower(slog.Level(lv).String()), lv
		}
	}

	switch d := int(l - base); {
	case d > 0:
		return name + "+" + strconv.Itoa(d)
	case d < 0:
		return name + strconv.Itoa(d)
	default:
		return name
	}
}

// UnmarshalText implements [encoding.TextUnmarshaler] using [ParseLevel].
func (l *Level) UnmarshalText(text []byte) error {
	*l = ParseLevel(string(text))

	return nil
}

// Levels iterates the names of the defined levels, most verbose first.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, l := range levels {
			if !yield(l.String()) {
				return
			}
		}
	}
}

// ParseLevel parses a level name such as "debug" or "WARN+1". Unrecognized
// names yield [DefaultLevel].
func ParseLevel(s string) Level {
	s = strings.TrimSpace(s)

	if rest, ok := cutPrefixFold(s, "trace"); ok {
		var l slog.Level
		if err := l.UnmarshalText([]byte("debug" + rest)); err != nil {
			return DefaultLevel
		}

		return Level(l) + LevelTrace - LevelDebug
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

// Format is the encoding of log records.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// DefaultFormat is the format of a logger made without [WithFormat].
const DefaultFormat = FormatText

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "format(" + strconv.Itoa(int(f)) + ")"
	}
}

// UnmarshalText implements [encoding.TextUnmarshaler] using [ParseFormat].
func (f *Format) UnmarshalText(text []byte) error {
	*f = ParseFormat(string(text))

	return nil
}

// Formats iterates the names of the defined formats.
func Formats() iter.Seq[string] {
	return slices.Values([]string{FormatText.String(), FormatJSON.String()})
}

// ParseFormat parses "text" or "json". Anything else yields [DefaultFormat].
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return DefaultFormat
	}
}

// FormatTime renders a record timestamp. An empty result omits the time.
type FormatTime func(time.Time) string

// DefaultTimeLayout is the timestamp layout of a logger made without
// [WithTimeLayout].
const DefaultTimeLayout = time.RFC3339

type config struct {
	output     io.Writer
	formatTime FormatTime
	level      Level
	format     Format
	caller     bool
	pretty     bool
}

func makeConfig(w io.Writer, opts ...Option) config {
	return apply(config{
		output:     orDiscard(w),
		formatTime: makeFormatTimeFunc(DefaultTimeLayout),
		level:      DefaultLevel,
		format:     DefaultFormat,
	}, opts...)
}

func (c config) handlerOptions() *slog.HandlerOptions {
	return &slog.HandlerOptions{
		AddSource: c.caller,
		Level:     slog.Level(c.level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}

			switch a.Key {
			case slog.TimeKey:
				if t, ok := a.Value.Any().(time.Time); ok {
					s := c.formatTime(t)
					if s == "" {
						return slog.Attr{}
					}

					a.Value = slog.StringValue(s)
				}

			case slog.LevelKey:
				if l, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(strings.ToUpper(Level(l).String()))
				}
			}

			return a
		},
	}
}

func (c config) handler() slog.Handler {
	opts := c.handlerOptions()

	switch {
	case c.pretty:
		return newPrettyHandler(c.output, c.format, opts)
	case c.format == FormatJSON:
		return slog.NewJSONHandler(c.output, opts)
	default:
		return slog.NewTextHandler(c.output, opts)
	}
}

// WithOutput writes records to w, or discards them if w is nil.
func WithOutput(w io.Writer) Option {
	return func(c config) config {
		c.output = orDiscard(w)

		return c
	}
}

// WithLevel discards records below level.
func WithLevel(level Level) Option {
	return func(c config) config {
		c.level = level

		return c
	}
}

func WithFormat(format Format) Option {
	return func(c config) config {
		c.format = format

		return c
	}
}

// WithTimeLayout sets the timestamp layout. The layout is either one of the
// names of the [time] package layouts, matched ignoring case and punctuation
// ("rfc3339", "Kitchen", "stamp-milli"), or a literal layout. An empty layout
// or "none" omits timestamps.
func WithTimeLayout(layout string) Option {
	return func(c config) config {
		c.formatTime = makeFormatTimeFunc(layout)

		return c
	}
}

// WithCaller adds the source location of the logging call to each record.
func WithCaller(enable bool) Option {
	return func(c config) config {
		c.caller = enable

		return c
	}
}

// WithPretty renders records for a terminal: colored text, or indented JSON.
func WithPretty(enable bool) Option {
	return func(c config) config {
		c.pretty = enable

		return c
	}
}

var timeLayout = map[string]string{
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"ansic":       time.ANSIC,
	"unixdate":    time.UnixDate,
	"rubydate":    time.RubyDate,
	"rfc822":      time.RFC822,
	"rfc822z":     time.RFC822Z,
	"rfc850":      time.RFC850,
	"rfc1123":     time.RFC1123,
	"rfc1123z":    time.RFC1123Z,
	"kitchen":     time.Kitchen,
	"datetime":    time.DateTime,
	"dateonly":    time.DateOnly,
	"timeonly":    time.TimeOnly,
	"stamp":       time.Stamp,
	"stampmilli":  time.StampMilli,
	"stampmicro":  time.StampMicro,
	"stampnano":   time.StampNano,
	"none":        "",
}

func makeFormatTimeFunc(layout string) FormatTime {
	key := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}

		return -1
	}, strings.ToLower(layout))

	if std, ok := timeLayout[key]; ok {
		layout = std
	}

	if strings.TrimSpace(layout) == "" {
		return func(time.Time) string { return "" }
	}

	return func(t time.Time) string { return t.Format(layout) }
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}

	return w
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}

	return s[len(prefix):], true
}
