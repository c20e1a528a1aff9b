package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/empl/log"
)

// logFormat configures the logger format as a side effect of parsing, so
// errors reported while kong parses the rest of the line already use it.
type logFormat struct{ log.Format }

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	if err := f.Format.UnmarshalText(text); err != nil {
		return err
	}

	log.Config(log.WithFormat(f.Format))

	return nil
}

// logLevel configures the logger level as a side effect of parsing.
type logLevel struct{ log.Level }

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	if err := l.Level.UnmarshalText(text); err != nil {
		return err
	}

	log.Config(log.WithLevel(l.Level))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"info"    enum:"${logLevelEnum}"  help:"Set log level (${enum})."`
	Format     logFormat `default:"text"    enum:"${logFormatEnum}" help:"Set log format (${enum})."`
	TimeLayout string    `default:"RFC3339"                         help:"Set timestamp format."`
	Caller     bool      `default:"false"                           help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                            help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelEnum":  strings.Join(slices.Collect(log.Levels()), ","),
		"logFormatEnum": strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging options"}
}

// start applies every logger flag once parsing is complete. TimeLayout has
// no side effect while parsing and is only applied here.
func (f *logConfig) start(ctx context.Context) (stop func()) {
	log.Config(
		log.WithLevel(f.Level.Level),
		log.WithFormat(f.Format.Format),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", f.Level.String()),
		slog.String("format", f.Format.String()),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)

	return func() {}
}

// scan applies logger flags found in args before kong parses them. The
// boolean flags have no UnmarshalText hook, and a flag given after the
// command would otherwise apply too late for messages logged while parsing.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		arg, negate := args[i], false

		name, ok := strings.CutPrefix(arg, "--log-")
		if !ok {
			if name, ok = strings.CutPrefix(arg, "--no-log-"); !ok {
				continue
			}

			negate = true
		}

		name, value, assigned := strings.Cut(name, "=")

		next := func() string {
			if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++

				return args[i]
			}

			return value
		}

		flag := func(into *bool) bool {
			v := true
			if assigned {
				b, err := strconv.ParseBool(value)
				if err != nil {
					return false
				}

				v = b
			}

			*into = v != negate

			return true
		}

		switch {
		case name == "level" && !negate:
			_ = f.Level.UnmarshalText([]byte(next()))

		case name == "format" && !negate:
			_ = f.Format.UnmarshalText([]byte(next()))

		case name == "pretty":
			if flag(&f.Pretty) {
				log.Config(log.WithPretty(f.Pretty))
			}

		case name == "caller":
			if flag(&f.Caller) {
				log.Config(log.WithCaller(f.Caller))
			}
		}
	}
}
