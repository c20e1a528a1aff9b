package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/empl/lang"
	"github.com/ardnew/empl/log"
)

// resolve returns a [kong.ConfigurationLoader] for flags files written in
// the configuration language. The value of the last form must be a list of
// (name value) pairs:
//
//	(list
//	  (list "log-level" "debug")
//	  (list "log-pretty" #f)
//	  (list "max-depth" 256))
//
// Names may use underscores in place of hyphens. Integers are passed to kong
// as decimal strings and lists as slices. A file that fails to evaluate or
// has the wrong shape is logged and ignored, so a broken flags file never
// prevents the command line from being parsed. Command-line flags override
// every value of the file.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		src, err := io.ReadAll(r)
		if err != nil {
			return flags{}, nil
		}

		logger := log.With(slog.String("source", "flags"))

		env := lang.NewEnvironment(lang.WithLogger(logger))

		v, err := env.Run(string(src))
		if err != nil {
			logger.WarnContext(ctx, "ignoring flags file", slog.Any("error", err))

			return flags{}, nil
		}

		f, err := flagsOf(v)
		if err != nil {
			logger.WarnContext(ctx, "ignoring flags file", slog.Any("error", err))

			return flags{}, nil
		}

		logger.DebugContext(ctx, "loaded flags", slog.Int("count", len(f)))

		return f, nil
	}
}

// flags implements [kong.Resolver] over the pairs of a flags file.
type flags map[string]any

// flagsOf converts a list of (name value) pairs.
func flagsOf(v lang.Value) (flags, error) {
	list, err := lang.As[*lang.List](v)
	if err != nil {
		return nil, err
	}

	f := make(flags, list.Len())

	for item := range list.All() {
		pair, err := lang.As[*lang.List](item)
		if err != nil {
			return nil, err
		}

		if pair.Len() != 2 {
			return nil, lang.ErrWrongListArity.With(
				slog.String("arity", lang.Static(2).String()),
				slog.String("found", pair.String()),
			)
		}

		name, err := lang.As[lang.String](pair.Head())
		if err != nil {
			return nil, err
		}

		f[string(name)] = flagNative(pair.Tail().Head())
	}

	return f, nil
}

// flagNative converts v to a value kong can decode. Kong parses numbers from
// strings.
func flagNative(v lang.Value) any {
	switch v := v.(type) {
	case lang.Int:
		return strconv.FormatInt(int64(v), 10)

	case *lang.List:
		out := make([]any, 0, v.Len())
		for item := range v.All() {
			out = append(out, flagNative(item))
		}

		return out

	default:
		return lang.ValueToNative(v)
	}
}

// Validate implements [kong.Resolver].
func (flags) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (f flags) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := f[flag.Name]; ok {
		return v, nil
	}

	if v, ok := f[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return v, nil
	}

	return nil, nil
}
