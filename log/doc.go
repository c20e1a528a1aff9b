// Package log is a leveled, structured logger built on [log/slog].
//
// A [Logger] is configured once, when it is made, by functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
// Loggers are immutable. [Logger.Wrap] derives a logger with a different
// configuration and [Logger.With] one that adds attributes to every record:
//
//	logger = logger.With(slog.String("file", path))
//	logger.Info("config loaded", slog.Int("playlists", n))
//
// Below [LevelDebug] is [LevelTrace], used by the interpreter to log every
// function application.
//
// The package-level functions write to a default logger that starts out
// writing text to standard error at [LevelInfo]; [Config] reconfigures it.
// Functions without a context argument use [DefaultContextProvider].
//
// With [WithPretty], records are rendered for a terminal: colored
// key=value text, or indented JSON. Colors are dropped when the output is
// not a terminal.
package log
