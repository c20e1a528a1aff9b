package log

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"time"
)

// Logger writes leveled, structured records. A Logger is immutable and
// safe for concurrent use; the zero Logger discards everything.
type Logger struct {
	*slog.Logger
	config
}

// Make returns a logger writing to w, configured by opts on top of the
// defaults: [DefaultLevel], [DefaultFormat], [DefaultTimeLayout], no caller
// and no pretty printing.
func Make(w io.Writer, opts ...Option) Logger {
	cfg := makeConfig(w, opts...)

	return Logger{Logger: slog.New(cfg.handler()), config: cfg}
}

// Wrap returns a logger with the configuration of l overridden by opts.
// Attributes added to l with [Logger.With] are not carried over.
func (l Logger) Wrap(opts ...Option) Logger {
	if l.Logger == nil {
		return Make(nil, opts...)
	}

	cfg := apply(l.config, opts...)

	return Logger{Logger: slog.New(cfg.handler()), config: cfg}
}

// With returns a logger that adds attrs to every record.
func (l Logger) With(attrs ...slog.Attr) Logger {
	if l.Logger == nil {
		return l
	}

	return Logger{Logger: slog.New(l.Handler().WithAttrs(attrs)), config: l.config}
}

// Level returns the minimum level of records written.
func (l Logger) Level() Level {
	if l.Logger == nil {
		return DefaultLevel
	}

	return l.level
}

// Format returns the record encoding.
func (l Logger) Format() Format {
	if l.Logger == nil {
		return DefaultFormat
	}

	return l.format
}

// Enabled reports whether records at level are written.
func (l Logger) Enabled(ctx context.Context, level Level) bool {
	return l.Logger != nil && l.Handler().Enabled(ctx, slog.Level(level))
}

func (l Logger) TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelTrace, msg, attrs)
}

func (l Logger) Trace(msg string, attrs ...slog.Attr) {
	l.log(DefaultContextProvider(), LevelTrace, msg, attrs)
}

func (l Logger) DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelDebug, msg, attrs)
}

func (l Logger) Debug(msg string, attrs ...slog.Attr) {
	l.log(DefaultContextProvider(), LevelDebug, msg, attrs)
}

func (l Logger) InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelInfo, msg, attrs)
}

func (l Logger) Info(msg string, attrs ...slog.Attr) {
	l.log(DefaultContextProvider(), LevelInfo, msg, attrs)
}

func (l Logger) WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelWarn, msg, attrs)
}

func (l Logger) Warn(msg string, attrs ...slog.Attr) {
	l.log(DefaultContextProvider(), LevelWarn, msg, attrs)
}

func (l Logger) ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelError, msg, attrs)
}

func (l Logger) Error(msg string, attrs ...slog.Attr) {
	l.log(DefaultContextProvider(), LevelError, msg, attrs)
}

// log must be called directly by the exported method that the user called,
// so that the caller's frame is a fixed distance up the stack.
func (l Logger) log(ctx context.Context, level Level, msg string, attrs []slog.Attr) {
	if !l.Enabled(ctx, level) {
		return
	}

	var pc uintptr

	if l.caller {
		var pcs [1]uintptr

		// runtime.Callers, log, exported method
		runtime.Callers(3, pcs[:])
		pc = pcs[0]
	}

	r := slog.NewRecord(time.Now(), slog.Level(level), msg, pc)
	r.AddAttrs(attrs...)

	_ = l.Handler().Handle(ctx, r)
}
