package log

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

// DefaultContextProvider returns the context passed to handlers by the
// logging methods that do not take one.
var DefaultContextProvider = context.Background

var defaultLog atomic.Pointer[Logger]

func init() {
	l := Make(os.Stderr)
	defaultLog.Store(&l)
}

// Default returns the package logger.
func Default() Logger { return *defaultLog.Load() }

// Config reconfigures the package logger with opts.
func Config(opts ...Option) {
	l := Default().Wrap(opts...)
	defaultLog.Store(&l)
}

// SetDefault replaces the package logger.
func SetDefault(l Logger) { defaultLog.Store(&l) }

func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, LevelTrace, msg, attrs)
}

func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, LevelDebug, msg, attrs)
}

func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, LevelInfo, msg, attrs)
}

func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, LevelWarn, msg, attrs)
}

func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, LevelError, msg, attrs)
}

func Trace(msg string, attrs ...slog.Attr) {
	Default().log(DefaultContextProvider(), LevelTrace, msg, attrs)
}

func Debug(msg string, attrs ...slog.Attr) {
	Default().log(DefaultContextProvider(), LevelDebug, msg, attrs)
}

func Info(msg string, attrs ...slog.Attr) {
	Default().log(DefaultContextProvider(), LevelInfo, msg, attrs)
}

func Warn(msg string, attrs ...slog.Attr) {
	Default().log(DefaultContextProvider(), LevelWarn, msg, attrs)
}

func Error(msg string, attrs ...slog.Attr) {
	Default().log(DefaultContextProvider(), LevelError, msg, attrs)
}

// With returns the package logger with attrs added to every record.
func With(attrs ...slog.Attr) Logger { return Default().With(attrs...) }
