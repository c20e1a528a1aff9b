package lang

import (
	"errors"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrSyntax              = NewError("syntax error")
	ErrTrailingInput       = NewError("unexpected input after form")
	ErrMissingSeparator    = NewError("atoms not separated by whitespace")
	ErrEmptyApply          = NewError("cannot apply empty list")
	ErrNotAFunction        = NewError("not a function")
	ErrNotFound            = NewError("identifier not found")
	ErrWrongArity          = NewError("wrong number of arguments")
	ErrWrongType           = NewError("wrong type")
	ErrWrongListArity      = NewError("wrong number of list elements")
	ErrOverflow            = NewError("integer overflow")
	ErrNoBindings          = NewError("missing binding list")
	ErrEmptyListBindings   = NewError("binding list is empty")
	ErrNonIdentListBinding = NewError("binding is not an identifier")
	ErrMultipleBindings    = NewError("identifier bound more than once")
	ErrWrongBindingArity   = NewError("binding must be a pair")
	ErrNoBody              = NewError("missing body")
	ErrEnvVar              = NewError("environment variable not set")
	ErrReadPath            = NewError("failed to read path")
	ErrMaxDepthExceeded    = NewError("maximum call depth exceeded")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
//
// Errors derived from a sentinel with [Error.Wrap] or [Error.With] match
// that sentinel under [errors.Is].
type Error struct {
	root  *Error
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.root = e

	return e
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface. The result has the form
// "<msg> (<key>=<value> ...): <err>", omitting the empty parts.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.msg)

	if len(e.attrs) > 0 {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteByte('(')

		for i, a := range e.attrs {
			if i > 0 {
				sb.WriteByte(' ')
			}

			sb.WriteString(a.String())
		}

		sb.WriteByte(')')
	}

	if e.err != nil {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && e.root != nil && e.root == t.root
}

// Attr returns the value of the attribute with the given key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{root: e.root, msg: e.msg, err: err, attrs: e.attrs}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{root: e.root, msg: e.msg, err: e.err, attrs: newAttrs}
}

func wrongType(expected Type, actual Value) *Error {
	return ErrWrongType.With(
		slog.String("expected", expected.String()),
		slog.String("actual", TypeOf(actual).String()),
	)
}

func wrongArity(name string, want Arity, got int) *Error {
	return ErrWrongArity.With(
		slog.String("fn", name),
		slog.String("arity", want.String()),
		slog.Int("actual", got),
	)
}
