package parser

import (
	"errors"
	"fmt"
	"strconv"
)

// Predefined errors (sentinel values).
var (
	ErrEOF        = errors.New("unexpected end of input")
	ErrMismatch   = errors.New("unexpected item")
	ErrUndeclared = errors.New("recursive parser used before declaration")
	ErrRejected   = errors.New("item rejected")
	ErrIncomplete = errors.New("input not fully consumed")
)

// MatchError reports an item that differs from the expected one.
type MatchError[T comparable] struct {
	Expected T
	Found    T
}

func (e *MatchError[T]) Error() string {
	return "expected " + describe(e.Expected) + ", found " + describe(e.Found)
}

func (e *MatchError[T]) Unwrap() error { return ErrMismatch }

// committed marks a failure that ordered alternation must not recover from.
type committed struct{ err error }

func (c committed) Error() string { return c.err.Error() }

func (c committed) Unwrap() error { return c.err }

// Commit marks err as committed. Alternation, repetition and optional
// parsers propagate a committed failure instead of backtracking.
func Commit(err error) error {
	if err == nil || IsCommitted(err) {
		return err
	}

	return committed{err: err}
}

// IsCommitted reports whether err was marked by [Commit].
func IsCommitted(err error) bool {
	var c committed

	return errors.As(err, &c)
}

func describe(v any) string {
	switch v := v.(type) {
	case rune:
		return strconv.QuoteRune(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
