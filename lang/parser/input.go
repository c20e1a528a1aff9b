package parser

import (
	"iter"
	"unicode/utf8"
)

// Sliceable is implemented by inputs that can report their remaining width
// and produce sub-inputs addressed by width offsets.
type Sliceable[I any] interface {
	Len() int
	Slice(i, j int) I
}

// Input is a sequence of items of type T with a recoverable remaining-input
// view. First reports the leading item together with its width, so that
// variable-width items (runes in text) can be skipped without re-decoding.
type Input[I any, T comparable] interface {
	Sliceable[I]
	First() (item T, width int, ok bool)
}

// Text is UTF-8 encoded source text. Its items are runes and its width unit
// is the byte.
type Text string

func (t Text) Len() int { return len(t) }

func (t Text) Slice(i, j int) Text { return t[i:j] }

func (t Text) First() (rune, int, bool) {
	if len(t) == 0 {
		return 0, 0, false
	}

	r, w := utf8.DecodeRuneInString(string(t))

	return r, w, true
}

// Slice is a sequence of discrete items each of width 1.
type Slice[T comparable] []T

func (s Slice[T]) Len() int { return len(s) }

func (s Slice[T]) Slice(i, j int) Slice[T] { return s[i:j] }

func (s Slice[T]) First() (T, int, bool) {
	if len(s) == 0 {
		var zero T

		return zero, 0, false
	}

	return s[0], 1, true
}

// Items iterates the items of in, yielding each item's width offset.
func Items[I Input[I, T], T comparable](in I) iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for off := 0; ; {
			item, w, ok := in.First()
			if !ok || !yield(off, item) {
				return
			}

			off += w
			in = Rest(in, w)
		}
	}
}

// Rest returns the input remaining after the first n width units.
func Rest[I Sliceable[I]](in I, n int) I {
	return in.Slice(n, in.Len())
}

// Consumed returns the prefix of from that is not part of to, where to is
// a suffix of from (typically the leftover input of a parser run on from).
func Consumed[I Sliceable[I]](from, to I) I {
	return from.Slice(0, from.Len()-to.Len())
}
