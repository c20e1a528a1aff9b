package parser

import "fmt"

// Parser consumes a prefix of its input and produces an output value
// together with the leftover input.
//
// On failure, the returned input marks where the failure was detected. It is
// diagnostic only: inputs are immutable values, so the caller's own input is
// never disturbed and alternatives may simply retry from it.
type Parser[I Sliceable[I], O any] func(in I) (out O, next I, err error)

// Parse runs p and requires it to consume all of in.
func (p Parser[I, O]) Parse(in I) (O, error) {
	out, next, err := p(in)
	if err != nil {
		return out, err
	}

	if next.Len() > 0 {
		var zero O

		return zero, ErrIncomplete
	}

	return out, nil
}

// Or tries p and then, only if p fails without committing, q.
func (p Parser[I, O]) Or(q Parser[I, O]) Parser[I, O] {
	return Select(p, q)
}

// Any matches any single item.
func Any[I Input[I, T], T comparable]() Parser[I, T] {
	return func(in I) (T, I, error) {
		item, w, ok := in.First()
		if !ok {
			return item, in, ErrEOF
		}

		return item, Rest(in, w), nil
	}
}

// Just matches exactly one item equal to want.
func Just[I Input[I, T], T comparable](want T) Parser[I, T] {
	return func(in I) (T, I, error) {
		item, w, ok := in.First()

		switch {
		case !ok:
			return item, in, ErrEOF
		case item != want:
			return item, in, &MatchError[T]{Expected: want, Found: item}
		}

		return item, Rest(in, w), nil
	}
}

// Sequence matches the items of want in order. Its output is the matched
// sub-input.
func Sequence[I Input[I, T], T comparable](want ...T) Parser[I, I] {
	return func(in I) (I, I, error) {
		var zero I

		rest := in
		for _, w := range want {
			item, n, ok := rest.First()
			if !ok {
				return zero, rest, ErrEOF
			}

			if item != w {
				return zero, rest, &MatchError[T]{Expected: w, Found: item}
			}

			rest = Rest(rest, n)
		}

		return Consumed(in, rest), rest, nil
	}
}

// Tag matches the literal text s.
func Tag(s string) Parser[Text, Text] {
	return Sequence[Text]([]rune(s)...)
}

// End succeeds, consuming nothing, only on empty input.
func End[I Sliceable[I]]() Parser[I, struct{}] {
	return func(in I) (struct{}, I, error) {
		if in.Len() > 0 {
			return struct{}{}, in, ErrIncomplete
		}

		return struct{}{}, in, nil
	}
}

// Map transforms the output of p.
func Map[I Sliceable[I], O, P any](p Parser[I, O], f func(O) P) Parser[I, P] {
	return func(in I) (P, I, error) {
		out, next, err := p(in)
		if err != nil {
			var zero P

			return zero, next, err
		}

		return f(out), next, nil
	}
}

// To replaces the output of p with v.
func To[I Sliceable[I], O, P any](p Parser[I, O], v P) Parser[I, P] {
	return Map(p, func(O) P { return v })
}

// Filter succeeds only when pred holds on the output of p. Otherwise it fails
// at the start of its input with the error returned by fail, or with
// [ErrRejected] when fail is nil.
func Filter[I Sliceable[I], O any](
	p Parser[I, O],
	pred func(O) bool,
	fail func(O) error,
) Parser[I, O] {
	return func(in I) (O, I, error) {
		out, next, err := p(in)
		if err != nil {
			return out, next, err
		}

		if !pred(out) {
			var zero O

			if fail == nil {
				return zero, in, ErrRejected
			}

			return zero, in, fail(out)
		}

		return out, next, nil
	}
}

// FilterMap transforms the output of p with f, failing at the start of its
// input when f returns an error.
func FilterMap[I Sliceable[I], O, P any](
	p Parser[I, O],
	f func(O) (P, error),
) Parser[I, P] {
	return func(in I) (P, I, error) {
		var zero P

		out, next, err := p(in)
		if err != nil {
			return zero, next, err
		}

		res, err := f(out)
		if err != nil {
			return zero, in, err
		}

		return res, next, nil
	}
}

// Pair holds the outputs of two sequenced parsers.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Then runs a and then b on the leftover input of a.
func Then[I Sliceable[I], A, B any](
	a Parser[I, A],
	b Parser[I, B],
) Parser[I, Pair[A, B]] {
	return func(in I) (Pair[A, B], I, error) {
		x, next, err := a(in)
		if err != nil {
			return Pair[A, B]{}, next, err
		}

		y, next, err := b(next)
		if err != nil {
			return Pair[A, B]{}, next, err
		}

		return Pair[A, B]{First: x, Second: y}, next, nil
	}
}

// Left runs a then b, keeping the output of a.
func Left[I Sliceable[I], A, B any](a Parser[I, A], b Parser[I, B]) Parser[I, A] {
	return Map(Then(a, b), func(p Pair[A, B]) A { return p.First })
}

// Right runs a then b, keeping the output of b.
func Right[I Sliceable[I], A, B any](a Parser[I, A], b Parser[I, B]) Parser[I, B] {
	return Map(Then(a, b), func(p Pair[A, B]) B { return p.Second })
}

// DelimitedBy runs left, p and right in order, keeping the output of p.
func DelimitedBy[I Sliceable[I], L, O, R any](
	left Parser[I, L],
	p Parser[I, O],
	right Parser[I, R],
) Parser[I, O] {
	return Right(left, Left(p, right))
}

// Select tries each parser in order on the same input and returns the first
// success. A committed failure stops the search. When every alternative
// fails, the error of the alternative that progressed furthest is returned,
// preferring later alternatives on ties.
func Select[I Sliceable[I], O any](ps ...Parser[I, O]) Parser[I, O] {
	return func(in I) (O, I, error) {
		var zero O

		at, fail := in, ErrRejected
		for _, p := range ps {
			out, next, err := p(in)
			if err == nil {
				return out, next, nil
			}

			if IsCommitted(err) {
				return zero, next, err
			}

			if next.Len() <= at.Len() {
				at, fail = next, err
			}
		}

		return zero, at, fail
	}
}

// Either holds the output of exactly one of two alternatives.
type Either[L, R any] struct {
	Left    L
	Right   R
	IsRight bool
}

// EitherOr tries l and then r, tagging which one succeeded.
func EitherOr[I Sliceable[I], L, R any](
	l Parser[I, L],
	r Parser[I, R],
) Parser[I, Either[L, R]] {
	return Select(
		Map(l, func(v L) Either[L, R] { return Either[L, R]{Left: v} }),
		Map(r, func(v R) Either[L, R] { return Either[L, R]{Right: v, IsRight: true} }),
	)
}

// Option holds the output of an optional parser.
type Option[O any] struct {
	Value O
	Ok    bool
}

// Maybe runs p, succeeding without consuming input when p fails.
func Maybe[I Sliceable[I], O any](p Parser[I, O]) Parser[I, Option[O]] {
	return func(in I) (Option[O], I, error) {
		out, next, err := p(in)
		if err != nil {
			if IsCommitted(err) {
				return Option[O]{}, next, err
			}

			return Option[O]{}, in, nil
		}

		return Option[O]{Value: out, Ok: true}, next, nil
	}
}

// Not succeeds without consuming input when p fails, and fails with
// [ErrRejected] when p succeeds. A committed failure of p is propagated.
func Not[I Sliceable[I], O any](p Parser[I, O]) Parser[I, struct{}] {
	return func(in I) (struct{}, I, error) {
		_, next, err := p(in)
		if err == nil {
			return struct{}{}, in, ErrRejected
		}

		if IsCommitted(err) {
			return struct{}{}, next, err
		}

		return struct{}{}, in, nil
	}
}

// Fold applies p zero or more times, combining each output into an
// accumulator initialized with init. Repetition stops at the first failure
// or at the first success that consumes nothing.
func Fold[I Sliceable[I], O, A any](
	p Parser[I, O],
	init func() A,
	f func(A, O) A,
) Parser[I, A] {
	return func(in I) (A, I, error) {
		acc := init()

		for {
			out, next, err := p(in)
			if err != nil {
				if IsCommitted(err) {
					var zero A

					return zero, next, err
				}

				return acc, in, nil
			}

			if next.Len() >= in.Len() {
				return acc, in, nil
			}

			acc, in = f(acc, out), next
		}
	}
}

// Collect applies p zero or more times and returns every output in order.
func Collect[I Sliceable[I], O any](p Parser[I, O]) Parser[I, []O] {
	return Fold(p,
		func() []O { return nil },
		func(acc []O, o O) []O { return append(acc, o) },
	)
}

// Repeated applies p zero or more times and returns the consumed sub-input.
// The output is sliced from the input using widths alone, so p's outputs are
// never inspected.
func Repeated[I Sliceable[I], O any](p Parser[I, O]) Parser[I, I] {
	count := Fold(p,
		func() struct{} { return struct{}{} },
		func(s struct{}, _ O) struct{} { return s },
	)

	return Recognize(count)
}

// Some applies p one or more times and returns the consumed sub-input.
func Some[I Sliceable[I], O any](p Parser[I, O]) Parser[I, I] {
	return Recognize(Then(p, Repeated(p)))
}

// Recognize runs p and returns the sub-input it consumed.
func Recognize[I Sliceable[I], O any](p Parser[I, O]) Parser[I, I] {
	return func(in I) (I, I, error) {
		_, next, err := p(in)
		if err != nil {
			var zero I

			return zero, next, err
		}

		return Consumed(in, next), next, nil
	}
}

// Cut commits any failure of p, optionally labeling it with label.
func Cut[I Sliceable[I], O any](p Parser[I, O], label error) Parser[I, O] {
	return func(in I) (O, I, error) {
		out, next, err := p(in)
		if err != nil {
			if label != nil && !IsCommitted(err) {
				err = fmt.Errorf("%w: %w", label, err)
			}

			return out, next, Commit(err)
		}

		return out, next, nil
	}
}

// Declare builds a recursive parser. The function def receives a handle to
// the parser being defined and returns its definition. The handle may be
// captured freely, but running it before def returns fails with
// [ErrUndeclared].
func Declare[I Sliceable[I], O any](
	def func(self Parser[I, O]) Parser[I, O],
) Parser[I, O] {
	var cell Parser[I, O]

	self := func(in I) (O, I, error) {
		if cell == nil {
			var zero O

			return zero, in, ErrUndeclared
		}

		return cell(in)
	}

	cell = def(self)

	return self
}
