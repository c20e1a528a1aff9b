package lang

import (
	"iter"
	"strings"
)

// List is an immutable singly-linked list. The nil *List is the empty list.
// Tails are shared, never copied.
type List struct {
	head Value
	tail *List
	len  int
}

// Nil is the empty list.
var Nil *List

// Cons returns a list with head prepended to tail.
func Cons(head Value, tail *List) *List {
	return &List{head: head, tail: tail, len: tail.Len() + 1}
}

// NewList returns a list of vals in order.
func NewList(vals ...Value) *List {
	var l *List
	for i := len(vals) - 1; i >= 0; i-- {
		l = Cons(vals[i], l)
	}

	return l
}

// Collect returns a list of the values of seq in order.
func Collect(seq iter.Seq[Value]) *List {
	var vals []Value
	for v := range seq {
		vals = append(vals, v)
	}

	return NewList(vals...)
}

func (*List) Type() Type { return ListType }

func (l *List) Len() int {
	if l == nil {
		return 0
	}

	return l.len
}

func (l *List) Empty() bool { return l == nil }

// Head returns the first element, or nil if l is empty.
func (l *List) Head() Value {
	if l == nil {
		return nil
	}

	return l.head
}

// Tail returns l without its first element.
func (l *List) Tail() *List {
	if l == nil {
		return nil
	}

	return l.tail
}

// All iterates the elements of l in order.
func (l *List) All() iter.Seq[Value] {
	return func(yield func(Value) bool) {
		for ; l != nil; l = l.tail {
			if !yield(l.head) {
				return
			}
		}
	}
}

// Slice returns the elements of l in a new slice.
func (l *List) Slice() []Value {
	vals := make([]Value, 0, l.Len())
	for v := range l.All() {
		vals = append(vals, v)
	}

	return vals
}

// Reverse returns the elements of l in reverse order.
func (l *List) Reverse() *List {
	var r *List
	for v := range l.All() {
		r = Cons(v, r)
	}

	return r
}

// Equal reports whether l and m have pairwise [Equal] elements.
func (l *List) Equal(m *List) bool {
	if l.Len() != m.Len() {
		return false
	}

	for ; l != nil; l, m = l.tail, m.tail {
		if !Equal(l.head, m.head) {
			return false
		}
	}

	return true
}

func (l *List) String() string {
	var sb strings.Builder

	sb.WriteByte('(')

	for v := range l.All() {
		if sb.Len() > 1 {
			sb.WriteByte(' ')
		}

		sb.WriteString(v.String())
	}

	sb.WriteByte(')')

	return sb.String()
}
