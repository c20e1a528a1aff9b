package lang

import "strconv"

// Arity is the accepted argument count of a function: between Min and Max
// inclusive, where a negative Max means no upper bound.
type Arity struct {
	Min int
	Max int
}

// Static accepts exactly n arguments.
func Static(n int) Arity { return Arity{Min: n, Max: n} }

// RangeFrom accepts n or more arguments.
func RangeFrom(n int) Arity { return Arity{Min: n, Max: -1} }

// Range accepts between lo and hi arguments inclusive.
func Range(lo, hi int) Arity { return Arity{Min: lo, Max: hi} }

// Accepts reports whether n arguments satisfy a.
func (a Arity) Accepts(n int) bool {
	return n >= a.Min && (a.Max < 0 || n <= a.Max)
}

func (a Arity) String() string {
	switch {
	case a.Max < 0:
		return strconv.Itoa(a.Min) + ".."
	case a.Min == a.Max:
		return strconv.Itoa(a.Min)
	default:
		return strconv.Itoa(a.Min) + ".." + strconv.Itoa(a.Max)
	}
}

// Builtin implements a function. It receives its arguments unevaluated and
// decides itself which of them to evaluate, and when.
type Builtin func(env *Environment, args []Expr) (Value, error)

// Fn is a function value: a builtin, a special form, or a closure.
type Fn struct {
	call  Builtin
	name  string
	usage string
	arity Arity
	form  bool
}

// NewFn returns a function named name that accepts arity arguments.
func NewFn(name string, arity Arity, call Builtin) *Fn {
	return &Fn{name: name, arity: arity, call: call}
}

// NewForm returns a special form named name. Unlike [NewFn], the argument
// count is not checked before call runs: a form validates the shape of its
// own arguments, and arity only documents it.
func NewForm(name string, arity Arity, call Builtin) *Fn {
	return &Fn{name: name, arity: arity, call: call, form: true}
}

// WithUsage returns a copy of f documented with a usage line such as
// "(if cond then [else])".
func (f *Fn) WithUsage(usage string) *Fn {
	g := *f
	g.usage = usage

	return &g
}

func (*Fn) Type() Type { return FnType }

func (f *Fn) Name() string { return f.name }

func (f *Fn) Arity() Arity { return f.arity }

func (f *Fn) Usage() string { return f.usage }

func (f *Fn) String() string {
	if f.name == "" {
		return "#<fn>"
	}

	return "#<fn " + f.name + ">"
}
