package lang

import (
	"strconv"

	"github.com/ardnew/empl/lang/lexer"
)

// Type identifies the variant of a [Value].
type Type uint8

const (
	UnitType   Type = iota // unit
	BoolType               // bool
	IntType                // int
	PathType               // path
	StringType             // string
	ListType               // list
	FnType                 // fn
)

var typeNames = [...]string{
	UnitType:   "unit",
	BoolType:   "bool",
	IntType:    "int",
	PathType:   "path",
	StringType: "string",
	ListType:   "list",
	FnType:     "fn",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}

	return "Type(" + strconv.Itoa(int(t)) + ")"
}

// Value is an immutable runtime value. The variants are [Unit], [Bool],
// [Int], [Path], [String], [*List] and [*Fn].
type Value interface {
	Type() Type
	String() string
}

// Unit is the value of forms that produce nothing.
type Unit struct{}

type (
	Bool   bool
	Int    int32
	Path   string
	String string
)

func (Unit) Type() Type   { return UnitType }
func (Bool) Type() Type   { return BoolType }
func (Int) Type() Type    { return IntType }
func (Path) Type() Type   { return PathType }
func (String) Type() Type { return StringType }

func (Unit) String() string { return "()" }

func (b Bool) String() string { return lexer.BoolLiteral(bool(b)).String() }

func (n Int) String() string { return strconv.FormatInt(int64(n), 10) }

func (p Path) String() string { return "(path " + lexer.Quote(string(p)) + ")" }

func (s String) String() string { return lexer.Quote(string(s)) }

// TypeOf returns the type of v, treating a nil interface as [UnitType].
func TypeOf(v Value) Type {
	if v == nil {
		return UnitType
	}

	return v.Type()
}

// As converts v to the concrete variant T, failing with [ErrWrongType].
func As[T Value](v Value) (T, error) {
	t, ok := v.(T)
	if !ok {
		var zero T

		return zero, wrongType(zero.Type(), v)
	}

	return t, nil
}

// Equal reports whether a and b are the same variant with equal payloads.
// Functions are never equal to anything, including themselves.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case *List:
		b, ok := b.(*List)

		return ok && a.Equal(b)
	case *Fn:
		return false
	case nil:
		return b == nil
	default:
		return a == b
	}
}
