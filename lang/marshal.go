package lang

import "github.com/ardnew/empl/lang/lexer"

// ToNative converts a syntax tree to plain Go values: lists become []any,
// booleans bool, integers int64 and identifiers their name. String literals
// keep their quotes so that they remain distinct from identifiers.
func ToNative(e Expr) any {
	switch e := e.(type) {
	case ListExpr:
		out := make([]any, len(e))
		for i, item := range e {
			out[i] = ToNative(item)
		}

		return out

	case LiteralExpr:
		switch e.Kind {
		case lexer.Bool:
			return e.Bool
		case lexer.Int:
			return int64(e.Int)
		default:
			return e.String()
		}

	case ValueExpr:
		return ValueToNative(e.Value)

	default:
		return nil
	}
}

// ValueToNative converts an evaluated value to plain Go values. Unit
// becomes nil and functions their printed form.
func ValueToNative(v Value) any {
	switch v := v.(type) {
	case Unit:
		return nil
	case Bool:
		return bool(v)
	case Int:
		return int64(v)
	case Path:
		return string(v)
	case String:
		return string(v)
	case *List:
		out := make([]any, 0, v.Len())
		for item := range v.All() {
			out = append(out, ValueToNative(item))
		}

		return out
	default:
		return v.String()
	}
}
