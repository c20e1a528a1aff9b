package lang

import (
	"log/slog"
	"math"
	"os"
	"strings"
)

// builtins is the prelude, installed in the base frame of every environment.
var builtins = []*Fn{
	NewForm("if", Range(2, 3), formIf).WithUsage("(if cond then [else])"),
	NewForm("lambda", RangeFrom(2), formLambda).WithUsage("(lambda (param...) body...)"),
	NewForm("let", RangeFrom(2), formLet).WithUsage("(let ((name value)...) body...)"),
	NewForm("progn", RangeFrom(1), formProgn).WithUsage("(progn form...)"),
	NewForm("try-catch", Static(2), formTryCatch).WithUsage("(try-catch try-fn catch-fn)"),

	arith("+", checkedAdd).WithUsage("(+ int int...)"),
	arith("-", checkedSub).WithUsage("(- int int...)"),
	arith("*", checkedMul).WithUsage("(* int int...)"),
	arith("/", checkedDiv).WithUsage("(/ int int...)"),
	arith("%", checkedRem).WithUsage("(% int int...)"),

	NewFn("concat", RangeFrom(2), builtinConcat).WithUsage("(concat string string...)"),
	NewFn("cons", Static(2), builtinCons).WithUsage("(cons value list)"),
	NewFn("list", RangeFrom(0), builtinList).WithUsage("(list value...)"),
	NewForm("nil", RangeFrom(0), builtinNil).WithUsage("(nil)"),
	NewFn("not", Static(1), builtinNot).WithUsage("(not bool)"),
	NewFn("env", Static(1), builtinEnv).WithUsage("(env name)"),

	NewFn("seq-map", Static(2), seqMap).WithUsage("(seq-map fn list)"),
	NewFn("seq-filter", Static(2), seqFilter).WithUsage("(seq-filter fn list)"),
	NewFn("seq-find", Static(2), seqFind).WithUsage("(seq-find fn list)"),
	NewFn("seq-flat-map", Static(2), seqFlatMap).WithUsage("(seq-flat-map fn list)"),
	NewFn("seq-fold", Static(3), seqFold).WithUsage("(seq-fold fn list init)"),
	NewFn("seq-rev", Static(1), seqRev).WithUsage("(seq-rev list)"),

	NewFn("path", Static(1), builtinPath).WithUsage("(path string)"),
	NewFn("path-children", Static(1), pathChildren).WithUsage("(path-children path)"),
	NewFn("path-exists", RangeFrom(1), pathExists).WithUsage("(path-exists path...)"),
	NewFn("path-is-dir", RangeFrom(1), pathIsDir).WithUsage("(path-is-dir path...)"),
	NewFn("path-is-file", RangeFrom(1), pathIsFile).WithUsage("(path-is-file path...)"),
	NewFn("path-name", Static(1), pathName).WithUsage("(path-name path)"),
	NewFn("path-separator", Static(0), pathSeparator).WithUsage("(path-separator)"),
	NewFn("path-list-prefix", RangeFrom(1), pathListPrefix).
		WithUsage("(path-list-prefix path-list item...)"),
	NewFn("path-list-prefix-if", RangeFrom(2), pathListPrefixIf).
		WithUsage("(path-list-prefix-if fn path-list item...)"),
}

func prelude() Frame {
	f := make(Frame, len(builtins))
	for _, fn := range builtins {
		f[fn.name] = fn
	}

	return f
}

// Prelude returns the builtin functions and special forms.
func Prelude() []*Fn {
	fns := make([]*Fn, len(builtins))
	copy(fns, builtins)

	return fns
}

func arith(name string, op func(a, b int32) (int32, bool)) *Fn {
	return NewFn(name, RangeFrom(2), func(env *Environment, args []Expr) (Value, error) {
		ns, err := EvalAllAs[Int](env, args)
		if err != nil {
			return nil, err
		}

		acc := int32(ns[0])

		for _, n := range ns[1:] {
			r, ok := op(acc, int32(n))
			if !ok {
				return nil, ErrOverflow.With(
					slog.String("op", name),
					slog.Int("lhs", int(acc)),
					slog.Int("rhs", int(n)),
				)
			}

			acc = r
		}

		return Int(acc), nil
	})
}

func fits(n int64) (int32, bool) {
	return int32(n), n >= math.MinInt32 && n <= math.MaxInt32
}

func checkedAdd(a, b int32) (int32, bool) { return fits(int64(a) + int64(b)) }

func checkedSub(a, b int32) (int32, bool) { return fits(int64(a) - int64(b)) }

func checkedMul(a, b int32) (int32, bool) { return fits(int64(a) * int64(b)) }

func checkedDiv(a, b int32) (int32, bool) {
	if b == 0 || (a == math.MinInt32 && b == -1) {
		return 0, false
	}

	return a / b, true
}

func checkedRem(a, b int32) (int32, bool) {
	if b == 0 || (a == math.MinInt32 && b == -1) {
		return 0, false
	}

	return a % b, true
}

func builtinConcat(env *Environment, args []Expr) (Value, error) {
	ss, err := EvalAllAs[String](env, args)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	for _, s := range ss {
		sb.WriteString(string(s))
	}

	return String(sb.String()), nil
}

func builtinCons(env *Environment, args []Expr) (Value, error) {
	head, err := env.Eval(args[0])
	if err != nil {
		return nil, err
	}

	tail, err := EvalAs[*List](env, args[1])
	if err != nil {
		return nil, err
	}

	return Cons(head, tail), nil
}

func builtinList(env *Environment, args []Expr) (Value, error) {
	vals, err := env.EvalAll(args)
	if err != nil {
		return nil, err
	}

	return NewList(vals...), nil
}

func builtinNil(*Environment, []Expr) (Value, error) { return Nil, nil }

func builtinNot(env *Environment, args []Expr) (Value, error) {
	b, err := EvalAs[Bool](env, args[0])
	if err != nil {
		return nil, err
	}

	return !b, nil
}

func builtinEnv(env *Environment, args []Expr) (Value, error) {
	name, err := EvalAs[String](env, args[0])
	if err != nil {
		return nil, err
	}

	v, ok := os.LookupEnv(string(name))
	if !ok {
		return nil, ErrEnvVar.With(slog.String("name", string(name)))
	}

	return String(v), nil
}
