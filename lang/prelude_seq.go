package lang

func seqArgs(env *Environment, args []Expr) (*Fn, *List, error) {
	fn, err := EvalAs[*Fn](env, args[0])
	if err != nil {
		return nil, nil, err
	}

	l, err := EvalAs[*List](env, args[1])
	if err != nil {
		return nil, nil, err
	}

	return fn, l, nil
}

func seqMap(env *Environment, args []Expr) (Value, error) {
	fn, l, err := seqArgs(env, args)
	if err != nil {
		return nil, err
	}

	out := make([]Value, 0, l.Len())

	for v := range l.All() {
		r, err := env.Call(fn, v)
		if err != nil {
			return nil, err
		}

		out = append(out, r)
	}

	return NewList(out...), nil
}

// seqFilter applies the predicate to every element before building the
// result, so a type error in any predicate result fails the whole call.
func seqFilter(env *Environment, args []Expr) (Value, error) {
	fn, l, err := seqArgs(env, args)
	if err != nil {
		return nil, err
	}

	keep := make([]Bool, 0, l.Len())

	for v := range l.All() {
		r, err := env.Call(fn, v)
		if err != nil {
			return nil, err
		}

		b, err := As[Bool](r)
		if err != nil {
			return nil, err
		}

		keep = append(keep, b)
	}

	var out []Value

	i := 0
	for v := range l.All() {
		if keep[i] {
			out = append(out, v)
		}
		i++
	}

	return NewList(out...), nil
}

func seqFind(env *Environment, args []Expr) (Value, error) {
	fn, l, err := seqArgs(env, args)
	if err != nil {
		return nil, err
	}

	for v := range l.All() {
		b, err := callAs[Bool](env, fn, v)
		if err != nil {
			return nil, err
		}

		if b {
			return v, nil
		}
	}

	return Unit{}, nil
}

func seqFlatMap(env *Environment, args []Expr) (Value, error) {
	fn, l, err := seqArgs(env, args)
	if err != nil {
		return nil, err
	}

	var out []Value

	for v := range l.All() {
		sub, err := callAs[*List](env, fn, v)
		if err != nil {
			return nil, err
		}

		out = append(out, sub.Slice()...)
	}

	return NewList(out...), nil
}

func seqFold(env *Environment, args []Expr) (Value, error) {
	fn, l, err := seqArgs(env, args)
	if err != nil {
		return nil, err
	}

	acc, err := env.Eval(args[2])
	if err != nil {
		return nil, err
	}

	for v := range l.All() {
		if acc, err = env.Call(fn, acc, v); err != nil {
			return nil, err
		}
	}

	return acc, nil
}

func seqRev(env *Environment, args []Expr) (Value, error) {
	l, err := EvalAs[*List](env, args[0])
	if err != nil {
		return nil, err
	}

	return l.Reverse(), nil
}

func callAs[T Value](env *Environment, fn *Fn, args ...Value) (T, error) {
	v, err := env.Call(fn, args...)
	if err != nil {
		var zero T

		return zero, err
	}

	return As[T](v)
}
