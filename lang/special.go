package lang

import (
	"log/slog"
	"slices"
)

func formIf(env *Environment, args []Expr) (Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, wrongArity("if", Range(2, 3), len(args))
	}

	cond, err := EvalAs[Bool](env, args[0])
	if err != nil {
		return nil, err
	}

	switch {
	case bool(cond):
		return env.EvalTail(args[1])
	case len(args) == 3:
		return env.EvalTail(args[2])
	default:
		return Unit{}, nil
	}
}

// formLambda builds a closure over the frames visible where it is
// evaluated. Frames are captured by reference, so a binding added later to
// the frame of the enclosing let (such as the function itself) is visible to
// the closure.
func formLambda(env *Environment, args []Expr) (Value, error) {
	if len(args) == 0 {
		return nil, wrongArity("lambda", RangeFrom(2), 0)
	}

	params, ok := args[0].(ListExpr)
	if !ok {
		return nil, ErrNoBindings.With(slog.String("found", args[0].String()))
	}

	names := make([]string, len(params))

	for i, p := range params {
		name, ok := Ident(p)
		if !ok {
			return nil, ErrNonIdentListBinding.With(slog.String("found", p.String()))
		}

		if slices.Contains(names[:i], name) {
			return nil, ErrMultipleBindings.With(slog.String("name", name))
		}

		names[i] = name
	}

	body := args[1:]
	if len(body) == 0 {
		return nil, ErrNoBody
	}

	captured := slices.Clip(slices.Clone(env.frames))

	return NewFn("lambda", Static(len(names)), func(env *Environment, args []Expr) (Value, error) {
		vals, err := env.EvalAll(args)
		if err != nil {
			return nil, err
		}

		scope := make(Frame, len(names))
		for i, name := range names {
			scope[name] = vals[i]
		}

		return env.within(append(captured, scope), func() (Value, error) {
			return env.progn(body)
		})
	}), nil
}

// formLet binds into a fresh frame, even in tail position, so a let never
// writes into a frame captured by an enclosing closure. Bindings are added
// to the frame as they are evaluated, which lets a lambda bound there refer
// to itself.
func formLet(env *Environment, args []Expr) (Value, error) {
	if len(args) == 0 {
		return nil, ErrNoBindings
	}

	bindings, ok := args[0].(ListExpr)
	if !ok {
		return nil, ErrNoBindings.With(slog.String("found", args[0].String()))
	}

	if len(bindings) == 0 {
		return nil, ErrEmptyListBindings
	}

	scope := make(Frame, len(bindings))

	return env.within(append(slices.Clip(env.frames), scope), func() (Value, error) {
		for _, b := range bindings {
			pair, ok := b.(ListExpr)
			if !ok {
				return nil, ErrNonIdentListBinding.With(slog.String("found", b.String()))
			}

			if len(pair) != 2 {
				return nil, ErrWrongBindingArity.With(
					slog.String("arity", Static(2).String()),
					slog.Int("actual", len(pair)),
				)
			}

			name, ok := Ident(pair[0])
			if !ok {
				return nil, ErrNonIdentListBinding.With(slog.String("found", pair[0].String()))
			}

			v, err := env.Eval(pair[1])
			if err != nil {
				return nil, err
			}

			scope[name] = v
		}

		return env.progn(args[1:])
	})
}

func formProgn(env *Environment, args []Expr) (Value, error) {
	return env.progn(args)
}

func formTryCatch(env *Environment, args []Expr) (Value, error) {
	if len(args) != 2 {
		return nil, wrongArity("try-catch", Static(2), len(args))
	}

	fns, err := EvalAllAs[*Fn](env, args)
	if err != nil {
		return nil, err
	}

	v, err := env.Call(fns[0])
	if err != nil {
		env.log.Debug("try-catch recovered", slog.Any("error", err))

		return env.Call(fns[1])
	}

	return v, nil
}
