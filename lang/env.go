package lang

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/ardnew/empl/lang/lexer"
	"github.com/ardnew/empl/log"
)

// DefaultMaxDepth is the default limit of nested function applications.
const DefaultMaxDepth = 10000

// Frame is one scope of an [Environment].
type Frame map[string]Value

// Environment is a stack of frames. The base frame holds the prelude and any
// host symbols; lookup proceeds from the innermost frame outward.
//
// An Environment is not safe for concurrent use.
type Environment struct {
	log      log.Logger
	frames   []Frame
	depth    int
	maxDepth int
}

// Option configures an [Environment].
type Option func(*Environment)

// WithSymbols binds each entry of syms in the base frame, replacing any
// prelude binding of the same name.
func WithSymbols(syms map[string]Value) Option {
	return func(env *Environment) { maps.Copy(env.frames[0], syms) }
}

// WithFns binds each function in the base frame under its own name.
func WithFns(fns ...*Fn) Option {
	return func(env *Environment) {
		for _, fn := range fns {
			env.frames[0][fn.Name()] = fn
		}
	}
}

// WithLogger traces every function application to logger.
func WithLogger(logger log.Logger) Option {
	return func(env *Environment) { env.log = logger }
}

// WithMaxDepth limits nested function applications to n.
func WithMaxDepth(n int) Option {
	return func(env *Environment) { env.maxDepth = n }
}

// NewEnvironment returns an environment whose base frame holds the prelude.
func NewEnvironment(opts ...Option) *Environment {
	env := &Environment{
		frames:   []Frame{prelude()},
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(env)
	}

	return env
}

// Get looks up name from the innermost frame outward.
func (env *Environment) Get(name string) (Value, error) {
	for _, f := range slices.Backward(env.frames) {
		if v, ok := f[name]; ok {
			return v, nil
		}
	}

	return nil, ErrNotFound.With(slog.String("name", name))
}

// Define binds name in the base frame.
func (env *Environment) Define(name string, v Value) {
	env.frames[0][name] = v
}

// Names returns every visible identifier in sorted order.
func (env *Environment) Names() []string {
	seen := make(map[string]struct{})
	for _, f := range env.frames {
		for name := range f {
			seen[name] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}

// Depth returns the number of frames.
func (env *Environment) Depth() int { return len(env.frames) }

// Eval evaluates e. Applying a function pushes a frame for the duration of
// the call.
func (env *Environment) Eval(e Expr) (Value, error) {
	return env.eval(e, false)
}

// EvalTail evaluates e in tail position: a function application reuses the
// innermost frame instead of pushing a new one.
func (env *Environment) EvalTail(e Expr) (Value, error) {
	return env.eval(e, true)
}

// EvalAll evaluates each expression in order.
func (env *Environment) EvalAll(exprs []Expr) ([]Value, error) {
	vals := make([]Value, len(exprs))

	for i, e := range exprs {
		v, err := env.Eval(e)
		if err != nil {
			return nil, err
		}

		vals[i] = v
	}

	return vals, nil
}

// EvalAs evaluates e and converts the result to T.
func EvalAs[T Value](env *Environment, e Expr) (T, error) {
	v, err := env.Eval(e)
	if err != nil {
		var zero T

		return zero, err
	}

	return As[T](v)
}

// EvalAllAs evaluates every expression, then checks that each result is
// a T. No result is returned unless all of them are.
func EvalAllAs[T Value](env *Environment, exprs []Expr) ([]T, error) {
	vals, err := env.EvalAll(exprs)
	if err != nil {
		return nil, err
	}

	ts := make([]T, len(vals))

	for i, v := range vals {
		if ts[i], err = As[T](v); err != nil {
			return nil, err
		}
	}

	return ts, nil
}

// Run parses every top-level form of src and evaluates them in order,
// returning the value of the last one.
func (env *Environment) Run(src string) (Value, error) {
	forms, err := ParseForms(src)
	if err != nil {
		return nil, err
	}

	var v Value = Unit{}

	for _, form := range forms {
		if v, err = env.Eval(form); err != nil {
			return nil, err
		}
	}

	return v, nil
}

// Call applies fn to already evaluated arguments.
func (env *Environment) Call(fn *Fn, args ...Value) (Value, error) {
	exprs := make([]Expr, len(args))
	for i, a := range args {
		exprs[i] = ValueExpr{Value: a}
	}

	return env.apply(fn, exprs, false)
}

func (env *Environment) eval(e Expr, tail bool) (Value, error) {
	switch e := e.(type) {
	case ValueExpr:
		return e.Value, nil

	case LiteralExpr:
		switch e.Kind {
		case lexer.Bool:
			return Bool(e.Bool), nil
		case lexer.Int:
			return Int(e.Int), nil
		case lexer.String:
			return String(e.Text), nil
		default:
			return env.Get(e.Text)
		}

	case ListExpr:
		if len(e) == 0 {
			return nil, ErrEmptyApply
		}

		head, err := env.Eval(e[0])
		if err != nil {
			return nil, err
		}

		fn, ok := head.(*Fn)
		if !ok {
			return nil, ErrNotAFunction.With(
				slog.String("head", e[0].String()),
				slog.String("actual", TypeOf(head).String()),
			)
		}

		return env.apply(fn, e[1:], tail)

	default:
		return nil, ErrSyntax
	}
}

func (env *Environment) apply(fn *Fn, args []Expr, tail bool) (Value, error) {
	if !fn.form && !fn.arity.Accepts(len(args)) {
		return nil, wrongArity(fn.name, fn.arity, len(args))
	}

	if env.depth >= env.maxDepth {
		return nil, ErrMaxDepthExceeded.With(slog.Int("max", env.maxDepth))
	}

	env.depth++
	defer func() { env.depth-- }()

	if !tail {
		env.frames = append(env.frames, Frame{})
		defer func(n int) { env.frames = env.frames[:n] }(len(env.frames) - 1)
	}

	env.log.Trace("apply",
		slog.String("fn", fn.name),
		slog.Int("args", len(args)),
		slog.Int("depth", env.depth),
		slog.Bool("tail", tail),
	)

	return fn.call(env, args)
}

// progn evaluates all but the last form for effect and the last in tail
// position.
func (env *Environment) progn(body []Expr) (Value, error) {
	if len(body) == 0 {
		return nil, ErrNoBody
	}

	for _, e := range body[:len(body)-1] {
		if _, err := env.Eval(e); err != nil {
			return nil, err
		}
	}

	return env.EvalTail(body[len(body)-1])
}

// within runs f with the frame stack replaced by frames, restoring the
// current stack afterward.
func (env *Environment) within(frames []Frame, f func() (Value, error)) (Value, error) {
	saved := env.frames
	env.frames = frames

	defer func() { env.frames = saved }()

	return f()
}
