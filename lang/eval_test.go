package lang

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/empl/lang/lexer"
	"github.com/ardnew/empl/lang/parser"
)

func run(t *testing.T, src string, opts ...Option) (Value, error) {
	t.Helper()

	return NewEnvironment(opts...).Run(src)
}

func mustRun(t *testing.T, src string, opts ...Option) Value {
	t.Helper()

	v, err := run(t, src, opts...)
	if err != nil {
		t.Fatalf("eval %q: %v", src, err)
	}

	return v
}

func ints(ns ...int32) *List {
	vals := make([]Value, len(ns))
	for i, n := range ns {
		vals[i] = Int(n)
	}

	return NewList(vals...)
}

func TestRun_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Value
	}{
		{"sum", "(+ 1 2 3)", Int(6)},
		{"if true", "(if #t 1 2)", Int(1)},
		{"if false", "(if #f 1 2)", Int(2)},
		{"if without else", "(if #f 1)", Unit{}},
		{"map constant", "(seq-map (lambda (x) 1) (list 2 2 2))", ints(1, 1, 1)},
		{"filter none", "(seq-filter (lambda (x) #f) (list 1 2 3))", Nil},
		{"let", "(let ((x 1)) (+ x 1))", Int(2)},
		{"literal", `"hi"`, String("hi")},
		{"negative", "-5", Int(-5)},
		{"last form wins", "1 2 3", Int(3)},
		{"empty source", "", Unit{}},
		{"comment only", "; nothing\n", Unit{}},
		{"adjacent forms", "(+ 1(+ 2 3))", Int(6)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustRun(t, tt.src)
			if !Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unbound", "x", ErrNotFound},
		{"empty apply", "()", ErrEmptyApply},
		{"not a function", "(1 2)", ErrNotAFunction},
		{"arity", "(not #t #f)", ErrWrongArity},
		{"if arity", "(if #t)", ErrWrongArity},
		{"type", `(+ 1 "2")`, ErrWrongType},
		{"if condition", "(if 1 2 3)", ErrWrongType},
		{"overflow", "(+ 2147483647 1)", ErrOverflow},
		{"underflow", "(- -2147483648 1)", ErrOverflow},
		{"product", "(* 65536 65536)", ErrOverflow},
		{"divide by zero", "(/ 1 0)", ErrOverflow},
		{"remainder by zero", "(% 1 0)", ErrOverflow},
		{"min over minus one", "(/ -2147483648 -1)", ErrOverflow},
		{"lambda without args", "(lambda)", ErrWrongArity},
		{"lambda params", "(lambda x 1)", ErrNoBindings},
		{"lambda param kind", "(lambda (1) 1)", ErrNonIdentListBinding},
		{"lambda duplicate", "(lambda (a a) a)", ErrMultipleBindings},
		{"lambda body", "(lambda (a))", ErrNoBody},
		{"lambda call arity", "((lambda (a) a) 1 2)", ErrWrongArity},
		{"let without args", "(let)", ErrNoBindings},
		{"let bindings", "(let x 1)", ErrNoBindings},
		{"let empty", "(let () 1)", ErrEmptyListBindings},
		{"let binding", "(let (x) 1)", ErrNonIdentListBinding},
		{"let binding name", "(let ((1 2)) 1)", ErrNonIdentListBinding},
		{"let pair", "(let ((x 1 2)) x)", ErrWrongBindingArity},
		{"let body", "(let ((x 1)))", ErrNoBody},
		{"syntax", "(foo", ErrSyntax},
		{"cons tail", "(cons 1 2)", ErrWrongType},
		{"env", `(env "EMPL_TEST_SURELY_UNSET")`, ErrEnvVar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.src)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRun_ParseErrors(t *testing.T) {
	_, err := run(t, "(foo")
	if !errors.Is(err, parser.ErrEOF) {
		t.Errorf("expected end of input, got %v", err)
	}

	_, err = run(t, ")")

	var mismatch *parser.MatchError[lexer.Lexeme]
	if !errors.As(err, &mismatch) {
		t.Errorf("expected mismatch, got %v", err)
	}
}

func TestWrongType_Attrs(t *testing.T) {
	_, err := run(t, `(not "x")`)

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %T", err)
	}

	if v, _ := e.Attr("expected"); v.String() != "bool" {
		t.Errorf("expected bool, got %v", v)
	}

	if v, _ := e.Attr("actual"); v.String() != "string" {
		t.Errorf("expected string, got %v", v)
	}
}

func TestWrongArity_Attrs(t *testing.T) {
	_, err := run(t, "(cons 1)")

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %T", err)
	}

	if v, _ := e.Attr("arity"); v.String() != "2" {
		t.Errorf("expected arity 2, got %v", v)
	}

	if !strings.Contains(err.Error(), "fn=cons") {
		t.Errorf("expected fn name in %q", err.Error())
	}
}

func TestLambda_Lexical(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Value
	}{
		{"nested lets", `(let ((x 1))
		                   (let ((f (lambda () x)))
		                     (let ((x 2))
		                       (f))))`, Int(1)},
		{"sibling binding", `(let ((x 1) (g (lambda () x)))
		                       (let ((x 2))
		                         (g)))`, Int(1)},
		{"argument shadows", `(let ((x 1) (g (lambda () x)))
		                        ((lambda (x) (g)) 2))`, Int(1)},
		{"closure outlives let", `(let ((mk (lambda (n) (lambda () n))))
		                            (let ((a (mk 1)) (b (mk 2)))
		                              (+ (a) (* 10 (b)))))`, Int(21)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRun(t, tt.src); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestLambda_RecursionThroughLet(t *testing.T) {
	// Counts the nodes of a tree of nested lists.
	src := `(let ((count (lambda (tree)
	                       (seq-fold (lambda (acc sub) (+ acc (count sub))) tree 1))))
	          (count (list (list) (list (list)))))`

	if got := mustRun(t, src); got != Int(4) {
		t.Errorf("expected 4, got %v", got)
	}

	// The recursive binding lives in a let that is itself in tail position.
	src = `(let ((n 3))
	         (let ((sum (lambda (tree)
	                      (seq-fold (lambda (acc sub) (+ acc (sum sub))) tree n))))
	           (sum (list (list)))))`

	if got := mustRun(t, src); got != Int(6) {
		t.Errorf("expected 6, got %v", got)
	}
}

func TestLet_DoesNotLeak(t *testing.T) {
	_, err := run(t, "(progn (let ((x 1)) x) x)")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected let binding to be scoped, got %v", err)
	}

	_, err = run(t, "(let ((x 1)) x) x")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected let binding to be scoped, got %v", err)
	}
}

func TestLet_Sequential(t *testing.T) {
	if got := mustRun(t, "(let ((x 1) (y (+ x 1))) y)"); got != Int(2) {
		t.Errorf("expected 2, got %v", got)
	}
}

func TestLet_Shadow(t *testing.T) {
	if got := mustRun(t, "(let ((x 1)) (let ((x 2)) x))"); got != Int(2) {
		t.Errorf("expected 2, got %v", got)
	}

	if got := mustRun(t, "(let ((x 1)) (progn (let ((x 2)) x) x))"); got != Int(1) {
		t.Errorf("expected 1, got %v", got)
	}
}

func TestShadowSpecialForm(t *testing.T) {
	if got := mustRun(t, "(let ((if (lambda (a b c) c))) (if #t 1 2))"); got != Int(2) {
		t.Errorf("expected 2, got %v", got)
	}
}

func TestTryCatch(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Value
	}{
		{"success", "(try-catch (lambda () 1) (lambda () 2))", Int(1)},
		{"recover", "(try-catch (lambda () (+ 2147483647 1)) (lambda () 2))", Int(2)},
		{"unbound", "(try-catch (lambda () nope) (lambda () #f))", Bool(false)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRun(t, tt.src); !Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	_, err := run(t, "(try-catch (lambda () x) (lambda () y))")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected catch error to propagate, got %v", err)
	}

	_, err = run(t, "(try-catch 1 (lambda () 2))")
	if !errors.Is(err, ErrWrongType) {
		t.Errorf("expected wrong type, got %v", err)
	}
}

func TestMaxDepth(t *testing.T) {
	src := "(let ((f (lambda (n) (+ 1 (f n))))) (f 0))"

	_, err := run(t, src, WithMaxDepth(64))
	if !errors.Is(err, ErrMaxDepthExceeded) {
		t.Errorf("expected max depth, got %v", err)
	}
}

func TestTailPosition_ReusesFrame(t *testing.T) {
	env := NewEnvironment()

	var depths []int

	mark := NewFn("mark", Static(0), func(env *Environment, _ []Expr) (Value, error) {
		depths = append(depths, env.Depth())

		return Unit{}, nil
	})
	env.Define("mark", mark)

	if _, err := env.Run("(progn (mark) (mark))"); err != nil {
		t.Fatal(err)
	}

	// progn pushes one frame; the first mark pushes another, the tail call
	// does not.
	if len(depths) != 2 || depths[0] != 3 || depths[1] != 2 {
		t.Errorf("expected [3 2], got %v", depths)
	}
}

func TestWithSymbols(t *testing.T) {
	v := mustRun(t, "(concat greeting name)", WithSymbols(map[string]Value{
		"greeting": String("hello, "),
		"name":     String("empl"),
	}))
	if v != String("hello, empl") {
		t.Errorf("expected \"hello, empl\", got %v", v)
	}
}

func TestWithFns(t *testing.T) {
	var got []Value

	record := NewFn("record!", RangeFrom(0), func(env *Environment, args []Expr) (Value, error) {
		vals, err := env.EvalAll(args)
		got = append(got, vals...)

		return Unit{}, err
	})

	mustRun(t, `(record! 1 "a") (record! (list))`, WithFns(record))

	if len(got) != 3 || got[0] != Int(1) || got[1] != String("a") || !Equal(got[2], Nil) {
		t.Errorf("expected [1 \"a\" ()], got %v", got)
	}
}

func TestCall(t *testing.T) {
	env := NewEnvironment()

	v, err := env.Run("(lambda (a b) (+ a b))")
	if err != nil {
		t.Fatal(err)
	}

	fn, err := As[*Fn](v)
	if err != nil {
		t.Fatal(err)
	}

	got, err := env.Call(fn, Int(2), Int(3))
	if err != nil {
		t.Fatal(err)
	}

	if got != Int(5) {
		t.Errorf("expected 5, got %v", got)
	}

	if env.Depth() != 1 {
		t.Errorf("expected frames restored, got depth %d", env.Depth())
	}
}

func TestNames(t *testing.T) {
	names := NewEnvironment().Names()

	for _, want := range []string{"+", "if", "lambda", "seq-map", "path-name"} {
		found := false

		for _, n := range names {
			if n == want {
				found = true

				break
			}
		}

		if !found {
			t.Errorf("expected %q in names", want)
		}
	}
}
