package lang

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestArithmetic(t *testing.T) {
	tests := []struct {
		src  string
		want Int
	}{
		{"(+ 1 2)", 3},
		{"(- 10 3 2)", 5},
		{"(* 2 3 4)", 24},
		{"(/ 20 2 5)", 2},
		{"(/ -7 2)", -3},
		{"(% 7 3)", 1},
		{"(% -7 3)", -1},
		{"(+ 2147483646 1)", 2147483647},
		{"(- 0 2147483647 1)", -2147483648},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := mustRun(t, tt.src); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestArithmetic_Commutative(t *testing.T) {
	pairs := [][2]int32{{0, 0}, {1, -1}, {7, 35}, {-2147483648, 2147483647}, {123456, -654321}}

	for _, p := range pairs {
		env := NewEnvironment(WithSymbols(map[string]Value{"a": Int(p[0]), "b": Int(p[1])}))

		ab, err := env.Run("(+ a b)")
		if err != nil {
			t.Fatal(err)
		}

		ba, err := env.Run("(+ b a)")
		if err != nil {
			t.Fatal(err)
		}

		if ab != ba {
			t.Errorf("expected %v == %v", ab, ba)
		}
	}
}

func TestArithmetic_LeftFold(t *testing.T) {
	for _, src := range [][2]string{
		{"(+ 1 2 3)", "(+ (+ 1 2) 3)"},
		{"(- 1 2 3)", "(- (- 1 2) 3)"},
		{"(/ 100 7 3)", "(/ (/ 100 7) 3)"},
	} {
		if a, b := mustRun(t, src[0]), mustRun(t, src[1]); a != b {
			t.Errorf("%s: expected %v, got %v", src[0], b, a)
		}
	}

	// Left to right, the intermediate sum overflows.
	if _, err := run(t, "(+ 2147483647 1 -1)"); !errors.Is(err, ErrOverflow) {
		t.Errorf("expected overflow, got %v", err)
	}
}

func TestOverflow_Attrs(t *testing.T) {
	_, err := run(t, "(* 2 1073741824)")

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %v", err)
	}

	if v, _ := e.Attr("op"); v.String() != "*" {
		t.Errorf("expected op *, got %v", v)
	}
}

func TestConcat(t *testing.T) {
	if got := mustRun(t, `(concat "a" "b" "c")`); got != String("abc") {
		t.Errorf("expected \"abc\", got %v", got)
	}

	if _, err := run(t, `(concat "a")`); !errors.Is(err, ErrWrongArity) {
		t.Errorf("expected wrong arity, got %v", err)
	}
}

func TestLists(t *testing.T) {
	tests := []struct {
		src  string
		want *List
	}{
		{"(list)", Nil},
		{"(nil)", Nil},
		{"(nil 1 2)", Nil},
		{"(list 1 2 3)", ints(1, 2, 3)},
		{"(cons 1 (list 2 3))", ints(1, 2, 3)},
		{"(cons 1 (nil))", ints(1)},
		{"(list (+ 1 1))", ints(2)},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := As[*List](mustRun(t, tt.src))
			if err != nil {
				t.Fatal(err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestLists_RoundTrip(t *testing.T) {
	for _, src := range []string{
		"(list 1 2 3)",
		"(cons 1 (cons 2 (nil)))",
		`(list "a" (list #t) (nil))`,
	} {
		l, err := As[*List](mustRun(t, src))
		if err != nil {
			t.Fatal(err)
		}

		args := make([]Expr, 0, l.Len())
		for v := range l.All() {
			args = append(args, ValueExpr{Value: v})
		}

		rebuilt, err := NewEnvironment().Eval(append(ListExpr{Sym("list")}, args...))
		if err != nil {
			t.Fatal(err)
		}

		if !Equal(l, rebuilt) {
			t.Errorf("expected %v, got %v", l, rebuilt)
		}
	}
}

func TestNot(t *testing.T) {
	if got := mustRun(t, "(not #f)"); got != Bool(true) {
		t.Errorf("expected #t, got %v", got)
	}
}

func TestEnv(t *testing.T) {
	t.Setenv("EMPL_TEST_VAR", "value")

	if got := mustRun(t, `(env "EMPL_TEST_VAR")`); got != String("value") {
		t.Errorf("expected \"value\", got %v", got)
	}
}

func TestSeq(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Value
	}{
		{"map", "(seq-map (lambda (x) (* x x)) (list 1 2 3))", ints(1, 4, 9)},
		{"map empty", "(seq-map (lambda (x) x) (list))", Nil},
		{"filter", "(seq-filter (lambda (x) (not (+ 0 0))) (list))", Nil},
		{"filter keep", "(seq-filter (lambda (x) #t) (list 1 2))", ints(1, 2)},
		{"find", `(seq-find (lambda (x) #t) (list 4 5))`, Int(4)},
		{"find none", `(seq-find (lambda (x) #f) (list 4 5))`, Unit{}},
		{"flat-map", "(seq-flat-map (lambda (x) (list x x)) (list 1 2))", ints(1, 1, 2, 2)},
		{"fold", "(seq-fold (lambda (acc x) (- acc x)) (list 1 2 3) 10)", Int(4)},
		{"fold order", "(seq-fold (lambda (acc x) (cons x acc)) (list 1 2 3) (list))", ints(3, 2, 1)},
		{"rev", "(seq-rev (list 1 2 3))", ints(3, 2, 1)},
		{"rev empty", "(seq-rev (list))", Nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRun(t, tt.src); !Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSeq_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"map fn", "(seq-map 1 (list))", ErrWrongType},
		{"map list", "(seq-map (lambda (x) x) 1)", ErrWrongType},
		{"filter bool", "(seq-filter (lambda (x) x) (list 1))", ErrWrongType},
		{"find bool", "(seq-find (lambda (x) x) (list 1))", ErrWrongType},
		{"flat-map list", "(seq-flat-map (lambda (x) x) (list 1))", ErrWrongType},
		{"fold arity", "(seq-fold (lambda (x) x) (list 1) 0)", ErrWrongArity},
		{"rev list", "(seq-rev 1)", ErrWrongType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.src); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

// seq-filter checks every predicate result before producing output, so a bad
// result after a good one still fails.
func TestSeqFilter_ChecksAll(t *testing.T) {
	src := `(seq-filter (lambda (x) x) (list #t 1))`
	if _, err := run(t, src); !errors.Is(err, ErrWrongType) {
		t.Errorf("expected wrong type, got %v", err)
	}
}

func TestSeq_Properties(t *testing.T) {
	lists := []*List{Nil, ints(1), ints(1, 2, 3), ints(5, -1, 5, 0, 9)}

	for _, l := range lists {
		env := NewEnvironment(WithSymbols(map[string]Value{"l": l}))

		mapped, err := env.Run("(seq-map (lambda (x) (+ x 1)) l)")
		if err != nil {
			t.Fatal(err)
		}

		if n := mapped.(*List).Len(); n != l.Len() {
			t.Errorf("map: expected length %d, got %d", l.Len(), n)
		}

		rev, err := env.Run("(seq-rev (seq-rev l))")
		if err != nil {
			t.Fatal(err)
		}

		if !Equal(rev, l) {
			t.Errorf("rev: expected %v, got %v", l, rev)
		}

		filtered, err := env.Run("(seq-filter (lambda (x) (try-catch (lambda () (+ x 2147483643) #t) (lambda () #f))) l)")
		if err != nil {
			t.Fatal(err)
		}

		if !subsequence(filtered.(*List).Slice(), l.Slice()) {
			t.Errorf("filter: %v is not a subsequence of %v", filtered, l)
		}
	}
}

func subsequence(sub, of []Value) bool {
	i := 0
	for _, v := range of {
		if i < len(sub) && Equal(sub[i], v) {
			i++
		}
	}

	return i == len(sub)
}

func TestPath(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "b.mp3"), nil, 0o600); err != nil {
		t.Fatal(err)
	}

	if err := os.Mkdir(filepath.Join(dir, "a"), 0o700); err != nil {
		t.Fatal(err)
	}

	file := filepath.Join(dir, "b.mp3")
	syms := map[string]Value{
		"dir":  String(dir),
		"file": String(file),
		"none": String(filepath.Join(dir, "none")),
	}

	tests := []struct {
		name string
		src  string
		want Value
	}{
		{"path", "(path dir)", Path(dir)},
		{"exists", "(path-exists (path dir) (path file))", Bool(true)},
		{"exists missing", "(path-exists (path dir) (path none))", Bool(false)},
		{"is-dir", "(path-is-dir (path dir))", Bool(true)},
		{"is-dir file", "(path-is-dir (path file))", Bool(false)},
		{"is-file", "(path-is-file (path file))", Bool(true)},
		{"is-file dir", "(path-is-file (path dir) (path file))", Bool(false)},
		{"name", "(path-name (path file))", String("b.mp3")},
		{"name root", `(path-name (path "/"))`, Unit{}},
		{"name empty", `(path-name (path ""))`, Unit{}},
		{"separator", "(path-separator)", String(filepath.Separator)},
		{
			"children", "(path-children (path dir))",
			NewList(Path(filepath.Join(dir, "a")), Path(file)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRun(t, tt.src, WithSymbols(syms)); !Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPathChildren_Error(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	_, err := run(t, "(path-children (path p))", WithSymbols(map[string]Value{"p": String(missing)}))
	if !errors.Is(err, ErrReadPath) {
		t.Fatalf("expected read error, got %v", err)
	}

	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected cause to be preserved, got %v", err)
	}

	if !strings.Contains(err.Error(), missing) {
		t.Errorf("expected path in %q", err.Error())
	}
}

func TestPath_Errors(t *testing.T) {
	for _, src := range []string{
		"(path 1)",
		`(path-exists "a")`,
		`(path-name "a")`,
		`(path-children "a")`,
	} {
		if _, err := run(t, src); !errors.Is(err, ErrWrongType) {
			t.Errorf("%s: expected wrong type, got %v", src, err)
		}
	}
}

func TestPathListPrefix(t *testing.T) {
	sep := string(os.PathListSeparator)
	syms := map[string]Value{"subject": String("/usr/bin" + sep + "/bin")}

	v := mustRun(t, `(path-list-prefix subject "/opt/bin")`, WithSymbols(syms))

	items := strings.Split(string(v.(String)), sep)
	if len(items) == 0 || items[0] != "/opt/bin" {
		t.Errorf("expected /opt/bin first, got %v", items)
	}

	if !slices.Contains(items, "/usr/bin") || !slices.Contains(items, "/bin") {
		t.Errorf("expected subject items kept, got %v", items)
	}
}

func TestPathListPrefixIf(t *testing.T) {
	dir := t.TempDir()
	sep := string(os.PathListSeparator)
	syms := map[string]Value{
		"subject": String(dir),
		"missing": String(filepath.Join(dir, "missing")),
	}

	v := mustRun(t,
		`(path-list-prefix-if (lambda (p) (path-is-dir (path p))) subject missing)`,
		WithSymbols(syms))

	items := strings.Split(string(v.(String)), sep)
	if slices.Contains(items, filepath.Join(dir, "missing")) {
		t.Errorf("expected missing directory filtered, got %v", items)
	}

	_, err := run(t, `(path-list-prefix-if (lambda (p) p) "a" "b")`)
	if !errors.Is(err, ErrWrongType) {
		t.Errorf("expected wrong type from predicate, got %v", err)
	}
}

func TestPrelude_Usage(t *testing.T) {
	for _, fn := range Prelude() {
		if !strings.HasPrefix(fn.Usage(), "("+fn.Name()) {
			t.Errorf("%s: usage %q does not start with its name", fn.Name(), fn.Usage())
		}
	}
}
