package cmd

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/empl/lang"
)

type runner interface {
	Run(ctx context.Context) error
}

func runFmt(t *testing.T, r runner) (string, error) {
	t.Helper()

	out := captureStdout(t)
	err := r.Run(context.Background())

	return out.String(), err
}

func TestFmt(t *testing.T) {
	const input = "(+ 1 2) ; sum\n(list \"a\" #t)"

	tests := []struct {
		name string
		cmd  func(src []string) runner
		want string
	}{
		{
			name: "native",
			cmd:  func(src []string) runner { return &Native{Source: src} },
			want: "(+ 1 2)\n(list \"a\" #t)\n",
		},
		{
			name: "lex",
			cmd:  func(src []string) runner { return &Lex{Source: src} },
			want: "(\n+\n1\n2\n)\n(\nlist\n\"a\"\n#t\n)\n",
		},
		{
			name: "ast",
			cmd:  func(src []string) runner { return &AST{Source: src} },
			want: "list (3)\n  ident +\n  int 1\n  int 2\n" +
				"list (3)\n  ident list\n  string \"a\"\n  bool #t\n",
		},
		{
			name: "json",
			cmd:  func(src []string) runner { return &JSON{Source: src} },
			want: "[[\"+\",1,2],[\"list\",\"\\\"a\\\"\",true]]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := []string{writeFile(t, t.TempDir(), "in.lisp", input)}

			got, err := runFmt(t, tt.cmd(src))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFmt_Indent(t *testing.T) {
	path := writeFile(t, t.TempDir(), "in.lisp", "(let ((x 1)) (+ x 1))")

	got, err := runFmt(t, &Native{Source: []string{path}, Indent: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := "(let\n  ((x 1))\n  (+ x 1))\n"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	got, err = runFmt(t, &YAML{Source: []string{path}, Indent: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, s := range []string{"- let", "- x", "- 1"} {
		if !strings.Contains(got, s) {
			t.Errorf("expected %q in %q", s, got)
		}
	}
}

func TestFmt_Whitespace(t *testing.T) {
	path := writeFile(t, t.TempDir(), "in.lisp", "(a b)")

	got, err := runFmt(t, &Lex{Source: []string{path}, Whitespace: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := "(\na\nwhitespace\nb\n)\n"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFmt_SyntaxError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "in.lisp", "(a b")

	for _, r := range []runner{
		&Native{Source: []string{path}},
		&AST{Source: []string{path}},
		&JSON{Source: []string{path}},
		&YAML{Source: []string{path}},
	} {
		if _, err := runFmt(t, r); !errors.Is(err, lang.ErrSyntax) {
			t.Errorf("%T: expected ErrSyntax, got %v", r, err)
		}
	}

	bad := writeFile(t, t.TempDir(), "bad.lisp", `("open`)
	if _, err := runFmt(t, &Lex{Source: []string{bad}}); !errors.Is(err, lang.ErrSyntax) {
		t.Errorf("expected ErrSyntax from lex, got %v", err)
	}
}

func TestFmt_Kong(t *testing.T) {
	var cli struct {
		Fmt Fmt `cmd:""`
	}

	parser, err := kong.New(&cli)
	if err != nil {
		t.Fatal(err)
	}

	path := writeFile(t, t.TempDir(), "in.lisp", "(x)")

	ktx, err := parser.Parse([]string{"fmt", path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(ktx.Command(), "fmt native") {
		t.Errorf("expected default native command, got %q", ktx.Command())
	}

	if !slices.Equal(cli.Fmt.Native.Source, []string{path}) {
		t.Errorf("expected source %q, got %q", path, cli.Fmt.Native.Source)
	}

	if cli.Fmt.Native.Indent != 2 {
		t.Errorf("expected default indent 2, got %d", cli.Fmt.Native.Indent)
	}
}
