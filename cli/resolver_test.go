package cli

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func resolveString(t *testing.T, src string) kong.Resolver {
	t.Helper()

	resolver, err := resolve(context.Background())(strings.NewReader(src))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	return resolver
}

func lookup(t *testing.T, r kong.Resolver, name string) any {
	t.Helper()

	val, err := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: name}})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	return val
}

func TestResolve_Values(t *testing.T) {
	resolver := resolveString(t, `
; flag defaults
(list
  (list "log-level" "debug")
  (list "log-pretty" #f)
  (list "max-depth" 256)
  (list "source" (list "a.lisp" "b.lisp"))
  (list "config" (path "/etc/empl/main.lisp")))
`)

	tests := []struct {
		name string
		want any
	}{
		{"log-level", "debug"},
		{"log-pretty", false},
		{"max-depth", "256"},
		{"config", "/etc/empl/main.lisp"},
		{"missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lookup(t, resolver, tt.name); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	got, ok := lookup(t, resolver, "source").([]any)
	if !ok || !slices.Equal(got, []any{"a.lisp", "b.lisp"}) {
		t.Errorf("expected [a.lisp b.lisp], got %v", lookup(t, resolver, "source"))
	}
}

func TestResolve_Computed(t *testing.T) {
	// The file is evaluated, so pairs may be built by the prelude.
	resolver := resolveString(t, `
(let ((level "warn"))
  (seq-map (lambda (name) (list name level)) (list "log-level")))
`)

	if got := lookup(t, resolver, "log-level"); got != "warn" {
		t.Errorf("expected log-level=warn, got %v", got)
	}
}

func TestResolve_UnderscoreHyphenMapping(t *testing.T) {
	resolver := resolveString(t, `(list (list "log_level" "debug"))`)

	if got := lookup(t, resolver, "log-level"); got != "debug" {
		t.Errorf("expected log-level=debug, got %v", got)
	}
}

func TestResolve_Ignored(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `(list (list "log-level" "debug")`},
		{"unbound", `(nope)`},
		{"not_list", `"log-level"`},
		{"not_pair", `(list (list "log-level"))`},
		{"name_not_string", `(list (list 1 "debug"))`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := resolveString(t, tt.src)

			if got := lookup(t, resolver, "log-level"); got != nil {
				t.Errorf("expected nil value, got %v", got)
			}
		})
	}
}

func TestResolve_ReadError(t *testing.T) {
	resolver, err := resolve(context.Background())(&errorReader{err: errors.New("boom")})
	if err != nil {
		t.Fatalf("expected read errors to be ignored, got %v", err)
	}

	if got := lookup(t, resolver, "log-level"); got != nil {
		t.Errorf("expected nil value, got %v", got)
	}
}

func TestResolve_Kong(t *testing.T) {
	var cli struct {
		Name     string   `default:"none"`
		MaxDepth int      `default:"10"`
		Quiet    bool     `default:"false"`
		Tags     []string `default:""`
	}

	resolver := resolveString(t, `
(list
  (list "name" "from-file")
  (list "max_depth" 64)
  (list "quiet" #t)
  (list "tags" (list "x" "y")))
`)

	parser, err := kong.New(&cli, kong.Resolvers(resolver), kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"--name=flag"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cli.Name != "flag" {
		t.Errorf("expected command line to override file, got %q", cli.Name)
	}

	if cli.MaxDepth != 64 || !cli.Quiet {
		t.Errorf("expected max-depth=64 quiet=true, got %d %t", cli.MaxDepth, cli.Quiet)
	}

	if !slices.Equal(cli.Tags, []string{"x", "y"}) {
		t.Errorf("expected tags [x y], got %v", cli.Tags)
	}
}

// errorReader is a reader that always returns an error.
type errorReader struct {
	err error
}

func (e *errorReader) Read([]byte) (int, error) {
	return 0, e.err
}
