package config

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func mustConfig(t *testing.T, src string) *Config {
	t.Helper()

	c, err := mustEval(t, src).Validate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return c
}

func TestQuery(t *testing.T) {
	c := mustConfig(t, minimal+`
(set-cfg! "cursor-colors" (list "black" (list 1 2 3)))
(set-cfg! "selection-colors" (list "none" "cyan"))`)

	tests := []struct {
		query string
		want  any
	}{
		{`len(playlists)`, 1},
		{`playlists[0].name`, "mix"},
		{`cursor-colors.fg`, "black"},
		{`cursor-colors.bg`, "#010203"},
		{`selection-colors.fg`, nil},
		{`key-bindings[0].action`, "quit"},
		{`map(key-bindings, .action)`, []any{"quit"}},
		{`key-bindings[0].keys[0]`, "ctrl+c"},
		{`len(key-bindings) + 1`, 2},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := Query(context.Background(), c, tt.query)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %#v, got %#v", tt.want, got)
			}
		})
	}
}

func TestQuery_Errors(t *testing.T) {
	c := mustConfig(t, minimal)

	for _, q := range []string{`nothing-here`, `playlists[`, `cursor-`} {
		if _, err := Query(context.Background(), c, q); !errors.Is(err, ErrQuery) {
			t.Errorf("%q: expected ErrQuery, got %v", q, err)
		}
	}
}

func TestPreview(t *testing.T) {
	c := mustConfig(t, minimal+`
(set-cfg! "cursor-colors" (list "black" "cyan"))
(set-cfg! "playlists"
  (list (list "mix" (list (list "first" (path "/1")) (list "second" (path "/2"))))))`)

	var buf bytes.Buffer

	if err := Preview(&buf, c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()

	for _, want := range []string{"mix", "first", "second", "quit", "ctrl+c"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in preview:\n%s", want, out)
		}
	}

	if strings.Contains(out, "\x1b[") {
		t.Errorf("expected no escape sequences for a non-terminal writer:\n%s", out)
	}
}
