package repl

import (
	"errors"
	"slices"
	"testing"

	"github.com/ardnew/empl/config"
	"github.com/ardnew/empl/lang"
)

func TestParseStage(t *testing.T) {
	for _, name := range Stages() {
		s, err := ParseStage(name)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if s.String() != name {
			t.Errorf("expected %q, got %q", name, s.String())
		}
	}

	if _, err := ParseStage("compile"); !errors.Is(err, ErrUnknownStage) {
		t.Errorf("expected ErrUnknownStage, got %v", err)
	}

	var s Stage
	if err := s.UnmarshalText([]byte("PARSE")); err != nil || s != StageParse {
		t.Errorf("expected parse, got %v (%v)", s, err)
	}
}

func TestSession_Stages(t *testing.T) {
	tests := []struct {
		stage Stage
		input string
		want  []string
	}{
		{StageLex, `(concat "a" b) ; c`, []string{`( concat "a" b )`}},
		{StageParse, "(+  1\t2) (not #t)", []string{"(+ 1 2)", "(not #t)"}},
		{StageEval, "(+ 1 2) (not #t)", []string{"3", "#f"}},
	}

	for _, tt := range tests {
		t.Run(tt.stage.String(), func(t *testing.T) {
			s := newSession(tt.stage)

			got, err := s.exec(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !slices.Equal(got, tt.want) {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSession_Persists(t *testing.T) {
	s := newSession(StageEval)

	if _, err := s.exec("(let ((x 1)) x)"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := s.exec(`(set-cfg! "cursor-colors" (list "red" "none"))`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.cfg.CursorColors.Fg == nil || s.cfg.CursorColors.Fg.Name != "red" {
		t.Errorf("expected red cursor foreground, got %v", s.cfg.CursorColors.Fg)
	}

	out, err := s.exec("(+ 1 2) (undefined)")
	if !errors.Is(err, lang.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if !slices.Equal(out, []string{"3"}) {
		t.Errorf("expected output before the failure, got %q", out)
	}

	if len(s.transcript) != 2 {
		t.Errorf("expected 2 transcript entries, got %d", len(s.transcript))
	}
}

func TestSession_Replay(t *testing.T) {
	s := newSession(StageEval)

	if _, err := s.exec(`(set-cfg! "cursor-colors" (list "red" "none"))`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	src := s.source()

	next, out, err := s.replay(src + "(+ 2 2)\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !slices.Equal(out, []string{"()", "4"}) {
		t.Errorf("expected [() 4], got %q", out)
	}

	if next == s || next.cfg == s.cfg {
		t.Error("expected a fresh session")
	}

	if next.cfg.CursorColors.Fg == nil {
		t.Error("expected replayed configuration")
	}

	if _, _, err := s.replay("(+ 1"); !errors.Is(err, lang.ErrSyntax) {
		t.Errorf("expected ErrSyntax, got %v", err)
	}

	empty, out, err := s.replay("  \n")
	if err != nil || out != nil || len(empty.transcript) != 0 {
		t.Errorf("expected an empty session, got %q %v", out, err)
	}
}

func TestSession_Reset(t *testing.T) {
	s := newSession(StageEval)
	cfg := s.cfg

	if _, err := s.exec(`(set-cfg! "menu-colors" (list "blue" "none"))`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.reset()

	if s.cfg == cfg || s.cfg.MenuColors != (config.Colors{}) {
		t.Errorf("expected cleared configuration, got %+v", s.cfg.MenuColors)
	}

	if s.source() != "" {
		t.Errorf("expected empty source, got %q", s.source())
	}
}

func TestSession_Bindings(t *testing.T) {
	s := newSession(StageEval, lang.WithSymbols(map[string]lang.Value{
		"long": lang.String(string(make([]byte, 100))),
	}))

	bs := s.bindings()

	i := slices.IndexFunc(bs, func(b binding) bool { return b.name == "if" })
	if i < 0 || bs[i].preview != "(if cond then [else])" {
		t.Errorf("expected usage preview for if, got %+v", bs)
	}

	i = slices.IndexFunc(bs, func(b binding) bool { return b.name == "long" })
	if i < 0 || len(bs[i].preview) != previewWidth {
		t.Errorf("expected truncated preview, got %+v", bs[i])
	}
}
