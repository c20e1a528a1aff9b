package repl

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/empl/log"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"after_paren", "(seq-ma", 7, "seq-ma", 1, 7},
		{"after_space", "(+ 1 fo", 7, "fo", 5, 7},
		{"bang", "(set-cfg", 8, "set-cfg", 1, 8},
		{"bang_full", "(set-cfg!", 9, "set-cfg!", 1, 9},
		{"empty_at_boundary", "(+ ", 3, "", 3, 3},
		{"empty_after_paren", "(", 1, "", 1, 1},
		{"mid_word", "(foobar)", 4, "foobar", 1, 7},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"before_close", "(not x)", 6, "x", 5, 6},
		{"cursor_past_end", "abc", 10, "abc", 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("expected (%q, %d, %d), got (%q, %d, %d)",
					tt.wantWord, tt.wantStart, tt.wantEnd, word, start, end)
			}
		})
	}
}

func TestInString(t *testing.T) {
	tests := []struct {
		input  string
		offset int
		want   bool
	}{
		{`(concat "ab`, 11, true},
		{`(concat "ab" c`, 14, false},
		{`(concat "a\"b`, 13, true},
		{`(x) ; com`, 9, true},
		{"(x) ; c\n(y", 10, false},
		{`"a;b" c`, 7, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := inString(tt.input, tt.offset); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func testModel(t *testing.T, input string) model {
	t.Helper()

	ti := textinput.New()
	ti.Focus()
	ti.SetValue(input)
	ti.SetCursor(len(input))

	return model{
		ctxFunc: context.Background,
		logger:  log.Make(io.Discard),
		input:   ti,
		session: newSession(StageEval),
		history: NewHistory(""),
		comp:    completion{selected: -1},
	}
}

func TestComputeMatches(t *testing.T) {
	tests := []struct {
		name  string
		input string
		mode  inputMode
		want  string // best match, empty for none
	}{
		{"prelude", "(seq-filt", modeEval, "seq-filter"},
		{"host fn", "(set-cf", modeEval, "set-cfg!"},
		{"empty word", "(", modeEval, ""},
		{"inside string", `(concat "seq-filt`, modeEval, ""},
		{"command", "qu", modeCtrl, "quit"},
		{"no command", "zz", modeCtrl, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModel(t, tt.input)
			m.mode = tt.mode

			matches, _, _ := m.computeMatches()

			if tt.want == "" {
				if len(matches) != 0 {
					t.Fatalf("expected no matches, got %v", matches)
				}

				return
			}

			if len(matches) == 0 {
				t.Fatalf("expected matches, got none")
			}

			if matches[0].Str != tt.want {
				t.Errorf("expected best match %q, got %q", tt.want, matches[0].Str)
			}
		})
	}
}

func TestCycle(t *testing.T) {
	m := testModel(t, "(seq-f")
	m.refreshMatches(false)

	if len(m.comp.matches) < 2 {
		t.Fatalf("expected several matches, got %d", len(m.comp.matches))
	}

	first := m.comp.matches[0].Str
	last := m.comp.matches[len(m.comp.matches)-1].Str

	m, _ = m.cycle(1)
	if got := m.input.Value(); got != "("+first {
		t.Errorf("expected %q, got %q", "("+first, got)
	}

	m, _ = m.cycle(-1)
	if got := m.input.Value(); got != "("+last {
		t.Errorf("expected wrap to %q, got %q", "("+last, got)
	}

	if !m.comp.cycling {
		t.Error("expected tab cycling to be active")
	}
}

func TestRenderCandidateBar(t *testing.T) {
	matches := fuzzy.Find("p", []string{"path", "path-name", "progn", "path-exists"})

	if got := renderCandidateBar(nil, -1, 80); got != "" {
		t.Errorf("expected empty bar, got %q", got)
	}

	if got := renderCandidateBar(matches, -1, 0); got != "" {
		t.Errorf("expected empty bar for zero width, got %q", got)
	}

	if bar := renderCandidateBar(matches, 0, 12); !strings.Contains(bar, "...") {
		t.Errorf("expected ellipsized bar, got %q", bar)
	}

	if bar := renderCandidateBar(matches, 0, 200); strings.Contains(bar, "...") {
		t.Errorf("expected every candidate, got %q", bar)
	}
}
