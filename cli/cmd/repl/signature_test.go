package repl

import (
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/empl/lang"
)

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantName   string
		wantIndex  int
		wantInCall bool
	}{
		{"top level", "greeting", "", 0, false},
		{"typing head", "(seq-ma", "", 0, false},
		{"after head", "(+ ", "+", 0, true},
		{"first arg", "(+ 1", "+", 0, true},
		{"second arg", "(+ 1 ", "+", 1, true},
		{"second arg value", "(+ 1 2", "+", 1, true},
		{"nested closed", "(+ (* 2 3) ", "+", 1, true},
		{"inside nested", "(+ (* 2", "*", 0, true},
		{"string arg", `(concat "a"`, "concat", 0, true},
		{"after string", `(concat "a" `, "concat", 1, true},
		{"inside string", `(concat "a b`, "", 0, false},
		{"paren in string", `(concat "(" `, "concat", 1, true},
		{"comment", "(+ 1 ; note", "", 0, false},
		{"list head", "((lambda (x) x) ", "", 0, false},
		{"closed", "(+ 1 2)", "", 0, false},
		{"hyphenated", "(path-list-prefix x ", "path-list-prefix", 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, len(tt.input))

			if got.inCall != tt.wantInCall {
				t.Fatalf("expected inCall %v, got %v", tt.wantInCall, got.inCall)
			}

			if got.name != tt.wantName {
				t.Errorf("expected name %q, got %q", tt.wantName, got.name)
			}

			if got.argIndex != tt.wantIndex {
				t.Errorf("expected argIndex %d, got %d", tt.wantIndex, got.argIndex)
			}
		})
	}
}

func TestDetectFunctionCall_Cursor(t *testing.T) {
	input := "(+ (* 2 3) 4)"

	got := detectFunctionCall(input, strings.Index(input, "2")+1)
	if got.name != "*" || got.argIndex != 0 {
		t.Errorf("expected (* 0), got (%s %d)", got.name, got.argIndex)
	}

	got = detectFunctionCall(input, strings.Index(input, "4")+1)
	if got.name != "+" || got.argIndex != 1 {
		t.Errorf("expected (+ 1), got (%s %d)", got.name, got.argIndex)
	}
}

func TestGetSignature(t *testing.T) {
	env := lang.NewEnvironment(lang.WithFns(
		lang.NewFn("plain", lang.Range(1, 2), nil),
	))
	env.Define("answer", lang.Int(42))

	tests := []struct {
		name       string
		fn         string
		wantSig    string
		wantParams []string
	}{
		{"builtin", "if", "(if cond then [else])", []string{"cond", "then", "[else]"}},
		{"variadic", "concat", "(concat string string...)", []string{"string", "string..."}},
		{"nested usage", "let", "(let ((name value)...) body...)", []string{"((name value)...)", "body..."}},
		{"nullary", "path-separator", "(path-separator)", []string{}},
		{"derived", "plain", "(plain arg1 [arg2])", []string{"arg1", "[arg2]"}},
		{"not a function", "answer", "", nil},
		{"unbound", "missing", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, params, _ := getSignature(env, tt.fn)

			if sig != tt.wantSig {
				t.Errorf("expected signature %q, got %q", tt.wantSig, sig)
			}

			if !slices.Equal(params, tt.wantParams) {
				t.Errorf("expected params %q, got %q", tt.wantParams, params)
			}
		})
	}
}

func TestArityUsage(t *testing.T) {
	tests := []struct {
		arity lang.Arity
		want  string
	}{
		{lang.Static(0), "(f)"},
		{lang.Static(2), "(f arg1 arg2)"},
		{lang.RangeFrom(1), "(f arg1 arg...)"},
		{lang.Range(1, 3), "(f arg1 [arg2] [arg3])"},
	}

	for _, tt := range tests {
		t.Run(tt.arity.String(), func(t *testing.T) {
			if got := arityUsage("f", tt.arity); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRenderSignatureHint(t *testing.T) {
	hint := renderSignatureHint("not", []string{"bool"}, lang.Static(1), 0)
	if !strings.Contains(hint, "not") || !strings.Contains(hint, "bool") {
		t.Errorf("expected name and parameter, got %q", hint)
	}

	if strings.Contains(hint, "expects") {
		t.Errorf("expected no arity warning, got %q", hint)
	}

	hint = renderSignatureHint("not", []string{"bool"}, lang.Static(1), 1)
	if !strings.Contains(hint, "expects 1 argument") {
		t.Errorf("expected arity warning, got %q", hint)
	}

	hint = renderSignatureHint("list", []string{"value..."}, lang.RangeFrom(0), 5)
	if strings.Contains(hint, "expects") {
		t.Errorf("expected no warning for variadic, got %q", hint)
	}
}
