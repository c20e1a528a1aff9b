package lang

import (
	"errors"
	"reflect"
	"testing"
	"unicode/utf8"
)

// FuzzParse checks that parsing never panics, is deterministic and reports
// every failure as a syntax error.
func FuzzParse(f *testing.F) {
	f.Add("()")
	f.Add("(a (b 1) ())")
	f.Add(`(a "b"(c)"d")`)
	f.Add("(a ; comment\n b)")
	f.Add(`(set-cfg! "playlists" (list (list "a" (list (list "s" (path "/x"))))))`)
	f.Add("(a) b\n(c 1)")
	f.Add("(+ 1abc)")
	f.Add("(#true)")
	f.Add("((")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		defer func() {
			if r := recover(); r != nil {
				t.Errorf("parser panicked on input %q: %v", input, r)
			}
		}()

		a, errA := ParseForms(input)
		b, errB := ParseForms(input)

		if (errA == nil) != (errB == nil) || !reflect.DeepEqual(a, b) {
			t.Fatalf("expected identical results for %q, got %v (%v) and %v (%v)",
				input, a, errA, b, errB)
		}

		if errA != nil && !errors.Is(errA, ErrSyntax) {
			t.Errorf("expected syntax error for %q, got %v", input, errA)
		}
	})
}
