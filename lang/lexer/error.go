package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Error is a lexing failure located in its source text.
type Error struct {
	Err    error
	Source string
	Offset int // byte offset
	Line   int // 1-based
	Column int // 1-based, in runes
}

func newError(src string, off int, err error) *Error {
	off = min(max(off, 0), len(src))
	head := src[:off]
	line := strings.Count(head, "\n") + 1
	col := utf8.RuneCountInString(head[strings.LastIndexByte(head, '\n')+1:]) + 1

	return &Error{Err: err, Source: src, Offset: off, Line: line, Column: col}
}

func (e *Error) Error() string {
	return "line " + strconv.Itoa(e.Line) +
		", column " + strconv.Itoa(e.Column) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Snippet renders the offending source line with a marker under the
// failing column.
func (e *Error) Snippet() string {
	lines := strings.Split(e.Source, "\n")
	if e.Line < 1 || e.Line > len(lines) {
		return ""
	}

	num := strconv.Itoa(e.Line)

	var sb strings.Builder

	sb.WriteString("  " + num + " | " + lines[e.Line-1] + "\n")
	sb.WriteString(strings.Repeat(" ", len(num)+5+e.Column-1) + "^\n")

	return sb.String()
}
