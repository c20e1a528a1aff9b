package lexer

import (
	"strings"
	"unicode"
)

// symbols are the punctuation characters permitted anywhere in an
// identifier, so that names such as +, <= and set-cfg! are identifiers.
const symbols = "+-*/%!?<>=_&^~.$:"

var (
	xidStart = []*unicode.RangeTable{
		unicode.L, unicode.Nl, unicode.Other_ID_Start,
	}
	xidContinue = []*unicode.RangeTable{
		unicode.L, unicode.Nl, unicode.Other_ID_Start,
		unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue,
	}
)

func isIdentStart(r rune) bool {
	return unicode.IsOneOf(xidStart, r) || strings.ContainsRune(symbols, r)
}

func isIdentContinue(r rune) bool {
	return unicode.IsOneOf(xidContinue, r) || strings.ContainsRune(symbols, r)
}

// IsIdent reports whether s lexes as exactly one identifier.
func IsIdent(s string) bool {
	lx, rest, err := Next(text(s))

	return err == nil && rest == "" &&
		lx.Kind == Atom && lx.Literal.Kind == Ident
}
