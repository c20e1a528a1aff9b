package lexer

import (
	"strconv"
	"strings"
	"unicode"
)

// Kind identifies the class of a [Lexeme].
type Kind uint8

const (
	LParen     Kind = iota // (
	RParen                 // )
	Whitespace             // whitespace
	Atom                   // literal
)

func (k Kind) String() string {
	switch k {
	case LParen:
		return "("
	case RParen:
		return ")"
	case Whitespace:
		return "whitespace"
	case Atom:
		return "literal"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// LiteralKind identifies the class of a [Literal].
type LiteralKind uint8

const (
	Bool   LiteralKind = iota // bool
	Int                       // int
	Ident                     // ident
	String                    // string
)

func (k LiteralKind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Ident:
		return "ident"
	case String:
		return "string"
	default:
		return "LiteralKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Literal is an atomic lexeme value. Text holds the identifier name for
// [Ident] and the unescaped contents for [String].
type Literal struct {
	Text string
	Int  int32
	Kind LiteralKind
	Bool bool
}

func BoolLiteral(b bool) Literal { return Literal{Kind: Bool, Bool: b} }

func IntLiteral(n int32) Literal { return Literal{Kind: Int, Int: n} }

func IdentLiteral(s string) Literal { return Literal{Kind: Ident, Text: s} }

func StringLiteral(s string) Literal { return Literal{Kind: String, Text: s} }

// String returns the literal in source syntax.
func (l Literal) String() string {
	switch l.Kind {
	case Bool:
		if l.Bool {
			return "#t"
		}

		return "#f"
	case Int:
		return strconv.FormatInt(int64(l.Int), 10)
	case String:
		return Quote(l.Text)
	default:
		return l.Text
	}
}

// Lexeme is a single unit of source text. Raw holds the exact source text
// it was lexed from.
type Lexeme struct {
	Raw     string
	Literal Literal
	Kind    Kind
}

// Parenthesis lexemes, equal to those produced by [Lex].
var (
	LParenLexeme = Lexeme{Kind: LParen, Raw: "("}
	RParenLexeme = Lexeme{Kind: RParen, Raw: ")"}
)

// AtomLexeme returns the lexeme for lit as it would be lexed from its
// source syntax.
func AtomLexeme(lit Literal) Lexeme {
	return Lexeme{Kind: Atom, Literal: lit, Raw: lit.String()}
}

func (l Lexeme) String() string {
	if l.Kind == Atom {
		return l.Literal.String()
	}

	return l.Kind.String()
}

// Quote returns s as a string literal, escaping characters the lexer
// would otherwise reject or misread.
func Quote(s string) string {
	var sb strings.Builder

	sb.WriteByte('"')

	for _, r := range s {
		switch r {
		case 0:
			sb.WriteString(`\0`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		default:
			if unicode.IsPrint(r) {
				sb.WriteRune(r)
			} else {
				sb.WriteString(`\u{` + strconv.FormatInt(int64(r), 16) + `}`)
			}
		}
	}

	sb.WriteByte('"')

	return sb.String()
}
