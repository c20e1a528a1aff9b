package lexer

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/empl/lang/parser"
)

type text = parser.Text

// Predefined errors (sentinel values).
var (
	ErrInvalidLexeme      = errors.New("invalid lexeme")
	ErrIntOverflow        = errors.New("integer does not fit in 32 bits")
	ErrUnterminatedString = errors.New("unterminated string")
	ErrInvalidEscape      = errors.New("invalid escape sequence")
	ErrUnknownEscape      = errors.New("unknown escape character")
	ErrInvalidUnicode     = errors.New("invalid unicode scalar value")
	ErrNotIdentStart      = errors.New("character cannot start an identifier")
)

var escapes = map[rune]rune{
	'0':  0,
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'\'': '\'',
	'"':  '"',
	'\\': '\\',
}

func char(pred func(rune) bool) parser.Parser[text, rune] {
	return parser.Filter(parser.Any[text, rune](), pred, nil)
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isHexDigit(r rune) bool {
	return isDigit(r) || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}

var (
	space   = parser.Recognize(char(unicode.IsSpace))
	comment = parser.Recognize(parser.Then(
		parser.Just[text](';'),
		parser.Repeated(char(func(r rune) bool { return r != '\n' })),
	))
	whitespace = parser.Some(parser.Select(space, comment))

	boolean = parser.Select(
		parser.To(parser.Tag("#t"), BoolLiteral(true)),
		parser.To(parser.Tag("#f"), BoolLiteral(false)),
	)

	integer = parser.FilterMap(
		parser.Recognize(parser.Then(
			parser.Maybe(parser.Just[text]('-')),
			parser.Some(char(isDigit)),
		)),
		func(t text) (Literal, error) {
			n, err := strconv.ParseInt(string(t), 10, 32)
			if err != nil {
				return Literal{}, parser.Commit(
					fmt.Errorf("%w: %s", ErrIntOverflow, t))
			}

			return IntLiteral(int32(n)), nil
		},
	)

	ident = parser.Map(
		parser.Recognize(parser.Then(
			parser.Filter(parser.Any[text, rune](), isIdentStart,
				func(r rune) error {
					return fmt.Errorf("%w: %q", ErrNotIdentStart, r)
				}),
			parser.Repeated(char(isIdentContinue)),
		)),
		func(t text) Literal { return IdentLiteral(string(t)) },
	)

	unicodeEscape = parser.Right(
		parser.Just[text]('u'),
		parser.FilterMap(
			parser.DelimitedBy(
				parser.Just[text]('{'),
				parser.Some(char(isHexDigit)),
				parser.Just[text]('}'),
			),
			func(t text) (rune, error) {
				n, err := strconv.ParseUint(string(t), 16, 32)
				if err != nil || !utf8.ValidRune(rune(n)) {
					return 0, fmt.Errorf("%w: %s", ErrInvalidUnicode, t)
				}

				return rune(n), nil
			},
		),
	)

	simpleEscape = parser.FilterMap(
		parser.Any[text, rune](),
		func(r rune) (rune, error) {
			if e, ok := escapes[r]; ok {
				return e, nil
			}

			return 0, fmt.Errorf("%w: %q", ErrUnknownEscape, r)
		},
	)

	escape = parser.Right(
		parser.Just[text]('\\'),
		parser.Cut(parser.Select(unicodeEscape, simpleEscape), ErrInvalidEscape),
	)

	str = parser.Map(
		parser.Right(
			parser.Just[text]('"'),
			parser.Cut(
				parser.Left(
					parser.Collect(parser.Select(
						char(func(r rune) bool { return r != '"' && r != '\\' }),
						escape,
					)),
					parser.Just[text]('"'),
				),
				ErrUnterminatedString,
			),
		),
		func(rs []rune) Literal { return StringLiteral(string(rs)) },
	)

	literal = parser.Select(boolean, integer, ident, str)

	lexeme = parser.Select(
		parser.To(parser.Just[text]('('), LParenLexeme),
		parser.To(parser.Just[text](')'), RParenLexeme),
		parser.Map(whitespace, func(t text) Lexeme {
			return Lexeme{Kind: Whitespace, Raw: string(t)}
		}),
		atom(literal),
	)
)

// atom wraps the output of p in an [Atom] lexeme holding its source text.
func atom(p parser.Parser[text, Literal]) parser.Parser[text, Lexeme] {
	return func(in text) (Lexeme, text, error) {
		lit, next, err := p(in)
		if err != nil {
			return Lexeme{}, next, err
		}

		raw := parser.Consumed(in, next)

		return Lexeme{Kind: Atom, Literal: lit, Raw: string(raw)}, next, nil
	}
}

// Next lexes a single lexeme from the start of src and returns it together
// with the remaining source. The returned error, if any, is the parse error
// and the position where it was detected.
func Next(src text) (Lexeme, text, error) {
	lx, next, err := lexeme(src)
	if err != nil && !parser.IsCommitted(err) {
		err = fmt.Errorf("%w: %w", ErrInvalidLexeme, err)
	}

	return lx, next, err
}

// Lex returns a lazy sequence of the lexemes of src. Lexing stops after the
// first error, which is yielded as an [*Error]. Each call of the returned
// sequence starts over from the beginning of src.
func Lex(src string) iter.Seq2[Lexeme, error] {
	return func(yield func(Lexeme, error) bool) {
		rest := text(src)

		for rest.Len() > 0 {
			lx, next, err := Next(rest)
			if err != nil {
				yield(Lexeme{}, newError(src, len(src)-next.Len(), err))

				return
			}

			if !yield(lx, nil) {
				return
			}

			rest = next
		}
	}
}

// All lexes the whole of src.
func All(src string) ([]Lexeme, error) {
	var out []Lexeme

	for lx, err := range Lex(src) {
		if err != nil {
			return nil, err
		}

		out = append(out, lx)
	}

	return out, nil
}
