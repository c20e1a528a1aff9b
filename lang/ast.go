package lang

import (
	"log/slog"

	"github.com/ardnew/empl/lang/lexer"
	"github.com/ardnew/empl/lang/parser"
)

// Expr is a node of the syntax tree: a [ListExpr], a [LiteralExpr] or a
// [ValueExpr].
type Expr interface {
	String() string
	expr()
}

// ListExpr is a parenthesized sequence of forms. It may be empty.
type ListExpr []Expr

// LiteralExpr is a lexed literal leaf.
type LiteralExpr struct {
	lexer.Literal
}

// ValueExpr wraps an already evaluated [Value]. The parser never produces
// one; the evaluator uses it to apply functions to computed arguments.
type ValueExpr struct {
	Value Value
}

func (ListExpr) expr()    {}
func (LiteralExpr) expr() {}
func (ValueExpr) expr()   {}

func (l ListExpr) String() string { return formatExpr(l) }

func (v ValueExpr) String() string { return v.Value.String() }

// Ident returns the identifier name of e, if e is an identifier literal.
func Ident(e Expr) (string, bool) {
	lit, ok := e.(LiteralExpr)
	if !ok || lit.Kind != lexer.Ident {
		return "", false
	}

	return lit.Text, true
}

// Sym returns an identifier literal expression.
func Sym(name string) LiteralExpr {
	return LiteralExpr{lexer.IdentLiteral(name)}
}

type tokens = parser.Slice[lexer.Lexeme]

func lexemeAttr(lx lexer.Lexeme) slog.Attr {
	return slog.String("found", lx.String())
}

func ofKind(k lexer.Kind) parser.Parser[tokens, lexer.Lexeme] {
	return parser.Filter(
		parser.Any[tokens, lexer.Lexeme](),
		func(lx lexer.Lexeme) bool { return lx.Kind == k },
		func(lx lexer.Lexeme) error {
			return &parser.MatchError[lexer.Lexeme]{
				Expected: lexer.Lexeme{Kind: k},
				Found:    lx,
			}
		},
	)
}

var (
	ws     = parser.Maybe(ofKind(lexer.Whitespace))
	lparen = parser.Just[tokens](lexer.LParenLexeme)
	rparen = parser.Just[tokens](lexer.RParenLexeme)
	atom   = ofKind(lexer.Atom)

	// Two atoms are never adjacent: "1abc" lexes as 1 then abc, and
	// "#true" as #t then rue.
	literal = parser.Left(
		parser.Map(atom, func(lx lexer.Lexeme) Expr { return LiteralExpr{lx.Literal} }),
		parser.Cut(parser.Not(atom), ErrMissingSeparator),
	)

	// expr := WS? ( '(' expr* WS? ')' | literal ) WS?
	//
	// Each element absorbs the whitespace around it, so a separator is
	// optional next to a paren. Adjacent atoms are rejected by literal.
	expr = parser.Declare(func(self parser.Parser[tokens, Expr]) parser.Parser[tokens, Expr] {
		list := parser.Map(
			parser.DelimitedBy(lparen, parser.Collect(self), parser.Then(ws, rparen)),
			func(items []Expr) Expr {
				if items == nil {
					return ListExpr{}
				}

				return ListExpr(items)
			},
		)

		return parser.DelimitedBy(ws, list.Or(literal), ws)
	})
)

// ParseLexemes parses exactly one form from lexemes.
func ParseLexemes(lexemes []lexer.Lexeme) (Expr, error) {
	e, next, err := expr(lexemes)
	if err != nil {
		return nil, ErrSyntax.Wrap(err)
	}

	if len(next) > 0 {
		return nil, ErrTrailingInput.With(lexemeAttr(next[0]))
	}

	return e, nil
}

// Parse lexes and parses exactly one form from src.
func Parse(src string) (Expr, error) {
	lexemes, err := lexer.All(src)
	if err != nil {
		return nil, ErrSyntax.Wrap(err)
	}

	return ParseLexemes(lexemes)
}

// ParseForms lexes and parses every top-level form of src, in order.
func ParseForms(src string) ([]Expr, error) {
	lexemes, err := lexer.All(src)
	if err != nil {
		return nil, ErrSyntax.Wrap(err)
	}

	var forms []Expr

	for rest := tokens(lexemes); ; {
		if _, after, _ := ws(rest); len(after) == 0 {
			return forms, nil
		}

		e, next, err := expr(rest)
		if err != nil {
			return nil, ErrSyntax.Wrap(err)
		}

		forms = append(forms, e)
		rest = next
	}
}
