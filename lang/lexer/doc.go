// Package lexer splits configuration source text into lexemes.
//
// Lexemes are parentheses, whitespace runs (including ; comments) and
// literals: booleans (#t, #f), 32-bit integers, identifiers and double-quoted
// strings. Whitespace is kept as an explicit lexeme so that the grammar
// built on top decides where separators are required.
package lexer
