// Package parser provides generic parser combinators.
//
// A [Parser] is a function from an input to an output value and the leftover
// input. Inputs are immutable values implementing [Input], so a failed parser
// never disturbs its caller's position and alternation needs no rewinding.
// Two inputs are provided: [Text] for UTF-8 source text and [Slice] for
// sequences of discrete items such as lexemes.
//
// Primitives ([Any], [Just], [Sequence]) match items. Combinators compose
// parsers by mapping ([Map], [FilterMap]), sequencing ([Then], [Left],
// [Right], [DelimitedBy]), alternation ([Select], [Parser.Or], [EitherOr]),
// and repetition ([Repeated], [Collect], [Fold]). Recursive grammars are
// built with [Declare].
//
// A failure marked by [Commit] (or produced inside [Cut]) stops alternation
// and repetition from backtracking, which lets a grammar report a precise
// error once it has recognized the start of a construct.
package parser
