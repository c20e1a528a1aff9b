// Package lang implements the empl configuration language, a small Lisp
// dialect read from s-expression source.
//
// # Syntax
//
//	form    → list | literal
//	list    → '(' form* ')'
//	literal → bool | int | string | ident
//	bool    → '#t' | '#f'
//	int     → '-'? digit+            (32-bit signed)
//	string  → '"' (char | escape)* '"'
//	ident   → XID_Start XID_Continue* (plus the symbols +-*/%!?<>=_&^~.$:)
//
// Whitespace between forms is optional and a ';' starts a comment that runs
// to the end of the line. Lexing is done by package [lexer], parsing by the
// combinators of package [parser].
//
// # Evaluation
//
// A literal evaluates to itself, except an identifier, which is looked up
// from the innermost scope outward. A list applies the function value of its
// head to the remaining elements. Functions receive their arguments
// unevaluated; ordinary builtins evaluate all of them, while the special
// forms (if, lambda, let, progn and try-catch) choose what to evaluate.
//
// Lambdas close over the scopes visible where they are created:
//
//	(let ((x 1))
//	  (let ((f (lambda () x)))
//	    (let ((x 2))
//	      (f))))           ; 1
//
// let binds into the scope of its own application, so its bindings are
// visible to its body and to lambdas created there, but not to forms that
// follow it.
//
// # Example
//
//	(let ((home (env "HOME")))
//	  (set-cfg! "playlists"
//	    (list (list "music" (list (list "intro" (path (concat home "/intro.mp3"))))))))
//
// The host binds functions such as set-cfg! with [WithFns] and runs a
// script with [Environment.Run].
package lang
