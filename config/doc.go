// Package config builds the player configuration from a script in the
// configuration language.
//
// A script configures the player by calling set-cfg! once per field:
//
//	(set-cfg! "cursor-colors" (list "black" "cyan"))
//	(set-cfg! "key-bindings" (list (list "quit" (list "c" "c"))))
//	(set-cfg! "playlists"
//	  (list (list "mix" (list (list "intro" (path "/music/intro.mp3"))))))
//
// [Eval] and [Load] collect the calls of a script into an [Intermediate].
// Intermediates from several sources are merged with [Intermediate.Join] and
// checked for completeness by [Intermediate.Validate].
package config
