// Package cmd implements the subcommands of empl: eval, fmt, config, init
// and repl.
package cmd
