// Package cli contains the command line interface for empl.
//
// # Commands
//
//	empl [eval] [-f file]...       evaluate source, printing each value
//	empl fmt native|lex|ast|json|yaml [file]...
//	empl config [-o yaml|json|preview] [-q expr]
//	empl init [--force] [--flags]
//	empl repl [-S lex|parse|eval] [-f file]...
//
// # Flags File
//
// Flag defaults are read from flags.lisp in the configuration directory. The
// file is a script in the configuration language whose value is a list of
// (name value) pairs:
//
//	(list
//	  (list "log-level" "debug")
//	  (list "log-pretty" #f))
//
// "empl init --flags" writes the flags of its own command line in this form.
// A flags.lisp.json file of the same flags as a JSON object is also read.
// Command-line flags override both.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o empl .
//
// Such a build adds these flags:
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/empl/pprof)
package cli
