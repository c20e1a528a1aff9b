package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/empl/cli/cmd/repl"
	"github.com/ardnew/empl/lang"
	"github.com/ardnew/empl/log"
)

// Repl starts an interactive session.
type Repl struct {
	Stage    repl.Stage `default:"eval" enum:"lex,parse,eval" help:"Process each line up to this stage (${enum})." short:"S"`
	Source   []string   `help:"Source file(s) processed before the first prompt" short:"f" type:"existingfile"`
	MaxDepth int        `default:"${maxDepth}" help:"Maximum depth of nested calls"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var src string
	if len(r.Source) > 0 {
		if src, err = readSources(r.Source); err != nil {
			return err
		}
	}

	logger := log.With(slog.String("command", "repl"))

	return repl.Run(ctx, src, r.Stage, pathsFrom(ctx).Cache, logger,
		lang.WithLogger(logger),
		lang.WithMaxDepth(r.MaxDepth),
	)
}
