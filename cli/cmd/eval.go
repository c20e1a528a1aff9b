package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/empl/config"
	"github.com/ardnew/empl/lang"
	"github.com/ardnew/empl/log"
)

// Eval evaluates every top-level form of its sources in one environment and
// prints each value. set-cfg! is available, so a configuration script can be
// checked form by form.
type Eval struct {
	Source   []string `default:"-" help:"Source input file(s) or '-' for stdin" short:"f"`
	MaxDepth int      `default:"${maxDepth}" help:"Maximum depth of nested calls"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := readSources(e.Source)
	if err != nil {
		return err
	}

	forms, err := lang.ParseForms(src)
	if err != nil {
		return lang.WrapError(err).With(slog.String("command", "eval"))
	}

	var cfg config.Intermediate

	env := lang.NewEnvironment(
		lang.WithLogger(log.Default()),
		lang.WithMaxDepth(e.MaxDepth),
		lang.WithFns(cfg.SetCfg()),
	)

	for i, form := range forms {
		if err := ctx.Err(); err != nil {
			return err
		}

		v, err := env.Eval(form)
		if err != nil {
			return lang.WrapError(err).With(
				slog.String("command", "eval"),
				slog.Int("form", i+1),
			)
		}

		fmt.Fprintln(stdout, v.String())
	}

	return nil
}
