package cli

import (
	"context"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/empl/cli/cmd"
	"github.com/ardnew/empl/lang"
	"github.com/ardnew/empl/pkg"
)

// CLI is the top-level command-line interface for empl.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	ConfigPath string `help:"Player configuration script (default: ${configPath})" name:"config" short:"c" type:"path"`

	Eval   cmd.Eval   `cmd:"" default:"withargs" help:"Evaluate configuration language source"`
	Fmt    cmd.Fmt    `cmd:""                    help:"Print source as lexemes, AST, or canonical forms"`
	Config cmd.Config `cmd:""                    help:"Load and print the player configuration"`
	Init   cmd.Init   `cmd:""                    help:"Write the default player configuration"`
	Repl   cmd.Repl   `cmd:""                    help:"Start an interactive session"`
}

// Run executes the empl CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	flagsPath := configPath(pkg.FlagsFile)

	vars := kong.Vars{
		"configPath": configPath(pkg.ConfigFile),
		"maxDepth":   strconv.Itoa(lang.DefaultMaxDepth),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logger flags apply before parsing regardless of their position.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, flagsPath+".json"),
		kong.Configuration(resolve(ctx), flagsPath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithPaths(ctx, cmd.Paths{
		Config: cli.ConfigPath,
		Flags:  flagsPath,
		Cache:  cacheDir(),
	})

	defer cli.Log.start(ctx)()

	// No-op unless built with the pprof tag and a mode is given.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
