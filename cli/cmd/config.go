package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/empl/config"
	"github.com/ardnew/empl/lang"
	"github.com/ardnew/empl/log"
)

// colorsFlag decodes "fg,bg" as a [config.Colors] override.
type colorsFlag struct{ config.Colors }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *colorsFlag) UnmarshalText(text []byte) (err error) {
	c.Colors, err = config.ParseColors(string(text))

	return err
}

// Config loads, validates and prints the player configuration.
type Config struct {
	Format string `default:"yaml" enum:"yaml,json,preview" help:"Output format (${enum})." short:"o"`
	Query  string `help:"Print the result of an expr-lang expression over the configuration." short:"q"`

	CursorColors    colorsFlag `help:"Override cursor colors as fg,bg."    placeholder:"FG,BG"`
	MenuColors      colorsFlag `help:"Override menu colors as fg,bg."      placeholder:"FG,BG"`
	SelectionColors colorsFlag `help:"Override selection colors as fg,bg." placeholder:"FG,BG"`
}

// Run executes the config command.
func (c *Config) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	path, err := config.Path(pathsFrom(ctx).Config)
	if err != nil {
		return err
	}

	inter, err := config.Load(ctx, path, lang.WithLogger(log.Default()))
	if err != nil {
		return err
	}

	inter.Join(c.overrides())

	cfg, err := inter.Validate()
	if err != nil {
		return lang.WrapError(err).With(slog.String("path", path))
	}

	var out any = cfg
	if c.Query != "" {
		if out, err = config.Query(ctx, cfg, c.Query); err != nil {
			return err
		}
	}

	switch {
	case c.Format == "preview" && c.Query == "":
		return config.Preview(stdout, cfg)

	case c.Format == "json":
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		_, err = fmt.Fprintln(stdout, string(data))

		return err

	default:
		data, err := yaml.MarshalContext(ctx, out)
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		_, err = stdout.Write(data)

		return err
	}
}

// overrides collects the color flags given on the command line. Unset
// sides are nil and leave the script's colors in place.
func (c *Config) overrides() config.Intermediate {
	return config.Intermediate{
		CursorColors:    c.CursorColors.Colors,
		MenuColors:      c.MenuColors.Colors,
		SelectionColors: c.SelectionColors.Colors,
	}
}
