package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/empl/lang"
	"github.com/ardnew/empl/lang/lexer"
)

// Fmt prints source in one of several forms.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical s-expressions (default)."`
	Lex    Lex    `cmd:""                    help:"Print the lexemes of the source."`
	AST    AST    `cmd:""                    help:"Print the syntax tree."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
}

// parseSources reads and parses the positional sources of a fmt subcommand.
func parseSources(sources []string, format string) ([]lang.Expr, error) {
	src, err := readSources(sources)
	if err != nil {
		return nil, err
	}

	forms, err := lang.ParseForms(src)
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("format", format))
	}

	return forms, nil
}

// Native formats input as canonical s-expressions.
type Native struct {
	Source []string `arg:"" default:"-" help:"Source input file(s) or '-' for stdin." name:"source"`
	Indent int      `default:"2" help:"Indent width; 0 prints each form on one line" short:"i"`
}

// Run executes the native command.
func (f *Native) Run(ctx context.Context) error {
	forms, err := parseSources(f.Source, "native")
	if err != nil {
		return err
	}

	return lang.Format(ctx, stdout, forms, f.Indent)
}

// JSON formats input as a JSON array of forms.
type JSON struct {
	Source []string `arg:"" default:"-" help:"Source input file(s) or '-' for stdin." name:"source"`
	Indent int      `default:"2" help:"Indent width for JSON output" short:"i"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	forms, err := parseSources(j.Source, "json")
	if err != nil {
		return err
	}

	if err := lang.FormatJSON(ctx, stdout, forms, j.Indent); err != nil {
		return ErrJSONMarshal.Wrap(err)
	}

	return nil
}

// YAML formats input as a YAML sequence of forms.
type YAML struct {
	Source []string `arg:"" default:"-" help:"Source input file(s) or '-' for stdin." name:"source"`
	Indent int      `default:"2" help:"Indent width for YAML output; 0 uses flow style" short:"i"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	forms, err := parseSources(y.Source, "yaml")
	if err != nil {
		return err
	}

	if err := lang.FormatYAML(ctx, stdout, forms, y.Indent); err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	return nil
}

// Lex prints one lexeme per line.
type Lex struct {
	Source     []string `arg:"" default:"-" help:"Source input file(s) or '-' for stdin." name:"source"`
	Whitespace bool     `help:"Include whitespace lexemes" short:"w"`
}

// Run executes the lex command.
func (l *Lex) Run(context.Context) error {
	src, err := readSources(l.Source)
	if err != nil {
		return err
	}

	return writeLexemes(stdout, src, l.Whitespace)
}

func writeLexemes(w io.Writer, src string, whitespace bool) error {
	for lx, err := range lexer.Lex(src) {
		if err != nil {
			return lang.ErrSyntax.Wrap(err)
		}

		if lx.Kind == lexer.Whitespace && !whitespace {
			continue
		}

		if _, err := fmt.Fprintln(w, lx.String()); err != nil {
			return err
		}
	}

	return nil
}

// AST prints the syntax tree, one node per line, indented by depth.
type AST struct {
	Source []string `arg:"" default:"-" help:"Source input file(s) or '-' for stdin." name:"source"`
}

// Run executes the ast command.
func (a *AST) Run(context.Context) error {
	forms, err := parseSources(a.Source, "ast")
	if err != nil {
		return err
	}

	var sb strings.Builder
	for _, form := range forms {
		writeTree(&sb, form, 0)
	}

	_, err = io.WriteString(stdout, sb.String())

	return err
}

func writeTree(sb *strings.Builder, e lang.Expr, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))

	switch e := e.(type) {
	case lang.ListExpr:
		fmt.Fprintf(sb, "list (%d)\n", len(e))

		for _, item := range e {
			writeTree(sb, item, depth+1)
		}

	case lang.LiteralExpr:
		fmt.Fprintf(sb, "%s %s\n", e.Kind, e.String())

	default:
		fmt.Fprintf(sb, "value %s\n", e.String())
	}
}
