package cmd

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/empl/config"
	"github.com/ardnew/empl/lang"
	"github.com/ardnew/empl/lang/lexer"
	"github.com/ardnew/empl/log"
	"github.com/ardnew/empl/profile"
)

// flagsIndent is the indent width of a generated flags file.
const flagsIndent = 2

// Init writes the default configuration script.
type Init struct {
	Force bool `help:"Overwrite existing files" short:"F"`
	Flags bool `help:"Also write the flags file from the current flag values"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	paths := pathsFrom(ctx)

	path, err := config.Path(paths.Config)
	if err != nil {
		return err
	}

	if err := config.WriteDefault(path, i.Force); err != nil {
		return err
	}

	log.InfoContext(ctx, "wrote configuration", slog.String("path", path))

	if !i.Flags {
		return nil
	}

	if err := i.writeFlags(ctx, paths.Flags); err != nil {
		return err
	}

	log.InfoContext(ctx, "wrote flags", slog.String("path", paths.Flags))

	return nil
}

// writeFlags writes every set flag of the current command line to path as a
// list of (name value) pairs.
func (i *Init) writeFlags(ctx context.Context, path string) error {
	ktx := kongContextFrom(ctx)
	if ktx == nil || path == "" {
		return ErrWriteFlags.With(slog.String("path", path))
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !i.Force {
		flag |= os.O_EXCL
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return ErrWriteFlags.With(slog.String("path", path)).Wrap(err)
	}

	f, err := os.OpenFile(path, flag, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return ErrWriteFlags.With(slog.String("path", path)).Wrap(ErrFileExists)
		}

		return ErrWriteFlags.With(slog.String("path", path)).Wrap(err)
	}
	defer f.Close()

	form := flagsForm(ktx)

	if err := lang.Format(ctx, f, []lang.Expr{form}, flagsIndent); err != nil {
		return ErrWriteFlags.With(slog.String("path", path)).Wrap(err)
	}

	return nil
}

// flagsForm builds (list (list "name" value)...) from the flags of ktx.
func flagsForm(ktx *kong.Context) lang.ListExpr {
	ignore := []string{"help", "version", profile.Tag}

	form := lang.ListExpr{lang.Sym("list")}

	for _, flag := range ktx.Flags() {
		if flag.Hidden || slices.ContainsFunc(ignore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val := flagValue(ktx.FlagValue(flag))
		if val == nil {
			continue
		}

		form = append(form, lang.ListExpr{
			lang.Sym("list"),
			lang.LiteralExpr{Literal: lexer.StringLiteral(flag.Name)},
			val,
		})
	}

	return form
}

// flagValue returns the expression for a flag value, or nil if it is unset
// or has no literal form.
func flagValue(v any) lang.Expr {
	switch v := v.(type) {
	case bool:
		return lang.LiteralExpr{Literal: lexer.BoolLiteral(v)}

	case int:
		return lang.LiteralExpr{Literal: lexer.IntLiteral(int32(v))}

	case string:
		if v == "" {
			return nil
		}

		return lang.LiteralExpr{Literal: lexer.StringLiteral(v)}

	case []string:
		if len(v) == 0 {
			return nil
		}

		l := lang.ListExpr{lang.Sym("list")}
		for _, s := range v {
			l = append(l, lang.LiteralExpr{Literal: lexer.StringLiteral(s)})
		}

		return l

	case interface{ String() string }:
		return flagValue(v.String())

	default:
		return nil
	}
}
