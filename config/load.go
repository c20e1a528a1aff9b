package config

import (
	"context"
	_ "embed"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/ardnew/empl/lang"
	"github.com/ardnew/empl/log"
	"github.com/ardnew/empl/pkg"
)

//go:embed main.lisp
var defaultScript []byte

// Default returns the script written by [WriteDefault].
func Default() []byte { return append([]byte(nil), defaultScript...) }

// searchPaths are the environment variables consulted, in order, for the
// configuration directory, each with the path appended to its value.
var searchPaths = []struct {
	env    string
	suffix string
}{
	{"XDG_CONFIG_HOME", ""},
	{"HOME", ".config"},
}

// Dir returns the configuration directory: $XDG_CONFIG_HOME/empl if set,
// else $HOME/.config/empl.
func Dir() (string, error) {
	for _, sp := range searchPaths {
		if base, ok := os.LookupEnv(sp.env); ok {
			return filepath.Join(base, sp.suffix, pkg.Name), nil
		}
	}

	return "", ErrUnsetEnvVars.With(
		slog.String("vars", searchPaths[0].env+","+searchPaths[1].env),
	)
}

// Path returns override if non-empty, otherwise the path of the
// configuration script within [Dir].
func Path(override string) (string, error) {
	if override != "" {
		return override, nil
	}

	dir, err := Dir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, pkg.ConfigFile), nil
}

// Eval runs the configuration script src and returns what it set. The
// environment is built from opts with set-cfg! added.
func Eval(ctx context.Context, src string, opts ...lang.Option) (Intermediate, error) {
	var cfg Intermediate

	forms, err := lang.ParseForms(src)
	if err != nil {
		return Intermediate{}, ErrInvalidSyntax.Wrap(err)
	}

	env := lang.NewEnvironment(append(slices.Clip(opts), lang.WithFns(cfg.SetCfg()))...)

	for _, form := range forms {
		if err := ctx.Err(); err != nil {
			return Intermediate{}, err
		}

		if _, err := env.Eval(form); err != nil {
			return Intermediate{}, ErrEval.Wrap(err)
		}
	}

	log.DebugContext(ctx, "evaluated configuration",
		slog.Int("forms", len(forms)),
		slog.Int("key-bindings", len(cfg.KeyBindings)),
		slog.Int("playlists", len(cfg.Playlists)),
	)

	return cfg, nil
}

// Load reads and evaluates the configuration script at path.
func Load(ctx context.Context, path string, opts ...lang.Option) (Intermediate, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Intermediate{}, ErrReadConfig.With(slog.String("path", path)).Wrap(err)
	}

	log.DebugContext(ctx, "loading configuration", slog.String("path", path))

	return Eval(ctx, string(src), opts...)
}

// WriteDefault writes the default script to path, creating its parent
// directories. An existing file is replaced only if force is set.
func WriteDefault(path string, force bool) error {
	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flag |= os.O_EXCL
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return ErrWriteConfig.With(slog.String("path", path)).Wrap(err)
	}

	f, err := os.OpenFile(path, flag, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return ErrWriteConfig.With(
				slog.String("path", path),
				slog.Bool("exists", true),
			).Wrap(err)
		}

		return ErrWriteConfig.With(slog.String("path", path)).Wrap(err)
	}

	if _, err := f.Write(defaultScript); err != nil {
		f.Close()

		return ErrWriteConfig.With(slog.String("path", path)).Wrap(err)
	}

	if err := f.Close(); err != nil {
		return ErrWriteConfig.With(slog.String("path", path)).Wrap(err)
	}

	return nil
}
