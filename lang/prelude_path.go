package lang

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ardnew/mung"
)

func builtinPath(env *Environment, args []Expr) (Value, error) {
	s, err := EvalAs[String](env, args[0])
	if err != nil {
		return nil, err
	}

	return Path(s), nil
}

// pathChildren lists a directory eagerly. Entries are sorted by name.
func pathChildren(env *Environment, args []Expr) (Value, error) {
	dir, err := EvalAs[Path](env, args[0])
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(string(dir))
	if err != nil {
		return nil, ErrReadPath.With(slog.String("path", string(dir))).Wrap(err)
	}

	out := make([]Value, len(entries))
	for i, e := range entries {
		out[i] = Path(filepath.Join(string(dir), e.Name()))
	}

	return NewList(out...), nil
}

func pathTest(ok func(fs.FileInfo) bool) Builtin {
	return func(env *Environment, args []Expr) (Value, error) {
		paths, err := EvalAllAs[Path](env, args)
		if err != nil {
			return nil, err
		}

		for _, p := range paths {
			info, err := os.Stat(string(p))
			if err != nil || !ok(info) {
				return Bool(false), nil
			}
		}

		return Bool(true), nil
	}
}

var (
	pathExists = pathTest(func(fs.FileInfo) bool { return true })
	pathIsDir  = pathTest(fs.FileInfo.IsDir)
	pathIsFile = pathTest(func(fi fs.FileInfo) bool { return fi.Mode().IsRegular() })
)

func pathName(env *Environment, args []Expr) (Value, error) {
	p, err := EvalAs[Path](env, args[0])
	if err != nil {
		return nil, err
	}

	switch base := filepath.Base(string(p)); base {
	case ".", "..", string(filepath.Separator):
		return Unit{}, nil
	default:
		return String(base), nil
	}
}

func pathSeparator(*Environment, []Expr) (Value, error) {
	return String(filepath.Separator), nil
}

// pathListPrefix prepends items to a PATH-like list, dropping duplicates.
func pathListPrefix(env *Environment, args []Expr) (Value, error) {
	ss, err := EvalAllAs[String](env, args)
	if err != nil {
		return nil, err
	}

	return String(mungPrefix(ss[0], ss[1:], nil)), nil
}

// pathListPrefixIf is [pathListPrefix] keeping only the elements for which
// the predicate returns #t. The first failing predicate call aborts the
// result.
func pathListPrefixIf(env *Environment, args []Expr) (Value, error) {
	pred, err := EvalAs[*Fn](env, args[0])
	if err != nil {
		return nil, err
	}

	ss, err := EvalAllAs[String](env, args[1:])
	if err != nil {
		return nil, err
	}

	var failed error

	out := mungPrefix(ss[0], ss[1:], func(item string) bool {
		if failed != nil {
			return false
		}

		keep, err := callAs[Bool](env, pred, String(item))
		if err != nil {
			failed = err

			return false
		}

		return bool(keep)
	})
	if failed != nil {
		return nil, failed
	}

	return String(out), nil
}

func mungPrefix(subject String, prefix []String, keep func(string) bool) string {
	items := make([]string, len(prefix))
	for i, p := range prefix {
		items[i] = string(p)
	}

	delim := string(os.PathListSeparator)

	if keep == nil {
		return mung.Make(
			mung.WithSubjectItems(string(subject)),
			mung.WithDelim(delim),
			mung.WithPrefixItems(items...),
		).String()
	}

	return mung.Make(
		mung.WithSubjectItems(string(subject)),
		mung.WithDelim(delim),
		mung.WithPrefixItems(items...),
		mung.WithFilter(keep),
	).String()
}
