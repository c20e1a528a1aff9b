package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

// stdout receives command output.
var stdout io.Writer = os.Stdout

// contextKey stores a [kong.Context] in a [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type pathsKey struct{}

// Paths are the files and directories commands read and write.
type Paths struct {
	// Config is the player configuration script.
	Config string
	// Flags is the script providing flag defaults.
	Flags string
	// Cache holds REPL history and profiles.
	Cache string
}

// WithPaths returns a new context.Context containing p.
func WithPaths(ctx context.Context, p Paths) context.Context {
	return context.WithValue(ctx, pathsKey{}, p)
}

func pathsFrom(ctx context.Context) Paths {
	p, _ := ctx.Value(pathsKey{}).(Paths)

	return p
}

// stdinSource names standard input among the sources of a command.
const stdinSource = "-"

// fileKey identifies a file by device and inode, so that one file reached
// through different paths or symlinks is read once.
type fileKey struct {
	dev uint64
	ino uint64
}

// readSources concatenates the named files in order. Duplicates are read
// once, and standard input, named "-" or reached through a path, is read
// last.
func readSources(sources []string) (string, error) {
	if len(sources) == 0 {
		sources = []string{stdinSource}
	}

	var (
		readers  = make([]io.Reader, 0, len(sources))
		seen     = make(map[fileKey]struct{})
		useStdin bool
		stdinKey fileKey
		isStdin  = func(fileKey) bool { return false }
	)

	if info, err := os.Stdin.Stat(); err == nil {
		if key, ok := makeFileKey(info); ok {
			stdinKey = key
			isStdin = func(k fileKey) bool { return k == stdinKey }
		}
	}

	for _, src := range sources {
		if src == stdinSource {
			useStdin = true

			continue
		}

		f, key, keyed, err := openFile(src)
		if err != nil {
			return "", ErrReadSource.With(slog.String("path", src)).Wrap(err)
		}

		if keyed {
			_, dup := seen[key]
			if dup || isStdin(key) {
				useStdin = useStdin || isStdin(key)

				f.Close()

				continue
			}

			seen[key] = struct{}{}
		}

		defer f.Close()

		readers = append(readers, f)
	}

	if useStdin {
		readers = append(readers, os.Stdin)
	}

	data, err := io.ReadAll(io.MultiReader(readers...))
	if err != nil {
		return "", ErrReadSource.Wrap(err)
	}

	return string(data), nil
}

// openFile opens path after resolving symlinks. keyed is false when the
// file system provides no device and inode.
func openFile(path string) (f *os.File, key fileKey, keyed bool, err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fileKey{}, false, err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fileKey{}, false, err
	}

	if f, err = os.Open(resolved); err != nil {
		return nil, fileKey{}, false, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()

		return nil, fileKey{}, false, err
	}

	key, keyed = makeFileKey(info)

	return f, key, keyed, nil
}

// makeFileKey returns false if info does not carry a *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (fileKey, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
