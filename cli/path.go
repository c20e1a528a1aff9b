package cli

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/ardnew/empl/config"
	"github.com/ardnew/empl/pkg"
)

var defaultDirMode os.FileMode = 0o700

// configDir is the directory of the player configuration and the flags
// file. It follows [config.Dir] and falls back to the platform's user
// configuration directory when neither environment variable is set.
var configDir = sync.OnceValue(
	func() string {
		if dir, err := config.Dir(); err == nil {
			return dir
		}

		return userDir(os.UserConfigDir, ".config")
	},
)

// cacheDir holds transient files such as REPL history and profiles.
var cacheDir = sync.OnceValue(
	func() string { return userDir(os.UserCacheDir, ".cache") },
)

// userDir returns base()/empl, else $HOME/fallback/empl, else a directory
// relative to the working directory.
func userDir(base func() (string, error), fallback string) string {
	dir, err := base()
	if err != nil {
		if dir, err = os.UserHomeDir(); err == nil {
			dir = filepath.Join(dir, fallback)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, pkg.Name)
}

// configPath joins elem to [configDir].
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
