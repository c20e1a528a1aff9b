//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the empl module embedded at build time.
var Version = strings.TrimSpace(version)

const (
	// Name is the command name. It prefixes the default configuration and
	// cache directories.
	Name = "empl"
	// Description is a short summary used in help output.
	Description = "Terminal music player configuration language"
	// ConfigFile is the file name of the player configuration script.
	ConfigFile = "main.lisp"
	// FlagsFile is the file name of the script providing CLI flag defaults.
	FlagsFile = "flags.lisp"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
