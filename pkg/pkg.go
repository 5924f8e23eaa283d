// Package pkg holds identifying metadata for the marq module.
//
//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the module, embedded at build time.
var Version = strings.TrimSpace(version)

const (
	// Name is the command name. It appears in help text and default config
	// paths.
	Name = "marq"
	// Description is a one-line summary used in help output.
	Description = "Markup template literal parser"
)

// AuthorInfo identifies a project author.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
