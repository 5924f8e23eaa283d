// Package cmd implements the marq subcommands: parse, check, tokens, and
// repl.
//
// Commands receive a [context.Context] carrying the [kong.Context] and a
// run-scoped logger. Command output is written to the kong context's stdout
// so that it can be captured in tests.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the default configuration file, without extension.
	ConfigIdentifier = "config"
)
