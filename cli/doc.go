// Package cli contains the command line interface for marq.
//
// # Commands
//
//   - parse (default): parse markup and print the tree as native markup,
//     JSON, YAML, or rendered HTML.
//   - check: report every diagnostic of one or more sources with a source
//     snippet. With --watch, sources are checked again whenever they change.
//   - tokens: print the token stream of a source as a table.
//   - repl: parse markup interactively, with history and completion.
//
// Sources are file paths or "-" for standard input. Files ending in .gz or
// .zst are decompressed while reading.
//
//	marq page.marq
//	marq parse -o html --tag span page.marq.gz
//	marq check --watch *.marq
//	echo 'b"raw"' | marq tokens
//
// # Configuration
//
// Flag defaults may be set in a config file under the user config directory
// named config.json, config.yaml, config.yml, or config.toml. Keys are flag
// names; nested tables are joined with hyphens, and a table named after a
// command applies only to that command:
//
//	[log]
//	level = "debug"
//
//	[parse]
//	format = "json"
//	indent = 4
//
// Command-line flags override config file values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time: Set timestamp format (RFC3339, Kitchen, none, or a layout)
//   - --[no-]log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize log output on terminals
//
// Logging flags take effect before the command line is validated, wherever
// they appear.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: the pprof
//     directory in the user cache directory)
package cli
