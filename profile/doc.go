// Package profile starts optional runtime profiling for the marq command.
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	marq --pprof-mode cpu --pprof-dir ./prof parse template.mq
//
// Without the tag every [Profiler] is inert and [Modes] is empty. Profiles
// are written by [github.com/pkg/profile] to the configured directory and
// can be inspected with "go tool pprof".
package profile
