package markup

import "github.com/ardnew/marq/log"

// config holds parse options.
type config struct {
	logger log.Logger
	sink   Sink
	source string
}

// Option configures parsing behavior.
type Option func(*config)

func makeConfig(opts ...Option) config {
	var cfg config

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithLogger sets the logger used to trace parsing. The zero [log.Logger]
// discards everything.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithSink adds a sink that receives every diagnostic reported by
// [ParseTokens], [ParseString], and [ParseReader], in addition to the
// diagnostics collected for the returned error.
func WithSink(sink Sink) Option {
	return func(c *config) {
		c.sink = sink
	}
}

// WithSource attaches the source text the tokens were scanned from, so that
// errors can quote the offending line.
func WithSource(src string) Option {
	return func(c *config) {
		c.source = src
	}
}
