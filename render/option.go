package render

// DefaultTag is the tag name given to every element.
const DefaultTag = "div"

type config struct {
	env map[string]any
	tag string
}

// Option configures rendering.
type Option func(*config)

func makeConfig(opts ...Option) config {
	cfg := config{tag: DefaultTag}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithTag sets the tag name used for elements. An empty name keeps the
// current one.
func WithTag(tag string) Option {
	return func(c *config) {
		if tag != "" {
			c.tag = tag
		}
	}
}

// WithEnv sets the variables visible to spliced expressions.
func WithEnv(env map[string]any) Option {
	return func(c *config) {
		c.env = env
	}
}
