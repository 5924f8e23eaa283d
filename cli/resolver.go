package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// loadYAML is a [kong.ConfigurationLoader] for YAML config files.
//
// Nested mappings are joined with hyphens, so both of these set
// --log-level:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// A top-level mapping named after a command supplies that command's flags:
//
//	parse:
//	  indent: 0
//
// Command-line flags override config file values.
func loadYAML(r io.Reader) (kong.Resolver, error) {
	var data map[string]any

	err := yaml.NewDecoder(r).Decode(&data)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return flatten(data), nil
}

// loadTOML is a [kong.ConfigurationLoader] for TOML config files. Tables
// are flattened like YAML mappings in [loadYAML]:
//
//	[log]
//	level = "debug"
//	pretty = false
func loadTOML(r io.Reader) (kong.Resolver, error) {
	var data map[string]any

	if _, err := toml.NewDecoder(r).Decode(&data); err != nil {
		return nil, err
	}

	return flatten(data), nil
}

// config implements [kong.Resolver] over a flattened configuration map.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver]. A value scoped to the selected command
// ("parse-indent") takes precedence over a global one ("indent"). Keys may
// use underscores in place of hyphens.
func (c config) Resolve(_ *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
	names := []string{flag.Name}
	if parent != nil && parent.Command != nil {
		names = append([]string{parent.Command.Name + "-" + flag.Name}, names...)
	}

	for _, name := range names {
		if v, ok := c[name]; ok {
			return v, nil
		}

		if v, ok := c[strings.ReplaceAll(name, "-", "_")]; ok {
			return v, nil
		}
	}

	return nil, nil
}

// flatten joins nested map keys with hyphens and converts values to the
// forms kong's mappers accept.
func flatten(data map[string]any) config {
	out := make(config)

	var walk func(prefix string, m map[string]any)

	walk = func(prefix string, m map[string]any) {
		for k, v := range m {
			key := prefix + k

			switch v := v.(type) {
			case map[string]any:
				walk(key+"-", v)

			case nil:
				// Unset keys leave the flag default in place.

			default:
				out[key] = scalar(v)
			}
		}
	}

	walk("", data)

	return out
}

// scalar converts a decoded config value for kong: numbers become strings,
// lists become comma-separated strings, and booleans and strings are kept.
func scalar(v any) any {
	switch v := v.(type) {
	case bool, string:
		return v

	case int:
		return strconv.Itoa(v)

	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = fmt.Sprint(scalar(e))
		}

		return strings.Join(parts, ",")

	default:
		return fmt.Sprint(v)
	}
}
