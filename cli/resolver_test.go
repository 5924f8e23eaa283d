package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestLoadYAML(t *testing.T) {
	src := `
log:
  level: debug
  pretty: false
parse-indent: 4
check:
  watch: true
sources: [a.marq, b.marq]
empty:
`

	r, err := loadYAML(strings.NewReader(src))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	c := r.(config)

	want := config{
		"log-level":    "debug",
		"log-pretty":   false,
		"parse-indent": "4",
		"check-watch":  true,
		"sources":      "a.marq,b.marq",
	}

	if len(c) != len(want) {
		t.Errorf("config = %v, want %v", c, want)
	}

	for k, v := range want {
		if c[k] != v {
			t.Errorf("%s = %#v, want %#v", k, c[k], v)
		}
	}
}

func TestLoadYAML_Empty(t *testing.T) {
	r, err := loadYAML(strings.NewReader(""))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(r.(config)) != 0 {
		t.Errorf("config = %v", r)
	}
}

func TestLoadTOML(t *testing.T) {
	src := `
ratio = 1.5

[log]
level = "warn"
caller = true

[parse]
indent = 0
`

	r, err := loadTOML(strings.NewReader(src))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	c := r.(config)

	want := config{
		"ratio":        "1.5",
		"log-level":    "warn",
		"log-caller":   true,
		"parse-indent": "0",
	}

	for k, v := range want {
		if c[k] != v {
			t.Errorf("%s = %#v, want %#v", k, c[k], v)
		}
	}
}

func TestLoadTOML_Invalid(t *testing.T) {
	if _, err := loadTOML(strings.NewReader("[log\nlevel=")); err == nil {
		t.Error("expected error")
	}
}

func TestConfig_Resolve(t *testing.T) {
	c := config{
		"indent":       "1",
		"parse-indent": "2",
		"log_level":    "error",
	}

	flag := func(name string) *kong.Flag {
		return &kong.Flag{Value: &kong.Value{Name: name}}
	}

	parse := &kong.Path{Command: &kong.Command{Name: "parse"}}
	check := &kong.Path{Command: &kong.Command{Name: "check"}}

	tests := []struct {
		name   string
		parent *kong.Path
		flag   string
		want   any
	}{
		{"command scoped", parse, "indent", "2"},
		{"global fallback", check, "indent", "1"},
		{"no command", nil, "indent", "1"},
		{"underscore key", nil, "log-level", "error"},
		{"missing", parse, "format", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Resolve(nil, tt.parent, flag(tt.flag))
			if err != nil {
				t.Fatal(err)
			}

			if got != tt.want {
				t.Errorf("Resolve = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestConfiguration_AppliesToFlags(t *testing.T) {
	var cli struct {
		Indent int    `default:"2"`
		Format string `default:"native"`
		Watch  bool
	}

	r, err := loadTOML(strings.NewReader("indent = 7\nformat = \"json\"\nwatch = true\n"))
	if err != nil {
		t.Fatal(err)
	}

	parser, err := kong.New(&cli, kong.Resolvers(r))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"--format=yaml"}); err != nil {
		t.Fatal(err)
	}

	if cli.Indent != 7 || cli.Format != "yaml" || !cli.Watch {
		t.Errorf("cli = %+v", cli)
	}
}
