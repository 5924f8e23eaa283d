package cli

import (
	"os"
	"testing"

	"github.com/ardnew/marq/log"
)

func TestLogConfig_Scan(t *testing.T) {
	t.Cleanup(func() { log.Config(log.WithDefaults(os.Stderr)) })

	tests := []struct {
		name string
		args []string
		want logConfig
	}{
		{
			name: "separate values",
			args: []string{"parse", "--log-level", "debug", "--log-format", "json", "x.marq"},
			want: logConfig{Level: "debug", Format: "json", Pretty: true},
		},
		{
			name: "assigned values",
			args: []string{"--log-level=trace", "--log-time=kitchen"},
			want: logConfig{Level: "trace", TimeLayout: "kitchen", Pretty: true},
		},
		{
			name: "booleans",
			args: []string{"--no-log-pretty", "--log-caller"},
			want: logConfig{Caller: true},
		},
		{
			name: "assigned booleans",
			args: []string{"--log-pretty=false", "--no-log-caller=false"},
			want: logConfig{Caller: true},
		},
		{
			name: "missing value",
			args: []string{"--log-level", "--log-caller"},
			want: logConfig{Caller: true, Pretty: true},
		},
		{
			name: "stops at double dash",
			args: []string{"--", "--log-level=error"},
			want: logConfig{Pretty: true},
		},
		{
			name: "ignores negated text flag",
			args: []string{"--no-log-level=debug", "--log-other"},
			want: logConfig{Pretty: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := logConfig{Pretty: true}
			f.scan(tt.args)

			if f != tt.want {
				t.Errorf("scan(%v) = %+v, want %+v", tt.args, f, tt.want)
			}
		})
	}
}

func TestLogConfig_ScanConfiguresLogger(t *testing.T) {
	t.Cleanup(func() { log.Config(log.WithDefaults(os.Stderr)) })

	var f logConfig

	f.scan([]string{"--log-level=warn", "--log-format=json"})

	if got := log.Default().Level(); got != log.LevelWarn {
		t.Errorf("level = %v", got)
	}

	if got := log.Default().Format(); got != log.FormatJSON {
		t.Errorf("format = %v", got)
	}
}

func TestLogConfig_Vars(t *testing.T) {
	vars := (&logConfig{}).vars()

	if vars["logLevel"] != "info" || vars["logFormat"] != "text" {
		t.Errorf("defaults = %v", vars)
	}

	if vars["logLevelEnum"] != "trace,debug,info,warn,error" {
		t.Errorf("level enum = %q", vars["logLevelEnum"])
	}
}
