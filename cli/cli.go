package cli

import (
	"context"
	"log/slog"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/ardnew/marq/cli/cmd"
	"github.com/ardnew/marq/log"
	"github.com/ardnew/marq/pkg"
)

// CLI is the top-level command-line interface for marq.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Parse  cmd.Parse  `cmd:"" default:"withargs" help:"Parse markup and print its tree."`
	Check  cmd.Check  `cmd:""                    help:"Report diagnostics for markup sources."`
	Tokens cmd.Tokens `cmd:""                    help:"Print the token stream of a source."`
	Repl   cmd.Repl   `cmd:""                    help:"Start an interactive parse loop."`
}

// Run executes the marq CLI with the given context and arguments.
// The exit function is called with the appropriate exit code when kong
// exits early, e.g. after printing help.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
		"version":            pkg.Name + " " + pkg.Version,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before kong reports anything.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(loadYAML, configFilePath+".yaml", configFilePath+".yml"),
		kong.Configuration(loadTOML, configFilePath+".toml"),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	defer cli.Log.start(ctx)()

	// Every record logged by a command carries the id of this run.
	logger := log.Default().With(slog.String("run", uuid.NewString()))

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithLogger(ctx, logger)

	// [pprofConfig.start] is a no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	logger.DebugContext(ctx, "run command", slog.String("command", ktx.Command()))

	return ktx.Run()
}
