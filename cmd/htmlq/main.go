// Command htmlq parses HTML documents and prints the elements matched by
// CSS selectors.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/htmltree/config"
)

// initializeAppContext loads configuration and prepares the logger after
// the command line has been parsed.
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error
	env := envFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		env.Cfg.Logging.Debug()
	}
	env.Log = env.Cfg.Logging.Prepare(nil)

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("runtime", runtime.Version()))
	if len(configFile) == 0 {
		env.Log.Debug("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := envFromContext(ctx)

	if er := env.Out.Flush(); er != nil {
		err = multierr.Append(err, fmt.Errorf("unable to write results: %w", er))
	}
	env.Log.Debug("Program ended", zap.Duration("elapsed", env.uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	// Syncing a console is allowed to fail.
	_ = env.Log.Sync()
	return err
}

var errWasHandled bool

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := envFromContext(ctx)
	if env.Cfg != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = env.Cfg.Logging.ConsoleLogger.Level != "none"
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func newApp() *cli.Command {
	formatFlag := &cli.StringFlag{Name: "format", Aliases: []string{"f"},
		Usage: "output `FORMAT`: html, text or count (overrides configuration)"}
	firstFlag := &cli.BoolFlag{Name: "first", Usage: "print only the first match of every selector"}

	return &cli.Command{
		Name:            "htmlq",
		Usage:           "query HTML documents with CSS selectors",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log at debug level"},
		},
		Commands: []*cli.Command{
			{
				Name:         "select",
				Usage:        "Prints elements of a document matched by selectors",
				OnUsageError: usageErrorHandler,
				Action:       runSelect,
				Flags:        []cli.Flag{formatFlag, firstFlag},
				ArgsUsage:    "DOCUMENT SELECTOR...",
			},
			{
				Name:         "fragment",
				Usage:        "Parses a document as a fragment and prints elements matched by a selector",
				OnUsageError: usageErrorHandler,
				Action:       runFragment,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "context", Value: "body", Usage: "`NAME` of the context element, with optional svg: or math: prefix"},
					formatFlag, firstFlag,
				},
				ArgsUsage: "DOCUMENT SELECTOR",
			},
			{
				Name:         "specificity",
				Usage:        "Prints the specificity of every selector of a list",
				OnUsageError: usageErrorHandler,
				Action:       runSpecificity,
				ArgsUsage:    "SELECTORS",
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "[DESTINATION]",
			},
		},
	}
}

func run(ctx context.Context, out io.Writer, args []string) error {
	return newApp().Run(contextWithEnv(ctx, out), args)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	var err error
	// os.Exit is called at the end of main, no other deferred functions
	// may follow.
	defer func() {
		stop()
		if err != nil {
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = run(ctx, os.Stdout, os.Args)
}
