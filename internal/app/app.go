// Package app wires configuration, the engine, orchestration and the CLI
// into the polycalc command.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/agbru/polycalc/internal/calc"
	"github.com/agbru/polycalc/internal/cli"
	"github.com/agbru/polycalc/internal/config"
	apperrors "github.com/agbru/polycalc/internal/errors"
	"github.com/agbru/polycalc/internal/logging"
	"github.com/agbru/polycalc/internal/ui"
)

// Application is one polycalc invocation.
type Application struct {
	Config    config.AppConfig
	Registry  *calc.Registry
	ErrWriter io.Writer
	// In supplies cases and REPL commands when no input file is given.
	In io.Reader
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithRegistry replaces the built-in operation registry.
func WithRegistry(r *calc.Registry) AppOption {
	return func(a *Application) { a.Registry = r }
}

// WithInput replaces stdin.
func WithInput(r io.Reader) AppOption {
	return func(a *Application) { a.In = r }
}

// New parses args (program name first) into an Application.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, In: os.Stdin}
	for _, opt := range opts {
		opt(app)
	}
	if app.Registry == nil {
		app.Registry = calc.NewRegistry()
	}

	programName := "polycalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Registry.List())
	if err != nil {
		return nil, err
	}
	app.Config = config.ApplyAdaptiveJobs(cfg)
	return app, nil
}

// Run executes the configured mode and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		if err := cli.GenerateCompletion(out, a.Config.Completion, a.Registry.List()); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
			return apperrors.ExitErrorConfig
		}
		return apperrors.ExitSuccess
	}

	ui.InitTheme(a.Config.NoColor)
	switch {
	case a.Config.Verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case a.Config.Quiet:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if a.Config.ListModuli {
		cli.DisplayModuli(out)
		return apperrors.ExitSuccess
	}

	logger := logging.NewConsoleLogger(a.ErrWriter, "polycalc", a.Config.Verbose)
	if a.Config.Calibrate {
		return a.runCalibrate(ctx, out, logger)
	}
	a.applyCalibrationProfile(logger)
	if a.Config.REPL {
		return a.runREPL(out, logger)
	}
	return a.runCalculate(ctx, out, logger)
}

func (a *Application) runREPL(out io.Writer, logger *logging.ZerologAdapter) int {
	repl, err := cli.NewREPL(a.Registry, cli.REPLConfig{
		Modulus:       a.Config.Modulus,
		Precision:     a.Config.Precision,
		Exponent:      a.Config.Exponent,
		Timeout:       a.Config.Timeout,
		EngineOptions: a.Config.ToEngineOptions(logger.Zerolog()),
	})
	if err != nil {
		return cli.DisplayError(a.ErrWriter, err)
	}
	repl.SetInput(a.In)
	repl.SetOutput(out)
	repl.Start()
	return apperrors.ExitSuccess
}

// IsHelpError reports whether err came from -h/-help.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
