// Package config defines the polycalc configuration, its command-line
// parsing and the environment variable overrides.
package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/polycalc/internal/errors"
	"github.com/agbru/polycalc/internal/field"
	"github.com/agbru/polycalc/internal/poly"
	"github.com/rs/zerolog"
)

// EnvPrefix is prepended to every environment variable read by the
// configuration layer.
const EnvPrefix = "POLYCALC_"

// Default values for the command-line flags.
const (
	DefaultOp      = "exp"
	DefaultModulus = 998244353
	DefaultTimeout = 5 * time.Minute
)

// AppConfig aggregates the settings of one polycalc run.
type AppConfig struct {
	// Op is the operation applied to every input case.
	Op string
	// Modulus is the prime field the engine works in.
	Modulus uint64
	// Precision is the series length t; 0 means the length of each case's
	// first operand.
	Precision int
	// Exponent is k for pow.
	Exponent uint64
	// InputFile is read instead of stdin when set.
	InputFile string
	// OutputFile receives the results instead of stdout when set.
	OutputFile string
	// Jobs bounds the number of cases computed concurrently; 0 means
	// adaptive.
	Jobs int
	// Timeout bounds the whole run.
	Timeout time.Duration
	// SchoolbookThreshold and HornerThreshold tune Rem and MultiEval.
	SchoolbookThreshold int
	HornerThreshold     int

	Quiet      bool
	Verbose    bool
	Details    bool
	Metrics    bool
	NoColor    bool
	REPL       bool
	// TUI shows the batch on a full-screen dashboard.
	TUI        bool
	ListModuli bool
	// Completion names a shell to print a completion script for.
	Completion string
	// Calibrate measures the thresholds instead of running an operation.
	Calibrate bool
	// CalibrationProfile is where calibrated thresholds are saved and
	// loaded from.
	CalibrationProfile string

	thresholdsSet bool
}

// ParseConfig parses args into an AppConfig. Environment variables fill
// any flag not given on the command line. Usage and parse errors are
// written to errorOutput.
//
// Parameters:
//   - programName: Name shown in usage output.
//   - args: Command-line arguments without the program name.
//   - errorOutput: Destination for usage and error messages.
//   - availableOps: Operation names accepted by -op.
//
// Returns:
//   - AppConfig: The parsed configuration.
//   - error: flag.ErrHelp for -h, a parse error, or a ConfigError.
func ParseConfig(programName string, args []string, errorOutput io.Writer, availableOps []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorOutput)

	cfg := AppConfig{}
	fs.StringVar(&cfg.Op, "op", DefaultOp, fmt.Sprintf("Operation: %s.", strings.Join(availableOps, ", ")))
	fs.Uint64Var(&cfg.Modulus, "mod", DefaultModulus, "Prime modulus (see -list-moduli).")
	fs.IntVar(&cfg.Precision, "t", 0, "Series precision t (0 uses the input length).")
	fs.Uint64Var(&cfg.Exponent, "k", 1, "Exponent for pow.")
	fs.StringVar(&cfg.InputFile, "input", "", "Read cases from this file instead of stdin.")
	fs.StringVar(&cfg.InputFile, "i", "", "Shorthand for -input.")
	fs.StringVar(&cfg.OutputFile, "output", "", "Write results to this file instead of stdout.")
	fs.StringVar(&cfg.OutputFile, "o", "", "Shorthand for -output.")
	fs.IntVar(&cfg.Jobs, "jobs", 0, "Maximum cases computed concurrently (0 = number of CPUs).")
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "Maximum duration of the run.")
	fs.IntVar(&cfg.SchoolbookThreshold, "schoolbook-threshold", poly.DefaultSchoolbookThreshold,
		"Divisor degree at or below which remainders use long division.")
	fs.IntVar(&cfg.HornerThreshold, "horner-threshold", poly.DefaultHornerThreshold,
		"Point count at or below which evaluation uses Horner's rule.")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Print results only.")
	fs.BoolVar(&cfg.Quiet, "q", false, "Shorthand for -quiet.")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Enable debug logging.")
	fs.BoolVar(&cfg.Verbose, "v", false, "Shorthand for -verbose.")
	fs.BoolVar(&cfg.Details, "details", false, "Print a run summary and system details.")
	fs.BoolVar(&cfg.Details, "d", false, "Shorthand for -details.")
	fs.BoolVar(&cfg.Metrics, "metrics", false, "Dump Prometheus metrics to stderr after the run.")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output.")
	fs.BoolVar(&cfg.REPL, "repl", false, "Start the interactive shell.")
	fs.BoolVar(&cfg.TUI, "tui", false, "Show the batch on a full-screen dashboard.")
	fs.BoolVar(&cfg.ListModuli, "list-moduli", false, "List the supported moduli and exit.")
	fs.StringVar(&cfg.Completion, "completion", "", "Print a shell completion script (bash, zsh, fish) and exit.")
	fs.BoolVar(&cfg.Calibrate, "calibrate", false, "Measure the schoolbook and Horner thresholds and exit.")
	fs.StringVar(&cfg.CalibrationProfile, "calibration-profile", "",
		"Save calibrated thresholds to, and load them from, this file.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	applyEnvOverrides(&cfg, fs)
	cfg.thresholdsSet = anySet(setFlags(fs), "schoolbook-threshold", "horner-threshold") ||
		os.Getenv(EnvPrefix+"SCHOOLBOOK_THRESHOLD") != "" || os.Getenv(EnvPrefix+"HORNER_THRESHOLD") != ""
	cfg.Op = strings.ToLower(cfg.Op)

	if err := cfg.Validate(availableOps); err != nil {
		fmt.Fprintln(errorOutput, err)
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values no run could succeed with.
func (c AppConfig) Validate(availableOps []string) error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be positive, got %s", c.Timeout)
	}
	if c.Precision < 0 {
		return apperrors.NewConfigError("precision must not be negative, got %d", c.Precision)
	}
	if c.Jobs < 0 {
		return apperrors.NewConfigError("jobs must not be negative, got %d", c.Jobs)
	}
	if c.ListModuli || c.Completion != "" {
		return nil
	}
	if _, err := field.Lookup(c.Modulus); err != nil {
		return apperrors.NewConfigError("unsupported modulus %d (see -list-moduli)", c.Modulus)
	}
	if !c.REPL && len(availableOps) > 0 && !slices.Contains(availableOps, c.Op) {
		return apperrors.NewConfigError("unknown operation %q; choose one of: %s",
			c.Op, strings.Join(availableOps, ", "))
	}
	return nil
}

// WithCalibratedThresholds returns c with the given thresholds, unless the
// user set either threshold explicitly by flag or environment.
func (c AppConfig) WithCalibratedThresholds(schoolbook, horner int) AppConfig {
	if c.thresholdsSet {
		return c
	}
	c.SchoolbookThreshold = schoolbook
	c.HornerThreshold = horner
	return c
}

// ToEngineOptions converts the tuning flags into polynomial options. The
// logger receives the engine's debug events.
func (c AppConfig) ToEngineOptions(logger zerolog.Logger) []poly.Option {
	return []poly.Option{
		poly.WithSchoolbookThreshold(c.SchoolbookThreshold),
		poly.WithHornerThreshold(c.HornerThreshold),
		poly.WithLogger(logger),
	}
}
