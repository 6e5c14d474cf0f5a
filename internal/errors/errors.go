package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess         = 0   // Indicates successful execution.
	ExitErrorGeneric    = 1   // Indicates a generic error.
	ExitErrorTimeout    = 2   // Indicates the operation timed out.
	ExitErrorConfig     = 4   // Indicates a configuration error.
	ExitErrorArithmetic = 5   // Indicates a violated arithmetic contract (division by zero, bad precondition).
	ExitErrorCanceled   = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// Arithmetic error kinds. They are programming-contract violations of the
// polynomial engine, never transient conditions: callers must not retry.
// Every error returned by the engine wraps exactly one of them, so they can be
// matched with errors.Is.
var (
	// ErrUnsupportedModulus reports a modulus without a registered primitive root.
	ErrUnsupportedModulus = errors.New("unsupported modulus")
	// ErrInvalidTransformSize reports a transform length that is not a power
	// of two or does not divide modulus-1.
	ErrInvalidTransformSize = errors.New("invalid transform size")
	// ErrDivisionByZero reports a zero scalar or polynomial divisor, or a series
	// whose constant term must be invertible but is zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrNoInverseExists reports gcd(residue, modulus) != 1.
	ErrNoInverseExists = errors.New("no inverse exists")
	// ErrPreconditionViolated reports a series whose constant term does not
	// have the value the operator requires (log needs 1, exp needs 0).
	ErrPreconditionViolated = errors.New("precondition violated")
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ArithmeticError is returned by the field, transform and polynomial layers.
// Kind is one of the Err* sentinels above; Op names the failing operation.
type ArithmeticError struct {
	// Op is the operation that detected the violation (e.g. "poly.Log").
	Op string
	// Kind is the sentinel describing the class of violation.
	Kind error
	// Detail is an optional human-readable explanation.
	Detail string
}

// Error returns "op: kind" or "op: kind: detail".
func (e ArithmeticError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Detail)
}

// Unwrap returns the sentinel kind so errors.Is matches it.
func (e ArithmeticError) Unwrap() error { return e.Kind }

// NewArithmeticError builds an ArithmeticError with a formatted detail.
//
// Parameters:
//   - op: The failing operation.
//   - kind: One of the Err* sentinels.
//   - format: A format string for the detail (may be empty).
//   - a: Arguments to be formatted into the detail.
//
// Returns:
//   - error: The ArithmeticError.
func NewArithmeticError(op string, kind error, format string, a ...any) error {
	detail := ""
	if format != "" {
		detail = fmt.Sprintf(format, a...)
	}
	return ArithmeticError{Op: op, Kind: kind, Detail: detail}
}

// IsArithmeticError reports whether err wraps one of the arithmetic kinds.
func IsArithmeticError(err error) bool {
	var ae ArithmeticError
	return errors.As(err, &ae)
}

// CalculationError encapsulates the failure of one job while preserving the
// original cause. This allows for structured error handling and inspection
// of what went wrong in a given input case.
type CalculationError struct {
	// Job is the zero-based index of the failing input case.
	Job int
	// Cause is the underlying error that triggered this calculation error.
	Cause error
}

// Error returns the error message prefixed with the job number.
func (e CalculationError) Error() string {
	return fmt.Sprintf("case %d: %v", e.Job+1, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e CalculationError) Unwrap() error { return e.Cause }

// TimeoutError represents a calculation timeout. It captures the operation
// name and the duration limit that was exceeded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps an error to the process exit code.
//
// Parameters:
//   - err: The error to classify (nil maps to ExitSuccess).
//
// Returns:
//   - int: One of the Exit* constants.
func ExitCodeFor(err error) int {
	var cfgErr ConfigError
	var timeoutErr TimeoutError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &cfgErr):
		return ExitErrorConfig
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case IsArithmeticError(err):
		return ExitErrorArithmetic
	default:
		return ExitErrorGeneric
	}
}
