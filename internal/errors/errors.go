package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Process exit codes. Scripts branch on these, so each failure class
// keeps a stable number.
const (
	ExitSuccess       = 0
	ExitErrorGeneric  = 1
	ExitErrorTimeout  = 2
	ExitErrorMismatch = 3 // engines disagreed on a result
	ExitErrorConfig   = 4
	ExitErrorCanceled = 130 // interrupted, conventionally 128+SIGINT
)

// ConfigError reports unusable user input: bad flags, out-of-range
// widths, unparseable operands.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError builds a ConfigError from a format string.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ComputationError marks a failure that happened while a machine was
// running, as opposed to one caught during validation. The cause stays
// reachable through Unwrap for errors.Is and errors.As.
type ComputationError struct {
	Cause error
}

func (e ComputationError) Error() string { return e.Cause.Error() }
func (e ComputationError) Unwrap() error { return e.Cause }

// TimeoutError names the operation that exceeded its time budget and
// the budget itself, which a bare context.DeadlineExceeded cannot.
type TimeoutError struct {
	Operation string
	Limit     time.Duration
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("%s did not finish within %s", e.Operation, e.Limit)
}

// ValidationError identifies the field that failed validation together
// with a human-readable reason.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// WrapError prefixes err with formatted context, keeping the chain
// intact via %w. A nil err stays nil so call sites can wrap
// unconditionally.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError reports whether err stems from context cancellation or
// an expired deadline.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ColorProvider supplies the ANSI sequences used when rendering errors
// to a terminal. A nil provider disables coloring entirely.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

// HandleComputationError renders a run failure to out and maps it to
// the process exit code. Cancellation, timeouts and configuration
// errors each keep their dedicated codes so scripts can tell them
// apart. err must be non-nil.
func HandleComputationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	red, yellow, reset := "", "", ""
	if colors != nil {
		red, yellow, reset = colors.Red(), colors.Yellow(), colors.Reset()
	}

	var timeoutErr TimeoutError
	var configErr ConfigError
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.As(err, &timeoutErr):
		fmt.Fprintf(out, "%sTimeout after %s: %v%s\n", yellow, duration.Round(time.Millisecond), err, reset)
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sCanceled after %s%s\n", yellow, duration.Round(time.Millisecond), reset)
		return ExitErrorCanceled
	case errors.As(err, &configErr):
		fmt.Fprintf(out, "%sConfiguration error: %v%s\n", red, err, reset)
		return ExitErrorConfig
	default:
		fmt.Fprintf(out, "%sComputation failed after %s: %v%s\n", red, duration.Round(time.Millisecond), err, reset)
		return ExitErrorGeneric
	}
}
