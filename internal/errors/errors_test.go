package apperrors

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestConfigError(t *testing.T) {
	t.Parallel()

	t.Run("message passes through verbatim", func(t *testing.T) {
		t.Parallel()
		err := ConfigError{Message: "width out of range"}
		if got := err.Error(); got != "width out of range" {
			t.Errorf("Error() = %q", got)
		}
	})

	t.Run("constructor formats its arguments", func(t *testing.T) {
		t.Parallel()
		err := NewConfigError("sets must be at most %d, got %d", 1000, 2048)
		if got := err.Error(); got != "sets must be at most 1000, got 2048" {
			t.Errorf("Error() = %q", got)
		}
	})

	t.Run("recoverable via errors.As", func(t *testing.T) {
		t.Parallel()
		var cfgErr ConfigError
		if !errors.As(NewConfigError("bad width"), &cfgErr) {
			t.Fatal("errors.As failed to match ConfigError")
		}
	})
}

func TestComputationError(t *testing.T) {
	t.Parallel()

	cause := errors.New("machine never reached done")
	err := ComputationError{Cause: cause}

	if got := err.Error(); got != cause.Error() {
		t.Errorf("Error() = %q, want the cause's message", got)
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap() did not return the cause")
	}
	if !errors.Is(ComputationError{Cause: context.Canceled}, context.Canceled) {
		t.Error("errors.Is failed to see through ComputationError")
	}
}

func TestTimeoutError(t *testing.T) {
	t.Parallel()

	err := TimeoutError{Operation: "sequential run", Limit: 5 * time.Second}
	if got, want := err.Error(), "sequential run did not finish within 5s"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	// The trace path wraps the timeout before it reaches the exit-code
	// mapping, so errors.As has to find it through a wrap.
	var timeoutErr TimeoutError
	wrapped := WrapError(err, "trace add")
	if !errors.As(wrapped, &timeoutErr) {
		t.Fatal("errors.As failed to match TimeoutError through a wrap")
	}
	if timeoutErr.Limit != 5*time.Second {
		t.Errorf("Limit = %v after unwrapping, want 5s", timeoutErr.Limit)
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	err := ValidationError{Field: "width", Message: "must be between 1 and 1024"}
	want := "invalid width: must be between 1 and 1024"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	var validationErr ValidationError
	wrapped := WrapError(err, "parsing configuration")
	if !errors.As(wrapped, &validationErr) {
		t.Fatal("errors.As failed to match ValidationError through a wrap")
	}
	if validationErr.Field != "width" {
		t.Errorf("Field = %q after unwrapping, want %q", validationErr.Field, "width")
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()

	t.Run("adds context ahead of the cause", func(t *testing.T) {
		t.Parallel()
		base := errors.New("base error")
		wrapped := WrapError(base, "while ticking lane %d", 3)
		if got := wrapped.Error(); got != "while ticking lane 3: base error" {
			t.Errorf("Error() = %q", got)
		}
		if !errors.Is(wrapped, base) {
			t.Error("errors.Is lost the cause")
		}
	})

	t.Run("nil stays nil", func(t *testing.T) {
		t.Parallel()
		if err := WrapError(nil, "unused"); err != nil {
			t.Errorf("WrapError(nil) = %v", err)
		}
	})

	t.Run("stacked wraps keep the chain intact", func(t *testing.T) {
		t.Parallel()
		inner := WrapError(context.Canceled, "bank tick %d", 7)
		outer := WrapError(inner, "bank halted")
		if !errors.Is(outer, context.Canceled) {
			t.Error("context.Canceled lost after two wraps")
		}
	})
}

func TestIsContextError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"canceled", context.Canceled, true},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"wrapped canceled", WrapError(context.Canceled, "tick loop"), true},
		{"ordinary error", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		tc := tc // fresh variable per iteration for the parallel subtest (pre-1.22 loop semantics)
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := IsContextError(tc.err); got != tc.want {
				t.Errorf("IsContextError(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

type fakeColors struct{}

func (fakeColors) Red() string    { return "<r>" }
func (fakeColors) Yellow() string { return "<y>" }
func (fakeColors) Reset() string  { return "</>" }

func TestHandleComputationError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		err        error
		wantCode   int
		wantSubstr string
	}{
		{"deadline exceeded maps to timeout", context.DeadlineExceeded, ExitErrorTimeout, "Timeout"},
		{"timeout error maps to timeout", TimeoutError{Operation: "run", Limit: time.Second}, ExitErrorTimeout, "Timeout"},
		{"canceled maps to canceled", context.Canceled, ExitErrorCanceled, "Canceled"},
		{"config error maps to config", NewConfigError("bad width"), ExitErrorConfig, "Configuration"},
		{"anything else is generic", errors.New("boom"), ExitErrorGeneric, "boom"},
	}
	for _, tc := range cases {
		tc := tc // fresh variable per iteration for the parallel subtest (pre-1.22 loop semantics)
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var buf strings.Builder
			code := HandleComputationError(tc.err, 1500*time.Millisecond, &buf, nil)
			if code != tc.wantCode {
				t.Errorf("exit code = %d, want %d", code, tc.wantCode)
			}
			if !strings.Contains(buf.String(), tc.wantSubstr) {
				t.Errorf("output %q does not mention %q", buf.String(), tc.wantSubstr)
			}
		})
	}

	t.Run("color sequences bracket the message", func(t *testing.T) {
		t.Parallel()
		var buf strings.Builder
		HandleComputationError(errors.New("boom"), time.Second, &buf, fakeColors{})
		out := buf.String()
		if !strings.HasPrefix(out, "<r>") || !strings.Contains(out, "</>") {
			t.Errorf("output %q is missing the color sequences", out)
		}
	})
}

func TestExitCodes(t *testing.T) {
	t.Parallel()

	// The numeric values are part of the CLI contract.
	want := map[string]int{
		"ExitSuccess":       0,
		"ExitErrorGeneric":  1,
		"ExitErrorTimeout":  2,
		"ExitErrorMismatch": 3,
		"ExitErrorConfig":   4,
		"ExitErrorCanceled": 130,
	}
	got := map[string]int{
		"ExitSuccess":       ExitSuccess,
		"ExitErrorGeneric":  ExitErrorGeneric,
		"ExitErrorTimeout":  ExitErrorTimeout,
		"ExitErrorMismatch": ExitErrorMismatch,
		"ExitErrorConfig":   ExitErrorConfig,
		"ExitErrorCanceled": ExitErrorCanceled,
	}
	for name, code := range got {
		if code != want[name] {
			t.Errorf("%s = %d, want %d", name, code, want[name])
		}
	}
}
