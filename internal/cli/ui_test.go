package cli

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/briandowns/spinner"
	"github.com/golang/mock/gomock"

	"github.com/agbru/alusim/internal/bitvec"
	"github.com/agbru/alusim/internal/cli/mocks"
	"github.com/agbru/alusim/internal/comb"
	"github.com/agbru/alusim/internal/engine"
	"github.com/agbru/alusim/internal/orchestration"
	"github.com/agbru/alusim/internal/ui"
)

// MockSpinner records lifecycle calls. repl tests reuse it as a silent
// stand-in for the terminal spinner.
type MockSpinner struct {
	started bool
	stopped bool
	suffix  string
}

func (m *MockSpinner) Start()                     { m.started = true }
func (m *MockSpinner) Stop()                      { m.stopped = true }
func (m *MockSpinner) UpdateSuffix(suffix string) { m.suffix = suffix }

// swapSpinner installs a fake spinner constructor until the test ends.
func swapSpinner(t *testing.T, s Spinner) {
	t.Helper()
	prev := newSpinner
	newSpinner = func(...spinner.Option) Spinner { return s }
	t.Cleanup(func() { newSpinner = prev })
}

// addResult builds a small completed add result for display tests.
func addResult(width int, low uint64, ticks uint64) *engine.Result {
	return &engine.Result{
		Opcode: comb.OpAdd,
		Width:  width,
		High:   bitvec.New(width),
		Low:    bitvec.FromUint64(width, low),
		Ticks:  ticks,
	}
}

func TestDisplayResult(t *testing.T) {
	ui.InitTheme(false)

	wide := &engine.Result{
		Opcode: comb.OpAdd,
		Width:  512,
		High:   bitvec.New(512),
		Low:    bitvec.Fill(512, true),
		Ticks:  514,
	}

	tests := []struct {
		name        string
		result      *engine.Result
		verbose     bool
		details     bool
		contains    []string
		notContains []string
	}{
		{
			name:     "standard result",
			result:   addResult(8, 13, 10),
			contains: []string{"Operation", "bits completed in", "low", "high", "(carry)"},
		},
		{
			name:     "details block",
			result:   addResult(8, 13, 10),
			details:  true,
			contains: []string{"Run analysis", "Execution time", "Clock ticks", "Nominal ticks", "Result bit width"},
		},
		{
			name:     "wide buses truncate by default",
			result:   wide,
			contains: []string{"(truncated)", "Tip: use"},
		},
		{
			name:        "verbose prints wide buses in full",
			result:      wide,
			verbose:     true,
			notContains: []string{"(truncated)", "Tip: use"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			DisplayResult(tt.result, time.Millisecond, tt.verbose, tt.details, &buf)
			got := buf.String()
			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Errorf("display is missing %q:\n%s", s, got)
				}
			}
			for _, s := range tt.notContains {
				if strings.Contains(got, s) {
					t.Errorf("display should not show %q:\n%s", s, got)
				}
			}
		})
	}
}

func TestDisplayResultNil(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	DisplayResult(nil, time.Second, false, false, &buf)
	if buf.Len() != 0 {
		t.Errorf("nil result should produce no output, got %q", buf.String())
	}
}

func TestFlagLabel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		op   comb.Opcode
		want string
	}{
		{comb.OpAdd, "carry"},
		{comb.OpSub, "borrow"},
		{comb.OpMul, "overflow"},
		{comb.OpDiv, "zero divisor"},
		{comb.OpShiftLogical, "overflow"},
		{comb.OpShiftArithmetic, "overflow"},
		{comb.OpLessThan, "comparison"},
		{comb.OpGreaterThan, "comparison"},
		{comb.OpEqual, "comparison"},
		{comb.OpAnd, "zero"},
		{comb.OpOr, "zero"},
		{comb.OpXor, "zero"},
		{comb.OpNot, "zero"},
		{comb.OpNoOp, "none"},
	}

	for _, tt := range tests {
		if got := flagLabel(tt.op); got != tt.want {
			t.Errorf("flagLabel(%s) = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestTermSpinner(t *testing.T) {
	t.Parallel()
	ts := &termSpinner{spinner.New(spinner.CharSets[11], 100*time.Millisecond)}

	ts.Start()
	ts.UpdateSuffix(" busy")
	ts.Stop()
	if ts.s.Suffix != " busy" {
		t.Errorf("suffix did not reach the wrapped spinner: %q", ts.s.Suffix)
	}
}

func TestColorsFollowTheme(t *testing.T) {
	defer ui.SetTheme("dark")

	colorFns := map[string]func() string{
		"Reset":     ui.ColorReset,
		"Red":       ui.ColorRed,
		"Green":     ui.ColorGreen,
		"Yellow":    ui.ColorYellow,
		"Blue":      ui.ColorBlue,
		"Magenta":   ui.ColorMagenta,
		"Cyan":      ui.ColorCyan,
		"Bold":      ui.ColorBold,
		"Underline": ui.ColorUnderline,
	}

	ui.SetTheme("dark")
	for name, fn := range colorFns {
		if got := fn(); !strings.HasPrefix(got, "\033[") {
			t.Errorf("%s = %q under the dark theme, want an ANSI sequence", name, got)
		}
	}

	ui.SetTheme("none")
	for name, fn := range colorFns {
		if got := fn(); got != "" {
			t.Errorf("%s = %q with colors disabled, want empty", name, got)
		}
	}
}

func TestDisplayProgress(t *testing.T) {
	fake := &MockSpinner{}
	swapSpinner(t, fake)

	updates := make(chan orchestration.ProgressUpdate, 2)
	updates <- orchestration.ProgressUpdate{EngineIndex: 0, Value: 0.5}
	updates <- orchestration.ProgressUpdate{EngineIndex: 0, Value: 1.0}
	close(updates)

	var wg sync.WaitGroup
	wg.Add(1)
	DisplayProgress(&wg, updates, 1, io.Discard)
	wg.Wait()

	if !fake.started || !fake.stopped {
		t.Errorf("spinner lifecycle: started=%v stopped=%v", fake.started, fake.stopped)
	}
	// The display parks the bar at 100% before stopping.
	if !strings.Contains(fake.suffix, "100.0%") {
		t.Errorf("final suffix = %q, want the parked bar", fake.suffix)
	}
}

func TestDisplayProgress_ZeroEngines(t *testing.T) {
	updates := make(chan orchestration.ProgressUpdate)
	close(updates)

	var wg sync.WaitGroup
	wg.Add(1)
	DisplayProgress(&wg, updates, 0, io.Discard)
	wg.Wait()
}

func TestDisplayProgress_GeneratedMock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockS := mocks.NewMockSpinner(ctrl)
	mockS.EXPECT().Start()
	mockS.EXPECT().UpdateSuffix(gomock.Any()).MinTimes(1)
	mockS.EXPECT().Stop()
	swapSpinner(t, mockS)

	updates := make(chan orchestration.ProgressUpdate, 1)
	updates <- orchestration.ProgressUpdate{EngineIndex: 0, Value: 1.0}
	close(updates)

	var wg sync.WaitGroup
	wg.Add(1)
	DisplayProgress(&wg, updates, 1, io.Discard)
	wg.Wait()
}
