package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/agbru/alusim/internal/config"
	"github.com/agbru/alusim/internal/engine"
	"github.com/agbru/alusim/internal/orchestration"
)

// Single-lane runs announce the operation but not the batch line.
func TestPrintExecutionConfig(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	cfg := config.AppConfig{
		Op:      "add",
		Width:   64,
		Sets:    1,
		Timeout: time.Minute,
	}

	PrintExecutionConfig(cfg, &buf)

	output := buf.String()
	for _, want := range []string{"Execution Configuration", "add", "64", "logical processors"} {
		if !strings.Contains(output, want) {
			t.Errorf("config banner missing %q, got: %s", want, output)
		}
	}
	if strings.Contains(output, "Batch mode") {
		t.Error("Single-lane run should not print the batch line")
	}
}

// TestPrintExecutionConfigBatch checks the batch line for multi-lane runs.
func TestPrintExecutionConfigBatch(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	cfg := config.AppConfig{
		Op:      "mul",
		Width:   16,
		Sets:    64,
		Workers: 8,
		Timeout: time.Minute,
	}

	PrintExecutionConfig(cfg, &buf)

	if !strings.Contains(buf.String(), "Batch mode") {
		t.Errorf("Multi-lane run should print the batch line, got: %s", buf.String())
	}
}

func TestPrintExecutionMode(t *testing.T) {
	t.Parallel()
	registry := engine.NewRegistry()

	t.Run("Single engine mode", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		engines := orchestration.GetEnginesToRun("sequential", registry)

		PrintExecutionMode(engines, &buf)

		output := buf.String()
		if !strings.Contains(output, "Single run") {
			t.Errorf("Expected single-run mode description, got: %s", output)
		}
	})

	t.Run("Multiple engines mode", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		engines := orchestration.GetEnginesToRun("all", registry)

		PrintExecutionMode(engines, &buf)

		output := buf.String()
		if !strings.Contains(output, "Parallel comparison") {
			t.Errorf("Expected comparison mode description, got: %s", output)
		}
	})
}
