package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// lastEntry decodes the final JSON line the logger wrote.
func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v\n%s", err, buf.String())
	}
	return entry
}

func TestFieldConstructors(t *testing.T) {
	cases := []struct {
		name string
		got  Field
		want Field
	}{
		{"String", String("engine", "sequential"), Field{"engine", "sequential"}},
		{"Int", Int("width", 64), Field{"width", 64}},
		{"Int64", Int64("delta", -9), Field{"delta", int64(-9)}},
		{"Uint64", Uint64("ticks", 12345678901234567890), Field{"ticks", uint64(12345678901234567890)}},
		{"Float64", Float64("seconds", 3.14159), Field{"seconds", 3.14159}},
		{"Bool", Bool("done", true), Field{"done", true}},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("%s built %+v, want %+v", tc.name, tc.got, tc.want)
		}
	}

	cause := errors.New("bus fault")
	if f := Err(cause); f.Key != "error" || f.Value != cause {
		t.Errorf("Err built %+v, want the cause under the error key", f)
	}
}

func TestZerologAdapter_LevelRouting(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerologAdapter(zerolog.New(&buf).Level(zerolog.DebugLevel))

	log.Debug("fetch")
	log.Info("decode")
	log.Warn("stall")
	log.Error("fault", errors.New("bus hung"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("wrote %d lines, want 4", len(lines))
	}
	want := []struct{ level, msg string }{
		{"debug", "fetch"},
		{"info", "decode"},
		{"warn", "stall"},
		{"error", "fault"},
	}
	for i, line := range lines {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("line %d is not JSON: %v", i, err)
		}
		if entry["level"] != want[i].level || entry["message"] != want[i].msg {
			t.Errorf("line %d = %s, want level %q message %q", i, line, want[i].level, want[i].msg)
		}
	}

	entry := lastEntry(t, &buf)
	if entry["error"] != "bus hung" {
		t.Errorf("error line is missing the cause: %v", entry)
	}
}

func TestZerologAdapter_ErrorWithNilCause(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "server")

	log.Error("degraded", nil)

	entry := lastEntry(t, &buf)
	if entry["level"] != "error" || entry["message"] != "degraded" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if _, ok := entry["error"]; ok {
		t.Error("nil cause should not produce an error field")
	}
}

func TestZerologAdapter_FieldTypes(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "datapath")

	log.Info("snapshot",
		String("op", "div"),
		Int("lane", 3),
		Int64("delta", -9),
		Uint64("low", 18446744073709551615),
		Float64("mhz", 4.77),
		Bool("halt", false),
		Err(errors.New("remainder lost")),
		Field{Key: "aux", Value: struct{ X int }{X: 1}},
	)

	entry := lastEntry(t, &buf)
	checks := map[string]any{
		"component": "datapath",
		"message":   "snapshot",
		"op":        "div",
		"lane":      float64(3),
		"delta":     float64(-9),
		"mhz":       4.77,
		"halt":      false,
		"error":     "remainder lost",
	}
	for key, want := range checks {
		if entry[key] != want {
			t.Errorf("entry[%q] = %v, want %v", key, entry[key], want)
		}
	}
	if _, ok := entry["time"]; !ok {
		t.Error("entry is missing the timestamp")
	}
	// The max uint64 exceeds float64 precision, so check the raw digits.
	if !strings.Contains(buf.String(), "18446744073709551615") {
		t.Error("uint64 field lost precision in the output")
	}
	aux, ok := entry["aux"].(map[string]any)
	if !ok || aux["X"] != float64(1) {
		t.Errorf("fallback field serialized as %v", entry["aux"])
	}
}

func TestZerologAdapter_PrintfPrintln(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "repl")

	log.Printf("bank %d of %d", 2, 4)
	if entry := lastEntry(t, &buf); entry["message"] != "bank 2 of 4" {
		t.Errorf("Printf message = %v", entry["message"])
	}

	buf.Reset()
	log.Println("prompt", "ready")
	// Sprintln keeps its trailing newline inside the message.
	if entry := lastEntry(t, &buf); entry["message"] != "prompt ready\n" {
		t.Errorf("Println message = %q", entry["message"])
	}
}

func TestSetGlobalLevel(t *testing.T) {
	defer SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	log := NewLogger(&buf, "config")

	SetGlobalLevel(zerolog.WarnLevel)
	log.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info should be suppressed at warn level, got %s", buf.String())
	}
	log.Warn("visible")
	if entry := lastEntry(t, &buf); entry["message"] != "visible" {
		t.Errorf("warn entry = %v", entry)
	}
}

func TestNewDefaultLogger(t *testing.T) {
	if NewDefaultLogger() == nil {
		t.Fatal("default logger is nil")
	}
}

func TestNopLogger(t *testing.T) {
	// Exercises every method so the no-op keeps satisfying the interface.
	var log Logger = NopLogger{}
	log.Debug("a")
	log.Info("b", Int("x", 1))
	log.Warn("c")
	log.Error("d", errors.New("e"))
	log.Printf("%d", 1)
	log.Println("f")
}
