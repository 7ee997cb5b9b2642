package format

import (
	"strings"
	"testing"
	"time"
)

func TestProgressState(t *testing.T) {
	t.Parallel()

	t.Run("average over a partial comparison", func(t *testing.T) {
		t.Parallel()
		ps := NewProgressState(2)
		ps.Update(0, 0.5)
		ps.Update(1, 1.0)
		if avg := ps.CalculateAverage(); avg != 0.75 {
			t.Errorf("average = %f, want 0.75", avg)
		}
	})

	t.Run("fresh state reads zero", func(t *testing.T) {
		t.Parallel()
		ps := NewProgressState(3)
		if len(ps.progresses) != 3 {
			t.Fatalf("progresses length = %d, want 3", len(ps.progresses))
		}
		if avg := ps.CalculateAverage(); avg != 0 {
			t.Errorf("average = %f, want 0 before any update", avg)
		}
	})

	t.Run("zero engines never divide", func(t *testing.T) {
		t.Parallel()
		ps := NewProgressState(0)
		if avg := ps.CalculateAverage(); avg != 0 {
			t.Errorf("average = %f, want 0", avg)
		}
	})

	t.Run("negative size is treated as empty", func(t *testing.T) {
		t.Parallel()
		ps := NewProgressState(-3)
		ps.Update(0, 0.5)
		if avg := ps.CalculateAverage(); avg != 0 {
			t.Errorf("average = %f, want 0", avg)
		}
	})

	t.Run("updates are clamped and stray indexes dropped", func(t *testing.T) {
		t.Parallel()
		ps := NewProgressState(2)
		ps.Update(0, 1.5)
		ps.Update(1, -0.5)
		ps.Update(9, 1.0)
		ps.Update(-1, 1.0)
		// Clamped to [1.0, 0.0], strays ignored.
		if avg := ps.CalculateAverage(); avg != 0.5 {
			t.Errorf("average = %f, want 0.5", avg)
		}
	})
}

func TestProgressWithETA(t *testing.T) {
	t.Parallel()

	t.Run("construction primes the clock", func(t *testing.T) {
		t.Parallel()
		p := NewProgressWithETA(3)
		if p.ProgressState == nil {
			t.Fatal("embedded state missing")
		}
		if p.startTime.IsZero() {
			t.Error("start time not recorded")
		}
		if p.progressRate != 0 {
			t.Errorf("rate = %f, want 0 before any sample", p.progressRate)
		}
	})

	t.Run("averages track two engines", func(t *testing.T) {
		t.Parallel()
		p := NewProgressWithETA(2)

		avg, eta := p.UpdateWithETA(0, 0.25)
		if avg != 0.125 {
			t.Errorf("average = %f, want 0.125", avg)
		}
		if eta < 0 {
			t.Errorf("ETA = %v, must never be negative", eta)
		}

		if avg, _ = p.UpdateWithETA(1, 0.5); avg != 0.375 {
			t.Errorf("average = %f, want 0.375", avg)
		}
	})

	t.Run("estimate follows the injected rate", func(t *testing.T) {
		t.Parallel()
		p := NewProgressWithETA(1)
		p.Update(0, 0.5)
		p.progressRate = 0.1 // half remaining at 10%/s is five seconds out

		eta := p.GetETA()
		if eta < 4*time.Second || eta > 6*time.Second {
			t.Errorf("ETA = %v, want about 5s", eta)
		}
	})

	t.Run("no estimate before the first sample", func(t *testing.T) {
		t.Parallel()
		p := NewProgressWithETA(1)
		if eta := p.GetETA(); eta != 0 {
			t.Errorf("ETA = %v, want 0", eta)
		}
	})

	t.Run("crawling rate is capped at a day", func(t *testing.T) {
		t.Parallel()
		p := NewProgressWithETA(1)
		p.Update(0, 0.001)
		p.progressRate = 1e-7

		if eta := p.GetETA(); eta > 24*time.Hour {
			t.Errorf("ETA = %v, want the 24h cap", eta)
		}
	})

	t.Run("finished run has nothing remaining", func(t *testing.T) {
		t.Parallel()
		p := NewProgressWithETA(1)
		p.Update(0, 1.0)
		p.progressRate = 0.5

		if eta := p.GetETA(); eta != 0 {
			t.Errorf("ETA = %v, want 0 at completion", eta)
		}
	})
}

func TestFormatETA(t *testing.T) {
	t.Parallel()
	tests := []struct {
		eta  time.Duration
		want string
	}{
		{0, "estimating..."},
		{-time.Second, "estimating..."},
		{350 * time.Millisecond, "< 1s"},
		{time.Second, "1s"},
		{45 * time.Second, "45s"},
		{time.Minute, "1m"},
		{2*time.Minute + 30*time.Second, "2m30s"},
		{time.Hour, "1h"},
		{time.Hour + 15*time.Minute, "1h15m"},
		{3*time.Hour + 45*time.Minute, "3h45m"},
		{2 * time.Hour, "2h"},
	}

	for _, tt := range tests {
		if got := FormatETA(tt.eta); got != tt.want {
			t.Errorf("FormatETA(%v) = %q, want %q", tt.eta, got, tt.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	t.Parallel()
	tests := []struct {
		progress float64
		length   int
		want     string
	}{
		{0.0, 8, "░░░░░░░░"},
		{0.25, 8, "██░░░░░░"},
		{1.0, 8, "████████"},
		{1.7, 8, "████████"},
		{-0.3, 8, "░░░░░░░░"},
	}

	for _, tt := range tests {
		if got := ProgressBar(tt.progress, tt.length); got != tt.want {
			t.Errorf("ProgressBar(%v, %d) = %q, want %q", tt.progress, tt.length, got, tt.want)
		}
	}
}

func TestFormatProgressBarWithETA(t *testing.T) {
	t.Parallel()

	line := FormatProgressBarWithETA(0.5, 30*time.Second, 10)
	for _, part := range []string{"[", "]", "50.0%", "ETA: 30s"} {
		if !strings.Contains(line, part) {
			t.Errorf("progress line %q is missing %q", line, part)
		}
	}
}

func TestFormatNumberString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"7", "7"},
		{"256", "256"},
		{"65536", "65,536"},
		{"4294967296", "4,294,967,296"},
		{"-65536", "-65,536"},
		{"+1024", "+1,024"},
	}

	for _, tt := range tests {
		if got := FormatNumberString(tt.in); got != tt.want {
			t.Errorf("FormatNumberString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
