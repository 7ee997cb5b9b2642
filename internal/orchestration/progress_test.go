package orchestration

import (
	"testing"
	"time"
)

func TestNewProgressAggregator(t *testing.T) {
	tests := []struct {
		name      string
		engines   int
		wantNil   bool
		wantMulti bool
	}{
		{"three-way comparison", 3, false, true},
		{"single engine", 1, false, false},
		{"zero engines", 0, true, false},
		{"negative count", -2, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := NewProgressAggregator(tt.engines)
			if (agg == nil) != tt.wantNil {
				t.Fatalf("NewProgressAggregator(%d) nil = %v, want %v", tt.engines, agg == nil, tt.wantNil)
			}
			if agg == nil {
				return
			}
			if agg.NumEngines() != tt.engines {
				t.Errorf("NumEngines() = %d, want %d", agg.NumEngines(), tt.engines)
			}
			if agg.IsMultiEngine() != tt.wantMulti {
				t.Errorf("IsMultiEngine() = %v, want %v", agg.IsMultiEngine(), tt.wantMulti)
			}
		})
	}
}

// TestProgressAggregator_ComparisonWalk follows a two engine comparison
// from the first report to completion.
func TestProgressAggregator_ComparisonWalk(t *testing.T) {
	agg := NewProgressAggregator(2)

	// Give the rate estimator a measurable elapsed time.
	time.Sleep(time.Millisecond)

	// Sequential machine halfway through its ticks.
	ap := agg.Update(ProgressUpdate{EngineIndex: 0, Value: 0.5})
	if ap.EngineIndex != 0 || ap.Value != 0.5 {
		t.Errorf("update echoed %d/%f, want 0/0.5", ap.EngineIndex, ap.Value)
	}
	if ap.AverageProgress != 0.25 {
		t.Errorf("average = %f, want 0.25 with the oracle still at zero", ap.AverageProgress)
	}
	if ap.ETA <= 0 {
		t.Error("ETA should be estimable once any progress exists")
	}

	// Native oracle finishes in one report.
	ap = agg.Update(ProgressUpdate{EngineIndex: 1, Value: 1.0})
	if ap.AverageProgress != 0.75 {
		t.Errorf("average = %f, want 0.75", ap.AverageProgress)
	}

	// Sequential machine completes.
	ap = agg.Update(ProgressUpdate{EngineIndex: 0, Value: 1.0})
	if ap.AverageProgress != 1.0 {
		t.Errorf("average = %f, want 1.0 at completion", ap.AverageProgress)
	}
	if ap.ETA != 0 {
		t.Errorf("ETA = %v, want 0 with nothing remaining", ap.ETA)
	}
}

func TestProgressAggregator_IgnoresStrayIndex(t *testing.T) {
	agg := NewProgressAggregator(2)

	agg.Update(ProgressUpdate{EngineIndex: 7, Value: 0.9})
	agg.Update(ProgressUpdate{EngineIndex: -1, Value: 0.9})

	if avg := agg.CalculateAverage(); avg != 0 {
		t.Errorf("average = %f, want 0 after out-of-range updates", avg)
	}
}

func TestProgressAggregator_ClampsOverrange(t *testing.T) {
	agg := NewProgressAggregator(1)

	ap := agg.Update(ProgressUpdate{EngineIndex: 0, Value: 2.5})
	if ap.AverageProgress != 1.0 {
		t.Errorf("average = %f, want the clamped 1.0", ap.AverageProgress)
	}
}

func TestProgressAggregator_IdleReads(t *testing.T) {
	agg := NewProgressAggregator(2)

	if avg := agg.CalculateAverage(); avg != 0 {
		t.Errorf("average = %f, want 0 before any update", avg)
	}
	if eta := agg.GetETA(); eta != 0 {
		t.Errorf("ETA = %v, want 0 before any update", eta)
	}
}

func TestDrainChannel(t *testing.T) {
	t.Run("drains a buffered backlog", func(t *testing.T) {
		ch := make(chan ProgressUpdate, 4)
		for i := 1; i <= 4; i++ {
			ch <- ProgressUpdate{EngineIndex: 0, Value: float64(i) / 4}
		}
		close(ch)

		DrainChannel(ch)

		if _, open := <-ch; open {
			t.Error("channel should be closed and empty after draining")
		}
	})

	t.Run("returns immediately on a closed empty channel", func(t *testing.T) {
		ch := make(chan ProgressUpdate)
		close(ch)
		DrainChannel(ch)
	})
}
