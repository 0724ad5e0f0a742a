package signal

import "testing"

func defaultRefine(thr float64) RefineConfig {
	return RefineConfig{
		PreSearchSec:     3,
		MinLeadinSec:     0,
		MinDurSec:        2,
		MaxDurSec:        5,
		Threshold:        thr,
		EndSilenceRunSec: 2,
	}
}

func TestRefineWindow_Bounds(t *testing.T) {
	t.Parallel()

	series := []float64{0, 0, 1, 3, 5, 5, 4, 1, 0, 0, 0, 0}
	win, ok := RefineWindow(series, 5, defaultRefine(0.5))
	if !ok {
		t.Fatalf("expected a window")
	}
	if win.End <= win.Start {
		t.Fatalf("end must exceed start: %+v", win)
	}
	if lo := 5 - 3; win.Start < lo {
		t.Fatalf("start %d before pre-search bound %d", win.Start, lo)
	}
}

func TestRefineWindow_StopsAtSilenceRun(t *testing.T) {
	t.Parallel()

	// Activity at 2..6, then a long quiet tail the end scan should not cross.
	series := []float64{0, 0, 2, 3, 3, 3, 2, 0, 0, 0, 0, 0, 0, 0}
	cfg := RefineConfig{
		PreSearchSec:     4,
		MinLeadinSec:     0,
		MinDurSec:        2,
		MaxDurSec:        10,
		Threshold:        1,
		EndSilenceRunSec: 2,
	}
	win, ok := RefineWindow(series, 4, cfg)
	if !ok {
		t.Fatalf("expected a window")
	}
	if win.End > 8 {
		t.Fatalf("end should stop where silence set in, got %+v", win)
	}
}

func TestRefineWindow_Degenerate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		series []float64
		peak   int
		cfg    RefineConfig
	}{
		{"empty series", nil, 0, defaultRefine(0)},
		{
			"empty start range",
			[]float64{1, 1, 1, 1},
			2,
			RefineConfig{PreSearchSec: 1, MinLeadinSec: 3, MinDurSec: 1, MaxDurSec: 3, EndSilenceRunSec: 1},
		},
		{
			"min duration past series",
			[]float64{1, 1, 1},
			2,
			RefineConfig{PreSearchSec: 3, MinLeadinSec: 0, MinDurSec: 30, MaxDurSec: 60, EndSilenceRunSec: 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := RefineWindow(tt.series, tt.peak, tt.cfg); ok {
				t.Fatalf("expected no window")
			}
		})
	}
}

func TestRefineWindow_FallbackStart(t *testing.T) {
	t.Parallel()

	// All seconds sit below the threshold: no ramp exists, so the start falls
	// back to a fixed lead before the peak.
	series := make([]float64, 30)
	win, ok := RefineWindow(series, 20, RefineConfig{
		PreSearchSec:     3,
		MinLeadinSec:     1,
		MinDurSec:        2,
		MaxDurSec:        5,
		Threshold:        1,
		EndSilenceRunSec: 2,
	})
	if !ok {
		t.Fatalf("expected a window")
	}
	if win.Start != 20-fallbackLeadSec {
		t.Fatalf("expected fallback start %d, got %+v", 20-fallbackLeadSec, win)
	}
}
