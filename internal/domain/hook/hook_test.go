package hook

import (
	"testing"

	"github.com/verticut/verticut/internal/types"
)

func TestChooseOffset_NoRoom(t *testing.T) {
	t.Parallel()

	audio := []float64{1, 2, 3, 4, 5}
	tests := []struct {
		name    string
		clipDur float64
		hookDur float64
	}{
		{"zero hook", 10, 0},
		{"negative hook", 10, -1},
		{"hook fills clip", 2, 2},
		{"hook exceeds clip", 2, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChooseOffset(0, tt.clipDur, tt.hookDur, audio, nil, nil, DefaultConfig())
			if got != 0 {
				t.Fatalf("expected 0, got %v", got)
			}
		})
	}
}

func TestChooseOffset_InRange(t *testing.T) {
	t.Parallel()

	audio := make([]float64, 60)
	for i := range audio {
		audio[i] = float64(i % 7)
	}
	clipDur, hookDur := 30.0, 3.0
	got := ChooseOffset(10, clipDur, hookDur, audio, nil, nil, DefaultConfig())
	if got < 0 || got > clipDur-hookDur {
		t.Fatalf("offset %v outside [0, %v]", got, clipDur-hookDur)
	}
}

func TestChooseOffset_PrefersLoudTail(t *testing.T) {
	t.Parallel()

	// Loud burst at source seconds 24..26 of a clip covering 0..30.
	audio := make([]float64, 30)
	audio[24], audio[25], audio[26] = 8, 9, 8
	cfg := DefaultConfig()
	got := ChooseOffset(0, 30, 3, audio, nil, nil, cfg)
	if got < 23 || got > 26 {
		t.Fatalf("expected offset near loud burst, got %v", got)
	}
}

func TestChooseOffset_SearchRestrictedToTail(t *testing.T) {
	t.Parallel()

	// Loudest moment is early; the tail search must ignore it.
	audio := make([]float64, 60)
	audio[5] = 9
	audio[50] = 3
	cfg := DefaultConfig()
	cfg.SearchTailSec = 20
	got := ChooseOffset(0, 60, 2, audio, nil, nil, cfg)
	if got < 40 {
		t.Fatalf("offset %v escaped the trailing search window", got)
	}
}

func TestChooseOffset_SilentFallback(t *testing.T) {
	t.Parallel()

	// All-silent audio with a minimum RMS gate: the fallback pass must still
	// yield an in-range offset.
	audio := make([]float64, 10)
	cfg := DefaultConfig()
	cfg.MinRMS = 0.05
	got := ChooseOffset(0, 10, 2, audio, nil, nil, cfg)
	if got < 0 || got > 8 {
		t.Fatalf("fallback offset %v outside [0,8]", got)
	}
}

func TestChooseOffset_MotionStrategy(t *testing.T) {
	t.Parallel()

	audio := make([]float64, 30)
	motion := make([]float64, 30)
	motion[26], motion[27] = 5, 5
	cfg := Config{Strategy: StrategyMotion, SearchTailSec: 20}
	got := ChooseOffset(0, 30, 2, audio, motion, nil, cfg)
	if got < 25 || got > 27 {
		t.Fatalf("expected motion burst to win, got %v", got)
	}
}

func TestChooseOffset_SceneDensityContributes(t *testing.T) {
	t.Parallel()

	audio := make([]float64, 40)
	scenes := []float64{33.2, 33.7, 34.1} // clustered scene changes
	cfg := Config{Strategy: StrategyCombined, SceneWeight: 1, SearchTailSec: 20}
	got := ChooseOffset(0, 40, 2, audio, nil, scenes, cfg)
	if got < 32 || got > 34 {
		t.Fatalf("expected scene cluster to win, got %v", got)
	}
}

func TestChooseLoopDuration_Bounds(t *testing.T) {
	t.Parallel()

	audio := make([]float64, 120)
	for i := range audio {
		audio[i] = float64((i*13)%10) + 1
	}
	got := ChooseLoopDuration(10, 50, 2, 8, 30, audio, 15, 0.45)
	if got < 8 || got > 30 {
		t.Fatalf("duration %v outside [8,30]", got)
	}
}

func TestChooseLoopDuration_TakesLargestWhenActive(t *testing.T) {
	t.Parallel()

	// Uniformly varied audio: the first (largest) candidate qualifies.
	audio := make([]float64, 100)
	for i := range audio {
		audio[i] = 1 + float64(i%5)
	}
	got := ChooseLoopDuration(0, 60, 2, 10, 25, audio, 15, 0.5)
	if got != 25 {
		t.Fatalf("expected full max duration 25, got %v", got)
	}
}

func TestChooseLoopDuration_FeasibleMaxCapsAtClimax(t *testing.T) {
	t.Parallel()

	// Climax only 5s after window start: body cannot reach further back, so
	// the duration caps at hook + 5 even with a generous max.
	audio := make([]float64, 60)
	for i := range audio {
		audio[i] = 1 + float64(i%3)
	}
	got := ChooseLoopDuration(20, 25, 2, 3, 40, audio, 15, 0.9)
	if got > 7 {
		t.Fatalf("expected cap at hook+lead (7), got %v", got)
	}
}

func TestChooseLoopDuration_SilentBodyFallsToMin(t *testing.T) {
	t.Parallel()

	// Quiet body with a sprinkle of louder seconds right before the climax:
	// large durations drag in too much silence, and nothing qualifies under a
	// near-zero cap, so the minimum wins.
	audio := make([]float64, 80)
	for i := 0; i < 40; i += 2 {
		audio[i] = 0.2
	}
	got := ChooseLoopDuration(0, 40, 2, 6, 30, audio, 50, 0.01)
	if got != 6 {
		t.Fatalf("expected min duration 6, got %v", got)
	}
}

func TestPlanClip_Invariants(t *testing.T) {
	t.Parallel()

	audio := make([]float64, 200)
	for i := range audio {
		audio[i] = float64((i*7)%9) + 0.5
	}
	win := types.Window{Start: 40, End: 75}
	cfg := PlanConfig{
		Choose:            DefaultConfig(),
		HookSec:           2,
		MinDurSec:         10,
		MaxDurSec:         30,
		SilencePercentile: 15,
		MaxSilenceFrac:    0.45,
	}
	plan := PlanClip(win, audio, nil, nil, cfg)
	if plan.Start < 0 {
		t.Fatalf("negative start: %+v", plan)
	}
	if plan.HookOffset < 0 || plan.HookOffset+cfg.HookSec > plan.Duration+1e-9 {
		t.Fatalf("hook does not fit the clip: %+v", plan)
	}
	if plan.Start < float64(win.Start)-1e-9 {
		t.Fatalf("plan starts before its window: %+v", plan)
	}
}

func TestPlanClip_ClampAtMediaStartKeepsHookAtTail(t *testing.T) {
	t.Parallel()

	// Window at the very start of the media, too short for the minimum loop
	// duration: the chooser falls back to minDur, the start clamps at zero
	// and the clip must shrink so the hook is still exactly its tail.
	audio := []float64{0.1, 0.1, 1, 1}
	win := types.Window{Start: 0, End: 4}
	cfg := PlanConfig{
		Choose:            Config{Strategy: StrategyLoudest, AudioWeight: 1, SearchTailSec: 4},
		HookSec:           2,
		MinDurSec:         10,
		MaxDurSec:         20,
		SilencePercentile: 50,
		MaxSilenceFrac:    0.5,
	}
	plan := PlanClip(win, audio, nil, nil, cfg)
	if plan.Start != 0 {
		t.Fatalf("start = %g, want 0", plan.Start)
	}
	if plan.HookOffset != 2 {
		t.Fatalf("hook offset = %g, want 2 (the loud pair)", plan.HookOffset)
	}
	if plan.Duration != plan.HookOffset+cfg.HookSec {
		t.Fatalf("duration = %g, want hook offset + hook length so the splice covers the whole cut: %+v", plan.Duration, plan)
	}
}

func TestPlanClip_HookDisabled(t *testing.T) {
	t.Parallel()

	win := types.Window{Start: 5, End: 20}
	plan := PlanClip(win, make([]float64, 30), nil, nil, PlanConfig{
		HookSec: 0, MinDurSec: 5, MaxDurSec: 30,
	})
	if plan.Start != 5 || plan.Duration != 15 || plan.HookOffset != 0 {
		t.Fatalf("disabled hook must keep the window unchanged, got %+v", plan)
	}
}
