package hook

import (
	"math"

	"github.com/verticut/verticut/internal/domain/signal"
	"github.com/verticut/verticut/internal/types"
)

// ChooseLoopDuration picks the final clip duration once the hook is anchored
// at climaxTime. The body precedes the climax; the chosen total duration is
// the largest one (in whole seconds, down from the feasible maximum) whose
// body's silence fraction stays at or under maxSilenceFrac. The silence
// threshold is taken from the given percentile of the body's own span, so a
// quiet body is judged against itself, not against the whole video. When no
// candidate qualifies the minimum duration is returned.
func ChooseLoopDuration(windowStart, climaxTime, hookDur, minDur, maxDur float64, audio []float64, silencePercentile, maxSilenceFrac float64) float64 {
	feasibleMax := hookDur + (climaxTime - windowStart)
	if feasibleMax > maxDur {
		feasibleMax = maxDur
	}
	feasibleMax = math.Floor(feasibleMax)
	if feasibleMax < hookDur {
		feasibleMax = hookDur
	}

	for d := feasibleMax; d >= minDur; d-- {
		bodyStart := int(climaxTime - (d - hookDur))
		bodyEnd := int(climaxTime)
		if bodyStart < 0 {
			bodyStart = 0
		}
		if bodyEnd > len(audio) {
			bodyEnd = len(audio)
		}
		if bodyEnd <= bodyStart {
			continue
		}
		body := audio[bodyStart:bodyEnd]
		thr := signal.Threshold(body, silencePercentile)
		if signal.SilenceFraction(body, 0, len(body), thr) <= maxSilenceFrac {
			return d
		}
	}
	return minDur
}

// PlanConfig carries everything clip planning needs beyond the series.
type PlanConfig struct {
	Choose            Config
	HookSec           float64
	MinDurSec         int
	MaxDurSec         int
	SilencePercentile float64
	MaxSilenceFrac    float64
}

// PlanClip composes hook placement and loop-duration fitting for one selected
// highlight window, producing the plan handed to the renderer. With hooks
// disabled (HookSec <= 0) or no room for one, the plan covers the whole
// window unchanged.
func PlanClip(win types.Window, audio, motion, sceneEvents []float64, cfg PlanConfig) types.ClipPlan {
	clipStart := float64(win.Start)
	clipDur := float64(win.Duration())
	if cfg.HookSec <= 0 || clipDur <= cfg.HookSec {
		return types.ClipPlan{Start: clipStart, Duration: clipDur}
	}

	off := ChooseOffset(clipStart, clipDur, cfg.HookSec, audio, motion, sceneEvents, cfg.Choose)
	climax := clipStart + off
	dur := ChooseLoopDuration(
		clipStart, climax, cfg.HookSec,
		float64(cfg.MinDurSec), float64(cfg.MaxDurSec),
		audio, cfg.SilencePercentile, cfg.MaxSilenceFrac,
	)

	start := climax - (dur - cfg.HookSec)
	if start < 0 {
		// The body cannot reach before the media start. Shrink the clip so
		// the hook stays exactly its tail; the renderer's splice covers the
		// whole cut only under that invariant.
		start = 0
		dur = climax + cfg.HookSec
	}
	hookOff := climax - start
	if hookOff > dur-cfg.HookSec {
		hookOff = dur - cfg.HookSec
	}
	if hookOff < 0 {
		hookOff = 0
	}
	return types.ClipPlan{Start: start, Duration: dur, HookOffset: hookOff}
}
