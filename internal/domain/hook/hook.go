// Package hook places the teaser segment inside a confirmed highlight window
// and fits the final clip duration around it. Like the signal package it is
// pure computation over per-second series.
package hook

import (
	"math"

	"github.com/verticut/verticut/internal/domain/signal"
)

// Strategy names the scoring used to place the hook.
type Strategy string

const (
	// StrategyLoudest scores sub-windows by normalized audio alone.
	StrategyLoudest Strategy = "loudest"
	// StrategyMotion scores by normalized facecam motion alone.
	StrategyMotion Strategy = "motion"
	// StrategyCombined scores by a weighted sum of audio, motion and
	// scene-change density. Missing optional signals contribute zero, so it
	// degrades to audio-only.
	StrategyCombined Strategy = "combined"
)

// Config tunes hook placement. Zero values for optional weights are valid;
// DefaultConfig supplies the usual starting point.
type Config struct {
	Strategy     Strategy
	AudioWeight  float64
	MotionWeight float64
	SceneWeight  float64
	// SearchTailSec restricts the search to the last part of the clip, where
	// selection biases the climax.
	SearchTailSec int
	// MinRMS rejects near-silent placements; when every candidate is below
	// it, the loudest-scoring candidate wins anyway.
	MinRMS float64
}

// DefaultConfig returns the combined strategy weighted fully toward audio,
// searching the last 20 seconds of the clip.
func DefaultConfig() Config {
	return Config{
		Strategy:      StrategyCombined,
		AudioWeight:   1,
		SearchTailSec: 20,
	}
}

// ChooseOffset finds where inside [clipStart, clipStart+clipDur) the hook
// segment should be lifted from. The result is seconds relative to the clip's
// own start, clamped into [0, clipDur-hookDur]. It is 0 whenever there is no
// room for a hook distinct from the clip start.
//
// audio, motion and sceneEvents are full-source series; motion and sceneEvents
// may be nil. Scene density is the count of scene-change timestamps falling in
// each second of the clip.
func ChooseOffset(clipStart, clipDur, hookDur float64, audio, motion, sceneEvents []float64, cfg Config) float64 {
	if hookDur <= 0 || clipDur <= hookDur {
		return 0
	}

	n := int(clipDur)
	if n < 1 {
		return 0
	}
	base := int(clipStart)

	localAudio := sliceSeconds(audio, base, n)
	var localMotion []float64
	if len(motion) > 0 {
		localMotion = sliceSeconds(motion, base, n)
	}
	localScene := sceneDensity(sceneEvents, base, n)

	score := scoreSeconds(localAudio, localMotion, localScene, cfg)

	hookLen := int(math.Round(hookDur))
	if hookLen < 1 {
		hookLen = 1
	}
	hi := n - hookLen
	if hi < 0 {
		return 0
	}
	tail := cfg.SearchTailSec
	if tail <= 0 || tail > n {
		tail = n
	}
	lo := n - tail
	if lo > hi {
		lo = hi
	}
	if lo < 0 {
		lo = 0
	}

	best, bestVal := -1, math.Inf(-1)
	fallback, fallbackVal := lo, math.Inf(-1)
	for s := lo; s <= hi; s++ {
		var sum, raw float64
		for i := s; i < s+hookLen; i++ {
			sum += score[i]
			raw += localAudio[i]
		}
		avg := sum / float64(hookLen)
		avgRaw := raw / float64(hookLen)
		if avg > fallbackVal {
			fallback, fallbackVal = s, avg
		}
		if avgRaw >= cfg.MinRMS && avg > bestVal {
			best, bestVal = s, avg
		}
	}
	if best < 0 {
		// Every candidate was quieter than MinRMS; take the best anyway.
		best = fallback
	}

	off := float64(best)
	if max := clipDur - hookDur; off > max {
		off = max
	}
	if off < 0 {
		off = 0
	}
	return off
}

// scoreSeconds builds the per-second placement score for the configured
// strategy. Slices are already clip-local and equal length (or empty).
func scoreSeconds(audio, motion, scene []float64, cfg Config) []float64 {
	na := signal.Normalize(audio)
	switch cfg.Strategy {
	case StrategyLoudest:
		return na
	case StrategyMotion:
		if len(motion) > 0 {
			return signal.Normalize(motion)
		}
		return na
	}

	nm := signal.Normalize(motion)
	ns := signal.Normalize(scene)
	out := make([]float64, len(audio))
	for i := range out {
		v := cfg.AudioWeight * na[i]
		if i < len(nm) {
			v += cfg.MotionWeight * nm[i]
		}
		if i < len(ns) {
			v += cfg.SceneWeight * ns[i]
		}
		out[i] = v
	}
	return out
}

// sliceSeconds copies n seconds of a full-source series beginning at base,
// zero-filling seconds past the series end.
func sliceSeconds(series []float64, base, n int) []float64 {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if j := base + i; j >= 0 && j < len(series) {
			out[i] = series[j]
		}
	}
	return out
}

// sceneDensity counts scene-change timestamps per clip-local second.
func sceneDensity(events []float64, base, n int) []float64 {
	out := make([]float64, n)
	for _, ev := range events {
		if i := int(ev) - base; i >= 0 && i < n {
			out[i]++
		}
	}
	return out
}
