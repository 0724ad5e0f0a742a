package signal

import (
	"sort"

	"github.com/verticut/verticut/internal/types"
)

// SelectConfig drives highlight selection. Callers supply every field; see
// the config package for the application defaults.
type SelectConfig struct {
	DesiredCount      int
	MinGapSec         int
	MinDurSec         int
	MaxDurSec         int
	PreSearchSec      int
	MinLeadinSec      int
	SilencePercentile float64
	MaxSilenceFrac    float64
	EndSilenceRunSec  int
	// MotionWeight scales the motion contribution when a motion series is
	// supplied. Zero falls back to energy-only ranking.
	MotionWeight float64
}

// SelectHighlights converts the per-second energy series (and optional motion
// series) into the final set of highlight windows.
//
// Peaks are visited in ranked order. A peak is skipped when it lies within
// MinGapSec of an already-accepted peak center, when no window can be refined
// around it, or when the refined window's quiet fraction exceeds
// MaxSilenceFrac. Selection stops at DesiredCount accepted windows or when
// candidates run out; fewer results is not an error. The returned set is
// sorted ascending by start regardless of acceptance order.
func SelectHighlights(series []float64, cfg SelectConfig, motion []float64) []types.Window {
	thr := Threshold(series, cfg.SilencePercentile)

	var ranked []int
	if len(motion) > 0 && cfg.MotionWeight > 0 {
		ranked = RankByEnergyAndMotion(series, motion, cfg.MotionWeight)
	} else {
		ranked = RankByEnergy(series)
	}

	refine := RefineConfig{
		PreSearchSec:     cfg.PreSearchSec,
		MinLeadinSec:     cfg.MinLeadinSec,
		MinDurSec:        cfg.MinDurSec,
		MaxDurSec:        cfg.MaxDurSec,
		Threshold:        thr,
		EndSilenceRunSec: cfg.EndSilenceRunSec,
	}

	var chosen []types.Window
	var centers []int
	for _, peak := range ranked {
		if len(chosen) >= cfg.DesiredCount {
			break
		}
		if tooClose(centers, peak, cfg.MinGapSec) {
			continue
		}
		win, ok := RefineWindow(series, peak, refine)
		if !ok {
			continue
		}
		if SilenceFraction(series, win.Start, win.End, thr) > cfg.MaxSilenceFrac {
			continue
		}
		chosen = append(chosen, win)
		centers = append(centers, peak)
	}

	sort.Slice(chosen, func(i, j int) bool { return chosen[i].Start < chosen[j].Start })
	return chosen
}

// tooClose reports whether peak lies within gap seconds of any accepted peak
// center. Spacing is enforced on originating peaks, not refined starts, so two
// clips never orbit the same moment.
func tooClose(centers []int, peak, gap int) bool {
	for _, c := range centers {
		d := peak - c
		if d < 0 {
			d = -d
		}
		if d < gap {
			return true
		}
	}
	return false
}
