// Package boring rejects highlight windows that look frozen or visually
// static, using freeze intervals and scene-change timestamps supplied by the
// detection adapters.
package boring

import "github.com/verticut/verticut/internal/types"

// FilterConfig caps how dull an accepted window may be.
type FilterConfig struct {
	// MaxFreezeOverlapSec is the most frozen time a window may contain.
	MaxFreezeOverlapSec float64
	// MinSceneChanges is the fewest scene changes a window must contain.
	MinSceneChanges int
}

// OverlapSeconds returns the total intersection between [start,end] and the
// given intervals.
func OverlapSeconds(intervals []types.FreezeInterval, start, end float64) float64 {
	var total float64
	for _, iv := range intervals {
		lo := start
		if iv.Start > lo {
			lo = iv.Start
		}
		hi := end
		if iv.End < hi {
			hi = iv.End
		}
		if hi > lo {
			total += hi - lo
		}
	}
	return total
}

// CountEvents returns how many timestamps fall inside [start,end].
func CountEvents(events []float64, start, end float64) int {
	n := 0
	for _, t := range events {
		if t >= start && t <= end {
			n++
		}
	}
	return n
}

// Filter drops windows whose freeze overlap exceeds the cap or whose
// scene-change count falls short. A check is skipped when its detector
// produced no data at all, so a disabled detector never rejects anything.
func Filter(windows []types.Window, freezes []types.FreezeInterval, scenes []float64, cfg FilterConfig) []types.Window {
	out := make([]types.Window, 0, len(windows))
	for _, w := range windows {
		start, end := float64(w.Start), float64(w.End)
		if len(freezes) > 0 && OverlapSeconds(freezes, start, end) > cfg.MaxFreezeOverlapSec {
			continue
		}
		if len(scenes) > 0 && CountEvents(scenes, start, end) < cfg.MinSceneChanges {
			continue
		}
		out = append(out, w)
	}
	return out
}
