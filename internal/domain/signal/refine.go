package signal

import "github.com/verticut/verticut/internal/types"

// fallbackLeadSec is how far before the peak a window starts when no activity
// ramp is found inside the search range.
const fallbackLeadSec = 8

// RefineConfig bounds the start and end searches around a ranked peak.
type RefineConfig struct {
	// PreSearchSec is how far before the peak the start search may reach.
	PreSearchSec int
	// MinLeadinSec keeps the chosen start at least this far before the peak.
	MinLeadinSec int
	MinDurSec    int
	MaxDurSec    int
	// Threshold separates quiet (< Threshold) from active seconds.
	Threshold float64
	// EndSilenceRunSec is the quiet-run length that terminates a window.
	EndSilenceRunSec int
}

// RefineWindow searches for better window bounds around peakSec.
//
// The start is the earliest second in [peak-PreSearchSec, peak-MinLeadinSec)
// that ramps into activity: at or above the threshold, not falling relative to
// the previous second, with the next second also active. Without a ramp the
// window starts a fixed lead before the peak.
//
// The end scan begins after the minimum duration and stops at the second
// silence set in, once EndSilenceRunSec consecutive quiet seconds are seen, or
// at the maximum-duration cap.
//
// ok is false when the search range degenerates: empty series, empty start
// range, or a minimum duration that runs past the series.
func RefineWindow(series []float64, peakSec int, cfg RefineConfig) (win types.Window, ok bool) {
	n := len(series)
	if n == 0 {
		return types.Window{}, false
	}

	peak := peakSec
	if peak < 0 {
		peak = 0
	}
	if peak > n-1 {
		peak = n - 1
	}

	startLo := peak - cfg.PreSearchSec
	if startLo < 0 {
		startLo = 0
	}
	startHi := peak - cfg.MinLeadinSec
	if startHi < 0 {
		startHi = 0
	}
	if startHi <= startLo {
		return types.Window{}, false
	}

	start := -1
	for t := startLo; t < startHi; t++ {
		prevOK := t == 0 || series[t] >= series[t-1]
		nextOK := t+1 < n && series[t+1] >= cfg.Threshold
		if series[t] >= cfg.Threshold && prevOK && nextOK {
			start = t
			break
		}
	}
	if start < 0 {
		start = peak - fallbackLeadSec
		if start < 0 {
			start = 0
		}
	}

	minEnd := start + cfg.MinDurSec
	hardEnd := start + cfg.MaxDurSec
	if hardEnd > n-1 {
		hardEnd = n - 1
	}
	if minEnd >= n {
		return types.Window{}, false
	}

	end := hardEnd
	quietRun := 0
	for t := minEnd; t <= hardEnd; t++ {
		if series[t] < cfg.Threshold {
			quietRun++
			if quietRun >= cfg.EndSilenceRunSec {
				end = t - cfg.EndSilenceRunSec + 1
				break
			}
		} else {
			quietRun = 0
		}
	}

	if end <= start {
		return types.Window{}, false
	}
	return types.Window{Start: start, End: end + 1}, true
}
