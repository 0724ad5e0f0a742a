// Package signal holds the pure numeric analysis behind highlight selection:
// normalization, adaptive thresholds, peak ranking and window refinement over
// per-second series. Every function is total over its domain and does no I/O.
package signal

import (
	"math"
	"sort"
)

// Normalize maps values into [0,1] by min-max scaling. A constant series
// (range below 1e-9) maps to all zeros, and an empty input stays empty, so
// heterogeneous signals can always be combined by weighted sum.
func Normalize(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi-lo <= 1e-9 {
		return out
	}
	for i, v := range values {
		out[i] = (v - lo) / (hi - lo)
	}
	return out
}

// NormalizeRobust scales by the 10th..99th percentile span and clamps into
// [0,1]. A handful of outlier seconds cannot compress the rest of the signal,
// which matters when audio and motion scores are summed.
func NormalizeRobust(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	lo := Percentile(values, 10)
	hi := Percentile(values, 99)
	if hi <= lo {
		return out
	}
	for i, v := range values {
		y := (v - lo) / (hi - lo)
		if y < 0 {
			y = 0
		}
		if y > 1 {
			y = 1
		}
		out[i] = y
	}
	return out
}

// Percentile returns the p-th percentile of series with linear interpolation
// between closest ranks. p is clamped to [0,100]; an empty series yields 0.
func Percentile(series []float64, p float64) float64 {
	if len(series) == 0 {
		return 0
	}
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	sorted := append([]float64(nil), series...)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Threshold computes the adaptive quiet/active boundary for a series: the
// given percentile of its values. Recomputed per video, never a fixed level,
// because absolute RMS scale varies with source mastering.
func Threshold(series []float64, percentile float64) float64 {
	return Percentile(series, percentile)
}

// Smooth applies a centered moving average of width k. Series shorter than k
// come back as a plain copy; an even k is widened to the next odd width so the
// window stays symmetric. Edge positions divide by the full k, damping the
// first and last few seconds the same way a zero-padded convolution would.
func Smooth(series []float64, k int) []float64 {
	out := append([]float64(nil), series...)
	if k <= 1 || len(series) < k {
		return out
	}
	if k%2 == 0 {
		k++
	}
	half := k / 2
	for i := range series {
		var sum float64
		for j := i - half; j <= i+half; j++ {
			if j >= 0 && j < len(series) {
				sum += series[j]
			}
		}
		out[i] = sum / float64(k)
	}
	return out
}

// SilenceFraction reports the fraction of seconds in [start,end) strictly
// below thr. Out-of-range bounds are clamped; a degenerate range counts as
// fully silent.
func SilenceFraction(series []float64, start, end int, thr float64) float64 {
	if start < 0 {
		start = 0
	}
	if end > len(series) {
		end = len(series)
	}
	if end <= start {
		return 1.0
	}
	quiet := 0
	for _, v := range series[start:end] {
		if v < thr {
			quiet++
		}
	}
	return float64(quiet) / float64(end-start)
}
