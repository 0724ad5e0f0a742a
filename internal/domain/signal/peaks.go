package signal

import "sort"

// smoothWidth is the moving-average width used before ranking, wide enough
// that a single loud frame cannot dominate the ordering.
const smoothWidth = 5

// RankByEnergy orders second indices by descending smoothed energy. Equal
// scores keep ascending index order, so ranking is deterministic.
func RankByEnergy(series []float64) []int {
	return rankDescending(Smooth(series, smoothWidth))
}

// RankByEnergyAndMotion orders second indices by a weighted sum of robustly
// normalized smoothed audio and motion. The shorter series is edge-padded to
// the longer one's length before the signals are combined.
func RankByEnergyAndMotion(series, motion []float64, motionWeight float64) []int {
	audio := Smooth(series, smoothWidth)
	audio, motion = alignEdgePad(audio, motion)
	a := NormalizeRobust(audio)
	m := NormalizeRobust(motion)
	score := make([]float64, len(a))
	for i := range score {
		score[i] = a[i] + motionWeight*m[i]
	}
	return rankDescending(score)
}

// alignEdgePad extends the shorter of a, b by repeating its last value until
// both have the same length. An empty series is padded with zeros.
func alignEdgePad(a, b []float64) ([]float64, []float64) {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	return edgePad(a, n), edgePad(b, n)
}

func edgePad(s []float64, n int) []float64 {
	if len(s) >= n {
		return s
	}
	out := make([]float64, n)
	copy(out, s)
	var edge float64
	if len(s) > 0 {
		edge = s[len(s)-1]
	}
	for i := len(s); i < n; i++ {
		out[i] = edge
	}
	return out
}

func rankDescending(score []float64) []int {
	idx := make([]int, len(score))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return score[idx[i]] > score[idx[j]]
	})
	return idx
}
