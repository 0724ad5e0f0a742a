package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/verticut/verticut/internal/types"
)

var (
	freezeStartRe  = regexp.MustCompile(`freeze_start:\s*(\d+(\.\d+)?)`)
	freezeEndRe    = regexp.MustCompile(`freeze_end:\s*(\d+(\.\d+)?)`)
	showinfoTimeRe = regexp.MustCompile(`pts_time:\s*(\d+(\.\d+)?)`)
)

// DetectFreezes returns the intervals where the video is frozen, sampling at
// a low frame rate for speed. Raw detector output is cached per input when a
// cache dir is configured.
func (a *Adapter) DetectFreezes(ctx context.Context, in string) ([]types.FreezeInterval, error) {
	p := a.params
	vf := fmt.Sprintf("fps=%d,freezedetect=n=%g:d=%g", p.FreezeFPS, p.FreezeNoise, p.FreezeMinDurSec)
	out, err := a.analyze(ctx, in, "freezedetect", vf)
	if err != nil {
		return nil, err
	}
	intervals := parseFreezeIntervals(out)
	a.log.Info().Str("input", in).Int("freezes", len(intervals)).Msg("freeze detection done")
	return intervals, nil
}

// DetectScenes returns timestamps where the scene score exceeds the
// configured threshold, sorted ascending.
func (a *Adapter) DetectScenes(ctx context.Context, in string) ([]float64, error) {
	p := a.params
	vf := fmt.Sprintf("fps=%d,select='gt(scene,%g)',showinfo", p.SceneFPS, p.SceneThreshold)
	out, err := a.analyze(ctx, in, "scene", vf)
	if err != nil {
		return nil, err
	}
	times := parseShowinfoTimes(out)
	a.log.Info().Str("input", in).Int("scenes", len(times)).Msg("scene detection done")
	return times, nil
}

// analyze runs a video-filter analysis pass over the input, serving and
// refreshing the per-input stderr cache.
func (a *Adapter) analyze(ctx context.Context, in, kind, vf string) (string, error) {
	cache := a.cachePath(in, kind)
	if cache != "" {
		if b, err := os.ReadFile(cache); err == nil && len(b) > 0 {
			a.log.Debug().Str("cache", cache).Msg("using cached analysis log")
			return string(b), nil
		}
	}

	out, err := a.runForStderr(ctx,
		"-i", in,
		"-an",
		"-vf", vf,
		"-f", "null",
		"-",
	)
	if err != nil {
		return "", fmt.Errorf("%s analysis: %w", kind, err)
	}

	if cache != "" {
		if err := os.MkdirAll(filepath.Dir(cache), 0o755); err == nil {
			_ = os.WriteFile(cache, []byte(out), 0o644)
		}
	}
	return out, nil
}

func (a *Adapter) cachePath(in, kind string) string {
	if a.params.CacheDir == "" {
		return ""
	}
	stem := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	return filepath.Join(a.params.CacheDir, fmt.Sprintf("%s_%s.log", stem, kind))
}

// parseFreezeIntervals pairs freeze_start/freeze_end lines in order. An
// unmatched trailing start (freeze running past EOF) is ignored.
func parseFreezeIntervals(stderr string) []types.FreezeInterval {
	var starts, ends []float64
	for _, line := range strings.Split(stderr, "\n") {
		if m := freezeStartRe.FindStringSubmatch(line); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				starts = append(starts, v)
			}
		}
		if m := freezeEndRe.FindStringSubmatch(line); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				ends = append(ends, v)
			}
		}
	}
	var intervals []types.FreezeInterval
	for i := 0; i < len(starts) && i < len(ends); i++ {
		if ends[i] > starts[i] {
			intervals = append(intervals, types.FreezeInterval{Start: starts[i], End: ends[i]})
		}
	}
	return intervals
}

func parseShowinfoTimes(stderr string) []float64 {
	var times []float64
	for _, line := range strings.Split(stderr, "\n") {
		if m := showinfoTimeRe.FindStringSubmatch(line); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				times = append(times, v)
			}
		}
	}
	sort.Float64s(times)
	return times
}
