package ffmpeg

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/verticut/verticut/internal/domain/signal"
)

var (
	metaPtsTimeRe = regexp.MustCompile(`pts_time:\s*([0-9.]+)`)
	metaYAVGRe    = regexp.MustCompile(`lavfi\.signalstats\.YAVG=([0-9.]+)`)
)

// FacecamMotionPerSecond measures per-second motion intensity inside the
// bottom-right facecam crop. Frames are sampled at a low rate, differenced
// against the previous frame (tblend) and reduced to a luma average per frame
// (signalstats YAVG of the difference); frame values are summed per whole
// second and smoothed with the configured moving average.
func (a *Adapter) FacecamMotionPerSecond(ctx context.Context, in string) ([]float64, error) {
	p := a.params
	vf := fmt.Sprintf(
		"fps=%d,crop=w=iw*%g:h=ih*%g:x=iw-(iw*%g):y=ih-(ih*%g),tblend=all_mode=difference,signalstats,metadata=print:key=lavfi.signalstats.YAVG",
		p.MotionSampleFPS, p.FaceWRatio, p.FaceHRatio, p.FaceWRatio, p.FaceHRatio,
	)
	out, err := a.analyze(ctx, in, "motion", vf)
	if err != nil {
		return nil, err
	}
	motion := bucketMotion(out)
	motion = signal.Smooth(motion, p.MotionSmoothSec)
	a.log.Info().Str("input", in).Int("seconds", len(motion)).Msg("motion analysis done")
	return motion, nil
}

// bucketMotion sums the per-frame difference averages into whole-second
// buckets. The metadata filter prints a frame header line carrying pts_time
// followed by the YAVG key/value line.
func bucketMotion(stderr string) []float64 {
	var out []float64
	sec := -1
	for _, line := range strings.Split(stderr, "\n") {
		if m := metaPtsTimeRe.FindStringSubmatch(line); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				sec = int(v)
			}
			continue
		}
		m := metaYAVGRe.FindStringSubmatch(line)
		if m == nil || sec < 0 {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		for len(out) <= sec {
			out = append(out, 0)
		}
		out[sec] += v
	}
	return out
}
