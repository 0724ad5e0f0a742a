// Package ffmpeg adapts the external ffmpeg/ffprobe binaries to the ports the
// pipeline consumes: probing, audio extraction, freeze/scene/motion analysis
// and the vertical clip render.
package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Params tunes the analysis passes. Zero values fall back to the defaults in
// DefaultParams.
type Params struct {
	// CacheDir, when set, stores raw detector logs so repeated runs over the
	// same input skip the ffmpeg pass.
	CacheDir string

	FreezeFPS       int
	FreezeNoise     float64
	FreezeMinDurSec float64

	SceneFPS       int
	SceneThreshold float64

	MotionSampleFPS int
	MotionSmoothSec int
	FaceWRatio      float64
	FaceHRatio      float64
}

// DefaultParams mirrors the usual analysis settings: low-fps sampling keeps
// the detector passes cheap on long recordings.
func DefaultParams() Params {
	return Params{
		FreezeFPS:       2,
		FreezeNoise:     0.003,
		FreezeMinDurSec: 2.0,
		SceneFPS:        2,
		SceneThreshold:  0.35,
		MotionSampleFPS: 3,
		MotionSmoothSec: 5,
		FaceWRatio:      0.25,
		FaceHRatio:      0.25,
	}
}

type Adapter struct {
	ffmpeg  string
	ffprobe string
	params  Params
	log     zerolog.Logger
}

func New(ffmpegPath, ffprobePath string, params Params, log zerolog.Logger) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	d := DefaultParams()
	if params.FreezeFPS == 0 {
		params.FreezeFPS = d.FreezeFPS
	}
	if params.FreezeNoise == 0 {
		params.FreezeNoise = d.FreezeNoise
	}
	if params.FreezeMinDurSec == 0 {
		params.FreezeMinDurSec = d.FreezeMinDurSec
	}
	if params.SceneFPS == 0 {
		params.SceneFPS = d.SceneFPS
	}
	if params.SceneThreshold == 0 {
		params.SceneThreshold = d.SceneThreshold
	}
	if params.MotionSampleFPS == 0 {
		params.MotionSampleFPS = d.MotionSampleFPS
	}
	if params.MotionSmoothSec == 0 {
		params.MotionSmoothSec = d.MotionSmoothSec
	}
	if params.FaceWRatio == 0 {
		params.FaceWRatio = d.FaceWRatio
	}
	if params.FaceHRatio == 0 {
		params.FaceHRatio = d.FaceHRatio
	}
	return &Adapter{
		ffmpeg:  ffmpegPath,
		ffprobe: ffprobePath,
		params:  params,
		log:     log.With().Str("component", "ffmpeg").Logger(),
	}
}

func (a *Adapter) ExtractAudioMono16k(ctx context.Context, in, outWav string) error {
	a.log.Debug().Str("input", in).Str("wav", outWav).Msg("extracting audio")
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", in,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outWav,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w\n%s", err, string(b))
	}
	return nil
}

func (a *Adapter) ProbeDuration(ctx context.Context, in string) (float64, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		in,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return sec, nil
}

func (a *Adapter) HasAudioStream(ctx context.Context, in string) (bool, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=codec_type",
		"-of", "default=nw=1:nk=1",
		in,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		// ffprobe exits nonzero on inputs with no streams at all.
		return false, nil
	}
	return strings.TrimSpace(string(b)) != "", nil
}

// runForStderr runs ffmpeg discarding the output media and returns stderr,
// where the analysis filters write their findings even on success.
func (a *Adapter) runForStderr(ctx context.Context, args ...string) (string, error) {
	full := append([]string{"-hide_banner", "-nostats"}, args...)
	cmd := exec.CommandContext(ctx, a.ffmpeg, full...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("ffmpeg analysis: %w\n%s", err, stderr.String())
	}
	return stderr.String(), nil
}
