// Package usecase wires the ports and domain logic into the single
// video-in, clips-out flow.
package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/verticut/verticut/internal/audio"
	"github.com/verticut/verticut/internal/domain/boring"
	"github.com/verticut/verticut/internal/domain/hook"
	"github.com/verticut/verticut/internal/domain/signal"
	"github.com/verticut/verticut/internal/domain/subtitles"
	"github.com/verticut/verticut/internal/ports"
	"github.com/verticut/verticut/internal/types"
)

type Deps struct {
	Media  ports.MediaTool
	Freeze ports.FreezeDetector
	Scene  ports.SceneDetector
	Motion ports.MotionAnalyzer
	ASR    ports.Transcriber
	Log    zerolog.Logger
}

type Usecase struct {
	d   Deps
	log zerolog.Logger
}

func New(d Deps) Usecase {
	return Usecase{d: d, log: d.Log.With().Str("component", "usecase").Logger()}
}

type Input struct {
	InputVideo string
	CacheDir   string
	OutDir     string

	Select signal.SelectConfig
	Plan   hook.PlanConfig
	Boring boring.FilterConfig
	Render ports.RenderOptions

	UseMotion       bool
	UseFreezeFilter bool
	UseSceneFilter  bool
	Captions        bool
}

type Result struct {
	Manifest types.Manifest
}

func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	totalDur, err := u.d.Media.ProbeDuration(ctx, in.InputVideo)
	if err != nil {
		return Result{}, err
	}

	wav := filepath.Join(in.CacheDir, "audio.wav")
	if _, err := os.Stat(wav); err != nil {
		if err := u.d.Media.ExtractAudioMono16k(ctx, in.InputVideo, wav); err != nil {
			return Result{}, err
		}
	}

	energy, err := audio.RMSPerSecond(wav)
	if err != nil {
		return Result{}, fmt.Errorf("audio energy: %w", err)
	}

	var motion []float64
	if in.UseMotion && u.d.Motion != nil {
		motion, err = u.d.Motion.FacecamMotionPerSecond(ctx, in.InputVideo)
		if err != nil {
			return Result{}, err
		}
	}

	windows := signal.SelectHighlights(energy, in.Select, motion)
	windows = clampToDuration(windows, totalDur)
	u.log.Info().Int("windows", len(windows)).Msg("highlight selection done")

	var freezes []types.FreezeInterval
	var scenes []float64
	if in.UseFreezeFilter && u.d.Freeze != nil {
		freezes, err = u.d.Freeze.DetectFreezes(ctx, in.InputVideo)
		if err != nil {
			return Result{}, err
		}
	}
	if in.UseSceneFilter && u.d.Scene != nil {
		scenes, err = u.d.Scene.DetectScenes(ctx, in.InputVideo)
		if err != nil {
			return Result{}, err
		}
	}
	if in.UseFreezeFilter || in.UseSceneFilter {
		before := len(windows)
		windows = boring.Filter(windows, freezes, scenes, in.Boring)
		u.log.Info().Int("dropped", before-len(windows)).Msg("boring filter done")
	}

	var tr types.Transcript
	if in.Captions && u.d.ASR != nil {
		tr, err = u.d.ASR.Transcribe(ctx, wav, in.CacheDir)
		if err != nil {
			return Result{}, err
		}
	}

	m := types.Manifest{Input: in.InputVideo}
	for i, win := range windows {
		plan := hook.PlanClip(win, energy, motion, scenes, in.Plan)

		id := fmt.Sprintf("%03d", i+1)
		clipRel := filepath.Join("clips", id+".mp4")
		clipPath := filepath.Join(in.OutDir, clipRel)

		opts := in.Render
		subsRel := ""
		if in.Captions && len(tr.Segments) > 0 {
			start := secs(plan.Start)
			ass, err := subtitles.RenderKaraoke(tr, start, start+secs(plan.Duration))
			if err != nil {
				return Result{}, err
			}
			subsRel = filepath.Join("subs", id+".ass")
			assPath := filepath.Join(in.OutDir, subsRel)
			if err := writeFile(assPath, []byte(ass)); err != nil {
				return Result{}, err
			}
			opts.BurnASS = assPath
		}

		if err := u.d.Media.RenderVertical(ctx, in.InputVideo, plan, opts, clipPath); err != nil {
			return Result{}, err
		}

		m.Clips = append(m.Clips, types.ManifestClip{
			ID:            id,
			StartSec:      plan.Start,
			DurationSec:   plan.Duration,
			HookOffsetSec: plan.HookOffset,
			File:          filepath.ToSlash(clipRel),
			Subtitles:     filepath.ToSlash(subsRel),
		})
	}

	u.log.Info().Int("clips", len(m.Clips)).Msg("run complete")
	return Result{Manifest: m}, nil
}

// clampToDuration drops windows that run up to or past the probed media
// duration, so every resulting plan ends strictly inside the source.
func clampToDuration(windows []types.Window, totalDur float64) []types.Window {
	out := windows[:0]
	for _, w := range windows {
		if float64(w.End) < totalDur {
			out = append(out, w)
		}
	}
	return out
}

func secs(v float64) time.Duration { return time.Duration(v * float64(time.Second)) }

func writeFile(path string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
