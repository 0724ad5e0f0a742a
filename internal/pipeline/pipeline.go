// Package pipeline assembles the adapters and runs the use case for one
// input video, writing clips and the run manifest to a per-run output dir.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/verticut/verticut/internal/config"
	"github.com/verticut/verticut/internal/domain/boring"
	"github.com/verticut/verticut/internal/domain/hook"
	"github.com/verticut/verticut/internal/domain/signal"
	"github.com/verticut/verticut/internal/ports"
	"github.com/verticut/verticut/internal/ports/adapters/ffmpeg"
	"github.com/verticut/verticut/internal/ports/adapters/whispercpp"
	"github.com/verticut/verticut/internal/usecase"
)

type Config struct {
	InputVideo string
	Settings   *config.Config
	Log        zerolog.Logger
}

func (c Config) Validate() error {
	if c.InputVideo == "" {
		return errors.New("input is empty")
	}
	if _, err := os.Stat(c.InputVideo); err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if c.Settings == nil {
		return errors.New("settings are nil")
	}
	return c.Settings.Validate()
}

// Run processes one video end to end and returns the path of the run output
// directory holding the clips and manifest.json.
func Run(ctx context.Context, cfg Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	s := cfg.Settings
	log := cfg.Log.With().Str("component", "pipeline").Logger()

	jobID := hash(cfg.InputVideo)
	baseCache := s.Output.TempDir
	if baseCache == "" {
		baseCache = ".cache"
	}
	cacheDir := filepath.Join(baseCache, "runs", jobID)
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", err
	}
	log.Debug().Str("cache", cacheDir).Msg("workspace ready")

	outRoot := s.Output.OutDir
	if outRoot == "" {
		outRoot = "out"
	}
	runOutDir := buildRunOutDir(outRoot, cfg.InputVideo, time.Now().UTC())
	if err := os.MkdirAll(runOutDir, 0o755); err != nil {
		return "", err
	}
	log.Info().Str("out", runOutDir).Msg("run output dir")

	media := ffmpeg.New(s.Tools.FFmpeg, s.Tools.FFprobe, ffmpeg.Params{
		CacheDir:        filepath.Join(cacheDir, "analysis"),
		FreezeFPS:       s.BoringFilter.FreezeFPS,
		FreezeNoise:     s.BoringFilter.FreezeNoise,
		FreezeMinDurSec: s.BoringFilter.FreezeMinDurSec,
		SceneFPS:        s.BoringFilter.SceneFPS,
		SceneThreshold:  s.BoringFilter.SceneThreshold,
		MotionSampleFPS: s.FaceMotion.SampleFPS,
		MotionSmoothSec: s.FaceMotion.SmoothSec,
		FaceWRatio:      s.FacecamCrop.WRatio,
		FaceHRatio:      s.FacecamCrop.HRatio,
	}, cfg.Log)

	deps := usecase.Deps{
		Media:  media,
		Freeze: media,
		Scene:  media,
		Motion: media,
		Log:    cfg.Log,
	}
	if s.Captions.Enabled {
		deps.ASR = whispercpp.New(s.Captions.WhisperBin, s.Captions.WhisperModel, s.Captions.Language, cfg.Log)
	}

	hookSec := 0.0
	if s.StoryHook.Enabled {
		hookSec = s.StoryHook.HookSec
	}
	motionWeight := 0.0
	if s.FaceMotion.Enabled {
		motionWeight = s.FaceMotion.Weight
	}

	uc := usecase.New(deps)
	res, err := uc.Run(ctx, usecase.Input{
		InputVideo: cfg.InputVideo,
		CacheDir:   cacheDir,
		OutDir:     runOutDir,
		Select: signal.SelectConfig{
			DesiredCount:      s.Clips.Count,
			MinGapSec:         s.Clips.MinGapSec,
			MinDurSec:         s.Clips.MinDurSec,
			MaxDurSec:         s.Clips.MaxDurSec,
			PreSearchSec:      s.Clips.PreSearchSec,
			MinLeadinSec:      s.Clips.MinLeadinSec,
			SilencePercentile: s.Clips.SilencePercentile,
			MaxSilenceFrac:    s.Clips.MaxSilenceFrac,
			EndSilenceRunSec:  s.Clips.EndSilenceRunSec,
			MotionWeight:      motionWeight,
		},
		Plan: hook.PlanConfig{
			Choose: hook.Config{
				Strategy:      hook.Strategy(s.StoryHook.Strategy),
				AudioWeight:   s.StoryHook.AudioWeight,
				MotionWeight:  s.StoryHook.MotionWeight,
				SceneWeight:   s.StoryHook.SceneWeight,
				SearchTailSec: s.StoryHook.SearchTailSec,
				MinRMS:        s.StoryHook.MinRMS,
			},
			HookSec:           hookSec,
			MinDurSec:         s.Clips.MinDurSec,
			MaxDurSec:         s.Clips.MaxDurSec,
			SilencePercentile: s.Clips.SilencePercentile,
			MaxSilenceFrac:    s.Clips.MaxSilenceFrac,
		},
		Boring: boring.FilterConfig{
			MaxFreezeOverlapSec: s.BoringFilter.MaxFreezeOverlapSec,
			MinSceneChanges:     s.BoringFilter.MinSceneChanges,
		},
		Render: ports.RenderOptions{
			GameplayHeight:   s.Layout.GameplayHeight,
			FacecamHeight:    s.Layout.FacecamHeight,
			FaceWRatio:       s.FacecamCrop.WRatio,
			FaceHRatio:       s.FacecamCrop.HRatio,
			FaceXOffsetPx:    s.FacecamCrop.XOffsetPx,
			FaceYOffsetPx:    s.FacecamCrop.YOffsetPx,
			GameTopCropPx:    s.GameplaySourceCrop.TopPx,
			GameBottomCropPx: s.GameplaySourceCrop.BottomPx,
			FPS:              s.Output.FPS,
			CRF:              s.Output.CRF,
			Preset:           s.Output.Preset,
			Sharpen:          s.Output.Sharpen,
			SharpenPreset:    s.Output.SharpenPreset,
			HookSec:          hookSec,
		},
		UseMotion:       s.FaceMotion.Enabled,
		UseFreezeFilter: s.BoringFilter.DetectFreeze,
		UseSceneFilter:  s.BoringFilter.DetectScene,
		Captions:        s.Captions.Enabled,
	})
	if err != nil {
		return "", err
	}

	b, err := json.MarshalIndent(res.Manifest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}
	manifestPath := filepath.Join(runOutDir, "manifest.json")
	if err := os.WriteFile(manifestPath, b, 0o644); err != nil {
		return "", err
	}
	log.Info().Int("clips", len(res.Manifest.Clips)).Str("manifest", manifestPath).Msg("run done")
	return runOutDir, nil
}

// buildRunOutDir derives a unique, readable output dir per run:
// <root>/<input-stem>-<utc-ts>-<seed>.
func buildRunOutDir(outRoot, input string, now time.Time) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name = normalizePathSegment(name)
	if name == "" {
		name = "input"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", input, now.UTC().UnixNano())
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, hash(runSeed)[:6]))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.MediaTool = (*ffmpeg.Adapter)(nil)
var _ ports.FreezeDetector = (*ffmpeg.Adapter)(nil)
var _ ports.SceneDetector = (*ffmpeg.Adapter)(nil)
var _ ports.MotionAnalyzer = (*ffmpeg.Adapter)(nil)
var _ ports.Transcriber = (*whispercpp.Adapter)(nil)
