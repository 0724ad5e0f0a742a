// Package config loads the application settings: built-in defaults overlaid
// with an optional YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Output             OutputConfig       `yaml:"output"`
	Clips              ClipsConfig        `yaml:"clips"`
	Layout             LayoutConfig       `yaml:"layout"`
	FacecamCrop        FacecamCropConfig  `yaml:"facecam_crop"`
	GameplaySourceCrop SourceCropConfig   `yaml:"gameplay_source_crop"`
	FaceMotion         FaceMotionConfig   `yaml:"face_motion"`
	BoringFilter       BoringFilterConfig `yaml:"boring_filter"`
	StoryHook          StoryHookConfig    `yaml:"story_hook"`
	Captions           CaptionsConfig     `yaml:"captions"`
	Watch              WatchConfig        `yaml:"watch"`
	Tools              ToolsConfig        `yaml:"tools"`
}

type OutputConfig struct {
	OutDir        string `yaml:"out_dir"`
	TempDir       string `yaml:"temp_dir"`
	FPS           int    `yaml:"fps"`
	CRF           int    `yaml:"crf"`
	Preset        string `yaml:"preset"`
	Sharpen       bool   `yaml:"sharpen"`
	SharpenPreset string `yaml:"sharpen_preset"`
}

type ClipsConfig struct {
	Count             int     `yaml:"count"`
	MinGapSec         int     `yaml:"min_gap_sec"`
	MinDurSec         int     `yaml:"min_dur_sec"`
	MaxDurSec         int     `yaml:"max_dur_sec"`
	PreSearchSec      int     `yaml:"pre_search_sec"`
	MinLeadinSec      int     `yaml:"min_leadin_sec"`
	SilencePercentile float64 `yaml:"silence_percentile"`
	MaxSilenceFrac    float64 `yaml:"max_silence_frac"`
	EndSilenceRunSec  int     `yaml:"end_silence_run_sec"`
}

type LayoutConfig struct {
	GameplayHeight int `yaml:"gameplay_height"`
	FacecamHeight  int `yaml:"facecam_height"`
}

type FacecamCropConfig struct {
	WRatio    float64 `yaml:"w_ratio"`
	HRatio    float64 `yaml:"h_ratio"`
	XOffsetPx int     `yaml:"x_offset_px"`
	YOffsetPx int     `yaml:"y_offset_px"`
}

type SourceCropConfig struct {
	TopPx    int `yaml:"top_px"`
	BottomPx int `yaml:"bottom_px"`
}

type FaceMotionConfig struct {
	Enabled   bool    `yaml:"enabled"`
	SampleFPS int     `yaml:"sample_fps"`
	SmoothSec int     `yaml:"smooth_sec"`
	Weight    float64 `yaml:"weight"`
}

type BoringFilterConfig struct {
	DetectFreeze        bool    `yaml:"detect_freeze"`
	DetectScene         bool    `yaml:"detect_scene"`
	FreezeFPS           int     `yaml:"freeze_fps"`
	FreezeNoise         float64 `yaml:"freeze_noise"`
	FreezeMinDurSec     float64 `yaml:"freeze_min_dur_sec"`
	SceneFPS            int     `yaml:"scene_fps"`
	SceneThreshold      float64 `yaml:"scene_threshold"`
	MaxFreezeOverlapSec float64 `yaml:"max_freeze_overlap_sec"`
	MinSceneChanges     int     `yaml:"min_scene_changes"`
}

type StoryHookConfig struct {
	Enabled       bool    `yaml:"enabled"`
	HookSec       float64 `yaml:"hook_sec"`
	Strategy      string  `yaml:"strategy"`
	AudioWeight   float64 `yaml:"audio_weight"`
	MotionWeight  float64 `yaml:"motion_weight"`
	SceneWeight   float64 `yaml:"scene_weight"`
	SearchTailSec int     `yaml:"search_tail_sec"`
	MinRMS        float64 `yaml:"min_rms"`
}

type CaptionsConfig struct {
	Enabled      bool   `yaml:"enabled"`
	WhisperBin   string `yaml:"whisper_bin"`
	WhisperModel string `yaml:"whisper_model"`
	Language     string `yaml:"language"`
}

type WatchConfig struct {
	Dir            string   `yaml:"dir"`
	Extensions     []string `yaml:"extensions"`
	StableSeconds  int      `yaml:"stable_seconds"`
	DeleteOriginal bool     `yaml:"delete_original"`
}

type ToolsConfig struct {
	FFmpeg  string `yaml:"ffmpeg"`
	FFprobe string `yaml:"ffprobe"`
}

// Default returns the settings used when no config file overrides them.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			OutDir:        "out",
			TempDir:       ".cache",
			FPS:           60,
			CRF:           20,
			Preset:        "veryfast",
			SharpenPreset: "mild",
		},
		Clips: ClipsConfig{
			Count:             3,
			MinGapSec:         45,
			MinDurSec:         18,
			MaxDurSec:         35,
			PreSearchSec:      12,
			MinLeadinSec:      2,
			SilencePercentile: 55,
			MaxSilenceFrac:    0.55,
			EndSilenceRunSec:  3,
		},
		Layout: LayoutConfig{
			GameplayHeight: 1248,
			FacecamHeight:  672,
		},
		FacecamCrop: FacecamCropConfig{
			WRatio: 0.25,
			HRatio: 0.25,
		},
		FaceMotion: FaceMotionConfig{
			SampleFPS: 3,
			SmoothSec: 5,
			Weight:    0.8,
		},
		BoringFilter: BoringFilterConfig{
			DetectFreeze:        true,
			DetectScene:         true,
			FreezeFPS:           2,
			FreezeNoise:         0.003,
			FreezeMinDurSec:     2.0,
			SceneFPS:            2,
			SceneThreshold:      0.35,
			MaxFreezeOverlapSec: 4.0,
			MinSceneChanges:     1,
		},
		StoryHook: StoryHookConfig{
			HookSec:       2.0,
			Strategy:      "combined",
			AudioWeight:   1.0,
			MotionWeight:  0.5,
			SceneWeight:   0.3,
			SearchTailSec: 20,
			MinRMS:        0.02,
		},
		Captions: CaptionsConfig{
			WhisperBin: "whisper-cli",
			Language:   "auto",
		},
		Watch: WatchConfig{
			Dir:           "incoming",
			Extensions:    []string{".mp4", ".mov", ".mkv"},
			StableSeconds: 5,
		},
	}
}

// Load overlays the optional YAML file at path on the defaults. An empty path
// or a missing file yields the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	cl := c.Clips
	if cl.Count <= 0 {
		return fmt.Errorf("clips.count must be > 0")
	}
	if cl.MinDurSec <= 0 || cl.MaxDurSec <= 0 {
		return fmt.Errorf("clip durations must be > 0")
	}
	if cl.MinDurSec > cl.MaxDurSec {
		return fmt.Errorf("clips.min_dur_sec must be <= clips.max_dur_sec")
	}
	if cl.SilencePercentile < 0 || cl.SilencePercentile > 100 {
		return fmt.Errorf("clips.silence_percentile must be in [0, 100]")
	}
	if cl.MaxSilenceFrac < 0 || cl.MaxSilenceFrac > 1 {
		return fmt.Errorf("clips.max_silence_frac must be in [0, 1]")
	}
	if c.Layout.GameplayHeight+c.Layout.FacecamHeight != 1920 {
		return fmt.Errorf("layout heights must sum to 1920, got %d", c.Layout.GameplayHeight+c.Layout.FacecamHeight)
	}
	if c.FacecamCrop.WRatio <= 0 || c.FacecamCrop.WRatio > 1 || c.FacecamCrop.HRatio <= 0 || c.FacecamCrop.HRatio > 1 {
		return fmt.Errorf("facecam_crop ratios must be in (0, 1]")
	}
	if c.Output.FPS <= 0 {
		return fmt.Errorf("output.fps must be > 0")
	}
	switch c.StoryHook.Strategy {
	case "loudest", "motion", "combined":
	default:
		return fmt.Errorf("story_hook.strategy must be loudest, motion or combined, got %q", c.StoryHook.Strategy)
	}
	if c.StoryHook.Enabled && c.StoryHook.HookSec <= 0 {
		return fmt.Errorf("story_hook.hook_sec must be > 0 when enabled")
	}
	if c.Captions.Enabled && c.Captions.WhisperModel == "" {
		return fmt.Errorf("captions.whisper_model is required when captions are enabled")
	}
	if c.Watch.StableSeconds <= 0 {
		return fmt.Errorf("watch.stable_seconds must be > 0")
	}
	return nil
}
