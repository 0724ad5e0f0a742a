package ports

import (
	"context"

	"github.com/verticut/verticut/internal/types"
)

// RenderOptions carries the vertical-layout and encoding parameters the
// renderer needs beyond the clip plan itself.
type RenderOptions struct {
	GameplayHeight   int
	FacecamHeight    int
	FaceWRatio       float64
	FaceHRatio       float64
	FaceXOffsetPx    int
	FaceYOffsetPx    int
	GameTopCropPx    int
	GameBottomCropPx int

	FPS           int
	CRF           int
	Preset        string
	Sharpen       bool
	SharpenPreset string

	// HookSec enables the teaser splice: the HookSec-long segment at the
	// plan's HookOffset plays before the body. Zero disables the splice.
	HookSec float64

	// BurnASS, when non-empty, burns the subtitle file into the video.
	BurnASS string
}

// MediaTool is the rendering backend: probing, audio extraction and the
// vertical re-render of one planned clip.
type MediaTool interface {
	ExtractAudioMono16k(ctx context.Context, in, outWav string) error
	ProbeDuration(ctx context.Context, in string) (float64, error)
	HasAudioStream(ctx context.Context, in string) (bool, error)
	RenderVertical(ctx context.Context, in string, plan types.ClipPlan, opts RenderOptions, out string) error
}

// FreezeDetector reports spans where the video is frozen.
type FreezeDetector interface {
	DetectFreezes(ctx context.Context, in string) ([]types.FreezeInterval, error)
}

// SceneDetector reports timestamps of detected scene changes.
type SceneDetector interface {
	DetectScenes(ctx context.Context, in string) ([]float64, error)
}

// MotionAnalyzer reports per-second motion intensity of the facecam region.
type MotionAnalyzer interface {
	FacecamMotionPerSecond(ctx context.Context, in string) ([]float64, error)
}

// Transcriber produces a transcript of the extracted audio for captioning.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath, cacheDir string) (types.Transcript, error)
}
