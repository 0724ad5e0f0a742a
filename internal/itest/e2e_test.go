//go:build integration

package itest

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/verticut/verticut/internal/config"
	"github.com/verticut/verticut/internal/pipeline"
	"github.com/verticut/verticut/internal/types"
)

func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not installed", bin)
		}
	}
}

// buildFixture renders a 40s test video: synthetic motion with quiet audio
// throughout, except a loud burst in seconds 15..23.
func buildFixture(t *testing.T, path string) {
	t.Helper()
	audio := "aevalsrc='if(between(t,15,23),0.6,0.02)*sin(440*2*PI*t)':s=16000:d=40"
	cmd := exec.Command("ffmpeg",
		"-y",
		"-f", "lavfi", "-i", "testsrc2=s=1280x720:r=30:d=40",
		"-f", "lavfi", "-i", audio,
		"-shortest",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		path,
	)
	if b, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("ffmpeg fixture failed: %v\n%s", err, string(b))
	}
}

func TestE2E_ProcessVideo(t *testing.T) {
	skipIfNoFFmpeg(t)

	tmp := t.TempDir()
	in := filepath.Join(tmp, "ranked_match.mp4")
	buildFixture(t, in)

	cfg := config.Default()
	cfg.Output.OutDir = filepath.Join(tmp, "out")
	cfg.Output.TempDir = filepath.Join(tmp, "cache")
	cfg.Output.Preset = "ultrafast"
	cfg.Clips = config.ClipsConfig{
		Count:             2,
		MinGapSec:         10,
		MinDurSec:         3,
		MaxDurSec:         8,
		PreSearchSec:      5,
		MinLeadinSec:      1,
		SilencePercentile: 50,
		MaxSilenceFrac:    0.9,
		EndSilenceRunSec:  2,
	}
	cfg.BoringFilter.DetectFreeze = false
	cfg.BoringFilter.DetectScene = false

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	runDir, err := pipeline.Run(ctx, pipeline.Config{
		InputVideo: in,
		Settings:   cfg,
		Log:        zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(runDir, "manifest.json"))
	if err != nil {
		t.Fatalf("missing manifest: %v", err)
	}
	var m types.Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	if len(m.Clips) == 0 {
		t.Fatalf("no clips in manifest")
	}

	c := m.Clips[0]
	if c.StartSec < 10 || c.StartSec > 18 {
		t.Errorf("clip start = %g, want near the loud burst at 15s", c.StartSec)
	}
	clipPath := filepath.Join(runDir, filepath.FromSlash(c.File))
	st, err := os.Stat(clipPath)
	if err != nil {
		t.Fatalf("missing clip file: %v", err)
	}
	if st.Size() == 0 {
		t.Fatalf("clip file is empty: %s", clipPath)
	}

	gotDur, err := probeDurationSeconds(clipPath)
	if err != nil {
		t.Fatalf("probe clip: %v", err)
	}
	if gotDur < c.DurationSec-1 || gotDur > c.DurationSec+1 {
		t.Errorf("clip duration = %.2fs, manifest says %.2fs", gotDur, c.DurationSec)
	}
}

func TestE2E_HookSplicePreservesDuration(t *testing.T) {
	skipIfNoFFmpeg(t)

	tmp := t.TempDir()
	in := filepath.Join(tmp, "ranked_match.mp4")
	buildFixture(t, in)

	cfg := config.Default()
	cfg.Output.OutDir = filepath.Join(tmp, "out")
	cfg.Output.TempDir = filepath.Join(tmp, "cache")
	cfg.Output.Preset = "ultrafast"
	cfg.Clips = config.ClipsConfig{
		Count:             1,
		MinGapSec:         10,
		MinDurSec:         3,
		MaxDurSec:         8,
		PreSearchSec:      5,
		MinLeadinSec:      1,
		SilencePercentile: 50,
		MaxSilenceFrac:    0.9,
		EndSilenceRunSec:  2,
	}
	cfg.BoringFilter.DetectFreeze = false
	cfg.BoringFilter.DetectScene = false
	cfg.StoryHook.Enabled = true
	cfg.StoryHook.HookSec = 1.5
	cfg.StoryHook.SearchTailSec = 5

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	runDir, err := pipeline.Run(ctx, pipeline.Config{
		InputVideo: in,
		Settings:   cfg,
		Log:        zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(runDir, "manifest.json"))
	if err != nil {
		t.Fatalf("missing manifest: %v", err)
	}
	var m types.Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	if len(m.Clips) == 0 {
		t.Fatalf("no clips in manifest")
	}

	c := m.Clips[0]
	clipPath := filepath.Join(runDir, filepath.FromSlash(c.File))
	gotDur, err := probeDurationSeconds(clipPath)
	if err != nil {
		t.Fatalf("probe clip: %v", err)
	}
	// The splice reorders the clip but must not change its length.
	if gotDur < c.DurationSec-1 || gotDur > c.DurationSec+1 {
		t.Errorf("spliced clip duration = %.2fs, manifest says %.2fs", gotDur, c.DurationSec)
	}
	if c.HookOffsetSec < 0 || c.HookOffsetSec > c.DurationSec-cfg.StoryHook.HookSec {
		t.Errorf("hook offset %.2f outside [0, %.2f]", c.HookOffsetSec, c.DurationSec-cfg.StoryHook.HookSec)
	}
}
