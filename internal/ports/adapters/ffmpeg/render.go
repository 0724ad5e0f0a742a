package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/verticut/verticut/internal/ports"
	"github.com/verticut/verticut/internal/types"
)

// RenderVertical cuts [plan.Start, plan.Start+plan.Duration) from the source
// and re-renders it into the 1080-wide vertical stack: cropped gameplay on
// top, the facecam crop below, loudness-normalized audio, optional sharpening
// and the optional hook splice that moves the teaser to the front.
func (a *Adapter) RenderVertical(ctx context.Context, in string, plan types.ClipPlan, opts ports.RenderOptions, out string) error {
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}

	hasAudio, err := a.HasAudioStream(ctx, in)
	if err != nil {
		return err
	}

	graph := buildVerticalGraph(plan, opts, hasAudio)

	args := []string{
		"-y",
		"-ss", fmtSeconds(plan.Start),
		"-t", fmtSeconds(plan.Duration),
		"-i", in,
		"-filter_complex", graph,
		"-map", "[v]",
	}
	if hasAudio {
		args = append(args, "-map", "[a]")
	}
	args = append(args,
		"-c:v", "libx264",
		"-preset", opts.Preset,
		"-crf", strconv.Itoa(opts.CRF),
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
	)
	if hasAudio {
		args = append(args,
			"-c:a", "aac",
			"-b:a", "160k",
			"-ar", "48000",
			"-ac", "2",
		)
	}
	args = append(args, "-shortest", out)

	a.log.Info().
		Str("input", in).
		Float64("start", plan.Start).
		Float64("duration", plan.Duration).
		Float64("hook_offset", plan.HookOffset).
		Str("output", out).
		Msg("rendering clip")

	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg render clip: %w\n%s", err, string(b))
	}
	return nil
}

// buildVerticalGraph assembles the filter_complex string. The video side
// always produces [v]; the audio side produces [a] only when the input has an
// audio stream.
func buildVerticalGraph(plan types.ClipPlan, opts ports.RenderOptions, hasAudio bool) string {
	spliceHook := opts.HookSec > 0 && plan.HookOffset > 0

	var b strings.Builder
	fmt.Fprintf(&b,
		"[0:v]split=2[vmain][vfc];"+
			"[vfc]crop=w=iw*%g:h=ih*%g:x=iw-(iw*%g)-%d:y=ih-(ih*%g)-%d,"+
			"scale=1080:%d:force_original_aspect_ratio=increase,"+
			"crop=1080:%d[face];"+
			"[vmain]crop=w=iw:h=ih-%d-%d:x=0:y=%d,"+
			"scale=1080:%d:force_original_aspect_ratio=increase,"+
			"crop=1080:%d[game];"+
			"[game][face]vstack=inputs=2[stack];"+
			"[stack]setsar=1,format=yuv420p[base]",
		opts.FaceWRatio, opts.FaceHRatio, opts.FaceWRatio, opts.FaceXOffsetPx, opts.FaceHRatio, opts.FaceYOffsetPx,
		opts.FacecamHeight, opts.FacecamHeight,
		opts.GameTopCropPx, opts.GameBottomCropPx, opts.GameTopCropPx,
		opts.GameplayHeight, opts.GameplayHeight,
	)

	post := []string{
		fmt.Sprintf("fps=%d", opts.FPS),
		fmt.Sprintf("setpts=N/(%d*TB)", opts.FPS),
	}
	if opts.Sharpen {
		post = append(post, unsharpFilter(opts.SharpenPreset))
	}
	if opts.BurnASS != "" {
		post = append(post, "subtitles="+escapeFilterPath(opts.BurnASS))
	}
	postChain := strings.Join(post, ",")

	if spliceHook {
		fmt.Fprintf(&b,
			";[base]split=2[vtease_src][vmain_src]"+
				";[vtease_src]trim=start=%g:duration=%g,setpts=PTS-STARTPTS[teasev]"+
				";[vmain_src]trim=start=0:duration=%g,setpts=PTS-STARTPTS[mainv]"+
				";[teasev][mainv]concat=n=2:v=1:a=0,%s[v]",
			plan.HookOffset, opts.HookSec, plan.HookOffset, postChain,
		)
	} else {
		fmt.Fprintf(&b, ";[base]%s[v]", postChain)
	}

	if hasAudio {
		if spliceHook {
			fmt.Fprintf(&b,
				";[0:a]asplit=2[atease_src][amain_src]"+
					";[atease_src]atrim=start=%g:duration=%g,asetpts=PTS-STARTPTS[atease]"+
					";[amain_src]atrim=start=0:duration=%g,asetpts=PTS-STARTPTS[amain]"+
					";[atease][amain]concat=n=2:v=0:a=1[a0]"+
					";[a0]aresample=async=1:first_pts=0,"+
					"loudnorm=I=-14:TP=-1.5:LRA=11,alimiter=limit=0.98[a]",
				plan.HookOffset, opts.HookSec, plan.HookOffset,
			)
		} else {
			b.WriteString(
				";[0:a]aresample=async=1:first_pts=0," +
					"loudnorm=I=-14:TP=-1.5:LRA=11,alimiter=limit=0.98[a]",
			)
		}
	}

	return b.String()
}

func unsharpFilter(preset string) string {
	switch preset {
	case "strong":
		return "unsharp=5:5:1.0:5:5:0.0"
	case "medium":
		return "unsharp=5:5:0.8:5:5:0.0"
	default:
		return "unsharp=5:5:0.6:5:5:0.0"
	}
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

// escapeFilterPath escapes a path for use inside a filter argument, where
// backslashes and colons are meta characters.
func escapeFilterPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "\\\\")
	p = strings.ReplaceAll(p, ":", "\\:")
	return p
}
