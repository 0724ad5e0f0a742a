package types

// Window is a half-open [Start,End) range of whole seconds in the source
// media. End > Start for every window produced by selection.
type Window struct {
	Start int
	End   int
}

// Duration returns the window length in seconds.
func (w Window) Duration() int { return w.End - w.Start }

// FreezeInterval marks a span of frozen video, in seconds from media start.
type FreezeInterval struct {
	Start float64
	End   float64
}

// ClipPlan is the unit handed to the renderer: cut [Start, Start+Duration)
// from the source and splice the hook sub-segment at HookOffset (relative to
// the cut) so it plays first. HookOffset of 0 means no splice.
type ClipPlan struct {
	Start      float64
	Duration   float64
	HookOffset float64
}

type Transcript struct {
	Segments []Segment `json:"segments"`
}

type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words,omitempty"`
}

type Word struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Word  string  `json:"word"`
}

type Manifest struct {
	Input string         `json:"input"`
	Clips []ManifestClip `json:"clips"`
}

type ManifestClip struct {
	ID            string  `json:"id"`
	StartSec      float64 `json:"start_sec"`
	DurationSec   float64 `json:"duration_sec"`
	HookOffsetSec float64 `json:"hook_offset_sec"`
	File          string  `json:"file"`
	Subtitles     string  `json:"subtitles,omitempty"`
}
