// Package whispercpp shells out to the whisper.cpp CLI for word-level
// transcripts used by the caption renderer.
package whispercpp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/verticut/verticut/internal/types"
)

type Adapter struct {
	bin      string
	model    string
	language string
	log      zerolog.Logger
}

func New(binPath, modelPath, language string, log zerolog.Logger) *Adapter {
	if language == "" {
		language = "auto"
	}
	return &Adapter{
		bin:      binPath,
		model:    modelPath,
		language: language,
		log:      log.With().Str("component", "whisper").Logger(),
	}
}

// Transcribe runs whisper.cpp over the extracted mono wav. The JSON output is
// kept in cacheDir and reused on the next run over the same input.
func (a *Adapter) Transcribe(ctx context.Context, wavPath, cacheDir string) (types.Transcript, error) {
	outPrefix := filepath.Join(cacheDir, "transcript")
	jsonPath := outPrefix + ".json"

	if _, err := os.Stat(jsonPath); err != nil {
		args := []string{
			"-m", a.model,
			"-f", wavPath,
			"-l", a.language,
			"-oj",
			"-of", outPrefix,
			"-owts",
		}
		a.log.Info().Str("wav", wavPath).Msg("transcribing")
		cmd := exec.CommandContext(ctx, a.bin, args...)
		b, err := cmd.CombinedOutput()
		if err != nil {
			return types.Transcript{}, fmt.Errorf("whisper.cpp failed: %w\n%s", err, string(b))
		}
	} else {
		a.log.Debug().Str("json", jsonPath).Msg("using cached transcript")
	}

	jb, err := os.ReadFile(jsonPath)
	if err != nil {
		return types.Transcript{}, err
	}

	var tr types.Transcript
	if err := json.Unmarshal(jb, &tr); err != nil {
		return types.Transcript{}, fmt.Errorf("parse transcript json: %w", err)
	}
	for i := range tr.Segments {
		tr.Segments[i].Text = strings.TrimSpace(tr.Segments[i].Text)
		for j := range tr.Segments[i].Words {
			tr.Segments[i].Words[j].Word = strings.TrimSpace(tr.Segments[i].Words[j].Word)
		}
	}
	a.log.Info().Int("segments", len(tr.Segments)).Msg("transcript ready")
	return tr, nil
}
