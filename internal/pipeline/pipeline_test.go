package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/verticut/verticut/internal/config"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	input := filepath.Join(tmp, "in.mp4")
	if err := os.WriteFile(input, []byte("x"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	ok := Config{InputVideo: input, Settings: config.Default(), Log: zerolog.Nop()}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	if err := (Config{Settings: config.Default()}).Validate(); err == nil {
		t.Errorf("empty input accepted")
	}
	if err := (Config{InputVideo: filepath.Join(tmp, "missing.mp4"), Settings: config.Default()}).Validate(); err == nil {
		t.Errorf("missing input accepted")
	}
	if err := (Config{InputVideo: input}).Validate(); err == nil {
		t.Errorf("nil settings accepted")
	}

	bad := config.Default()
	bad.Clips.Count = 0
	if err := (Config{InputVideo: input, Settings: bad}).Validate(); err == nil {
		t.Errorf("invalid settings accepted")
	}
}

func TestBuildRunOutDir(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 12, 10, 30, 45, 1234, time.UTC)
	got := buildRunOutDir("out", "/tmp/My Ranked.Match.mp4", now)
	base := filepath.Base(got)
	if filepath.Dir(got) != "out" {
		t.Fatalf("unexpected parent dir: %s", got)
	}
	if !strings.HasPrefix(base, "my-ranked-match-20260212-103045Z-") {
		t.Fatalf("unexpected run dir format: %s", base)
	}
	if len(base) != len("my-ranked-match-20260212-103045Z-")+6 {
		t.Fatalf("unexpected run dir suffix length: %s", base)
	}
}

func TestNormalizePathSegment(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"  My Ranked.Match  ": "my-ranked-match",
		"___":                 "",
		"abc123":              "abc123",
		"Name (v2)!":          "name-v2",
	}
	for in, want := range tests {
		in, want := in, want
		t.Run(in, func(t *testing.T) {
			t.Parallel()

			if got := normalizePathSegment(in); got != want {
				t.Fatalf("normalizePathSegment(%q) = %q, want %q", in, got, want)
			}
		})
	}
}
