// Package watcher waits for new recordings to land in a drop folder and
// hands them off once fully written.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

type Config struct {
	Dir           string
	Extensions    []string
	StableSeconds int

	// PollInterval is the size-check cadence while waiting for a file to
	// finish writing. Zero means one second.
	PollInterval time.Duration
}

// OnReady is called with each new file once its size has stopped changing.
type OnReady func(ctx context.Context, path string)

// Watch blocks until ctx is cancelled, invoking onReady for every new file
// in the configured dir whose extension matches. Files are considered ready
// when their size is unchanged for StableSeconds.
func Watch(ctx context.Context, cfg Config, log zerolog.Logger, onReady OnReady) error {
	log = log.With().Str("component", "watcher").Logger()

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(cfg.Dir); err != nil {
		return err
	}
	log.Info().Str("dir", cfg.Dir).Strs("extensions", cfg.Extensions).Msg("watching")

	seen := make(map[string]bool)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) {
				continue
			}
			if !matchesExt(ev.Name, cfg.Extensions) || seen[ev.Name] {
				continue
			}
			seen[ev.Name] = true

			log.Info().Str("file", ev.Name).Msg("new file, waiting for it to settle")
			if !WaitStable(ctx, ev.Name, cfg.StableSeconds, cfg.PollInterval) {
				log.Warn().Str("file", ev.Name).Msg("file never settled")
				delete(seen, ev.Name)
				continue
			}
			onReady(ctx, ev.Name)
		}
	}
}

// WaitStable reports whether the file's size stayed unchanged and non-zero
// for stableSeconds consecutive polls. It returns false when the file
// disappears or ctx is cancelled.
func WaitStable(ctx context.Context, path string, stableSeconds int, poll time.Duration) bool {
	if poll <= 0 {
		poll = time.Second
	}
	var lastSize int64 = -1
	stableFor := 0
	for stableFor < stableSeconds {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(poll):
		}
		st, err := os.Stat(path)
		if err != nil {
			return false
		}
		if st.Size() == lastSize && st.Size() > 0 {
			stableFor++
		} else {
			stableFor = 0
			lastSize = st.Size()
		}
	}
	return true
}

func matchesExt(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
