package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/verticut/verticut/internal/config"
	"github.com/verticut/verticut/internal/logging"
	"github.com/verticut/verticut/internal/pipeline"
	"github.com/verticut/verticut/internal/watcher"
)

func runProcess(ctx context.Context, configPath, input, outOverride string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if outOverride != "" {
		cfg.Output.OutDir = outOverride
	}

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	runDir, err := pipeline.Run(ctx, pipeline.Config{
		InputVideo: absIn,
		Settings:   cfg,
		Log:        log.Logger,
	})
	if err != nil {
		return fmt.Errorf("process %s: %w", input, err)
	}
	clog := logging.WithComponent("cli")
	clog.Info().Str("out", runDir).Msg("done")
	return nil
}

func runWatch(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	clog := logging.WithComponent("cli")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = watcher.Watch(ctx, watcher.Config{
		Dir:           cfg.Watch.Dir,
		Extensions:    cfg.Watch.Extensions,
		StableSeconds: cfg.Watch.StableSeconds,
	}, log.Logger, func(ctx context.Context, path string) {
		if _, err := pipeline.Run(ctx, pipeline.Config{
			InputVideo: path,
			Settings:   cfg,
			Log:        log.Logger,
		}); err != nil {
			clog.Error().Err(err).Str("input", path).Msg("processing failed")
			return
		}
		if cfg.Watch.DeleteOriginal {
			if err := os.Remove(path); err != nil {
				clog.Warn().Err(err).Str("input", path).Msg("could not remove original")
			} else {
				clog.Info().Str("input", path).Msg("removed original")
			}
		}
	})
	if ctx.Err() != nil {
		return nil // clean shutdown on signal
	}
	return err
}
