package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/config"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/platform"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/repo"
)

// app bundles everything a subcommand needs: the parsed configuration,
// the detected platform, and a logger.
type app struct {
	cfg    *config.Config
	repos  []repo.Repo
	target platform.Target
	log    config.Logger
}

// loadApp parses the configuration file and detects the running platform.
// verbose switches the logger from warnings-only to full debug output.
func loadApp(ctx context.Context, verbose bool) (*app, error) {
	detector := platform.NewDetector()
	target, err := detector.Detect(ctx)
	if err != nil {
		return nil, fmt.Errorf("detect platform: %w", err)
	}

	parser := config.NewParser(detector)
	cfg, err := parser.ParseFile(ctx, config.DefaultPath())
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:    cfg,
		repos:  repo.FromConfigAll(cfg.Repos),
		target: *target,
		log:    config.NewWriterLogger(os.Stderr, verbose),
	}, nil
}
