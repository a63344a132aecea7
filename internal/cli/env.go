package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/chainguard-dev/clog"

	"github.com/chazuruo/stepwise/internal/config"
	"github.com/chazuruo/stepwise/internal/errors"
	"github.com/chazuruo/stepwise/internal/resolver"
	"github.com/chazuruo/stepwise/internal/steps"
)

// environment is what most commands need: the config, the catalogs that
// were found and a resolver over their definitions.
type environment struct {
	cfg      *config.Config
	catalogs []string
	resolver *resolver.Resolver
}

// loadEnvironment loads the config and every catalog it points at, plus
// extra catalogs given on the command line.
func loadEnvironment(ctx context.Context, extra []string) (*environment, error) {
	cfg, err := config.LoadWithDefaults(configPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	catalogs, err := catalogPaths(cfg, extra)
	if err != nil {
		return nil, err
	}
	if len(catalogs) == 0 {
		return nil, fmt.Errorf("no step catalogs found under %s (globs: %v): %w\nRun 'stepwise init --example' to create one",
			cfg.Steps.Root, cfg.Steps.Globs, errors.ErrNotFound)
	}
	clog.FromContext(ctx).Debugf("loading %d catalog(s): %v", len(catalogs), catalogs)

	r, err := resolver.Load(steps.FileUnits(catalogs, cfg.Matcher.Prefix),
		resolver.WithMaxInputLength(cfg.Matcher.MaxInputLength),
		resolver.WithStrict(cfg.Matcher.Strict),
		resolver.WithFullMatch(cfg.Matcher.RequireFullMatch))
	if err != nil {
		return nil, fmt.Errorf("failed to load step definitions: %w", err)
	}

	return &environment{cfg: cfg, catalogs: catalogs, resolver: r}, nil
}

// catalogPaths lists configured files, extra files, then discovered files,
// without duplicates.
func catalogPaths(cfg *config.Config, extra []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, p := range cfg.Steps.Files {
		add(p)
	}
	for _, p := range extra {
		add(p)
	}

	if len(cfg.Steps.Globs) > 0 {
		found, err := steps.Discover(cfg.Steps.Root, cfg.Steps.Globs)
		switch {
		case err == nil:
			for _, p := range found {
				add(p)
			}
		case errors.IsNotFound(err):
			fmt.Fprintf(os.Stderr, "Warning: steps root %s does not exist\n", cfg.Steps.Root)
		default:
			return nil, err
		}
	}

	return paths, nil
}

// parseStepType parses the --type flag. Empty means any type.
func parseStepType(s string) (*steps.Type, error) {
	if s == "" {
		return nil, nil
	}
	t, err := steps.ParseType(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
