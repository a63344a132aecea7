// Package cli provides global state and utilities for CLI commands.
package cli

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"
)

var (
	// NoTUI indicates that TUI/interactive mode should be disabled.
	// This is set by the global --no-tui flag.
	NoTUI bool

	// ConfigPath is the config file given with --config. Empty means the
	// config is detected.
	ConfigPath string

	// Verbose enables debug logging on stderr.
	Verbose bool

	// globalMutex protects the global flags for concurrent access.
	globalMutex sync.RWMutex
)

// AddGlobalFlags adds global flags to a command.
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVar(&NoTUI, "no-tui", false,
		"disable TUI/interactive mode; use plain text or JSON output")
	cmd.PersistentFlags().StringVar(&ConfigPath, "config", "",
		"config file path (default: ./.stepwise.toml or ~/.config/stepwise/config.toml)")
	cmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false,
		"log matcher decisions to stderr")
}

// IsNoTUI returns true if TUI mode is disabled.
func IsNoTUI() bool {
	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return NoTUI
}

// configPath returns the --config value.
func configPath() string {
	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return ConfigPath
}

// commandContext returns the command context carrying a logger. Debug
// messages are only shown with --verbose.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	globalMutex.RLock()
	level := slog.LevelWarn
	if Verbose {
		level = slog.LevelDebug
	}
	globalMutex.RUnlock()

	logger := clog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return clog.WithLogger(ctx, logger)
}
