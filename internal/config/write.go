// Package config provides configuration management for stepwise.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/chazuruo/stepwise/internal/errors"
)

// Write writes the config to a file in TOML format.
func Write(path string, cfg *Config) error {
	// Create directory if it doesn't exist
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return &errors.ConfigError{Path: path, Err: fmt.Errorf("%w: failed to create config directory: %v", errors.ErrIO, err)}
	}

	// Marshal to TOML
	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return &errors.ConfigError{Path: path, Err: fmt.Errorf("failed to encode config: %w", err)}
	}

	// Write to file
	if err := os.WriteFile(path, []byte(buf.String()), 0644); err != nil {
		return &errors.ConfigError{Path: path, Err: fmt.Errorf("%w: failed to write config file: %v", errors.ErrIO, err)}
	}

	return nil
}
