// Package config provides configuration management for stepwise.
//
// This file contains config loading functionality including:
// - project and XDG config path detection
// - TOML file parsing
// - Environment variable overrides
// - Validation
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/chazuruo/stepwise/internal/errors"
)

// ProjectConfigName is the config file looked up in the working directory.
const ProjectConfigName = ".stepwise.toml"

// DetectConfigPath searches for a config file.
// Returns the first config file found, or empty string if none exists.
//
// Search order:
// 1. ./.stepwise.toml
// 2. ~/.config/stepwise/config.toml
//
// Returns empty string if no config file is found (caller should use defaults).
func DetectConfigPath() string {
	if _, err := os.Stat(ProjectConfigName); err == nil {
		return ProjectConfigName
	}

	if p := UserConfigPath(); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// UserConfigPath returns ~/.config/stepwise/config.toml, or empty string if
// the home directory is unknown.
func UserConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", "stepwise", "config.toml")
}

// Load loads a config from the specified path.
// If the file doesn't exist, returns an error.
// After loading, applies environment variable overrides and validates.
func Load(path string) (*Config, error) {
	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &errors.ConfigError{Path: path, Err: fmt.Errorf("config file: %w", errors.ErrNotFound)}
	}

	// Read file contents
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errors.ConfigError{Path: path, Err: fmt.Errorf("%w: %v", errors.ErrIO, err)}
	}

	// Start with defaults
	cfg := DefaultConfig()

	// Parse TOML
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, &errors.ConfigError{Path: path, Err: fmt.Errorf("failed to parse: %w", err)}
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Expand tilde in paths
	expandPaths(cfg)

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, &errors.ConfigError{Path: path, Err: fmt.Errorf("validation failed: %w", err)}
	}

	return cfg, nil
}

// LoadWithDefaults loads the config at path, or the first detected config
// file when path is empty. If no config file is found, returns a config with
// all default values.
func LoadWithDefaults(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}

	configPath := DetectConfigPath()
	if configPath == "" {
		// No config file found, return defaults
		cfg := DefaultConfig()
		applyEnvOverrides(cfg)
		expandPaths(cfg)

		if err := cfg.Validate(); err != nil {
			return nil, &errors.ConfigError{Err: fmt.Errorf("validation failed: %w", err)}
		}
		return cfg, nil
	}

	return Load(configPath)
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables follow the pattern: STEPWISE_<SECTION>_<FIELD>
//
// Examples:
// - STEPWISE_MATCHER_PREFIX overrides [matcher].prefix
// - STEPWISE_STEPS_ROOT overrides [steps].root
// - STEPWISE_OUTPUT_FORMAT overrides [output].format
//
// Boolean fields: use "true"/"false" strings
// Array fields: comma-separated values
func applyEnvOverrides(c *Config) {
	// Helper to lookup and apply string override
	applyString := func(key string, target *string) {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			*target = val
		}
	}

	// Helper to lookup and apply bool override
	applyBool := func(key string, target *bool) {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			switch strings.ToLower(val) {
			case "true", "1", "yes", "on":
				*target = true
			case "false", "0", "no", "off":
				*target = false
			}
		}
	}

	// Helper to lookup and apply int override
	applyInt := func(key string, target *int) {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			var i int
			if _, err := fmt.Sscanf(val, "%d", &i); err == nil {
				*target = i
			}
		}
	}

	// Helper to lookup and apply comma-separated list override
	applyList := func(key string, target *[]string) {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			var items []string
			for _, item := range strings.Split(val, ",") {
				if item = strings.TrimSpace(item); item != "" {
					items = append(items, item)
				}
			}
			*target = items
		}
	}

	// Matcher section
	applyString("STEPWISE_MATCHER_PREFIX", &c.Matcher.Prefix)
	applyInt("STEPWISE_MATCHER_MAX_INPUT_LENGTH", &c.Matcher.MaxInputLength)
	applyBool("STEPWISE_MATCHER_STRICT", &c.Matcher.Strict)
	applyBool("STEPWISE_MATCHER_REQUIRE_FULL_MATCH", &c.Matcher.RequireFullMatch)

	// Steps section
	applyString("STEPWISE_STEPS_ROOT", &c.Steps.Root)
	applyList("STEPWISE_STEPS_GLOBS", &c.Steps.Globs)
	applyList("STEPWISE_STEPS_FILES", &c.Steps.Files)

	// Stories section
	applyList("STEPWISE_STORIES_EXTENSIONS", &c.Stories.Extensions)

	// Output section
	applyString("STEPWISE_OUTPUT_FORMAT", &c.Output.Format)
	applyBool("STEPWISE_OUTPUT_COLOR", &c.Output.Color)

	// TUI section
	applyBool("STEPWISE_TUI_ENABLED", &c.TUI.Enabled)
	applyBool("STEPWISE_TUI_SHOW_HELP", &c.TUI.ShowHelp)
	applyInt("STEPWISE_TUI_MAX_SUGGESTIONS", &c.TUI.MaxSuggestions)
}

// expandPaths expands ~ to the home directory in the steps paths.
func expandPaths(c *Config) {
	c.Steps.Root = expandHome(c.Steps.Root)
	for i, f := range c.Steps.Files {
		c.Steps.Files[i] = expandHome(f)
	}
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") || p == "~" {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, strings.TrimPrefix(strings.TrimPrefix(p, "~"), "/"))
		}
	}
	return p
}
