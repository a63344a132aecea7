// Package config provides configuration management for stepwise.
//
// The configuration is stored in TOML format and supports validation
// and default values for all fields.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chazuruo/stepwise/internal/errors"
)

// Config is the top-level configuration struct for stepwise.
// It contains all configuration sections as embedded structs.
type Config struct {
	Matcher MatcherConfig `toml:"matcher"`
	Steps   StepsConfig   `toml:"steps"`
	Stories StoriesConfig `toml:"stories"`
	Output  OutputConfig  `toml:"output"`
	TUI     TUIConfig     `toml:"tui"`
}

// MatcherConfig contains template matching settings.
type MatcherConfig struct {
	// Prefix marks a placeholder in step patterns (default: "$").
	// A catalog may override it with its own prefix.
	Prefix string `toml:"prefix"`

	// MaxInputLength is the longest step text, in characters, that will be
	// aligned. Longer text never matches. 0 disables the cap.
	MaxInputLength int `toml:"max_input_length"`

	// Strict reports steps that two definitions match equally well.
	Strict bool `toml:"strict"`

	// RequireFullMatch only resolves steps that are a full instance of a
	// pattern. By default the best partial alignment resolves too.
	RequireFullMatch bool `toml:"require_full_match"`
}

// StepsConfig contains step catalog settings.
type StepsConfig struct {
	// Root is the directory searched for catalogs.
	Root string `toml:"root"`

	// Globs are the base-name patterns of catalog files.
	Globs []string `toml:"globs"`

	// Files are extra catalog files loaded before the discovered ones.
	Files []string `toml:"files"`
}

// StoriesConfig contains story file settings.
type StoriesConfig struct {
	// Extensions are the file extensions treated as stories when a
	// directory is passed to "check".
	Extensions []string `toml:"extensions"`
}

// OutputConfig contains output settings.
type OutputConfig struct {
	// Format is the default output format.
	// Valid values: "table", "json", "plain".
	Format string `toml:"format"`

	// Color enables colored output.
	Color bool `toml:"color"`
}

// TUIConfig contains terminal UI settings.
type TUIConfig struct {
	// Enabled controls whether to use the TUI (when false, falls back to CLI).
	Enabled bool `toml:"enabled"`

	// ShowHelp controls whether to show the help line by default.
	ShowHelp bool `toml:"show_help"`

	// MaxSuggestions is the number of suggestions shown at once.
	MaxSuggestions int `toml:"max_suggestions"`
}

// DefaultConfig returns a Config with all default values set.
func DefaultConfig() *Config {
	return &Config{
		Matcher: MatcherConfig{
			Prefix:           "$",
			MaxInputLength:   512,
			Strict:           false,
			RequireFullMatch: false,
		},
		Steps: StepsConfig{
			Root:  ".",
			Globs: []string{"*.steps.yaml", "*.steps.yml"},
			Files: []string{},
		},
		Stories: StoriesConfig{
			Extensions: []string{".story"},
		},
		Output: OutputConfig{
			Format: "table",
			Color:  true,
		},
		TUI: TUIConfig{
			Enabled:        true,
			ShowHelp:       true,
			MaxSuggestions: 10,
		},
	}
}

// Validate checks the configuration for valid values.
// Returns a nil error if the config is valid, or an error describing the problem.
func (c *Config) Validate() error {
	// Validate Matcher section
	if c.Matcher.Prefix == "" {
		return invalid("matcher.prefix cannot be empty")
	}
	if strings.ContainsAny(c.Matcher.Prefix, " \t\r\n") {
		return invalid("matcher.prefix cannot contain whitespace: %q", c.Matcher.Prefix)
	}
	if c.Matcher.MaxInputLength < 0 {
		return invalid("matcher.max_input_length must be >= 0; got %d", c.Matcher.MaxInputLength)
	}

	// Validate Steps section
	if c.Steps.Root == "" {
		return invalid("steps.root cannot be empty")
	}
	if len(c.Steps.Globs) == 0 && len(c.Steps.Files) == 0 {
		return invalid("steps.globs and steps.files cannot both be empty")
	}
	for _, g := range c.Steps.Globs {
		if _, err := filepath.Match(g, ""); err != nil {
			return invalid("steps.globs contains an invalid pattern: %q", g)
		}
	}

	// Validate Stories section
	if len(c.Stories.Extensions) == 0 {
		return invalid("stories.extensions cannot be empty")
	}
	for _, ext := range c.Stories.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return invalid("stories.extensions must start with '.': %q", ext)
		}
	}

	// Validate Output section
	validFormats := map[string]bool{
		"table": true,
		"json":  true,
		"plain": true,
	}
	if !validFormats[c.Output.Format] {
		return invalid("output.format must be one of: table, json, plain; got %q", c.Output.Format)
	}

	// Validate TUI section
	if c.TUI.MaxSuggestions < 1 {
		return invalid("tui.max_suggestions must be >= 1; got %d", c.TUI.MaxSuggestions)
	}

	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, errors.ErrInvalid)...)
}
