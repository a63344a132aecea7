package config

import (
	"reflect"
	"testing"

	"github.com/chazuruo/stepwise/internal/errors"
)

// TestDefaultConfig verifies that default values are correctly set.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		got  any
		want any
	}{
		// Matcher section defaults
		{"matcher.prefix", cfg.Matcher.Prefix, "$"},
		{"matcher.max_input_length", cfg.Matcher.MaxInputLength, 512},
		{"matcher.strict", cfg.Matcher.Strict, false},
		{"matcher.require_full_match", cfg.Matcher.RequireFullMatch, false},

		// Steps section defaults
		{"steps.root", cfg.Steps.Root, "."},
		{"steps.globs", cfg.Steps.Globs, []string{"*.steps.yaml", "*.steps.yml"}},
		{"steps.files", cfg.Steps.Files, []string{}},

		// Stories section defaults
		{"stories.extensions", cfg.Stories.Extensions, []string{".story"}},

		// Output section defaults
		{"output.format", cfg.Output.Format, "table"},
		{"output.color", cfg.Output.Color, true},

		// TUI section defaults
		{"tui.enabled", cfg.TUI.Enabled, true},
		{"tui.show_help", cfg.TUI.ShowHelp, true},
		{"tui.max_suggestions", cfg.TUI.MaxSuggestions, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.want) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

// TestValidate verifies that invalid values are rejected.
func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty prefix", func(c *Config) { c.Matcher.Prefix = "" }},
		{"whitespace prefix", func(c *Config) { c.Matcher.Prefix = "$ " }},
		{"negative max input", func(c *Config) { c.Matcher.MaxInputLength = -1 }},
		{"empty steps root", func(c *Config) { c.Steps.Root = "" }},
		{"no catalogs", func(c *Config) { c.Steps.Globs = nil; c.Steps.Files = nil }},
		{"bad glob", func(c *Config) { c.Steps.Globs = []string{"["} }},
		{"no story extensions", func(c *Config) { c.Stories.Extensions = nil }},
		{"extension without dot", func(c *Config) { c.Stories.Extensions = []string{"story"} }},
		{"bad format", func(c *Config) { c.Output.Format = "yaml" }},
		{"zero suggestions", func(c *Config) { c.TUI.MaxSuggestions = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !errors.IsInvalid(err) {
				t.Errorf("Validate() error %v does not wrap ErrInvalid", err)
			}
		})
	}
}

// TestValidate_FilesWithoutGlobs verifies explicit files are enough.
func TestValidate_FilesWithoutGlobs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Steps.Globs = nil
	cfg.Steps.Files = []string{"steps/cart.steps.yaml"}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}
