package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/chazuruo/stepwise/internal/config"
	"github.com/chazuruo/stepwise/internal/steps"
)

// ExampleCatalogName is the file "init --example" writes under the steps root.
const ExampleCatalogName = "example.steps.yaml"

// InitOptions contains the options for the init command.
type InitOptions struct {
	ConfigPath string

	// Scriptable/flag options for --no-tui mode
	Prefix  string
	Root    string
	Format  string
	User    bool
	Example bool
	Force   bool

	Out io.Writer
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	opts := &InitOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize stepwise configuration",
		Long: `Initialize stepwise configuration and optionally an example step catalog.

The init command guides you through setting up your configuration:
- Choose the placeholder prefix used in step patterns (e.g. "$count")
- Choose where step catalogs live
- Choose the default output format
- Optionally write an example catalog to start from

The config is written to ./.stepwise.toml, or to the user config with --user.
Use --no-tui with flags for scripted setup.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Out = cmd.OutOrStdout()
			if opts.ConfigPath == "" {
				opts.ConfigPath = configPath()
			}
			return runInit(opts)
		},
	}

	cmd.Flags().StringVar(&opts.Prefix, "prefix", "", "placeholder prefix (default \"$\")")
	cmd.Flags().StringVar(&opts.Root, "root", "", "directory searched for step catalogs (default \".\")")
	cmd.Flags().StringVar(&opts.Format, "format", "", "default output format: table, json or plain")
	cmd.Flags().BoolVar(&opts.User, "user", false, "write the user config instead of ./.stepwise.toml")
	cmd.Flags().BoolVar(&opts.Example, "example", false, "also write an example step catalog")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite existing files")

	return cmd
}

func runInit(opts *InitOptions) error {
	// Check if --no-tui mode
	if IsNoTUI() {
		return runInitNonInteractive(opts)
	}

	// Interactive TUI mode
	return runInitInteractive(opts)
}

// runInitInteractive runs the init wizard with TUI.
func runInitInteractive(opts *InitOptions) error {
	cfg := config.DefaultConfig()

	var (
		prefix   = cfg.Matcher.Prefix
		root     = cfg.Steps.Root
		format   = cfg.Output.Format
		location = "project"
		example  = true
	)

	// Step 1: Matching
	if err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Placeholder prefix").
				Description("Marks placeholders in step patterns, e.g. $count").
				Value(&prefix).
				Validate(func(s string) error {
					c := config.DefaultConfig()
					c.Matcher.Prefix = s
					return c.Validate()
				}),
			huh.NewInput().
				Title("Steps root").
				Description("Directory searched for *.steps.yaml catalogs").
				Value(&root).Placeholder(cfg.Steps.Root),
		),
	).Run(); err != nil {
		return fmt.Errorf("form error: %w", err)
	}

	// Step 2: Output and location
	if err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default output format").
				Options(
					huh.NewOption("Table", "table"),
					huh.NewOption("JSON", "json"),
					huh.NewOption("Plain text", "plain"),
				).
				Value(&format),
			huh.NewSelect[string]().
				Title("Where should the config be written?").
				Options(
					huh.NewOption("This project (./"+config.ProjectConfigName+")", "project"),
					huh.NewOption("User config (~/.config/stepwise)", "user"),
				).
				Value(&location),
			huh.NewConfirm().
				Title("Write an example step catalog?").
				Value(&example),
		),
	).Run(); err != nil {
		return fmt.Errorf("form error: %w", err)
	}

	opts.Prefix = prefix
	opts.Root = root
	opts.Format = format
	opts.User = location == "user"
	opts.Example = example

	return runInitNonInteractive(opts)
}

// runInitNonInteractive runs init in non-TUI mode using flags.
func runInitNonInteractive(opts *InitOptions) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	cfg := buildConfig(config.DefaultConfig(), opts)

	// Validate
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	path, err := initConfigPath(opts)
	if err != nil {
		return err
	}
	if !opts.Force && fileExists(path) {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	}

	// Write config
	if err := config.Write(path, cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintf(out, "✓ Configuration written to: %s\n", path)

	if opts.Example {
		catalogPath, err := writeExampleCatalog(cfg, opts.Force)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Example catalog written to: %s\n", catalogPath)
		fmt.Fprintln(out, "\nTry: stepwise complete \"I have\"")
	}

	return nil
}

// buildConfig applies the init options to the defaults.
func buildConfig(base *config.Config, opts *InitOptions) *config.Config {
	cfg := *base // copy defaults

	if opts.Prefix != "" {
		cfg.Matcher.Prefix = opts.Prefix
	}
	if opts.Root != "" {
		cfg.Steps.Root = opts.Root
	}
	if opts.Format != "" {
		cfg.Output.Format = opts.Format
	}

	return &cfg
}

// initConfigPath returns where init writes the config.
func initConfigPath(opts *InitOptions) (string, error) {
	if opts.ConfigPath != "" {
		return opts.ConfigPath, nil
	}
	if opts.User {
		path := config.UserConfigPath()
		if path == "" {
			return "", fmt.Errorf("cannot determine the user config directory")
		}
		return path, nil
	}
	return config.ProjectConfigName, nil
}

// writeExampleCatalog writes the example catalog under the steps root using
// the configured prefix.
func writeExampleCatalog(cfg *config.Config, force bool) (string, error) {
	catalog := steps.ExampleCatalog()
	if cfg.Matcher.Prefix != catalog.Prefix {
		catalog = catalog.Reprefix(cfg.Matcher.Prefix)
	}

	data, err := steps.MarshalCatalog(catalog)
	if err != nil {
		return "", fmt.Errorf("failed to encode example catalog: %w", err)
	}

	path := filepath.Join(cfg.Steps.Root, ExampleCatalogName)
	if !force && fileExists(path) {
		return "", fmt.Errorf("example catalog already exists at %s (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(cfg.Steps.Root, 0755); err != nil {
		return "", fmt.Errorf("failed to create steps root: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write example catalog: %w", err)
	}
	return path, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
