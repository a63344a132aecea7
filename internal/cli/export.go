package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazuruo/stepwise/internal/export"
)

// ExportOptions contains the options for the export command.
type ExportOptions struct {
	Format   string
	Out      string
	Title    string
	Template string
	Type     string
	Steps    []string

	Stdout io.Writer
}

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export step definitions as Markdown docs or one merged catalog",
		Long: `Export the loaded step definitions.

Formats:
- md: Markdown reference grouped by step type (default)
- yaml: a single catalog merging every loaded catalog

Patterns are written with the configured placeholder prefix. A custom
text/template file can replace the built-in Markdown layout.

Examples:
  stepwise export                        # Markdown to stdout
  stepwise export --out STEPS.md
  stepwise export --format yaml --out all.steps.yaml
  stepwise export --template docs.tmpl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Stdout = cmd.OutOrStdout()
			return runExport(commandContext(cmd), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "md", "export format (md, yaml)")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "-", "output file (- for stdout)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "title of the Markdown document")
	cmd.Flags().StringVar(&opts.Template, "template", "", "custom Markdown template file")
	cmd.Flags().StringVarP(&opts.Type, "type", "t", "", "only export definitions of this step type")
	cmd.Flags().StringSliceVar(&opts.Steps, "steps", nil, "extra step catalog (repeatable)")

	return cmd
}

func runExport(ctx context.Context, opts *ExportOptions) error {
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	stepType, err := parseStepType(opts.Type)
	if err != nil {
		return err
	}

	env, err := loadEnvironment(ctx, opts.Steps)
	if err != nil {
		return err
	}

	exporter, err := export.NewExporter(export.Options{
		Format:         export.Format(opts.Format),
		Title:          opts.Title,
		Prefix:         env.cfg.Matcher.Prefix,
		CustomTemplate: opts.Template,
	})
	if err != nil {
		return err
	}

	defs := filterDefinitions(env.resolver.Definitions(), stepType, "")

	if opts.Out == "" || opts.Out == "-" {
		output, err := exporter.Export(defs)
		if err != nil {
			return err
		}
		fmt.Fprint(stdout, output)
		return nil
	}

	if err := exporter.ExportToFile(defs, opts.Out); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "✓ Exported %d definition(s) to %s\n", len(defs), opts.Out)
	return nil
}
