// Package cli provides Cobra command definitions for stepwise.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chazuruo/stepwise/internal/steps"
)

// ListOptions contains the options for the list command.
type ListOptions struct {
	Type   string
	Format string
	Steps  []string
	Grep   string

	Out io.Writer
}

// NewListCommand creates the list command for listing step definitions.
func NewListCommand() *cobra.Command {
	opts := &ListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List step definitions with optional filtering",
		Long: `List all loaded step definitions with filtering options.

Definitions can be filtered by:
- --type: Only show definitions of a step type
- --grep: Only show definitions whose pattern or alias contains the text
- --format: Output format (table, json, plain)

Examples:
  stepwise list                   # List all definitions in table format
  stepwise list --type given      # List only Given definitions
  stepwise list --grep cucumber   # List definitions mentioning cucumbers
  stepwise list --format json     # List definitions in JSON format`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Out = cmd.OutOrStdout()
			return runList(commandContext(cmd), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Type, "type", "t", "", "only show definitions of this step type")
	cmd.Flags().StringVar(&opts.Format, "format", "", "output format (table, json, plain)")
	cmd.Flags().StringSliceVar(&opts.Steps, "steps", nil, "extra step catalog (repeatable)")
	cmd.Flags().StringVar(&opts.Grep, "grep", "", "only show definitions containing this text")

	return cmd
}

// definitionResult is the JSON form of a definition.
type definitionResult struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Pattern     string   `json:"pattern"`
	Aliases     []string `json:"aliases,omitempty"`
	Priority    int      `json:"priority,omitempty"`
	Description string   `json:"description,omitempty"`
	Source      string   `json:"source,omitempty"`
}

func runList(ctx context.Context, opts *ListOptions) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	stepType, err := parseStepType(opts.Type)
	if err != nil {
		return err
	}

	env, err := loadEnvironment(ctx, opts.Steps)
	if err != nil {
		return err
	}

	format, err := resolveFormat(opts.Format, env.cfg.Output.Format)
	if err != nil {
		return err
	}

	defs := filterDefinitions(env.resolver.Definitions(), stepType, opts.Grep)

	switch format {
	case FormatJSON:
		results := make([]definitionResult, 0, len(defs))
		for _, d := range defs {
			results = append(results, definitionResult{
				ID:          d.ID,
				Type:        d.Type.String(),
				Pattern:     d.Pattern,
				Aliases:     d.Aliases,
				Priority:    d.Priority,
				Description: d.Description,
				Source:      d.Source,
			})
		}
		return writeJSON(out, results)
	case FormatPlain:
		printDefinitionsPlain(out, defs)
	default:
		if len(defs) == 0 {
			fmt.Fprintln(out, "No step definitions found.")
			return nil
		}
		tbl := newTable(out, env.cfg.Output.Color, "TYPE", "PATTERN", "ALIASES", "SOURCE")
		for _, d := range defs {
			aliases := "-"
			if len(d.Aliases) > 0 {
				aliases = strings.Join(d.Aliases, "; ")
			}
			tbl.AddRow(d.Type, d.Pattern, aliases, d.Source)
		}
		tbl.Print()
		fmt.Fprintf(out, "\nTotal: %d definition(s)\n", len(defs))
	}

	return nil
}

// filterDefinitions keeps definitions of stepType (nil for all) whose
// pattern or aliases contain grep, ignoring case.
func filterDefinitions(defs []steps.Definition, stepType *steps.Type, grep string) []steps.Definition {
	needle := strings.ToLower(grep)

	var out []steps.Definition
	for _, d := range defs {
		if stepType != nil && d.Type != *stepType {
			continue
		}
		if needle != "" && !containsAny(d.Patterns(), needle) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func containsAny(patterns []string, needle string) bool {
	for _, p := range patterns {
		if strings.Contains(strings.ToLower(p), needle) {
			return true
		}
	}
	return false
}

// printDefinitionsPlain prints definitions in plain text format.
func printDefinitionsPlain(out io.Writer, defs []steps.Definition) {
	if len(defs) == 0 {
		fmt.Fprintln(out, "No step definitions found.")
		return
	}

	for i, d := range defs {
		fmt.Fprintf(out, "%d. %s %s\n", i+1, d.Type, d.Pattern)
		fmt.Fprintf(out, "   ID: %s\n", d.ID)
		for _, alias := range d.Aliases {
			fmt.Fprintf(out, "   Alias: %s\n", alias)
		}
		if d.Description != "" {
			fmt.Fprintf(out, "   %s\n", d.Description)
		}
		if d.Source != "" {
			fmt.Fprintf(out, "   Source: %s\n", d.Source)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "Total: %d definition(s)\n", len(defs))
}
