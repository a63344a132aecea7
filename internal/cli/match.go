package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chazuruo/stepwise/internal/errors"
	"github.com/chazuruo/stepwise/internal/resolver"
)

// MatchOptions contains the options for the match command.
type MatchOptions struct {
	Type   string
	Format string
	Steps  []string
	All    bool

	Out io.Writer
}

// NewMatchCommand creates the match command.
func NewMatchCommand() *cobra.Command {
	opts := &MatchOptions{}

	cmd := &cobra.Command{
		Use:   "match <step text>",
		Short: "Find the step definition a step resolves to",
		Long: `Resolve step text against the loaded step definitions.

The best aligned pattern wins, even when the text is only a partial
instance of it; such matches are reported as partial. Set
matcher.require_full_match in the config to only accept full instances.
With --all every pattern that aligns with the text is listed with its
weight, best first.

Examples:
  stepwise match "I have 5 cucumbers"
  stepwise match --type then "I should have 3 cucumbers"
  stepwise match --all "I have"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Out = cmd.OutOrStdout()
			return runMatch(commandContext(cmd), opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVarP(&opts.Type, "type", "t", "", "step type (given, when, then, ...)")
	cmd.Flags().StringVar(&opts.Format, "format", "", "output format (table, json, plain)")
	cmd.Flags().StringSliceVar(&opts.Steps, "steps", nil, "extra step catalog (repeatable)")
	cmd.Flags().BoolVar(&opts.All, "all", false, "list every aligned pattern instead of resolving")

	return cmd
}

// matchResult is the JSON form of a resolved step.
type matchResult struct {
	ID       string            `json:"id"`
	Type     string            `json:"type"`
	Pattern  string            `json:"pattern"`
	Weight   int               `json:"weight"`
	Complete bool              `json:"complete"`
	Source   string            `json:"source,omitempty"`
	Params   map[string]string `json:"params,omitempty"`
}

// candidateResult is the JSON form of a ranked candidate.
type candidateResult struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Pattern  string `json:"pattern"`
	Weight   int    `json:"weight"`
	Complete bool   `json:"complete"`
}

func runMatch(ctx context.Context, opts *MatchOptions, text string) error {
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

	if opts.All {
		ranked, err := env.resolver.Rank(ctx, stepType, text, 0)
		if err != nil {
			return err
		}
		return printCandidates(out, format, env.cfg.Output.Color, ranked)
	}

	m, err := env.resolver.Resolve(ctx, stepType, text)
	if err != nil {
		if errors.IsNotFound(err) {
			return fmt.Errorf("no definition found for the step %q: %w", text, err)
		}
		return err
	}

	res := matchResult{
		ID:       m.Definition.ID,
		Type:     m.Definition.Type.String(),
		Pattern:  m.Pattern,
		Weight:   m.Weight(),
		Complete: m.Complete(),
		Source:   m.Definition.Source,
		Params:   m.Params(),
	}

	switch format {
	case FormatJSON:
		return writeJSON(out, res)
	case FormatPlain:
		fmt.Fprintf(out, "%s %s\n", res.Type, res.Pattern)
		fmt.Fprintf(out, "   ID: %s\n", res.ID)
		if !res.Complete {
			fmt.Fprintf(out, "   Partial match (weight %d)\n", res.Weight)
		}
		if res.Source != "" {
			fmt.Fprintf(out, "   Source: %s\n", res.Source)
		}
		for _, name := range sortedKeys(res.Params) {
			fmt.Fprintf(out, "   %s%s = %q\n", m.Template.Prefix(), name, res.Params[name])
		}
	default:
		tbl := newTable(out, env.cfg.Output.Color, "TOKEN", "INPUT", "WEIGHT")
		segments := m.Chain.Segments()
		for i, node := range m.Chain.Nodes() {
			tok := m.Template.Token(node.TokenIndex)
			name := fmt.Sprintf("%q", tok.Value())
			if tok.IsIdentifier {
				name = m.Template.Prefix() + tok.Value()
			}
			tbl.AddRow(name, fmt.Sprintf("%q", segments[i]), node.Weight)
		}
		fmt.Fprintf(out, "%s %s (weight %d)\n\n", res.Type, res.Pattern, res.Weight)
		tbl.Print()
	}

	return nil
}

func printCandidates(out io.Writer, format OutputFormat, color bool, ranked []resolver.Candidate) error {
	switch format {
	case FormatJSON:
		results := make([]candidateResult, 0, len(ranked))
		for _, c := range ranked {
			results = append(results, candidateResult{
				ID:       c.Definition.ID,
				Type:     c.Definition.Type.String(),
				Pattern:  c.Pattern,
				Weight:   c.Weight(),
				Complete: c.Complete(),
			})
		}
		return writeJSON(out, results)
	case FormatPlain:
		for i, c := range ranked {
			fmt.Fprintf(out, "%d. %s %s (weight %d)\n", i+1, c.Definition.Type, c.Pattern, c.Weight())
		}
	default:
		if len(ranked) == 0 {
			fmt.Fprintln(out, "No patterns align with the text.")
			return nil
		}
		tbl := newTable(out, color, "TYPE", "PATTERN", "WEIGHT", "COMPLETE")
		for _, c := range ranked {
			complete := "-"
			if c.Complete() {
				complete = "yes"
			}
			tbl.AddRow(c.Definition.Type, c.Pattern, c.Weight(), complete)
		}
		tbl.Print()
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
