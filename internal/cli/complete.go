package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// CompleteOptions contains the options for the complete command.
type CompleteOptions struct {
	Type   string
	Format string
	Steps  []string
	Limit  int

	Out io.Writer
}

// NewCompleteCommand creates the complete command.
func NewCompleteCommand() *cobra.Command {
	opts := &CompleteOptions{}

	cmd := &cobra.Command{
		Use:   "complete <partial step>",
		Short: "Suggest completions for partially typed step text",
		Long: `Suggest how partially typed step text could continue.

Each suggestion shows the text to append and the pattern it comes from.
Placeholders that are still to be typed are shown with their prefix.

Examples:
  stepwise complete "I have"
  stepwise complete --type when --limit 3 "I e"
  stepwise complete --format plain "I have 5 "`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Out = cmd.OutOrStdout()
			return runComplete(commandContext(cmd), opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVarP(&opts.Type, "type", "t", "", "step type (given, when, then, ...)")
	cmd.Flags().StringVar(&opts.Format, "format", "", "output format (table, json, plain)")
	cmd.Flags().StringSliceVar(&opts.Steps, "steps", nil, "extra step catalog (repeatable)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "maximum number of suggestions (default: tui.max_suggestions)")

	return cmd
}

// suggestionResult is the JSON form of a suggestion.
type suggestionResult struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Pattern    string `json:"pattern"`
	Completion string `json:"completion"`
	Text       string `json:"text"`
	Weight     int    `json:"weight"`
}

func runComplete(ctx context.Context, opts *CompleteOptions, partial string) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	stepType, err := parseStepType(opts.Type)
	if err != nil {
		return err
	}
	if opts.Limit < 0 {
		return fmt.Errorf("--limit must not be negative, got %d", opts.Limit)
	}

	env, err := loadEnvironment(ctx, opts.Steps)
	if err != nil {
		return err
	}

	format, err := resolveFormat(opts.Format, env.cfg.Output.Format)
	if err != nil {
		return err
	}

	limit := opts.Limit
	if limit == 0 {
		limit = env.cfg.TUI.MaxSuggestions
	}

	suggestions, err := env.resolver.Suggest(ctx, stepType, partial, limit)
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		results := make([]suggestionResult, 0, len(suggestions))
		for _, s := range suggestions {
			results = append(results, suggestionResult{
				ID:         s.Definition.ID,
				Type:       s.Definition.Type.String(),
				Pattern:    s.Pattern,
				Completion: s.Completion,
				Text:       s.Text,
				Weight:     s.Weight,
			})
		}
		return writeJSON(out, results)
	case FormatPlain:
		// One full suggestion per line, for shell completion scripts.
		for _, s := range suggestions {
			fmt.Fprintln(out, s.Text)
		}
	default:
		if len(suggestions) == 0 {
			fmt.Fprintln(out, "No suggestions.")
			return nil
		}
		tbl := newTable(out, env.cfg.Output.Color, "COMPLETION", "PATTERN", "TYPE", "WEIGHT")
		for _, s := range suggestions {
			tbl.AddRow(fmt.Sprintf("%q", s.Completion), s.Pattern, s.Definition.Type, s.Weight)
		}
		tbl.Print()
	}

	return nil
}
