package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazuruo/stepwise/internal/config"
	"github.com/chazuruo/stepwise/internal/paramstring"
)

// TokenizeOptions contains the options for the tokenize command.
type TokenizeOptions struct {
	Prefix string
	Format string

	Out io.Writer
}

// NewTokenizeCommand creates the tokenize command.
func NewTokenizeCommand() *cobra.Command {
	opts := &TokenizeOptions{}

	cmd := &cobra.Command{
		Use:   "tokenize <template> <text>",
		Short: "Split text into the literals and placeholders of a template",
		Long: `Align text with a single template and print how it splits.

No step catalogs are needed. This is useful when writing a pattern to see
how a step will be bound to it.

Examples:
  stepwise tokenize 'I have $count cucumbers' 'I have 5 cucumbers'
  stepwise tokenize --prefix : 'I have :count cucumbers' 'I have 5'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Out = cmd.OutOrStdout()
			return runTokenize(commandContext(cmd), opts, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&opts.Prefix, "prefix", "", "placeholder prefix (default: matcher.prefix)")
	cmd.Flags().StringVar(&opts.Format, "format", "", "output format (table, json, plain)")

	return cmd
}

// tokenizeResult is the JSON form of a tokenized text.
type tokenizeResult struct {
	Template   string                    `json:"template"`
	Text       string                    `json:"text"`
	Weight     int                       `json:"weight"`
	Complete   bool                      `json:"complete"`
	Tokens     []paramstring.StringToken `json:"tokens"`
	Completion string                    `json:"completion,omitempty"`
}

func runTokenize(ctx context.Context, opts *TokenizeOptions, content, text string) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	cfg, err := config.LoadWithDefaults(configPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = cfg.Matcher.Prefix
	}

	format, err := resolveFormat(opts.Format, cfg.Output.Format)
	if err != nil {
		return err
	}

	tmpl, err := paramstring.New(content,
		paramstring.WithPrefix(prefix),
		paramstring.WithMaxInputLength(cfg.Matcher.MaxInputLength))
	if err != nil {
		return err
	}

	chain := tmpl.Align(text)
	res := tokenizeResult{
		Template:   tmpl.Content(),
		Text:       text,
		Weight:     chain.Weight(),
		Complete:   chain.Consumed(tmpl),
		Tokens:     tmpl.Tokenize(text),
		Completion: tmpl.Complete(text),
	}
	if res.Tokens == nil {
		res.Tokens = []paramstring.StringToken{}
	}

	switch format {
	case FormatJSON:
		return writeJSON(out, res)
	case FormatPlain:
		for _, tok := range res.Tokens {
			kind := "literal"
			if tok.IsIdentifier {
				kind = "param"
			}
			fmt.Fprintf(out, "%s\t%q\n", kind, tok.Value)
		}
	default:
		if chain.IsZero() {
			fmt.Fprintln(out, "The text does not align with the template.")
			return nil
		}
		tbl := newTable(out, cfg.Output.Color, "KIND", "VALUE")
		for _, tok := range res.Tokens {
			kind := "literal"
			if tok.IsIdentifier {
				kind = "param"
			}
			tbl.AddRow(kind, fmt.Sprintf("%q", tok.Value))
		}
		tbl.Print()
		fmt.Fprintf(out, "\nweight: %d  complete: %t\n", res.Weight, res.Complete)
		if res.Completion != "" {
			fmt.Fprintf(out, "completion: %q\n", res.Completion)
		}
	}

	return nil
}
