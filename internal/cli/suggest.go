package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/chazuruo/stepwise/internal/tui"
)

// SuggestOptions contains the options for the suggest command.
type SuggestOptions struct {
	Steps []string

	Out io.Writer
}

// NewSuggestCommand creates the interactive suggest command.
func NewSuggestCommand() *cobra.Command {
	opts := &SuggestOptions{}

	cmd := &cobra.Command{
		Use:   "suggest [initial text]",
		Short: "Type a step interactively with live completions",
		Long: `Open an interactive prompt that completes step text as you type.

Interactive mode (default):
- Suggestions update on every keystroke
- Tab accepts the selected completion
- Ctrl+T cycles the step type filter
- Enter prints the step and exits

Non-interactive mode (--no-tui or tui.enabled = false):
- Prints the suggestions for the initial text, like 'stepwise complete'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Out = cmd.OutOrStdout()
			return runSuggest(commandContext(cmd), opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringSliceVar(&opts.Steps, "steps", nil, "extra step catalog (repeatable)")

	return cmd
}

func runSuggest(ctx context.Context, opts *SuggestOptions, initial string) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	env, err := loadEnvironment(ctx, opts.Steps)
	if err != nil {
		return err
	}

	if IsNoTUI() || !env.cfg.TUI.Enabled {
		return runComplete(ctx, &CompleteOptions{
			Format: string(FormatPlain),
			Steps:  opts.Steps,
			Out:    out,
		}, initial)
	}

	model := tui.NewSuggestModel(ctx, env.resolver, initial, env.cfg.TUI.MaxSuggestions)
	model.ShowHelp = env.cfg.TUI.ShowHelp

	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	result := final.(tui.SuggestModel)
	if result.DidQuit() || !result.DidConfirm() {
		return nil
	}

	fmt.Fprintln(out, result.Selected)
	return nil
}
