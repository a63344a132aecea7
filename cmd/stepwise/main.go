package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazuruo/stepwise/internal/cli"
)

// Version is set at build time using ldflags
var Version = "dev"

// Commit is set at build time using ldflags
var Commit = "unknown"

// Date is set at build time using ldflags
var Date = "unknown"

// BuiltBy is set at build time using ldflags
var BuiltBy = "unknown"

func main() {
	rootCmd := &cobra.Command{
		Use:   "stepwise",
		Short: "Match and complete parametrized step text",
		Long: `stepwise matches step text such as "I have 5 cucumbers" against step
patterns such as "I have $count cucumbers", completes partially typed steps,
and reports story steps that no pattern matches.

Step patterns are read from YAML catalogs (*.steps.yaml).`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	// Add global flags
	cli.AddGlobalFlags(rootCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Add subcommands
	rootCmd.AddCommand(cli.NewInitCommand())
	rootCmd.AddCommand(cli.NewListCommand())
	rootCmd.AddCommand(cli.NewMatchCommand())
	rootCmd.AddCommand(cli.NewCompleteCommand())
	rootCmd.AddCommand(cli.NewSuggestCommand())
	rootCmd.AddCommand(cli.NewTokenizeCommand())
	rootCmd.AddCommand(cli.NewCheckCommand())
	rootCmd.AddCommand(cli.NewExportCommand())
	rootCmd.AddCommand(cli.NewVersionCommand(Version, Commit, Date, BuiltBy))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
