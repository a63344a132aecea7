package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

// VersionInfo contains version information for the binary.
type VersionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	BuiltBy string `json:"built_by"`
	Go      string `json:"go_version"`
}

// VersionOptions contains the options for the version command.
type VersionOptions struct {
	Short bool
	JSON  bool

	Out io.Writer
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date, builtBy string) *cobra.Command {
	opts := &VersionOptions{}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long: `Display the stepwise version information.

Shows version, commit hash, build date, who built it, and Go version.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Out = cmd.OutOrStdout()
			return runVersion(opts, VersionInfo{
				Version: version,
				Commit:  commit,
				Date:    date,
				BuiltBy: builtBy,
				Go:      runtime.Version(),
			})
		},
	}

	cmd.Flags().BoolVar(&opts.Short, "short", false, "print only the version number")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "output in JSON format")

	return cmd
}

func runVersion(opts *VersionOptions, info VersionInfo) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	if opts.JSON {
		return writeJSON(out, info)
	}

	if opts.Short {
		fmt.Fprintln(out, info.Version)
		return nil
	}

	fmt.Fprintf(out, "stepwise version %s\n", info.Version)
	fmt.Fprintf(out, "commit: %s\n", info.Commit)
	fmt.Fprintf(out, "built at: %s\n", info.Date)
	if info.BuiltBy != "" && info.BuiltBy != "unknown" {
		fmt.Fprintf(out, "built by: %s\n", info.BuiltBy)
	}
	fmt.Fprintf(out, "go version: %s\n", info.Go)

	return nil
}
