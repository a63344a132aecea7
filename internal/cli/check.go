package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chazuruo/stepwise/internal/check"
	"github.com/chazuruo/stepwise/internal/errors"
)

// ErrCheckFailed is returned when a story has steps without a definition.
var ErrCheckFailed = fmt.Errorf("story check failed")

// CheckOptions contains the options for the check command.
type CheckOptions struct {
	Format   string
	Steps    []string
	Resolved bool

	Out io.Writer
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check [story files or directories...]",
		Short: "Report story steps that no step definition matches",
		Long: `Resolve every step of the given stories against the loaded step
definitions and report the ones that do not resolve.

Directories are searched for files with one of the configured story
extensions (stories.extensions). Without arguments the current directory
is searched. The command exits non-zero when a step has no definition.

Examples:
  stepwise check
  stepwise check stories/cart.story
  stepwise check --format json stories/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Out = cmd.OutOrStdout()
			if len(args) == 0 {
				args = []string{"."}
			}
			err := runCheck(commandContext(cmd), opts, args)
			if err == ErrCheckFailed {
				cmd.SilenceUsage = true
			}
			return err
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "", "output format (table, json, plain)")
	cmd.Flags().StringSliceVar(&opts.Steps, "steps", nil, "extra step catalog (repeatable)")
	cmd.Flags().BoolVar(&opts.Resolved, "resolved", false, "also list the steps that resolved")

	return cmd
}

func runCheck(ctx context.Context, opts *CheckOptions, args []string) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	env, err := loadEnvironment(ctx, opts.Steps)
	if err != nil {
		return err
	}

	format, err := resolveFormat(opts.Format, env.cfg.Output.Format)
	if err != nil {
		return err
	}

	files, err := storyFiles(args, env.cfg.Stories.Extensions)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no story files found (extensions: %v): %w", env.cfg.Stories.Extensions, errors.ErrNotFound)
	}

	report, err := check.New(env.resolver).CheckFiles(ctx, files)
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		if report.Resolved == nil {
			report.Resolved = []check.Resolved{}
		}
		if report.Diagnostics == nil {
			report.Diagnostics = []check.Diagnostic{}
		}
		if err := writeJSON(out, report); err != nil {
			return err
		}
	case FormatPlain:
		for _, d := range report.Diagnostics {
			fmt.Fprintln(out, d.String())
		}
		if opts.Resolved {
			for _, r := range report.Resolved {
				fmt.Fprintf(out, "%s:%d: ok: %s\n", r.File, r.Line, r.Pattern)
			}
		}
	default:
		printCheckTable(out, env.cfg.Output.Color, report, opts.Resolved)
	}

	if report.HasErrors() {
		return ErrCheckFailed
	}
	return nil
}

func printCheckTable(out io.Writer, color bool, report *check.Report, withResolved bool) {
	if len(report.Diagnostics) > 0 {
		tbl := newTable(out, color, "LOCATION", "SEVERITY", "STEP", "MESSAGE")
		for _, d := range report.Diagnostics {
			tbl.AddRow(fmt.Sprintf("%s:%d:%d", d.File, d.Line, d.Column), d.Severity, firstLine(d.Text), d.Message)
		}
		tbl.Print()
		fmt.Fprintln(out)
	}

	if withResolved && len(report.Resolved) > 0 {
		tbl := newTable(out, color, "LOCATION", "STEP", "PATTERN", "WEIGHT")
		for _, r := range report.Resolved {
			tbl.AddRow(fmt.Sprintf("%s:%d", r.File, r.Line), firstLine(r.Text), r.Pattern, r.Weight)
		}
		tbl.Print()
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "Checked %d file(s): %d step(s) resolved, %d problem(s)\n",
		len(report.Files), len(report.Resolved), len(report.Diagnostics))
}

// storyFiles expands args into story files. Files are taken as given;
// directories are walked for files with one of exts. Hidden directories
// are skipped.
func storyFiles(args, exts []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("story path %s: %w", arg, errors.ErrNotFound)
			}
			return nil, fmt.Errorf("story path %s: %w: %v", arg, errors.ErrIO, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}

		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if hasExtension(path, exts) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w: %v", arg, errors.ErrIO, err)
		}
		sort.Strings(found)
		for _, p := range found {
			add(p)
		}
	}

	return files, nil
}

func hasExtension(path string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
