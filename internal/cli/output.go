package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/rodaine/table"
)

// OutputFormat defines the output format of listing commands.
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatPlain OutputFormat = "plain"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)

// resolveFormat returns the --format value, falling back to the configured
// output format.
func resolveFormat(flag, configured string) (OutputFormat, error) {
	f := flag
	if f == "" {
		f = configured
	}
	switch OutputFormat(f) {
	case FormatTable, FormatJSON, FormatPlain:
		return OutputFormat(f), nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be table, json, or plain)", f)
	}
}

// newTable returns a table writing to w. Headers are styled when color is
// on.
func newTable(w io.Writer, color bool, headers ...interface{}) table.Table {
	tbl := table.New(headers...).WithWriter(w)
	if color {
		tbl.WithHeaderFormatter(func(format string, vals ...interface{}) string {
			return headerStyle.Render(fmt.Sprintf(format, vals...))
		})
	}
	return tbl
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
