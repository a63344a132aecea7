// Package export renders step definitions as documentation or as a single
// merged catalog.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/chazuruo/stepwise/internal/errors"
	"github.com/chazuruo/stepwise/internal/paramstring"
	"github.com/chazuruo/stepwise/internal/steps"
)

// Format represents the export format.
type Format string

const (
	// FormatMarkdown exports as Markdown.
	FormatMarkdown Format = "md"
	// FormatYAML exports as one merged catalog.
	FormatYAML Format = "yaml"
)

// Exporter exports step definitions in various formats.
type Exporter struct {
	format   Format
	title    string
	prefix   string
	template *template.Template
}

// Options contains export options.
type Options struct {
	Format Format
	// Title heads the Markdown document.
	Title string
	// Prefix is the placeholder prefix of the exported patterns. Definitions
	// read with another prefix are rewritten. Empty means the default prefix.
	Prefix string
	// CustomTemplate is a text/template file used instead of the built-in
	// Markdown template.
	CustomTemplate string
}

// NewExporter creates a new exporter.
func NewExporter(opts Options) (*Exporter, error) {
	e := &Exporter{
		format: opts.Format,
		title:  opts.Title,
		prefix: opts.Prefix,
	}
	if e.title == "" {
		e.title = "Step definitions"
	}
	if e.prefix == "" {
		e.prefix = paramstring.DefaultPrefix
	}

	switch e.format {
	case FormatMarkdown:
		tmpl, err := loadTemplate(opts.CustomTemplate)
		if err != nil {
			return nil, err
		}
		e.template = tmpl
	case FormatYAML:
		if opts.CustomTemplate != "" {
			return nil, fmt.Errorf("a custom template only applies to the md format: %w", errors.ErrInvalid)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q: %w", e.format, errors.ErrInvalid)
	}

	return e, nil
}

// loadTemplate loads the Markdown template.
func loadTemplate(customPath string) (*template.Template, error) {
	funcs := template.FuncMap{"join": strings.Join}

	if customPath == "" {
		return template.New("export").Funcs(funcs).Parse(builtinMarkdownTemplate)
	}

	data, err := os.ReadFile(customPath)
	if err != nil {
		return nil, fmt.Errorf("reading template file: %w: %v", errors.ErrIO, err)
	}
	return template.New(filepath.Base(customPath)).Funcs(funcs).Parse(string(data))
}

// Export renders defs.
func (e *Exporter) Export(defs []steps.Definition) (string, error) {
	normalized := e.normalize(defs)

	if e.format == FormatYAML {
		data, err := steps.MarshalCatalog(&steps.Catalog{
			SchemaVersion: steps.SchemaVersion,
			Prefix:        e.prefix,
			Steps:         normalized,
		})
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	var buf bytes.Buffer
	if err := e.template.Execute(&buf, e.templateData(normalized)); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}

// ExportToFile renders defs into path. A path of "-" or "" is rejected.
func (e *Exporter) ExportToFile(defs []steps.Definition, path string) error {
	if path == "" || path == "-" {
		return fmt.Errorf("no output path: %w", errors.ErrInvalid)
	}

	output, err := e.Export(defs)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(output), 0644); err != nil {
		return fmt.Errorf("writing output file: %w: %v", errors.ErrIO, err)
	}
	return nil
}

// normalize rewrites every definition to the exporter prefix.
func (e *Exporter) normalize(defs []steps.Definition) []steps.Definition {
	out := make([]steps.Definition, 0, len(defs))
	for _, d := range defs {
		if d.PlaceholderPrefix() != e.prefix {
			c := &steps.Catalog{Prefix: d.PlaceholderPrefix(), Steps: []steps.Definition{d}}
			d = c.Reprefix(e.prefix).Steps[0]
		}
		out = append(out, d)
	}
	return out
}

// definitionData is what the Markdown template sees for one definition.
type definitionData struct {
	ID          string
	Pattern     string
	Aliases     []string
	Description string
	Source      string
	Priority    int
	Params      []string
}

// groupData holds the definitions of one step type.
type groupData struct {
	Type        string
	Definitions []definitionData
}

// templateData groups definitions by type in declaration order of the types.
func (e *Exporter) templateData(defs []steps.Definition) map[string]interface{} {
	var groups []groupData
	for _, t := range steps.Types() {
		g := groupData{Type: t.String()}
		for _, d := range defs {
			if d.Type != t {
				continue
			}
			var params []string
			for _, tok := range paramstring.Parse(d.Pattern, e.prefix) {
				if tok.IsIdentifier {
					params = append(params, e.prefix+tok.Value())
				}
			}
			g.Definitions = append(g.Definitions, definitionData{
				ID:          d.ID,
				Pattern:     d.Pattern,
				Aliases:     d.Aliases,
				Description: d.Description,
				Source:      d.Source,
				Priority:    d.Priority,
				Params:      params,
			})
		}
		if len(g.Definitions) > 0 {
			groups = append(groups, g)
		}
	}

	return map[string]interface{}{
		"Title":  e.title,
		"Prefix": e.prefix,
		"Count":  len(defs),
		"Groups": groups,
	}
}

// builtinMarkdownTemplate is the default Markdown template.
const builtinMarkdownTemplate = "# {{.Title}}\n\n" +
	"{{.Count}} definition(s). Placeholders start with `{{.Prefix}}`.\n" +
	"{{range .Groups}}\n## {{.Type}}\n\n" +
	"{{range .Definitions}}### `{{.Pattern}}`\n\n" +
	"{{if .Description}}{{.Description}}\n\n{{end}}" +
	"{{if .Params}}**Parameters:** `{{join .Params \"`, `\"}}`\n\n{{end}}" +
	"{{if .Aliases}}**Aliases:**\n{{range .Aliases}}- `{{.}}`\n{{end}}\n{{end}}" +
	"{{if .Priority}}**Priority:** {{.Priority}}\n\n{{end}}" +
	"**ID:** {{.ID}}{{if .Source}}  \n**Source:** {{.Source}}{{end}}\n\n" +
	"{{end}}{{end}}" +
	"---\n*Generated by stepwise*\n"
