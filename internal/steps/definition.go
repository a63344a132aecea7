package steps

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/chazuruo/stepwise/internal/errors"
	"github.com/chazuruo/stepwise/internal/paramstring"
)

// SchemaVersion is the current catalog schema version.
const SchemaVersion = 1

// definitionNamespace seeds the name-based UUIDs of definitions without an ID.
var definitionNamespace = uuid.MustParse("6f1c3a52-3f0e-4d5e-9a7c-2b8d4e1f0a93")

// Definition is a step definition: a typed template, optionally with aliases
// that resolve to the same step.
type Definition struct {
	ID          string   `yaml:"id,omitempty"`
	Type        Type     `yaml:"type"`
	Pattern     string   `yaml:"pattern"`
	Aliases     []string `yaml:"aliases,omitempty"`
	Priority    int      `yaml:"priority,omitempty"`
	Description string   `yaml:"description,omitempty"`

	// Source is where the definition was read from, e.g. "steps/cart.steps.yaml:12".
	Source string `yaml:"-"`
	// Prefix is the placeholder prefix of the catalog the definition came from.
	// Empty means the default prefix.
	Prefix string `yaml:"-"`
}

// PlaceholderPrefix returns the definition prefix, or the default one.
func (d Definition) PlaceholderPrefix() string {
	if d.Prefix == "" {
		return paramstring.DefaultPrefix
	}
	return d.Prefix
}

// Patterns returns the main pattern followed by its aliases.
func (d Definition) Patterns() []string {
	out := make([]string, 0, 1+len(d.Aliases))
	out = append(out, d.Pattern)
	out = append(out, d.Aliases...)
	return out
}

// DeriveID returns a stable ID for a definition from its type and pattern.
func DeriveID(t Type, pattern string) string {
	return uuid.NewSHA1(definitionNamespace, []byte(t.String()+"\x00"+pattern)).String()
}

// Validate checks a definition, using prefix to parse its patterns.
func (d Definition) Validate(prefix string) error {
	if !d.Type.Valid() {
		return fmt.Errorf("step type is required: %w", errors.ErrInvalid)
	}
	if strings.TrimSpace(d.Pattern) == "" {
		return fmt.Errorf("step pattern is required: %w", errors.ErrInvalid)
	}
	for _, p := range d.Patterns() {
		if _, err := paramstring.New(p, paramstring.WithPrefix(prefix)); err != nil {
			return err
		}
	}
	return nil
}

// Catalog is a YAML document of step definitions.
type Catalog struct {
	SchemaVersion int          `yaml:"schema_version"`
	Prefix        string       `yaml:"prefix,omitempty"`
	Steps         []Definition `yaml:"steps"`
}

// PlaceholderPrefix returns the catalog prefix, or the default one.
func (c *Catalog) PlaceholderPrefix() string {
	if c.Prefix == "" {
		return paramstring.DefaultPrefix
	}
	return c.Prefix
}

// Validate checks the catalog and every definition in it.
func (c *Catalog) Validate() error {
	if c.SchemaVersion < 1 || c.SchemaVersion > SchemaVersion {
		return fmt.Errorf("unsupported schema_version %d: %w", c.SchemaVersion, errors.ErrInvalid)
	}

	seen := make(map[string]int)
	for i, d := range c.Steps {
		if err := d.Validate(c.PlaceholderPrefix()); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		if d.ID == "" {
			continue
		}
		if prev, ok := seen[d.ID]; ok {
			return fmt.Errorf("step %d: duplicate id %q (also step %d): %w", i, d.ID, prev, errors.ErrInvalid)
		}
		seen[d.ID] = i
	}

	return nil
}

// Reprefix returns a copy of the catalog whose patterns and aliases use
// prefix for their placeholders.
func (c *Catalog) Reprefix(prefix string) *Catalog {
	old := c.PlaceholderPrefix()
	out := *c
	out.Prefix = prefix
	out.Steps = make([]Definition, len(c.Steps))
	for i, d := range c.Steps {
		d.Pattern = reprefix(d.Pattern, old, prefix)
		if d.Aliases != nil {
			aliases := make([]string, len(d.Aliases))
			for j, a := range d.Aliases {
				aliases[j] = reprefix(a, old, prefix)
			}
			d.Aliases = aliases
		}
		d.Prefix = prefix
		out.Steps[i] = d
	}
	return &out
}

func reprefix(pattern, from, to string) string {
	var b strings.Builder
	for _, tok := range paramstring.Parse(pattern, from) {
		if tok.IsIdentifier {
			b.WriteString(to)
		}
		b.WriteString(tok.Value())
	}
	return b.String()
}

// UnmarshalCatalog decodes and validates a catalog. Definitions without an
// ID get one derived from their type and pattern.
func UnmarshalCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}
	if c.SchemaVersion == 0 {
		c.SchemaVersion = SchemaVersion
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("catalog validation failed: %w", err)
	}

	for i := range c.Steps {
		if c.Steps[i].ID == "" {
			c.Steps[i].ID = DeriveID(c.Steps[i].Type, c.Steps[i].Pattern)
		}
		c.Steps[i].Prefix = c.PlaceholderPrefix()
	}

	return &c, nil
}

// MarshalCatalog encodes a catalog as YAML.
func MarshalCatalog(c *Catalog) ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog: %w", err)
	}
	return data, nil
}

// LoadCatalog reads a catalog file. Each definition's Source is set to the
// file path and the position of the definition in the file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errors.CatalogError{Path: path, Err: fmt.Errorf("%w: %v", errors.ErrIO, err)}
	}

	c, err := UnmarshalCatalog(data)
	if err != nil {
		return nil, &errors.CatalogError{Path: path, Err: err}
	}

	lines := stepLines(data)
	for i := range c.Steps {
		if i < len(lines) {
			c.Steps[i].Source = fmt.Sprintf("%s:%d", path, lines[i])
		} else {
			c.Steps[i].Source = path
		}
	}

	return c, nil
}

// LoadCatalogReader decodes a catalog from r.
func LoadCatalogReader(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &errors.CatalogError{Err: fmt.Errorf("%w: %v", errors.ErrIO, err)}
	}
	c, err := UnmarshalCatalog(data)
	if err != nil {
		return nil, &errors.CatalogError{Err: err}
	}
	return c, nil
}

// stepLines returns the line of each entry of the top-level steps sequence.
func stepLines(data []byte) []int {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil || len(doc.Content) == 0 {
		return nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "steps" {
			continue
		}
		var lines []int
		for _, item := range root.Content[i+1].Content {
			lines = append(lines, item.Line)
		}
		return lines
	}
	return nil
}

// ExampleCatalog returns a small catalog used by "stepwise init --example".
func ExampleCatalog() *Catalog {
	return &Catalog{
		SchemaVersion: SchemaVersion,
		Prefix:        paramstring.DefaultPrefix,
		Steps: []Definition{
			{
				Type:        Given,
				Pattern:     "I have $count cucumbers",
				Aliases:     []string{"there are $count cucumbers"},
				Description: "Seeds the basket",
			},
			{
				Type:    When,
				Pattern: "I eat $count cucumbers",
			},
			{
				Type:    Then,
				Pattern: "I should have $count cucumbers",
			},
		},
	}
}
