package steps

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/chazuruo/stepwise/internal/errors"
)

// SourceUnit is anything that can provide step definitions.
type SourceUnit interface {
	// Name identifies the unit in messages.
	Name() string

	// Definitions returns the unit's definitions in declaration order.
	Definitions() ([]Definition, error)
}

// FileUnit is a catalog file on disk. The file is read on every call.
type FileUnit struct {
	Path string
	// DefaultPrefix applies to catalogs that do not declare a prefix.
	DefaultPrefix string
}

// Name returns the file path.
func (u FileUnit) Name() string { return u.Path }

// Definitions loads the catalog and returns its definitions, each carrying
// the catalog prefix.
func (u FileUnit) Definitions() ([]Definition, error) {
	c, err := LoadCatalog(u.Path)
	if err != nil {
		return nil, err
	}
	if c.Prefix == "" && u.DefaultPrefix != "" {
		for i := range c.Steps {
			c.Steps[i].Prefix = u.DefaultPrefix
		}
	}
	return c.Steps, nil
}

// StaticUnit wraps definitions that are already in memory.
type StaticUnit struct {
	Label string
	Defs  []Definition
}

// Name returns the label.
func (u StaticUnit) Name() string { return u.Label }

// Definitions returns the wrapped definitions.
func (u StaticUnit) Definitions() ([]Definition, error) { return u.Defs, nil }

// Visit walks the definitions of every unit in order and calls fn for each
// one whose type equals filter. A nil filter visits every definition.
// Visiting stops as soon as fn returns false.
func Visit(units []SourceUnit, filter *Type, fn func(Definition) bool) error {
	for _, u := range units {
		defs, err := u.Definitions()
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", u.Name(), err)
		}
		for _, d := range defs {
			if filter != nil && d.Type != *filter {
				continue
			}
			if !fn(d) {
				return nil
			}
		}
	}
	return nil
}

// Collect returns every definition visited with filter.
func Collect(units []SourceUnit, filter *Type) ([]Definition, error) {
	var out []Definition
	err := Visit(units, filter, func(d Definition) bool {
		out = append(out, d)
		return true
	})
	return out, err
}

// Discover walks root and returns the catalog files whose base name matches
// one of globs, sorted by path. Hidden directories are skipped.
func Discover(root string, globs []string) ([]string, error) {
	for _, g := range globs {
		if _, err := filepath.Match(g, ""); err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", g, errors.ErrInvalid)
		}
	}

	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("steps root %s: %w", root, errors.ErrNotFound)
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && len(d.Name()) > 1 && d.Name()[0] == '.' {
				return filepath.SkipDir
			}
			return nil
		}
		for _, g := range globs {
			if ok, _ := filepath.Match(g, d.Name()); ok {
				paths = append(paths, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// FileUnits wraps paths as source units. prefix, if given, is the default
// placeholder prefix for catalogs that do not declare one.
func FileUnits(paths []string, prefix ...string) []SourceUnit {
	var def string
	if len(prefix) > 0 {
		def = prefix[0]
	}
	units := make([]SourceUnit, len(paths))
	for i, p := range paths {
		units[i] = FileUnit{Path: p, DefaultPrefix: def}
	}
	return units
}
