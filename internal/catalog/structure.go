package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kayz/docsynth/internal/errs"
)

// StructureTemplate is a hand-authored document layout used as the structural
// skeleton for generation. The text is opaque to the pipeline.
type StructureTemplate struct {
	// Name is the file stem, stable across runs.
	Name string
	Text string
}

// StructureCatalog is an ordered, immutable sequence of structure templates.
type StructureCatalog struct {
	domain     string
	structures []StructureTemplate
}

// LoadStructures reads structure template files for a domain. When enabled is
// empty every .txt file in dir is loaded in name order; otherwise only the
// named structures (file stems), in the given order.
func LoadStructures(dir, domain string, enabled []string) (*StructureCatalog, error) {
	cat := &StructureCatalog{domain: domain}

	if len(enabled) == 0 {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("structure domain %q: %w: %v", domain, errs.ErrConfig, err)
		}
		var names []string
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".txt" {
				continue
			}
			names = append(names, strings.TrimSuffix(e.Name(), ".txt"))
		}
		sort.Strings(names)
		enabled = names
	}

	for _, name := range enabled {
		path := filepath.Join(dir, name+".txt")
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read structure %q: %w: %v", name, errs.ErrConfig, err)
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			return nil, fmt.Errorf("structure %q is empty: %w", name, errs.ErrConfig)
		}
		cat.structures = append(cat.structures, StructureTemplate{Name: name, Text: text})
	}

	if len(cat.structures) == 0 {
		return nil, fmt.Errorf("structure domain %q has no templates: %w", domain, errs.ErrConfig)
	}
	return cat, nil
}

// Count returns the number of loaded structures.
func (c *StructureCatalog) Count() int {
	return len(c.structures)
}

// Get returns the structure at index i.
func (c *StructureCatalog) Get(i int) (StructureTemplate, error) {
	if i < 0 || i >= len(c.structures) {
		return StructureTemplate{}, fmt.Errorf("structure index %d of %d: %w", i, len(c.structures), errs.ErrIndex)
	}
	return c.structures[i], nil
}

// Domain returns the domain this catalog was loaded for.
func (c *StructureCatalog) Domain() string {
	return c.domain
}
