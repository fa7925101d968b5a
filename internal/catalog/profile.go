// Package catalog loads the read-only inputs of a generation run: domain
// profiles, structure templates, and the names/locations roster. Catalogs are
// loaded once and never mutated afterwards, so they are safe to share.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kayz/docsynth/internal/errs"
)

// DomainProfile is a named attribute set describing the subject of one
// synthetic document. Attribute values are scalars or lists of scalars.
type DomainProfile struct {
	Name  string
	attrs map[string]string
	keys  []string
}

// NewProfile builds a profile from a plain attribute map, keyed in sorted
// order. File loading preserves authored order instead; this is for callers
// that synthesize profiles.
func NewProfile(name string, attrs map[string]string) DomainProfile {
	return DomainProfile{Name: name}.Merge(attrs)
}

// Attr returns the rendered attribute value; list values are comma-joined.
func (p DomainProfile) Attr(key string) (string, bool) {
	v, ok := p.attrs[key]
	return v, ok
}

// Keys returns attribute names in declaration order.
func (p DomainProfile) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Merge returns a copy of the profile with extra attributes added. Extras
// never override declared attributes.
func (p DomainProfile) Merge(extra map[string]string) DomainProfile {
	merged := DomainProfile{
		Name:  p.Name,
		attrs: make(map[string]string, len(p.attrs)+len(extra)),
		keys:  make([]string, 0, len(p.keys)+len(extra)),
	}
	for _, k := range p.keys {
		merged.attrs[k] = p.attrs[k]
		merged.keys = append(merged.keys, k)
	}
	extraKeys := make([]string, 0, len(extra))
	for k := range extra {
		extraKeys = append(extraKeys, k)
	}
	sort.Strings(extraKeys)
	for _, k := range extraKeys {
		if _, exists := merged.attrs[k]; exists {
			continue
		}
		merged.attrs[k] = extra[k]
		merged.keys = append(merged.keys, k)
	}
	return merged
}

// Describe renders the profile as markdown key/value lines for prompt use.
func (p DomainProfile) Describe() string {
	var b strings.Builder
	for i, k := range p.keys {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("- **%s:** %s", k, p.attrs[k]))
	}
	return b.String()
}

// ProfileCatalog is an ordered, immutable sequence of domain profiles.
type ProfileCatalog struct {
	domain   string
	profiles []DomainProfile
}

// LoadProfiles reads profile files for a domain. When files is empty, every
// .yml/.yaml file in dir is loaded in name order; otherwise only the named
// files, in the given order. Declaration order within each file is preserved.
func LoadProfiles(dir, domain string, files []string) (*ProfileCatalog, error) {
	if len(files) == 0 {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("profile domain %q: %w: %v", domain, errs.ErrConfig, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ext := filepath.Ext(e.Name())
			if ext == ".yml" || ext == ".yaml" {
				files = append(files, e.Name())
			}
		}
		sort.Strings(files)
	}

	cat := &ProfileCatalog{domain: domain}
	for _, f := range files {
		path := filepath.Join(dir, f)
		profiles, err := parseProfileFile(path)
		if err != nil {
			return nil, err
		}
		cat.profiles = append(cat.profiles, profiles...)
	}

	if len(cat.profiles) == 0 {
		return nil, fmt.Errorf("profile domain %q has no profiles: %w", domain, errs.ErrConfig)
	}
	return cat, nil
}

// parseProfileFile decodes one profile file: a top-level mapping of profile
// name to attribute mapping. yaml.Node is used instead of a map so that the
// authored order survives.
func parseProfileFile(path string) ([]DomainProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile file %s: %w: %v", path, errs.ErrConfig, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse profile file %s: %w: %v", path, errs.ErrConfig, err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("profile file %s is empty: %w", path, errs.ErrConfig)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("profile file %s: expected a mapping of profiles: %w", path, errs.ErrConfig)
	}

	var profiles []DomainProfile
	for i := 0; i < len(root.Content); i += 2 {
		nameNode, attrNode := root.Content[i], root.Content[i+1]
		name := strings.TrimSpace(nameNode.Value)
		if name == "" {
			return nil, fmt.Errorf("profile file %s: empty profile name: %w", path, errs.ErrConfig)
		}
		if attrNode.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("profile %s in %s: attributes must be a mapping: %w", name, path, errs.ErrConfig)
		}

		p := DomainProfile{Name: name, attrs: make(map[string]string)}
		for j := 0; j < len(attrNode.Content); j += 2 {
			key, valNode := attrNode.Content[j].Value, attrNode.Content[j+1]
			val, err := renderAttrValue(valNode)
			if err != nil {
				return nil, fmt.Errorf("profile %s attribute %q in %s: %w", name, key, path, err)
			}
			p.attrs[key] = val
			p.keys = append(p.keys, key)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func renderAttrValue(n *yaml.Node) (string, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Value, nil
	case yaml.SequenceNode:
		parts := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			if item.Kind != yaml.ScalarNode {
				return "", fmt.Errorf("list values must be scalars: %w", errs.ErrConfig)
			}
			parts = append(parts, item.Value)
		}
		return strings.Join(parts, ", "), nil
	default:
		return "", fmt.Errorf("value must be a scalar or a list: %w", errs.ErrConfig)
	}
}

// Count returns the number of loaded profiles.
func (c *ProfileCatalog) Count() int {
	return len(c.profiles)
}

// Get returns the profile at index i.
func (c *ProfileCatalog) Get(i int) (DomainProfile, error) {
	if i < 0 || i >= len(c.profiles) {
		return DomainProfile{}, fmt.Errorf("profile index %d of %d: %w", i, len(c.profiles), errs.ErrIndex)
	}
	return c.profiles[i], nil
}

// Domain returns the domain this catalog was loaded for.
func (c *ProfileCatalog) Domain() string {
	return c.domain
}

// Names returns profile names in catalog order.
func (c *ProfileCatalog) Names() []string {
	names := make([]string, len(c.profiles))
	for i, p := range c.profiles {
		names[i] = p.Name
	}
	return names
}

// FilterExisting returns a new catalog without the named profiles. Used by
// skip-existing runs to avoid regenerating documents.
func (c *ProfileCatalog) FilterExisting(existing map[string]bool) (*ProfileCatalog, int) {
	filtered := &ProfileCatalog{domain: c.domain}
	removed := 0
	for _, p := range c.profiles {
		if existing[p.Name] {
			removed++
			continue
		}
		filtered.profiles = append(filtered.profiles, p)
	}
	return filtered, removed
}
