// Package sampling implements weighted style/content requirement selection
// and the index cursors that drive profile and structure rotation.
package sampling

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kayz/docsynth/internal/errs"
)

// Option is one candidate at a choice point. A selected option may activate
// nested nodes, resolved only when the option wins the draw.
type Option struct {
	Value    string  `yaml:"value"`
	Weight   float64 `yaml:"weight"`
	Children []Node  `yaml:"children,omitempty"`
}

// Node is a named choice point with ordered weighted options. Declaration
// order is significant: the resolver walks options in this order.
type Node struct {
	Name    string   `yaml:"name"`
	Options []Option `yaml:"options"`
}

// TotalWeight sums the option weights of the node.
func (n Node) TotalWeight() float64 {
	total := 0.0
	for _, o := range n.Options {
		total += o.Weight
	}
	return total
}

// Family is one requirement family ("style", "content"): an ordered forest of
// node trees loaded from a single file.
type Family struct {
	Name  string
	Nodes []Node
}

// Catalog is the composed set of requirement families for one run. Immutable
// after construction; safe for concurrent resolution.
type Catalog struct {
	families []Family
}

// NewCatalog composes loaded families in order.
func NewCatalog(families ...Family) *Catalog {
	return &Catalog{families: families}
}

// Families returns the composed families in load order.
func (c *Catalog) Families() []Family {
	return c.families
}

type familyFile struct {
	Nodes []Node `yaml:"nodes"`
}

// LoadFamily reads one requirement family from a YAML file.
func LoadFamily(path, name string) (Family, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Family{}, fmt.Errorf("read sampling file %s: %w: %v", path, errs.ErrConfig, err)
	}

	var file familyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Family{}, fmt.Errorf("parse sampling file %s: %w: %v", path, errs.ErrConfig, err)
	}
	if len(file.Nodes) == 0 {
		return Family{}, fmt.Errorf("sampling file %s has no nodes: %w", path, errs.ErrConfig)
	}

	fam := Family{Name: name, Nodes: file.Nodes}
	for _, n := range fam.Nodes {
		if err := validateNode(n, name); err != nil {
			return Family{}, fmt.Errorf("sampling file %s: %w", path, err)
		}
	}
	return fam, nil
}

func validateNode(n Node, path string) error {
	nodePath := joinPath(path, n.Name)
	if strings.TrimSpace(n.Name) == "" {
		return fmt.Errorf("node under %q has no name: %w", path, errs.ErrConfig)
	}
	if len(n.Options) == 0 {
		return fmt.Errorf("node %q has no options: %w", nodePath, errs.ErrConfig)
	}

	total := 0.0
	for _, o := range n.Options {
		if strings.TrimSpace(o.Value) == "" {
			return fmt.Errorf("node %q has an option without a value: %w", nodePath, errs.ErrConfig)
		}
		if o.Weight < 0 {
			return fmt.Errorf("option %q of node %q has negative weight %v: %w", o.Value, nodePath, o.Weight, errs.ErrConfig)
		}
		total += o.Weight
		for _, child := range o.Children {
			if err := validateNode(child, nodePath); err != nil {
				return err
			}
		}
	}
	if total <= 0 {
		return fmt.Errorf("node %q has zero total weight: %w", nodePath, errs.ErrConfig)
	}
	return nil
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
