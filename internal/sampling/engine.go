package sampling

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/kayz/docsynth/internal/errs"
)

// Choice records the option chosen at one node, with enough provenance to
// reproduce or debug the draw.
type Choice struct {
	Path      string
	Value     string
	Weight    float64
	NodeTotal float64
}

// ResolvedSelection is the output of one engine run: a flat mapping from node
// path to the chosen option, in resolution order. Immutable once returned.
type ResolvedSelection struct {
	choices map[string]Choice
	order   []string
}

// Get returns the full choice at a node path.
func (s *ResolvedSelection) Get(path string) (Choice, bool) {
	c, ok := s.choices[path]
	return c, ok
}

// Value returns the chosen option value at a node path.
func (s *ResolvedSelection) Value(path string) (string, bool) {
	c, ok := s.choices[path]
	return c.Value, ok
}

// Paths returns all resolved node paths in resolution order.
func (s *ResolvedSelection) Paths() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of resolved nodes.
func (s *ResolvedSelection) Len() int {
	return len(s.order)
}

// FamilyBlock renders every choice under a family as markdown requirement
// lines, for direct inclusion in a prompt. Returns false when the family
// resolved nothing.
func (s *ResolvedSelection) FamilyBlock(family string) (string, bool) {
	var lines []string
	prefix := family + "."
	for _, p := range s.order {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		lines = append(lines, fmt.Sprintf("- **%s:** %s", strings.TrimPrefix(p, prefix), s.choices[p].Value))
	}
	if len(lines) == 0 {
		return "", false
	}
	return strings.Join(lines, "\n"), true
}

// Engine resolves a sampling catalog into concrete selections. It never
// mutates the catalog, so one engine serves concurrent draws as long as each
// draw gets its own random source.
type Engine struct {
	cat *Catalog
}

// NewEngine creates an engine over a loaded catalog.
func NewEngine(cat *Catalog) *Engine {
	return &Engine{cat: cat}
}

// Resolve performs one weighted draw per node and returns a fresh selection.
// Given the same random source state and catalog, the result is identical.
func (e *Engine) Resolve(rng *rand.Rand) (*ResolvedSelection, error) {
	sel := &ResolvedSelection{choices: make(map[string]Choice)}
	for _, fam := range e.cat.families {
		for _, node := range fam.Nodes {
			if err := resolveNode(node, fam.Name, rng, sel); err != nil {
				return nil, err
			}
		}
	}
	return sel, nil
}

// resolveNode draws one option by cumulative weight: a uniform value in
// [0, total) is compared against the running sum over declaration order, and
// the first option whose cumulative weight strictly exceeds the draw wins.
// Zero-weight options can never win because they never advance the sum past
// the draw.
func resolveNode(node Node, prefix string, rng *rand.Rand, sel *ResolvedSelection) error {
	path := joinPath(prefix, node.Name)

	total := node.TotalWeight()
	if total <= 0 {
		return fmt.Errorf("node %q has zero total weight: %w", path, errs.ErrConfig)
	}

	draw := rng.Float64() * total
	cum := 0.0
	chosen := -1
	for i, opt := range node.Options {
		cum += opt.Weight
		if cum > draw {
			chosen = i
			break
		}
	}
	if chosen == -1 {
		// Float accumulation can leave cum fractionally below total; fall
		// back to the last option with positive weight.
		for i := len(node.Options) - 1; i >= 0; i-- {
			if node.Options[i].Weight > 0 {
				chosen = i
				break
			}
		}
	}

	opt := node.Options[chosen]
	sel.choices[path] = Choice{
		Path:      path,
		Value:     opt.Value,
		Weight:    opt.Weight,
		NodeTotal: total,
	}
	sel.order = append(sel.order, path)

	for _, child := range opt.Children {
		if err := resolveNode(child, path, rng, sel); err != nil {
			return err
		}
	}
	return nil
}
