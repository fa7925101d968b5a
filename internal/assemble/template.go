// Package assemble loads prompt templates and merges them with a profile, a
// structure, and a resolved selection into final prompt text.
package assemble

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/kayz/docsynth/internal/errs"
)

// slotPattern matches named placeholders like {age} or {style.tone}.
var slotPattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_.]*)\}`)

// PromptTemplate is a markdown prompt skeleton with named slots. Immutable
// once loaded.
type PromptTemplate struct {
	Name  string
	Text  string
	slots []string
}

// LoadTemplate reads a prompt template file. The template name is the file
// stem.
func LoadTemplate(path string) (*PromptTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt template %s: %w: %v", path, errs.ErrConfig, err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, fmt.Errorf("prompt template %s is empty: %w", path, errs.ErrConfig)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &PromptTemplate{
		Name:  name,
		Text:  text,
		slots: scanSlots(text),
	}, nil
}

// NewTemplate builds a template from in-memory text. Used by tests and by
// callers that synthesize templates.
func NewTemplate(name, text string) *PromptTemplate {
	return &PromptTemplate{Name: name, Text: text, slots: scanSlots(text)}
}

// Slots returns the unique placeholder names in order of first appearance.
func (t *PromptTemplate) Slots() []string {
	out := make([]string, len(t.slots))
	copy(out, t.slots)
	return out
}

func scanSlots(text string) []string {
	seen := make(map[string]bool)
	var slots []string
	for _, m := range slotPattern.FindAllStringSubmatch(text, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		slots = append(slots, m[1])
	}
	return slots
}
