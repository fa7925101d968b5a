package assemble

import (
	"fmt"
	"strings"

	"github.com/kayz/docsynth/internal/catalog"
	"github.com/kayz/docsynth/internal/errs"
	"github.com/kayz/docsynth/internal/sampling"
)

// Reserved slot names resolved from the structure template.
const (
	slotStructure     = "structure"
	slotStructureName = "structure_name"
	slotProfileName   = "profile_name"
	slotProfileBlock  = "profile"
)

// Assemble merges one profile, one structure, one resolved selection and one
// prompt template into final prompt text. All randomness happens upstream;
// given identical inputs the output is byte-identical.
//
// Each slot resolves, in precedence order, to: a profile attribute, the
// structure (reserved slots), or a resolved-selection path. A selection slot
// naming a whole family ("style", "content") renders every choice under it as
// requirement lines. A slot matching nothing fails hard: a silently blank
// slot would poison every document generated downstream.
func Assemble(tmpl *PromptTemplate, profile catalog.DomainProfile, structure catalog.StructureTemplate, sel *sampling.ResolvedSelection) (string, error) {
	var missing []string

	out := slotPattern.ReplaceAllStringFunc(tmpl.Text, func(m string) string {
		slot := strings.Trim(m, "{}")
		if v, ok := resolveSlot(slot, profile, structure, sel); ok {
			return v
		}
		missing = append(missing, slot)
		return m
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("template %q: unresolved slot %q: %w", tmpl.Name, missing[0], errs.ErrTemplate)
	}
	return out, nil
}

func resolveSlot(slot string, profile catalog.DomainProfile, structure catalog.StructureTemplate, sel *sampling.ResolvedSelection) (string, bool) {
	if v, ok := profile.Attr(slot); ok {
		return v, true
	}

	switch slot {
	case slotStructure:
		return structure.Text, true
	case slotStructureName:
		return structure.Name, true
	case slotProfileName:
		return profile.Name, true
	case slotProfileBlock:
		return profile.Describe(), true
	}

	if sel != nil {
		if v, ok := sel.Value(slot); ok {
			return v, true
		}
		if block, ok := sel.FamilyBlock(slot); ok {
			return block, true
		}
	}
	return "", false
}
