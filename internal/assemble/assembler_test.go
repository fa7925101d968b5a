package assemble

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/kayz/docsynth/internal/catalog"
	"github.com/kayz/docsynth/internal/errs"
	"github.com/kayz/docsynth/internal/sampling"
)

func fixedSelection(t *testing.T) *sampling.ResolvedSelection {
	t.Helper()
	engine := sampling.NewEngine(sampling.NewCatalog(sampling.Family{
		Name: "style",
		Nodes: []sampling.Node{
			{Name: "tone", Options: []sampling.Option{{Value: "formal", Weight: 1}}},
			{Name: "verbosity", Options: []sampling.Option{{Value: "terse", Weight: 1}}},
		},
	}))
	sel, err := engine.Resolve(rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	return sel
}

func TestAssembleResolvesAllSources(t *testing.T) {
	tmpl := NewTemplate("default",
		"Patient: {age_band}\nTone: {style.tone}\n\n{structure}\n\nLayout: {structure_name}")
	profile := catalog.NewProfile("P1", map[string]string{"age_band": "60-69"})
	structure := catalog.StructureTemplate{Name: "discharge_summary", Text: "DISCHARGE SUMMARY"}

	out, err := Assemble(tmpl, profile, structure, fixedSelection(t))
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	want := "Patient: 60-69\nTone: formal\n\nDISCHARGE SUMMARY\n\nLayout: discharge_summary"
	if out != want {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestAssembleIsPure(t *testing.T) {
	tmpl := NewTemplate("default", "{profile}\n{structure}\n{style}")
	profile := catalog.NewProfile("P1", map[string]string{"age_band": "60-69", "stage": "T2N0M0"})
	structure := catalog.StructureTemplate{Name: "s", Text: "SKELETON"}
	sel := fixedSelection(t)

	first, err := Assemble(tmpl, profile, structure, sel)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Assemble(tmpl, profile, structure, sel)
		if err != nil {
			t.Fatalf("Assemble failed on repeat %d: %v", i, err)
		}
		if again != first {
			t.Fatalf("output differs on repeat %d:\n%s\nvs\n%s", i, again, first)
		}
	}
}

func TestAssembleProfileAttributeWinsPrecedence(t *testing.T) {
	// A profile attribute shadows both reserved structure slots and
	// selection paths of the same name.
	tmpl := NewTemplate("default", "{structure} / {style.tone}")
	profile := catalog.NewProfile("P1", map[string]string{
		"structure":  "from-profile",
		"style.tone": "also-from-profile",
	})
	structure := catalog.StructureTemplate{Name: "s", Text: "from-structure"}

	out, err := Assemble(tmpl, profile, structure, fixedSelection(t))
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if out != "from-profile / also-from-profile" {
		t.Fatalf("unexpected precedence result: %q", out)
	}
}

func TestAssembleFamilyBlockSlot(t *testing.T) {
	tmpl := NewTemplate("default", "Requirements:\n{style}")
	profile := catalog.NewProfile("P1", nil)
	structure := catalog.StructureTemplate{Name: "s", Text: "x"}

	out, err := Assemble(tmpl, profile, structure, fixedSelection(t))
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if !strings.Contains(out, "- **tone:** formal") || !strings.Contains(out, "- **verbosity:** terse") {
		t.Fatalf("expected family block in output:\n%s", out)
	}
}

func TestAssembleUnresolvedSlotFailsHard(t *testing.T) {
	tmpl := NewTemplate("default", "Patient: {age}, Tone: {style.tone}")
	profile := catalog.NewProfile("P1", map[string]string{"age_band": "60-69"})
	structure := catalog.StructureTemplate{Name: "s", Text: "x"}

	out, err := Assemble(tmpl, profile, structure, fixedSelection(t))
	if err == nil {
		t.Fatalf("expected failure, got output: %q", out)
	}
	if !errors.Is(err, errs.ErrTemplate) {
		t.Fatalf("expected ErrTemplate, got %v", err)
	}
	if !strings.Contains(err.Error(), `"age"`) {
		t.Fatalf("expected error to name the unresolved slot, got %v", err)
	}
}

func TestAssembleNilSelection(t *testing.T) {
	tmpl := NewTemplate("default", "{age_band} / {structure}")
	profile := catalog.NewProfile("P1", map[string]string{"age_band": "60-69"})
	structure := catalog.StructureTemplate{Name: "s", Text: "SKEL"}

	out, err := Assemble(tmpl, profile, structure, nil)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if out != "60-69 / SKEL" {
		t.Fatalf("unexpected output: %q", out)
	}

	tmpl = NewTemplate("default", "{style.tone}")
	if _, err := Assemble(tmpl, profile, structure, nil); !errors.Is(err, errs.ErrTemplate) {
		t.Fatalf("expected ErrTemplate without selection, got %v", err)
	}
}
