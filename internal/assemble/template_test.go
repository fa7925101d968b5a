package assemble

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/kayz/docsynth/internal/errs"
)

func TestLoadTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cancer.md")
	text := "# Task\n\nWrite a {structure_name} for {profile_name}.\n\n{structure}\n\nAgain: {structure_name}"
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	tmpl, err := LoadTemplate(path)
	if err != nil {
		t.Fatalf("LoadTemplate failed: %v", err)
	}
	if tmpl.Name != "cancer" {
		t.Fatalf("expected name cancer, got %q", tmpl.Name)
	}

	want := []string{"structure_name", "profile_name", "structure"}
	if !reflect.DeepEqual(tmpl.Slots(), want) {
		t.Fatalf("expected unique slots in first-appearance order %v, got %v", want, tmpl.Slots())
	}
}

func TestLoadTemplateMissingOrEmpty(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadTemplate(filepath.Join(dir, "missing.md")); !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("expected ErrConfig for missing template, got %v", err)
	}

	empty := filepath.Join(dir, "empty.md")
	if err := os.WriteFile(empty, []byte("  \n\n"), 0644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if _, err := LoadTemplate(empty); !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("expected ErrConfig for empty template, got %v", err)
	}
}

func TestSlotPatternIgnoresMalformedBraces(t *testing.T) {
	tmpl := NewTemplate("t", "{valid_slot} { not a slot } {1bad} {}")
	if len(tmpl.Slots()) != 1 || tmpl.Slots()[0] != "valid_slot" {
		t.Fatalf("expected only valid_slot, got %v", tmpl.Slots())
	}
}
