package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kayz/docsynth/internal/errs"
)

const validPipeline = `prompt_config:
  prompt_template: default
  include_style: true
  include_content: true
structure_selection:
  enabled_structures:
    - discharge_summary
profile_selection:
  domain: cancer
  mode: sequential
  count: -1
style_selection:
  file: style.yml
content_selection:
  file: content.yml
llm:
  enabled: false
output:
  subdirectory: cancer_run
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, validPipeline)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Profiles.Domain != "cancer" || cfg.Profiles.Mode != ModeSequential {
		t.Fatalf("unexpected profile selection: %+v", cfg.Profiles)
	}
	if cfg.RootDir != filepath.Dir(path) {
		t.Fatalf("expected RootDir %q, got %q", filepath.Dir(path), cfg.RootDir)
	}
	// structure mode defaults to the profile mode
	if cfg.Structures.Mode != ModeSequential {
		t.Fatalf("expected structure mode default, got %q", cfg.Structures.Mode)
	}
	if cfg.LLM.TimeoutSeconds != 120 || cfg.LLM.MaxTokens != 4096 {
		t.Fatalf("llm defaults not applied: %+v", cfg.LLM)
	}
}

func TestLoadPathHelpers(t *testing.T) {
	path := writeConfig(t, validPipeline)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	root := cfg.RootDir
	if cfg.ProfilesDir() != filepath.Join(root, "profiles", "cancer") {
		t.Fatalf("unexpected profiles dir: %s", cfg.ProfilesDir())
	}
	if cfg.SamplingPath("style.yml") != filepath.Join(root, "sampling", "style.yml") {
		t.Fatalf("unexpected sampling path: %s", cfg.SamplingPath("style.yml"))
	}
	// "default" template resolves to the domain template
	if cfg.TemplatePath() != filepath.Join(root, "templates", "cancer.md") {
		t.Fatalf("unexpected template path: %s", cfg.TemplatePath())
	}
	if cfg.OutputDir() != filepath.Join(root, "output", "cancer_run") {
		t.Fatalf("unexpected output dir: %s", cfg.OutputDir())
	}
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	path := writeConfig(t, `profile_selection:
  domain: cancer
  mode: shuffled
  count: 5
output:
  subdirectory: run
`)
	if _, err := Load(path); !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("expected ErrConfig for unknown mode, got %v", err)
	}
}

func TestLoadRejectsZeroCount(t *testing.T) {
	path := writeConfig(t, `profile_selection:
  domain: cancer
  mode: random
  count: 0
output:
  subdirectory: run
`)
	if _, err := Load(path); !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("expected ErrConfig for count 0, got %v", err)
	}
}

func TestLoadRejectsMissingDomain(t *testing.T) {
	path := writeConfig(t, `profile_selection:
  mode: random
  count: 5
output:
  subdirectory: run
`)
	if _, err := Load(path); !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("expected ErrConfig for missing domain, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
