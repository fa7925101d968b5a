package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kayz/docsynth/internal/errs"
)

// Selection modes supported by the pipeline.
const (
	ModeSequential = "sequential"
	ModeRandom     = "random"
)

// Config is the full pipeline configuration loaded from pipeline.yml.
type Config struct {
	Prompt     PromptConfig    `yaml:"prompt_config"`
	Structures StructureConfig `yaml:"structure_selection"`
	Profiles   ProfileConfig   `yaml:"profile_selection"`
	Style      SamplingSource  `yaml:"style_selection"`
	Content    SamplingSource  `yaml:"content_selection"`
	Roster     RosterConfig    `yaml:"names_locations,omitempty"`
	LLM        LLMConfig       `yaml:"llm,omitempty"`
	Output     OutputConfig    `yaml:"output"`

	// Seed fixes the random source for reproducible runs; 0 means
	// time-seeded.
	Seed int64 `yaml:"seed,omitempty"`

	// RootDir is the directory containing pipeline.yml. Set by Load, not
	// read from the file.
	RootDir string `yaml:"-"`
}

// PromptConfig selects the prompt template and which sampled requirement
// families are rendered into it.
type PromptConfig struct {
	Template       string `yaml:"prompt_template"`
	IncludeStyle   bool   `yaml:"include_style"`
	IncludeContent bool   `yaml:"include_content"`
}

// StructureConfig selects structure templates for the domain.
type StructureConfig struct {
	Enabled []string `yaml:"enabled_structures,omitempty"`
	Mode    string   `yaml:"mode,omitempty"`
}

// ProfileConfig selects domain profiles and the iteration policy.
type ProfileConfig struct {
	Domain string   `yaml:"domain"`
	Files  []string `yaml:"file,omitempty"`
	Mode   string   `yaml:"mode"`
	// Count is the number of documents to generate; -1 means one pass over
	// all loaded profiles.
	Count int `yaml:"count"`
}

// SamplingSource names one weighted requirement catalog file.
type SamplingSource struct {
	File string `yaml:"file"`
}

// RosterConfig controls names/locations sampling.
type RosterConfig struct {
	Enabled bool   `yaml:"enabled"`
	File    string `yaml:"file,omitempty"`
}

// LLMConfig configures the generation backend.
type LLMConfig struct {
	Enabled        bool    `yaml:"enabled"`
	Provider       string  `yaml:"provider,omitempty"`
	Model          string  `yaml:"model,omitempty"`
	APIKey         string  `yaml:"api_key,omitempty"`
	BaseURL        string  `yaml:"base_url,omitempty"`
	MaxTokens      int     `yaml:"max_tokens,omitempty"`
	Temperature    float32 `yaml:"temperature,omitempty"`
	TimeoutSeconds int     `yaml:"timeout_seconds,omitempty"`
}

// OutputConfig controls where records land.
type OutputConfig struct {
	Subdirectory string `yaml:"subdirectory"`
	SkipExisting bool   `yaml:"skip_existing,omitempty"`
}

// Load reads and validates a pipeline config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w: %v", path, errs.ErrConfig, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	cfg.RootDir = filepath.Dir(abs)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Prompt.Template == "" {
		c.Prompt.Template = "default"
	}
	if c.Profiles.Mode == "" {
		c.Profiles.Mode = ModeSequential
	}
	if c.Structures.Mode == "" {
		c.Structures.Mode = c.Profiles.Mode
	}
	if c.Roster.Enabled && c.Roster.File == "" {
		c.Roster.File = "names_locations.yml"
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = 120
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 4096
	}
}

// Validate checks the fields the core depends on.
func (c *Config) Validate() error {
	if c.Profiles.Domain == "" {
		return fmt.Errorf("profile_selection.domain is required: %w", errs.ErrConfig)
	}
	if !validMode(c.Profiles.Mode) {
		return fmt.Errorf("profile_selection.mode %q: %w", c.Profiles.Mode, errs.ErrConfig)
	}
	if !validMode(c.Structures.Mode) {
		return fmt.Errorf("structure_selection.mode %q: %w", c.Structures.Mode, errs.ErrConfig)
	}
	if c.Profiles.Count == 0 || c.Profiles.Count < -1 {
		return fmt.Errorf("profile_selection.count must be -1 or positive, got %d: %w", c.Profiles.Count, errs.ErrConfig)
	}
	if c.Output.Subdirectory == "" {
		return fmt.Errorf("output.subdirectory is required: %w", errs.ErrConfig)
	}
	return nil
}

func validMode(mode string) bool {
	return mode == ModeSequential || mode == ModeRandom
}

// ProfilesDir returns the profile catalog directory for the configured domain.
func (c *Config) ProfilesDir() string {
	return filepath.Join(c.RootDir, "profiles", c.Profiles.Domain)
}

// StructuresDir returns the structure template directory for the domain.
func (c *Config) StructuresDir() string {
	return filepath.Join(c.RootDir, "structures", c.Profiles.Domain)
}

// SamplingPath resolves a sampling catalog file name.
func (c *Config) SamplingPath(file string) string {
	return filepath.Join(c.RootDir, "sampling", file)
}

// TemplatePath returns the prompt template file for the configured domain.
func (c *Config) TemplatePath() string {
	name := c.Prompt.Template
	if name == "default" {
		name = c.Profiles.Domain
	}
	return filepath.Join(c.RootDir, "templates", name+".md")
}

// RosterPath returns the names/locations file path.
func (c *Config) RosterPath() string {
	return filepath.Join(c.RootDir, c.Roster.File)
}

// OutputDir returns the record output directory.
func (c *Config) OutputDir() string {
	return filepath.Join(c.RootDir, "output", c.Output.Subdirectory)
}
