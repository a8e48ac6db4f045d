// Package config loads persisted default run options for the CLI.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fathomlabs/driftpatch/patch"
)

// Config mirrors the run options a user can keep in a YAML file. Boolean
// fields are phrased so that the zero value means "engine default".
type Config struct {
	RepoRoot     string  `yaml:"repoRoot,omitempty"`
	RatioCutoff  float64 `yaml:"ratioCutoff,omitempty"`
	IgnoreSpace  bool    `yaml:"ignoreSpace,omitempty"`
	KeepNewlines bool    `yaml:"keepNewlines,omitempty"`
	BackupsDir   string  `yaml:"backupsDir,omitempty"`
	NoPreview    bool    `yaml:"noPreview,omitempty"`
}

// Load reads the YAML config at path; a missing file yields an empty
// config rather than an error.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Options converts the persisted values into engine options, leaving unset
// fields at the engine defaults.
func (c *Config) Options() patch.Options {
	opts := patch.DefaultOptions()
	if c.RepoRoot != "" {
		opts.RepoRoot = c.RepoRoot
	}
	if c.RatioCutoff > 0 {
		opts.RatioCutoff = c.RatioCutoff
	}
	opts.IgnoreSpace = c.IgnoreSpace
	opts.NormalizeNewlines = !c.KeepNewlines
	if c.BackupsDir != "" {
		opts.BackupsDir = c.BackupsDir
	}
	opts.GeneratePreview = !c.NoPreview
	return opts
}
