// Package config loads an optional schemy.yaml describing how a host
// should construct an interpreter: which extension table(s) to layer
// on, the REPL prompt, and whether .init.ss discovery is enabled.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional schemy.yaml document.
type Config struct {
	Prompt          string   `yaml:"prompt"`
	Banner          string   `yaml:"banner"`
	Extensions      []string `yaml:"extensions"`
	DotInitLookup   bool     `yaml:"dot_init_lookup"`
}

// Default returns the configuration a host gets when no schemy.yaml
// is present: a plain REPL prompt, no banner, no named extensions,
// and .init.ss discovery enabled.
func Default() *Config {
	return &Config{
		Prompt:        "Schemy> ",
		DotInitLookup: true,
	}
}

// Load reads and decodes path. A missing file is not an error: Load
// returns Default() instead, since schemy.yaml is optional.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	cfg := Default()
	if err := decoder.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return Default(), nil // empty schemy.yaml: behave as if absent
		}
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Prompt == "" {
		cfg.Prompt = "Schemy> "
	}
	return cfg, nil
}
