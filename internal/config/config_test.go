package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Prompt != "Schemy> " {
		t.Errorf("Default().Prompt = %q, want %q", cfg.Prompt, "Schemy> ")
	}
	if !cfg.DotInitLookup {
		t.Error("Default().DotInitLookup should be true")
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Prompt != Default().Prompt {
		t.Errorf("Load(missing) = %+v, want Default()", cfg)
	}
}

func TestLoadEmptyFileReturnsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schemy.yaml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.DotInitLookup {
		t.Error("an empty schemy.yaml should behave like Default()")
	}
}

func TestLoadOverridesOnlyGivenFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schemy.yaml")
	body := "prompt: \"> \"\nextensions: [\"foo\", \"bar\"]\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Prompt != "> " {
		t.Errorf("cfg.Prompt = %q, want %q", cfg.Prompt, "> ")
	}
	if !cfg.DotInitLookup {
		t.Error("dot_init_lookup left unset in the file should stay at its default (true)")
	}
	if len(cfg.Extensions) != 2 || cfg.Extensions[0] != "foo" || cfg.Extensions[1] != "bar" {
		t.Errorf("cfg.Extensions = %v, want [foo bar]", cfg.Extensions)
	}
}

func TestLoadExplicitFalseOverridesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schemy.yaml")
	body := "dot_init_lookup: false\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DotInitLookup {
		t.Error("an explicit dot_init_lookup: false should be honored")
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schemy.yaml")
	body := "not_a_real_field: 1\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load should reject unknown fields (KnownFields(true))")
	}
}
