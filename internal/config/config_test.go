package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseConfig_ValidMinimal(t *testing.T) {
	yaml := `
source_roots:
  - ./src
output:
  format: json
  path: ./report.json
`
	cfg, err := ParseConfig([]byte(yaml), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.SourceRoots) != 1 || cfg.SourceRoots[0] != "./src" {
		t.Errorf("source_roots = %v, want [./src]", cfg.SourceRoots)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("format = %q, want json", cfg.Output.Format)
	}
	if cfg.MaxFixpointRounds != 10 {
		t.Errorf("max_fixpoint_rounds default = %d, want 10", cfg.MaxFixpointRounds)
	}
}

func TestParseConfig_Registries(t *testing.T) {
	yaml := `
source_roots: [./src]
registries:
  seed: ./seed.json
  generated: ./generated.json
  explicit: ./explicit.json
output:
  format: sqlite
  path: ./out.db
  emit_merged_registry: true
`
	cfg, err := ParseConfig([]byte(yaml), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Registries.Seed != "./seed.json" {
		t.Errorf("seed = %q", cfg.Registries.Seed)
	}
	if cfg.Registries.Generated != "./generated.json" {
		t.Errorf("generated = %q", cfg.Registries.Generated)
	}
	if cfg.Registries.Explicit != "./explicit.json" {
		t.Errorf("explicit = %q", cfg.Registries.Explicit)
	}
	if !cfg.Output.EmitMergedRegistry {
		t.Errorf("emit_merged_registry not set")
	}
}

func TestParseConfig_MissingSourceRoots(t *testing.T) {
	yaml := `
output:
  format: json
  path: ./report.json
`
	if _, err := ParseConfig([]byte(yaml), "test.yaml"); err == nil {
		t.Fatal("expected error for missing source_roots")
	}
}

func TestParseConfig_BadFormat(t *testing.T) {
	yaml := `
source_roots: [./src]
output:
  format: xml
  path: ./report.xml
`
	if _, err := ParseConfig([]byte(yaml), "test.yaml"); err == nil {
		t.Fatal("expected error for unrecognized output format")
	}
}

func TestParseConfig_FormatWithoutPath(t *testing.T) {
	yaml := `
source_roots: [./src]
output:
  format: json
`
	if _, err := ParseConfig([]byte(yaml), "test.yaml"); err == nil {
		t.Fatal("expected error for format without path")
	}
}

func TestParseConfig_DefaultsToJSON(t *testing.T) {
	yaml := `
source_roots: [./src]
`
	cfg, err := ParseConfig([]byte(yaml), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("format = %q, want default json", cfg.Output.Format)
	}
}

func TestFindConfig_WalksUpToRoot(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	cfgPath := filepath.Join(dir, "efx.yaml")
	if err := os.WriteFile(cfgPath, []byte("source_roots: [./src]\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	found, err := FindConfig(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != cfgPath {
		t.Errorf("found = %q, want %q", found, cfgPath)
	}
}

func TestFindConfig_NotFound(t *testing.T) {
	dir := t.TempDir()
	found, err := FindConfig(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != "" {
		t.Errorf("found = %q, want empty", found)
	}
}

func TestLoadConfig_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "efx.yaml")
	content := "source_roots: [./src]\noutput:\n  format: json\n  path: ./out.json\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Output.Path != "./out.json" {
		t.Errorf("output.path = %q", cfg.Output.Path)
	}
}
