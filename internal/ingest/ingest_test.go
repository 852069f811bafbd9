package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/efx-project/efx/internal/diagnostics"
	"github.com/efx-project/efx/internal/registry"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestDiscover_FiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.efx", "module A\n")
	writeFile(t, dir, "b.fx", "module B\n")
	writeFile(t, dir, "c.txt", "not source\n")

	paths, err := Discover([]string{dir}, []string{".efx", ".fx"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 paths, got %d: %v", len(paths), paths)
	}
}

func TestLoad_MergesMultiFileModule(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main1.efx", `module Main
def run() do
  helper()
end
`)
	writeFile(t, dir, "main2.efx", `module Main
def helper() do
  :ok
end
`)

	diags := &diagnostics.Bag{}
	reg, err := registry.Load(nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected registry error: %v", err)
	}
	prog, err := Load([]string{dir}, reg, diags)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ma, ok := prog.Modules["Main"]
	if !ok {
		t.Fatalf("expected Main module, got %v", prog.Modules)
	}
	if len(ma.Functions) != 2 {
		t.Errorf("expected 2 functions merged into Main, got %d", len(ma.Functions))
	}

	run := registry.MFA{Module: "Main", Function: "run", Arity: 0}
	callees, ok := ma.Calls[run]
	if !ok || !callees[registry.MFA{Module: "Main", Function: "helper", Arity: 0}] {
		t.Errorf("expected run to call helper, got %v", ma.Calls)
	}
}

func TestLoad_EmptyRootsNoFiles(t *testing.T) {
	dir := t.TempDir()
	diags := &diagnostics.Bag{}
	reg, err := registry.Load(nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected registry error: %v", err)
	}
	prog, err := Load([]string{dir}, reg, diags)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Modules) != 0 {
		t.Errorf("expected no modules, got %v", prog.Modules)
	}
}
