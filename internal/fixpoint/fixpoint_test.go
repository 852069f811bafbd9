package fixpoint

import (
	"testing"

	"github.com/efx-project/efx/internal/astwalk"
	"github.com/efx-project/efx/internal/lexer"
	"github.com/efx-project/efx/internal/parser"
	"github.com/efx-project/efx/internal/registry"
)

// parseModule lexes and parses source, failing the test on any parse
// error, and extracts its ModuleAnalysis.
func parseModule(t *testing.T, file, source string) astwalk.ModuleAnalysis {
	t.Helper()
	l := lexer.New(source)
	p := parser.New(l, file)
	mod := p.ParseModule()
	if errs := p.Errors().Items(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors in %s: %v", file, errs)
	}
	return astwalk.Walk(mod)
}

func mustRegistry(t *testing.T, seed string) *registry.Registry {
	t.Helper()
	if seed == "" {
		return registry.Empty()
	}
	reg, err := registry.Load([]byte(seed), nil, nil)
	if err != nil {
		t.Fatalf("loading registry: %v", err)
	}
	return reg
}

func programOf(t *testing.T, reg *registry.Registry, sources map[string]string) Program {
	t.Helper()
	modules := make(map[string]astwalk.ModuleAnalysis, len(sources))
	files := make(map[string]string, len(sources))
	for file, src := range sources {
		ma := parseModule(t, file, src)
		modules[ma.Module] = ma
		files[ma.Module] = file
	}
	return Program{Modules: modules, Files: files, Reg: reg}
}

func compactOf(t *testing.T, result Result, mod, fn string, arity int) string {
	t.Helper()
	mfa := registry.MFA{Module: mod, Function: fn, Arity: arity}
	r, ok := result.Functions[mfa]
	if !ok {
		t.Fatalf("no result for %s", mfa)
	}
	return r.Compact().String()
}

// A function with no calls at all is pure: the trivial-SCC path, no
// registry or call-graph involvement.
func TestRun_PureLeafIsTrivialSCC(t *testing.T) {
	prog := programOf(t, registry.Empty(), map[string]string{
		"main.efx": `module Main
def answer() do
  42
end
`,
	})
	result := Run(prog)
	if got := compactOf(t, result, "Main", "answer", 0); got != "p" {
		t.Errorf("expected p, got %s", got)
	}
	if result.Diags.Len() != 0 {
		t.Errorf("expected no diagnostics, got %v", result.Diags.Items())
	}
}

// A single module, single function calling a registry-known
// side-effecting builtin resolves to s[print/1] in one trivial pass.
func TestRun_DirectBuiltinCallIsState(t *testing.T) {
	reg := mustRegistry(t, `{"Kernel": {"print/1": "s"}}`)
	prog := programOf(t, reg, map[string]string{
		"main.efx": `module Main
def greet() do
  print("hi")
end
`,
	})
	result := Run(prog)
	if got := compactOf(t, result, "Main", "greet", 0); got != "s[print/1]" {
		t.Errorf("expected s[print/1], got %s", got)
	}
}

// A module-local wrapper over a qualified builtin call flattens onto
// the builtin's own effect, exercising the call-graph resolver when the
// wrapper is analyzed before its callee within the same trivial SCC.
func TestRun_IntraModuleWrapperFlattensOntoBuiltin(t *testing.T) {
	reg := mustRegistry(t, `{"Kernel": {"log/0": "s"}}`)
	prog := programOf(t, reg, map[string]string{
		"main.efx": `module Main
def a() do
  Kernel.log()
end
def b() do
  a()
end
`,
	})
	result := Run(prog)
	if got := compactOf(t, result, "Main", "b", 0); got != "s[log/0]" {
		t.Errorf("expected b to flatten onto a's s[log/0] effect, got %s", got)
	}
}

// Two modules referencing each other form a non-trivial, multi-node
// SCC: A.run calls B.helper, B.helper calls back into A.run and also a
// registry-known side-effecting builtin. The fixpoint driver must
// converge both to s[tick/0] within a handful of rounds rather than
// looping to MaxRounds.
func TestRun_MutualModuleRecursionConverges(t *testing.T) {
	reg := mustRegistry(t, `{"Kernel": {"tick/0": "s"}}`)
	prog := programOf(t, reg, map[string]string{
		"a.efx": `module A
import B
def run() do
  B.helper()
end
`,
		"b.efx": `module B
import A
def helper() do
  Kernel.tick()
  A.run()
end
`,
	})
	result := Run(prog)
	if got := compactOf(t, result, "A", "run", 0); got != "s[tick/0]" {
		t.Errorf("expected A.run to converge to s[tick/0], got %s", got)
	}
	if got := compactOf(t, result, "B", "helper", 0); got != "s[tick/0]" {
		t.Errorf("expected B.helper to converge to s[tick/0], got %s", got)
	}
	if result.Diags.Len() != 0 {
		t.Errorf("expected convergence with no diagnostics, got %v", result.Diags.Items())
	}
}

// A call to a module outside the analyzed program (no source file, no
// registry entry) degrades to unknown rather than a fatal error.
func TestRun_UnresolvedExternalCallIsUnknown(t *testing.T) {
	prog := programOf(t, registry.Empty(), map[string]string{
		"main.efx": `module Main
def f() do
  Other.thing()
end
`,
	})
	result := Run(prog)
	if got := compactOf(t, result, "Main", "f", 0); got != "u" {
		t.Errorf("expected u, got %s", got)
	}
}
