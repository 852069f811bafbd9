package callgraph

import (
	"testing"

	"github.com/efx-project/efx/internal/registry"
)

func TestClassify_RegistryTerminalEntryIsLeaf(t *testing.T) {
	mfa := registry.MFA{Module: "Kernel", Function: "print", Arity: 1}
	reg, err := registry.Load([]byte(`{"Kernel": {"print/1": "s"}}`), nil, nil)
	if err != nil {
		t.Fatalf("loading registry: %v", err)
	}
	r := New(reg, nil)
	if got := r.Classify(mfa).Kind; got != Leaf {
		t.Errorf("expected a terminal registry entry to classify as Leaf, got %v", got)
	}
}

func TestClassify_NoRegistryEntryButCalleesIsWrapper(t *testing.T) {
	a := registry.MFA{Module: "Main", Function: "a", Arity: 0}
	b := registry.MFA{Module: "Main", Function: "b", Arity: 0}
	calls := map[registry.MFA]map[registry.MFA]bool{a: {b: true}}
	r := New(registry.Empty(), calls)
	got := r.Classify(a)
	if got.Kind != Wrapper {
		t.Fatalf("expected a function with recorded callees to classify as Wrapper, got %v", got.Kind)
	}
	if !got.Callees[b] {
		t.Errorf("expected b among a's callees, got %v", got.Callees)
	}
}

func TestClassify_NoRegistryEntryAndNoCalleesIsLeaf(t *testing.T) {
	a := registry.MFA{Module: "Main", Function: "a", Arity: 0}
	r := New(registry.Empty(), nil)
	if got := r.Classify(a).Kind; got != Leaf {
		t.Errorf("expected a function with no registry entry and no callees to be Leaf, got %v", got)
	}
}
