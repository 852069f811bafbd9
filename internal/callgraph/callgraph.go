// Package callgraph classifies each function as a leaf or a wrapper
// over the callees internal/astwalk already collected while extracting
// function shells — spec.md §4.4 is explicit that no separate AST
// traversal happens here. Grounded on the teacher's lightweight
// resolver-wrapper pattern (internal/analyzer/resolver_wrapper.go: a
// thin adapter over data collected elsewhere, not a re-traversal).
package callgraph

import "github.com/efx-project/efx/internal/registry"

// Kind is the call-graph classification of a single function.
type Kind int

const (
	// Leaf makes no further calls to other in-scope functions, or the
	// registry marks it terminal.
	Leaf Kind = iota
	// Wrapper invokes one or more callees; its effect is their join.
	Wrapper
)

// Classification is the call-graph resolver's verdict for one MFA.
type Classification struct {
	Kind     Kind
	Callees  map[registry.MFA]bool // populated only when Kind == Wrapper
}

// Resolver classifies functions using the calls set internal/astwalk
// already extracted per function, plus the registry's own notion of
// "terminal" (an entry with no redirect_to). A function with no
// registry entry is classified by its recorded callees alone: none
// makes it a Leaf, one or more a Wrapper.
type Resolver struct {
	reg *registry.Registry
	// calls maps an analyzed function's MFA to the set of MFAs its body
	// invokes, as collected by internal/astwalk — the single source of
	// call-site information this resolver consumes.
	calls map[registry.MFA]map[registry.MFA]bool
}

// New builds a Resolver over reg and the astwalk-collected calls map.
func New(reg *registry.Registry, calls map[registry.MFA]map[registry.MFA]bool) *Resolver {
	return &Resolver{reg: reg, calls: calls}
}

// Classify returns mfa's call-graph classification.
func (r *Resolver) Classify(mfa registry.MFA) Classification {
	if d, ok := r.reg.Lookup(mfa); ok && d.Redirect == nil {
		return Classification{Kind: Leaf}
	}
	callees := r.calls[mfa]
	if len(callees) == 0 {
		return Classification{Kind: Leaf}
	}
	return Classification{Kind: Wrapper, Callees: callees}
}
