// Package infer is the bidirectional type-and-effect inference engine
// (spec.md §4.8): synthesize/check over every expression kind, producing
// a Type, an Effect row, and a Subst for each function clause, then
// joining clauses into one FunctionResult per MFA. Grounded on the
// teacher's InferenceContext/InferWithContext shape in
// internal/analyzer/inference.go — a context carrying a fresh-variable
// counter and a type map, a single big switch dispatching on concrete
// AST node type rather than the Visitor interface (internal/ast's own
// doc comment calls this out explicitly), and Generalize's value-
// restricted let-polymorphism walking the enclosing scope chain for
// free variables not to generalize over.
package infer

import (
	"fmt"

	"github.com/efx-project/efx/internal/callgraph"
	"github.com/efx-project/efx/internal/diagnostics"
	"github.com/efx-project/efx/internal/registry"
	"github.com/efx-project/efx/internal/token"
	"github.com/efx-project/efx/internal/types"
)

// Scope is a chain of variable bindings, innermost first, mirroring the
// teacher's symbols.SymbolTable parent-chain lookup.
type Scope struct {
	vars   map[string]types.Type
	parent *Scope
}

// NewScope creates a child scope over parent (nil for a fresh function
// scope).
func NewScope(parent *Scope) *Scope {
	return &Scope{vars: make(map[string]types.Type), parent: parent}
}

// Bind introduces or rebinds name in this scope only — the analyzed
// language's `=` always binds/rebinds in the current clause's scope,
// never an enclosing one.
func (s *Scope) Bind(name string, t types.Type) {
	s.vars[name] = t
}

// Lookup walks the scope chain outward.
func (s *Scope) Lookup(name string) (types.Type, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if t, ok := cur.vars[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// freeVars collects every type variable free in some binding reachable
// from s, used by value-restricted generalization (spec.md §4.8's "let"
// rule: only generalize variables not free in the environment).
func (s *Scope) freeVars() map[string]bool {
	out := map[string]bool{}
	for cur := s; cur != nil; cur = cur.parent {
		for _, t := range cur.vars {
			t.FreeVars(out)
		}
	}
	return out
}

// Context is the per-function-group inference state: the merged
// registry, the call-graph resolver, the set of MFAs in the current SCC
// (analyzed together, so a call into one of them never triggers a
// registry miss), the previous fixpoint round's partial results for
// those same MFAs, and the fresh-variable counters.
type Context struct {
	Reg           *registry.Registry
	CallGraph     *callgraph.Resolver
	ModuleName    string
	File          string
	UnderAnalysis map[registry.MFA]bool
	Partial       map[registry.MFA]FunctionResult
	Diags         *diagnostics.Bag

	typeCounter   int
	effectCounter int
}

// NewContext builds a Context for analyzing one SCC's worth of
// functions belonging to moduleName (multi-module SCCs call NewContext
// once per module, sharing the same underAnalysis/partial/diags so
// cross-module mutual recursion still resolves — internal/fixpoint
// wires this).
func NewContext(reg *registry.Registry, cg *callgraph.Resolver, moduleName, file string, underAnalysis map[registry.MFA]bool, partial map[registry.MFA]FunctionResult, diags *diagnostics.Bag) *Context {
	return &Context{
		Reg:           reg,
		CallGraph:     cg,
		ModuleName:    moduleName,
		File:          file,
		UnderAnalysis: underAnalysis,
		Partial:       partial,
		Diags:         diags,
	}
}

// FreshType returns a new unconstrained type variable.
func (ctx *Context) FreshType() types.Var {
	ctx.typeCounter++
	return types.Var{ID: fmt.Sprintf("t%d", ctx.typeCounter)}
}

// FreshTypeID is the bare-string form Instantiate/Generalize want.
func (ctx *Context) FreshTypeID() string {
	return ctx.FreshType().ID
}

// FreshEffect returns a new effect-row variable.
func (ctx *Context) FreshEffect() types.EffectVar {
	ctx.effectCounter++
	return types.EffectVar{ID: fmt.Sprintf("e%d", ctx.effectCounter)}
}

func (ctx *Context) span(tok token.Token) diagnostics.Span {
	return diagnostics.Span{File: ctx.File, Line: tok.Pos.Line, Column: tok.Pos.Column}
}

// effectFor resolves a call target's effect the way every call-site rule
// in §4.8 does: the registry first, then the current SCC's previous-
// round partial result (spec.md §4.6's fixpoint "analyze using the
// previous round's registry-view"), then `unknown` for anything genuinely
// unresolved (never a fatal error — spec.md §7).
func (ctx *Context) effectFor(mfa registry.MFA) types.Effect {
	return ctx.effectForVisiting(mfa, map[registry.MFA]bool{})
}

// effectForVisiting is effectFor with a same-call recursion guard: a
// wrapper's own effect (per the call-graph resolver, spec.md §4.4) is
// the join of its callees, but a callee can itself be an un-settled
// member of the same SCC — without tracking what's already being
// chased, two mutually recursive wrappers with no Partial entry yet
// would flatten each other forever in a single round.
func (ctx *Context) effectForVisiting(mfa registry.MFA, visiting map[registry.MFA]bool) types.Effect {
	if eff, ok := ctx.Reg.EffectRow(mfa); ok {
		return eff
	}
	// Partial holds every already-settled answer reachable from here:
	// prior SCCs' final results when this Context belongs to a later
	// one, and the current SCC's previous round when it doesn't (spec.md
	// §4.6's "analyze using the previous round's registry-view").
	if res, ok := ctx.Partial[mfa]; ok {
		return res.Effect
	}
	if !ctx.UnderAnalysis[mfa] {
		return types.Unknown{}
	}
	if visiting[mfa] || ctx.CallGraph == nil {
		return types.Empty{}
	}
	// No Partial entry yet (this is the SCC's first round): chase the
	// call-graph resolver's own classification one level instead of
	// blindly guessing pure, the same "flatten wrappers onto their
	// leaves" spec.md §4.4 describes for registry-known wrappers,
	// applied here to in-SCC functions the registry has never heard of.
	class := ctx.CallGraph.Classify(mfa)
	if class.Kind != callgraph.Wrapper {
		return types.Empty{}
	}
	visiting[mfa] = true
	joined := types.Effect(types.Empty{})
	for callee := range class.Callees {
		joined = types.Combine(joined, ctx.effectForVisiting(callee, visiting))
	}
	return joined
}
