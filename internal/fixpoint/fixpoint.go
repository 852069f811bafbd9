// Package fixpoint drives whole-program analysis over the SCCs
// internal/depgraph produces: a trivial SCC (a singleton with no self-
// loop) is analyzed exactly once; a non-trivial one (a self-looping
// singleton, or a multi-module mutual-recursion group) is initialized to
// the pure effect and re-analyzed round by round, each round consuming
// the previous round's results as the registry-view for calls that land
// back inside the same SCC, until no function's compact effect changes
// or a bounded number of rounds elapses (spec.md §4.6). Grounded on
// cmd/funxy/main.go's evaluateModule result cache and
// internal/modules/loader.go's Processing in-flight-set, generalized
// from "cache the final answer, detect a load cycle" to "cache the
// round's answer, detect effect-row convergence".
package fixpoint

import (
	"sort"

	"github.com/efx-project/efx/internal/astwalk"
	"github.com/efx-project/efx/internal/callgraph"
	"github.com/efx-project/efx/internal/depgraph"
	"github.com/efx-project/efx/internal/diagnostics"
	"github.com/efx-project/efx/internal/infer"
	"github.com/efx-project/efx/internal/registry"
	"github.com/efx-project/efx/internal/types"
)

// MaxRounds bounds non-trivial SCC fixpoint iteration (spec.md §4.6: a
// bounded round count, default 10, after which unstable functions are
// marked unknown rather than looped forever).
const MaxRounds = 10

// Program is the ingest-produced input a Driver runs over: one
// ModuleAnalysis per parsed module (from internal/astwalk), keyed by
// module name, plus the merged registry every lookup falls back to.
type Program struct {
	Modules map[string]astwalk.ModuleAnalysis
	Files   map[string]string // module name -> source file path, for diagnostics spans
	Reg     *registry.Registry
}

// Result is the final, whole-program answer: every function's
// FunctionResult plus the accumulated diagnostics.
type Result struct {
	Functions map[registry.MFA]infer.FunctionResult
	Diags     *diagnostics.Bag
}

// Run builds the dependency graph, sorts it into SCCs, and analyzes each
// in the reverse-topological order depgraph.Sort returns — callee
// modules settle before the callers that depend on them, so a trivial
// SCC's lookups into earlier SCCs always hit the registry-equivalent
// "already decided" Functions map built so far.
func Run(p Program) Result {
	diags := &diagnostics.Bag{}
	functions := make(map[registry.MFA]infer.FunctionResult)

	refs := make([]depgraph.ModuleRef, 0, len(p.Modules))
	for name, ma := range p.Modules {
		refs = append(refs, depgraph.ModuleRef{Name: name, References: ma.References})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })

	g := depgraph.Build(refs)
	sccs := depgraph.Sort(g)

	for _, scc := range sccs {
		if scc.Trivial {
			runTrivial(p, scc, functions, diags)
		} else {
			runNonTrivial(p, scc, functions, diags)
		}
	}

	return Result{Functions: functions, Diags: diags}
}

// moduleCalls merges every function's calls map across the modules in
// scc into the single calls-by-MFA view internal/callgraph expects.
func moduleCalls(p Program, moduleNames []string) map[registry.MFA]map[registry.MFA]bool {
	out := make(map[registry.MFA]map[registry.MFA]bool)
	for _, name := range moduleNames {
		ma, ok := p.Modules[name]
		if !ok {
			continue
		}
		for mfa, callees := range ma.Calls {
			out[mfa] = callees
		}
	}
	return out
}

func sccMFAs(p Program, moduleNames []string) map[registry.MFA]bool {
	out := make(map[registry.MFA]bool)
	for _, name := range moduleNames {
		ma, ok := p.Modules[name]
		if !ok {
			continue
		}
		for mfa := range ma.Functions {
			out[mfa] = true
		}
	}
	return out
}

// runTrivial analyzes every function in a singleton, non-recursive SCC
// exactly once: nothing in the SCC can call back into itself, so each
// function's own registry/SCC-aware lookups never need a second round.
func runTrivial(p Program, scc depgraph.SCC, functions map[registry.MFA]infer.FunctionResult, diags *diagnostics.Bag) {
	underAnalysis := sccMFAs(p, scc.Modules)
	cg := callgraph.New(p.Reg, moduleCalls(p, scc.Modules))
	for _, modName := range scc.Modules {
		ma, ok := p.Modules[modName]
		if !ok {
			continue
		}
		ctx := infer.NewContext(p.Reg, cg, modName, p.Files[modName], underAnalysis, functions, diags)
		analyzeModuleFunctions(ctx, ma, functions)
	}
}

// runNonTrivial iterates the SCC's functions round by round. Round 0
// initializes every function in the SCC to the pure effect (spec.md
// §4.6 "init to empty"); each subsequent round re-analyzes every
// function using the previous round's Functions entries as the partial
// view for calls that land inside the SCC, stopping as soon as every
// function's compact effect token is unchanged from the prior round, or
// after MaxRounds — functions still unstable at that point are recorded
// as `unknown` and flagged with a diagnostic (spec.md §7
// FixpointDiverged).
func runNonTrivial(p Program, scc depgraph.SCC, functions map[registry.MFA]infer.FunctionResult, diags *diagnostics.Bag) {
	underAnalysis := sccMFAs(p, scc.Modules)
	cg := callgraph.New(p.Reg, moduleCalls(p, scc.Modules))

	partial := make(map[registry.MFA]infer.FunctionResult, len(functions)+len(underAnalysis))
	for mfa, r := range functions {
		partial[mfa] = r
	}
	for mfa := range underAnalysis {
		partial[mfa] = infer.FunctionResult{Type: types.Any, Effect: types.Empty{}, Subst: types.Subst{}}
	}

	stable := false
	var round map[registry.MFA]infer.FunctionResult
	for i := 0; i < MaxRounds && !stable; i++ {
		round = make(map[registry.MFA]infer.FunctionResult, len(partial))
		for mfa, r := range functions {
			round[mfa] = r
		}
		for _, modName := range scc.Modules {
			ma, ok := p.Modules[modName]
			if !ok {
				continue
			}
			ctx := infer.NewContext(p.Reg, cg, modName, p.Files[modName], underAnalysis, partial, diags)
			analyzeModuleFunctions(ctx, ma, round)
		}
		stable = converged(partial, round, underAnalysis)
		partial = round
	}

	if !stable {
		for mfa := range underAnalysis {
			r := partial[mfa]
			r.Effect = types.Unknown{}
			partial[mfa] = r
		}
		diags.Add(diagnostics.FixpointDiverged(diagnostics.Span{}, sccLabel(scc)))
	}

	for mfa := range underAnalysis {
		functions[mfa] = partial[mfa]
	}
}

func converged(prev, cur map[registry.MFA]infer.FunctionResult, mfas map[registry.MFA]bool) bool {
	for mfa := range mfas {
		p, okP := prev[mfa]
		c, okC := cur[mfa]
		if okP != okC {
			return false
		}
		if okP && p.Compact().String() != c.Compact().String() {
			return false
		}
	}
	return true
}

func sccLabel(scc depgraph.SCC) string {
	label := ""
	for i, m := range scc.Modules {
		if i > 0 {
			label += ","
		}
		label += m
	}
	return label
}

func analyzeModuleFunctions(ctx *infer.Context, ma astwalk.ModuleAnalysis, out map[registry.MFA]infer.FunctionResult) {
	for mfa, shell := range ma.Functions {
		out[mfa] = infer.InferFunction(ctx, shell)
	}
}
