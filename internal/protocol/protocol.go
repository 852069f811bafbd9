// Package protocol resolves dispatching calls like `Enum.map(xs, f)` to
// a concrete implementation MFA based on the receiver's structural
// type, and combines a dispatching call's effect with a callback
// argument's latent effect (spec.md §4.5). Grounded on the teacher's
// internal/analyzer/declarations_instances.go (resolveReceiverTypeName
// inferring a dispatch target from a structural AST.Type) and
// internal/symbols/symbol_table_dispatch.go's (protocol, operation)
// keyed dispatch-source table.
package protocol

import (
	"strconv"

	"github.com/efx-project/efx/internal/registry"
	"github.com/efx-project/efx/internal/types"
)

// ReceiverArg reports which argument position of a dispatching call
// supplies the receiver whose structural type picks the implementation
// module. Almost every dispatching operation uses the first argument;
// spec.md §4.5 calls out `into` as the one exception (its *target*, the
// second argument, decides the implementation).
func ReceiverArg(function string) int {
	switch function {
	case "into":
		return 1
	default:
		return 0
	}
}

// remap holds a function-specific MFA redirect: the surface call
// `M.f/arity` actually dispatches to `implFn/implArity` on the
// resolved implementation module (spec.md §4.5's example table).
type remap struct {
	fn    string
	arity int
}

var functionRemap = map[string]remap{
	"map/2":      {"reduce", 3},
	"count/1":    {"count", 1},
	"member?/2":  {"member?", 2},
	"into/2":     {"into", 1},
}

// ImplModule maps a receiver's structural type to the concrete
// implementation module name, per spec.md §4.5's built-in table.
func ImplModule(receiver types.Type) (string, bool) {
	switch r := receiver.(type) {
	case types.List:
		return "Protocol.List", true
	case types.Map:
		return "Protocol.Map", true
	case types.Struct:
		return "Protocol." + r.Module, true
	case types.Primitive:
		return "Protocol." + primitiveImplSuffix(r.Name), true
	default:
		return "", false
	}
}

func primitiveImplSuffix(name string) string {
	switch name {
	case "int":
		return "Int"
	case "float":
		return "Float"
	case "bool":
		return "Bool"
	case "string":
		return "String"
	case "atom":
		return "Atom"
	default:
		return "Any"
	}
}

// Resolution is the protocol resolver's verdict for one dispatching
// call site.
type Resolution struct {
	Impl    registry.MFA
	Unknown bool
}

// Resolve determines the concrete implementation MFA for a dispatching
// call `function/arity` given the already-synthesized argument types.
// underAnalysis is the set of MFAs belonging to modules currently being
// analyzed (not yet in reg), since spec.md's invariant #6 allows a
// resolution to land on either the registry or the in-progress
// analysis set.
func Resolve(function string, arity int, argTypes []types.Type, reg *registry.Registry, underAnalysis map[registry.MFA]bool) Resolution {
	pos := ReceiverArg(function)
	if pos >= len(argTypes) {
		return Resolution{Unknown: true}
	}
	implModule, ok := ImplModule(argTypes[pos])
	if !ok {
		return Resolution{Unknown: true}
	}

	implFn, implArity := function, arity
	if r, ok := functionRemap[key(function, arity)]; ok {
		implFn, implArity = r.fn, r.arity
	}

	candidate := registry.MFA{Module: implModule, Function: implFn, Arity: implArity}
	if _, ok := reg.Lookup(candidate); ok {
		return Resolution{Impl: candidate}
	}
	if underAnalysis[candidate] {
		return Resolution{Impl: candidate}
	}
	return Resolution{Unknown: true}
}

func key(function string, arity int) string {
	return function + "/" + strconv.Itoa(arity)
}

// IsLambdaPlaceholder reports whether eff is exactly the `lambda`
// registry placeholder (spec.md §4.5 special case 1: "if impl_effect =
// lambda, the result is the lambda's effect").
func IsLambdaPlaceholder(eff types.Effect) bool {
	labels := types.ExtractLabels(eff)
	return len(labels) == 1 && labels[0].Name == types.LLambda
}

// CombineDispatchEffect implements spec.md §4.5's
// `combine(impl_effect, lambda_effect)`: the severity-max rule (via
// types.Combine, which already unions exn kind sets), except when
// implEffect is the bare `lambda` placeholder, in which case the
// result is exactly lambdaEffect.
func CombineDispatchEffect(implEffect, lambdaEffect types.Effect) types.Effect {
	if IsLambdaPlaceholder(implEffect) {
		return lambdaEffect
	}
	return types.Combine(implEffect, lambdaEffect)
}
