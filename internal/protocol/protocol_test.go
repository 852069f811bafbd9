package protocol

import (
	"testing"

	"github.com/efx-project/efx/internal/registry"
	"github.com/efx-project/efx/internal/types"
)

func TestReceiverArg_IntoUsesSecondArgument(t *testing.T) {
	if got := ReceiverArg("into"); got != 1 {
		t.Errorf("expected into's receiver at position 1, got %d", got)
	}
	if got := ReceiverArg("map"); got != 0 {
		t.Errorf("expected map's receiver at position 0, got %d", got)
	}
}

func TestImplModule_StructuralDispatch(t *testing.T) {
	cases := []struct {
		name string
		recv types.Type
		want string
	}{
		{"list", types.List{Elem: types.Int}, "Protocol.List"},
		{"map", types.Map{Key: types.Atom, Value: types.Any}, "Protocol.Map"},
		{"struct", types.Struct{Module: "User", Fields: map[string]types.Type{}}, "Protocol.User"},
		{"int", types.Int, "Protocol.Int"},
		{"string", types.String, "Protocol.String"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := ImplModule(c.recv)
			if !ok {
				t.Fatalf("expected ImplModule to resolve %s", c.name)
			}
			if got != c.want {
				t.Errorf("expected %s, got %s", c.want, got)
			}
		})
	}
}

func TestImplModule_UnresolvableReceiverIsUnknown(t *testing.T) {
	if _, ok := ImplModule(types.Var{ID: "t0"}); ok {
		t.Errorf("expected an unresolved type variable to have no impl module")
	}
}

// Resolve's functionRemap table redirects the surface call to a
// different implementation function/arity — spec.md §4.5's Enum.map ->
// Protocol.List.reduce/3 example.
func TestResolve_RemapsMapToReduce(t *testing.T) {
	reg, err := registry.Load([]byte(`{"Protocol.List": {"reduce/3": "p"}}`), nil, nil)
	if err != nil {
		t.Fatalf("loading registry: %v", err)
	}
	res := Resolve("map", 2, []types.Type{types.List{Elem: types.Int}, types.Function{Param: types.Int, Effect: types.Empty{}, Result: types.Int}}, reg, nil)
	if res.Unknown {
		t.Fatalf("expected a resolved implementation, got unknown")
	}
	want := registry.MFA{Module: "Protocol.List", Function: "reduce", Arity: 3}
	if res.Impl != want {
		t.Errorf("expected %s, got %s", want, res.Impl)
	}
}

// A dispatching call whose receiver type has no structural impl module
// (e.g. an unresolved variable) or whose candidate lands nowhere —
// neither the registry nor the in-progress analysis set — resolves as
// unknown rather than guessing.
func TestResolve_NoCandidateIsUnknown(t *testing.T) {
	res := Resolve("count", 1, []types.Type{types.List{Elem: types.Int}}, registry.Empty(), nil)
	if !res.Unknown {
		t.Errorf("expected unknown when count/1's impl isn't registered anywhere, got %s", res.Impl)
	}
}

// A candidate with no registry entry still resolves if it belongs to
// the module currently under analysis (spec.md invariant #6).
func TestResolve_FallsBackToUnderAnalysis(t *testing.T) {
	underAnalysis := map[registry.MFA]bool{
		{Module: "Protocol.List", Function: "member?", Arity: 2}: true,
	}
	res := Resolve("member?", 2, []types.Type{types.List{Elem: types.Int}, types.Int}, registry.Empty(), underAnalysis)
	if res.Unknown {
		t.Fatalf("expected the under-analysis candidate to resolve")
	}
	want := registry.MFA{Module: "Protocol.List", Function: "member?", Arity: 2}
	if res.Impl != want {
		t.Errorf("expected %s, got %s", want, res.Impl)
	}
}

// A receiver position past the end of the argument list (a malformed
// or partially-applied call) resolves as unknown rather than panicking.
func TestResolve_ReceiverPositionOutOfRangeIsUnknown(t *testing.T) {
	res := Resolve("into", 2, []types.Type{types.List{Elem: types.Int}}, registry.Empty(), nil)
	if !res.Unknown {
		t.Errorf("expected unknown when into's receiver (position 1) is missing")
	}
}

func TestIsLambdaPlaceholder(t *testing.T) {
	lambda := types.Row{Head: types.Label{Name: types.LLambda}, Tail: types.Empty{}}
	if !IsLambdaPlaceholder(lambda) {
		t.Errorf("expected the bare lambda row to be recognized as the placeholder")
	}
	state := types.Row{Head: types.Label{Name: types.LState}, Tail: types.Empty{}}
	if IsLambdaPlaceholder(state) {
		t.Errorf("expected a state effect not to be mistaken for the lambda placeholder")
	}
}

// CombineDispatchEffect special case 1 (spec.md §4.5): a lambda-
// dependent implementation (Enum.map over a custom Enumerable,
// implemented purely in terms of the lambda argument) with a pure
// lambda argument settles to the lambda's own effect in place of the
// placeholder — here, pure, since the lambda contributes no effect.
func TestCombineDispatchEffect_LambdaPlaceholderWithPureLambda(t *testing.T) {
	lambda := types.Row{Head: types.Label{Name: types.LLambda}, Tail: types.Empty{}}
	got := CombineDispatchEffect(lambda, types.Empty{})
	if got.ToCompact().String() != "p" {
		t.Errorf("expected a lambda-dependent call with a pure lambda to be pure, got %s", got.ToCompact().String())
	}
}

// CombineDispatchEffect special case 1, side-effecting lambda: a
// lambda-dependent implementation with a side-effecting lambda
// argument on an otherwise-pure collection resolves to exactly the
// lambda's own effect, not a join with the placeholder.
func TestCombineDispatchEffect_LambdaPlaceholderWithSideEffectingLambda(t *testing.T) {
	lambda := types.Row{Head: types.Label{Name: types.LLambda}, Tail: types.Empty{}}
	sideEffect := types.Row{Head: types.Label{Name: types.LState, Payload: []string{"print/1"}}, Tail: types.Empty{}}
	got := CombineDispatchEffect(lambda, sideEffect)
	if got.ToCompact().String() != "s[print/1]" {
		t.Errorf("expected the dispatch to carry exactly the lambda's own effect, got %s", got.ToCompact().String())
	}
}

// When the implementation's own effect is NOT the bare lambda
// placeholder (e.g. a concrete, already-effectful Protocol.List.map),
// the dispatch effect is the severity-max join of both sides.
func TestCombineDispatchEffect_ConcreteImplJoinsWithLambdaEffect(t *testing.T) {
	impl := types.Row{Head: types.Label{Name: types.LState, Payload: []string{"file_write/2"}}, Tail: types.Empty{}}
	pureLambda := types.Empty{}
	got := CombineDispatchEffect(impl, pureLambda)
	if got.ToCompact().String() != "s[file_write/2]" {
		t.Errorf("expected the concrete impl's own effect to dominate a pure lambda, got %s", got.ToCompact().String())
	}

	exnLambda := types.Row{Head: types.Label{Name: types.LExn, Payload: []string{"badarg"}}, Tail: types.Empty{}}
	joined := CombineDispatchEffect(impl, exnLambda)
	if joined.ToCompact().String() != "s[file_write/2]" {
		t.Errorf("expected state to outrank exception under severity-max, got %s", joined.ToCompact().String())
	}
}
