package unify

import (
	"testing"

	"github.com/efx-project/efx/internal/types"
)

// spec.md §8: for all unifications that succeed, unify(t1,t2)=s =>
// apply(s,t1) = apply(s,t2) structurally.
func TestUnify_SolutionMakesBothSidesEqual(t *testing.T) {
	cases := []struct {
		name   string
		t1, t2 types.Type
	}{
		{"var-primitive", types.Var{ID: "t0"}, types.Int},
		{"nested-var", types.List{Elem: types.Var{ID: "t0"}}, types.List{Elem: types.Int}},
		{"tuple", types.Tuple{Elements: []types.Type{types.Var{ID: "t0"}, types.Bool}}, types.Tuple{Elements: []types.Type{types.Int, types.Bool}}},
		{"map", types.Map{Key: types.Var{ID: "t0"}, Value: types.Int}, types.Map{Key: types.Atom, Value: types.Var{ID: "t1"}}},
		{"any-on-left", types.Any, types.Int},
		{"any-on-right", types.String, types.Any},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := Unify(c.t1, c.t2)
			if err != nil {
				t.Fatalf("unexpected unify error: %v", err)
			}
			left := c.t1.Apply(s).String()
			right := c.t2.Apply(s).String()
			if left != right {
				t.Errorf("apply(s,t1)=%s != apply(s,t2)=%s", left, right)
			}
		})
	}
}

func TestUnify_PrimitiveMismatchErrors(t *testing.T) {
	if _, err := Unify(types.Int, types.Bool); err == nil {
		t.Errorf("expected int/bool to fail to unify")
	}
}

func TestUnify_OccursCheckRejectsInfiniteType(t *testing.T) {
	v := types.Var{ID: "t0"}
	if _, err := Unify(v, types.List{Elem: v}); err == nil {
		t.Errorf("expected v = list(v) to fail the occurs check")
	}
}

func TestUnify_StructRequiresSameModuleAndFields(t *testing.T) {
	a := types.Struct{Module: "User", Fields: map[string]types.Type{"name": types.String}}
	b := types.Struct{Module: "User", Fields: map[string]types.Type{"name": types.Var{ID: "t0"}}}
	s, err := Unify(a, b)
	if err != nil {
		t.Fatalf("unexpected error unifying structurally-compatible structs: %v", err)
	}
	if got, _ := s.TypeOf("t0"); got == nil || got.String() != types.String.String() {
		t.Errorf("expected t0 bound to string, got %v", got)
	}

	other := types.Struct{Module: "Order", Fields: map[string]types.Type{"name": types.String}}
	if _, err := Unify(a, other); err == nil {
		t.Errorf("expected structs of different modules not to unify")
	}
}

func TestUnify_ForallInstantiatesBeforeUnifying(t *testing.T) {
	scheme := types.Forall{Vars: []string{"a"}, Body: types.List{Elem: types.Var{ID: "a"}}}
	s, err := Unify(scheme, types.List{Elem: types.Int})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The scheme's bound variable was instantiated fresh, so the
	// returned substitution binds that fresh id, not "a" itself.
	if _, ok := s.TypeOf("a"); ok {
		t.Errorf("expected the scheme's own variable name not to leak into the substitution")
	}
}

func TestUnify_FunctionUnifiesParamEffectAndResult(t *testing.T) {
	a := types.Function{Param: types.Var{ID: "t0"}, Effect: types.EffectVar{ID: "e0"}, Result: types.Int}
	b := types.Function{Param: types.Int, Effect: types.Empty{}, Result: types.Int}
	s, err := Unify(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := s.TypeOf("t0"); got == nil || got.String() != types.Int.String() {
		t.Errorf("expected t0 bound to int, got %v", got)
	}
}

// spec.md §8 round-trip law: unify_effect is row-permutation-aware, so
// two rows built in a different order unify with no leftover mismatch.
func TestUnifyEffect_RowPermutationAware(t *testing.T) {
	a := types.Row{Head: types.Label{Name: types.LState}, Tail: types.Row{Head: types.Label{Name: types.LExn, Payload: []string{"badarg"}}, Tail: types.Empty{}}}
	b := types.Row{Head: types.Label{Name: types.LExn, Payload: []string{"badarg"}}, Tail: types.Row{Head: types.Label{Name: types.LState}, Tail: types.Empty{}}}
	if _, err := UnifyEffect(a, b); err != nil {
		t.Errorf("expected identically-labeled rows built in different orders to unify, got %v", err)
	}
}

func TestUnifyEffect_FixedTailCannotAbsorbExtraLabels(t *testing.T) {
	a := types.Row{Head: types.Label{Name: types.LState}, Tail: types.Empty{}}
	b := types.Empty{}
	if _, err := UnifyEffect(a, b); err == nil {
		t.Errorf("expected a labeled row not to unify against a fixed empty tail")
	}
}

func TestUnifyEffect_OpenTailAbsorbsLeftoverLabels(t *testing.T) {
	a := types.Row{Head: types.Label{Name: types.LState}, Tail: types.Empty{}}
	b := types.EffectVar{ID: "e0"}
	s, err := UnifyEffect(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bound, ok := s.EffectOf("e0")
	if !ok {
		t.Fatalf("expected e0 to be bound")
	}
	if len(types.ExtractLabels(bound)) != 1 {
		t.Errorf("expected e0 bound to the single leftover label, got %s", bound)
	}
}

func TestUnifyEffect_UnknownUnifiesWithAnything(t *testing.T) {
	row := types.Row{Head: types.Label{Name: types.LNif}, Tail: types.Empty{}}
	if _, err := UnifyEffect(types.Unknown{}, row); err != nil {
		t.Errorf("expected unknown to unify with anything, got %v", err)
	}
	if _, err := UnifyEffect(row, types.Unknown{}); err != nil {
		t.Errorf("expected anything to unify with unknown, got %v", err)
	}
}
