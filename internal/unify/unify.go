// Package unify implements first-order structural unification over
// internal/types.Type (with occurs-check) and a separate,
// row-permutation-aware unification over internal/types.Effect. The
// shape — Unify returning (Subst, error), bindVar consulting an
// occurs-check before minting a new binding — follows the teacher's
// internal/typesystem unifier, generalized from its nominal/generic
// surface down to this spec's closed type sum.
package unify

import (
	"fmt"

	"github.com/efx-project/efx/internal/types"
)

// Error is returned by Unify/UnifyEffect on a genuine mismatch. Every
// caller in internal/infer treats it as non-fatal: on error, fall back
// to a fresh type variable or types.Unknown{} and record a diagnostic
// (spec.md §4.10) rather than aborting analysis.
type Error struct {
	Left, Right fmt.Stringer
	Reason      string
}

func (e *Error) Error() string {
	return fmt.Sprintf("cannot unify %s with %s: %s", e.Left, e.Right, e.Reason)
}

func mismatch(l, r fmt.Stringer, reason string) error {
	return &Error{Left: l, Right: r, Reason: reason}
}

// Unify computes the most general substitution making t1 and t2
// structurally equal, or an error if none exists. It never mutates its
// arguments; callers apply the returned Subst themselves.
func Unify(t1, t2 types.Type) (types.Subst, error) {
	switch l := t1.(type) {
	case types.Var:
		return bindVar(l, t2)
	}
	if r, ok := t2.(types.Var); ok {
		return bindVar(r, t1)
	}

	switch l := t1.(type) {
	case types.Primitive:
		r, ok := t2.(types.Primitive)
		if !ok || r.Name != l.Name {
			// types.Any unifies with anything, either side.
			if l.Name == "any" || isAnyType(t2) {
				return types.Subst{}, nil
			}
			return nil, mismatch(l, t2, "primitive mismatch")
		}
		return types.Subst{}, nil

	case types.Tuple:
		r, ok := t2.(types.Tuple)
		if !ok || len(r.Elements) != len(l.Elements) {
			return nil, mismatch(l, t2, "tuple shape mismatch")
		}
		return unifyAll(l.Elements, r.Elements)

	case types.List:
		r, ok := t2.(types.List)
		if !ok {
			return nil, mismatch(l, t2, "not a list")
		}
		return Unify(l.Elem, r.Elem)

	case types.Map:
		r, ok := t2.(types.Map)
		if !ok {
			return nil, mismatch(l, t2, "not a map")
		}
		s1, err := Unify(l.Key, r.Key)
		if err != nil {
			return nil, err
		}
		s2, err := Unify(l.Value.Apply(s1), r.Value.Apply(s1))
		if err != nil {
			return nil, err
		}
		return types.Compose(s2, s1), nil

	case types.Struct:
		r, ok := t2.(types.Struct)
		if !ok || r.Module != l.Module {
			return nil, mismatch(l, t2, "struct module mismatch")
		}
		return unifyFieldSets(l.Fields, r.Fields)

	case types.Function:
		r, ok := t2.(types.Function)
		if !ok {
			return nil, mismatch(l, t2, "not a function")
		}
		s1, err := Unify(l.Param, r.Param)
		if err != nil {
			return nil, err
		}
		se, err := UnifyEffect(l.Effect.Apply(s1), r.Effect.Apply(s1))
		if err != nil {
			return nil, err
		}
		s2, err := Unify(applyEffectSubstToType(l.Result, se).Apply(s1), applyEffectSubstToType(r.Result, se).Apply(s1))
		if err != nil {
			return nil, err
		}
		return types.Compose(s2, types.Compose(se, s1)), nil

	case types.Closure:
		r, ok := t2.(types.Closure)
		if !ok {
			return nil, mismatch(l, t2, "not a closure")
		}
		s1, err := Unify(l.Captured, r.Captured)
		if err != nil {
			return nil, err
		}
		se, err := UnifyEffect(l.Effect.Apply(s1), r.Effect.Apply(s1))
		if err != nil {
			return nil, err
		}
		s2, err := Unify(l.Result.Apply(s1), r.Result.Apply(s1))
		if err != nil {
			return nil, err
		}
		return types.Compose(s2, types.Compose(se, s1)), nil

	case types.Forall:
		// Unifying against a polymorphic scheme instantiates it fresh
		// first (spec.md §4.8's variable-reference rule applied here
		// too): a scheme is never unified point-wise against its bound
		// variables.
		fresh := freshCounter()
		return Unify(types.Instantiate(l, fresh), t2)

	case types.Union:
		// A union unifies with t2 if any alternative does; the first
		// alternative that succeeds wins (alternatives are produced by
		// divergent branches, so callers needing full ambiguity handling
		// should check types.Union membership themselves before calling
		// Unify).
		for _, alt := range l.Alternatives {
			if s, err := Unify(alt, t2); err == nil {
				return s, nil
			}
		}
		return nil, mismatch(l, t2, "no union alternative unifies")
	}

	if r, ok := t2.(types.Forall); ok {
		fresh := freshCounter()
		return Unify(t1, types.Instantiate(r, fresh))
	}

	return nil, mismatch(t1, t2, "incompatible type shapes")
}

// applyEffectSubstToType is a narrow helper: se is the Subst produced
// by UnifyEffect (keyed by effect-variable ids only), and Type.Apply
// already ignores bindings that aren't types.Type, so applying it
// directly is safe and resolves any effect variables nested inside
// t's Function/Closure fields.
func applyEffectSubstToType(t types.Type, se types.Subst) types.Type {
	return t.Apply(se)
}

func isAnyType(t types.Type) bool {
	p, ok := t.(types.Primitive)
	return ok && p.Name == "any"
}

func unifyAll(ls, rs []types.Type) (types.Subst, error) {
	s := types.Subst{}
	for i := range ls {
		next, err := Unify(ls[i].Apply(s), rs[i].Apply(s))
		if err != nil {
			return nil, err
		}
		s = types.Compose(next, s)
	}
	return s, nil
}

func unifyFieldSets(l, r map[string]types.Type) (types.Subst, error) {
	if len(l) != len(r) {
		return nil, mismatch(fieldSetStringer(l), fieldSetStringer(r), "field count mismatch")
	}
	s := types.Subst{}
	for name, lt := range l {
		rt, ok := r[name]
		if !ok {
			return nil, mismatch(fieldSetStringer(l), fieldSetStringer(r), "missing field "+name)
		}
		next, err := Unify(lt.Apply(s), rt.Apply(s))
		if err != nil {
			return nil, err
		}
		s = types.Compose(next, s)
	}
	return s, nil
}

type fieldSetStringer map[string]types.Type

func (f fieldSetStringer) String() string { return "fields" }

// bindVar binds v to t after an occurs-check: v must not appear free
// in t, or the substitution would be infinite/cyclic. Binding a
// variable to itself is a no-op (empty substitution).
func bindVar(v types.Var, t types.Type) (types.Subst, error) {
	if rv, ok := t.(types.Var); ok && rv.ID == v.ID {
		return types.Subst{}, nil
	}
	if occursIn(v.ID, t) {
		return nil, mismatch(v, t, "occurs check failed")
	}
	return types.Subst{v.ID: t}, nil
}

func occursIn(id string, t types.Type) bool {
	free := types.FreeTypeVars(t)
	return free[id]
}

// freshCounter returns a generator minting unique fresh variable ids
// local to one Unify call that needs to instantiate a Forall
// on the fly (e.g. unifying two polymorphic registry entries against
// each other outside of internal/infer's own fresh-var supply).
func freshCounter() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("u%d", n)
	}
}
