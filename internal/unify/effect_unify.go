package unify

import "github.com/efx-project/efx/internal/types"

// UnifyEffect unifies two effect rows treating them as commutative
// multisets of labels plus an optional open tail (spec.md §3,
// "unify_effect ... row-permutation-aware"): labels present on both
// sides are matched regardless of build order, and whatever a fixed
// (Empty) tail cannot account for is rejected, while an open
// (EffectVar) tail absorbs the other side's leftover labels. types.
// Unknown unifies with anything; types.Empty unifies only with itself
// or a row variable.
func UnifyEffect(e1, e2 types.Effect) (types.Subst, error) {
	if _, ok := e1.(types.Unknown); ok {
		return types.Subst{}, nil
	}
	if _, ok := e2.(types.Unknown); ok {
		return types.Subst{}, nil
	}
	if v1, ok := e1.(types.EffectVar); ok {
		if v2, ok := e2.(types.EffectVar); ok && v2.ID == v1.ID {
			return types.Subst{}, nil
		}
		return bindEffectVar(v1, e2)
	}
	if v2, ok := e2.(types.EffectVar); ok {
		return bindEffectVar(v2, e1)
	}

	labels1 := types.ExtractLabels(e1)
	labels2 := types.ExtractLabels(e2)
	tail1 := effectTail(e1)
	tail2 := effectTail(e2)

	remaining1, remaining2, err := matchLabels(labels1, labels2)
	if err != nil {
		return nil, err
	}

	_, tail1Empty := tail1.(types.Empty)
	_, tail2Empty := tail2.(types.Empty)

	if tail1Empty && len(remaining2) > 0 {
		return nil, mismatch(e1, e2, "left effect row has a fixed (empty) tail but cannot supply the right side's extra labels")
	}
	if tail2Empty && len(remaining1) > 0 {
		return nil, mismatch(e1, e2, "right effect row has a fixed (empty) tail but cannot supply the left side's extra labels")
	}

	switch {
	case tail1Empty && tail2Empty:
		return types.Subst{}, nil

	case tail1Empty:
		v2 := tail2.(types.EffectVar)
		return bindEffectVar(v2, rowOf(remaining1))

	case tail2Empty:
		v1 := tail1.(types.EffectVar)
		return bindEffectVar(v1, rowOf(remaining2))

	default:
		v1 := tail1.(types.EffectVar)
		v2 := tail2.(types.EffectVar)
		if v1.ID == v2.ID {
			if len(remaining1) > 0 || len(remaining2) > 0 {
				return nil, mismatch(e1, e2, "same open tail variable cannot absorb differing leftover labels on each side")
			}
			return types.Subst{}, nil
		}
		rest := types.EffectVar{ID: v1.ID + "+" + v2.ID}
		s1, err := bindEffectVar(v1, extendRow(remaining2, rest))
		if err != nil {
			return nil, err
		}
		s2, err := bindEffectVar(v2, extendRow(remaining1, rest))
		if err != nil {
			return nil, err
		}
		return mergeSubst(s1, s2), nil
	}
}

// matchLabels pairs off labels with the same Name across the two
// sides, ignoring payloads (two LExn labels match whatever their kind
// sets), returning whatever is left unmatched on each side.
func matchLabels(labels1, labels2 []types.Label) (remaining1, remaining2 []types.Label, err error) {
	used2 := make([]bool, len(labels2))
	for _, l1 := range labels1 {
		matched := false
		for i, l2 := range labels2 {
			if used2[i] || l2.Name != l1.Name {
				continue
			}
			used2[i] = true
			matched = true
			break
		}
		if !matched {
			remaining1 = append(remaining1, l1)
		}
	}
	for i, l2 := range labels2 {
		if !used2[i] {
			remaining2 = append(remaining2, l2)
		}
	}
	return remaining1, remaining2, nil
}

// effectTail walks past any Row cells and returns the trailing
// Empty/EffectVar (Unknown is handled earlier in UnifyEffect and never
// reaches here nested in a row, since rows are only ever built with
// Empty or EffectVar tails by internal/infer).
func effectTail(e types.Effect) types.Effect {
	cur := e
	for {
		switch v := cur.(type) {
		case types.Row:
			cur = v.Tail
		case types.Label:
			return types.Empty{}
		default:
			return cur
		}
	}
}

func rowOf(labels []types.Label) types.Effect {
	var cur types.Effect = types.Empty{}
	for i := len(labels) - 1; i >= 0; i-- {
		cur = types.Extend(labels[i], cur)
	}
	return cur
}

func extendRow(labels []types.Label, tail types.Effect) types.Effect {
	cur := tail
	for i := len(labels) - 1; i >= 0; i-- {
		cur = types.Extend(labels[i], cur)
	}
	return cur
}

// bindEffectVar binds v to e after an occurs-check on effect
// variables: v must not appear free in e.
func bindEffectVar(v types.EffectVar, e types.Effect) (types.Subst, error) {
	if rv, ok := e.(types.EffectVar); ok && rv.ID == v.ID {
		return types.Subst{}, nil
	}
	free := types.FreeEffectVars(e)
	if free[v.ID] {
		return nil, mismatch(v, e, "occurs check failed")
	}
	return types.Subst{v.ID: e}, nil
}

// mergeSubst unions two Substs produced independently while unifying
// both halves of a two-open-tail match; the two never share keys since
// v1.ID != v2.ID was already established by the caller.
func mergeSubst(a, b types.Subst) types.Subst {
	out := make(types.Subst, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
