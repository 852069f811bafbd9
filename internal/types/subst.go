package types

// Binding is the value half of a Subst entry: either a Type or an
// Effect, matching spec.md's "substitution: finite map var-id -> type
// or effect" — one map, not two, since type-variable ids and
// effect-variable ids are drawn from disjoint namespaces (internal/infer
// prefixes them "t" and "e" respectively) and never collide.
type Binding interface {
	bindingNode()
}

func (Primitive) bindingNode() {}
func (Var) bindingNode()       {}
func (Tuple) bindingNode()     {}
func (List) bindingNode()      {}
func (Map) bindingNode()       {}
func (Struct) bindingNode()    {}
func (Function) bindingNode()  {}
func (Closure) bindingNode()   {}
func (Forall) bindingNode()    {}
func (Union) bindingNode()     {}

func (Empty) bindingNode()    {}
func (Label) bindingNode()    {}
func (Row) bindingNode()      {}
func (EffectVar) bindingNode() {}
func (Unknown) bindingNode()  {}

// Subst is a finite map from variable id to the type or effect it
// stands for. Subst must stay idempotent: applying it to its own range
// is a no-op. internal/unify is the only place new entries get minted
// (via bindVar/bindEffectVar); this package only applies and composes.
type Subst map[string]Binding

// TypeOf looks up id expecting a Type binding; ok is false if absent
// or bound to an Effect (which should never happen for a well-formed
// Subst, since the two id namespaces are disjoint).
func (s Subst) TypeOf(id string) (Type, bool) {
	b, found := s[id]
	if !found {
		return nil, false
	}
	t, ok := b.(Type)
	return t, ok
}

// EffectOf looks up id expecting an Effect binding.
func (s Subst) EffectOf(id string) (Effect, bool) {
	b, found := s[id]
	if !found {
		return nil, false
	}
	e, ok := b.(Effect)
	return e, ok
}

// Compose returns the substitution equivalent to applying s1 after s2:
// apply s1 across every entry in s2's range, then add s1's own bindings
// for any id s2 does not already rebind. This is the standard
// unification-substitution composition rule (s1 ∘ s2).
func Compose(s1, s2 Subst) Subst {
	out := make(Subst, len(s1)+len(s2))
	for id, b := range s2 {
		out[id] = applyBinding(b, s1)
	}
	for id, b := range s1 {
		if _, exists := s2[id]; !exists {
			out[id] = b
		}
	}
	return out
}

func applyBinding(b Binding, s Subst) Binding {
	switch v := b.(type) {
	case Type:
		return v.Apply(s)
	case Effect:
		return v.Apply(s)
	default:
		return b
	}
}

// FreeTypeVars returns the set of free type-variable ids in t.
func FreeTypeVars(t Type) map[string]bool {
	out := map[string]bool{}
	t.FreeVars(out)
	return out
}

// FreeEffectVars returns the set of free effect-variable ids in e.
func FreeEffectVars(e Effect) map[string]bool {
	out := map[string]bool{}
	e.FreeVars(out)
	return out
}

// Instantiate replaces a Forall's bound variables with fresh ones
// (produced by fresh, typically internal/infer's counter-backed
// generator) and returns the resulting type, specialized for this call
// site. Non-Forall types are returned unchanged, matching spec.md
// §4.8's variable-reference rule: instantiate only if the binding is
// polymorphic.
func Instantiate(t Type, fresh func() string) Type {
	f, ok := t.(Forall)
	if !ok {
		return t
	}
	s := make(Subst, len(f.Vars))
	for _, v := range f.Vars {
		s[v] = Var{ID: fresh()}
	}
	return f.Body.Apply(s)
}

// Generalize closes over every type variable free in t but not free in
// the surrounding environment (envFree), producing a Forall scheme.
// Used by let-bindings that qualify for let-polymorphism (spec.md
// §4.8, "value restriction": only syntactic values generalize).
func Generalize(t Type, envFree map[string]bool) Type {
	free := FreeTypeVars(t)
	var vars []string
	for id := range free {
		if !envFree[id] {
			vars = append(vars, id)
		}
	}
	if len(vars) == 0 {
		return t
	}
	return Forall{Vars: vars, Body: t}
}
