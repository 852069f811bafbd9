// Package types defines the closed type algebra of the analyzed
// language (spec.md §3 "Types") and the substitution mechanics shared
// by internal/unify. Shapes (plain, non-pointer structs so
// reflect.DeepEqual gives structural equality for free, an
// ApplyWithCycleCheck-style substitution walk) follow
// internal/typesystem/types.go in the teacher, generalized from its
// nominal/HKT-heavy surface down to this spec's smaller closed sum.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the interface implemented by every member of the closed
// type sum in spec.md §3.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeVars(out map[string]bool)
	bindingNode()
}

// Primitive is one of the ground types: int, float, bool, string,
// atom, any.
type Primitive struct {
	Name string
}

func (p Primitive) String() string                { return p.Name }
func (p Primitive) Apply(Subst) Type               { return p }
func (p Primitive) FreeVars(out map[string]bool)   {}

var (
	Int    = Primitive{"int"}
	Float  = Primitive{"float"}
	Bool   = Primitive{"bool"}
	String = Primitive{"string"}
	Atom   = Primitive{"atom"}
	Any    = Primitive{"any"}
)

// Var is a fresh unification variable, `type_var(id)`.
type Var struct {
	ID string
}

func (v Var) String() string { return v.ID }

func (v Var) Apply(s Subst) Type {
	return applyVarWithCycleCheck(v, s, map[string]bool{})
}

func (v Var) FreeVars(out map[string]bool) { out[v.ID] = true }

// applyVarWithCycleCheck threads a visited-set through substitution
// lookups so a pathological self-referential entry (which should never
// arise from a correctly occurs-checked Subst, but might from a manually
// built one in a test) returns the variable unchanged instead of
// recursing forever.
func applyVarWithCycleCheck(v Var, s Subst, visited map[string]bool) Type {
	if visited[v.ID] {
		return v
	}
	b, ok := s[v.ID]
	if !ok {
		return v
	}
	repl, ok := b.(Type)
	if !ok {
		// Bound to an Effect under this id: ids are disjoint namespaces,
		// so this would only happen for a malformed Subst. Leave the
		// variable as-is rather than panic.
		return v
	}
	if rv, ok := repl.(Var); ok && rv.ID == v.ID {
		return v
	}
	visited[v.ID] = true
	return applyThrough(repl, s, visited)
}

// applyThrough applies s to t, reusing the visited set so nested
// Vars inside t are cycle-checked against the same chain.
func applyThrough(t Type, s Subst, visited map[string]bool) Type {
	if v, ok := t.(Var); ok {
		return applyVarWithCycleCheck(v, s, visited)
	}
	return t.Apply(s)
}

// Tuple is an ordered heterogeneous tuple `tuple(T*)`.
type Tuple struct {
	Elements []Type
}

func (t Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (t Tuple) Apply(s Subst) Type {
	out := make([]Type, len(t.Elements))
	for i, e := range t.Elements {
		out[i] = e.Apply(s)
	}
	return Tuple{Elements: out}
}

func (t Tuple) FreeVars(out map[string]bool) {
	for _, e := range t.Elements {
		e.FreeVars(out)
	}
}

// List is a homogeneous list `list(T)`.
type List struct {
	Elem Type
}

func (l List) String() string          { return "[" + l.Elem.String() + "]" }
func (l List) Apply(s Subst) Type       { return List{Elem: l.Elem.Apply(s)} }
func (l List) FreeVars(out map[string]bool) { l.Elem.FreeVars(out) }

// Map is `map(T,T)`, keyed by Key to values of Value.
type Map struct {
	Key   Type
	Value Type
}

func (m Map) String() string { return fmt.Sprintf("map(%s, %s)", m.Key, m.Value) }
func (m Map) Apply(s Subst) Type {
	return Map{Key: m.Key.Apply(s), Value: m.Value.Apply(s)}
}
func (m Map) FreeVars(out map[string]bool) {
	m.Key.FreeVars(out)
	m.Value.FreeVars(out)
}

// Struct is `struct(Module, {field -> T})`, a named record with a
// known defining module.
type Struct struct {
	Module string
	Fields map[string]Type
}

func (s Struct) String() string {
	keys := sortedKeys(s.Fields)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + s.Fields[k].String()
	}
	return "%" + s.Module + "{" + strings.Join(parts, ", ") + "}"
}

func (s Struct) Apply(sub Subst) Type {
	out := make(map[string]Type, len(s.Fields))
	for k, v := range s.Fields {
		out[k] = v.Apply(sub)
	}
	return Struct{Module: s.Module, Fields: out}
}

func (s Struct) FreeVars(out map[string]bool) {
	for _, v := range s.Fields {
		v.FreeVars(out)
	}
}

func sortedKeys(m map[string]Type) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Function is `function(param, effect, result)`: a single curried
// parameter, the latent effect produced by calling it, and the result
// type. Multi-argument functions are ordinary nested Functions.
type Function struct {
	Param  Type
	Effect Effect
	Result Type
}

func (f Function) String() string {
	return fmt.Sprintf("(%s -%s-> %s)", f.Param, f.Effect.ToCompact(), f.Result)
}

func (f Function) Apply(s Subst) Type {
	return Function{Param: f.Param.Apply(s), Effect: f.Effect.Apply(s), Result: f.Result.Apply(s)}
}

func (f Function) FreeVars(out map[string]bool) {
	f.Param.FreeVars(out)
	f.Effect.FreeVars(out)
	f.Result.FreeVars(out)
}

// Closure is `closure(captured, effect, result)`: captured is the
// environment a lambda/capture closes over; the value has no further
// uncurried parameter of its own, unlike Function — applying a Closure
// produces Effect and Result directly.
//
// The spec's closure(captured, effect, result) shape is ambiguous on
// whether "captured" denotes the tuple of free-variable types closed
// over, or the parameter type of the closure itself once applied. This
// module resolves it as: Closure models a zero-argument thunk capturing
// free variables of type Captured; internal/infer uses it as the type
// of every zero-arity function and zero-parameter lambda (Captured set
// to any). Functions and lambdas with parameters synthesize to nested
// Function values instead. See
// DESIGN.md, "Open Question decisions".
type Closure struct {
	Captured Type
	Effect   Effect
	Result   Type
}

func (c Closure) String() string {
	return fmt.Sprintf("closure(%s, %s, %s)", c.Captured, c.Effect.ToCompact(), c.Result)
}

func (c Closure) Apply(s Subst) Type {
	return Closure{Captured: c.Captured.Apply(s), Effect: c.Effect.Apply(s), Result: c.Result.Apply(s)}
}

func (c Closure) FreeVars(out map[string]bool) {
	c.Captured.FreeVars(out)
	c.Effect.FreeVars(out)
	c.Result.FreeVars(out)
}

// Forall is a universally quantified type scheme, `forall(vars*, T)`,
// introduced only by let-generalization (spec.md §4.8 "let").
type Forall struct {
	Vars []string
	Body Type
}

func (f Forall) String() string {
	return fmt.Sprintf("forall(%s, %s)", strings.Join(f.Vars, ", "), f.Body)
}

// Apply on a Forall substitutes only free occurrences: bound Vars are
// first stripped from s so generalization survives.
func (f Forall) Apply(s Subst) Type {
	inner := make(Subst, len(s))
	for k, v := range s {
		inner[k] = v
	}
	for _, v := range f.Vars {
		delete(inner, v)
	}
	return Forall{Vars: f.Vars, Body: f.Body.Apply(inner)}
}

func (f Forall) FreeVars(out map[string]bool) {
	bound := make(map[string]bool, len(f.Vars))
	for _, v := range f.Vars {
		bound[v] = true
	}
	inner := map[string]bool{}
	f.Body.FreeVars(inner)
	for k := range inner {
		if !bound[k] {
			out[k] = true
		}
	}
}

// Union is a closed sum of alternative types, `union(T*)`, used where
// inference cannot commit to one branch's type (e.g. divergent `if`/
// `case` arms that don't unify).
type Union struct {
	Alternatives []Type
}

func (u Union) String() string {
	parts := make([]string, len(u.Alternatives))
	for i, a := range u.Alternatives {
		parts[i] = a.String()
	}
	return strings.Join(parts, " | ")
}

func (u Union) Apply(s Subst) Type {
	out := make([]Type, len(u.Alternatives))
	for i, a := range u.Alternatives {
		out[i] = a.Apply(s)
	}
	return Union{Alternatives: out}
}

func (u Union) FreeVars(out map[string]bool) {
	for _, a := range u.Alternatives {
		a.FreeVars(out)
	}
}
