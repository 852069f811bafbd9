// Package registry loads and queries the three-layer effect registry
// (seed < generated < explicit, spec.md §4.3/§6) keyed by MFA
// (Module, Function, Arity). Shape — a layered map-of-maps merged
// function-by-function, never whole-module — is grounded on the
// teacher's internal/symbols layered symbol-table scopes
// (ScopePrelude < ScopeGlobal < ScopeFunction) and its per-scope lookup
// chain in symbol_table_dispatch.go.
package registry

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/efx-project/efx/internal/types"
)

// MFA identifies a function uniquely: (Module, Function, Arity).
type MFA struct {
	Module   string
	Function string
	Arity    int
}

func (m MFA) String() string {
	return fmt.Sprintf("%s.%s/%d", m.Module, m.Function, m.Arity)
}

// key is the "function/arity" string used inside one module's JSON
// object, matching the seed-file schema (spec.md §6).
func key(function string, arity int) string {
	return function + "/" + strconv.Itoa(arity)
}

func parseKey(k string) (function string, arity int, ok bool) {
	idx := strings.LastIndexByte(k, '/')
	if idx < 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(k[idx+1:])
	if err != nil {
		return "", 0, false
	}
	return k[:idx], n, true
}

// ParseMFARef parses a "Module.function/arity" reference string, the
// shape used in redirect_to/resolution-file callee lists.
func ParseMFARef(ref string) (MFA, bool) {
	dot := strings.LastIndexByte(ref, '.')
	if dot < 0 {
		return MFA{}, false
	}
	fn, arity, ok := parseKey(ref[dot+1:])
	if !ok {
		return MFA{}, false
	}
	return MFA{Module: ref[:dot], Function: fn, Arity: arity}, true
}

// Descriptor is the value half of a registry entry (spec.md
// "Registry entry"): exactly one of Token, Structured, or Redirect is
// populated.
type Descriptor struct {
	Token      string      // one of p d l n s u, or "" if Structured/Redirect is set
	Structured *Structured // {kind, payload}, from the JSON object form
	Redirect   []MFA       // wrapper: effect is the join of these callees
}

// Structured is the object form of an effect descriptor: exactly one
// of "e"/"s"/"d" in the source JSON, recorded here as Kind + Payload.
type Structured struct {
	Kind    string // "e", "s", or "d"
	Payload []string
}

// UnmarshalJSON accepts either a one-character token string or an
// object with exactly one of "e"/"s"/"d" mapping to a string array
// (spec.md §6 "Input: seed registry file").
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	var tok string
	if err := json.Unmarshal(data, &tok); err == nil {
		d.Token = tok
		return nil
	}
	var obj map[string][]string
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("effect descriptor is neither a token string nor an {e|s|d: [...]} object: %w", err)
	}
	for _, kind := range []string{"e", "s", "d"} {
		if payload, ok := obj[kind]; ok {
			d.Structured = &Structured{Kind: kind, Payload: payload}
			return nil
		}
	}
	return fmt.Errorf("effect descriptor object has none of the keys e, s, d")
}

// moduleLayer is one layer's raw JSON shape: module name -> function/arity -> descriptor,
// with a free-form "_metadata" key ignored by the loader.
type moduleLayer map[string]map[string]Descriptor

func parseLayer(data []byte) (moduleLayer, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	layer := make(moduleLayer, len(raw))
	for modName, modRaw := range raw {
		if modName == "_metadata" {
			continue
		}
		var fns map[string]Descriptor
		if err := json.Unmarshal(modRaw, &fns); err != nil {
			return nil, fmt.Errorf("module %q: %w", modName, err)
		}
		layer[modName] = fns
	}
	return layer, nil
}

// Registry is the immutable, merged view queried throughout a single
// analysis run (spec.md "Lifecycles": built once, read-only
// thereafter).
type Registry struct {
	entries map[MFA]Descriptor
}

// Load reads up to three JSON layers (any path may be empty, meaning
// "absent") and merges them seed < generated < explicit, deep at the
// function level per module (spec.md §4.3): when both sides define a
// module, function maps are unioned with the higher-priority side
// winning per function, never overwriting a whole module.
func Load(seedData, generatedData, explicitData []byte) (*Registry, error) {
	merged := make(map[string]map[string]Descriptor)
	for _, data := range [][]byte{seedData, generatedData, explicitData} {
		if len(data) == 0 {
			continue
		}
		layer, err := parseLayer(data)
		if err != nil {
			return nil, err
		}
		for mod, fns := range layer {
			if merged[mod] == nil {
				merged[mod] = make(map[string]Descriptor, len(fns))
			}
			for fnArity, desc := range fns {
				merged[mod][fnArity] = desc
			}
		}
	}

	entries := make(map[MFA]Descriptor)
	for mod, fns := range merged {
		for fnArity, desc := range fns {
			fn, arity, ok := parseKey(fnArity)
			if !ok {
				continue
			}
			entries[MFA{Module: mod, Function: fn, Arity: arity}] = desc
		}
	}
	return &Registry{entries: entries}, nil
}

// Empty returns a Registry with no entries, used when no seed/
// generated/explicit files are configured.
func Empty() *Registry { return &Registry{entries: map[MFA]Descriptor{}} }

// Lookup returns the raw descriptor for mfa, if any.
func (r *Registry) Lookup(mfa MFA) (Descriptor, bool) {
	d, ok := r.entries[mfa]
	return d, ok
}

// EffectType returns mfa's compact effect token, resolving redirect_to
// wrappers to the join of their leaves and structured descriptors to
// their derived token. Returns false if mfa has no registry entry at
// all (the caller should then fall back to analyzing the function's
// body, or to `unknown` if it's external).
func (r *Registry) EffectType(mfa MFA) (types.CompactToken, bool) {
	eff, ok := r.EffectRow(mfa)
	if !ok {
		return types.CompactToken{}, false
	}
	return eff.ToCompact(), true
}

// EffectRow returns the full Effect row a descriptor denotes,
// resolving redirects via ResolveToLeaves and joining their effects.
func (r *Registry) EffectRow(mfa MFA) (types.Effect, bool) {
	d, ok := r.entries[mfa]
	if !ok {
		return nil, false
	}
	return r.descriptorToEffect(mfa, d), true
}

func (r *Registry) descriptorToEffect(mfa MFA, d Descriptor) types.Effect {
	switch {
	case d.Redirect != nil:
		leaves, _ := r.resolveToLeaves(d.Redirect, map[MFA]bool{})
		var eff types.Effect = types.Empty{}
		for leaf := range leaves {
			if leafEff, ok := r.EffectRow(leaf); ok {
				eff = types.Combine(eff, leafEff)
			} else {
				eff = types.Combine(eff, types.Unknown{})
			}
		}
		return eff
	case d.Structured != nil:
		return structuredToEffect(mfa, *d.Structured)
	default:
		return tokenToEffect(mfa, d.Token)
	}
}

// leafSite names mfa the way seed payload entries do ("print/1"), the
// fallback leaf-site name attached to a descriptor that carries no
// explicit payload of its own — the descriptor IS the leaf, so its own
// name is the detail spec.md §3's compact form calls for.
func leafSite(mfa MFA) string {
	return key(mfa.Function, mfa.Arity)
}

func tokenToEffect(mfa MFA, tok string) types.Effect {
	switch tok {
	case "p":
		return types.Empty{}
	case "l":
		return types.Row{Head: types.Label{Name: types.LLambda}, Tail: types.Empty{}}
	case "n":
		return types.Row{Head: types.Label{Name: types.LNif}, Tail: types.Empty{}}
	case "d":
		return types.Row{Head: types.Label{Name: types.LDependent, Payload: []string{leafSite(mfa)}}, Tail: types.Empty{}}
	case "u":
		return types.Unknown{}
	case "s":
		return types.Row{Head: types.Label{Name: types.LState, Payload: []string{leafSite(mfa)}}, Tail: types.Empty{}}
	default:
		return types.Unknown{}
	}
}

func structuredToEffect(mfa MFA, s Structured) types.Effect {
	payload := s.Payload
	if len(payload) == 0 {
		payload = []string{leafSite(mfa)}
	}
	switch s.Kind {
	case "e":
		return types.ExnEffect(s.Payload...)
	case "s":
		return types.Row{Head: types.Label{Name: effectLabelFor(payload), Payload: payload}, Tail: types.Empty{}}
	case "d":
		return types.Row{Head: types.Label{Name: types.LDependent, Payload: payload}, Tail: types.Empty{}}
	default:
		return types.Unknown{}
	}
}

// effectLabelFor maps an "s"-kind payload's leaf-site hints to the
// closest concrete label; payload entries are MFA-like references
// (e.g. "file_write/2") used to pick a more specific label alongside
// carrying the name itself through as Payload, so every "s" descriptor
// maps to LState unless a payload entry names a more specific site.
func effectLabelFor(payload []string) types.LabelName {
	for _, p := range payload {
		switch {
		case strings.Contains(p, "file"):
			return types.LFile
		case strings.Contains(p, "net") || strings.Contains(p, "socket") || strings.Contains(p, "http"):
			return types.LNetwork
		case strings.Contains(p, "send") || strings.Contains(p, "spawn") || strings.Contains(p, "process"):
			return types.LProcess
		case strings.Contains(p, "ets"):
			return types.LEts
		case strings.Contains(p, "time") || strings.Contains(p, "sleep"):
			return types.LTime
		case strings.Contains(p, "rand"):
			return types.LRandom
		}
	}
	return types.LState
}

// EffectCategory classifies mfa's effect into one of the spec's
// category names, derived from its most severe constituent label
// rather than the compact token (whose detail now carries leaf MFA
// names, not a category hint).
func (r *Registry) EffectCategory(mfa MFA) (string, bool) {
	eff, ok := r.EffectRow(mfa)
	if !ok {
		return "", false
	}
	if _, isUnknown := eff.(types.Unknown); isUnknown {
		return "unknown", true
	}
	labels := types.ExtractLabels(eff)
	if len(labels) == 0 {
		return "pure", true
	}
	best, bestRank := "pure", -1
	for _, l := range labels {
		cat, rank := categoryRank(l.Name)
		if rank > bestRank {
			best, bestRank = cat, rank
		}
	}
	return best, true
}

// categoryRank pairs a label's category name with its severity rank
// (spec.md §3 "severity order"), so EffectCategory can pick the most
// severe label's category out of a multi-label row.
func categoryRank(name types.LabelName) (category string, rank int) {
	switch name {
	case types.LNif:
		return "nif", 5
	case types.LDependent:
		return "dependent", 3
	case types.LExn:
		return "exception", 2
	case types.LLambda:
		return "lambda", 1
	case types.LFile:
		return "file", 4
	case types.LNetwork:
		return "network", 4
	case types.LProcess:
		return "process", 4
	default:
		return "state", 4
	}
}

// EffectModule reports whether module has at least one registry
// entry, i.e. is known to be a registry-tagged module rather than one
// under direct source analysis.
func (r *Registry) EffectModule(module string) bool {
	for mfa := range r.entries {
		if mfa.Module == module {
			return true
		}
	}
	return false
}

// Size returns the number of MFA entries, used to bound
// ResolveToLeaves's follow depth (spec.md §4.3: "bounded by number of
// registry entries").
func (r *Registry) Size() int { return len(r.entries) }
