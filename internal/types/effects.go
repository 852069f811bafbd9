package types

import (
	"sort"
	"strings"
)

// Effect is the interface implemented by every member of the effect
// row algebra (spec.md §3 "Effects"): Empty, Label, Row, EffectVar,
// Unknown.
type Effect interface {
	String() string
	Apply(Subst) Effect
	FreeVars(out map[string]bool)
	ToCompact() CompactToken
	bindingNode()
}

// Label names one atomic effect kind a function can exhibit.
type LabelName string

const (
	LIO       LabelName = "io"
	LFile     LabelName = "file"
	LNetwork  LabelName = "network"
	LProcess  LabelName = "process"
	LState    LabelName = "state"
	LEts      LabelName = "ets"
	LTime     LabelName = "time"
	LRandom   LabelName = "random"
	LLambda   LabelName = "lambda" // placeholder: "depends on a function argument"
	LDependent LabelName = "dependent"
	LNif      LabelName = "nif"
	LExn      LabelName = "exn" // carries Kinds, see Label.Payload
)

// Empty is the effect row with no labels: a pure computation.
type Empty struct{}

func (Empty) String() string                { return "empty" }
func (Empty) Apply(Subst) Effect            { return Empty{} }
func (Empty) FreeVars(out map[string]bool)  {}
func (Empty) ToCompact() CompactToken       { return CompactToken{Tag: "p"} }

// Label is a single effect entry in a row, `label(L, payload?)`.
// Payload carries the detail spec.md §3's compact form names
// optionally alongside the severity tag: for LExn it is the set of
// exception kinds the label may raise; for every other label it is the
// set of leaf MFA names (e.g. "file_write/2") that produced it, when
// known.
type Label struct {
	Name    LabelName
	Payload []string
}

func (l Label) String() string {
	if len(l.Payload) > 0 {
		return string(l.Name) + "(" + strings.Join(l.Payload, ", ") + ")"
	}
	return string(l.Name)
}

func (l Label) Apply(Subst) Effect           { return l }
func (l Label) FreeVars(out map[string]bool) {}

func (l Label) ToCompact() CompactToken {
	return labelsToCompact([]Label{l})
}

// Row is a cons-cell in the effect row list: `row(head, tail)`. Rows
// are built left-to-right during inference (each effectful operation
// Extends the row) and read back via ExtractLabels, which treats the
// row as an unordered multiset — two rows with the same labels in a
// different build order are the same effect.
type Row struct {
	Head Label
	Tail Effect
}

func (r Row) String() string {
	return r.Head.String() + ", " + r.Tail.String()
}

func (r Row) Apply(s Subst) Effect {
	return Row{Head: r.Head, Tail: r.Tail.Apply(s)}
}

func (r Row) FreeVars(out map[string]bool) {
	r.Tail.FreeVars(out)
}

func (r Row) ToCompact() CompactToken {
	return labelsToCompact(ExtractLabels(r))
}

// EffectVar is an as-yet-unresolved effect row variable, `var(id)` —
// "the rest of the row," used as the fresh tail unify_effect leaves
// behind after matching the labels both sides share.
type EffectVar struct {
	ID string
}

func (v EffectVar) String() string { return v.ID }

func (v EffectVar) Apply(s Subst) Effect {
	b, ok := s[v.ID]
	if !ok {
		return v
	}
	e, ok := b.(Effect)
	if !ok {
		return v
	}
	if rv, ok := e.(EffectVar); ok && rv.ID == v.ID {
		return v
	}
	return e.Apply(s)
}

func (v EffectVar) FreeVars(out map[string]bool) { out[v.ID] = true }
func (v EffectVar) ToCompact() CompactToken      { return CompactToken{Tag: "p"} }

// Unknown is the top effect: "could be anything," the conservative
// fallback recorded whenever inference cannot establish a tighter
// bound (spec.md §4.10, "every failure path ... unknown effect").
type Unknown struct{}

func (Unknown) String() string               { return "unknown" }
func (Unknown) Apply(Subst) Effect           { return Unknown{} }
func (Unknown) FreeVars(out map[string]bool) {}
func (Unknown) ToCompact() CompactToken      { return CompactToken{Tag: "u"} }

// EmptyEffect is the canonical Empty value.
func EmptyEffect() Effect { return Empty{} }

// SingleEffect builds a one-label row.
func SingleEffect(name LabelName) Effect {
	return Row{Head: Label{Name: name}, Tail: Empty{}}
}

// ExnEffect builds a one-label exception row carrying kinds.
func ExnEffect(kinds ...string) Effect {
	sorted := append([]string(nil), kinds...)
	sort.Strings(sorted)
	return Row{Head: Label{Name: LExn, Payload: sorted}, Tail: Empty{}}
}

// Extend prepends label onto tail, building a longer row.
func Extend(label Label, tail Effect) Effect {
	return Row{Head: label, Tail: tail}
}

// ExtractLabels flattens a Row chain (or a bare Label/Empty) into its
// constituent Labels, in no particular guaranteed order beyond
// build-order — callers that need a canonical order should sort the
// result themselves (ToCompact does).
func ExtractLabels(e Effect) []Label {
	var out []Label
	cur := e
	for {
		switch v := cur.(type) {
		case Empty:
			return out
		case Label:
			return append(out, v)
		case Row:
			out = append(out, v.Head)
			cur = v.Tail
		case EffectVar, Unknown:
			return out
		default:
			return out
		}
	}
}

// FreeEffectRowVar reports the trailing EffectVar of a row chain, if
// any (the "rest of the row" unify_effect leaves open).
func FreeEffectRowVar(e Effect) (EffectVar, bool) {
	cur := e
	for {
		switch v := cur.(type) {
		case Row:
			cur = v.Tail
		case EffectVar:
			return v, true
		default:
			return EffectVar{}, false
		}
	}
}

// Monomorphic reports whether e contains no effect variables — i.e. is
// fully resolved, not dependent on further unification.
func Monomorphic(e Effect) bool {
	free := map[string]bool{}
	e.FreeVars(free)
	return len(free) == 0
}

// CompactToken is the single-token effect summary of spec.md §3
// ("compact form"): a severity tag plus, for the two tags that carry
// detail, the sorted leaf MFA names or exception-kind names that
// produced it.
type CompactToken struct {
	Tag    string   // one of p s d e l n u
	Detail []string // leaf MFA names for s/d, exception kinds for e
}

func (c CompactToken) String() string {
	if len(c.Detail) == 0 {
		return c.Tag
	}
	return c.Tag + "[" + strings.Join(c.Detail, ",") + "]"
}

// ParseCompact reverses String(): "s[print/1,file_write/2]" back to a
// CompactToken{Tag:"s", Detail:["print/1","file_write/2"]}. Used by the
// round-trip test (spec.md §8: `to_compact(from_compact(c)) = c`) and
// available to any caller that needs to read a previously-rendered
// compact token back, e.g. a resolution-file consumer.
func ParseCompact(s string) CompactToken {
	open := strings.IndexByte(s, '[')
	if open < 0 || !strings.HasSuffix(s, "]") {
		return CompactToken{Tag: s}
	}
	tag := s[:open]
	inner := s[open+1 : len(s)-1]
	if inner == "" {
		return CompactToken{Tag: tag}
	}
	return CompactToken{Tag: tag, Detail: strings.Split(inner, ",")}
}

// severityRank implements the total order u > n > s > d > e > l > p
// (most severe wins) spec.md §3 "severity order" specifies for
// Combine/Join.
var severityRank = map[string]int{
	"u": 6, "n": 5, "s": 4, "d": 3, "e": 2, "l": 1, "p": 0,
}

// labelsToCompact derives the single-token summary from a set of
// labels per spec.md §3's severity order: state/file/network/process/
// ets/time/random/io labels all collapse to the "s" tag, carrying
// forward whatever leaf MFA names their Payload names (spec.md §8
// scenario 4: effect `s` with MFA set `{print/1}`); exn kinds and
// nif/lambda/dependent/unknown take priority according to
// severityRank.
func labelsToCompact(labels []Label) CompactToken {
	if len(labels) == 0 {
		return CompactToken{Tag: "p"}
	}
	best := "p"
	var sites []string
	var exnKinds []string
	for _, l := range labels {
		switch l.Name {
		case LNif:
			best = maxTag(best, "n")
		case LLambda:
			best = maxTag(best, "l")
		case LDependent:
			best = maxTag(best, "d")
			sites = append(sites, l.Payload...)
		case LExn:
			best = maxTag(best, "e")
			exnKinds = append(exnKinds, l.Payload...)
		default:
			best = maxTag(best, "s")
			sites = append(sites, l.Payload...)
		}
	}
	switch best {
	case "e":
		sort.Strings(exnKinds)
		return CompactToken{Tag: "e", Detail: dedupe(exnKinds)}
	case "s", "d":
		sort.Strings(sites)
		return CompactToken{Tag: best, Detail: dedupe(sites)}
	default:
		return CompactToken{Tag: best}
	}
}

func maxTag(a, b string) string {
	if severityRank[b] > severityRank[a] {
		return b
	}
	return a
}

func dedupe(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// ToCompact derives e's single-token summary. unknown/effect-variable
// rows compact conservatively: an EffectVar (still-open row) compacts
// as pure for display purposes only — callers performing severity
// comparisons should resolve EffectVars via a Subst before comparing,
// since an unresolved tail must never be read as "no further effects."
func ToCompact(e Effect) CompactToken {
	return e.ToCompact()
}

// Combine implements the lattice join ("severity-max rule") spec.md
// uses to fold two effects produced by, e.g., a lambda's own latent
// effect and the collection-protocol implementation's effect in
// Enum.map-style calls: the more severe of the two wins, with two
// special cases spec.md calls out explicitly —
//
//   - lambda ⊔ unknown = unknown: a still-unresolved higher-order
//     placeholder combined with an already-unknown effect cannot be
//     assumed merely "lambda-dependent"; it must propagate unknown
//     (see DESIGN.md, "Open Question decisions").
//   - exn(A) ⊔ exn(B) = exn(A ∪ B): two exception-only effects union
//     their kind sets rather than just picking one side.
func Combine(a, b Effect) Effect {
	if _, ok := a.(Unknown); ok {
		return Unknown{}
	}
	if _, ok := b.(Unknown); ok {
		return Unknown{}
	}
	aLabels, bLabels := ExtractLabels(a), ExtractLabels(b)
	if isPureLabels(aLabels) {
		return b
	}
	if isPureLabels(bLabels) {
		return a
	}
	merged := append(append([]Label{}, aLabels...), bLabels...)
	return labelsToRow(mergeExnKinds(merged))
}

func isPureLabels(labels []Label) bool { return len(labels) == 0 }

// mergeExnKinds unions the payloads of any exn labels present, leaving
// every other label untouched, implementing exn(A) ⊔ exn(B) = exn(A∪B).
func mergeExnKinds(labels []Label) []Label {
	var exnKinds []string
	var rest []Label
	for _, l := range labels {
		if l.Name == LExn {
			exnKinds = append(exnKinds, l.Payload...)
			continue
		}
		rest = append(rest, l)
	}
	if len(exnKinds) == 0 {
		return rest
	}
	return append(rest, Label{Name: LExn, Payload: dedupe(sortedCopy(exnKinds))})
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

func labelsToRow(labels []Label) Effect {
	var cur Effect = Empty{}
	for i := len(labels) - 1; i >= 0; i-- {
		cur = Row{Head: labels[i], Tail: cur}
	}
	return cur
}

// Join is an alias for Combine, named to match call sites that read
// more naturally as "join the two branch effects" (if/case arms).
func Join(a, b Effect) Effect { return Combine(a, b) }
