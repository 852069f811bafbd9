// Package diagnostics implements the error taxonomy of spec.md §7. No
// error raised here is fatal to an analysis run: every constructor below
// produces a value that gets appended to a Bag and the caller falls back
// to a conservative local result (a fresh type variable, an unknown
// effect, a skipped file) exactly as spec.md prescribes.
package diagnostics

import "fmt"

// Span is a source location range used for error reporting.
type Span struct {
	File   string
	Line   int
	Column int
}

func (s Span) String() string {
	if s.File == "" {
		return fmt.Sprintf("%d:%d", s.Line, s.Column)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// Kind identifies which row of the spec.md §7 taxonomy a Diagnostic
// belongs to.
type Kind string

const (
	KindParseError       Kind = "ParseError"
	KindTypeMismatch     Kind = "TypeMismatch"
	KindEffectMismatch   Kind = "EffectMismatch"
	KindOccursCheck      Kind = "OccursCheck"
	KindUnknownExpr      Kind = "UnknownExpression"
	KindFixpointDiverged Kind = "FixpointDiverged"
	KindRegistryCycle    Kind = "RegistryCycle"
)

// Diagnostic is one recorded, non-fatal error.
type Diagnostic struct {
	Kind    Kind
	Span    Span
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s (%s)", d.Kind, d.Message, d.Span)
}

func ParseError(span Span, msg string) Diagnostic {
	return Diagnostic{Kind: KindParseError, Span: span, Message: msg}
}

func TypeMismatch(span Span, t1, t2 fmt.Stringer) Diagnostic {
	return Diagnostic{
		Kind: KindTypeMismatch, Span: span,
		Message: fmt.Sprintf("cannot unify %s with %s", t1, t2),
	}
}

func EffectMismatch(span Span, e1, e2 fmt.Stringer) Diagnostic {
	return Diagnostic{
		Kind: KindEffectMismatch, Span: span,
		Message: fmt.Sprintf("cannot unify effect %s with %s", e1, e2),
	}
}

func OccursCheck(span Span, varName string, t fmt.Stringer) Diagnostic {
	return Diagnostic{
		Kind: KindOccursCheck, Span: span,
		Message: fmt.Sprintf("infinite type: %s occurs in %s", varName, t),
	}
}

func UnknownExpression(span Span, kind string) Diagnostic {
	return Diagnostic{
		Kind: KindUnknownExpr, Span: span,
		Message: fmt.Sprintf("unhandled expression kind %q", kind),
	}
}

func FixpointDiverged(span Span, scc string) Diagnostic {
	return Diagnostic{
		Kind: KindFixpointDiverged, Span: span,
		Message: fmt.Sprintf("fixpoint did not converge for SCC %s", scc),
	}
}

func RegistryCycle(span Span, mfa string) Diagnostic {
	return Diagnostic{
		Kind: KindRegistryCycle, Span: span,
		Message: fmt.Sprintf("wrapper resolution cycle at %s", mfa),
	}
}

// Bag accumulates diagnostics for a single analysis run. It is safe to
// read after the run completes; it is not safe for concurrent writes
// from multiple goroutines without external synchronization (only
// internal/ingest parses files in parallel, and each file gets its own
// Bag that is merged afterward — see internal/ingest).
type Bag struct {
	items []Diagnostic
}

func (b *Bag) Add(d Diagnostic) { b.items = append(b.items, d) }

func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
}

func (b *Bag) Items() []Diagnostic { return b.items }

func (b *Bag) Len() int { return len(b.items) }
