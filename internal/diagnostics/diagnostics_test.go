package diagnostics

import (
	"strings"
	"testing"

	"github.com/efx-project/efx/internal/types"
)

func TestSpan_StringIncludesFileWhenPresent(t *testing.T) {
	s := Span{File: "a.efx", Line: 2, Column: 5}
	if got := s.String(); got != "a.efx:2:5" {
		t.Errorf("got %q", got)
	}
}

func TestSpan_StringOmitsFileWhenEmpty(t *testing.T) {
	s := Span{Line: 2, Column: 5}
	if got := s.String(); got != "2:5" {
		t.Errorf("got %q", got)
	}
}

func TestTypeMismatch_MessageNamesBothTypes(t *testing.T) {
	d := TypeMismatch(Span{Line: 1, Column: 1}, types.Int, types.Bool)
	if d.Kind != KindTypeMismatch {
		t.Errorf("expected KindTypeMismatch, got %v", d.Kind)
	}
	if d.Message == "" {
		t.Errorf("expected a non-empty message")
	}
	if !strings.Contains(d.Message, types.Int.String()) || !strings.Contains(d.Message, types.Bool.String()) {
		t.Errorf("expected the message to name both int and bool, got %q", d.Message)
	}
}

func TestEffectMismatch_RecordsEffectMismatchKind(t *testing.T) {
	s := types.Row{Head: types.Label{Name: types.LState}, Tail: types.Empty{}}
	d := EffectMismatch(Span{}, s, types.Empty{})
	if d.Kind != KindEffectMismatch {
		t.Errorf("expected KindEffectMismatch, got %v", d.Kind)
	}
}

func TestOccursCheck_RecordsVarNameInMessage(t *testing.T) {
	d := OccursCheck(Span{}, "t0", types.List{Elem: types.Var{ID: "t0"}})
	if d.Kind != KindOccursCheck {
		t.Errorf("expected KindOccursCheck, got %v", d.Kind)
	}
	if !strings.Contains(d.Message, "t0") {
		t.Errorf("expected the message to name t0, got %q", d.Message)
	}
}

func TestDiagnostic_ErrorIncludesKindMessageAndSpan(t *testing.T) {
	d := UnknownExpression(Span{File: "a.efx", Line: 3, Column: 1}, "ReceiveExpr")
	err := d.Error()
	if err == "" {
		t.Fatalf("expected a non-empty error string")
	}
	for _, want := range []string{string(d.Kind), "ReceiveExpr", "a.efx:3:1"} {
		if !strings.Contains(err, want) {
			t.Errorf("expected %q in %q", want, err)
		}
	}
}

func TestFixpointDiverged_AndRegistryCycle_HaveDistinctKinds(t *testing.T) {
	fp := FixpointDiverged(Span{}, "[A,B]")
	rc := RegistryCycle(Span{}, "Main.loopy/0")
	if fp.Kind != KindFixpointDiverged {
		t.Errorf("expected KindFixpointDiverged, got %v", fp.Kind)
	}
	if rc.Kind != KindRegistryCycle {
		t.Errorf("expected KindRegistryCycle, got %v", rc.Kind)
	}
}

func TestBag_AddAccumulatesInOrder(t *testing.T) {
	b := &Bag{}
	b.Add(ParseError(Span{Line: 1}, "unexpected token"))
	b.Add(ParseError(Span{Line: 2}, "unexpected eof"))
	if b.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", b.Len())
	}
	if b.Items()[0].Message != "unexpected token" {
		t.Errorf("expected insertion order preserved, got %v", b.Items())
	}
}

func TestBag_MergeAppendsOthersItems(t *testing.T) {
	a := &Bag{}
	a.Add(ParseError(Span{}, "a"))
	b := &Bag{}
	b.Add(ParseError(Span{}, "b"))
	a.Merge(b)
	if a.Len() != 2 {
		t.Fatalf("expected 2 items after merge, got %d", a.Len())
	}
}

func TestBag_MergeNilIsNoOp(t *testing.T) {
	a := &Bag{}
	a.Add(ParseError(Span{}, "a"))
	a.Merge(nil)
	if a.Len() != 1 {
		t.Errorf("expected merging nil to be a no-op, got %d items", a.Len())
	}
}
