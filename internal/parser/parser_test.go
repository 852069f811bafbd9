package parser

import (
	"testing"

	"github.com/efx-project/efx/internal/ast"
	"github.com/efx-project/efx/internal/lexer"
)

func parse(t *testing.T, source string) *ast.Module {
	t.Helper()
	l := lexer.New(source)
	p := New(l, "test.efx")
	mod := p.ParseModule()
	if errs := p.Errors().Items(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	return mod
}

func TestParseModule_NameAndImports(t *testing.T) {
	mod := parse(t, `module Main
import Helper as H

def f() do
  1
end
`)
	if mod.Name != "Main" {
		t.Errorf("expected module name Main, got %q", mod.Name)
	}
	if len(mod.Imports) != 1 || mod.Imports[0].Path != "Helper" || mod.Imports[0].Alias != "H" {
		t.Errorf("expected one aliased import, got %+v", mod.Imports)
	}
}

// Scattered def blocks sharing a name/arity fold into one
// FunctionDecl's Clauses (BEAM multi-clause dispatch).
func TestParseModule_FoldsMultipleClausesOfSameArityTogether(t *testing.T) {
	mod := parse(t, `module Main
def f(0) do
  :zero
end

def f(n) do
  :nonzero
end
`)
	if len(mod.Functions) != 1 {
		t.Fatalf("expected exactly 1 FunctionDecl for f/1, got %d", len(mod.Functions))
	}
	if len(mod.Functions[0].Clauses) != 2 {
		t.Errorf("expected 2 folded clauses, got %d", len(mod.Functions[0].Clauses))
	}
}

func TestParseModule_DifferentAritiesAreDifferentFunctions(t *testing.T) {
	mod := parse(t, `module Main
def f() do
  1
end

def f(x) do
  x
end
`)
	if len(mod.Functions) != 2 {
		t.Fatalf("expected f/0 and f/1 as distinct functions, got %d", len(mod.Functions))
	}
}

func TestParseModule_DefpIsPrivateVisibility(t *testing.T) {
	mod := parse(t, `module Main
defp helper() do
  1
end
`)
	if len(mod.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(mod.Functions))
	}
	if mod.Functions[0].Visibility != ast.Private {
		t.Errorf("expected defp to be Private, got %v", mod.Functions[0].Visibility)
	}
}

func TestParseModule_GuardClauseIsAttached(t *testing.T) {
	mod := parse(t, `module Main
def f(x) when x do
  x
end
`)
	if len(mod.Functions) != 1 || len(mod.Functions[0].Clauses) != 1 {
		t.Fatalf("expected 1 clause, got %+v", mod.Functions)
	}
	if mod.Functions[0].Clauses[0].Guard == nil {
		t.Errorf("expected the when-guard to be attached to the clause")
	}
}

func TestParseExpression_BinaryOperatorPrecedence(t *testing.T) {
	mod := parse(t, `module Main
def f() do
  1 + 2 * 3
end
`)
	body := mod.Functions[0].Clauses[0].Body.Exprs
	if len(body) != 1 {
		t.Fatalf("expected 1 body expression, got %d", len(body))
	}
	top, ok := body[0].(*ast.BinaryOp)
	if !ok {
		t.Fatalf("expected a top-level BinaryOp, got %T", body[0])
	}
	if _, ok := top.Right.(*ast.BinaryOp); !ok {
		t.Errorf("expected * to bind tighter than +, so the right side is the nested BinaryOp, got %T", top.Right)
	}
}

func TestParseExpression_PipeDesugarsLeftToRight(t *testing.T) {
	mod := parse(t, `module Main
def f(x) do
  x |> Kernel.inc() |> Kernel.double()
end
`)
	body := mod.Functions[0].Clauses[0].Body.Exprs
	call, ok := body[0].(*ast.QualifiedCall)
	if !ok {
		t.Fatalf("expected the outermost pipe stage to be a QualifiedCall, got %T", body[0])
	}
	if call.Function != "double" {
		t.Errorf("expected the outermost call to be the last pipe stage (double), got %s", call.Function)
	}
}

func TestParseModule_ListAndTupleLiterals(t *testing.T) {
	mod := parse(t, `module Main
def f() do
  [1, 2, 3]
end

def g() do
  {1, :ok}
end
`)
	if len(mod.Functions) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(mod.Functions))
	}
}

func TestParseModule_MatchExprBindsPatternToValue(t *testing.T) {
	mod := parse(t, `module Main
def f() do
  x = 1
  x
end
`)
	body := mod.Functions[0].Clauses[0].Body.Exprs
	if len(body) != 2 {
		t.Fatalf("expected 2 body expressions, got %d", len(body))
	}
	if _, ok := body[0].(*ast.MatchExpr); !ok {
		t.Errorf("expected the first statement to be a MatchExpr, got %T", body[0])
	}
}

func TestParseModule_MalformedInputRecordsParseError(t *testing.T) {
	l := lexer.New(`module Main
def f(
`)
	p := New(l, "test.efx")
	p.ParseModule()
	if len(p.Errors().Items()) == 0 {
		t.Errorf("expected an unterminated parameter list to record a parse error")
	}
}
