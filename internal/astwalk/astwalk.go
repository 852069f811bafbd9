// Package astwalk extracts the purely structural facts internal/infer and
// the graph-building passes need without performing any effect inference
// itself (spec.md §4.7): per-function parameter/body shells, the set of
// MFAs each function calls, and the set of module names a module
// references. It does not use internal/ast's Visitor interface (whose
// Accept methods are shallow and do not recurse into children): walkExpr
// and walkPattern switch on the concrete node type and recurse by hand
// into the fields they care about — the same manual-descent shape the
// teacher's own lightweight passes use instead of a generic fold.
package astwalk

import (
	"github.com/efx-project/efx/internal/ast"
	"github.com/efx-project/efx/internal/registry"
)

// FunctionShell is one function's structural shell: enough to hand to
// internal/infer without re-parsing.
type FunctionShell struct {
	MFA        registry.MFA
	Clauses    []*ast.Clause
	Visibility ast.Visibility
	Line       int
}

// ModuleAnalysis is astwalk's complete output for one parsed module.
type ModuleAnalysis struct {
	Module     string
	Functions  map[registry.MFA]FunctionShell
	Calls      map[registry.MFA]map[registry.MFA]bool
	References []string
}

// Walk extracts a ModuleAnalysis from mod.
func Walk(mod *ast.Module) ModuleAnalysis {
	w := &walker{
		moduleName: mod.Name,
		functions:  make(map[registry.MFA]FunctionShell),
		calls:      make(map[registry.MFA]map[registry.MFA]bool),
		refs:       make(map[string]bool),
	}
	for _, imp := range mod.Imports {
		w.refs[imp.Path] = true
	}
	for _, fn := range mod.Functions {
		mfa := registry.MFA{Module: mod.Name, Function: fn.Name, Arity: fn.Arity}
		w.functions[mfa] = FunctionShell{
			MFA:        mfa,
			Clauses:    fn.Clauses,
			Visibility: fn.Visibility,
			Line:       fn.Line,
		}
		w.current = mfa
		w.calls[mfa] = make(map[registry.MFA]bool)
		for _, cl := range fn.Clauses {
			for _, p := range cl.Params {
				w.walkPattern(p)
			}
			if cl.Guard != nil {
				w.walkExpr(cl.Guard)
			}
			w.walkBlock(cl.Body)
		}
	}

	refs := make([]string, 0, len(w.refs))
	for r := range w.refs {
		refs = append(refs, r)
	}
	return ModuleAnalysis{
		Module:     mod.Name,
		Functions:  w.functions,
		Calls:      w.calls,
		References: refs,
	}
}

type walker struct {
	moduleName string
	current    registry.MFA
	functions  map[registry.MFA]FunctionShell
	calls      map[registry.MFA]map[registry.MFA]bool
	refs       map[string]bool
}

func (w *walker) recordCall(module, function string, arity int) {
	if module == "" {
		module = w.moduleName
	} else {
		w.refs[module] = true
	}
	callee := registry.MFA{Module: module, Function: function, Arity: arity}
	w.calls[w.current][callee] = true
}

func (w *walker) walkBlock(b *ast.Block) {
	if b == nil {
		return
	}
	for _, e := range b.Exprs {
		w.walkExpr(e)
	}
}

func (w *walker) walkExpr(e ast.Expression) {
	switch n := e.(type) {
	case nil:
		return
	case *ast.Block:
		w.walkBlock(n)
	case *ast.IntLiteral, *ast.FloatLiteral, *ast.BoolLiteral, *ast.StringLiteral,
		*ast.AtomLiteral, *ast.NilLiteral, *ast.Identifier, *ast.PlaceholderArg:
		// no children, no references

	case *ast.ModuleAlias:
		w.refs[n.Name] = true

	case *ast.QualifiedCall:
		w.recordCall(n.Module, n.Function, len(n.Args))
		for _, a := range n.Args {
			w.walkExpr(a)
		}

	case *ast.LocalCall:
		// Arity-only local calls resolve against Kernel first and the
		// enclosing module otherwise (internal/infer decides which); the
		// call-graph edge is recorded against this module, matching
		// spec.md §4.4's "in-scope" notion of a caller's own callees.
		w.recordCall("", n.Function, len(n.Args))
		for _, a := range n.Args {
			w.walkExpr(a)
		}

	case *ast.ValueCall:
		w.walkExpr(n.Callee)
		for _, a := range n.Args {
			w.walkExpr(a)
		}

	case *ast.Lambda:
		for _, p := range n.Params {
			w.walkPattern(p)
		}
		w.walkBlock(n.Body)

	case *ast.FunctionCapture:
		w.recordCall(n.Module, n.Function, n.Arity)

	case *ast.AnonCapture:
		w.walkExpr(n.Body)

	case *ast.MatchExpr:
		w.walkPattern(n.Pattern)
		w.walkExpr(n.Value)

	case *ast.IfExpr:
		w.walkExpr(n.Cond)
		w.walkBlock(n.Then)
		w.walkBlock(n.Else)

	case *ast.CaseExpr:
		w.walkExpr(n.Subject)
		for _, cl := range n.Clauses {
			w.walkPattern(cl.Pattern)
			if cl.Guard != nil {
				w.walkExpr(cl.Guard)
			}
			w.walkBlock(cl.Body)
		}

	case *ast.TupleLit:
		for _, el := range n.Elements {
			w.walkExpr(el)
		}

	case *ast.ListLit:
		for _, el := range n.Elements {
			w.walkExpr(el)
		}
		if n.Tail != nil {
			w.walkExpr(n.Tail)
		}

	case *ast.MapLit:
		for _, p := range n.Pairs {
			w.walkExpr(p.Key)
			w.walkExpr(p.Value)
		}

	case *ast.BinaryLit:
		for _, seg := range n.Segments {
			w.walkExpr(seg.Value)
			if seg.Size != nil {
				w.walkExpr(seg.Size)
			}
		}

	case *ast.BinaryOp:
		w.walkExpr(n.Left)
		w.walkExpr(n.Right)

	case *ast.UnaryOp:
		w.walkExpr(n.Operand)

	case *ast.StructLit:
		w.refs[n.Module] = true
		for _, p := range n.Pairs {
			w.walkExpr(p.Key)
			w.walkExpr(p.Value)
		}
	}
}

func (w *walker) walkPattern(p ast.Pattern) {
	switch n := p.(type) {
	case nil:
		return
	case *ast.PatternVar, *ast.PatternWildcard:
		// no children
	case *ast.PatternLiteral:
		w.walkExpr(n.Literal)
	case *ast.PatternTuple:
		for _, el := range n.Elements {
			w.walkPattern(el)
		}
	case *ast.PatternList:
		for _, el := range n.Elements {
			w.walkPattern(el)
		}
		if n.Tail != nil {
			w.walkPattern(n.Tail)
		}
	case *ast.PatternMap:
		for _, v := range n.Values {
			w.walkPattern(v)
		}
	case *ast.PatternStruct:
		w.refs[n.Module] = true
		for _, v := range n.Values {
			w.walkPattern(v)
		}
	}
}
