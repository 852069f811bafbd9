// Package ast defines the abstract syntax tree produced by internal/parser
// for the analyzed language: a BEAM-hosted, dynamically typed functional
// language of modules, named functions, pattern matching and protocols.
package ast

import "github.com/efx-project/efx/internal/token"

// Node is the base interface implemented by every AST node.
type Node interface {
	GetToken() token.Token
	Accept(v Visitor)
}

// Expression is a Node that yields a value.
type Expression interface {
	Node
	expressionNode()
}

// Pattern is a Node usable on the left-hand side of a binding: function
// parameters, case clauses, and `=` matches.
type Pattern interface {
	Node
	patternNode()
}

// Visibility distinguishes exported (def) from module-private (defp)
// functions.
type Visibility int

const (
	Public Visibility = iota
	Private
)

// Module is the root node produced from one or more source files sharing
// a `module` declaration.
type Module struct {
	Tok       token.Token
	Name      string
	Imports   []*Import
	Functions []*FunctionDecl
	File      string
}

func (m *Module) GetToken() token.Token { return m.Tok }
func (m *Module) Accept(v Visitor)      { v.VisitModule(m) }

// Import represents a reference to another module, either a bare
// `import Other.Mod` (optionally `as Alias`) or implicit through a qualified call `Other.Mod.f()`.
type Import struct {
	Tok   token.Token
	Path  string // dotted module path as written
	Alias string // local alias, defaults to the last path segment
}

func (i *Import) GetToken() token.Token { return i.Tok }
func (i *Import) Accept(v Visitor)      { v.VisitImport(i) }

// FunctionDecl is one multi-clause function definition: all clauses
// sharing a name and arity are grouped here (BEAM-style clause dispatch).
type FunctionDecl struct {
	Tok        token.Token
	Name       string
	Arity      int
	Visibility Visibility
	Clauses    []*Clause
	Line       int
}

func (f *FunctionDecl) GetToken() token.Token { return f.Tok }
func (f *FunctionDecl) Accept(v Visitor)      { v.VisitFunctionDecl(f) }

// Clause is a single pattern-matching clause of a function: parameter
// patterns, an optional guard, and a body block.
type Clause struct {
	Tok     token.Token
	Params  []Pattern
	Guard   Expression // nil if no `when` guard
	Body    *Block
}

func (c *Clause) GetToken() token.Token { return c.Tok }
func (c *Clause) Accept(v Visitor)      { v.VisitClause(c) }

// Block is a sequence of expressions; its value and effect are those of
// the last expression, threaded through any preceding `=` bindings.
type Block struct {
	Tok   token.Token
	Exprs []Expression
}

func (b *Block) GetToken() token.Token { return b.Tok }
func (b *Block) Accept(v Visitor)      { v.VisitBlock(b) }
func (b *Block) expressionNode()       {}

// --- Patterns ---

// PatternVar binds the matched value to a name.
type PatternVar struct {
	Tok  token.Token
	Name string
}

func (p *PatternVar) GetToken() token.Token { return p.Tok }
func (p *PatternVar) Accept(v Visitor)      { v.VisitPatternVar(p) }
func (p *PatternVar) patternNode()          {}

// PatternWildcard is the `_` pattern: matches anything, binds nothing.
type PatternWildcard struct {
	Tok token.Token
}

func (p *PatternWildcard) GetToken() token.Token { return p.Tok }
func (p *PatternWildcard) Accept(v Visitor)      { v.VisitPatternWildcard(p) }
func (p *PatternWildcard) patternNode()          {}

// PatternLiteral matches an exact literal value.
type PatternLiteral struct {
	Tok     token.Token
	Literal Expression // one of the *Literal expression nodes
}

func (p *PatternLiteral) GetToken() token.Token { return p.Tok }
func (p *PatternLiteral) Accept(v Visitor)      { v.VisitPatternLiteral(p) }
func (p *PatternLiteral) patternNode()          {}

// PatternTuple destructures a fixed-arity tuple.
type PatternTuple struct {
	Tok      token.Token
	Elements []Pattern
}

func (p *PatternTuple) GetToken() token.Token { return p.Tok }
func (p *PatternTuple) Accept(v Visitor)      { v.VisitPatternTuple(p) }
func (p *PatternTuple) patternNode()          {}

// PatternList destructures a list; Tail is nil for a closed list literal
// pattern, or a sub-pattern (usually a var) for `[h | t]`.
type PatternList struct {
	Tok      token.Token
	Elements []Pattern
	Tail     Pattern
}

func (p *PatternList) GetToken() token.Token { return p.Tok }
func (p *PatternList) Accept(v Visitor)      { v.VisitPatternList(p) }
func (p *PatternList) patternNode()          {}

// PatternMap destructures selected keys of a map; unmentioned keys are
// ignored (maps are matched by the subset of keys named).
type PatternMap struct {
	Tok    token.Token
	Keys   []string
	Values []Pattern
}

func (p *PatternMap) GetToken() token.Token { return p.Tok }
func (p *PatternMap) Accept(v Visitor)      { v.VisitPatternMap(p) }
func (p *PatternMap) patternNode()          {}

// PatternStruct destructures a named record (`%Module{field: pattern}`).
type PatternStruct struct {
	Tok    token.Token
	Module string
	Keys   []string
	Values []Pattern
}

func (p *PatternStruct) GetToken() token.Token { return p.Tok }
func (p *PatternStruct) Accept(v Visitor)      { v.VisitPatternStruct(p) }
func (p *PatternStruct) patternNode()          {}
