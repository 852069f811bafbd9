package ast

import "github.com/efx-project/efx/internal/token"

// --- Literals ---

type IntLiteral struct {
	Tok   token.Token
	Value int64
}

func (n *IntLiteral) GetToken() token.Token { return n.Tok }
func (n *IntLiteral) Accept(v Visitor)      { v.VisitIntLiteral(n) }
func (n *IntLiteral) expressionNode()       {}

type FloatLiteral struct {
	Tok   token.Token
	Value float64
}

func (n *FloatLiteral) GetToken() token.Token { return n.Tok }
func (n *FloatLiteral) Accept(v Visitor)      { v.VisitFloatLiteral(n) }
func (n *FloatLiteral) expressionNode()       {}

type BoolLiteral struct {
	Tok   token.Token
	Value bool
}

func (n *BoolLiteral) GetToken() token.Token { return n.Tok }
func (n *BoolLiteral) Accept(v Visitor)      { v.VisitBoolLiteral(n) }
func (n *BoolLiteral) expressionNode()       {}

type StringLiteral struct {
	Tok   token.Token
	Value string
}

func (n *StringLiteral) GetToken() token.Token { return n.Tok }
func (n *StringLiteral) Accept(v Visitor)      { v.VisitStringLiteral(n) }
func (n *StringLiteral) expressionNode()       {}

// AtomLiteral is a compile-time constant symbol, e.g. `:ok`.
type AtomLiteral struct {
	Tok   token.Token
	Value string
}

func (n *AtomLiteral) GetToken() token.Token { return n.Tok }
func (n *AtomLiteral) Accept(v Visitor)      { v.VisitAtomLiteral(n) }
func (n *AtomLiteral) expressionNode()       {}

type NilLiteral struct {
	Tok token.Token
}

func (n *NilLiteral) GetToken() token.Token { return n.Tok }
func (n *NilLiteral) Accept(v Visitor)      { v.VisitNilLiteral(n) }
func (n *NilLiteral) expressionNode()       {}

// Identifier is a lower-case variable reference.
type Identifier struct {
	Tok  token.Token
	Name string
}

func (n *Identifier) GetToken() token.Token { return n.Tok }
func (n *Identifier) Accept(v Visitor)      { v.VisitIdentifier(n) }
func (n *Identifier) expressionNode()       {}

// ModuleAlias is a bare capitalized reference used as a compile-time
// module name, e.g. the `Enum` in `Enum.map(...)`.
type ModuleAlias struct {
	Tok  token.Token
	Name string
}

func (n *ModuleAlias) GetToken() token.Token { return n.Tok }
func (n *ModuleAlias) Accept(v Visitor)      { v.VisitModuleAlias(n) }
func (n *ModuleAlias) expressionNode()       {}

// QualifiedCall is `Module.function(args...)`.
type QualifiedCall struct {
	Tok      token.Token
	Module   string
	Function string
	Args     []Expression
}

func (n *QualifiedCall) GetToken() token.Token { return n.Tok }
func (n *QualifiedCall) Accept(v Visitor)      { v.VisitQualifiedCall(n) }
func (n *QualifiedCall) expressionNode()       {}

// LocalCall is `function(args...)` where function is a bare identifier:
// resolved first against the Kernel/builtin registry, else treated as an
// in-module call.
type LocalCall struct {
	Tok      token.Token
	Function string
	Args     []Expression
}

func (n *LocalCall) GetToken() token.Token { return n.Tok }
func (n *LocalCall) Accept(v Visitor)      { v.VisitLocalCall(n) }
func (n *LocalCall) expressionNode()       {}

// ValueCall applies a first-class function value: `g(args...)` where g is
// itself an expression (a variable bound to a lambda or capture, or any
// other call result).
type ValueCall struct {
	Tok    token.Token
	Callee Expression
	Args   []Expression
}

func (n *ValueCall) GetToken() token.Token { return n.Tok }
func (n *ValueCall) Accept(v Visitor)      { v.VisitValueCall(n) }
func (n *ValueCall) expressionNode()       {}

// Lambda is `fn params -> body end`.
type Lambda struct {
	Tok    token.Token
	Params []Pattern
	Body   *Block
}

func (n *Lambda) GetToken() token.Token { return n.Tok }
func (n *Lambda) Accept(v Visitor)      { v.VisitLambda(n) }
func (n *Lambda) expressionNode()       {}

// FunctionCapture is `&M.f/n` (Module == "" for a local capture `&f/n`).
type FunctionCapture struct {
	Tok      token.Token
	Module   string
	Function string
	Arity    int
}

func (n *FunctionCapture) GetToken() token.Token { return n.Tok }
func (n *FunctionCapture) Accept(v Visitor)      { v.VisitFunctionCapture(n) }
func (n *FunctionCapture) expressionNode()       {}

// AnonCapture is `&(... &1 ... &2 ...)`, the positional-placeholder
// capture shorthand. The parser records the body expression and the
// highest placeholder index seen; the analyzer desugars this into a
// Lambda of that arity (spec.md §4.8 "anonymous capture").
type AnonCapture struct {
	Tok   token.Token
	Body  Expression
	Arity int
}

func (n *AnonCapture) GetToken() token.Token { return n.Tok }
func (n *AnonCapture) Accept(v Visitor)      { v.VisitAnonCapture(n) }
func (n *AnonCapture) expressionNode()       {}

// PlaceholderArg is `&1`, `&2`, ... used only inside an AnonCapture body.
type PlaceholderArg struct {
	Tok   token.Token
	Index int // 1-based
}

func (n *PlaceholderArg) GetToken() token.Token { return n.Tok }
func (n *PlaceholderArg) Accept(v Visitor)      { v.VisitPlaceholderArg(n) }
func (n *PlaceholderArg) expressionNode()       {}

// MatchExpr is `pattern = value`, both a binding and (for literal/tuple
// patterns) a runtime match that can fail.
type MatchExpr struct {
	Tok     token.Token
	Pattern Pattern
	Value   Expression
}

func (n *MatchExpr) GetToken() token.Token { return n.Tok }
func (n *MatchExpr) Accept(v Visitor)      { v.VisitMatchExpr(n) }
func (n *MatchExpr) expressionNode()       {}

// IfExpr is `if cond do ... else ... end`.
type IfExpr struct {
	Tok  token.Token
	Cond Expression
	Then *Block
	Else *Block // nil if no else branch (result type unifies with nil)
}

func (n *IfExpr) GetToken() token.Token { return n.Tok }
func (n *IfExpr) Accept(v Visitor)      { v.VisitIfExpr(n) }
func (n *IfExpr) expressionNode()       {}

// CaseClause is one arm of a `case ... do` pattern match.
type CaseClause struct {
	Tok     token.Token
	Pattern Pattern
	Guard   Expression
	Body    *Block
}

func (n *CaseClause) GetToken() token.Token { return n.Tok }
func (n *CaseClause) Accept(v Visitor)      { v.VisitCaseClause(n) }

// CaseExpr is `case subject do pat1 -> body1 ... patN -> bodyN end`.
type CaseExpr struct {
	Tok     token.Token
	Subject Expression
	Clauses []*CaseClause
}

func (n *CaseExpr) GetToken() token.Token { return n.Tok }
func (n *CaseExpr) Accept(v Visitor)      { v.VisitCaseExpr(n) }
func (n *CaseExpr) expressionNode()       {}

// TupleLit is `{a, b, c}`.
type TupleLit struct {
	Tok      token.Token
	Elements []Expression
}

func (n *TupleLit) GetToken() token.Token { return n.Tok }
func (n *TupleLit) Accept(v Visitor)      { v.VisitTupleLit(n) }
func (n *TupleLit) expressionNode()       {}

// ListLit is `[a, b, c]` or, with a non-nil Tail, `[a, b | rest]`.
type ListLit struct {
	Tok      token.Token
	Elements []Expression
	Tail     Expression
}

func (n *ListLit) GetToken() token.Token { return n.Tok }
func (n *ListLit) Accept(v Visitor)      { v.VisitListLit(n) }
func (n *ListLit) expressionNode()       {}

// MapPair is one `key => value` or `key: value` entry of a MapLit.
type MapPair struct {
	Key   Expression
	Value Expression
}

// MapLit is `%{a: 1, b: 2}`.
type MapLit struct {
	Tok   token.Token
	Pairs []MapPair
}

func (n *MapLit) GetToken() token.Token { return n.Tok }
func (n *MapLit) Accept(v Visitor)      { v.VisitMapLit(n) }
func (n *MapLit) expressionNode()       {}

// BinarySegment is one `value::type-size` segment of a binary literal,
// mirroring the BEAM bitstring segment-specifier grammar.
type BinarySegment struct {
	Value Expression
	Size  Expression // nil if unspecified (uses the type's default)
	Kind  string      // "integer", "float", "binary", "bits", "utf8", "utf16", "utf32"
	Unit  int         // unit multiplier; 0 means "use the type default"
}

// BinaryLit is `<<seg1, seg2, ...>>`.
type BinaryLit struct {
	Tok      token.Token
	Segments []BinarySegment
}

func (n *BinaryLit) GetToken() token.Token { return n.Tok }
func (n *BinaryLit) Accept(v Visitor)      { v.VisitBinaryLit(n) }
func (n *BinaryLit) expressionNode()       {}

// BinaryOp is an infix arithmetic/comparison/boolean operator application.
type BinaryOp struct {
	Tok   token.Token
	Op    string
	Left  Expression
	Right Expression
}

func (n *BinaryOp) GetToken() token.Token { return n.Tok }
func (n *BinaryOp) Accept(v Visitor)      { v.VisitBinaryOp(n) }
func (n *BinaryOp) expressionNode()       {}

// UnaryOp is a prefix operator application: `-x`, `not x`, `!x`.
type UnaryOp struct {
	Tok     token.Token
	Op      string
	Operand Expression
}

func (n *UnaryOp) GetToken() token.Token { return n.Tok }
func (n *UnaryOp) Accept(v Visitor)      { v.VisitUnaryOp(n) }
func (n *UnaryOp) expressionNode()       {}

// StructLit is `%Module{field: value, ...}`, a named record literal.
type StructLit struct {
	Tok    token.Token
	Module string
	Pairs  []MapPair
}

func (n *StructLit) GetToken() token.Token { return n.Tok }
func (n *StructLit) Accept(v Visitor)      { v.VisitStructLit(n) }
func (n *StructLit) expressionNode()       {}
