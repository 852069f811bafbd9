package ast

// Visitor is implemented by consumers that need to walk the tree without
// performing inference themselves. Accept only calls back into the
// Visitor; it does not recurse into children. Neither internal/astwalk
// nor internal/infer uses Visitor: both dispatch on concrete node type
// with a switch, matching the teacher's own inference engine.
type Visitor interface {
	VisitModule(n *Module)
	VisitImport(n *Import)
	VisitFunctionDecl(n *FunctionDecl)
	VisitClause(n *Clause)
	VisitBlock(n *Block)

	VisitPatternVar(n *PatternVar)
	VisitPatternWildcard(n *PatternWildcard)
	VisitPatternLiteral(n *PatternLiteral)
	VisitPatternTuple(n *PatternTuple)
	VisitPatternList(n *PatternList)
	VisitPatternMap(n *PatternMap)
	VisitPatternStruct(n *PatternStruct)

	VisitIntLiteral(n *IntLiteral)
	VisitFloatLiteral(n *FloatLiteral)
	VisitBoolLiteral(n *BoolLiteral)
	VisitStringLiteral(n *StringLiteral)
	VisitAtomLiteral(n *AtomLiteral)
	VisitNilLiteral(n *NilLiteral)
	VisitIdentifier(n *Identifier)
	VisitModuleAlias(n *ModuleAlias)
	VisitQualifiedCall(n *QualifiedCall)
	VisitLocalCall(n *LocalCall)
	VisitValueCall(n *ValueCall)
	VisitLambda(n *Lambda)
	VisitFunctionCapture(n *FunctionCapture)
	VisitAnonCapture(n *AnonCapture)
	VisitPlaceholderArg(n *PlaceholderArg)
	VisitMatchExpr(n *MatchExpr)
	VisitIfExpr(n *IfExpr)
	VisitCaseClause(n *CaseClause)
	VisitCaseExpr(n *CaseExpr)
	VisitTupleLit(n *TupleLit)
	VisitListLit(n *ListLit)
	VisitMapLit(n *MapLit)
	VisitBinaryLit(n *BinaryLit)
	VisitBinaryOp(n *BinaryOp)
	VisitUnaryOp(n *UnaryOp)
	VisitStructLit(n *StructLit)
}

// BaseVisitor implements Visitor with no-ops; embed it to override only
// the methods a particular walker cares about.
type BaseVisitor struct{}

func (BaseVisitor) VisitModule(n *Module)                 {}
func (BaseVisitor) VisitImport(n *Import)                 {}
func (BaseVisitor) VisitFunctionDecl(n *FunctionDecl)      {}
func (BaseVisitor) VisitClause(n *Clause)                  {}
func (BaseVisitor) VisitBlock(n *Block)                    {}
func (BaseVisitor) VisitPatternVar(n *PatternVar)          {}
func (BaseVisitor) VisitPatternWildcard(n *PatternWildcard) {}
func (BaseVisitor) VisitPatternLiteral(n *PatternLiteral)  {}
func (BaseVisitor) VisitPatternTuple(n *PatternTuple)      {}
func (BaseVisitor) VisitPatternList(n *PatternList)        {}
func (BaseVisitor) VisitPatternMap(n *PatternMap)          {}
func (BaseVisitor) VisitPatternStruct(n *PatternStruct)    {}
func (BaseVisitor) VisitIntLiteral(n *IntLiteral)          {}
func (BaseVisitor) VisitFloatLiteral(n *FloatLiteral)      {}
func (BaseVisitor) VisitBoolLiteral(n *BoolLiteral)        {}
func (BaseVisitor) VisitStringLiteral(n *StringLiteral)    {}
func (BaseVisitor) VisitAtomLiteral(n *AtomLiteral)        {}
func (BaseVisitor) VisitNilLiteral(n *NilLiteral)          {}
func (BaseVisitor) VisitIdentifier(n *Identifier)          {}
func (BaseVisitor) VisitModuleAlias(n *ModuleAlias)        {}
func (BaseVisitor) VisitQualifiedCall(n *QualifiedCall)    {}
func (BaseVisitor) VisitLocalCall(n *LocalCall)            {}
func (BaseVisitor) VisitValueCall(n *ValueCall)            {}
func (BaseVisitor) VisitLambda(n *Lambda)                  {}
func (BaseVisitor) VisitFunctionCapture(n *FunctionCapture) {}
func (BaseVisitor) VisitAnonCapture(n *AnonCapture)        {}
func (BaseVisitor) VisitPlaceholderArg(n *PlaceholderArg)  {}
func (BaseVisitor) VisitMatchExpr(n *MatchExpr)            {}
func (BaseVisitor) VisitIfExpr(n *IfExpr)                  {}
func (BaseVisitor) VisitCaseClause(n *CaseClause)          {}
func (BaseVisitor) VisitCaseExpr(n *CaseExpr)              {}
func (BaseVisitor) VisitTupleLit(n *TupleLit)              {}
func (BaseVisitor) VisitListLit(n *ListLit)                {}
func (BaseVisitor) VisitMapLit(n *MapLit)                  {}
func (BaseVisitor) VisitBinaryLit(n *BinaryLit)            {}
func (BaseVisitor) VisitBinaryOp(n *BinaryOp)              {}
func (BaseVisitor) VisitUnaryOp(n *UnaryOp)                {}
func (BaseVisitor) VisitStructLit(n *StructLit)            {}
