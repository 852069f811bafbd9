package parser

import "github.com/efx-project/efx/internal/ast"

// parseParamPattern parses one pattern in a clause's parameter list or
// a lambda's parameter list, with curToken on the pattern's first
// token on entry and on its last token on exit.
func (p *Parser) parseParamPattern() ast.Pattern {
	e := p.parseExpression(ASSIGNP)
	if e == nil {
		return nil
	}
	return p.exprToPattern(e)
}

// exprToPattern reinterprets an already-parsed expression as a
// pattern. Only the subset of expression shapes that also make sense
// as patterns (variables, wildcards, literals, tuples, lists, maps,
// structs) converts; anything else is a parse error, since the
// analyzed language only allows matching against structural literals.
func (p *Parser) exprToPattern(e ast.Expression) ast.Pattern {
	switch n := e.(type) {
	case *ast.Identifier:
		if n.Name == "_" {
			return &ast.PatternWildcard{Tok: n.Tok}
		}
		return &ast.PatternVar{Tok: n.Tok, Name: n.Name}
	case *ast.IntLiteral, *ast.FloatLiteral, *ast.BoolLiteral,
		*ast.StringLiteral, *ast.AtomLiteral, *ast.NilLiteral:
		return &ast.PatternLiteral{Tok: e.GetToken(), Literal: e}
	case *ast.UnaryOp:
		// `-1` as a literal pattern (negative number literal).
		if lit, ok := p.negatedLiteral(n); ok {
			return &ast.PatternLiteral{Tok: n.Tok, Literal: lit}
		}
		return nil
	case *ast.TupleLit:
		elems := make([]ast.Pattern, 0, len(n.Elements))
		for _, el := range n.Elements {
			sub := p.exprToPattern(el)
			if sub == nil {
				return nil
			}
			elems = append(elems, sub)
		}
		return &ast.PatternTuple{Tok: n.Tok, Elements: elems}
	case *ast.ListLit:
		elems := make([]ast.Pattern, 0, len(n.Elements))
		for _, el := range n.Elements {
			sub := p.exprToPattern(el)
			if sub == nil {
				return nil
			}
			elems = append(elems, sub)
		}
		var tail ast.Pattern
		if n.Tail != nil {
			tail = p.exprToPattern(n.Tail)
			if tail == nil {
				return nil
			}
		}
		return &ast.PatternList{Tok: n.Tok, Elements: elems, Tail: tail}
	case *ast.MapLit:
		keys := make([]string, 0, len(n.Pairs))
		vals := make([]ast.Pattern, 0, len(n.Pairs))
		for _, pair := range n.Pairs {
			atom, ok := pair.Key.(*ast.AtomLiteral)
			if !ok {
				p.errorf(pair.Key.GetToken(), "map pattern keys must be atoms")
				return nil
			}
			sub := p.exprToPattern(pair.Value)
			if sub == nil {
				return nil
			}
			keys = append(keys, atom.Value)
			vals = append(vals, sub)
		}
		return &ast.PatternMap{Tok: n.Tok, Keys: keys, Values: vals}
	case *ast.StructLit:
		keys := make([]string, 0, len(n.Pairs))
		vals := make([]ast.Pattern, 0, len(n.Pairs))
		for _, pair := range n.Pairs {
			atom, ok := pair.Key.(*ast.AtomLiteral)
			if !ok {
				p.errorf(pair.Key.GetToken(), "struct pattern keys must be atoms")
				return nil
			}
			sub := p.exprToPattern(pair.Value)
			if sub == nil {
				return nil
			}
			keys = append(keys, atom.Value)
			vals = append(vals, sub)
		}
		return &ast.PatternStruct{Tok: n.Tok, Module: n.Module, Keys: keys, Values: vals}
	default:
		p.errorf(e.GetToken(), "expression is not a valid pattern")
		return nil
	}
}

// negatedLiteral folds a unary minus over a numeric literal into a
// single negative literal, since `-1` is a pattern literal, not an
// arithmetic expression, when used on the left of a match.
func (p *Parser) negatedLiteral(n *ast.UnaryOp) (ast.Expression, bool) {
	if n.Op != "-" {
		return nil, false
	}
	switch lit := n.Operand.(type) {
	case *ast.IntLiteral:
		return &ast.IntLiteral{Tok: n.Tok, Value: -lit.Value}, true
	case *ast.FloatLiteral:
		return &ast.FloatLiteral{Tok: n.Tok, Value: -lit.Value}, true
	default:
		return nil, false
	}
}
