package parser

import (
	"github.com/efx-project/efx/internal/ast"
	"github.com/efx-project/efx/internal/token"
)

// parseExpression is the Pratt/precedence-climbing core: dispatch to a
// prefix parser for curToken, then repeatedly fold in infix operators
// whose precedence beats the caller's floor.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxRecursionDepth {
		p.errorf(p.curToken, "expression too deeply nested")
		p.skipToLineEnd()
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken.Type)
		return nil
	}
	left := prefix()
	if left == nil {
		return nil
	}

	for {
		if p.peekTokenIs(token.NEWLINE) {
			if !p.hasContinuationOperator() {
				break
			}
			for p.peekTokenIs(token.NEWLINE) {
				p.nextToken()
			}
		}

		if precedence >= p.peekPrecedence() {
			break
		}

		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		next := infix(left)
		if next == nil {
			return nil
		}
		left = next
	}

	return left
}

// skipToLineEnd recovers from a mid-expression parse failure by
// discarding tokens up to the next statement boundary.
func (p *Parser) skipToLineEnd() {
	for !p.curTokenIs(token.NEWLINE) && !p.curTokenIs(token.SEMI) &&
		!p.curTokenIs(token.END) && !p.curTokenIs(token.EOF) {
		p.nextToken()
	}
}

func (p *Parser) parseBinaryOp(left ast.Expression) ast.Expression {
	tok := p.curToken
	op := tok.Lexeme
	precedence := p.curPrecedence()
	p.nextToken()
	for p.curTokenIs(token.NEWLINE) {
		p.nextToken()
	}
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &ast.BinaryOp{Tok: tok, Op: op, Left: left, Right: right}
}

func (p *Parser) parseUnaryOp() ast.Expression {
	tok := p.curToken
	op := tok.Lexeme
	p.nextToken()
	operand := p.parseExpression(PREFIXP)
	if operand == nil {
		return nil
	}
	return &ast.UnaryOp{Tok: tok, Op: op, Operand: operand}
}

// parsePipe desugars `lhs |> rhs` directly into a call node instead of
// introducing a dedicated pipe AST node: when rhs is a call (qualified,
// local, or value) the piped value is prepended to its argument list;
// a bare identifier on the right is treated as a zero-arg local call
// being given one argument, and any other rhs becomes the callee of a
// value call on the piped value.
func (p *Parser) parsePipe(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	for p.curTokenIs(token.NEWLINE) {
		p.nextToken()
	}
	rhs := p.parseExpression(PIPE)
	if rhs == nil {
		return nil
	}
	switch r := rhs.(type) {
	case *ast.QualifiedCall:
		r.Args = append([]ast.Expression{left}, r.Args...)
		return r
	case *ast.LocalCall:
		r.Args = append([]ast.Expression{left}, r.Args...)
		return r
	case *ast.ValueCall:
		r.Args = append([]ast.Expression{left}, r.Args...)
		return r
	case *ast.Identifier:
		return &ast.LocalCall{Tok: tok, Function: r.Name, Args: []ast.Expression{left}}
	default:
		return &ast.ValueCall{Tok: tok, Callee: rhs, Args: []ast.Expression{left}}
	}
}

// parseMatch implements `pattern = value` as a low-precedence,
// right-associative infix operator: the left expression just parsed
// is reinterpreted as a pattern.
func (p *Parser) parseMatch(left ast.Expression) ast.Expression {
	tok := p.curToken
	pat := p.exprToPattern(left)
	if pat == nil {
		p.errorf(tok, "left-hand side of '=' is not a valid pattern")
		return nil
	}
	p.nextToken()
	for p.curTokenIs(token.NEWLINE) {
		p.nextToken()
	}
	value := p.parseExpression(ASSIGNP - 1) // right-associative
	if value == nil {
		return nil
	}
	return &ast.MatchExpr{Tok: tok, Pattern: pat, Value: value}
}

// parseCallInfix handles `expr(args...)` where expr is not a bare
// identifier or qualified name (those are parsed directly as calls in
// prefix position): the common case is invoking a value produced by
// another call or a parenthesized lambda.
func (p *Parser) parseCallInfix(left ast.Expression) ast.Expression {
	tok := p.curToken
	args := p.parseCallArgs()
	return &ast.ValueCall{Tok: tok, Callee: left, Args: args}
}

// parseCallArgs consumes `(arg1, arg2, ...)` with curToken on LPAREN
// on entry and RPAREN on exit.
func (p *Parser) parseCallArgs() []ast.Expression {
	var args []ast.Expression
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args
	}
	p.nextToken()
	p.skipNewlines()
	if arg := p.parseExpression(LOWEST); arg != nil {
		args = append(args, arg)
	}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		p.skipNewlines()
		if arg := p.parseExpression(LOWEST); arg != nil {
			args = append(args, arg)
		}
	}
	p.skipPeekNewlines()
	if !p.expectPeek(token.RPAREN) {
		return args
	}
	return args
}
