package parser

import (
	"github.com/efx-project/efx/internal/ast"
	"github.com/efx-project/efx/internal/token"
)

// parseBlock parses a sequence of expressions up to (but not
// consuming) one of the given terminator token types. curToken is
// left on the terminator.
func (p *Parser) parseBlock(terminators ...token.Type) *ast.Block {
	tok := p.curToken
	block := &ast.Block{Tok: tok}
	p.skipNewlines()
	for !p.atOneOf(terminators...) && !p.curTokenIs(token.EOF) {
		e := p.parseExpression(LOWEST)
		if e != nil {
			block.Exprs = append(block.Exprs, e)
		} else {
			p.skipToLineEnd()
		}
		p.nextToken()
		p.skipNewlines()
	}
	return block
}

func (p *Parser) atOneOf(types ...token.Type) bool {
	for _, t := range types {
		if p.curTokenIs(t) {
			return true
		}
	}
	return false
}

// parseIfExpr parses `if cond do thenBody [else elseBody] end`.
func (p *Parser) parseIfExpr() ast.Expression {
	tok := p.curToken
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil
	}
	if !p.expectPeek(token.DO) {
		return nil
	}
	p.nextToken()
	thenBlock := p.parseBlock(token.ELSE, token.END)

	var elseBlock *ast.Block
	if p.curTokenIs(token.ELSE) {
		p.nextToken()
		elseBlock = p.parseBlock(token.END)
	}
	if !p.curTokenIs(token.END) {
		p.errorf(p.curToken, "expected 'end' to close if expression, got %s", p.curToken.Type)
		return nil
	}
	return &ast.IfExpr{Tok: tok, Cond: cond, Then: thenBlock, Else: elseBlock}
}

// parseCaseExpr parses `case subject do pattern [when guard] -> body ... end`.
func (p *Parser) parseCaseExpr() ast.Expression {
	tok := p.curToken
	p.nextToken()
	subject := p.parseExpression(LOWEST)
	if subject == nil {
		return nil
	}
	if !p.expectPeek(token.DO) {
		return nil
	}
	p.nextToken()
	p.skipNewlines()

	var clauses []*ast.CaseClause
	for !p.curTokenIs(token.END) && !p.curTokenIs(token.EOF) {
		clauseTok := p.curToken
		patExpr := p.parseExpression(LOWEST)
		if patExpr == nil {
			p.skipToLineEnd()
			p.nextToken()
			p.skipNewlines()
			continue
		}
		pat := p.exprToPattern(patExpr)
		if pat == nil {
			p.errorf(clauseTok, "invalid pattern in case clause")
			return nil
		}

		var guard ast.Expression
		if p.peekTokenIs(token.WHEN) {
			p.nextToken()
			p.nextToken()
			guard = p.parseExpression(LOWEST)
		}
		if !p.expectPeek(token.ARROW) {
			return nil
		}
		p.nextToken()
		p.skipNewlines()
		// A clause body is a single expression; sequencing multiple
		// steps in one clause goes through an explicit pipe chain or
		// a `=` binding followed by a final expression joined with
		// `;`, since the next clause's pattern is otherwise
		// indistinguishable from a body continuation.
		bodyExpr := p.parseExpression(LOWEST)
		body := &ast.Block{Tok: p.curToken}
		if bodyExpr != nil {
			body.Exprs = []ast.Expression{bodyExpr}
		}
		for p.peekTokenIs(token.SEMI) {
			p.nextToken()
			p.nextToken()
			p.skipNewlines()
			if e := p.parseExpression(LOWEST); e != nil {
				body.Exprs = append(body.Exprs, e)
			}
		}
		clauses = append(clauses, &ast.CaseClause{Tok: clauseTok, Pattern: pat, Guard: guard, Body: body})
		p.nextToken()
		p.skipNewlines()
	}
	if !p.curTokenIs(token.END) {
		p.errorf(p.curToken, "expected 'end' to close case expression")
		return nil
	}
	return &ast.CaseExpr{Tok: tok, Subject: subject, Clauses: clauses}
}
