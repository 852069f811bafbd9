package parser

import (
	"github.com/efx-project/efx/internal/ast"
	"github.com/efx-project/efx/internal/lexer"
	"github.com/efx-project/efx/internal/token"
)

func (p *Parser) parseIntLiteral() ast.Expression {
	tok := p.curToken
	v, err := lexer.ParseIntLiteral(tok.Literal)
	if err != nil {
		p.errorf(tok, "invalid integer literal %q: %v", tok.Literal, err)
		return nil
	}
	return &ast.IntLiteral{Tok: tok, Value: v}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	tok := p.curToken
	v, err := lexer.ParseFloatLiteral(tok.Literal)
	if err != nil {
		p.errorf(tok, "invalid float literal %q: %v", tok.Literal, err)
		return nil
	}
	return &ast.FloatLiteral{Tok: tok, Value: v}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Tok: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseAtomLiteral() ast.Expression {
	return &ast.AtomLiteral{Tok: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	return &ast.BoolLiteral{Tok: p.curToken, Value: p.curToken.Type == token.TRUE}
}

func (p *Parser) parseNilLiteral() ast.Expression {
	return &ast.NilLiteral{Tok: p.curToken}
}

// parseIdentifierOrCall handles a bare lower-case identifier, which is
// either a variable reference or — when immediately followed by `(` —
// a local function call resolved first against the builtin/module
// registry and otherwise against the current module.
func (p *Parser) parseIdentifierOrCall() ast.Expression {
	tok := p.curToken
	name := tok.Lexeme
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		args := p.parseCallArgs()
		return &ast.LocalCall{Tok: tok, Function: name, Args: args}
	}
	return &ast.Identifier{Tok: tok, Name: name}
}

// parseModuleAliasOrQualifiedCall handles a capitalized identifier:
// `Module.function(args)` is a QualifiedCall; a bare `Module` with no
// following call is a ModuleAlias value, wherever it appears.
func (p *Parser) parseModuleAliasOrQualifiedCall() ast.Expression {
	tok := p.curToken
	modName := tok.Lexeme

	if !p.peekTokenIs(token.DOT) {
		return &ast.ModuleAlias{Tok: tok, Name: modName}
	}
	p.nextToken() // consume module name, curToken == DOT
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	fnName := p.curToken.Lexeme
	if !p.peekTokenIs(token.LPAREN) {
		p.errorf(p.curToken, "expected '(' after qualified function name %s.%s", modName, fnName)
		return nil
	}
	p.nextToken()
	args := p.parseCallArgs()
	return &ast.QualifiedCall{Tok: tok, Module: modName, Function: fnName, Args: args}
}

// parseStructLiteralPrefix handles `%Module{key: value, ...}`,
// starting with curToken on the `%` sigil.
func (p *Parser) parseStructLiteralPrefix() ast.Expression {
	percentTok := p.curToken
	if !p.expectPeek(token.IDENT_UPPER) {
		return nil
	}
	modName := p.curToken.Lexeme
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	return p.parseStructLiteral(percentTok, modName)
}

// parseStructLiteral parses the body of `%Module{key: value, ...}`
// once the leading `%Module` has been recognized; percentTok is the
// StructLit node's anchor token. curToken == LBRACE on entry.
func (p *Parser) parseStructLiteral(percentTok token.Token, modName string) ast.Expression {
	var pairs []ast.MapPair
	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return &ast.StructLit{Tok: percentTok, Module: modName, Pairs: pairs}
	}
	p.nextToken()
	for {
		p.skipNewlines()
		pair, ok := p.parseMapPair()
		if !ok {
			return nil
		}
		pairs = append(pairs, pair)
		p.skipPeekNewlines()
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.skipPeekNewlines()
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return &ast.StructLit{Tok: percentTok, Module: modName, Pairs: pairs}
}

// parseGroupedOrTuple parses a parenthesized expression used purely
// for grouping/precedence override; tuples use `{...}` (see
// parseTupleLiteral), matching the struct-literal brace so both share
// one delimiter family.
func (p *Parser) parseGroupedOrTuple() ast.Expression {
	p.nextToken() // consume '('
	p.skipNewlines()
	exp := p.parseExpression(LOWEST)
	p.skipPeekNewlines()
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

func (p *Parser) parseTupleLiteral() ast.Expression {
	tok := p.curToken
	var elems []ast.Expression
	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return &ast.TupleLit{Tok: tok, Elements: elems}
	}
	p.nextToken()
	p.skipNewlines()
	if e := p.parseExpression(LOWEST); e != nil {
		elems = append(elems, e)
	}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		p.skipNewlines()
		if e := p.parseExpression(LOWEST); e != nil {
			elems = append(elems, e)
		}
	}
	p.skipPeekNewlines()
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return &ast.TupleLit{Tok: tok, Elements: elems}
}

// parseListLiteral parses `[a, b, c]` or, with a bar before the close
// bracket, `[a, b | tail]`.
func (p *Parser) parseListLiteral() ast.Expression {
	tok := p.curToken
	var elems []ast.Expression
	var tail ast.Expression

	if p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		return &ast.ListLit{Tok: tok, Elements: elems}
	}
	p.nextToken()
	p.skipNewlines()
	if e := p.parseExpression(LOWEST); e != nil {
		elems = append(elems, e)
	}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		p.skipNewlines()
		if e := p.parseExpression(LOWEST); e != nil {
			elems = append(elems, e)
		}
	}
	if p.peekTokenIs(token.PIPE) {
		p.nextToken()
		p.nextToken()
		tail = p.parseExpression(LOWEST)
	}
	p.skipPeekNewlines()
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.ListLit{Tok: tok, Elements: elems, Tail: tail}
}

// parseMapPair parses one `key: value` or `key => value` map entry
// with curToken on the key on entry and on the value's last token on
// exit.
func (p *Parser) parseMapPair() (ast.MapPair, bool) {
	var key ast.Expression
	if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.COLON) {
		key = &ast.AtomLiteral{Tok: p.curToken, Value: p.curToken.Lexeme}
		p.nextToken() // consume ':'
		p.nextToken()
	} else {
		key = p.parseExpression(LOWEST)
		if key == nil {
			return ast.MapPair{}, false
		}
		if !p.expectPeek(token.ARROW) {
			return ast.MapPair{}, false
		}
		p.nextToken()
	}
	val := p.parseExpression(LOWEST)
	if val == nil {
		return ast.MapPair{}, false
	}
	return ast.MapPair{Key: key, Value: val}, true
}

func (p *Parser) parseMapLiteral() ast.Expression {
	tok := p.curToken // '%{'
	var pairs []ast.MapPair
	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return &ast.MapLit{Tok: tok, Pairs: pairs}
	}
	p.nextToken()
	for {
		p.skipNewlines()
		pair, ok := p.parseMapPair()
		if !ok {
			return nil
		}
		pairs = append(pairs, pair)
		p.skipPeekNewlines()
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.skipPeekNewlines()
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return &ast.MapLit{Tok: tok, Pairs: pairs}
}
