package parser

import (
	"github.com/efx-project/efx/internal/ast"
	"github.com/efx-project/efx/internal/token"
)

// ParseModule parses one source file's token stream into a Module
// node: a `module` header, zero or more imports, and the file's
// function definitions. Consecutive or scattered `def`/`defp` blocks
// that share a name and arity are folded into one FunctionDecl's
// Clauses, matching BEAM multi-clause dispatch.
func (p *Parser) ParseModule() *ast.Module {
	mod := &ast.Module{File: p.file}

	p.skipNewlines()
	if !p.curTokenIs(token.IDENT) || p.curToken.Lexeme != "module" {
		p.errorf(p.curToken, "expected 'module' declaration at start of file, got %s", p.curToken.Type)
		return mod
	}
	mod.Tok = p.curToken
	if !p.expectPeek(token.IDENT_UPPER) {
		return mod
	}
	mod.Name = p.curToken.Lexeme
	p.nextToken()
	p.skipNewlines()

	type key struct {
		name  string
		arity int
	}
	index := map[key]*ast.FunctionDecl{}

	for !p.curTokenIs(token.EOF) {
		switch {
		case p.curTokenIs(token.IDENT) && p.curToken.Lexeme == "import":
			imp := p.parseImport()
			if imp != nil {
				mod.Imports = append(mod.Imports, imp)
			}
		case p.curTokenIs(token.DEF) || p.curTokenIs(token.DEFP):
			vis := ast.Public
			if p.curTokenIs(token.DEFP) {
				vis = ast.Private
			}
			name, clause := p.parseFunctionClause()
			if clause == nil {
				break
			}
			k := key{name, len(clause.Params)}
			if fd, ok := index[k]; ok {
				fd.Clauses = append(fd.Clauses, clause)
			} else {
				fd := &ast.FunctionDecl{
					Tok: clause.Tok, Name: name, Arity: len(clause.Params),
					Visibility: vis, Clauses: []*ast.Clause{clause}, Line: clause.Tok.Pos.Line,
				}
				index[k] = fd
				mod.Functions = append(mod.Functions, fd)
			}
		default:
			p.errorf(p.curToken, "expected 'import' or function definition at module level, got %s", p.curToken.Type)
			p.skipToLineEnd()
		}
		p.nextToken()
		p.skipNewlines()
	}

	return mod
}

// parseImport parses `import Path.To.Module [as alias]`.
func (p *Parser) parseImport() *ast.Import {
	tok := p.curToken
	if !p.expectPeek(token.IDENT_UPPER) {
		return nil
	}
	path := p.curToken.Lexeme
	for p.peekTokenIs(token.DOT) {
		p.nextToken()
		if !p.expectPeek(token.IDENT_UPPER) {
			return nil
		}
		path = path + "." + p.curToken.Lexeme
	}
	alias := lastSegment(path)
	if p.peekTokenIs(token.IDENT) && p.peekToken.Lexeme == "as" {
		p.nextToken()
		if !p.expectPeek(token.IDENT_UPPER) {
			return nil
		}
		alias = p.curToken.Lexeme
	}
	return &ast.Import{Tok: tok, Path: path, Alias: alias}
}

func lastSegment(path string) string {
	last := path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			last = path[i+1:]
			break
		}
	}
	return last
}

// parseFunctionClause parses one `def name(params) [when guard] do
// body end` block, with curToken on DEF/DEFP.
func (p *Parser) parseFunctionClause() (string, *ast.Clause) {
	tok := p.curToken
	if !p.expectPeek(token.IDENT) {
		return "", nil
	}
	name := p.curToken.Lexeme

	if !p.expectPeek(token.LPAREN) {
		return "", nil
	}
	var params []ast.Pattern
	if !p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		pat := p.parseParamPattern()
		if pat == nil {
			return "", nil
		}
		params = append(params, pat)
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			pat := p.parseParamPattern()
			if pat == nil {
				return "", nil
			}
			params = append(params, pat)
		}
	}
	if !p.expectPeek(token.RPAREN) {
		return "", nil
	}

	var guard ast.Expression
	if p.peekTokenIs(token.WHEN) {
		p.nextToken()
		p.nextToken()
		guard = p.parseExpression(LOWEST)
	}

	if !p.expectPeek(token.DO) {
		return "", nil
	}
	p.nextToken()
	body := p.parseBlock(token.END)
	if !p.curTokenIs(token.END) {
		p.errorf(p.curToken, "expected 'end' to close function %s", name)
		return "", nil
	}
	return name, &ast.Clause{Tok: tok, Params: params, Guard: guard, Body: body}
}
