package parser

import (
	"strconv"

	"github.com/efx-project/efx/internal/ast"
	"github.com/efx-project/efx/internal/token"
)

// segmentKinds is the closed BEAM bitstring segment-type vocabulary:
// every `::type` specifier must name one of these (SPEC_FULL.md §3
// records why this is hand-validated here instead of delegating to a
// dedicated bitstring library).
var segmentKinds = map[string]bool{
	"integer": true, "float": true, "binary": true, "bits": true,
	"bitstring": true, "utf8": true, "utf16": true, "utf32": true,
}

// parseBinaryLiteral parses `<<seg1, seg2, ...>>`.
func (p *Parser) parseBinaryLiteral() ast.Expression {
	tok := p.curToken
	var segs []ast.BinarySegment

	if p.peekTokenIs(token.GT_GT) {
		p.nextToken()
		return &ast.BinaryLit{Tok: tok, Segments: segs}
	}
	p.nextToken()
	for {
		p.skipNewlines()
		seg, ok := p.parseBinarySegment()
		if !ok {
			return nil
		}
		segs = append(segs, seg)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.skipPeekNewlines()
	if !p.expectPeek(token.GT_GT) {
		return nil
	}
	return &ast.BinaryLit{Tok: tok, Segments: segs}
}

// parseBinarySegment parses `value[::kind[-kind|-size(N)|-unit(N)]*]`
// with curToken on the value's first token on entry and on the
// segment's last token on exit.
func (p *Parser) parseBinarySegment() (ast.BinarySegment, bool) {
	val := p.parseExpression(CONCATP) // bind tighter than ',' and '::'
	if val == nil {
		return ast.BinarySegment{}, false
	}
	seg := ast.BinarySegment{Value: val, Kind: "integer"}
	if !p.peekTokenIs(token.DCOLON) {
		return seg, true
	}
	p.nextToken() // consume '::'
	for {
		p.nextToken()
		if !p.curTokenIs(token.IDENT) {
			p.errorf(p.curToken, "expected segment type specifier, got %s", p.curToken.Type)
			return ast.BinarySegment{}, false
		}
		name := p.curToken.Lexeme
		switch {
		case segmentKinds[name]:
			seg.Kind = name
		case name == "size":
			if !p.expectPeek(token.LPAREN) {
				return ast.BinarySegment{}, false
			}
			p.nextToken()
			sizeExpr := p.parseExpression(LOWEST)
			if sizeExpr == nil {
				return ast.BinarySegment{}, false
			}
			seg.Size = sizeExpr
			if !p.expectPeek(token.RPAREN) {
				return ast.BinarySegment{}, false
			}
		case name == "unit":
			if !p.expectPeek(token.LPAREN) {
				return ast.BinarySegment{}, false
			}
			if !p.expectPeek(token.INT) {
				return ast.BinarySegment{}, false
			}
			n, err := strconv.Atoi(p.curToken.Literal)
			if err != nil {
				p.errorf(p.curToken, "invalid unit literal %q", p.curToken.Literal)
				return ast.BinarySegment{}, false
			}
			seg.Unit = n
			if !p.expectPeek(token.RPAREN) {
				return ast.BinarySegment{}, false
			}
		case name == "signed" || name == "unsigned" || name == "big" || name == "little" || name == "native":
			// Endianness/signedness qualifiers don't affect the
			// analyzer's type/effect result; accepted and discarded.
		default:
			p.errorf(p.curToken, "unknown binary segment specifier %q", name)
			return ast.BinarySegment{}, false
		}
		if p.peekTokenIs(token.MINUS) {
			p.nextToken()
			continue
		}
		break
	}
	return seg, true
}

// parseLambda parses `fn params -> body end`.
func (p *Parser) parseLambda() ast.Expression {
	tok := p.curToken
	p.nextToken()
	var params []ast.Pattern
	if !p.curTokenIs(token.ARROW) {
		pat := p.parseParamPattern()
		if pat == nil {
			return nil
		}
		params = append(params, pat)
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			pat := p.parseParamPattern()
			if pat == nil {
				return nil
			}
			params = append(params, pat)
		}
		if !p.expectPeek(token.ARROW) {
			return nil
		}
	}
	p.nextToken()
	body := p.parseBlock(token.END)
	if !p.curTokenIs(token.END) {
		p.errorf(p.curToken, "expected 'end' to close fn literal")
		return nil
	}
	return &ast.Lambda{Tok: tok, Params: params, Body: body}
}

// parseFunctionCapture parses `&Module.function/arity`,
// `&function/arity`, or the positional-placeholder shorthand
// `&( ... &1 ... )`.
func (p *Parser) parseFunctionCapture() ast.Expression {
	tok := p.curToken
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		p.nextToken()
		body := p.parseExpression(LOWEST)
		if body == nil {
			return nil
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return &ast.AnonCapture{Tok: tok, Body: body, Arity: maxPlaceholder(body)}
	}

	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		return p.parseLocalCapture(tok)
	}

	var modName string
	if !p.expectPeek(token.IDENT_UPPER) {
		return nil
	}
	modName = p.curToken.Lexeme
	if !p.expectPeek(token.DOT) {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	fnName := p.curToken.Lexeme
	if !p.expectPeek(token.SLASH) {
		return nil
	}
	if !p.expectPeek(token.INT) {
		return nil
	}
	arity, err := strconv.Atoi(p.curToken.Literal)
	if err != nil {
		p.errorf(p.curToken, "invalid capture arity %q", p.curToken.Literal)
		return nil
	}
	return &ast.FunctionCapture{Tok: tok, Module: modName, Function: fnName, Arity: arity}
}

func (p *Parser) parseLocalCapture(tok token.Token) ast.Expression {
	fnName := p.curToken.Lexeme
	if !p.expectPeek(token.SLASH) {
		return nil
	}
	if !p.expectPeek(token.INT) {
		return nil
	}
	arity, err := strconv.Atoi(p.curToken.Literal)
	if err != nil {
		p.errorf(p.curToken, "invalid capture arity %q", p.curToken.Literal)
		return nil
	}
	return &ast.FunctionCapture{Tok: tok, Function: fnName, Arity: arity}
}

func (p *Parser) parsePlaceholderArg() ast.Expression {
	tok := p.curToken
	idx, err := strconv.Atoi(tok.Lexeme)
	if err != nil {
		p.errorf(tok, "invalid placeholder index %q", tok.Lexeme)
		return nil
	}
	return &ast.PlaceholderArg{Tok: tok, Index: idx}
}

// maxPlaceholder walks an expression tree (without a full Visitor,
// since this runs before any analysis phase exists) to find the
// highest `&N` placeholder index, which fixes the desugared lambda's
// arity.
func maxPlaceholder(e ast.Expression) int {
	max := 0
	var walk func(ast.Expression)
	walk = func(e ast.Expression) {
		switch n := e.(type) {
		case *ast.PlaceholderArg:
			if n.Index > max {
				max = n.Index
			}
		case *ast.BinaryOp:
			walk(n.Left)
			walk(n.Right)
		case *ast.UnaryOp:
			walk(n.Operand)
		case *ast.LocalCall:
			for _, a := range n.Args {
				walk(a)
			}
		case *ast.QualifiedCall:
			for _, a := range n.Args {
				walk(a)
			}
		case *ast.ValueCall:
			walk(n.Callee)
			for _, a := range n.Args {
				walk(a)
			}
		case *ast.TupleLit:
			for _, el := range n.Elements {
				walk(el)
			}
		case *ast.ListLit:
			for _, el := range n.Elements {
				walk(el)
			}
			if n.Tail != nil {
				walk(n.Tail)
			}
		}
	}
	walk(e)
	return max
}
