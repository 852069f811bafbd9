// Package parser turns a internal/lexer token stream into the
// internal/ast tree internal/astwalk and internal/infer consume. The
// shape (prefixParseFns/infixParseFns maps, curToken/peekToken,
// precedence-climbing parseExpression) follows the analyzed language's
// own hand-rolled recursive-descent parser.
package parser

import (
	"fmt"

	"github.com/efx-project/efx/internal/ast"
	"github.com/efx-project/efx/internal/diagnostics"
	"github.com/efx-project/efx/internal/lexer"
	"github.com/efx-project/efx/internal/token"
)

type prefixParseFn func() ast.Expression
type infixParseFn func(left ast.Expression) ast.Expression

// MaxRecursionDepth guards against stack overflow on pathologically
// nested or adversarial input.
const MaxRecursionDepth = 250

// Parser is a one-shot recursive-descent parser over a single file's
// token stream.
type Parser struct {
	l    *lexer.Lexer
	file string

	curToken  token.Token
	peekToken token.Token
	ahead     []token.Token // small lookahead buffer for hasContinuationOperator

	errors *diagnostics.Bag
	depth  int

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

// New constructs a Parser reading from l. file is recorded on every
// diagnostic and on the resulting Module node.
func New(l *lexer.Lexer, file string) *Parser {
	p := &Parser{l: l, file: file, errors: &diagnostics.Bag{}}

	p.prefixParseFns = map[token.Type]prefixParseFn{
		token.INT:         p.parseIntLiteral,
		token.FLOAT:       p.parseFloatLiteral,
		token.STRING:      p.parseStringLiteral,
		token.ATOM:        p.parseAtomLiteral,
		token.TRUE:        p.parseBoolLiteral,
		token.FALSE:       p.parseBoolLiteral,
		token.NIL:         p.parseNilLiteral,
		token.IDENT:       p.parseIdentifierOrCall,
		token.IDENT_UPPER: p.parseModuleAliasOrQualifiedCall,
		token.LPAREN:      p.parseGroupedOrTuple,
		token.LBRACKET:    p.parseListLiteral,
		token.PERCENT_LB:  p.parseMapLiteral,
		token.PERCENT:     p.parseStructLiteralPrefix,
		token.LT_LT:       p.parseBinaryLiteral,
		token.LBRACE:      p.parseTupleLiteral,
		token.FN:          p.parseLambda,
		token.AMPERSAND:   p.parseFunctionCapture,
		token.AMP_DIGIT:   p.parsePlaceholderArg,
		token.MINUS:       p.parseUnaryOp,
		token.BANG:        p.parseUnaryOp,
		token.NOT:         p.parseUnaryOp,
		token.IF:          p.parseIfExpr,
		token.CASE:        p.parseCaseExpr,
	}

	p.infixParseFns = map[token.Type]infixParseFn{
		token.PLUS:     p.parseBinaryOp,
		token.MINUS:    p.parseBinaryOp,
		token.STAR:     p.parseBinaryOp,
		token.SLASH:    p.parseBinaryOp,
		token.EQ:       p.parseBinaryOp,
		token.NOT_EQ:   p.parseBinaryOp,
		token.LT:       p.parseBinaryOp,
		token.LTE:      p.parseBinaryOp,
		token.GT:       p.parseBinaryOp,
		token.GTE:      p.parseBinaryOp,
		token.CONCAT:   p.parseBinaryOp,
		token.CONS:     p.parseBinaryOp,
		token.AND:      p.parseBinaryOp,
		token.OR:       p.parseBinaryOp,
		token.PIPE_GT:  p.parsePipe,
		token.ASSIGN:   p.parseMatch,
		token.LPAREN:   p.parseCallInfix,
	}

	// Prime curToken/peekToken.
	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns the diagnostics accumulated while parsing. Parsing
// never panics on malformed input: every failure path records a
// diagnostics.ParseError and returns a best-effort partial node so the
// caller can keep going (spec.md §7, "no stage may panic").
func (p *Parser) Errors() *diagnostics.Bag { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	if len(p.ahead) > 0 {
		p.peekToken = p.ahead[0]
		p.ahead = p.ahead[1:]
	} else {
		p.peekToken = p.l.NextToken()
	}
}

// peekAhead returns the nth token after peekToken (0 == the token right
// after peekToken), buffering as needed. Used only by
// hasContinuationOperator's line-continuation lookahead.
func (p *Parser) peekAhead(n int) token.Token {
	for len(p.ahead) <= n {
		p.ahead = append(p.ahead, p.l.NextToken())
	}
	return p.ahead[n]
}

func (p *Parser) curTokenIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.Type) {
	p.errorf(p.peekToken, "expected next token to be %s, got %s instead", t, p.peekToken.Type)
}

func (p *Parser) errorf(tok token.Token, format string, args ...interface{}) {
	p.errors.Add(diagnostics.ParseError(p.span(tok), fmt.Sprintf(format, args...)))
}

func (p *Parser) span(tok token.Token) diagnostics.Span {
	return diagnostics.Span{File: p.file, Line: tok.Pos.Line, Column: tok.Pos.Column}
}

// skipNewlines advances past any run of NEWLINE/SEMI tokens sitting at
// curToken, used at statement boundaries where blank lines are
// insignificant.
func (p *Parser) skipNewlines() {
	for p.curTokenIs(token.NEWLINE) || p.curTokenIs(token.SEMI) {
		p.nextToken()
	}
}

func (p *Parser) skipPeekNewlines() {
	for p.peekTokenIs(token.NEWLINE) || p.peekTokenIs(token.SEMI) {
		p.nextToken()
	}
}

func (p *Parser) noPrefixParseFnError(t token.Type) {
	p.errorf(p.curToken, "no prefix parse function for %s found", t)
}
