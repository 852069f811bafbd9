package parser

import "github.com/efx-project/efx/internal/token"

// Precedence levels, loosest to tightest. `|>` sits below the
// arithmetic/comparison operators so `a + b |> f` parses as
// `(a + b) |> f`, matching the pipe operator's usual low binding in
// BEAM-hosted languages.
const (
	LOWEST int = iota
	ASSIGNP
	PIPE
	LOGICOR
	LOGICAND
	EQUALS
	COMPARE
	CONCATP
	SUM
	PRODUCT
	PREFIXP
	CALLP
)

var precedences = map[token.Type]int{
	token.ASSIGN:  ASSIGNP,
	token.PIPE_GT: PIPE,
	token.OR:      LOGICOR,
	token.AND:     LOGICAND,
	token.EQ:      EQUALS,
	token.NOT_EQ:  EQUALS,
	token.LT:      COMPARE,
	token.LTE:     COMPARE,
	token.GT:      COMPARE,
	token.GTE:     COMPARE,
	token.CONCAT:  CONCATP,
	token.CONS:    CONCATP,
	token.PLUS:    SUM,
	token.MINUS:   SUM,
	token.STAR:    PRODUCT,
	token.SLASH:   PRODUCT,
	token.LPAREN:  CALLP,
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// continuationOperators can start a pipeline continuation on the next
// source line: `x\n|> f()` parses as one expression.
var continuationOperators = map[token.Type]bool{
	token.PIPE_GT: true,
	token.CONCAT:  true,
	token.CONS:    true,
}

// hasContinuationOperator looks past a run of NEWLINEs sitting at
// peekToken for an operator that should continue the current
// expression rather than end the statement.
func (p *Parser) hasContinuationOperator() bool {
	for i := 0; ; i++ {
		var t token.Token
		if i == 0 {
			t = p.peekToken
		} else {
			t = p.peekAhead(i - 1)
		}
		if t.Type == token.NEWLINE {
			continue
		}
		return continuationOperators[t.Type]
	}
}
