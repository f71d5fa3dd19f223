package parser

import (
	"github.com/pontaoski/hackfront/syntax"
	"github.com/pontaoski/hackfront/types"
)

func (p *Parser[R]) parseStatement() R {
	if !p.enter() {
		return p.missing()
	}
	defer p.leave()

	switch p.lex.Peek().Kind {
	case types.LBRACE:
		return p.parseCompoundStatement()
	case types.RETURN:
		kw := p.token()
		expr := p.missing()
		if !p.lex.PeekIs(types.SEMICOLON) {
			expr = p.parseExpression()
		}
		return p.node(syntax.ReturnStatement, kw, expr, p.expect(types.SEMICOLON))
	case types.ECHO:
		kw := p.token()
		exprs := p.commaList(p.parseExpression, types.SEMICOLON)
		return p.node(syntax.EchoStatement, kw, exprs, p.expect(types.SEMICOLON))
	case types.IF:
		return p.parseIfStatement()
	}

	start := p.lex.Offset()
	expr := p.parseExpression()
	if p.lex.Offset() == start {
		// nothing here starts a statement; let the caller skip it
		return expr
	}
	return p.node(syntax.ExpressionStatement, expr, p.expect(types.SEMICOLON))
}

func (p *Parser[R]) parseIfStatement() R {
	kw := p.token()
	lp := p.expect(types.LPAREN)
	cond := p.parseExpression()
	rp := p.expect(types.RPAREN)
	then := p.parseStatement()
	elseClause := p.missing()
	if p.lex.PeekIs(types.ELSE) {
		elseKw := p.token()
		elseClause = p.node(syntax.ElseClause, elseKw, p.parseStatement())
	}
	return p.node(syntax.IfStatement, kw, lp, cond, rp, then, elseClause)
}

func (p *Parser[R]) parseCompoundStatement() R {
	if !p.lex.PeekIs(types.LBRACE) {
		return p.node(syntax.CompoundStatement, p.expect(types.LBRACE), p.list(nil), p.missing())
	}
	lb := p.token()
	stmts := p.sequence("block", p.parseStatement, types.RBRACE)
	return p.node(syntax.CompoundStatement, lb, stmts, p.expect(types.RBRACE))
}
