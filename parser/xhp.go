package parser

import (
	"github.com/pontaoski/hackfront/errors"
	"github.com/pontaoski/hackfront/lexer"
	"github.com/pontaoski/hackfront/syntax"
	"github.com/pontaoski/hackfront/types"
)

// parseXHPExpression continues markup after its opening '<', which the caller
// has already consumed in whichever lexer mode it was reading.
func (p *Parser[R]) parseXHPExpression(lt R) R {
	if !p.enter() {
		return p.missing()
	}
	defer p.leave()

	nameTok := p.lex.PeekMode(lexer.XHPName)
	name := p.expectMode(lexer.XHPName, types.XHP_ELEMENT_NAME)

	var attrs []R
attributes:
	for !p.exceeded {
		switch p.lex.PeekMode(lexer.XHPName).Kind {
		case types.XHP_ELEMENT_NAME:
			attrs = append(attrs, p.parseXHPSimpleAttribute())
		case types.LBRACE:
			attrs = append(attrs, p.parseXHPSpreadAttribute())
		default:
			break attributes
		}
	}

	if p.lex.PeekIs(types.SLASH_GT) {
		open := p.node(syntax.XHPOpen, lt, name, p.list(attrs), p.token())
		return p.node(syntax.XHPExpression, open, p.list(nil), p.missing())
	}
	before := p.lex.Offset()
	gt := p.expect(types.GT)
	open := p.node(syntax.XHPOpen, lt, name, p.list(attrs), gt)
	if p.exceeded || p.lex.Offset() == before {
		return p.node(syntax.XHPExpression, open, p.list(nil), p.missing())
	}

	body := p.parseXHPBody()

	if tok := p.lex.PeekMode(lexer.XHPBody); tok.Kind != types.LT_SLASH {
		if !p.exceeded {
			p.errorAt(tok.Span, errors.ExpectedOneOfKindGotKind{Expected: []types.TokenKind{types.LT_SLASH}, Got: tok.Kind})
		}
		return p.node(syntax.XHPExpression, open, body, p.missing())
	}
	closeLt := p.tokenMode(lexer.XHPBody)
	closeTok := p.lex.PeekMode(lexer.XHPName)
	closeName := p.expectMode(lexer.XHPName, types.XHP_ELEMENT_NAME)
	if closeTok.Kind == types.XHP_ELEMENT_NAME && nameTok.Kind == types.XHP_ELEMENT_NAME && closeTok.Text != nameTok.Text {
		p.errorAt(closeTok.Span, errors.MismatchedCloseTag{Open: nameTok.Text, Close: closeTok.Text})
	}
	closeGt := p.expect(types.GT)
	return p.node(syntax.XHPExpression, open, body, p.node(syntax.XHPClose, closeLt, closeName, closeGt))
}

func (p *Parser[R]) parseXHPBody() R {
	var items []R
	for !p.exceeded {
		switch p.lex.PeekMode(lexer.XHPBody).Kind {
		case types.XHP_BODY:
			items = append(items, p.tokenMode(lexer.XHPBody))
		case types.LBRACE:
			lb := p.tokenMode(lexer.XHPBody)
			expr := p.parseExpression()
			items = append(items, p.node(syntax.XHPBracedExpression, lb, expr, p.expect(types.RBRACE)))
		case types.LT:
			items = append(items, p.parseXHPExpression(p.tokenMode(lexer.XHPBody)))
		default:
			return p.list(items)
		}
	}
	return p.list(items)
}

func (p *Parser[R]) parseXHPSimpleAttribute() R {
	name := p.tokenMode(lexer.XHPName)
	eq := p.expect(types.EQUALS)
	switch p.lex.Peek().Kind {
	case types.STRING:
		return p.node(syntax.XHPSimpleAttribute, name, eq, p.node(syntax.LiteralExpression, p.token()))
	case types.LBRACE:
		lb := p.token()
		expr := p.parseExpression()
		value := p.node(syntax.XHPBracedExpression, lb, expr, p.expect(types.RBRACE))
		return p.node(syntax.XHPSimpleAttribute, name, eq, value)
	}
	tok := p.lex.Peek()
	p.errorAt(tok.Span, errors.UnexpectedToken{Got: tok.Kind, In: "xhp attribute"})
	return p.node(syntax.XHPSimpleAttribute, name, eq, p.missing())
}

// {...$expr}
func (p *Parser[R]) parseXHPSpreadAttribute() R {
	lb := p.token()
	dots := p.expect(types.ELLIPSIS)
	expr := p.parseExpression()
	return p.node(syntax.XHPSpreadAttribute, lb, dots, expr, p.expect(types.RBRACE))
}
