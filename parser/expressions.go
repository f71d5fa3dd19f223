package parser

import (
	"github.com/pontaoski/hackfront/errors"
	"github.com/pontaoski/hackfront/lexer"
	"github.com/pontaoski/hackfront/syntax"
	"github.com/pontaoski/hackfront/types"
)

type assoc int

const (
	leftAssoc assoc = iota
	rightAssoc
)

var binaryOperators = map[types.TokenKind]struct {
	prec  int
	assoc assoc
}{
	types.EQUALS:   {1, rightAssoc},
	types.BARBAR:   {2, leftAssoc},
	types.AMPAMP:   {3, leftAssoc},
	types.EQEQ:     {4, leftAssoc},
	types.BANGEQ:   {4, leftAssoc},
	types.EQEQEQ:   {4, leftAssoc},
	types.BANGEQEQ: {4, leftAssoc},
	types.LT:       {5, leftAssoc},
	types.GT:       {5, leftAssoc},
	types.LTE:      {5, leftAssoc},
	types.GTE:      {5, leftAssoc},
	types.PLUS:     {6, leftAssoc},
	types.MINUS:    {6, leftAssoc},
	types.PERIOD:   {6, leftAssoc},
	types.STAR:     {7, leftAssoc},
	types.SLASH:    {7, leftAssoc},
	types.PERCENT:  {7, leftAssoc},
}

func (p *Parser[R]) parseExpression() R {
	return p.parseBinary(1)
}

func (p *Parser[R]) parseBinary(minPrec int) R {
	if !p.enter() {
		return p.missing()
	}
	defer p.leave()

	left := p.parseUnary()
	for !p.exceeded {
		op, ok := binaryOperators[p.lex.Peek().Kind]
		if !ok || op.prec < minPrec {
			break
		}
		tok := p.token()
		next := op.prec + 1
		if op.assoc == rightAssoc {
			next = op.prec
		}
		left = p.node(syntax.BinaryExpression, left, tok, p.parseBinary(next))
	}
	return left
}

func (p *Parser[R]) parseUnary() R {
	if !p.lex.PeekIs(types.BANG, types.MINUS) {
		return p.parsePostfix(p.parsePrimary())
	}
	if !p.enter() {
		return p.missing()
	}
	defer p.leave()

	op := p.token()
	return p.node(syntax.PrefixUnaryExpression, op, p.parseUnary())
}

func (p *Parser[R]) parsePostfix(expr R) R {
	for !p.exceeded {
		switch p.lex.Peek().Kind {
		case types.LPAREN:
			lp := p.token()
			args := p.commaList(p.parseExpression, types.RPAREN)
			expr = p.node(syntax.FunctionCallExpression, expr, lp, args, p.expect(types.RPAREN))
		case types.ARROW:
			arrow := p.token()
			expr = p.node(syntax.MemberSelectionExpression, expr, arrow, p.expect(types.NAME))
		case types.COLONCOLON:
			colons := p.token()
			expr = p.node(syntax.ScopeResolutionExpression, expr, colons, p.expect(types.NAME, types.CLASS))
		case types.LBRACKET:
			lb := p.token()
			index := p.missing()
			if !p.lex.PeekIs(types.RBRACKET) {
				index = p.parseExpression()
			}
			expr = p.node(syntax.SubscriptExpression, expr, lb, index, p.expect(types.RBRACKET))
		default:
			return expr
		}
	}
	return expr
}

func (p *Parser[R]) parsePrimary() R {
	if !p.enter() {
		return p.missing()
	}
	defer p.leave()

	switch p.lex.Peek().Kind {
	case types.VARIABLE:
		return p.node(syntax.VariableExpression, p.token())
	case types.INT, types.FLOAT, types.STRING:
		return p.node(syntax.LiteralExpression, p.token())
	case types.NAME:
		return p.node(syntax.NameExpression, p.token())
	case types.LPAREN:
		lp := p.token()
		expr := p.parseExpression()
		return p.node(syntax.ParenthesizedExpression, lp, expr, p.expect(types.RPAREN))
	case types.NEW:
		return p.parseObjectCreation()
	case types.VEC:
		kw := p.token()
		lb := p.expect(types.LBRACKET)
		elems := p.commaList(p.parseExpression, types.RBRACKET)
		return p.node(syntax.VectorLiteral, kw, lb, elems, p.expect(types.RBRACKET))
	case types.SHAPE:
		kw := p.token()
		lp := p.expect(types.LPAREN)
		fields := p.commaList(p.parseFieldInitializer, types.RPAREN)
		return p.node(syntax.ShapeLiteral, kw, lp, fields, p.expect(types.RPAREN))
	case types.LT:
		if p.env.EnableXHP {
			return p.parseXHPExpression(p.token())
		}
	}

	tok := p.lex.Peek()
	p.errorAt(tok.Span, errors.UnexpectedToken{Got: tok.Kind, In: "expression"})
	return p.missing()
}

func (p *Parser[R]) parseObjectCreation() R {
	kw := p.token()
	var class R
	switch {
	case p.lex.PeekIs(types.NAME):
		class = p.node(syntax.NameExpression, p.token())
	case p.lex.PeekMode(lexer.XHPClassName).Kind == types.XHP_CLASS_NAME:
		class = p.node(syntax.NameExpression, p.tokenMode(lexer.XHPClassName))
	default:
		class = p.expect(types.NAME)
	}
	lp := p.expect(types.LPAREN)
	args := p.commaList(p.parseExpression, types.RPAREN)
	return p.node(syntax.ObjectCreationExpression, kw, class, lp, args, p.expect(types.RPAREN))
}

func (p *Parser[R]) parseFieldInitializer() R {
	name := p.parseExpression()
	arrow := p.expect(types.FATARROW)
	return p.node(syntax.FieldInitializer, name, arrow, p.parseExpression())
}
