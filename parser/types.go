package parser

import (
	"github.com/pontaoski/hackfront/errors"
	"github.com/pontaoski/hackfront/lexer"
	"github.com/pontaoski/hackfront/syntax"
	"github.com/pontaoski/hackfront/types"
)

func (p *Parser[R]) parseType() R {
	if !p.enter() {
		return p.missing()
	}
	defer p.leave()

	switch p.lex.Peek().Kind {
	case types.QUESTION:
		q := p.token()
		return p.node(syntax.NullableTypeSpecifier, q, p.parseType())
	case types.LPAREN:
		lp := p.token()
		elems := p.commaList(p.parseType, types.RPAREN)
		return p.node(syntax.TupleTypeSpecifier, lp, elems, p.expect(types.RPAREN))
	case types.NAME, types.VEC:
		name := p.token()
		if !p.lex.PeekIs(types.LT) {
			return p.node(syntax.SimpleTypeSpecifier, name)
		}
		return p.node(syntax.GenericTypeSpecifier, name, p.parseTypeArguments())
	case types.COLON:
		if p.lex.PeekMode(lexer.XHPClassName).Kind == types.XHP_CLASS_NAME {
			return p.node(syntax.SimpleTypeSpecifier, p.tokenMode(lexer.XHPClassName))
		}
	}

	tok := p.lex.Peek()
	p.errorAt(tok.Span, errors.UnexpectedToken{Got: tok.Kind, In: "type"})
	return p.missing()
}

func (p *Parser[R]) parseTypeArguments() R {
	lt := p.token()
	args := p.commaList(p.parseType, types.GT)
	return p.node(syntax.TypeArguments, lt, args, p.expect(types.GT))
}

func (p *Parser[R]) optTypeParameters() R {
	if !p.lex.PeekIs(types.LT) {
		return p.missing()
	}
	lt := p.token()
	params := p.commaList(p.parseTypeParameter, types.GT)
	return p.node(syntax.TypeParameters, lt, params, p.expect(types.GT))
}

func (p *Parser[R]) parseTypeParameter() R {
	variance := p.optional(types.PLUS, types.MINUS)
	name := p.expect(types.NAME)
	var constraints []R
	for p.lex.PeekIs(types.AS, types.SUPER) && !p.exceeded {
		kw := p.token()
		constraints = append(constraints, p.node(syntax.TypeConstraint, kw, p.parseType()))
	}
	return p.node(syntax.TypeParameter, variance, name, p.list(constraints))
}

func (p *Parser[R]) optWhereClause() R {
	if !p.lex.PeekIs(types.WHERE) {
		return p.missing()
	}
	kw := p.token()
	constraints := p.commaList(p.parseWhereConstraint, types.LBRACE, types.SEMICOLON)
	return p.node(syntax.WhereClause, kw, constraints)
}

func (p *Parser[R]) parseWhereConstraint() R {
	left := p.parseType()
	op := p.expect(types.AS, types.SUPER, types.EQUALS)
	return p.node(syntax.WhereConstraint, left, op, p.parseType())
}
