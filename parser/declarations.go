package parser

import (
	"github.com/pontaoski/hackfront/errors"
	"github.com/pontaoski/hackfront/lexer"
	"github.com/pontaoski/hackfront/syntax"
	"github.com/pontaoski/hackfront/types"
)

func (p *Parser[R]) parseDeclaration() R {
	if !p.enter() {
		return p.missing()
	}
	defer p.leave()

	switch p.lex.Peek().Kind {
	case types.LTLT:
		if second := p.lex.PeekSecond(); second.Kind == types.NAME && second.Text == "file" {
			return p.parseFileAttributeSpecification()
		}
		return p.parseDeclarationWithAttributes(p.parseAttributeSpecification())
	case types.ABSTRACT, types.FINAL, types.INTERNAL, types.XHP,
		types.CLASS, types.INTERFACE, types.TRAIT, types.ENUM,
		types.FUNCTION, types.TYPE, types.NEWTYPE:
		return p.parseDeclarationWithAttributes(p.missing())
	case types.CONST:
		return p.parseConstDeclaration()
	case types.NEW:
		if p.lex.PeekSecond().Kind == types.MODULE {
			return p.parseModuleDeclaration()
		}
	}
	return p.parseStatement()
}

func (p *Parser[R]) parseDeclarationWithAttributes(attrs R) R {
	mods, seen := p.parseModifiers(types.ABSTRACT, types.FINAL, types.INTERNAL, types.XHP)

	switch p.lex.Peek().Kind {
	case types.CLASS, types.INTERFACE, types.TRAIT:
		return p.parseClassishDeclaration(attrs, mods, seen[types.XHP])
	case types.ENUM:
		return p.parseEnumDeclaration(attrs, mods)
	case types.FUNCTION:
		return p.parseFunctionLike(syntax.FunctionDeclaration, attrs, mods)
	case types.TYPE, types.NEWTYPE:
		return p.parseAliasDeclaration(attrs, mods)
	}
	return p.node(syntax.Error, attrs, mods, p.skip("declaration"))
}

func (p *Parser[R]) parseModifiers(allowed ...types.TokenKind) (R, map[types.TokenKind]bool) {
	var items []R
	seen := map[types.TokenKind]bool{}
	for p.lex.PeekIs(allowed...) {
		seen[p.lex.Peek().Kind] = true
		items = append(items, p.token())
	}
	return p.list(items), seen
}

// <<file: Attr, ...>>
func (p *Parser[R]) parseFileAttributeSpecification() R {
	open := p.token()
	file := p.token()
	colon := p.expect(types.COLON)
	attrs := p.commaList(p.parseAttribute, types.GT)
	gt1 := p.expect(types.GT)
	gt2 := p.expect(types.GT)
	return p.node(syntax.FileAttributeSpecification, open, file, colon, attrs, gt1, gt2)
}

func (p *Parser[R]) parseAttributeSpecification() R {
	open := p.token()
	attrs := p.commaList(p.parseAttribute, types.GT)
	gt1 := p.expect(types.GT)
	gt2 := p.expect(types.GT)
	return p.node(syntax.AttributeSpecification, open, attrs, gt1, gt2)
}

func (p *Parser[R]) optAttributeSpecification() R {
	if p.lex.PeekIs(types.LTLT) {
		return p.parseAttributeSpecification()
	}
	return p.missing()
}

func (p *Parser[R]) parseAttribute() R {
	name := p.expect(types.NAME)
	if !p.lex.PeekIs(types.LPAREN) {
		return p.node(syntax.Attribute, name, p.missing(), p.list(nil), p.missing())
	}
	lp := p.token()
	args := p.commaList(p.parseExpression, types.RPAREN)
	rp := p.expect(types.RPAREN)
	return p.node(syntax.Attribute, name, lp, args, rp)
}

func (p *Parser[R]) parseClassishDeclaration(attrs, mods R, isXHP bool) R {
	keyword := p.token()

	var name R
	switch {
	case p.lex.PeekMode(lexer.XHPClassName).Kind == types.XHP_CLASS_NAME:
		name = p.tokenMode(lexer.XHPClassName)
	case isXHP:
		name = p.expectMode(lexer.XHPName, types.XHP_ELEMENT_NAME)
	default:
		name = p.expect(types.NAME)
	}

	tparams := p.optTypeParameters()

	extendsKw, extends := p.missing(), p.list(nil)
	if p.lex.PeekIs(types.EXTENDS) {
		extendsKw = p.token()
		extends = p.commaList(p.parseType, types.IMPLEMENTS, types.WHERE, types.LBRACE)
	}
	implementsKw, implements := p.missing(), p.list(nil)
	if p.lex.PeekIs(types.IMPLEMENTS) {
		implementsKw = p.token()
		implements = p.commaList(p.parseType, types.WHERE, types.LBRACE)
	}

	where := p.optWhereClause()
	body := p.parseClassishBody()

	return p.node(syntax.ClassishDeclaration,
		attrs, mods, keyword, name, tparams,
		extendsKw, extends, implementsKw, implements,
		where, body)
}

func (p *Parser[R]) parseClassishBody() R {
	if !p.lex.PeekIs(types.LBRACE) {
		return p.node(syntax.ClassishBody, p.expect(types.LBRACE), p.list(nil), p.missing())
	}
	lb := p.token()
	elements := p.sequence("class body", p.parseClassElement, types.RBRACE)
	rb := p.expect(types.RBRACE)
	return p.node(syntax.ClassishBody, lb, elements, rb)
}

func (p *Parser[R]) parseClassElement() R {
	if !p.enter() {
		return p.missing()
	}
	defer p.leave()

	start := p.lex.Offset()
	switch p.lex.Peek().Kind {
	case types.USE:
		kw := p.token()
		names := p.commaList(p.parseType, types.SEMICOLON)
		return p.node(syntax.TraitUse, kw, names, p.expect(types.SEMICOLON))
	case types.REQUIRE:
		kw := p.token()
		kind := p.expect(types.EXTENDS, types.IMPLEMENTS)
		name := p.parseType()
		return p.node(syntax.RequireClause, kw, kind, name, p.expect(types.SEMICOLON))
	case types.ATTRIBUTE:
		kw := p.token()
		attrs := p.commaList(p.parseXHPClassAttribute, types.SEMICOLON)
		return p.node(syntax.XHPClassAttributeDeclaration, kw, attrs, p.expect(types.SEMICOLON))
	}

	attrs := p.optAttributeSpecification()
	mods, _ := p.parseModifiers(types.PUBLIC, types.PROTECTED, types.PRIVATE,
		types.INTERNAL, types.STATIC, types.ABSTRACT, types.FINAL)

	switch p.lex.Peek().Kind {
	case types.CONST:
		if p.lex.PeekSecond().Kind == types.TYPE {
			return p.parseTypeConstDeclaration(attrs, mods)
		}
		return p.parseClassConstDeclaration(attrs, mods)
	case types.FUNCTION:
		return p.parseFunctionLike(syntax.MethodishDeclaration, attrs, mods)
	case types.VARIABLE, types.QUESTION, types.NAME, types.VEC, types.LPAREN, types.COLON:
		return p.parsePropertyDeclaration(attrs, mods)
	}
	if p.lex.Offset() == start {
		return p.missing()
	}
	tok := p.lex.Peek()
	p.errorAt(tok.Span, errors.UnexpectedToken{Got: tok.Kind, In: "class body"})
	return p.node(syntax.Error, attrs, mods)
}

func (p *Parser[R]) parsePropertyDeclaration(attrs, mods R) R {
	ty := p.missing()
	if !p.lex.PeekIs(types.VARIABLE) {
		ty = p.parseType()
	}
	declarators := p.commaList(p.parsePropertyDeclarator, types.SEMICOLON)
	return p.node(syntax.PropertyDeclaration, attrs, mods, ty, declarators, p.expect(types.SEMICOLON))
}

func (p *Parser[R]) parsePropertyDeclarator() R {
	name := p.expect(types.VARIABLE)
	if !p.lex.PeekIs(types.EQUALS) {
		return p.node(syntax.PropertyDeclarator, name, p.missing(), p.missing())
	}
	eq := p.token()
	return p.node(syntax.PropertyDeclarator, name, eq, p.parseExpression())
}

// constType parses the optional type in "const int X = 1", telling it apart
// from "const X = 1" by looking past the name.
func (p *Parser[R]) constType() R {
	if p.lex.PeekIs(types.NAME) {
		switch p.lex.PeekSecond().Kind {
		case types.EQUALS, types.SEMICOLON, types.COMMA:
			return p.missing()
		}
	}
	return p.parseType()
}

func (p *Parser[R]) parseClassConstDeclaration(attrs, mods R) R {
	kw := p.token()
	ty := p.constType()
	declarators := p.commaList(p.parseConstantDeclarator, types.SEMICOLON)
	return p.node(syntax.ClassConstDeclaration, attrs, mods, kw, ty, declarators, p.expect(types.SEMICOLON))
}

func (p *Parser[R]) parseConstDeclaration() R {
	kw := p.token()
	ty := p.constType()
	declarators := p.commaList(p.parseConstantDeclarator, types.SEMICOLON)
	return p.node(syntax.ConstDeclaration, kw, ty, declarators, p.expect(types.SEMICOLON))
}

func (p *Parser[R]) parseConstantDeclarator() R {
	name := p.expect(types.NAME)
	if !p.lex.PeekIs(types.EQUALS) {
		return p.node(syntax.ConstantDeclarator, name, p.missing(), p.missing())
	}
	eq := p.token()
	return p.node(syntax.ConstantDeclarator, name, eq, p.parseExpression())
}

func (p *Parser[R]) parseTypeConstDeclaration(attrs, mods R) R {
	kw := p.token()
	typeKw := p.token()
	name := p.expect(types.NAME)
	as, constraint := p.missing(), p.missing()
	if p.lex.PeekIs(types.AS) {
		as = p.token()
		constraint = p.parseType()
	}
	eq, ty := p.missing(), p.missing()
	if p.lex.PeekIs(types.EQUALS) {
		eq = p.token()
		ty = p.parseType()
	}
	return p.node(syntax.TypeConstDeclaration, attrs, mods, kw, typeKw, name, as, constraint, eq, ty, p.expect(types.SEMICOLON))
}

func (p *Parser[R]) parseXHPClassAttribute() R {
	if p.lex.PeekMode(lexer.XHPClassName).Kind == types.XHP_CLASS_NAME {
		return p.tokenMode(lexer.XHPClassName)
	}
	ty := p.parseType()
	name := p.expectMode(lexer.XHPName, types.XHP_ELEMENT_NAME)
	eq, init := p.missing(), p.missing()
	if p.lex.PeekIs(types.EQUALS) {
		eq = p.token()
		init = p.parseExpression()
	}
	return p.node(syntax.XHPClassAttribute, ty, name, eq, init)
}

// parseFunctionLike handles both functions and methods; only methods may
// end in a semicolon instead of a body.
func (p *Parser[R]) parseFunctionLike(kind syntax.Kind, attrs, mods R) R {
	kw := p.expect(types.FUNCTION)
	name := p.expect(types.NAME)
	tparams := p.optTypeParameters()
	lp := p.expect(types.LPAREN)
	params := p.commaList(p.parseParameter, types.RPAREN)
	rp := p.expect(types.RPAREN)

	colon, ret := p.missing(), p.missing()
	if p.lex.PeekIs(types.COLON) {
		colon = p.token()
		ret = p.parseType()
	}
	where := p.optWhereClause()

	var body R
	if kind == syntax.MethodishDeclaration && p.lex.PeekIs(types.SEMICOLON) {
		body = p.token()
	} else {
		body = p.parseCompoundStatement()
	}
	return p.node(kind, attrs, mods, kw, name, tparams, lp, params, rp, colon, ret, where, body)
}

func (p *Parser[R]) parseParameter() R {
	attrs := p.optAttributeSpecification()
	visibility := p.optional(types.PUBLIC, types.PROTECTED, types.PRIVATE)
	ty := p.missing()
	if !p.lex.PeekIs(types.VARIABLE, types.ELLIPSIS) {
		ty = p.parseType()
	}
	ellipsis := p.optional(types.ELLIPSIS)
	name := p.expect(types.VARIABLE)
	eq, def := p.missing(), p.missing()
	if p.lex.PeekIs(types.EQUALS) {
		eq = p.token()
		def = p.parseExpression()
	}
	return p.node(syntax.Parameter, attrs, visibility, ty, ellipsis, name, eq, def)
}

func (p *Parser[R]) parseAliasDeclaration(attrs, mods R) R {
	kw := p.token()
	name := p.expect(types.NAME)
	tparams := p.optTypeParameters()
	as, constraint := p.missing(), p.missing()
	if p.lex.PeekIs(types.AS) {
		as = p.token()
		constraint = p.parseType()
	}
	eq := p.expect(types.EQUALS)
	ty := p.parseType()
	return p.node(syntax.AliasDeclaration, attrs, mods, kw, name, tparams, as, constraint, eq, ty, p.expect(types.SEMICOLON))
}

func (p *Parser[R]) parseEnumDeclaration(attrs, mods R) R {
	kw := p.token()
	name := p.expect(types.NAME)
	colon := p.expect(types.COLON)
	base := p.parseType()
	as, constraint := p.missing(), p.missing()
	if p.lex.PeekIs(types.AS) {
		as = p.token()
		constraint = p.parseType()
	}
	if !p.lex.PeekIs(types.LBRACE) {
		lb := p.expect(types.LBRACE)
		return p.node(syntax.EnumDeclaration, attrs, mods, kw, name, colon, base, as, constraint, lb, p.list(nil), p.missing())
	}
	lb := p.token()
	enumerators := p.sequence("enum", p.parseEnumerator, types.RBRACE)
	rb := p.expect(types.RBRACE)
	return p.node(syntax.EnumDeclaration, attrs, mods, kw, name, colon, base, as, constraint, lb, enumerators, rb)
}

func (p *Parser[R]) parseEnumerator() R {
	if !p.lex.PeekIs(types.NAME) {
		return p.missing()
	}
	name := p.token()
	eq := p.expect(types.EQUALS)
	value := p.parseExpression()
	return p.node(syntax.Enumerator, name, eq, value, p.expect(types.SEMICOLON))
}

// new module M {}
func (p *Parser[R]) parseModuleDeclaration() R {
	newKw := p.token()
	moduleKw := p.token()
	name := p.expect(types.NAME)
	lb := p.expect(types.LBRACE)
	rb := p.expect(types.RBRACE)
	return p.node(syntax.ModuleDeclaration, newKw, moduleKw, name, lb, rb)
}
