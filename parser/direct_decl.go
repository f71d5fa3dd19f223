package parser

import (
	"github.com/pontaoski/hackfront/decl"
	"github.com/pontaoski/hackfront/lexer"
	"github.com/pontaoski/hackfront/naming"
	"github.com/pontaoski/hackfront/syntax"
	"github.com/pontaoski/hackfront/types"
	"github.com/pontaoski/hackfront/typing"
)

type declNodeKind uint8

const (
	dIgnored declNodeKind = iota
	dToken
	dList
	dString
	dClassRef
	dTy
	dTparam
	dConstraint
	dWhere
	dAttr
	dParam
	dDeclarator
	dMembers
)

// DeclNode is what the declaration backend builds. Anything that cannot
// contribute to a declaration is the zero DeclNode, so bodies and most
// expressions cost nothing. Tokens, string values and class references are
// held in tok; richer payloads in val.
type DeclNode struct {
	kind declNodeKind
	tok  types.Token
	val  any
}

func (n DeclNode) isToken(k types.TokenKind) bool {
	return n.kind == dToken && n.tok.Kind == k
}

type cons[T any] struct {
	head T
	tail *cons[T]
}

func push[T any](l *cons[T], v T) *cons[T] {
	return &cons[T]{head: v, tail: l}
}

// reversed returns the list oldest-first.
func reversed[T any](l *cons[T]) []T {
	var ret []T
	for ; l != nil; l = l.tail {
		ret = append(ret, l.head)
	}
	for i, j := 0, len(ret)-1; i < j; i, j = i+1, j-1 {
		ret[i], ret[j] = ret[j], ret[i]
	}
	return ret
}

type declState struct {
	fileAttributes *cons[decl.Attribute]
	decls          *cons[decl.NamedDecl]
	module         string
}

type param struct {
	name       string
	pos        types.Span
	ty         typing.Ty
	visibility typing.Visibility
	variadic   bool
	hasDefault bool
}

type declarator struct {
	name    string
	pos     types.Span
	hasInit bool
	initTy  typing.Ty
}

type classMembers struct {
	consts        []decl.ClassConstDecl
	typeconsts    []decl.TypeconstDecl
	props         []decl.PropDecl
	sprops        []decl.PropDecl
	methods       []decl.MethodDecl
	smethods      []decl.MethodDecl
	constructor   *decl.MethodDecl
	uses          []typing.Ty
	reqExtends    []typing.Ty
	reqImplements []typing.Ty
	xhpAttrUses   []typing.Ty
}

func (m *classMembers) merge(o *classMembers) {
	m.consts = append(m.consts, o.consts...)
	m.typeconsts = append(m.typeconsts, o.typeconsts...)
	m.props = append(m.props, o.props...)
	m.sprops = append(m.sprops, o.sprops...)
	m.methods = append(m.methods, o.methods...)
	m.smethods = append(m.smethods, o.smethods...)
	if o.constructor != nil {
		m.constructor = o.constructor
	}
	m.uses = append(m.uses, o.uses...)
	m.reqExtends = append(m.reqExtends, o.reqExtends...)
	m.reqImplements = append(m.reqImplements, o.reqImplements...)
	m.xhpAttrUses = append(m.xhpAttrUses, o.xhpAttrUses...)
}

func members(m *classMembers) DeclNode {
	return DeclNode{kind: dMembers, val: m}
}

// DirectDecl builds the declaration summary straight from reductions, with no
// tree in between.
type DirectDecl struct {
	opts  *decl.Options
	state declState
}

func NewDirectDecl(opts *decl.Options) *DirectDecl {
	if opts == nil {
		opts = decl.DefaultOptions()
	}
	return &DirectDecl{opts: opts}
}

// Result returns the file attributes and declarations in source order.
func (d *DirectDecl) Result() ([]decl.Attribute, []decl.NamedDecl) {
	return reversed(d.state.fileAttributes), reversed(d.state.decls)
}

func (d *DirectDecl) Module() string {
	return d.state.module
}

func (d *DirectDecl) MakeToken(tok types.Token) DeclNode {
	return DeclNode{kind: dToken, tok: tok}
}

func (d *DirectDecl) MakeMissing(int) DeclNode {
	return DeclNode{}
}

func (d *DirectDecl) MakeList(items []DeclNode, _ int) DeclNode {
	var kept []DeclNode
	for _, item := range items {
		if item.kind == dIgnored || item.isToken(types.XHP_BODY) {
			continue
		}
		kept = append(kept, item)
	}
	if len(kept) == 0 {
		return DeclNode{}
	}
	return DeclNode{kind: dList, val: kept}
}

func (d *DirectDecl) MakeNode(kind syntax.Kind, c []DeclNode) DeclNode {
	switch kind {
	case syntax.ListItem:
		return c[0]
	case syntax.NameExpression:
		return c[0]
	case syntax.LiteralExpression:
		return d.literal(c[0])
	case syntax.ScopeResolutionExpression:
		if c[2].isToken(types.CLASS) && c[0].kind == dToken {
			return DeclNode{kind: dClassRef, tok: types.Token{Span: c[0].tok.Span, Text: d.className(c[0].tok)}}
		}
	case syntax.SimpleTypeSpecifier:
		return d.simpleType(c[0])
	case syntax.GenericTypeSpecifier:
		ty := d.simpleType(c[0]).val.(typing.Ty)
		ty.Args = tys(c[1])
		return tyNode(ty)
	case syntax.TypeArguments:
		return c[1]
	case syntax.NullableTypeSpecifier:
		return tyNode(typing.Ty{Kind: typing.TOption, Args: []typing.Ty{tyOr(c[1])}, Pos: c[0].tok.Span})
	case syntax.TupleTypeSpecifier:
		return tyNode(typing.Ty{Kind: typing.TTuple, Args: tys(c[1]), Pos: c[0].tok.Span})
	case syntax.TypeParameters:
		return c[1]
	case syntax.TypeParameter:
		return d.typeParameter(c)
	case syntax.TypeConstraint:
		ck := typing.ConstraintAs
		if c[0].isToken(types.SUPER) {
			ck = typing.ConstraintSuper
		}
		return DeclNode{kind: dConstraint, val: typing.Constraint{Kind: ck, Ty: tyOr(c[1])}}
	case syntax.WhereClause:
		return c[1]
	case syntax.WhereConstraint:
		ck := typing.ConstraintAs
		switch {
		case c[1].isToken(types.SUPER):
			ck = typing.ConstraintSuper
		case c[1].isToken(types.EQUALS):
			ck = typing.ConstraintEq
		}
		return DeclNode{kind: dWhere, val: typing.WhereConstraint{Left: tyOr(c[0]), Kind: ck, Right: tyOr(c[2])}}
	case syntax.Attribute:
		return d.attribute(c)
	case syntax.AttributeSpecification:
		return c[1]
	case syntax.FileAttributeSpecification:
		d.fileAttributes(c[3])
	case syntax.Parameter:
		return d.parameter(c)
	case syntax.PropertyDeclarator, syntax.ConstantDeclarator, syntax.Enumerator:
		return d.declarator(c)
	case syntax.PropertyDeclaration:
		return d.propertyDeclaration(c)
	case syntax.ClassConstDeclaration:
		return d.classConstDeclaration(c)
	case syntax.TypeConstDeclaration:
		return d.typeConstDeclaration(c)
	case syntax.MethodishDeclaration:
		return d.methodDeclaration(c)
	case syntax.TraitUse:
		return members(&classMembers{uses: tys(c[1])})
	case syntax.RequireClause:
		if c[1].isToken(types.IMPLEMENTS) {
			return members(&classMembers{reqImplements: tys(c[2])})
		}
		return members(&classMembers{reqExtends: tys(c[2])})
	case syntax.XHPClassAttribute:
		return d.xhpAttribute(c)
	case syntax.XHPClassAttributeDeclaration:
		return d.xhpAttributeDeclaration(c[1])
	case syntax.ClassishBody:
		m := &classMembers{}
		for _, item := range listOf(c[1]) {
			if item.kind == dMembers {
				m.merge(item.val.(*classMembers))
			}
		}
		return members(m)
	case syntax.ClassishDeclaration:
		d.classishDeclaration(c)
	case syntax.EnumDeclaration:
		d.enumDeclaration(c)
	case syntax.FunctionDeclaration:
		d.functionDeclaration(c)
	case syntax.ConstDeclaration:
		d.constDeclaration(c)
	case syntax.AliasDeclaration:
		d.aliasDeclaration(c)
	case syntax.ModuleDeclaration:
		if c[2].kind == dToken {
			d.add(decl.KindModule, c[2].tok.Text, decl.Decl{Module: &decl.ModuleDecl{Name: c[2].tok.Text, Pos: c[2].tok.Span}})
		}
	}
	return DeclNode{}
}

func (d *DirectDecl) add(kind decl.Kind, name string, dcl decl.Decl) {
	dcl.Kind = kind
	d.state.decls = push(d.state.decls, decl.NamedDecl{Name: name, Decl: dcl})
}

func listOf(n DeclNode) []DeclNode {
	switch n.kind {
	case dIgnored:
		return nil
	case dList:
		return n.val.([]DeclNode)
	}
	return []DeclNode{n}
}

func tyNode(ty typing.Ty) DeclNode {
	return DeclNode{kind: dTy, val: ty}
}

// tyOr is the type held by n, or the error type when the hint is absent.
func tyOr(n DeclNode) typing.Ty {
	if n.kind == dTy {
		return n.val.(typing.Ty)
	}
	return typing.ErrorTy()
}

func tys(n DeclNode) []typing.Ty {
	var ret []typing.Ty
	for _, item := range listOf(n) {
		if item.kind == dTy {
			ret = append(ret, item.val.(typing.Ty))
		}
	}
	return ret
}

func (d *DirectDecl) literal(n DeclNode) DeclNode {
	if n.isToken(types.STRING) {
		return DeclNode{kind: dString, tok: types.Token{Kind: types.STRING, Span: n.tok.Span, Text: lexer.Unquote(n.tok.Text)}}
	}
	return n
}

// className is the declared or referenced class name for a name token.
func (d *DirectDecl) className(tok types.Token) string {
	switch tok.Kind {
	case types.XHP_ELEMENT_NAME, types.XHP_CLASS_NAME:
		if d.opts.DisableXHPElementMangling {
			return tok.Text
		}
		return naming.MangleXHP(tok.Text)
	}
	return d.opts.ElaborateName(tok.Text)
}

func (d *DirectDecl) simpleType(n DeclNode) DeclNode {
	if n.kind != dToken {
		return tyNode(typing.ErrorTy())
	}
	tok := n.tok
	var ty typing.Ty
	switch {
	case tok.Kind == types.VEC:
		ty = typing.Apply("vec")
	case tok.Text == "this":
		ty = typing.Ty{Kind: typing.TThis, Name: "this"}
	case tok.Kind == types.NAME && typing.IsPrim(tok.Text):
		ty = typing.Prim(tok.Text)
	default:
		ty = typing.Apply(d.className(tok))
	}
	ty.Pos = tok.Span
	return tyNode(ty)
}

func (d *DirectDecl) typeParameter(c []DeclNode) DeclNode {
	tp := typing.Tparam{Variance: typing.Invariant, Name: c[1].tok.Text, Pos: c[1].tok.Span}
	switch {
	case c[0].isToken(types.PLUS):
		tp.Variance = typing.Covariant
	case c[0].isToken(types.MINUS):
		tp.Variance = typing.Contravariant
	}
	for _, item := range listOf(c[2]) {
		if item.kind == dConstraint {
			tp.Constraints = append(tp.Constraints, item.val.(typing.Constraint))
		}
	}
	return DeclNode{kind: dTparam, val: tp}
}

func tparamsOf(n DeclNode) []typing.Tparam {
	var ret []typing.Tparam
	for _, item := range listOf(n) {
		if item.kind == dTparam {
			ret = append(ret, item.val.(typing.Tparam))
		}
	}
	return ret
}

func wheresOf(n DeclNode) []typing.WhereConstraint {
	var ret []typing.WhereConstraint
	for _, item := range listOf(n) {
		if item.kind == dWhere {
			ret = append(ret, item.val.(typing.WhereConstraint))
		}
	}
	return ret
}

func (d *DirectDecl) attribute(c []DeclNode) DeclNode {
	if c[0].kind != dToken || !d.opts.KeepsAttribute(c[0].tok.Text) {
		return DeclNode{}
	}
	attr := decl.Attribute{Name: c[0].tok.Text, Pos: c[0].tok.Span}
	for _, arg := range listOf(c[2]) {
		switch arg.kind {
		case dString, dClassRef, dToken:
			attr.Args = append(attr.Args, arg.tok.Text)
		}
	}
	return DeclNode{kind: dAttr, val: attr}
}

func attributesOf(n DeclNode) []decl.Attribute {
	var ret []decl.Attribute
	for _, item := range listOf(n) {
		if item.kind == dAttr {
			ret = append(ret, item.val.(decl.Attribute))
		}
	}
	return ret
}

// fileAttributes pushes each attribute on its own, so several <<file:>> specs
// still come out in source order.
func (d *DirectDecl) fileAttributes(n DeclNode) {
	for _, attr := range attributesOf(n) {
		d.state.fileAttributes = push(d.state.fileAttributes, attr)
		if attr.Name == "__Module" && len(attr.Args) > 0 {
			d.state.module = attr.Args[0]
		}
	}
}

func deprecation(attrs []decl.Attribute) *string {
	for _, attr := range attrs {
		if attr.Name == "__Deprecated" {
			msg := ""
			if len(attr.Args) > 0 {
				msg = attr.Args[0]
			}
			return &msg
		}
	}
	return nil
}

type modifiers struct {
	abstract   bool
	final      bool
	static     bool
	internal   bool
	xhp        bool
	visibility typing.Visibility
}

func modifiersOf(n DeclNode) modifiers {
	m := modifiers{visibility: typing.Public}
	for _, item := range listOf(n) {
		switch item.tok.Kind {
		case types.ABSTRACT:
			m.abstract = true
		case types.FINAL:
			m.final = true
		case types.STATIC:
			m.static = true
		case types.INTERNAL:
			m.internal = true
			m.visibility = typing.Internal
		case types.XHP:
			m.xhp = true
		case types.PUBLIC:
			m.visibility = typing.Public
		case types.PROTECTED:
			m.visibility = typing.Protected
		case types.PRIVATE:
			m.visibility = typing.Private
		}
	}
	return m
}

func (m modifiers) elementFlags() typing.ElementFlags {
	var f typing.ElementFlags
	if m.abstract {
		f |= typing.FlagAbstract
	}
	if m.final {
		f |= typing.FlagFinal
	}
	if m.static {
		f |= typing.FlagStatic
	}
	return f
}

func (d *DirectDecl) parameter(c []DeclNode) DeclNode {
	prm := param{
		name:       c[4].tok.Text,
		pos:        c[4].tok.Span,
		ty:         tyOr(c[2]),
		variadic:   c[3].isToken(types.ELLIPSIS),
		hasDefault: c[5].kind != dIgnored,
	}
	if c[1].kind == dToken {
		prm.visibility = modifiersOf(c[1]).visibility
	}
	return DeclNode{kind: dParam, val: prm}
}

func paramsOf(n DeclNode) []param {
	var ret []param
	for _, item := range listOf(n) {
		if item.kind == dParam {
			ret = append(ret, item.val.(param))
		}
	}
	return ret
}

func funType(params []param, ret DeclNode, pos types.Span) typing.Ty {
	ty := typing.Ty{Kind: typing.TFun, Pos: pos}
	for _, prm := range params {
		ty.Args = append(ty.Args, prm.ty)
	}
	r := tyOr(ret)
	ty.Ret = &r
	return ty
}

func initType(n DeclNode) typing.Ty {
	switch {
	case n.kind == dString:
		return typing.Prim("string")
	case n.isToken(types.INT):
		return typing.Prim("int")
	case n.isToken(types.FLOAT):
		return typing.Prim("float")
	}
	return typing.ErrorTy()
}

func (d *DirectDecl) declarator(c []DeclNode) DeclNode {
	if c[0].kind != dToken {
		return DeclNode{}
	}
	return DeclNode{kind: dDeclarator, val: declarator{
		name:    c[0].tok.Text,
		pos:     c[0].tok.Span,
		hasInit: c[1].kind != dIgnored,
		initTy:  initType(c[2]),
	}}
}

func declaratorsOf(n DeclNode) []declarator {
	var ret []declarator
	for _, item := range listOf(n) {
		if item.kind == dDeclarator {
			ret = append(ret, item.val.(declarator))
		}
	}
	return ret
}

func (d *DirectDecl) propertyDeclaration(c []DeclNode) DeclNode {
	attrs := attributesOf(c[0])
	mods := modifiersOf(c[1])
	flags := mods.elementFlags()
	for _, attr := range attrs {
		if attr.Name == "__LateInit" {
			flags |= typing.FlagLateInit
		}
	}
	ty := tyOr(c[2])

	m := &classMembers{}
	for _, dr := range declaratorsOf(c[3]) {
		prop := decl.PropDecl{
			Name:       naming.StripVariable(dr.name),
			Pos:        dr.pos,
			Type:       ty,
			Visibility: mods.visibility,
			Flags:      flags,
			HasDefault: dr.hasInit,
			Deprecated: deprecation(attrs),
		}
		if mods.static {
			prop.Name = dr.name
			m.sprops = append(m.sprops, prop)
		} else {
			m.props = append(m.props, prop)
		}
	}
	return members(m)
}

func (d *DirectDecl) classConstDeclaration(c []DeclNode) DeclNode {
	mods := modifiersOf(c[1])
	m := &classMembers{}
	for _, dr := range declaratorsOf(c[4]) {
		ty := dr.initTy
		if c[3].kind == dTy {
			ty = c[3].val.(typing.Ty)
		}
		m.consts = append(m.consts, decl.ClassConstDecl{
			Name:     dr.name,
			Pos:      dr.pos,
			Type:     ty,
			Abstract: mods.abstract || !dr.hasInit,
		})
	}
	return members(m)
}

func (d *DirectDecl) typeConstDeclaration(c []DeclNode) DeclNode {
	if c[4].kind != dToken {
		return DeclNode{}
	}
	tc := decl.TypeconstDecl{
		Name:     c[4].tok.Text,
		Pos:      c[4].tok.Span,
		Abstract: modifiersOf(c[1]).abstract || c[8].kind != dTy,
	}
	if c[6].kind == dTy {
		as := c[6].val.(typing.Ty)
		tc.As = &as
	}
	if c[8].kind == dTy {
		ty := c[8].val.(typing.Ty)
		tc.Type = &ty
	}
	return members(&classMembers{typeconsts: []decl.TypeconstDecl{tc}})
}

func (d *DirectDecl) methodDeclaration(c []DeclNode) DeclNode {
	if c[3].kind != dToken {
		return DeclNode{}
	}
	attrs := attributesOf(c[0])
	mods := modifiersOf(c[1])
	params := paramsOf(c[6])
	tparams := tparamsOf(c[4])

	flags := mods.elementFlags()
	if c[11].isToken(types.SEMICOLON) {
		flags |= typing.FlagAbstract
	}

	method := decl.MethodDecl{
		Name:       c[3].tok.Text,
		Pos:        c[3].tok.Span,
		Type:       genericize(funType(params, c[9], c[3].tok.Span), tparamNames(tparams)),
		Visibility: mods.visibility,
		Flags:      flags,
		Deprecated: deprecation(attrs),
		Where:      wheresOf(c[10]),
		Attributes: attrs,
	}

	m := &classMembers{}
	switch {
	case method.Name == "__construct":
		m.constructor = &method
		for _, prm := range params {
			if prm.visibility == "" {
				continue
			}
			m.props = append(m.props, decl.PropDecl{
				Name:       naming.StripVariable(prm.name),
				Pos:        prm.pos,
				Type:       prm.ty,
				Visibility: prm.visibility,
				Flags:      typing.FlagPromoted,
				HasDefault: true,
			})
		}
	case mods.static:
		m.smethods = append(m.smethods, method)
	default:
		m.methods = append(m.methods, method)
	}
	return members(m)
}

func (d *DirectDecl) xhpAttribute(c []DeclNode) DeclNode {
	if c[1].kind != dToken {
		return DeclNode{}
	}
	return members(&classMembers{props: []decl.PropDecl{{
		Name:       naming.XHPAttribute(c[1].tok.Text),
		Pos:        c[1].tok.Span,
		Type:       tyOr(c[0]),
		Visibility: typing.Public,
		Flags:      typing.FlagXHPAttr,
		HasDefault: c[2].kind != dIgnored,
	}}})
}

func (d *DirectDecl) xhpAttributeDeclaration(n DeclNode) DeclNode {
	m := &classMembers{}
	for _, item := range listOf(n) {
		switch {
		case item.kind == dMembers:
			m.merge(item.val.(*classMembers))
		case item.isToken(types.XHP_CLASS_NAME):
			ty := typing.Apply(d.className(item.tok))
			ty.Pos = item.tok.Span
			m.xhpAttrUses = append(m.xhpAttrUses, ty)
		}
	}
	return members(m)
}

func tparamNames(tparams []typing.Tparam) map[string]bool {
	names := map[string]bool{}
	for _, tp := range tparams {
		names[tp.Name] = true
	}
	return names
}

// genericize turns bare references to type parameters into generics. Type
// parameters are only known once their declaration is reduced, after the
// hints that mention them.
func genericize(ty typing.Ty, names map[string]bool) typing.Ty {
	if len(names) == 0 {
		return ty
	}
	if ty.Kind == typing.TApply && len(ty.Args) == 0 && names[ty.Name] {
		return typing.Ty{Kind: typing.TGeneric, Name: ty.Name, Pos: ty.Pos}
	}
	if len(ty.Args) > 0 {
		args := make([]typing.Ty, len(ty.Args))
		for i, arg := range ty.Args {
			args[i] = genericize(arg, names)
		}
		ty.Args = args
	}
	if ty.Ret != nil {
		ret := genericize(*ty.Ret, names)
		ty.Ret = &ret
	}
	return ty
}

func genericizeAll(tys []typing.Ty, names map[string]bool) []typing.Ty {
	for i := range tys {
		tys[i] = genericize(tys[i], names)
	}
	return tys
}

func genericizeTparams(tparams []typing.Tparam, names map[string]bool) {
	for i := range tparams {
		for j := range tparams[i].Constraints {
			tparams[i].Constraints[j].Ty = genericize(tparams[i].Constraints[j].Ty, names)
		}
	}
}

func genericizeWhere(where []typing.WhereConstraint, names map[string]bool) {
	for i := range where {
		where[i].Left = genericize(where[i].Left, names)
		where[i].Right = genericize(where[i].Right, names)
	}
}

func (d *DirectDecl) classishDeclaration(c []DeclNode) {
	if c[3].kind != dToken {
		return
	}
	mods := modifiersOf(c[1])
	nameTok := c[3].tok

	cls := &decl.ClassDecl{
		Name:       d.className(nameTok),
		Pos:        nameTok.Span,
		Kind:       typing.Class,
		Module:     d.state.module,
		Tparams:    tparamsOf(c[4]),
		Where:      wheresOf(c[9]),
		Extends:    tys(c[6]),
		Implements: tys(c[8]),
		Attributes: attributesOf(c[0]),
	}
	switch c[2].tok.Kind {
	case types.INTERFACE:
		cls.Kind = typing.Interface
	case types.TRAIT:
		cls.Kind = typing.Trait
	}

	if mods.abstract || cls.Kind != typing.Class {
		cls.Flags |= decl.Abstract
	}
	if mods.final {
		cls.Flags |= decl.Final
	}
	if mods.internal {
		cls.Flags |= decl.Internal
	}
	if mods.xhp || nameTok.Kind == types.XHP_CLASS_NAME {
		cls.Flags |= decl.XHP
	}

	if c[10].kind == dMembers {
		m := c[10].val.(*classMembers)
		if cls.Kind == typing.Interface {
			for i := range m.methods {
				m.methods[i].Flags |= typing.FlagAbstract
			}
			for i := range m.smethods {
				m.smethods[i].Flags |= typing.FlagAbstract
			}
		}
		cls.Consts = m.consts
		cls.Typeconsts = m.typeconsts
		cls.Props = m.props
		cls.SProps = m.sprops
		cls.Methods = m.methods
		cls.SMethods = m.smethods
		cls.Constructor = m.constructor
		cls.Uses = m.uses
		cls.ReqExtends = m.reqExtends
		cls.ReqImplements = m.reqImplements
		cls.XHPAttrUses = m.xhpAttrUses
	}

	names := tparamNames(cls.Tparams)
	genericizeTparams(cls.Tparams, names)
	genericizeWhere(cls.Where, names)
	genericizeAll(cls.Extends, names)
	genericizeAll(cls.Implements, names)
	genericizeAll(cls.Uses, names)
	genericizeAll(cls.ReqExtends, names)
	genericizeAll(cls.ReqImplements, names)
	for i := range cls.Consts {
		cls.Consts[i].Type = genericize(cls.Consts[i].Type, names)
	}
	for i := range cls.Props {
		cls.Props[i].Type = genericize(cls.Props[i].Type, names)
	}
	for i := range cls.SProps {
		cls.SProps[i].Type = genericize(cls.SProps[i].Type, names)
	}
	for i := range cls.Methods {
		cls.Methods[i].Type = genericize(cls.Methods[i].Type, names)
		genericizeWhere(cls.Methods[i].Where, names)
	}
	for i := range cls.SMethods {
		cls.SMethods[i].Type = genericize(cls.SMethods[i].Type, names)
	}
	if cls.Constructor != nil {
		cls.Constructor.Type = genericize(cls.Constructor.Type, names)
	}

	d.add(decl.KindClass, cls.Name, decl.Decl{Class: cls})
}

func (d *DirectDecl) enumDeclaration(c []DeclNode) {
	if c[3].kind != dToken {
		return
	}
	name := d.className(c[3].tok)
	cls := &decl.ClassDecl{
		Name:       name,
		Pos:        c[3].tok.Span,
		Kind:       typing.Enum,
		Flags:      decl.Final,
		Module:     d.state.module,
		Attributes: attributesOf(c[0]),
		Enum:       &typing.EnumType{Base: tyOr(c[5])},
	}
	if c[7].kind == dTy {
		constraint := c[7].val.(typing.Ty)
		cls.Enum.Constraint = &constraint
	}
	for _, dr := range declaratorsOf(c[9]) {
		cls.Consts = append(cls.Consts, decl.ClassConstDecl{
			Name: dr.name,
			Pos:  dr.pos,
			Type: typing.Apply(name),
		})
	}
	d.add(decl.KindClass, name, decl.Decl{Class: cls})
}

func (d *DirectDecl) functionDeclaration(c []DeclNode) {
	if c[3].kind != dToken {
		return
	}
	attrs := attributesOf(c[0])
	tparams := tparamsOf(c[4])
	names := tparamNames(tparams)
	genericizeTparams(tparams, names)

	fun := &decl.FunDecl{
		Name:       d.opts.ElaborateName(c[3].tok.Text),
		Pos:        c[3].tok.Span,
		Module:     d.state.module,
		Tparams:    tparams,
		Type:       genericize(funType(paramsOf(c[6]), c[9], c[3].tok.Span), names),
		Deprecated: deprecation(attrs),
		Attributes: attrs,
	}
	if modifiersOf(c[1]).internal {
		fun.Flags |= decl.Internal
	}
	d.add(decl.KindFun, fun.Name, decl.Decl{Fun: fun})
}

func (d *DirectDecl) constDeclaration(c []DeclNode) {
	for _, dr := range declaratorsOf(c[2]) {
		ty := dr.initTy
		if c[1].kind == dTy {
			ty = c[1].val.(typing.Ty)
		}
		name := d.opts.ElaborateName(dr.name)
		d.add(decl.KindConst, name, decl.Decl{Const: &decl.ConstDecl{Name: name, Pos: dr.pos, Type: ty}})
	}
}

func (d *DirectDecl) aliasDeclaration(c []DeclNode) {
	if c[3].kind != dToken {
		return
	}
	tparams := tparamsOf(c[4])
	names := tparamNames(tparams)
	td := &decl.TypedefDecl{
		Name:    d.opts.ElaborateName(c[3].tok.Text),
		Pos:     c[3].tok.Span,
		Module:  d.state.module,
		Tparams: tparams,
		Type:    genericize(tyOr(c[8]), names),
	}
	if c[2].isToken(types.NEWTYPE) {
		td.Flags |= decl.Opaque
	}
	if modifiersOf(c[1]).internal {
		td.Flags |= decl.Internal
	}
	if c[6].kind == dTy {
		constraint := genericize(c[6].val.(typing.Ty), names)
		td.Constraint = &constraint
	}
	d.add(decl.KindTypedef, td.Name, decl.Decl{Typedef: td})
}
