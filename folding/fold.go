// Package folding builds inheritance-aware class types out of declaration
// summaries.
package folding

import (
	"maps"
	"slices"

	"github.com/coreos/pkg/capnslog"

	"github.com/pontaoski/hackfront/decl"
	"github.com/pontaoski/hackfront/errors"
	"github.com/pontaoski/hackfront/typing"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/hackfront", "folding")

// Provider looks up classes that have already been folded.
type Provider interface {
	Class(name string) (*typing.ClassType, bool)
}

type MapProvider map[string]*typing.ClassType

// Names returns the class names in sorted order.
func (m MapProvider) Names() []string {
	return slices.Sorted(maps.Keys(m))
}

func (m MapProvider) Class(name string) (*typing.ClassType, bool) {
	c, ok := m[name]
	return c, ok
}

type ancestorRef struct {
	ty     typing.Ty
	source typing.SourceType
}

// ancestorsOf lists the direct ancestors of c in folding order.
func ancestorsOf(c *decl.ClassDecl) []ancestorRef {
	var refs []ancestorRef
	add := func(tys []typing.Ty, source typing.SourceType) {
		for _, ty := range tys {
			refs = append(refs, ancestorRef{ty: ty, source: source})
		}
	}
	add(c.Extends, typing.SourceParent)
	add(c.Uses, typing.SourceTrait)
	add(c.Implements, typing.SourceInterface)
	add(c.ReqExtends, typing.SourceReqExtends)
	add(c.ReqImplements, typing.SourceReqImpl)
	add(c.XHPAttrUses, typing.SourceXHPAttr)
	return refs
}

type folder struct {
	decl     *decl.ClassDecl
	ct       *typing.ClassType
	provider Provider
	// skip holds ancestors left out because they close an inheritance
	// cycle.
	skip map[string]bool
	// traitOrigin remembers which used trait supplied a member.
	traitOrigin map[string]string
	owned       map[string]bool
}

// Fold produces the class type of c from its own declaration and the folded
// types of its ancestors. Problems are recorded on the result.
func Fold(c *decl.ClassDecl, p Provider) *typing.ClassType {
	return fold(c, p, nil)
}

func fold(c *decl.ClassDecl, p Provider, skip map[string]bool) *typing.ClassType {
	f := &folder{
		decl:        c,
		ct:          typing.NewClassType(c.Name, c.Kind),
		provider:    p,
		skip:        skip,
		traitOrigin: map[string]string{},
		owned:       map[string]bool{},
	}
	f.header()
	for _, ref := range ancestorsOf(c) {
		f.ancestor(ref)
	}
	f.own()
	f.finish()
	return f.ct
}

func (f *folder) header() {
	c, ct := f.decl, f.ct
	ct.Pos = c.Pos
	ct.Module = c.Module
	ct.Tparams = c.Tparams
	ct.WhereConstraints = c.Where
	ct.Abstract = c.Flags.Has(decl.Abstract)
	ct.Final = c.Flags.Has(decl.Final)
	ct.Internal = c.Flags.Has(decl.Internal)
	ct.HasXHPKeyword = c.Flags.Has(decl.XHP)
	ct.IsXHP = ct.HasXHPKeyword
	ct.EnumType = c.Enum
	ct.Const = c.HasAttribute("__Const")
	ct.SupportDynamicType = c.HasAttribute("__SupportDynamicType")

	if sealed := c.Attribute("__Sealed"); sealed != nil {
		whitelist := typing.NewSSet(sealed.Args...)
		ct.SealedWhitelist = &whitelist
	}

	for _, wc := range c.Where {
		if wc.Left.Kind == typing.TThis && wc.Kind == typing.ConstraintAs {
			ct.ConditionTypes.Add(wc.Right.Name)
		}
	}
}

func (f *folder) ancestor(ref ancestorRef) {
	ct := f.ct
	name := ref.ty.Name
	if f.skip[name] {
		return
	}

	switch ref.source {
	case typing.SourceParent, typing.SourceTrait, typing.SourceInterface:
		ct.Extends.Add(name)
		ct.Ancestors[name] = ref.ty
	case typing.SourceReqExtends, typing.SourceReqImpl:
		ct.ReqAncestors = append(ct.ReqAncestors, typing.Requirement{Pos: ref.ty.Pos, Ty: ref.ty})
		if ref.source == typing.SourceReqExtends {
			ct.ReqAncestorsExtends.Add(name)
		}
	case typing.SourceXHPAttr:
		ct.XHPAttrDeps.Add(name)
	}

	anc, ok := f.provider.Class(name)
	if !ok {
		ct.AddError(errors.NewUnboundAncestor(ct.Name, name, ref.ty.Pos))
		return
	}

	subst, ok := typing.MakeSubst(anc.Tparams, ref.ty.Args)
	if !ok {
		ct.AddError(errors.NewTypeArityMismatch(name, len(anc.Tparams), len(ref.ty.Args), ref.ty.Pos))
	}

	switch ref.source {
	case typing.SourceReqImpl:
		return
	case typing.SourceXHPAttr:
		ct.IsXHP = true
		for _, prop := range slices.Sorted(maps.Keys(anc.Props)) {
			el := anc.Props[prop]
			if _, exists := ct.Props[prop]; !exists && el.Flags.Has(typing.FlagXHPAttr) {
				ct.Props[prop] = el
			}
		}
		return
	}

	viaReq := ref.source == typing.SourceReqExtends
	if _, exists := ct.Substs[name]; !exists {
		ct.Substs[name] = typing.SubstContext{Subst: subst, ClassContext: ct.Name, FromReqExtends: viaReq}
	}
	for _, gname := range slices.Sorted(maps.Keys(anc.Substs)) {
		if _, exists := ct.Substs[gname]; !exists {
			ct.Substs[gname] = anc.Substs[gname].Through(subst, viaReq)
		}
	}

	if viaReq {
		for gname := range anc.Ancestors {
			ct.ReqAncestorsExtends.Add(gname)
		}
		return
	}

	for _, gname := range slices.Sorted(maps.Keys(anc.Ancestors)) {
		if _, exists := ct.Ancestors[gname]; !exists {
			ct.Ancestors[gname] = typing.Instantiate(subst, anc.Ancestors[gname])
		}
	}
	for _, req := range anc.ReqAncestors {
		ct.ReqAncestors = append(ct.ReqAncestors, typing.Requirement{Pos: req.Pos, Ty: typing.Instantiate(subst, req.Ty)})
	}
	for gname := range anc.ReqAncestorsExtends {
		ct.ReqAncestorsExtends.Add(gname)
	}
	for dep := range anc.XHPAttrDeps {
		ct.XHPAttrDeps.Add(dep)
	}

	if ref.source == typing.SourceParent {
		ct.IsXHP = ct.IsXHP || anc.IsXHP
		ct.SupportDynamicType = ct.SupportDynamicType || anc.SupportDynamicType
		if anc.Construct.Consistent == typing.ConsistentConstruct {
			ct.Construct.Consistent = typing.ConsistentConstruct
		}
	}
	if ref.source != typing.SourceInterface {
		for member := range anc.DeferredInitMembers {
			ct.DeferredInitMembers.Add(member)
		}
	}

	from := name
	inherit(f, "const", ct.Consts, anc.Consts, func(c typing.ClassConst) string { return c.Origin }, from, ref.source)
	inherit(f, "typeconst", ct.Typeconsts, anc.Typeconsts, func(c typing.TypeconstType) string { return c.Origin }, from, ref.source)
	inherit(f, "prop", ct.Props, anc.Props, elementOrigin, from, ref.source)
	inherit(f, "sprop", ct.SProps, anc.SProps, elementOrigin, from, ref.source)
	inherit(f, "method", ct.Methods, anc.Methods, elementOrigin, from, ref.source)
	inherit(f, "smethod", ct.SMethods, anc.SMethods, elementOrigin, from, ref.source)

	if ctor := anc.Construct.Element; ctor != nil {
		switch {
		case ref.source == typing.SourceTrait:
			ct.Construct.Element = ctor
		case ct.Construct.Element == nil && ref.source == typing.SourceParent:
			ct.Construct.Element = ctor
		}
	}
}

func elementOrigin(e typing.Element) string {
	return e.Origin
}

// inherit merges one ancestor's members into dst. Parents and interfaces only
// fill gaps; traits replace what a parent supplied, and two traits supplying
// different definitions conflict.
func inherit[V any](f *folder, kind string, dst, src map[string]V, origin func(V) string, from string, source typing.SourceType) {
	for _, name := range slices.Sorted(maps.Keys(src)) {
		el := src[name]
		existing, exists := dst[name]
		if source != typing.SourceTrait {
			if !exists {
				dst[name] = el
			}
			continue
		}

		key := kind + " " + name
		if prev, ok := f.traitOrigin[key]; ok && exists && origin(existing) != origin(el) {
			f.ct.AddError(errors.NewTraitConflict(name, prev, from, f.decl.Pos))
			continue
		}
		dst[name] = el
		f.traitOrigin[key] = from
	}
}

func (f *folder) claim(kind, name string) bool {
	key := kind + " " + name
	if f.owned[key] {
		f.ct.AddError(errors.NewDuplicateMember(f.ct.Name, name, f.decl.Pos))
		return false
	}
	f.owned[key] = true
	return true
}

func (f *folder) prop(p decl.PropDecl) typing.Element {
	return typing.Element{
		Flags:      p.Flags,
		Origin:     f.ct.Name,
		Visibility: p.Visibility,
		Deprecated: p.Deprecated,
		Type:       p.Type,
		Pos:        p.Pos,
	}
}

func (f *folder) method(m decl.MethodDecl) typing.Element {
	return typing.Element{
		Flags:      m.Flags,
		Origin:     f.ct.Name,
		Visibility: m.Visibility,
		Deprecated: m.Deprecated,
		Type:       m.Type,
		Pos:        m.Pos,
	}
}

// own adds the class's own members, which win over anything inherited.
func (f *folder) own() {
	c, ct := f.decl, f.ct

	for _, k := range c.Consts {
		if f.claim("const", k.Name) {
			ct.Consts[k.Name] = typing.ClassConst{Origin: ct.Name, Abstract: k.Abstract, Type: k.Type, Pos: k.Pos}
		}
	}
	for _, tc := range c.Typeconsts {
		if f.claim("typeconst", tc.Name) {
			ct.Typeconsts[tc.Name] = typing.TypeconstType{Origin: ct.Name, Abstract: tc.Abstract, As: tc.As, Type: tc.Type, Pos: tc.Pos}
		}
	}
	for _, p := range c.Props {
		if f.claim("prop", p.Name) {
			ct.Props[p.Name] = f.prop(p)
			if needsInit(p) {
				ct.DeferredInitMembers.Add(p.Name)
			}
		}
	}
	for _, p := range c.SProps {
		if f.claim("sprop", p.Name) {
			ct.SProps[p.Name] = f.prop(p)
		}
	}
	for _, m := range c.Methods {
		if f.claim("method", m.Name) {
			ct.Methods[m.Name] = f.method(m)
		}
	}
	for _, m := range c.SMethods {
		if f.claim("smethod", m.Name) {
			ct.SMethods[m.Name] = f.method(m)
		}
	}
	if c.Constructor != nil {
		ctor := f.method(*c.Constructor)
		ct.Construct.Element = &ctor
	}
}

// needsInit reports whether a property has to be set by the constructor.
func needsInit(p decl.PropDecl) bool {
	if p.HasDefault || p.Flags.Has(typing.FlagLateInit) || p.Flags.Has(typing.FlagXHPAttr) {
		return false
	}
	switch p.Type.Kind {
	case typing.TOption, typing.TAny:
		return false
	case typing.TPrim:
		switch p.Type.Name {
		case "mixed", "null", "dynamic":
			return false
		}
	}
	return true
}

func (f *folder) finish() {
	ct := f.ct
	switch {
	case f.decl.HasAttribute("__ConsistentConstruct"):
		ct.Construct.Consistent = typing.ConsistentConstruct
	case ct.Construct.Consistent == typing.ConsistentConstruct:
	case ct.Final:
		ct.Construct.Consistent = typing.FinalClass
	}
	ct.NeedInit = len(ct.DeferredInitMembers) > 0
}
