// Package decl is the declarations-only summary of a file: the top-level
// symbols and their shallow signatures, with no type resolved.
package decl

import (
	"gopkg.in/yaml.v2"

	"github.com/pontaoski/hackfront/types"
	"github.com/pontaoski/hackfront/typing"
)

type Kind string

const (
	KindClass   Kind = "class"
	KindFun     Kind = "fun"
	KindConst   Kind = "const"
	KindTypedef Kind = "typedef"
	KindModule  Kind = "module"
)

// Flags is the declaration flag bitset.
type Flags uint16

const (
	Abstract Flags = 1 << iota
	Final
	Internal
	XHP
	Opaque
	Static
)

func (f Flags) Has(g Flags) bool {
	return f&g != 0
}

type Attribute struct {
	Name string     `yaml:"name"`
	Args []string   `yaml:"args,omitempty"`
	Pos  types.Span `yaml:"pos"`
}

// Decl is one top-level symbol. Exactly one of the kind-specific fields is
// set, matching Kind.
type Decl struct {
	Kind    Kind         `yaml:"kind"`
	Class   *ClassDecl   `yaml:"class,omitempty"`
	Fun     *FunDecl     `yaml:"fun,omitempty"`
	Const   *ConstDecl   `yaml:"const,omitempty"`
	Typedef *TypedefDecl `yaml:"typedef,omitempty"`
	Module  *ModuleDecl  `yaml:"module,omitempty"`
}

func (d Decl) Name() string {
	switch d.Kind {
	case KindClass:
		return d.Class.Name
	case KindFun:
		return d.Fun.Name
	case KindConst:
		return d.Const.Name
	case KindTypedef:
		return d.Typedef.Name
	case KindModule:
		return d.Module.Name
	}
	return ""
}

type NamedDecl struct {
	Name string `yaml:"name"`
	Decl Decl   `yaml:"decl"`
}

type ClassDecl struct {
	Name          string                   `yaml:"name"`
	Pos           types.Span               `yaml:"pos"`
	Kind          typing.ClassishKind      `yaml:"kind"`
	Flags         Flags                    `yaml:"flags"`
	Module        string                   `yaml:"module,omitempty"`
	Tparams       []typing.Tparam          `yaml:"tparams,omitempty"`
	Where         []typing.WhereConstraint `yaml:"where,omitempty"`
	Extends       []typing.Ty              `yaml:"extends,omitempty"`
	Implements    []typing.Ty              `yaml:"implements,omitempty"`
	Uses          []typing.Ty              `yaml:"uses,omitempty"`
	ReqExtends    []typing.Ty              `yaml:"req_extends,omitempty"`
	ReqImplements []typing.Ty              `yaml:"req_implements,omitempty"`
	XHPAttrUses   []typing.Ty              `yaml:"xhp_attr_uses,omitempty"`
	Attributes    []Attribute              `yaml:"attributes,omitempty"`
	Enum          *typing.EnumType         `yaml:"enum,omitempty"`

	Consts      []ClassConstDecl `yaml:"consts,omitempty"`
	Typeconsts  []TypeconstDecl  `yaml:"typeconsts,omitempty"`
	Props       []PropDecl       `yaml:"props,omitempty"`
	SProps      []PropDecl       `yaml:"sprops,omitempty"`
	Methods     []MethodDecl     `yaml:"methods,omitempty"`
	SMethods    []MethodDecl     `yaml:"smethods,omitempty"`
	Constructor *MethodDecl      `yaml:"constructor,omitempty"`
}

func (c *ClassDecl) HasAttribute(name string) bool {
	return findAttribute(c.Attributes, name) != nil
}

func (c *ClassDecl) Attribute(name string) *Attribute {
	return findAttribute(c.Attributes, name)
}

func findAttribute(attrs []Attribute, name string) *Attribute {
	for i := range attrs {
		if attrs[i].Name == name {
			return &attrs[i]
		}
	}
	return nil
}

type ClassConstDecl struct {
	Name     string     `yaml:"name"`
	Pos      types.Span `yaml:"pos"`
	Type     typing.Ty  `yaml:"type"`
	Abstract bool       `yaml:"abstract"`
}

type TypeconstDecl struct {
	Name     string     `yaml:"name"`
	Pos      types.Span `yaml:"pos"`
	Abstract bool       `yaml:"abstract"`
	As       *typing.Ty `yaml:"as,omitempty"`
	Type     *typing.Ty `yaml:"type,omitempty"`
}

type PropDecl struct {
	Name       string              `yaml:"name"`
	Pos        types.Span          `yaml:"pos"`
	Type       typing.Ty           `yaml:"type"`
	Visibility typing.Visibility   `yaml:"visibility"`
	Flags      typing.ElementFlags `yaml:"flags"`
	HasDefault bool                `yaml:"has_default"`
	Deprecated *string             `yaml:"deprecated,omitempty"`
}

type MethodDecl struct {
	Name       string                   `yaml:"name"`
	Pos        types.Span               `yaml:"pos"`
	Type       typing.Ty                `yaml:"type"`
	Visibility typing.Visibility        `yaml:"visibility"`
	Flags      typing.ElementFlags      `yaml:"flags"`
	Deprecated *string                  `yaml:"deprecated,omitempty"`
	Where      []typing.WhereConstraint `yaml:"where,omitempty"`
	Attributes []Attribute              `yaml:"attributes,omitempty"`
}

type FunDecl struct {
	Name       string          `yaml:"name"`
	Pos        types.Span      `yaml:"pos"`
	Flags      Flags           `yaml:"flags"`
	Module     string          `yaml:"module,omitempty"`
	Tparams    []typing.Tparam `yaml:"tparams,omitempty"`
	Type       typing.Ty       `yaml:"type"`
	Deprecated *string         `yaml:"deprecated,omitempty"`
	Attributes []Attribute     `yaml:"attributes,omitempty"`
}

type ConstDecl struct {
	Name string     `yaml:"name"`
	Pos  types.Span `yaml:"pos"`
	Type typing.Ty  `yaml:"type"`
}

type TypedefDecl struct {
	Name       string          `yaml:"name"`
	Pos        types.Span      `yaml:"pos"`
	Flags      Flags           `yaml:"flags"`
	Module     string          `yaml:"module,omitempty"`
	Tparams    []typing.Tparam `yaml:"tparams,omitempty"`
	Constraint *typing.Ty      `yaml:"constraint,omitempty"`
	Type       typing.Ty       `yaml:"type"`
}

type ModuleDecl struct {
	Name string     `yaml:"name"`
	Pos  types.Span `yaml:"pos"`
}

// ParsedFile is the declaration summary of one file.
type ParsedFile struct {
	Mode                    *types.Mode `yaml:"mode,omitempty"`
	FileAttributes          []Attribute `yaml:"file_attributes,omitempty"`
	Decls                   []NamedDecl `yaml:"decls,omitempty"`
	HasFirstPassParseErrors bool        `yaml:"has_first_pass_parse_errors"`
}

// Classes returns the class declarations of the file in source order.
func (f *ParsedFile) Classes() []*ClassDecl {
	var ret []*ClassDecl
	for _, d := range f.Decls {
		if d.Decl.Kind == KindClass {
			ret = append(ret, d.Decl.Class)
		}
	}
	return ret
}

func (f *ParsedFile) FileAttribute(name string) *Attribute {
	return findAttribute(f.FileAttributes, name)
}

func MarshalParsedFile(f *ParsedFile) ([]byte, error) {
	return yaml.Marshal(f)
}

func UnmarshalParsedFile(data []byte) (*ParsedFile, error) {
	var f ParsedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}
