package typing

import (
	"sort"

	"gopkg.in/yaml.v2"

	"github.com/pontaoski/hackfront/errors"
	"github.com/pontaoski/hackfront/types"
)

type ClassishKind string

const (
	Class     ClassishKind = "class"
	Interface ClassishKind = "interface"
	Trait     ClassishKind = "trait"
	Enum      ClassishKind = "enum"
)

type Visibility string

const (
	Public    Visibility = "public"
	Protected Visibility = "protected"
	Private   Visibility = "private"
	Internal  Visibility = "internal"
)

// ElementFlags is the member flag bitset.
type ElementFlags uint16

const (
	FlagAbstract ElementFlags = 1 << iota
	FlagFinal
	FlagStatic
	FlagLateInit
	FlagConst
	FlagSynthesized
	FlagXHPAttr
	FlagNeedsInit
	FlagPromoted
)

func (f ElementFlags) Has(g ElementFlags) bool {
	return f&g != 0
}

// SourceType records how an ancestor relates to the class being folded.
type SourceType string

const (
	SourceChild       SourceType = "child"
	SourceParent      SourceType = "parent"
	SourceTrait       SourceType = "trait"
	SourceXHPAttr     SourceType = "xhp_attr"
	SourceInterface   SourceType = "interface"
	SourceReqImpl     SourceType = "req_impl"
	SourceReqExtends  SourceType = "req_extends"
	SourceIncludeEnum SourceType = "included_enum"
)

// ConsistentKind is the single marker for constructor consistency.
type ConsistentKind string

const (
	Inconsistent        ConsistentKind = "inconsistent"
	ConsistentConstruct ConsistentKind = "consistent_construct"
	FinalClass          ConsistentKind = "final_class"
)

type Element struct {
	Flags      ElementFlags `yaml:"flags"`
	Origin     string       `yaml:"origin"`
	Visibility Visibility   `yaml:"visibility"`
	Deprecated *string      `yaml:"deprecated,omitempty"`
	Type       Ty           `yaml:"type"`
	Pos        types.Span   `yaml:"pos"`
}

type ClassConst struct {
	Origin   string     `yaml:"origin"`
	Abstract bool       `yaml:"abstract"`
	Type     Ty         `yaml:"type"`
	Pos      types.Span `yaml:"pos"`
}

type TypeconstType struct {
	Origin   string     `yaml:"origin"`
	Abstract bool       `yaml:"abstract"`
	As       *Ty        `yaml:"as,omitempty"`
	Type     *Ty        `yaml:"type,omitempty"`
	Pos      types.Span `yaml:"pos"`
}

type Construct struct {
	Element    *Element       `yaml:"element,omitempty"`
	Consistent ConsistentKind `yaml:"consistent"`
}

type Requirement struct {
	Pos types.Span `yaml:"pos"`
	Ty  Ty         `yaml:"ty"`
}

type EnumType struct {
	Base       Ty  `yaml:"base"`
	Constraint *Ty `yaml:"constraint,omitempty"`
}

// SSet is a string set. It encodes as a sorted sequence.
type SSet map[string]struct{}

func NewSSet(items ...string) SSet {
	s := SSet{}
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

func (s SSet) Add(item string) {
	s[item] = struct{}{}
}

func (s SSet) Has(item string) bool {
	_, ok := s[item]
	return ok
}

func (s SSet) Sorted() []string {
	ret := make([]string, 0, len(s))
	for item := range s {
		ret = append(ret, item)
	}
	sort.Strings(ret)
	return ret
}

func (s SSet) MarshalYAML() (interface{}, error) {
	return s.Sorted(), nil
}

func (s *SSet) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var items []string
	if err := unmarshal(&items); err != nil {
		return err
	}
	*s = NewSSet(items...)
	return nil
}

// ClassType is the folded, inheritance-aware view of one class. It is built
// once by folding and not modified afterwards.
type ClassType struct {
	NeedInit           bool `yaml:"need_init"`
	Abstract           bool `yaml:"abstract"`
	Final              bool `yaml:"final"`
	Const              bool `yaml:"const"`
	Internal           bool `yaml:"internal"`
	IsXHP              bool `yaml:"is_xhp"`
	HasXHPKeyword      bool `yaml:"has_xhp_keyword"`
	SupportDynamicType bool `yaml:"support_dynamic_type"`

	DeferredInitMembers SSet         `yaml:"deferred_init_members"`
	Kind                ClassishKind `yaml:"kind"`
	Module              string       `yaml:"module,omitempty"`
	Name                string       `yaml:"name"`
	Pos                 types.Span   `yaml:"pos"`

	Tparams          []Tparam          `yaml:"tparams,omitempty"`
	WhereConstraints []WhereConstraint `yaml:"where_constraints,omitempty"`

	// Substs maps an ancestor name to the context for members that
	// originate in that ancestor.
	Substs     map[string]SubstContext  `yaml:"substs"`
	Consts     map[string]ClassConst    `yaml:"consts"`
	Typeconsts map[string]TypeconstType `yaml:"typeconsts"`
	Props      map[string]Element       `yaml:"props"`
	SProps     map[string]Element       `yaml:"sprops"`
	Methods    map[string]Element       `yaml:"methods"`
	SMethods   map[string]Element       `yaml:"smethods"`
	Construct  Construct                `yaml:"construct"`
	Ancestors  map[string]Ty            `yaml:"ancestors"`

	ReqAncestors        []Requirement `yaml:"req_ancestors,omitempty"`
	ReqAncestorsExtends SSet          `yaml:"req_ancestors_extends"`
	Extends             SSet          `yaml:"extends"`
	SealedWhitelist     *SSet         `yaml:"sealed_whitelist,omitempty"`
	XHPAttrDeps         SSet          `yaml:"xhp_attr_deps"`
	EnumType            *EnumType     `yaml:"enum_type,omitempty"`
	ConditionTypes      SSet          `yaml:"condition_types"`

	Errors []errors.DeclError `yaml:"errors,omitempty"`
}

func NewClassType(name string, kind ClassishKind) *ClassType {
	return &ClassType{
		Name:                name,
		Kind:                kind,
		DeferredInitMembers: SSet{},
		Substs:              map[string]SubstContext{},
		Consts:              map[string]ClassConst{},
		Typeconsts:          map[string]TypeconstType{},
		Props:               map[string]Element{},
		SProps:              map[string]Element{},
		Methods:             map[string]Element{},
		SMethods:            map[string]Element{},
		Construct:           Construct{Consistent: Inconsistent},
		Ancestors:           map[string]Ty{},
		ReqAncestorsExtends: SSet{},
		Extends:             SSet{},
		XHPAttrDeps:         SSet{},
		ConditionTypes:      SSet{},
	}
}

// MemberType views an element's declared type from this class, using the
// substitution context of the ancestor the element came from.
func (c *ClassType) MemberType(e Element) Ty {
	if e.Origin == c.Name {
		return e.Type
	}
	sc, ok := c.Substs[e.Origin]
	if !ok {
		return e.Type
	}
	return Instantiate(sc.Subst, e.Type)
}

func (c *ClassType) AddError(err errors.DeclError) {
	c.Errors = append(c.Errors, err)
}

func MarshalClassType(c *ClassType) ([]byte, error) {
	return yaml.Marshal(c)
}

func UnmarshalClassType(data []byte) (*ClassType, error) {
	var c ClassType
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
