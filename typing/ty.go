package typing

import (
	"fmt"
	"strings"

	"github.com/pontaoski/hackfront/types"
)

type TyKind string

const (
	TApply    TyKind = "apply"
	TGeneric  TyKind = "generic"
	TPrim     TyKind = "prim"
	TOption   TyKind = "option"
	TTuple    TyKind = "tuple"
	TFun      TyKind = "fun"
	TThis     TyKind = "this"
	TAny      TyKind = "any"
	TXHPClass TyKind = "xhp_class"
)

// Ty is a declared, unresolved type. Args holds type arguments for TApply,
// elements for TTuple, the wrapped type for TOption and parameters for TFun.
type Ty struct {
	Kind TyKind     `yaml:"kind"`
	Name string     `yaml:"name,omitempty"`
	Args []Ty       `yaml:"args,omitempty"`
	Ret  *Ty        `yaml:"ret,omitempty"`
	Pos  types.Span `yaml:"pos"`
}

var prims = map[string]bool{
	"int": true, "float": true, "string": true, "bool": true, "num": true,
	"arraykey": true, "void": true, "mixed": true, "nothing": true,
	"dynamic": true, "noreturn": true, "null": true, "nonnull": true,
	"resource": true,
}

func IsPrim(name string) bool {
	return prims[strings.ToLower(name)]
}

func Apply(name string, args ...Ty) Ty {
	return Ty{Kind: TApply, Name: name, Args: args}
}

func Generic(name string) Ty {
	return Ty{Kind: TGeneric, Name: name}
}

func Prim(name string) Ty {
	return Ty{Kind: TPrim, Name: name}
}

// ErrorTy stands in for type arguments that could not be determined.
func ErrorTy() Ty {
	return Ty{Kind: TAny, Name: "_"}
}

func (t Ty) String() string {
	switch t.Kind {
	case TOption:
		if len(t.Args) == 1 {
			return "?" + t.Args[0].String()
		}
		return "?_"
	case TTuple:
		return "(" + joinTys(t.Args) + ")"
	case TFun:
		ret := "void"
		if t.Ret != nil {
			ret = t.Ret.String()
		}
		return fmt.Sprintf("(function(%s): %s)", joinTys(t.Args), ret)
	case TApply:
		if len(t.Args) > 0 {
			return t.Name + "<" + joinTys(t.Args) + ">"
		}
	}
	return t.Name
}

func joinTys(tys []Ty) string {
	var parts []string
	for _, ty := range tys {
		parts = append(parts, ty.String())
	}
	return strings.Join(parts, ", ")
}

type Variance string

const (
	Invariant     Variance = "invariant"
	Covariant     Variance = "covariant"
	Contravariant Variance = "contravariant"
)

type ConstraintKind string

const (
	ConstraintAs    ConstraintKind = "as"
	ConstraintSuper ConstraintKind = "super"
	ConstraintEq    ConstraintKind = "eq"
)

type Constraint struct {
	Kind ConstraintKind `yaml:"kind"`
	Ty   Ty             `yaml:"ty"`
}

type Tparam struct {
	Variance    Variance     `yaml:"variance"`
	Name        string       `yaml:"name"`
	Pos         types.Span   `yaml:"pos"`
	Constraints []Constraint `yaml:"constraints,omitempty"`
}

type WhereConstraint struct {
	Left  Ty             `yaml:"left"`
	Kind  ConstraintKind `yaml:"kind"`
	Right Ty             `yaml:"right"`
}
