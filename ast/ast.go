// Package ast is the typed, mutable program representation that passes after
// parsing work on.
package ast

//go:generate sh -c "cd ../tool && go run . ../ast/ast.adt ../ast/ast_gen.go ast"

import "github.com/pontaoski/hackfront/types"

type Program []Def

// Sid is a positioned name.
type Sid struct {
	Pos  types.Pos
	Name string
}

type Expr struct {
	Pos types.Pos
	E   Expr_
}

type Stmt struct {
	Pos types.Pos
	S   Stmt_
}

type Hint struct {
	Pos      types.Pos
	Name     string
	Args     []Hint
	Nullable bool
}

// ShapeField is one "key" => value entry of a shape literal.
type ShapeField struct {
	Name  Sid
	Value Expr
}

type Param struct {
	Name     Sid
	Hint     *Hint
	Variadic bool
	Default  *Expr
}

type FunDef struct {
	Name    Sid
	Tparams []Sid
	Params  []Param
	Ret     *Hint
	Body    []Stmt
}

type Method struct {
	Name       Sid
	Visibility string
	Static     bool
	Abstract   bool
	Tparams    []Sid
	Params     []Param
	Ret        *Hint
	Body       []Stmt
}

type ClassVar struct {
	Name       Sid
	Visibility string
	Static     bool
	Hint       *Hint
	Default    *Expr
	// XHPAttr marks an xhp attribute declaration.
	XHPAttr bool
}

type ClassConstDef struct {
	Name  Sid
	Hint  *Hint
	Value *Expr
}

type ClassDef struct {
	Name       Sid
	Kind       string
	IsXHP      bool
	Tparams    []Sid
	Extends    []Hint
	Implements []Hint
	Uses       []Hint
	Consts     []ClassConstDef
	Vars       []ClassVar
	Methods    []Method
}

type ConstDef struct {
	Name  Sid
	Hint  *Hint
	Value Expr
}

type TypedefDef struct {
	Name   Sid
	Opaque bool
	Hint   Hint
}

func NewExpr(pos types.Pos, e Expr_) Expr {
	return Expr{Pos: pos, E: e}
}
