// Package emitter collects the symbols a program refers to and writes them out
// as an LLVM module: one external declaration per symbol plus a JSON table of
// all of them under RefsSymbol.
package emitter

import (
	"encoding/json"

	"github.com/coreos/pkg/capnslog"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"

	"github.com/pontaoski/hackfront/ast"
	"github.com/pontaoski/hackfront/naming"
	"github.com/pontaoski/hackfront/typing"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/hackfront", "emitter")

// RefsSymbol names the global holding the NUL terminated reference table.
const RefsSymbol = "__hack_symbol_refs"

type SymbolRefs struct {
	Classes   typing.SSet
	Functions typing.SSet
	Constants typing.SSet
}

func NewSymbolRefs() SymbolRefs {
	return SymbolRefs{
		Classes:   typing.SSet{},
		Functions: typing.SSet{},
		Constants: typing.SSet{},
	}
}

// refTable is the embedded form of SymbolRefs.
type refTable struct {
	Classes   []string `json:"classes"`
	Functions []string `json:"functions"`
	Constants []string `json:"constants"`
}

func (r SymbolRefs) table() refTable {
	return refTable{
		Classes:   r.Classes.Sorted(),
		Functions: r.Functions.Sorted(),
		Constants: r.Constants.Sorted(),
	}
}

// DecodeRefs parses a table written by Emitter.Module.
func DecodeRefs(data string) (SymbolRefs, error) {
	var t refTable
	if err := json.Unmarshal([]byte(data), &t); err != nil {
		return SymbolRefs{}, err
	}
	return SymbolRefs{
		Classes:   typing.NewSSet(t.Classes...),
		Functions: typing.NewSSet(t.Functions...),
		Constants: typing.NewSSet(t.Constants...),
	}, nil
}

// Emitter is the per-file code generation context. It is not safe for
// concurrent use.
type Emitter struct {
	source string
	refs   SymbolRefs
}

func New(source string) *Emitter {
	return &Emitter{source: source, refs: NewSymbolRefs()}
}

func (e *Emitter) AddClass(name string) {
	e.refs.Classes.Add(name)
}

func (e *Emitter) AddFunction(name string) {
	e.refs.Functions.Add(name)
}

func (e *Emitter) AddConstant(name string) {
	e.refs.Constants.Add(name)
}

func (e *Emitter) Refs() SymbolRefs {
	return e.refs
}

type refRole int

const (
	roleConstant refRole = iota
	roleFunction
	roleClass
)

// classKeywords refer to a class relative to the current one.
var classKeywords = map[string]bool{"self": true, "parent": true, "static": true}

// Collect records every class, function and constant prog names directly.
func (e *Emitter) Collect(prog ast.Program) error {
	// The walker visits a call's callee, or a class constant's class,
	// immediately after the node itself.
	next := roleConstant
	return ast.RewriteProgram(prog, func(x ast.Expr) (ast.Expr, error) {
		role := next
		next = roleConstant

		switch v := x.E.(type) {
		case ast.Call:
			if v.Func != nil {
				if _, ok := v.Func.E.(ast.Id); ok {
					next = roleFunction
				}
			}
		case ast.ClassConst:
			if v.Class != nil {
				if _, ok := v.Class.E.(ast.Id); ok {
					next = roleClass
				}
			}
		case ast.New:
			if !classKeywords[v.Class.Name] {
				e.AddClass(v.Class.Name)
			}
		case ast.Id:
			switch {
			case role == roleFunction:
				e.AddFunction(v.Name)
			case role == roleClass:
				if !classKeywords[v.Name] {
					e.AddClass(v.Name)
				}
			case !naming.IsPseudoConst(v.Name):
				e.AddConstant(v.Name)
			}
		}
		return x, nil
	})
}

func classSymbol(name string) string {
	return "class." + name
}

func constSymbol(name string) string {
	return "const." + name
}

// Module declares every referenced symbol as external and embeds the
// reference table.
func (e *Emitter) Module() (*ir.Module, error) {
	m := ir.NewModule()
	m.SourceFilename = e.source

	for _, name := range e.refs.Classes.Sorted() {
		g := m.NewGlobal(classSymbol(name), types.I8)
		g.Linkage = enum.LinkageExternal
	}
	for _, name := range e.refs.Constants.Sorted() {
		g := m.NewGlobal(constSymbol(name), types.I8)
		g.Linkage = enum.LinkageExternal
	}
	for _, name := range e.refs.Functions.Sorted() {
		m.NewFunc(name, types.Void)
	}

	data, err := json.Marshal(e.refs.table())
	if err != nil {
		return nil, err
	}
	g := m.NewGlobalDef(RefsSymbol, constant.NewCharArray(append(data, 0)))
	g.Immutable = true

	plog.Debugf("%s: %d classes, %d functions, %d constants referenced",
		e.source, len(e.refs.Classes), len(e.refs.Functions), len(e.refs.Constants))
	return m, nil
}
