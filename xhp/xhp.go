// Package xhp desugars markup literals into object construction.
//
//	<my:widget foo={1} {...$rest}>{inner()}</my:widget>
//
// becomes
//
//	new my_widget(shape("foo" => 1, "...0" => $rest), vec[inner()], __FILE__, __LINE__)
package xhp

import (
	"fmt"

	"github.com/coreos/pkg/capnslog"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/hackfront/ast"
	"github.com/pontaoski/hackfront/errors"
	"github.com/pontaoski/hackfront/naming"
	"github.com/pontaoski/hackfront/types"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/hackfront", "xhp")

// SymbolCollector is told about every class a rewritten node constructs.
type SymbolCollector interface {
	AddClass(name string)
}

// Rewrite replaces every markup node in prog. A replacement is visited after
// it is substituted, so markup nested in attributes or children is rewritten
// too. Running it again over its own output does nothing.
func Rewrite(prog *ast.Program, refs SymbolCollector) error {
	n := 0
	err := ast.RewriteProgram(*prog, func(e ast.Expr) (ast.Expr, error) {
		x, ok := e.E.(ast.Xml)
		if !ok {
			return e, nil
		}
		n++
		return rewriteNode(e.Pos, x, refs)
	})
	if err != nil {
		return err
	}
	plog.Debugf("rewrote %d markup expressions", n)
	return nil
}

// RewriteExpr is Rewrite for a single expression.
func RewriteExpr(e *ast.Expr, refs SymbolCollector) error {
	return ast.RewriteExpr(e, func(e ast.Expr) (ast.Expr, error) {
		if x, ok := e.E.(ast.Xml); ok {
			return rewriteNode(e.Pos, x, refs)
		}
		return e, nil
	})
}

func internalError(pos types.Pos, format string, args ...interface{}) error {
	return tracerr.Wrap(errors.InternalError{Pass: "xhp", Message: fmt.Sprintf(format, args...), At: pos})
}

func rewriteNode(pos types.Pos, x ast.Xml, refs SymbolCollector) (ast.Expr, error) {
	if x.Tag.Name == "" {
		return ast.Expr{}, internalError(pos, "markup without a tag")
	}

	at := func(e ast.Expr_) ast.Expr {
		return ast.Expr{Pos: pos, E: e}
	}
	key := func(name string) ast.Sid {
		return ast.Sid{Pos: pos, Name: name}
	}

	attrs := ast.Shape{}
	spreads := 0
	for _, attr := range x.Attrs {
		switch a := attr.(type) {
		case ast.XhpSimple:
			if a.Expr == nil {
				return ast.Expr{}, internalError(pos, "attribute %s of <%s> has no value", a.Name.Name, x.Tag.Name)
			}
			attrs = append(attrs, ast.ShapeField{Name: key(a.Name.Name), Value: *a.Expr})
		case ast.XhpSpread:
			attrs = append(attrs, ast.ShapeField{Name: key(fmt.Sprintf("...%d", spreads)), Value: ast.Expr(a)})
			spreads++
		default:
			return ast.Expr{}, internalError(pos, "unexpected attribute %T in <%s>", attr, x.Tag.Name)
		}
	}

	children := ast.ValCollection{Kind: "vec", Elements: x.Children}
	class := naming.MangleXHP(x.Tag.Name)
	refs.AddClass(class)

	return at(ast.New{
		Class: key(class),
		Args: []ast.Expr{
			at(attrs),
			at(children),
			at(ast.Id(key(naming.PseudoFile))),
			at(ast.Id(key(naming.PseudoLine))),
		},
	}), nil
}
