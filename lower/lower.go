// Package lower turns a concrete syntax tree into the typed AST.
package lower

import (
	"regexp"
	"strings"

	"github.com/ztrue/tracerr"

	"github.com/pontaoski/hackfront/ast"
	"github.com/pontaoski/hackfront/decl"
	"github.com/pontaoski/hackfront/errors"
	"github.com/pontaoski/hackfront/lexer"
	"github.com/pontaoski/hackfront/naming"
	"github.com/pontaoski/hackfront/syntax"
	"github.com/pontaoski/hackfront/types"
)

type lowerer struct {
	src  *syntax.SourceText
	opts *decl.Options
}

// Program lowers a parsed file. Trees with syntax errors are refused; a tree
// whose shape does not match its node kinds is an internal error.
func Program(tree *syntax.Tree, opts *decl.Options) (ast.Program, error) {
	if len(tree.Errors) > 0 {
		return nil, tracerr.Wrap(tree.Errors[0])
	}
	if tree.Root == nil || tree.Root.Kind != syntax.Script {
		return nil, tracerr.Wrap(errors.InternalError{Pass: "lower", Message: "tree has no script root"})
	}

	l := &lowerer{src: tree.Source, opts: opts}
	var prog ast.Program
	for _, n := range tree.Root.Child(1).Items() {
		defs, err := l.declaration(n)
		if err != nil {
			return nil, err
		}
		prog = append(prog, defs...)
	}
	return prog, nil
}

func (l *lowerer) pos(n *syntax.Node) types.Pos {
	return l.src.Pos(n.Span)
}

func (l *lowerer) sid(n *syntax.Node) ast.Sid {
	return ast.Sid{Pos: l.pos(n), Name: n.Token.Text}
}

func (l *lowerer) internal(n *syntax.Node, message string) error {
	return tracerr.Wrap(errors.InternalError{Pass: "lower", Message: message + " (" + n.Kind.String() + ")", At: l.pos(n)})
}

// className resolves a class reference the way the declaration pass names
// the class it refers to.
func (l *lowerer) className(tok types.Token) string {
	switch tok.Kind {
	case types.XHP_ELEMENT_NAME, types.XHP_CLASS_NAME:
		if l.opts != nil && l.opts.DisableXHPElementMangling {
			return tok.Text
		}
		return naming.MangleXHP(tok.Text)
	}
	return l.opts.ElaborateName(tok.Text)
}

func (l *lowerer) declaration(n *syntax.Node) ([]ast.Def, error) {
	switch n.Kind {
	case syntax.Missing, syntax.Error, syntax.FileAttributeSpecification:
		return nil, nil
	case syntax.ClassishDeclaration:
		c, err := l.class(n)
		if err != nil {
			return nil, err
		}
		return []ast.Def{ast.Class(c)}, nil
	case syntax.EnumDeclaration:
		c, err := l.enum(n)
		if err != nil {
			return nil, err
		}
		return []ast.Def{ast.Class(c)}, nil
	case syntax.FunctionDeclaration:
		f, err := l.function(n)
		if err != nil {
			return nil, err
		}
		return []ast.Def{ast.Fun(f)}, nil
	case syntax.ConstDeclaration:
		return l.constants(n)
	case syntax.AliasDeclaration:
		return []ast.Def{ast.Typedef(ast.TypedefDef{
			Name:   l.sid(n.Child(3)),
			Opaque: n.Child(2).IsToken(types.NEWTYPE),
			Hint:   l.hint(n.Child(8)),
		})}, nil
	case syntax.ModuleDeclaration:
		return []ast.Def{ast.Module(l.sid(n.Child(2)))}, nil
	}

	s, ok, err := l.statement(n)
	if err != nil || !ok {
		return nil, err
	}
	return []ast.Def{ast.TopStmt(s)}, nil
}

func (l *lowerer) tparams(n *syntax.Node) []ast.Sid {
	if n.IsMissing() {
		return nil
	}
	var ret []ast.Sid
	for _, tp := range n.Child(1).Items() {
		ret = append(ret, l.sid(tp.Child(1)))
	}
	return ret
}

func (l *lowerer) hint(n *syntax.Node) ast.Hint {
	switch n.Kind {
	case syntax.SimpleTypeSpecifier:
		tok := n.Child(0).Token
		name := tok.Text
		if tok.Kind == types.XHP_CLASS_NAME {
			name = l.className(tok)
		}
		return ast.Hint{Pos: l.pos(n), Name: name}
	case syntax.GenericTypeSpecifier:
		h := ast.Hint{Pos: l.pos(n), Name: n.Child(0).Token.Text}
		for _, arg := range n.Child(1).Child(1).Items() {
			h.Args = append(h.Args, l.hint(arg))
		}
		return h
	case syntax.NullableTypeSpecifier:
		h := l.hint(n.Child(1))
		h.Pos = l.pos(n)
		h.Nullable = true
		return h
	case syntax.TupleTypeSpecifier:
		h := ast.Hint{Pos: l.pos(n), Name: "tuple"}
		for _, elem := range n.Child(1).Items() {
			h.Args = append(h.Args, l.hint(elem))
		}
		return h
	}
	return ast.Hint{Pos: l.pos(n), Name: "_"}
}

func (l *lowerer) optHint(n *syntax.Node) *ast.Hint {
	if n.IsMissing() {
		return nil
	}
	h := l.hint(n)
	return &h
}

func (l *lowerer) hints(n *syntax.Node) []ast.Hint {
	var ret []ast.Hint
	for _, item := range n.Items() {
		ret = append(ret, l.hint(item))
	}
	return ret
}

func (l *lowerer) params(n *syntax.Node) ([]ast.Param, error) {
	var ret []ast.Param
	for _, p := range n.Items() {
		def, err := l.optExpr(p.Child(6))
		if err != nil {
			return nil, err
		}
		ret = append(ret, ast.Param{
			Name:     l.sid(p.Child(4)),
			Hint:     l.optHint(p.Child(2)),
			Variadic: !p.Child(3).IsMissing(),
			Default:  def,
		})
	}
	return ret, nil
}

func (l *lowerer) body(n *syntax.Node) ([]ast.Stmt, error) {
	if n.Kind != syntax.CompoundStatement {
		return nil, nil
	}
	return l.statements(n.Child(1))
}

// FunctionDeclaration and MethodishDeclaration share a layout.
func (l *lowerer) function(n *syntax.Node) (ast.FunDef, error) {
	params, err := l.params(n.Child(6))
	if err != nil {
		return ast.FunDef{}, err
	}
	body, err := l.body(n.Child(11))
	if err != nil {
		return ast.FunDef{}, err
	}
	return ast.FunDef{
		Name:    l.sid(n.Child(3)),
		Tparams: l.tparams(n.Child(4)),
		Params:  params,
		Ret:     l.optHint(n.Child(9)),
		Body:    body,
	}, nil
}

type modifiers struct {
	visibility string
	static     bool
	abstract   bool
	xhp        bool
}

func modifiersOf(n *syntax.Node) modifiers {
	m := modifiers{visibility: "public"}
	for _, tok := range n.Items() {
		switch tok.Token.Kind {
		case types.PUBLIC, types.PROTECTED, types.PRIVATE, types.INTERNAL:
			m.visibility = tok.Token.Text
		case types.STATIC:
			m.static = true
		case types.ABSTRACT:
			m.abstract = true
		case types.XHP:
			m.xhp = true
		}
	}
	return m
}

func (l *lowerer) class(n *syntax.Node) (ast.ClassDef, error) {
	mods := modifiersOf(n.Child(1))
	nameTok := n.Child(3).Token
	c := ast.ClassDef{
		Name:       ast.Sid{Pos: l.pos(n.Child(3)), Name: l.className(nameTok)},
		Kind:       n.Child(2).Token.Text,
		IsXHP:      mods.xhp || nameTok.Kind == types.XHP_CLASS_NAME,
		Tparams:    l.tparams(n.Child(4)),
		Extends:    l.hints(n.Child(6)),
		Implements: l.hints(n.Child(8)),
	}

	for _, elt := range n.Child(10).Child(1).Items() {
		if err := l.classElement(&c, elt); err != nil {
			return ast.ClassDef{}, err
		}
	}
	return c, nil
}

func (l *lowerer) classElement(c *ast.ClassDef, n *syntax.Node) error {
	switch n.Kind {
	case syntax.TraitUse:
		c.Uses = append(c.Uses, l.hints(n.Child(1))...)
	case syntax.MethodishDeclaration:
		f, err := l.function(n)
		if err != nil {
			return err
		}
		mods := modifiersOf(n.Child(1))
		c.Methods = append(c.Methods, ast.Method{
			Name:       f.Name,
			Visibility: mods.visibility,
			Static:     mods.static,
			Abstract:   mods.abstract || c.Kind == "interface",
			Tparams:    f.Tparams,
			Params:     f.Params,
			Ret:        f.Ret,
			Body:       f.Body,
		})
	case syntax.PropertyDeclaration:
		mods := modifiersOf(n.Child(1))
		hint := l.optHint(n.Child(2))
		for _, d := range n.Child(3).Items() {
			def, err := l.optExpr(d.Child(2))
			if err != nil {
				return err
			}
			c.Vars = append(c.Vars, ast.ClassVar{
				Name:       l.sid(d.Child(0)),
				Visibility: mods.visibility,
				Static:     mods.static,
				Hint:       hint,
				Default:    def,
			})
		}
	case syntax.ClassConstDeclaration:
		hint := l.optHint(n.Child(3))
		for _, d := range n.Child(4).Items() {
			value, err := l.optExpr(d.Child(2))
			if err != nil {
				return err
			}
			c.Consts = append(c.Consts, ast.ClassConstDef{Name: l.sid(d.Child(0)), Hint: hint, Value: value})
		}
	case syntax.XHPClassAttributeDeclaration:
		for _, attr := range n.Child(1).Items() {
			if attr.Kind != syntax.XHPClassAttribute {
				continue
			}
			def, err := l.optExpr(attr.Child(3))
			if err != nil {
				return err
			}
			name := attr.Child(1)
			c.Vars = append(c.Vars, ast.ClassVar{
				Name:       ast.Sid{Pos: l.pos(name), Name: naming.XHPAttribute(name.Token.Text)},
				Visibility: "public",
				Hint:       l.optHint(attr.Child(0)),
				Default:    def,
				XHPAttr:    true,
			})
		}
	}
	return nil
}

func (l *lowerer) enum(n *syntax.Node) (ast.ClassDef, error) {
	c := ast.ClassDef{
		Name: l.sid(n.Child(3)),
		Kind: "enum",
	}
	hint := l.hint(n.Child(5))
	for _, e := range n.Child(9).Items() {
		value, err := l.expr(e.Child(2))
		if err != nil {
			return ast.ClassDef{}, err
		}
		c.Consts = append(c.Consts, ast.ClassConstDef{Name: l.sid(e.Child(0)), Hint: &hint, Value: &value})
	}
	return c, nil
}

func (l *lowerer) constants(n *syntax.Node) ([]ast.Def, error) {
	hint := l.optHint(n.Child(1))
	var ret []ast.Def
	for _, d := range n.Child(2).Items() {
		if d.Child(2).IsMissing() {
			return nil, l.internal(d, "constant without initializer")
		}
		value, err := l.expr(d.Child(2))
		if err != nil {
			return nil, err
		}
		ret = append(ret, ast.Constant(ast.ConstDef{Name: l.sid(d.Child(0)), Hint: hint, Value: value}))
	}
	return ret, nil
}

func (l *lowerer) statements(n *syntax.Node) ([]ast.Stmt, error) {
	var ret []ast.Stmt
	for _, item := range n.Items() {
		s, ok, err := l.statement(item)
		if err != nil {
			return nil, err
		}
		if ok {
			ret = append(ret, s)
		}
	}
	return ret, nil
}

// block lowers the statement an if or else governs. Braces do not open a
// nested Block there.
func (l *lowerer) block(n *syntax.Node) ([]ast.Stmt, error) {
	if n.Kind == syntax.CompoundStatement {
		return l.statements(n.Child(1))
	}
	s, ok, err := l.statement(n)
	if err != nil || !ok {
		return nil, err
	}
	return []ast.Stmt{s}, nil
}

func (l *lowerer) statement(n *syntax.Node) (ast.Stmt, bool, error) {
	pos := l.pos(n)
	switch n.Kind {
	case syntax.Missing, syntax.Error:
		return ast.Stmt{}, false, nil
	case syntax.CompoundStatement:
		stmts, err := l.statements(n.Child(1))
		return ast.Stmt{Pos: pos, S: ast.Block(stmts)}, true, err
	case syntax.ExpressionStatement:
		e, err := l.expr(n.Child(0))
		return ast.Stmt{Pos: pos, S: ast.Expression(e)}, true, err
	case syntax.ReturnStatement:
		e, err := l.optExpr(n.Child(1))
		return ast.Stmt{Pos: pos, S: ast.Return{Expr: e}}, true, err
	case syntax.EchoStatement:
		es, err := l.exprs(n.Child(1))
		return ast.Stmt{Pos: pos, S: ast.Echo(es)}, true, err
	case syntax.IfStatement:
		cond, err := l.expr(n.Child(2))
		if err != nil {
			return ast.Stmt{}, false, err
		}
		then, err := l.block(n.Child(4))
		if err != nil {
			return ast.Stmt{}, false, err
		}
		var els []ast.Stmt
		if elseClause := n.Child(5); !elseClause.IsMissing() {
			if els, err = l.block(elseClause.Child(1)); err != nil {
				return ast.Stmt{}, false, err
			}
			if els == nil {
				els = []ast.Stmt{}
			}
		}
		return ast.Stmt{Pos: pos, S: ast.If{Cond: cond, Then: then, Else: els}}, true, nil
	}
	return ast.Stmt{}, false, l.internal(n, "not a statement")
}

func (l *lowerer) optExpr(n *syntax.Node) (*ast.Expr, error) {
	if n.IsMissing() {
		return nil, nil
	}
	e, err := l.expr(n)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (l *lowerer) exprs(n *syntax.Node) ([]ast.Expr, error) {
	var ret []ast.Expr
	for _, item := range n.Items() {
		e, err := l.expr(item)
		if err != nil {
			return nil, err
		}
		ret = append(ret, e)
	}
	return ret, nil
}

func (l *lowerer) exprPtr(n *syntax.Node) (*ast.Expr, error) {
	e, err := l.expr(n)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (l *lowerer) expr(n *syntax.Node) (ast.Expr, error) {
	e, err := l.exprKind(n)
	return ast.Expr{Pos: l.pos(n), E: e}, err
}

func (l *lowerer) exprKind(n *syntax.Node) (ast.Expr_, error) {
	switch n.Kind {
	case syntax.LiteralExpression:
		tok := n.Child(0).Token
		switch tok.Kind {
		case types.INT:
			return ast.Int(tok.Text), nil
		case types.FLOAT:
			return ast.Float(tok.Text), nil
		}
		return ast.String(lexer.Unquote(tok.Text)), nil
	case syntax.VariableExpression:
		return ast.Lvar(l.sid(n.Child(0))), nil
	case syntax.NameExpression:
		tok := n.Child(0).Token
		switch strings.ToLower(tok.Text) {
		case "true":
			return ast.True{}, nil
		case "false":
			return ast.False{}, nil
		case "null":
			return ast.Null{}, nil
		}
		return ast.Id{Pos: l.pos(n), Name: l.className(tok)}, nil
	case syntax.ParenthesizedExpression:
		e, err := l.expr(n.Child(1))
		return e.E, err
	case syntax.PrefixUnaryExpression:
		operand, err := l.exprPtr(n.Child(1))
		return ast.Unop{Op: n.Child(0).Token.Text, Operand: operand}, err
	case syntax.BinaryExpression:
		lhs, err := l.exprPtr(n.Child(0))
		if err != nil {
			return nil, err
		}
		rhs, err := l.exprPtr(n.Child(2))
		return ast.Binop{Op: n.Child(1).Token.Text, Lhs: lhs, Rhs: rhs}, err
	case syntax.FunctionCallExpression:
		fn, err := l.exprPtr(n.Child(0))
		if err != nil {
			return nil, err
		}
		args, err := l.exprs(n.Child(2))
		return ast.Call{Func: fn, Args: args}, err
	case syntax.MemberSelectionExpression:
		obj, err := l.exprPtr(n.Child(0))
		return ast.ObjGet{Obj: obj, Prop: l.sid(n.Child(2))}, err
	case syntax.ScopeResolutionExpression:
		class, err := l.exprPtr(n.Child(0))
		return ast.ClassConst{Class: class, Name: l.sid(n.Child(2))}, err
	case syntax.SubscriptExpression:
		arr, err := l.exprPtr(n.Child(0))
		if err != nil {
			return nil, err
		}
		index, err := l.optExpr(n.Child(2))
		return ast.ArrayGet{Arr: arr, Index: index}, err
	case syntax.ObjectCreationExpression:
		class := n.Child(1)
		if class.Kind == syntax.NameExpression {
			class = class.Child(0)
		}
		args, err := l.exprs(n.Child(3))
		return ast.New{Class: ast.Sid{Pos: l.pos(class), Name: l.className(class.Token)}, Args: args}, err
	case syntax.VectorLiteral:
		elems, err := l.exprs(n.Child(2))
		return ast.ValCollection{Kind: n.Child(0).Token.Text, Elements: elems}, err
	case syntax.ShapeLiteral:
		return l.shape(n)
	case syntax.XHPExpression:
		return l.xml(n)
	}
	return nil, l.internal(n, "not an expression")
}

func (l *lowerer) shape(n *syntax.Node) (ast.Expr_, error) {
	var fields ast.Shape
	for _, f := range n.Child(2).Items() {
		key := f.Child(0)
		if key.Kind != syntax.LiteralExpression || !key.Child(0).IsToken(types.STRING) {
			return nil, l.internal(key, "shape field name is not a string literal")
		}
		value, err := l.expr(f.Child(2))
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.ShapeField{
			Name:  ast.Sid{Pos: l.pos(key), Name: lexer.Unquote(key.Child(0).Token.Text)},
			Value: value,
		})
	}
	return fields, nil
}

func (l *lowerer) xml(n *syntax.Node) (ast.Expr_, error) {
	open := n.Child(0)
	x := ast.Xml{Tag: l.sid(open.Child(1))}

	for _, attr := range open.Child(2).Items() {
		switch attr.Kind {
		case syntax.XHPSimpleAttribute:
			value, err := l.attributeValue(attr.Child(2))
			if err != nil {
				return nil, err
			}
			x.Attrs = append(x.Attrs, ast.XhpSimple{Name: l.sid(attr.Child(0)), Expr: value})
		case syntax.XHPSpreadAttribute:
			e, err := l.expr(attr.Child(2))
			if err != nil {
				return nil, err
			}
			x.Attrs = append(x.Attrs, ast.XhpSpread(e))
		default:
			return nil, l.internal(attr, "not an xhp attribute")
		}
	}

	for _, child := range n.Child(1).Items() {
		switch {
		case child.IsToken(types.XHP_BODY):
			text := collapseSpace(child.Token.Text)
			if strings.TrimSpace(text) == "" {
				continue
			}
			x.Children = append(x.Children, ast.Expr{Pos: l.pos(child), E: ast.String(text)})
		case child.Kind == syntax.XHPBracedExpression:
			e, err := l.expr(child.Child(1))
			if err != nil {
				return nil, err
			}
			x.Children = append(x.Children, e)
		default:
			e, err := l.expr(child)
			if err != nil {
				return nil, err
			}
			x.Children = append(x.Children, e)
		}
	}
	return x, nil
}

func (l *lowerer) attributeValue(n *syntax.Node) (*ast.Expr, error) {
	if n.Kind == syntax.XHPBracedExpression {
		return l.exprPtr(n.Child(1))
	}
	return l.exprPtr(n)
}

var spaceRun = regexp.MustCompile(`\s+`)

// collapseSpace folds runs of whitespace in markup text into one space.
func collapseSpace(text string) string {
	return spaceRun.ReplaceAllString(text, " ")
}
