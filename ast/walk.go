package ast

// ExprRewriter is called once for every expression in a program, outermost
// first. It returns the expression to keep in that place; the walk then
// continues into whatever it returned.
type ExprRewriter func(e Expr) (Expr, error)

type walker struct {
	rewrite ExprRewriter
}

// RewriteProgram substitutes every expression of p with the rewriter's result.
// The first error stops the walk.
func RewriteProgram(p Program, rewrite ExprRewriter) error {
	w := walker{rewrite: rewrite}
	for i := range p {
		if err := w.def(&p[i]); err != nil {
			return err
		}
	}
	return nil
}

// RewriteExpr is RewriteProgram for a single expression.
func RewriteExpr(e *Expr, rewrite ExprRewriter) error {
	w := walker{rewrite: rewrite}
	return w.expr(e)
}

func (w *walker) def(d *Def) error {
	switch v := (*d).(type) {
	case Fun:
		return w.fun(FunDef(v))
	case Class:
		return w.class(ClassDef(v))
	case TopStmt:
		s := Stmt(v)
		if err := w.stmt(&s); err != nil {
			return err
		}
		*d = TopStmt(s)
	case Constant:
		c := ConstDef(v)
		if err := w.expr(&c.Value); err != nil {
			return err
		}
		*d = Constant(c)
	}
	return nil
}

func (w *walker) fun(f FunDef) error {
	if err := w.params(f.Params); err != nil {
		return err
	}
	return w.stmts(f.Body)
}

func (w *walker) class(c ClassDef) error {
	for i := range c.Consts {
		if err := w.optional(c.Consts[i].Value); err != nil {
			return err
		}
	}
	for i := range c.Vars {
		if err := w.optional(c.Vars[i].Default); err != nil {
			return err
		}
	}
	for i := range c.Methods {
		if err := w.params(c.Methods[i].Params); err != nil {
			return err
		}
		if err := w.stmts(c.Methods[i].Body); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) params(ps []Param) error {
	for i := range ps {
		if err := w.optional(ps[i].Default); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) stmts(ss []Stmt) error {
	for i := range ss {
		if err := w.stmt(&ss[i]); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) stmt(s *Stmt) error {
	switch v := s.S.(type) {
	case Expression:
		e := Expr(v)
		if err := w.expr(&e); err != nil {
			return err
		}
		s.S = Expression(e)
	case Return:
		return w.optional(v.Expr)
	case Echo:
		return w.exprs(v)
	case If:
		if err := w.expr(&v.Cond); err != nil {
			return err
		}
		if err := w.stmts(v.Then); err != nil {
			return err
		}
		if err := w.stmts(v.Else); err != nil {
			return err
		}
		s.S = v
	case Block:
		return w.stmts(v)
	}
	return nil
}

func (w *walker) optional(e *Expr) error {
	if e == nil {
		return nil
	}
	return w.expr(e)
}

func (w *walker) exprs(es []Expr) error {
	for i := range es {
		if err := w.expr(&es[i]); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) expr(e *Expr) error {
	next, err := w.rewrite(*e)
	if err != nil {
		return err
	}
	*e = next

	switch v := e.E.(type) {
	case Call:
		if err := w.optional(v.Func); err != nil {
			return err
		}
		if err := w.exprs(v.Args); err != nil {
			return err
		}
		return w.optional(v.Unpacked)
	case ObjGet:
		return w.optional(v.Obj)
	case ClassConst:
		return w.optional(v.Class)
	case ArrayGet:
		if err := w.optional(v.Arr); err != nil {
			return err
		}
		return w.optional(v.Index)
	case Binop:
		if err := w.optional(v.Lhs); err != nil {
			return err
		}
		return w.optional(v.Rhs)
	case Unop:
		return w.optional(v.Operand)
	case New:
		if err := w.exprs(v.Args); err != nil {
			return err
		}
		return w.optional(v.Unpacked)
	case Shape:
		for i := range v {
			if err := w.expr(&v[i].Value); err != nil {
				return err
			}
		}
	case ValCollection:
		return w.exprs(v.Elements)
	case Xml:
		for i, attr := range v.Attrs {
			switch a := attr.(type) {
			case XhpSimple:
				if err := w.optional(a.Expr); err != nil {
					return err
				}
			case XhpSpread:
				spread := Expr(a)
				if err := w.expr(&spread); err != nil {
					return err
				}
				v.Attrs[i] = XhpSpread(spread)
			}
		}
		return w.exprs(v.Children)
	}
	return nil
}
