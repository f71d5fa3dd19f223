package ast

import (
	"fmt"
	"strconv"
	"strings"
)

func (h Hint) String() string {
	var sb strings.Builder
	if h.Nullable {
		sb.WriteString("?")
	}
	sb.WriteString(h.Name)
	if len(h.Args) > 0 {
		var args []string
		for _, arg := range h.Args {
			args = append(args, arg.String())
		}
		sb.WriteString("<" + strings.Join(args, ", ") + ">")
	}
	return sb.String()
}

func exprsToString(es []Expr) string {
	var parts []string
	for _, e := range es {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}

func argsToString(args []Expr, unpacked *Expr) string {
	s := exprsToString(args)
	if unpacked != nil {
		if s != "" {
			s += ", "
		}
		s += "..." + unpacked.String()
	}
	return s
}

func optString(e *Expr) string {
	if e == nil {
		return "<nil>"
	}
	return e.String()
}

// String prints the expression as source text. Markup prints as markup, so a
// program that has been rewritten prints without any.
func (e Expr) String() string {
	switch v := e.E.(type) {
	case Null:
		return "null"
	case True:
		return "true"
	case False:
		return "false"
	case Int:
		return string(v)
	case Float:
		return string(v)
	case String:
		return strconv.Quote(string(v))
	case Id:
		return v.Name
	case Lvar:
		return v.Name
	case Call:
		return fmt.Sprintf("%s(%s)", optString(v.Func), argsToString(v.Args, v.Unpacked))
	case ObjGet:
		return fmt.Sprintf("%s->%s", optString(v.Obj), v.Prop.Name)
	case ClassConst:
		return fmt.Sprintf("%s::%s", optString(v.Class), v.Name.Name)
	case ArrayGet:
		if v.Index == nil {
			return optString(v.Arr) + "[]"
		}
		return fmt.Sprintf("%s[%s]", optString(v.Arr), v.Index.String())
	case Binop:
		return fmt.Sprintf("(%s %s %s)", optString(v.Lhs), v.Op, optString(v.Rhs))
	case Unop:
		return v.Op + optString(v.Operand)
	case New:
		class := v.Class.Name
		if len(v.Targs) > 0 {
			var targs []string
			for _, t := range v.Targs {
				targs = append(targs, t.String())
			}
			class += "<" + strings.Join(targs, ", ") + ">"
		}
		return fmt.Sprintf("new %s(%s)", class, argsToString(v.Args, v.Unpacked))
	case Shape:
		var fields []string
		for _, f := range v {
			fields = append(fields, fmt.Sprintf("%s => %s", strconv.Quote(f.Name.Name), f.Value.String()))
		}
		return "shape(" + strings.Join(fields, ", ") + ")"
	case ValCollection:
		return fmt.Sprintf("%s[%s]", v.Kind, exprsToString(v.Elements))
	case Xml:
		return xmlToString(v)
	case nil:
		return "<nil>"
	}
	return fmt.Sprintf("<%T>", e.E)
}

func xmlToString(x Xml) string {
	var sb strings.Builder
	sb.WriteString("<" + x.Tag.Name)
	for _, attr := range x.Attrs {
		switch a := attr.(type) {
		case XhpSimple:
			fmt.Fprintf(&sb, " %s={%s}", a.Name.Name, optString(a.Expr))
		case XhpSpread:
			fmt.Fprintf(&sb, " {...%s}", Expr(a).String())
		}
	}
	if len(x.Children) == 0 {
		sb.WriteString(" />")
		return sb.String()
	}
	sb.WriteString(">")
	for _, child := range x.Children {
		if s, ok := child.E.(String); ok {
			sb.WriteString(string(s))
			continue
		}
		if inner, ok := child.E.(Xml); ok {
			sb.WriteString(xmlToString(inner))
			continue
		}
		sb.WriteString("{" + child.String() + "}")
	}
	sb.WriteString("</" + x.Tag.Name + ">")
	return sb.String()
}

func (s Stmt) String() string {
	switch v := s.S.(type) {
	case Expression:
		return Expr(v).String() + ";"
	case Return:
		if v.Expr == nil {
			return "return;"
		}
		return "return " + v.Expr.String() + ";"
	case Echo:
		return "echo " + exprsToString(v) + ";"
	case If:
		out := fmt.Sprintf("if (%s) %s", v.Cond.String(), blockToString(v.Then))
		if v.Else != nil {
			out += " else " + blockToString(v.Else)
		}
		return out
	case Block:
		return blockToString(v)
	case Noop:
		return ";"
	}
	return fmt.Sprintf("<%T>", s.S)
}

func blockToString(ss []Stmt) string {
	var parts []string
	for _, s := range ss {
		parts = append(parts, s.String())
	}
	if len(parts) == 0 {
		return "{}"
	}
	return "{ " + strings.Join(parts, " ") + " }"
}

func hintsToString(hs []Hint) string {
	var parts []string
	for _, h := range hs {
		parts = append(parts, h.String())
	}
	return strings.Join(parts, ", ")
}

func sidsToString(sids []Sid) string {
	var parts []string
	for _, s := range sids {
		parts = append(parts, s.Name)
	}
	return strings.Join(parts, ", ")
}

func signature(name string, tparams []Sid, params []Param, ret *Hint) string {
	var sb strings.Builder
	sb.WriteString(name)
	if len(tparams) > 0 {
		sb.WriteString("<" + sidsToString(tparams) + ">")
	}
	var ps []string
	for _, p := range params {
		var s string
		if p.Hint != nil {
			s = p.Hint.String() + " "
		}
		if p.Variadic {
			s += "..."
		}
		s += p.Name.Name
		if p.Default != nil {
			s += " = " + p.Default.String()
		}
		ps = append(ps, s)
	}
	sb.WriteString("(" + strings.Join(ps, ", ") + ")")
	if ret != nil {
		sb.WriteString(": " + ret.String())
	}
	return sb.String()
}

func classToString(c ClassDef) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s", c.Kind, c.Name.Name)
	if len(c.Tparams) > 0 {
		sb.WriteString("<" + sidsToString(c.Tparams) + ">")
	}
	if len(c.Extends) > 0 {
		sb.WriteString(" extends " + hintsToString(c.Extends))
	}
	if len(c.Implements) > 0 {
		sb.WriteString(" implements " + hintsToString(c.Implements))
	}

	var members []string
	if len(c.Uses) > 0 {
		members = append(members, "use "+hintsToString(c.Uses)+";")
	}
	for _, k := range c.Consts {
		s := "const " + k.Name.Name
		if k.Value != nil {
			s += " = " + k.Value.String()
		}
		members = append(members, s+";")
	}
	for _, v := range c.Vars {
		s := v.Visibility + " "
		if v.Static {
			s += "static "
		}
		if v.Hint != nil {
			s += v.Hint.String() + " "
		}
		s += v.Name.Name
		if v.Default != nil {
			s += " = " + v.Default.String()
		}
		members = append(members, s+";")
	}
	for _, m := range c.Methods {
		s := m.Visibility + " "
		if m.Abstract {
			s += "abstract "
		}
		if m.Static {
			s += "static "
		}
		s += "function " + signature(m.Name.Name, m.Tparams, m.Params, m.Ret)
		if m.Abstract {
			s += ";"
		} else {
			s += " " + blockToString(m.Body)
		}
		members = append(members, s)
	}

	if len(members) == 0 {
		sb.WriteString(" {}")
	} else {
		sb.WriteString(" { " + strings.Join(members, " ") + " }")
	}
	return sb.String()
}

func defToString(d Def) string {
	switch v := d.(type) {
	case Fun:
		return "function " + signature(v.Name.Name, v.Tparams, v.Params, v.Ret) + " " + blockToString(v.Body)
	case Class:
		return classToString(ClassDef(v))
	case TopStmt:
		return Stmt(v).String()
	case Constant:
		return fmt.Sprintf("const %s = %s;", v.Name.Name, v.Value.String())
	case Typedef:
		kw := "type"
		if v.Opaque {
			kw = "newtype"
		}
		return fmt.Sprintf("%s %s = %s;", kw, v.Name.Name, v.Hint.String())
	case Module:
		return fmt.Sprintf("module %s;", v.Name)
	}
	return fmt.Sprintf("<%T>", d)
}

// String prints one definition per line.
func (p Program) String() string {
	var lines []string
	for _, d := range p {
		lines = append(lines, defToString(d))
	}
	return strings.Join(lines, "\n")
}
