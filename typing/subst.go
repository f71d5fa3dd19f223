package typing

// Subst maps type parameter names to the types replacing them.
type Subst map[string]Ty

// MakeSubst pairs type parameters with type arguments positionally. On an
// arity mismatch missing arguments become the error type and extra ones are
// dropped; ok reports whether the arities agreed.
func MakeSubst(tparams []Tparam, args []Ty) (s Subst, ok bool) {
	s = make(Subst, len(tparams))
	for i, tp := range tparams {
		if i < len(args) {
			s[tp.Name] = args[i]
		} else {
			s[tp.Name] = ErrorTy()
		}
	}
	return s, len(tparams) == len(args)
}

// Instantiate replaces every generic in ty that s has a mapping for.
func Instantiate(s Subst, ty Ty) Ty {
	if len(s) == 0 {
		return ty
	}

	switch ty.Kind {
	case TGeneric:
		if rep, ok := s[ty.Name]; ok {
			return rep
		}
		return ty
	case TPrim, TThis, TAny, TXHPClass:
		return ty
	}

	out := ty
	if len(ty.Args) > 0 {
		out.Args = make([]Ty, len(ty.Args))
		for i, arg := range ty.Args {
			out.Args[i] = Instantiate(s, arg)
		}
	}
	if ty.Ret != nil {
		ret := Instantiate(s, *ty.Ret)
		out.Ret = &ret
	}
	return out
}

// Compose returns the substitution that first applies inner and then outer:
// each of inner's right-hand sides is instantiated through outer.
func Compose(outer, inner Subst) Subst {
	out := make(Subst, len(inner))
	for name, ty := range inner {
		out[name] = Instantiate(outer, ty)
	}
	return out
}

// SubstContext says how to view an inherited element from the class that
// inherits it. It is only meaningful for members originating in the ancestor
// it is keyed under.
type SubstContext struct {
	Subst          Subst  `yaml:"subst"`
	ClassContext   string `yaml:"class_context"`
	FromReqExtends bool   `yaml:"from_req_extends"`
}

// Through re-expresses an ancestor's context in terms of a descendant whose
// own substitution for that ancestor is s.
func (sc SubstContext) Through(s Subst, viaReqExtends bool) SubstContext {
	return SubstContext{
		Subst:          Compose(s, sc.Subst),
		ClassContext:   sc.ClassContext,
		FromReqExtends: sc.FromReqExtends || viaReqExtends,
	}
}
