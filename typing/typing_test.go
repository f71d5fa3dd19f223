package typing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pontaoski/hackfront/errors"
)

func tparams(names ...string) []Tparam {
	var ret []Tparam
	for _, name := range names {
		ret = append(ret, Tparam{Variance: Invariant, Name: name})
	}
	return ret
}

func TestMakeSubstArity(t *testing.T) {
	s, ok := MakeSubst(tparams("Ta1", "Ta2"), []Ty{Generic("Tb"), Prim("int")})
	require.True(t, ok)
	assert.Equal(t, "Tb", s["Ta1"].String())
	assert.Equal(t, "int", s["Ta2"].String())

	s, ok = MakeSubst(tparams("Ta1", "Ta2"), []Ty{Prim("int")})
	assert.False(t, ok)
	assert.Equal(t, TAny, s["Ta2"].Kind)

	s, ok = MakeSubst(tparams("T"), []Ty{Prim("int"), Prim("string")})
	assert.False(t, ok)
	assert.Len(t, s, 1)
}

func TestInstantiateNested(t *testing.T) {
	ty := Ty{
		Kind: TFun,
		Args: []Ty{Generic("T"), Apply("vec", Generic("U")), {Kind: TOption, Args: []Ty{Generic("T")}}},
		Ret:  &Ty{Kind: TTuple, Args: []Ty{Generic("U"), Generic("V")}},
	}

	out := Instantiate(Subst{"T": Prim("string"), "U": Apply("Foo", Prim("int"))}, ty)
	assert.Equal(t, "(function(string, vec<Foo<int>>, ?string): (Foo<int>, V))", out.String())
	// the input is left alone
	assert.Equal(t, "(function(T, vec<U>, ?T): (U, V))", ty.String())
}

func TestSubstContextThrough(t *testing.T) {
	// class A<Ta1, Ta2>; class B<Tb> extends A<Tb, int>; class C extends B<string>
	bForA := SubstContext{
		Subst:        Subst{"Ta1": Generic("Tb"), "Ta2": Prim("int")},
		ClassContext: "B",
	}
	cForA := bForA.Through(Subst{"Tb": Prim("string")}, false)

	assert.Equal(t, "string", cForA.Subst["Ta1"].String())
	assert.Equal(t, "int", cForA.Subst["Ta2"].String())
	assert.Equal(t, "B", cForA.ClassContext)
	assert.False(t, cForA.FromReqExtends)

	assert.True(t, bForA.Through(Subst{}, true).FromReqExtends)
}

func TestMemberTypeUsesOriginContext(t *testing.T) {
	c := NewClassType("C", Class)
	c.Substs["A"] = SubstContext{Subst: Subst{"T": Prim("int")}, ClassContext: "A"}
	c.Substs["B"] = SubstContext{Subst: Subst{"T": Prim("string")}, ClassContext: "B"}

	fromA := Element{Origin: "A", Type: Generic("T")}
	fromB := Element{Origin: "B", Type: Generic("T")}
	own := Element{Origin: "C", Type: Generic("T")}

	assert.Equal(t, "int", c.MemberType(fromA).String())
	assert.Equal(t, "string", c.MemberType(fromB).String())
	assert.Equal(t, "T", c.MemberType(own).String())
}

func TestClassTypeYAMLRoundTrip(t *testing.T) {
	c := NewClassType("C", Class)
	c.Final = true
	c.Tparams = tparams("T")
	c.Substs["A"] = SubstContext{Subst: Subst{"Ta": Apply("vec", Generic("T"))}, ClassContext: "B", FromReqExtends: true}
	c.Methods["test"] = Element{Origin: "A", Visibility: Public, Flags: FlagFinal, Type: Ty{Kind: TFun, Ret: &Ty{Kind: TPrim, Name: "void"}}}
	msg := "use other"
	c.SMethods["make"] = Element{Origin: "C", Visibility: Protected, Flags: FlagStatic, Deprecated: &msg}
	c.Ancestors["A"] = Apply("A", Apply("vec", Generic("T")))
	c.Extends = NewSSet("A", "B")
	whitelist := NewSSet("D")
	c.SealedWhitelist = &whitelist
	c.Construct = Construct{Consistent: FinalClass}
	c.AddError(errors.NewUnboundAncestor("C", "Missing", c.Pos))

	first, err := MarshalClassType(c)
	require.NoError(t, err)

	back, err := UnmarshalClassType(first)
	require.NoError(t, err)

	assert.True(t, back.Extends.Has("B"))
	assert.True(t, back.SealedWhitelist.Has("D"))
	assert.Equal(t, "use other", *back.SMethods["make"].Deprecated)
	assert.Equal(t, "vec<T>", back.Substs["A"].Subst["Ta"].String())
	assert.Equal(t, errors.UnboundAncestor, back.Errors[0].Kind)

	second, err := MarshalClassType(back)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}
