package folding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pontaoski/hackfront/decl"
	"github.com/pontaoski/hackfront/errors"
	"github.com/pontaoski/hackfront/parser"
	"github.com/pontaoski/hackfront/syntax"
	"github.com/pontaoski/hackfront/typing"
)

func parseFiles(t *testing.T, files map[string]string) map[string]*decl.ParsedFile {
	t.Helper()
	ret := map[string]*decl.ParsedFile{}
	for path, src := range files {
		f := parser.ParseDecls(nil, parser.DefaultEnv(), syntax.NewSourceText(path, src), nil, nil)
		require.False(t, f.HasFirstPassParseErrors, path)
		ret[path] = f
	}
	return ret
}

func foldSource(t *testing.T, src string) *Result {
	t.Helper()
	return FoldAll(parseFiles(t, map[string]string{"test.php": src}), nil)
}

func class(t *testing.T, r *Result, name string) *typing.ClassType {
	t.Helper()
	ct, ok := r.Class(name)
	require.True(t, ok, name)
	return ct
}

func errorKinds(ct *typing.ClassType) []errors.DeclErrorKind {
	var ret []errors.DeclErrorKind
	for _, err := range ct.Errors {
		ret = append(ret, err.Kind)
	}
	return ret
}

func TestFoldComposesSubstitutions(t *testing.T) {
	r := foldSource(t, `<?hh
class A<T> {
  public function get(): T { return $this->v; }
}
class B<U> extends A<vec<U>> {}
class C extends B<int> {}
`)

	c := class(t, r, "C")
	assert.Empty(t, c.Errors)
	assert.Equal(t, []string{"B"}, c.Extends.Sorted())
	assert.Equal(t, "B<int>", c.Ancestors["B"].String())
	assert.Equal(t, "A<vec<int>>", c.Ancestors["A"].String())

	require.Contains(t, c.Substs, "A")
	assert.Equal(t, "vec<int>", c.Substs["A"].Subst["T"].String())
	assert.Equal(t, "B", c.Substs["A"].ClassContext)
	assert.Equal(t, "C", c.Substs["B"].ClassContext)
	assert.False(t, c.Substs["A"].FromReqExtends)

	get, ok := c.Methods["get"]
	require.True(t, ok)
	assert.Equal(t, "A", get.Origin)
	assert.Equal(t, "(function(): vec<int>)", c.MemberType(get).String())
}

func TestUnknownAncestor(t *testing.T) {
	r := foldSource(t, "<?hh\nclass X extends Missing { public function f(): void {} }\n")

	x := class(t, r, "X")
	assert.Equal(t, []errors.DeclErrorKind{errors.UnboundAncestor}, errorKinds(x))
	assert.Equal(t, "Missing", x.Errors[0].Name)
	assert.True(t, x.Extends.Has("Missing"))
	assert.NotContains(t, x.Substs, "Missing")
	assert.Equal(t, []string{"f"}, keys(x.Methods))
}

func keys[V any](m map[string]V) []string {
	s := typing.SSet{}
	for k := range m {
		s.Add(k)
	}
	return s.Sorted()
}

func TestCyclicInheritance(t *testing.T) {
	r := foldSource(t, `<?hh
class A extends B {}
class B extends A {}
class C extends A {}
`)

	for _, name := range []string{"A", "B"} {
		ct := class(t, r, name)
		assert.Equal(t, []errors.DeclErrorKind{errors.CyclicInheritance}, errorKinds(ct), name)
		assert.Empty(t, ct.Extends, name)
	}

	c := class(t, r, "C")
	assert.Empty(t, c.Errors)
	assert.True(t, c.Extends.Has("A"))
}

func TestTraitConflict(t *testing.T) {
	r := foldSource(t, `<?hh
trait T1 { public function m(): int { return 1; } }
trait T2 { public function m(): string { return ""; } }
class C {
  use T1;
  use T2;
}
`)

	c := class(t, r, "C")
	require.Equal(t, []errors.DeclErrorKind{errors.TraitConflict}, errorKinds(c))
	assert.Equal(t, "m", c.Errors[0].Name)
	assert.Equal(t, "T1", c.Methods["m"].Origin)
}

func TestMemberPrecedence(t *testing.T) {
	r := foldSource(t, `<?hh
interface I {
  public function m(): void;
  public function only(): void;
}
class P {
  public function m(): void {}
  public function n(): void {}
}
trait Tr {
  public function n(): void {}
}
class C extends P implements I {
  use Tr;
}
class D extends P {
  public function m(): void {}
}
`)

	c := class(t, r, "C")
	assert.Empty(t, c.Errors)
	assert.Equal(t, "P", c.Methods["m"].Origin)
	assert.Equal(t, "Tr", c.Methods["n"].Origin)
	assert.Equal(t, "I", c.Methods["only"].Origin)
	assert.Equal(t, []string{"I", "P", "Tr"}, c.Extends.Sorted())

	d := class(t, r, "D")
	assert.Equal(t, "D", d.Methods["m"].Origin)
	assert.Equal(t, "P", d.Methods["n"].Origin)
}

func TestArityMismatchPadsWithErrorType(t *testing.T) {
	r := foldSource(t, "<?hh\nclass A<T, U> {}\nclass B extends A<int> {}\n")

	b := class(t, r, "B")
	require.Equal(t, []errors.DeclErrorKind{errors.TypeArityMismatch}, errorKinds(b))
	assert.Equal(t, "int", b.Substs["A"].Subst["T"].String())
	assert.Equal(t, typing.TAny, b.Substs["A"].Subst["U"].Kind)
}

func TestConstructorConsistency(t *testing.T) {
	r := foldSource(t, `<?hh
<<__ConsistentConstruct>>
class Base {
  public function __construct() {}
}
class Child extends Base {}
final class Leaf {}
class Plain {}
`)

	base := class(t, r, "Base")
	assert.Equal(t, typing.ConsistentConstruct, base.Construct.Consistent)
	require.NotNil(t, base.Construct.Element)

	child := class(t, r, "Child")
	assert.Equal(t, typing.ConsistentConstruct, child.Construct.Consistent)
	require.NotNil(t, child.Construct.Element)
	assert.Equal(t, "Base", child.Construct.Element.Origin)

	assert.Equal(t, typing.FinalClass, class(t, r, "Leaf").Construct.Consistent)
	assert.Equal(t, typing.Inconsistent, class(t, r, "Plain").Construct.Consistent)
}

func TestDeferredInitMembers(t *testing.T) {
	r := foldSource(t, `<?hh
class A {
  public int $needed;
  public ?int $optional;
  public int $given = 1;
  <<__LateInit>> public int $late;
}
class B extends A {
  protected string $more;
}
class C {}
`)

	a := class(t, r, "A")
	assert.Equal(t, []string{"needed"}, a.DeferredInitMembers.Sorted())
	assert.True(t, a.NeedInit)

	b := class(t, r, "B")
	assert.Equal(t, []string{"more", "needed"}, b.DeferredInitMembers.Sorted())

	assert.False(t, class(t, r, "C").NeedInit)
}

func TestClassAttributes(t *testing.T) {
	r := foldSource(t, `<?hh
<<__Sealed(Allowed::class), __Const>>
abstract class S<T> where this as Marker {}
`)

	s := class(t, r, "S")
	require.NotNil(t, s.SealedWhitelist)
	assert.Equal(t, []string{"Allowed"}, s.SealedWhitelist.Sorted())
	assert.True(t, s.Const)
	assert.True(t, s.Abstract)
	assert.Equal(t, []string{"Marker"}, s.ConditionTypes.Sorted())
}

func TestRequireExtends(t *testing.T) {
	r := foldSource(t, `<?hh
class Root<T> {}
class Mid extends Root<int> {}
trait Tr {
  require extends Mid;
}
class User extends Mid {
  use Tr;
}
`)

	tr := class(t, r, "Tr")
	assert.Equal(t, []string{"Mid", "Root"}, tr.ReqAncestorsExtends.Sorted())
	require.Len(t, tr.ReqAncestors, 1)
	assert.Equal(t, "Mid", tr.ReqAncestors[0].Ty.String())
	assert.True(t, tr.Substs["Root"].FromReqExtends)
	assert.Empty(t, tr.Ancestors)

	user := class(t, r, "User")
	assert.True(t, user.ReqAncestorsExtends.Has("Mid"))
	assert.False(t, user.Substs["Root"].FromReqExtends)
}

func TestDuplicateMember(t *testing.T) {
	c := &decl.ClassDecl{
		Name: "Dup",
		Kind: typing.Class,
		Props: []decl.PropDecl{
			{Name: "x", Type: typing.Prim("int"), HasDefault: true},
			{Name: "x", Type: typing.Prim("string"), HasDefault: true},
		},
	}

	ct := Fold(c, MapProvider{})
	require.Equal(t, []errors.DeclErrorKind{errors.DuplicateMember}, errorKinds(ct))
	assert.Equal(t, "int", ct.Props["x"].Type.String())
}

func TestFoldAllRecordsFiles(t *testing.T) {
	files := parseFiles(t, map[string]string{
		"base.php":  "<?hh\nclass Base {}\n",
		"child.php": "<?hh\nclass Child extends Base {}\n",
		"dup.php":   "<?hh\nclass Base {}\nclass Other {}\n",
	})
	r := FoldAll(files, nil)

	assert.Equal(t, "base.php", r.Files["Base"])
	assert.Equal(t, "child.php", r.Files["Child"])
	assert.Equal(t, []string{"base.php", "child.php"}, r.Deps["Child"].Sorted())
	assert.Equal(t, []string{"dup.php"}, r.Deps["Other"].Sorted())
}

func TestClassTypeYAML(t *testing.T) {
	r := foldSource(t, "<?hh\nclass A<T> { public function get(): T { return $this->v; } }\nclass B extends A<int> {}\n")
	b := class(t, r, "B")

	data, err := typing.MarshalClassType(b)
	require.NoError(t, err)
	back, err := typing.UnmarshalClassType(data)
	require.NoError(t, err)

	assert.Equal(t, b.Name, back.Name)
	assert.Equal(t, b.Extends.Sorted(), back.Extends.Sorted())
	assert.Equal(t, "(function(): int)", back.MemberType(back.Methods["get"]).String())
}
