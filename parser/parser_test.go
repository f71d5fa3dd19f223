package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pontaoski/hackfront/decl"
	"github.com/pontaoski/hackfront/errors"
	"github.com/pontaoski/hackfront/syntax"
	"github.com/pontaoski/hackfront/types"
	"github.com/pontaoski/hackfront/typing"
)

const sample = `<?hh // strict
<<file: __EnableUnstableFeatures('modules'), __Module('core')>>

new module core {}

<<__ConsistentConstruct, __Sealed(B::class)>>
abstract class A<T as arraykey> extends Base<T> implements I<int>, J {
  use Tr;
  require extends Root;
  const int MAX = 10;
  const MIN = 1;
  abstract const string NAME;
  const type TKey as arraykey = int;
  public static vec<T> $items = vec[];
  protected ?string $label;
  private int $count = 0, $other = 1;

  public function __construct(private T $value, int $n) {}
  public function get(): T { return $this->value; }
  public static function make<U>(U $u): A<U> { return new A($u); }
  abstract protected function run(): void;
  <<__Deprecated("use get")>>
  public function old(): T where this as Base<T> { return $this->get(); }
}

function top<T>(T $x, string ...$rest): vec<T> { return vec[$x]; }
const float PI = 3.14;
type Alias<T> = vec<T>;
newtype Opaque as int = int;
enum Color: string as string { Red = 'r'; Green = 'g'; }
`

func parse(t *testing.T, src string) (*syntax.Tree, *decl.ParsedFile) {
	t.Helper()
	arena := syntax.NewArena()
	t.Cleanup(arena.Release)
	return ParseScript(nil, DefaultEnv(), syntax.NewSourceText("test.php", src), nil, arena, nil)
}

func declNames(f *decl.ParsedFile) []string {
	var ret []string
	for _, d := range f.Decls {
		ret = append(ret, d.Name)
	}
	return ret
}

func names[T any](items []T, name func(T) string) []string {
	var ret []string
	for _, item := range items {
		ret = append(ret, name(item))
	}
	return ret
}

func tyStrings(tys []typing.Ty) []string {
	return names(tys, typing.Ty.String)
}

func TestParseScriptDecls(t *testing.T) {
	tree, f := parse(t, sample)
	require.Empty(t, tree.Errors)
	assert.False(t, f.HasFirstPassParseErrors)
	require.NotNil(t, f.Mode)
	assert.Equal(t, types.Mstrict, *f.Mode)

	assert.Equal(t, []string{"__EnableUnstableFeatures", "__Module"}, names(f.FileAttributes, func(a decl.Attribute) string { return a.Name }))
	assert.Equal(t, []string{"core", "A", "top", "PI", "Alias", "Opaque", "Color"}, declNames(f))

	a := f.Classes()[0]
	assert.Equal(t, "core", a.Module)
	assert.Equal(t, typing.Class, a.Kind)
	assert.True(t, a.Flags.Has(decl.Abstract))
	assert.False(t, a.Flags.Has(decl.Final))
	require.Len(t, a.Tparams, 1)
	assert.Equal(t, "arraykey", a.Tparams[0].Constraints[0].Ty.String())
	assert.Equal(t, []string{"Base<T>"}, tyStrings(a.Extends))
	assert.Equal(t, typing.TGeneric, a.Extends[0].Args[0].Kind)
	assert.Equal(t, []string{"I<int>", "J"}, tyStrings(a.Implements))
	assert.Equal(t, []string{"Tr"}, tyStrings(a.Uses))
	assert.Equal(t, []string{"Root"}, tyStrings(a.ReqExtends))

	assert.Equal(t, []string{"__ConsistentConstruct", "__Sealed"}, names(a.Attributes, func(a decl.Attribute) string { return a.Name }))
	assert.Equal(t, []string{"B"}, a.Attribute("__Sealed").Args)

	require.Len(t, a.Consts, 3)
	assert.Equal(t, "int", a.Consts[0].Type.String())
	assert.Equal(t, "int", a.Consts[1].Type.String())
	assert.False(t, a.Consts[1].Abstract)
	assert.Equal(t, "string", a.Consts[2].Type.String())
	assert.True(t, a.Consts[2].Abstract)

	require.Len(t, a.Typeconsts, 1)
	assert.Equal(t, "TKey", a.Typeconsts[0].Name)
	assert.Equal(t, "arraykey", a.Typeconsts[0].As.String())
	assert.Equal(t, "int", a.Typeconsts[0].Type.String())

	assert.Equal(t, []string{"$items"}, names(a.SProps, func(p decl.PropDecl) string { return p.Name }))
	assert.Equal(t, "vec<T>", a.SProps[0].Type.String())
	assert.Equal(t, []string{"label", "count", "other", "value"}, names(a.Props, func(p decl.PropDecl) string { return p.Name }))
	assert.Equal(t, "?string", a.Props[0].Type.String())
	assert.False(t, a.Props[0].HasDefault)
	assert.True(t, a.Props[3].Flags.Has(typing.FlagPromoted))
	assert.Equal(t, typing.Private, a.Props[3].Visibility)

	require.NotNil(t, a.Constructor)
	assert.Equal(t, "(function(T, int): _)", a.Constructor.Type.String())

	assert.Equal(t, []string{"get", "run", "old"}, names(a.Methods, func(m decl.MethodDecl) string { return m.Name }))
	assert.True(t, a.Methods[1].Flags.Has(typing.FlagAbstract))
	assert.Equal(t, typing.Protected, a.Methods[1].Visibility)
	require.NotNil(t, a.Methods[2].Deprecated)
	assert.Equal(t, "use get", *a.Methods[2].Deprecated)
	require.Len(t, a.Methods[2].Where, 1)
	assert.Equal(t, typing.TThis, a.Methods[2].Where[0].Left.Kind)
	assert.Equal(t, "Base<T>", a.Methods[2].Where[0].Right.String())

	require.Len(t, a.SMethods, 1)
	assert.Equal(t, "(function(U): A<U>)", a.SMethods[0].Type.String())
	assert.Equal(t, typing.TGeneric, a.SMethods[0].Type.Args[0].Kind)

	top := f.Decls[2].Decl.Fun
	assert.Equal(t, "(function(T, string): vec<T>)", top.Type.String())
	assert.Equal(t, "core", top.Module)

	assert.Equal(t, "float", f.Decls[3].Decl.Const.Type.String())

	alias := f.Decls[4].Decl.Typedef
	assert.Equal(t, typing.TGeneric, alias.Type.Args[0].Kind)
	assert.False(t, alias.Flags.Has(decl.Opaque))

	opaque := f.Decls[5].Decl.Typedef
	assert.True(t, opaque.Flags.Has(decl.Opaque))
	assert.Equal(t, "int", opaque.Constraint.String())

	color := f.Decls[6].Decl.Class
	assert.Equal(t, typing.Enum, color.Kind)
	assert.Equal(t, "string", color.Enum.Base.String())
	assert.Equal(t, []string{"Red", "Green"}, names(color.Consts, func(c decl.ClassConstDecl) string { return c.Name }))
	assert.Equal(t, "Color", color.Consts[0].Type.String())
}

func TestSplitFileAttributesKeepSourceOrder(t *testing.T) {
	_, f := parse(t, "<?hh\n<<file: __A, __B>>\n<<file: __C('x')>>\nclass X {}\nclass Y {}\n")

	assert.Equal(t, []string{"__A", "__B", "__C"}, names(f.FileAttributes, func(a decl.Attribute) string { return a.Name }))
	assert.Equal(t, []string{"x"}, f.FileAttribute("__C").Args)
	assert.Equal(t, []string{"X", "Y"}, declNames(f))
}

func TestUserAttributesAreOptIn(t *testing.T) {
	src := syntax.NewSourceText("a.php", "<?hh\n<<Memoize, __Memoize>>\nfunction f(): void {}\n")

	f := ParseDecls(nil, DefaultEnv(), src, nil, nil)
	assert.Equal(t, []string{"__Memoize"}, names(f.Decls[0].Decl.Fun.Attributes, func(a decl.Attribute) string { return a.Name }))

	f = ParseDecls(&decl.Options{KeepUserAttributes: true}, DefaultEnv(), src, nil, nil)
	assert.Len(t, f.Decls[0].Decl.Fun.Attributes, 2)
}

func TestPairMatchesSingleBackends(t *testing.T) {
	src := syntax.NewSourceText("test.php", sample)

	arena := syntax.NewArena()
	defer arena.Release()
	tree, paired := ParseScript(nil, DefaultEnv(), src, nil, arena, nil)

	declsOnly := ParseDecls(nil, DefaultEnv(), src, nil, nil)
	assert.Equal(t, declsOnly, paired)

	cstArena := syntax.NewArena()
	defer cstArena.Release()
	cst := ParseCST(DefaultEnv(), src, nil, cstArena, nil)
	assert.Equal(t, syntax.Dump(cst.Root), syntax.Dump(tree.Root))
}

func TestParseIsDeterministic(t *testing.T) {
	first, f1 := parse(t, sample)
	second, f2 := parse(t, sample)

	assert.Equal(t, syntax.Dump(first.Root), syntax.Dump(second.Root))
	assert.Equal(t, f1, f2)
}

func TestSpansCoverChildren(t *testing.T) {
	tree, _ := parse(t, sample)

	syntax.Walk(tree.Root, func(n *syntax.Node) bool {
		if n.Kind == syntax.Token {
			assert.Equal(t, n.Token.Text, tree.Source.Slice(n.Span))
		}
		for _, c := range n.Children {
			assert.True(t, n.Span.Contains(c.Span), "%s %s does not contain %s %s", n.Kind, n.Span, c.Kind, c.Span)
		}
		return true
	})
}

func TestModeOverride(t *testing.T) {
	_, f := parse(t, "<?hh // partial\nclass A {}\n")
	assert.Equal(t, types.Mpartial, *f.Mode)

	override := types.Mdecl
	arena := syntax.NewArena()
	defer arena.Release()
	tree, f := ParseScript(nil, DefaultEnv(), syntax.NewSourceText("a.php", "<?hh // partial\n"), &override, arena, nil)
	assert.Equal(t, types.Mdecl, *f.Mode)
	assert.Equal(t, types.Mdecl, *tree.Mode)
}

func TestDetectMode(t *testing.T) {
	assert.Equal(t, types.Mstrict, DetectMode("<?hh\n"))
	assert.Equal(t, types.Mstrict, DetectMode("<?hh // strict\n"))
	assert.Equal(t, types.Mdecl, DetectMode("<?hh // decl\n"))
	assert.Equal(t, types.Mstrict, DetectMode("<?hh // something\n"))
}

func TestStackLimit(t *testing.T) {
	depth := 500
	src := "<?hh\nfunction f(): void { $x = " + strings.Repeat("(", depth) + "1" + strings.Repeat(")", depth) + "; }\nclass After {}\n"

	arena := syntax.NewArena()
	defer arena.Release()
	tree, f := ParseScript(nil, DefaultEnv(), syntax.NewSourceText("deep.php", src), nil, arena, &StackLimit{Max: 50})

	require.NotNil(t, tree.Root)
	assert.True(t, tree.StackLimitExceeded())
	assert.True(t, f.HasFirstPassParseErrors)

	limits := 0
	for _, err := range tree.Errors {
		if _, ok := err.Err.(errors.StackLimitError); ok {
			limits++
		}
	}
	assert.Equal(t, 1, limits)
	assert.Equal(t, []string{"f"}, declNames(f))

	full, _ := parse(t, src)
	assert.False(t, full.StackLimitExceeded())
	assert.Empty(t, full.Errors)
}

func TestErrorsAreCollected(t *testing.T) {
	tree, f := parse(t, "<?hh\nclass { }\nfunction g(): void {}\n")

	assert.NotEmpty(t, tree.Errors)
	assert.True(t, f.HasFirstPassParseErrors)
	assert.Equal(t, []string{"g"}, declNames(f))
}

func findKind(root *syntax.Node, kind syntax.Kind) []*syntax.Node {
	var ret []*syntax.Node
	syntax.Walk(root, func(n *syntax.Node) bool {
		if n.Kind == kind {
			ret = append(ret, n)
		}
		return true
	})
	return ret
}

func TestXHPExpressions(t *testing.T) {
	tree, _ := parse(t, `<?hh
$x = <my:widget title="hi" {...$rest}>Hello {$name}<b/></my:widget>;
$y = $a < $b;
`)
	require.Empty(t, tree.Errors)

	xhp := findKind(tree.Root, syntax.XHPExpression)
	require.Len(t, xhp, 2)
	open := xhp[0].Child(0)
	assert.Equal(t, "my:widget", open.Child(1).Token.Text)
	assert.Len(t, findKind(tree.Root, syntax.XHPSpreadAttribute), 1)
	assert.Len(t, findKind(tree.Root, syntax.XHPBracedExpression), 1)

	assert.Len(t, findKind(tree.Root, syntax.BinaryExpression), 3)
}

func TestXHPMismatchedCloseTag(t *testing.T) {
	tree, _ := parse(t, "<?hh\n$x = <a>text</b>;\n")

	found := false
	for _, err := range tree.Errors {
		if m, ok := err.Err.(errors.MismatchedCloseTag); ok {
			found = true
			assert.Equal(t, "a", m.Open)
			assert.Equal(t, "b", m.Close)
		}
	}
	assert.True(t, found)
}

func TestXHPDisabled(t *testing.T) {
	arena := syntax.NewArena()
	defer arena.Release()
	tree := ParseCST(Env{}, syntax.NewSourceText("a.php", "<?hh\n$x = <a/>;\n"), nil, arena, nil)

	assert.NotEmpty(t, tree.Errors)
	assert.Empty(t, findKind(tree.Root, syntax.XHPExpression))
}

const xhpClasses = `<?hh
xhp class my:widget extends :ui:btn {
  attribute string title = "x", :other:attrs;
  attribute int count;
}
class :ui:btn {}
`

func TestXHPClassDecls(t *testing.T) {
	_, f := parse(t, xhpClasses)
	require.False(t, f.HasFirstPassParseErrors)
	assert.Equal(t, []string{"my_widget", "ui_btn"}, declNames(f))

	widget := f.Classes()[0]
	assert.True(t, widget.Flags.Has(decl.XHP))
	assert.Equal(t, []string{"ui_btn"}, tyStrings(widget.Extends))
	assert.Equal(t, []string{":title", ":count"}, names(widget.Props, func(p decl.PropDecl) string { return p.Name }))
	assert.True(t, widget.Props[0].HasDefault)
	assert.False(t, widget.Props[1].HasDefault)
	assert.True(t, widget.Props[0].Flags.Has(typing.FlagXHPAttr))
	assert.Equal(t, []string{"other_attrs"}, tyStrings(widget.XHPAttrUses))

	assert.True(t, f.Classes()[1].Flags.Has(decl.XHP))

	plain := ParseDecls(&decl.Options{DisableXHPElementMangling: true}, DefaultEnv(), syntax.NewSourceText("a.php", xhpClasses), nil, nil)
	assert.Equal(t, []string{"my:widget", ":ui:btn"}, declNames(plain))
}

func TestAutoNamespaceMap(t *testing.T) {
	opts := &decl.Options{AutoNamespaceMap: map[string]string{"Dict": "HH\\Lib\\Dict"}}
	f := ParseDecls(opts, DefaultEnv(), syntax.NewSourceText("a.php", "<?hh\nfunction Dict\\merge(): void {}\n"), nil, nil)

	assert.Equal(t, []string{"HH\\Lib\\Dict\\merge"}, declNames(f))
}

func TestParsedFileYAMLRoundTrip(t *testing.T) {
	_, f := parse(t, sample)

	data, err := decl.MarshalParsedFile(f)
	require.NoError(t, err)
	back, err := decl.UnmarshalParsedFile(data)
	require.NoError(t, err)

	again, err := decl.MarshalParsedFile(back)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
	assert.Equal(t, declNames(f), declNames(back))
}
