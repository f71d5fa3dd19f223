package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/hackfront/ast"
	"github.com/pontaoski/hackfront/decl"
	"github.com/pontaoski/hackfront/errors"
	"github.com/pontaoski/hackfront/parser"
	"github.com/pontaoski/hackfront/syntax"
	"github.com/pontaoski/hackfront/types"
)

func lower(t *testing.T, src string, opts *decl.Options) (ast.Program, error) {
	t.Helper()
	arena := syntax.NewArena()
	t.Cleanup(arena.Release)
	tree := parser.ParseCST(parser.DefaultEnv(), syntax.NewSourceText("test.php", src), nil, arena, nil)
	return Program(tree, opts)
}

func mustLower(t *testing.T, src string) ast.Program {
	t.Helper()
	prog, err := lower(t, src, nil)
	require.NoError(t, err)
	return prog
}

func TestLowerMarkup(t *testing.T) {
	prog := mustLower(t, `<?hh
function render(): void {
  $x = <my:widget foo={1} bar="two" {...$rest}>
    hello   <b>{inner()}</b>
  </my:widget>;
}
`)
	require.Len(t, prog, 1)
	f := ast.FunDef(prog[0].(ast.Fun))
	assert.Equal(t, "render", f.Name.Name)
	require.NotNil(t, f.Ret)
	assert.Equal(t, "void", f.Ret.Name)
	require.Len(t, f.Body, 1)

	assign := ast.Expr(f.Body[0].S.(ast.Expression)).E.(ast.Binop)
	x := assign.Rhs.E.(ast.Xml)
	assert.Equal(t, "my:widget", x.Tag.Name)
	require.Len(t, x.Attrs, 3)
	assert.Equal(t, "foo", x.Attrs[0].(ast.XhpSimple).Name.Name)
	assert.Equal(t, ast.String("two"), x.Attrs[1].(ast.XhpSimple).Expr.E)
	assert.Equal(t, "$rest", ast.Expr(x.Attrs[2].(ast.XhpSpread)).String())

	require.Len(t, x.Children, 2)
	assert.Equal(t, ast.String(" hello "), x.Children[0].E)
	assert.Equal(t, "<b>{inner()}</b>", x.Children[1].String())
}

func TestLowerKeepsPositions(t *testing.T) {
	prog := mustLower(t, "<?hh\necho <a />;\n")
	echo := ast.Stmt(prog[0].(ast.TopStmt)).S.(ast.Echo)
	require.Len(t, echo, 1)
	pos := echo[0].Pos
	assert.Equal(t, 2, pos.From.Line)
	assert.Equal(t, 6, pos.From.Column)
	assert.Equal(t, "test.php", pos.From.Filename)
	assert.Equal(t, types.Span{Offset: 10, Width: 5}, pos.Span)
}

func TestLowerDeclarations(t *testing.T) {
	prog := mustLower(t, `<?hh
<<file: __EnableUnstableFeatures('modules')>>
new module app {}
const int LIMIT = 10;
type Id = int;
newtype Opaque = string;
enum Color: int {
  RED = 1;
}
abstract class Base<T> extends Root implements I {
  use T1;
  const string NAME = "base";
  protected ?T $value = null;
  public static function make(int ...$xs): this {
    if ($xs) { return new Base(); } else return null;
  }
  abstract public function get(): T;
}
xhp class ui:button extends Base {
  attribute string label = "ok", int size;
}
`)

	var kinds []string
	for _, d := range prog {
		switch v := d.(type) {
		case ast.Module:
			kinds = append(kinds, "module "+v.Name)
		case ast.Constant:
			kinds = append(kinds, "const "+v.Name.Name)
		case ast.Typedef:
			kinds = append(kinds, "typedef "+v.Name.Name)
		case ast.Class:
			kinds = append(kinds, v.Kind+" "+v.Name.Name)
		}
	}
	assert.Equal(t, []string{
		"module app",
		"const LIMIT",
		"typedef Id",
		"typedef Opaque",
		"enum Color",
		"class Base",
		"class ui_button",
	}, kinds)

	assert.True(t, ast.TypedefDef(prog[3].(ast.Typedef)).Opaque)

	base := ast.ClassDef(prog[5].(ast.Class))
	assert.Equal(t, []ast.Sid{{Pos: base.Tparams[0].Pos, Name: "T"}}, base.Tparams)
	assert.Equal(t, "Root", base.Extends[0].Name)
	assert.Equal(t, "I", base.Implements[0].Name)
	assert.Equal(t, "T1", base.Uses[0].Name)
	require.Len(t, base.Consts, 1)
	assert.Equal(t, `"base"`, base.Consts[0].Value.String())
	require.Len(t, base.Vars, 1)
	assert.Equal(t, "protected", base.Vars[0].Visibility)
	assert.Equal(t, "?T", base.Vars[0].Hint.String())

	require.Len(t, base.Methods, 2)
	factory := base.Methods[0]
	assert.True(t, factory.Static)
	assert.True(t, factory.Params[0].Variadic)
	require.Len(t, factory.Body, 1)
	assert.Equal(t, "if ($xs) { return new Base(); } else { return null; }", factory.Body[0].String())
	assert.True(t, base.Methods[1].Abstract)
	assert.Nil(t, base.Methods[1].Body)

	button := ast.ClassDef(prog[6].(ast.Class))
	assert.True(t, button.IsXHP)
	require.Len(t, button.Vars, 2)
	assert.Equal(t, ":label", button.Vars[0].Name.Name)
	assert.True(t, button.Vars[0].XHPAttr)
	assert.Equal(t, `"ok"`, button.Vars[0].Default.String())
	assert.Nil(t, button.Vars[1].Default)
}

func TestLowerExpressions(t *testing.T) {
	prog := mustLower(t, `<?hh
$a = shape('k' => vec[1, 2.5, true], "n" => null);
$b = -$obj->prop[0] + Foo::BAR * (1 - 2);
`)
	var got []string
	for _, d := range prog {
		got = append(got, ast.Stmt(d.(ast.TopStmt)).String())
	}
	assert.Equal(t, []string{
		`($a = shape("k" => vec[1, 2.5, true], "n" => null));`,
		`($b = (-$obj->prop[0] + (Foo::BAR * (1 - 2))));`,
	}, got)
}

func TestLowerMangling(t *testing.T) {
	src := "<?hh\n$x = new :ui:big-button();\n"

	prog, err := lower(t, src, nil)
	require.NoError(t, err)
	assert.Equal(t, "($x = new ui_big_button());", ast.Stmt(prog[0].(ast.TopStmt)).String())

	prog, err = lower(t, src, &decl.Options{DisableXHPElementMangling: true})
	require.NoError(t, err)
	assert.Equal(t, "($x = new :ui:big-button());", ast.Stmt(prog[0].(ast.TopStmt)).String())
}

func TestLowerRefusesBrokenTrees(t *testing.T) {
	_, err := lower(t, "<?hh\nfunction f( {\n", nil)
	require.Error(t, err)
	_, ok := tracerr.Unwrap(err).(errors.SyntaxError)
	assert.True(t, ok)
}

func TestLowerShapeKeyMustBeString(t *testing.T) {
	_, err := lower(t, "<?hh\n$a = shape(1 => 2);\n", nil)
	require.Error(t, err)
	internal, ok := tracerr.Unwrap(err).(errors.InternalError)
	require.True(t, ok)
	assert.Equal(t, "lower", internal.Pass)
}
