package emitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pontaoski/hackfront/ast"
)

func e(v ast.Expr_) ast.Expr {
	return ast.Expr{E: v}
}

func ptr(x ast.Expr) *ast.Expr {
	return &x
}

func TestCollect(t *testing.T) {
	prog := ast.Program{
		ast.Fun(ast.FunDef{Body: []ast.Stmt{
			{S: ast.Expression(e(ast.Call{
				Func: ptr(e(ast.Id{Name: "render"})),
				Args: []ast.Expr{
					e(ast.ClassConst{Class: ptr(e(ast.Id{Name: "Config"})), Name: ast.Sid{Name: "NAME"}}),
					e(ast.ClassConst{Class: ptr(e(ast.Id{Name: "self"})), Name: ast.Sid{Name: "OTHER"}}),
					e(ast.New{Class: ast.Sid{Name: "my_widget"}}),
					e(ast.Id{Name: "PHP_EOL"}),
					e(ast.Id{Name: "__FILE__"}),
				},
			}))},
		}}),
	}

	em := New("a.php")
	require.NoError(t, em.Collect(prog))

	refs := em.Refs()
	assert.Equal(t, []string{"Config", "my_widget"}, refs.Classes.Sorted())
	assert.Equal(t, []string{"render"}, refs.Functions.Sorted())
	assert.Equal(t, []string{"PHP_EOL"}, refs.Constants.Sorted())
}

func TestModuleEmbedsRefs(t *testing.T) {
	em := New("a.php")
	em.AddClass("my_widget")
	em.AddClass("my_widget")
	em.AddClass("b")
	em.AddFunction("inner")
	em.AddConstant("LIMIT")

	m, err := em.Module()
	require.NoError(t, err)
	out := m.String()

	assert.Contains(t, out, "@class.my_widget")
	assert.Contains(t, out, "@class.b")
	assert.Contains(t, out, "@const.LIMIT")
	assert.Contains(t, out, "@inner")
	assert.Contains(t, out, "@"+RefsSymbol)
	assert.Contains(t, out, `{\22classes\22:[\22b\22,\22my_widget\22]`)
}

func TestDecodeRefs(t *testing.T) {
	refs, err := DecodeRefs(`{"classes":["b","a"],"functions":["f"],"constants":[]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, refs.Classes.Sorted())
	assert.True(t, refs.Functions.Has("f"))
	assert.Empty(t, refs.Constants)

	_, err = DecodeRefs("not json")
	assert.Error(t, err)
}
