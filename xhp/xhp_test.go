package xhp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/hackfront/ast"
	"github.com/pontaoski/hackfront/emitter"
	"github.com/pontaoski/hackfront/errors"
	"github.com/pontaoski/hackfront/lower"
	"github.com/pontaoski/hackfront/parser"
	"github.com/pontaoski/hackfront/syntax"
	"github.com/pontaoski/hackfront/types"
)

type recorder struct {
	classes []string
}

func (r *recorder) AddClass(name string) {
	r.classes = append(r.classes, name)
}

func parse(t *testing.T, src string) ast.Program {
	t.Helper()
	arena := syntax.NewArena()
	t.Cleanup(arena.Release)
	tree := parser.ParseCST(parser.DefaultEnv(), syntax.NewSourceText("test.php", src), nil, arena, nil)
	prog, err := lower.Program(tree, nil)
	require.NoError(t, err)
	return prog
}

func topExprs(prog ast.Program) []string {
	var ret []string
	for _, d := range prog {
		if s, ok := d.(ast.TopStmt); ok {
			ret = append(ret, ast.Stmt(s).String())
		}
	}
	return ret
}

func TestRewrite(t *testing.T) {
	prog := parse(t, "<?hh\necho <my:widget foo={1} {...$rest}>{inner()}</my:widget>;\n")

	em := emitter.New("test.php")
	require.NoError(t, Rewrite(&prog, em))

	assert.Equal(t, []string{
		`echo new my_widget(shape("foo" => 1, "...0" => $rest), vec[inner()], __FILE__, __LINE__);`,
	}, topExprs(prog))
	assert.Equal(t, []string{"my_widget"}, em.Refs().Classes.Sorted())
}

func TestRewriteNested(t *testing.T) {
	prog := parse(t, `<?hh
function f() {
  return <a title={<b />}>text <c:d>{<e />}</c:d></a>;
}
`)
	rec := &recorder{}
	require.NoError(t, Rewrite(&prog, rec))

	body := ast.FunDef(prog[0].(ast.Fun)).Body
	assert.Equal(t,
		`return new a(shape("title" => new b(shape(), vec[], __FILE__, __LINE__)), `+
			`vec["text ", new c_d(shape(), vec[new e(shape(), vec[], __FILE__, __LINE__)], __FILE__, __LINE__)], `+
			`__FILE__, __LINE__);`,
		body[0].String())
	assert.ElementsMatch(t, []string{"a", "b", "c_d", "e"}, rec.classes)
}

func TestSpreadCounterIsPerNode(t *testing.T) {
	prog := parse(t, "<?hh\necho <a {...$x} k=\"v\" {...$y}><b {...$z} /></a>;\n")
	require.NoError(t, Rewrite(&prog, &recorder{}))

	assert.Equal(t, []string{
		`echo new a(shape("...0" => $x, "k" => "v", "...1" => $y), ` +
			`vec[new b(shape("...0" => $z), vec[], __FILE__, __LINE__)], __FILE__, __LINE__);`,
	}, topExprs(prog))
}

func TestRewriteIsIdempotent(t *testing.T) {
	prog := parse(t, "<?hh\necho <a><b /></a>;\n")
	rec := &recorder{}
	require.NoError(t, Rewrite(&prog, rec))
	once := topExprs(prog)

	require.NoError(t, Rewrite(&prog, rec))
	assert.Equal(t, once, topExprs(prog))
	assert.Equal(t, []string{"a", "b"}, rec.classes)
}

func TestRewriteKeepsPosition(t *testing.T) {
	pos := types.Pos{
		Span: types.Span{Offset: 7, Width: 9},
		From: types.Position{Line: 3, Column: 2},
		To:   types.Position{Line: 3, Column: 11},
	}
	child := ast.Expr{Pos: types.Pos{Span: types.Span{Offset: 11, Width: 1}}, E: ast.Int("1")}
	e := ast.Expr{Pos: pos, E: ast.Xml{Tag: ast.Sid{Name: "p"}, Children: []ast.Expr{child}}}

	require.NoError(t, RewriteExpr(&e, &recorder{}))

	n, ok := e.E.(ast.New)
	require.True(t, ok)
	assert.Equal(t, pos, e.Pos)
	assert.Equal(t, pos, n.Class.Pos)
	assert.Nil(t, n.Targs)
	assert.Nil(t, n.Unpacked)
	require.Len(t, n.Args, 4)
	for _, arg := range n.Args {
		assert.Equal(t, pos, arg.Pos)
	}
	assert.Equal(t, ast.Id{Pos: pos, Name: "__FILE__"}, n.Args[2].E)
	assert.Equal(t, ast.Id{Pos: pos, Name: "__LINE__"}, n.Args[3].E)
	assert.Equal(t, child, n.Args[1].E.(ast.ValCollection).Elements[0])
}

func TestRewriteRejectsMalformedMarkup(t *testing.T) {
	prog := ast.Program{ast.TopStmt(ast.Stmt{S: ast.Echo{
		{E: ast.Xml{Tag: ast.Sid{Name: "a"}, Attrs: []ast.XhpAttribute{ast.XhpSimple{Name: ast.Sid{Name: "x"}}}}},
	}})}
	rec := &recorder{}
	err := Rewrite(&prog, rec)
	require.Error(t, err)
	internal, ok := tracerr.Unwrap(err).(errors.InternalError)
	require.True(t, ok)
	assert.Equal(t, "xhp", internal.Pass)
	assert.Empty(t, rec.classes)

	e := ast.Expr{E: ast.Xml{}}
	err = RewriteExpr(&e, rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "markup without a tag")
}
