package decl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pontaoski/hackfront/types"
	"github.com/pontaoski/hackfront/typing"
)

func TestElaborateName(t *testing.T) {
	opts := &Options{AutoNamespaceMap: map[string]string{"Vec": "HH\\Lib\\Vec"}}

	assert.Equal(t, "HH\\Lib\\Vec\\map", opts.ElaborateName("Vec\\map"))
	assert.Equal(t, "HH\\Lib\\Vec\\map", opts.ElaborateName("\\Vec\\map"))
	assert.Equal(t, "Other\\map", opts.ElaborateName("Other\\map"))
	assert.Equal(t, "Vec", opts.ElaborateName("Vec"))

	var none *Options
	assert.Equal(t, "Vec\\map", none.ElaborateName("Vec\\map"))
}

func TestKeepsAttribute(t *testing.T) {
	assert.True(t, DefaultOptions().KeepsAttribute("__Sealed"))
	assert.False(t, DefaultOptions().KeepsAttribute("Memoize"))
	assert.True(t, (&Options{KeepUserAttributes: true}).KeepsAttribute("Memoize"))
}

func TestParsedFileLookups(t *testing.T) {
	strict := types.Mstrict
	f := &ParsedFile{
		Mode:           &strict,
		FileAttributes: []Attribute{{Name: "__Module", Args: []string{"core"}}},
		Decls: []NamedDecl{
			{Name: "f", Decl: Decl{Kind: KindFun, Fun: &FunDecl{Name: "f"}}},
			{Name: "A", Decl: Decl{Kind: KindClass, Class: &ClassDecl{Name: "A", Kind: typing.Class}}},
			{Name: "B", Decl: Decl{Kind: KindClass, Class: &ClassDecl{Name: "B", Kind: typing.Trait}}},
		},
	}

	require.Len(t, f.Classes(), 2)
	assert.Equal(t, "B", f.Classes()[1].Name)
	assert.Equal(t, "f", f.Decls[0].Decl.Name())
	assert.Equal(t, []string{"core"}, f.FileAttribute("__Module").Args)
	assert.Nil(t, f.FileAttribute("__Other"))

	data, err := MarshalParsedFile(f)
	require.NoError(t, err)
	back, err := UnmarshalParsedFile(data)
	require.NoError(t, err)
	assert.Equal(t, types.Mstrict, *back.Mode)
	assert.Equal(t, KindClass, back.Decls[1].Decl.Kind)
}
