package parser

import (
	"regexp"

	"github.com/pontaoski/hackfront/decl"
	"github.com/pontaoski/hackfront/syntax"
	"github.com/pontaoski/hackfront/types"
)

var modeHeader = regexp.MustCompile(`^\s*<\?hh[ \t]*(?://[ \t]*(\w+))?`)

// DetectMode reads the file mode from the <?hh header. Files without a mode
// comment are strict.
func DetectMode(src string) types.Mode {
	m := modeHeader.FindStringSubmatch(src)
	if m == nil || m[1] == "" {
		return types.Mstrict
	}
	if mode, ok := types.ParseMode(m[1]); ok {
		return mode
	}
	return types.Mstrict
}

func resolveMode(src *syntax.SourceText, mode *types.Mode) *types.Mode {
	if mode != nil {
		return mode
	}
	detected := DetectMode(src.Text)
	return &detected
}

func parsedFile(d *DirectDecl, mode *types.Mode, hasErrors bool) *decl.ParsedFile {
	attrs, decls := d.Result()
	return &decl.ParsedFile{
		Mode:                    mode,
		FileAttributes:          attrs,
		Decls:                   decls,
		HasFirstPassParseErrors: hasErrors,
	}
}

// ParseScript parses src once, building the positioned tree in arena and the
// declaration summary side by side. A nil mode means the one declared in the
// file header. When limit is hit the tree is partial and its errors say so.
func ParseScript(opts *decl.Options, env Env, src *syntax.SourceText, mode *types.Mode, arena *syntax.Arena, limit *StackLimit) (*syntax.Tree, *decl.ParsedFile) {
	mode = resolveMode(src, mode)

	decls := NewDirectDecl(opts)
	sc := NewPair[*syntax.Node, DeclNode](NewPositioned(arena), decls)
	p := New[Pair[*syntax.Node, DeclNode]](src.Text, env, sc, limit)
	root := p.ParseScript()

	errs := p.Errors()
	plog.Debugf("parsed %s: %d errors", src.Path, len(errs))

	tree := syntax.Build(src, root.First, errs, mode).WithArena(arena)
	return tree, parsedFile(decls, mode, len(errs) > 0)
}

// ParseDecls runs only the declaration backend.
func ParseDecls(opts *decl.Options, env Env, src *syntax.SourceText, mode *types.Mode, limit *StackLimit) *decl.ParsedFile {
	mode = resolveMode(src, mode)

	decls := NewDirectDecl(opts)
	p := New[DeclNode](src.Text, env, decls, limit)
	p.ParseScript()

	return parsedFile(decls, mode, len(p.Errors()) > 0)
}

// ParseCST runs only the positioned backend.
func ParseCST(env Env, src *syntax.SourceText, mode *types.Mode, arena *syntax.Arena, limit *StackLimit) *syntax.Tree {
	mode = resolveMode(src, mode)

	p := New[*syntax.Node](src.Text, env, NewPositioned(arena), limit)
	root := p.ParseScript()

	return syntax.Build(src, root, p.Errors(), mode).WithArena(arena)
}
