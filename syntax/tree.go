package syntax

import (
	"github.com/pontaoski/hackfront/errors"
	"github.com/pontaoski/hackfront/types"
)

// Tree is a concrete syntax tree together with what it was parsed from. It
// borrows the arena that holds its nodes.
type Tree struct {
	Source *SourceText
	Root   *Node
	Errors []errors.SyntaxError
	Mode   *types.Mode
	arena  *Arena
}

func Build(source *SourceText, root *Node, errs []errors.SyntaxError, mode *types.Mode) *Tree {
	return &Tree{
		Source: source,
		Root:   root,
		Errors: errs,
		Mode:   mode,
	}
}

// WithArena records the arena that owns the tree so Release can drop it.
func (t *Tree) WithArena(a *Arena) *Tree {
	t.arena = a
	return t
}

func (t *Tree) StackLimitExceeded() bool {
	for _, err := range t.Errors {
		if _, ok := err.Err.(errors.StackLimitError); ok {
			return true
		}
	}
	return false
}

// Release frees the tree's arena. The tree and anything borrowed from it are
// invalid afterwards.
func (t *Tree) Release() {
	t.Root = nil
	if t.arena != nil {
		t.arena.Release()
	}
}
