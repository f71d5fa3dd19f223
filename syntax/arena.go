package syntax

import "github.com/pontaoski/hackfront/types"

const slabSize = 1024

// Arena owns every node of one parse. Nodes and child slices are carved out
// of large slabs; there is no per-node free, the whole arena goes at once.
type Arena struct {
	nodes    []Node
	ptrs     []*Node
	slabs    int
	released bool
}

func NewArena() *Arena {
	return &Arena{}
}

func (a *Arena) alloc() *Node {
	if a.released {
		panic("syntax: allocation from a released arena")
	}
	if len(a.nodes) == cap(a.nodes) {
		a.nodes = make([]Node, 0, slabSize)
		a.slabs++
	}
	a.nodes = a.nodes[:len(a.nodes)+1]
	return &a.nodes[len(a.nodes)-1]
}

func (a *Arena) children(src []*Node) []*Node {
	n := len(src)
	if n == 0 {
		return nil
	}
	if cap(a.ptrs)-len(a.ptrs) < n {
		a.ptrs = make([]*Node, 0, max(slabSize, n))
	}
	start := len(a.ptrs)
	a.ptrs = append(a.ptrs, src...)
	return a.ptrs[start : start+n : start+n]
}

// Slabs reports how many node slabs the arena has allocated.
func (a *Arena) Slabs() int {
	return a.slabs
}

// Release drops the arena's slabs. Trees built from it must not be used
// afterwards.
func (a *Arena) Release() {
	a.nodes = nil
	a.ptrs = nil
	a.released = true
}

func (a *Arena) Released() bool {
	return a.released
}

func (a *Arena) NewToken(tok types.Token) *Node {
	n := a.alloc()
	n.Kind = Token
	n.Span = tok.Span
	n.Token = tok
	return n
}

func (a *Arena) NewMissing(offset int) *Node {
	n := a.alloc()
	n.Kind = Missing
	n.Span = types.Span{Offset: offset}
	return n
}

// NewList builds a list node; an empty list sits at offset with no width.
func (a *Arena) NewList(items []*Node, offset int) *Node {
	if len(items) == 0 {
		n := a.alloc()
		n.Kind = List
		n.Span = types.Span{Offset: offset}
		return n
	}
	return a.NewNode(List, items)
}

// NewNode builds an interior node whose span covers all of its children.
func (a *Arena) NewNode(kind Kind, children []*Node) *Node {
	n := a.alloc()
	n.Kind = kind
	n.Children = a.children(children)
	if len(children) > 0 {
		span := children[0].Span
		for _, c := range children[1:] {
			span = span.Cover(c.Span)
		}
		n.Span = span
	}
	return n
}
