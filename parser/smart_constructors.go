package parser

import (
	"github.com/pontaoski/hackfront/syntax"
	"github.com/pontaoski/hackfront/types"
)

// SmartConstructors is what the grammar driver builds with. Every reduction
// goes through MakeNode with the already-built results of its children, in
// the child layout documented on syntax.Kind.
type SmartConstructors[R any] interface {
	MakeToken(tok types.Token) R
	MakeMissing(offset int) R
	MakeList(items []R, offset int) R
	MakeNode(kind syntax.Kind, children []R) R
}

type Pair[A, B any] struct {
	First  A
	Second B
}

// PairSmartConstructors runs two backends in lock-step, so one pass over the
// tokens produces both results.
type PairSmartConstructors[A, B any] struct {
	Left  SmartConstructors[A]
	Right SmartConstructors[B]

	// scratch buffers; backends copy what they keep
	as []A
	bs []B
}

func NewPair[A, B any](left SmartConstructors[A], right SmartConstructors[B]) *PairSmartConstructors[A, B] {
	return &PairSmartConstructors[A, B]{Left: left, Right: right}
}

func (p *PairSmartConstructors[A, B]) split(items []Pair[A, B]) ([]A, []B) {
	p.as = p.as[:0]
	p.bs = p.bs[:0]
	for _, item := range items {
		p.as = append(p.as, item.First)
		p.bs = append(p.bs, item.Second)
	}
	return p.as, p.bs
}

func (p *PairSmartConstructors[A, B]) MakeToken(tok types.Token) Pair[A, B] {
	return Pair[A, B]{p.Left.MakeToken(tok), p.Right.MakeToken(tok)}
}

func (p *PairSmartConstructors[A, B]) MakeMissing(offset int) Pair[A, B] {
	return Pair[A, B]{p.Left.MakeMissing(offset), p.Right.MakeMissing(offset)}
}

func (p *PairSmartConstructors[A, B]) MakeList(items []Pair[A, B], offset int) Pair[A, B] {
	as, bs := p.split(items)
	first := p.Left.MakeList(as, offset)
	return Pair[A, B]{first, p.Right.MakeList(bs, offset)}
}

func (p *PairSmartConstructors[A, B]) MakeNode(kind syntax.Kind, children []Pair[A, B]) Pair[A, B] {
	as, bs := p.split(children)
	first := p.Left.MakeNode(kind, as)
	return Pair[A, B]{first, p.Right.MakeNode(kind, bs)}
}

// Positioned builds the concrete syntax tree in an arena.
type Positioned struct {
	arena *syntax.Arena
}

func NewPositioned(arena *syntax.Arena) *Positioned {
	return &Positioned{arena: arena}
}

func (p *Positioned) MakeToken(tok types.Token) *syntax.Node {
	return p.arena.NewToken(tok)
}

func (p *Positioned) MakeMissing(offset int) *syntax.Node {
	return p.arena.NewMissing(offset)
}

func (p *Positioned) MakeList(items []*syntax.Node, offset int) *syntax.Node {
	return p.arena.NewList(items, offset)
}

func (p *Positioned) MakeNode(kind syntax.Kind, children []*syntax.Node) *syntax.Node {
	return p.arena.NewNode(kind, children)
}
