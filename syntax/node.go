package syntax

import (
	"fmt"
	"strings"

	"github.com/pontaoski/hackfront/types"
)

// Node is one positioned syntax node. Nodes belong to the Arena that built
// them and are never modified after construction.
type Node struct {
	Kind Kind
	types.Span
	Token    types.Token
	Children []*Node
}

func (n *Node) IsMissing() bool {
	return n == nil || n.Kind == Missing
}

func (n *Node) IsToken(k types.TokenKind) bool {
	return n != nil && n.Kind == Token && n.Token.Kind == k
}

// Child returns the i-th child, or nil if the layout has fewer children.
func (n *Node) Child(i int) *Node {
	if n == nil || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Items unwraps a List of ListItems into the items themselves.
func (n *Node) Items() []*Node {
	if n == nil || n.Kind != List {
		return nil
	}
	ret := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c.Kind == ListItem {
			ret = append(ret, c.Children[0])
		} else {
			ret = append(ret, c)
		}
	}
	return ret
}

// Text returns the source covered by n.
func (n *Node) Text(src *SourceText) string {
	if n.IsMissing() {
		return ""
	}
	return src.Slice(n.Span)
}

// Walk visits n and its descendants in source order. Returning false from fn
// skips the children of that node.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Dump renders a tree as an s-expression, one node per line.
func Dump(n *Node) string {
	var sb strings.Builder
	dump(&sb, n, 0)
	return sb.String()
}

func dump(sb *strings.Builder, n *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n.Kind {
	case Missing:
		return
	case Token:
		fmt.Fprintf(sb, "%s%s %q\n", indent, n.Token.Kind, n.Token.Text)
		return
	}
	fmt.Fprintf(sb, "%s(%s %s\n", indent, n.Kind, n.Span)
	for _, c := range n.Children {
		dump(sb, c, depth+1)
	}
	fmt.Fprintf(sb, "%s)\n", indent)
}
