package ast

import (
	"iter"
	"sort"
)

// Cursor finds nodes of one kind by position. It holds no live position of
// its own, so callers restart it from any offset after the tree is rebuilt.
type Cursor struct {
	tree  *Tree
	kind  Kind
	scope *Node
}

// Cursor returns a cursor over nodes of the given kind.
func (t *Tree) Cursor(kind Kind) Cursor {
	return Cursor{tree: t, kind: kind}
}

// Within restricts the cursor to descendants of n.
func (c Cursor) Within(n *Node) Cursor {
	c.scope = n
	return c
}

// Next returns the first matching node starting at or after byte offset from.
func (c Cursor) Next(from uint32) (*Node, bool) {
	nodes := c.tree.preorder
	i := sort.Search(len(nodes), func(i int) bool { return nodes[i].Span.Start >= from })
	for ; i < len(nodes); i++ {
		n := nodes[i]
		if c.scope != nil {
			if n.Span.Start >= c.scope.Span.End {
				return nil, false
			}
			if n == c.scope || n.Span.Start < c.scope.Span.Start {
				continue
			}
		}
		if n.Kind == c.kind {
			return n, true
		}
	}
	return nil, false
}

// All yields every matching node starting at or after from, in source order.
func (c Cursor) All(from uint32) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		pos := from
		for {
			n, ok := c.Next(pos)
			if !ok {
				return
			}
			if !yield(n) {
				return
			}
			pos = n.Span.Start + 1
		}
	}
}
