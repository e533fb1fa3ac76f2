package ast

import (
	"nsguard/internal/source"
	"nsguard/internal/token"
)

// Tree is an immutable syntax tree over one file snapshot.
type Tree struct {
	File   *source.File
	Tokens []token.Token
	Root   *Node
	// preorder lists every node in source order; used by cursors.
	preorder []*Node
}

// NewTree indexes root for cursor traversal.
func NewTree(file *source.File, tokens []token.Token, root *Node) *Tree {
	t := &Tree{File: file, Tokens: tokens, Root: root}
	var walk func(n *Node)
	walk = func(n *Node) {
		t.preorder = append(t.preorder, n)
		for _, c := range n.Children {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return t
}

// Text returns the source text covered by sp.
func (t *Tree) Text(sp source.Span) string {
	return t.File.Text(sp)
}

// BodyTokens returns the tokens strictly inside b.
func (t *Tree) BodyTokens(b Block) []token.Token {
	if !b.Present || b.First > b.Last || b.Last > len(t.Tokens) {
		return nil
	}
	return t.Tokens[b.First:b.Last]
}
