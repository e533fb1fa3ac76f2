package ast

import (
	"nsguard/internal/source"
	"nsguard/internal/token"
)

// Node is one declaration-level syntax node. Only the fields that belong to
// Kind are populated. Nodes are never mutated once the parser returns.
type Node struct {
	Kind Kind
	// Span covers the node from its first token to its terminating ';' or '}'.
	Span source.Span
	// First and Last are the token range [First, Last) inside Tree.Tokens.
	First, Last int
	// Leading holds the comments attached to the first token.
	Leading []token.Trivia

	Name     string
	NameSpan source.Span

	Children []*Node

	// Contract
	ContractKind ContractKind
	Broken       bool

	// Contract, Struct, Function, Enum
	Body Block

	// Struct
	Fields []Param

	// StateVar
	Type       TypeRef
	Visibility token.Kind // zero when absent
	Constant   bool
	Immutable  bool
	Transient  bool
	Init       source.Span // empty span when there is no initializer
	HasInit    bool

	// Function
	FuncKind FuncKind
	Params   []Param
	Returns  []Param
	// Pragma, Import: text between the keyword and ';'
	Text string
}

// Block is a brace-delimited body. First and Last index the tokens strictly
// between the braces.
type Block struct {
	Present bool
	LBrace  source.Span
	RBrace  source.Span
	First   int
	Last    int
}

// TypeRef is a type expression as written in source. Mapping and array
// types keep their component types so public getters can be derived.
type TypeRef struct {
	Text    string
	Span    source.Span
	Mapping bool
	Array   bool
	// Key is the mapping key type; set only when Mapping.
	Key *TypeRef
	// Elem is the mapping value type or the array element type.
	Elem *TypeRef
}

// Param is a parameter, return value or struct field.
type Param struct {
	Type     TypeRef
	Location token.Kind // storage, memory, calldata, or zero
	Name     string
	NameSpan source.Span
}

// Comments returns the comment trivia attached to the node.
func (n *Node) Comments() []token.Trivia {
	out := make([]token.Trivia, 0, len(n.Leading))
	for _, tr := range n.Leading {
		if tr.IsComment() {
			out = append(out, tr)
		}
	}
	return out
}

// IsPublic reports whether a state variable is declared public.
func (n *Node) IsPublic() bool {
	return n.Visibility == token.KwPublic
}
