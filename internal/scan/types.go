// Package scan collects per-contract storage facts from a syntax tree.
// Every value is derived from one snapshot and never reused across text
// versions.
package scan

import (
	"nsguard/internal/ast"
	"nsguard/internal/source"
)

// Variable is a contract-level storage declaration outside any struct.
type Variable struct {
	Name     string
	TypeText string
	// Content is the whole declaration as written, including ';'.
	Content string
	Span    source.Span
	// Getter is set when the variable is public.
	Getter *Getter
	// Init is the initializer expression as written; empty when absent.
	Init     string
	InitSpan source.Span
	// Doc covers the comment lines directly above the declaration.
	Doc    source.Span
	HasDoc bool
}

// Getter describes the external view function replacing a public variable.
type Getter struct {
	Params     []GetterParam
	ReturnType string
}

type GetterParam struct {
	Type string
	Name string
}

// NamespaceStruct is a struct tagged with the canonical id of its contract.
type NamespaceStruct struct {
	ContractName string
	StructName   string
	Prefix       string
	ID           string
	Span         source.Span
	// RBrace is the closing brace; new fields are inserted before it.
	RBrace source.Span
	Fields []string
}

// IDTag is the storage-location tag of the first tagged struct.
type IDTag struct {
	StructName string
	ID         string
	// Span covers only the id text inside the comment.
	Span       source.Span
	StructSpan source.Span
}

// SlotConstant is a bytes32 constant that stores a namespace slot.
type SlotConstant struct {
	Name string
	Span source.Span
	// CommentID is the id embedded in the derivation comment; empty when
	// the constant carries no such comment.
	CommentID     string
	CommentIDSpan source.Span
	Literal       string
	LiteralSpan   source.Span
	// Paired reports the constant belongs to the tagged struct.
	Paired bool
}

// Function is a body-owning callable of the contract.
type Function struct {
	Kind ast.FuncKind
	Name string
	Node *ast.Node
}

// Contract holds everything known about one storage-owning contract.
type Contract struct {
	Name     string
	NameSpan source.Span
	Node     *ast.Node

	Vars      []Variable
	Tagged    *IDTag
	Namespace *NamespaceStruct
	Constants []SlotConstant
	Functions []Function
	// Accessor returns `<Struct> storage`; nil when absent.
	Accessor *ast.Node
	// StructNode is the tagged struct, if any.
	StructNode *ast.Node
}

// Canonical returns the id this contract's namespace must use. The prefix
// of a well-formed declared id is kept; otherwise fallback applies.
func (c *Contract) Canonical(fallback string) string {
	return canonicalID(c, fallback)
}

// FindContract returns the contract with the given name.
func FindContract(cs []Contract, name string) (*Contract, bool) {
	for i := range cs {
		if cs[i].Name == name {
			return &cs[i], true
		}
	}
	return nil, false
}
