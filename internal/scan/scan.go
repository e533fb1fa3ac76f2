package scan

import (
	"log/slog"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"nsguard/internal/ast"
	"nsguard/internal/erc7201"
	"nsguard/internal/source"
	"nsguard/internal/token"
)

type Options struct {
	// Prefix is used when a contract declares no well-formed id.
	Prefix string
	Logger *slog.Logger // may be nil
}

// File scans every storage-owning contract of tree in source order.
// Libraries and interfaces are skipped; broken contracts are skipped and
// logged.
func File(tree *ast.Tree, opts Options) []Contract {
	if opts.Prefix == "" {
		opts.Prefix = erc7201.DefaultPrefix
	}
	structs := structNames(tree)

	var out []Contract
	for n := range tree.Cursor(ast.KindContract).All(0) {
		if n.Broken {
			if opts.Logger != nil {
				opts.Logger.Debug("skipping unparsable contract", "contract", n.Name, "offset", n.Span.Start)
			}
			continue
		}
		if !n.ContractKind.HasStorage() || n.Name == "" {
			continue
		}
		out = append(out, scanContract(tree, n, opts.Prefix, structs))
	}
	return out
}

func scanContract(tree *ast.Tree, n *ast.Node, prefix string, structs map[string]bool) Contract {
	c := Contract{Name: n.Name, NameSpan: n.NameSpan, Node: n}

	for _, child := range n.Children {
		switch child.Kind {
		case ast.KindStateVar:
			if child.Constant {
				if sc, ok := slotConstant(tree, child); ok {
					c.Constants = append(c.Constants, sc)
				}
				continue
			}
			if child.Immutable || child.Transient {
				continue
			}
			c.Vars = append(c.Vars, variable(tree, child, structs))
		case ast.KindStruct:
			if c.Tagged != nil {
				// first tagged struct wins
				continue
			}
			if tag, ok := structTag(child); ok {
				c.Tagged = &tag
				c.StructNode = child
			}
		case ast.KindFunction:
			if child.Body.Present {
				c.Functions = append(c.Functions, Function{Kind: child.FuncKind, Name: child.Name, Node: child})
			}
		}
	}

	if c.Tagged != nil && c.Tagged.ID == canonicalID(&c, prefix) {
		p, _, _ := erc7201.ParseID(c.Tagged.ID)
		c.Namespace = &NamespaceStruct{
			ContractName: c.Name,
			StructName:   c.Tagged.StructName,
			Prefix:       p,
			ID:           c.Tagged.ID,
			Span:         c.StructNode.Span,
			RBrace:       c.StructNode.Body.RBrace,
		}
		for _, f := range c.StructNode.Fields {
			c.Namespace.Fields = append(c.Namespace.Fields, f.Name)
		}
	}

	structName := erc7201.StructName(c.Name)
	if c.Tagged != nil {
		structName = c.Tagged.StructName
	}
	for i := range c.Constants {
		k := &c.Constants[i]
		if c.Tagged == nil {
			continue
		}
		k.Paired = (k.CommentID != "" && k.CommentID == c.Tagged.ID) || k.Name == erc7201.LocationName(structName)
	}
	// name-paired constants without a derivation comment only matter when paired
	kept := c.Constants[:0]
	for _, k := range c.Constants {
		if k.CommentID != "" || k.Paired {
			kept = append(kept, k)
		}
	}
	c.Constants = kept

	for _, f := range c.Functions {
		if returnsStorageOf(f.Node, structName) {
			c.Accessor = f.Node
			break
		}
	}
	return c
}

func canonicalID(c *Contract, fallback string) string {
	if c.Tagged != nil {
		if p, _, ok := erc7201.ParseID(c.Tagged.ID); ok {
			return erc7201.ComputeID(p, c.Name)
		}
	}
	return erc7201.ComputeID(fallback, c.Name)
}

func structNames(tree *ast.Tree) map[string]bool {
	out := map[string]bool{}
	for n := range tree.Cursor(ast.KindStruct).All(0) {
		out[n.Name] = true
	}
	return out
}

func variable(tree *ast.Tree, n *ast.Node, structs map[string]bool) Variable {
	v := Variable{
		Name:     n.Name,
		TypeText: n.Type.Text,
		Content:  tree.Text(n.Span),
		Span:     n.Span,
	}
	if n.IsPublic() {
		v.Getter = getterFor(n.Type, structs)
	}
	if n.HasInit {
		v.Init = tree.Text(n.Init)
		v.InitSpan = n.Init
	}
	v.Doc, v.HasDoc = docAbove(tree.File, n.Leading)
	return v
}

// docAbove returns the run of comments ending the leading trivia, each on
// its own line, with no blank line between them and the declaration.
func docAbove(f *source.File, leading []token.Trivia) (source.Span, bool) {
	var doc source.Span
	found := false
	newlines := 0
	for i := len(leading) - 1; i >= 0; i-- {
		tr := leading[i]
		switch {
		case tr.Kind == token.TriviaSpace:
			continue
		case tr.Kind == token.TriviaNewline:
			if newlines += strings.Count(tr.Text, "\n"); newlines > 1 {
				return doc, found
			}
			continue
		case tr.IsComment():
			if strings.TrimSpace(string(f.Content[f.LineStart(tr.Span.Start):tr.Span.Start])) != "" {
				return doc, found
			}
			newlines = 0
			if !found {
				doc = tr.Span
				found = true
			} else {
				doc = tr.Span.Cover(doc)
			}
		default:
			return doc, found
		}
	}
	return doc, found
}

// getterFor mirrors the compiler's public getter: one parameter per mapping
// key or array index, returning the innermost value type.
func getterFor(t ast.TypeRef, structs map[string]bool) *Getter {
	g := &Getter{}
	cur := &t
	for i := 0; ; i++ {
		switch {
		case cur.Mapping:
			typ := cur.Key.Text
			if needsLocation(typ, structs) {
				typ += " calldata"
			}
			g.Params = append(g.Params, GetterParam{Type: typ, Name: "key" + strconv.Itoa(i)})
			cur = cur.Elem
			continue
		case cur.Array:
			g.Params = append(g.Params, GetterParam{Type: "uint256", Name: "index" + strconv.Itoa(i)})
			cur = cur.Elem
			continue
		}
		break
	}
	g.ReturnType = cur.Text
	if needsLocation(cur.Text, structs) {
		g.ReturnType += " memory"
	}
	return g
}

func needsLocation(typ string, structs map[string]bool) bool {
	return typ == "string" || typ == "bytes" || structs[typ]
}

func structTag(n *ast.Node) (IDTag, bool) {
	for _, tr := range n.Comments() {
		if id, off, ok := erc7201.FindIDTag(tr.Text); ok {
			return IDTag{
				StructName: n.Name,
				ID:         id,
				Span:       commentSub(tr, off, len(id)),
				StructSpan: n.Span,
			}, true
		}
	}
	return IDTag{}, false
}

func slotConstant(tree *ast.Tree, n *ast.Node) (SlotConstant, bool) {
	if n.Type.Text != "bytes32" || !n.HasInit {
		return SlotConstant{}, false
	}
	lit := tree.Text(n.Init)
	if !erc7201.IsSlotLiteral(lit) {
		return SlotConstant{}, false
	}
	sc := SlotConstant{Name: n.Name, Span: n.Span, Literal: lit, LiteralSpan: n.Init}
	for _, tr := range n.Comments() {
		if id, off, ok := erc7201.FindHashComment(tr.Text); ok {
			sc.CommentID = id
			sc.CommentIDSpan = commentSub(tr, off, len(id))
			break
		}
	}
	return sc, true
}

func commentSub(tr token.Trivia, off, n int) source.Span {
	from, err1 := safecast.Conv[uint32](off)
	to, err2 := safecast.Conv[uint32](off + n)
	if err1 != nil || err2 != nil {
		return tr.Span
	}
	return tr.Span.Sub(from, to)
}

func returnsStorageOf(fn *ast.Node, structName string) bool {
	for _, r := range fn.Returns {
		if r.Type.Text == structName && r.Location == token.KwStorage {
			return true
		}
	}
	return false
}
