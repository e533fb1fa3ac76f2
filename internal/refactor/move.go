package refactor

import (
	"fmt"
	"strings"

	"nsguard/internal/ast"
	"nsguard/internal/diag"
	"nsguard/internal/erc7201"
	"nsguard/internal/parser"
	"nsguard/internal/scan"
	"nsguard/internal/source"
	"nsguard/internal/token"
)

// moveToNamespace re-resolves the contract against a fresh scan of the
// snapshot, so ranges recorded in the datum are never trusted.
func (e *Engine) moveToNamespace(snap Snapshot, d diag.Diagnostic, f diag.MoveToNamespace) (Action, error) {
	if len(f.Variables) == 0 {
		return Action{}, ErrNothingToDo
	}
	tree := parser.ParseFile(snap.File, snap.Parser).Tree
	contracts := scan.File(tree, scan.Options{Prefix: e.prefix(), Logger: e.Logger})
	c, ok := scan.FindContract(contracts, f.ContractName)
	if !ok {
		return Action{}, fmt.Errorf("%w: contract %s not found", ErrStaleDiagnostic, f.ContractName)
	}

	wanted := make(map[string]bool, len(f.Variables))
	for _, v := range f.Variables {
		wanted[v.Name] = true
	}
	var vars []scan.Variable
	for _, v := range c.Vars {
		if wanted[v.Name] {
			vars = append(vars, v)
		}
	}
	if len(vars) == 0 {
		return Action{}, ErrNothingToDo
	}

	moved := make(map[string]bool, len(vars))
	for _, v := range vars {
		moved[v.Name] = true
	}
	ctor := constructorOf(c)
	if ctor != nil {
		if name, ok := initShadowed(tree, vars, moved, ctor); ok {
			return Action{}, fmt.Errorf("%w: constructor parameter %s", ErrInitShadowed, name)
		}
	}
	inits := initLines(tree, vars, moved)

	l := e.layoutFor(tree.File, c)
	var newCtor []string
	if ctor == nil && len(inits) > 0 {
		newCtor = l.constructorLines(inits)
	}
	var edits []diag.TextEdit
	if c.StructNode == nil {
		edits = e.intoNewStruct(tree, c, vars, l, newCtor)
	} else {
		edits = e.intoExistingStruct(tree, c, vars, l, newCtor)
	}

	for _, fn := range c.Functions {
		if fn.Node == c.Accessor {
			continue
		}
		var prologue []string
		if fn.Node == ctor {
			prologue = inits
		}
		edits = append(edits, rewriteBody(tree, fn.Node, moved, l, prologue)...)
	}

	if err := CheckOverlap(edits); err != nil {
		return Action{}, err
	}
	e.logger().Debug("computed namespace move", "contract", c.Name, "variables", len(vars), "edits", len(edits))
	title := fmt.Sprintf("Move storage variables of %s into namespace %s", c.Name, l.id)
	return Compose(title, d, edits), nil
}

func (e *Engine) layoutFor(file *source.File, c *scan.Contract) layout {
	l := layout{contract: c.Name}
	if c.Tagged != nil {
		l.id = c.Tagged.ID
		l.strct = c.Tagged.StructName
	} else {
		l.id = c.Canonical(e.prefix())
		l.strct = erc7201.StructName(c.Name)
	}
	l.hash = erc7201.SlotHash(l.id)
	l.accessor = erc7201.AccessorName(c.Name)
	if c.Accessor != nil {
		l.accessor = c.Accessor.Name
	}
	l.location = erc7201.LocationName(l.strct)
	for _, k := range c.Constants {
		if k.Paired {
			l.location = k.Name
			break
		}
	}

	contractIndent := file.Indent(c.Node.Span.Start)
	l.indent = contractIndent + "    "
	if len(c.Node.Children) > 0 {
		l.indent = file.Indent(c.Node.Children[0].Span.Start)
	}
	l.unit = strings.TrimPrefix(l.indent, contractIndent)
	if l.unit == "" {
		l.unit = "    "
	}
	return l
}

func (e *Engine) intoNewStruct(tree *ast.Tree, c *scan.Contract, vars []scan.Variable, l layout, ctor []string) []diag.TextEdit {
	withConstant := !hasMember(c.Node, l.location)
	withAccessor := c.Accessor == nil && !hasMember(c.Node, l.accessor)
	edits := []diag.TextEdit{{Span: vars[0].Span, NewText: l.namespaceBlock(vars, withConstant, withAccessor, ctor)}}
	for _, v := range vars[1:] {
		edits = append(edits, replaceVar(tree.File, v, l))
	}
	return edits
}

func (e *Engine) intoExistingStruct(tree *ast.Tree, c *scan.Contract, vars []scan.Variable, l layout, ctor []string) []diag.TextEdit {
	f := tree.File
	st := c.StructNode

	existing := map[string]bool{}
	for _, fld := range st.Fields {
		existing[fld.Name] = true
	}
	var fields []string
	for _, v := range vars {
		if !existing[v.Name] {
			fields = append(fields, field(v))
		}
	}

	var edits []diag.TextEdit
	if len(fields) > 0 {
		edits = append(edits, fieldInsert(f, st, fields, l))
	}
	for _, v := range vars {
		edits = append(edits, replaceVar(f, v, l))
	}

	var ls []string
	if !hasMember(c.Node, l.location) {
		ls = append(ls, "")
		ls = append(ls, l.constantLines()...)
	}
	if c.Accessor == nil && !hasMember(c.Node, l.accessor) {
		ls = append(ls, "")
		ls = append(ls, l.accessorLines()...)
	}
	if len(ctor) > 0 {
		ls = append(ls, "")
		ls = append(ls, ctor...)
	}
	if len(ls) > 0 {
		// leading empty entry: the text opens with a newline after '}'
		text := joinLines(l.indent, append([]string{""}, ls...))
		edits = append(edits, diag.TextEdit{Span: st.Span.At(st.Span.End), NewText: text})
	}
	return edits
}

// fieldInsert appends fields before the struct's closing brace in a single
// edit, keeping declaration order.
func fieldInsert(f *source.File, st *ast.Node, fields []string, l layout) diag.TextEdit {
	rb := st.Body.RBrace
	lineStart := f.LineStart(rb.Start)
	if strings.TrimSpace(string(f.Content[lineStart:rb.Start])) != "" {
		return diag.TextEdit{Span: rb.At(rb.Start), NewText: strings.Join(fields, " ") + " "}
	}
	indent := f.Indent(st.Span.Start) + l.unit
	if n := len(st.Fields); n > 0 {
		indent = f.Indent(st.Fields[n-1].Type.Span.Start)
	}
	var b strings.Builder
	for _, fl := range fields {
		b.WriteString(indent)
		b.WriteString(fl)
		b.WriteByte('\n')
	}
	return diag.TextEdit{Span: rb.At(lineStart), NewText: b.String()}
}

// replaceVar turns a public variable into its getter and deletes any other
// together with its doc comment.
func replaceVar(f *source.File, v scan.Variable, l layout) diag.TextEdit {
	if v.Getter != nil {
		return getterEdit(f, v, l)
	}
	sp := v.Span
	if v.HasDoc {
		sp = v.Doc.Cover(v.Span)
	}
	return diag.TextEdit{Span: lineSpan(f, sp), NewText: ""}
}

// getterEdit puts the getter where the variable was, separated from a
// non-blank line above by an empty line.
func getterEdit(f *source.File, v scan.Variable, l layout) diag.TextEdit {
	text := joinLines(l.indent, l.getterLines(v))
	start := f.LineStart(v.Span.Start)
	if start == 0 || strings.TrimSpace(string(f.Content[start:v.Span.Start])) != "" {
		return diag.TextEdit{Span: v.Span, NewText: text}
	}
	above := f.LineStart(start - 1)
	if strings.TrimSpace(string(f.Content[above:start])) == "" {
		return diag.TextEdit{Span: v.Span, NewText: text}
	}
	sp := source.Span{File: v.Span.File, Start: start, End: v.Span.End}
	return diag.TextEdit{Span: sp, NewText: "\n" + f.Indent(v.Span.Start) + text}
}

// constructorOf returns the contract's constructor, if it declares one.
func constructorOf(c *scan.Contract) *ast.Node {
	for _, fn := range c.Functions {
		if fn.Kind == ast.FuncConstructor {
			return fn.Node
		}
	}
	return nil
}

// initLines renders one assignment per moved initializer, in declaration
// order, with references to moved variables going through the pointer.
func initLines(tree *ast.Tree, vars []scan.Variable, moved map[string]bool) []string {
	var out []string
	for _, v := range vars {
		if v.Init == "" {
			continue
		}
		out = append(out, erc7201.PointerName+"."+v.Name+" = "+rewriteExpr(tree, v.InitSpan, moved)+";")
	}
	return out
}

func rewriteExpr(tree *ast.Tree, sp source.Span, moved map[string]bool) string {
	toks := spanTokens(tree, sp)
	var b strings.Builder
	at := sp.Start
	for i, tok := range toks {
		if tok.Kind != token.Ident || !moved[tok.Text] || !qualifies(toks, i) {
			continue
		}
		b.WriteString(string(tree.File.Content[at:tok.Span.Start]))
		b.WriteString(erc7201.PointerName + "." + tok.Text)
		at = tok.Span.End
	}
	b.WriteString(string(tree.File.Content[at:sp.End]))
	return b.String()
}

// initShadowed reports an initializer identifier that a constructor
// parameter would capture once the expression moves into the constructor.
func initShadowed(tree *ast.Tree, vars []scan.Variable, moved map[string]bool, ctor *ast.Node) (string, bool) {
	params := map[string]bool{}
	for _, p := range ctor.Params {
		if p.Name != "" {
			params[p.Name] = true
		}
	}
	for _, v := range vars {
		if v.Init == "" {
			continue
		}
		toks := spanTokens(tree, v.InitSpan)
		for i, tok := range toks {
			if tok.Kind == token.Ident && !moved[tok.Text] && params[tok.Text] && qualifies(toks, i) {
				return tok.Text, true
			}
		}
	}
	return "", false
}

func spanTokens(tree *ast.Tree, sp source.Span) []token.Token {
	var out []token.Token
	for _, tok := range tree.Tokens {
		if tok.Span.Start >= sp.End {
			break
		}
		if tok.Span.Start >= sp.Start && tok.Kind != token.EOF {
			out = append(out, tok)
		}
	}
	return out
}

// lineSpan widens sp to its whole line, terminator included, when nothing
// else shares the line.
func lineSpan(f *source.File, sp source.Span) source.Span {
	start := f.LineStart(sp.Start)
	end := f.LineEnd(sp.End)
	if strings.TrimSpace(string(f.Content[start:sp.Start])) != "" ||
		strings.TrimSpace(string(f.Content[sp.End:end])) != "" {
		return sp
	}
	if end < uint32(len(f.Content)) {
		end++
	}
	return source.Span{File: sp.File, Start: start, End: end}
}

func hasMember(n *ast.Node, name string) bool {
	for _, c := range n.Children {
		if c.Name == name {
			return true
		}
	}
	return false
}
