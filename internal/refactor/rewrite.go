package refactor

import (
	"strings"

	"nsguard/internal/ast"
	"nsguard/internal/diag"
	"nsguard/internal/erc7201"
	"nsguard/internal/source"
	"nsguard/internal/token"
)

// exprWords are identifiers that start an expression or statement, so the
// identifier following them is never a declaration.
var exprWords = map[string]bool{
	"new": true, "delete": true, "else": true, "do": true, "throw": true,
	"revert": true, "if": true, "while": true, "for": true, "try": true,
	"catch": true, "case": true, "after": true, "in": true, "of": true,
}

// rewriteBody returns the identifier rewrites for one body plus, when any
// rewrite happened and the body lacks one, the pointer declaration insert.
// prologue statements are placed first in the body, after the pointer.
func rewriteBody(tree *ast.Tree, fn *ast.Node, moved map[string]bool, l layout, prologue []string) []diag.TextEdit {
	if !fn.Body.Present {
		return nil
	}
	toks := tree.BodyTokens(fn.Body)
	if len(toks) == 0 {
		if len(prologue) == 0 {
			return nil
		}
		return []diag.TextEdit{emptyBodyInsert(tree.File, fn, l, prologue)}
	}

	sc := newScopes(fn)
	var edits []diag.TextEdit
	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		if tok.Kind == token.KwAssembly {
			i = skipAssembly(toks, i)
			continue
		}
		sc.step(toks, i)
		if tok.Kind != token.Ident || !moved[tok.Text] || sc.shadowed(tok.Text) {
			continue
		}
		if qualifies(toks, i) {
			edits = append(edits, diag.TextEdit{Span: tok.Span, NewText: erc7201.PointerName + "." + tok.Text})
		}
	}

	f := tree.File
	if decl, ok := pointerDeclEnd(toks, l); ok {
		if len(prologue) > 0 {
			inline := f.LineStart(fn.Body.LBrace.Start) == f.LineStart(fn.Body.RBrace.Start)
			edits = append(edits, linesInsert(decl.Span.At(decl.Span.End), inline, f.Indent(decl.Span.Start), prologue))
		}
		return edits
	}
	if len(edits) == 0 && len(prologue) == 0 {
		return edits
	}
	lines := append([]string{l.pointerDecl()}, prologue...)
	inline := f.LineStart(toks[0].Span.Start) == f.LineStart(fn.Body.LBrace.Start)
	return append(edits, linesInsert(fn.Body.LBrace.At(fn.Body.LBrace.End), inline, f.Indent(toks[0].Span.Start), lines))
}

// qualifies reports whether the identifier at i is a plain reference: not a
// member access and not the key of a named call argument like f({x: 1}).
func qualifies(toks []token.Token, i int) bool {
	prev := kindAt(toks, i-1, token.LBrace)
	next := kindAt(toks, i+1, token.RBrace)
	if prev == token.Dot {
		return false
	}
	return next != token.Colon || (prev != token.LBrace && prev != token.Comma)
}

// linesInsert places lines at at, space separated when inline and one per
// line at indent otherwise.
func linesInsert(at source.Span, inline bool, indent string, lines []string) diag.TextEdit {
	if inline {
		return diag.TextEdit{Span: at, NewText: " " + strings.Join(lines, " ")}
	}
	var b strings.Builder
	for _, ln := range lines {
		b.WriteString("\n" + indent + ln)
	}
	return diag.TextEdit{Span: at, NewText: b.String()}
}

// emptyBodyInsert fills `{}` or an empty multi-line body.
func emptyBodyInsert(f *source.File, fn *ast.Node, l layout, prologue []string) diag.TextEdit {
	outer := f.Indent(fn.Span.Start)
	lines := append([]string{l.pointerDecl()}, prologue...)
	var b strings.Builder
	for _, ln := range lines {
		b.WriteString("\n" + outer + l.unit + ln)
	}
	lb, rb := fn.Body.LBrace, fn.Body.RBrace
	if f.LineStart(lb.Start) == f.LineStart(rb.Start) {
		b.WriteString("\n" + outer)
	}
	return diag.TextEdit{Span: lb.At(lb.End), NewText: b.String()}
}

func kindAt(toks []token.Token, i int, outside token.Kind) token.Kind {
	if i < 0 || i >= len(toks) {
		return outside
	}
	return toks[i].Kind
}

// skipAssembly returns the index of the '}' closing an inline assembly block
// starting at i. Yul identifiers are not rewritten.
func skipAssembly(toks []token.Token, i int) int {
	j := i + 1
	for j < len(toks) && toks[j].Kind != token.LBrace {
		if toks[j].Kind == token.Semicolon {
			return j
		}
		j++
	}
	depth := 0
	for ; j < len(toks); j++ {
		switch toks[j].Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return len(toks) - 1
}

type scopeKind uint8

const (
	scopeBlock scopeKind = iota
	// scopeForHead is open while inside the parentheses of a for header.
	scopeForHead
	// scopeForStmt holds the header locals of a for loop whose body is a
	// single statement.
	scopeForStmt
	// scopeForBody holds the header locals until the loop's block closes.
	scopeForBody
)

type scope struct {
	kind   scopeKind
	names  map[string]bool
	parens int
}

// scopes tracks which locals are visible at each token: a local shadows
// from its declaration to the end of its enclosing block, and for-loop
// header locals to the end of the loop.
type scopes struct {
	stack []*scope
}

func newScopes(fn *ast.Node) *scopes {
	base := &scope{names: map[string]bool{}}
	for _, ps := range [][]ast.Param{fn.Params, fn.Returns} {
		for _, p := range ps {
			if p.Name != "" {
				base.names[p.Name] = true
			}
		}
	}
	return &scopes{stack: []*scope{base}}
}

func (s *scopes) top() *scope { return s.stack[len(s.stack)-1] }

func (s *scopes) push(k scopeKind) {
	s.stack = append(s.stack, &scope{kind: k, names: map[string]bool{}})
}

func (s *scopes) pop() {
	if len(s.stack) > 1 {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

func (s *scopes) shadowed(name string) bool {
	for _, sc := range s.stack {
		if sc.names[name] {
			return true
		}
	}
	return false
}

// step updates the scopes for the token at i before it is inspected.
func (s *scopes) step(toks []token.Token, i int) {
	tok := toks[i]
	top := s.top()
	switch tok.Kind {
	case token.LBrace:
		if top.kind == scopeForStmt && kindAt(toks, i-1, token.Semicolon) == token.RParen {
			top.kind = scopeForBody
			return
		}
		s.push(scopeBlock)
	case token.RBrace:
		s.pop()
		for s.top().kind == scopeForStmt {
			// `for (...) if (c) { ... }`: the nested block ended the statement
			s.pop()
		}
	case token.LParen:
		if top.kind == scopeForHead {
			top.parens++
		}
	case token.RParen:
		if top.kind == scopeForHead {
			top.parens--
			if top.parens == 0 {
				top.kind = scopeForStmt
			}
		}
	case token.Semicolon:
		for s.top().kind == scopeForStmt {
			s.pop()
		}
	case token.Ident:
		if tok.Text == "for" && kindAt(toks, i+1, token.Semicolon) == token.LParen {
			s.push(scopeForHead)
			return
		}
		if declaresAt(toks, i) {
			top.names[tok.Text] = true
		}
	}
}

// declaresAt reports whether the identifier at i names a new local: it
// follows a type-like token and is followed by '=', ';', ',' or ')'.
func declaresAt(toks []token.Token, i int) bool {
	if i == 0 {
		return false
	}
	prev := toks[i-1]
	typeLike := prev.IsDataLocation() || prev.Kind == token.RBracket || prev.Kind == token.KwPayable ||
		(prev.Kind == token.Ident && !exprWords[prev.Text])
	if !typeLike {
		return false
	}
	switch kindAt(toks, i+1, token.RBrace) {
	case token.Assign, token.Semicolon, token.Comma, token.RParen:
		return true
	}
	return false
}

// pointerDeclEnd finds an existing `<Struct> storage $ = <accessor>();` and
// returns its ';'.
func pointerDeclEnd(toks []token.Token, l layout) (token.Token, bool) {
	want := []string{l.strct, "storage", erc7201.PointerName, "=", l.accessor, "(", ")", ";"}
	for i := 0; i+len(want) <= len(toks); i++ {
		match := true
		for j, w := range want {
			if toks[i+j].Text != w {
				match = false
				break
			}
		}
		if match {
			return toks[i+len(want)-1], true
		}
	}
	return token.Token{}, false
}
