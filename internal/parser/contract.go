package parser

import (
	"nsguard/internal/ast"
	"nsguard/internal/token"
)

// parseContract parses `[abstract] contract|library|interface Name [is ...] { ... }`.
func (p *Parser) parseContract() *ast.Node {
	first := p.pos
	n := &ast.Node{Kind: ast.KindContract, First: first, Leading: p.cur().Leading}

	if p.at(token.KwAbstract) {
		n.ContractKind = ast.ContractAbstract
		p.advance()
	}
	switch p.cur().Kind {
	case token.KwLibrary:
		n.ContractKind = ast.ContractLibrary
	case token.KwInterface:
		n.ContractKind = ast.ContractInterface
	}
	p.advance()

	if p.at(token.Ident) {
		n.Name = p.cur().Text
		n.NameSpan = p.cur().Span
		p.advance()
	} else {
		p.errorf("expected-name", p.cur().Span, "expected contract name")
	}

	// header: inheritance list with optional constructor arguments
	for !p.at(token.LBrace) && !p.at(token.EOF) && !isTopLevelStart(p.cur().Kind) {
		p.advance()
	}
	if !p.at(token.LBrace) {
		p.errorf("expected-body", p.cur().Span, "expected '{' to open contract body")
		n.Broken = true
		n.Last = p.pos
		n.Span = p.span(first, p.pos)
		return n
	}

	open := p.pos
	closeIdx, ok := p.matchBrace(open, len(p.toks), true)
	n.Body = ast.Block{
		Present: true,
		LBrace:  p.toks[open].Span,
		First:   open + 1,
		Last:    closeIdx,
	}
	if !ok {
		p.errorf("unbalanced-braces", p.toks[open].Span, "contract body is not closed")
		n.Broken = true
		n.Last = closeIdx
		n.Span = p.span(first, closeIdx)
		p.seek(closeIdx)
		return n
	}
	n.Body.RBrace = p.toks[closeIdx].Span

	p.seek(open + 1)
	n.Children = p.parseItems(closeIdx, false)
	p.seek(closeIdx + 1)

	for i := open; i < closeIdx; i++ {
		if p.toks[i].Kind == token.Invalid {
			n.Broken = true
			break
		}
	}
	n.Last = p.pos
	n.Span = p.span(first, p.pos)
	return n
}

// parseStruct parses `struct Name { T a; U b; }` and records the fields.
func (p *Parser) parseStruct(end int) *ast.Node {
	first := p.pos
	n := &ast.Node{Kind: ast.KindStruct, First: first, Leading: p.cur().Leading}
	p.advance()
	if p.at(token.Ident) {
		n.Name = p.cur().Text
		n.NameSpan = p.cur().Span
		p.advance()
	}
	if !p.at(token.LBrace) {
		p.errorf("expected-body", p.cur().Span, "expected '{' after struct name")
		p.skipStatement(end)
		n.Last = p.pos
		n.Span = p.span(first, p.pos)
		return n
	}
	open := p.pos
	closeIdx, ok := p.matchBrace(open, end, false)
	n.Body = ast.Block{Present: true, LBrace: p.toks[open].Span, First: open + 1, Last: closeIdx}
	if !ok {
		p.errorf("unbalanced-braces", p.toks[open].Span, "struct body is not closed")
		p.seek(closeIdx)
		n.Last = p.pos
		n.Span = p.span(first, p.pos)
		return n
	}
	n.Body.RBrace = p.toks[closeIdx].Span

	i := open + 1
	for i < closeIdx {
		tr, next, ok := p.parseTypeAt(i, closeIdx)
		if !ok {
			i++
			continue
		}
		f := ast.Param{Type: tr}
		if p.kindAt(next) == token.Ident {
			f.Name = p.toks[next].Text
			f.NameSpan = p.toks[next].Span
			next++
		}
		n.Fields = append(n.Fields, f)
		for next < closeIdx && p.kindAt(next) != token.Semicolon {
			next++
		}
		i = next + 1
	}

	p.seek(closeIdx + 1)
	n.Last = p.pos
	n.Span = p.span(first, p.pos)
	return n
}

func (p *Parser) parseEnum(end int) *ast.Node {
	first := p.pos
	n := &ast.Node{Kind: ast.KindEnum, First: first, Leading: p.cur().Leading}
	p.advance()
	if p.at(token.Ident) {
		n.Name = p.cur().Text
		n.NameSpan = p.cur().Span
		p.advance()
	}
	if p.at(token.LBrace) {
		closeIdx, ok := p.matchBrace(p.pos, end, false)
		if ok {
			n.Body = ast.Block{Present: true, LBrace: p.cur().Span, RBrace: p.toks[closeIdx].Span, First: p.pos + 1, Last: closeIdx}
			p.seek(closeIdx + 1)
		} else {
			p.seek(closeIdx)
		}
	}
	n.Last = p.pos
	n.Span = p.span(first, p.pos)
	return n
}
