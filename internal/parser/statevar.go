package parser

import (
	"nsguard/internal/ast"
	"nsguard/internal/token"
)

// parseStateVar parses `T [attrs] name [= init];`. Anything that does not
// fit becomes a KindOther node skipped to the next ';'.
func (p *Parser) parseStateVar(end int) *ast.Node {
	first := p.pos
	tr, i, ok := p.parseTypeAt(p.pos, end)
	if !ok {
		return p.parseSimple(ast.KindOther, end)
	}

	n := &ast.Node{Kind: ast.KindStateVar, First: first, Leading: p.cur().Leading, Type: tr}
attrs:
	for i < end {
		t := p.toks[i]
		switch {
		case t.IsVisibility():
			n.Visibility = t.Kind
		case t.Kind == token.KwConstant:
			n.Constant = true
		case t.Kind == token.KwImmutable:
			n.Immutable = true
		case t.Kind == token.KwTransient:
			n.Transient = true
		case t.Kind == token.KwOverride:
			if p.kindAt(i+1) == token.LParen {
				c, ok := p.matchGroup(i+1, end)
				if !ok {
					break attrs
				}
				i = c
			}
		default:
			break attrs
		}
		i++
	}

	if p.kindAt(i) != token.Ident || i >= end {
		return p.parseSimple(ast.KindOther, end)
	}
	n.Name = p.toks[i].Text
	n.NameSpan = p.toks[i].Span
	i++

	p.seek(i)
	if p.at(token.Assign) {
		p.advance()
		initStart := p.pos
		p.skipStatement(end)
		initEnd := p.pos
		if initEnd > initStart && p.toks[initEnd-1].Kind == token.Semicolon {
			initEnd--
		}
		if initEnd > initStart {
			n.Init = p.span(initStart, initEnd)
			n.HasInit = true
		}
	} else if p.at(token.Semicolon) {
		p.advance()
	} else {
		p.errorf("expected-semicolon", p.cur().Span, "expected ';' after state variable")
		p.skipStatement(end)
	}

	n.Last = p.pos
	n.Span = p.span(first, p.pos)
	return n
}
