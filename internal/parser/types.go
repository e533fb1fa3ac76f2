package parser

import (
	"nsguard/internal/ast"
	"nsguard/internal/token"
)

// parseTypeAt parses a type expression starting at token i and bounded by
// limit. It returns the index right after the type.
func (p *Parser) parseTypeAt(i, limit int) (ast.TypeRef, int, bool) {
	start := i
	var tr ast.TypeRef

	switch p.kindAt(i) {
	case token.KwMapping:
		if p.kindAt(i+1) != token.LParen {
			return tr, i, false
		}
		closeIdx, ok := p.matchGroup(i+1, limit)
		if !ok {
			return tr, i, false
		}
		arrow := -1
		depth := 0
		for j := i + 2; j < closeIdx; j++ {
			switch p.toks[j].Kind {
			case token.LParen:
				depth++
			case token.RParen:
				depth--
			case token.Arrow:
				if depth == 0 && arrow < 0 {
					arrow = j
				}
			}
		}
		if arrow < 0 {
			return tr, i, false
		}
		key, _, ok := p.parseTypeAt(i+2, arrow)
		if !ok {
			return tr, i, false
		}
		val, _, ok := p.parseTypeAt(arrow+1, closeIdx)
		if !ok {
			return tr, i, false
		}
		tr.Mapping = true
		tr.Key = &key
		tr.Elem = &val
		i = closeIdx + 1

	case token.Ident:
		i++
		for p.kindAt(i) == token.Dot && p.kindAt(i+1) == token.Ident && i+1 < limit {
			i += 2
		}
		if p.toks[start].Text == "address" && p.kindAt(i) == token.KwPayable && i < limit {
			i++
		}

	case token.KwFunction:
		// function types: keep the whole signature as opaque text
		i++
		if p.kindAt(i) != token.LParen {
			return tr, i, false
		}
		closeIdx, ok := p.matchGroup(i, limit)
		if !ok {
			return tr, i, false
		}
		i = closeIdx + 1
		for i < limit {
			k := p.kindAt(i)
			if k == token.KwExternal || k == token.KwInternal || k == token.KwView || k == token.KwPure || k == token.KwPayable {
				i++
				continue
			}
			if k == token.KwReturns && p.kindAt(i+1) == token.LParen {
				c, ok := p.matchGroup(i+1, limit)
				if !ok {
					return tr, i, false
				}
				i = c + 1
				continue
			}
			break
		}

	default:
		return tr, i, false
	}

	tr.Span = p.span(start, i)
	tr.Text = p.file.Text(tr.Span)

	for i < limit && p.kindAt(i) == token.LBracket {
		closeIdx, ok := p.matchGroup(i, limit)
		if !ok {
			break
		}
		elem := tr
		i = closeIdx + 1
		sp := p.span(start, i)
		tr = ast.TypeRef{Text: p.file.Text(sp), Span: sp, Array: true, Elem: &elem}
	}
	return tr, i, true
}
