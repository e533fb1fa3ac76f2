package parser

import (
	"nsguard/internal/ast"
	"nsguard/internal/token"
)

// parseFunction parses function, constructor, modifier, fallback and receive
// declarations. Modifier invocations and override lists are skipped.
func (p *Parser) parseFunction(end int) *ast.Node {
	first := p.pos
	kw := p.cur()
	n := &ast.Node{Kind: ast.KindFunction, First: first, Leading: kw.Leading}

	switch kw.Kind {
	case token.KwConstructor:
		n.FuncKind = ast.FuncConstructor
	case token.KwModifier:
		n.FuncKind = ast.FuncModifier
	case token.KwFallback:
		n.FuncKind = ast.FuncFallback
	case token.KwReceive:
		n.FuncKind = ast.FuncReceive
	}

	switch {
	case kw.Kind == token.KwFunction || kw.Kind == token.KwModifier:
		next := p.kindAt(p.pos + 1)
		if next == token.Ident || next == token.KwFallback || next == token.KwReceive {
			p.advance()
			n.Name = p.cur().Text
			n.NameSpan = p.cur().Span
		} else if kw.Kind == token.KwFunction && !p.hasBodyAhead(end) {
			// function-typed state variable: `function (uint) external f;`
			return p.parseStateVar(end)
		} else if kw.Kind == token.KwFunction {
			n.FuncKind = ast.FuncFallback
			n.Name = "fallback"
			n.NameSpan = kw.Span
		}
	default:
		n.Name = kw.Text
		n.NameSpan = kw.Span
	}
	p.advance()

	if p.at(token.LParen) {
		n.Params = p.parseParamList(end)
	}

	for p.pos < end && !p.at(token.LBrace) && !p.at(token.Semicolon) && !p.at(token.EOF) {
		switch p.cur().Kind {
		case token.KwReturns:
			p.advance()
			if p.at(token.LParen) {
				n.Returns = p.parseParamList(end)
			}
		case token.LParen:
			closeIdx, ok := p.matchGroup(p.pos, end)
			if !ok {
				p.errorf("unbalanced-parens", p.cur().Span, "parenthesis is not closed")
				p.seek(closeIdx)
				n.Last = p.pos
				n.Span = p.span(first, p.pos)
				return n
			}
			p.seek(closeIdx + 1)
		default:
			p.advance()
		}
	}

	switch {
	case p.at(token.LBrace):
		open := p.pos
		closeIdx, ok := p.matchBrace(open, end, false)
		if !ok {
			p.errorf("unbalanced-braces", p.cur().Span, "function body is not closed")
			p.seek(closeIdx)
			break
		}
		n.Body = ast.Block{
			Present: true,
			LBrace:  p.toks[open].Span,
			RBrace:  p.toks[closeIdx].Span,
			First:   open + 1,
			Last:    closeIdx,
		}
		p.seek(closeIdx + 1)
	case p.at(token.Semicolon):
		p.advance()
	}

	n.Last = p.pos
	n.Span = p.span(first, p.pos)
	return n
}

// parseParamList parses `( T [loc] [name], ... )` starting at '('.
func (p *Parser) parseParamList(end int) []ast.Param {
	open := p.pos
	closeIdx, ok := p.matchGroup(open, end)
	if !ok {
		p.errorf("unbalanced-parens", p.cur().Span, "parameter list is not closed")
		p.seek(closeIdx)
		return nil
	}

	var params []ast.Param
	segStart := open + 1
	depth := 0
	for i := open + 1; i <= closeIdx; i++ {
		k := p.toks[i].Kind
		switch {
		case k == token.LParen || k == token.LBracket:
			depth++
			continue
		case (k == token.RParen || k == token.RBracket) && i != closeIdx:
			depth--
			continue
		case k == token.Comma && depth == 0, i == closeIdx:
		default:
			continue
		}
		if i > segStart {
			if prm, ok := p.parseParam(segStart, i); ok {
				params = append(params, prm)
			}
		}
		segStart = i + 1
	}
	p.seek(closeIdx + 1)
	return params
}

func (p *Parser) parseParam(from, to int) (ast.Param, bool) {
	tr, i, ok := p.parseTypeAt(from, to)
	if !ok {
		return ast.Param{}, false
	}
	prm := ast.Param{Type: tr}
	for ; i < to; i++ {
		t := p.toks[i]
		switch {
		case t.IsDataLocation() || t.Kind == token.KwTransient:
			prm.Location = t.Kind
		case t.Kind == token.Ident && t.Text == "indexed":
		case t.Kind == token.Ident && prm.Name == "":
			prm.Name = t.Text
			prm.NameSpan = t.Span
		}
	}
	return prm, true
}

// hasBodyAhead reports whether a '{' comes before the next ';' at paren
// depth zero, which distinguishes a pre-0.6 unnamed fallback from a
// function-typed variable.
func (p *Parser) hasBodyAhead(end int) bool {
	depth := 0
	for i := p.pos; i < end; i++ {
		switch p.toks[i].Kind {
		case token.LParen:
			depth++
		case token.RParen:
			depth--
		case token.LBrace:
			if depth == 0 {
				return true
			}
		case token.Semicolon, token.EOF:
			if depth == 0 {
				return false
			}
		}
	}
	return false
}
