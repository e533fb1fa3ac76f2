package parser

import (
	"nsguard/internal/source"
	"nsguard/internal/token"
)

// cur returns the current token; past the end it is the trailing EOF.
func (p *Parser) cur() token.Token {
	return p.toks[min(p.pos, len(p.toks)-1)]
}

func (p *Parser) at(k token.Kind) bool {
	return p.cur().Kind == k
}

// seek moves to token i, clamped to the trailing EOF.
func (p *Parser) seek(i int) {
	p.pos = max(0, min(i, len(p.toks)-1))
}

// kindAt returns the kind at index i, or EOF past the end.
func (p *Parser) kindAt(i int) token.Kind {
	if i < 0 || i >= len(p.toks) {
		return token.EOF
	}
	return p.toks[i].Kind
}

func (p *Parser) advance() token.Token {
	tok := p.cur()
	if tok.Kind != token.EOF {
		p.seek(p.pos + 1)
	}
	return tok
}

// span covers tokens [first, last).
func (p *Parser) span(first, last int) source.Span {
	if last <= first {
		return p.toks[first].Span.At(p.toks[first].Span.Start)
	}
	return p.toks[first].Span.Cover(p.toks[last-1].Span)
}

// isTopLevelStart reports tokens that never occur inside a contract body.
// Brace matching stops at them so one unbalanced contract does not swallow
// the rest of the file.
func isTopLevelStart(k token.Kind) bool {
	switch k {
	case token.KwContract, token.KwAbstract, token.KwLibrary, token.KwInterface, token.KwPragma, token.KwImport:
		return true
	}
	return false
}

// matchBrace returns the index of the '}' closing the '{' at open. When the
// brace is unbalanced it returns the index where matching stopped and false.
func (p *Parser) matchBrace(open, limit int, stopAtTop bool) (int, bool) {
	depth := 0
	for i := open; i < limit && i < len(p.toks); i++ {
		switch k := p.toks[i].Kind; {
		case k == token.EOF:
			return i, false
		case stopAtTop && i > open && isTopLevelStart(k):
			return i, false
		case k == token.LBrace:
			depth++
		case k == token.RBrace:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	if limit > len(p.toks) {
		limit = len(p.toks)
	}
	return limit, false
}

// matchGroup returns the index of the closer matching the '(' or '[' at open.
func (p *Parser) matchGroup(open, limit int) (int, bool) {
	openK := p.toks[open].Kind
	closeK := token.RParen
	if openK == token.LBracket {
		closeK = token.RBracket
	}
	depth := 0
	for i := open; i < limit && i < len(p.toks); i++ {
		switch p.toks[i].Kind {
		case openK:
			depth++
		case closeK:
			depth--
			if depth == 0 {
				return i, true
			}
		case token.EOF:
			return i, false
		}
	}
	return limit, false
}

// skipStatement advances past the next ';' at nesting depth zero. It stops
// before a '}' that would close the enclosing block, and never past end.
func (p *Parser) skipStatement(end int) {
	depth := 0
	for p.pos < end && !p.at(token.EOF) {
		switch p.cur().Kind {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket:
			if depth > 0 {
				depth--
			}
		case token.RBrace:
			if depth == 0 {
				return
			}
			depth--
		case token.Semicolon:
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}
