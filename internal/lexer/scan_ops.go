package lexer

import (
	"nsguard/internal/token"
)

// Longest match first.
var ops3 = []string{">>>=", "**=", "<<=", ">>=", ">>>"}

var ops2 = []string{
	"=>", "==", "!=", "<=", ">=", "&&", "||", "<<", ">>", "**", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", ":=", "->",
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	for _, group := range [][]string{ops3, ops2} {
		for _, op := range group {
			if lx.cursor.HasPrefix(op) {
				lx.cursor.Skip(len(op))
				kind := token.Op
				if op == "=>" {
					kind = token.Arrow
				}
				return lx.emit(kind, start)
			}
		}
	}

	ch := lx.cursor.Bump()
	switch ch {
	case '(':
		return lx.emit(token.LParen, start)
	case ')':
		return lx.emit(token.RParen, start)
	case '{':
		return lx.emit(token.LBrace, start)
	case '}':
		return lx.emit(token.RBrace, start)
	case '[':
		return lx.emit(token.LBracket, start)
	case ']':
		return lx.emit(token.RBracket, start)
	case ';':
		return lx.emit(token.Semicolon, start)
	case ',':
		return lx.emit(token.Comma, start)
	case '.':
		return lx.emit(token.Dot, start)
	case ':':
		return lx.emit(token.Colon, start)
	case '=':
		return lx.emit(token.Assign, start)
	case '+', '-', '*', '/', '%', '<', '>', '!', '~', '&', '|', '^', '?':
		return lx.emit(token.Op, start)
	}

	tok := lx.emit(token.Invalid, start)
	lx.report("unknown-char", tok.Span, "unexpected character")
	return tok
}
